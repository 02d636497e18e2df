package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/rs/zerolog/log"

	"gymku_backend/internals/configs"
)

// OSSDisk backend Aliyun OSS.
type OSSDisk struct {
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
	PublicBase string
}

func NewOSSDisk(cfg configs.StorageConfig) (*OSSDisk, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSAccessKey == "" || cfg.OSSSecretKey == "" || cfg.OSSBucket == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(cfg.OSSBucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			log.Warn().Str("bucket", cfg.OSSBucket).Msg("[OSS] skip location check (AccessDenied)")
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Info().Str("bucket", cfg.OSSBucket).Str("location", loc).Msg("[OSS] bucket siap")
	}

	return &OSSDisk{
		Bucket:     bkt,
		Endpoint:   cfg.OSSEndpoint,
		BucketName: cfg.OSSBucket,
		Prefix:     strings.Trim(cfg.OSSPrefix, "/"),
		PublicBase: strings.TrimRight(cfg.OSSPublicURL, "/"),
	}, nil
}

func (d *OSSDisk) Put(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if err := ValidateImage(fh); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := ConvertToWebP(src, DefaultWebPOptions)
	if err != nil {
		return "", err
	}

	key := objectKey(d.Prefix, dir, time.Now())
	err = d.Bucket.PutObject(key, bytes.NewReader(data),
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return d.PublicURL(key), nil
}

func (d *OSSDisk) Delete(ctx context.Context, publicURL string) error {
	key, err := d.keyFromURL(publicURL)
	if err != nil {
		return err
	}
	return d.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (d *OSSDisk) PublicURL(key string) string {
	if d.PublicBase != "" {
		return d.PublicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(d.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", d.BucketName, end, key)
}

func (d *OSSDisk) keyFromURL(publicURL string) (string, error) {
	if strings.TrimSpace(publicURL) == "" {
		return "", fmt.Errorf("empty url")
	}
	if d.PublicBase != "" && strings.HasPrefix(publicURL, d.PublicBase+"/") {
		return strings.TrimPrefix(publicURL, d.PublicBase+"/"), nil
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 && i+1 < len(u) {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}
