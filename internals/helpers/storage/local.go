package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalDisk menyimpan file di folder public yang di-serve Fiber (app.Static).
type LocalDisk struct {
	Root       string // folder fisik, mis. ./public/uploads
	PublicBase string // prefix URL, mis. /uploads
	Now        func() time.Time
}

func NewLocalDisk(root, publicBase string) (*LocalDisk, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root kosong")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	return &LocalDisk{Root: root, PublicBase: strings.TrimRight(publicBase, "/"), Now: time.Now}, nil
}

func (d *LocalDisk) Put(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
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

	key := objectKey("", dir, d.Now())
	full := filepath.Join(d.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return d.PublicBase + "/" + key, nil
}

func (d *LocalDisk) Delete(ctx context.Context, publicURL string) error {
	key, ok := d.keyFromURL(publicURL)
	if !ok {
		return fmt.Errorf("url bukan milik local disk: %s", publicURL)
	}
	err := os.Remove(filepath.Join(d.Root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *LocalDisk) keyFromURL(u string) (string, bool) {
	prefix := d.PublicBase + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
