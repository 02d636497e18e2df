package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gymku_backend/internals/configs"
	"gymku_backend/internals/constants"
	helper "gymku_backend/internals/helpers"
)

/*
Disk adalah facade upload/hapus gambar yang seragam untuk service.
Nilai yang disimpan di DB adalah public URL hasil Put.
*/
type Disk interface {
	Put(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL string, err error)
	Delete(ctx context.Context, publicURL string) error
}

// New memilih backend sesuai STORAGE_DRIVER.
func New(cfg configs.StorageConfig) (Disk, error) {
	switch strings.ToLower(cfg.Driver) {
	case "oss":
		return NewOSSDisk(cfg)
	case "memory":
		return NewMemoryDisk(), nil
	case "", "local":
		return NewLocalDisk(cfg.LocalDir, cfg.PublicBase)
	default:
		return nil, fmt.Errorf("storage driver tidak dikenal: %s", cfg.Driver)
	}
}

// DeleteManyBestEffort menghapus file satu per satu; kegagalan hanya di-log.
func DeleteManyBestEffort(ctx context.Context, d Disk, urls []string) {
	if d == nil {
		return
	}
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if err := d.Delete(ctx, u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("[STORAGE] gagal hapus file, lanjut")
		}
	}
}

// Removed: url yang ada di before tapi tidak ada di after.
func Removed(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var out []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}

// CheckSubset: daftar gambar baru hanya boleh berisi url yang sudah tersimpan
// (hapus/urutkan ulang saja, upload lewat endpoint images).
func CheckSubset(before, after []string) error {
	known := make(map[string]struct{}, len(before))
	for _, u := range before {
		known[u] = struct{}{}
	}
	for _, u := range after {
		if _, ok := known[u]; !ok {
			return helper.NewFieldError("images", "Gambar tidak dikenal: "+u)
		}
	}
	return nil
}

// ValidateImage cek ukuran & ekstensi sebelum diproses.
func ValidateImage(fh *multipart.FileHeader) error {
	if fh == nil {
		return fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if fh.Size > constants.MaxImageUploadSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran gambar maksimal 5MB")
	}
	if !constants.IsImageExt(fh.Filename) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "Format gambar tidak didukung")
	}
	return nil
}

// objectKey: <dir>/<yyyy>/<mm>/<uuid>.webp
func objectKey(prefix, dir string, now time.Time) string {
	return path.Join(
		strings.Trim(prefix, "/"),
		strings.Trim(dir, "/"),
		now.Format("2006"), now.Format("01"),
		uuid.NewString()+".webp",
	)
}
