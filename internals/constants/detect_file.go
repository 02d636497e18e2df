package constants

import (
	"path/filepath"
	"strings"
)

const MaxImageUploadSize = 5 * 1024 * 1024

// IsImageExt: ekstensi yang diterima endpoint upload gambar.
func IsImageExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return true
	default:
		return false
	}
}
