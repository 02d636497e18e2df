package helper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const defaultSlugLen = 100

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify: huruf kecil, diakritik dibuang (é -> e), selain [a-z0-9] jadi "-".
// Hasil bisa kosong kalau nama tidak mengandung huruf/angka sama sekali.
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultSlugLen
	}
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(s))) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := reNonAlnum.ReplaceAllString(b.String(), "-")
	out = strings.Trim(reHyphen.ReplaceAllString(out, "-"), "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

// SlugSpec target slug untuk UniqueSlug.
type SlugSpec struct {
	Table     string
	Column    string // default "slug"
	ExcludeID uint   // id row sendiri saat update
	MaxLen    int
	Fallback  string // dipakai kalau nama tidak menghasilkan slug, default "item"
}

// UniqueSlug membentuk slug dari name lalu memastikan unik (case-insensitive)
// di tabel tujuan. Bentrok diberi suffix -2, -3, ... memakai nomor terkecil yang kosong.
func UniqueSlug(ctx context.Context, db *gorm.DB, spec SlugSpec, name string) (string, error) {
	if spec.Column == "" {
		spec.Column = "slug"
	}
	if spec.MaxLen <= 0 {
		spec.MaxLen = defaultSlugLen
	}
	base := Slugify(name, spec.MaxLen)
	if base == "" {
		base = spec.Fallback
		if base == "" {
			base = "item"
		}
	}

	// ambil semua slug "base" dan "base-N" sekaligus
	var existing []string
	q := db.WithContext(ctx).Table(spec.Table).
		Where(fmt.Sprintf("LOWER(%s) = ? OR LOWER(%s) LIKE ?", spec.Column, spec.Column), base, base+"-%")
	if spec.ExcludeID != 0 {
		q = q.Where("id <> ?", spec.ExcludeID)
	}
	if err := q.Pluck(spec.Column, &existing).Error; err != nil {
		return "", fmt.Errorf("cek slug %s: %w", spec.Table, err)
	}

	taken := make(map[int]bool, len(existing))
	for _, s := range existing {
		s = strings.ToLower(s)
		if s == base {
			taken[1] = true
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(s, base+"-")); err == nil && n >= 2 {
			taken[n] = true
		}
	}
	if !taken[1] {
		return base, nil
	}
	for n := 2; ; n++ {
		if taken[n] {
			continue
		}
		suffix := "-" + strconv.Itoa(n)
		if len(base)+len(suffix) <= spec.MaxLen {
			return base + suffix, nil
		}
		// base dipotong: prefix berubah, cek ulang langsung ke DB
		keep := spec.MaxLen - len(suffix)
		if keep < 1 {
			keep = 1
		}
		cand := strings.TrimRight(base[:keep], "-") + suffix
		var cnt int64
		cq := db.WithContext(ctx).Table(spec.Table).Where(fmt.Sprintf("LOWER(%s) = ?", spec.Column), cand)
		if spec.ExcludeID != 0 {
			cq = cq.Where("id <> ?", spec.ExcludeID)
		}
		if err := cq.Count(&cnt).Error; err != nil {
			return "", fmt.Errorf("cek slug %s: %w", spec.Table, err)
		}
		if cnt == 0 {
			return cand, nil
		}
	}
}
