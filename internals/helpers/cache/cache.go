package cache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

const DefaultTTL = 10 * time.Minute

// DashboardPrefix semua key agregasi dashboard; dihapus setiap ada write yang relevan.
const DashboardPrefix = "dashboard:"

// Cache key-value sederhana dengan TTL. Miss dikembalikan sebagai ok=false, bukan error.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// New: redis kalau REDIS_URL diisi, selain itu LRU in-memory.
func New(redisURL string) (Cache, error) {
	if redisURL == "" {
		log.Info().Msg("[CACHE] REDIS_URL kosong, pakai in-memory LRU")
		return NewMemory(1024), nil
	}
	return NewRedis(redisURL)
}

// Remember: ambil dari cache, kalau miss hitung via fn lalu simpan.
// Error cache tidak menggagalkan request (best-effort).
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if c != nil {
		if raw, ok, err := c.Get(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[CACHE] get gagal")
		} else if ok {
			var v T
			if err := sonic.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
		}
	}

	v, err := fn()
	if err != nil {
		return v, err
	}

	if c != nil {
		if raw, err := sonic.Marshal(v); err == nil {
			if err := c.Set(ctx, key, raw, ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("[CACHE] set gagal")
			}
		}
	}
	return v, nil
}

// Invalidate hapus semua key dengan prefix; error hanya di-log.
func Invalidate(ctx context.Context, c Cache, prefix string) {
	if c == nil {
		return
	}
	if err := c.DeletePrefix(ctx, prefix); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("[CACHE] invalidate gagal")
	}
}
