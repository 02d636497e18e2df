package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryItem struct {
	val       []byte
	expiresAt time.Time
}

// Memory cache LRU in-process. TTL per item dicek saat Get;
// LRU-nya sendiri punya TTL maksimum DefaultTTL.
type Memory struct {
	lru *expirable.LRU[string, memoryItem]
	now func() time.Time
}

func NewMemory(size int) *Memory {
	return &Memory{
		lru: expirable.NewLRU[string, memoryItem](size, nil, DefaultTTL),
		now: time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	it, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !it.expiresAt.IsZero() && !m.now().Before(it.expiresAt) {
		m.lru.Remove(key)
		return nil, false, nil
	}
	return it.val, true, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	it := memoryItem{val: val}
	if ttl > 0 {
		it.expiresAt = m.now().Add(ttl)
	}
	m.lru.Add(key, it)
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	for _, k := range m.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			m.lru.Remove(k)
		}
	}
	return nil
}
