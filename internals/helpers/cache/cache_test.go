package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_TTLAndPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(16)
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "dashboard:admin", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "dashboard:trainer:3", []byte("2"), time.Minute))
	require.NoError(t, m.Set(ctx, "other", []byte("3"), time.Minute))

	v, ok, err := m.Get(ctx, "dashboard:admin")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, m.DeletePrefix(ctx, "dashboard:"))
	_, ok, _ = m.Get(ctx, "dashboard:trainer:3")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "other")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = m.Get(ctx, "other")
	assert.False(t, ok)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(16)
	calls := 0
	fn := func() (map[string]int, error) {
		calls++
		return map[string]int{"n": calls}, nil
	}

	v1, err := Remember(ctx, m, "k", time.Minute, fn)
	require.NoError(t, err)
	v2, err := Remember(ctx, m, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, v1, v2)

	Invalidate(ctx, m, "k")
	v3, err := Remember(ctx, m, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v3["n"])

	_, err = Remember(ctx, m, "e", time.Minute, func() (int, error) { return 0, errors.New("db down") })
	assert.Error(t, err)

	// cache nil tetap jalan
	v4, err := Remember[int](ctx, nil, "x", time.Minute, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v4)
}
