package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Lock(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var mu sync.Mutex
	inside := 0
	maxInside := 0
	wg := sync.WaitGroup{}
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, "user:1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			maxInside = max(maxInside, inside)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
	assert.Empty(t, m.keys)
}

func TestMemory_LockContextDone(t *testing.T) {
	m := NewMemory()
	unlock, err := m.Lock(context.Background(), "user:1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, "user:1")
	assert.ErrorIs(t, err, ErrNotAcquired)

	other, err := m.Lock(context.Background(), "user:2")
	require.NoError(t, err)
	other()
}

func TestMemory_EmptyKey(t *testing.T) {
	_, err := NewMemory().Lock(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestNew_WithoutRedis(t *testing.T) {
	l, err := New(context.Background(), &Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, l)
}
