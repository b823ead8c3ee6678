// Package locker serializes work per key, in process or across replicas.
package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrNotAcquired = errors.New("lock not acquired")
	ErrEmptyKey    = errors.New("lock key is empty")
)

type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned function
	// releases the key and is safe to call once.
	Lock(ctx context.Context, key string) (func(), error)
}

type Config struct {
	RedisAddress string        `env:"REDIS_ADDRESS"`
	RedisDB      int           `env:"REDIS_DB" envDefault:"0"`
	TTL          time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	RetryDelay   time.Duration `env:"LOCK_RETRY_DELAY" envDefault:"25ms"`
	MaxAttempts  int           `env:"LOCK_MAX_ATTEMPTS" envDefault:"200"`
}

// New returns a Redis locker when an address is configured and a process
// local one otherwise.
func New(ctx context.Context, cfg *Config, log *zap.Logger) (Locker, error) {
	if cfg == nil || cfg.RedisAddress == "" {
		return NewMemory(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddress,
		DB:   cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed ping redis `%s`: %w", cfg.RedisAddress, err)
	}
	log.Info("use redis locker", zap.String("address", cfg.RedisAddress))

	return NewRedis(client, cfg.TTL, cfg.RetryDelay, cfg.MaxAttempts), nil
}

type entry struct {
	ch   chan struct{}
	refs int
}

type Memory struct {
	mu   sync.Mutex
	keys map[string]*entry
}

func NewMemory() *Memory {
	return &Memory{keys: make(map[string]*entry)}
}

func (m *Memory) Lock(ctx context.Context, key string) (func(), error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	m.mu.Lock()
	e, ok := m.keys[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.keys[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.drop(key, e)
		return nil, fmt.Errorf("%w: %w", ErrNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			m.drop(key, e)
		})
	}, nil
}

func (m *Memory) drop(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.keys, key)
	}
}

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type Redis struct {
	client      *redis.Client
	script      *redis.Script
	ttl         time.Duration
	retryDelay  time.Duration
	maxAttempts int
}

func NewRedis(client *redis.Client, ttl, retryDelay time.Duration, maxAttempts int) *Redis {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Redis{
		client:      client,
		script:      redis.NewScript(lockReleaseScript),
		ttl:         ttl,
		retryDelay:  retryDelay,
		maxAttempts: maxAttempts,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	token := uuid.NewString()
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed set lock `%s`: %w", key, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					_ = r.script.Run(context.WithoutCancel(ctx), r.client, []string{key}, token).Err()
				})
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrNotAcquired, ctx.Err())
		case <-time.After(r.retryDelay):
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
}
