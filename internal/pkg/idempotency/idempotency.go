package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInProgress = errors.New("a request with this idempotency key is still being processed")

// Response is a completed response replayed for a repeated key.
type Response struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

//go:generate mockgen -source=idempotency.go -destination=mock/idempotency_mock.go -package=mock

type Store interface {
	// Begin returns the stored response for key when one exists. Otherwise it
	// takes the processing lock and returns nil, or ErrInProgress when another
	// request holds it.
	Begin(ctx context.Context, key string) (*Response, error)
	// Complete stores resp for key and releases the lock.
	Complete(ctx context.Context, key string, resp Response) error
	// Release drops the lock without storing a response.
	Release(ctx context.Context, key string) error
}

type Options struct {
	Prefix      string
	LockTTL     time.Duration
	ResponseTTL time.Duration
}

type RedisStore struct {
	client redis.Cmdable
	opts   Options
}

func NewRedisStore(client redis.Cmdable, opts Options) *RedisStore {
	if opts.Prefix == "" {
		opts.Prefix = "idempotency"
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	if opts.ResponseTTL <= 0 {
		opts.ResponseTTL = 24 * time.Hour
	}
	return &RedisStore{client: client, opts: opts}
}

func (s *RedisStore) responseKey(key string) string {
	return fmt.Sprintf("%s:%s:response", s.opts.Prefix, key)
}

func (s *RedisStore) lockKey(key string) string {
	return fmt.Sprintf("%s:%s:lock", s.opts.Prefix, key)
}

func (s *RedisStore) Begin(ctx context.Context, key string) (*Response, error) {
	raw, err := s.client.Get(ctx, s.responseKey(key)).Bytes()
	switch {
	case err == nil:
		var resp Response
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("decode stored response: %w", err)
		}
		return &resp, nil
	case !errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("get stored response: %w", err)
	}

	acquired, err := s.client.SetNX(ctx, s.lockKey(key), "1", s.opts.LockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, ErrInProgress
	}
	return nil, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, resp Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if err := s.client.Set(ctx, s.responseKey(key), string(raw), s.opts.ResponseTTL).Err(); err != nil {
		return fmt.Errorf("store response: %w", err)
	}
	return s.Release(ctx, key)
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
