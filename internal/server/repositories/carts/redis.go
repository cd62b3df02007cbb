package carts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	retryBaseDelay = time.Millisecond
	retryMaxDelay  = 50 * time.Millisecond
)

var ErrTooMuchContention = errors.New("cart update conflicted too many times")

// RedisRepository stores each cart as a JSON array under "cart:<id>".
// Mutate runs an optimistic WATCH/MULTI transaction and retries with
// jittered backoff until it commits or ctx is done.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

var _ Repository = (*RedisRepository)(nil)

func (r *RedisRepository) getKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

func (r *RedisRepository) Read(ctx context.Context, cartID string) ([]models.CartLine, error) {
	return load(ctx, r.client, r.getKey(cartID))
}

func (r *RedisRepository) Mutate(ctx context.Context, cartID string, fn MutateFunc) ([]models.CartLine, error) {
	key := r.getKey(cartID)

	var result []models.CartLine
	txf := func(tx *redis.Tx) error {
		lines, err := load(ctx, tx, key)
		if err != nil {
			return err
		}

		next, err := fn(lines)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(next) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		result = cloneLines(next)
		return nil
	}

	for attempt := 0; ; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTooMuchContention, ctx.Err())
		}

		t := time.NewTimer(retryDelay(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("%w: %w", ErrTooMuchContention, ctx.Err())
		case <-t.C:
		}
	}
}

// retryDelay is a capped exponential delay with full jitter.
func retryDelay(attempt int) time.Duration {
	d := retryMaxDelay
	if attempt < 16 {
		d = min(retryBaseDelay<<attempt, retryMaxDelay)
	}
	return time.Duration(rand.Int64N(int64(d))) + 1
}

func (r *RedisRepository) Clear(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, r.getKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, key string) ([]models.CartLine, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("corrupt cart %s: %w", key, err)
	}
	return lines, nil
}
