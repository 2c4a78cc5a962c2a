package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix       = "stock:"
	idempotencyKeyPrefix = "idempotency:"
	idempotencyKeyTTL    = 24 * time.Hour

	invoiceChannel = "invoices:changed"
)

var ErrDuplicateRequest = errors.New("duplicate request")

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Claim records key for 24h. It returns ErrDuplicateRequest when the key was
// already claimed.
func (r *RedisAdapter) Claim(ctx context.Context, key string) error {
	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return ErrDuplicateRequest
	}
	return nil
}

// Release forgets key so a failed request can be retried with it.
func (r *RedisAdapter) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

func (r *RedisAdapter) SetStock(ctx context.Context, productID uint, quantity int) error {
	return r.client.Set(ctx, stockKey(productID), quantity, 0).Err()
}

// SetStocks writes every level in one round trip.
func (r *RedisAdapter) SetStocks(ctx context.Context, levels map[uint]int) error {
	if len(levels) == 0 {
		return nil
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, qty := range levels {
			pipe.Set(ctx, stockKey(id), qty, 0)
		}
		return nil
	})
	return err
}

// GetStock returns the mirrored level. ok is false when the product has not
// been mirrored yet.
func (r *RedisAdapter) GetStock(ctx context.Context, productID uint) (int, bool, error) {
	qty, err := r.client.Get(ctx, stockKey(productID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return qty, true, nil
}

func stockKey(productID uint) string {
	return stockKeyPrefix + strconv.FormatUint(uint64(productID), 10)
}

// InvoiceEvents carries invoice change notifications between processes over
// Redis pub/sub.
type InvoiceEvents struct {
	client *redis.Client
}

func NewInvoiceEvents(client *redis.Client) *InvoiceEvents {
	return &InvoiceEvents{client: client}
}

func (e *InvoiceEvents) Publish(ctx context.Context) error {
	return e.client.Publish(ctx, invoiceChannel, "changed").Err()
}

// Subscribe waits for the subscription to be confirmed, so a Publish issued
// after Subscribe returns is never missed.
func (e *InvoiceEvents) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	sub := e.client.Subscribe(ctx, invoiceChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", invoiceChannel, err)
	}

	out := make(chan struct{}, 1)
	msgs := sub.Channel()

	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}
