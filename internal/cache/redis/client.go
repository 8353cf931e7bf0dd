package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khansaheem825/grammar-evaluator/pkg/logger"
	"github.com/khansaheem825/grammar-evaluator/pkg/utils"
)

// ErrMiss is returned when no cached feedback exists for a key.
var ErrMiss = errors.New("cache miss")

// Client caches feedback text so identical evaluations of the same text with
// the same model and verbosity skip the external call. Strictly ephemeral;
// losing the cache only costs an extra model call.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Key derives the cache key for one evaluation.
func Key(model, verbosity, text string) string {
	return "feedback:" + utils.HashString(model+"|"+verbosity+"|"+text)
}

func (c *Client) GetFeedback(ctx context.Context, model, verbosity, text string) (string, error) {
	val, err := c.client.Get(ctx, Key(model, verbosity, text)).Result()
	if err == redis.Nil {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cached feedback: %w", err)
	}
	return val, nil
}

func (c *Client) SetFeedback(ctx context.Context, model, verbosity, text, feedback string) error {
	if err := c.client.Set(ctx, Key(model, verbosity, text), feedback, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache feedback: %w", err)
	}
	return nil
}
