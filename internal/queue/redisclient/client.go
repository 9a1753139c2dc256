package redisclient

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by BlockingPop when the queue stayed empty for the
// whole wait window.
var ErrEmpty = errors.New("queue empty")

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  -1, // BRPOP manages its own wait window
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

// this ping function checks redis connectivity

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

// Push appends a raw message to the tail of the named list.

func (c *Client) Push(ctx context.Context, key string, raw []byte) error {
	return c.redisdb.LPush(ctx, key, raw).Err()
}

// BlockingPop waits up to timeout for a message on the named list.

func (c *Client) BlockingPop(ctx context.Context, key string, timeout time.Duration) ([]byte, error) {
	res, err := c.redisdb.BRPop(ctx, timeout, key).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}

		return nil, err
	}

	// BRPOP result is [key, value]
	if len(res) < 2 {
		return nil, ErrEmpty
	}

	return []byte(res[1]), nil
}

// this closes the client

func (c *Client) Close() error {
	return c.redisdb.Close()
}
