package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New builds the client with tracing hooks installed. It does not dial; use Ping.
func New(cfg Config) (*Client, error) {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	// spans for redis commands join the request trace
	if err := redisotel.InstrumentTracing(redisdb); err != nil {
		_ = redisdb.Close()
		return nil, fmt.Errorf("instrument redis tracing: %w", err)
	}

	return &Client{redisdb: redisdb}, nil
}

// this ping function checks redis connectivity

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

// this closes the client

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Raw exposes the underlying client for the token denylist.
func (c *Client) Raw() *redis.Client {
	return c.redisdb
}
