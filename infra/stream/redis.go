package stream

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis subscribes to the pipeline's pub/sub channel directly. Only
// new_post messages travel this channel; metrics ticks do not.
type Redis struct {
	Options *redis.Options
	Channel string
}

// NewRedis parses a redis:// or rediss:// URL.
func NewRedis(rawURL, channel string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return &Redis{Options: opts, Channel: channel}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Dial(ctx context.Context) (Conn, error) {
	client := redis.NewClient(r.Options)
	ps := client.Subscribe(ctx, r.Channel)
	// Receive blocks until the subscription is confirmed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		_ = client.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", r.Channel, err)
	}
	return &redisConn{client: client, ps: ps}, nil
}

type redisConn struct {
	client *redis.Client
	ps     *redis.PubSub
}

func (c *redisConn) ReadMessage(ctx context.Context) ([]byte, error) {
	msg, err := c.ps.ReceiveMessage(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(msg.Payload), nil
}

func (c *redisConn) Close() error {
	psErr := c.ps.Close()
	if err := c.client.Close(); err != nil {
		return err
	}
	return psErr
}
