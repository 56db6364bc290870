// Package broadcast announces round starts and round ends on Redis pub/sub
// channels, so front-ends can render the summaries the engine no longer
// formats itself.
package broadcast

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Published channels.
const (
	ChannelRoundStart = "eloqueue.rounds.start"
	ChannelRoundEnd   = "eloqueue.rounds.end"
)

// Publisher pushes a payload onto a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Close() error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to Redis and verifies the connection with a
// ping before returning.
func NewRedisPublisher(ctx context.Context, addr, password string, db int) (Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to reach redis at %q: %w", addr, err)
	}
	return &redisPublisher{client: client}, nil
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("unable to publish to %q: %w", channel, err)
	}
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}
