package notify

import (
	"cab-booking-service/internal/ports"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStreamSink appends booking events to a Redis stream.
type RedisStreamSink struct {
	Client *redis.Client
	Stream string
	// MaxLen caps the stream approximately; zero keeps every entry.
	MaxLen int64
}

func NewRedisStreamSink(client *redis.Client, stream string) *RedisStreamSink {
	return &RedisStreamSink{Client: client, Stream: stream, MaxLen: 10000}
}

// DialRedis opens a client for addr and verifies it with PING.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis sink: ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStreamSink) Notify(ctx context.Context, n ports.Notification) error {
	body, err := encodeEvent(n)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: s.Stream,
		Values: map[string]any{
			"event":      string(n.Event),
			"routing":    routingKey(n.Event),
			"booking_id": n.Booking.ID,
			"payload":    string(body),
		},
	}
	if s.MaxLen > 0 {
		args.MaxLen = s.MaxLen
		args.Approx = true
	}

	if err := s.Client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis sink: xadd %s: %w", s.Stream, err)
	}
	return nil
}
