package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// boundedPush appends only while the list is below the limit.
var boundedPush = redis.NewScript(`
if redis.call('LLEN', KEYS[1]) >= tonumber(ARGV[2]) then
  return 0
end
redis.call('RPUSH', KEYS[1], ARGV[1])
return 1
`)

// RedisQueue keeps pending sends in a Redis list so they survive restarts.
type RedisQueue struct {
	client redis.Cmdable
	key    string
	max    int
}

func NewRedisQueue(client redis.Cmdable, key string, max int) *RedisQueue {
	if max <= 0 {
		max = 500
	}
	return &RedisQueue{client: client, key: key, max: max}
}

func (q *RedisQueue) Push(ctx context.Context, msg QueuedMessage) error {
	raw, err := sonic.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode queued message: %w", err)
	}
	ok, err := boundedPush.Run(ctx, q.client, []string{q.key}, raw, q.max).Int()
	if err != nil {
		return fmt.Errorf("redis push: %w", err)
	}
	if ok == 0 {
		return ErrQueueFull
	}
	return nil
}

func (q *RedisQueue) Requeue(ctx context.Context, msgs []QueuedMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	// LPUSH prepends one value at a time, so push in reverse to keep order
	values := make([]any, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		raw, err := sonic.Marshal(msgs[i])
		if err != nil {
			return fmt.Errorf("encode queued message: %w", err)
		}
		values = append(values, raw)
	}
	if err := q.client.LPush(ctx, q.key, values...).Err(); err != nil {
		return fmt.Errorf("redis requeue: %w", err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context) (*QueuedMessage, error) {
	raw, err := q.client.LPop(ctx, q.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis pop: %w", err)
	}
	var msg QueuedMessage
	if err := sonic.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode queued message: %w", err)
	}
	return &msg, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis len: %w", err)
	}
	return int(n), nil
}
