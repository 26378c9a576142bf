package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"route-diary/internal/trips"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pending_trips:"

// RedisStorage keeps one user's pending trips as a JSON list under a
// single key, so the whole queue survives process restarts. Unreadable
// or corrupt state is logged and treated as an empty queue rather than
// blocking detection.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(client *redis.Client, owner string) *RedisStorage {
	return &RedisStorage{client: client, key: keyPrefix + owner}
}

func (s *RedisStorage) Load(ctx context.Context) ([]trips.DetectedTrip, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var pending []trips.DetectedTrip
	if err := json.Unmarshal(raw, &pending); err != nil {
		log.Printf("pending queue %s corrupt, treating as empty: %v", s.key, err)
		return nil, nil
	}
	return pending, nil
}

func (s *RedisStorage) Save(ctx context.Context, pending []trips.DetectedTrip) error {
	if len(pending) == 0 {
		return s.client.Del(ctx, s.key).Err()
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, raw, 0).Err()
}
