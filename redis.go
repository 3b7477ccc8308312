package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// sessionTTL bounds how long an idle session (and its chat threads) survives
const sessionTTL = 24 * time.Hour

// initRedis initializes the Redis connection
func initRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis:6379"
	}

	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", redisURL))
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	redisClient = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	return nil
}

// redisSessionStore keeps session state as JSON under session:<token> keys.
// Writes are explicit: mutated state is only visible after Save.
type redisSessionStore struct {
	client *redis.Client
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (*SessionState, error) {
	data, err := s.client.Get(ctx, "session:"+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &state, nil
}

func (s *redisSessionStore) Save(ctx context.Context, token string, state *SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.client.Set(ctx, "session:"+token, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, "session:"+token).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
