package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const stateKeyPrefix = "fitforge-tracker||"

// RedisStore persists tracker state as one JSON blob per user.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func stateKey(userID string) string {
	return stateKeyPrefix + userID
}

// Get returns the user's tracker state, or the default starter state
// when the user has none yet.
func (s *RedisStore) Get(ctx context.Context, userID string) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.tracker.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	cmd := s.redisClient.Get(ctx, stateKey(userID))
	if errors.Is(cmd.Err(), redis.Nil) {
		span.SetAttributes(attribute.Bool("state.default", true))
		return DefaultState(), nil
	}
	if err := cmd.Err(); err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(cmd.Val()), &state); err != nil {
		return nil, fmt.Errorf("unmarshal tracker state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, state *State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.tracker.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	stateJson, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal tracker state: %w", err)
	}

	if err := s.redisClient.Set(ctx, stateKey(userID), stateJson, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
