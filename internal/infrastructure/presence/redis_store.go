package presence

import (
	"context"

	"github.com/redis/go-redis/v9"

	"predu/internal/domain/entity"
)

// RedisStore keeps presence:{uid} as a hash of state and last_changed (unix
// millis). Keys do not expire; the armed offline write clears stale state.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func presenceKey(userID string) string {
	return "presence:" + userID
}

func (s *RedisStore) Write(ctx context.Context, userID string, state entity.PresenceState) error {
	return s.client.HSet(ctx, presenceKey(userID),
		"state", string(state.State),
		"last_changed", state.LastChanged.UnixMilli(),
	).Err()
}
