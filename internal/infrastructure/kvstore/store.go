package kvstore

import (
	"context"
	"strings"
)

// Store is a small durable key-value store. Get reports ok=false for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type scoped struct {
	prefix string
	store  Store
}

// Scoped prefixes every key with prefix + "/".
func Scoped(store Store, prefix string) Store {
	return &scoped{prefix: strings.TrimSuffix(prefix, "/"), store: store}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.store.Get(ctx, s.prefix+"/"+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.store.Set(ctx, s.prefix+"/"+key, value)
}

// UserScope is the namespace of one user's local data.
func UserScope(store Store, userID string) Store {
	return Scoped(store, "users/"+userID)
}
