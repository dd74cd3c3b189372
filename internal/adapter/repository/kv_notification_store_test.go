package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/internal/infrastructure/kvstore"
)

func newStore(t *testing.T) kvstore.Store {
	t.Helper()
	store, err := kvstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestKVNotificationStoreRoundTrip(t *testing.T) {
	kv := newStore(t)
	store := NewKVNotificationStore(kvstore.UserScope(kv, "u1"))

	assert.Empty(t, store.Load())

	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	list := []entity.Notification{
		{ID: "n2", Title: "Hola", Description: "d", Emoji: "👋", Type: entity.NotificationTypeWelcome, CreatedAt: created},
		{ID: "n1", Title: "Aviso", Read: true, CreatedAt: created.Add(-time.Hour)},
	}
	require.NoError(t, store.Save(list))

	loaded := store.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, "n2", loaded[0].ID)
	assert.True(t, loaded[0].CreatedAt.Equal(created))
	assert.True(t, loaded[1].Read)
	assert.Empty(t, loaded[1].Type)

	other := NewKVNotificationStore(kvstore.UserScope(kv, "u2"))
	assert.Empty(t, other.Load())
}

func TestKVNotificationStoreCorruptDataLoadsEmpty(t *testing.T) {
	kv := newStore(t)
	require.NoError(t, kv.Set(context.Background(), repository.NotificationsKey, []byte("{not json")))

	assert.Empty(t, NewKVNotificationStore(kv).Load())

	require.NoError(t, kv.Set(context.Background(), repository.NotificationsKey, []byte("null")))
	assert.NotNil(t, NewKVNotificationStore(kv).Load())
}
