package repository

import (
	"context"
	"encoding/json"
	"time"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/internal/infrastructure/kvstore"
	"predu/pkg/logger"
)

const kvTimeout = 5 * time.Second

type kvNotificationStore struct {
	store kvstore.Store
}

// NewKVNotificationStore serializes the notification list as a JSON array
// under repository.NotificationsKey.
func NewKVNotificationStore(store kvstore.Store) repository.NotificationStore {
	return &kvNotificationStore{store: store}
}

func (s *kvNotificationStore) Load() []entity.Notification {
	ctx, cancel := context.WithTimeout(context.Background(), kvTimeout)
	defer cancel()

	data, ok, err := s.store.Get(ctx, repository.NotificationsKey)
	if err != nil {
		logger.LogPersistenceError("notifications", repository.NotificationsKey, err)
		return []entity.Notification{}
	}
	if !ok {
		return []entity.Notification{}
	}

	var notifications []entity.Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		logger.Warn("Discarding unreadable notification list: %v", err)
		return []entity.Notification{}
	}
	if notifications == nil {
		return []entity.Notification{}
	}
	return notifications
}

func (s *kvNotificationStore) Save(notifications []entity.Notification) error {
	if notifications == nil {
		notifications = []entity.Notification{}
	}
	data, err := json.Marshal(notifications)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), kvTimeout)
	defer cancel()
	return s.store.Set(ctx, repository.NotificationsKey, data)
}
