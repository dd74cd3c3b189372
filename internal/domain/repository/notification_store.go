package repository

import "predu/internal/domain/entity"

// NotificationsKey is the durable storage key of the notification list.
const NotificationsKey = "predu-notifications"

// NotificationStore persists the whole notification list. Load never fails:
// missing or corrupt data reads as an empty list.
type NotificationStore interface {
	Load() []entity.Notification
	Save(notifications []entity.Notification) error
}
