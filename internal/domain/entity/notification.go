package entity

import "time"

type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Emoji       string    `json:"emoji"`
	Type        string    `json:"type,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NotificationInput is a notification before the service assigns
// id, read and createdAt.
type NotificationInput struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Emoji       string `json:"emoji" validate:"max=16"`
	Type        string `json:"type" validate:"max=64"`
}

const (
	NotificationTypeWelcome       = "welcome"
	NotificationTypeTutorRejected = "tutor-request-rejected"
)
