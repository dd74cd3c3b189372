package service

import (
	"context"

	"predu/internal/domain/entity"
)

// PresenceChannel is the fast, ephemeral side of presence. Connectivity
// yields true on (re)connection and false on disconnection. OnDisconnect arms
// a write that the channel performs itself when the current connection drops.
type PresenceChannel interface {
	Connectivity(ctx context.Context, userID string) (<-chan bool, error)
	OnDisconnect(ctx context.Context, userID string, state entity.PresenceState) error
	Set(ctx context.Context, userID string, state entity.PresenceState) error
	GoOffline(userID string)
}

// PresenceRecord is the durable side: the status field of the profile.
type PresenceRecord interface {
	SetPresence(ctx context.Context, userID string, state entity.PresenceState) error
}
