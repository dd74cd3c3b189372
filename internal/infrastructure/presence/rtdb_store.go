package presence

import (
	"context"

	"firebase.google.com/go/v4/db"

	"predu/internal/domain/entity"
)

type rtdbStatus struct {
	State       string `json:"state"`
	LastChanged int64  `json:"last_changed"`
}

// RealtimeDBStore writes status/{uid} in the Firebase Realtime Database.
type RealtimeDBStore struct {
	client *db.Client
}

func NewRealtimeDBStore(client *db.Client) *RealtimeDBStore {
	return &RealtimeDBStore{client: client}
}

func (s *RealtimeDBStore) Write(ctx context.Context, userID string, state entity.PresenceState) error {
	return s.client.NewRef("status/"+userID).Set(ctx, rtdbStatus{
		State:       string(state.State),
		LastChanged: state.LastChanged.UnixMilli(),
	})
}
