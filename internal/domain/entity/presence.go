package entity

import "time"

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

type PresenceState struct {
	State       PresenceStatus `json:"state"`
	LastChanged time.Time      `json:"last_changed"`
}

func Online(at time.Time) PresenceState {
	return PresenceState{State: PresenceOnline, LastChanged: at}
}

func Offline(at time.Time) PresenceState {
	return PresenceState{State: PresenceOffline, LastChanged: at}
}
