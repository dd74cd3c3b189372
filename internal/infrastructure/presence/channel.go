package presence

import (
	"context"
	"sync"

	"predu/internal/domain/entity"
	"predu/pkg/logger"
)

// EphemeralStore is where the fast presence state lives.
type EphemeralStore interface {
	Write(ctx context.Context, userID string, state entity.PresenceState) error
}

type subscriber struct {
	userID string
	ctx    context.Context
	ch     chan bool
}

// ConnectionChannel is the presence channel of one client connection. The
// connection's open and close are its connectivity stream; closing it (or
// GoOffline) performs the writes armed with OnDisconnect.
type ConnectionChannel struct {
	store EphemeralStore

	mu          sync.Mutex
	connected   bool
	armed       map[string]entity.PresenceState
	subscribers map[int]*subscriber
	nextID      int
}

func NewConnectionChannel(store EphemeralStore) *ConnectionChannel {
	return &ConnectionChannel{
		store:       store,
		armed:       make(map[string]entity.PresenceState),
		subscribers: make(map[int]*subscriber),
	}
}

// Connectivity emits the current connectivity right away and every change
// after it, until ctx is done.
func (c *ConnectionChannel) Connectivity(ctx context.Context, userID string) (<-chan bool, error) {
	sub := &subscriber{userID: userID, ctx: ctx, ch: make(chan bool, 1)}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = sub
	sub.ch <- c.connected
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}()

	return sub.ch, nil
}

func (c *ConnectionChannel) OnDisconnect(ctx context.Context, userID string, state entity.PresenceState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed[userID] = state
	return nil
}

func (c *ConnectionChannel) Set(ctx context.Context, userID string, state entity.PresenceState) error {
	return c.store.Write(ctx, userID, state)
}

// GoOffline drops the user's side of the connection: the armed write for
// userID fires and its subscribers stop receiving events.
func (c *ConnectionChannel) GoOffline(userID string) {
	c.mu.Lock()
	state, armed := c.armed[userID]
	delete(c.armed, userID)
	for id, sub := range c.subscribers {
		if sub.userID == userID {
			delete(c.subscribers, id)
		}
	}
	c.mu.Unlock()

	if armed {
		c.fire(userID, state)
	}
}

// SetConnected reports a connectivity change. A drop fires every armed
// write before subscribers hear about it.
func (c *ConnectionChannel) SetConnected(connected bool) {
	c.mu.Lock()
	if c.connected == connected {
		c.mu.Unlock()
		return
	}
	c.connected = connected

	var pending map[string]entity.PresenceState
	if !connected {
		pending = c.armed
		c.armed = make(map[string]entity.PresenceState)
	}
	subs := make([]*subscriber, 0, len(c.subscribers))
	for _, s := range c.subscribers {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for userID, state := range pending {
		c.fire(userID, state)
	}

	for _, s := range subs {
		select {
		case s.ch <- connected:
		case <-s.ctx.Done():
		}
	}
}

func (c *ConnectionChannel) fire(userID string, state entity.PresenceState) {
	if err := c.store.Write(context.Background(), userID, state); err != nil {
		logger.LogPersistenceError("presence", userID, err)
	}
}
