package usecase

import (
	"context"
	"sync"
	"time"

	"predu/internal/domain/entity"
	"predu/internal/domain/service"
	"predu/pkg/logger"
)

// PresenceHeartbeat keeps the ephemeral and durable presence of one user in
// sync with the connectivity of one client.
type PresenceHeartbeat struct {
	userID  string
	channel service.PresenceChannel
	record  service.PresenceRecord
	now     func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewPresenceHeartbeat(userID string, channel service.PresenceChannel, record service.PresenceRecord) *PresenceHeartbeat {
	return &PresenceHeartbeat{
		userID:  userID,
		channel: channel,
		record:  record,
		now:     time.Now,
	}
}

// Start subscribes to connectivity. It does nothing when the user id or
// either backend is missing.
func (h *PresenceHeartbeat) Start(ctx context.Context) {
	if h.userID == "" || h.channel == nil || h.record == nil {
		return
	}

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	events, err := h.channel.Connectivity(ctx, h.userID)
	if err != nil {
		h.mu.Unlock()
		cancel()
		logger.Warn("Presence: connectivity subscription failed for %s: %v", h.userID, err)
		return
	}
	h.running = true
	h.cancel = cancel
	h.done = make(chan struct{})
	done := h.done
	h.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case connected, ok := <-events:
				if !ok {
					return
				}
				if connected {
					h.onConnected(ctx)
				} else {
					h.onDisconnected(ctx)
				}
			}
		}
	}()
}

// Stop unsubscribes and drops the ephemeral connection. The armed
// on-disconnect write takes care of the ephemeral offline state.
func (h *PresenceHeartbeat) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	cancel, done := h.cancel, h.done
	h.mu.Unlock()

	cancel()
	<-done
	h.channel.GoOffline(h.userID)
}

// onDisconnected outlives Stop: the offline write must land even when the
// disconnect and the shutdown arrive together.
func (h *PresenceHeartbeat) onDisconnected(ctx context.Context) {
	if err := h.record.SetPresence(context.WithoutCancel(ctx), h.userID, entity.Offline(h.now())); err != nil {
		logger.LogPersistenceError("users.status", h.userID, err)
	}
}

func (h *PresenceHeartbeat) onConnected(ctx context.Context) {
	if err := h.channel.OnDisconnect(ctx, h.userID, entity.Offline(h.now())); err != nil {
		logger.Warn("Presence: failed to arm on-disconnect for %s: %v", h.userID, err)
		return
	}

	online := entity.Online(h.now())
	if err := h.channel.Set(ctx, h.userID, online); err != nil {
		logger.LogPersistenceError("presence", h.userID, err)
	}
	if err := h.record.SetPresence(ctx, h.userID, online); err != nil {
		logger.LogPersistenceError("users.status", h.userID, err)
	}
}
