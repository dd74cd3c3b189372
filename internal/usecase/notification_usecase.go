package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/logger"
)

const DefaultMaxNotifications = 50

// NotificationService keeps the notification list in memory and mirrors every
// mutation to its store. A failed save is logged; the in-memory list stays
// authoritative for the rest of the session.
type NotificationService struct {
	store repository.NotificationStore
	max   int
	now   func() time.Time
	newID func() string

	mu            sync.Mutex
	notifications []entity.Notification
	subscribers   map[int]func([]entity.Notification)
	nextSubID     int
	version       uint64
	savedVersion  uint64
	flushing      bool
}

func NewNotificationService(store repository.NotificationStore, max int) *NotificationService {
	if max <= 0 {
		max = DefaultMaxNotifications
	}
	loaded := store.Load()
	if len(loaded) > max {
		loaded = loaded[:max]
	}
	return &NotificationService{
		store:         store,
		max:           max,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
		notifications: loaded,
		subscribers:   make(map[int]func([]entity.Notification)),
	}
}

// Add prepends a new unread notification. When input.Type is set and a
// notification of that type is already in the list, the new one is dropped.
func (s *NotificationService) Add(input entity.NotificationInput) {
	s.update(func(current []entity.Notification) ([]entity.Notification, bool) {
		if input.Type != "" {
			for _, n := range current {
				if n.Type == input.Type {
					return current, false
				}
			}
		}

		created := entity.Notification{
			ID:          s.newID(),
			Title:       input.Title,
			Description: input.Description,
			Emoji:       input.Emoji,
			Type:        input.Type,
			Read:        false,
			CreatedAt:   s.now(),
		}

		next := make([]entity.Notification, 0, len(current)+1)
		next = append(next, created)
		next = append(next, current...)
		if len(next) > s.max {
			next = next[:s.max]
		}
		return next, true
	})
}

// MarkRead is a no-op for an unknown id.
func (s *NotificationService) MarkRead(id string) {
	s.update(func(current []entity.Notification) ([]entity.Notification, bool) {
		for i, n := range current {
			if n.ID == id {
				if n.Read {
					return current, false
				}
				next := make([]entity.Notification, len(current))
				copy(next, current)
				next[i].Read = true
				return next, true
			}
		}
		return current, false
	})
}

// Remove is a no-op for an unknown id, so removing twice is safe.
func (s *NotificationService) Remove(id string) {
	s.update(func(current []entity.Notification) ([]entity.Notification, bool) {
		for i, n := range current {
			if n.ID == id {
				next := make([]entity.Notification, 0, len(current)-1)
				next = append(next, current[:i]...)
				next = append(next, current[i+1:]...)
				return next, true
			}
		}
		return current, false
	})
}

func (s *NotificationService) List() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNotifications(s.notifications)
}

func (s *NotificationService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countUnread(s.notifications)
}

// Subscribe registers fn for every change. The returned func unsubscribes.
func (s *NotificationService) Subscribe(fn func([]entity.Notification)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// update applies fn to the latest list under the lock; persistence and
// subscriber callbacks run after the lock is released.
func (s *NotificationService) update(fn func([]entity.Notification) ([]entity.Notification, bool)) {
	s.mu.Lock()
	next, changed := fn(s.notifications)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.notifications = next
	s.version++
	snapshot := cloneNotifications(next)
	subscribers := make([]func([]entity.Notification), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subscribers = append(subscribers, sub)
	}
	s.mu.Unlock()

	s.flush()

	for _, sub := range subscribers {
		sub(cloneNotifications(snapshot))
	}
}

// flush writes the latest list until the store holds the newest version.
// Only one caller writes at a time; a concurrent update leaves its version
// for the active writer to pick up, so an older list is never saved last.
func (s *NotificationService) flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true

	for s.savedVersion != s.version {
		version := s.version
		latest := cloneNotifications(s.notifications)
		s.mu.Unlock()

		if err := s.store.Save(latest); err != nil {
			logger.LogPersistenceError("notifications", repository.NotificationsKey, err)
		}

		s.mu.Lock()
		s.savedVersion = version
	}

	s.flushing = false
	s.mu.Unlock()
}

// idle reports whether nothing observes or is writing the list.
func (s *NotificationService) idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers) == 0 && !s.flushing
}

func countUnread(notifications []entity.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

func cloneNotifications(in []entity.Notification) []entity.Notification {
	out := make([]entity.Notification, len(in))
	copy(out, in)
	return out
}

// NotificationHub hands out one NotificationService per user.
type NotificationHub struct {
	storeFor func(userID string) repository.NotificationStore
	max      int
	now      func() time.Time

	mu       sync.Mutex
	services map[string]*hubEntry
}

type hubEntry struct {
	svc      *NotificationService
	lastUsed time.Time
}

func NewNotificationHub(storeFor func(userID string) repository.NotificationStore, max int) *NotificationHub {
	return &NotificationHub{
		storeFor: storeFor,
		max:      max,
		now:      time.Now,
		services: make(map[string]*hubEntry),
	}
}

func (h *NotificationHub) For(userID string) *NotificationService {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry, ok := h.services[userID]; ok {
		entry.lastUsed = h.now()
		return entry.svc
	}
	svc := NewNotificationService(h.storeFor(userID), h.max)
	h.services[userID] = &hubEntry{svc: svc, lastUsed: h.now()}
	return svc
}

// Evict drops services untouched for longer than idleFor that have no
// subscribers and no pending save. The next For reloads from the store.
func (h *NotificationHub) Evict(idleFor time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	evicted := 0
	for userID, entry := range h.services {
		if now.Sub(entry.lastUsed) > idleFor && entry.svc.idle() {
			delete(h.services, userID)
			evicted++
		}
	}
	return evicted
}

// StartEvictionRoutine runs Evict every interval until stop is closed.
func (h *NotificationHub) StartEvictionRoutine(stop <-chan struct{}, interval, idleFor time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if n := h.Evict(idleFor); n > 0 {
					logger.Debug("Evicted %d idle notification services", n)
				}
			}
		}
	}()
}

// NotifyRejected implements RejectionNotifier.
func (h *NotificationHub) NotifyRejected(userID string, request *entity.TutorRequest) {
	h.For(userID).Add(entity.NotificationInput{
		Title:       "Solicitud rechazada",
		Description: "Tu solicitud para el grupo \"" + request.GroupName + "\" fue rechazada. Puedes elegir otro camino.",
		Emoji:       "❌",
		Type:        entity.NotificationTypeTutorRejected,
	})
}

// Welcome adds the post-login greeting, at most once while it is in the list.
func (h *NotificationHub) Welcome(userID string) {
	h.For(userID).Add(entity.NotificationInput{
		Title:       "¡Bienvenido a Predu!",
		Description: "Explora tu panel y descubre tu camino.",
		Emoji:       "👋",
		Type:        entity.NotificationTypeWelcome,
	})
}
