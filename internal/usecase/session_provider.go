package usecase

import (
	"context"
	"fmt"
	"sync"

	"predu/internal/domain/entity"
	"predu/pkg/logger"
)

// AuthEvent is one item of the identity provider's auth-state stream.
// User is nil when nobody is signed in.
type AuthEvent struct {
	User *entity.Identity
	Err  error
}

type AuthStateSource interface {
	Subscribe(ctx context.Context) (<-chan AuthEvent, error)
}

type Session struct {
	User    *entity.Identity `json:"user"`
	Loading bool             `json:"loading"`
}

// SessionProvider owns exactly one subscription to an AuthStateSource.
// Loading is true until the first event and never again afterwards.
type SessionProvider struct {
	source AuthStateSource

	mu        sync.RWMutex
	session   Session
	started   bool
	cancel    context.CancelFunc
	done      chan struct{}
	listeners map[int]func(Session)
	nextID    int
}

func NewSessionProvider(source AuthStateSource) *SessionProvider {
	return &SessionProvider{
		source:    source,
		session:   Session{Loading: true},
		listeners: make(map[int]func(Session)),
		done:      make(chan struct{}),
	}
}

// Start subscribes and consumes events until ctx is cancelled, the stream
// ends, or Close is called. It may be called only once.
func (p *SessionProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("session provider already started")
	}
	p.started = true
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	events, err := p.source.Subscribe(ctx)
	if err != nil {
		logger.Warn("Auth state subscription failed, treating as signed out: %v", err)
		p.set(nil)
		close(p.done)
		return nil
	}

	go func() {
		defer close(p.done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Err != nil {
					logger.Warn("Auth state stream error, treating as signed out: %v", ev.Err)
					p.set(nil)
					continue
				}
				p.set(ev.User)
			}
		}
	}()

	return nil
}

func (p *SessionProvider) Current() Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

// OnChange registers fn for every session update. The returned func removes it.
func (p *SessionProvider) OnChange(fn func(Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Close tears down the subscription and waits for the consumer to exit.
func (p *SessionProvider) Close() {
	p.mu.Lock()
	started := p.started
	cancel := p.cancel
	p.mu.Unlock()

	if !started {
		return
	}
	if cancel != nil {
		cancel()
	}
	<-p.done
}

func (p *SessionProvider) set(user *entity.Identity) {
	p.mu.Lock()
	p.session = Session{User: user, Loading: false}
	current := p.session
	listeners := make([]func(Session), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(current)
	}
}

// ChannelAuthSource turns pushed identities into an auth-state stream. The
// WebSocket session feeds it with verified ID tokens.
type ChannelAuthSource struct {
	mu     sync.Mutex
	events chan AuthEvent
	closed bool
}

func NewChannelAuthSource(buffer int) *ChannelAuthSource {
	return &ChannelAuthSource{events: make(chan AuthEvent, buffer)}
}

func (s *ChannelAuthSource) Subscribe(ctx context.Context) (<-chan AuthEvent, error) {
	return s.events, nil
}

// Push delivers an event; it reports false once the source is closed.
func (s *ChannelAuthSource) Push(ev AuthEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.events <- ev
	return true
}

func (s *ChannelAuthSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}
