package websocket

import (
	"context"
	"sync"
	"time"

	"predu/internal/domain/entity"
	"predu/internal/domain/service"
	"predu/internal/infrastructure/presence"
	"predu/internal/usecase"
	"predu/pkg/logger"
)

// TokenVerifier turns an ID token into an identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*entity.Identity, error)
}

// Outbox receives encoded server frames.
type Outbox interface {
	Enqueue(message []byte) bool
}

// SessionDeps are shared by every connection.
type SessionDeps struct {
	Verifier TokenVerifier
	Routing  *usecase.RoutingUseCase
	Hub      *usecase.NotificationHub
	Presence presence.EphemeralStore
	Record   service.PresenceRecord
}

// ClientSession is the server side of one client app instance: one session
// provider, one presence channel and heartbeat, one notification view.
type ClientSession struct {
	deps    SessionDeps
	out     Outbox
	ctx     context.Context
	cancel  context.CancelFunc
	auth    *usecase.ChannelAuthSource
	session *usecase.SessionProvider
	channel *presence.ConnectionChannel

	mu          sync.Mutex
	path        string
	userID      string
	anonymous   bool
	heartbeat   *usecase.PresenceHeartbeat
	unsubscribe func()
	closed      bool
}

func NewClientSession(ctx context.Context, deps SessionDeps, out Outbox) *ClientSession {
	ctx, cancel := context.WithCancel(ctx)
	auth := usecase.NewChannelAuthSource(4)
	s := &ClientSession{
		deps:    deps,
		out:     out,
		ctx:     ctx,
		cancel:  cancel,
		auth:    auth,
		session: usecase.NewSessionProvider(auth),
		path:    usecase.RouteHome,
	}
	if deps.Presence != nil {
		s.channel = presence.NewConnectionChannel(deps.Presence)
	}
	return s
}

// Open marks the connection live and subscribes to auth state. idToken may be
// empty, which starts the session signed out.
func (s *ClientSession) Open(idToken string) {
	if s.channel != nil {
		s.channel.SetConnected(true)
	}
	s.session.OnChange(s.onSessionChange)
	if err := s.session.Start(s.ctx); err != nil {
		logger.Error("WebSocket: session start failed: %v", err)
		return
	}
	s.authenticate(idToken)
}

// Close fires the presence disconnect, stops the heartbeat and drops every
// subscription.
func (s *ClientSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	userID := s.userID
	s.mu.Unlock()

	if s.channel != nil {
		s.channel.SetConnected(false)
	}
	s.cancel()
	s.switchUser(nil)
	s.auth.Close()
	s.session.Close()

	// The heartbeat may be cancelled before it sees the drop.
	if userID != "" && s.deps.Record != nil {
		if err := s.deps.Record.SetPresence(context.WithoutCancel(s.ctx), userID, entity.Offline(time.Now())); err != nil {
			logger.LogPersistenceError("users.status", userID, err)
		}
	}
}

func (s *ClientSession) authenticate(idToken string) {
	if idToken == "" {
		s.auth.Push(usecase.AuthEvent{})
		return
	}
	identity, err := s.deps.Verifier.VerifyToken(s.ctx, idToken)
	if err != nil {
		s.auth.Push(usecase.AuthEvent{Err: err})
		s.sendError("invalid or expired token")
		return
	}
	s.auth.Push(usecase.AuthEvent{User: identity})
}

func (s *ClientSession) onSessionChange(current usecase.Session) {
	s.switchUser(current.User)

	s.send(MessageTypeSession, SessionData{
		User:    current.User,
		Loading: current.Loading,
	})
	s.evaluate(current)
}

// switchUser moves presence and notifications to the new user, if any.
func (s *ClientSession) switchUser(user *entity.Identity) {
	userID, anonymous := "", false
	if user != nil {
		userID, anonymous = user.UID, user.Anonymous
	}

	s.mu.Lock()
	if userID == s.userID && anonymous == s.anonymous {
		s.mu.Unlock()
		return
	}
	oldHeartbeat, oldUnsubscribe := s.heartbeat, s.unsubscribe
	s.heartbeat, s.unsubscribe = nil, nil
	s.userID, s.anonymous = userID, anonymous
	closed := s.closed
	s.mu.Unlock()

	if oldUnsubscribe != nil {
		oldUnsubscribe()
	}
	if oldHeartbeat != nil {
		oldHeartbeat.Stop()
	}
	if userID == "" || closed {
		return
	}

	var heartbeat *usecase.PresenceHeartbeat
	if s.channel != nil {
		heartbeat = usecase.NewPresenceHeartbeat(userID, s.channel, s.deps.Record)
		heartbeat.Start(s.ctx)
	}

	var unsubscribe func()
	if !anonymous && s.deps.Hub != nil {
		notifications := s.deps.Hub.For(userID)
		unsubscribe = notifications.Subscribe(s.sendNotifications)
		s.sendNotifications(notifications.List())
	}

	s.mu.Lock()
	if s.closed || s.userID != userID {
		// Closed or switched while subscribing.
		s.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		if heartbeat != nil {
			heartbeat.Stop()
		}
		return
	}
	s.heartbeat, s.unsubscribe = heartbeat, unsubscribe
	s.mu.Unlock()
}

func (s *ClientSession) navigate(path string) {
	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
	s.evaluate(s.session.Current())
}

func (s *ClientSession) evaluate(current usecase.Session) {
	s.mu.Lock()
	path := s.path
	s.mu.Unlock()

	eval, err := s.deps.Routing.Evaluate(s.ctx, current, path)
	data := RouteData{Path: path, Decision: eval.Decision}
	if eval.Role != nil {
		data.Role = eval.Role.Name()
	}
	if err != nil {
		logger.Warn("WebSocket: role resolution failed: %v", err)
		data.Error = "profile data is not available yet"
	}
	s.send(MessageTypeRoute, data)
}

func (s *ClientSession) currentNotifications() *usecase.NotificationService {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe == nil || s.deps.Hub == nil {
		return nil
	}
	return s.deps.Hub.For(s.userID)
}

func (s *ClientSession) sendNotifications(list []entity.Notification) {
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	s.send(MessageTypeNotifications, NotificationsData{Items: list, Unread: unread})
}
