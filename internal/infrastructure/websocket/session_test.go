package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/internal/usecase"
	"predu/pkg/errors"
)

type recordingOutbox struct {
	mu     sync.Mutex
	frames []outgoingFrame
}

type outgoingFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (o *recordingOutbox) Enqueue(message []byte) bool {
	var f outgoingFrame
	if err := json.Unmarshal(message, &f); err != nil {
		panic(err)
	}
	o.mu.Lock()
	o.frames = append(o.frames, f)
	o.mu.Unlock()
	return true
}

func (o *recordingOutbox) last(messageType string) (json.RawMessage, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.frames) - 1; i >= 0; i-- {
		if o.frames[i].Type == messageType {
			return o.frames[i].Data, true
		}
	}
	return nil, false
}

func (o *recordingOutbox) waitRoute(t *testing.T, cond func(RouteData) bool) RouteData {
	t.Helper()
	var route RouteData
	require.Eventually(t, func() bool {
		raw, ok := o.last(MessageTypeRoute)
		if !ok {
			return false
		}
		route = RouteData{}
		require.NoError(t, json.Unmarshal(raw, &route))
		return cond(route)
	}, time.Second, 5*time.Millisecond)
	return route
}

type tokenTable map[string]*entity.Identity

func (tt tokenTable) VerifyToken(ctx context.Context, idToken string) (*entity.Identity, error) {
	if id, ok := tt[idToken]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("bad token")
}

type profiles struct {
	mu       sync.Mutex
	docs     map[string]*entity.UserProfile
	presence []entity.PresenceStatus
}

func (p *profiles) Create(ctx context.Context, profile *entity.UserProfile) error { return nil }
func (p *profiles) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if doc, ok := p.docs[id]; ok {
		return doc, nil
	}
	return nil, errors.NotFound("User profile", nil)
}
func (p *profiles) ChooseRole(ctx context.Context, id string, role entity.Role, tutorVerified *bool) (*entity.UserProfile, error) {
	return nil, errors.Conflict("Role already chosen")
}
func (p *profiles) SetTutorVerified(ctx context.Context, id string, verified bool) error { return nil }
func (p *profiles) SetPresence(ctx context.Context, id string, state entity.PresenceState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presence = append(p.presence, state.State)
	return nil
}

func (p *profiles) presenceStates() []entity.PresenceStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.PresenceStatus(nil), p.presence...)
}

type noRequests struct{}

func (noRequests) Create(ctx context.Context, r *entity.TutorRequest) error { return nil }
func (noRequests) GetByID(ctx context.Context, id string) (*entity.TutorRequest, error) {
	return nil, errors.NotFound("Tutor request", nil)
}
func (noRequests) FindLatestByUser(ctx context.Context, userID string) (*entity.TutorRequest, error) {
	return nil, nil
}
func (noRequests) ListByStatus(ctx context.Context, s entity.TutorRequestStatus, limit, offset int) ([]*entity.TutorRequest, int64, error) {
	return nil, 0, nil
}
func (noRequests) Approve(ctx context.Context, id string, newGroup repository.NewGroupFunc) (*entity.TutorRequest, *entity.IndependentTutorGroup, error) {
	return nil, nil, errors.NotFound("Tutor request", nil)
}
func (noRequests) Reject(ctx context.Context, id string) (*entity.TutorRequest, error) {
	return nil, errors.NotFound("Tutor request", nil)
}
func (noRequests) MarkNotifiedRejected(ctx context.Context, id string) error { return nil }

type memoryNotifications struct {
	mu   sync.Mutex
	list []entity.Notification
}

func (m *memoryNotifications) Load() []entity.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Notification(nil), m.list...)
}

func (m *memoryNotifications) Save(list []entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append([]entity.Notification(nil), list...)
	return nil
}

// gatedNotifications blocks Load until release is closed.
type gatedNotifications struct {
	memoryNotifications
	entered chan struct{}
	release chan struct{}
}

func (g *gatedNotifications) Load() []entity.Notification {
	close(g.entered)
	<-g.release
	return g.memoryNotifications.Load()
}

type ephemeral struct {
	mu     sync.Mutex
	states []entity.PresenceStatus
}

func (e *ephemeral) Write(ctx context.Context, userID string, state entity.PresenceState) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states = append(e.states, state.State)
	return nil
}

type fixture struct {
	session   *ClientSession
	out       *recordingOutbox
	profiles  *profiles
	ephemeral *ephemeral
	hub       *usecase.NotificationHub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStores(t, func(string) repository.NotificationStore { return &memoryNotifications{} })
}

func newFixtureWithStores(t *testing.T, storeFor func(string) repository.NotificationStore) *fixture {
	t.Helper()
	p := &profiles{docs: map[string]*entity.UserProfile{
		"student": {ID: "student", Role: entity.RoleStudent},
		"tutor":   {ID: "tutor", Role: entity.RoleTutor, TutorVerified: entity.BoolPtr(false)},
	}}
	hub := usecase.NewNotificationHub(storeFor, 10)
	eph := &ephemeral{}
	out := &recordingOutbox{}

	deps := SessionDeps{
		Verifier: tokenTable{
			"student-token": {UID: "student"},
			"tutor-token":   {UID: "tutor"},
			"guest-token":   {UID: "guest", Anonymous: true},
		},
		Routing:  usecase.NewRoutingUseCase(usecase.NewRoleResolver(p, noRequests{}, hub)),
		Hub:      hub,
		Presence: eph,
		Record:   p,
	}
	return &fixture{
		session:   NewClientSession(context.Background(), deps, out),
		out:       out,
		profiles:  p,
		ephemeral: eph,
		hub:       hub,
	}
}

func message(t *testing.T, messageType string, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(WSMessage{Type: messageType, Data: raw})
	require.NoError(t, err)
	return frame
}

func TestSessionWithoutTokenIsSignedOut(t *testing.T) {
	f := newFixture(t)
	f.session.Open("")
	defer f.session.Close()

	route := f.out.waitRoute(t, func(r RouteData) bool { return r.Decision.Action == usecase.ActionRender })
	assert.Equal(t, "home", route.Decision.Page)

	f.session.HandleClientMessage(message(t, MessageTypeNavigate, NavigateData{Path: "/dashboard"}))
	route = f.out.waitRoute(t, func(r RouteData) bool { return r.Path == "/dashboard" })
	assert.Equal(t, usecase.Redirect("/login?redirect=%2Fdashboard"), route.Decision)
}

func TestSessionRoutesByRoleAndTracksPresence(t *testing.T) {
	f := newFixture(t)
	f.session.Open("tutor-token")

	f.session.HandleClientMessage(message(t, MessageTypeNavigate, NavigateData{Path: "/tutor-dashboard"}))
	route := f.out.waitRoute(t, func(r RouteData) bool { return r.Path == "/tutor-dashboard" && r.Role != "" })
	assert.Equal(t, usecase.Redirect("/tutor-verification"), route.Decision)
	assert.Equal(t, "tutor-unverified", route.Role)

	require.Eventually(t, func() bool { return len(f.profiles.presenceStates()) == 1 }, time.Second, 5*time.Millisecond)

	f.session.Close()
	states := f.profiles.presenceStates()
	assert.Equal(t, entity.PresenceOnline, states[0])
	assert.Equal(t, entity.PresenceOffline, states[len(states)-1])
	f.ephemeral.mu.Lock()
	assert.Equal(t, []entity.PresenceStatus{entity.PresenceOnline, entity.PresenceOffline}, f.ephemeral.states)
	f.ephemeral.mu.Unlock()
}

func TestSessionNotifications(t *testing.T) {
	f := newFixture(t)
	f.hub.For("student").Add(entity.NotificationInput{Title: "Hola"})
	f.session.Open("student-token")
	defer f.session.Close()

	var data NotificationsData
	require.Eventually(t, func() bool {
		raw, ok := f.out.last(MessageTypeNotifications)
		if !ok {
			return false
		}
		require.NoError(t, json.Unmarshal(raw, &data))
		return true
	}, time.Second, 5*time.Millisecond)
	require.Len(t, data.Items, 1)
	assert.Equal(t, 1, data.Unread)

	f.session.HandleClientMessage(message(t, MessageTypeNotificationRead, NotificationIDData{ID: data.Items[0].ID}))
	assert.Equal(t, 0, f.hub.For("student").UnreadCount())

	raw, _ := f.out.last(MessageTypeNotifications)
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, 0, data.Unread)
}

func TestSessionGuestSignInAndOut(t *testing.T) {
	f := newFixture(t)
	f.session.Open("guest-token")
	defer f.session.Close()

	route := f.out.waitRoute(t, func(r RouteData) bool { return r.Decision.Page == "guest-dashboard" })
	assert.Equal(t, "/", route.Path)

	f.session.HandleClientMessage(message(t, MessageTypeNotificationRemove, NotificationIDData{ID: "x"}))
	raw, ok := f.out.last(MessageTypeError)
	require.True(t, ok)
	assert.Contains(t, string(raw), "Sign in")

	f.session.HandleClientMessage(message(t, MessageTypeAuth, AuthData{IDToken: "student-token"}))
	f.out.waitRoute(t, func(r RouteData) bool { return r.Decision == usecase.Redirect("/dashboard") })

	f.session.HandleClientMessage([]byte(`{"type":"sign_out"}`))
	f.out.waitRoute(t, func(r RouteData) bool { return r.Decision.Page == "home" })
}

func TestSessionRejectsBadFrames(t *testing.T) {
	f := newFixture(t)
	f.session.Open("")
	defer f.session.Close()

	f.session.HandleClientMessage([]byte("not json"))
	f.session.HandleClientMessage([]byte(`{"type":"navigate"}`))
	f.session.HandleClientMessage([]byte(`{"type":"launch"}`))
	f.session.HandleClientMessage(message(t, MessageTypeAuth, AuthData{IDToken: "forged"}))

	f.out.mu.Lock()
	defer f.out.mu.Unlock()
	errorsSeen := 0
	for _, frame := range f.out.frames {
		if frame.Type == MessageTypeError {
			errorsSeen++
		}
	}
	assert.Equal(t, 4, errorsSeen)
}

func TestSessionPing(t *testing.T) {
	f := newFixture(t)
	f.session.HandleClientMessage([]byte(`{"type":"ping"}`))

	_, ok := f.out.last(MessageTypePong)
	assert.True(t, ok)
}

func TestSessionCloseDuringSignInDropsSubscription(t *testing.T) {
	store := &gatedNotifications{entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixtureWithStores(t, func(string) repository.NotificationStore { return store })
	f.session.Open("student-token")
	<-store.entered

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		f.session.Close()
	}()
	require.Eventually(t, func() bool {
		f.session.mu.Lock()
		defer f.session.mu.Unlock()
		return f.session.closed
	}, time.Second, time.Millisecond)
	close(store.release)
	<-closed

	f.session.mu.Lock()
	assert.Nil(t, f.session.unsubscribe)
	assert.Nil(t, f.session.heartbeat)
	f.session.mu.Unlock()

	f.out.mu.Lock()
	sent := len(f.out.frames)
	f.out.mu.Unlock()

	f.hub.For("student").Add(entity.NotificationInput{Title: "Tarde"})

	f.out.mu.Lock()
	defer f.out.mu.Unlock()
	assert.Len(t, f.out.frames, sent)
}
