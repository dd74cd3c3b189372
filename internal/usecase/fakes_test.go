package usecase

import (
	"context"
	"fmt"
	"sync"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
)

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*entity.UserProfile
	getErr   error
	presence map[string][]entity.PresenceState
}

func newFakeProfileRepo(profiles ...*entity.UserProfile) *fakeProfileRepo {
	r := &fakeProfileRepo{
		profiles: make(map[string]*entity.UserProfile),
		presence: make(map[string][]entity.PresenceState),
	}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.NotFound("User profile", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) ChooseRole(ctx context.Context, id string, role entity.Role, tutorVerified *bool) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		p = &entity.UserProfile{ID: id}
		r.profiles[id] = p
	}
	if p.Role != entity.RoleUnset {
		return nil, errors.Conflict("Role already chosen")
	}
	p.Role = role
	p.TutorVerified = tutorVerified
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) SetTutorVerified(ctx context.Context, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[id].TutorVerified = entity.BoolPtr(verified)
	return nil
}

func (r *fakeProfileRepo) SetPresence(ctx context.Context, id string, state entity.PresenceState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presence[id] = append(r.presence[id], state)
	return nil
}

func (r *fakeProfileRepo) presenceWrites(id string) []entity.PresenceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.PresenceState, len(r.presence[id]))
	copy(out, r.presence[id])
	return out
}

// fakeRequestRepo applies approvals to the linked profile and institution
// fakes while holding its lock, so each transition is all-or-nothing.
type fakeRequestRepo struct {
	mu             sync.Mutex
	requests       map[string]*entity.TutorRequest
	profiles       *fakeProfileRepo
	institutions   *fakeInstitutionRepo
	findErr        error
	markErr        error
	commitErr      error
	markCalls      int
	persistMarking bool
}

func newFakeRequestRepo(requests ...*entity.TutorRequest) *fakeRequestRepo {
	r := &fakeRequestRepo{requests: make(map[string]*entity.TutorRequest), persistMarking: true}
	for _, req := range requests {
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *entity.TutorRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*entity.TutorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Tutor request", nil)
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) FindLatestByUser(ctx context.Context, userID string) (*entity.TutorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var latest *entity.TutorRequest
	for _, req := range r.requests {
		if req.UserID == userID && (latest == nil || req.CreatedAt.After(latest.CreatedAt)) {
			latest = req
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeRequestRepo) ListByStatus(ctx context.Context, status entity.TutorRequestStatus, limit, offset int) ([]*entity.TutorRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.TutorRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) pending(id string, next entity.TutorRequestStatus) (*entity.TutorRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Tutor request", nil)
	}
	if !req.CanTransitionTo(next) {
		return nil, errors.Conflict("Tutor request is not pending")
	}
	return req, nil
}

func (r *fakeRequestRepo) Approve(ctx context.Context, id string, newGroup repository.NewGroupFunc) (*entity.TutorRequest, *entity.IndependentTutorGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, err := r.pending(id, entity.TutorRequestApproved)
	if err != nil {
		return nil, nil, err
	}
	group := newGroup(req)
	if r.commitErr != nil {
		return nil, nil, r.commitErr
	}

	req.Status = entity.TutorRequestApproved
	req.NotifiedRejected = false
	if r.institutions != nil {
		r.institutions.mu.Lock()
		r.institutions.groups[group.ID] = group
		r.institutions.mu.Unlock()
	}
	if r.profiles != nil {
		r.profiles.mu.Lock()
		p, ok := r.profiles.profiles[req.UserID]
		if !ok {
			p = &entity.UserProfile{ID: req.UserID}
			r.profiles.profiles[req.UserID] = p
		}
		p.Role = entity.RoleTutor
		p.TutorVerified = entity.BoolPtr(true)
		p.InstitutionID = group.ID
		r.profiles.mu.Unlock()
	}
	copied := *req
	return &copied, group, nil
}

func (r *fakeRequestRepo) Reject(ctx context.Context, id string) (*entity.TutorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, err := r.pending(id, entity.TutorRequestRejected)
	if err != nil {
		return nil, err
	}
	if r.commitErr != nil {
		return nil, r.commitErr
	}
	req.Status = entity.TutorRequestRejected
	req.NotifiedRejected = false
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) MarkNotifiedRejected(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markCalls++
	if r.markErr != nil {
		return r.markErr
	}
	if r.persistMarking {
		r.requests[id].NotifiedRejected = true
	}
	return nil
}

type fakeInstitutionRepo struct {
	mu           sync.Mutex
	institutions map[string]*entity.Institution
	groups       map[string]*entity.IndependentTutorGroup
	err          error
}

func newFakeInstitutionRepo() *fakeInstitutionRepo {
	return &fakeInstitutionRepo{
		institutions: make(map[string]*entity.Institution),
		groups:       make(map[string]*entity.IndependentTutorGroup),
	}
}

func (r *fakeInstitutionRepo) GetInstitution(ctx context.Context, id string) (*entity.Institution, error) {
	if r.err != nil {
		return nil, r.err
	}
	if i, ok := r.institutions[id]; ok {
		return i, nil
	}
	return nil, errors.NotFound("Institution", nil)
}

func (r *fakeInstitutionRepo) GetTutorGroup(ctx context.Context, id string) (*entity.IndependentTutorGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[id]; ok {
		return g, nil
	}
	return nil, errors.NotFound("Tutor group", nil)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) NotifyRejected(userID string, request *entity.TutorRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, userID+"/"+request.ID)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type memoryNotificationStore struct {
	mu      sync.Mutex
	saved   []entity.Notification
	saves   int
	saveErr error
}

func (s *memoryNotificationStore) Load() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Notification, len(s.saved))
	copy(out, s.saved)
	return out
}

func (s *memoryNotificationStore) Save(notifications []entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = make([]entity.Notification, len(notifications))
	copy(s.saved, notifications)
	return nil
}

type fakeIdentity struct {
	createErr error
	signInErr error
	resetErr  error
	verifyErr error
	uid       string
	identity  *entity.Identity
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.uid, nil
}

func (f *fakeIdentity) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &entity.AuthTokens{UID: f.uid, IDToken: "id-token", RefreshToken: "refresh"}, nil
}

func (f *fakeIdentity) SignInAnonymously(ctx context.Context) (*entity.AuthTokens, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &entity.AuthTokens{UID: f.uid, IDToken: "guest-token"}, nil
}

func (f *fakeIdentity) PasswordResetLink(ctx context.Context, email string) (string, error) {
	if f.resetErr != nil {
		return "", f.resetErr
	}
	return "https://example.test/reset", nil
}

func (f *fakeIdentity) VerifyToken(ctx context.Context, idToken string) (*entity.Identity, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.identity, nil
}

type codedError struct {
	code string
}

func (e codedError) Error() string        { return fmt.Sprintf("identity: %s", e.code) }
func (e codedError) IdentityCode() string { return e.code }
