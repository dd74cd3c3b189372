package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
	"predu/pkg/logger"
)

// RoleState is the effective role of a signed-in, non-anonymous user.
// The set of implementations is closed: Unassigned, AdminRole, StudentRole,
// TutorUnverified, TutorVerified and PendingRequest.
type RoleState interface {
	Name() string
	isRoleState()
}

type Unassigned struct{}
type AdminRole struct{}
type StudentRole struct{}
type TutorUnverified struct{}
type TutorVerified struct{}

// PendingRequest is a user without a role whose tutor application is pending.
type PendingRequest struct {
	DNI string
}

func (Unassigned) Name() string      { return "unassigned" }
func (AdminRole) Name() string       { return "admin" }
func (StudentRole) Name() string     { return "student" }
func (TutorUnverified) Name() string { return "tutor-unverified" }
func (TutorVerified) Name() string   { return "tutor-verified" }
func (PendingRequest) Name() string  { return "pending-request" }

func (Unassigned) isRoleState()      {}
func (AdminRole) isRoleState()       {}
func (StudentRole) isRoleState()     {}
func (TutorUnverified) isRoleState() {}
func (TutorVerified) isRoleState()   {}
func (PendingRequest) isRoleState()  {}

type RejectionNotifier interface {
	NotifyRejected(userID string, request *entity.TutorRequest)
}

type RoleResolver struct {
	profileRepo repository.ProfileRepository
	requestRepo repository.TutorRequestRepository
	notifier    RejectionNotifier

	now      func() time.Time
	mu       sync.Mutex
	notified map[string]notifiedEntry
}

// notifiedRetention covers reads that still return the request as unmarked
// after the flag was written.
const notifiedRetention = 10 * time.Minute

type notifiedEntry struct {
	marked   bool
	markedAt time.Time
}

func NewRoleResolver(profileRepo repository.ProfileRepository, requestRepo repository.TutorRequestRepository, notifier RejectionNotifier) *RoleResolver {
	return &RoleResolver{
		profileRepo: profileRepo,
		requestRepo: requestRepo,
		notifier:    notifier,
		now:         time.Now,
		notified:    make(map[string]notifiedEntry),
	}
}

// Resolve fetches the profile and the latest tutor request concurrently and
// decides only when both fetches succeeded. Any fetch failure returns a
// RESOLVE_UNAVAILABLE error and no state.
func (r *RoleResolver) Resolve(ctx context.Context, identity *entity.Identity) (RoleState, error) {
	var (
		profile *entity.UserProfile
		request *entity.TutorRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := r.profileRepo.GetByID(gctx, identity.UID)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				profile = &entity.UserProfile{ID: identity.UID}
				return nil
			}
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		req, err := r.requestRepo.FindLatestByUser(gctx, identity.UID)
		if err != nil {
			return err
		}
		request = req
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("Role resolution for %s unavailable: %v", identity.UID, err)
		return nil, errors.ResolveUnavailable(err)
	}

	return r.decide(ctx, identity.UID, profile, request), nil
}

func (r *RoleResolver) decide(ctx context.Context, userID string, profile *entity.UserProfile, request *entity.TutorRequest) RoleState {
	switch profile.Role {
	case entity.RoleAdmin:
		return AdminRole{}
	case entity.RoleStudent:
		return StudentRole{}
	case entity.RoleTutor:
		if profile.NeedsTutorVerification() {
			return TutorUnverified{}
		}
		return TutorVerified{}
	}

	if request == nil {
		return Unassigned{}
	}

	if request.IsPending() {
		return PendingRequest{DNI: request.DNI}
	}

	if request.NeedsRejectionNotice() {
		r.notifyRejectedOnce(ctx, userID, request)
	}

	return Unassigned{}
}

func (r *RoleResolver) notifyRejectedOnce(ctx context.Context, userID string, request *entity.TutorRequest) {
	r.mu.Lock()
	r.pruneNotified()
	if _, ok := r.notified[request.ID]; ok {
		r.mu.Unlock()
		return
	}
	r.notified[request.ID] = notifiedEntry{}
	r.mu.Unlock()

	if r.notifier != nil {
		r.notifier.NotifyRejected(userID, request)
	}

	if err := r.requestRepo.MarkNotifiedRejected(ctx, request.ID); err != nil {
		logger.LogPersistenceError("tutorRequests", request.ID, err)
		return
	}

	r.mu.Lock()
	r.notified[request.ID] = notifiedEntry{marked: true, markedAt: r.now()}
	r.mu.Unlock()
}

// pruneNotified forgets requests whose flag has been persisted for longer
// than notifiedRetention. Unmarked entries stay so a failed write never
// repeats the notice. Callers hold r.mu.
func (r *RoleResolver) pruneNotified() {
	now := r.now()
	for id, entry := range r.notified {
		if entry.marked && now.Sub(entry.markedAt) > notifiedRetention {
			delete(r.notified, id)
		}
	}
}
