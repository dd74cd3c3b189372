package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
	"predu/pkg/logger"
)

var dniPattern = regexp.MustCompile(`^[0-9]{7,9}[A-Za-z]?$`)

type TutorRequestUseCase struct {
	requestRepo repository.TutorRequestRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

func NewTutorRequestUseCase(requestRepo repository.TutorRequestRepository, profileRepo repository.ProfileRepository) *TutorRequestUseCase {
	return &TutorRequestUseCase{
		requestRepo: requestRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

type SubmitTutorRequestInput struct {
	GroupName string
	DNI       string
}

// Submit files a pending application. A user with a role, or with a request
// that is still pending, cannot apply.
func (uc *TutorRequestUseCase) Submit(ctx context.Context, userID string, input SubmitTutorRequestInput) (*entity.TutorRequest, error) {
	dni := strings.ToUpper(strings.TrimSpace(input.DNI))
	if !dniPattern.MatchString(dni) {
		return nil, errors.BadRequest("Invalid DNI", nil)
	}
	groupName := strings.TrimSpace(input.GroupName)
	if groupName == "" {
		return nil, errors.BadRequest("Group name is required", nil)
	}

	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, errors.Internal("Failed to load profile", err)
	}
	if profile != nil && profile.Role != entity.RoleUnset {
		return nil, errors.Conflict("User already has a role")
	}

	existing, err := uc.requestRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, errors.Internal("Failed to look up tutor requests", err)
	}
	if existing != nil && existing.IsPending() {
		return nil, errors.Conflict("A tutor request is already pending")
	}

	now := uc.now()
	request := &entity.TutorRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    entity.TutorRequestPending,
		GroupName: groupName,
		DNI:       dni,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, errors.Internal("Failed to create tutor request", err)
	}
	return request, nil
}

func (uc *TutorRequestUseCase) Mine(ctx context.Context, userID string) (*entity.TutorRequest, error) {
	request, err := uc.requestRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, errors.Internal("Failed to look up tutor requests", err)
	}
	if request == nil {
		return nil, errors.NotFound("Tutor request", nil)
	}
	return request, nil
}

func (uc *TutorRequestUseCase) ListByStatus(ctx context.Context, status entity.TutorRequestStatus, limit, offset int) ([]*entity.TutorRequest, int64, error) {
	requests, total, err := uc.requestRepo.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list tutor requests", err)
	}
	return requests, total, nil
}

// Approve creates the applicant's independent tutor group and makes the
// applicant a verified tutor attached to it. The status change, the group and
// the profile are written together or not at all.
func (uc *TutorRequestUseCase) Approve(ctx context.Context, requestID string) (*entity.TutorRequest, error) {
	request, group, err := uc.requestRepo.Approve(ctx, requestID, func(request *entity.TutorRequest) *entity.IndependentTutorGroup {
		return &entity.IndependentTutorGroup{
			ID:        uuid.New().String(),
			Name:      request.GroupName,
			OwnerID:   request.UserID,
			RequestID: request.ID,
			CreatedAt: uc.now(),
		}
	})
	if err != nil {
		return nil, transitionError(err)
	}

	logger.Info("Tutor request %s approved, group %s created", request.ID, group.ID)
	return request, nil
}

// Reject leaves notifiedRejected false so the applicant gets one notice.
func (uc *TutorRequestUseCase) Reject(ctx context.Context, requestID string) (*entity.TutorRequest, error) {
	request, err := uc.requestRepo.Reject(ctx, requestID)
	if err != nil {
		return nil, transitionError(err)
	}
	logger.Info("Tutor request %s rejected", request.ID)
	return request, nil
}

func transitionError(err error) error {
	if errors.Is(err, errors.CodeNotFound) || errors.Is(err, errors.CodeConflict) {
		return err
	}
	return errors.Internal("Failed to update tutor request", err)
}
