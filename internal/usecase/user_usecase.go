package usecase

import (
	"context"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewProfileUseCase(profileRepo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
	}
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
		return nil, errors.Internal("Failed to load profile", err)
	}
	return profile, nil
}

// ChooseRole is the role chooser's action. Only users without a role may
// choose, and only student or tutor; a tutor starts unverified.
func (uc *ProfileUseCase) ChooseRole(ctx context.Context, userID string, role entity.Role) (*entity.UserProfile, error) {
	if role != entity.RoleStudent && role != entity.RoleTutor {
		return nil, errors.BadRequest("Role must be student or tutor", nil)
	}

	var tutorVerified *bool
	if role == entity.RoleTutor {
		tutorVerified = entity.BoolPtr(false)
	}

	profile, err := uc.profileRepo.ChooseRole(ctx, userID, role, tutorVerified)
	if err != nil {
		if errors.Is(err, errors.CodeConflict) {
			return nil, err
		}
		return nil, errors.Internal("Failed to save role", err)
	}
	return profile, nil
}

// CompleteTutorVerification finishes the verification step of an
// unverified tutor.
func (uc *ProfileUseCase) CompleteTutorVerification(ctx context.Context, userID string) (*entity.UserProfile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
		return nil, errors.Internal("Failed to load profile", err)
	}
	if profile.Role != entity.RoleTutor {
		return nil, errors.Forbidden("Only tutors can be verified", nil)
	}
	if !profile.NeedsTutorVerification() {
		return profile, nil
	}

	if err := uc.profileRepo.SetTutorVerified(ctx, userID, true); err != nil {
		return nil, errors.Internal("Failed to verify tutor", err)
	}
	profile.TutorVerified = entity.BoolPtr(true)
	return profile, nil
}
