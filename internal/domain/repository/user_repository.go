package repository

import (
	"context"

	"predu/internal/domain/entity"
)

// ProfileRepository reads users/{uid} and issues targeted field updates.
// GetByID returns a NOT_FOUND AppError when the document does not exist.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	// ChooseRole sets role and tutorVerified only while the stored role is
	// unset, checked and written in one transaction. Otherwise it returns a
	// CONFLICT error.
	ChooseRole(ctx context.Context, id string, role entity.Role, tutorVerified *bool) (*entity.UserProfile, error)
	SetTutorVerified(ctx context.Context, id string, verified bool) error
	SetPresence(ctx context.Context, id string, state entity.PresenceState) error
}
