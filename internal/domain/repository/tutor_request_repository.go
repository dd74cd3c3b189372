package repository

import (
	"context"

	"predu/internal/domain/entity"
)

// NewGroupFunc builds the tutor group for a request being approved.
type NewGroupFunc func(request *entity.TutorRequest) *entity.IndependentTutorGroup

type TutorRequestRepository interface {
	Create(ctx context.Context, request *entity.TutorRequest) error
	GetByID(ctx context.Context, id string) (*entity.TutorRequest, error)
	// FindLatestByUser returns (nil, nil) when the user never applied.
	FindLatestByUser(ctx context.Context, userID string) (*entity.TutorRequest, error)
	ListByStatus(ctx context.Context, status entity.TutorRequestStatus, limit, offset int) ([]*entity.TutorRequest, int64, error)
	// Approve atomically moves a pending request to approved, stores the group
	// from newGroup and makes the applicant a verified tutor attached to it.
	// A request that is no longer pending yields a CONFLICT error and no writes.
	Approve(ctx context.Context, id string, newGroup NewGroupFunc) (*entity.TutorRequest, *entity.IndependentTutorGroup, error)
	// Reject atomically moves a pending request to rejected and clears
	// notifiedRejected.
	Reject(ctx context.Context, id string) (*entity.TutorRequest, error)
	MarkNotifiedRejected(ctx context.Context, id string) error
}
