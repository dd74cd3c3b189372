package repository

import (
	"context"

	"predu/internal/domain/entity"
)

type InstitutionRepository interface {
	GetInstitution(ctx context.Context, id string) (*entity.Institution, error)
	GetTutorGroup(ctx context.Context, id string) (*entity.IndependentTutorGroup, error)
}
