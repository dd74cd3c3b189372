package usecase

import (
	"context"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
)

type InstitutionUseCase struct {
	institutionRepo repository.InstitutionRepository
}

func NewInstitutionUseCase(institutionRepo repository.InstitutionRepository) *InstitutionUseCase {
	return &InstitutionUseCase{institutionRepo: institutionRepo}
}

// Resolve disambiguates an institutionId: institutions are tried first, then
// independent tutor groups.
func (uc *InstitutionUseCase) Resolve(ctx context.Context, id string) (*entity.InstitutionRef, error) {
	institution, err := uc.institutionRepo.GetInstitution(ctx, id)
	if err == nil {
		return &entity.InstitutionRef{ID: institution.ID, Kind: entity.InstitutionKindInstitution, Name: institution.Name}, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return nil, errors.Internal("Failed to load institution", err)
	}

	group, err := uc.institutionRepo.GetTutorGroup(ctx, id)
	if err == nil {
		return &entity.InstitutionRef{ID: group.ID, Kind: entity.InstitutionKindTutorGroup, Name: group.Name}, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return nil, errors.Internal("Failed to load tutor group", err)
	}

	return nil, errors.NotFound("Institution", nil)
}
