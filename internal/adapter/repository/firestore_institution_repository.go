package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
)

const (
	institutionsCollection = "institutions"
	tutorGroupsCollection  = "independentTutorGroups"
)

type firestoreInstitutionRepository struct {
	client *firestore.Client
}

func NewFirestoreInstitutionRepository(client *firestore.Client) repository.InstitutionRepository {
	return &firestoreInstitutionRepository{
		client: client,
	}
}

func (r *firestoreInstitutionRepository) GetInstitution(ctx context.Context, id string) (*entity.Institution, error) {
	doc, err := r.client.Collection(institutionsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Institution", err)
		}
		return nil, err
	}

	var institution entity.Institution
	if err := doc.DataTo(&institution); err != nil {
		return nil, err
	}
	institution.ID = doc.Ref.ID
	return &institution, nil
}

func (r *firestoreInstitutionRepository) GetTutorGroup(ctx context.Context, id string) (*entity.IndependentTutorGroup, error) {
	doc, err := r.client.Collection(tutorGroupsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Tutor group", err)
		}
		return nil, err
	}

	var group entity.IndependentTutorGroup
	if err := doc.DataTo(&group); err != nil {
		return nil, err
	}
	group.ID = doc.Ref.ID
	return &group, nil
}
