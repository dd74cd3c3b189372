package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
	"predu/pkg/logger"
)

const tutorRequestsCollection = "tutorRequests"

type firestoreTutorRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreTutorRequestRepository(client *firestore.Client) repository.TutorRequestRepository {
	return &firestoreTutorRequestRepository{
		client: client,
	}
}

func (r *firestoreTutorRequestRepository) Create(ctx context.Context, request *entity.TutorRequest) error {
	_, err := r.client.Collection(tutorRequestsCollection).Doc(request.ID).Set(ctx, request)
	return err
}

func (r *firestoreTutorRequestRepository) GetByID(ctx context.Context, id string) (*entity.TutorRequest, error) {
	doc, err := r.client.Collection(tutorRequestsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Tutor request", err)
		}
		return nil, err
	}
	return decodeTutorRequest(doc)
}

func (r *firestoreTutorRequestRepository) FindLatestByUser(ctx context.Context, userID string) (*entity.TutorRequest, error) {
	iter := r.client.Collection(tutorRequestsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeTutorRequest(doc)
}

func (r *firestoreTutorRequestRepository) ListByStatus(ctx context.Context, status entity.TutorRequestStatus, limit, offset int) ([]*entity.TutorRequest, int64, error) {
	base := r.client.Collection(tutorRequestsCollection).Where("status", "==", string(status))

	countDocs, err := base.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(countDocs))

	query := base.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var requests []*entity.TutorRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		request, err := decodeTutorRequest(doc)
		if err != nil {
			logger.Error("Failed to parse tutor request %s: %v", doc.Ref.ID, err)
			continue
		}
		requests = append(requests, request)
	}

	return requests, total, nil
}

func (r *firestoreTutorRequestRepository) Approve(ctx context.Context, id string, newGroup repository.NewGroupFunc) (*entity.TutorRequest, *entity.IndependentTutorGroup, error) {
	var (
		request *entity.TutorRequest
		group   *entity.IndependentTutorGroup
	)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.client.Collection(tutorRequestsCollection).Doc(id)
		current, err := getPendingRequest(tx, ref, entity.TutorRequestApproved)
		if err != nil {
			return err
		}

		now := time.Now()
		g := newGroup(current)

		if err := tx.Update(ref, statusUpdates(entity.TutorRequestApproved, now)); err != nil {
			return err
		}
		if err := tx.Create(r.client.Collection(tutorGroupsCollection).Doc(g.ID), g); err != nil {
			return err
		}
		if err := tx.Set(r.client.Collection(usersCollection).Doc(current.UserID), map[string]interface{}{
			"id":            current.UserID,
			"role":          string(entity.RoleTutor),
			"tutorVerified": true,
			"institutionId": g.ID,
			"updatedAt":     now,
		}, firestore.MergeAll); err != nil {
			return err
		}

		current.Status = entity.TutorRequestApproved
		current.NotifiedRejected = false
		current.UpdatedAt = now
		request, group = current, g
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return request, group, nil
}

func (r *firestoreTutorRequestRepository) Reject(ctx context.Context, id string) (*entity.TutorRequest, error) {
	var request *entity.TutorRequest

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.client.Collection(tutorRequestsCollection).Doc(id)
		current, err := getPendingRequest(tx, ref, entity.TutorRequestRejected)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Update(ref, statusUpdates(entity.TutorRequestRejected, now)); err != nil {
			return err
		}

		current.Status = entity.TutorRequestRejected
		current.NotifiedRejected = false
		current.UpdatedAt = now
		request = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (r *firestoreTutorRequestRepository) MarkNotifiedRejected(ctx context.Context, id string) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "notifiedRejected", Value: true},
	})
}

func (r *firestoreTutorRequestRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	_, err := r.client.Collection(tutorRequestsCollection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return errors.NotFound("Tutor request", err)
	}
	return err
}

func getPendingRequest(tx *firestore.Transaction, ref *firestore.DocumentRef, next entity.TutorRequestStatus) (*entity.TutorRequest, error) {
	doc, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Tutor request", err)
		}
		return nil, err
	}

	request, err := decodeTutorRequest(doc)
	if err != nil {
		return nil, err
	}
	if !request.CanTransitionTo(next) {
		return nil, errors.Conflict("Tutor request is not pending")
	}
	return request, nil
}

// statusUpdates also resets notifiedRejected so a new rejection is announced.
func statusUpdates(next entity.TutorRequestStatus, now time.Time) []firestore.Update {
	return []firestore.Update{
		{Path: "status", Value: string(next)},
		{Path: "notifiedRejected", Value: false},
		{Path: "updatedAt", Value: now},
	}
}

func decodeTutorRequest(doc *firestore.DocumentSnapshot) (*entity.TutorRequest, error) {
	var request entity.TutorRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, err
	}
	request.ID = doc.Ref.ID
	return &request, nil
}
