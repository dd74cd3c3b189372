package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
)

const usersCollection = "users"

type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) repository.ProfileRepository {
	return &firestoreProfileRepository{
		client: client,
	}
}

func (r *firestoreProfileRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(id)
}

func (r *firestoreProfileRepository) Create(ctx context.Context, profile *entity.UserProfile) error {
	_, err := r.doc(profile.ID).Set(ctx, profile)
	return err
}

func (r *firestoreProfileRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User profile", err)
		}
		return nil, err
	}

	var profile entity.UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, err
	}
	profile.ID = doc.Ref.ID

	return &profile, nil
}

func (r *firestoreProfileRepository) ChooseRole(ctx context.Context, id string, role entity.Role, tutorVerified *bool) (*entity.UserProfile, error) {
	var profile *entity.UserProfile

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.doc(id)
		current := &entity.UserProfile{ID: id}

		doc, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			if err := doc.DataTo(current); err != nil {
				return err
			}
			current.ID = id
		}

		if current.Role != entity.RoleUnset {
			return errors.Conflict("Role already chosen")
		}

		data := map[string]interface{}{
			"id":        id,
			"role":      string(role),
			"updatedAt": time.Now(),
		}
		if tutorVerified != nil {
			data["tutorVerified"] = *tutorVerified
		} else {
			data["tutorVerified"] = firestore.Delete
		}
		if err := tx.Set(ref, data, firestore.MergeAll); err != nil {
			return err
		}

		current.Role = role
		current.TutorVerified = tutorVerified
		profile = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *firestoreProfileRepository) SetTutorVerified(ctx context.Context, id string, verified bool) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "tutorVerified", Value: verified},
	})
}

// SetPresence merges status and lastChanged so it works before the profile
// document exists.
func (r *firestoreProfileRepository) SetPresence(ctx context.Context, id string, state entity.PresenceState) error {
	_, err := r.doc(id).Set(ctx, map[string]interface{}{
		"status":      string(state.State),
		"lastChanged": state.LastChanged,
	}, firestore.MergeAll)
	return err
}

func (r *firestoreProfileRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	_, err := r.doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return errors.NotFound("User profile", err)
	}
	return err
}
