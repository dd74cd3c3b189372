package entity

import "time"

type Institution struct {
	ID        string    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	AdminID   string    `json:"admin_id,omitempty" firestore:"adminId,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type IndependentTutorGroup struct {
	ID        string    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	OwnerID   string    `json:"owner_id" firestore:"ownerId"`
	RequestID string    `json:"request_id,omitempty" firestore:"requestId,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type InstitutionKind string

const (
	InstitutionKindInstitution InstitutionKind = "institution"
	InstitutionKindTutorGroup  InstitutionKind = "tutor-group"
)

// InstitutionRef is the disambiguated target of a profile's institutionId.
type InstitutionRef struct {
	ID   string          `json:"id"`
	Kind InstitutionKind `json:"kind"`
	Name string          `json:"name"`
}
