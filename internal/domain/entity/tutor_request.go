package entity

import "time"

type TutorRequestStatus string

const (
	TutorRequestPending  TutorRequestStatus = "pending"
	TutorRequestApproved TutorRequestStatus = "approved"
	TutorRequestRejected TutorRequestStatus = "rejected"
)

// TutorRequest is an application to run an independent tutor group.
type TutorRequest struct {
	ID               string             `json:"id" firestore:"id"`
	UserID           string             `json:"user_id" firestore:"userId"`
	Status           TutorRequestStatus `json:"status" firestore:"status"`
	GroupName        string             `json:"group_name" firestore:"groupName"`
	DNI              string             `json:"dni" firestore:"dni"`
	NotifiedRejected bool               `json:"notified_rejected" firestore:"notifiedRejected"`
	CreatedAt        time.Time          `json:"created_at" firestore:"createdAt"`
	UpdatedAt        time.Time          `json:"updated_at" firestore:"updatedAt"`
}

func (r *TutorRequest) IsPending() bool {
	return r.Status == TutorRequestPending
}

// NeedsRejectionNotice is true until the applicant has been told once.
func (r *TutorRequest) NeedsRejectionNotice() bool {
	return r.Status == TutorRequestRejected && !r.NotifiedRejected
}

// CanTransitionTo allows only pending -> approved and pending -> rejected.
func (r *TutorRequest) CanTransitionTo(next TutorRequestStatus) bool {
	return r.Status == TutorRequestPending &&
		(next == TutorRequestApproved || next == TutorRequestRejected)
}
