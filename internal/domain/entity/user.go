package entity

import (
	"time"
)

type Role string

const (
	RoleUnset   Role = ""
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUnset, RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// UserProfile is the Firestore document under users/{uid}. Optional flags are
// pointers because an absent field and an explicit false mean different things.
type UserProfile struct {
	ID                string `json:"id" firestore:"id"`
	Email             string `json:"email" firestore:"email"`
	DisplayName       string `json:"display_name,omitempty" firestore:"displayName,omitempty"`
	Role              Role   `json:"role,omitempty" firestore:"role,omitempty"`
	TutorVerified     *bool  `json:"tutor_verified,omitempty" firestore:"tutorVerified,omitempty"`
	InstitutionID     string `json:"institution_id,omitempty" firestore:"institutionId,omitempty"`
	IsProfileComplete *bool  `json:"is_profile_complete,omitempty" firestore:"isProfileComplete,omitempty"`
	IsHero            *bool  `json:"is_hero,omitempty" firestore:"isHero,omitempty"`

	Status      PresenceStatus `json:"status,omitempty" firestore:"status,omitempty"`
	LastChanged time.Time      `json:"last_changed,omitempty" firestore:"lastChanged,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// NeedsTutorVerification reports role=tutor with an explicit tutorVerified=false.
func (p *UserProfile) NeedsTutorVerification() bool {
	return p.Role == RoleTutor && p.TutorVerified != nil && !*p.TutorVerified
}

// Identity is what the identity provider knows about the signed-in user.
type Identity struct {
	UID       string `json:"uid"`
	Email     string `json:"email,omitempty"`
	Anonymous bool   `json:"anonymous"`
}

func BoolPtr(b bool) *bool {
	return &b
}

// AuthTokens is the result of a password sign-in.
type AuthTokens struct {
	UID          string `json:"uid"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}
