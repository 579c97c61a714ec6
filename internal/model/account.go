package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies which account variant a record or token refers to.
type Role string

const (
	RoleTutor   Role = "tutor"
	RoleStudent Role = "student"
)

// Roles lists every account variant. Lookups that must consider all
// variants iterate this slice so a new role is picked up everywhere.
var Roles = []Role{RoleTutor, RoleStudent}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTutor:
		return RoleTutor, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Title returns the capitalized role name used in user-facing messages.
func (r Role) Title() string {
	switch r {
	case RoleTutor:
		return "Tutor"
	case RoleStudent:
		return "Student"
	default:
		return "Account"
	}
}

// VerificationState tracks an account's email verification lifecycle.
//
//	pending ──send ok──▶ notified ──verify──▶ verified
//	   └──send failed──▶ notification_failed ──resend ok──▶ notified
type VerificationState string

const (
	VerificationPending            VerificationState = "pending"
	VerificationNotified           VerificationState = "notified"
	VerificationNotificationFailed VerificationState = "notification_failed"
	VerificationVerified           VerificationState = "verified"
)

// Account is a persisted Tutor or Student identity.
type Account struct {
	ID                uuid.UUID         `json:"id"`
	Role              Role              `json:"role"`
	FirstName         string            `json:"first_name"`
	LastName          string            `json:"last_name"`
	Institution       string            `json:"institution"`
	StudentID         string            `json:"student_id,omitempty"` // Student only
	Email             string            `json:"email"`
	PasswordHash      string            `json:"-"`
	VerificationState VerificationState `json:"verification_state"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Verified reports whether the account has confirmed its email.
func (a *Account) Verified() bool {
	return a.VerificationState == VerificationVerified
}

// Profile is the public view of an account.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Role        Role      `json:"role"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Institution string    `json:"institution"`
	StudentID   string    `json:"student_id,omitempty"`
	Email       string    `json:"email"`
	Verified    bool      `json:"verified"`
}

// Profile returns the public view of the account.
func (a *Account) Profile() Profile {
	return Profile{
		ID:          a.ID,
		Role:        a.Role,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Institution: a.Institution,
		StudentID:   a.StudentID,
		Email:       a.Email,
		Verified:    a.Verified(),
	}
}

// TutorSignupRequest is the payload for tutor registration.
type TutorSignupRequest struct {
	FirstName   string `json:"first_name" binding:"notblank,max=100"`
	LastName    string `json:"last_name" binding:"notblank,max=100"`
	Institution string `json:"institution" binding:"notblank,max=200"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"notblank,min=6,max=72,maxbytes=72"`
}

// StudentSignupRequest is the payload for student registration.
type StudentSignupRequest struct {
	FirstName   string `json:"first_name" binding:"notblank,max=100"`
	LastName    string `json:"last_name" binding:"notblank,max=100"`
	StudentID   string `json:"student_id" binding:"notblank,max=50"`
	Institution string `json:"institution" binding:"notblank,max=200"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"notblank,min=6,max=72,maxbytes=72"`
}

// LoginRequest is the payload for tutor and student authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"notblank,min=6,max=72,maxbytes=72"`
}

// ResendVerificationRequest is the payload for resending a verification link.
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}
