package entity

import (
	"time"

	"github.com/google/uuid"
)

// OTP is the live one-time code for a user. Lives in the cache only.
type OTP struct {
	UserID uuid.UUID
	Code   string
}

// PendingLogin links a login session to the user who passed the password
// stage but has not yet confirmed the OTP. CompletedAt is set once the OTP
// was accepted; a completed marker no longer vouches for anyone.
type PendingLogin struct {
	SessionID   string     `json:"session_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (p *PendingLogin) Completed() bool { return p.CompletedAt != nil }
