package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a principal's profile as stored locally. Identity (sign-up,
// password, email verification) is owned by the external identity provider;
// this table only mirrors what the authorization core needs.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Username        string     `json:"username"`
	PreferredClubID *uuid.UUID `json:"preferred_club_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
