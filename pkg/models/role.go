package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named privilege tier. Lower level means more privileged.
// Roles are static reference data seeded by migration, not created by users.
type Role struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Role name constants.
const (
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
	RoleCoach     = "coach"
	RoleStudent   = "student"
)

// LevelStaff is the maximum level considered "elevated" (admin or developer).
// Principals at or below this level pass the maintenance gate.
const LevelStaff = 1

// RoleBinding associates a principal with a role, optionally scoped to a
// club. Uniqueness on (user, role, club) is enforced by the storage layer;
// granting the same binding twice is an upsert, never a duplicate row.
type RoleBinding struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	RoleID    uuid.UUID  `json:"role_id"`
	RoleName  string     `json:"role_name"`
	RoleLevel int        `json:"role_level"`
	ClubID    *uuid.UUID `json:"club_id,omitempty"`
	GrantedBy *uuid.UUID `json:"granted_by,omitempty"`
	GrantedAt time.Time  `json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the binding has a past expiry.
func (b *RoleBinding) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && !b.ExpiresAt.After(now)
}
