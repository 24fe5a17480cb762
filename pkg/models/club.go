package models

import (
	"time"

	"github.com/google/uuid"
)

// Club is an organizational scope: one physical training location.
type Club struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
