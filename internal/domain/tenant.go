package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant owns batches, stories and evaluation results. Only the SHA-256 of
// its API key is stored.
type Tenant struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
