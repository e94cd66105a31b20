package domain

import (
	"time"

	"github.com/google/uuid"
)

// CardSet groups cards owned by a single user. Only the fields needed to
// check ownership are modelled here.
type CardSet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the set belongs to userID.
func (s *CardSet) OwnedBy(userID uuid.UUID) bool {
	return s != nil && userID != uuid.Nil && s.UserID == userID
}
