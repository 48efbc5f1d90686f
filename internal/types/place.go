package types

import "github.com/google/uuid"

// Place is a point of interest a guide can feature.
type Place struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Picture   *string   `json:"picture,omitempty"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
}
