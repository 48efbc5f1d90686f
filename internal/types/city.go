package types

import "github.com/google/uuid"

// City matches the cities table structure.
type City struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
}
