package types

import "github.com/google/uuid"

// Guide matches the guides table.
type Guide struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	CityID        uuid.UUID `json:"city_id"`
	DetailPicture string    `json:"detail_picture"`
	Description   string    `json:"description"`
	PricePerDay   int64     `json:"price_per_day"`
	CreatedAt     int64     `json:"created_at"`
	UpdatedAt     int64     `json:"updated_at"`
}

// GuideDetail is a guide enriched with its owner's public profile,
// city and associated reference data for display.
type GuideDetail struct {
	Guide
	Name       string     `json:"name"`
	Picture    *string    `json:"picture,omitempty"`
	Gender     Gender     `json:"gender"`
	Age        int        `json:"age"`
	City       string     `json:"city"`
	Categories []Category `json:"categories"`
	TopPlaces  []Place    `json:"top_places,omitempty"`
}
