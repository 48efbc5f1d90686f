package types

import "github.com/google/uuid"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusOnGoing   BookingStatus = "on_going"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking matches the ordered_guides table. Dates are epoch milliseconds.
type Booking struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	GuideID   uuid.UUID     `json:"guide_id"`
	Status    BookingStatus `json:"status"`
	StartDate int64         `json:"start_date"`
	EndDate   int64         `json:"end_date"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
}

// BookRequest is the body for booking a guide.
type BookRequest struct {
	StartDate int64 `json:"start_date"`
	EndDate   int64 `json:"end_date"`
}

// BookingHistory is a booking enriched with display fields.
type BookingHistory struct {
	Booking
	GuideName  string `json:"guide_name"`
	City       string `json:"city"`
	CountDay   int    `json:"count_day"`
	TotalPrice int64  `json:"total_price"`
}
