package types

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// TravelerProfile matches the users table. Timestamps are epoch milliseconds.
type TravelerProfile struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Gender      Gender    `json:"gender"`
	BirthDate   int64     `json:"birth_date"`
	Picture     *string   `json:"picture,omitempty"`
	Answers     []int     `json:"answers,omitempty"`
	Personality *int      `json:"personality,omitempty"`
	CreatedAt   int64     `json:"created_at"`
	UpdatedAt   int64     `json:"updated_at"`
}

// Age derives the traveler's age in whole years from the birth date.
func (p *TravelerProfile) Age(now time.Time) int {
	birth := time.UnixMilli(p.BirthDate)
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// ProfileResponse is the traveler profile with derived age and no password.
type ProfileResponse struct {
	TravelerProfile
	Age int `json:"age"`
}

func NewProfileResponse(p *TravelerProfile) ProfileResponse {
	return ProfileResponse{
		TravelerProfile: *p,
		Age:             p.Age(time.Now()),
	}
}

// UpdateProfileParams defines the fields allowed for profile updates.
// Personality and answers are excluded: they only change through the survey.
type UpdateProfileParams struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Gender      *Gender `json:"gender,omitempty"`
	BirthDate   *int64  `json:"birth_date,omitempty"`
	Picture     *string `json:"picture,omitempty"`
}
