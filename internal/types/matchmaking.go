package types

import "github.com/google/uuid"

const (
	// AnswerCount is the fixed width of the personality survey answer vector.
	AnswerCount = 25
	// PersonalityClasses is the number of classes the model distinguishes.
	PersonalityClasses = 5
)

// FeatureVector is the fixed-length numeric encoding of a profile:
// [gender 0/1] + [one-hot age bucket x5] + [category flags] + [one-hot personality x5].
type FeatureVector []float64

// Embedding is a lower-dimensional projection of one feature vector.
// Embeddings are only comparable within the batch that produced them.
type Embedding []float64

// SurveyRequest carries the 25 survey answers.
type SurveyRequest struct {
	Answers []int `json:"answers"`
}

// MatchSearchRequest selects the city to rank guides in and carries the
// traveler's current interest-category selection.
type MatchSearchRequest struct {
	CityID      uuid.UUID   `json:"city_id"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

// GuideMatch is one ranked result: a display-ready guide plus its score.
type GuideMatch struct {
	GuideDetail
	Score float64 `json:"score"`
}

// MatchSearchResponse is the ranked top-N list, highest score first.
type MatchSearchResponse struct {
	Matches []GuideMatch `json:"matches"`
}

// CandidateGuide is the minimal guide projection needed to build a
// feature vector: demographics plus associated category ids.
type CandidateGuide struct {
	GuideID     uuid.UUID
	UserID      uuid.UUID
	Gender      Gender
	BirthDate   int64
	Personality int
	CategoryIDs []uuid.UUID
}
