package matchmaking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mastour-id/mastour-server/internal/types"
)

// ageBuckets are the five disjoint age ranges encoded as a one-hot block,
// in this fixed order. The last bucket is open-ended.
var ageBuckets = [5]struct {
	min int
	max int
}{
	{17, 25},
	{26, 34},
	{35, 43},
	{44, 52},
	{53, 1 << 30},
}

// EncodeInput is the profile slice needed to build one feature vector.
type EncodeInput struct {
	Gender      types.Gender
	BirthDate   int64
	CategoryIDs []uuid.UUID
	Personality *int
}

// Encoder builds feature vectors over a fixed, canonical category order so
// traveler and guide vectors are comparable within one search.
type Encoder struct {
	categoryIDs []uuid.UUID
	categoryIdx map[uuid.UUID]int
}

func NewEncoder(categoryIDs []uuid.UUID) *Encoder {
	idx := make(map[uuid.UUID]int, len(categoryIDs))
	for i, id := range categoryIDs {
		idx[id] = i
	}
	return &Encoder{categoryIDs: categoryIDs, categoryIdx: idx}
}

// VectorLength is the constant length of every vector this encoder produces.
func (e *Encoder) VectorLength() int {
	return 1 + len(ageBuckets) + len(e.categoryIDs) + types.PersonalityClasses
}

// Encode maps a profile to its feature vector:
// [gender 0/1] + [one-hot age bucket x5] + [category flags] + [one-hot personality x5].
// A profile without a persisted personality cannot be encoded.
func (e *Encoder) Encode(in EncodeInput, now time.Time) (types.FeatureVector, error) {
	if in.Personality == nil {
		return nil, types.ErrPersonalityNotSet
	}
	class := *in.Personality
	if class < 1 || class > types.PersonalityClasses {
		return nil, fmt.Errorf("%w: personality class %d out of range", types.ErrBadRequest, class)
	}

	vec := make(types.FeatureVector, 0, e.VectorLength())

	if in.Gender == types.GenderMale {
		vec = append(vec, 1)
	} else {
		vec = append(vec, 0)
	}

	vec = append(vec, ageOneHot(ageFromBirthDate(in.BirthDate, now))...)

	flags := make([]float64, len(e.categoryIDs))
	for _, id := range in.CategoryIDs {
		if i, ok := e.categoryIdx[id]; ok {
			flags[i] = 1
		}
	}
	vec = append(vec, flags...)

	personality := make([]float64, types.PersonalityClasses)
	personality[class-1] = 1
	vec = append(vec, personality...)

	return vec, nil
}

func ageFromBirthDate(birthDate int64, now time.Time) int {
	birth := time.UnixMilli(birthDate)
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// ageOneHot picks exactly one bucket. Ages below the first bucket's lower
// bound fall into the last bucket; an inherited simplification that the
// rest of the pipeline depends on, so keep it.
func ageOneHot(age int) []float64 {
	oneHot := make([]float64, len(ageBuckets))
	idx := len(ageBuckets) - 1
	for i, b := range ageBuckets {
		if age >= b.min && age <= b.max {
			idx = i
			break
		}
	}
	oneHot[idx] = 1
	return oneHot
}
