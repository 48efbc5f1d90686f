package matchmaking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

func intPtr(v int) *int { return &v }

func birthDateForAge(age int, now time.Time) int64 {
	return now.AddDate(-age, 0, -1).UnixMilli()
}

func TestEncoder_Encode(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	catA := uuid.New()
	catB := uuid.New()
	catC := uuid.New()
	encoder := NewEncoder([]uuid.UUID{catA, catB, catC})

	require.Equal(t, 1+5+3+5, encoder.VectorLength())

	tests := []struct {
		name  string
		input EncodeInput
		want  types.FeatureVector
	}{
		{
			name: "male with two categories",
			input: EncodeInput{
				Gender:      types.GenderMale,
				BirthDate:   birthDateForAge(30, now),
				CategoryIDs: []uuid.UUID{catA, catC},
				Personality: intPtr(2),
			},
			want: types.FeatureVector{
				1,
				0, 1, 0, 0, 0,
				1, 0, 1,
				0, 1, 0, 0, 0,
			},
		},
		{
			name: "female no categories",
			input: EncodeInput{
				Gender:      types.GenderFemale,
				BirthDate:   birthDateForAge(19, now),
				Personality: intPtr(5),
			},
			want: types.FeatureVector{
				0,
				1, 0, 0, 0, 0,
				0, 0, 0,
				0, 0, 0, 0, 1,
			},
		},
		{
			name: "unknown category ids are ignored",
			input: EncodeInput{
				Gender:      types.GenderFemale,
				BirthDate:   birthDateForAge(45, now),
				CategoryIDs: []uuid.UUID{uuid.New()},
				Personality: intPtr(1),
			},
			want: types.FeatureVector{
				0,
				0, 0, 0, 1, 0,
				0, 0, 0,
				1, 0, 0, 0, 0,
			},
		},
		{
			name: "old age lands in open-ended bucket",
			input: EncodeInput{
				Gender:      types.GenderMale,
				BirthDate:   birthDateForAge(70, now),
				Personality: intPtr(3),
			},
			want: types.FeatureVector{
				1,
				0, 0, 0, 0, 1,
				0, 0, 0,
				0, 0, 1, 0, 0,
			},
		},
		{
			name: "under-age falls into last bucket",
			input: EncodeInput{
				Gender:      types.GenderFemale,
				BirthDate:   birthDateForAge(12, now),
				Personality: intPtr(4),
			},
			want: types.FeatureVector{
				0,
				0, 0, 0, 0, 1,
				0, 0, 0,
				0, 0, 0, 1, 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoder.Encode(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, encoder.VectorLength())
		})
	}
}

func TestEncoder_Encode_Errors(t *testing.T) {
	now := time.Now()
	encoder := NewEncoder([]uuid.UUID{uuid.New()})

	t.Run("nil personality", func(t *testing.T) {
		_, err := encoder.Encode(EncodeInput{
			Gender:    types.GenderMale,
			BirthDate: birthDateForAge(30, now),
		}, now)
		assert.ErrorIs(t, err, types.ErrPersonalityNotSet)
	})

	t.Run("personality out of range", func(t *testing.T) {
		for _, class := range []int{0, 6, -1} {
			_, err := encoder.Encode(EncodeInput{
				Gender:      types.GenderMale,
				BirthDate:   birthDateForAge(30, now),
				Personality: intPtr(class),
			}, now)
			assert.True(t, errors.Is(err, types.ErrBadRequest), "class %d should be rejected", class)
		}
	})
}

func TestEncoder_AgeBucketBoundaries(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	encoder := NewEncoder(nil)

	tests := []struct {
		age    int
		bucket int
	}{
		{17, 0}, {25, 0},
		{26, 1}, {34, 1},
		{35, 2}, {43, 2},
		{44, 3}, {52, 3},
		{53, 4}, {90, 4},
	}
	for _, tt := range tests {
		vec, err := encoder.Encode(EncodeInput{
			Gender:      types.GenderFemale,
			BirthDate:   birthDateForAge(tt.age, now),
			Personality: intPtr(1),
		}, now)
		require.NoError(t, err)

		ageBlock := vec[1 : 1+len(ageBuckets)]
		for i, v := range ageBlock {
			if i == tt.bucket {
				assert.Equal(t, 1.0, v, "age %d should set bucket %d", tt.age, tt.bucket)
			} else {
				assert.Equal(t, 0.0, v, "age %d should not set bucket %d", tt.age, i)
			}
		}
	}
}
