package matchmaking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

func TestRank_NormalizesAgainstMaxDistance(t *testing.T) {
	traveler := types.Embedding{0, 0}
	guideA := uuid.New()
	guideB := uuid.New()

	// A at distance 2, B at distance 4.
	ranked := Rank(traveler, []Candidate{
		{GuideID: guideA, Embedding: types.Embedding{2, 0}},
		{GuideID: guideB, Embedding: types.Embedding{4, 0}},
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, guideA, ranked[0].GuideID)
	assert.InDelta(t, 50.0, ranked[0].Score, 1e-9)
	assert.Equal(t, guideB, ranked[1].GuideID)
	assert.InDelta(t, 0.0, ranked[1].Score, 1e-9)
}

func TestRank_TruncatesToTopGuides(t *testing.T) {
	traveler := types.Embedding{0}
	candidates := make([]Candidate, 8)
	for i := range candidates {
		candidates[i] = Candidate{
			GuideID:   uuid.New(),
			Embedding: types.Embedding{float64(i + 1)},
		}
	}

	ranked := Rank(traveler, candidates)
	require.Len(t, ranked, topGuides)

	// Closest candidates survive and come back highest score first.
	for i := 0; i < len(ranked)-1; i++ {
		assert.GreaterOrEqual(t, ranked[i].Score, ranked[i+1].Score)
	}
	assert.Equal(t, candidates[0].GuideID, ranked[0].GuideID)
}

func TestRank_SingleCandidateScoresZero(t *testing.T) {
	// One candidate is its own maximum distance, so normalization yields 0.
	ranked := Rank(types.Embedding{0, 0}, []Candidate{
		{GuideID: uuid.New(), Embedding: types.Embedding{3, 4}},
	})
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].Score)
}

func TestRank_AllEquidistantScoresZero(t *testing.T) {
	traveler := types.Embedding{0, 0}
	candidates := []Candidate{
		{GuideID: uuid.New(), Embedding: types.Embedding{1, 0}},
		{GuideID: uuid.New(), Embedding: types.Embedding{0, 1}},
		{GuideID: uuid.New(), Embedding: types.Embedding{-1, 0}},
	}
	ranked := Rank(traveler, candidates)
	require.Len(t, ranked, 3)
	for _, r := range ranked {
		assert.Equal(t, 0.0, r.Score)
	}
}

func TestRank_IdenticalEmbeddingsDegenerate(t *testing.T) {
	// Traveler coincides with every candidate: max distance 0, all scores 0.
	emb := types.Embedding{1, 2, 3}
	ranked := Rank(emb, []Candidate{
		{GuideID: uuid.New(), Embedding: emb},
		{GuideID: uuid.New(), Embedding: emb},
	})
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.Equal(t, 0.0, r.Score)
		assert.False(t, r.Score != r.Score, "score must not be NaN")
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	ranked := Rank(types.Embedding{1}, nil)
	assert.Empty(t, ranked)
}

func TestRank_Deterministic(t *testing.T) {
	traveler := types.Embedding{0}
	candidates := []Candidate{
		{GuideID: uuid.MustParse("99999999-0000-0000-0000-000000000000"), Embedding: types.Embedding{1}},
		{GuideID: uuid.MustParse("11111111-0000-0000-0000-000000000000"), Embedding: types.Embedding{1}},
		{GuideID: uuid.MustParse("55555555-0000-0000-0000-000000000000"), Embedding: types.Embedding{2}},
	}

	first := Rank(traveler, candidates)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Rank(traveler, candidates))
	}
	// Equal distances order by guide id bytes.
	assert.Equal(t, candidates[1].GuideID, first[0].GuideID)
	assert.Equal(t, candidates[0].GuideID, first[1].GuideID)
}

func TestRank_ScoresStayInBounds(t *testing.T) {
	traveler := types.Embedding{0, 0, 0}
	candidates := []Candidate{
		{GuideID: uuid.New(), Embedding: types.Embedding{0.1, 0, 0}},
		{GuideID: uuid.New(), Embedding: types.Embedding{5, 5, 5}},
		{GuideID: uuid.New(), Embedding: types.Embedding{-3, 2, 1}},
		{GuideID: uuid.New(), Embedding: types.Embedding{100, -100, 0}},
	}
	for _, r := range Rank(traveler, candidates) {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 100.0)
	}
}

func TestEuclideanDistance(t *testing.T) {
	assert.InDelta(t, 5.0, euclideanDistance(types.Embedding{0, 0}, types.Embedding{3, 4}), 1e-9)
	assert.InDelta(t, 0.0, euclideanDistance(types.Embedding{1, 1}, types.Embedding{1, 1}), 1e-9)
	// Shorter vector is zero-padded.
	assert.InDelta(t, 5.0, euclideanDistance(types.Embedding{3}, types.Embedding{0, 4}), 1e-9)
}
