package matchmaking

import (
	"bytes"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/mastour-id/mastour-server/internal/types"
)

// topGuides is how many matches a search returns at most.
const topGuides = 5

// Candidate pairs a guide with its embedding from the current batch.
type Candidate struct {
	GuideID   uuid.UUID
	Embedding types.Embedding
}

// Ranked is one scored guide in the ranking result.
type Ranked struct {
	GuideID uuid.UUID
	Score   float64
}

// Rank scores every candidate against the traveler embedding and returns the
// closest topGuides, highest score first.
//
// Scores normalize distance into [0,100] against the maximum distance of this
// run. When all candidates are equidistant (including the single-candidate
// case) the maximum distance is 0 and every candidate scores 0; the run still
// completes and never emits NaN or Inf.
//
// Selection sorts ascending by raw distance and takes the first topGuides,
// then re-sorts the selection descending by score for presentation. Equal
// distances break ties on guide id so a fixed snapshot always ranks the same.
func Rank(traveler types.Embedding, candidates []Candidate) []Ranked {
	if len(candidates) == 0 {
		return []Ranked{}
	}

	type scored struct {
		guideID  uuid.UUID
		distance float64
	}
	distances := make([]scored, len(candidates))
	maxDistance := 0.0
	for i, c := range candidates {
		d := euclideanDistance(traveler, c.Embedding)
		distances[i] = scored{guideID: c.GuideID, distance: d}
		if d > maxDistance {
			maxDistance = d
		}
	}

	sort.Slice(distances, func(i, j int) bool {
		if distances[i].distance != distances[j].distance {
			return distances[i].distance < distances[j].distance
		}
		return bytes.Compare(distances[i].guideID[:], distances[j].guideID[:]) < 0
	})

	if len(distances) > topGuides {
		distances = distances[:topGuides]
	}

	ranked := make([]Ranked, len(distances))
	for i, s := range distances {
		score := 0.0
		if maxDistance > 0 {
			score = (1 - s.distance/maxDistance) * 100
		}
		ranked[i] = Ranked{GuideID: s.guideID, Score: score}
	}

	// Normalization decreases with distance, so the selection is already
	// score-descending; the explicit sort keeps that an invariant rather
	// than a side effect of the selection order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// euclideanDistance zero-pads the shorter vector. Length mismatches should
// not happen for embeddings produced by one batch.
func euclideanDistance(a, b types.Embedding) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		diff := av - bv
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
