package matchmaking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

func TestModelProjector_Project(t *testing.T) {
	var gotInstances [][]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Instances [][]float64 `json:"instances"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotInstances = req.Instances

		// Echo back one 3-dim embedding per instance.
		predictions := make([][]float64, len(req.Instances))
		for i := range predictions {
			predictions[i] = []float64{float64(i), float64(i) + 0.5, 0}
		}
		json.NewEncoder(w).Encode(map[string]any{"predictions": predictions})
	}))
	defer srv.Close()

	p := NewModelProjector(srv.Client(), srv.URL, time.Second, testLogger())

	vectors := []types.FeatureVector{
		{1, 0, 1, 0},
		{0, 1, 0, 1},
		{1, 1, 1, 1},
	}
	embeddings, err := p.Project(context.Background(), vectors)
	require.NoError(t, err)

	// All vectors go out in one batch, in order.
	require.Len(t, gotInstances, 3)
	assert.Equal(t, []float64{1, 0, 1, 0}, gotInstances[0])

	require.Len(t, embeddings, 3)
	assert.Equal(t, types.Embedding{0, 0.5, 0}, embeddings[0])
	assert.Equal(t, types.Embedding{2, 2.5, 0}, embeddings[2])
}

func TestModelProjector_Project_Errors(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		p := NewModelProjector(http.DefaultClient, "http://unused", time.Second, testLogger())
		_, err := p.Project(context.Background(), nil)
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"predictions": [][]float64{{1, 2}}})
		}))
		defer srv.Close()

		p := NewModelProjector(srv.Client(), srv.URL, time.Second, testLogger())
		_, err := p.Project(context.Background(), []types.FeatureVector{{1}, {2}})
		assert.ErrorIs(t, err, types.ErrProjectionFailed)
	})

	t.Run("empty embedding row", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"predictions": [][]float64{{}}})
		}))
		defer srv.Close()

		p := NewModelProjector(srv.Client(), srv.URL, time.Second, testLogger())
		_, err := p.Project(context.Background(), []types.FeatureVector{{1}})
		assert.ErrorIs(t, err, types.ErrProjectionFailed)
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		p := NewModelProjector(srv.Client(), srv.URL, time.Second, testLogger())
		_, err := p.Project(context.Background(), []types.FeatureVector{{1}})
		assert.ErrorIs(t, err, types.ErrProjectionFailed)
	})
}
