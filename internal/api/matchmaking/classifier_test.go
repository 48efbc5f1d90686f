package matchmaking

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validAnswers() []int {
	answers := make([]int, types.AnswerCount)
	for i := range answers {
		answers[i] = (i % 5) + 1
	}
	return answers
}

func classifierServer(t *testing.T, predictions [][]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Instances [][]int `json:"instances"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Instances, 1)
		assert.Len(t, req.Instances[0], types.AnswerCount)

		json.NewEncoder(w).Encode(map[string]any{"predictions": predictions})
	}))
}

func TestModelClassifier_Classify(t *testing.T) {
	tests := []struct {
		name        string
		predictions [][]float64
		wantClass   int
	}{
		{
			name:        "clear winner",
			predictions: [][]float64{{0.1, 0.7, 0.05, 0.05, 0.1}},
			wantClass:   2,
		},
		{
			name:        "last class wins",
			predictions: [][]float64{{0.1, 0.1, 0.1, 0.1, 0.6}},
			wantClass:   5,
		},
		{
			name:        "tie resolves to lowest index",
			predictions: [][]float64{{0.3, 0.3, 0.2, 0.1, 0.1}},
			wantClass:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := classifierServer(t, tt.predictions)
			defer srv.Close()

			c := NewModelClassifier(srv.Client(), srv.URL, time.Second, testLogger())
			class, err := c.Classify(context.Background(), validAnswers())
			require.NoError(t, err)
			assert.Equal(t, tt.wantClass, class)
		})
	}
}

func TestModelClassifier_Classify_Errors(t *testing.T) {
	t.Run("wrong answer count", func(t *testing.T) {
		c := NewModelClassifier(http.DefaultClient, "http://unused", time.Second, testLogger())
		_, err := c.Classify(context.Background(), []int{1, 2, 3})
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewModelClassifier(srv.Client(), srv.URL, time.Second, testLogger())
		_, err := c.Classify(context.Background(), validAnswers())
		assert.ErrorIs(t, err, types.ErrClassificationFailed)
	})

	t.Run("wrong prediction count", func(t *testing.T) {
		srv := classifierServer(t, [][]float64{})
		defer srv.Close()

		c := NewModelClassifier(srv.Client(), srv.URL, time.Second, testLogger())
		_, err := c.Classify(context.Background(), validAnswers())
		assert.ErrorIs(t, err, types.ErrClassificationFailed)
	})

	t.Run("wrong score width", func(t *testing.T) {
		srv := classifierServer(t, [][]float64{{0.5, 0.5}})
		defer srv.Close()

		c := NewModelClassifier(srv.Client(), srv.URL, time.Second, testLogger())
		_, err := c.Classify(context.Background(), validAnswers())
		assert.ErrorIs(t, err, types.ErrClassificationFailed)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		c := NewModelClassifier(http.DefaultClient, "http://127.0.0.1:1", 200*time.Millisecond, testLogger())
		_, err := c.Classify(context.Background(), validAnswers())
		assert.ErrorIs(t, err, types.ErrClassificationFailed)
	})
}
