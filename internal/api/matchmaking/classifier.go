package matchmaking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mastour-id/mastour-server/internal/types"
)

// instancesRequest is the TF-Serving style request envelope: one row per
// instance, all instances answered by a single model invocation.
type instancesRequest[T any] struct {
	Instances []T `json:"instances"`
}

type predictionsResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// PersonalityClassifier turns a survey answer vector into a personality
// class in 1..PersonalityClasses.
type PersonalityClassifier interface {
	Classify(ctx context.Context, answers []int) (int, error)
}

var _ PersonalityClassifier = (*ModelClassifier)(nil)

// ModelClassifier calls the external personality inference endpoint.
type ModelClassifier struct {
	logger  *slog.Logger
	client  *http.Client
	url     string
	timeout time.Duration
}

func NewModelClassifier(client *http.Client, url string, timeout time.Duration, logger *slog.Logger) *ModelClassifier {
	return &ModelClassifier{
		logger:  logger,
		client:  client,
		url:     url,
		timeout: timeout,
	}
}

// Classify sends a single-instance batch and returns the 1-indexed argmax of
// the returned score vector. Ties resolve to the lowest index.
func (c *ModelClassifier) Classify(ctx context.Context, answers []int) (int, error) {
	if len(answers) != types.AnswerCount {
		return 0, fmt.Errorf("%w: expected %d answers, got %d", types.ErrBadRequest, types.AnswerCount, len(answers))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	predictions, err := postInstances[[]int](ctx, c.client, c.url, [][]int{answers})
	if err != nil {
		c.logger.ErrorContext(ctx, "Personality model call failed", slog.Any("error", err))
		return 0, fmt.Errorf("%w: %w", types.ErrClassificationFailed, err)
	}
	if len(predictions) != 1 {
		return 0, fmt.Errorf("%w: expected 1 prediction, got %d", types.ErrClassificationFailed, len(predictions))
	}
	scores := predictions[0]
	if len(scores) != types.PersonalityClasses {
		return 0, fmt.Errorf("%w: expected %d scores, got %d", types.ErrClassificationFailed, types.PersonalityClasses, len(scores))
	}

	return argmax(scores) + 1, nil
}

// argmax returns the index of the first maximum.
func argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}

// postInstances performs one synchronous model call and returns the
// prediction rows in request order.
func postInstances[T any](ctx context.Context, client *http.Client, url string, instances []T) ([][]float64, error) {
	body, err := json.Marshal(instancesRequest[T]{Instances: instances})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal instances: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var decoded predictionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	return decoded.Predictions, nil
}
