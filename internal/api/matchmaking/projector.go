package matchmaking

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mastour-id/mastour-server/internal/types"
)

// EmbeddingProjector reduces a batch of feature vectors to embeddings.
// The whole batch is projected by one model invocation, so the returned
// embeddings are comparable with each other but not across calls.
type EmbeddingProjector interface {
	Project(ctx context.Context, vectors []types.FeatureVector) ([]types.Embedding, error)
}

var _ EmbeddingProjector = (*ModelProjector)(nil)

// ModelProjector calls the external dimensionality-reduction endpoint.
type ModelProjector struct {
	logger  *slog.Logger
	client  *http.Client
	url     string
	timeout time.Duration
}

func NewModelProjector(client *http.Client, url string, timeout time.Duration, logger *slog.Logger) *ModelProjector {
	return &ModelProjector{
		logger:  logger,
		client:  client,
		url:     url,
		timeout: timeout,
	}
}

// Project submits all vectors in one batch and returns one embedding per
// input vector, in input order. Partial results are rejected.
func (p *ModelProjector) Project(ctx context.Context, vectors []types.FeatureVector) ([]types.Embedding, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty batch", types.ErrBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	instances := make([][]float64, len(vectors))
	for i, v := range vectors {
		instances[i] = v
	}

	predictions, err := postInstances[[]float64](ctx, p.client, p.url, instances)
	if err != nil {
		p.logger.ErrorContext(ctx, "Projection model call failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", types.ErrProjectionFailed, err)
	}
	if len(predictions) != len(vectors) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", types.ErrProjectionFailed, len(vectors), len(predictions))
	}

	embeddings := make([]types.Embedding, len(predictions))
	for i, row := range predictions {
		if len(row) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", types.ErrProjectionFailed, i)
		}
		embeddings[i] = row
	}
	return embeddings, nil
}
