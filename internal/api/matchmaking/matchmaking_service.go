package matchmaking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/mastour-id/mastour-server/app/observability/metrics"
	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the matchmaking orchestrator: survey submission and guide search.
type Service interface {
	SubmitSurvey(ctx context.Context, userID uuid.UUID, answers []int) (*types.TravelerProfile, error)
	Search(ctx context.Context, userID uuid.UUID, cityID uuid.UUID, categoryIDs []uuid.UUID) ([]types.GuideMatch, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	classifier PersonalityClassifier
	projector  EmbeddingProjector
}

func NewMatchmakingService(repo Repository, classifier PersonalityClassifier, projector EmbeddingProjector, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		classifier: classifier,
		projector:  projector,
	}
}

// SubmitSurvey classifies the traveler's answers and persists answers plus
// personality class together. A failed classification writes nothing.
func (s *ServiceImpl) SubmitSurvey(ctx context.Context, userID uuid.UUID, answers []int) (*types.TravelerProfile, error) {
	ctx, span := otel.Tracer("MatchmakingService").Start(ctx, "SubmitSurvey", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "SubmitSurvey"), slog.String("userID", userID.String()))

	if err := validateAnswers(answers); err != nil {
		l.WarnContext(ctx, "Invalid survey answers", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid survey answers")
		return nil, err
	}

	class, err := s.classifier.Classify(ctx, answers)
	if err != nil {
		l.ErrorContext(ctx, "Failed to classify personality", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to classify personality")
		if m := metrics.Get(); m != nil {
			m.ModelCallErrorsTotal.Add(ctx, 1)
		}
		return nil, err
	}

	profile, err := s.repo.UpdateSurveyResult(ctx, userID, answers, class)
	if err != nil {
		l.ErrorContext(ctx, "Failed to persist survey result", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist survey result")
		if m := metrics.Get(); m != nil {
			m.DbQueryErrorsTotal.Add(ctx, 1)
		}
		return nil, fmt.Errorf("error persisting survey result: %w", err)
	}

	if m := metrics.Get(); m != nil {
		m.SurveyRequestsTotal.Add(ctx, 1)
		m.SurveyDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	l.InfoContext(ctx, "Survey submitted successfully", slog.Int("personality", class))
	span.SetStatus(codes.Ok, "Survey submitted successfully")
	return profile, nil
}

// Search ranks the guides of one city against the traveler and returns the
// top matches with display records and scores attached.
//
// The traveler and every candidate are encoded with the same encoder and
// projected in a single batch so the embeddings are comparable. Any failure
// before ranking aborts the whole search; no partial response is produced.
func (s *ServiceImpl) Search(ctx context.Context, userID uuid.UUID, cityID uuid.UUID, categoryIDs []uuid.UUID) ([]types.GuideMatch, error) {
	ctx, span := otel.Tracer("MatchmakingService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("city.id", cityID.String()),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "Search"),
		slog.String("userID", userID.String()), slog.String("cityID", cityID.String()))

	profile, err := s.repo.GetTravelerProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch traveler profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch traveler profile")
		return nil, fmt.Errorf("error fetching traveler profile: %w", err)
	}
	// Precondition: the survey must have completed before any external call.
	if profile.Personality == nil {
		l.WarnContext(ctx, "Traveler has no personality class yet")
		span.SetStatus(codes.Error, "Personality not set")
		return nil, types.ErrPersonalityNotSet
	}

	candidates, err := s.repo.GetCandidateGuides(ctx, cityID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load candidate guides", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load candidate guides")
		if m := metrics.Get(); m != nil {
			m.DbQueryErrorsTotal.Add(ctx, 1)
		}
		return nil, fmt.Errorf("error loading candidate guides: %w", err)
	}
	if len(candidates) == 0 {
		l.InfoContext(ctx, "No guides available in city")
		span.SetStatus(codes.Ok, "No guides available")
		return []types.GuideMatch{}, nil
	}

	orderedCategoryIDs, err := s.repo.GetOrderedCategoryIDs(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load category order", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load category order")
		return nil, fmt.Errorf("error loading categories: %w", err)
	}
	encoder := NewEncoder(orderedCategoryIDs)
	now := time.Now()

	vectors := make([]types.FeatureVector, 0, len(candidates)+1)
	travelerVec, err := encoder.Encode(EncodeInput{
		Gender:      profile.Gender,
		BirthDate:   profile.BirthDate,
		CategoryIDs: categoryIDs,
		Personality: profile.Personality,
	}, now)
	if err != nil {
		l.ErrorContext(ctx, "Failed to encode traveler", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to encode traveler")
		return nil, err
	}
	vectors = append(vectors, travelerVec)

	for _, c := range candidates {
		personality := c.Personality
		vec, err := encoder.Encode(EncodeInput{
			Gender:      c.Gender,
			BirthDate:   c.BirthDate,
			CategoryIDs: c.CategoryIDs,
			Personality: &personality,
		}, now)
		if err != nil {
			l.ErrorContext(ctx, "Failed to encode guide", slog.String("guideID", c.GuideID.String()), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to encode guide")
			return nil, fmt.Errorf("error encoding guide %s: %w", c.GuideID, err)
		}
		vectors = append(vectors, vec)
	}

	// One batched call; embeddings are only comparable within this batch.
	embeddings, err := s.projector.Project(ctx, vectors)
	if err != nil {
		l.ErrorContext(ctx, "Failed to project feature vectors", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to project feature vectors")
		if m := metrics.Get(); m != nil {
			m.ModelCallErrorsTotal.Add(ctx, 1)
		}
		return nil, err
	}

	ranked := Rank(embeddings[0], zipCandidates(candidates, embeddings[1:]))

	matches, err := s.fetchMatches(ctx, ranked)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch match details", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch match details")
		return nil, err
	}

	if m := metrics.Get(); m != nil {
		m.SearchRequestsTotal.Add(ctx, 1)
		m.SearchDurationSeconds.Record(ctx, time.Since(start).Seconds())
		m.GuidesRankedPerSearch.Record(ctx, int64(len(candidates)))
	}
	l.InfoContext(ctx, "Search completed", slog.Int("candidates", len(candidates)), slog.Int("matches", len(matches)))
	span.SetStatus(codes.Ok, "Search completed")
	return matches, nil
}

// fetchMatches loads the display record for each selected guide. Records are
// fetched concurrently but placed by index so the ranked order survives.
func (s *ServiceImpl) fetchMatches(ctx context.Context, ranked []Ranked) ([]types.GuideMatch, error) {
	matches := make([]types.GuideMatch, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranked {
		g.Go(func() error {
			detail, err := s.repo.GetGuideDetail(gctx, r.GuideID)
			if err != nil {
				return fmt.Errorf("error fetching guide %s: %w", r.GuideID, err)
			}
			matches[i] = types.GuideMatch{GuideDetail: *detail, Score: r.Score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

func zipCandidates(candidates []types.CandidateGuide, embeddings []types.Embedding) []Candidate {
	zipped := make([]Candidate, len(candidates))
	for i, c := range candidates {
		zipped[i] = Candidate{GuideID: c.GuideID, Embedding: embeddings[i]}
	}
	return zipped
}

func validateAnswers(answers []int) error {
	if len(answers) != types.AnswerCount {
		return fmt.Errorf("%w: expected %d answers, got %d", types.ErrBadRequest, types.AnswerCount, len(answers))
	}
	for i, a := range answers {
		if a < 1 || a > 5 {
			return fmt.Errorf("%w: answer %d out of range at position %d", types.ErrBadRequest, a, i)
		}
	}
	return nil
}
