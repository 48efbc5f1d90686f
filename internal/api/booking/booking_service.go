package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	BookGuide(ctx context.Context, userID, guideID uuid.UUID, req types.BookRequest) (*types.Booking, error)
	GetBookingHistory(ctx context.Context, userID uuid.UUID) ([]types.BookingHistory, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewBookingService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// BookGuide creates a pending booking after checking the guide exists and the
// requested window doesn't collide with an active booking.
func (s *ServiceImpl) BookGuide(ctx context.Context, userID, guideID uuid.UUID, req types.BookRequest) (*types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "BookGuide", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("guide.id", guideID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "BookGuide"),
		slog.String("userID", userID.String()), slog.String("guideID", guideID.String()))

	if req.StartDate <= 0 || req.EndDate <= 0 || req.EndDate < req.StartDate {
		return nil, fmt.Errorf("%w: invalid booking window", types.ErrBadRequest)
	}

	if _, err := s.repo.GetGuidePricePerDay(ctx, guideID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Guide lookup failed")
		return nil, fmt.Errorf("error looking up guide: %w", err)
	}

	overlap, err := s.repo.HasOverlappingBooking(ctx, guideID, req.StartDate, req.EndDate)
	if err != nil {
		l.ErrorContext(ctx, "Failed to check booking overlap", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to check booking overlap")
		return nil, fmt.Errorf("error checking booking overlap: %w", err)
	}
	if overlap {
		span.SetStatus(codes.Error, "Booking window taken")
		return nil, fmt.Errorf("%w: guide is already booked for this period", types.ErrConflict)
	}

	booking, err := s.repo.CreateBooking(ctx, userID, guideID, req.StartDate, req.EndDate)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create booking", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create booking")
		return nil, fmt.Errorf("error creating booking: %w", err)
	}

	l.InfoContext(ctx, "Booking created", slog.String("bookingID", booking.ID.String()))
	span.SetStatus(codes.Ok, "Booking created")
	return booking, nil
}

func (s *ServiceImpl) GetBookingHistory(ctx context.Context, userID uuid.UUID) ([]types.BookingHistory, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "GetBookingHistory")
	defer span.End()

	history, err := s.repo.GetBookingHistory(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch booking history")
		return nil, fmt.Errorf("error fetching booking history: %w", err)
	}
	span.SetStatus(codes.Ok, "Booking history fetched")
	return history, nil
}
