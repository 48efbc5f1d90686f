package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Repository = (*PostgresBookingRepository)(nil)

type Repository interface {
	CreateBooking(ctx context.Context, userID, guideID uuid.UUID, startDate, endDate int64) (*types.Booking, error)
	GetBookingHistory(ctx context.Context, userID uuid.UUID) ([]types.BookingHistory, error)
	HasOverlappingBooking(ctx context.Context, guideID uuid.UUID, startDate, endDate int64) (bool, error)
	GetGuidePricePerDay(ctx context.Context, guideID uuid.UUID) (int64, error)
}

type PostgresBookingRepository struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresBookingRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresBookingRepository) CreateBooking(ctx context.Context, userID, guideID uuid.UUID, startDate, endDate int64) (*types.Booking, error) {
	query := `
        INSERT INTO ordered_guides (user_id, guide_id, status, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, user_id, guide_id, status, start_date, end_date, created_at, updated_at`
	var b types.Booking
	err := r.pgpool.QueryRow(ctx, query, userID, guideID, types.BookingStatusPending, startDate, endDate).Scan(
		&b.ID, &b.UserID, &b.GuideID, &b.Status, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}
	return &b, nil
}

// HasOverlappingBooking reports whether the guide already has an active
// booking intersecting the requested window. Completed bookings don't block.
func (r *PostgresBookingRepository) HasOverlappingBooking(ctx context.Context, guideID uuid.UUID, startDate, endDate int64) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM ordered_guides
            WHERE guide_id = $1
              AND status IN ($2, $3, $4)
              AND start_date <= $5 AND end_date >= $6
        )`
	var exists bool
	err := r.pgpool.QueryRow(ctx, query, guideID,
		types.BookingStatusPending, types.BookingStatusConfirmed, types.BookingStatusOnGoing,
		endDate, startDate,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return exists, nil
}

func (r *PostgresBookingRepository) GetGuidePricePerDay(ctx context.Context, guideID uuid.UUID) (int64, error) {
	var price int64
	err := r.pgpool.QueryRow(ctx, `SELECT price_per_day FROM guides WHERE id = $1`, guideID).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, types.ErrNotFound
		}
		return 0, fmt.Errorf("failed to query guide price: %w", err)
	}
	return price, nil
}

// GetBookingHistory lists the traveler's bookings newest first, with the
// guide name, city and derived totals attached.
func (r *PostgresBookingRepository) GetBookingHistory(ctx context.Context, userID uuid.UUID) ([]types.BookingHistory, error) {
	query := `
        SELECT og.id, og.user_id, og.guide_id, og.status, og.start_date, og.end_date,
               og.created_at, og.updated_at,
               u.name, c.name, g.price_per_day
        FROM ordered_guides og
        JOIN guides g ON g.id = og.guide_id
        JOIN users u ON u.id = g.user_id
        JOIN cities c ON c.id = g.city_id
        WHERE og.user_id = $1
        ORDER BY og.created_at DESC`
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking history: %w", err)
	}
	defer rows.Close()

	history := make([]types.BookingHistory, 0)
	for rows.Next() {
		var h types.BookingHistory
		var pricePerDay int64
		err := rows.Scan(
			&h.ID, &h.UserID, &h.GuideID, &h.Status, &h.StartDate, &h.EndDate,
			&h.CreatedAt, &h.UpdatedAt,
			&h.GuideName, &h.City, &pricePerDay,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		h.CountDay = CountDays(h.StartDate, h.EndDate)
		h.TotalPrice = int64(h.CountDay) * pricePerDay
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return history, nil
}

const millisPerDay = 24 * 60 * 60 * 1000

// CountDays converts an epoch-milli booking window into billable days.
// A same-day booking still counts as one day.
func CountDays(startDate, endDate int64) int {
	if endDate <= startDate {
		return 1
	}
	days := int((endDate - startDate + millisPerDay - 1) / millisPerDay)
	if days < 1 {
		return 1
	}
	return days
}
