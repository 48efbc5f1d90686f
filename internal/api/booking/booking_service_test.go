package booking

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBooking(ctx context.Context, userID, guideID uuid.UUID, startDate, endDate int64) (*types.Booking, error) {
	args := m.Called(ctx, userID, guideID, startDate, endDate)
	booking, _ := args.Get(0).(*types.Booking)
	return booking, args.Error(1)
}

func (m *MockRepository) GetBookingHistory(ctx context.Context, userID uuid.UUID) ([]types.BookingHistory, error) {
	args := m.Called(ctx, userID)
	history, _ := args.Get(0).([]types.BookingHistory)
	return history, args.Error(1)
}

func (m *MockRepository) HasOverlappingBooking(ctx context.Context, guideID uuid.UUID, startDate, endDate int64) (bool, error) {
	args := m.Called(ctx, guideID, startDate, endDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetGuidePricePerDay(ctx context.Context, guideID uuid.UUID) (int64, error) {
	args := m.Called(ctx, guideID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo *MockRepository) *ServiceImpl {
	return NewBookingService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func bookingWindow() (int64, int64) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	end := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC).UnixMilli()
	return start, end
}

func TestBookGuide_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	guideID := uuid.New()
	start, end := bookingWindow()

	repo := new(MockRepository)
	repo.On("GetGuidePricePerDay", mock.Anything, guideID).Return(int64(500_000), nil)
	repo.On("HasOverlappingBooking", mock.Anything, guideID, start, end).Return(false, nil)
	repo.On("CreateBooking", mock.Anything, userID, guideID, start, end).Return(&types.Booking{
		ID:      uuid.New(),
		UserID:  userID,
		GuideID: guideID,
		Status:  types.BookingStatusPending,
	}, nil)

	svc := newTestService(repo)
	booking, err := svc.BookGuide(ctx, userID, guideID, types.BookRequest{StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, types.BookingStatusPending, booking.Status)

	repo.AssertExpectations(t)
}

func TestBookGuide_InvalidWindow(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	start, end := bookingWindow()
	tests := []struct {
		name string
		req  types.BookRequest
	}{
		{"zero dates", types.BookRequest{}},
		{"end before start", types.BookRequest{StartDate: end, EndDate: start}},
		{"negative start", types.BookRequest{StartDate: -1, EndDate: end}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BookGuide(context.Background(), uuid.New(), uuid.New(), tt.req)
			assert.ErrorIs(t, err, types.ErrBadRequest)
		})
	}

	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookGuide_UnknownGuide(t *testing.T) {
	guideID := uuid.New()
	start, end := bookingWindow()

	repo := new(MockRepository)
	repo.On("GetGuidePricePerDay", mock.Anything, guideID).Return(int64(0), types.ErrNotFound)

	svc := newTestService(repo)
	_, err := svc.BookGuide(context.Background(), uuid.New(), guideID, types.BookRequest{StartDate: start, EndDate: end})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBookGuide_OverlapRejected(t *testing.T) {
	guideID := uuid.New()
	start, end := bookingWindow()

	repo := new(MockRepository)
	repo.On("GetGuidePricePerDay", mock.Anything, guideID).Return(int64(500_000), nil)
	repo.On("HasOverlappingBooking", mock.Anything, guideID, start, end).Return(true, nil)

	svc := newTestService(repo)
	_, err := svc.BookGuide(context.Background(), uuid.New(), guideID, types.BookRequest{StartDate: start, EndDate: end})
	assert.ErrorIs(t, err, types.ErrConflict)

	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCountDays(t *testing.T) {
	day := int64(24 * 60 * 60 * 1000)
	tests := []struct {
		name  string
		start int64
		end   int64
		want  int
	}{
		{"same instant", day, day, 1},
		{"exactly one day", 0, day, 1},
		{"three days", 0, 3 * day, 3},
		{"partial day rounds up", 0, 2*day + 1, 3},
		{"end before start", 2 * day, day, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountDays(tt.start, tt.end))
		})
	}
}
