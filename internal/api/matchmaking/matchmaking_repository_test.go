package matchmaking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresMatchmakingRepository) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewPostgresMatchmakingRepository(mockPool, testLogger())
}

func TestGetOrderedCategoryIDs(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	first := uuid.New()
	second := uuid.New()
	mockPool.ExpectQuery("SELECT id FROM categories ORDER BY slug").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(first).AddRow(second))

	ids, err := repo.GetOrderedCategoryIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetTravelerProfile_NotFound(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetTravelerProfile(context.Background(), userID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateSurveyResult_CommitsTransaction(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	userID := uuid.New()
	answers := validAnswers()
	now := time.Now().UnixMilli()

	rows := pgxmock.NewRows([]string{
		"id", "username", "email", "password", "name", "phone_number",
		"gender", "birth_date", "picture", "answers", "personality",
		"created_at", "updated_at",
	}).AddRow(
		userID, "traveler", "t@example.com", "hash", "Traveler", "0812",
		types.GenderFemale, int64(0), nil, answers, intPtr(4),
		now, now,
	)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery("UPDATE users").
		WithArgs(userID, answers, 4, pgxmock.AnyArg()).
		WillReturnRows(rows)
	mockPool.ExpectCommit()
	mockPool.ExpectRollback()
	// The deferred rollback after a successful commit is a no-op.

	profile, err := repo.UpdateSurveyResult(context.Background(), userID, answers, 4)
	require.NoError(t, err)
	require.NotNil(t, profile.Personality)
	assert.Equal(t, 4, *profile.Personality)
	assert.Equal(t, answers, profile.Answers)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetCandidateGuides(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	cityID := uuid.New()
	guideID := uuid.New()
	ownerID := uuid.New()
	catID := uuid.New()

	mockPool.ExpectQuery("FROM guides g").
		WithArgs(cityID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "gender", "birth_date", "personality", "category_ids",
		}).AddRow(guideID, ownerID, types.GenderMale, int64(642902400000), 2, []uuid.UUID{catID}))

	candidates, err := repo.GetCandidateGuides(context.Background(), cityID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, guideID, candidates[0].GuideID)
	assert.Equal(t, 2, candidates[0].Personality)
	assert.Equal(t, []uuid.UUID{catID}, candidates[0].CategoryIDs)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
