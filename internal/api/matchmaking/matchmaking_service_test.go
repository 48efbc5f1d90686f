package matchmaking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetTravelerProfile(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*types.TravelerProfile)
	return profile, args.Error(1)
}

func (m *MockRepository) UpdateSurveyResult(ctx context.Context, userID uuid.UUID, answers []int, personality int) (*types.TravelerProfile, error) {
	args := m.Called(ctx, userID, answers, personality)
	profile, _ := args.Get(0).(*types.TravelerProfile)
	return profile, args.Error(1)
}

func (m *MockRepository) GetOrderedCategoryIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *MockRepository) GetCandidateGuides(ctx context.Context, cityID uuid.UUID) ([]types.CandidateGuide, error) {
	args := m.Called(ctx, cityID)
	candidates, _ := args.Get(0).([]types.CandidateGuide)
	return candidates, args.Error(1)
}

func (m *MockRepository) GetGuideDetail(ctx context.Context, guideID uuid.UUID) (*types.GuideDetail, error) {
	args := m.Called(ctx, guideID)
	detail, _ := args.Get(0).(*types.GuideDetail)
	return detail, args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, answers []int) (int, error) {
	args := m.Called(ctx, answers)
	return args.Int(0), args.Error(1)
}

type MockProjector struct {
	mock.Mock
}

func (m *MockProjector) Project(ctx context.Context, vectors []types.FeatureVector) ([]types.Embedding, error) {
	args := m.Called(ctx, vectors)
	embeddings, _ := args.Get(0).([]types.Embedding)
	return embeddings, args.Error(1)
}

func newTestService(repo *MockRepository, classifier *MockClassifier, projector *MockProjector) *ServiceImpl {
	return NewMatchmakingService(repo, classifier, projector, testLogger())
}

// --- SubmitSurvey ---

func TestSubmitSurvey_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	answers := validAnswers()

	repo := new(MockRepository)
	classifier := new(MockClassifier)
	projector := new(MockProjector)

	classifier.On("Classify", mock.Anything, answers).Return(3, nil)
	personality := 3
	repo.On("UpdateSurveyResult", mock.Anything, userID, answers, 3).Return(&types.TravelerProfile{
		ID:          userID,
		Answers:     answers,
		Personality: &personality,
	}, nil)

	svc := newTestService(repo, classifier, projector)
	profile, err := svc.SubmitSurvey(ctx, userID, answers)
	require.NoError(t, err)
	require.NotNil(t, profile.Personality)
	assert.Equal(t, 3, *profile.Personality)

	repo.AssertExpectations(t)
	classifier.AssertExpectations(t)
}

func TestSubmitSurvey_InvalidAnswers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	classifier := new(MockClassifier)
	svc := newTestService(repo, classifier, new(MockProjector))

	tests := []struct {
		name    string
		answers []int
	}{
		{"too few", make([]int, 10)},
		{"too many", make([]int, 30)},
		{"nil", nil},
		{"value below range", append([]int{0}, validAnswers()[1:]...)},
		{"value above range", append([]int{6}, validAnswers()[1:]...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitSurvey(ctx, uuid.New(), tt.answers)
			assert.ErrorIs(t, err, types.ErrBadRequest)
		})
	}

	// Nothing external happens for rejected input.
	classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateSurveyResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSurvey_ClassifierFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	classifier := new(MockClassifier)

	classifier.On("Classify", mock.Anything, mock.Anything).Return(0, types.ErrClassificationFailed)

	svc := newTestService(repo, classifier, new(MockProjector))
	_, err := svc.SubmitSurvey(ctx, uuid.New(), validAnswers())
	assert.ErrorIs(t, err, types.ErrClassificationFailed)

	repo.AssertNotCalled(t, "UpdateSurveyResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Search ---

func TestSearch_PersonalityNotSet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := new(MockRepository)
	classifier := new(MockClassifier)
	projector := new(MockProjector)

	repo.On("GetTravelerProfile", mock.Anything, userID).Return(&types.TravelerProfile{
		ID:     userID,
		Gender: types.GenderFemale,
	}, nil)

	svc := newTestService(repo, classifier, projector)
	_, err := svc.Search(ctx, userID, uuid.New(), nil)
	assert.ErrorIs(t, err, types.ErrPersonalityNotSet)

	// The precondition fails before any model call or candidate load.
	projector.AssertNotCalled(t, "Project", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "GetCandidateGuides", mock.Anything, mock.Anything)
}

func TestSearch_NoCandidates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cityID := uuid.New()
	personality := 1

	repo := new(MockRepository)
	projector := new(MockProjector)

	repo.On("GetTravelerProfile", mock.Anything, userID).Return(&types.TravelerProfile{
		ID:          userID,
		Personality: &personality,
	}, nil)
	repo.On("GetCandidateGuides", mock.Anything, cityID).Return([]types.CandidateGuide{}, nil)

	svc := newTestService(repo, new(MockClassifier), projector)
	matches, err := svc.Search(ctx, userID, cityID, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// An empty city never reaches the projection endpoint.
	projector.AssertNotCalled(t, "Project", mock.Anything, mock.Anything)
}

func TestSearch_RanksAndReturnsMatches(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cityID := uuid.New()
	catID := uuid.New()
	travelerPersonality := 2

	guideNear := uuid.New()
	guideFar := uuid.New()

	repo := new(MockRepository)
	projector := new(MockProjector)

	repo.On("GetTravelerProfile", mock.Anything, userID).Return(&types.TravelerProfile{
		ID:          userID,
		Gender:      types.GenderFemale,
		BirthDate:   time.Now().AddDate(-30, 0, 0).UnixMilli(),
		Personality: &travelerPersonality,
	}, nil)
	repo.On("GetCandidateGuides", mock.Anything, cityID).Return([]types.CandidateGuide{
		{GuideID: guideNear, Gender: types.GenderMale, BirthDate: time.Now().AddDate(-28, 0, 0).UnixMilli(), Personality: 2, CategoryIDs: []uuid.UUID{catID}},
		{GuideID: guideFar, Gender: types.GenderMale, BirthDate: time.Now().AddDate(-50, 0, 0).UnixMilli(), Personality: 4},
	}, nil)
	repo.On("GetOrderedCategoryIDs", mock.Anything).Return([]uuid.UUID{catID}, nil)

	// Traveler plus both guides in one batch.
	projector.On("Project", mock.Anything, mock.MatchedBy(func(vectors []types.FeatureVector) bool {
		return len(vectors) == 3
	})).Return([]types.Embedding{
		{0, 0},
		{1, 0},
		{4, 0},
	}, nil)

	repo.On("GetGuideDetail", mock.Anything, guideNear).Return(&types.GuideDetail{Guide: types.Guide{ID: guideNear}, Name: "Near"}, nil)
	repo.On("GetGuideDetail", mock.Anything, guideFar).Return(&types.GuideDetail{Guide: types.Guide{ID: guideFar}, Name: "Far"}, nil)

	svc := newTestService(repo, new(MockClassifier), projector)
	matches, err := svc.Search(ctx, userID, cityID, []uuid.UUID{catID})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, guideNear, matches[0].ID)
	assert.InDelta(t, 75.0, matches[0].Score, 1e-9)
	assert.Equal(t, guideFar, matches[1].ID)
	assert.InDelta(t, 0.0, matches[1].Score, 1e-9)

	repo.AssertExpectations(t)
	projector.AssertExpectations(t)
}

func TestSearch_ProjectionFailureAbortsSearch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cityID := uuid.New()
	personality := 1

	repo := new(MockRepository)
	projector := new(MockProjector)

	repo.On("GetTravelerProfile", mock.Anything, userID).Return(&types.TravelerProfile{
		ID:          userID,
		Personality: &personality,
	}, nil)
	repo.On("GetCandidateGuides", mock.Anything, cityID).Return([]types.CandidateGuide{
		{GuideID: uuid.New(), Gender: types.GenderMale, Personality: 1},
	}, nil)
	repo.On("GetOrderedCategoryIDs", mock.Anything).Return([]uuid.UUID{}, nil)
	projector.On("Project", mock.Anything, mock.Anything).Return(nil, types.ErrProjectionFailed)

	svc := newTestService(repo, new(MockClassifier), projector)
	_, err := svc.Search(ctx, userID, cityID, nil)
	assert.ErrorIs(t, err, types.ErrProjectionFailed)

	repo.AssertNotCalled(t, "GetGuideDetail", mock.Anything, mock.Anything)
}
