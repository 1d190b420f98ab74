package pattern_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/mocks"
	"github.com/feral-file/ff-acquirer/internal/pattern"
	"github.com/feral-file/ff-acquirer/internal/store"
	"github.com/feral-file/ff-acquirer/internal/store/schema"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// memoryPatterns drives UpdateDropPattern mutations against an in-memory row
type memoryPatterns struct {
	current *domain.DropPattern
}

func (m *memoryPatterns) update(ctx context.Context, venue string, platform domain.Platform, mutate store.DropPatternMutation) error {
	var cur *domain.DropPattern
	if m.current != nil {
		copied := *m.current
		cur = &copied
	}
	if next := mutate(cur); next != nil {
		m.current = next
	}
	return nil
}

func observation(success bool, target, attempt time.Time) pattern.Observation {
	return pattern.Observation{
		RequestID:   "req",
		VenueRef:    "carbone",
		Platform:    domain.PlatformResy,
		Mode:        domain.AcquisitionModeDrop,
		TargetTime:  target,
		AttemptedAt: attempt,
		Success:     success,
	}
}

func TestLearner_RecordAttempt_LearnsAndLocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	learner := pattern.NewLearner(mockStore)
	mem := &memoryPatterns{}

	mockStore.EXPECT().CreateAcquisitionAttempt(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockStore.EXPECT().UpdateDropPattern(gomock.Any(), "carbone", domain.PlatformResy, gomock.Any()).DoAndReturn(mem.update).AnyTimes()

	ctx := context.Background()
	target := time.Date(2026, 12, 24, 20, 0, 0, 0, time.UTC)

	// Failure with no pattern learns nothing
	require.NoError(t, learner.RecordAttempt(ctx, observation(false, target, target.AddDate(0, 0, -30))))
	assert.Nil(t, mem.current)

	// Successes 1..3 move the timing fields
	require.NoError(t, learner.RecordAttempt(ctx, observation(true, target, time.Date(2026, 11, 24, 10, 0, 0, 0, time.UTC))))
	assert.Equal(t, 30, mem.current.DaysInAdvance)
	assert.Equal(t, 50, mem.current.Confidence)

	require.NoError(t, learner.RecordAttempt(ctx, observation(true, target, time.Date(2026, 11, 26, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, learner.RecordAttempt(ctx, observation(true, target, time.Date(2026, 11, 27, 9, 0, 0, 0, time.UTC))))
	assert.Equal(t, 27, mem.current.DaysInAdvance)
	assert.Equal(t, "09:00", mem.current.DropTimeOfDay())
	assert.Equal(t, 3, mem.current.SuccessfulAcquisitions)
	assert.Equal(t, 70, mem.current.Confidence)

	// From the fourth success on, the fields stay put
	require.NoError(t, learner.RecordAttempt(ctx, observation(true, target, time.Date(2026, 12, 10, 11, 30, 0, 0, time.UTC))))
	assert.Equal(t, 27, mem.current.DaysInAdvance)
	assert.Equal(t, "09:00", mem.current.DropTimeOfDay())
	assert.Equal(t, 4, mem.current.SuccessfulAcquisitions)
	assert.Equal(t, 80, mem.current.Confidence)

	require.NoError(t, learner.RecordAttempt(ctx, observation(false, target, time.Date(2026, 12, 11, 9, 0, 0, 0, time.UTC))))
	assert.Equal(t, 78, mem.current.Confidence)
	assert.Equal(t, 5, mem.current.TotalAttempts)
}

func TestLearner_RecordAttempt_ConfidenceBounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	learner := pattern.NewLearner(mockStore)
	mem := &memoryPatterns{}

	mockStore.EXPECT().CreateAcquisitionAttempt(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockStore.EXPECT().UpdateDropPattern(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(mem.update).AnyTimes()

	ctx := context.Background()
	target := time.Date(2026, 12, 24, 20, 0, 0, 0, time.UTC)
	attempt := target.AddDate(0, 0, -14)

	for range 10 {
		require.NoError(t, learner.RecordAttempt(ctx, observation(true, target, attempt)))
	}
	assert.Equal(t, domain.PATTERN_MAX_CONFIDENCE, mem.current.Confidence)

	for range 100 {
		require.NoError(t, learner.RecordAttempt(ctx, observation(false, target, attempt)))
	}
	assert.Equal(t, domain.PATTERN_MIN_CONFIDENCE, mem.current.Confidence)
}

func TestLearner_RecordAttempt_AttemptLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	learner := pattern.NewLearner(mockStore)

	booked := time.Date(2026, 12, 24, 20, 0, 0, 0, time.UTC)
	req := domain.AcquisitionRequest{ID: "req-9", Platform: domain.PlatformTock, VenueRef: "alinea", TargetTime: booked}
	result := &domain.AcquisitionResult{
		RequestID:        "req-9",
		Success:          true,
		Mode:             domain.AcquisitionModeImmediate,
		ConfirmationCode: "TOCK-1",
		BookedTime:       &booked,
		IdentityID:       "identity-1",
		Attempts:         2,
		Duration:         1500 * time.Millisecond,
	}

	mockStore.EXPECT().
		CreateAcquisitionAttempt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input store.CreateAcquisitionAttemptInput) error {
			assert.Equal(t, "req-9", input.RequestID)
			assert.Equal(t, domain.PlatformTock, input.Platform)
			assert.True(t, input.Success)
			assert.Equal(t, "TOCK-1", *input.ConfirmationCode)
			assert.Equal(t, "identity-1", *input.IdentityID)
			assert.Equal(t, int64(1500), input.DurationMs)
			assert.Equal(t, 2, input.Attempts)
			assert.Nil(t, input.ErrorKind)
			assert.NotEmpty(t, input.Raw)
			return nil
		})
	mockStore.EXPECT().UpdateDropPattern(gomock.Any(), "alinea", domain.PlatformTock, gomock.Any()).Return(nil)

	obs := pattern.ObservationFromResult(req, result, booked.AddDate(0, 0, -60))
	require.NoError(t, learner.RecordAttempt(context.Background(), obs))
}

func TestLearner_RecordAttempt_LogFailureStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	learner := pattern.NewLearner(mockStore)

	mockStore.EXPECT().CreateAcquisitionAttempt(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	err := learner.RecordAttempt(context.Background(), observation(true, time.Now(), time.Now()))
	assert.Error(t, err)
}

func TestLearner_GetPattern(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	learner := pattern.NewLearner(mockStore)
	ctx := context.Background()

	resy := domain.PlatformResy
	mockStore.EXPECT().GetDropPattern(gomock.Any(), "carbone", resy).
		Return(&schema.DropPattern{VenueRef: "carbone", Platform: resy, Confidence: 60, DaysInAdvance: 30, DropMinuteOfDay: 600}, nil)

	p, err := learner.GetPattern(ctx, "carbone", &resy)
	require.NoError(t, err)
	assert.Equal(t, 60, p.Confidence)
	assert.Equal(t, "10:00", p.DropTimeOfDay())

	mockStore.EXPECT().GetDropPatternsByVenue(gomock.Any(), "carbone").
		Return([]*schema.DropPattern{
			{VenueRef: "carbone", Platform: domain.PlatformOpenTable, Confidence: 90},
			{VenueRef: "carbone", Platform: resy, Confidence: 60},
		}, nil)

	p, err = learner.GetPattern(ctx, "carbone", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformOpenTable, p.Platform)

	mockStore.EXPECT().GetDropPatternsByVenue(gomock.Any(), "unknown").Return(nil, nil)
	p, err = learner.GetPattern(ctx, "unknown", nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLearner_PredictDrop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	learner := pattern.NewLearner(mockStore)

	mockStore.EXPECT().GetDropPattern(gomock.Any(), "carbone", domain.PlatformResy).
		Return(&schema.DropPattern{VenueRef: "carbone", Platform: domain.PlatformResy, Confidence: 70, DaysInAdvance: 30, DropMinuteOfDay: 600}, nil)

	target := time.Date(2026, 12, 24, 20, 0, 0, 0, time.UTC)
	prediction, err := learner.PredictDrop(context.Background(), "carbone", domain.PlatformResy, target)
	require.NoError(t, err)
	require.NotNil(t, prediction)
	assert.Equal(t, time.Date(2026, 11, 24, 10, 0, 0, 0, time.UTC), prediction.DropAt)

	mockStore.EXPECT().GetDropPattern(gomock.Any(), "nobody", domain.PlatformResy).Return(nil, nil)
	prediction, err = learner.PredictDrop(context.Background(), "nobody", domain.PlatformResy, target)
	require.NoError(t, err)
	assert.Nil(t, prediction)
}

func TestLearner_ListPatterns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	learner := pattern.NewLearner(mockStore)

	mockStore.EXPECT().ListDropPatterns(gomock.Any(), 60, 10).
		Return([]*schema.DropPattern{{VenueRef: "a", Confidence: 80}, {VenueRef: "b", Confidence: 60}}, nil)

	patterns, err := learner.ListPatterns(context.Background(), 60, 10)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "a", patterns[0].VenueRef)
}
