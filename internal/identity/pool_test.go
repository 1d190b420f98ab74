package identity_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/identity"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/mocks"
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

var created = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func candidate(id string, bookings, limit int, lastBooking *time.Time) *domain.Identity {
	return &domain.Identity{
		ID:     id,
		Active: true,
		Credentials: domain.Credentials{
			domain.PlatformResy: json.RawMessage(`{"auth_token":"t"}`),
		},
		Usage: map[domain.Platform]domain.PlatformUsage{
			domain.PlatformResy: {Bookings: bookings, MonthlyLimit: limit},
		},
		LastBookingAt: lastBooking,
		CreatedAt:     created,
	}
}

func TestSelectBest(t *testing.T) {
	earlier := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	later := time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC)

	inactive := candidate("inactive", 0, 6, nil)
	inactive.Active = false

	noCreds := candidate("no-creds", 0, 6, nil)
	noCreds.Credentials = domain.Credentials{domain.PlatformTock: json.RawMessage(`{"session_token":"s"}`)}

	tests := []struct {
		name       string
		candidates []*domain.Identity
		wantID     string
	}{
		{
			name: "lowest counter wins",
			candidates: []*domain.Identity{
				candidate("A", 5, 6, nil),
				candidate("B", 2, 6, nil),
			},
			wantID: "B",
		},
		{
			name: "tie broken by never booked",
			candidates: []*domain.Identity{
				candidate("A", 1, 6, &earlier),
				candidate("B", 1, 6, nil),
			},
			wantID: "B",
		},
		{
			name: "tie broken by oldest last booking",
			candidates: []*domain.Identity{
				candidate("A", 1, 6, &later),
				candidate("B", 1, 6, &earlier),
			},
			wantID: "B",
		},
		{
			name: "full identity skipped",
			candidates: []*domain.Identity{
				candidate("A", 6, 6, nil),
				candidate("B", 5, 6, &later),
			},
			wantID: "B",
		},
		{
			name: "missing limit uses default",
			candidates: []*domain.Identity{
				candidate("A", 5, 0, nil),
			},
			wantID: "A",
		},
		{
			name: "inactive and uncredentialed skipped",
			candidates: []*domain.Identity{
				inactive,
				noCreds,
				candidate("C", 4, 6, nil),
			},
			wantID: "C",
		},
		{
			name: "all exhausted",
			candidates: []*domain.Identity{
				candidate("A", 6, 6, nil),
				candidate("B", 3, 3, nil),
			},
		},
		{
			name: "no candidates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := identity.SelectBest(tt.candidates, domain.PlatformResy)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func schemaIdentity(id string, bookings, limit int) *schema.Identity {
	return &schema.Identity{
		ID:          id,
		DisplayName: id,
		Credentials: datatypes.JSON(`{"resy":{"auth_token":"t"}}`),
		Active:      true,
		CreatedAt:   created,
		Usage: []schema.IdentityPlatformUsage{
			{IdentityID: id, Platform: domain.PlatformResy, Bookings: bookings, MonthlyLimit: limit},
		},
	}
}

func TestPool_SelectBest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	pool := identity.NewPool(mockStore, mocks.NewMockClock(ctrl), 6)

	broken := schemaIdentity("broken", 0, 6)
	broken.Credentials = datatypes.JSON(`not json`)

	mockStore.EXPECT().
		GetIdentityCandidates(gomock.Any(), domain.PlatformResy).
		Return([]*schema.Identity{
			schemaIdentity("A", 5, 6),
			broken,
			schemaIdentity("B", 2, 6),
		}, nil)

	got, err := pool.SelectBest(context.Background(), domain.PlatformResy)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.ID)
}

func TestPool_SelectBest_NoneAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	pool := identity.NewPool(mockStore, mocks.NewMockClock(ctrl), 6)

	mockStore.EXPECT().
		GetIdentityCandidates(gomock.Any(), domain.PlatformResy).
		Return([]*schema.Identity{schemaIdentity("A", 6, 6)}, nil)

	got, err := pool.SelectBest(context.Background(), domain.PlatformResy)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPool_SelectBest_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	pool := identity.NewPool(mockStore, mocks.NewMockClock(ctrl), 6)

	mockStore.EXPECT().
		GetIdentityCandidates(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	got, err := pool.SelectBest(context.Background(), domain.PlatformTock)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestPool_RecordBooking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockClock := mocks.NewMockClock(ctrl)
	pool := identity.NewPool(mockStore, mockClock, 0)

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(now).Times(2)

	gomock.InOrder(
		mockStore.EXPECT().
			IncrementIdentityUsage(gomock.Any(), "A", domain.PlatformResy, domain.DEFAULT_MONTHLY_LIMIT, now).
			Return(nil),
		mockStore.EXPECT().
			IncrementIdentityUsage(gomock.Any(), "A", domain.PlatformResy, domain.DEFAULT_MONTHLY_LIMIT, now).
			Return(store.ErrUsageLimitReached),
	)

	require.NoError(t, pool.RecordBooking(context.Background(), "A", domain.PlatformResy))
	assert.ErrorIs(t, pool.RecordBooking(context.Background(), "A", domain.PlatformResy), identity.ErrUsageLimitReached)
}

func TestPool_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	pool := identity.NewPool(mockStore, mocks.NewMockClock(ctrl), 4)

	mockStore.EXPECT().GetIdentityByID(gomock.Any(), "A").Return(schemaIdentity("A", 1, 6), nil)
	mockStore.EXPECT().GetIdentityByID(gomock.Any(), "missing").Return(nil, nil)

	got, err := pool.Get(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 6, got.UsageFor(domain.PlatformResy).MonthlyLimit)
	assert.Equal(t, 4, got.UsageFor(domain.PlatformTock).MonthlyLimit)

	got, err = pool.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPool_CreateAndDeactivate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	pool := identity.NewPool(mockStore, mocks.NewMockClock(ctrl), 6)

	_, err := pool.Create(context.Background(), store.CreateIdentityInput{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = pool.Create(context.Background(), store.CreateIdentityInput{
		DisplayName: "bad",
		Credentials: map[domain.Platform]json.RawMessage{"yelp": json.RawMessage(`{}`)},
	})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	input := store.CreateIdentityInput{
		DisplayName: "A",
		Credentials: map[domain.Platform]json.RawMessage{domain.PlatformResy: json.RawMessage(`{"auth_token":"t"}`)},
	}
	mockStore.EXPECT().CreateIdentity(gomock.Any(), input, 6).Return(schemaIdentity("A", 0, 6), nil)

	got, err := pool.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "A", got.ID)
	assert.True(t, got.Credentials.Has(domain.PlatformResy))

	mockStore.EXPECT().DeactivateIdentity(gomock.Any(), "A").Return(nil)
	require.NoError(t, pool.Deactivate(context.Background(), "A"))

	mockStore.EXPECT().DeactivateIdentity(gomock.Any(), "B").Return(store.ErrIdentityNotFound)
	assert.ErrorIs(t, pool.Deactivate(context.Background(), "B"), store.ErrIdentityNotFound)
}

func TestPool_ResetMonthly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	pool := identity.NewPool(mockStore, mocks.NewMockClock(ctrl), 6)

	mockStore.EXPECT().ResetIdentityUsage(gomock.Any()).Return(int64(3), nil)

	touched, err := pool.ResetMonthly(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), touched)
}
