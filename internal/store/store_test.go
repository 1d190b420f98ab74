package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestIdentity(name string, platforms ...domain.Platform) CreateIdentityInput {
	creds := make(map[domain.Platform]json.RawMessage, len(platforms))
	for _, p := range platforms {
		creds[p] = json.RawMessage(`{"token":"` + name + `-` + string(p) + `"}`)
	}
	return CreateIdentityInput{
		DisplayName: name,
		Credentials: creds,
	}
}

func buildTestTransfer(identityID string) CreateTransferInput {
	return CreateTransferInput{
		IdentityID:       identityID,
		Platform:         domain.PlatformResy,
		VenueRef:         "venue-1",
		ConfirmationCode: "RESY-123",
		ReservationTime:  time.Date(2026, 12, 1, 19, 30, 0, 0, time.UTC),
		PartySize:        2,
	}
}

// =============================================================================
// Identities
// =============================================================================

func testCreateAndGetIdentity(t *testing.T, store Store) {
	ctx := context.Background()
	email := "ops@example.com"

	input := buildTestIdentity("alice", domain.PlatformResy, domain.PlatformTock)
	input.Email = &email
	input.MonthlyLimits = map[domain.Platform]int{domain.PlatformTock: 2}

	created, err := store.CreateIdentity(ctx, input, 6)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Usage, 2)

	got, err := store.GetIdentityByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	identity, err := got.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.DisplayName)
	assert.Equal(t, email, identity.Email)
	assert.True(t, identity.Active)
	assert.True(t, identity.Credentials.Has(domain.PlatformResy))
	assert.Equal(t, 6, identity.UsageFor(domain.PlatformResy).MonthlyLimit)
	assert.Equal(t, 2, identity.UsageFor(domain.PlatformTock).MonthlyLimit)

	missing, err := store.GetIdentityByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = store.GetIdentityByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testGetIdentityCandidates(t *testing.T, store Store) {
	ctx := context.Background()

	resyOnly, err := store.CreateIdentity(ctx, buildTestIdentity("resy-only", domain.PlatformResy), 6)
	require.NoError(t, err)
	_, err = store.CreateIdentity(ctx, buildTestIdentity("tock-only", domain.PlatformTock), 6)
	require.NoError(t, err)
	inactive, err := store.CreateIdentity(ctx, buildTestIdentity("inactive", domain.PlatformResy), 6)
	require.NoError(t, err)
	require.NoError(t, store.DeactivateIdentity(ctx, inactive.ID))

	candidates, err := store.GetIdentityCandidates(ctx, domain.PlatformResy)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, resyOnly.ID, candidates[0].ID)
	assert.Len(t, candidates[0].Usage, 1)

	assert.ErrorIs(t, store.DeactivateIdentity(ctx, "00000000-0000-0000-0000-000000000000"), ErrIdentityNotFound)
}

func testIncrementIdentityUsage(t *testing.T, store Store) {
	ctx := context.Background()
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	input := buildTestIdentity("bob", domain.PlatformResy)
	input.MonthlyLimits = map[domain.Platform]int{domain.PlatformResy: 2}
	identity, err := store.CreateIdentity(ctx, input, 6)
	require.NoError(t, err)

	require.NoError(t, store.IncrementIdentityUsage(ctx, identity.ID, domain.PlatformResy, 6, at))
	require.NoError(t, store.IncrementIdentityUsage(ctx, identity.ID, domain.PlatformResy, 6, at.Add(time.Minute)))
	assert.ErrorIs(t, store.IncrementIdentityUsage(ctx, identity.ID, domain.PlatformResy, 6, at.Add(2*time.Minute)), ErrUsageLimitReached)

	// A platform without a usage row gets the default limit
	require.NoError(t, store.IncrementIdentityUsage(ctx, identity.ID, domain.PlatformOpenTable, 6, at))

	got, err := store.GetIdentityByID(ctx, identity.ID)
	require.NoError(t, err)
	d, err := got.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, 2, d.UsageFor(domain.PlatformResy).Bookings)
	assert.Equal(t, 1, d.UsageFor(domain.PlatformOpenTable).Bookings)
	assert.Equal(t, 6, d.UsageFor(domain.PlatformOpenTable).MonthlyLimit)
	assert.Equal(t, 3, d.BookingsThisMonth, "monthly total equals the sum of platform counters")
	require.NotNil(t, d.LastBookingAt)
	assert.True(t, d.LastBookingAt.Equal(at.Add(time.Minute)) || d.LastBookingAt.Equal(at))

	assert.ErrorIs(t, store.IncrementIdentityUsage(ctx, "00000000-0000-0000-0000-000000000000", domain.PlatformResy, 6, at), ErrIdentityNotFound)
}

func testIncrementIdentityUsageStopsAtLimit(t *testing.T, store Store) {
	ctx := context.Background()

	input := buildTestIdentity("carol", domain.PlatformTock)
	input.MonthlyLimits = map[domain.Platform]int{domain.PlatformTock: 3}
	identity, err := store.CreateIdentity(ctx, input, 6)
	require.NoError(t, err)

	succeeded := 0
	for range 5 {
		if err := store.IncrementIdentityUsage(ctx, identity.ID, domain.PlatformTock, 6, time.Now()); err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrUsageLimitReached)
		}
	}
	assert.Equal(t, 3, succeeded)
}

func testResetIdentityUsage(t *testing.T, store Store) {
	ctx := context.Background()

	a, err := store.CreateIdentity(ctx, buildTestIdentity("a", domain.PlatformResy), 6)
	require.NoError(t, err)
	b, err := store.CreateIdentity(ctx, buildTestIdentity("b", domain.PlatformResy), 6)
	require.NoError(t, err)
	_, err = store.CreateIdentity(ctx, buildTestIdentity("unused", domain.PlatformResy), 6)
	require.NoError(t, err)

	require.NoError(t, store.IncrementIdentityUsage(ctx, a.ID, domain.PlatformResy, 6, time.Now()))
	require.NoError(t, store.IncrementIdentityUsage(ctx, b.ID, domain.PlatformResy, 6, time.Now()))

	touched, err := store.ResetIdentityUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), touched)

	got, err := store.GetIdentityByID(ctx, a.ID)
	require.NoError(t, err)
	d, err := got.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, 0, d.BookingsThisMonth)
	assert.Equal(t, 0, d.UsageFor(domain.PlatformResy).Bookings)
	assert.NotNil(t, d.LastBookingAt, "reset keeps the last booking time")

	touched, err = store.ResetIdentityUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), touched)
}

// =============================================================================
// Attempts and drop patterns
// =============================================================================

func testAcquisitionAttempts(t *testing.T, store Store) {
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	code := "RESY-1"
	kind := string(domain.ErrorKindNoAvailability)

	require.NoError(t, store.CreateAcquisitionAttempt(ctx, CreateAcquisitionAttemptInput{
		RequestID:   "req-1",
		VenueRef:    "venue-1",
		Platform:    domain.PlatformResy,
		Mode:        domain.AcquisitionModeDrop,
		TargetTime:  base.AddDate(0, 0, 14),
		AttemptedAt: base,
		ErrorKind:   &kind,
		DurationMs:  1200,
		Attempts:    3,
	}))
	require.NoError(t, store.CreateAcquisitionAttempt(ctx, CreateAcquisitionAttemptInput{
		RequestID:        "req-2",
		VenueRef:         "venue-1",
		Platform:         domain.PlatformResy,
		Mode:             domain.AcquisitionModeImmediate,
		TargetTime:       base.AddDate(0, 0, 14),
		AttemptedAt:      base.Add(time.Hour),
		Success:          true,
		ConfirmationCode: &code,
		DurationMs:       300,
		Attempts:         1,
		Raw:              []byte(`{"success":true}`),
	}))
	require.NoError(t, store.CreateAcquisitionAttempt(ctx, CreateAcquisitionAttemptInput{
		RequestID:   "req-3",
		VenueRef:    "venue-1",
		Platform:    domain.PlatformTock,
		Mode:        domain.AcquisitionModeImmediate,
		TargetTime:  base,
		AttemptedAt: base,
		Attempts:    1,
	}))

	resy := domain.PlatformResy
	attempts, err := store.GetAcquisitionAttempts(ctx, "venue-1", &resy, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "req-2", attempts[0].RequestID)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, "RESY-1", *attempts[0].ConfirmationCode)

	all, err := store.GetAcquisitionAttempts(ctx, "venue-1", nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testUpdateDropPattern(t *testing.T, store Store) {
	ctx := context.Background()
	attempt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	target := attempt.AddDate(0, 0, 21)

	// No pattern yet: a nil mutation result writes nothing
	err := store.UpdateDropPattern(ctx, "venue-1", domain.PlatformResy, func(current *domain.DropPattern) *domain.DropPattern {
		assert.Nil(t, current)
		return nil
	})
	require.NoError(t, err)

	got, err := store.GetDropPattern(ctx, "venue-1", domain.PlatformResy)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = store.UpdateDropPattern(ctx, "venue-1", domain.PlatformResy, func(current *domain.DropPattern) *domain.DropPattern {
		return domain.NewDropPattern("venue-1", domain.PlatformResy, target, attempt)
	})
	require.NoError(t, err)

	err = store.UpdateDropPattern(ctx, "venue-1", domain.PlatformResy, func(current *domain.DropPattern) *domain.DropPattern {
		require.NotNil(t, current)
		current.ApplyFailure()
		return current
	})
	require.NoError(t, err)

	got, err = store.GetDropPattern(ctx, "venue-1", domain.PlatformResy)
	require.NoError(t, err)
	require.NotNil(t, got)
	pattern := got.ToDomain()
	assert.Equal(t, 21, pattern.DaysInAdvance)
	assert.Equal(t, "09:00", pattern.DropTimeOfDay())
	assert.Equal(t, 48, pattern.Confidence)
	assert.Equal(t, 1, pattern.SuccessfulAcquisitions)
	assert.Equal(t, 2, pattern.TotalAttempts)

	err = store.UpdateDropPattern(ctx, "venue-1", domain.PlatformTock, func(current *domain.DropPattern) *domain.DropPattern {
		p := domain.NewDropPattern("venue-1", domain.PlatformTock, target, attempt)
		p.Confidence = 90
		return p
	})
	require.NoError(t, err)

	byVenue, err := store.GetDropPatternsByVenue(ctx, "venue-1")
	require.NoError(t, err)
	require.Len(t, byVenue, 2)
	assert.Equal(t, domain.PlatformTock, byVenue[0].Platform)

	confident, err := store.ListDropPatterns(ctx, 60, 10)
	require.NoError(t, err)
	require.Len(t, confident, 1)
	assert.Equal(t, 90, confident[0].Confidence)
}

// =============================================================================
// Transfers
// =============================================================================

func testTransferLifecycle(t *testing.T, store Store) {
	ctx := context.Background()
	identity, err := store.CreateIdentity(ctx, buildTestIdentity("dana", domain.PlatformResy), 6)
	require.NoError(t, err)

	transfer, err := store.CreateTransfer(ctx, buildTestTransfer(identity.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusAcquired, transfer.Status)

	listing := decimal.RequireFromString("180.50")
	listed, err := store.UpdateTransferStatus(ctx, UpdateTransferStatusInput{
		ID:      transfer.ID,
		From:    domain.TransferStatusAcquired,
		To:      domain.TransferStatusListed,
		Details: domain.TransitionDetails{ListingPrice: &listing},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusListed, listed.Status)
	require.NotNil(t, listed.ListingPrice)
	assert.True(t, listing.Equal(*listed.ListingPrice))

	// Stale compare-and-set leaves the row untouched
	stale, err := store.UpdateTransferStatus(ctx, UpdateTransferStatusInput{
		ID:   transfer.ID,
		From: domain.TransferStatusAcquired,
		To:   domain.TransferStatusListed,
	})
	assert.ErrorIs(t, err, ErrTransferStateChanged)
	require.NotNil(t, stale)
	assert.Equal(t, domain.TransferStatusListed, stale.Status)

	buyer := "Jordan Example"
	price := decimal.NewFromInt(300)
	sold, err := store.UpdateTransferStatus(ctx, UpdateTransferStatusInput{
		ID:      transfer.ID,
		From:    domain.TransferStatusListed,
		To:      domain.TransferStatusSold,
		Details: domain.TransitionDetails{BuyerName: &buyer, SalePrice: &price},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jordan Example", *sold.BuyerName)
	assert.True(t, price.Equal(*sold.SalePrice))

	_, err = store.UpdateTransferStatus(ctx, UpdateTransferStatusInput{
		ID:   "00000000-0000-0000-0000-000000000000",
		From: domain.TransferStatusAcquired,
		To:   domain.TransferStatusListed,
	})
	assert.ErrorIs(t, err, ErrTransferNotFound)

	status := domain.TransferStatusSold
	transfers, err := store.ListTransfers(ctx, TransferFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, transfer.ID, transfers[0].ID)

	status = domain.TransferStatusAcquired
	transfers, err = store.ListTransfers(ctx, TransferFilter{Status: &status})
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

// =============================================================================
// Watches
// =============================================================================

func testWatches(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	upcoming, err := store.CreateWatch(ctx, CreateWatchInput{
		VenueRef:               "venue-1",
		Platform:               domain.PlatformResy,
		TargetTime:             now.AddDate(0, 0, 14),
		PartySize:              2,
		TimeFlexibilityMinutes: 30,
	})
	require.NoError(t, err)
	_, err = store.CreateWatch(ctx, CreateWatchInput{
		VenueRef:   "venue-2",
		Platform:   domain.PlatformTock,
		TargetTime: now.Add(-time.Hour),
		PartySize:  4,
	})
	require.NoError(t, err)

	pending, err := store.GetPendingWatches(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, upcoming.ID, pending[0].ID)

	req := pending[0].ToRequest()
	assert.Equal(t, 30, req.TimeFlexibilityMinutes)
	assert.Equal(t, domain.PlatformResy, req.Platform)

	require.NoError(t, store.MarkWatchScheduled(ctx, upcoming.ID, "handle-1", now))
	assert.ErrorIs(t, store.MarkWatchScheduled(ctx, upcoming.ID, "handle-2", now), ErrWatchAlreadyScheduled)

	got, err := store.GetWatchByID(ctx, upcoming.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ScheduleHandle)
	assert.Equal(t, "handle-1", *got.ScheduleHandle)

	pending, err = store.GetPendingWatches(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	expired, err := store.DeactivateExpiredWatches(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
}

// =============================================================================
// Key-value state
// =============================================================================

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	value, err := store.GetKeyValue(ctx, "identity_usage_reset")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, store.SetKeyValue(ctx, "identity_usage_reset", "2026-10"))
	require.NoError(t, store.SetKeyValue(ctx, "identity_usage_reset", "2026-11"))

	value, err = store.GetKeyValue(ctx, "identity_usage_reset")
	require.NoError(t, err)
	assert.Equal(t, "2026-11", value)
}

// RunStoreTests runs every store test against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"CreateAndGetIdentity", testCreateAndGetIdentity},
		{"GetIdentityCandidates", testGetIdentityCandidates},
		{"IncrementIdentityUsage", testIncrementIdentityUsage},
		{"IncrementIdentityUsageStopsAtLimit", testIncrementIdentityUsageStopsAtLimit},
		{"ResetIdentityUsage", testResetIdentityUsage},
		{"AcquisitionAttempts", testAcquisitionAttempts},
		{"UpdateDropPattern", testUpdateDropPattern},
		{"TransferLifecycle", testTransferLifecycle},
		{"Watches", testWatches},
		{"KeyValueStore", testKeyValueStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
