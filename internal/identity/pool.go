package identity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/store"
)

// ErrUsageLimitReached is returned by RecordBooking when the identity has no capacity left
var ErrUsageLimitReached = store.ErrUsageLimitReached

// Pool manages identities and their monthly booking budgets
//
//go:generate mockgen -source=pool.go -destination=../mocks/identity_pool.go -package=mocks -mock_names=Pool=MockIdentityPool
type Pool interface {
	// SelectBest returns the least-used eligible identity for a platform, or nil when none has capacity
	SelectBest(ctx context.Context, platform domain.Platform) (*domain.Identity, error)

	// Get returns an identity by id, or nil when missing
	Get(ctx context.Context, id string) (*domain.Identity, error)

	// RecordBooking counts one booking against the identity's platform budget
	RecordBooking(ctx context.Context, identityID string, platform domain.Platform) error

	// ResetMonthly zeroes every usage counter
	ResetMonthly(ctx context.Context) (int64, error)

	// Create adds an identity
	Create(ctx context.Context, input store.CreateIdentityInput) (*domain.Identity, error)

	// Deactivate removes an identity from selection
	Deactivate(ctx context.Context, id string) error
}

type pool struct {
	store        store.Store
	clock        adapter.Clock
	defaultLimit int
}

// NewPool creates an identity pool backed by the store
func NewPool(st store.Store, clock adapter.Clock, defaultMonthlyLimit int) Pool {
	if defaultMonthlyLimit <= 0 {
		defaultMonthlyLimit = domain.DEFAULT_MONTHLY_LIMIT
	}
	return &pool{
		store:        st,
		clock:        clock,
		defaultLimit: defaultMonthlyLimit,
	}
}

func (p *pool) SelectBest(ctx context.Context, platform domain.Platform) (*domain.Identity, error) {
	rows, err := p.store.GetIdentityCandidates(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity candidates: %w", err)
	}

	candidates := make([]*domain.Identity, 0, len(rows))
	for _, row := range rows {
		identity, err := row.ToDomain()
		if err != nil {
			logger.WarnCtx(ctx, "Skipping identity with unreadable credentials",
				zap.String("identityID", row.ID),
				zap.Error(err),
			)
			continue
		}
		p.applyDefaultLimit(identity, platform)
		candidates = append(candidates, identity)
	}

	return SelectBest(candidates, platform), nil
}

func (p *pool) Get(ctx context.Context, id string) (*domain.Identity, error) {
	row, err := p.store.GetIdentityByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	identity, err := row.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to decode identity %s: %w", id, err)
	}
	for _, platform := range domain.AllPlatforms() {
		p.applyDefaultLimit(identity, platform)
	}
	return identity, nil
}

func (p *pool) RecordBooking(ctx context.Context, identityID string, platform domain.Platform) error {
	err := p.store.IncrementIdentityUsage(ctx, identityID, platform, p.defaultLimit, p.clock.Now())
	if err != nil {
		if errors.Is(err, store.ErrUsageLimitReached) {
			return ErrUsageLimitReached
		}
		return fmt.Errorf("failed to record booking: %w", err)
	}
	return nil
}

func (p *pool) ResetMonthly(ctx context.Context) (int64, error) {
	touched, err := p.store.ResetIdentityUsage(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset identity usage: %w", err)
	}

	logger.InfoCtx(ctx, "Reset monthly identity usage", zap.Int64("identities", touched))
	return touched, nil
}

func (p *pool) Create(ctx context.Context, input store.CreateIdentityInput) (*domain.Identity, error) {
	if input.DisplayName == "" {
		return nil, domain.NewError(domain.ErrorKindConfiguration, "", "display name is required", nil)
	}
	for platform := range input.Credentials {
		if !domain.IsValidPlatform(platform) {
			return nil, domain.NewError(domain.ErrorKindConfiguration, platform, "unsupported platform in credentials", nil)
		}
	}

	row, err := p.store.CreateIdentity(ctx, input, p.defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	return row.ToDomain()
}

func (p *pool) Deactivate(ctx context.Context, id string) error {
	if err := p.store.DeactivateIdentity(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate identity: %w", err)
	}
	return nil
}

// applyDefaultLimit fills the platform limit from configuration when the identity has none stored
func (p *pool) applyDefaultLimit(identity *domain.Identity, platform domain.Platform) {
	if identity.Usage == nil {
		identity.Usage = make(map[domain.Platform]domain.PlatformUsage)
	}
	usage := identity.Usage[platform]
	if usage.MonthlyLimit <= 0 {
		usage.MonthlyLimit = p.defaultLimit
		identity.Usage[platform] = usage
	}
}

// SelectBest picks the eligible identity with the fewest bookings on the platform.
// Ties go to the identity that booked least recently (never booked first), then the
// oldest identity, then the lowest id.
func SelectBest(candidates []*domain.Identity, platform domain.Platform) *domain.Identity {
	eligible := make([]*domain.Identity, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && c.EligibleFor(platform) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]

		ua, ub := a.UsageFor(platform).Bookings, b.UsageFor(platform).Bookings
		if ua != ub {
			return ua < ub
		}

		if la, lb := lastBooking(a), lastBooking(b); !la.Equal(lb) {
			return la.Before(lb)
		}

		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return eligible[0]
}

// lastBooking maps a missing timestamp to the zero time so never-booked identities sort first
func lastBooking(i *domain.Identity) time.Time {
	if i.LastBookingAt == nil {
		return time.Time{}
	}
	return *i.LastBookingAt
}
