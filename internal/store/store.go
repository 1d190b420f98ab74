package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/store/schema"
)

var (
	// ErrUsageLimitReached is returned when an identity has no remaining bookings on a platform
	ErrUsageLimitReached = errors.New("identity usage limit reached")

	// ErrIdentityNotFound is returned when an identity does not exist
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrTransferNotFound is returned when a transfer does not exist
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrTransferStateChanged is returned when a transfer was moved by another writer
	ErrTransferStateChanged = errors.New("transfer state changed concurrently")

	// ErrWatchAlreadyScheduled is returned when a watch already has a schedule handle
	ErrWatchAlreadyScheduled = errors.New("watch already scheduled")
)

// CreateIdentityInput holds the fields of a new identity
type CreateIdentityInput struct {
	DisplayName string
	Email       *string
	Phone       *string
	Credentials map[domain.Platform]json.RawMessage
	// MonthlyLimits overrides the default per-platform monthly limit
	MonthlyLimits map[domain.Platform]int
}

// CreateAcquisitionAttemptInput holds one entry of the attempt log
type CreateAcquisitionAttemptInput struct {
	RequestID        string
	VenueRef         string
	Platform         domain.Platform
	IdentityID       *string
	Mode             domain.AcquisitionMode
	TargetTime       time.Time
	AttemptedAt      time.Time
	Success          bool
	ConfirmationCode *string
	BookedTime       *time.Time
	ErrorKind        *string
	ErrorMessage     *string
	DurationMs       int64
	Attempts         int
	Raw              []byte
}

// CreateTransferInput holds the fields of a newly acquired reservation
type CreateTransferInput struct {
	IdentityID       string
	Platform         domain.Platform
	VenueRef         string
	ConfirmationCode string
	ReservationTime  time.Time
	PartySize        int
	PortfolioItemID  *string
}

// TransferFilter narrows ListTransfers
type TransferFilter struct {
	Status *domain.TransferStatus
	Limit  int
	Offset int
}

// UpdateTransferStatusInput is a compare-and-set transition of a transfer
type UpdateTransferStatusInput struct {
	ID      string
	From    domain.TransferStatus
	To      domain.TransferStatus
	Details domain.TransitionDetails
}

// CreateWatchInput holds the fields of a new watch
type CreateWatchInput struct {
	VenueRef               string
	Platform               domain.Platform
	TargetTime             time.Time
	PartySize              int
	TimeFlexibilityMinutes int
	MaxRetries             int
	AllowEarliestFallback  bool
	IdentityID             *string
}

// DropPatternMutation receives the current pattern (nil when none exists) and returns the pattern to store.
// Returning nil leaves the table untouched.
type DropPatternMutation func(current *domain.DropPattern) *domain.DropPattern

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// =============================================================================
	// Identities
	// =============================================================================

	// CreateIdentity creates an identity with a usage row for each credentialed platform
	CreateIdentity(ctx context.Context, input CreateIdentityInput, defaultMonthlyLimit int) (*schema.Identity, error)
	// GetIdentityByID retrieves an identity with its usage rows, or nil when missing
	GetIdentityByID(ctx context.Context, id string) (*schema.Identity, error)
	// GetIdentityCandidates retrieves active identities holding credentials for the platform
	GetIdentityCandidates(ctx context.Context, platform domain.Platform) ([]*schema.Identity, error)
	// IncrementIdentityUsage atomically records one booking, failing with ErrUsageLimitReached at the limit
	IncrementIdentityUsage(ctx context.Context, identityID string, platform domain.Platform, defaultMonthlyLimit int, at time.Time) error
	// ResetIdentityUsage zeroes every usage counter and returns the number of identities touched
	ResetIdentityUsage(ctx context.Context) (int64, error)
	// DeactivateIdentity soft-deletes an identity
	DeactivateIdentity(ctx context.Context, id string) error

	// =============================================================================
	// Attempts and drop patterns
	// =============================================================================

	// CreateAcquisitionAttempt appends an entry to the attempt log
	CreateAcquisitionAttempt(ctx context.Context, input CreateAcquisitionAttemptInput) error
	// GetAcquisitionAttempts lists the latest attempts for a venue, optionally filtered by platform
	GetAcquisitionAttempts(ctx context.Context, venueRef string, platform *domain.Platform, limit int) ([]*schema.AcquisitionAttempt, error)
	// GetDropPattern retrieves the pattern of a venue on a platform, or nil when none exists
	GetDropPattern(ctx context.Context, venueRef string, platform domain.Platform) (*schema.DropPattern, error)
	// GetDropPatternsByVenue lists the patterns of a venue ordered by confidence
	GetDropPatternsByVenue(ctx context.Context, venueRef string) ([]*schema.DropPattern, error)
	// ListDropPatterns lists patterns at or above a confidence
	ListDropPatterns(ctx context.Context, minConfidence int, limit int) ([]*schema.DropPattern, error)
	// UpdateDropPattern applies a mutation to a pattern under a row lock
	UpdateDropPattern(ctx context.Context, venueRef string, platform domain.Platform, mutate DropPatternMutation) error

	// =============================================================================
	// Transfers
	// =============================================================================

	// CreateTransfer creates a transfer in the ACQUIRED state
	CreateTransfer(ctx context.Context, input CreateTransferInput) (*schema.Transfer, error)
	// GetTransferByID retrieves a transfer, or nil when missing
	GetTransferByID(ctx context.Context, id string) (*schema.Transfer, error)
	// ListTransfers lists transfers newest first
	ListTransfers(ctx context.Context, filter TransferFilter) ([]*schema.Transfer, error)
	// UpdateTransferStatus moves a transfer only if it is still in input.From
	UpdateTransferStatus(ctx context.Context, input UpdateTransferStatusInput) (*schema.Transfer, error)

	// =============================================================================
	// Watches
	// =============================================================================

	// CreateWatch creates an active, unscheduled watch
	CreateWatch(ctx context.Context, input CreateWatchInput) (*schema.Watch, error)
	// GetWatchByID retrieves a watch, or nil when missing
	GetWatchByID(ctx context.Context, id string) (*schema.Watch, error)
	// GetPendingWatches lists active, unscheduled watches whose target is still ahead
	GetPendingWatches(ctx context.Context, now time.Time, limit int) ([]*schema.Watch, error)
	// MarkWatchScheduled stores the schedule handle of a watch that has none yet
	MarkWatchScheduled(ctx context.Context, id string, handle string, at time.Time) error
	// DeactivateExpiredWatches deactivates watches whose target time has passed
	DeactivateExpiredWatches(ctx context.Context, now time.Time) (int64, error)

	// =============================================================================
	// Key-value state
	// =============================================================================

	// SetKeyValue stores a key-value pair
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetKeyValue retrieves a value, or "" when missing
	GetKeyValue(ctx context.Context, key string) (string, error)
}
