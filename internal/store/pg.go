package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/store/schema"
)

const defaultListLimit = 50

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// primary routes reads to the primary when a read replica is configured.
// Used for reads that must observe a write made moments before.
func primary(db *gorm.DB) *gorm.DB {
	if hasDBResolver(db) {
		return db.Clauses(dbresolver.Write)
	}
	return db
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool applies pool settings to the underlying *sql.DB.
// Zero values fall back to 20 open, 5 idle, 5m lifetime and 10m idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	maxIdleConns = min(maxIdleConns, maxOpenConns)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// =============================================================================
// Identities
// =============================================================================

// CreateIdentity creates an identity with a usage row for each credentialed platform
func (s *pgStore) CreateIdentity(ctx context.Context, input CreateIdentityInput, defaultMonthlyLimit int) (*schema.Identity, error) {
	creds := make(map[string]json.RawMessage, len(input.Credentials))
	platforms := make([]domain.Platform, 0, len(input.Credentials))
	for p, raw := range input.Credentials {
		creds[string(p)] = raw
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	credJSON, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	identity := schema.Identity{
		ID:          uuid.NewString(),
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Phone:       input.Phone,
		Credentials: datatypes.JSON(credJSON),
		Active:      true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&identity).Error; err != nil {
			return fmt.Errorf("failed to create identity: %w", err)
		}

		usage := make([]schema.IdentityPlatformUsage, 0, len(platforms))
		for _, p := range platforms {
			limit := defaultMonthlyLimit
			if l, ok := input.MonthlyLimits[p]; ok && l > 0 {
				limit = l
			}
			usage = append(usage, schema.IdentityPlatformUsage{
				IdentityID:   identity.ID,
				Platform:     p,
				MonthlyLimit: limit,
			})
		}
		if len(usage) > 0 {
			if err := tx.Create(&usage).Error; err != nil {
				return fmt.Errorf("failed to create identity usage: %w", err)
			}
		}
		identity.Usage = usage
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &identity, nil
}

// GetIdentityByID retrieves an identity with its usage rows
func (s *pgStore) GetIdentityByID(ctx context.Context, id string) (*schema.Identity, error) {
	if !isUUID(id) {
		return nil, nil
	}

	var identity schema.Identity
	err := primary(s.db).WithContext(ctx).Preload("Usage").Where("id = ?", id).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return &identity, nil
}

// GetIdentityCandidates retrieves active identities holding credentials for the platform
func (s *pgStore) GetIdentityCandidates(ctx context.Context, platform domain.Platform) ([]*schema.Identity, error) {
	var identities []*schema.Identity
	err := primary(s.db).WithContext(ctx).
		Preload("Usage").
		Where("active = ? AND credentials ->> ? IS NOT NULL", true, string(platform)).
		Order("created_at ASC, id ASC").
		Find(&identities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get identity candidates: %w", err)
	}

	return identities, nil
}

// IncrementIdentityUsage records one booking against the platform limit.
// The identity row lock serializes concurrent increments for the same identity,
// and the conditional update never lets the counter pass the limit.
func (s *pgStore) IncrementIdentityUsage(ctx context.Context, identityID string, platform domain.Platform, defaultMonthlyLimit int, at time.Time) error {
	if !isUUID(identityID) {
		return ErrIdentityNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var identity schema.Identity
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", identityID).
			First(&identity).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIdentityNotFound
			}
			return fmt.Errorf("failed to lock identity: %w", err)
		}

		usage := schema.IdentityPlatformUsage{
			IdentityID:   identityID,
			Platform:     platform,
			MonthlyLimit: defaultMonthlyLimit,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&usage).Error; err != nil {
			return fmt.Errorf("failed to ensure identity usage: %w", err)
		}

		result := tx.Model(&schema.IdentityPlatformUsage{}).
			Where("identity_id = ? AND platform = ? AND bookings < monthly_limit", identityID, platform).
			Updates(map[string]any{
				"bookings":   gorm.Expr("bookings + 1"),
				"updated_at": at,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to increment identity usage: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUsageLimitReached
		}

		err = tx.Model(&schema.Identity{}).
			Where("id = ?", identityID).
			Updates(map[string]any{
				"bookings_this_month": gorm.Expr("bookings_this_month + 1"),
				"last_booking_at":     at,
				"updated_at":          at,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update identity counters: %w", err)
		}

		return nil
	})
}

// ResetIdentityUsage zeroes every usage counter
func (s *pgStore) ResetIdentityUsage(ctx context.Context) (int64, error) {
	var touched int64
	now := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&schema.IdentityPlatformUsage{}).
			Where("bookings > 0").
			Updates(map[string]any{"bookings": 0, "updated_at": now}).Error
		if err != nil {
			return fmt.Errorf("failed to reset platform usage: %w", err)
		}

		result := tx.Model(&schema.Identity{}).
			Where("bookings_this_month > 0").
			Updates(map[string]any{"bookings_this_month": 0, "updated_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to reset identity counters: %w", result.Error)
		}
		touched = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return touched, nil
}

// DeactivateIdentity soft-deletes an identity
func (s *pgStore) DeactivateIdentity(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrIdentityNotFound
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Identity{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate identity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

// =============================================================================
// Attempts and drop patterns
// =============================================================================

// CreateAcquisitionAttempt appends an entry to the attempt log
func (s *pgStore) CreateAcquisitionAttempt(ctx context.Context, input CreateAcquisitionAttemptInput) error {
	attempt := schema.AcquisitionAttempt{
		RequestID:        input.RequestID,
		VenueRef:         input.VenueRef,
		Platform:         input.Platform,
		IdentityID:       input.IdentityID,
		Mode:             input.Mode,
		TargetTime:       input.TargetTime,
		AttemptedAt:      input.AttemptedAt,
		Success:          input.Success,
		ConfirmationCode: input.ConfirmationCode,
		BookedTime:       input.BookedTime,
		ErrorKind:        input.ErrorKind,
		ErrorMessage:     input.ErrorMessage,
		DurationMs:       input.DurationMs,
		Attempts:         input.Attempts,
		Raw:              datatypes.JSON(input.Raw),
	}

	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return fmt.Errorf("failed to create acquisition attempt: %w", err)
	}

	return nil
}

// GetAcquisitionAttempts lists the latest attempts for a venue
func (s *pgStore) GetAcquisitionAttempts(ctx context.Context, venueRef string, platform *domain.Platform, limit int) ([]*schema.AcquisitionAttempt, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := s.db.WithContext(ctx).Where("venue_ref = ?", venueRef)
	if platform != nil {
		query = query.Where("platform = ?", *platform)
	}

	var attempts []*schema.AcquisitionAttempt
	if err := query.Order("attempted_at DESC, id DESC").Limit(limit).Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to get acquisition attempts: %w", err)
	}

	return attempts, nil
}

// GetDropPattern retrieves the pattern of a venue on a platform
func (s *pgStore) GetDropPattern(ctx context.Context, venueRef string, platform domain.Platform) (*schema.DropPattern, error) {
	var pattern schema.DropPattern
	err := s.db.WithContext(ctx).
		Where("venue_ref = ? AND platform = ?", venueRef, platform).
		First(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get drop pattern: %w", err)
	}

	return &pattern, nil
}

// GetDropPatternsByVenue lists the patterns of a venue, most confident first
func (s *pgStore) GetDropPatternsByVenue(ctx context.Context, venueRef string) ([]*schema.DropPattern, error) {
	var patterns []*schema.DropPattern
	err := s.db.WithContext(ctx).
		Where("venue_ref = ?", venueRef).
		Order("confidence DESC, updated_at DESC").
		Find(&patterns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get drop patterns: %w", err)
	}

	return patterns, nil
}

// ListDropPatterns lists patterns at or above a confidence
func (s *pgStore) ListDropPatterns(ctx context.Context, minConfidence int, limit int) ([]*schema.DropPattern, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var patterns []*schema.DropPattern
	err := s.db.WithContext(ctx).
		Where("confidence >= ?", minConfidence).
		Order("confidence DESC, venue_ref ASC, platform ASC").
		Limit(limit).
		Find(&patterns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list drop patterns: %w", err)
	}

	return patterns, nil
}

// UpdateDropPattern applies a mutation to a pattern under a row lock
func (s *pgStore) UpdateDropPattern(ctx context.Context, venueRef string, platform domain.Platform, mutate DropPatternMutation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row schema.DropPattern
		var current *domain.DropPattern

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("venue_ref = ? AND platform = ?", venueRef, platform).
			First(&row).Error
		switch {
		case err == nil:
			current = row.ToDomain()
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return fmt.Errorf("failed to lock drop pattern: %w", err)
		}

		next := mutate(current)
		if next == nil {
			return nil
		}

		updated := schema.DropPatternFromDomain(next)
		updated.VenueRef = venueRef
		updated.Platform = platform

		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "venue_ref"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"days_in_advance",
				"drop_minute_of_day",
				"day_of_week",
				"confidence",
				"successful_acquisitions",
				"total_attempts",
				"last_confirmed_at",
				"updated_at",
			}),
		}).Create(updated).Error
		if err != nil {
			return fmt.Errorf("failed to upsert drop pattern: %w", err)
		}

		return nil
	})
}

// =============================================================================
// Transfers
// =============================================================================

// CreateTransfer creates a transfer in the ACQUIRED state
func (s *pgStore) CreateTransfer(ctx context.Context, input CreateTransferInput) (*schema.Transfer, error) {
	transfer := schema.Transfer{
		ID:               uuid.NewString(),
		IdentityID:       input.IdentityID,
		Platform:         input.Platform,
		VenueRef:         input.VenueRef,
		ConfirmationCode: input.ConfirmationCode,
		ReservationTime:  input.ReservationTime,
		PartySize:        input.PartySize,
		Status:           domain.TransferStatusAcquired,
		PortfolioItemID:  input.PortfolioItemID,
	}

	if err := s.db.WithContext(ctx).Create(&transfer).Error; err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	return &transfer, nil
}

// GetTransferByID retrieves a transfer
func (s *pgStore) GetTransferByID(ctx context.Context, id string) (*schema.Transfer, error) {
	if !isUUID(id) {
		return nil, nil
	}

	var transfer schema.Transfer
	err := primary(s.db).WithContext(ctx).Where("id = ?", id).First(&transfer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}

	return &transfer, nil
}

// ListTransfers lists transfers newest first
func (s *pgStore) ListTransfers(ctx context.Context, filter TransferFilter) ([]*schema.Transfer, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := s.db.WithContext(ctx).Model(&schema.Transfer{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var transfers []*schema.Transfer
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(filter.Offset).Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	return transfers, nil
}

// UpdateTransferStatus moves a transfer from input.From to input.To.
// The status predicate makes the update a compare-and-set.
func (s *pgStore) UpdateTransferStatus(ctx context.Context, input UpdateTransferStatusInput) (*schema.Transfer, error) {
	if !isUUID(input.ID) {
		return nil, ErrTransferNotFound
	}

	updates := map[string]any{
		"status":     input.To,
		"updated_at": time.Now(),
	}

	d := input.Details
	switch input.To {
	case domain.TransferStatusListed:
		if d.ListingPrice != nil {
			updates["listing_price"] = *d.ListingPrice
		}
	case domain.TransferStatusSold:
		if d.BuyerName != nil {
			updates["buyer_name"] = *d.BuyerName
		}
		if d.BuyerContact != nil {
			updates["buyer_contact"] = *d.BuyerContact
		}
		if d.SalePrice != nil {
			updates["sale_price"] = *d.SalePrice
		}
	case domain.TransferStatusTransferPending:
		if d.TransferMethod != nil {
			updates["transfer_method"] = *d.TransferMethod
		}
		if d.TransferDeadline != nil {
			updates["transfer_deadline"] = *d.TransferDeadline
		}
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Transfer{}).
		Where("id = ? AND status = ?", input.ID, input.From).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update transfer status: %w", result.Error)
	}

	transfer, err := s.GetTransferByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, ErrTransferNotFound
	}
	if result.RowsAffected == 0 {
		return transfer, ErrTransferStateChanged
	}

	return transfer, nil
}

// =============================================================================
// Watches
// =============================================================================

// CreateWatch creates an active, unscheduled watch
func (s *pgStore) CreateWatch(ctx context.Context, input CreateWatchInput) (*schema.Watch, error) {
	watch := schema.Watch{
		ID:                     uuid.NewString(),
		VenueRef:               input.VenueRef,
		Platform:               input.Platform,
		TargetTime:             input.TargetTime,
		PartySize:              input.PartySize,
		TimeFlexibilityMinutes: input.TimeFlexibilityMinutes,
		MaxRetries:             input.MaxRetries,
		AllowEarliestFallback:  input.AllowEarliestFallback,
		IdentityID:             input.IdentityID,
		Active:                 true,
	}

	if err := s.db.WithContext(ctx).Create(&watch).Error; err != nil {
		return nil, fmt.Errorf("failed to create watch: %w", err)
	}

	return &watch, nil
}

// GetWatchByID retrieves a watch
func (s *pgStore) GetWatchByID(ctx context.Context, id string) (*schema.Watch, error) {
	if !isUUID(id) {
		return nil, nil
	}

	var watch schema.Watch
	err := primary(s.db).WithContext(ctx).Where("id = ?", id).First(&watch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get watch: %w", err)
	}

	return &watch, nil
}

// GetPendingWatches lists active, unscheduled watches whose target is still ahead
func (s *pgStore) GetPendingWatches(ctx context.Context, now time.Time, limit int) ([]*schema.Watch, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var watches []*schema.Watch
	err := s.db.WithContext(ctx).
		Where("active = ? AND schedule_handle IS NULL AND target_time > ?", true, now).
		Order("target_time ASC").
		Limit(limit).
		Find(&watches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending watches: %w", err)
	}

	return watches, nil
}

// MarkWatchScheduled stores the schedule handle of a watch that has none yet
func (s *pgStore) MarkWatchScheduled(ctx context.Context, id string, handle string, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Watch{}).
		Where("id = ? AND schedule_handle IS NULL", id).
		Updates(map[string]any{
			"schedule_handle": handle,
			"scheduled_at":    at,
			"updated_at":      at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark watch scheduled: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWatchAlreadyScheduled
	}

	return nil
}

// DeactivateExpiredWatches deactivates watches whose target time has passed
func (s *pgStore) DeactivateExpiredWatches(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Watch{}).
		Where("active = ? AND target_time <= ?", true, now).
		Updates(map[string]any{"active": false, "updated_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate expired watches: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// =============================================================================
// Key-value state
// =============================================================================

// SetKeyValue stores a key-value pair
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// GetKeyValue retrieves a value by key
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}
