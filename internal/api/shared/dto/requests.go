package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-acquirer/internal/api/shared/constants"
	apierrors "github.com/feral-file/ff-acquirer/internal/api/shared/errors"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/store"
)

// AcquireRequest represents the request body for an immediate acquisition
type AcquireRequest struct {
	// ID is optional; one is generated when empty
	ID                     string          `json:"id,omitempty"`
	Platform               domain.Platform `json:"platform"`
	VenueRef               string          `json:"venue_ref"`
	PartySize              int             `json:"party_size"`
	TargetTime             time.Time       `json:"target_time"`
	TimeFlexibilityMinutes int             `json:"time_flexibility_minutes"`
	MaxRetries             int             `json:"max_retries"`
	AggressiveMode         bool            `json:"aggressive_mode"`
	AllowEarliestFallback  bool            `json:"allow_earliest_fallback"`
	IdentityID             *string         `json:"identity_id,omitempty"`
	PortfolioItemID        *string         `json:"portfolio_item_id,omitempty"`
	Guest                  *domain.Guest   `json:"guest,omitempty"`
}

// Validate validates the request body
func (r *AcquireRequest) Validate() error {
	if !domain.IsValidPlatform(r.Platform) {
		return apierrors.NewValidationError(fmt.Sprintf("unsupported platform: %q", r.Platform))
	}
	if strings.TrimSpace(r.VenueRef) == "" {
		return apierrors.NewValidationError("venue_ref is required")
	}
	if r.PartySize <= 0 {
		return apierrors.NewValidationError("party_size must be positive")
	}
	if r.TargetTime.IsZero() {
		return apierrors.NewValidationError("target_time is required")
	}
	if r.TimeFlexibilityMinutes < 0 || r.TimeFlexibilityMinutes > constants.MAX_FLEXIBILITY_MINUTES {
		return apierrors.NewValidationError(fmt.Sprintf("time_flexibility_minutes must be between 0 and %d", constants.MAX_FLEXIBILITY_MINUTES))
	}
	if r.MaxRetries < 0 || r.MaxRetries > constants.MAX_REQUEST_RETRIES {
		return apierrors.NewValidationError(fmt.Sprintf("max_retries must be between 0 and %d", constants.MAX_REQUEST_RETRIES))
	}
	if r.IdentityID != nil && *r.IdentityID == "" {
		return apierrors.NewValidationError("identity_id must not be empty")
	}
	if r.Guest != nil && r.Guest.FullName() == "" {
		return apierrors.NewValidationError("guest requires a name")
	}
	return nil
}

// ToDomain converts the request body into an acquisition request
func (r *AcquireRequest) ToDomain() domain.AcquisitionRequest {
	return domain.AcquisitionRequest{
		ID:                     r.ID,
		Platform:               r.Platform,
		VenueRef:               strings.TrimSpace(r.VenueRef),
		PartySize:              r.PartySize,
		TargetTime:             r.TargetTime,
		TimeFlexibilityMinutes: r.TimeFlexibilityMinutes,
		MaxRetries:             r.MaxRetries,
		AggressiveMode:         r.AggressiveMode,
		AllowEarliestFallback:  r.AllowEarliestFallback,
		IdentityID:             r.IdentityID,
		PortfolioItemID:        r.PortfolioItemID,
		Guest:                  r.Guest,
	}
}

// ScheduleRequest represents the request body for scheduling a drop-time acquisition
type ScheduleRequest struct {
	AcquireRequest

	// DropAt is the release instant; the learned pattern is used when omitted
	DropAt *time.Time `json:"drop_at,omitempty"`
	// BurstWindowSeconds shortens the burst ceiling
	BurstWindowSeconds int `json:"burst_window_seconds,omitempty"`
}

// Validate validates the request body
func (r *ScheduleRequest) Validate() error {
	if err := r.AcquireRequest.Validate(); err != nil {
		return err
	}
	if r.DropAt != nil && r.DropAt.IsZero() {
		return apierrors.NewValidationError("drop_at must be a valid time")
	}
	if r.BurstWindowSeconds < 0 || time.Duration(r.BurstWindowSeconds)*time.Second > domain.MAX_BURST_WINDOW {
		return apierrors.NewValidationError(fmt.Sprintf("burst_window_seconds must be between 0 and %d", int(domain.MAX_BURST_WINDOW.Seconds())))
	}
	return nil
}

// DropConfig returns the drop-time configuration for a resolved drop instant
func (r *ScheduleRequest) DropConfig(dropAt time.Time) domain.DropTimeConfig {
	return domain.DropTimeConfig{
		DropAt:      dropAt,
		BurstWindow: time.Duration(r.BurstWindowSeconds) * time.Second,
	}
}

// TransitionRequest represents the request body for moving a transfer to its next status
type TransitionRequest struct {
	Status           domain.TransferStatus `json:"status"`
	ListingPrice     *decimal.Decimal      `json:"listing_price,omitempty"`
	BuyerName        *string               `json:"buyer_name,omitempty"`
	BuyerContact     *string               `json:"buyer_contact,omitempty"`
	SalePrice        *decimal.Decimal      `json:"sale_price,omitempty"`
	TransferMethod   *string               `json:"transfer_method,omitempty"`
	TransferDeadline *time.Time            `json:"transfer_deadline,omitempty"`
}

// Validate validates the request body
func (r *TransitionRequest) Validate() error {
	if r.Status == "" {
		return apierrors.NewValidationError("status is required")
	}
	if !domain.IsValidTransferStatus(r.Status) {
		return apierrors.NewValidationError(fmt.Sprintf("unknown status: %q", r.Status))
	}
	return nil
}

// Details returns the transition fields of the request
func (r *TransitionRequest) Details() domain.TransitionDetails {
	return domain.TransitionDetails{
		ListingPrice:     r.ListingPrice,
		BuyerName:        r.BuyerName,
		BuyerContact:     r.BuyerContact,
		SalePrice:        r.SalePrice,
		TransferMethod:   r.TransferMethod,
		TransferDeadline: r.TransferDeadline,
	}
}

// CreateWatchRequest represents the request body for watching a venue's next drop
type CreateWatchRequest struct {
	Platform               domain.Platform `json:"platform"`
	VenueRef               string          `json:"venue_ref"`
	PartySize              int             `json:"party_size"`
	TargetTime             time.Time       `json:"target_time"`
	TimeFlexibilityMinutes int             `json:"time_flexibility_minutes"`
	MaxRetries             int             `json:"max_retries"`
	AllowEarliestFallback  bool            `json:"allow_earliest_fallback"`
	IdentityID             *string         `json:"identity_id,omitempty"`
}

// Validate validates the request body against the current time
func (r *CreateWatchRequest) Validate(now time.Time) error {
	acquire := AcquireRequest{
		Platform:               r.Platform,
		VenueRef:               r.VenueRef,
		PartySize:              r.PartySize,
		TargetTime:             r.TargetTime,
		TimeFlexibilityMinutes: r.TimeFlexibilityMinutes,
		MaxRetries:             r.MaxRetries,
		IdentityID:             r.IdentityID,
	}
	if err := acquire.Validate(); err != nil {
		return err
	}
	if !r.TargetTime.After(now) {
		return apierrors.NewValidationError("target_time must be in the future")
	}
	return nil
}

// CreateIdentityRequest represents the request body for adding an identity to the pool
type CreateIdentityRequest struct {
	DisplayName   string                              `json:"display_name"`
	Email         *string                             `json:"email,omitempty"`
	Phone         *string                             `json:"phone,omitempty"`
	Credentials   map[domain.Platform]json.RawMessage `json:"credentials"`
	MonthlyLimits map[domain.Platform]int             `json:"monthly_limits,omitempty"`
}

// Validate validates the request body
func (r *CreateIdentityRequest) Validate() error {
	if strings.TrimSpace(r.DisplayName) == "" {
		return apierrors.NewValidationError("display_name is required")
	}
	if len(r.Credentials) == 0 {
		return apierrors.NewValidationError("credentials for at least one platform are required")
	}
	for platform, raw := range r.Credentials {
		if !domain.IsValidPlatform(platform) {
			return apierrors.NewValidationError(fmt.Sprintf("unsupported platform in credentials: %q", platform))
		}
		if !json.Valid(raw) || !domain.Credentials(r.Credentials).Has(platform) {
			return apierrors.NewValidationError(fmt.Sprintf("credentials for %s must be a JSON value", platform))
		}
	}
	for platform, limit := range r.MonthlyLimits {
		if !domain.IsValidPlatform(platform) {
			return apierrors.NewValidationError(fmt.Sprintf("unsupported platform in monthly_limits: %q", platform))
		}
		if limit <= 0 {
			return apierrors.NewValidationError(fmt.Sprintf("monthly limit for %s must be positive", platform))
		}
	}
	return nil
}

// ToStoreInput converts the request body into the store input
func (r *CreateIdentityRequest) ToStoreInput() store.CreateIdentityInput {
	return store.CreateIdentityInput{
		DisplayName:   strings.TrimSpace(r.DisplayName),
		Email:         r.Email,
		Phone:         r.Phone,
		Credentials:   r.Credentials,
		MonthlyLimits: r.MonthlyLimits,
	}
}

// ToStoreInput converts the request body into the store input
func (r *CreateWatchRequest) ToStoreInput() store.CreateWatchInput {
	return store.CreateWatchInput{
		VenueRef:               strings.TrimSpace(r.VenueRef),
		Platform:               r.Platform,
		TargetTime:             r.TargetTime,
		PartySize:              r.PartySize,
		TimeFlexibilityMinutes: r.TimeFlexibilityMinutes,
		MaxRetries:             r.MaxRetries,
		AllowEarliestFallback:  r.AllowEarliestFallback,
		IdentityID:             r.IdentityID,
	}
}
