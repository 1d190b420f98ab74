package domain

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies a third-party reservation platform
type Platform string

const (
	PlatformResy       Platform = "resy"
	PlatformOpenTable  Platform = "opentable"
	PlatformSevenRooms Platform = "sevenrooms"
	PlatformTock       Platform = "tock"
)

// AllPlatforms lists every supported platform
func AllPlatforms() []Platform {
	return []Platform{PlatformResy, PlatformOpenTable, PlatformSevenRooms, PlatformTock}
}

// IsValidPlatform checks if a platform is supported
func IsValidPlatform(p Platform) bool {
	for _, known := range AllPlatforms() {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform normalizes and validates a platform name
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidPlatform(p) {
		return "", fmt.Errorf("unsupported platform: %q", s)
	}
	return p, nil
}

func (p Platform) String() string {
	return string(p)
}

// AcquisitionMode tells whether an acquisition ran immediately or as a drop-time burst
type AcquisitionMode string

const (
	AcquisitionModeImmediate AcquisitionMode = "immediate"
	AcquisitionModeDrop      AcquisitionMode = "drop"
)

// Slot is a bookable time at a venue as returned by a platform
type Slot struct {
	// Token is the platform-specific handle needed to book this slot
	Token    string    `json:"token"`
	Time     time.Time `json:"time"`
	MinParty int       `json:"min_party,omitempty"`
	MaxParty int       `json:"max_party,omitempty"`
	Type     string    `json:"type,omitempty"`
}

// Accommodates reports whether the slot admits the party size.
// Zero bounds are treated as unbounded.
func (s Slot) Accommodates(partySize int) bool {
	if s.MinParty > 0 && partySize < s.MinParty {
		return false
	}
	if s.MaxParty > 0 && partySize > s.MaxParty {
		return false
	}
	return true
}

// Booking is a confirmed reservation returned by a platform
type Booking struct {
	ConfirmationCode string    `json:"confirmation_code"`
	BookedTime       time.Time `json:"booked_time"`
	PlatformRef      string    `json:"platform_ref,omitempty"`
}

// Guest overrides the name and contact placed on a booking (concierge mode)
type Guest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// FullName returns the guest's display name
func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// AcquisitionRequest describes a reservation to acquire
type AcquisitionRequest struct {
	ID        string   `json:"id"`
	Platform  Platform `json:"platform"`
	VenueRef  string   `json:"venue_ref"`
	PartySize int      `json:"party_size"`
	// TargetTime is the desired reservation date and time in the venue's location
	TargetTime time.Time `json:"target_time"`
	// TimeFlexibilityMinutes is the half-width of the acceptable window around TargetTime
	TimeFlexibilityMinutes int  `json:"time_flexibility_minutes"`
	MaxRetries             int  `json:"max_retries"`
	AggressiveMode         bool `json:"aggressive_mode"`
	// AllowEarliestFallback books the earliest slot when nothing falls inside the window
	AllowEarliestFallback bool    `json:"allow_earliest_fallback"`
	IdentityID            *string `json:"identity_id,omitempty"`
	PortfolioItemID       *string `json:"portfolio_item_id,omitempty"`
	Guest                 *Guest  `json:"guest,omitempty"`
}

// Validate checks the request for configuration errors
func (r AcquisitionRequest) Validate() error {
	if !IsValidPlatform(r.Platform) {
		return NewError(ErrorKindConfiguration, r.Platform, fmt.Sprintf("unsupported platform %q", r.Platform), nil)
	}
	if strings.TrimSpace(r.VenueRef) == "" {
		return NewError(ErrorKindConfiguration, r.Platform, "venue reference is required", nil)
	}
	if r.PartySize <= 0 {
		return NewError(ErrorKindConfiguration, r.Platform, "party size must be positive", nil)
	}
	if r.TargetTime.IsZero() {
		return NewError(ErrorKindConfiguration, r.Platform, "target time is required", nil)
	}
	if r.TimeFlexibilityMinutes < 0 {
		return NewError(ErrorKindConfiguration, r.Platform, "time flexibility must not be negative", nil)
	}
	if r.MaxRetries < 0 {
		return NewError(ErrorKindConfiguration, r.Platform, "max retries must not be negative", nil)
	}
	if r.Guest != nil && strings.TrimSpace(r.Guest.FullName()) == "" {
		return NewError(ErrorKindConfiguration, r.Platform, "guest override requires a name", nil)
	}
	return nil
}

// EffectiveMaxRetries returns MaxRetries or the default when unset
func (r AcquisitionRequest) EffectiveMaxRetries() int {
	if r.MaxRetries <= 0 {
		return DEFAULT_MAX_RETRIES
	}
	return r.MaxRetries
}

// DropTimeConfig describes when a venue releases inventory and how to burst at it
type DropTimeConfig struct {
	DropAt time.Time `json:"drop_at"`
	// PreWarmLead is how long before DropAt the availability pre-fetch runs
	PreWarmLead time.Duration `json:"pre_warm_lead"`
	// BurstWindow bounds the whole burst; it never exceeds MAX_BURST_WINDOW
	BurstWindow   time.Duration `json:"burst_window"`
	BurstInterval time.Duration `json:"burst_interval"`
}

// WithDefaults fills unset durations and clamps the burst window
func (c DropTimeConfig) WithDefaults() DropTimeConfig {
	if c.PreWarmLead <= 0 {
		c.PreWarmLead = DEFAULT_PRE_WARM_LEAD
	}
	if c.BurstWindow <= 0 || c.BurstWindow > MAX_BURST_WINDOW {
		c.BurstWindow = MAX_BURST_WINDOW
	}
	if c.BurstInterval <= 0 {
		c.BurstInterval = DEFAULT_BURST_INTERVAL
	}
	return c
}

// AcquisitionResult is the outcome of an acquisition
type AcquisitionResult struct {
	RequestID        string          `json:"request_id"`
	Success          bool            `json:"success"`
	Platform         Platform        `json:"platform"`
	VenueRef         string          `json:"venue_ref"`
	Mode             AcquisitionMode `json:"mode"`
	ConfirmationCode string          `json:"confirmation_code,omitempty"`
	BookedTime       *time.Time      `json:"booked_time,omitempty"`
	IdentityID       string          `json:"identity_id,omitempty"`
	TransferID       string          `json:"transfer_id,omitempty"`
	ErrorKind        ErrorKind       `json:"error_kind,omitempty"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	Attempts         int             `json:"attempts"`
	Duration         time.Duration   `json:"duration"`
	CompletedAt      time.Time       `json:"completed_at"`
}

// Err rebuilds the classified error of a failed result
func (r *AcquisitionResult) Err() error {
	if r == nil || r.Success {
		return nil
	}
	return NewError(r.ErrorKind, r.Platform, r.ErrorMessage, nil)
}
