package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Credentials holds an opaque credential blob per platform.
// Only the adapter of a platform interprets its blob.
type Credentials map[Platform]json.RawMessage

// Has reports whether a non-empty blob exists for the platform
func (c Credentials) Has(p Platform) bool {
	raw, ok := c[p]
	return ok && len(raw) > 0 && string(raw) != "null"
}

// Decode unmarshals the blob of a platform into v
func (c Credentials) Decode(p Platform, v any) error {
	if !c.Has(p) {
		return fmt.Errorf("no credentials for %s", p)
	}
	if err := json.Unmarshal(c[p], v); err != nil {
		return fmt.Errorf("failed to decode %s credentials: %w", p, err)
	}
	return nil
}

// PlatformUsage tracks bookings against the monthly limit on one platform
type PlatformUsage struct {
	Bookings     int `json:"bookings"`
	MonthlyLimit int `json:"monthly_limit"`
}

// Remaining returns the bookings still allowed this month
func (u PlatformUsage) Remaining() int {
	return max(u.MonthlyLimit-u.Bookings, 0)
}

// Identity is a persona holding platform credentials and a usage budget
type Identity struct {
	ID                string                     `json:"id"`
	DisplayName       string                     `json:"display_name"`
	Email             string                     `json:"email,omitempty"`
	Phone             string                     `json:"phone,omitempty"`
	Credentials       Credentials                `json:"-"`
	Usage             map[Platform]PlatformUsage `json:"usage"`
	BookingsThisMonth int                        `json:"bookings_this_month"`
	LastBookingAt     *time.Time                 `json:"last_booking_at,omitempty"`
	Active            bool                       `json:"active"`
	CreatedAt         time.Time                  `json:"created_at"`
}

// UsageFor returns the usage on a platform, applying the default limit when none is set
func (i *Identity) UsageFor(p Platform) PlatformUsage {
	usage, ok := i.Usage[p]
	if !ok || usage.MonthlyLimit <= 0 {
		usage.MonthlyLimit = DEFAULT_MONTHLY_LIMIT
	}
	return usage
}

// HasCapacity reports whether the identity may book once more on the platform
func (i *Identity) HasCapacity(p Platform) bool {
	return i.UsageFor(p).Remaining() > 0
}

// EligibleFor reports whether the identity can be used for the platform right now
func (i *Identity) EligibleFor(p Platform) bool {
	return i.Active && i.Credentials.Has(p) && i.HasCapacity(p)
}
