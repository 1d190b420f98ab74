package platform

import (
	"context"
	"time"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// ReadyStatus tells whether an identity carries every credential field a platform needs
type ReadyStatus struct {
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing,omitempty"`
}

// Adapter is the uniform capability set of a reservation platform.
// Adapters never retry and never sleep; the engine owns retry policy and deadlines.
//
//go:generate mockgen -source=adapter.go -destination=../mocks/platform_adapter.go -package=mocks -mock_names=Adapter=MockPlatformAdapter
type Adapter interface {
	// Platform returns the platform the adapter talks to
	Platform() domain.Platform

	// SupportsGuestOverride reports whether bookings can be placed under a third party's name
	SupportsGuestOverride() bool

	// CheckReady inspects the identity's credentials without any network call
	CheckReady(identity *domain.Identity) ReadyStatus

	// FindSlots lists bookable slots at a venue on the date of `date`.
	// An empty slice means the platform reported no inventory.
	FindSlots(ctx context.Context, identity *domain.Identity, venueRef string, date time.Time, partySize int) ([]domain.Slot, error)

	// Book commits a slot. A non-nil guest books under the guest's name.
	Book(ctx context.Context, identity *domain.Identity, slot domain.Slot, partySize int, guest *domain.Guest) (*domain.Booking, error)
}

// MissingFields builds a ReadyStatus listing every empty field, in the order given
func MissingFields(fields ...Field) ReadyStatus {
	var missing []string
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	return ReadyStatus{Ready: len(missing) == 0, Missing: missing}
}

// Field is one required credential field
type Field struct {
	Name  string
	Value string
}

// NotReady reports a platform without any credential blob on the identity
func NotReady(fields ...string) ReadyStatus {
	return ReadyStatus{Ready: false, Missing: fields}
}
