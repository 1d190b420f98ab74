package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is a stage in the post-acquisition lifecycle of a reservation
type TransferStatus string

const (
	TransferStatusAcquired        TransferStatus = "ACQUIRED"
	TransferStatusListed          TransferStatus = "LISTED"
	TransferStatusSold            TransferStatus = "SOLD"
	TransferStatusTransferPending TransferStatus = "TRANSFER_PENDING"
	TransferStatusTransferred     TransferStatus = "TRANSFERRED"
	TransferStatusCompleted       TransferStatus = "COMPLETED"
)

// transferTransitions maps each status to the only status it may move to
var transferTransitions = map[TransferStatus]TransferStatus{
	TransferStatusAcquired:        TransferStatusListed,
	TransferStatusListed:          TransferStatusSold,
	TransferStatusSold:            TransferStatusTransferPending,
	TransferStatusTransferPending: TransferStatusTransferred,
	TransferStatusTransferred:     TransferStatusCompleted,
}

// IsValidTransferStatus checks if a status is known
func IsValidTransferStatus(s TransferStatus) bool {
	if s == TransferStatusCompleted {
		return true
	}
	_, ok := transferTransitions[s]
	return ok
}

// NextTransferStatus returns the status that follows s, if any
func NextTransferStatus(s TransferStatus) (TransferStatus, bool) {
	next, ok := transferTransitions[s]
	return next, ok
}

// CanTransition reports whether a transfer may move from one status to another
func CanTransition(from, to TransferStatus) bool {
	next, ok := transferTransitions[from]
	return ok && next == to
}

// Transfer tracks an acquired reservation through listing, sale and handover
type Transfer struct {
	ID               string           `json:"id"`
	IdentityID       string           `json:"identity_id"`
	Platform         Platform         `json:"platform"`
	VenueRef         string           `json:"venue_ref"`
	ConfirmationCode string           `json:"confirmation_code"`
	ReservationTime  time.Time        `json:"reservation_time"`
	PartySize        int              `json:"party_size"`
	Status           TransferStatus   `json:"status"`
	ListingPrice     *decimal.Decimal `json:"listing_price,omitempty"`
	BuyerName        *string          `json:"buyer_name,omitempty"`
	BuyerContact     *string          `json:"buyer_contact,omitempty"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty"`
	TransferMethod   *string          `json:"transfer_method,omitempty"`
	TransferDeadline *time.Time       `json:"transfer_deadline,omitempty"`
	PortfolioItemID  *string          `json:"portfolio_item_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TransitionDetails carries the fields a transition may set
type TransitionDetails struct {
	ListingPrice     *decimal.Decimal `json:"listing_price,omitempty"`
	BuyerName        *string          `json:"buyer_name,omitempty"`
	BuyerContact     *string          `json:"buyer_contact,omitempty"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty"`
	TransferMethod   *string          `json:"transfer_method,omitempty"`
	TransferDeadline *time.Time       `json:"transfer_deadline,omitempty"`
}

// ValidateTransition checks that a transfer may move to status `to` with the given details
func ValidateTransition(from, to TransferStatus, details TransitionDetails) error {
	if !IsValidTransferStatus(to) {
		return NewError(ErrorKindInvalidTransition, "", "unknown transfer status "+string(to), nil)
	}
	if !CanTransition(from, to) {
		return NewError(ErrorKindInvalidTransition, "", "cannot move transfer from "+string(from)+" to "+string(to), nil)
	}

	switch to {
	case TransferStatusListed:
		if details.ListingPrice != nil && details.ListingPrice.IsNegative() {
			return NewError(ErrorKindInvalidTransition, "", "listing price must not be negative", nil)
		}
	case TransferStatusSold:
		if details.BuyerName == nil || *details.BuyerName == "" {
			return NewError(ErrorKindInvalidTransition, "", "buyer name is required to mark a transfer sold", nil)
		}
		if details.SalePrice == nil || !details.SalePrice.IsPositive() {
			return NewError(ErrorKindInvalidTransition, "", "a positive sale price is required to mark a transfer sold", nil)
		}
	}
	return nil
}
