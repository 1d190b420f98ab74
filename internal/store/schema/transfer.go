package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// Transfer represents the transfers table
type Transfer struct {
	ID               string                `gorm:"column:id;primaryKey;type:uuid"`
	IdentityID       string                `gorm:"column:identity_id;not null;type:uuid"`
	Platform         domain.Platform       `gorm:"column:platform;not null;type:text"`
	VenueRef         string                `gorm:"column:venue_ref;not null"`
	ConfirmationCode string                `gorm:"column:confirmation_code;not null"`
	ReservationTime  time.Time             `gorm:"column:reservation_time;not null;type:timestamptz"`
	PartySize        int                   `gorm:"column:party_size;not null"`
	Status           domain.TransferStatus `gorm:"column:status;not null;type:text"`
	ListingPrice     *decimal.Decimal      `gorm:"column:listing_price;type:numeric(12,2)"`
	BuyerName        *string               `gorm:"column:buyer_name"`
	BuyerContact     *string               `gorm:"column:buyer_contact"`
	SalePrice        *decimal.Decimal      `gorm:"column:sale_price;type:numeric(12,2)"`
	TransferMethod   *string               `gorm:"column:transfer_method"`
	TransferDeadline *time.Time            `gorm:"column:transfer_deadline;type:timestamptz"`
	PortfolioItemID  *string               `gorm:"column:portfolio_item_id"`
	CreatedAt        time.Time             `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (Transfer) TableName() string {
	return "transfers"
}

// ToDomain converts the row into a domain transfer
func (t *Transfer) ToDomain() *domain.Transfer {
	return &domain.Transfer{
		ID:               t.ID,
		IdentityID:       t.IdentityID,
		Platform:         t.Platform,
		VenueRef:         t.VenueRef,
		ConfirmationCode: t.ConfirmationCode,
		ReservationTime:  t.ReservationTime,
		PartySize:        t.PartySize,
		Status:           t.Status,
		ListingPrice:     t.ListingPrice,
		BuyerName:        t.BuyerName,
		BuyerContact:     t.BuyerContact,
		SalePrice:        t.SalePrice,
		TransferMethod:   t.TransferMethod,
		TransferDeadline: t.TransferDeadline,
		PortfolioItemID:  t.PortfolioItemID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
