package schema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// Identity represents the identities table
type Identity struct {
	ID          string  `gorm:"column:id;primaryKey;type:uuid"`
	DisplayName string  `gorm:"column:display_name;not null"`
	Email       *string `gorm:"column:email"`
	Phone       *string `gorm:"column:phone"`
	// Credentials is a JSON object keyed by platform; each value is opaque to everything but its adapter
	Credentials       datatypes.JSON `gorm:"column:credentials;type:jsonb;not null;default:'{}'"`
	BookingsThisMonth int            `gorm:"column:bookings_this_month;not null;default:0"`
	LastBookingAt     *time.Time     `gorm:"column:last_booking_at;type:timestamptz"`
	Active            bool           `gorm:"column:active;not null;default:true"`
	CreatedAt         time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	Usage []IdentityPlatformUsage `gorm:"foreignKey:IdentityID;references:ID"`
}

func (Identity) TableName() string {
	return "identities"
}

// ToDomain converts the row and its usage rows into a domain identity
func (i *Identity) ToDomain() (*domain.Identity, error) {
	creds := domain.Credentials{}
	if len(i.Credentials) > 0 {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(i.Credentials, &raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			creds[domain.Platform(k)] = v
		}
	}

	usage := make(map[domain.Platform]domain.PlatformUsage, len(i.Usage))
	for _, u := range i.Usage {
		usage[u.Platform] = domain.PlatformUsage{
			Bookings:     u.Bookings,
			MonthlyLimit: u.MonthlyLimit,
		}
	}

	identity := &domain.Identity{
		ID:                i.ID,
		DisplayName:       i.DisplayName,
		Credentials:       creds,
		Usage:             usage,
		BookingsThisMonth: i.BookingsThisMonth,
		LastBookingAt:     i.LastBookingAt,
		Active:            i.Active,
		CreatedAt:         i.CreatedAt,
	}
	if i.Email != nil {
		identity.Email = *i.Email
	}
	if i.Phone != nil {
		identity.Phone = *i.Phone
	}
	return identity, nil
}

// IdentityPlatformUsage represents the identity_platform_usage table
type IdentityPlatformUsage struct {
	IdentityID   string          `gorm:"column:identity_id;primaryKey;type:uuid"`
	Platform     domain.Platform `gorm:"column:platform;primaryKey;type:text"`
	Bookings     int             `gorm:"column:bookings;not null;default:0"`
	MonthlyLimit int             `gorm:"column:monthly_limit;not null"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (IdentityPlatformUsage) TableName() string {
	return "identity_platform_usage"
}
