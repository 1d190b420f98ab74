package schema

import (
	"time"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// Watch represents the acquisition_watches table: a wanted reservation waiting for its drop
type Watch struct {
	ID                     string          `gorm:"column:id;primaryKey;type:uuid"`
	VenueRef               string          `gorm:"column:venue_ref;not null"`
	Platform               domain.Platform `gorm:"column:platform;not null;type:text"`
	TargetTime             time.Time       `gorm:"column:target_time;not null;type:timestamptz"`
	PartySize              int             `gorm:"column:party_size;not null"`
	TimeFlexibilityMinutes int             `gorm:"column:time_flexibility_minutes;not null;default:0"`
	MaxRetries             int             `gorm:"column:max_retries;not null;default:0"`
	AllowEarliestFallback  bool            `gorm:"column:allow_earliest_fallback;not null;default:false"`
	IdentityID             *string         `gorm:"column:identity_id;type:uuid"`
	Active                 bool            `gorm:"column:active;not null;default:true"`
	ScheduleHandle         *string         `gorm:"column:schedule_handle"`
	ScheduledAt            *time.Time      `gorm:"column:scheduled_at;type:timestamptz"`
	CreatedAt              time.Time       `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt              time.Time       `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (Watch) TableName() string {
	return "acquisition_watches"
}

// ToRequest builds the acquisition request the watch describes
func (w *Watch) ToRequest() domain.AcquisitionRequest {
	return domain.AcquisitionRequest{
		ID:                     w.ID,
		Platform:               w.Platform,
		VenueRef:               w.VenueRef,
		PartySize:              w.PartySize,
		TargetTime:             w.TargetTime,
		TimeFlexibilityMinutes: w.TimeFlexibilityMinutes,
		MaxRetries:             w.MaxRetries,
		AllowEarliestFallback:  w.AllowEarliestFallback,
		IdentityID:             w.IdentityID,
	}
}
