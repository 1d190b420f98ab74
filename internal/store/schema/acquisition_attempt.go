package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// AcquisitionAttempt represents the append-only acquisition_attempts table
type AcquisitionAttempt struct {
	ID               uint64                 `gorm:"column:id;primaryKey;autoIncrement"`
	RequestID        string                 `gorm:"column:request_id;not null"`
	VenueRef         string                 `gorm:"column:venue_ref;not null"`
	Platform         domain.Platform        `gorm:"column:platform;not null;type:text"`
	IdentityID       *string                `gorm:"column:identity_id;type:uuid"`
	Mode             domain.AcquisitionMode `gorm:"column:mode;not null;type:text"`
	TargetTime       time.Time              `gorm:"column:target_time;not null;type:timestamptz"`
	AttemptedAt      time.Time              `gorm:"column:attempted_at;not null;type:timestamptz"`
	Success          bool                   `gorm:"column:success;not null"`
	ConfirmationCode *string                `gorm:"column:confirmation_code"`
	BookedTime       *time.Time             `gorm:"column:booked_time;type:timestamptz"`
	ErrorKind        *string                `gorm:"column:error_kind"`
	ErrorMessage     *string                `gorm:"column:error_message"`
	DurationMs       int64                  `gorm:"column:duration_ms;not null"`
	Attempts         int                    `gorm:"column:attempts;not null"`
	// Raw is the full serialized result
	Raw       datatypes.JSON `gorm:"column:raw;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

func (AcquisitionAttempt) TableName() string {
	return "acquisition_attempts"
}
