package schema

import (
	"time"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// DropPattern represents the drop_patterns table
type DropPattern struct {
	VenueRef               string          `gorm:"column:venue_ref;primaryKey;type:text"`
	Platform               domain.Platform `gorm:"column:platform;primaryKey;type:text"`
	DaysInAdvance          int             `gorm:"column:days_in_advance;not null"`
	DropMinuteOfDay        int             `gorm:"column:drop_minute_of_day;not null"`
	DayOfWeek              int             `gorm:"column:day_of_week;not null"`
	Confidence             int             `gorm:"column:confidence;not null"`
	SuccessfulAcquisitions int             `gorm:"column:successful_acquisitions;not null;default:0"`
	TotalAttempts          int             `gorm:"column:total_attempts;not null;default:0"`
	LastConfirmedAt        *time.Time      `gorm:"column:last_confirmed_at;type:timestamptz"`
	CreatedAt              time.Time       `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt              time.Time       `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (DropPattern) TableName() string {
	return "drop_patterns"
}

// ToDomain converts the row into a domain pattern
func (p *DropPattern) ToDomain() *domain.DropPattern {
	return &domain.DropPattern{
		VenueRef:               p.VenueRef,
		Platform:               p.Platform,
		DaysInAdvance:          p.DaysInAdvance,
		DropMinuteOfDay:        p.DropMinuteOfDay,
		DayOfWeek:              time.Weekday(p.DayOfWeek),
		Confidence:             p.Confidence,
		SuccessfulAcquisitions: p.SuccessfulAcquisitions,
		TotalAttempts:          p.TotalAttempts,
		LastConfirmedAt:        p.LastConfirmedAt,
	}
}

// DropPatternFromDomain converts a domain pattern into a row
func DropPatternFromDomain(p *domain.DropPattern) *DropPattern {
	return &DropPattern{
		VenueRef:               p.VenueRef,
		Platform:               p.Platform,
		DaysInAdvance:          p.DaysInAdvance,
		DropMinuteOfDay:        p.DropMinuteOfDay,
		DayOfWeek:              int(p.DayOfWeek),
		Confidence:             p.Confidence,
		SuccessfulAcquisitions: p.SuccessfulAcquisitions,
		TotalAttempts:          p.TotalAttempts,
		LastConfirmedAt:        p.LastConfirmedAt,
	}
}
