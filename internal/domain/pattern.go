package domain

import (
	"fmt"
	"time"
)

// DropPattern is the learned release schedule of a venue on a platform
type DropPattern struct {
	VenueRef      string   `json:"venue_ref"`
	Platform      Platform `json:"platform"`
	DaysInAdvance int      `json:"days_in_advance"`
	// DropMinuteOfDay is minutes after local midnight at which inventory appears
	DropMinuteOfDay        int          `json:"drop_minute_of_day"`
	DayOfWeek              time.Weekday `json:"day_of_week"`
	Confidence             int          `json:"confidence"`
	SuccessfulAcquisitions int          `json:"successful_acquisitions"`
	TotalAttempts          int          `json:"total_attempts"`
	LastConfirmedAt        *time.Time   `json:"last_confirmed_at,omitempty"`
}

// NewDropPattern creates a pattern from a first successful acquisition
func NewDropPattern(venueRef string, platform Platform, targetTime, attemptTime time.Time) *DropPattern {
	confirmed := attemptTime
	p := &DropPattern{
		VenueRef:               venueRef,
		Platform:               platform,
		Confidence:             PATTERN_INITIAL_CONFIDENCE,
		SuccessfulAcquisitions: 1,
		TotalAttempts:          1,
		LastConfirmedAt:        &confirmed,
	}
	p.observe(targetTime, attemptTime)
	return p
}

// ApplySuccess folds a successful acquisition into the pattern.
// Timing fields are only overwritten until the pattern has PATTERN_LOCK_THRESHOLD successes.
func (p *DropPattern) ApplySuccess(targetTime, attemptTime time.Time) {
	if p.SuccessfulAcquisitions < PATTERN_LOCK_THRESHOLD {
		p.observe(targetTime, attemptTime)
	}
	p.SuccessfulAcquisitions++
	p.TotalAttempts++
	p.Confidence = clampConfidence(p.Confidence + PATTERN_SUCCESS_BONUS)
	confirmed := attemptTime
	p.LastConfirmedAt = &confirmed
}

// ApplyFailure folds a failed acquisition into the pattern
func (p *DropPattern) ApplyFailure() {
	p.TotalAttempts++
	p.Confidence = clampConfidence(p.Confidence - PATTERN_FAILURE_PENALTY)
}

func (p *DropPattern) observe(targetTime, attemptTime time.Time) {
	p.DaysInAdvance = DaysInAdvance(targetTime, attemptTime)
	p.DropMinuteOfDay = attemptTime.Hour()*60 + attemptTime.Minute()
	p.DayOfWeek = attemptTime.Weekday()
}

// DropTimeOfDay returns the drop time formatted as HH:MM
func (p *DropPattern) DropTimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", p.DropMinuteOfDay/60, p.DropMinuteOfDay%60)
}

// NextDropAt predicts when inventory for targetTime is released, in targetTime's location
func (p *DropPattern) NextDropAt(targetTime time.Time) time.Time {
	day := time.Date(targetTime.Year(), targetTime.Month(), targetTime.Day(), 0, 0, 0, 0, targetTime.Location())
	day = day.AddDate(0, 0, -p.DaysInAdvance)
	return day.Add(time.Duration(p.DropMinuteOfDay) * time.Minute)
}

// DaysInAdvance counts calendar days from the attempt to the target, in the attempt's location
func DaysInAdvance(targetTime, attemptTime time.Time) int {
	target := targetTime.In(attemptTime.Location())
	from := time.Date(attemptTime.Year(), attemptTime.Month(), attemptTime.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func clampConfidence(c int) int {
	return min(max(c, PATTERN_MIN_CONFIDENCE), PATTERN_MAX_CONFIDENCE)
}
