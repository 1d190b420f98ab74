package dto

import (
	"time"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/store/schema"
)

// TransferListResponse represents a page of transfers
type TransferListResponse struct {
	Transfers []*domain.Transfer `json:"transfers"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// PatternResponse represents a learned drop pattern with its readable drop time
type PatternResponse struct {
	*domain.DropPattern
	// DropTime is the local release time formatted as HH:MM
	DropTime string `json:"drop_time"`
}

// NewPatternResponse maps a drop pattern to its response
func NewPatternResponse(p *domain.DropPattern) *PatternResponse {
	return &PatternResponse{DropPattern: p, DropTime: p.DropTimeOfDay()}
}

// PatternListResponse represents drop patterns at or above a confidence
type PatternListResponse struct {
	Patterns []*PatternResponse `json:"patterns"`
}

// CancelScheduleResponse represents the response of a cancel request
type CancelScheduleResponse struct {
	ID       string `json:"id"`
	Canceled bool   `json:"canceled"`
}

// WatchResponse represents a watched reservation
type WatchResponse struct {
	ID                     string          `json:"id"`
	Platform               domain.Platform `json:"platform"`
	VenueRef               string          `json:"venue_ref"`
	PartySize              int             `json:"party_size"`
	TargetTime             time.Time       `json:"target_time"`
	TimeFlexibilityMinutes int             `json:"time_flexibility_minutes"`
	MaxRetries             int             `json:"max_retries"`
	AllowEarliestFallback  bool            `json:"allow_earliest_fallback"`
	IdentityID             *string         `json:"identity_id,omitempty"`
	Active                 bool            `json:"active"`
	ScheduleHandle         *string         `json:"schedule_handle,omitempty"`
	ScheduledAt            *time.Time      `json:"scheduled_at,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// MapWatchToDTO maps a watch row to its response
func MapWatchToDTO(w *schema.Watch) *WatchResponse {
	return &WatchResponse{
		ID:                     w.ID,
		Platform:               w.Platform,
		VenueRef:               w.VenueRef,
		PartySize:              w.PartySize,
		TargetTime:             w.TargetTime,
		TimeFlexibilityMinutes: w.TimeFlexibilityMinutes,
		MaxRetries:             w.MaxRetries,
		AllowEarliestFallback:  w.AllowEarliestFallback,
		IdentityID:             w.IdentityID,
		Active:                 w.Active,
		ScheduleHandle:         w.ScheduleHandle,
		ScheduledAt:            w.ScheduledAt,
		CreatedAt:              w.CreatedAt,
	}
}

// IdentityResetResponse represents the response of a manual usage reset
type IdentityResetResponse struct {
	Identities int64 `json:"identities"`
}

// HealthResponse represents the response of the health check
type HealthResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Time    time.Time `json:"time"`
}
