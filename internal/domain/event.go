package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// AcquisitionEventType is the type of a result notification
type AcquisitionEventType string

const (
	AcquisitionEventSucceeded AcquisitionEventType = "acquisition.succeeded"
	AcquisitionEventFailed    AcquisitionEventType = "acquisition.failed"
)

// AcquisitionEvent is the notification published after an acquisition finishes
type AcquisitionEvent struct {
	EventID    string               `json:"event_id"`
	Type       AcquisitionEventType `json:"type"`
	Platform   Platform             `json:"platform"`
	VenueRef   string               `json:"venue_ref"`
	PartySize  int                  `json:"party_size"`
	TargetTime time.Time            `json:"target_time"`
	Result     AcquisitionResult    `json:"result"`
	Timestamp  time.Time            `json:"timestamp"`
}

// NewAcquisitionEvent builds the notification for a finished acquisition
func NewAcquisitionEvent(req AcquisitionRequest, result AcquisitionResult, at time.Time) *AcquisitionEvent {
	eventType := AcquisitionEventFailed
	if result.Success {
		eventType = AcquisitionEventSucceeded
	}
	return &AcquisitionEvent{
		EventID:    ulid.Make().String(),
		Type:       eventType,
		Platform:   req.Platform,
		VenueRef:   req.VenueRef,
		PartySize:  req.PartySize,
		TargetTime: req.TargetTime,
		Result:     result,
		Timestamp:  at,
	}
}

// Outcome returns "succeeded" or "failed"
func (e *AcquisitionEvent) Outcome() string {
	if e.Result.Success {
		return "succeeded"
	}
	return "failed"
}
