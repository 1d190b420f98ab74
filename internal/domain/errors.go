package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies acquisition and workflow failures
type ErrorKind string

const (
	// ErrorKindConfiguration is a missing credential, unknown platform or invalid request
	ErrorKindConfiguration ErrorKind = "configuration"
	// ErrorKindNoIdentity means no identity has capacity for the platform
	ErrorKindNoIdentity ErrorKind = "no_identity"
	// ErrorKindNoAvailability means the platform has no acceptable slot
	ErrorKindNoAvailability ErrorKind = "no_availability"
	// ErrorKindTransient is a network error, rate limit or 5xx
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindPermanent is an auth failure or a rejected booking
	ErrorKindPermanent ErrorKind = "permanent"
	// ErrorKindInvalidTransition is a transfer state change not allowed from the current state
	ErrorKindInvalidTransition ErrorKind = "invalid_transition"
	// ErrorKindTimeout is a per-call deadline or an exhausted burst ceiling
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindCanceled means the execution was canceled before completing
	ErrorKindCanceled ErrorKind = "canceled"
)

// Retryable reports whether another attempt can succeed
func (k ErrorKind) Retryable() bool {
	return k == ErrorKindTransient || k == ErrorKindTimeout
}

// Fatal reports whether the whole request must stop, including drop-time bursts
func (k ErrorKind) Fatal() bool {
	return k == ErrorKindConfiguration || k == ErrorKindNoIdentity || k == ErrorKindPermanent
}

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrNoIdentity        = errors.New("no identity available")
	ErrNoAvailability    = errors.New("no availability")
	ErrTransient         = errors.New("transient failure")
	ErrPermanent         = errors.New("permanent failure")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrTimeout           = errors.New("timeout")
	ErrCanceled          = errors.New("canceled")
)

var kindSentinels = map[ErrorKind]error{
	ErrorKindConfiguration:     ErrConfiguration,
	ErrorKindNoIdentity:        ErrNoIdentity,
	ErrorKindNoAvailability:    ErrNoAvailability,
	ErrorKindTransient:         ErrTransient,
	ErrorKindPermanent:         ErrPermanent,
	ErrorKindInvalidTransition: ErrInvalidTransition,
	ErrorKindTimeout:           ErrTimeout,
	ErrorKindCanceled:          ErrCanceled,
}

// AcquisitionError is a classified failure.
// errors.Is matches it against the sentinel of its kind.
type AcquisitionError struct {
	Kind     ErrorKind
	Platform Platform
	Message  string
	Err      error
}

// NewError creates a classified error
func NewError(kind ErrorKind, platform Platform, message string, err error) *AcquisitionError {
	return &AcquisitionError{Kind: kind, Platform: platform, Message: message, Err: err}
}

func (e *AcquisitionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Platform != "" {
		msg = fmt.Sprintf("%s: %s", e.Platform, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

func (e *AcquisitionError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf classifies an arbitrary error.
// Unclassified errors are treated as transient.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var acqErr *AcquisitionError
	if errors.As(err, &acqErr) {
		return acqErr.Kind
	}

	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return ErrorKindCanceled
	}

	return ErrorKindTransient
}

// Classify wraps err into an AcquisitionError, keeping an existing classification
func Classify(err error, platform Platform) *AcquisitionError {
	if err == nil {
		return nil
	}
	var acqErr *AcquisitionError
	if errors.As(err, &acqErr) {
		return acqErr
	}
	kind := KindOf(err)
	return NewError(kind, platform, "", err)
}
