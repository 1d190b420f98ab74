package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
)

// ClassifyHTTPError turns a failed platform call into a classified error.
// Already classified errors pass through unchanged.
func ClassifyHTTPError(p domain.Platform, op string, err error) error {
	if err == nil {
		return nil
	}

	var acqErr *domain.AcquisitionError
	if errors.As(err, &acqErr) {
		return acqErr
	}

	msg := fmt.Sprintf("failed to %s", op)

	var statusErr *adapter.HTTPStatusError
	if errors.As(err, &statusErr) {
		return domain.NewError(kindForStatus(statusErr.StatusCode), p, fmt.Sprintf("%s: status %d", msg, statusErr.StatusCode), err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewError(domain.ErrorKindTimeout, p, msg, err)
	case errors.Is(err, context.Canceled):
		return domain.NewError(domain.ErrorKindCanceled, p, msg, err)
	}

	return domain.NewError(domain.ErrorKindTransient, p, msg, err)
}

func kindForStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrorKindPermanent
	case status == http.StatusNotFound, status == http.StatusConflict, status == http.StatusGone:
		// No inventory, or the slot was taken between search and booking
		return domain.ErrorKindNoAvailability
	case status == http.StatusTooManyRequests, status == http.StatusRequestTimeout:
		return domain.ErrorKindTransient
	case status >= 500:
		return domain.ErrorKindTransient
	case status >= 400:
		return domain.ErrorKindPermanent
	}
	return domain.ErrorKindTransient
}

// CredentialsError reports a missing or undecodable credential blob
func CredentialsError(p domain.Platform, err error) error {
	return domain.NewError(domain.ErrorKindConfiguration, p, "invalid credentials", err)
}
