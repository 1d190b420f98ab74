package platform_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/platform"
)

func TestClassifyHTTPError(t *testing.T) {
	status := func(code int) error {
		return fmt.Errorf("request failed: %w", &adapter.HTTPStatusError{Method: http.MethodPost, URL: "https://api.example/book", StatusCode: code})
	}

	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"unauthorized", status(http.StatusUnauthorized), domain.ErrorKindPermanent},
		{"forbidden", status(http.StatusForbidden), domain.ErrorKindPermanent},
		{"unprocessable", status(http.StatusUnprocessableEntity), domain.ErrorKindPermanent},
		{"bad request", status(http.StatusBadRequest), domain.ErrorKindPermanent},
		{"not found", status(http.StatusNotFound), domain.ErrorKindNoAvailability},
		{"slot taken", status(http.StatusConflict), domain.ErrorKindNoAvailability},
		{"gone", status(http.StatusGone), domain.ErrorKindNoAvailability},
		{"rate limited", status(http.StatusTooManyRequests), domain.ErrorKindTransient},
		{"server error", status(http.StatusBadGateway), domain.ErrorKindTransient},
		{"deadline", fmt.Errorf("failed to perform request: %w", context.DeadlineExceeded), domain.ErrorKindTimeout},
		{"canceled", context.Canceled, domain.ErrorKindCanceled},
		{"network", errors.New("connection reset by peer"), domain.ErrorKindTransient},
		{
			"already classified",
			domain.NewError(domain.ErrorKindConfiguration, domain.PlatformTock, "missing token", nil),
			domain.ErrorKindConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := platform.ClassifyHTTPError(domain.PlatformResy, "book slot", tt.err)
			assert.Equal(t, tt.want, domain.KindOf(err))
		})
	}

	assert.NoError(t, platform.ClassifyHTTPError(domain.PlatformResy, "book slot", nil))
}

func TestClassifyHTTPError_KeepsCause(t *testing.T) {
	cause := &adapter.HTTPStatusError{StatusCode: http.StatusUnauthorized}
	err := platform.ClassifyHTTPError(domain.PlatformOpenTable, "find slots", cause)

	assert.ErrorIs(t, err, domain.ErrPermanent)

	var statusErr *adapter.HTTPStatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Contains(t, err.Error(), "opentable: failed to find slots: status 401")
}

func TestMissingFields(t *testing.T) {
	status := platform.MissingFields(
		platform.Field{Name: "api_key", Value: "k"},
		platform.Field{Name: "auth_token", Value: ""},
		platform.Field{Name: "payment_method_id", Value: ""},
	)
	assert.False(t, status.Ready)
	assert.Equal(t, []string{"auth_token", "payment_method_id"}, status.Missing)

	status = platform.MissingFields(platform.Field{Name: "api_key", Value: "k"})
	assert.True(t, status.Ready)
	assert.Empty(t, status.Missing)
}
