package opentable_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/config"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/mocks"
	"github.com/feral-file/ff-acquirer/internal/providers/platforms/opentable"
)

const (
	baseURL = "https://ot.test"
	creds   = `{"bearer_token":"bearer","diner_id":"diner-9","email":"diner@example.com","first_name":"Alex","last_name":"Diner"}`
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func testIdentity(blob string) *domain.Identity {
	return &domain.Identity{
		ID:          "identity-1",
		Active:      true,
		Credentials: domain.Credentials{domain.PlatformOpenTable: json.RawMessage(blob)},
	}
}

func TestClient_CheckReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := opentable.NewClient(mocks.NewMockHTTPClient(ctrl), nil, config.PlatformConfig{BaseURL: baseURL}, adapter.NewJSON())

	assert.True(t, client.CheckReady(testIdentity(creds)).Ready)

	status := client.CheckReady(testIdentity(`{"bearer_token":"bearer"}`))
	assert.False(t, status.Ready)
	assert.Equal(t, []string{"diner_id", "email"}, status.Missing)

	status = client.CheckReady(&domain.Identity{})
	assert.False(t, status.Ready)
	assert.Len(t, status.Missing, 3)
}

func TestClient_FindSlotsAndBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := opentable.NewClient(httpClient, nil, config.PlatformConfig{BaseURL: baseURL}, adapter.NewJSON())
	date := time.Date(2026, 11, 20, 19, 30, 0, 0, time.UTC)

	httpClient.EXPECT().
		PostBytes(gomock.Any(), baseURL+"/api/v3/restaurant/availability", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
			assert.Equal(t, "Bearer bearer", headers["Authorization"])
			var req opentable.AvailabilityRequest
			require.NoError(t, json.Unmarshal(body, &req))
			assert.Equal(t, "1234", req.RestaurantID)
			assert.Equal(t, "2026-11-20T19:30", req.DateTime)
			return []byte(`{"availability":{"slots":[
				{"dateTime":"2026-11-20T19:15","slotHash":"h1","isAvailable":true,"minPartySize":1,"maxPartySize":4},
				{"dateTime":"2026-11-20T19:30","slotHash":"h2","isAvailable":false},
				{"dateTime":"2026-11-20T20:00","slotHash":"h3","isAvailable":true}
			]}}`), nil
		})

	slots, err := client.FindSlots(context.Background(), testIdentity(creds), "1234", date, 2)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Time.Equal(time.Date(2026, 11, 20, 19, 15, 0, 0, time.UTC)))

	httpClient.EXPECT().
		PostBytes(gomock.Any(), baseURL+"/api/v1/reservation/1234", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
			var req opentable.ReservationRequest
			require.NoError(t, json.Unmarshal(body, &req))
			assert.Equal(t, "h1", req.SlotHash)
			assert.Equal(t, "diner-9", req.DinerID)
			assert.Equal(t, "Jordan", req.FirstName)
			assert.Equal(t, "Guest", req.LastName)
			assert.Equal(t, "diner@example.com", req.Email)
			assert.True(t, req.BookingForOther)
			return []byte(`{"confirmationNumber":"OT-77","reservationId":"r-1","dateTime":"2026-11-20T19:15"}`), nil
		})

	assert.True(t, client.SupportsGuestOverride())
	booking, err := client.Book(context.Background(), testIdentity(creds), slots[0], 2, &domain.Guest{FirstName: "Jordan", LastName: "Guest"})
	require.NoError(t, err)
	assert.Equal(t, "OT-77", booking.ConfirmationCode)
	assert.Equal(t, "r-1", booking.PlatformRef)
}

func TestClient_Book_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := opentable.NewClient(httpClient, nil, config.PlatformConfig{BaseURL: baseURL}, adapter.NewJSON())
	slot := domain.Slot{Token: "1234|h1", Time: time.Now()}

	_, err := client.Book(context.Background(), testIdentity(creds), domain.Slot{Token: "garbage"}, 2, nil)
	assert.ErrorIs(t, err, domain.ErrPermanent)

	httpClient.EXPECT().
		PostBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &adapter.HTTPStatusError{StatusCode: http.StatusServiceUnavailable})
	_, err = client.Book(context.Background(), testIdentity(creds), slot, 2, nil)
	assert.ErrorIs(t, err, domain.ErrTransient)

	httpClient.EXPECT().
		PostBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{}`), nil)
	_, err = client.Book(context.Background(), testIdentity(creds), slot, 2, nil)
	assert.ErrorIs(t, err, domain.ErrPermanent)
}
