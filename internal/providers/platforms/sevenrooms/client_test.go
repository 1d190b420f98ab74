package sevenrooms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
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
	"github.com/feral-file/ff-acquirer/internal/providers/platforms/sevenrooms"
)

const (
	baseURL = "https://sr.test"
	creds   = `{"client_id":"c-1","email":"ops@example.com","phone":"+15550100","first_name":"Ops","last_name":"Desk"}`
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
		Credentials: domain.Credentials{domain.PlatformSevenRooms: json.RawMessage(blob)},
	}
}

func TestClient_FindSlotsAndBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := sevenrooms.NewClient(httpClient, nil, config.PlatformConfig{BaseURL: baseURL}, adapter.NewJSON())
	date := time.Date(2026, 11, 20, 19, 30, 0, 0, time.UTC)

	httpClient.EXPECT().
		GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
			u, err := url.Parse(rawURL)
			require.NoError(t, err)
			assert.Equal(t, "/api-yoa/availability/widget/range", u.Path)
			assert.Equal(t, "thenomad", u.Query().Get("venue"))
			assert.Equal(t, "11-20-2026", u.Query().Get("start_date"))
			assert.Equal(t, "19:30", u.Query().Get("time_slot"))
			return []byte(`{"data":{"availability":{"2026-11-20":[{"name":"Dinner","times":[
				{"time_iso":"2026-11-20 19:00:00","access_persistent_id":"a1","shift_persistent_id":"s1","type":"book"},
				{"time_iso":"2026-11-20 19:30:00","access_persistent_id":"a2","shift_persistent_id":"s1","type":"request"},
				{"time_iso":"2026-11-20 20:00:00","access_persistent_id":"a3","shift_persistent_id":"s1","type":"book"}
			]}]}}}`), nil
		})

	slots, err := client.FindSlots(context.Background(), testIdentity(creds), "thenomad", date, 2)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Dinner", slots[0].Type)

	httpClient.EXPECT().
		PostBytes(gomock.Any(), baseURL+"/api-yoa/widget/reservation", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
			var req sevenrooms.ReservationRequest
			require.NoError(t, json.Unmarshal(body, &req))
			assert.Equal(t, "thenomad", req.Venue)
			assert.Equal(t, "a3", req.AccessPersistentID)
			assert.Equal(t, "s1", req.ShiftPersistentID)
			assert.Equal(t, "20:00", req.Time)
			assert.Equal(t, "Ops", req.FirstName)
			assert.Equal(t, "c-1", req.ClientID)
			return []byte(`{"data":{"reservation_id":"res-5","confirmation_number":"SR-5"}}`), nil
		})

	booking, err := client.Book(context.Background(), testIdentity(creds), slots[1], 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "SR-5", booking.ConfirmationCode)
	assert.Equal(t, "res-5", booking.PlatformRef)
}

func TestClient_FindSlots_OtherDayIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := sevenrooms.NewClient(httpClient, nil, config.PlatformConfig{BaseURL: baseURL}, adapter.NewJSON())

	httpClient.EXPECT().
		GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"data":{"availability":{"2026-11-21":[{"name":"Dinner","times":[{"time_iso":"2026-11-21 19:00:00","access_persistent_id":"a1","type":"book"}]}]}}}`), nil)

	slots, err := client.FindSlots(context.Background(), testIdentity(creds), "thenomad", time.Date(2026, 11, 20, 19, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestClient_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := sevenrooms.NewClient(httpClient, nil, config.PlatformConfig{BaseURL: baseURL}, adapter.NewJSON())

	status := client.CheckReady(testIdentity(`{"client_id":"c-1"}`))
	assert.Equal(t, []string{"email", "phone"}, status.Missing)

	_, err := client.FindSlots(context.Background(), testIdentity(`{"client_id":"c-1"}`), "thenomad", time.Now(), 2)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	httpClient.EXPECT().
		PostBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &adapter.HTTPStatusError{StatusCode: http.StatusGone})
	_, err = client.Book(context.Background(), testIdentity(creds), domain.Slot{Token: "thenomad|s1|a1", Time: time.Now()}, 2, nil)
	assert.ErrorIs(t, err, domain.ErrNoAvailability)
}
