package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Platform
		wantErr  bool
	}{
		{name: "resy", input: "resy", expected: PlatformResy},
		{name: "mixed case with spaces", input: " OpenTable ", expected: PlatformOpenTable},
		{name: "sevenrooms", input: "sevenrooms", expected: PlatformSevenRooms},
		{name: "tock", input: "TOCK", expected: PlatformTock},
		{name: "unknown", input: "yelp", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSlotAccommodates(t *testing.T) {
	slot := Slot{MinParty: 2, MaxParty: 4}
	assert.False(t, slot.Accommodates(1))
	assert.True(t, slot.Accommodates(2))
	assert.True(t, slot.Accommodates(4))
	assert.False(t, slot.Accommodates(5))
	assert.True(t, Slot{}.Accommodates(12))
}

func TestAcquisitionRequestValidate(t *testing.T) {
	valid := AcquisitionRequest{
		Platform:   PlatformResy,
		VenueRef:   "venue-1",
		PartySize:  2,
		TargetTime: time.Date(2026, 11, 20, 19, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(r *AcquisitionRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *AcquisitionRequest) {}},
		{name: "unknown platform", mutate: func(r *AcquisitionRequest) { r.Platform = "yelp" }, wantErr: true},
		{name: "missing venue", mutate: func(r *AcquisitionRequest) { r.VenueRef = " " }, wantErr: true},
		{name: "zero party", mutate: func(r *AcquisitionRequest) { r.PartySize = 0 }, wantErr: true},
		{name: "missing target", mutate: func(r *AcquisitionRequest) { r.TargetTime = time.Time{} }, wantErr: true},
		{name: "negative flexibility", mutate: func(r *AcquisitionRequest) { r.TimeFlexibilityMinutes = -5 }, wantErr: true},
		{name: "negative retries", mutate: func(r *AcquisitionRequest) { r.MaxRetries = -1 }, wantErr: true},
		{name: "nameless guest", mutate: func(r *AcquisitionRequest) { r.Guest = &Guest{Email: "a@b.c"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEffectiveMaxRetries(t *testing.T) {
	assert.Equal(t, 3, AcquisitionRequest{}.EffectiveMaxRetries())
	assert.Equal(t, 7, AcquisitionRequest{MaxRetries: 7}.EffectiveMaxRetries())
}

func TestDropTimeConfigWithDefaults(t *testing.T) {
	cfg := DropTimeConfig{BurstWindow: 5 * time.Minute}.WithDefaults()
	assert.Equal(t, MAX_BURST_WINDOW, cfg.BurstWindow)
	assert.Equal(t, DEFAULT_BURST_INTERVAL, cfg.BurstInterval)
	assert.Equal(t, DEFAULT_PRE_WARM_LEAD, cfg.PreWarmLead)

	cfg = DropTimeConfig{BurstWindow: 10 * time.Second, BurstInterval: time.Second}.WithDefaults()
	assert.Equal(t, 10*time.Second, cfg.BurstWindow)
	assert.Equal(t, time.Second, cfg.BurstInterval)
}

func TestIdentityEligibility(t *testing.T) {
	identity := &Identity{
		Active: true,
		Credentials: Credentials{
			PlatformResy: json.RawMessage(`{"api_key":"k"}`),
			PlatformTock: json.RawMessage(`null`),
		},
		Usage: map[Platform]PlatformUsage{
			PlatformResy: {Bookings: 5, MonthlyLimit: 6},
		},
	}

	assert.True(t, identity.EligibleFor(PlatformResy))
	assert.False(t, identity.EligibleFor(PlatformTock), "null blob is not a credential")
	assert.False(t, identity.EligibleFor(PlatformOpenTable))

	identity.Usage[PlatformResy] = PlatformUsage{Bookings: 6, MonthlyLimit: 6}
	assert.False(t, identity.EligibleFor(PlatformResy))

	assert.Equal(t, DEFAULT_MONTHLY_LIMIT, identity.UsageFor(PlatformSevenRooms).MonthlyLimit)

	identity.Usage[PlatformResy] = PlatformUsage{Bookings: 0, MonthlyLimit: 6}
	identity.Active = false
	assert.False(t, identity.EligibleFor(PlatformResy))
}

func TestCredentialsDecode(t *testing.T) {
	creds := Credentials{PlatformResy: json.RawMessage(`{"api_key":"abc"}`)}

	var view struct {
		APIKey string `json:"api_key"`
	}
	require.NoError(t, creds.Decode(PlatformResy, &view))
	assert.Equal(t, "abc", view.APIKey)

	assert.Error(t, creds.Decode(PlatformTock, &view))
}
