package opentable

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/config"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/platform"
	"github.com/feral-file/ff-acquirer/internal/ratelimit"
)

const (
	// DefaultBaseURL is OpenTable's mobile API
	DefaultBaseURL = "https://mobile-api.opentable.com"

	dateTimeLayout = "2006-01-02T15:04"
	// searchWindowMinutes is how far either side of the requested time availability is listed
	searchWindowMinutes = 150
)

// Credentials is the OpenTable view of an identity's credential blob
type Credentials struct {
	BearerToken string `json:"bearer_token"`
	DinerID     string `json:"diner_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// AvailabilityRequest is the body of the availability search
type AvailabilityRequest struct {
	RestaurantID    string `json:"rid"`
	DateTime        string `json:"dateTime"`
	PartySize       int    `json:"partySize"`
	ForwardMinutes  int    `json:"forwardMinutes"`
	BackwardMinutes int    `json:"backwardMinutes"`
}

// AvailabilityResponse lists the bookable times of a restaurant
type AvailabilityResponse struct {
	Availability struct {
		Slots []Slot `json:"slots"`
	} `json:"availability"`
}

// Slot is one bookable time
type Slot struct {
	DateTime     string `json:"dateTime"`
	SlotHash     string `json:"slotHash"`
	Available    bool   `json:"isAvailable"`
	MinPartySize int    `json:"minPartySize"`
	MaxPartySize int    `json:"maxPartySize"`
	SeatingType  string `json:"seatingType"`
}

// ReservationRequest is the body of a booking
type ReservationRequest struct {
	SlotHash  string `json:"slotHash"`
	DateTime  string `json:"dateTime"`
	PartySize int    `json:"partySize"`
	DinerID   string `json:"dinerId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber,omitempty"`
	// BookingForOther marks the reservation as held by the named guest
	BookingForOther bool `json:"isBookingForOther"`
}

// ReservationResponse is the confirmation of a booking
type ReservationResponse struct {
	ConfirmationNumber string `json:"confirmationNumber"`
	ReservationID      string `json:"reservationId"`
	DateTime           string `json:"dateTime"`
}

// Client books OpenTable reservations
type Client struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	baseURL    string
	json       adapter.JSON
}

// NewClient creates a new OpenTable adapter
func NewClient(httpClient adapter.HTTPClient, proxy ratelimit.Proxy, cfg config.PlatformConfig, json adapter.JSON) platform.Adapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		proxy:      proxy,
		baseURL:    baseURL,
		json:       json,
	}
}

func (c *Client) Platform() domain.Platform {
	return domain.PlatformOpenTable
}

// SupportsGuestOverride is true: OpenTable lets a diner book on behalf of someone else
func (c *Client) SupportsGuestOverride() bool {
	return true
}

func (c *Client) CheckReady(identity *domain.Identity) platform.ReadyStatus {
	var creds Credentials
	if identity == nil || identity.Credentials.Decode(domain.PlatformOpenTable, &creds) != nil {
		return platform.NotReady("bearer_token", "diner_id", "email")
	}
	return platform.MissingFields(
		platform.Field{Name: "bearer_token", Value: creds.BearerToken},
		platform.Field{Name: "diner_id", Value: creds.DinerID},
		platform.Field{Name: "email", Value: creds.Email},
	)
}

func (c *Client) FindSlots(ctx context.Context, identity *domain.Identity, venueRef string, date time.Time, partySize int) ([]domain.Slot, error) {
	creds, err := c.credentials(identity)
	if err != nil {
		return nil, err
	}

	reqBody, err := c.json.Marshal(AvailabilityRequest{
		RestaurantID:    venueRef,
		DateTime:        date.Format(dateTimeLayout),
		PartySize:       partySize,
		ForwardMinutes:  searchWindowMinutes,
		BackwardMinutes: searchWindowMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal availability request: %w", err)
	}

	raw, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformOpenTable), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, c.baseURL+"/api/v3/restaurant/availability", c.headers(creds), reqBody)
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformOpenTable, "find slots", err)
	}

	var resp AvailabilityResponse
	if err := c.json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformOpenTable, "failed to decode availability response", err)
	}

	slots := []domain.Slot{}
	for _, s := range resp.Availability.Slots {
		if !s.Available || s.SlotHash == "" {
			continue
		}
		at, err := time.ParseInLocation(dateTimeLayout, s.DateTime, date.Location())
		if err != nil {
			continue
		}
		slots = append(slots, domain.Slot{
			Token:    encodeToken(venueRef, s.SlotHash),
			Time:     at,
			MinParty: s.MinPartySize,
			MaxParty: s.MaxPartySize,
			Type:     s.SeatingType,
		})
	}

	return slots, nil
}

func (c *Client) Book(ctx context.Context, identity *domain.Identity, slot domain.Slot, partySize int, guest *domain.Guest) (*domain.Booking, error) {
	creds, err := c.credentials(identity)
	if err != nil {
		return nil, err
	}

	rid, slotHash, ok := decodeToken(slot.Token)
	if !ok {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformOpenTable, "malformed slot token", nil)
	}

	req := ReservationRequest{
		SlotHash:  slotHash,
		DateTime:  slot.Time.Format(dateTimeLayout),
		PartySize: partySize,
		DinerID:   creds.DinerID,
		FirstName: creds.FirstName,
		LastName:  creds.LastName,
		Email:     creds.Email,
		Phone:     creds.Phone,
	}
	if guest != nil {
		req.FirstName = guest.FirstName
		req.LastName = guest.LastName
		if guest.Email != "" {
			req.Email = guest.Email
		}
		if guest.Phone != "" {
			req.Phone = guest.Phone
		}
		req.BookingForOther = true
	}

	reqBody, err := c.json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reservation request: %w", err)
	}

	raw, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformOpenTable), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, c.baseURL+"/api/v1/reservation/"+url.PathEscape(rid), c.headers(creds), reqBody)
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformOpenTable, "book slot", err)
	}

	var resp ReservationResponse
	if err := c.json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformOpenTable, "failed to decode reservation response", err)
	}
	if resp.ConfirmationNumber == "" {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformOpenTable, "reservation returned no confirmation", nil)
	}

	booked := slot.Time
	if at, err := time.ParseInLocation(dateTimeLayout, resp.DateTime, slot.Time.Location()); err == nil {
		booked = at
	}

	return &domain.Booking{
		ConfirmationCode: resp.ConfirmationNumber,
		BookedTime:       booked,
		PlatformRef:      resp.ReservationID,
	}, nil
}

// Slot tokens carry the restaurant id since booking is addressed by restaurant
func encodeToken(rid, slotHash string) string {
	return rid + "|" + slotHash
}

func decodeToken(token string) (string, string, bool) {
	rid, slotHash, found := strings.Cut(token, "|")
	if !found || rid == "" || slotHash == "" {
		return "", "", false
	}
	return rid, slotHash, true
}

func (c *Client) credentials(identity *domain.Identity) (Credentials, error) {
	var creds Credentials
	if identity == nil {
		return creds, platform.CredentialsError(domain.PlatformOpenTable, fmt.Errorf("no identity"))
	}
	if err := identity.Credentials.Decode(domain.PlatformOpenTable, &creds); err != nil {
		return creds, platform.CredentialsError(domain.PlatformOpenTable, err)
	}
	if status := c.CheckReady(identity); !status.Ready {
		return creds, platform.CredentialsError(domain.PlatformOpenTable, fmt.Errorf("missing %s", strings.Join(status.Missing, ", ")))
	}
	return creds, nil
}

func (c *Client) headers(creds Credentials) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + creds.BearerToken,
		"Accept":        "application/json",
	}
}
