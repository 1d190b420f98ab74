package sevenrooms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/config"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/platform"
	"github.com/feral-file/ff-acquirer/internal/ratelimit"
)

const (
	// DefaultBaseURL is the SevenRooms booking widget API
	DefaultBaseURL = "https://www.sevenrooms.com"

	timeLayout     = "2006-01-02 15:04:05"
	dayKeyLayout   = "2006-01-02"
	startDayLayout = "01-02-2006"
	bookableType   = "book"
	// haloMinutes is how far either side of the requested time the widget searches
	haloMinutes = 120
)

// Credentials is the SevenRooms view of an identity's credential blob.
// The widget books as a guest, so the blob is contact details plus the client id.
type Credentials struct {
	ClientID  string `json:"client_id"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// RangeResponse is the body of the widget availability range call
type RangeResponse struct {
	Data struct {
		// Availability is keyed by YYYY-MM-DD
		Availability map[string][]Shift `json:"availability"`
	} `json:"data"`
}

// Shift groups the times of one service period
type Shift struct {
	Name  string `json:"name"`
	Times []Time `json:"times"`
}

// Time is one entry of a shift
type Time struct {
	TimeISO            string `json:"time_iso"`
	AccessPersistentID string `json:"access_persistent_id"`
	ShiftPersistentID  string `json:"shift_persistent_id"`
	Type               string `json:"type"`
	PublicTimeSlotDesc string `json:"public_time_slot_description"`
}

// ReservationRequest is the body of a widget booking
type ReservationRequest struct {
	Venue              string `json:"venue"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	PartySize          int    `json:"party_size"`
	AccessPersistentID string `json:"access_persistent_id"`
	ShiftPersistentID  string `json:"shift_persistent_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phone_number"`
	ClientID           string `json:"client_id"`
}

// ReservationResponse is the confirmation of a widget booking
type ReservationResponse struct {
	Data struct {
		ReservationID      string `json:"reservation_id"`
		ConfirmationNumber string `json:"confirmation_number"`
	} `json:"data"`
}

// Client books SevenRooms reservations
type Client struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	baseURL    string
	json       adapter.JSON
}

// NewClient creates a new SevenRooms adapter
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
	return domain.PlatformSevenRooms
}

// SupportsGuestOverride is true: the widget accepts any guest's contact details
func (c *Client) SupportsGuestOverride() bool {
	return true
}

func (c *Client) CheckReady(identity *domain.Identity) platform.ReadyStatus {
	var creds Credentials
	if identity == nil || identity.Credentials.Decode(domain.PlatformSevenRooms, &creds) != nil {
		return platform.NotReady("client_id", "email", "phone")
	}
	return platform.MissingFields(
		platform.Field{Name: "client_id", Value: creds.ClientID},
		platform.Field{Name: "email", Value: creds.Email},
		platform.Field{Name: "phone", Value: creds.Phone},
	)
}

func (c *Client) FindSlots(ctx context.Context, identity *domain.Identity, venueRef string, date time.Time, partySize int) ([]domain.Slot, error) {
	if _, err := c.credentials(identity); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("venue", venueRef)
	query.Set("time_slot", date.Format("15:04"))
	query.Set("party_size", strconv.Itoa(partySize))
	query.Set("halo_size_interval", strconv.Itoa(haloMinutes/15))
	query.Set("start_date", date.Format(startDayLayout))
	query.Set("num_days", "1")
	query.Set("channel", "SEVENROOMS_WIDGET")

	raw, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformSevenRooms), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, c.baseURL+"/api-yoa/availability/widget/range?"+query.Encode(), c.headers())
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformSevenRooms, "find slots", err)
	}

	var resp RangeResponse
	if err := c.json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformSevenRooms, "failed to decode availability response", err)
	}

	slots := []domain.Slot{}
	for _, shift := range resp.Data.Availability[date.Format(dayKeyLayout)] {
		for _, t := range shift.Times {
			// Request-only and waitlist entries cannot be booked instantly
			if t.Type != bookableType || t.AccessPersistentID == "" {
				continue
			}
			at, err := time.ParseInLocation(timeLayout, t.TimeISO, date.Location())
			if err != nil {
				continue
			}
			slots = append(slots, domain.Slot{
				Token: encodeToken(venueRef, t.ShiftPersistentID, t.AccessPersistentID),
				Time:  at,
				Type:  shift.Name,
			})
		}
	}

	return slots, nil
}

func (c *Client) Book(ctx context.Context, identity *domain.Identity, slot domain.Slot, partySize int, guest *domain.Guest) (*domain.Booking, error) {
	creds, err := c.credentials(identity)
	if err != nil {
		return nil, err
	}

	venue, shiftID, accessID, ok := decodeToken(slot.Token)
	if !ok {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformSevenRooms, "malformed slot token", nil)
	}

	req := ReservationRequest{
		Venue:              venue,
		Date:               slot.Time.Format(dayKeyLayout),
		Time:               slot.Time.Format("15:04"),
		PartySize:          partySize,
		AccessPersistentID: accessID,
		ShiftPersistentID:  shiftID,
		FirstName:          creds.FirstName,
		LastName:           creds.LastName,
		Email:              creds.Email,
		PhoneNumber:        creds.Phone,
		ClientID:           creds.ClientID,
	}
	if guest != nil {
		req.FirstName = guest.FirstName
		req.LastName = guest.LastName
		if guest.Email != "" {
			req.Email = guest.Email
		}
		if guest.Phone != "" {
			req.PhoneNumber = guest.Phone
		}
	}

	reqBody, err := c.json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reservation request: %w", err)
	}

	raw, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformSevenRooms), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, c.baseURL+"/api-yoa/widget/reservation", c.headers(), reqBody)
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformSevenRooms, "book slot", err)
	}

	var resp ReservationResponse
	if err := c.json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformSevenRooms, "failed to decode reservation response", err)
	}
	if resp.Data.ConfirmationNumber == "" {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformSevenRooms, "reservation returned no confirmation", nil)
	}

	return &domain.Booking{
		ConfirmationCode: resp.Data.ConfirmationNumber,
		BookedTime:       slot.Time,
		PlatformRef:      resp.Data.ReservationID,
	}, nil
}

func encodeToken(venue, shiftID, accessID string) string {
	return strings.Join([]string{venue, shiftID, accessID}, "|")
}

func decodeToken(token string) (string, string, string, bool) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func (c *Client) credentials(identity *domain.Identity) (Credentials, error) {
	var creds Credentials
	if identity == nil {
		return creds, platform.CredentialsError(domain.PlatformSevenRooms, fmt.Errorf("no identity"))
	}
	if err := identity.Credentials.Decode(domain.PlatformSevenRooms, &creds); err != nil {
		return creds, platform.CredentialsError(domain.PlatformSevenRooms, err)
	}
	if status := c.CheckReady(identity); !status.Ready {
		return creds, platform.CredentialsError(domain.PlatformSevenRooms, fmt.Errorf("missing %s", strings.Join(status.Missing, ", ")))
	}
	return creds, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Accept": "application/json",
	}
}
