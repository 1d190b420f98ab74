package tock

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
	// DefaultBaseURL is Tock's consumer API
	DefaultBaseURL = "https://www.exploretock.com"

	dateTimeLayout = "2006-01-02T15:04:05"
)

// Credentials is the Tock view of an identity's credential blob
type Credentials struct {
	SessionToken string `json:"session_token"`
	PatronID     string `json:"patron_id"`
}

// AvailabilityResponse lists the ticketed offerings of a business on a day
type AvailabilityResponse struct {
	Offerings []Offering `json:"offerings"`
}

// Offering is one ticket type at one time
type Offering struct {
	TicketTypeID     int64  `json:"ticketTypeId"`
	Name             string `json:"name"`
	DateTime         string `json:"dateTime"`
	MinPartySize     int    `json:"minPartySize"`
	MaxPartySize     int    `json:"maxPartySize"`
	AvailableTickets int    `json:"availableTickets"`
}

// CheckoutRequest holds and purchases tickets for a patron
type CheckoutRequest struct {
	Business     string `json:"business"`
	TicketTypeID int64  `json:"ticketTypeId"`
	DateTime     string `json:"dateTime"`
	PartySize    int    `json:"partySize"`
	PatronID     string `json:"patronId"`
}

// CheckoutResponse is the confirmation of a purchase
type CheckoutResponse struct {
	ConfirmationCode string `json:"confirmationCode"`
	PurchaseID       int64  `json:"purchaseId"`
}

// Client books Tock reservations
type Client struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	baseURL    string
	json       adapter.JSON
}

// NewClient creates a new Tock adapter
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
	return domain.PlatformTock
}

// SupportsGuestOverride is false: prepaid tickets belong to the purchasing patron
func (c *Client) SupportsGuestOverride() bool {
	return false
}

func (c *Client) CheckReady(identity *domain.Identity) platform.ReadyStatus {
	var creds Credentials
	if identity == nil || identity.Credentials.Decode(domain.PlatformTock, &creds) != nil {
		return platform.NotReady("session_token", "patron_id")
	}
	return platform.MissingFields(
		platform.Field{Name: "session_token", Value: creds.SessionToken},
		platform.Field{Name: "patron_id", Value: creds.PatronID},
	)
}

func (c *Client) FindSlots(ctx context.Context, identity *domain.Identity, venueRef string, date time.Time, partySize int) ([]domain.Slot, error) {
	creds, err := c.credentials(identity)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("date", date.Format("2006-01-02"))
	query.Set("size", strconv.Itoa(partySize))

	endpoint := fmt.Sprintf("%s/api/v2/business/%s/availability?%s", c.baseURL, url.PathEscape(venueRef), query.Encode())
	raw, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformTock), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, endpoint, c.headers(creds))
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformTock, "find slots", err)
	}

	var resp AvailabilityResponse
	if err := c.json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformTock, "failed to decode availability response", err)
	}

	slots := []domain.Slot{}
	for _, o := range resp.Offerings {
		if o.AvailableTickets <= 0 {
			continue
		}
		at, err := time.ParseInLocation(dateTimeLayout, o.DateTime, date.Location())
		if err != nil {
			continue
		}
		slots = append(slots, domain.Slot{
			Token:    venueRef + "|" + strconv.FormatInt(o.TicketTypeID, 10),
			Time:     at,
			MinParty: o.MinPartySize,
			MaxParty: o.MaxPartySize,
			Type:     o.Name,
		})
	}

	return slots, nil
}

func (c *Client) Book(ctx context.Context, identity *domain.Identity, slot domain.Slot, partySize int, guest *domain.Guest) (*domain.Booking, error) {
	if guest != nil {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformTock, "guest override is not supported", nil)
	}

	creds, err := c.credentials(identity)
	if err != nil {
		return nil, err
	}

	business, ticket, found := strings.Cut(slot.Token, "|")
	ticketTypeID, parseErr := strconv.ParseInt(ticket, 10, 64)
	if !found || business == "" || parseErr != nil {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformTock, "malformed slot token", parseErr)
	}

	reqBody, err := c.json.Marshal(CheckoutRequest{
		Business:     business,
		TicketTypeID: ticketTypeID,
		DateTime:     slot.Time.Format(dateTimeLayout),
		PartySize:    partySize,
		PatronID:     creds.PatronID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	raw, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformTock), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, c.baseURL+"/api/v2/checkout", c.headers(creds), reqBody)
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformTock, "book slot", err)
	}

	var resp CheckoutResponse
	if err := c.json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformTock, "failed to decode checkout response", err)
	}
	if resp.ConfirmationCode == "" {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformTock, "checkout returned no confirmation", nil)
	}

	return &domain.Booking{
		ConfirmationCode: resp.ConfirmationCode,
		BookedTime:       slot.Time,
		PlatformRef:      strconv.FormatInt(resp.PurchaseID, 10),
	}, nil
}

func (c *Client) credentials(identity *domain.Identity) (Credentials, error) {
	var creds Credentials
	if identity == nil {
		return creds, platform.CredentialsError(domain.PlatformTock, fmt.Errorf("no identity"))
	}
	if err := identity.Credentials.Decode(domain.PlatformTock, &creds); err != nil {
		return creds, platform.CredentialsError(domain.PlatformTock, err)
	}
	if status := c.CheckReady(identity); !status.Ready {
		return creds, platform.CredentialsError(domain.PlatformTock, fmt.Errorf("missing %s", strings.Join(status.Missing, ", ")))
	}
	return creds, nil
}

func (c *Client) headers(creds Credentials) map[string]string {
	return map[string]string{
		"Cookie": "tock_session=" + creds.SessionToken,
		"Accept": "application/json",
	}
}
