package resy

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
	// DefaultBaseURL is Resy's public API
	DefaultBaseURL = "https://api.resy.com"

	slotTimeLayout = "2006-01-02 15:04:05"
	dayLayout      = "2006-01-02"
)

// Credentials is the Resy view of an identity's credential blob
type Credentials struct {
	// APIKey overrides the application key from configuration
	APIKey          string `json:"api_key,omitempty"`
	AuthToken       string `json:"auth_token"`
	PaymentMethodID int64  `json:"payment_method_id"`
}

// FindResponse is the body of GET /4/find
type FindResponse struct {
	Results struct {
		Venues []struct {
			Venue struct {
				ID struct {
					Resy int64 `json:"resy"`
				} `json:"id"`
				Name string `json:"name"`
			} `json:"venue"`
			Slots []Slot `json:"slots"`
		} `json:"venues"`
	} `json:"results"`
}

// Slot is one availability entry in a find response
type Slot struct {
	Config struct {
		Token string `json:"token"`
		Type  string `json:"type"`
	} `json:"config"`
	Date struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"date"`
	Size struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"size"`
}

// DetailsRequest is the body of POST /3/details
type DetailsRequest struct {
	ConfigID  string `json:"config_id"`
	Day       string `json:"day"`
	PartySize int    `json:"party_size"`
}

// DetailsResponse carries the short-lived token required to book
type DetailsResponse struct {
	BookToken struct {
		Value       string `json:"value"`
		DateExpires string `json:"date_expires"`
	} `json:"book_token"`
}

// BookResponse is the body of POST /3/book
type BookResponse struct {
	ResyToken     string `json:"resy_token"`
	ReservationID int64  `json:"reservation_id"`
}

// Client books Resy reservations
type Client struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	baseURL    string
	apiKey     string
	json       adapter.JSON
}

// NewClient creates a new Resy adapter
func NewClient(httpClient adapter.HTTPClient, proxy ratelimit.Proxy, cfg config.PlatformConfig, json adapter.JSON) platform.Adapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		proxy:      proxy,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		json:       json,
	}
}

func (c *Client) Platform() domain.Platform {
	return domain.PlatformResy
}

// SupportsGuestOverride is false: Resy reservations are always held by the account
func (c *Client) SupportsGuestOverride() bool {
	return false
}

func (c *Client) CheckReady(identity *domain.Identity) platform.ReadyStatus {
	if identity == nil || !identity.Credentials.Has(domain.PlatformResy) {
		return platform.NotReady("api_key", "auth_token", "payment_method_id")
	}

	var creds Credentials
	if err := identity.Credentials.Decode(domain.PlatformResy, &creds); err != nil {
		return platform.NotReady("api_key", "auth_token", "payment_method_id")
	}

	paymentMethod := ""
	if creds.PaymentMethodID > 0 {
		paymentMethod = strconv.FormatInt(creds.PaymentMethodID, 10)
	}
	return platform.MissingFields(
		platform.Field{Name: "api_key", Value: c.keyFor(creds)},
		platform.Field{Name: "auth_token", Value: creds.AuthToken},
		platform.Field{Name: "payment_method_id", Value: paymentMethod},
	)
}

func (c *Client) FindSlots(ctx context.Context, identity *domain.Identity, venueRef string, date time.Time, partySize int) ([]domain.Slot, error) {
	creds, err := c.credentials(identity)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("lat", "0")
	query.Set("long", "0")
	query.Set("day", date.Format(dayLayout))
	query.Set("party_size", strconv.Itoa(partySize))
	query.Set("venue_id", venueRef)

	body, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformResy), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, c.baseURL+"/4/find?"+query.Encode(), c.headers(creds))
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformResy, "find slots", err)
	}

	var resp FindResponse
	if err := c.json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformResy, "failed to decode find response", err)
	}

	slots := []domain.Slot{}
	for _, venue := range resp.Results.Venues {
		for _, s := range venue.Slots {
			start, err := time.ParseInLocation(slotTimeLayout, s.Date.Start, date.Location())
			if err != nil || s.Config.Token == "" {
				continue
			}
			slots = append(slots, domain.Slot{
				Token:    s.Config.Token,
				Time:     start,
				MinParty: s.Size.Min,
				MaxParty: s.Size.Max,
				Type:     s.Config.Type,
			})
		}
	}

	return slots, nil
}

// Book fetches a book token for the slot and commits it with the identity's payment method
func (c *Client) Book(ctx context.Context, identity *domain.Identity, slot domain.Slot, partySize int, guest *domain.Guest) (*domain.Booking, error) {
	if guest != nil {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformResy, "guest override is not supported", nil)
	}

	creds, err := c.credentials(identity)
	if err != nil {
		return nil, err
	}

	detailsBody, err := c.json.Marshal(DetailsRequest{
		ConfigID:  slot.Token,
		Day:       slot.Time.Format(dayLayout),
		PartySize: partySize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal details request: %w", err)
	}

	raw, err := ratelimit.Request(ctx, c.proxy, string(domain.PlatformResy), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, c.baseURL+"/3/details", c.headers(creds), detailsBody)
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformResy, "get book token", err)
	}

	var details DetailsResponse
	if err := c.json.Unmarshal(raw, &details); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformResy, "failed to decode details response", err)
	}
	if details.BookToken.Value == "" {
		return nil, domain.NewError(domain.ErrorKindNoAvailability, domain.PlatformResy, "slot no longer bookable", nil)
	}

	form := url.Values{}
	form.Set("book_token", details.BookToken.Value)
	form.Set("struct_payment_method", fmt.Sprintf(`{"id":%d}`, creds.PaymentMethodID))
	form.Set("source_id", "resy.com-venue-details")

	headers := c.headers(creds)
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	raw, err = ratelimit.Request(ctx, c.proxy, string(domain.PlatformResy), func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, c.baseURL+"/3/book", headers, []byte(form.Encode()))
	})
	if err != nil {
		return nil, platform.ClassifyHTTPError(domain.PlatformResy, "book slot", err)
	}

	var booked BookResponse
	if err := c.json.Unmarshal(raw, &booked); err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, domain.PlatformResy, "failed to decode book response", err)
	}
	if booked.ResyToken == "" {
		return nil, domain.NewError(domain.ErrorKindPermanent, domain.PlatformResy, "booking returned no confirmation", nil)
	}

	return &domain.Booking{
		ConfirmationCode: booked.ResyToken,
		BookedTime:       slot.Time,
		PlatformRef:      strconv.FormatInt(booked.ReservationID, 10),
	}, nil
}

func (c *Client) credentials(identity *domain.Identity) (Credentials, error) {
	var creds Credentials
	if identity == nil {
		return creds, platform.CredentialsError(domain.PlatformResy, fmt.Errorf("no identity"))
	}
	if err := identity.Credentials.Decode(domain.PlatformResy, &creds); err != nil {
		return creds, platform.CredentialsError(domain.PlatformResy, err)
	}
	if c.keyFor(creds) == "" || creds.AuthToken == "" {
		return creds, platform.CredentialsError(domain.PlatformResy, fmt.Errorf("api key and auth token are required"))
	}
	return creds, nil
}

func (c *Client) keyFor(creds Credentials) string {
	if creds.APIKey != "" {
		return creds.APIKey
	}
	return c.apiKey
}

func (c *Client) headers(creds Credentials) map[string]string {
	return map[string]string{
		"Authorization":         fmt.Sprintf(`ResyAPI api_key="%s"`, c.keyFor(creds)),
		"X-Resy-Auth-Token":     creds.AuthToken,
		"X-Resy-Universal-Auth": creds.AuthToken,
		"Accept":                "application/json",
	}
}
