package tzclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// TimeZone is the result payload of a successful lookup.
type TimeZone struct {
	IANAID    string `json:"ianaid"`
	INatID    string `json:"inatid"`
	UTCOffset Offset `json:"utc_offset"`
}

// Offset is a UTC offset sent either as a string or as a number.
type Offset string

// UnmarshalJSON accepts "+03:00" as well as 3 or 5.5.
func (o *Offset) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Offset(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("utc_offset: %w", err)
	}
	*o = Offset(n.String())
	return nil
}

// Envelope is the response body of the lookup service.
type Envelope struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Result  *TimeZone `json:"result,omitempty"`
}

// OK reports whether the lookup resolved a zone.
func (e Envelope) OK() bool {
	return e.Code == "200" && e.Result != nil
}

// Client queries a time-zone lookup service.
type Client struct {
	http      *resty.Client
	serverURL string
	token     string
}

// New builds a Client for serverURL authenticating with token.
func New(serverURL, token string, timeout time.Duration) *Client {
	return &Client{
		http:      resty.New().SetTimeout(timeout),
		serverURL: serverURL,
		token:     token,
	}
}

// Lookup asks the service for the zone containing (lon, lat). Any parsed
// envelope is returned, including error envelopes; err is set only when
// the exchange itself failed.
func (c *Client) Lookup(ctx context.Context, lon, lat float64) (*Envelope, error) {
	var env Envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lon":   strconv.FormatFloat(lon, 'f', -1, 64),
			"lat":   strconv.FormatFloat(lat, 'f', -1, 64),
			"token": c.token,
		}).
		ForceContentType("application/json").
		SetResult(&env).
		SetError(&env).
		Get(c.serverURL)
	if err != nil {
		return nil, fmt.Errorf("request time zone: %w", err)
	}
	if env.Code == "" {
		return nil, fmt.Errorf("unexpected status %s", resp.Status())
	}
	return &env, nil
}
