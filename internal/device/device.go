// Package device talks to a Shelly Plug S over its local HTTP API.
package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/mutker/shellymon/internal/errors"
)

const (
	statusPath     = "/status"
	defaultTimeout = 2 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client reads the instantaneous power from a single device.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

type Option func(*Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for the device at addr, which may be a bare host,
// host:port, or an http(s) URL.
func New(addr string, opts ...Option) (*Client, error) {
	statusURL, err := StatusURL(addr)
	if err != nil {
		return nil, err
	}

	c := &Client{
		url:     statusURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	return c, nil
}

// StatusURL derives the status endpoint URL from a device address.
func StatusURL(addr string) (string, error) {
	errFactory := errors.New()

	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", errFactory.New(ErrInvalidAddress)
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", errFactory.Wrap(ErrInvalidAddress, err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errFactory.WithData(ErrInvalidAddress, addr)
	}

	u.Path = statusPath
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

// URL returns the status endpoint the client polls.
func (c *Client) URL() string {
	return c.url
}

type meter struct {
	Power *float64 `json:"power"`
}

type status struct {
	Meters []meter `json:"meters"`
}

// Power fetches the current power draw in watts from the first meter.
func (c *Client) Power(ctx context.Context) (float64, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, errFactory.Wrap(ErrRequestFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, errFactory.WithData(ErrUnexpectedState, resp.Status)
	}

	var st status
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&st); err != nil {
		return 0, errFactory.Wrap(ErrMalformedBody, err)
	}
	if len(st.Meters) == 0 {
		return 0, errFactory.New(ErrNoMeters)
	}
	if st.Meters[0].Power == nil {
		return 0, errFactory.WithData(ErrMissingPower, fmt.Sprintf("meter 0 of %d", len(st.Meters)))
	}

	return *st.Meters[0].Power, nil
}
