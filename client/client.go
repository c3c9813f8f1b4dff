// Package client implements the headless side of the relay protocol: wait
// for the listener to come up, then poll the access-code endpoint until the
// companion browser has completed the login.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jrsteele09/go-auth-relay/internal/config"
	"github.com/jrsteele09/go-auth-relay/internal/errors"
)

const defaultPollInterval = time.Second

// AccessCode is the captured authorization code plus the PKCE values needed
// for the token exchange the caller performs itself.
type AccessCode struct {
	Code          string `json:"access_code"`
	CodeChallenge string `json:"code_challenge"`
	CodeVerifier  string `json:"code_verifier"`

	Error string `json:"error"`
}

type Client struct {
	baseURL         string
	accessKey       string
	accessKeyHeader string
	pollInterval    time.Duration
	http            *retryablehttp.Client
}

type Option func(*Client)

// WithPollInterval overrides the default one second polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithAccessKeyHeader overrides the header name carrying the access key.
func WithAccessKeyHeader(name string) Option {
	return func(c *Client) { c.accessKeyHeader = name }
}

// New creates a polling client for the relay at baseURL
// (e.g. "http://localhost:49983").
func New(baseURL, accessKey string, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.RetryMax = 2
	httpClient.RetryWaitMin = 100 * time.Millisecond

	c := &Client{
		baseURL:         baseURL,
		accessKey:       accessKey,
		accessKeyHeader: config.OAuth{}.GetAccessKeyHeader(),
		pollInterval:    defaultPollInterval,
		http:            httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WaitUntilOnline polls the heartbeat endpoint until the listener accepts
// connections or ctx is cancelled.
func (c *Client) WaitUntilOnline(ctx context.Context) error {
	for {
		online, err := c.heartbeat(ctx)
		if err == nil && online {
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "client.WaitUntilOnline")
		case <-time.After(c.pollInterval):
		}
	}
}

// FetchAccessCode polls the access-code endpoint until a code has been
// captured, a terminal relay error appears, or ctx is cancelled.
func (c *Client) FetchAccessCode(ctx context.Context) (*AccessCode, error) {
	for {
		code, err := c.pollAccessCode(ctx)
		if err != nil {
			return nil, err
		}
		if code != nil {
			return code, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "client.FetchAccessCode")
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) heartbeat(ctx context.Context) (bool, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/heartbeat", nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Status == "ok", nil
}

// pollAccessCode performs one poll. Returns (nil, nil) while the login is
// still pending.
func (c *Client) pollAccessCode(ctx context.Context) (*AccessCode, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/access_code", nil)
	if err != nil {
		return nil, errors.Wrapf(err, "client.pollAccessCode")
	}
	req.Header.Set(c.accessKeyHeader, c.accessKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "client.pollAccessCode")
	}
	defer resp.Body.Close()

	var code AccessCode
	if err := json.NewDecoder(resp.Body).Decode(&code); err != nil {
		return nil, errors.Wrapf(err, "client.pollAccessCode decode")
	}

	if code.Error == "invalid_access_key" {
		return nil, errors.ErrInvalidAccessKey
	}
	if code.Error != "" {
		return nil, fmt.Errorf("relay error: %s", code.Error)
	}
	if code.Code == "" {
		return nil, nil // not yet authenticated
	}
	return &code, nil
}
