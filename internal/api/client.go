// Package api talks to the operator backend: one login call that yields a
// bearer token and one usage call that returns the data quota.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults for the SLT-Mobitel self-care backend.
const (
	DefaultLoginURL       = "https://omniscapp.slt.lk/mobitelint/slt/api/Account/Login"
	DefaultUsageURL       = "https://omniscapp.slt.lk/mobitelint/slt/api/BBVAS/UsageSummary"
	DefaultClientID       = "41aed706-8fdf-4b1e-883e-91e44d7f379b"
	DefaultClientIDHeader = "X-IBM-Client-Id"
	DefaultChannelID      = "WEB"

	requestTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Endpoints describes where and how to reach the backend.
type Endpoints struct {
	LoginURL       string
	UsageURL       string
	ClientID       string
	ClientIDHeader string
	ChannelID      string
}

// Invalidator forgets stored credentials. The client calls it whenever the
// backend rejects a request, so the next run asks for a fresh login.
type Invalidator interface {
	Clear() error
}

// Client performs the login and usage calls.
type Client struct {
	ep    Endpoints
	http  *http.Client
	creds Invalidator
	log   *logrus.Logger
}

// NewClient returns a client for ep. A nil httpClient gets a client with a
// request timeout; a nil creds disables credential clearing.
func NewClient(ep Endpoints, httpClient *http.Client, creds Invalidator, log *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	if log == nil {
		log = logrus.New()
	}
	if ep.ClientIDHeader == "" {
		ep.ClientIDHeader = DefaultClientIDHeader
	}
	if ep.ChannelID == "" {
		ep.ChannelID = DefaultChannelID
	}
	return &Client{ep: ep, http: httpClient, creds: creds, log: log}
}

// reject clears stored credentials and returns err, joined with the clear
// failure if there was one. Clearing always finishes before the caller sees
// the error.
func (c *Client) reject(err error) error {
	if c.creds == nil {
		return err
	}
	if clearErr := c.creds.Clear(); clearErr != nil {
		c.log.WithError(clearErr).Warn("could not clear stored credentials")
		return errors.Join(err, fmt.Errorf("clear credentials: %w", clearErr))
	}
	return err
}

// do sends req and returns the status and body (capped at maxBodyBytes).
func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.ep.ClientIDHeader, c.ep.ClientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, requestTimeout)
}
