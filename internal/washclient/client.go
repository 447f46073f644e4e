// Package washclient talks to the wash machine's HTTP service.
package washclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pivovar/internal/models"
)

const (
	washMachinePath = "/wash_machine"
	tempLogPath     = "/temp_log"

	// deviceQueryParam names the device on temp log requests.
	deviceQueryParam = "wash_machine"

	maxBodyBytes   = 8 << 20 // a day of samples fits comfortably
	defaultTimeout = 10 * time.Second
)

var (
	ErrStatus      = errors.New("unexpected status")
	ErrMissingName = errors.New("wash machine payload has no name")
)

// Client fetches wash machine state from one service base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a client for base (e.g. http://localhost:5001). A nil httpClient
// gets a default one with a timeout.
func New(base string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse wash machine url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("wash machine url %q: scheme must be http or https", base)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: u, http: httpClient}, nil
}

// WashMachine fetches the discovery payload.
func (c *Client) WashMachine(ctx context.Context) (models.WashMachine, error) {
	var wm models.WashMachine
	if err := c.getJSON(ctx, washMachinePath, nil, &wm); err != nil {
		return models.WashMachine{}, err
	}
	if strings.TrimSpace(wm.Name) == "" {
		return models.WashMachine{}, ErrMissingName
	}
	return wm, nil
}

// TempLog fetches the temperature log of one device.
func (c *Client) TempLog(ctx context.Context, name string) (models.TempLog, error) {
	var log models.TempLog
	q := url.Values{deviceQueryParam: []string{name}}
	if err := c.getJSON(ctx, tempLogPath, q, &log); err != nil {
		return models.TempLog{}, err
	}
	if err := log.Validate(); err != nil {
		return models.TempLog{}, err
	}
	return log, nil
}

func (c *Client) getJSON(ctx context.Context, p string, q url.Values, dst any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + p
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("get %s: %w: %d", p, ErrStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", p, err)
	}
	return nil
}
