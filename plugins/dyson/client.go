package dyson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	authPath     = "/v1/userregistration/authenticate"
	manifestPath = "/v2/provisioningservice/manifest"
	statePathFmt = "/v2/provisioningservice/devices/%s/state"
)

// Client talks to the Dyson cloud API. It holds one session token and the
// account's device directory, both in memory only.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger

	// mu guards the fields below. It is never held across a request, so
	// concurrent calls still interleave at the vendor API.
	mu      sync.Mutex
	token   string
	devices []Device
	authErr error
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func NewClient(cfg Config, logger logrus.FieldLogger) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		cfg:        cfg,
		baseURL:    cfg.baseURL(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.WithField("component", "dyson"),
	}, nil
}

// BaseURL is the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticate exchanges the configured credentials for a session token.
func (c *Client) Authenticate(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"Email":    c.cfg.Email,
		"Password": c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, authPath, "", payload)
	if err != nil {
		c.setAuthResult("", err)
		return err
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		err = ErrInvalidCredentials
	case !resp.ok():
		err = AuthenticationError{Status: resp.status}
	default:
		var account struct {
			Account *string `json:"Account"`
		}
		if jsonErr := json.Unmarshal(resp.body, &account); jsonErr != nil {
			err = ParseError{Field: "authenticate", Reason: jsonErr.Error()}
		} else if account.Account == nil || *account.Account == "" {
			err = ParseError{Field: "Account", Reason: "missing"}
		} else {
			c.setAuthResult(*account.Account, nil)
			c.logger.Debug("authenticated")
			return nil
		}
	}

	c.setAuthResult("", err)
	return err
}

// ListDevices fetches the device manifest and replaces the directory.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	return c.Refresh(ctx)
}

// Refresh refetches the device manifest and swaps the cached directory in
// one step. The directory is otherwise only fetched on first use.
func (c *Client) Refresh(ctx context.Context) ([]Device, error) {
	resp, err := c.do(ctx, http.MethodGet, manifestPath, nil)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if !resp.ok() {
		return nil, HTTPStatusError{Op: "list devices", Status: resp.status, Body: string(resp.body)}
	}

	devices, err := parseManifest(resp.body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.devices = devices
	c.mu.Unlock()

	c.logger.WithField("devices", len(devices)).Debug("device directory refreshed")
	return cloneDevices(devices), nil
}

// Devices returns the cached directory, fetching it on first access.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	if devices := c.cachedDevices(); len(devices) > 0 {
		return devices, nil
	}
	return c.Refresh(ctx)
}

// ResolveDevice looks a device up by serial, or returns the first device
// when id is empty.
func (c *Client) ResolveDevice(ctx context.Context, id string) (Device, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return Device{}, err
	}

	if id == "" {
		if len(devices) == 0 {
			return Device{}, ErrNoDevicesFound
		}
		return devices[0], nil
	}
	for _, device := range devices {
		if device.Serial == id {
			return device, nil
		}
	}
	return Device{}, DeviceNotFoundError{ID: id}
}

// GetStatus fetches the device's current state.
func (c *Client) GetStatus(ctx context.Context, id string) (Status, error) {
	if _, err := c.ensureSession(ctx); err != nil {
		return Status{}, err
	}
	device, err := c.ResolveDevice(ctx, id)
	if err != nil {
		return Status{}, err
	}
	state, err := c.fetchState(ctx, device.Serial)
	if err != nil {
		return Status{}, err
	}
	return toStatus(state), nil
}

// SetState sends a partial wire update and returns the state read back
// afterwards. The PATCH response body is ignored.
func (c *Client) SetState(ctx context.Context, id string, fields WireState) (Status, error) {
	if _, err := c.ensureSession(ctx); err != nil {
		return Status{}, err
	}
	device, err := c.ResolveDevice(ctx, id)
	if err != nil {
		return Status{}, err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return Status{}, fmt.Errorf("encode state: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPatch, statePath(device.Serial), payload)
	if err != nil {
		return Status{}, fmt.Errorf("set state: %w", err)
	}
	if !resp.ok() {
		return Status{}, StateUpdateError{Status: resp.status}
	}

	c.logger.WithFields(logrus.Fields{"serial": device.Serial, "fields": fields}).Debug("state updated")

	state, err := c.fetchState(ctx, device.Serial)
	if err != nil {
		return Status{}, err
	}
	return toStatus(state), nil
}

// SetFanSpeed accepts "auto" or "1".."10". Setting a speed powers the
// device on.
func (c *Client) SetFanSpeed(ctx context.Context, id, speed string) (Status, error) {
	fields, err := encodeFanSpeed(speed)
	if err != nil {
		return Status{}, err
	}
	return c.SetState(ctx, id, fields)
}

func (c *Client) SetOscillation(ctx context.Context, id string, enabled bool) (Status, error) {
	return c.SetState(ctx, id, WireState{fieldOscillation: encodeSwitch(enabled)})
}

func (c *Client) SetNightMode(ctx context.Context, id string, enabled bool) (Status, error) {
	return c.SetState(ctx, id, WireState{fieldNightMode: encodeSwitch(enabled)})
}

func (c *Client) GetAirQuality(ctx context.Context, id string) (AirQuality, error) {
	status, err := c.GetStatus(ctx, id)
	if err != nil {
		return AirQuality{}, err
	}
	if status.AirQuality == nil {
		return AirQuality{}, ErrAirQualityUnavailable
	}
	return *status.AirQuality, nil
}

// Health reports whether the last authentication attempt succeeded.
func (c *Client) Health() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.authErr != nil:
		return false, c.authErr.Error()
	case c.token == "":
		return true, "not authenticated yet"
	default:
		return true, "session active"
	}
}

func (c *Client) fetchState(ctx context.Context, serial string) (WireState, error) {
	resp, err := c.do(ctx, http.MethodGet, statePath(serial), nil)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	if !resp.ok() {
		return nil, HTTPStatusError{Op: "get state", Status: resp.status, Body: string(resp.body)}
	}
	return parseWireState(resp.body)
}

// do sends an authenticated request. A 401 clears the session, triggers one
// re-authentication and one retry; the retry's response is returned as-is.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (response, error) {
	token, err := c.ensureSession(ctx)
	if err != nil {
		return response{}, err
	}

	resp, err := c.send(ctx, method, path, token, body)
	if err != nil || resp.status != http.StatusUnauthorized {
		return resp, err
	}

	c.logger.WithField("path", path).Debug("session rejected, re-authenticating")
	c.clearSession(token)
	if err := c.Authenticate(ctx); err != nil {
		return response{}, err
	}
	return c.send(ctx, method, path, c.currentToken(), body)
}

func (c *Client) send(ctx context.Context, method, path, token string, body []byte) (response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dyson-mcp")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read %s: %w", path, err)
	}
	return response{status: resp.StatusCode, body: payload}, nil
}

func (c *Client) ensureSession(ctx context.Context) (string, error) {
	if token := c.currentToken(); token != "" {
		return token, nil
	}
	if err := c.Authenticate(ctx); err != nil {
		return "", err
	}
	return c.currentToken(), nil
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) clearSession(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		c.token = ""
	}
}

func (c *Client) setAuthResult(token string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.authErr = err
}

func (c *Client) cachedDevices() []Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneDevices(c.devices)
}

func cloneDevices(devices []Device) []Device {
	if devices == nil {
		return nil
	}
	out := make([]Device, len(devices))
	copy(out, devices)
	return out
}

func statePath(serial string) string {
	return fmt.Sprintf(statePathFmt, url.PathEscape(serial))
}
