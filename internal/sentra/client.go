package sentra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/sentra-home/sentra-bridge/internal/config"
)

// Client talks to the Sentra vendor cloud HTTP API.
// It holds the account credentials and the current session.
type Client struct {
	// httpClient executes the underlying HTTP requests.
	httpClient *http.Client
	// baseURL is the vendor cloud API endpoint.
	baseURL string
	// username is the vendor cloud account email.
	username string
	// password is the vendor cloud account password.
	password string
	// callTimeout is the default timeout for individual API calls.
	callTimeout time.Duration

	// mu guards the session. Writes happen only on the login path
	// and on site resolution, reads can come from any goroutine.
	mu      sync.RWMutex
	session Session
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for API calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient overrides the HTTP client, primarily for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// NewClient creates a vendor cloud client.
// Credentials are required here so a misconfigured bridge fails before
// any network call is attempted.
func NewClient(baseURL, username, password string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	if username == "" || password == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		httpClient:  &http.Client{},
		baseURL:     baseURL,
		username:    username,
		password:    password,
		callTimeout: config.DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session
}

// setSession replaces the session after a login.
func (c *Client) setSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = s
}

// setSiteID records the resolved operable site.
func (c *Client) setSiteID(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.SiteID = id
}

// clearSession drops the session after an unrecoverable auth failure.
func (c *Client) clearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = Session{}
}

// newRequest builds a JSON API request with the device identity headers.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	u.Path = path.Join(u.Path, endpoint)

	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}

		req, err = http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(string(jsonBody)))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
	}

	req.Header.Set("User-Agent", userAgent)

	return req, nil
}

// doRequest executes the request and decodes the JSON response into result.
func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call vendor cloud: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("vendor cloud error: %s", resp.Status)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// baseRequestPayload assembles the token and device identity section.
func (c *Client) baseRequestPayload(token string) baseRequest {
	return baseRequest{
		Token:    token,
		AppID:    appPackageID,
		DeviceOS: deviceOS,
		DeviceID: deviceID,
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
