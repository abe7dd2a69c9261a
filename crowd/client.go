package crowd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-authgate/crowdauth/internal/client"
	"github.com/go-authgate/crowdauth/internal/util"

	"github.com/google/uuid"
)

const (
	providerName       = "crowd"
	authenticationPath = "/usermanagement/1/authentication"
	defaultTimeout     = 10 * time.Second
	maxResponseSize    = 1 << 20
	maxBodyPreview     = 200
	requestIDHeader    = "X-Request-ID"
)

// Client authenticates user credentials against the Crowd REST API.
//
// The application credentials and base URL are fixed at construction. The
// profile of the last successful Authenticate call is kept on the instance;
// use Verify when no shared state is wanted.
type Client struct {
	baseURL     string
	appName     string
	appPassword string

	client             *http.Client
	recorder           Recorder
	timeout            time.Duration
	insecureSkipVerify bool

	mu          sync.RWMutex
	displayName string
	email       string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom http.Client. Timeout and TLS options are
// ignored when a client is supplied.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// WithTimeout sets the request timeout (default 10s)
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		c.insecureSkipVerify = skip
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewClient creates a client for the identity service at baseURL,
// identifying itself with the given application credentials.
// No network I/O is performed.
func NewClient(
	baseURL, appName, appPassword string,
	opts ...Option,
) (*Client, error) {
	if err := util.ValidateBaseURL(baseURL); err != nil {
		return nil, fmt.Errorf("%w: %q", err, baseURL)
	}

	c := &Client{
		baseURL:     baseURL,
		appName:     appName,
		appPassword: appPassword,
		recorder:    noopRecorder{},
		timeout:     defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		httpClient, err := client.CreateHTTPClient(c.timeout, c.insecureSkipVerify)
		if err != nil {
			return nil, err
		}
		c.client = httpClient
	}

	return c, nil
}

// BaseURL returns the identity service base URL as given at construction
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ApplicationName returns the application name used for Basic authentication
func (c *Client) ApplicationName() string {
	return c.appName
}

// Authenticate verifies the user's credentials and reports whether they were
// accepted. On success the display name and email are stored on the client.
// On failure the stored values are left as they were.
func (c *Client) Authenticate(ctx context.Context, username, password string) bool {
	result, err := c.Verify(ctx, username, password)
	if err != nil {
		return false
	}

	c.mu.Lock()
	c.displayName = result.DisplayName
	c.email = result.Email
	c.mu.Unlock()

	return true
}

// DisplayName returns the display name from the last successful Authenticate
func (c *Client) DisplayName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.displayName
}

// Email returns the email from the last successful Authenticate
func (c *Client) Email() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.email
}

// ResetInformation clears the stored display name and email
func (c *Client) ResetInformation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayName = ""
	c.email = ""
}

// Verify performs the authentication call without touching the client's
// stored profile. Errors wrap ErrConnection, ErrAuthFailed or
// ErrInvalidResponse.
func (c *Client) Verify(
	ctx context.Context,
	username, password string,
) (*AuthResult, error) {
	requestID := uuid.New().String()
	start := time.Now()

	result, err := c.verify(ctx, requestID, username, password)
	c.recorder.RecordAuthAttempt(providerName, err == nil, time.Since(start))
	if err != nil {
		c.recorder.RecordAuthFailure(string(Kind(err)))
		log.Printf("[Crowd] Failed request_id=%s user=%s: %v", requestID, username, err)
		return nil, err
	}

	return result, nil
}

// Name returns provider name for logging
func (c *Client) Name() string {
	return providerName
}

func (c *Client) verify(
	ctx context.Context,
	requestID, username, password string,
) (*AuthResult, error) {
	jsonData, err := json.Marshal(passwordRequest{Value: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.authenticationURL(username),
		bytes.NewReader(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", client.BasicAuthorization(c.appName, c.appPassword))
	req.Header.Set(requestIDHeader, requestID)

	apiStart := time.Now()
	resp, err := c.client.Do(req)
	c.recorder.RecordExternalAPICall(providerName, time.Since(apiStart))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrConnection, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	attrs, err := decodeAttributes(body)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Username:    username,
		DisplayName: stringify(attrs[keyDisplayName]),
		Email:       stringify(attrs[keyEmail]),
		Success:     true,
	}, nil
}

// authenticationURL builds the request URL; the username is query-escaped.
func (c *Client) authenticationURL(username string) string {
	return c.baseURL + authenticationPath + "?username=" + url.QueryEscape(username)
}

// statusError describes a non-200 response, preferring Crowd's error entity
func statusError(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf(
			"%w: HTTP %d - %s: %s",
			ErrAuthFailed,
			statusCode,
			errResp.Reason,
			errResp.Message,
		)
	}

	// Limit body preview to avoid overwhelming logs
	bodyPreview := string(body)
	if len(bodyPreview) > maxBodyPreview {
		bodyPreview = bodyPreview[:maxBodyPreview] + "..."
	}
	return fmt.Errorf("%w: HTTP %d - %s", ErrAuthFailed, statusCode, bodyPreview)
}

// decodeAttributes parses a JSON object and checks that both profile keys exist
func decodeAttributes(body []byte) (map[string]any, error) {
	var attrs map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&attrs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidResponse)
	}

	for _, key := range []string{keyDisplayName, keyEmail} {
		if _, ok := attrs[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidResponse, key)
		}
	}

	return attrs, nil
}

// stringify renders a decoded JSON value as text. null becomes "" and
// booleans are lowercase.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
