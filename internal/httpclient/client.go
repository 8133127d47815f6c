// Package httpclient is the authenticated-fetch wrapper used by every
// outbound adapter instead of raw network calls. It resolves the caller's
// credential, attaches it as a bearer header, and normalizes non-success
// responses into status-carrying errors.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoCredential is returned before any network call when no credential
// can be resolved.
var ErrNoCredential = errors.New("no credential available")

// CredentialSource resolves the bearer credential attached to requests.
type CredentialSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticCredential is a CredentialSource backed by a fixed key.
type StaticCredential string

// AccessToken returns the fixed key.
func (s StaticCredential) AccessToken(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoCredential
	}
	return string(s), nil
}

// StatusError carries the server-provided message and status of a failed
// request.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// Client issues authenticated JSON requests against one base URL.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
	logger      zerolog.Logger
}

// ClientParams configures a Client.
type ClientParams struct {
	BaseURL     string
	Credentials CredentialSource
	HTTPClient  *http.Client
	Logger      zerolog.Logger
}

// New creates an authenticated HTTP client.
func New(params ClientParams) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:     strings.TrimSuffix(params.BaseURL, "/"),
		httpClient:  httpClient,
		credentials: params.Credentials,
		logger:      params.Logger.With().Str("component", "http_client").Logger(),
	}
}

// Options tunes a single request. Bearer overrides the client's credential
// source for calls made on behalf of a specific session.
type Options struct {
	Body   any
	Out    any
	Bearer string
	Header http.Header
	Query  url.Values
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, &Options{Out: out})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, &Options{Body: body, Out: out})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, &Options{Body: body, Out: out})
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, &Options{Body: body, Out: out})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, &Options{})
}

// Do resolves the credential, issues the request, and decodes the response.
// It fails fast with ErrNoCredential before any network call when no
// credential is available.
func (c *Client) Do(ctx context.Context, method, path string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	bearer := opts.Bearer
	if bearer == "" {
		if c.credentials == nil {
			return ErrNoCredential
		}
		token, err := c.credentials.AccessToken(ctx)
		if err != nil {
			return err
		}
		if token == "" {
			return ErrNoCredential
		}
		bearer = token
	}

	reqURL := c.baseURL + path
	if len(opts.Query) > 0 {
		reqURL += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("Upstream request failed")
		return &StatusError{Status: resp.StatusCode, Message: extractMessage(data)}
	}

	if opts.Out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, opts.Out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// extractMessage pulls a human-readable message out of an error body.
func extractMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		switch {
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		case payload.Msg != "":
			return payload.Msg
		}
	}
	if len(data) > 0 {
		return string(data)
	}
	return "request failed"
}
