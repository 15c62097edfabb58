package logistics

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
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 10 << 20

var (
	// ErrUnauthorized signals that the upstream session is not (or no longer) authenticated.
	ErrUnauthorized = errors.New("logistics api: unauthorized")
	// ErrUnavailable wraps transport failures: the API could not be reached at all.
	ErrUnavailable = errors.New("logistics api unavailable")
)

// APIError is a non-2xx response from the logistics API.
type APIError struct {
	// StatusCode is the HTTP status returned by the API.
	StatusCode int
	// Message is the server-provided reason, if any.
	Message string
	// Path is the API path that failed.
	Path string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("logistics api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("logistics api %s returned status %d", e.Path, e.StatusCode)
}

// Unwrap exposes ErrUnauthorized for 401 responses so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// AsAPIError reports whether err is (or wraps) an APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Cookie is an upstream session cookie replayed on behalf of a visitor.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type cookiesKey struct{}

// WithCookies returns a context whose upstream calls carry the given cookies.
func WithCookies(ctx context.Context, cookies []Cookie) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

// CookiesFrom returns the upstream cookies carried by the context.
func CookiesFrom(ctx context.Context) []Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]Cookie)
	return cookies
}

// Request describes a single call to the logistics API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body any
}

// Response holds the transport details callers may need beyond the decoded body.
type Response struct {
	StatusCode int
	// Cookies are the cookies set by the API, e.g. the session cookie after login.
	Cookies []Cookie
}

// Client is a thin JSON client for the logistics REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Do executes the request and decodes a successful JSON response into out (when non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, r Request, out any) (*Response, error) {
	endpoint := c.baseURL + r.Path
	if len(r.Query) > 0 {
		endpoint += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range CookiesFrom(ctx) {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &Response{StatusCode: resp.StatusCode}
	for _, ck := range resp.Cookies() {
		result.Cookies = append(result.Cookies, Cookie{Name: ck.Name, Value: ck.Value})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data),
			Path:       r.Path,
		}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return result, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return result, nil
}

// extractMessage pulls a human-readable reason out of an error body.
func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
