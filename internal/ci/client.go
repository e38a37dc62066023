package ci

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	storyerrors "gitstory.dev/gitstory/internal/errors"
)

// DefaultTimeout bounds a single HTTP request
const DefaultTimeout = 30 * time.Second

// secretParams are query parameters redacted before URLs are logged
var secretParams = []string{"auth_token", "private_token", "token"}

// ClientOptions configures a Client
type ClientOptions struct {
	Timeout  time.Duration
	RetryMax int
	// TokenHint names where the API token comes from. It is included in
	// the message of a 401 response.
	TokenHint string
	Logger    *slog.Logger
	// Debug logs every response body, pretty printed.
	Debug bool
}

// Client fetches JSON resources from tracker and CI services
type Client struct {
	http      *retryablehttp.Client
	tokenHint string
	logger    *slog.Logger
	debug     bool
}

// NewClient creates a Client
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient.Timeout = opts.Timeout
	httpClient.RetryMax = opts.RetryMax
	httpClient.RetryWaitMin = 200 * time.Millisecond
	httpClient.RetryWaitMax = 2 * time.Second
	httpClient.Logger = nil
	// Hand back the last response instead of a generic "giving up" error so
	// the status code can be reported.
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		http:      httpClient,
		tokenHint: opts.TokenHint,
		logger:    opts.Logger,
		debug:     opts.Debug,
	}
}

// StandardClient returns an *http.Client whose requests go through c's
// retry and timeout settings
func (c *Client) StandardClient() *http.Client {
	return c.http.StandardClient()
}

// authError reports a 401 from apiURL, naming c's token hint or fallback
func (c *Client) authError(apiURL, fallback string) error {
	hint := c.tokenHint
	if hint == "" {
		hint = fallback
	}
	return storyerrors.NewAuthError(apiURL, hint)
}

// GetJSON fetches rawURL and decodes the body into out. Fields that are
// missing or of an unexpected type are left at their zero value.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	logURL := RedactURL(rawURL)
	c.logger.Debug("fetching", "url", logURL)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return storyerrors.NewTransportError(logURL, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = logURL
		}
	}
	if resp == nil {
		return storyerrors.NewTransportError(logURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return storyerrors.NewAuthError(logURL, c.tokenHint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return storyerrors.NewTransportError(logURL, resp.StatusCode, nil)
	}
	if err != nil {
		return storyerrors.NewTransportError(logURL, resp.StatusCode, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return storyerrors.NewTransportError(logURL, resp.StatusCode, err)
	}
	if c.debug {
		var pretty bytes.Buffer
		if json.Indent(&pretty, body, "", "  ") == nil {
			c.logger.Debug(pretty.String(), "url", logURL)
		}
	}
	return decodeTolerant(logURL, body, out)
}

// decodeTolerant decodes body into out, skipping fields whose JSON type does
// not match. Malformed JSON is still a transport failure.
func decodeTolerant(logURL string, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	err := json.Unmarshal(body, out)
	var typeErr *json.UnmarshalTypeError
	if err != nil && !errors.As(err, &typeErr) {
		return storyerrors.NewTransportError(logURL, 0, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// RedactURL replaces credentials carried in query parameters
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, key := range secretParams {
		if q.Has(key) {
			q.Set(key, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
