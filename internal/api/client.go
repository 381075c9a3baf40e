// Package api is the HTTP client for the remote gallery service: image list,
// comments, likes and uploaded assets.
package api

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
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultUploadsPath = "/uploads/"
	RequestIDHeader    = "X-Request-ID"

	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 32 << 20
)

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Client talks to the gallery API.
type Client struct {
	baseURL     *url.URL
	uploadsPath string
	http        *http.Client
	limiter     *rate.Limiter
	logger      LoggerFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUploadsPath sets the path assets are served from.
func WithUploadsPath(p string) Option {
	return func(c *Client) {
		if p == "" {
			return
		}
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		c.uploadsPath = p
	}
}

// WithRateLimit throttles outgoing requests to perSecond with the given burst.
// A non-positive perSecond disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(l LoggerFunc) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host required", baseURL)
	}
	c := &Client{
		baseURL:     u,
		uploadsPath: DefaultUploadsPath,
		http:        &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) logMessage(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// AssetURL is the only way an image source or download target is built:
// the uploads path joined with the filename.
func (c *Client) AssetURL(filename string) string {
	return c.baseURL.String() + c.uploadsPath + filename
}

// EscapeQueryComponent percent-encodes s the way browsers' encodeURIComponent
// does for the characters that matter here (spaces become %20, not +).
func EscapeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ImagesURL builds the list query. sort is passed verbatim.
func (c *Client) ImagesURL(search, sort string) string {
	return c.baseURL.String() + "/api/images?search=" + EscapeQueryComponent(search) + "&sort=" + sort
}

// ListImages fetches the image list for the given filters.
func (c *Client) ListImages(ctx context.Context, search, sort string) ([]Image, error) {
	var images []Image
	if err := c.getJSON(ctx, "list images", c.ImagesURL(search, sort), &images); err != nil {
		return nil, err
	}
	if images == nil {
		images = []Image{}
	}
	return images, nil
}

// ListComments fetches the comments of one image.
func (c *Client) ListComments(ctx context.Context, imageID int) ([]Comment, error) {
	var comments []Comment
	u := c.baseURL.String() + "/api/comments/" + strconv.Itoa(imageID)
	if err := c.getJSON(ctx, "list comments", u, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// PostComment adds a comment to an image.
func (c *Client) PostComment(ctx context.Context, imageID int, email, text string) error {
	u := c.baseURL.String() + "/api/comments/" + strconv.Itoa(imageID)
	body := map[string]string{"email": email, "text": text}
	var resp struct {
		Error string `json:"error"`
	}
	return c.postJSON(ctx, "post comment", u, body, &resp, func() string { return resp.Error })
}

// ToggleLike likes or unlikes an image on behalf of email. The server decides
// which, based on whether the pair already exists.
func (c *Client) ToggleLike(ctx context.Context, imageID int, email string) (LikeResult, error) {
	u := c.baseURL.String() + "/api/like/" + strconv.Itoa(imageID)
	body := map[string]string{"email": email}
	var resp struct {
		Error string `json:"error"`
		LikeResult
	}
	if err := c.postJSON(ctx, "toggle like", u, body, &resp, func() string { return resp.Error }); err != nil {
		return LikeResult{}, err
	}
	return resp.LikeResult, nil
}

// FetchAsset downloads an uploaded file.
func (c *Client) FetchAsset(ctx context.Context, filename string) ([]byte, error) {
	const op = "fetch asset"
	resp, err := c.do(ctx, op, http.MethodGet, c.AssetURL(filename), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status for %s", filename)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, op, method, u string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, op, u string, out interface{}) error {
	resp, err := c.do(ctx, op, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: errors.New("unexpected status")}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// postJSON sends in and decodes the reply into out. errMsg reads the decoded
// "error" field; a non-empty value becomes a ServerError whatever the status.
func (c *Client) postJSON(ctx context.Context, op, u string, in, out interface{}, errMsg func() string) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", op, err)
	}
	resp, err := c.do(ctx, op, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if msg := errMsg(); msg != "" {
		return &ServerError{Op: op, Status: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logMessage("%s: status %d without error message", op, resp.StatusCode)
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: errors.New("unexpected status")}
	}
	return nil
}
