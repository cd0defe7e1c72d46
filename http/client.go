// Package http provides a 500px API client implementing fpx.PhotoFetcher
// and fpx.PhotoFinder.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/fpx"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the root of the public 500px API.
const DefaultBaseURL = "https://api.500px.com/v1/"

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 10 * time.Second

// imageSizes requests a thumbnail and a full-screen rendition of every photo.
const imageSizes = "21,1080"

// Ensure Client implements the fetch interfaces at compile time.
var (
	_ fpx.PhotoFetcher = (*Client)(nil)
	_ fpx.PhotoFinder  = (*Client)(nil)
)

// Client talks to the 500px REST API.
type Client struct {
	client      *resty.Client
	baseURL     string
	consumerKey string
	timeout     time.Duration
	limiter     *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root. Defaults to DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithConsumerKey sets the consumer key sent with every request.
func WithConsumerKey(key string) Option {
	return func(c *Client) {
		c.consumerKey = key
	}
}

// WithTimeout sets the timeout for API requests.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit limits requests to rps per second. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new 500px API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = resty.New().
		SetBaseURL(strings.TrimSuffix(c.baseURL, "/")).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json")
	if c.consumerKey != "" {
		c.client.SetQueryParam("consumer_key", c.consumerKey)
	}

	return c
}

// apiError is the error body returned by the API.
type apiError struct {
	Status  int    `json:"status"`
	Message string `json:"error"`
}

// photoResponse wraps a single photo. Older API versions return the photo
// object at the top level instead.
type photoResponse struct {
	Photo *fpx.Photo `json:"photo"`
}

// FetchPage retrieves one page of a feature feed.
func (c *Client) FetchPage(ctx context.Context, feed string, page, pageSize int) (*fpx.PhotoPage, error) {
	req := fpx.PageRequest{Feed: feed, Page: page, PageSize: pageSize}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var result fpx.PhotoPage
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"feature":    feed,
			"page":       strconv.Itoa(page),
			"rpp":        strconv.Itoa(pageSize),
			"image_size": imageSizes,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Get("/photos")
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp, &apiErr, "feed "+feed); err != nil {
		return nil, err
	}

	if result.CurrentPage == 0 {
		result.CurrentPage = page
	}
	return &result, nil
}

// FindPhotoByID retrieves a single photo.
func (c *Client) FindPhotoByID(ctx context.Context, id int64) (*fpx.Photo, error) {
	if id < 1 {
		return nil, fpx.Errorf(fpx.EINVALID, "photo id must be > 0, got %d", id)
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetQueryParam("image_size", imageSizes).
		SetError(&apiErr).
		Get("/photos/{id}")
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp, &apiErr, "photo "+strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}

	return decodePhoto(resp.Body())
}

func decodePhoto(body []byte) (*fpx.Photo, error) {
	var wrapped photoResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fpx.WrapError(fpx.EINTERNAL, err, "decode photo")
	}
	if wrapped.Photo != nil {
		return wrapped.Photo, nil
	}

	var photo fpx.Photo
	if err := json.Unmarshal(body, &photo); err != nil {
		return nil, fpx.WrapError(fpx.EINTERNAL, err, "decode photo")
	}
	if photo.ID == 0 {
		return nil, fpx.Errorf(fpx.EINTERNAL, "decode photo: missing id")
	}
	return &photo, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// checkResponse maps API status codes to application error codes.
func checkResponse(resp *resty.Response, apiErr *apiError, what string) error {
	if resp.IsSuccess() {
		return nil
	}

	status := resp.StatusCode()
	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusNotFound:
		return fpx.Errorf(fpx.ENOTFOUND, "%s not found", what)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fpx.Errorf(fpx.EINVALID, "%s: HTTP %d %s (check the consumer key)", what, status, msg)
	case status == http.StatusTooManyRequests || status >= 500:
		return fpx.Errorf(fpx.EUNAVAILABLE, "%s: HTTP %d %s", what, status, msg)
	default:
		return fpx.Errorf(fpx.EINTERNAL, "%s: HTTP %d %s", what, status, msg)
	}
}
