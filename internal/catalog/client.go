// Package catalog talks to the remote image catalog (a picsum-compatible
// HTTP service).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/logger"
	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

const (
	DefaultBaseURL  = "https://picsum.photos"
	DefaultPageSize = 30
	DefaultTimeout  = 15 * time.Second

	ThumbnailWidth  = 400
	ThumbnailHeight = 300
	FullWidth       = 800
	FullHeight      = 600
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Logger            *logger.Logger
}

// Client fetches catalog pages and single image records.
type Client struct {
	baseURL string
	http    *resty.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// New creates a Client. Requests are never retried; a non-positive
// RequestsPerSecond disables rate limiting.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		baseURL: base,
		http:    client,
		limiter: rate.NewLimiter(limit, burst),
		log:     log.WithComponent("catalog"),
	}
}

// BaseURL returns the catalog root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage retrieves one 1-based page of image records.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) ([]domain.Image, error) {
	if page < 1 {
		return nil, apperrors.NewValidationError("page", "must be at least 1", nil)
	}
	if pageSize <= 0 {
		return nil, apperrors.NewValidationError("page_size", "must be positive", nil)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewFetchError(page, 0, err)
	}

	log := c.log.WithContext(ctx).WithFields(map[string]any{"page": page, "limit": pageSize})
	started := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":  strconv.Itoa(page),
			"limit": strconv.Itoa(pageSize),
		}).
		Get("/v2/list")
	if err != nil {
		log.Warn(err, "catalog request failed")
		return nil, apperrors.NewFetchError(page, 0, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		err := fmt.Errorf("unexpected response %s", resp.Status())
		log.Warn(err, "catalog returned non-success status")
		return nil, apperrors.NewFetchError(page, resp.StatusCode(), err)
	}

	if log.Enabled("trace") {
		log.WithFields(map[string]any{"body": string(resp.Body())}).Trace("catalog response body")
	}

	var images []domain.Image
	if err := json.Unmarshal(resp.Body(), &images); err != nil {
		log.Warn(err, "catalog response is malformed")
		return nil, apperrors.NewParseError(fmt.Sprintf("catalog page %d", page), 0, err)
	}
	if images == nil {
		images = []domain.Image{}
	}

	log.WithFields(map[string]any{
		"count":       len(images),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Debug("catalog page fetched")
	return images, nil
}

// FetchImage retrieves a single image record by identifier.
func (c *Client) FetchImage(ctx context.Context, id domain.ImageID) (domain.Image, error) {
	if strings.TrimSpace(id.String()) == "" {
		return domain.Image{}, apperrors.NewValidationError("id", "must not be empty", nil)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Image{}, apperrors.NewFetchError(0, 0, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		Get("/id/{id}/info")
	if err != nil {
		return domain.Image{}, apperrors.NewFetchError(0, 0, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return domain.Image{}, apperrors.NewFetchError(0, resp.StatusCode(),
			fmt.Errorf("image %s: unexpected response %s", id, resp.Status()))
	}

	var img domain.Image
	if err := json.Unmarshal(resp.Body(), &img); err != nil {
		return domain.Image{}, apperrors.NewParseError("image "+id.String(), 0, err)
	}
	if img.ID == "" {
		img.ID = id
	}
	return img, nil
}

// ImageURL returns a reference to the image resized by the catalog service.
func (c *Client) ImageURL(id domain.ImageID, width, height int) string {
	return fmt.Sprintf("%s/id/%s/%d/%d", c.baseURL, url.PathEscape(id.String()), width, height)
}

var (
	_ ports.CatalogClient   = (*Client)(nil)
	_ ports.ImageLookup     = (*Client)(nil)
	_ ports.ImageURLBuilder = (*Client)(nil)
)
