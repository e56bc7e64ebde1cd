package freeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/RobBrazier/bookshelf/internal/metrics"
	"github.com/RobBrazier/bookshelf/internal/model"
	"github.com/RobBrazier/bookshelf/internal/version"
)

type userAgentTransport struct {
	agent   string
	wrapped http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.agent)
	req.Header.Set("Accept", "application/json")
	return t.wrapped.RoundTrip(req)
}

type Client struct {
	baseURL string
	client  *retryablehttp.Client
	limiter *rate.Limiter
	strip   *bluemonday.Policy
}

type Option = func(*Client)

// WithRetries sets how many extra attempts are made on connection errors and
// 5xx responses. The default is none.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.client.RetryMax = retries
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.HTTPClient.Timeout = timeout
	}
}

// WithRateLimit caps outgoing requests per second; zero or less disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.client.HTTPClient.Transport = &userAgentTransport{
			agent:   version.UserAgent(),
			wrapped: transport,
		}
	}
}

func NewClient(baseURL string, options ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Timeout: 15 * time.Second,
		Transport: &userAgentTransport{
			agent:   version.UserAgent(),
			wrapped: http.DefaultTransport,
		},
	}
	retryClient.RetryMax = 0
	retryClient.Logger = slog.Default()
	// hand back the last response so the caller sees the real status code
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL: baseURL,
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Inf, 1),
		strip:   bluemonday.StrictPolicy(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) pageURL(page, size int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPage requests one page and decodes the envelope.
func (c *Client) FetchPage(ctx context.Context, page, size int) (*PageResponse, error) {
	start := time.Now()
	log := log.With().Int("page", page).Int("size", size).Logger()

	resp, err := c.fetch(ctx, page, size)
	metrics.RemoteFetchDuration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.RemoteFetchTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		log.Debug().Dur("elapsed", time.Since(start)).Int("books", len(resp.Data.Data)).Msg("Fetched page")
	case StatusCode(err) != 0:
		metrics.RemoteFetchTotal.WithLabelValues(metrics.OutcomeBadStatus).Inc()
		log.Warn().Err(err).Msg("Remote returned an error status")
	case isMalformed(err):
		metrics.RemoteFetchTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
		log.Warn().Err(err).Msg("Remote returned a malformed body")
	default:
		metrics.RemoteFetchTotal.WithLabelValues(metrics.OutcomeError).Inc()
		log.Error().Err(err).Msg("Page fetch failed")
	}
	return resp, err
}

func (c *Client) fetch(ctx context.Context, page, size int) (*PageResponse, error) {
	target, err := c.pageURL(page, size)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Code: res.StatusCode, URL: target}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading page %d: %w", page, err)
	}
	if err := validateEnvelope(body); err != nil {
		return nil, err
	}
	var out PageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

// Page implements the book source used by the pager.
func (c *Client) Page(ctx context.Context, page, size int) ([]model.Book, error) {
	resp, err := c.FetchPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return c.mapBooks(resp.Data.Data), nil
}

func (c *Client) mapBook(source Volume) model.Book {
	info := source.VolumeInfo
	return model.Book{
		ID:             string(source.ID),
		Title:          info.Title,
		Subtitle:       info.Subtitle,
		Authors:        info.Authors,
		Publisher:      info.Publisher,
		PublishedDate:  info.PublishedDate,
		Description:    c.plainText(info.Description),
		PageCount:      info.PageCount,
		Categories:     info.Categories,
		Thumbnail:      info.ImageLinks.Thumbnail,
		SmallThumbnail: info.ImageLinks.SmallThumbnail,
		InfoLink:       info.InfoLink,
	}
}

func (c *Client) mapBooks(source []Volume) []model.Book {
	books := make([]model.Book, 0, len(source))
	for _, volume := range source {
		books = append(books, c.mapBook(volume))
	}
	return books
}

// plainText drops any markup from description fields; templates escape the
// result again on output.
func (c *Client) plainText(value string) string {
	if value == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(c.strip.Sanitize(value)))
}
