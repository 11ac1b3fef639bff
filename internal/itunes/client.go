// Package itunes looks up track previews through the iTunes Search API.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/justestif/go-valence-map/internal/preview"
)

const (
	// DefaultBaseURL is the public search endpoint.
	DefaultBaseURL = "https://itunes.apple.com/search"

	// DefaultTimeout bounds each lookup.
	DefaultTimeout = 8 * time.Second

	// DefaultCountry is the storefront used when a track's country is unknown.
	DefaultCountry = "US"

	userAgent = "go-valence-map/1.0"
)

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	DefaultCountry string
	RatePerSec     float64 // 0 disables throttling
}

// Client queries the iTunes Search API for one song per lookup.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	defaultCountry string
	limiter        *rate.Limiter // nil when unthrottled
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = DefaultCountry
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		defaultCountry: cfg.DefaultCountry,
	}
	if cfg.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	return c
}

// Lookup searches for q and returns the first result's preview.
// It never fails: transport errors, timeouts, bad statuses and undecodable
// bodies are reported through the Result's failure reason.
func (c *Client) Lookup(ctx context.Context, q preview.Query) preview.Result {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return preview.Failed(preview.ReasonCanceled, err)
		}
	}

	country := strings.TrimSpace(q.Country)
	if country == "" {
		country = c.defaultCountry
	}

	params := url.Values{
		"term":    {q.Term()},
		"entity":  {"song"},
		"limit":   {"1"},
		"country": {country},
	}

	body, reason, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return preview.Failed(reason, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return preview.Failed(preview.ReasonMalformed, fmt.Errorf("parsing search response: %w", err))
	}

	if len(resp.Results) == 0 || resp.Results[0].PreviewURL == "" {
		return preview.Failed(preview.ReasonNotFound, nil)
	}

	first := resp.Results[0]
	return preview.Found(preview.Preview{
		URL:  first.PreviewURL,
		Link: first.TrackViewURL,
	})
}

// doRequest performs a single GET. There is no retry: a failed lookup is
// left to the caller, which moves on to its next candidate.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, preview.Reason, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, preview.ReasonTransport, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, preview.Classify(err), fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, preview.ReasonStatus, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, preview.Classify(err), fmt.Errorf("reading response body: %w", err)
	}

	return body, preview.ReasonNone, nil
}
