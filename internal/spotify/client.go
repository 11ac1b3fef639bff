// Package spotify provides a track-preview finder backed by the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// searcher is the subset of *spotify.Client used by Client.
type searcher interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
}

// Client wraps the Spotify API client with preview lookups.
type Client struct {
	api            searcher
	timeout        time.Duration
	defaultCountry string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each lookup.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDefaultCountry sets the market used when a query has no country.
func WithDefaultCountry(code string) Option {
	return func(c *Client) {
		if code != "" {
			c.defaultCountry = code
		}
	}
}

// NewWithCredentials authenticates with the client-credentials flow, which
// is enough for catalog search and needs no user login.
func NewWithCredentials(ctx context.Context, clientID, clientSecret string, opts ...Option) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client credentials are empty")
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	return newClient(spotify.New(cc.Client(ctx)), opts...), nil
}

func newClient(api searcher, opts ...Option) *Client {
	c := &Client{
		api:            api,
		timeout:        8 * time.Second,
		defaultCountry: "US",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
