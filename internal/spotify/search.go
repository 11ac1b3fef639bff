package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-valence-map/internal/preview"
)

// Lookup searches the catalog for q and returns the top track's preview.
// Failures are folded into the Result.
func (c *Client) Lookup(ctx context.Context, q preview.Query) preview.Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	market := q.Country
	if market == "" {
		market = c.defaultCountry
	}

	res, err := c.api.Search(ctx, q.Term(), spotify.SearchTypeTrack, spotify.Limit(1), spotify.Market(market))
	if err != nil {
		var apiErr spotify.Error
		if errors.As(err, &apiErr) {
			return preview.Failed(preview.ReasonStatus, fmt.Errorf("searching tracks: %w", err))
		}
		return preview.Failed(preview.Classify(err), fmt.Errorf("searching tracks: %w", err))
	}

	if res == nil || res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
		return preview.Failed(preview.ReasonNotFound, nil)
	}

	p := convertTrack(res.Tracks.Tracks[0])
	if p.URL == "" {
		return preview.Failed(preview.ReasonNotFound, nil)
	}
	return preview.Found(p)
}

// convertTrack extracts the preview sample and the web deep link.
func convertTrack(t spotify.FullTrack) preview.Preview {
	return preview.Preview{
		URL:  t.PreviewURL,
		Link: t.ExternalURLs["spotify"],
	}
}
