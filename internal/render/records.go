// Package render builds the choropleth document for plotted countries and
// injects the audio preview player.
package render

import (
	"github.com/justestif/go-valence-map/internal/charts"
	"github.com/justestif/go-valence-map/internal/matcher"
)

// PlotRecord is a country with both a valence aggregate and a preview.
type PlotRecord struct {
	ISO3        string
	Country     string
	MeanValence float64
	PreviewURL  string
	Link        string
	Track       string
	Artists     string
}

// CustomData is the auxiliary tuple the player reads on hover and click:
// preview URL, link, track name, artist names.
func (p PlotRecord) CustomData() [4]string {
	return [4]string{p.PreviewURL, p.Link, p.Track, p.Artists}
}

// Join inner-joins aggregates and candidates on ISO3, in aggregate order.
func Join(aggs []charts.CountryAggregate, cands []matcher.Candidate) []PlotRecord {
	byISO3 := make(map[string]matcher.Candidate, len(cands))
	for _, c := range cands {
		byISO3[c.ISO3] = c
	}

	var out []PlotRecord
	for _, a := range aggs {
		c, ok := byISO3[a.Code.ISO3]
		if !ok {
			continue
		}
		out = append(out, PlotRecord{
			ISO3:        a.Code.ISO3,
			Country:     a.Country,
			MeanValence: a.MeanValence,
			PreviewURL:  c.PreviewURL,
			Link:        c.Link,
			Track:       c.Track,
			Artists:     c.Artists,
		})
	}
	return out
}
