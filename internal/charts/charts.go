// Package charts loads daily per-country chart rankings and derives
// per-country valence aggregates.
package charts

import (
	"time"

	"github.com/justestif/go-valence-map/internal/countries"
)

// Column names after header normalization.
const (
	ColCountry = "country"
	ColValence = "valence"
	ColRank    = "daily_rank"
	ColDate    = "snapshot_date"
	ColTrack   = "name"
	ColArtists = "artists"
)

// RequiredColumns lists the columns every input file must carry.
var RequiredColumns = []string{ColCountry, ColValence, ColRank, ColDate, ColTrack, ColArtists}

// ChartRow is one track's ranking in one country on one day.
type ChartRow struct {
	Line    int // 1-based line number in the source file
	Country string
	Track   string
	Artists string
	// Coerced fields (nil when the raw value is missing or unparseable)
	Date    *time.Time
	Rank    *float64
	Valence *float64
}

// CodedRow is a ChartRow whose country resolved to ISO codes.
type CodedRow struct {
	ChartRow
	Code countries.Code
}

// CountryAggregate is the mean valence of a country's latest top-N rows.
type CountryAggregate struct {
	Country     string // label as it appears in the input
	Code        countries.Code
	MeanValence float64
	Rows        int // rows that contributed to the mean
}
