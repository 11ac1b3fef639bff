// Package matcher picks, per country, the chart track whose valence is
// closest to the country mean and for which a preview can be found.
package matcher

import (
	"context"
	"math"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/justestif/go-valence-map/internal/charts"
	"github.com/justestif/go-valence-map/internal/preview"
)

// Candidate is the representative track selected for a country.
type Candidate struct {
	ISO3       string
	ISO2       string
	Country    string
	Track      string
	Artists    string
	Valence    float64
	Distance   float64 // |valence - country mean|
	PreviewURL string
	Link       string
	Attempts   int // lookups made for this country, including the successful one
}

// Stats summarizes the lookups performed by a Select call.
type Stats struct {
	Countries int // countries scanned
	Matched   int // countries with a candidate
	Attempts  int // total lookups
	Failures  map[preview.Reason]int
}

// ProgressFunc is called after each country is scanned.
type ProgressFunc func(done, total int)

// Matcher selects candidates using a preview.Finder.
type Matcher struct {
	finder   preview.Finder
	logger   *zap.Logger
	progress ProgressFunc
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used for per-country diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(m *Matcher) {
		m.progress = fn
	}
}

// New creates a Matcher.
func New(finder preview.Finder, opts ...Option) *Matcher {
	m := &Matcher{
		finder: finder,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// scored is a candidate row with its distance to the country mean.
type scored struct {
	row      charts.CodedRow
	distance float64
}

// Select scans countries in ISO3 order. For each country with a mean in
// means, rows are tried by increasing distance to the mean (ties keep input
// order; rows without a valence go last) until a lookup yields a preview.
// Countries where every lookup fails are omitted. Lookups run one at a time.
// The only error returned is the context's.
func (m *Matcher) Select(ctx context.Context, rows []charts.CodedRow, means map[string]float64) ([]Candidate, Stats, error) {
	groups := make(map[string][]charts.CodedRow)
	for _, r := range rows {
		if r.Code.ISO3 == "" {
			continue
		}
		groups[r.Code.ISO3] = append(groups[r.Code.ISO3], r)
	}

	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	stats := Stats{Failures: make(map[preview.Reason]int)}
	var out []Candidate

	for i, code := range codes {
		if err := ctx.Err(); err != nil {
			return out, stats, err
		}

		mean, ok := means[code]
		if ok {
			stats.Countries++
			if c, found := m.selectCountry(ctx, groups[code], mean, &stats); found {
				out = append(out, c)
				stats.Matched++
			} else {
				m.logger.Debug("no preview for country", zap.String("iso3", code))
			}
		}

		if m.progress != nil {
			m.progress(i+1, len(codes))
		}
	}

	return out, stats, nil
}

// selectCountry walks one country's rows in distance order.
func (m *Matcher) selectCountry(ctx context.Context, rows []charts.CodedRow, mean float64, stats *Stats) (Candidate, bool) {
	ordered := rankRows(rows, mean)

	for attempt, s := range ordered {
		if ctx.Err() != nil {
			return Candidate{}, false
		}

		q := preview.Query{
			Track:   s.row.Track,
			Artists: s.row.Artists,
			Country: s.row.Code.ISO2,
		}
		res := m.finder.Lookup(ctx, q)
		stats.Attempts++

		if !res.OK() {
			reason := res.Failure
			if reason == preview.ReasonNone {
				reason = preview.ReasonNotFound
			}
			stats.Failures[reason]++
			if res.Err != nil {
				m.logger.Debug("preview lookup failed",
					zap.String("iso3", s.row.Code.ISO3),
					zap.String("term", q.Term()),
					zap.Stringer("reason", reason),
					zap.Error(res.Err))
			}
			continue
		}

		var valence float64
		if s.row.Valence != nil {
			valence = *s.row.Valence
		}
		return Candidate{
			ISO3:       s.row.Code.ISO3,
			ISO2:       s.row.Code.ISO2,
			Country:    s.row.Country,
			Track:      s.row.Track,
			Artists:    s.row.Artists,
			Valence:    valence,
			Distance:   s.distance,
			PreviewURL: res.Preview.URL,
			Link:       res.Preview.Link,
			Attempts:   attempt + 1,
		}, true
	}

	return Candidate{}, false
}

// rankRows orders rows by |valence - mean|, keeping input order on ties.
// Rows without a valence sort after every scored row.
func rankRows(rows []charts.CodedRow, mean float64) []scored {
	out := make([]scored, len(rows))
	for i, r := range rows {
		d := math.Inf(1)
		if r.Valence != nil {
			d = math.Abs(*r.Valence - mean)
		}
		out[i] = scored{row: r, distance: d}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].distance < out[j].distance
	})
	return out
}
