package charts

import (
	"slices"
	"strings"
	"time"

	"github.com/justestif/go-valence-map/internal/countries"
)

// LatestSnapshot keeps, for each country, only the rows dated on that
// country's most recent snapshot. Countries are not aligned to a common date.
// Rows with no country or no parseable date never qualify.
func LatestSnapshot(rows []ChartRow) []ChartRow {
	latest := make(map[string]time.Time)
	for _, r := range rows {
		if r.Country == "" || r.Date == nil {
			continue
		}
		if cur, ok := latest[r.Country]; !ok || r.Date.After(cur) {
			latest[r.Country] = *r.Date
		}
	}

	var out []ChartRow
	for _, r := range rows {
		if r.Country == "" || r.Date == nil {
			continue
		}
		if r.Date.Equal(latest[r.Country]) {
			out = append(out, r)
		}
	}
	return out
}

// TopN keeps rows ranked n or better. Rows without a numeric rank are dropped.
func TopN(rows []ChartRow, n int) []ChartRow {
	var out []ChartRow
	for _, r := range rows {
		if r.Rank != nil && *r.Rank <= float64(n) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate computes the mean valence per country label, ordered by label.
// Rows without a valence do not contribute; countries left with no
// contributing rows are absent from the result.
func Aggregate(rows []ChartRow) []CountryAggregate {
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[string]*acc)
	for _, r := range rows {
		if r.Country == "" || r.Valence == nil {
			continue
		}
		a, ok := sums[r.Country]
		if !ok {
			a = &acc{}
			sums[r.Country] = a
		}
		a.sum += *r.Valence
		a.count++
	}

	out := make([]CountryAggregate, 0, len(sums))
	for country, a := range sums {
		out = append(out, CountryAggregate{
			Country:     country,
			MeanValence: a.sum / float64(a.count),
			Rows:        a.count,
		})
	}
	slices.SortFunc(out, func(a, b CountryAggregate) int {
		return strings.Compare(a.Country, b.Country)
	})
	return out
}

// Resolution is the outcome of attaching ISO codes to aggregates.
type Resolution struct {
	Aggregates []CountryAggregate
	Unresolved []string // labels with no ISO code
	Duplicates []string // labels whose ISO3 an earlier label already took
}

// ResolveAggregates attaches ISO codes to each aggregate. Aggregates whose
// label cannot be resolved are dropped, as are later labels resolving to an
// ISO3 already taken. Dropped labels are reported in input order.
func ResolveAggregates(aggs []CountryAggregate, resolver *countries.Resolver) Resolution {
	var res Resolution
	taken := make(map[string]bool)

	for _, a := range aggs {
		code, ok := resolver.Resolve(a.Country)
		switch {
		case !ok:
			res.Unresolved = append(res.Unresolved, a.Country)
			continue
		case taken[code.ISO3]:
			res.Duplicates = append(res.Duplicates, a.Country)
			continue
		}
		taken[code.ISO3] = true
		a.Code = code
		res.Aggregates = append(res.Aggregates, a)
	}
	return res
}

// ResolveRows keeps the rows whose label produced one of aggs and tags them
// with that aggregate's codes, so candidates always come from the rows
// behind the plotted mean.
func ResolveRows(rows []ChartRow, aggs []CountryAggregate) []CodedRow {
	codes := make(map[string]countries.Code, len(aggs))
	for _, a := range aggs {
		codes[a.Country] = a.Code
	}

	out := make([]CodedRow, 0, len(rows))
	for _, r := range rows {
		code, ok := codes[r.Country]
		if !ok {
			continue
		}
		out = append(out, CodedRow{ChartRow: r, Code: code})
	}
	return out
}

// MeanByISO3 indexes aggregate means by ISO3 code.
func MeanByISO3(aggs []CountryAggregate) map[string]float64 {
	m := make(map[string]float64, len(aggs))
	for _, a := range aggs {
		m[a.Code.ISO3] = a.MeanValence
	}
	return m
}
