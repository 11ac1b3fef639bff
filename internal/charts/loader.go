package charts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// LoadFile reads chart rows from a CSV file.
func LoadFile(path string) ([]ChartRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart file: %w", err)
	}
	defer f.Close()

	rows, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return rows, nil
}

// Load parses chart rows from CSV. Header names are matched after trimming
// and lower-casing. Unparseable dates, ranks and valences are kept as nil.
func Load(r io.Reader) ([]ChartRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	field := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []ChartRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		line++

		rows = append(rows, ChartRow{
			Line:    line,
			Country: strings.TrimSpace(field(record, ColCountry)),
			Track:   field(record, ColTrack),
			Artists: field(record, ColArtists),
			Date:    parseDate(field(record, ColDate)),
			Rank:    parseNumber(field(record, ColRank)),
			Valence: parseNumber(field(record, ColValence)),
		})
	}

	return rows, nil
}

// parseDate coerces a snapshot date, returning nil when the value is not
// recognizable as a date. Values without a zone are read as UTC.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// parseNumber coerces a numeric cell, returning nil for blanks, text and NaN.
func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
