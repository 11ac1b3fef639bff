package clustering

import "fmt"

// FormatBandHeadline returns a one-line overview of mood bands.
func FormatBandHeadline(bands []Band) string {
	if len(bands) == 0 {
		return "No mood bands (no countries plotted)"
	}

	total := 0
	for _, b := range bands {
		total += len(b.Countries)
	}

	return fmt.Sprintf("Found %d mood %s across %d %s",
		len(bands), plural(len(bands), "band", "bands"),
		total, plural(total, "country", "countries"))
}

// FormatBand describes a single band without its country list.
func FormatBand(num int, b Band) string {
	return fmt.Sprintf("Band %d: %s (valence %.2f, %d %s)",
		num, b.Name, b.Centroid, len(b.Countries),
		plural(len(b.Countries), "country", "countries"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
