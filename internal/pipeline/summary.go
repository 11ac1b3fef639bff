package pipeline

import (
	"go.uber.org/zap"

	"github.com/justestif/go-valence-map/internal/clustering"
)

// logSummary writes the end-of-run report.
func logSummary(log *zap.Logger, res *Result) {
	failures := make(map[string]int, len(res.Lookups.Failures))
	for reason, n := range res.Lookups.Failures {
		failures[reason.String()] = n
	}

	log.Info("run complete",
		zap.Int("rows_loaded", res.RowsLoaded),
		zap.Int("snapshot_rows", res.SnapshotRows),
		zap.Int("countries_aggregated", res.CountriesAggregated),
		zap.Int("countries_unresolved", len(res.Unresolved)),
		zap.Int("countries_duplicate", len(res.Duplicates)),
		zap.Int("countries_plotted", len(res.Records)),
		zap.Int("lookups", res.Lookups.Attempts),
		zap.Any("lookup_failures", failures),
		zap.Bool("archived", res.Archived),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)),
	)

	if len(res.Bands) == 0 {
		return
	}
	log.Info(clustering.FormatBandHeadline(res.Bands))
	for i, b := range res.Bands {
		log.Info(clustering.FormatBand(i+1, b), zap.Strings("countries", b.Countries))
	}
}
