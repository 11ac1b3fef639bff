// Package pipeline composes the chart, matching and rendering stages into a
// single run that writes the valence map document.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/go-valence-map/internal/charts"
	"github.com/justestif/go-valence-map/internal/clustering"
	"github.com/justestif/go-valence-map/internal/countries"
	"github.com/justestif/go-valence-map/internal/db"
	"github.com/justestif/go-valence-map/internal/matcher"
	"github.com/justestif/go-valence-map/internal/preview"
	"github.com/justestif/go-valence-map/internal/render"
)

// RunStore archives finished runs. *db.RunRepository satisfies it.
type RunStore interface {
	Create(ctx context.Context, run *db.Run, countries []db.RunCountry) error
}

// Settings are the per-run parameters.
type Settings struct {
	InputPath  string
	OutputPath string
	TopN       int
	MoodBands  int
	Provider   string // recorded in the archive only
}

// Result describes a completed run.
type Result struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	OutputPath string

	RowsLoaded          int
	SnapshotRows        int // latest-snapshot rows within the top N
	CountriesAggregated int
	Unresolved          []string // aggregate labels with no ISO code
	Duplicates          []string // aggregate labels sharing an ISO3 with an earlier label
	Records             []render.PlotRecord
	Bands               []clustering.Band
	Lookups             matcher.Stats
	Archived            bool
}

// Pipeline runs the stages in order. It holds no state between runs.
type Pipeline struct {
	settings Settings
	finder   preview.Finder
	renderer *render.Renderer
	store    RunStore
	logger   *zap.Logger
	progress matcher.ProgressFunc
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithStore enables archiving of each run.
func WithStore(s RunStore) Option {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithProgress registers a callback invoked after each country is matched.
func WithProgress(fn matcher.ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// New creates a Pipeline.
func New(settings Settings, finder preview.Finder, renderer *render.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		settings: settings,
		finder:   finder,
		renderer: renderer,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full pass. Lookup failures never fail the run; any other
// error aborts it before the output file is touched, except archive errors,
// which are logged after the document has been written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:      uuid.New(),
		StartedAt:  p.now(),
		OutputPath: p.settings.OutputPath,
	}
	log := p.logger.With(zap.String("run_id", res.RunID.String()))

	rows, err := charts.LoadFile(p.settings.InputPath)
	if err != nil {
		return nil, fmt.Errorf("loading charts: %w", err)
	}
	res.RowsLoaded = len(rows)
	log.Debug("loaded chart rows", zap.Int("rows", len(rows)), zap.String("path", p.settings.InputPath))

	top, aggs := filterAndAggregate(rows, p.settings.TopN)
	res.SnapshotRows = len(top)
	res.CountriesAggregated = len(aggs)

	resolution := charts.ResolveAggregates(aggs, countries.NewResolver())
	resolved := resolution.Aggregates
	res.Unresolved = resolution.Unresolved
	res.Duplicates = resolution.Duplicates
	if len(res.Unresolved) > 0 {
		log.Debug("dropped unresolved countries", zap.Strings("labels", res.Unresolved))
	}
	if len(res.Duplicates) > 0 {
		log.Debug("dropped duplicate country labels", zap.Strings("labels", res.Duplicates))
	}

	m := matcher.New(p.finder, matcher.WithLogger(log), matcher.WithProgress(p.progress))
	cands, stats, err := m.Select(ctx, charts.ResolveRows(top, resolved), charts.MeanByISO3(resolved))
	res.Lookups = stats
	if err != nil {
		return nil, fmt.Errorf("matching previews: %w", err)
	}

	res.Records = render.Join(resolved, cands)

	res.Bands, err = moodBands(res.Records, p.settings.MoodBands)
	if err != nil {
		// Bands only feed the summary and the archive.
		log.Warn("mood bands unavailable", zap.Error(err))
	}

	doc, err := p.renderer.Render(res.Records)
	if err != nil {
		return nil, err
	}
	if err := render.WriteFile(p.settings.OutputPath, doc); err != nil {
		return nil, fmt.Errorf("writing %s: %w", p.settings.OutputPath, err)
	}
	res.FinishedAt = p.now()

	if p.store != nil {
		if err := p.archive(ctx, res); err != nil {
			log.Warn("archiving run failed", zap.Error(err))
		} else {
			res.Archived = true
		}
	}

	logSummary(log, res)
	return res, nil
}

// filterAndAggregate keeps each country's latest top-n rows and averages
// their valence.
func filterAndAggregate(rows []charts.ChartRow, n int) ([]charts.ChartRow, []charts.CountryAggregate) {
	top := charts.TopN(charts.LatestSnapshot(rows), n)
	return top, charts.Aggregate(top)
}

func moodBands(records []render.PlotRecord, k int) ([]clustering.Band, error) {
	points := make([]clustering.CountryValence, len(records))
	for i, r := range records {
		points[i] = clustering.CountryValence{ISO3: r.ISO3, Valence: r.MeanValence}
	}
	return clustering.DetectMoodBands(points, k)
}

func (p *Pipeline) archive(ctx context.Context, res *Result) error {
	run := &db.Run{
		ID:                  res.RunID,
		StartedAt:           res.StartedAt,
		FinishedAt:          res.FinishedAt,
		InputPath:           p.settings.InputPath,
		OutputPath:          p.settings.OutputPath,
		Provider:            p.settings.Provider,
		RowsLoaded:          res.RowsLoaded,
		CountriesAggregated: res.CountriesAggregated,
		CountriesPlotted:    len(res.Records),
		LookupAttempts:      res.Lookups.Attempts,
	}
	return p.store.Create(ctx, run, runCountries(res.Records, res.Bands))
}

func runCountries(records []render.PlotRecord, bands []clustering.Band) []db.RunCountry {
	out := make([]db.RunCountry, len(records))
	for i, r := range records {
		out[i] = db.RunCountry{
			ISO3:        r.ISO3,
			Country:     r.Country,
			MeanValence: r.MeanValence,
			Track:       r.Track,
			Artists:     r.Artists,
			PreviewURL:  r.PreviewURL,
			Link:        optional(r.Link),
			MoodBand:    optional(clustering.BandOf(bands, r.ISO3)),
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
