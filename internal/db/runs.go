package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository handles run archive operations.
type RunRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a run with its plotted countries in one transaction.
// A nil run ID is replaced with a fresh one.
func (r *RunRepository) Create(ctx context.Context, run *Run, countries []RunCountry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	runQuery := `
		INSERT INTO runs (id, started_at, finished_at, input_path, output_path, provider,
			rows_loaded, countries_aggregated, countries_plotted, lookup_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, runQuery,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.InputPath,
		run.OutputPath,
		run.Provider,
		run.RowsLoaded,
		run.CountriesAggregated,
		run.CountriesPlotted,
		run.LookupAttempts,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if len(countries) > 0 {
		cols := countryColumns(run.ID, countries)
		countriesQuery := `
			INSERT INTO run_countries (run_id, iso3, country, mean_valence, track, artists,
				preview_url, link, mood_band)
			SELECT $1::uuid, * FROM unnest($2::text[], $3::text[], $4::float8[], $5::text[],
				$6::text[], $7::text[], $8::text[], $9::text[])
		`
		_, err = tx.Exec(ctx, countriesQuery,
			run.ID,
			cols.iso3,
			cols.country,
			cols.meanValence,
			cols.track,
			cols.artists,
			cols.previewURL,
			cols.link,
			cols.moodBand,
		)
		if err != nil {
			return fmt.Errorf("inserting run countries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, started_at, finished_at, input_path, output_path, provider,
			rows_loaded, countries_aggregated, countries_plotted, lookup_attempts, created_at
		FROM runs
		WHERE id = $1
	`
	var run Run
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.InputPath,
		&run.OutputPath,
		&run.Provider,
		&run.RowsLoaded,
		&run.CountriesAggregated,
		&run.CountriesPlotted,
		&run.LookupAttempts,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return &run, nil
}

// List retrieves the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, started_at, finished_at, input_path, output_path, provider,
			rows_loaded, countries_aggregated, countries_plotted, lookup_attempts, created_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.InputPath,
			&run.OutputPath,
			&run.Provider,
			&run.RowsLoaded,
			&run.CountriesAggregated,
			&run.CountriesPlotted,
			&run.LookupAttempts,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetCountries retrieves the plotted countries of a run, ordered by ISO3.
func (r *RunRepository) GetCountries(ctx context.Context, runID uuid.UUID) ([]RunCountry, error) {
	query := `
		SELECT run_id, iso3, country, mean_valence, track, artists, preview_url, link, mood_band
		FROM run_countries
		WHERE run_id = $1
		ORDER BY iso3
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run countries: %w", err)
	}
	defer rows.Close()

	var out []RunCountry
	for rows.Next() {
		var c RunCountry
		if err := rows.Scan(
			&c.RunID,
			&c.ISO3,
			&c.Country,
			&c.MeanValence,
			&c.Track,
			&c.Artists,
			&c.PreviewURL,
			&c.Link,
			&c.MoodBand,
		); err != nil {
			return nil, fmt.Errorf("scanning run country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// countryArrays holds run_countries values column by column for unnest.
type countryArrays struct {
	iso3        []string
	country     []string
	meanValence []float64
	track       []string
	artists     []string
	previewURL  []string
	link        []*string
	moodBand    []*string
}

func countryColumns(runID uuid.UUID, countries []RunCountry) countryArrays {
	n := len(countries)
	cols := countryArrays{
		iso3:        make([]string, n),
		country:     make([]string, n),
		meanValence: make([]float64, n),
		track:       make([]string, n),
		artists:     make([]string, n),
		previewURL:  make([]string, n),
		link:        make([]*string, n),
		moodBand:    make([]*string, n),
	}
	for i := range countries {
		countries[i].RunID = runID
		c := countries[i]
		cols.iso3[i] = c.ISO3
		cols.country[i] = c.Country
		cols.meanValence[i] = c.MeanValence
		cols.track[i] = c.Track
		cols.artists[i] = c.Artists
		cols.previewURL[i] = c.PreviewURL
		cols.link[i] = c.Link
		cols.moodBand[i] = c.MoodBand
	}
	return cols
}
