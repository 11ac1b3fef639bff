package db

import (
	"time"

	"github.com/google/uuid"
)

// Run is one archived pipeline execution.
type Run struct {
	ID                  uuid.UUID
	StartedAt           time.Time
	FinishedAt          time.Time
	InputPath           string
	OutputPath          string
	Provider            string
	RowsLoaded          int
	CountriesAggregated int
	CountriesPlotted    int
	LookupAttempts      int
	CreatedAt           time.Time
}

// RunCountry is one plotted country of a run.
type RunCountry struct {
	RunID       uuid.UUID
	ISO3        string
	Country     string
	MeanValence float64
	Track       string
	Artists     string
	PreviewURL  string
	Link        *string // nullable
	MoodBand    *string // nullable
}
