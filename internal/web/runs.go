package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/go-valence-map/internal/db"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// RunReader reads archived runs. *db.RunRepository satisfies it.
type RunReader interface {
	List(ctx context.Context, limit int) ([]db.Run, error)
	Get(ctx context.Context, id uuid.UUID) (*db.Run, error)
	GetCountries(ctx context.Context, runID uuid.UUID) ([]db.RunCountry, error)
}

type runResponse struct {
	ID                  string    `json:"id"`
	StartedAt           time.Time `json:"started_at"`
	FinishedAt          time.Time `json:"finished_at"`
	InputPath           string    `json:"input_path"`
	OutputPath          string    `json:"output_path"`
	Provider            string    `json:"provider"`
	RowsLoaded          int       `json:"rows_loaded"`
	CountriesAggregated int       `json:"countries_aggregated"`
	CountriesPlotted    int       `json:"countries_plotted"`
	LookupAttempts      int       `json:"lookup_attempts"`
}

type countryResponse struct {
	ISO3        string  `json:"iso3"`
	Country     string  `json:"country"`
	MeanValence float64 `json:"mean_valence"`
	Track       string  `json:"track"`
	Artists     string  `json:"artists"`
	PreviewURL  string  `json:"preview_url"`
	Link        string  `json:"link,omitempty"`
	MoodBand    string  `json:"mood_band,omitempty"`
}

type runDetailResponse struct {
	runResponse
	Countries []countryResponse `json:"countries"`
}

func newRunResponse(r db.Run) runResponse {
	return runResponse{
		ID:                  r.ID.String(),
		StartedAt:           r.StartedAt,
		FinishedAt:          r.FinishedAt,
		InputPath:           r.InputPath,
		OutputPath:          r.OutputPath,
		Provider:            r.Provider,
		RowsLoaded:          r.RowsLoaded,
		CountriesAggregated: r.CountriesAggregated,
		CountriesPlotted:    r.CountriesPlotted,
		LookupAttempts:      r.LookupAttempts,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// listRuns handles GET /runs?limit=N.
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing runs", zap.Error(err))
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	out := make([]runResponse, len(runs))
	for i, run := range runs {
		out[i] = newRunResponse(run)
	}
	s.writeJSON(w, out)
}

// getRun handles GET /runs/{id}.
func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	run, err := s.runs.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("getting run", zap.String("id", id.String()), zap.Error(err))
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	countries, err := s.runs.GetCountries(r.Context(), id)
	if err != nil {
		s.logger.Error("getting run countries", zap.String("id", id.String()), zap.Error(err))
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	detail := runDetailResponse{
		runResponse: newRunResponse(*run),
		Countries:   make([]countryResponse, len(countries)),
	}
	for i, c := range countries {
		detail.Countries[i] = countryResponse{
			ISO3:        c.ISO3,
			Country:     c.Country,
			MeanValence: c.MeanValence,
			Track:       c.Track,
			Artists:     c.Artists,
			PreviewURL:  c.PreviewURL,
			Link:        deref(c.Link),
			MoodBand:    deref(c.MoodBand),
		}
	}
	s.writeJSON(w, detail)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}
