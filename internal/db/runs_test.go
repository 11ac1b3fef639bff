package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestCountryColumns(t *testing.T) {
	runID := uuid.MustParse("6f1c1d2e-8a7b-4c5d-9e0f-112233445566")
	countries := []RunCountry{
		{ISO3: "MEX", Country: "MX", MeanValence: 0.61, Track: "a", Artists: "x",
			PreviewURL: "https://audio.example/a", Link: strPtr("https://music.example/a"), MoodBand: strPtr("Upbeat")},
		{ISO3: "USA", Country: "US", MeanValence: 0.5, Track: "b", Artists: "y",
			PreviewURL: "https://audio.example/b"},
	}

	cols := countryColumns(runID, countries)

	if diff := cmp.Diff([]string{"MEX", "USA"}, cols.iso3); diff != "" {
		t.Errorf("iso3 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.61, 0.5}, cols.meanValence); diff != "" {
		t.Errorf("meanValence mismatch (-want +got):\n%s", diff)
	}
	if cols.link[0] == nil || *cols.link[0] != "https://music.example/a" {
		t.Errorf("link[0] = %v", cols.link[0])
	}
	if cols.link[1] != nil || cols.moodBand[1] != nil {
		t.Error("missing optional values should stay nil")
	}
	for i, c := range countries {
		if c.RunID != runID {
			t.Errorf("countries[%d].RunID = %v, want %v", i, c.RunID, runID)
		}
	}
}

func TestCountryColumns_Empty(t *testing.T) {
	cols := countryColumns(uuid.New(), nil)
	if len(cols.iso3) != 0 || len(cols.link) != 0 {
		t.Errorf("countryColumns(nil) = %+v, want empty columns", cols)
	}
}
