package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VALENCE_MAP_INPUT", "VALENCE_MAP_OUTPUT", "VALENCE_MAP_PROVIDER",
		"VALENCE_MAP_ITUNES_URL", "VALENCE_MAP_DEFAULT_COUNTRY", "VALENCE_MAP_LOG_LEVEL",
		"VALENCE_MAP_SERVE_ADDR", "VALENCE_MAP_TOP_N", "VALENCE_MAP_MOOD_BANDS",
		"VALENCE_MAP_LOOKUP_TIMEOUT", "VALENCE_MAP_LOOKUP_RATE",
		"DATABASE_URL", "SPOTIFY_ID", "SPOTIFY_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	yamlBody := "input_path: charts.csv\ntop_n: 10\nlookup_timeout: 3s\nprovider: itunes\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VALENCE_MAP_TOP_N", "25")
	t.Setenv("DATABASE_URL", "postgres://localhost/valence")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InputPath != "charts.csv" {
		t.Errorf("InputPath = %q, want charts.csv", cfg.InputPath)
	}
	if cfg.TopN != 25 {
		t.Errorf("TopN = %d, want 25 (env overrides file)", cfg.TopN)
	}
	if cfg.LookupTimeout != 3*time.Second {
		t.Errorf("LookupTimeout = %s, want 3s", cfg.LookupTimeout)
	}
	if cfg.DatabaseURL != "postgres://localhost/valence" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("Load() with missing explicit file returned nil error")
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("VALENCE_MAP_LOOKUP_TIMEOUT", "soon")

	_, err := Load("")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty input", mutate: func(c *Config) { c.InputPath = " " }, wantErr: ErrInvalid},
		{name: "empty output", mutate: func(c *Config) { c.OutputPath = "" }, wantErr: ErrInvalid},
		{name: "zero top n", mutate: func(c *Config) { c.TopN = 0 }, wantErr: ErrInvalid},
		{name: "zero timeout", mutate: func(c *Config) { c.LookupTimeout = 0 }, wantErr: ErrInvalid},
		{name: "negative rate", mutate: func(c *Config) { c.LookupRate = -1 }, wantErr: ErrInvalid},
		{name: "bad default country", mutate: func(c *Config) { c.DefaultCountry = "USA" }, wantErr: ErrInvalid},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "deezer" }, wantErr: ErrInvalid},
		{
			name:    "spotify without credentials",
			mutate:  func(c *Config) { c.Provider = ProviderSpotify },
			wantErr: ErrMissingCredentials,
		},
		{
			name: "spotify with credentials",
			mutate: func(c *Config) {
				c.Provider = ProviderSpotify
				c.SpotifyID = "id"
				c.SpotifySecret = "secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
