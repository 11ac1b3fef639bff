// Package config loads runtime settings for the valence map generator.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is read when present and no explicit config path is given.
	DefaultFile = "valence-map.yaml"

	// EnvFile is loaded into the process environment when present.
	EnvFile = ".env"

	envPrefix = "VALENCE_MAP_"
)

// Preview providers.
const (
	ProviderITunes  = "itunes"
	ProviderSpotify = "spotify"
)

// Sentinel errors.
var (
	// ErrInvalid is returned when a setting is out of range.
	ErrInvalid = errors.New("invalid configuration")

	// ErrMissingCredentials is returned when the Spotify provider is selected
	// without SPOTIFY_ID and SPOTIFY_SECRET.
	ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET environment variable")
)

// Config holds every tunable of a run. The zero-argument defaults reproduce
// the fixed behaviour of the tool.
type Config struct {
	InputPath      string        `yaml:"input_path"`
	OutputPath     string        `yaml:"output_path"`
	TopN           int           `yaml:"top_n"`
	Provider       string        `yaml:"provider"`
	ITunesURL      string        `yaml:"itunes_url"`
	DefaultCountry string        `yaml:"default_country"`
	LookupTimeout  time.Duration `yaml:"lookup_timeout"`
	LookupRate     float64       `yaml:"lookup_rate_per_sec"` // 0 means unlimited
	MoodBands      int           `yaml:"mood_bands"`
	LogLevel       string        `yaml:"log_level"`
	ServeAddr      string        `yaml:"serve_addr"`

	// Secrets come from the environment only.
	DatabaseURL   string `yaml:"-"`
	SpotifyID     string `yaml:"-"`
	SpotifySecret string `yaml:"-"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		InputPath:      "universal_top_spotify_songs.csv",
		OutputPath:     "mapa_valence_preview.html",
		TopN:           50,
		Provider:       ProviderITunes,
		ITunesURL:      "https://itunes.apple.com/search",
		DefaultCountry: "US",
		LookupTimeout:  8 * time.Second,
		MoodBands:      3,
		LogLevel:       "warn",
		ServeAddr:      "127.0.0.1:8080",
	}
}

// Load builds a Config from defaults, an optional YAML file, an optional
// .env file and the environment, in that order of precedence.
// An empty path reads DefaultFile if it exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file is fine.
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", EnvFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overrides fields from VALENCE_MAP_* variables and the
// provider/database secrets.
func (c *Config) applyEnv() error {
	str := map[string]*string{
		"INPUT":           &c.InputPath,
		"OUTPUT":          &c.OutputPath,
		"PROVIDER":        &c.Provider,
		"ITUNES_URL":      &c.ITunesURL,
		"DEFAULT_COUNTRY": &c.DefaultCountry,
		"LOG_LEVEL":       &c.LogLevel,
		"SERVE_ADDR":      &c.ServeAddr,
	}
	for key, dst := range str {
		if v := os.Getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv(envPrefix + "TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sTOP_N=%q", ErrInvalid, envPrefix, v)
		}
		c.TopN = n
	}
	if v := os.Getenv(envPrefix + "MOOD_BANDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sMOOD_BANDS=%q", ErrInvalid, envPrefix, v)
		}
		c.MoodBands = n
	}
	if v := os.Getenv(envPrefix + "LOOKUP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sLOOKUP_TIMEOUT=%q", ErrInvalid, envPrefix, v)
		}
		c.LookupTimeout = d
	}
	if v := os.Getenv(envPrefix + "LOOKUP_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sLOOKUP_RATE=%q", ErrInvalid, envPrefix, v)
		}
		c.LookupRate = f
	}

	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.SpotifyID = os.Getenv("SPOTIFY_ID")
	c.SpotifySecret = os.Getenv("SPOTIFY_SECRET")

	return nil
}

// Validate checks the configuration for a pipeline run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("%w: input path is empty", ErrInvalid)
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalid)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalid, c.TopN)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("%w: lookup_timeout must be positive, got %s", ErrInvalid, c.LookupTimeout)
	}
	if c.LookupRate < 0 {
		return fmt.Errorf("%w: lookup_rate_per_sec must not be negative", ErrInvalid)
	}
	if c.MoodBands <= 0 {
		return fmt.Errorf("%w: mood_bands must be positive, got %d", ErrInvalid, c.MoodBands)
	}
	if len(c.DefaultCountry) != 2 {
		return fmt.Errorf("%w: default_country must be a 2-letter code, got %q", ErrInvalid, c.DefaultCountry)
	}

	switch c.Provider {
	case ProviderITunes:
		if c.ITunesURL == "" {
			return fmt.Errorf("%w: itunes_url is empty", ErrInvalid)
		}
	case ProviderSpotify:
		if c.SpotifyID == "" || c.SpotifySecret == "" {
			return ErrMissingCredentials
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}

	return nil
}
