package main

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justestif/go-valence-map/internal/config"
	"github.com/justestif/go-valence-map/internal/db"
	"github.com/justestif/go-valence-map/internal/itunes"
	"github.com/justestif/go-valence-map/internal/pipeline"
	"github.com/justestif/go-valence-map/internal/preview"
	"github.com/justestif/go-valence-map/internal/render"
	"github.com/justestif/go-valence-map/internal/spotify"
	webfs "github.com/justestif/go-valence-map/web"
)

var colorSuccess = color.New(color.FgGreen)

// loadConfig merges file, environment and explicitly set flags.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.InputPath = f.input
	}
	if changed("output") {
		cfg.OutputPath = f.output
	}
	if changed("top") {
		cfg.TopN = f.topN
	}
	if changed("provider") {
		cfg.Provider = f.provider
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("addr") {
		cfg.ServeAddr = f.addr
	}

	return cfg, nil
}

func runGenerate(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()

	finder, linkLabel, err := newFinder(ctx, cfg)
	if err != nil {
		return err
	}

	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}
	renderer, err := render.NewRenderer(templates, render.WithLinkLabel(linkLabel))
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}

	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			// The archive is optional; the map is still produced.
			logger.Warn("archive disabled", zap.Error(err))
		} else {
			defer database.Close()
			opts = append(opts, pipeline.WithStore(database.Runs()))
		}
	}

	var bar *pb.ProgressBar
	if errOut := cmd.ErrOrStderr(); isTerminal(errOut) {
		bar = pb.New(0)
		bar.SetWriter(errOut)
		bar.SetTemplateString(`{{ string . "prefix" }} {{ bar . }} {{ counters . }}`)
		bar.Set("prefix", "Matching previews")
		opts = append(opts, pipeline.WithProgress(func(done, total int) {
			if done == 1 {
				bar.SetTotal(int64(total))
				bar.Start()
			}
			bar.SetCurrent(int64(done))
		}))
	}

	p := pipeline.New(pipeline.Settings{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		TopN:       cfg.TopN,
		MoodBands:  cfg.MoodBands,
		Provider:   cfg.Provider,
	}, finder, renderer, opts...)

	res, err := p.Run(ctx)
	if bar != nil && bar.IsStarted() {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	colorSuccess.Fprintf(cmd.OutOrStdout(), "Listo: se generó %s con previews de %s.\n", res.OutputPath, linkLabel)
	return nil
}

// newFinder builds the configured preview provider and the label used for
// its deep links.
func newFinder(ctx context.Context, cfg config.Config) (preview.Finder, string, error) {
	switch cfg.Provider {
	case config.ProviderSpotify:
		client, err := spotify.NewWithCredentials(ctx, cfg.SpotifyID, cfg.SpotifySecret,
			spotify.WithTimeout(cfg.LookupTimeout),
			spotify.WithDefaultCountry(cfg.DefaultCountry),
		)
		if err != nil {
			return nil, "", fmt.Errorf("creating spotify client: %w", err)
		}
		return client, "Spotify", nil
	default:
		return itunes.NewClient(itunes.Config{
			BaseURL:        cfg.ITunesURL,
			Timeout:        cfg.LookupTimeout,
			DefaultCountry: cfg.DefaultCountry,
			RatePerSec:     cfg.LookupRate,
		}), render.DefaultLinkLabel, nil
	}
}
