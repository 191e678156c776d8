package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/wpmap/internal/catalog"
	"github.com/woozymasta/wpmap/internal/config"
	"github.com/woozymasta/wpmap/internal/logger"
	"github.com/woozymasta/wpmap/internal/source"
	"github.com/woozymasta/wpmap/internal/store"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	StoreFile   string   `short:"s" long:"store"       env:"STORE_FILE"   description:"Waypoint store file (overrides config)"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_NAMES"  description:"Limit processing to specific source names"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY"  description:"Concurrency" default:"4"`
	Force       bool     `short:"f" long:"force"       description:"Replace stored waypoints instead of merging into them"`
	DryRun      bool     `short:"n" long:"dry-run"     description:"Read sources but do not write the store"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.StoreFile != "" {
		cfg.Store = opts.StoreFile
	}
	if cfg.Store == "" {
		log.Fatal().Msg("No store file configured")
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	// Filter sources if limit is set
	sourcesToProcess := cfg.Sources
	if len(opts.Limit) > 0 {
		sourcesToProcess = make([]config.Source, 0)
		availableSources := make(map[string]config.Source)
		for _, src := range cfg.Sources {
			availableSources[src.Name] = src
		}

		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if src, ok := availableSources[limitName]; ok {
				sourcesToProcess = append(sourcesToProcess, src)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Source specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("sources_total", len(cfg.Sources)).
		Int("sources_queued", len(sourcesToProcess)).
		Bool("force", opts.Force).
		Msg("Starting loader")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(cfg.Store)
	coll := catalog.New()

	if !opts.Force {
		existing, err := st.Load()
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Store).Msg("Failed to read store")
		}
		coll.PutAll(existing)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	failed := 0
	for _, res := range source.LoadAll(ctx, client, sourcesToProcess, opts.Concurrency) {
		if res.Err != nil {
			log.Error().Err(res.Err).Str("source", res.Source.Name).Msg("Failed to process source")
			failed++
			continue
		}
		coll.PutAll(res.Waypoints)
	}

	if opts.DryRun {
		log.Info().Int("waypoints", coll.Len()).Msg("Dry run, store not written")
		return
	}

	if err := st.Save(coll.All()); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store).Msg("Failed to write store")
	}

	log.Info().
		Int("waypoints", coll.Len()).
		Int("sources_failed", failed).
		Str("store", cfg.Store).
		Msg("Loader finished successfully")

	if failed > 0 {
		os.Exit(2)
	}
}
