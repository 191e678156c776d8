package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/wpmap/internal/catalog"
	"github.com/woozymasta/wpmap/internal/config"
	"github.com/woozymasta/wpmap/internal/icon"
	"github.com/woozymasta/wpmap/internal/logger"
	"github.com/woozymasta/wpmap/internal/server"
	"github.com/woozymasta/wpmap/internal/source"
	"github.com/woozymasta/wpmap/internal/store"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"      env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr        string `short:"a" long:"addr"        env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port        int    `short:"p" long:"port"        env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	IconDir     string `short:"i" long:"icons"       env:"ICON_DIR"       description:"Icon directory (overrides config)"`
	StoreFile   string `short:"s" long:"store"       env:"STORE_FILE"     description:"Waypoint store file (overrides config)"`
	Concurrency int    `short:"j" long:"concurrency" env:"CONCURRENCY"    description:"Parallel source downloads" default:"4"`
	NoSources   bool   `short:"n" long:"no-sources"  description:"Serve only the store, skip configured sources"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.IconDir != "" {
		cfg.Icons = opts.IconDir
	}
	if opts.StoreFile != "" {
		cfg.Store = opts.StoreFile
	}
	if cfg.Icons == "" {
		cfg.Icons = "icons"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coll := catalog.New(catalog.WithSearchFields(cfg.SearchFields...))

	if !opts.NoSources {
		client := &http.Client{Timeout: 60 * time.Second}
		for _, res := range source.LoadAll(ctx, client, cfg.Sources, opts.Concurrency) {
			if res.Err != nil {
				log.Error().Err(res.Err).Str("source", res.Source.Name).Msg("Failed to load source")
				continue
			}
			coll.PutAll(res.Waypoints)
		}
	}

	// Stored waypoints win over source rows with the same key.
	var st *store.Store
	if cfg.Store != "" {
		st = store.New(cfg.Store)
		stored, err := st.Load()
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Store).Msg("Failed to load store")
		}
		coll.PutAll(stored)
	}

	iconFS := os.DirFS(cfg.Icons)
	fallback := icon.DefaultIcon(16)
	if cfg.DefaultIcon != "" {
		fallback, err = icon.NewCache(iconFS, nil).Load(ctx, cfg.DefaultIcon)
		if err != nil {
			log.Warn().Err(err).Str("icon", cfg.DefaultIcon).Msg("Default icon unavailable")
		}
	}
	icons := icon.NewCache(iconFS, fallback)

	loaded := coll.Len()
	ctl := catalog.NewController(coll)
	go func() {
		if err := ctl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Catalog controller stopped")
		}
	}()

	srvCtx := server.NewServerContext(cfg, ctl, icons, st)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           server.RequestLogger(srvCtx.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("waypoints_loaded", loaded).
		Int("sources", len(cfg.Sources)).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Web server stopped")
}
