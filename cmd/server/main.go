package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/meur/reliquary/internal/api"
	"github.com/meur/reliquary/internal/config"
	"github.com/meur/reliquary/internal/service"
	"github.com/meur/reliquary/internal/session"
	"github.com/meur/reliquary/internal/upstream"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	// Parse flags (env values from config act as defaults)
	port := flag.String("port", cfg.Port, "Server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite session database path")
	flag.Parse()

	// Initialize session store
	store, err := session.New(*dbPath, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer store.Close()

	selections := session.NewSelections()

	// Upstream clients for the status feed and drop search
	client := upstream.NewClient(
		cfg.StatusURL,
		cfg.DropSearchURL,
		cfg.PublicHost,
		cfg.APIBaseURL,
		upstream.WithTimeout(cfg.RequestTimeout),
	)

	svc := service.New(client, store, selections)

	// Create router
	r := api.New(svc, store, cfg.AllowedOrigins)

	// Periodically drop expired sessions and their in-memory selections
	go sweepLoop(store, selections, cfg.SessionTTL)

	// Serve frontend static files (for production deployment)
	workDir, _ := os.Getwd()
	filesDir := http.Dir(filepath.Join(workDir, cfg.StaticDir))
	r.Static("/", filesDir)

	log.Info().Str("port", *port).Str("db", *dbPath).Msg("Reliquary API starting")

	if err := http.ListenAndServe(":"+*port, r); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func sweepLoop(store *session.Store, selections *session.Selections, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if expired := store.Sweep(); len(expired) > 0 {
			selections.Remove(expired...)
			log.Debug().Int("count", len(expired)).Msg("Swept expired sessions")
		}
	}
}
