package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"balatro-run-viewer/internal/catalog"
	"balatro-run-viewer/internal/config"
	"balatro-run-viewer/internal/logging"
	"balatro-run-viewer/internal/store"
	httptransport "balatro-run-viewer/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	if err := os.MkdirAll(cfg.ScreenshotDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ScreenshotDir).Msg("screenshot dir init failed")
	}

	cat, err := catalog.Load(cfg.JokerCatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.JokerCatalogPath).Msg("joker catalog load failed")
	}
	log.Info().Int("jokers", len(cat.All())).Msg("joker catalog loaded")

	r := httptransport.NewRouter(st, cfg, cat)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
