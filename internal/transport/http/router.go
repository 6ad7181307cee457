package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/catalog"
	"balatro-run-viewer/internal/config"
	"balatro-run-viewer/internal/store"
	"balatro-run-viewer/internal/ws"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, cfg config.ServerConfig, cat *catalog.Catalog) *chi.Mux {
	viewerSvc := viewer.New(st, cat)
	runHandlers := NewRunHandlers(st, viewerSvc, cfg.ScreenshotDir)
	shotHandlers := NewScreenshotHandlers(st, cfg.ScreenshotDir, cfg.MaxUploadBytes())
	metaHandlers := NewMetaHandlers(st, viewerSvc, cat)
	pageHandlers := NewPageHandlers(viewerSvc, st)
	watchServer := ws.NewServer(viewerSvc, cfg.RefreshInterval())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", metaHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/runs", runHandlers.List())
		r.Get("/runs/{run_id}", runHandlers.Get())
		r.Get("/runs/by-code/{run_code}", runHandlers.GetByCode())
		r.Get("/stats", metaHandlers.Stats())
		r.Get("/jokers/catalog", metaHandlers.JokerCatalog())
		r.Get("/jokers/lookup/{name}", metaHandlers.JokerLookup())
		r.Get("/strategies", metaHandlers.Strategies())
		r.Get("/strategies/{strategy_id}", metaHandlers.StrategyDetail())
		r.Get("/seeds", metaHandlers.Seeds())
		r.Get("/seeds/{seed}", metaHandlers.SeedDetail())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/runs", runHandlers.Create())
			r.Patch("/runs/{run_id}", runHandlers.Patch())
			r.Delete("/runs/{run_id}", runHandlers.Delete())
			r.Post("/runs/{run_id}/jokers", runHandlers.AddJoker())
			r.Post("/runs/{run_id}/jokers/batch", runHandlers.AddJokersBatch())
			r.Post("/runs/{run_id}/rounds", runHandlers.AddRound())
			r.Post("/runs/{run_id}/rounds/batch", runHandlers.AddRoundsBatch())
			r.Post("/runs/{run_id}/tags", runHandlers.AddTag())
			r.Post("/runs/{run_id}/screenshots", shotHandlers.Upload())
			r.Delete("/screenshots/{screenshot_id}", shotHandlers.Delete())

			r.Route("/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/ping", metaHandlers.Health())
			})
		})
	})

	r.Get("/ws/runs/{run_code}", watchServer.HandleRunWatch)

	r.Handle("/screenshots/*", http.StripPrefix("/screenshots/", http.FileServer(http.Dir(cfg.ScreenshotDir))))

	r.Get("/", pageHandlers.Index())
	r.Get("/runs/{run_code}", pageHandlers.RunPage())
	r.Get("/strategies/{strategy_id}", pageHandlers.StrategyPage())
	r.Get("/seeds/{seed}", pageHandlers.SeedPage())

	// Unknown pages bounce to the list rather than a bare 404.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			WriteHTTPError(w, http.StatusNotFound, "not_found")
			return
		}
		http.Redirect(w, req, "/", http.StatusTemporaryRedirect)
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
