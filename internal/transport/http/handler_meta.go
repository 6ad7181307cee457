package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/catalog"
	"balatro-run-viewer/internal/store"

	"github.com/go-chi/chi/v5"
)

type MetaHandlers struct {
	store     *store.Store
	viewerSvc *viewer.Service
	catalog   *catalog.Catalog
}

func NewMetaHandlers(st *store.Store, viewerSvc *viewer.Service, cat *catalog.Catalog) *MetaHandlers {
	return &MetaHandlers{store: st, viewerSvc: viewerSvc, catalog: cat}
}

func (h *MetaHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *MetaHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.viewerSvc.Stats(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(stats)
	}
}

func (h *MetaHandlers) JokerCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"items": h.catalog.All()})
	}
}

func (h *MetaHandlers) JokerLookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		info, ok := h.catalog.Lookup(name)
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "joker_not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(info)
	}
}

func (h *MetaHandlers) Strategies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.viewerSvc.Strategies(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func (h *MetaHandlers) StrategyDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.viewerSvc.StrategyDetail(r.Context(), chi.URLParam(r, "strategy_id"))
		if err != nil {
			if errors.Is(err, viewer.ErrStrategyNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "strategy_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(d)
	}
}

func (h *MetaHandlers) Seeds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.viewerSvc.Seeds(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func (h *MetaHandlers) SeedDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.viewerSvc.SeedDetail(r.Context(), chi.URLParam(r, "seed"))
		if err != nil {
			switch {
			case errors.Is(err, viewer.ErrInvalidRequest):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			case errors.Is(err, viewer.ErrSeedNotFound):
				WriteHTTPError(w, http.StatusNotFound, "seed_not_found")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		_ = json.NewEncoder(w).Encode(d)
	}
}
