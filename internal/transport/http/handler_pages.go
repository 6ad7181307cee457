package httptransport

import (
	"errors"
	"net/http"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/store"
	"balatro-run-viewer/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type PageHandlers struct {
	viewerSvc *viewer.Service
	store     *store.Store
	renderer  *web.Renderer
}

func NewPageHandlers(viewerSvc *viewer.Service, st *store.Store) *PageHandlers {
	return &PageHandlers{viewerSvc: viewerSvc, store: st, renderer: web.NewRenderer()}
}

// Index serves the run list with its strategies and seeds tabs.
func (h *PageHandlers) Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("tab") {
		case "strategies":
			h.strategiesTab(w, r)
		case "seeds":
			h.seedsTab(w, r)
		default:
			h.gamesTab(w, r)
		}
	}
}

func (h *PageHandlers) gamesTab(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ListRunsFilter{
		Deck:  q.Get("deck"),
		Stake: q.Get("stake"),
		Sort:  q.Get("sort"),
		Limit: 100,
	}
	if v := q.Get("won"); v != "" {
		won := v == "true"
		f.Won = &won
	}
	list, err := h.viewerSvc.ListRuns(r.Context(), f)
	if err != nil {
		h.fail(w, err)
		return
	}
	stats, err := h.viewerSvc.Stats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	decks, err := h.store.ListDistinctDecks(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	stakes, err := h.store.ListDistinctStakes(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.renderer.RunList(w, web.RunListPage{
		Runs:   list.Runs,
		Total:  list.Total,
		Stats:  stats,
		Decks:  decks,
		Stakes: stakes,
		Filter: web.ListFilter{Deck: f.Deck, Stake: f.Stake, Won: q.Get("won"), Sort: f.Sort},
	})
}

func (h *PageHandlers) strategiesTab(w http.ResponseWriter, r *http.Request) {
	items, err := h.viewerSvc.Strategies(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.renderer.StrategyList(w, web.RunListPage{Strategies: items})
}

func (h *PageHandlers) seedsTab(w http.ResponseWriter, r *http.Request) {
	seeds, err := h.viewerSvc.Seeds(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.renderer.SeedList(w, web.RunListPage{Seeds: seeds})
}

// RunPage serves the detail view for one run code. A missing run redirects
// to the index rather than rendering an error page.
func (h *PageHandlers) RunPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.viewerSvc.RunDetailByCode(r.Context(), chi.URLParam(r, "run_code"))
		if err != nil {
			if errors.Is(err, viewer.ErrRunNotFound) {
				http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
				return
			}
			h.fail(w, err)
			return
		}
		h.renderer.RunDetail(w, d)
	}
}

func (h *PageHandlers) StrategyPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.viewerSvc.StrategyDetail(r.Context(), chi.URLParam(r, "strategy_id"))
		if err != nil {
			if errors.Is(err, viewer.ErrStrategyNotFound) {
				http.Redirect(w, r, "/?tab=strategies", http.StatusTemporaryRedirect)
				return
			}
			h.fail(w, err)
			return
		}
		h.renderer.StrategyDetail(w, d)
	}
}

func (h *PageHandlers) SeedPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.viewerSvc.SeedDetail(r.Context(), chi.URLParam(r, "seed"))
		if err != nil {
			if errors.Is(err, viewer.ErrSeedNotFound) || errors.Is(err, viewer.ErrInvalidRequest) {
				http.Redirect(w, r, "/?tab=seeds", http.StatusTemporaryRedirect)
				return
			}
			h.fail(w, err)
			return
		}
		h.renderer.SeedDetail(w, d)
	}
}

func (h *PageHandlers) fail(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("page render fetch failed")
	http.Error(w, "数据加载失败", http.StatusInternalServerError)
}
