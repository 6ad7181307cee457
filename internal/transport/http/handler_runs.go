package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// writeInsertError maps a child-row insert failure: a foreign key violation
// means the run does not exist.
func writeInsertError(w http.ResponseWriter, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		WriteHTTPError(w, http.StatusNotFound, "run_not_found")
		return
	}
	WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
}

type RunHandlers struct {
	store         *store.Store
	viewerSvc     *viewer.Service
	screenshotDir string
}

func NewRunHandlers(st *store.Store, viewerSvc *viewer.Service, screenshotDir string) *RunHandlers {
	return &RunHandlers{store: st, viewerSvc: viewerSvc, screenshotDir: screenshotDir}
}

type createRunRequest struct {
	RunCode     string     `json:"run_code"`
	Seed        string     `json:"seed"`
	Deck        string     `json:"deck"`
	Stake       string     `json:"stake"`
	Status      string     `json:"status"`
	Won         bool       `json:"won"`
	FinalAnte   int        `json:"final_ante"`
	FinalScore  *int64     `json:"final_score"`
	EndlessAnte *int       `json:"endless_ante"`
	Notes       string     `json:"notes"`
	LLMModel    string     `json:"llm_model"`
	StrategyID  string     `json:"strategy_id"`
	PlayedAt    *time.Time `json:"played_at"`
}

func (h *RunHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RunCode == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		run, err := h.store.CreateRun(r.Context(), store.CreateRunParams{
			RunCode:     req.RunCode,
			Seed:        req.Seed,
			Deck:        req.Deck,
			Stake:       req.Stake,
			Status:      req.Status,
			Won:         req.Won,
			FinalAnte:   req.FinalAnte,
			FinalScore:  req.FinalScore,
			EndlessAnte: req.EndlessAnte,
			Notes:       req.Notes,
			LLMModel:    req.LLMModel,
			StrategyID:  req.StrategyID,
			PlayedAt:    req.PlayedAt,
		})
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(run)
	}
}

func (h *RunHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, perPage := ParsePagination(r)
		f := store.ListRunsFilter{
			Deck:   r.URL.Query().Get("deck"),
			Stake:  r.URL.Query().Get("stake"),
			Sort:   r.URL.Query().Get("sort"),
			Order:  r.URL.Query().Get("order"),
			Limit:  perPage,
			Offset: (page - 1) * perPage,
		}
		if v := r.URL.Query().Get("won"); v != "" {
			won := v == "true" || v == "1"
			f.Won = &won
		}
		resp, err := h.viewerSvc.ListRuns(r.Context(), f)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		resp.Page = page
		resp.PerPage = perPage
		resp.Pages = (resp.Total + perPage - 1) / perPage
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *RunHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeDetail(w, r, func() (*viewer.RunDetail, error) {
			return h.viewerSvc.RunDetail(r.Context(), chi.URLParam(r, "run_id"))
		})
	}
}

func (h *RunHandlers) GetByCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeDetail(w, r, func() (*viewer.RunDetail, error) {
			return h.viewerSvc.RunDetailByCode(r.Context(), chi.URLParam(r, "run_code"))
		})
	}
}

func (h *RunHandlers) writeDetail(w http.ResponseWriter, _ *http.Request, fetch func() (*viewer.RunDetail, error)) {
	d, err := fetch()
	if err != nil {
		if errors.Is(err, viewer.ErrRunNotFound) {
			WriteHTTPError(w, http.StatusNotFound, "run_not_found")
			return
		}
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	_ = json.NewEncoder(w).Encode(d)
}

func (h *RunHandlers) Patch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || len(fields) == 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		for k := range fields {
			if !store.PatchableRunField(k) {
				WriteHTTPError(w, http.StatusBadRequest, "field_not_patchable")
				return
			}
		}
		run, err := h.store.PatchRun(r.Context(), chi.URLParam(r, "run_id"), fields)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "run_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(run)
	}
}

// Delete removes the run row (children cascade) and its upload directory.
func (h *RunHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "run_id")
		run, err := h.store.GetRun(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "run_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		filenames, err := h.store.ListRunScreenshotFilenames(r.Context(), id)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if err := h.store.DeleteRun(r.Context(), id); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		dir := filepath.Join(h.screenshotDir, run.RunCode)
		for _, name := range filenames {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Warn().Err(err).Str("path", path).Msg("screenshot cleanup failed")
			}
		}
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("dir", dir).Msg("screenshot dir cleanup failed")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

type jokerRequest struct {
	Name       string `json:"name"`
	Position   int    `json:"position"`
	Edition    string `json:"edition"`
	Eternal    bool   `json:"eternal"`
	Perishable bool   `json:"perishable"`
	Rental     bool   `json:"rental"`
}

func (j jokerRequest) params() store.InsertJokerParams {
	return store.InsertJokerParams{
		Name:       j.Name,
		Position:   j.Position,
		Edition:    j.Edition,
		Eternal:    j.Eternal,
		Perishable: j.Perishable,
		Rental:     j.Rental,
	}
}

func (h *RunHandlers) AddJoker() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jokerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		joker, err := h.store.InsertJoker(r.Context(), chi.URLParam(r, "run_id"), req.params())
		if err != nil {
			writeInsertError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(joker)
	}
}

func (h *RunHandlers) AddJokersBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reqs []jokerRequest
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil || len(reqs) == 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		items := make([]store.InsertJokerParams, len(reqs))
		for i, req := range reqs {
			if req.Name == "" {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			items[i] = req.params()
		}
		jokers, err := h.store.InsertJokersBatch(r.Context(), chi.URLParam(r, "run_id"), items)
		if err != nil {
			writeInsertError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"items": jokers})
	}
}

type roundRequest struct {
	Ante          int    `json:"ante"`
	BlindType     string `json:"blind_type"`
	BossName      string `json:"boss_name"`
	TargetScore   *int64 `json:"target_score"`
	BestHandScore *int64 `json:"best_hand_score"`
	HandsPlayed   *int   `json:"hands_played"`
	DiscardsUsed  *int   `json:"discards_used"`
	Skipped       bool   `json:"skipped"`
	MoneyAfter    *int   `json:"money_after"`
}

func (rr roundRequest) params() store.InsertRoundParams {
	return store.InsertRoundParams{
		Ante:          rr.Ante,
		BlindType:     rr.BlindType,
		BossName:      rr.BossName,
		TargetScore:   rr.TargetScore,
		BestHandScore: rr.BestHandScore,
		HandsPlayed:   rr.HandsPlayed,
		DiscardsUsed:  rr.DiscardsUsed,
		Skipped:       rr.Skipped,
		MoneyAfter:    rr.MoneyAfter,
	}
}

func (h *RunHandlers) AddRound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ante < 1 || req.BlindType == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		round, err := h.store.InsertRound(r.Context(), chi.URLParam(r, "run_id"), req.params())
		if err != nil {
			writeInsertError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(round)
	}
}

func (h *RunHandlers) AddRoundsBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reqs []roundRequest
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil || len(reqs) == 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		items := make([]store.InsertRoundParams, len(reqs))
		for i, req := range reqs {
			if req.Ante < 1 || req.BlindType == "" {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			items[i] = req.params()
		}
		rounds, err := h.store.InsertRoundsBatch(r.Context(), chi.URLParam(r, "run_id"), items)
		if err != nil {
			writeInsertError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"items": rounds})
	}
}

func (h *RunHandlers) AddTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Ante int    `json:"ante"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		tag, err := h.store.InsertTag(r.Context(), chi.URLParam(r, "run_id"), store.InsertTagParams{Ante: req.Ante, Name: req.Name})
		if err != nil {
			writeInsertError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(tag)
	}
}
