package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"balatro-run-viewer/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var allowedScreenshotExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

type ScreenshotHandlers struct {
	store    *store.Store
	dir      string
	maxBytes int64
}

func NewScreenshotHandlers(st *store.Store, dir string, maxBytes int64) *ScreenshotHandlers {
	return &ScreenshotHandlers{store: st, dir: dir, maxBytes: maxBytes}
}

// Upload accepts one multipart image with its caption and optional scores.
// The file lands under <dir>/<run_code>/<ulid><ext>; score_error is derived
// when both scores arrive and the actual score is nonzero.
func (h *ScreenshotHandlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "run_id")
		run, err := h.store.GetRun(r.Context(), runID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "run_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			WriteHTTPError(w, http.StatusRequestEntityTooLarge, "file_too_large")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedScreenshotExts[ext] {
			WriteHTTPError(w, http.StatusBadRequest, "unsupported_file_type")
			return
		}
		if header.Size > h.maxBytes {
			WriteHTTPError(w, http.StatusRequestEntityTooLarge, "file_too_large")
			return
		}

		params := store.InsertScreenshotParams{
			RoundID:      r.FormValue("round_id"),
			Filename:     store.NewScreenshotName(ext),
			OriginalName: header.Filename,
			Caption:      r.FormValue("caption"),
			EventType:    r.FormValue("event_type"),
			FileSize:     header.Size,
		}
		params.EstimatedScore = parseInt64Form(r, "estimated_score")
		params.ActualScore = parseInt64Form(r, "actual_score")
		if params.EstimatedScore != nil && params.ActualScore != nil && *params.ActualScore != 0 {
			e := float64(*params.EstimatedScore-*params.ActualScore) / float64(*params.ActualScore)
			params.ScoreError = &e
		}

		dir := filepath.Join(h.dir, run.RunCode)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		dst := filepath.Join(dir, params.Filename)
		if err := saveFile(dst, file); err != nil {
			log.Error().Err(err).Str("path", dst).Msg("screenshot write failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}

		shot, err := h.store.InsertScreenshot(r.Context(), runID, params)
		if err != nil {
			_ = os.Remove(dst)
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(shot)
	}
}

// Delete removes the screenshot row and its file.
func (h *ScreenshotHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "screenshot_id")
		shot, err := h.store.GetScreenshot(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "screenshot_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		run, err := h.store.GetRun(r.Context(), shot.RunID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if err := h.store.DeleteScreenshot(r.Context(), id); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		path := filepath.Join(h.dir, run.RunCode, shot.Filename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("screenshot file cleanup failed")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func saveFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return err
	}
	return dst.Close()
}

func parseInt64Form(r *http.Request, key string) *int64 {
	v := r.FormValue(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
