// Package web renders the server-side pages of the run viewer. Templates are
// compiled once at startup; handlers pass fully assembled view data in and
// get HTML out.
package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/store"
)

var funcMap = template.FuncMap{
	"fmtTime": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"fmtTimeV": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"trunc": func(s string, n int) string {
		if len(s) > n {
			return s[:n] + "…"
		}
		return s
	},
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
	"pct": func(v float64) int {
		return int(math.Round(v * 100))
	},
	"barWidth": func(percent int) int {
		if percent < 0 {
			percent = -percent
		}
		if percent > 100 {
			percent = 100
		}
		return percent
	},
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
	"jsonPretty": func(raw json.RawMessage) string {
		if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
			return ""
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return string(raw)
		}
		return buf.String()
	},
}

// RunListPage backs the index page; exactly one of Runs, Strategies or Seeds
// is populated depending on Tab.
type RunListPage struct {
	Tab        string
	Runs       []viewer.RunListItem
	Total      int
	Stats      *store.GlobalStats
	Strategies []viewer.StrategyItem
	Seeds      []store.SeedAggregate
	Decks      []string
	Stakes     []string
	Filter     ListFilter
}

// ListFilter echoes the query parameters back into the filter form.
type ListFilter struct {
	Deck  string
	Stake string
	Won   string
	Sort  string
}

type RunDetailPage struct {
	Tab    string
	Detail *viewer.RunDetail
}

type StrategyDetailPage struct {
	Tab    string
	Detail *viewer.StrategyDetail
}

type SeedDetailPage struct {
	Tab    string
	Detail *viewer.SeedDetail
}

// Renderer holds the parsed page templates.
type Renderer struct {
	runList        *template.Template
	strategyList   *template.Template
	seedList       *template.Template
	runDetail      *template.Template
	strategyDetail *template.Template
	seedDetail     *template.Template
}

func NewRenderer() *Renderer {
	page := func(content string) *template.Template {
		return template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplRunTable + content))
	}
	return &Renderer{
		runList:        page(tmplRunList),
		strategyList:   page(tmplStrategyList),
		seedList:       page(tmplSeedList),
		runDetail:      page(tmplRunDetail),
		strategyDetail: page(tmplStrategyDetail),
		seedDetail:     page(tmplSeedDetail),
	}
}

func (r *Renderer) RunList(w http.ResponseWriter, data RunListPage) {
	data.Tab = "games"
	r.render(w, r.runList, data)
}

func (r *Renderer) StrategyList(w http.ResponseWriter, data RunListPage) {
	data.Tab = "strategies"
	r.render(w, r.strategyList, data)
}

func (r *Renderer) SeedList(w http.ResponseWriter, data RunListPage) {
	data.Tab = "seeds"
	r.render(w, r.seedList, data)
}

func (r *Renderer) RunDetail(w http.ResponseWriter, d *viewer.RunDetail) {
	r.render(w, r.runDetail, RunDetailPage{Tab: "games", Detail: d})
}

func (r *Renderer) StrategyDetail(w http.ResponseWriter, d *viewer.StrategyDetail) {
	r.render(w, r.strategyDetail, StrategyDetailPage{Tab: "strategies", Detail: d})
}

func (r *Renderer) SeedDetail(w http.ResponseWriter, d *viewer.SeedDetail) {
	r.render(w, r.seedDetail, SeedDetailPage{Tab: "seeds", Detail: d})
}

func (r *Renderer) render(w http.ResponseWriter, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		log.Error().Err(err).Msg("template render failed")
	}
}
