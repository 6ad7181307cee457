package viewer

import (
	"balatro-run-viewer/internal/store"
	"balatro-run-viewer/internal/timeline"
)

// RunListItem is one row of the run list with its derived display fields.
type RunListItem struct {
	store.Run
	RunProjection
	Progress   string                 `json:"progress_display"`
	ScoreStats *store.ScoreErrorStats `json:"score_stats,omitempty"`
}

// RunList is a page of the run index.
type RunList struct {
	Runs    []RunListItem `json:"runs"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Pages   int           `json:"pages"`
}

// JokerView is a run joker resolved against the catalog. Known is false when
// the catalog has no entry; callers fall back to the raw name.
type JokerView struct {
	store.Joker
	NameZh   string `json:"name_zh,omitempty"`
	Image    string `json:"image,omitempty"`
	EffectEn string `json:"effect_en,omitempty"`
	EffectZh string `json:"effect_zh,omitempty"`
	Known    bool   `json:"known"`
}

// ScoreBadge is rendered next to screenshots that carry both an estimated and
// an actual hand score.
type ScoreBadge struct {
	Estimated int64             `json:"estimated"`
	Actual    int64             `json:"actual"`
	Percent   int               `json:"percent"`
	Class     timeline.Accuracy `json:"class"`
}

// TimelineEntry is one screenshot in render order. Boundary and AnchorID are
// set only on the first entry of a segment.
type TimelineEntry struct {
	Screenshot store.Screenshot   `json:"screenshot"`
	ImageURL   string             `json:"image_url"`
	Source     timeline.Source    `json:"source,omitempty"`
	Boundary   *timeline.Boundary `json:"boundary,omitempty"`
	AnchorID   string             `json:"anchor_id,omitempty"`
	Score      *ScoreBadge        `json:"score,omitempty"`
}

// TOCItem links the run detail table of contents to a segment anchor.
type TOCItem struct {
	AnchorID string `json:"anchor_id"`
	Label    string `json:"label"`
}

// RunDetail is everything the run detail page shows.
type RunDetail struct {
	Run store.Run `json:"run"`
	RunProjection
	Progress   string                 `json:"progress_display"`
	Jokers     []JokerView            `json:"jokers"`
	Rounds     []store.Round          `json:"rounds"`
	Tags       []store.Tag            `json:"tags"`
	Timeline   []TimelineEntry        `json:"timeline"`
	TOC        []TOCItem              `json:"toc"`
	ScoreStats *store.ScoreErrorStats `json:"score_stats,omitempty"`
}

// StrategyItem is one row of the strategy index.
type StrategyItem struct {
	store.StrategyAggregate
	WinRate string `json:"win_rate"`
}

// StrategyDetail is a strategy with its lineage, run aggregates and runs.
type StrategyDetail struct {
	Strategy  store.Strategy   `json:"strategy"`
	Ancestors []store.Strategy `json:"ancestors"`
	Children  []store.Strategy `json:"children"`
	Runs      []RunListItem    `json:"runs"`
	RunCount  int              `json:"run_count"`
	Wins      int              `json:"wins"`
	WinRate   string           `json:"win_rate"`
	AvgAnte   *float64         `json:"avg_ante"`
}

// StrategyRef is a link target on pages that list the strategies behind a
// group of runs.
type StrategyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SeedDetail groups every run played on one seed with the seed's aggregates.
type SeedDetail struct {
	Seed       string        `json:"seed"`
	Runs       []RunListItem `json:"runs"`
	RunCount   int           `json:"run_count"`
	Wins       int           `json:"wins"`
	WinRate    string        `json:"win_rate"`
	BestAnte   int           `json:"best_ante"`
	AvgAnte    *float64      `json:"avg_ante"`
	Strategies []StrategyRef `json:"strategies"`
}
