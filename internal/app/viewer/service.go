// Package viewer assembles the read-side views of recorded runs: list
// projections, the segmented screenshot timeline, strategy lineage and seed
// groupings. It owns no state beyond its store and catalog handles; every
// view is rebuilt from storage on each call.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"balatro-run-viewer/internal/catalog"
	"balatro-run-viewer/internal/store"
	"balatro-run-viewer/internal/timeline"
)

type Service struct {
	st  *store.Store
	cat *catalog.Catalog
}

func New(st *store.Store, cat *catalog.Catalog) *Service {
	return &Service{st: st, cat: cat}
}

// ListRuns returns one page of the run index plus the unpaged total.
func (s *Service) ListRuns(ctx context.Context, f store.ListRunsFilter) (*RunList, error) {
	runs, err := s.st.ListRuns(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.st.CountRuns(ctx, f)
	if err != nil {
		return nil, err
	}
	stats, err := s.st.ScoreErrorStatsByRun(ctx)
	if err != nil {
		return nil, err
	}
	return &RunList{Runs: listItems(runs, stats), Total: total}, nil
}

// RunDetail assembles the full detail view for a run id.
func (s *Service) RunDetail(ctx context.Context, id string) (*RunDetail, error) {
	run, err := s.st.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return s.assembleDetail(ctx, run)
}

// RunDetailByCode is RunDetail keyed by the public run code.
func (s *Service) RunDetailByCode(ctx context.Context, code string) (*RunDetail, error) {
	id, err := s.st.GetRunIDByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return s.RunDetail(ctx, id)
}

func (s *Service) assembleDetail(ctx context.Context, run *store.Run) (*RunDetail, error) {
	jokers, err := s.st.ListRunJokers(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	rounds, err := s.st.ListRunRounds(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	tags, err := s.st.ListRunTags(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	shots, err := s.st.ListRunScreenshots(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	entries, toc := s.Timeline(run.RunCode, shots)
	d := &RunDetail{
		Run:           *run,
		RunProjection: ProjectRun(*run),
		Progress:      ProgressBadge(*run),
		Jokers:        s.resolveJokers(jokers),
		Rounds:        rounds,
		Tags:          tags,
		Timeline:      entries,
		TOC:           toc,
	}
	if st := scoreStats(shots); st != nil {
		st.RunID = run.ID
		d.ScoreStats = st
	}
	return d, nil
}

// Timeline segments an ordered screenshot stream into render entries and
// builds the matching table of contents. The fold is pure, so a refresh that
// re-runs it over a longer stream reproduces every earlier boundary.
func (s *Service) Timeline(runCode string, shots []store.Screenshot) ([]TimelineEntry, []TOCItem) {
	captions := make([]timeline.Caption, len(shots))
	for i, sh := range shots {
		captions[i] = timeline.Caption{Caption: sh.Caption, EventType: sh.EventType}
	}
	segmented := timeline.Segment(captions)

	entries := make([]TimelineEntry, len(shots))
	var toc []TOCItem
	seen := make(map[string]bool)
	for i, seg := range segmented {
		e := TimelineEntry{
			Screenshot: shots[i],
			ImageURL:   ScreenshotURL(runCode, shots[i].Filename),
			Source:     seg.Parsed.Source,
			Score:      scoreBadge(shots[i]),
		}
		if seg.Boundary != nil {
			e.Boundary = seg.Boundary
			e.AnchorID = anchorID(seg.Boundary)
			if !seen[e.AnchorID] {
				seen[e.AnchorID] = true
				toc = append(toc, TOCItem{AnchorID: e.AnchorID, Label: seg.Boundary.Label})
			}
		}
		entries[i] = e
	}
	return entries, toc
}

// Strategies returns the strategy index with win-rate projections.
func (s *Service) Strategies(ctx context.Context) ([]StrategyItem, error) {
	aggs, err := s.st.ListStrategies(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]StrategyItem, len(aggs))
	for i, a := range aggs {
		items[i] = StrategyItem{StrategyAggregate: a, WinRate: winRate(a.Wins, a.RunCount)}
	}
	return items, nil
}

// StrategyDetail assembles one strategy with its ancestry and runs.
func (s *Service) StrategyDetail(ctx context.Context, id string) (*StrategyDetail, error) {
	strat, err := s.st.GetStrategy(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStrategyNotFound
		}
		return nil, err
	}
	ancestors, err := s.st.ListStrategyAncestors(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.st.ListStrategyChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	runs, err := s.st.ListRunsByStrategy(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &StrategyDetail{
		Strategy:  *strat,
		Ancestors: ancestors,
		Children:  children,
		Runs:      listItems(runs, nil),
		RunCount:  len(runs),
	}
	for _, r := range runs {
		if r.Won {
			d.Wins++
		}
	}
	d.WinRate = winRate(d.Wins, d.RunCount)
	d.AvgAnte = avgAnte(runs)
	return d, nil
}

// SeedDetail returns every run played on one seed, newest first.
func (s *Service) SeedDetail(ctx context.Context, seed string) (*SeedDetail, error) {
	if seed == "" {
		return nil, ErrInvalidRequest
	}
	runs, err := s.st.ListRunsBySeed(ctx, seed)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrSeedNotFound
	}
	d := &SeedDetail{Seed: seed, Runs: listItems(runs, nil), RunCount: len(runs)}
	seenStrats := make(map[string]bool)
	for _, r := range runs {
		if r.Won {
			d.Wins++
		}
		if r.FinalAnte > d.BestAnte {
			d.BestAnte = r.FinalAnte
		}
		if r.StrategyID != "" && !seenStrats[r.StrategyID] {
			seenStrats[r.StrategyID] = true
			d.Strategies = append(d.Strategies, StrategyRef{ID: r.StrategyID, Name: r.StrategyName})
		}
	}
	d.WinRate = winRate(d.Wins, d.RunCount)
	d.AvgAnte = avgAnte(runs)
	return d, nil
}

// Seeds returns the per-seed aggregates for the seed tab.
func (s *Service) Seeds(ctx context.Context) ([]store.SeedAggregate, error) {
	return s.st.ListSeedAggregates(ctx)
}

// Stats returns the global summary counters.
func (s *Service) Stats(ctx context.Context) (*store.GlobalStats, error) {
	return s.st.GetGlobalStats(ctx)
}

func (s *Service) resolveJokers(jokers []store.Joker) []JokerView {
	views := make([]JokerView, len(jokers))
	for i, j := range jokers {
		views[i] = JokerView{Joker: j}
		if info, ok := s.cat.Lookup(j.Name); ok {
			views[i].NameZh = info.NameZh
			views[i].Image = info.Image
			views[i].EffectEn = info.EffectEn
			views[i].EffectZh = info.EffectZh
			views[i].Known = true
		}
	}
	return views
}

// ScreenshotURL is the public path a stored screenshot is served under.
func ScreenshotURL(runCode, filename string) string {
	return fmt.Sprintf("/screenshots/%s/%s", runCode, filename)
}

func listItems(runs []store.Run, stats map[string]store.ScoreErrorStats) []RunListItem {
	items := make([]RunListItem, len(runs))
	for i, r := range runs {
		items[i] = RunListItem{
			Run:           r,
			RunProjection: ProjectRun(r),
			Progress:      ProgressBadge(r),
		}
		if st, ok := stats[r.ID]; ok {
			stCopy := st
			items[i].ScoreStats = &stCopy
		}
	}
	return items
}

func scoreBadge(sh store.Screenshot) *ScoreBadge {
	if sh.EstimatedScore == nil || sh.ActualScore == nil {
		return nil
	}
	var errVal float64
	switch {
	case sh.ScoreError != nil:
		errVal = *sh.ScoreError
	case *sh.ActualScore != 0:
		errVal = float64(*sh.EstimatedScore-*sh.ActualScore) / float64(*sh.ActualScore)
	}
	return &ScoreBadge{
		Estimated: *sh.EstimatedScore,
		Actual:    *sh.ActualScore,
		Percent:   timeline.AccuracyPercent(errVal),
		Class:     timeline.ClassifyAccuracy(errVal),
	}
}

func scoreStats(shots []store.Screenshot) *store.ScoreErrorStats {
	var st store.ScoreErrorStats
	for _, sh := range shots {
		if sh.ScoreError == nil {
			continue
		}
		abs := math.Abs(*sh.ScoreError)
		st.Count++
		st.AvgErr += abs
		if abs > st.MaxErr {
			st.MaxErr = abs
		}
	}
	if st.Count == 0 {
		return nil
	}
	st.AvgErr /= float64(st.Count)
	return &st
}

func anchorID(b *timeline.Boundary) string {
	if b.Ante > 0 {
		return fmt.Sprintf("seg-%d-%s", b.Ante, b.Stage)
	}
	return fmt.Sprintf("seg-%s", b.Stage)
}

func avgAnte(runs []store.Run) *float64 {
	if len(runs) == 0 {
		return nil
	}
	var sum float64
	for _, r := range runs {
		sum += float64(r.FinalAnte)
	}
	avg := sum / float64(len(runs))
	return &avg
}

func winRate(wins, runs int) string {
	if runs == 0 {
		return absent
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(wins)/float64(runs)*100)))
}
