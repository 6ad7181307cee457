package viewer

import (
	"fmt"
	"math"

	"balatro-run-viewer/internal/store"
)

// RunProjection carries the derived list-view fields of a run. These are
// recomputed on every fetch; a running run's counters are provisional.
type RunProjection struct {
	DecisionRatio string `json:"decision_ratio"`
	Duration      string `json:"duration_display"`
	Cost          string `json:"cost_display"`
	Seed          string `json:"seed_display"`
}

const absent = "-"

// ProjectRun derives the display fields of one run record.
func ProjectRun(r store.Run) RunProjection {
	return RunProjection{
		DecisionRatio: decisionRatio(r.RuleDecisions, r.LLMDecisions),
		Duration:      durationDisplay(r.DurationSeconds),
		Cost:          costDisplay(r.LLMCostUSD),
		Seed:          seedDisplay(r.Seed),
	}
}

func decisionRatio(rule, llm int) string {
	total := rule + llm
	if total == 0 {
		return absent
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(rule)/float64(total)*100)))
}

func durationDisplay(seconds *int) string {
	if seconds == nil {
		return absent
	}
	return fmt.Sprintf("%dm", int(math.Round(float64(*seconds)/60)))
}

func costDisplay(usd float64) string {
	if usd == 0 {
		return absent
	}
	return fmt.Sprintf("$%.4f", usd)
}

func seedDisplay(seed string) string {
	if seed == "" {
		return absent
	}
	if len(seed) > 8 {
		return seed[:8]
	}
	return seed
}

// ProgressBadge is the run-list progress cell: a live marker while running,
// a win marker, or the furthest point reached.
func ProgressBadge(r store.Run) string {
	switch {
	case r.Status == "running":
		return "运行中"
	case r.Won:
		return "通关"
	case r.Progress != "":
		return r.Progress
	default:
		return fmt.Sprintf("Ante %d", r.FinalAnte)
	}
}
