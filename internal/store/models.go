package store

import (
	"encoding/json"
	"time"
)

type Run struct {
	ID              string     `json:"id"`
	RunCode         string     `json:"run_code"`
	Seed            string     `json:"seed"`
	Deck            string     `json:"deck"`
	Stake           string     `json:"stake"`
	Status          string     `json:"status"` // running | completed
	Won             bool       `json:"won"`
	FinalAnte       int        `json:"final_ante"`
	FinalScore      *int64     `json:"final_score"`
	EndlessAnte     *int       `json:"endless_ante"`
	Progress        string     `json:"progress"`
	Notes           string     `json:"notes"`
	HandsPlayed     int        `json:"hands_played"`
	DiscardsUsed    int        `json:"discards_used"`
	Purchases       int        `json:"purchases"`
	RuleDecisions   int        `json:"rule_decisions"`
	LLMDecisions    int        `json:"llm_decisions"`
	DurationSeconds *int       `json:"duration_seconds"`
	LLMCostUSD      float64    `json:"llm_cost_usd"`
	LLMModel        string     `json:"llm_model"`
	StrategyID      string     `json:"strategy_id"`
	StrategyName    string     `json:"strategy_name"`
	JokerCount      int        `json:"joker_count"`
	ScreenshotCount int        `json:"screenshot_count"`
	PlayedAt        *time.Time `json:"played_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Joker struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	Name       string    `json:"name"`
	Position   int       `json:"position"`
	Edition    string    `json:"edition"`
	Eternal    bool      `json:"eternal"`
	Perishable bool      `json:"perishable"`
	Rental     bool      `json:"rental"`
	CreatedAt  time.Time `json:"created_at"`
}

type Round struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	Ante          int       `json:"ante"`
	BlindType     string    `json:"blind_type"`
	BossName      string    `json:"boss_name"`
	TargetScore   *int64    `json:"target_score"`
	BestHandScore *int64    `json:"best_hand_score"`
	HandsPlayed   *int      `json:"hands_played"`
	DiscardsUsed  *int      `json:"discards_used"`
	Skipped       bool      `json:"skipped"`
	MoneyAfter    *int      `json:"money_after"`
	CreatedAt     time.Time `json:"created_at"`
}

type Screenshot struct {
	ID             string    `json:"id"`
	RunID          string    `json:"run_id"`
	RoundID        string    `json:"round_id"`
	Filename       string    `json:"filename"`
	OriginalName   string    `json:"original_name"`
	Caption        string    `json:"caption"`
	EventType      string    `json:"event_type"`
	EstimatedScore *int64    `json:"estimated_score"`
	ActualScore    *int64    `json:"actual_score"`
	ScoreError     *float64  `json:"score_error"`
	FileSize       int64     `json:"file_size"`
	Width          *int      `json:"width"`
	Height         *int      `json:"height"`
	CreatedAt      time.Time `json:"created_at"`
}

type Tag struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Ante      int       `json:"ante"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Strategy struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CodeHash   string          `json:"code_hash"`
	Model      string          `json:"model"`
	Params     json.RawMessage `json:"params"`
	SourceCode string          `json:"source_code"`
	Summary    string          `json:"summary"`
	ParentID   string          `json:"parent_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

// StrategyAggregate is a strategy row joined with its runs' aggregates.
type StrategyAggregate struct {
	Strategy
	RunCount int      `json:"run_count"`
	Wins     int      `json:"wins"`
	AvgAnte  *float64 `json:"avg_ante"`
}

// ScoreErrorStats summarizes estimate accuracy over one run's screenshots.
type ScoreErrorStats struct {
	RunID  string  `json:"run_id"`
	Count  int     `json:"count"`
	AvgErr float64 `json:"avg_err"`
	MaxErr float64 `json:"max_err"`
}

// SeedAggregate groups runs sharing one PRNG seed.
type SeedAggregate struct {
	Seed          string     `json:"seed"`
	RunCount      int        `json:"run_count"`
	StrategyCount int        `json:"strategy_count"`
	BestAnte      int        `json:"best_ante"`
	AvgAnte       *float64   `json:"avg_ante"`
	Wins          int        `json:"wins"`
	FirstPlayed   *time.Time `json:"first_played"`
}

// GlobalStats is the /api/stats summary.
type GlobalStats struct {
	TotalRuns    int    `json:"total_runs"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	HighestAnte  *int   `json:"highest_ante"`
	HighestScore *int64 `json:"highest_score"`
	DecksUsed    int    `json:"decks_used"`
	StakesPlayed int    `json:"stakes_played"`
}
