package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const runColumns = `r.id, r.run_code, r.seed, r.deck, r.stake, r.status, r.won,
	r.final_ante, r.final_score, r.endless_ante, r.progress, r.notes,
	r.hands_played, r.discards_used, r.purchases, r.rule_decisions, r.llm_decisions,
	r.duration_seconds, r.llm_cost_usd, r.llm_model, r.strategy_id, r.joker_count,
	r.played_at, r.created_at,
	s.name AS strategy_name,
	(SELECT COUNT(*) FROM screenshots sc WHERE sc.run_id = r.id) AS screenshot_count`

const runFrom = ` FROM runs r LEFT JOIN strategies s ON r.strategy_id = s.id`

type runRowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row runRowScanner) (*Run, error) {
	var (
		r             Run
		seed          pgtype.Text
		finalScore    pgtype.Int8
		endlessAnte   pgtype.Int4
		progress      pgtype.Text
		notes         pgtype.Text
		duration      pgtype.Int4
		llmModel      pgtype.Text
		strategyID    pgtype.Text
		playedAt      pgtype.Timestamptz
		strategyName  pgtype.Text
		screenshotCnt int64
	)
	err := row.Scan(
		&r.ID, &r.RunCode, &seed, &r.Deck, &r.Stake, &r.Status, &r.Won,
		&r.FinalAnte, &finalScore, &endlessAnte, &progress, &notes,
		&r.HandsPlayed, &r.DiscardsUsed, &r.Purchases, &r.RuleDecisions, &r.LLMDecisions,
		&duration, &r.LLMCostUSD, &llmModel, &strategyID, &r.JokerCount,
		&playedAt, &r.CreatedAt,
		&strategyName, &screenshotCnt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	r.Seed = textVal(seed)
	r.FinalScore = int64PtrVal(finalScore)
	r.EndlessAnte = intPtrVal(endlessAnte)
	r.Progress = textVal(progress)
	r.Notes = textVal(notes)
	r.DurationSeconds = intPtrVal(duration)
	r.LLMModel = textVal(llmModel)
	r.StrategyID = textVal(strategyID)
	r.PlayedAt = timePtrVal(playedAt)
	r.StrategyName = textVal(strategyName)
	r.ScreenshotCount = int(screenshotCnt)
	return &r, nil
}

type CreateRunParams struct {
	RunCode     string
	Seed        string
	Deck        string
	Stake       string
	Status      string
	Won         bool
	FinalAnte   int
	FinalScore  *int64
	EndlessAnte *int
	Notes       string
	LLMModel    string
	StrategyID  string
	PlayedAt    *time.Time
}

func (s *Store) CreateRun(ctx context.Context, p CreateRunParams) (*Run, error) {
	id := NewID()
	if p.Deck == "" {
		p.Deck = "Red Deck"
	}
	if p.Stake == "" {
		p.Stake = "White"
	}
	if p.Status == "" {
		p.Status = "completed"
	}
	if p.FinalAnte <= 0 {
		p.FinalAnte = 1
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO runs (id, run_code, seed, deck, stake, status, won, final_ante,
			final_score, endless_ante, notes, llm_model, strategy_id, played_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,COALESCE($14, now()))`,
		id, p.RunCode, textParam(p.Seed), p.Deck, p.Stake, p.Status, p.Won, p.FinalAnte,
		int64PtrParam(p.FinalScore), intPtrParam(p.EndlessAnte), textParam(p.Notes),
		textParam(p.LLMModel), textParam(p.StrategyID), timePtrParam(p.PlayedAt),
	)
	if err != nil {
		return nil, err
	}
	return s.GetRun(ctx, id)
}

func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.Pool.QueryRow(ctx, "SELECT "+runColumns+runFrom+" WHERE r.id = $1", id)
	return scanRun(row)
}

func (s *Store) GetRunIDByCode(ctx context.Context, code string) (string, error) {
	var id string
	err := s.Pool.QueryRow(ctx, `SELECT id FROM runs WHERE run_code = $1`, code).Scan(&id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return id, nil
}

type ListRunsFilter struct {
	Deck   string
	Stake  string
	Won    *bool
	Sort   string
	Order  string
	Limit  int
	Offset int
}

var runSortColumns = map[string]string{
	"played_at":   "r.played_at",
	"final_ante":  "r.final_ante",
	"final_score": "r.final_score",
	"created_at":  "r.created_at",
}

func (f ListRunsFilter) where() (string, []any) {
	conds := []string{}
	args := []any{}
	if f.Deck != "" {
		args = append(args, f.Deck)
		conds = append(conds, fmt.Sprintf("r.deck = $%d", len(args)))
	}
	if f.Stake != "" {
		args = append(args, f.Stake)
		conds = append(conds, fmt.Sprintf("r.stake = $%d", len(args)))
	}
	if f.Won != nil {
		args = append(args, *f.Won)
		conds = append(conds, fmt.Sprintf("r.won = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (f ListRunsFilter) orderBy() string {
	col, ok := runSortColumns[f.Sort]
	if !ok {
		col = "r.played_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST", col, dir)
}

func (s *Store) ListRuns(ctx context.Context, f ListRunsFilter) ([]Run, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	where, args := f.where()
	args = append(args, f.Limit, f.Offset)
	q := "SELECT " + runColumns + runFrom + where + f.orderBy() +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) CountRuns(ctx context.Context, f ListRunsFilter) (int, error) {
	where, args := f.where()
	var n int
	err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM runs r"+where, args...).Scan(&n)
	return n, err
}

var patchableRunFields = map[string]struct{}{
	"seed": {}, "deck": {}, "stake": {}, "status": {}, "won": {},
	"final_ante": {}, "final_score": {}, "endless_ante": {}, "progress": {},
	"notes": {}, "hands_played": {}, "discards_used": {}, "purchases": {},
	"rule_decisions": {}, "llm_decisions": {}, "duration_seconds": {},
	"llm_cost_usd": {}, "llm_model": {}, "played_at": {},
}

// PatchableRunField reports whether a column may be set through PatchRun.
func PatchableRunField(name string) bool {
	_, ok := patchableRunFields[name]
	return ok
}

func (s *Store) PatchRun(ctx context.Context, id string, fields map[string]any) (*Run, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to patch")
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for k, v := range fields {
		if !PatchableRunField(k) {
			return nil, fmt.Errorf("field %q not patchable", k)
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	args = append(args, id)
	q := fmt.Sprintf("UPDATE runs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.Pool.Exec(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetRun(ctx, id)
}

func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListRunsByStrategy(ctx context.Context, strategyID string) ([]Run, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+runColumns+runFrom+" WHERE r.strategy_id = $1 ORDER BY r.played_at DESC NULLS LAST",
		strategyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) ListRunsBySeed(ctx context.Context, seed string) ([]Run, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+runColumns+runFrom+" WHERE r.seed = $1 ORDER BY r.played_at DESC NULLS LAST",
		seed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
