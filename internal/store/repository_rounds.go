package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type InsertRoundParams struct {
	Ante          int
	BlindType     string
	BossName      string
	TargetScore   *int64
	BestHandScore *int64
	HandsPlayed   *int
	DiscardsUsed  *int
	Skipped       bool
	MoneyAfter    *int
}

func (s *Store) InsertRound(ctx context.Context, runID string, p InsertRoundParams) (*Round, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	id, err := insertRoundTx(ctx, tx, runID, p)
	if err != nil {
		return nil, err
	}
	if err := syncRunFinalScore(ctx, tx, runID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.getRound(ctx, id)
}

func (s *Store) InsertRoundsBatch(ctx context.Context, runID string, items []InsertRoundParams) ([]Round, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(items))
	for _, p := range items {
		id, err := insertRoundTx(ctx, tx, runID, p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := syncRunFinalScore(ctx, tx, runID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	out := make([]Round, 0, len(ids))
	for _, id := range ids {
		r, err := s.getRound(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func insertRoundTx(ctx context.Context, tx pgx.Tx, runID string, p InsertRoundParams) (string, error) {
	id := NewID()
	_, err := tx.Exec(ctx, `
		INSERT INTO rounds (id, run_id, ante, blind_type, boss_name, target_score,
			best_hand_score, hands_played, discards_used, skipped, money_after)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		id, runID, p.Ante, p.BlindType, textParam(p.BossName),
		int64PtrParam(p.TargetScore), int64PtrParam(p.BestHandScore),
		intPtrParam(p.HandsPlayed), intPtrParam(p.DiscardsUsed), p.Skipped,
		intPtrParam(p.MoneyAfter))
	return id, err
}

// syncRunFinalScore keeps runs.final_score at the max best hand across all
// the run's rounds.
func syncRunFinalScore(ctx context.Context, db dbExecer, runID string) error {
	_, err := db.Exec(ctx, `
		UPDATE runs
		SET final_score = (SELECT MAX(best_hand_score) FROM rounds WHERE run_id = $1)
		WHERE id = $1`, runID)
	return err
}

func (s *Store) getRound(ctx context.Context, id string) (*Round, error) {
	row := s.Pool.QueryRow(ctx, roundSelect+` WHERE id = $1`, id)
	return scanRound(row)
}

func (s *Store) ListRunRounds(ctx context.Context, runID string) ([]Round, error) {
	rows, err := s.Pool.Query(ctx, roundSelect+` WHERE run_id = $1 ORDER BY ante, blind_type`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Round{}
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

const roundSelect = `
	SELECT id, run_id, ante, blind_type, boss_name, target_score, best_hand_score,
		hands_played, discards_used, skipped, money_after, created_at
	FROM rounds`

func scanRound(row pgx.Row) (*Round, error) {
	var r Round
	var bossName pgtype.Text
	var target, best pgtype.Int8
	var hands, discards, money pgtype.Int4
	err := row.Scan(&r.ID, &r.RunID, &r.Ante, &r.BlindType, &bossName,
		&target, &best, &hands, &discards, &r.Skipped, &money, &r.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	r.BossName = textVal(bossName)
	r.TargetScore = int64PtrVal(target)
	r.BestHandScore = int64PtrVal(best)
	r.HandsPlayed = intPtrVal(hands)
	r.DiscardsUsed = intPtrVal(discards)
	r.MoneyAfter = intPtrVal(money)
	return &r, nil
}
