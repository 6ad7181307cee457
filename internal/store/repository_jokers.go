package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type InsertJokerParams struct {
	Name       string
	Position   int
	Edition    string
	Eternal    bool
	Perishable bool
	Rental     bool
}

func (s *Store) InsertJoker(ctx context.Context, runID string, p InsertJokerParams) (*Joker, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO jokers (id, run_id, name, position, edition, eternal, perishable, rental)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		id, runID, p.Name, p.Position, textParam(p.Edition), p.Eternal, p.Perishable, p.Rental)
	if err != nil {
		return nil, err
	}
	if err := s.syncJokerCount(ctx, s.Pool, runID); err != nil {
		return nil, err
	}
	return s.getJoker(ctx, id)
}

// InsertJokersBatch writes the whole lineup in one transaction so a partial
// lineup is never visible.
func (s *Store) InsertJokersBatch(ctx context.Context, runID string, items []InsertJokerParams) ([]Joker, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(items))
	for _, p := range items {
		id := NewID()
		_, err := tx.Exec(ctx, `
			INSERT INTO jokers (id, run_id, name, position, edition, eternal, perishable, rental)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			id, runID, p.Name, p.Position, textParam(p.Edition), p.Eternal, p.Perishable, p.Rental)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := s.syncJokerCount(ctx, tx, runID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	out := make([]Joker, 0, len(ids))
	for _, id := range ids {
		j, err := s.getJoker(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, nil
}

type dbExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *Store) syncJokerCount(ctx context.Context, db dbExecer, runID string) error {
	_, err := db.Exec(ctx, `
		UPDATE runs SET joker_count = (SELECT COUNT(*) FROM jokers WHERE run_id = $1)
		WHERE id = $1`, runID)
	return err
}

func (s *Store) getJoker(ctx context.Context, id string) (*Joker, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, run_id, name, position, edition, eternal, perishable, rental, created_at
		FROM jokers WHERE id = $1`, id)
	return scanJoker(row)
}

// ListRunJokers returns the lineup left to right; position order is game
// resolution order.
func (s *Store) ListRunJokers(ctx context.Context, runID string) ([]Joker, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, run_id, name, position, edition, eternal, perishable, rental, created_at
		FROM jokers WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Joker{}
	for rows.Next() {
		j, err := scanJoker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

func scanJoker(row pgx.Row) (*Joker, error) {
	var j Joker
	var edition pgtype.Text
	err := row.Scan(&j.ID, &j.RunID, &j.Name, &j.Position, &edition,
		&j.Eternal, &j.Perishable, &j.Rental, &j.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	j.Edition = textVal(edition)
	return &j, nil
}
