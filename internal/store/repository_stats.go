package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

func (s *Store) GetGlobalStats(ctx context.Context) (*GlobalStats, error) {
	var st GlobalStats
	var highestAnte pgtype.Int4
	var highestScore pgtype.Int8
	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE won),
			COUNT(*) FILTER (WHERE NOT won),
			MAX(final_ante),
			MAX(final_score),
			COUNT(DISTINCT deck),
			COUNT(DISTINCT stake)
		FROM runs`).Scan(
		&st.TotalRuns, &st.Wins, &st.Losses, &highestAnte, &highestScore,
		&st.DecksUsed, &st.StakesPlayed)
	if err != nil {
		return nil, err
	}
	st.HighestAnte = intPtrVal(highestAnte)
	st.HighestScore = int64PtrVal(highestScore)
	return &st, nil
}

// ListSeedAggregates groups runs by seed, most-replayed first.
func (s *Store) ListSeedAggregates(ctx context.Context) ([]SeedAggregate, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT seed, COUNT(*),
			COUNT(DISTINCT strategy_id),
			MAX(final_ante),
			AVG(final_ante),
			SUM(CASE WHEN won THEN 1 ELSE 0 END),
			MIN(played_at)
		FROM runs
		WHERE seed IS NOT NULL AND seed != ''
		GROUP BY seed
		ORDER BY COUNT(*) DESC, MAX(final_ante) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SeedAggregate{}
	for rows.Next() {
		var agg SeedAggregate
		var avgAnte pgtype.Float8
		var first pgtype.Timestamptz
		err := rows.Scan(&agg.Seed, &agg.RunCount, &agg.StrategyCount,
			&agg.BestAnte, &avgAnte, &agg.Wins, &first)
		if err != nil {
			return nil, err
		}
		agg.AvgAnte = float64PtrVal(avgAnte)
		agg.FirstPlayed = timePtrVal(first)
		out = append(out, agg)
	}
	return out, rows.Err()
}

// ListDistinctDecks backs the deck filter dropdown.
func (s *Store) ListDistinctDecks(ctx context.Context) ([]string, error) {
	return s.listDistinct(ctx, `SELECT DISTINCT deck FROM runs ORDER BY deck`)
}

// ListDistinctStakes backs the stake filter dropdown.
func (s *Store) ListDistinctStakes(ctx context.Context) ([]string, error) {
	return s.listDistinct(ctx, `SELECT DISTINCT stake FROM runs ORDER BY stake`)
}

func (s *Store) listDistinct(ctx context.Context, q string) ([]string, error) {
	rows, err := s.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type InsertTagParams struct {
	Ante int
	Name string
}

func (s *Store) InsertTag(ctx context.Context, runID string, p InsertTagParams) (*Tag, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO tags (id, run_id, ante, name) VALUES ($1,$2,$3,$4)`,
		id, runID, p.Ante, p.Name)
	if err != nil {
		return nil, err
	}
	var tag Tag
	err = s.Pool.QueryRow(ctx,
		`SELECT id, run_id, ante, name, created_at FROM tags WHERE id = $1`, id).
		Scan(&tag.ID, &tag.RunID, &tag.Ante, &tag.Name, &tag.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &tag, nil
}

func (s *Store) ListRunTags(ctx context.Context, runID string) ([]Tag, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, run_id, ante, name, created_at FROM tags WHERE run_id = $1 ORDER BY ante`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Tag{}
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.RunID, &tag.Ante, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}
