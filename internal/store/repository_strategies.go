package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (s *Store) GetStrategy(ctx context.Context, id string) (*Strategy, error) {
	row := s.Pool.QueryRow(ctx, strategySelect+` WHERE id = $1`, id)
	return scanStrategy(row)
}

// ListStrategies returns all strategies newest first, each with run
// aggregates joined in.
func (s *Store) ListStrategies(ctx context.Context) ([]StrategyAggregate, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT s.id, s.name, s.code_hash, s.model, s.params, s.source_code, s.summary,
			s.parent_id, s.created_at,
			COUNT(r.id), COALESCE(SUM(CASE WHEN r.won THEN 1 ELSE 0 END), 0),
			AVG(r.final_ante)
		FROM strategies s
		LEFT JOIN runs r ON r.strategy_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StrategyAggregate{}
	for rows.Next() {
		var agg StrategyAggregate
		var name, codeHash, model, sourceCode, summary, parentID pgtype.Text
		var avgAnte pgtype.Float8
		err := rows.Scan(&agg.ID, &name, &codeHash, &model, &agg.Params, &sourceCode,
			&summary, &parentID, &agg.CreatedAt, &agg.RunCount, &agg.Wins, &avgAnte)
		if err != nil {
			return nil, err
		}
		agg.Name = textVal(name)
		agg.CodeHash = textVal(codeHash)
		agg.Model = textVal(model)
		agg.SourceCode = textVal(sourceCode)
		agg.Summary = textVal(summary)
		agg.ParentID = textVal(parentID)
		agg.AvgAnte = float64PtrVal(avgAnte)
		out = append(out, agg)
	}
	return out, rows.Err()
}

// ListStrategyAncestors walks parent links root-first. The chain is bounded
// to guard against a cyclic parent_id.
func (s *Store) ListStrategyAncestors(ctx context.Context, id string) ([]Strategy, error) {
	st, err := s.GetStrategy(ctx, id)
	if err != nil {
		return nil, err
	}
	out := []Strategy{}
	parentID := st.ParentID
	for i := 0; parentID != "" && i < 32; i++ {
		anc, err := s.GetStrategy(ctx, parentID)
		if err != nil {
			if err == ErrNotFound {
				break
			}
			return nil, err
		}
		out = append([]Strategy{*anc}, out...)
		parentID = anc.ParentID
	}
	return out, nil
}

func (s *Store) ListStrategyChildren(ctx context.Context, id string) ([]Strategy, error) {
	rows, err := s.Pool.Query(ctx, strategySelect+` WHERE parent_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Strategy{}
	for rows.Next() {
		st, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

const strategySelect = `
	SELECT id, name, code_hash, model, params, source_code, summary, parent_id, created_at
	FROM strategies`

func scanStrategy(row pgx.Row) (*Strategy, error) {
	var st Strategy
	var name, codeHash, model, sourceCode, summary, parentID pgtype.Text
	err := row.Scan(&st.ID, &name, &codeHash, &model, &st.Params, &sourceCode,
		&summary, &parentID, &st.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	st.Name = textVal(name)
	st.CodeHash = textVal(codeHash)
	st.Model = textVal(model)
	st.SourceCode = textVal(sourceCode)
	st.Summary = textVal(summary)
	st.ParentID = textVal(parentID)
	return &st, nil
}
