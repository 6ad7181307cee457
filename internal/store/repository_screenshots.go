package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type InsertScreenshotParams struct {
	RoundID        string
	Filename       string
	OriginalName   string
	Caption        string
	EventType      string
	EstimatedScore *int64
	ActualScore    *int64
	ScoreError     *float64
	FileSize       int64
	Width          *int
	Height         *int
}

func (s *Store) InsertScreenshot(ctx context.Context, runID string, p InsertScreenshotParams) (*Screenshot, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO screenshots (id, run_id, round_id, filename, original_name, caption,
			event_type, estimated_score, actual_score, score_error, file_size, width, height)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		id, runID, textParam(p.RoundID), p.Filename, textParam(p.OriginalName),
		textParam(p.Caption), textParam(p.EventType),
		int64PtrParam(p.EstimatedScore), int64PtrParam(p.ActualScore),
		float64PtrParam(p.ScoreError), p.FileSize, intPtrParam(p.Width), intPtrParam(p.Height))
	if err != nil {
		return nil, err
	}
	return s.GetScreenshot(ctx, id)
}

func (s *Store) GetScreenshot(ctx context.Context, id string) (*Screenshot, error) {
	row := s.Pool.QueryRow(ctx, screenshotSelect+` WHERE id = $1`, id)
	return scanScreenshot(row)
}

func (s *Store) DeleteScreenshot(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM screenshots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRunScreenshots returns the event stream in insertion order, which is
// chronological order; the timeline segmenter depends on this ordering.
func (s *Store) ListRunScreenshots(ctx context.Context, runID string) ([]Screenshot, error) {
	rows, err := s.Pool.Query(ctx, screenshotSelect+` WHERE run_id = $1 ORDER BY created_at, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Screenshot{}
	for rows.Next() {
		sc, err := scanScreenshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	return out, rows.Err()
}

func (s *Store) ListRunScreenshotFilenames(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT filename FROM screenshots WHERE run_id = $1`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ScoreErrorStatsByRun aggregates estimate accuracy for every run that has
// at least one scored screenshot.
func (s *Store) ScoreErrorStatsByRun(ctx context.Context) (map[string]ScoreErrorStats, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT run_id, COUNT(*), AVG(ABS(score_error)), MAX(ABS(score_error))
		FROM screenshots
		WHERE estimated_score IS NOT NULL AND actual_score IS NOT NULL
		GROUP BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]ScoreErrorStats{}
	for rows.Next() {
		var st ScoreErrorStats
		var avg, max pgtype.Float8
		if err := rows.Scan(&st.RunID, &st.Count, &avg, &max); err != nil {
			return nil, err
		}
		st.AvgErr = avg.Float64
		st.MaxErr = max.Float64
		out[st.RunID] = st
	}
	return out, rows.Err()
}

const screenshotSelect = `
	SELECT id, run_id, round_id, filename, original_name, caption, event_type,
		estimated_score, actual_score, score_error, file_size, width, height, created_at
	FROM screenshots`

func scanScreenshot(row pgx.Row) (*Screenshot, error) {
	var sc Screenshot
	var roundID, origName, caption, eventType pgtype.Text
	var est, act pgtype.Int8
	var scoreErr pgtype.Float8
	var width, height pgtype.Int4
	err := row.Scan(&sc.ID, &sc.RunID, &roundID, &sc.Filename, &origName, &caption,
		&eventType, &est, &act, &scoreErr, &sc.FileSize, &width, &height, &sc.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	sc.RoundID = textVal(roundID)
	sc.OriginalName = textVal(origName)
	sc.Caption = textVal(caption)
	sc.EventType = textVal(eventType)
	sc.EstimatedScore = int64PtrVal(est)
	sc.ActualScore = int64PtrVal(act)
	sc.ScoreError = float64PtrVal(scoreErr)
	sc.Width = intPtrVal(width)
	sc.Height = intPtrVal(height)
	return &sc, nil
}
