package store

import "testing"

func TestScreenshotStreamOrderAndStats(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	run := mustCreateRun(t, st, ctx, "RUN-S")
	est1, act1, err1 := int64(100), int64(90), -0.1
	est2, act2, err2 := int64(200), int64(400), 1.0
	inserts := []InsertScreenshotParams{
		{Filename: "a.png", Caption: "开始游戏", EventType: "game_start"},
		{Filename: "b.png", Caption: "第1关 小盲", EstimatedScore: &est1, ActualScore: &act1, ScoreError: &err1},
		{Filename: "c.png", Caption: "[Rule] 出牌", EstimatedScore: &est2, ActualScore: &act2, ScoreError: &err2},
	}
	for _, p := range inserts {
		if _, err := st.InsertScreenshot(ctx, run.ID, p); err != nil {
			t.Fatalf("insert screenshot %s: %v", p.Filename, err)
		}
	}

	shots, err := st.ListRunScreenshots(ctx, run.ID)
	if err != nil {
		t.Fatalf("list screenshots: %v", err)
	}
	if len(shots) != 3 {
		t.Fatalf("got %d screenshots, want 3", len(shots))
	}
	for i, want := range []string{"a.png", "b.png", "c.png"} {
		if shots[i].Filename != want {
			t.Fatalf("screenshot %d = %q, want %q (insertion order must hold)", i, shots[i].Filename, want)
		}
	}

	stats, err := st.ScoreErrorStatsByRun(ctx)
	if err != nil {
		t.Fatalf("score stats: %v", err)
	}
	got, ok := stats[run.ID]
	if !ok {
		t.Fatal("expected stats for run")
	}
	if got.Count != 2 {
		t.Fatalf("count = %d, want 2", got.Count)
	}
	if got.MaxErr != 1.0 {
		t.Fatalf("max err = %v, want 1.0", got.MaxErr)
	}

	if err := st.DeleteScreenshot(ctx, shots[0].ID); err != nil {
		t.Fatalf("delete screenshot: %v", err)
	}
	if err := st.DeleteScreenshot(ctx, shots[0].ID); err != ErrNotFound {
		t.Fatalf("double delete: err = %v, want ErrNotFound", err)
	}
}

func TestStrategyLineage(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	root := NewID()
	if _, err := st.Pool.Exec(ctx,
		`INSERT INTO strategies (id, name, code_hash) VALUES ($1, 'root', 'aaaa')`, root); err != nil {
		t.Fatalf("insert root strategy: %v", err)
	}
	child := NewID()
	if _, err := st.Pool.Exec(ctx,
		`INSERT INTO strategies (id, name, code_hash, parent_id) VALUES ($1, 'child', 'bbbb', $2)`,
		child, root); err != nil {
		t.Fatalf("insert child strategy: %v", err)
	}

	ancestors, err := st.ListStrategyAncestors(ctx, child)
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if len(ancestors) != 1 || ancestors[0].ID != root {
		t.Fatalf("ancestors = %+v", ancestors)
	}

	children, err := st.ListStrategyChildren(ctx, root)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 1 || children[0].ID != child {
		t.Fatalf("children = %+v", children)
	}

	aggs, err := st.ListStrategies(ctx)
	if err != nil {
		t.Fatalf("list strategies: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("got %d strategies, want 2", len(aggs))
	}
}

func TestGlobalStatsAndSeeds(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	for _, spec := range []struct {
		code string
		seed string
		won  bool
		ante int
	}{
		{"RUN-1", "SEED88", true, 8},
		{"RUN-2", "SEED88", false, 5},
		{"RUN-3", "", false, 2},
	} {
		_, err := st.CreateRun(ctx, CreateRunParams{
			RunCode: spec.code, Seed: spec.seed, Won: spec.won, FinalAnte: spec.ante,
		})
		if err != nil {
			t.Fatalf("create run %s: %v", spec.code, err)
		}
	}

	stats, err := st.GetGlobalStats(ctx)
	if err != nil {
		t.Fatalf("global stats: %v", err)
	}
	if stats.TotalRuns != 3 || stats.Wins != 1 || stats.Losses != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.HighestAnte == nil || *stats.HighestAnte != 8 {
		t.Fatalf("highest ante = %v, want 8", stats.HighestAnte)
	}

	seeds, err := st.ListSeedAggregates(ctx)
	if err != nil {
		t.Fatalf("seed aggregates: %v", err)
	}
	if len(seeds) != 1 {
		t.Fatalf("got %d seeds, want 1 (empty seed excluded)", len(seeds))
	}
	if seeds[0].Seed != "SEED88" || seeds[0].RunCount != 2 || seeds[0].BestAnte != 8 {
		t.Fatalf("seed agg = %+v", seeds[0])
	}
}
