package store

import (
	"testing"
	"time"
)

func TestRunLifecycle(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	run := mustCreateRun(t, st, ctx, "RUN-001")
	if run.Status != "running" {
		t.Fatalf("status = %q, want running", run.Status)
	}
	if run.Deck != "Red Deck" || run.Stake != "White" {
		t.Fatalf("defaults not applied: deck=%q stake=%q", run.Deck, run.Stake)
	}

	id, err := st.GetRunIDByCode(ctx, "RUN-001")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if id != run.ID {
		t.Fatalf("id by code = %q, want %q", id, run.ID)
	}
	if _, err := st.GetRunIDByCode(ctx, "RUN-MISSING"); err != ErrNotFound {
		t.Fatalf("missing code: err = %v, want ErrNotFound", err)
	}

	dur := 720
	patched, err := st.PatchRun(ctx, run.ID, map[string]any{
		"status":           "completed",
		"won":              true,
		"final_ante":       8,
		"rule_decisions":   30,
		"llm_decisions":    10,
		"duration_seconds": dur,
		"llm_cost_usd":     0.0421,
	})
	if err != nil {
		t.Fatalf("patch run: %v", err)
	}
	if patched.Status != "completed" || !patched.Won || patched.FinalAnte != 8 {
		t.Fatalf("patch not applied: %+v", patched)
	}
	if patched.DurationSeconds == nil || *patched.DurationSeconds != dur {
		t.Fatalf("duration = %v, want %d", patched.DurationSeconds, dur)
	}

	if _, err := st.PatchRun(ctx, run.ID, map[string]any{"run_code": "nope"}); err == nil {
		t.Fatal("expected patch of non-patchable field to fail")
	}

	if err := st.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("delete run: %v", err)
	}
	if _, err := st.GetRun(ctx, run.ID); err != ErrNotFound {
		t.Fatalf("get deleted run: err = %v, want ErrNotFound", err)
	}
}

func TestListRunsFilterAndSort(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		code string
		deck string
		won  bool
		ante int
	}{
		{"RUN-A", "Red Deck", false, 3},
		{"RUN-B", "Blue Deck", true, 8},
		{"RUN-C", "Red Deck", true, 8},
	} {
		at := base.Add(time.Duration(i) * time.Hour)
		_, err := st.CreateRun(ctx, CreateRunParams{
			RunCode: spec.code, Deck: spec.deck, Won: spec.won,
			FinalAnte: spec.ante, PlayedAt: &at,
		})
		if err != nil {
			t.Fatalf("create run %s: %v", spec.code, err)
		}
	}

	all, err := st.ListRuns(ctx, ListRunsFilter{Sort: "played_at", Order: "desc"})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(all) != 3 || all[0].RunCode != "RUN-C" {
		t.Fatalf("unexpected order: %+v", all)
	}

	won := true
	red, err := st.ListRuns(ctx, ListRunsFilter{Deck: "Red Deck", Won: &won})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(red) != 1 || red[0].RunCode != "RUN-C" {
		t.Fatalf("filter result: %+v", red)
	}

	n, err := st.CountRuns(ctx, ListRunsFilter{Deck: "Red Deck"})
	if err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	// Unknown sort column falls back to played_at rather than injecting.
	if _, err := st.ListRuns(ctx, ListRunsFilter{Sort: "run_code; DROP TABLE runs"}); err != nil {
		t.Fatalf("list with bad sort: %v", err)
	}
}

func TestJokerBatchUpdatesCount(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	run := mustCreateRun(t, st, ctx, "RUN-J")
	jokers, err := st.InsertJokersBatch(ctx, run.ID, []InsertJokerParams{
		{Name: "Joker", Position: 0},
		{Name: "Blueprint", Position: 1, Edition: "Negative"},
		{Name: "Brainstorm", Position: 2, Eternal: true},
	})
	if err != nil {
		t.Fatalf("insert jokers: %v", err)
	}
	if len(jokers) != 3 {
		t.Fatalf("inserted %d jokers, want 3", len(jokers))
	}

	listed, err := st.ListRunJokers(ctx, run.ID)
	if err != nil {
		t.Fatalf("list jokers: %v", err)
	}
	for i, j := range listed {
		if j.Position != i {
			t.Fatalf("joker %d out of position order: %+v", i, j)
		}
	}

	updated, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if updated.JokerCount != 3 {
		t.Fatalf("joker_count = %d, want 3", updated.JokerCount)
	}
}

func TestRoundsBatchSyncsFinalScore(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	run := mustCreateRun(t, st, ctx, "RUN-R")
	s1, s2 := int64(4500), int64(32000)
	_, err := st.InsertRoundsBatch(ctx, run.ID, []InsertRoundParams{
		{Ante: 1, BlindType: "small", BestHandScore: &s1},
		{Ante: 1, BlindType: "boss", BossName: "The Wall", BestHandScore: &s2},
	})
	if err != nil {
		t.Fatalf("insert rounds: %v", err)
	}

	updated, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if updated.FinalScore == nil || *updated.FinalScore != 32000 {
		t.Fatalf("final_score = %v, want 32000", updated.FinalScore)
	}

	rounds, err := st.ListRunRounds(ctx, run.ID)
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 2 || rounds[1].BossName != "The Wall" {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}
}
