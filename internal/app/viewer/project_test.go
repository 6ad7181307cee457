package viewer

import (
	"testing"

	"balatro-run-viewer/internal/store"
)

func TestDecisionRatio(t *testing.T) {
	tests := []struct {
		rule, llm int
		want      string
	}{
		{0, 0, "-"},
		{3, 1, "75%"},
		{1, 2, "33%"},
		{0, 5, "0%"},
		{7, 0, "100%"},
	}
	for _, tt := range tests {
		if got := decisionRatio(tt.rule, tt.llm); got != tt.want {
			t.Errorf("decisionRatio(%d, %d) = %q, want %q", tt.rule, tt.llm, got, tt.want)
		}
	}
}

func TestDurationDisplay(t *testing.T) {
	if got := durationDisplay(nil); got != "-" {
		t.Errorf("nil duration = %q, want -", got)
	}
	sec := 754
	if got := durationDisplay(&sec); got != "13m" {
		t.Errorf("754s = %q, want 13m", got)
	}
	zero := 0
	if got := durationDisplay(&zero); got != "0m" {
		t.Errorf("0s = %q, want 0m", got)
	}
}

func TestCostDisplay(t *testing.T) {
	if got := costDisplay(0); got != "-" {
		t.Errorf("zero cost = %q, want -", got)
	}
	if got := costDisplay(0.12345); got != "$0.1235" {
		t.Errorf("cost = %q, want $0.1235", got)
	}
}

func TestSeedDisplay(t *testing.T) {
	tests := []struct{ seed, want string }{
		{"", "-"},
		{"ABC123", "ABC123"},
		{"ABCDEFGH1234", "ABCDEFGH"},
	}
	for _, tt := range tests {
		if got := seedDisplay(tt.seed); got != tt.want {
			t.Errorf("seedDisplay(%q) = %q, want %q", tt.seed, got, tt.want)
		}
	}
}

func TestProgressBadge(t *testing.T) {
	running := store.Run{Status: "running", FinalAnte: 3}
	if got := ProgressBadge(running); got != "运行中" {
		t.Errorf("running badge = %q", got)
	}
	won := store.Run{Status: "completed", Won: true, FinalAnte: 8}
	if got := ProgressBadge(won); got != "通关" {
		t.Errorf("won badge = %q", got)
	}
	lost := store.Run{Status: "completed", FinalAnte: 5}
	if got := ProgressBadge(lost); got != "Ante 5" {
		t.Errorf("lost badge = %q", got)
	}
	withProgress := store.Run{Status: "completed", Progress: "第6关 Boss"}
	if got := ProgressBadge(withProgress); got != "第6关 Boss" {
		t.Errorf("progress badge = %q", got)
	}
}
