package timeline

import "testing"

func TestParseCaptionStageAndAnte(t *testing.T) {
	tests := []struct {
		caption   string
		eventType string
		stage     Stage
		ante      int
	}{
		{"第3关 小盲 开局", "", StageSmallBlind, 3},
		{"第12关 大盲", "", StageBigBlind, 12},
		{"第2关 Boss 战斗中", "", StageBoss, 2},
		{"第4关 商店 购买小丑牌", "", StageShop, 4},
		{"进入商店", "", StageShop, 0},
		{"游戏结束", "", StageGameEnd, 0},
		{"", "game_over", StageGameEnd, 0},
		{"开始游戏", "", StageGameStart, 0},
		{"", "game_start", StageGameStart, 0},
		{"[Rule] 出牌", "", StageNone, 0},
		{"", "", StageNone, 0},
	}
	for _, tt := range tests {
		p := ParseCaption(tt.caption, tt.eventType)
		if p.Stage != tt.stage {
			t.Fatalf("caption %q: stage = %q, want %q", tt.caption, p.Stage, tt.stage)
		}
		if p.Ante != tt.ante {
			t.Fatalf("caption %q: ante = %d, want %d", tt.caption, p.Ante, tt.ante)
		}
	}
}

func TestParseCaptionShopWinsOverBlind(t *testing.T) {
	p := ParseCaption("第1关 商店 小盲之后", "")
	if p.Stage != StageShop {
		t.Fatalf("expected shop to win first-match, got %q", p.Stage)
	}
}

func TestParseCaptionSource(t *testing.T) {
	tests := []struct {
		caption string
		want    Source
	}{
		{"[Rule] 出牌 对子", SourceRule},
		{"[LLM] 弃牌重抽", SourceLLM},
		{"无标记说明", SourceNone},
		// Both markers present: rule wins. Documented precedence, kept as is.
		{"[Rule] 然后 [LLM]", SourceRule},
		{"[LLM] 然后 [Rule]", SourceRule},
	}
	for _, tt := range tests {
		if got := ParseCaption(tt.caption, "").Source; got != tt.want {
			t.Fatalf("caption %q: source = %q, want %q", tt.caption, got, tt.want)
		}
	}
}

func TestParseCaptionGameOverMarkerBeatsEventType(t *testing.T) {
	p := ParseCaption("第8关 游戏结束", "screenshot")
	if p.Stage != StageGameEnd {
		t.Fatalf("expected game_end from caption marker, got %q", p.Stage)
	}
	if p.Ante != 8 {
		t.Fatalf("ante = %d, want 8", p.Ante)
	}
}

func TestStageLabel(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageShop, "商店"},
		{StageSmallBlind, "小盲"},
		{StageBigBlind, "大盲"},
		{StageBoss, "Boss"},
		{StageGameEnd, "结束"},
		{StageGameStart, "开始"},
		{StageNone, ""},
	}
	for _, tt := range tests {
		if got := tt.stage.Label(); got != tt.want {
			t.Fatalf("label of %q = %q, want %q", tt.stage, got, tt.want)
		}
	}
}
