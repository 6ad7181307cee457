package timeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Stage is the sub-phase of an ante a screenshot belongs to.
type Stage string

const (
	StageNone       Stage = ""
	StageShop       Stage = "shop"
	StageSmallBlind Stage = "small_blind"
	StageBigBlind   Stage = "big_blind"
	StageBoss       Stage = "boss"
	StageGameEnd    Stage = "game_end"
	StageGameStart  Stage = "game_start"
)

// Source tells which decision engine produced the action in a caption.
type Source string

const (
	SourceNone Source = ""
	SourceRule Source = "rule"
	SourceLLM  Source = "llm"
)

// Parsed is the structured reading of one caption.
type Parsed struct {
	Stage  Stage
	Ante   int
	Source Source
}

var anteRe = regexp.MustCompile(`第(\d+)关`)

// stageMarkers are checked in order; first match wins.
var stageMarkers = []struct {
	marker string
	stage  Stage
}{
	{"商店", StageShop},
	{"小盲", StageSmallBlind},
	{"大盲", StageBigBlind},
	{"Boss", StageBoss},
}

// ParseCaption extracts stage, ante and decision source from a free-text
// caption. Captions with no recognizable markers parse to the zero Parsed
// value; this is a normal outcome, not an error.
func ParseCaption(caption, eventType string) Parsed {
	p := Parsed{Stage: stageOf(caption, eventType), Ante: anteOf(caption)}
	if strings.Contains(caption, "[Rule]") {
		p.Source = SourceRule
	} else if strings.Contains(caption, "[LLM]") {
		p.Source = SourceLLM
	}
	return p
}

func stageOf(caption, eventType string) Stage {
	for _, m := range stageMarkers {
		if strings.Contains(caption, m.marker) {
			return m.stage
		}
	}
	if strings.Contains(caption, "游戏结束") || eventType == "game_over" {
		return StageGameEnd
	}
	if strings.Contains(caption, "开始") || eventType == "game_start" {
		return StageGameStart
	}
	return StageNone
}

// anteOf returns 0 when the caption carries no ante marker. Ante numbering
// starts at 1, so 0 always means "unknown".
func anteOf(caption string) int {
	m := anteRe.FindStringSubmatch(caption)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Label is the display form of a stage.
func (s Stage) Label() string {
	switch s {
	case StageShop:
		return "商店"
	case StageSmallBlind:
		return "小盲"
	case StageBigBlind:
		return "大盲"
	case StageBoss:
		return "Boss"
	case StageGameEnd:
		return "结束"
	case StageGameStart:
		return "开始"
	default:
		return ""
	}
}
