package timeline

import "fmt"

// Caption is the minimum of a run event the segmenter needs.
type Caption struct {
	Caption   string
	EventType string
}

// Boundary marks the start of a new timeline segment.
type Boundary struct {
	Ante  int    `json:"ante"`
	Stage Stage  `json:"stage"`
	Label string `json:"label"`
}

// Entry is one event in segmenter output order. Boundary is non-nil only on
// the first event of a segment.
type Entry struct {
	Index    int
	Parsed   Parsed
	Boundary *Boundary
}

type segmentKey struct {
	ante  int
	stage Stage
}

// Segment folds an ordered caption stream into render entries with segment
// boundaries. The fold is pure: the same input always yields the same
// boundaries, and re-running it is how a refresh picks up appended events.
// Events whose stage is unknown never open a segment; they render inside
// whatever segment is open.
func Segment(events []Caption) []Entry {
	out := make([]Entry, 0, len(events))
	var current segmentKey
	for i, ev := range events {
		p := ParseCaption(ev.Caption, ev.EventType)
		entry := Entry{Index: i, Parsed: p}
		key := segmentKey{ante: p.Ante, stage: p.Stage}
		if p.Stage != StageNone && key != current {
			entry.Boundary = &Boundary{
				Ante:  p.Ante,
				Stage: p.Stage,
				Label: boundaryLabel(p.Ante, p.Stage),
			}
			current = key
		}
		out = append(out, entry)
	}
	return out
}

func boundaryLabel(ante int, stage Stage) string {
	if ante > 0 {
		return fmt.Sprintf("第%d关 %s", ante, stage.Label())
	}
	return stage.Label()
}
