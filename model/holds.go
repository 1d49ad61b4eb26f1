package model

import "fmt"

// HoldSpan is the derived pairing of a hold (or roll) head with its tail,
// both in ticks. Spans are computed on demand rather than stored on cells so
// row insertion and removal can never leave dangling references.
type HoldSpan struct {
	Head int64
	Tail int64
}

// HoldSpans derives the per-column span index for a grid. It fails if any
// head lacks a tail, a tail appears without a head, or another note sits in
// a column while its hold is open.
func HoldSpans(g *NoteGrid) ([NumColumns][]HoldSpan, error) {
	var spans [NumColumns][]HoldSpan
	var openHead [NumColumns]int64
	var open [NumColumns]bool

	for _, row := range g.Rows {
		for col, c := range row.Cells {
			switch c {
			case HoldHead, RollHead:
				if open[col] {
					return spans, fmt.Errorf("hold head at tick %v column %v while hold from tick %v is open", row.Tick, col, openHead[col])
				}
				open[col] = true
				openHead[col] = row.Tick
			case HoldTail:
				if !open[col] {
					return spans, fmt.Errorf("hold tail at tick %v column %v has no matching head", row.Tick, col)
				}
				spans[col] = append(spans[col], HoldSpan{Head: openHead[col], Tail: row.Tick})
				open[col] = false
			case Empty:
			default:
				if open[col] {
					return spans, fmt.Errorf("note at tick %v column %v inside hold from tick %v", row.Tick, col, openHead[col])
				}
			}
		}
	}

	for col := range open {
		if open[col] {
			return spans, fmt.Errorf("hold head at tick %v column %v never closed", openHead[col], col)
		}
	}
	return spans, nil
}

// InsideHold reports whether tick falls on or between a head and tail in the
// given column.
func InsideHold(spans [NumColumns][]HoldSpan, col int, tick int64) bool {
	for _, s := range spans[col] {
		if tick >= s.Head && tick <= s.Tail {
			return true
		}
	}
	return false
}
