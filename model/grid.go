package model

import "sort"

// Row is one occupied subdivision. Tick counts 1/192ths of a beat from
// beat 0.
type Row struct {
	Tick  int64
	Cells [NumColumns]CellType
}

func (r *Row) IsEmpty() bool {
	for _, c := range r.Cells {
		if c != Empty {
			return false
		}
	}
	return true
}

// NoteGrid holds the rows of one chart, sorted ascending by Tick with no
// duplicate ticks.
type NoteGrid struct {
	Rows []Row
}

func (g *NoteGrid) rowIndex(tick int64) (int, bool) {
	i := sort.Search(len(g.Rows), func(i int) bool {
		return g.Rows[i].Tick >= tick
	})
	if i < len(g.Rows) && g.Rows[i].Tick == tick {
		return i, true
	}
	return i, false
}

func (g *NoteGrid) CellAt(tick int64, col int) CellType {
	if i, ok := g.rowIndex(tick); ok {
		return g.Rows[i].Cells[col]
	}
	return Empty
}

// SetCell places a cell, inserting a row if the tick is unoccupied.
func (g *NoteGrid) SetCell(tick int64, col int, c CellType) {
	i, ok := g.rowIndex(tick)
	if !ok {
		row := Row{Tick: tick}
		for j := range row.Cells {
			row.Cells[j] = Empty
		}
		g.Rows = append(g.Rows, Row{})
		copy(g.Rows[i+1:], g.Rows[i:])
		g.Rows[i] = row
	}
	g.Rows[i].Cells[col] = c
}

// ClearCell empties a cell and drops the row if nothing is left on it.
func (g *NoteGrid) ClearCell(tick int64, col int) {
	i, ok := g.rowIndex(tick)
	if !ok {
		return
	}
	g.Rows[i].Cells[col] = Empty
	if g.Rows[i].IsEmpty() {
		g.Rows = append(g.Rows[:i], g.Rows[i+1:]...)
	}
}

// TapCount counts Tap cells only. Hold heads, tails and mines are excluded.
func (g *NoteGrid) TapCount() int {
	var n int
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			if c == Tap {
				n++
			}
		}
	}
	return n
}

// NoteCount counts every steppable cell (taps, hold heads, roll heads).
func (g *NoteGrid) NoteCount() int {
	var n int
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			if c == Tap || c == HoldHead || c == RollHead {
				n++
			}
		}
	}
	return n
}

func (g *NoteGrid) LastTick() int64 {
	if len(g.Rows) == 0 {
		return 0
	}
	return g.Rows[len(g.Rows)-1].Tick
}
