// Package transition counts bracket moves between consecutive test
// instances and classifies matrix cells relative to the diagonal.
package transition

import (
	"encoding/json"
	"fmt"

	"github.com/okian/devbracket/internal/domain/bracket"
)

// Window is a pair of consecutive instances, numbered from 1.
type Window struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Windows returns the first n adjacent windows: 1-2, 2-3, ...
func Windows(n int) []Window {
	out := make([]Window, 0, n)
	for k := 1; k <= n; k++ {
		out = append(out, Window{From: k, To: k + 1})
	}
	return out
}

// String returns a label such as "Test 1-2".
func (w Window) String() string { return fmt.Sprintf("Test %d-%d", w.From, w.To) }

// Record is one user's bracket move across a window for one metric.
type Record struct {
	From bracket.Bracket
	To   bracket.Bracket
}

// Change classifies a matrix cell.
type Change int

// Cell classes.
const (
	NoChange Change = iota
	Improvement
	Regression
)

func (c Change) String() string {
	switch c {
	case NoChange:
		return "no_change"
	case Improvement:
		return "improvement"
	case Regression:
		return "regression"
	default:
		return fmt.Sprintf("Change(%d)", int(c))
	}
}

// MarshalText encodes the class name.
func (c Change) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Classify returns the class of the cell at row from, column to. Rows and
// columns follow severity order, so cells above the diagonal move to a
// more severe bracket.
func Classify(from, to bracket.Bracket) Change {
	switch {
	case from == to:
		return NoChange
	case to > from:
		return Regression
	default:
		return Improvement
	}
}

// Matrix counts moves from row bracket to column bracket.
type Matrix struct {
	counts [bracket.Count][bracket.Count]int
	total  int
}

// Build counts records into a matrix.
func Build(records []Record) *Matrix {
	m := &Matrix{}
	for _, r := range records {
		m.Add(r)
	}
	return m
}

// Add counts one record. Records naming unknown brackets are ignored.
func (m *Matrix) Add(r Record) {
	if !r.From.Valid() || !r.To.Valid() {
		return
	}
	m.counts[r.From][r.To]++
	m.total++
}

// Count returns the number of moves from one bracket to another.
func (m *Matrix) Count(from, to bracket.Bracket) int { return m.counts[from][to] }

// Total returns the sum of all cells.
func (m *Matrix) Total() int { return m.total }

// Rows returns the counts as a dense table in severity order.
func (m *Matrix) Rows() [][]int {
	out := make([][]int, bracket.Count)
	for i := range out {
		out[i] = make([]int, bracket.Count)
		copy(out[i], m.counts[i][:])
	}
	return out
}

// Progression summarizes the moves in a matrix.
type Progression struct {
	LevelUps    int `json:"level_ups"`
	Jumps       int `json:"bracket_jumps"`
	Regressions int `json:"regressions"`
	Unchanged   int `json:"unchanged"`
}

// Progression counts single-step improvements, improvements of two or more
// brackets, regressions and unchanged users.
func (m *Matrix) Progression() Progression {
	var p Progression
	for i := range m.counts {
		for j, n := range m.counts[i] {
			switch {
			case i == j:
				p.Unchanged += n
			case j > i:
				p.Regressions += n
			case i-j == 1:
				p.LevelUps += n
			default:
				p.Jumps += n
			}
		}
	}
	return p
}

// Cell is one matrix cell with its class.
type Cell struct {
	From   bracket.Bracket `json:"from"`
	To     bracket.Bracket `json:"to"`
	Count  int             `json:"count"`
	Change Change          `json:"change"`
}

// Cells returns every cell in row-major severity order.
func (m *Matrix) Cells() []Cell {
	out := make([]Cell, 0, bracket.Count*bracket.Count)
	for _, from := range bracket.All() {
		for _, to := range bracket.All() {
			out = append(out, Cell{From: from, To: to, Count: m.counts[from][to], Change: Classify(from, to)})
		}
	}
	return out
}

// Changes returns the class of every cell as a dense table shaped like Rows.
func Changes() [][]Change {
	out := make([][]Change, bracket.Count)
	for i, from := range bracket.All() {
		out[i] = make([]Change, bracket.Count)
		for j, to := range bracket.All() {
			out[i][j] = Classify(from, to)
		}
	}
	return out
}

type wireMatrix struct {
	Brackets    []bracket.Bracket `json:"brackets"`
	Counts      [][]int           `json:"counts"`
	Changes     [][]Change        `json:"changes"`
	Total       int               `json:"total"`
	Progression Progression       `json:"progression"`
}

// MarshalJSON encodes the dense counts and cell classes with their bracket
// labels.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMatrix{
		Brackets:    bracket.All(),
		Counts:      m.Rows(),
		Changes:     Changes(),
		Total:       m.total,
		Progression: m.Progression(),
	})
}
