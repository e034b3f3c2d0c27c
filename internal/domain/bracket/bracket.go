// Package bracket defines the ordered development brackets and the
// classification of capped average scores into them.
package bracket

import (
	"encoding/json"
	"fmt"
	"math"
)

// Bracket is a development category. Lower values are better; the
// numeric order is the severity order used on both axes of transition
// matrices.
type Bracket int

// Brackets in severity order.
const (
	GoalHit Bracket = iota
	Elite
	AboveAverage
	Average
	UnderDeveloped
	SeverelyUnderDeveloped

	count
)

var names = [...]string{ //nolint:gochecknoglobals // fixed labels
	GoalHit:                "Goal Hit",
	Elite:                  "Elite",
	AboveAverage:           "Above Average",
	Average:                "Average",
	UnderDeveloped:         "Under Developed",
	SeverelyUnderDeveloped: "Severely Under Developed",
}

// Count is the number of brackets.
const Count = int(count)

// All returns every bracket in severity order.
func All() []Bracket {
	out := make([]Bracket, Count)
	for i := range out {
		out[i] = Bracket(i)
	}
	return out
}

// Valid reports whether b is a known bracket.
func (b Bracket) Valid() bool { return b >= 0 && b < count }

// String returns the display label.
func (b Bracket) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Bracket(%d)", int(b))
	}
	return names[b]
}

// MarshalText encodes the display label.
func (b Bracket) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBracket, int(b))
	}
	return []byte(names[b]), nil
}

// UnmarshalText decodes a display label.
func (b *Bracket) UnmarshalText(text []byte) error {
	p, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = p
	return nil
}

// Parse returns the bracket with the given display label.
func Parse(s string) (Bracket, error) {
	for i, n := range names {
		if n == s {
			return Bracket(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBracket, s)
}

// Interval is a half-open score range [Min, Max).
type Interval struct {
	Min float64
	Max float64
}

// Contains reports whether score lies in the interval.
func (iv Interval) Contains(score float64) bool {
	return score >= iv.Min && score < iv.Max
}

// MarshalJSON encodes an unbounded upper end as null.
func (iv Interval) MarshalJSON() ([]byte, error) {
	type wire struct {
		Min float64  `json:"min"`
		Max *float64 `json:"max"`
	}
	w := wire{Min: iv.Min}
	if !math.IsInf(iv.Max, 1) {
		w.Max = &iv.Max
	}
	return json.Marshal(w)
}

// Scheme maps capped average scores onto brackets.
type Scheme struct {
	intervals [Count]Interval
}

// DefaultScheme returns the standard lower bounds: Goal Hit from 100, Elite
// from 90, Above Average from 76, Average from 51, Under Developed from 26
// and Severely Under Developed below that.
func DefaultScheme() Scheme {
	s, err := NewScheme(100, 90, 76, 51, 26)
	if err != nil {
		panic(err) // static thresholds
	}
	return s
}

// NewScheme builds a scheme from the lower bounds of every bracket except
// the most severe, given in severity order and strictly decreasing. Each
// bracket spans up to the next better bracket's bound; the best bracket is
// unbounded above and the most severe covers [0, last bound). Bounds must be
// positive.
func NewScheme(lowerBounds ...float64) (Scheme, error) {
	if len(lowerBounds) != Count-1 {
		return Scheme{}, fmt.Errorf("%w: want %d bounds, got %d", ErrInvalidScheme, Count-1, len(lowerBounds))
	}
	var s Scheme
	upper := math.Inf(1)
	for i, lo := range lowerBounds {
		if math.IsNaN(lo) || lo >= upper || lo <= 0 {
			return Scheme{}, fmt.Errorf("%w: bound %d (%v) must be below %v", ErrInvalidScheme, i, lo, upper)
		}
		s.intervals[i] = Interval{Min: lo, Max: upper}
		upper = lo
	}
	s.intervals[Count-1] = Interval{Min: 0, Max: upper}
	return s, nil
}

// Interval returns the score range of b.
func (s Scheme) Interval(b Bracket) Interval { return s.intervals[b] }

// Classify returns the bracket containing score. NaN and negative scores
// have no bracket.
func (s Scheme) Classify(score float64) (Bracket, bool) {
	if math.IsNaN(score) {
		return 0, false
	}
	for i, iv := range s.intervals {
		if iv.Contains(score) {
			return Bracket(i), true
		}
	}
	return 0, false
}
