// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Sex is the demographic label used to pick goal standards.
type Sex string

// Recognized sex labels. Anything else invalidates a user for classification.
const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex normalizes s case-insensitively. ok is false for unset or
// unrecognized labels.
func ParseSex(s string) (Sex, bool) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, true
	case Female:
		return Female, true
	default:
		return "", false
	}
}

// Metric names a measured quantity of a movement.
type Metric string

// Tracked metrics.
const (
	Power        Metric = "power"
	Acceleration Metric = "acceleration"
)

// Metrics lists the tracked metrics in report order.
var Metrics = []Metric{Power, Acceleration} //nolint:gochecknoglobals // fixed domain constant

// Title returns the display label of m, e.g. "Power".
func (m Metric) Title() string {
	switch m {
	case Power:
		return "Power"
	case Acceleration:
		return "Acceleration"
	default:
		return string(m)
	}
}

// Observation is one row of the input table.
type Observation struct {
	UserID    string    // user identifier
	Exercise  string    // exercise name as it appears in the catalog
	Dominance string    // raw dominance label, may be empty
	TS        time.Time // when the test was taken

	Power        Value
	Acceleration Value

	Sex string // raw sex label; validated per user

	// Passed through, unused by scoring.
	Sport    string
	Position string
	Weight   Value
	Height   Value
}

// Metric returns the value recorded for m.
func (o Observation) Metric(m Metric) Value {
	switch m {
	case Power:
		return o.Power
	case Acceleration:
		return o.Acceleration
	default:
		return Absent()
	}
}

// Complete reports whether both power and acceleration are present.
func (o Observation) Complete() bool {
	return !o.Power.IsAbsent() && !o.Acceleration.IsAbsent()
}
