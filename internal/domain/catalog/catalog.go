// Package catalog holds the fixed set of tracked movements and their body
// region groupings. A Catalog is immutable once built and is passed to every
// component that needs it.
package catalog

import (
	"fmt"
	"strings"
)

// Dominance is the side a movement was performed with.
type Dominance string

// Standard dominance labels. NoSide marks movements without a side.
const (
	NoSide      Dominance = ""
	Dominant    Dominance = "Dominant"
	NonDominant Dominance = "Non-Dominant"
)

// StandardizeDominance maps a raw dominance label onto a standard one.
// Matching is case-insensitive; empty, "neither" and "none" mean NoSide.
// ok is false for labels that name no known side.
func StandardizeDominance(raw string) (Dominance, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "neither", "none":
		return NoSide, true
	case "dominant":
		return Dominant, true
	case "non-dominant", "non dominant", "nondominant":
		return NonDominant, true
	default:
		return NoSide, false
	}
}

// Sides declares which dominance variants an exercise is tracked with.
type Sides int

const (
	// SidesRequired exercises are tracked only as Dominant and Non-Dominant.
	SidesRequired Sides = iota
	// SidesOptional exercises are tracked as the base name plus both sides.
	SidesOptional
	// SidesNone exercises are tracked only as the base name.
	SidesNone
)

func (s Sides) variants() []Dominance {
	switch s {
	case SidesRequired:
		return []Dominance{Dominant, NonDominant}
	case SidesOptional:
		return []Dominance{NoSide, Dominant, NonDominant}
	case SidesNone:
		return []Dominance{NoSide}
	default:
		return nil
	}
}

// Movement identifies a tracked exercise variant.
type Movement struct {
	Exercise string
	Side     Dominance
}

// String returns the display name, e.g. "Lateral Bound (Dominant)".
func (m Movement) String() string {
	if m.Side == NoSide {
		return m.Exercise
	}
	return m.Exercise + " (" + string(m.Side) + ")"
}

// Exercise describes one exercise and its sidedness rule.
type Exercise struct {
	Name  string
	Sides Sides
}

// Region is a named group of exercises.
type Region struct {
	Name      string
	Exercises []Exercise
}

// Catalog is the ordered, immutable list of tracked movements.
type Catalog struct {
	regions   []string
	exercises map[string]Exercise
	regionOf  map[string]string
	movements []Movement
	index     map[Movement]int
	byRegion  map[string][]int
}

// New builds a Catalog. Movement order follows region order, then exercise
// order, then the sidedness variants.
func New(regions ...Region) (*Catalog, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no regions", ErrInvalidCatalog)
	}
	c := &Catalog{
		exercises: make(map[string]Exercise),
		regionOf:  make(map[string]string),
		index:     make(map[Movement]int),
		byRegion:  make(map[string][]int, len(regions)),
	}
	for _, r := range regions {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("%w: region without a name", ErrInvalidCatalog)
		}
		if _, dup := c.byRegion[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate region %q", ErrInvalidCatalog, r.Name)
		}
		if len(r.Exercises) == 0 {
			return nil, fmt.Errorf("%w: region %q has no exercises", ErrInvalidCatalog, r.Name)
		}
		c.regions = append(c.regions, r.Name)
		c.byRegion[r.Name] = nil
		for _, e := range r.Exercises {
			if strings.TrimSpace(e.Name) == "" {
				return nil, fmt.Errorf("%w: exercise without a name in region %q", ErrInvalidCatalog, r.Name)
			}
			if _, dup := c.exercises[e.Name]; dup {
				return nil, fmt.Errorf("%w: duplicate exercise %q", ErrInvalidCatalog, e.Name)
			}
			variants := e.Sides.variants()
			if variants == nil {
				return nil, fmt.Errorf("%w: exercise %q has unknown sides rule %d", ErrInvalidCatalog, e.Name, e.Sides)
			}
			c.exercises[e.Name] = e
			c.regionOf[e.Name] = r.Name
			for _, side := range variants {
				m := Movement{Exercise: e.Name, Side: side}
				c.index[m] = len(c.movements)
				c.byRegion[r.Name] = append(c.byRegion[r.Name], len(c.movements))
				c.movements = append(c.movements, m)
			}
		}
	}
	return c, nil
}

// Len returns the number of tracked movements.
func (c *Catalog) Len() int { return len(c.movements) }

// Movements returns a copy of the tracked movements in catalog order.
func (c *Catalog) Movements() []Movement {
	out := make([]Movement, len(c.movements))
	copy(out, c.movements)
	return out
}

// Movement returns the movement at catalog index i.
func (c *Catalog) Movement(i int) Movement { return c.movements[i] }

// Index returns the catalog index of m.
func (c *Catalog) Index(m Movement) (int, bool) {
	i, ok := c.index[m]
	return i, ok
}

// Regions returns the region names in catalog order.
func (c *Catalog) Regions() []string {
	out := make([]string, len(c.regions))
	copy(out, c.regions)
	return out
}

// RegionOf returns the region of m, or "" if m is not tracked.
func (c *Catalog) RegionOf(m Movement) string {
	if _, ok := c.index[m]; !ok {
		return ""
	}
	return c.regionOf[m.Exercise]
}

// RegionIndices returns the catalog indices of every movement in region.
func (c *Catalog) RegionIndices(region string) []int {
	idx := c.byRegion[region]
	out := make([]int, len(idx))
	copy(out, idx)
	return out
}

// Exercise looks up an exercise definition by exact name.
func (c *Catalog) Exercise(name string) (Exercise, bool) {
	e, ok := c.exercises[name]
	return e, ok
}

// Resolve maps a raw (exercise, dominance) pair onto a tracked movement.
// The exercise name must match exactly; the dominance label is standardized
// and must be valid for the exercise's sidedness rule.
func (c *Catalog) Resolve(exercise, dominance string) (Movement, bool) {
	e, ok := c.exercises[exercise]
	if !ok {
		return Movement{}, false
	}
	side, ok := StandardizeDominance(dominance)
	if !ok {
		return Movement{}, false
	}
	m := Movement{Exercise: e.Name, Side: side}
	if _, tracked := c.index[m]; !tracked {
		return Movement{}, false
	}
	return m, true
}
