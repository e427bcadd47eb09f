// Package wcag carries the static WCAG success-criterion catalog the report
// builder aggregates against. The catalog is reference data, not owned
// state; it never changes at runtime.
package wcag

import "strings"

type Level string

const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// rank orders conformance levels: A < AA < AAA.
var rank = map[Level]int{LevelA: 1, LevelAA: 2, LevelAAA: 3}

// Covers reports whether a target level includes criteria of level l,
// i.e. l <= target.
func (l Level) Covers(target Level) bool {
	return rank[l] <= rank[target]
}

// Levels in ascending strictness.
func Levels() []Level {
	return []Level{LevelA, LevelAA, LevelAAA}
}

// ParseTargetLevel extracts the declared conformance target from a
// project's standard string ("WCAG 2.1 AA" and the like). AAA wins over AA
// since "AAA" contains "AA"; anything else falls back to level A.
func ParseTargetLevel(standard string) Level {
	switch {
	case strings.Contains(standard, "AAA"):
		return LevelAAA
	case strings.Contains(standard, "AA"):
		return LevelAA
	default:
		return LevelA
	}
}

type Principle string

const (
	Perceivable    Principle = "Perceivable"
	Operable       Principle = "Operable"
	Understandable Principle = "Understandable"
	Robust         Principle = "Robust"
)

// PrincipleOrder is the canonical rendering order of the four principles.
var PrincipleOrder = []Principle{Perceivable, Operable, Understandable, Robust}

// Criterion is one WCAG success criterion.
type Criterion struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Level     Level     `json:"level"`
	Principle Principle `json:"principle"`
}

// ByID returns the criterion with the given ID from the catalog.
func ByID(id string) (Criterion, bool) {
	for _, c := range Catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// AtOrBelow returns the catalog criteria whose level is covered by the
// target level, in catalog order.
func AtOrBelow(target Level) []Criterion {
	out := make([]Criterion, 0, len(Catalog))
	for _, c := range Catalog {
		if c.Level.Covers(target) {
			out = append(out, c)
		}
	}
	return out
}

// OfLevel returns the catalog criteria at exactly the given level.
func OfLevel(level Level) []Criterion {
	var out []Criterion
	for _, c := range Catalog {
		if c.Level == level {
			out = append(out, c)
		}
	}
	return out
}
