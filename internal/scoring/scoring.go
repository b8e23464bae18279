// Package scoring classifies a guess distance into a precision tier.
//
// Tiers are a fixed table ordered finest first. A guess is only ever tested
// against the tier the player asked for; a miss never falls back to a coarser
// tier and a hit is never upgraded to a finer one.
package scoring

import (
	"errors"
	"fmt"
)

// Precision names a tier. The zero value is not a valid precision.
type Precision string

const (
	Exact  Precision = "EXACT"
	Narrow Precision = "NARROW"
	Vague  Precision = "VAGUE"
)

var ErrUnknownPrecision = errors.New("unknown precision")

// Tier binds a precision to its correctness radius and point value.
type Tier struct {
	Precision Precision `json:"precision"`
	RadiusKm  float64   `json:"radiusKm"`
	Points    int       `json:"points"`
}

// tiers is ordered finest first: radius strictly increasing, points strictly
// decreasing.
var tiers = []Tier{
	{Precision: Exact, RadiusKm: 50, Points: 25},
	{Precision: Narrow, RadiusKm: 100, Points: 10},
	{Precision: Vague, RadiusKm: 250, Points: 5},
}

// Outcome is the result of evaluating one guess at one precision.
type Outcome struct {
	IsCorrect bool
	// Achieved is nil exactly when IsCorrect is false.
	Achieved *Precision
	// Available lists the finer tiers the player may retry at, nearest first.
	Available []Precision
}

// Evaluate tests distanceKm against the radius of the requested tier.
// Distances equal to the radius are misses.
func Evaluate(distanceKm float64, requested Precision) (Outcome, error) {
	idx := index(requested)
	if idx < 0 {
		return Outcome{}, fmt.Errorf("%q: %w", requested, ErrUnknownPrecision)
	}

	if !(distanceKm < tiers[idx].RadiusKm) {
		return Outcome{IsCorrect: false, Available: []Precision{}}, nil
	}

	achieved := requested
	available := make([]Precision, 0, idx)
	for i := idx - 1; i >= 0; i-- {
		available = append(available, tiers[i].Precision)
	}
	return Outcome{IsCorrect: true, Achieved: &achieved, Available: available}, nil
}

// Parse maps a wire value to a Precision.
func Parse(s string) (Precision, error) {
	p := Precision(s)
	if index(p) < 0 {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownPrecision)
	}
	return p, nil
}

// Valid reports whether p is one of the enumerated tiers.
func (p Precision) Valid() bool { return index(p) >= 0 }

// Radius returns the correctness radius of p in kilometers, or 0 if p is unknown.
func Radius(p Precision) float64 {
	if i := index(p); i >= 0 {
		return tiers[i].RadiusKm
	}
	return 0
}

// Points returns the score awarded for succeeding at p, or 0 if p is unknown.
func Points(p Precision) int {
	if i := index(p); i >= 0 {
		return tiers[i].Points
	}
	return 0
}

// Tiers returns a copy of the tier table, finest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// All returns every precision coarsest first, the order a fresh round offers them.
func All() []Precision {
	out := make([]Precision, 0, len(tiers))
	for i := len(tiers) - 1; i >= 0; i-- {
		out = append(out, tiers[i].Precision)
	}
	return out
}

// Coarsest is the tier a new round starts at.
func Coarsest() Precision { return tiers[len(tiers)-1].Precision }

// Finest is the hardest tier.
func Finest() Precision { return tiers[0].Precision }

func index(p Precision) int {
	for i, t := range tiers {
		if t.Precision == p {
			return i
		}
	}
	return -1
}
