// Package solar resolves the year's solstices and labels them summer or
// winter for the observer's hemisphere.
package solar

import (
	"fmt"
	"time"
)

// Hemisphere is "Northern" or "Southern".
type Hemisphere string

const (
	Northern Hemisphere = "Northern"
	Southern Hemisphere = "Southern"
)

// HemisphereFor returns the hemisphere for a latitude. The equator counts as
// Northern; this tie-break is a fixed convention.
func HemisphereFor(latitude float64) Hemisphere {
	if latitude >= 0 {
		return Northern
	}
	return Southern
}

// SolsticeFinder finds the first solstice at or after a given instant.
type SolsticeFinder interface {
	NextSolstice(after time.Time) (time.Time, error)
}

// Solstices holds the two solstices of a year labeled for a hemisphere.
type Solstices struct {
	Summer     time.Time
	Winter     time.Time
	June       time.Time
	December   time.Time
	Hemisphere Hemisphere
}

// Resolve finds the June and December solstices of year, searching from
// June 1 and December 1 respectively, and assigns them to summer and winter
// according to the sign of latitude. The instants themselves do not depend on
// latitude.
func Resolve(finder SolsticeFinder, year int, latitude float64) (Solstices, error) {
	june, err := finder.NextSolstice(time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return Solstices{}, fmt.Errorf("june solstice of %d: %w", year, err)
	}
	december, err := finder.NextSolstice(time.Date(year, time.December, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return Solstices{}, fmt.Errorf("december solstice of %d: %w", year, err)
	}

	s := Solstices{
		June:       june,
		December:   december,
		Hemisphere: HemisphereFor(latitude),
	}
	if s.Hemisphere == Northern {
		s.Summer, s.Winter = june, december
	} else {
		s.Summer, s.Winter = december, june
	}
	return s, nil
}
