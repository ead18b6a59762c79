// Package lunar classifies the Moon's phase from the ecliptic longitudes of
// the Sun and Moon. Phase names come from fixed 10°/75° bins of the Sun→Moon
// separation; illumination is taken from the ephemeris rather than derived
// from the separation, so the two agree only to the precision of the model.
package lunar

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// SynodicMonth is the mean length of the lunar cycle in days used for the age approximation.
const SynodicMonth = 29.53

// Phase names
const (
	NewMoon        = "New Moon"
	WaxingCrescent = "Waxing Crescent"
	FirstQuarter   = "First Quarter"
	WaxingGibbous  = "Waxing Gibbous"
	FullMoon       = "Full Moon"
	WaningGibbous  = "Waning Gibbous"
	LastQuarter    = "Last Quarter"
	WaningCrescent = "Waning Crescent"
)

// phaseBins maps separations below upper (exclusive) to a phase name. The
// quarter and syzygy bins are 10° wide so the primary phase name wins near
// exact alignment.
var phaseBins = []struct {
	upper float64
	name  string
}{
	{10, NewMoon},
	{85, WaxingCrescent},
	{95, FirstQuarter},
	{175, WaxingGibbous},
	{185, FullMoon},
	{265, WaningGibbous},
	{275, LastQuarter},
	{350, WaningCrescent},
	{360, NewMoon},
}

// Phase contains the classified moon phase
type Phase struct {
	Name                string  // one of the eight phase names
	Separation          float64 // Sun→Moon ecliptic longitude difference, degrees [0,360)
	IlluminationPercent float64 // [0,100], one decimal
	AgeDays             float64 // approximate days since new moon [0,SynodicMonth), one decimal
}

// Waxing reports whether the Moon is between new and full.
func (p Phase) Waxing() bool {
	return p.Separation < 180
}

// Classify computes the phase from the Sun's and Moon's ecliptic longitudes
// (degrees) and the Moon's illuminated fraction [0,1] as reported by the ephemeris.
func Classify(sunLongitude, moonLongitude, illuminatedFraction float64) Phase {
	sep := Separation(sunLongitude, moonLongitude)

	return Phase{
		Name:                PhaseName(sep),
		Separation:          sep,
		IlluminationPercent: IlluminationPercent(illuminatedFraction),
		AgeDays:             scalar.Round(AgeDays(sep), 1),
	}
}

// Separation returns (moon - sun) normalized to [0, 360).
func Separation(sunLongitude, moonLongitude float64) float64 {
	return normalizeAngle(moonLongitude - sunLongitude)
}

// PhaseName returns the phase name for a separation in degrees. Values outside
// [0, 360) are normalized first.
func PhaseName(separation float64) string {
	sep := normalizeAngle(separation)
	for _, bin := range phaseBins {
		if sep < bin.upper {
			return bin.name
		}
	}
	return NewMoon
}

// AgeDays approximates the Moon's age as the fraction of a mean synodic month
// given by the separation. It is not the true time since the last new moon;
// the real synodic period varies by several hours around the mean.
func AgeDays(separation float64) float64 {
	return normalizeAngle(separation) / 360.0 * SynodicMonth
}

// IlluminationPercent converts an illuminated fraction to a percentage
// rounded to one decimal place.
func IlluminationPercent(fraction float64) float64 {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	return scalar.Round(fraction*100, 1)
}

// normalizeAngle wraps an angle to the range [0, 360)
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	// math.Mod of a tiny negative value can round back up to 360.
	if angle >= 360 {
		angle = 0
	}
	return angle
}
