// Package ephemeris computes positions of the Sun and Moon, searches for
// horizon crossings and finds solstices. It is the in-process ephemeris
// collaborator used by the almanac; positions come from the Meeus
// algorithms in github.com/soniakeys/meeus.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Body identifies a celestial body known to the provider.
type Body int

const (
	Sun Body = iota
	Moon
)

func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	default:
		return fmt.Sprintf("body(%d)", int(b))
	}
}

const (
	// StandardPressure is the sea-level pressure, in hPa, that the horizon dip is defined for.
	StandardPressure = 1013.25

	// DefaultHorizonDip is the conventional rise/set altitude of the upper limb: -0°34'.
	DefaultHorizonDip = -34.0 / 60.0
)

var (
	// ErrAlwaysUp is returned by NextRising/NextSetting when the body stays
	// above the horizon for the whole searched day.
	ErrAlwaysUp = errors.New("body is always above the horizon")

	// ErrAlwaysDown is returned by NextRising/NextSetting when the body stays
	// below the horizon for the whole searched day.
	ErrAlwaysDown = errors.New("body is always below the horizon")

	// ErrInvalidObserver is returned when observer coordinates or settings are unusable.
	ErrInvalidObserver = errors.New("invalid observer")

	// ErrUnknownBody is returned for a Body value the provider does not model.
	ErrUnknownBody = errors.New("unknown body")

	// ErrNoEvent is returned when a crossing could not be located even though
	// the body is not circumpolar.
	ErrNoEvent = errors.New("no horizon crossing found")
)

// Observer describes where on Earth, and under which atmosphere, events are computed.
type Observer struct {
	Latitude   float64 // degrees, north positive
	Longitude  float64 // degrees, east positive
	Elevation  float64 // meters above sea level
	Pressure   float64 // hPa
	HorizonDip float64 // degrees; altitude of the upper limb at rise/set
}

// NewObserver returns an observer at sea level with standard pressure and horizon dip.
func NewObserver(lat, lon float64) Observer {
	return Observer{
		Latitude:   lat,
		Longitude:  lon,
		Pressure:   StandardPressure,
		HorizonDip: DefaultHorizonDip,
	}
}

// Validate reports whether the observer can be used for computations.
func (o Observer) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"latitude", o.Latitude},
		{"longitude", o.Longitude},
		{"elevation", o.Elevation},
		{"pressure", o.Pressure},
		{"horizon dip", o.HorizonDip},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidObserver, f.name)
		}
	}
	if o.Latitude < -90 || o.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidObserver, o.Latitude)
	}
	if o.Longitude < -180 || o.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidObserver, o.Longitude)
	}
	if o.Pressure < 0 {
		return fmt.Errorf("%w: negative pressure %v", ErrInvalidObserver, o.Pressure)
	}
	return nil
}

// EffectiveHorizon returns the altitude, in degrees, that the upper limb must
// cross for a rise or set. The refraction part of the dip scales with pressure
// and an elevated observer sees a depressed horizon.
func (o Observer) EffectiveHorizon() float64 {
	h := o.HorizonDip * o.Pressure / StandardPressure
	if o.Elevation > 0 {
		h -= 0.0293 * math.Sqrt(o.Elevation)
	}
	return h
}

// Position is the state of a body at an instant, as seen by an observer.
type Position struct {
	Body                Body
	Time                time.Time
	EclipticLongitude   float64 // degrees [0, 360), geocentric, of date
	EclipticLatitude    float64 // degrees
	Distance            float64 // km from Earth's center
	RightAscension      float64 // degrees [0, 360)
	Declination         float64 // degrees
	Altitude            float64 // degrees, topocentric, no refraction
	Azimuth             float64 // degrees from north through east
	IlluminatedFraction float64 // [0, 1]; always 1 for the Sun
}

// Provider is the set of ephemeris primitives the almanac is built on.
type Provider interface {
	// PositionAt returns the position of body at t for obs.
	PositionAt(body Body, t time.Time, obs Observer) (Position, error)

	// NextRising returns the first time after `after` that the upper limb of
	// body rises through the observer's effective horizon.
	NextRising(body Body, after time.Time, obs Observer) (time.Time, error)

	// NextSetting returns the first time after `after` that the upper limb of
	// body sets through the observer's effective horizon.
	NextSetting(body Body, after time.Time, obs Observer) (time.Time, error)

	// NextSolstice returns the first solstice at or after `after`.
	NextSolstice(after time.Time) (time.Time, error)
}
