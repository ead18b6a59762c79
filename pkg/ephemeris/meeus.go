package ephemeris

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonillum"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/meeus/v3/solstice"
	"github.com/soniakeys/unit"
)

const (
	// DefaultSearchStep is the sampling interval used to bracket horizon crossings.
	DefaultSearchStep = 10 * time.Minute

	// DefaultTolerance is the precision crossings are bisected to.
	DefaultTolerance = time.Second

	searchSpan = 24 * time.Hour
)

// Options tunes the horizon crossing search.
type Options struct {
	SearchStep time.Duration
	Tolerance  time.Duration
}

// MeeusProvider implements Provider with the algorithms of Jean Meeus'
// "Astronomical Algorithms". It holds no mutable state and is safe for
// concurrent use.
type MeeusProvider struct {
	step      time.Duration
	tolerance time.Duration
}

var _ Provider = (*MeeusProvider)(nil)

// NewMeeusProvider creates a provider; zero option values select the defaults.
func NewMeeusProvider(opts Options) *MeeusProvider {
	p := &MeeusProvider{
		step:      opts.SearchStep,
		tolerance: opts.Tolerance,
	}
	if p.step <= 0 {
		p.step = DefaultSearchStep
	}
	if p.tolerance <= 0 {
		p.tolerance = DefaultTolerance
	}
	return p
}

// ecliptic holds the geocentric ecliptic state shared by all position queries.
type ecliptic struct {
	jd, jde    float64
	lambda     unit.Angle
	beta       unit.Angle
	distanceKm float64
	epsilon    float64
}

func eclipticAt(body Body, t time.Time) (ecliptic, error) {
	jd := julian.TimeToJD(t.UTC())
	jde := jd + deltaT(t).Seconds()/86400.0
	T := base.J2000Century(jde)

	e := ecliptic{jd: jd, jde: jde, epsilon: obliquity(T)}
	switch body {
	case Sun:
		e.lambda = solar.ApparentLongitude(T)
		e.distanceKm = solar.Radius(T) * kmPerAU
	case Moon:
		// Apparent longitude, same frame as solar.ApparentLongitude.
		e.lambda, e.beta, e.distanceKm = moonposition.Position(jde)
		dpsi, _ := nutation.Nutation(jde)
		e.lambda += dpsi
	default:
		return ecliptic{}, fmt.Errorf("%w: %v", ErrUnknownBody, body)
	}
	return e, nil
}

// PositionAt returns the position of body at t.
func (p *MeeusProvider) PositionAt(body Body, t time.Time, obs Observer) (Position, error) {
	if err := obs.Validate(); err != nil {
		return Position{}, err
	}

	e, err := eclipticAt(body, t)
	if err != nil {
		return Position{}, err
	}

	lon := normalizeAngle(e.lambda.Deg())
	ra, dec := eclipticToEquatorial(lon, e.beta.Deg(), e.epsilon)
	alt, az := horizontal(e.jd, obs, ra, dec)

	pos := Position{
		Body:                body,
		Time:                t.UTC(),
		EclipticLongitude:   lon,
		EclipticLatitude:    e.beta.Deg(),
		Distance:            e.distanceKm,
		RightAscension:      ra,
		Declination:         dec,
		Altitude:            topocentric(alt, e.distanceKm),
		Azimuth:             az,
		IlluminatedFraction: 1,
	}

	if body == Moon {
		T := base.J2000Century(e.jde)
		sunLambda := solar.ApparentLongitude(T)
		sunDistance := solar.Radius(T) * kmPerAU
		i := moonillum.PhaseAngleEcl(e.lambda, e.beta, e.distanceKm, sunLambda, sunDistance)
		pos.IlluminatedFraction = base.Illuminated(i)
	}

	return pos, nil
}

// upperLimbAltitude is the topocentric altitude of the body's upper limb in degrees.
func upperLimbAltitude(body Body, t time.Time, obs Observer) (float64, error) {
	e, err := eclipticAt(body, t)
	if err != nil {
		return 0, err
	}
	ra, dec := eclipticToEquatorial(normalizeAngle(e.lambda.Deg()), e.beta.Deg(), e.epsilon)
	alt, _ := horizontal(e.jd, obs, ra, dec)

	radius := sunRadiusKm
	if body == Moon {
		radius = moonRadiusKm
	}
	return topocentric(alt, e.distanceKm) + semidiameter(radius, e.distanceKm), nil
}

// NextRising returns the first rise of body after `after`.
func (p *MeeusProvider) NextRising(body Body, after time.Time, obs Observer) (time.Time, error) {
	return p.nextCrossing(body, crossingUp, after, obs)
}

// NextSetting returns the first set of body after `after`.
func (p *MeeusProvider) NextSetting(body Body, after time.Time, obs Observer) (time.Time, error) {
	return p.nextCrossing(body, crossingDown, after, obs)
}

// NextSolstice returns the first June or December solstice at or after `after`.
func (p *MeeusProvider) NextSolstice(after time.Time) (time.Time, error) {
	after = after.UTC()
	year := after.Year()

	candidates := []time.Time{
		solsticeTime(solstice.June(year)),
		solsticeTime(solstice.December(year)),
		solsticeTime(solstice.June(year + 1)),
	}
	for _, c := range candidates {
		if !c.Before(after) {
			return c, nil
		}
	}
	// Unreachable: June of the following year is always after `after`.
	return time.Time{}, fmt.Errorf("no solstice found after %s", after.Format(time.RFC3339))
}

// solsticeTime converts a solstice JDE (dynamical time) to a UTC instant.
func solsticeTime(jde float64) time.Time {
	approx := julian.JDToTime(jde)
	jd := jde - deltaT(approx).Seconds()/86400.0
	return julian.JDToTime(jd).UTC().Round(time.Second)
}
