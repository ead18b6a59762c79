// Package almanac combines ephemeris primitives into a per-request report:
// calendar-day rise and set of the Sun and Moon, the Moon's phase, and the
// year's solstices labeled for the observer's hemisphere.
package almanac

import (
	"fmt"
	"strings"
	"time"

	"github.com/chrissnell/astrocalc/pkg/ephemeris"
	"github.com/chrissnell/astrocalc/pkg/lunar"
	"github.com/chrissnell/astrocalc/pkg/solar"
	"go.uber.org/zap"
)

// DateLayout is the accepted format of calendar dates.
const DateLayout = "2006-01-02"

// Report is the complete answer for one observer and target instant.
type Report struct {
	Observer  ephemeris.Observer
	Target    time.Time
	Sun       RiseSet
	Moon      RiseSet
	Phase     lunar.Phase
	Solstices solar.Solstices
}

// Almanac computes reports. It keeps no per-request state and may be shared
// between goroutines.
type Almanac struct {
	provider ephemeris.Provider
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates an Almanac backed by provider. A nil logger disables logging.
func New(provider ephemeris.Provider, logger *zap.SugaredLogger) *Almanac {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Almanac{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the clock used for "now" targets.
func (a *Almanac) SetClock(now func() time.Time) {
	a.now = now
}

// ParseTarget turns an optional YYYY-MM-DD date into the target instant:
// midnight UTC of that date, or the current UTC instant when date is empty.
func (a *Almanac) ParseTarget(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return a.now().UTC(), nil
	}
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, date)
	}
	return t, nil
}

// Compute builds the report for obs at target. Steps run in order: body
// positions at target, rise/set of each body over target's UTC day, phase
// classification, then solstices of target's year. A rise/set failure for one
// body degrades only that body; position and solstice failures are returned
// as *StageError.
func (a *Almanac) Compute(obs ephemeris.Observer, target time.Time) (Report, error) {
	if err := obs.Validate(); err != nil {
		return Report{}, err
	}
	target = target.UTC()

	sunPos, err := a.provider.PositionAt(ephemeris.Sun, target, obs)
	if err != nil {
		return Report{}, &StageError{Stage: StagePosition, Err: err}
	}
	moonPos, err := a.provider.PositionAt(ephemeris.Moon, target, obs)
	if err != nil {
		return Report{}, &StageError{Stage: StagePosition, Err: err}
	}

	report := Report{
		Observer: obs,
		Target:   target,
		Sun:      ResolveRiseSet(a.provider, obs, target, ephemeris.Sun),
		Moon:     ResolveRiseSet(a.provider, obs, target, ephemeris.Moon),
	}
	for _, rs := range []RiseSet{report.Sun, report.Moon} {
		if rs.Kind == KindUnavailable {
			a.logger.Warnw("rise/set unavailable",
				"body", rs.Body.String(),
				"lat", obs.Latitude,
				"lon", obs.Longitude,
				"date", target.Format(DateLayout),
				"error", rs.Err)
		}
	}

	report.Phase = lunar.Classify(sunPos.EclipticLongitude, moonPos.EclipticLongitude, moonPos.IlluminatedFraction)

	report.Solstices, err = solar.Resolve(a.provider, target.Year(), obs.Latitude)
	if err != nil {
		return Report{}, &StageError{Stage: StageSolstice, Err: err}
	}

	a.logger.Debugw("computed almanac",
		"lat", obs.Latitude,
		"lon", obs.Longitude,
		"target", target.Format(time.RFC3339),
		"sun", report.Sun.Kind.String(),
		"moon", report.Moon.Kind.String(),
		"phase", report.Phase.Name)

	return report, nil
}
