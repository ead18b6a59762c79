package almanac

import (
	"errors"
	"time"

	"github.com/chrissnell/astrocalc/pkg/ephemeris"
)

// RiseSetKind tells which of the mutually exclusive rise/set states applies.
type RiseSetKind int

const (
	// KindUnavailable means the provider failed; rise and set are unknown.
	KindUnavailable RiseSetKind = iota
	// KindEvents means both rise and set were found.
	KindEvents
	// KindAlwaysUp means the body stays above the horizon all day.
	KindAlwaysUp
	// KindAlwaysDown means the body stays below the horizon all day.
	KindAlwaysDown
)

func (k RiseSetKind) String() string {
	switch k {
	case KindEvents:
		return "events"
	case KindAlwaysUp:
		return "always_up"
	case KindAlwaysDown:
		return "always_down"
	default:
		return "unavailable"
	}
}

// RiseSet is the rise/set outcome for one body on one calendar day. Rise and
// Set are only meaningful when Kind is KindEvents.
type RiseSet struct {
	Body ephemeris.Body
	Kind RiseSetKind
	Rise time.Time
	Set  time.Time

	// Err holds the provider failure behind KindUnavailable.
	Err error
}

// AlwaysUp reports the circumpolar-day state.
func (r RiseSet) AlwaysUp() bool { return r.Kind == KindAlwaysUp }

// AlwaysDown reports the polar-night state.
func (r RiseSet) AlwaysDown() bool { return r.Kind == KindAlwaysDown }

// WindowStart returns midnight UTC of the calendar day containing t.
func WindowStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResolveRiseSet finds the rise and set of body on the UTC calendar day of
// targetDate. Both searches start at the day's midnight regardless of the time
// of day in targetDate. Sun events fall inside that day. The Moon skips one
// rise and one set each lunation; on such a day the missing event is the
// first one of the following day, so it lies in [D+1, D+2). Circumpolar
// conditions become AlwaysUp/AlwaysDown; any other failure degrades to
// KindUnavailable rather than an error.
func ResolveRiseSet(p ephemeris.Provider, obs ephemeris.Observer, targetDate time.Time, body ephemeris.Body) RiseSet {
	start := WindowStart(targetDate)
	res := RiseSet{Body: body}

	rise, err := p.NextRising(body, start, obs)
	if kind, ok := circumpolar(err); ok {
		res.Kind = kind
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}

	set, err := p.NextSetting(body, start, obs)
	if kind, ok := circumpolar(err); ok {
		res.Kind = kind
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}

	res.Kind = KindEvents
	res.Rise = rise.UTC()
	res.Set = set.UTC()
	return res
}

func circumpolar(err error) (RiseSetKind, bool) {
	switch {
	case errors.Is(err, ephemeris.ErrAlwaysUp):
		return KindAlwaysUp, true
	case errors.Is(err, ephemeris.ErrAlwaysDown):
		return KindAlwaysDown, true
	default:
		return KindUnavailable, false
	}
}
