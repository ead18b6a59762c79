package ephemeris

import (
	"fmt"
	"time"
)

// crossing describes the direction of a horizon crossing.
type crossing int

const (
	// crossingUp means altitude is increasing through the horizon (rise).
	crossingUp crossing = iota
	// crossingDown means altitude is decreasing through the horizon (set).
	crossingDown
)

func (c crossing) String() string {
	if c == crossingUp {
		return "rising"
	}
	return "setting"
}

// altitudeFunc returns altitude relative to the target horizon, in degrees.
type altitudeFunc func(t time.Time) (float64, error)

// scanResult is the outcome of sampling one span.
type scanResult struct {
	time     time.Time
	found    bool
	sawAbove bool
	sawBelow bool
}

// nextCrossing samples the day following `after` for a crossing in the
// requested direction. A body that never leaves one side of the horizon in
// that day is circumpolar. A body that only crosses the other way (the Moon
// skips one rise and one set each lunation) is followed into the next day;
// if it then stays on one side, as at a pole near an equinox, that side wins.
func (p *MeeusProvider) nextCrossing(body Body, dir crossing, after time.Time, obs Observer) (time.Time, error) {
	if err := obs.Validate(); err != nil {
		return time.Time{}, err
	}

	horizon := obs.EffectiveHorizon()
	f := func(t time.Time) (float64, error) {
		alt, err := upperLimbAltitude(body, t, obs)
		if err != nil {
			return 0, err
		}
		return alt - horizon, nil
	}

	after = after.UTC()
	res, err := p.scan(f, after, after.Add(searchSpan), dir)
	if err != nil {
		return time.Time{}, err
	}
	if res.found {
		return res.time, nil
	}
	if !res.sawBelow {
		return time.Time{}, ErrAlwaysUp
	}
	if !res.sawAbove {
		return time.Time{}, ErrAlwaysDown
	}

	next, err := p.scan(f, after.Add(searchSpan), after.Add(2*searchSpan), dir)
	if err != nil {
		return time.Time{}, err
	}
	switch {
	case next.found:
		return next.time, nil
	case !next.sawBelow:
		return time.Time{}, ErrAlwaysUp
	case !next.sawAbove:
		return time.Time{}, ErrAlwaysDown
	}
	return time.Time{}, fmt.Errorf("%w: %s %s after %s", ErrNoEvent, body, dir, after.Format(time.RFC3339))
}

// scan samples [start, end] every p.step and bisects the first bracket that
// crosses zero in direction dir.
func (p *MeeusProvider) scan(f altitudeFunc, start, end time.Time, dir crossing) (scanResult, error) {
	var res scanResult

	prevT := start
	prev, err := f(prevT)
	if err != nil {
		return res, err
	}
	res.note(prev)

	for t := start.Add(p.step); !t.After(end); t = t.Add(p.step) {
		cur, err := f(t)
		if err != nil {
			return res, err
		}
		res.note(cur)

		if hasCrossing(prev, cur, dir) {
			at, err := p.bisect(f, prevT, t, prev, dir)
			if err != nil {
				return res, err
			}
			res.time = at
			res.found = true
			return res, nil
		}
		prevT, prev = t, cur
	}
	return res, nil
}

func (r *scanResult) note(alt float64) {
	if alt >= 0 {
		r.sawAbove = true
	} else {
		r.sawBelow = true
	}
}

func hasCrossing(a1, a2 float64, dir crossing) bool {
	if dir == crossingUp {
		return a1 < 0 && a2 >= 0
	}
	return a1 >= 0 && a2 < 0
}

func (p *MeeusProvider) bisect(f altitudeFunc, a, b time.Time, altA float64, dir crossing) (time.Time, error) {
	for b.Sub(a) > p.tolerance {
		mid := a.Add(b.Sub(a) / 2)
		altM, err := f(mid)
		if err != nil {
			return time.Time{}, err
		}
		if hasCrossing(altA, altM, dir) {
			b = mid
		} else {
			a, altA = mid, altM
		}
	}
	return a.Add(b.Sub(a) / 2).Round(time.Second), nil
}
