package almanac

import (
	"testing"
	"time"

	"github.com/chrissnell/astrocalc/pkg/ephemeris"
	"github.com/chrissnell/astrocalc/pkg/lunar"
	"github.com/chrissnell/astrocalc/pkg/solar"
)

func newMeeusAlmanac() *Almanac {
	return New(ephemeris.NewMeeusProvider(ephemeris.Options{}), nil)
}

func TestScenarioParisJune(t *testing.T) {
	a := newMeeusAlmanac()
	r, err := a.Compute(ephemeris.NewObserver(48.85, 2.35), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if r.Solstices.Hemisphere != solar.Northern {
		t.Errorf("Hemisphere = %q, expected Northern", r.Solstices.Hemisphere)
	}
	wantJune := time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC)
	if d := r.Solstices.Summer.Sub(wantJune); d > 5*time.Minute || d < -5*time.Minute {
		t.Errorf("summer solstice = %s, expected about %s", r.Solstices.Summer, wantJune)
	}
	if r.Solstices.Winter.Month() != time.December {
		t.Errorf("winter solstice = %s, expected December", r.Solstices.Winter)
	}

	if r.Sun.Kind != KindEvents {
		t.Fatalf("Sun.Kind = %v, expected events", r.Sun.Kind)
	}
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if r.Sun.Rise.Before(day) || !r.Sun.Rise.Before(day.Add(24*time.Hour)) {
		t.Errorf("sunrise %s outside the day", r.Sun.Rise)
	}
	if !r.Sun.Rise.Before(r.Sun.Set) {
		t.Errorf("sunrise %s not before sunset %s in Paris", r.Sun.Rise, r.Sun.Set)
	}

	// 2024-06-01 is a few days before the 6 June new moon.
	if r.Phase.Name != lunar.WaningCrescent {
		t.Errorf("Phase = %q, expected %q", r.Phase.Name, lunar.WaningCrescent)
	}
}

func TestScenarioSydneyJune(t *testing.T) {
	a := newMeeusAlmanac()
	r, err := a.Compute(ephemeris.NewObserver(-33.87, 151.21), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if r.Solstices.Hemisphere != solar.Southern {
		t.Errorf("Hemisphere = %q, expected Southern", r.Solstices.Hemisphere)
	}
	if r.Solstices.Winter.Month() != time.June {
		t.Errorf("winter solstice = %s, expected June", r.Solstices.Winter)
	}
	if r.Solstices.Summer.Month() != time.December {
		t.Errorf("summer solstice = %s, expected December", r.Solstices.Summer)
	}
}

func TestScenarioArcticSummer(t *testing.T) {
	a := newMeeusAlmanac()
	for _, date := range []string{"2024-06-01", "2024-06-21", "2024-07-15"} {
		target, err := a.ParseTarget(date)
		if err != nil {
			t.Fatalf("ParseTarget: %v", err)
		}
		r, err := a.Compute(ephemeris.NewObserver(80, 15), target)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if !r.Sun.AlwaysUp() {
			t.Errorf("%s: sun kind = %v, expected always up", date, r.Sun.Kind)
		}
		if !r.Sun.Rise.IsZero() || !r.Sun.Set.IsZero() {
			t.Errorf("%s: circumpolar sun has rise %s / set %s", date, r.Sun.Rise, r.Sun.Set)
		}
	}
}

func TestScenarioArcticWinter(t *testing.T) {
	a := newMeeusAlmanac()
	r, err := a.Compute(ephemeris.NewObserver(80, 15), time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !r.Sun.AlwaysDown() {
		t.Errorf("sun kind = %v, expected always down", r.Sun.Kind)
	}
}

func TestSunEventsStayInsideDayWindow(t *testing.T) {
	p := ephemeris.NewMeeusProvider(ephemeris.Options{})

	for _, lat := range []float64{-60, -33.87, -10, 0, 12.5, 48.85, 60} {
		for _, lon := range []float64{-150, -75, 0, 2.35, 100, 179} {
			for month := 1; month <= 12; month += 2 {
				day := time.Date(2023, time.Month(month), 10, 0, 0, 0, 0, time.UTC)
				rs := ResolveRiseSet(p, ephemeris.NewObserver(lat, lon), day.Add(13*time.Hour), ephemeris.Sun)
				if rs.Kind != KindEvents {
					t.Errorf("lat %v lon %v %s: kind %v, expected events", lat, lon, day.Format(DateLayout), rs.Kind)
					continue
				}
				end := day.Add(24 * time.Hour)
				if rs.Rise.Before(day) || !rs.Rise.Before(end) || rs.Set.Before(day) || !rs.Set.Before(end) {
					t.Errorf("lat %v lon %v %s: rise %s set %s outside day window",
						lat, lon, day.Format(DateLayout), rs.Rise.Format(time.RFC3339), rs.Set.Format(time.RFC3339))
				}
			}
		}
	}
}

// Near the polar circles the midnight-anchored window decides whether a
// solstice-adjacent day is circumpolar or has a brief rise/set. Only the
// exclusivity of the states is asserted there, not which state results.
func TestHighLatitudeExclusivity(t *testing.T) {
	p := ephemeris.NewMeeusProvider(ephemeris.Options{})

	for _, lat := range []float64{-89, -75, -67, -66.5, 65.5, 66.6, 67, 72, 78.2, 89} {
		for _, date := range []time.Time{
			time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 19, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 9, 22, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC),
		} {
			for _, body := range []ephemeris.Body{ephemeris.Sun, ephemeris.Moon} {
				rs := ResolveRiseSet(p, ephemeris.NewObserver(lat, 25), date, body)
				if rs.Kind == KindUnavailable {
					t.Errorf("lat %v %s %v: unavailable: %v", lat, date.Format(DateLayout), body, rs.Err)
					continue
				}
				assertExactlyOneState(t, rs)
			}
		}
	}
}

// On the Moon's skipped-event days the missing event is the next day's.
func TestMoonSkippedEventSpillsIntoNextDay(t *testing.T) {
	p := ephemeris.NewMeeusProvider(ephemeris.Options{})
	obs := ephemeris.NewObserver(48.85, 2.35)

	day := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	rs := ResolveRiseSet(p, obs, day, ephemeris.Moon)
	if rs.Kind != KindEvents {
		t.Fatalf("kind = %v, expected events", rs.Kind)
	}
	next := day.Add(24 * time.Hour)
	if rs.Rise.Before(next) || !rs.Rise.Before(next.Add(24*time.Hour)) {
		t.Errorf("moonrise %s, expected on %s", rs.Rise.Format(time.RFC3339), next.Format(DateLayout))
	}
	if rs.Set.Before(day) || !rs.Set.Before(next) {
		t.Errorf("moonset %s, expected on %s", rs.Set.Format(time.RFC3339), day.Format(DateLayout))
	}

	spilled := 0
	for i := 0; i < 60; i++ {
		d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		rs := ResolveRiseSet(p, obs, d, ephemeris.Moon)
		if rs.Kind != KindEvents {
			t.Errorf("%s: kind = %v, expected events", d.Format(DateLayout), rs.Kind)
			continue
		}
		end := d.Add(24 * time.Hour)
		for _, at := range []time.Time{rs.Rise, rs.Set} {
			if at.Before(d) || !at.Before(end.Add(24*time.Hour)) {
				t.Errorf("%s: moon event %s beyond the following day", d.Format(DateLayout), at.Format(time.RFC3339))
			}
		}
		if !rs.Rise.Before(end) && !rs.Set.Before(end) {
			t.Errorf("%s: both moon events spilled past the day", d.Format(DateLayout))
		}
		if !rs.Rise.Before(end) || !rs.Set.Before(end) {
			spilled++
		}
	}
	if spilled == 0 || spilled > 6 {
		t.Errorf("%d of 60 days had a spilled moon event, expected a few", spilled)
	}
}
