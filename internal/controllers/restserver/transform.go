package restserver

import (
	"time"

	"github.com/chrissnell/astrocalc/internal/almanac"
	"github.com/chrissnell/astrocalc/internal/geocode"
)

// formatInstant renders t as RFC 3339 in UTC with a Z suffix.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// transformReport converts an almanac report to the /astro-data body.
// lat and lon are echoed as requested.
func transformReport(lat, lon float64, r almanac.Report) AstroResponse {
	return AstroResponse{
		Location:    LocationResponse{Lat: lat, Lon: lon},
		CurrentDate: formatInstant(r.Target),
		SunTimes:    transformRiseSet(r.Sun),
		MoonTimes:   transformRiseSet(r.Moon),
		MoonPhase: MoonPhaseResponse{
			PhaseName:           r.Phase.Name,
			IlluminationPercent: r.Phase.IlluminationPercent,
			AgeDays:             r.Phase.AgeDays,
		},
		SolsticesCurrentYear: SolsticeResponse{
			SummerSolstice: formatInstant(r.Solstices.Summer),
			WinterSolstice: formatInstant(r.Solstices.Winter),
			Hemisphere:     string(r.Solstices.Hemisphere),
		},
	}
}

func transformRiseSet(rs almanac.RiseSet) BodyTimesResponse {
	var out BodyTimesResponse
	switch rs.Kind {
	case almanac.KindEvents:
		rise, set := formatInstant(rs.Rise), formatInstant(rs.Set)
		out.Rise, out.Set = &rise, &set
	case almanac.KindAlwaysUp:
		out.IsAlwaysUp = true
	case almanac.KindAlwaysDown:
		out.IsAlwaysDown = true
	case almanac.KindUnavailable:
	}
	return out
}

func transformLocations(locs []geocode.Location) []LocationResult {
	out := make([]LocationResult, 0, len(locs))
	for _, l := range locs {
		r := LocationResult{Name: l.Name, Lat: l.Lat, Lon: l.Lon}
		if l.Country != "" {
			country := l.Country
			r.Country = &country
		}
		out = append(out, r)
	}
	return out
}
