package ephemeris

import (
	"math"
	"time"
)

const (
	kmPerAU       = 149597870.7
	earthRadiusKm = 6378.14
	sunRadiusKm   = 696000.0
	moonRadiusKm  = 1737.4
)

// normalizeAngle wraps an angle to the range [0, 360)
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle = 0
	}
	return angle
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// obliquity computes the mean obliquity of the ecliptic in degrees (IAU formula)
func obliquity(T float64) float64 {
	return 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T
}

// eclipticToEquatorial converts ecliptic coordinates to right ascension and
// declination. All angles in degrees.
func eclipticToEquatorial(lambdaDeg, betaDeg, epsilonDeg float64) (ra, dec float64) {
	lam := degToRad(lambdaDeg)
	bet := degToRad(betaDeg)
	eps := degToRad(epsilonDeg)

	sinDec := math.Sin(bet)*math.Cos(eps) + math.Cos(bet)*math.Sin(eps)*math.Sin(lam)
	dec = math.Asin(sinDec)

	y := math.Sin(lam)*math.Cos(eps) - math.Tan(bet)*math.Sin(eps)
	x := math.Cos(lam)
	ra = math.Atan2(y, x)

	return normalizeAngle(radToDeg(ra)), radToDeg(dec)
}

// greenwichMeanSiderealTime computes GMST in degrees for a Julian Day (UT),
// IAU 1982 model.
func greenwichMeanSiderealTime(jd float64) float64 {
	jd0 := math.Floor(jd-0.5) + 0.5
	T := (jd0 - 2451545.0) / 36525.0

	gmst := 6.697374558 + 2400.0513369*T + 0.0000258622*T*T - 1.7222e-9*T*T*T
	gmst += 1.00273790935 * (jd - jd0) * 24.0

	gmst = math.Mod(gmst, 24)
	if gmst < 0 {
		gmst += 24
	}
	return gmst * 15.0
}

// horizontal converts equatorial coordinates to geocentric altitude and
// azimuth (from north, through east) for an observer at the given Julian Day.
func horizontal(jd float64, obs Observer, raDeg, decDeg float64) (alt, az float64) {
	lst := normalizeAngle(greenwichMeanSiderealTime(jd) + obs.Longitude)
	H := degToRad(lst - raDeg)
	phi := degToRad(obs.Latitude)
	dec := degToRad(decDeg)

	sinAlt := math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(H)
	if sinAlt > 1 {
		sinAlt = 1
	} else if sinAlt < -1 {
		sinAlt = -1
	}
	alt = math.Asin(sinAlt)

	y := -math.Cos(dec) * math.Sin(H)
	x := math.Sin(dec)*math.Cos(phi) - math.Cos(dec)*math.Cos(H)*math.Sin(phi)
	az = math.Atan2(y, x)

	return radToDeg(alt), normalizeAngle(radToDeg(az))
}

// topocentric lowers a geocentric altitude by the body's horizontal parallax.
func topocentric(altDeg, distanceKm float64) float64 {
	parallax := math.Asin(earthRadiusKm / distanceKm)
	return altDeg - radToDeg(parallax*math.Cos(degToRad(altDeg)))
}

// semidiameter returns the apparent angular radius, in degrees, of a body
// with the given physical radius seen from distanceKm.
func semidiameter(radiusKm, distanceKm float64) float64 {
	return radToDeg(math.Asin(radiusKm / distanceKm))
}

// deltaT returns TT - UT for t using the Espenak & Meeus polynomial fits.
func deltaT(t time.Time) time.Duration {
	t = t.UTC()
	y := float64(t.Year()) + (float64(t.YearDay())-0.5)/365.25

	var sec float64
	switch {
	case y >= 2050 && y < 2150:
		u := (y - 1820) / 100
		sec = -20 + 32*u*u - 0.5628*(2150-y)
	case y >= 2005 && y < 2050:
		d := y - 2000
		sec = 62.92 + 0.32217*d + 0.005589*d*d
	case y >= 1986 && y < 2005:
		d := y - 2000
		sec = 63.86 + 0.3345*d - 0.060374*d*d + 0.0017275*d*d*d +
			0.000651814*d*d*d*d + 0.00002373599*d*d*d*d*d
	case y >= 1961 && y < 1986:
		d := y - 1975
		sec = 45.45 + 1.067*d - d*d/260 - d*d*d/718
	case y >= 1941 && y < 1961:
		d := y - 1950
		sec = 29.07 + 0.407*d - d*d/233 + d*d*d/2547
	case y >= 1920 && y < 1941:
		d := y - 1920
		sec = 21.20 + 0.84493*d - 0.076100*d*d + 0.0020936*d*d*d
	case y >= 1900 && y < 1920:
		d := y - 1900
		sec = -2.79 + 1.494119*d - 0.0598939*d*d + 0.0061966*d*d*d - 0.000197*d*d*d*d
	default:
		u := (y - 1820) / 100
		sec = -20 + 32*u*u
	}
	return time.Duration(sec * float64(time.Second))
}
