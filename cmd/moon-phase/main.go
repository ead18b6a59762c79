package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/astrocalc/internal/almanac"
	"github.com/chrissnell/astrocalc/pkg/ephemeris"
)

func main() {
	var timeStr string
	var lat, lon float64
	flag.StringVar(&timeStr, "time", "", "UTC time to calculate for (RFC3339 format, e.g., 2024-01-15T12:00:00Z)")
	flag.Float64Var(&lat, "lat", 0, "Observer latitude in decimal degrees, north positive")
	flag.Float64Var(&lon, "lon", 0, "Observer longitude in decimal degrees, east positive")
	flag.Parse()

	var t time.Time
	if timeStr == "" {
		t = time.Now().UTC()
	} else {
		var err error
		t, err = time.Parse(time.RFC3339, timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	alm := almanac.New(ephemeris.NewMeeusProvider(ephemeris.Options{}), nil)
	report, err := alm.Compute(ephemeris.NewObserver(lat, lon), t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	phase := report.Phase
	fmt.Printf("Almanac for %.4f, %.4f at %s\n", lat, lon, report.Target.Format(time.RFC3339))
	fmt.Printf("  Phase Name:   %s\n", phase.Name)
	fmt.Printf("  Illumination: %.1f%%\n", phase.IlluminationPercent)
	fmt.Printf("  Age:          %.1f days\n", phase.AgeDays)
	fmt.Printf("  Separation:   %.1f°\n", phase.Separation)
	if phase.Waxing() {
		fmt.Printf("  Direction:    Waxing\n")
	} else {
		fmt.Printf("  Direction:    Waning\n")
	}
	printRiseSet("Sun", report.Sun)
	printRiseSet("Moon", report.Moon)
	fmt.Printf("  Solstices (%s hemisphere):\n", report.Solstices.Hemisphere)
	fmt.Printf("    Summer:     %s\n", report.Solstices.Summer.Format(time.RFC3339))
	fmt.Printf("    Winter:     %s\n", report.Solstices.Winter.Format(time.RFC3339))
}

func printRiseSet(label string, rs almanac.RiseSet) {
	switch rs.Kind {
	case almanac.KindEvents:
		fmt.Printf("  %-5s rise:   %s\n", label, rs.Rise.Format(time.RFC3339))
		fmt.Printf("  %-5s set:    %s\n", label, rs.Set.Format(time.RFC3339))
	case almanac.KindAlwaysUp:
		fmt.Printf("  %-5s         above the horizon all day\n", label)
	case almanac.KindAlwaysDown:
		fmt.Printf("  %-5s         below the horizon all day\n", label)
	case almanac.KindUnavailable:
		fmt.Printf("  %-5s         rise/set unavailable: %v\n", label, rs.Err)
	}
}
