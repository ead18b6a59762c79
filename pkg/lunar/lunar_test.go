package lunar

import (
	"math"
	"testing"
)

func TestPhaseName(t *testing.T) {
	tests := []struct {
		separation float64
		expected   string
	}{
		{0, NewMoon},
		{9.999, NewMoon},
		{10, WaxingCrescent},
		{84.9, WaxingCrescent},
		{85, FirstQuarter},
		{90, FirstQuarter},
		{95, WaxingGibbous},
		{174.99, WaxingGibbous},
		{175, FullMoon},
		{180, FullMoon},
		{185, WaningGibbous},
		{264.9, WaningGibbous},
		{265, LastQuarter},
		{270, LastQuarter},
		{275, WaningCrescent},
		{349.99, WaningCrescent},
		{350, NewMoon},
		{359.9, NewMoon},
		{360, NewMoon},
		{-90, LastQuarter},
		{450, FirstQuarter},
	}

	for _, tt := range tests {
		if got := PhaseName(tt.separation); got != tt.expected {
			t.Errorf("PhaseName(%v) = %q, expected %q", tt.separation, got, tt.expected)
		}
	}
}

func TestPhaseBinsExhaustive(t *testing.T) {
	// Every tenth of a degree maps to exactly one bin and names change only at bin edges.
	edges := map[int]bool{100: true, 850: true, 950: true, 1750: true, 1850: true, 2650: true, 2750: true, 3500: true}
	prev := PhaseName(0)
	for i := 1; i < 3600; i++ {
		name := PhaseName(float64(i) / 10)
		if name == "" {
			t.Fatalf("PhaseName(%.1f) is empty", float64(i)/10)
		}
		if name != prev && !edges[i] {
			t.Errorf("phase changed from %q to %q at %.1f, not a bin edge", prev, name, float64(i)/10)
		}
		if name == prev && edges[i] {
			t.Errorf("phase did not change at bin edge %.1f", float64(i)/10)
		}
		prev = name
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		sun, moon float64
		expected  float64
	}{
		{0, 0, 0},
		{10, 100, 90},
		{100, 10, 270},
		{350, 5, 15},
		{5, 350, 345},
		{720.5, 0.5, 0},
	}

	for _, tt := range tests {
		got := Separation(tt.sun, tt.moon)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Separation(%v, %v) = %v, expected %v", tt.sun, tt.moon, got, tt.expected)
		}
		if got < 0 || got >= 360 {
			t.Errorf("Separation(%v, %v) = %v out of range [0, 360)", tt.sun, tt.moon, got)
		}
	}
}

func TestSeparationRange(t *testing.T) {
	for sun := -720.0; sun <= 720; sun += 13.7 {
		for moon := -720.0; moon <= 720; moon += 11.3 {
			sep := Separation(sun, moon)
			if sep < 0 || sep >= 360 {
				t.Fatalf("Separation(%v, %v) = %v out of range [0, 360)", sun, moon, sep)
			}
		}
	}
	if sep := Separation(1e-16, 0); sep < 0 || sep >= 360 {
		t.Errorf("Separation of a tiny negative difference = %v, out of range", sep)
	}
}

func TestAgeDays(t *testing.T) {
	for sep := 0.0; sep < 360; sep += 0.25 {
		age := AgeDays(sep)
		if age < 0 || age >= SynodicMonth {
			t.Errorf("AgeDays(%v) = %v out of range [0, %v)", sep, age, SynodicMonth)
		}
		if want := sep / 360 * 29.53; math.Abs(age-want) > 1e-12 {
			t.Errorf("AgeDays(%v) = %v, expected %v", sep, age, want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		sun, moon    float64
		fraction     float64
		expectedName string
		expectedIllu float64
		expectedAge  float64
	}{
		{"new moon", 75, 75, 0.0004, NewMoon, 0, 0},
		{"first quarter", 75, 165, 0.5031, FirstQuarter, 50.3, 7.4},
		{"full moon", 90, 270, 0.99993, FullMoon, 100, 14.8},
		{"last quarter", 300, 210, 0.4968, LastQuarter, 49.7, 22.1},
		{"waning crescent wraps", 10, 300, 0.12, WaningCrescent, 12, 23.8},
		{"new moon just before wrap", 0.1, 0, 0.0001, NewMoon, 0, 29.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(tt.sun, tt.moon, tt.fraction)
			if p.Name != tt.expectedName {
				t.Errorf("Name = %q, expected %q", p.Name, tt.expectedName)
			}
			if math.Abs(p.IlluminationPercent-tt.expectedIllu) > 1e-9 {
				t.Errorf("IlluminationPercent = %v, expected %v", p.IlluminationPercent, tt.expectedIllu)
			}
			if math.Abs(p.AgeDays-tt.expectedAge) > 1e-9 {
				t.Errorf("AgeDays = %v, expected %v", p.AgeDays, tt.expectedAge)
			}
		})
	}
}

func TestIlluminationIsNotDerivedFromSeparation(t *testing.T) {
	// A full-moon separation with a provider-reported 97.3% stays 97.3%.
	p := Classify(0, 180, 0.973)
	if p.IlluminationPercent != 97.3 {
		t.Errorf("IlluminationPercent = %v, expected 97.3", p.IlluminationPercent)
	}
}

func TestIlluminationPercentClamp(t *testing.T) {
	tests := []struct {
		fraction float64
		expected float64
	}{
		{-0.01, 0},
		{0, 0},
		{0.12345, 12.3},
		{0.12351, 12.4},
		{1, 100},
		{1.2, 100},
	}
	for _, tt := range tests {
		if got := IlluminationPercent(tt.fraction); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("IlluminationPercent(%v) = %v, expected %v", tt.fraction, got, tt.expected)
		}
	}
}

func TestWaxing(t *testing.T) {
	if !Classify(0, 90, 0.5).Waxing() {
		t.Error("first quarter should be waxing")
	}
	if Classify(0, 270, 0.5).Waxing() {
		t.Error("last quarter should be waning")
	}
}

func TestSynodicMonth(t *testing.T) {
	if SynodicMonth != 29.53 {
		t.Errorf("SynodicMonth = %v, expected 29.53", SynodicMonth)
	}
}
