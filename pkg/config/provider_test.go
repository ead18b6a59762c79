package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &ConfigData{}
	c.ApplyDefaults()

	if c.Server.Port != DefaultPort {
		t.Errorf("Port = %d", c.Server.Port)
	}
	if !reflect.DeepEqual(c.Server.CORSAllowedOrigins, []string{DefaultCORSOrigin}) {
		t.Errorf("CORSAllowedOrigins = %v", c.Server.CORSAllowedOrigins)
	}
	if c.Ephemeris.SearchStep != DefaultSearchStep || c.Ephemeris.Tolerance != DefaultTolerance {
		t.Errorf("Ephemeris = %+v", c.Ephemeris)
	}
	if c.Geocoder.Limit != DefaultGeocoderLimit || c.Geocoder.Timeout != DefaultGeocoderTimeout {
		t.Errorf("Geocoder = %+v", c.Geocoder)
	}
	// Observer zero values are meaningful and stay zero.
	if c.Observer.Pressure != 0 || c.Observer.HorizonDipArcmin != 0 {
		t.Errorf("Observer = %+v, expected untouched", c.Observer)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigData)
		errSub string
	}{
		{"port zero", func(c *ConfigData) { c.Server.Port = 0 }, "server.port"},
		{"port too big", func(c *ConfigData) { c.Server.Port = 70000 }, "server.port"},
		{"cert without key", func(c *ConfigData) { c.Server.Cert = "cert.pem" }, "server.cert"},
		{"nan elevation", func(c *ConfigData) { c.Observer.Elevation = math.NaN() }, "observer.elevation"},
		{"negative pressure", func(c *ConfigData) { c.Observer.Pressure = -1 }, "observer.pressure"},
		{"huge dip", func(c *ConfigData) { c.Observer.HorizonDipArcmin = -400 }, "horizon_dip_arcmin"},
		{"zero step", func(c *ConfigData) { c.Ephemeris.SearchStep = 0 }, "search_step"},
		{"step too long", func(c *ConfigData) { c.Ephemeris.SearchStep = 2 * time.Hour }, "search_step"},
		{"tolerance above step", func(c *ConfigData) { c.Ephemeris.Tolerance = time.Hour }, "tolerance"},
		{"bad endpoint", func(c *ConfigData) { c.Geocoder.Endpoint = "ftp://example.com" }, "geocoder.endpoint"},
		{"zero limit", func(c *ConfigData) { c.Geocoder.Limit = 0 }, "geocoder.limit"},
		{"zero timeout", func(c *ConfigData) { c.Geocoder.Timeout = 0 }, "geocoder.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q does not mention %q", err, tt.errSub)
			}
		})
	}

	t.Run("disabled geocoder skips checks", func(t *testing.T) {
		c := Default()
		c.Geocoder.Enabled = false
		c.Geocoder.Endpoint = ""
		c.Geocoder.Limit = 0
		if err := c.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("zero pressure allowed", func(t *testing.T) {
		c := Default()
		c.Observer.Pressure = 0
		if err := c.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}

func TestYAMLProvider(t *testing.T) {
	doc := `
server:
  listen_addr: 127.0.0.1
  port: 9090
  cors_allowed_origins:
    - https://astro.example.com
    - http://localhost:5173
observer:
  elevation: 250
  pressure: 990
  horizon_dip_arcmin: -50
ephemeris:
  search_step: 5m
geocoder:
  enabled: false
  timeout: 3s
`
	path := filepath.Join(t.TempDir(), "astrocalc.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewYAMLProvider(path)
	defer p.Close()
	if !p.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}

	c, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if c.Server.ListenAddr != "127.0.0.1" || c.Server.Port != 9090 {
		t.Errorf("Server = %+v", c.Server)
	}
	if len(c.Server.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins = %v", c.Server.CORSAllowedOrigins)
	}
	if c.Observer != (ObserverData{Elevation: 250, Pressure: 990, HorizonDipArcmin: -50}) {
		t.Errorf("Observer = %+v", c.Observer)
	}
	if c.Ephemeris.SearchStep != 5*time.Minute {
		t.Errorf("SearchStep = %s", c.Ephemeris.SearchStep)
	}
	// Unset keys keep their defaults.
	if c.Ephemeris.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %s", c.Ephemeris.Tolerance)
	}
	if c.Geocoder.Enabled || c.Geocoder.Timeout != 3*time.Second || c.Geocoder.Endpoint != DefaultGeocoderEndpoint {
		t.Errorf("Geocoder = %+v", c.Geocoder)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "server:\n  prot: 8000\n"},
		{"bad duration", "ephemeris:\n  search_step: often\n"},
		{"bad type", "server:\n  port: eighty\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseYAMLEmpty(t *testing.T) {
	c, err := ParseYAML(nil)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Errorf("empty document = %+v, expected defaults", c)
	}
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	in := Default()
	in.Server.Port = 8443
	in.Ephemeris.SearchStep = 2 * time.Minute

	data, err := MarshalYAML(in)
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	out, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v\n%s", err, data)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); err == nil {
		t.Error("expected error for missing file")
	}
}
