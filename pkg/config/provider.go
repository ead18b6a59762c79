// Package config loads server, observer, ephemeris and geocoder settings from
// a YAML file or a SQLite settings database.
package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"
)

// Defaults
const (
	DefaultPort              = 8000
	DefaultPressure          = 1013.25
	DefaultHorizonDipArcmin  = -34.0
	DefaultSearchStep        = 10 * time.Minute
	DefaultTolerance         = time.Second
	DefaultGeocoderEndpoint  = "https://nominatim.openstreetmap.org"
	DefaultGeocoderUserAgent = "astrocalc"
	DefaultGeocoderLanguage  = "en"
	DefaultGeocoderLimit     = 1
	DefaultGeocoderTimeout   = 10 * time.Second
)

// DefaultCORSOrigin is the web frontend's development origin.
const DefaultCORSOrigin = "http://localhost:5173"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// LoadConfig returns the configuration with defaults filled in for
	// anything the source does not set.
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server    ServerData    `json:"server" yaml:"server"`
	Observer  ObserverData  `json:"observer" yaml:"observer"`
	Ephemeris EphemerisData `json:"ephemeris" yaml:"ephemeris"`
	Geocoder  GeocoderData  `json:"geocoder" yaml:"geocoder"`
}

// ServerData configures the REST listener.
type ServerData struct {
	ListenAddr         string   `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	Port               int      `json:"port,omitempty" yaml:"port,omitempty"`
	Cert               string   `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key                string   `json:"key,omitempty" yaml:"key,omitempty"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins,omitempty" yaml:"cors_allowed_origins,omitempty"`
}

// ObserverData holds the observer defaults used when a request does not
// supply them.
type ObserverData struct {
	Elevation        float64 `json:"elevation" yaml:"elevation"`
	Pressure         float64 `json:"pressure" yaml:"pressure"`
	HorizonDipArcmin float64 `json:"horizon_dip_arcmin" yaml:"horizon_dip_arcmin"`
}

// EphemerisData tunes the rise/set search.
type EphemerisData struct {
	SearchStep time.Duration `json:"search_step" yaml:"search_step"`
	Tolerance  time.Duration `json:"tolerance" yaml:"tolerance"`
}

// GeocoderData configures the place-name search client.
type GeocoderData struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Endpoint  string        `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	UserAgent string        `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Language  string        `json:"language,omitempty" yaml:"language,omitempty"`
	Limit     int           `json:"limit,omitempty" yaml:"limit,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Default returns a configuration with every field at its default. Providers
// overlay their source onto it, so unset keys keep these values.
func Default() *ConfigData {
	return &ConfigData{
		Server: ServerData{
			Port:               DefaultPort,
			CORSAllowedOrigins: []string{DefaultCORSOrigin},
		},
		Observer: ObserverData{
			Pressure:         DefaultPressure,
			HorizonDipArcmin: DefaultHorizonDipArcmin,
		},
		Ephemeris: EphemerisData{
			SearchStep: DefaultSearchStep,
			Tolerance:  DefaultTolerance,
		},
		Geocoder: GeocoderData{
			Enabled:   true,
			Endpoint:  DefaultGeocoderEndpoint,
			UserAgent: DefaultGeocoderUserAgent,
			Language:  DefaultGeocoderLanguage,
			Limit:     DefaultGeocoderLimit,
			Timeout:   DefaultGeocoderTimeout,
		},
	}
}

// ApplyDefaults fills fields whose zero value is never meaningful. Observer
// values are left alone since zero elevation, pressure and dip are all valid.
func (c *ConfigData) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{DefaultCORSOrigin}
	}
	if c.Ephemeris.SearchStep == 0 {
		c.Ephemeris.SearchStep = DefaultSearchStep
	}
	if c.Ephemeris.Tolerance == 0 {
		c.Ephemeris.Tolerance = DefaultTolerance
	}
	if c.Geocoder.Endpoint == "" {
		c.Geocoder.Endpoint = DefaultGeocoderEndpoint
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = DefaultGeocoderUserAgent
	}
	if c.Geocoder.Language == "" {
		c.Geocoder.Language = DefaultGeocoderLanguage
	}
	if c.Geocoder.Limit == 0 {
		c.Geocoder.Limit = DefaultGeocoderLimit
	}
	if c.Geocoder.Timeout == 0 {
		c.Geocoder.Timeout = DefaultGeocoderTimeout
	}
}

// Validate reports the first invalid setting.
func (c *ConfigData) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if (c.Server.Cert == "") != (c.Server.Key == "") {
		return errors.New("server.cert and server.key must be set together")
	}

	if !finite(c.Observer.Elevation) {
		return errors.New("observer.elevation must be finite")
	}
	if !finite(c.Observer.Pressure) || c.Observer.Pressure < 0 {
		return fmt.Errorf("observer.pressure %v must be a non-negative number", c.Observer.Pressure)
	}
	if !finite(c.Observer.HorizonDipArcmin) || math.Abs(c.Observer.HorizonDipArcmin) > 300 {
		return fmt.Errorf("observer.horizon_dip_arcmin %v out of range [-300,300]", c.Observer.HorizonDipArcmin)
	}

	if c.Ephemeris.SearchStep <= 0 || c.Ephemeris.SearchStep > time.Hour {
		return fmt.Errorf("ephemeris.search_step %s must be in (0,1h]", c.Ephemeris.SearchStep)
	}
	if c.Ephemeris.Tolerance <= 0 || c.Ephemeris.Tolerance >= c.Ephemeris.SearchStep {
		return fmt.Errorf("ephemeris.tolerance %s must be positive and below search_step", c.Ephemeris.Tolerance)
	}

	if c.Geocoder.Enabled {
		u, err := url.Parse(c.Geocoder.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("geocoder.endpoint %q is not an http(s) URL", c.Geocoder.Endpoint)
		}
		if c.Geocoder.Limit < 1 || c.Geocoder.Limit > 50 {
			return fmt.Errorf("geocoder.limit %d out of range [1,50]", c.Geocoder.Limit)
		}
		if c.Geocoder.Timeout <= 0 {
			return fmt.Errorf("geocoder.timeout %s must be positive", c.Geocoder.Timeout)
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
