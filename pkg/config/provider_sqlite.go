package config

import (
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/astrocalc/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteProvider implements ConfigProvider on a key/value settings table in a
// SQLite database. Keys are dotted section paths such as "server.port".
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// SettingsMigrations returns the schema migrations of the settings database.
func SettingsMigrations() *migrate.FSProvider {
	return migrate.NewFSProvider(migrationFS, "migrations", "schema_migrations")
}

// NewSQLiteProvider opens dbPath, creating the schema if needed.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, SettingsMigrations(), nil)
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig overlays every stored setting onto the defaults.
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	config := Default()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		st, ok := lookupSetting(key)
		if !ok {
			return nil, fmt.Errorf("unknown setting %q", key)
		}
		if err := st.set(config, value); err != nil {
			return nil, fmt.Errorf("setting %s: %w", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	return config, nil
}

// SaveConfig replaces every stored setting with the values in config.
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM settings`); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}

	for _, st := range settings {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))`,
			st.key, st.get(config),
		); err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", st.key, err)
		}
	}

	return tx.Commit()
}

// SetValue stores a single setting after checking that it parses.
func (s *SQLiteProvider) SetValue(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := st.set(Default(), value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type setting struct {
	key string
	get func(*ConfigData) string
	set func(*ConfigData, string) error
}

var settings = []setting{
	{"server.listen_addr",
		func(c *ConfigData) string { return c.Server.ListenAddr },
		func(c *ConfigData, v string) error { c.Server.ListenAddr = v; return nil }},
	{"server.port",
		func(c *ConfigData) string { return strconv.Itoa(c.Server.Port) },
		func(c *ConfigData, v string) error { return parseInt(v, &c.Server.Port) }},
	{"server.cert",
		func(c *ConfigData) string { return c.Server.Cert },
		func(c *ConfigData, v string) error { c.Server.Cert = v; return nil }},
	{"server.key",
		func(c *ConfigData) string { return c.Server.Key },
		func(c *ConfigData, v string) error { c.Server.Key = v; return nil }},
	{"server.cors_allowed_origins",
		func(c *ConfigData) string { return strings.Join(c.Server.CORSAllowedOrigins, ",") },
		func(c *ConfigData, v string) error { c.Server.CORSAllowedOrigins = splitList(v); return nil }},
	{"observer.elevation",
		func(c *ConfigData) string { return formatFloat(c.Observer.Elevation) },
		func(c *ConfigData, v string) error { return parseFloat(v, &c.Observer.Elevation) }},
	{"observer.pressure",
		func(c *ConfigData) string { return formatFloat(c.Observer.Pressure) },
		func(c *ConfigData, v string) error { return parseFloat(v, &c.Observer.Pressure) }},
	{"observer.horizon_dip_arcmin",
		func(c *ConfigData) string { return formatFloat(c.Observer.HorizonDipArcmin) },
		func(c *ConfigData, v string) error { return parseFloat(v, &c.Observer.HorizonDipArcmin) }},
	{"ephemeris.search_step",
		func(c *ConfigData) string { return c.Ephemeris.SearchStep.String() },
		func(c *ConfigData, v string) error { return parseDuration(v, &c.Ephemeris.SearchStep) }},
	{"ephemeris.tolerance",
		func(c *ConfigData) string { return c.Ephemeris.Tolerance.String() },
		func(c *ConfigData, v string) error { return parseDuration(v, &c.Ephemeris.Tolerance) }},
	{"geocoder.enabled",
		func(c *ConfigData) string { return strconv.FormatBool(c.Geocoder.Enabled) },
		func(c *ConfigData, v string) error { return parseBool(v, &c.Geocoder.Enabled) }},
	{"geocoder.endpoint",
		func(c *ConfigData) string { return c.Geocoder.Endpoint },
		func(c *ConfigData, v string) error { c.Geocoder.Endpoint = v; return nil }},
	{"geocoder.user_agent",
		func(c *ConfigData) string { return c.Geocoder.UserAgent },
		func(c *ConfigData, v string) error { c.Geocoder.UserAgent = v; return nil }},
	{"geocoder.language",
		func(c *ConfigData) string { return c.Geocoder.Language },
		func(c *ConfigData, v string) error { c.Geocoder.Language = v; return nil }},
	{"geocoder.limit",
		func(c *ConfigData) string { return strconv.Itoa(c.Geocoder.Limit) },
		func(c *ConfigData, v string) error { return parseInt(v, &c.Geocoder.Limit) }},
	{"geocoder.timeout",
		func(c *ConfigData) string { return c.Geocoder.Timeout.String() },
		func(c *ConfigData, v string) error { return parseDuration(v, &c.Geocoder.Timeout) }},
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settings {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseFloat(v string, dst *float64) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func parseBool(v string, dst *bool) error {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func parseDuration(v string, dst *time.Duration) error {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
