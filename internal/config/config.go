package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/tempedge/internal/common"
	"github.com/i474232898/tempedge/internal/weather"
	"github.com/i474232898/tempedge/internal/weather/providers"
)

type AppConfig struct {
	AppEnv   string
	LogLevel slog.Level

	// HTTPTimeout bounds every upstream request.
	HTTPTimeout time.Duration

	// FetchInterval controls how often watch mode rescans the stations.
	FetchInterval time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of reports per station (0 = unlimited)
	StoreMaxAge     time.Duration // max age of reports (0 = unlimited)

	Port string

	// StationsFile optionally replaces the built-in station table.
	StationsFile string
	Stations     []weather.Station

	Operator weather.Operator

	NWSUserAgent string
	OutputDir    string

	AviationWeatherURL string
	NWSURL             string
	OpenMeteoURL       string

	byID map[string]weather.Station
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	offset := getenvInt("OPERATOR_UTC_OFFSET", -5)
	cfg.Operator = weather.Operator{
		UTCOffset: offset,
		TZName:    getenvDefault("OPERATOR_TZ_NAME", common.ZoneName(offset)),
	}

	cfg.NWSUserAgent = getenvDefault("NWS_USER_AGENT", providers.DefaultNWSUserAgent)
	cfg.OutputDir = getenvDefault("OUTPUT_DIR", "output")

	cfg.AviationWeatherURL = getenvDefault("AVIATIONWEATHER_URL", providers.DefaultAviationWeatherURL)
	cfg.NWSURL = getenvDefault("NWS_URL", providers.DefaultNWSURL)
	cfg.OpenMeteoURL = getenvDefault("OPENMETEO_URL", providers.DefaultOpenMeteoURL)

	cfg.StationsFile = os.Getenv("STATIONS_FILE")
	stations := DefaultStations()
	if cfg.StationsFile != "" {
		stations, err = LoadStations(cfg.StationsFile)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.setStations(stations); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the station table and operator settings.
func (c *AppConfig) Validate() error {
	if len(c.Stations) == 0 {
		return errors.New("no stations configured")
	}
	for _, st := range c.Stations {
		if err := validate.Struct(st); err != nil {
			return fmt.Errorf("station %q: %w", st.ID, err)
		}
	}
	if c.Operator.UTCOffset < -12 || c.Operator.UTCOffset > 14 {
		return fmt.Errorf("invalid OPERATOR_UTC_OFFSET %d", c.Operator.UTCOffset)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

func (c *AppConfig) setStations(stations []weather.Station) error {
	byID := make(map[string]weather.Station, len(stations))
	for _, st := range stations {
		if _, dup := byID[st.ID]; dup {
			return fmt.Errorf("duplicate station %q", st.ID)
		}
		byID[st.ID] = st
	}
	c.Stations = stations
	c.byID = byID
	return nil
}

// Station looks up a configured station by id, case-insensitively.
func (c *AppConfig) Station(id string) (weather.Station, bool) {
	st, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	return st, ok
}

// SelectStations resolves ids against the table. No ids selects every station.
func (c *AppConfig) SelectStations(ids []string) ([]weather.Station, error) {
	if len(ids) == 0 {
		out := make([]weather.Station, len(c.Stations))
		copy(out, c.Stations)
		return out, nil
	}
	out := make([]weather.Station, 0, len(ids))
	for _, id := range ids {
		st, ok := c.Station(id)
		if !ok {
			return nil, fmt.Errorf("unknown station %q", id)
		}
		out = append(out, st)
	}
	return out, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
