package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/tempedge/internal/rounding"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STATIONS_FILE", "")
	t.Setenv("OPERATOR_UTC_OFFSET", "")
	t.Setenv("OPERATOR_TZ_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppEnv != "dev" || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("env/level = %q/%v", cfg.AppEnv, cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.FetchInterval != 15*time.Minute {
		t.Errorf("timeout/interval = %s/%s", cfg.HTTPTimeout, cfg.FetchInterval)
	}
	if cfg.Operator.UTCOffset != -5 || cfg.Operator.TZName != "EST" {
		t.Errorf("operator = %+v", cfg.Operator)
	}
	if len(cfg.Stations) != len(defaultStations) {
		t.Errorf("got %d stations, want the built-in table", len(cfg.Stations))
	}

	nyc, ok := cfg.Station(" knyc ")
	if !ok || nyc.Kind != rounding.KindHourly {
		t.Errorf("KNYC lookup = %+v, %v", nyc, ok)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"APP_ENV", "staging", "APP_ENV"},
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"HTTP_TIMEOUT", "soon", "HTTP_TIMEOUT"},
		{"FETCH_INTERVAL", "5", "FETCH_INTERVAL"},
		{"OPERATOR_UTC_OFFSET", "20", "OPERATOR_UTC_OFFSET"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("STATIONS_FILE", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadStationsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stations.yaml")
	data := `stations:
  - id: kmia
    name: ${MIAMI_NAME}
    kind: 5min
    utc_offset: -5
    lat: 25.7881
    lon: -80.3169
  - id: KNYC
    kind: hourly
    utc_offset: -5
    lat: 40.7789
    lon: -73.9692
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MIAMI_NAME", "Miami Intl")
	t.Setenv("STATIONS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(cfg.Stations))
	}
	mia := cfg.Stations[0]
	if mia.ID != "KMIA" || mia.Name != "Miami Intl" || mia.Kind != rounding.KindFiveMinute {
		t.Errorf("KMIA = %+v", mia)
	}
	if cfg.Stations[1].Name != "KNYC" {
		t.Errorf("missing name should default to the id, got %q", cfg.Stations[1].Name)
	}
}

func TestParseStationsValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad kind", "stations:\n  - {id: KMIA, kind: daily}\n"},
		{"empty", "stations: []\n"},
		{"malformed", "stations: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStations([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateStations(t *testing.T) {
	stations, err := ParseStations([]byte("stations:\n  - {id: KMIAX, utc_offset: -5}\n"))
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	cfg := &AppConfig{HTTPTimeout: time.Second}
	if err := cfg.setStations(stations); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("five-letter id should fail validation")
	}

	dup := append(DefaultStations(), DefaultStations()[0])
	if err := cfg.setStations(dup); err == nil {
		t.Error("duplicate ids should be rejected")
	}
}

func TestSelectStations(t *testing.T) {
	cfg := &AppConfig{}
	if err := cfg.setStations(DefaultStations()); err != nil {
		t.Fatal(err)
	}

	all, err := cfg.SelectStations(nil)
	if err != nil || len(all) != len(defaultStations) {
		t.Errorf("SelectStations(nil) = %d, %v", len(all), err)
	}

	some, err := cfg.SelectStations([]string{"kden", "KMIA"})
	if err != nil {
		t.Fatalf("SelectStations: %v", err)
	}
	if some[0].ID != "KDEN" || some[1].ID != "KMIA" {
		t.Errorf("order not preserved: %s, %s", some[0].ID, some[1].ID)
	}

	if _, err := cfg.SelectStations([]string{"KZZZ"}); err == nil {
		t.Error("unknown station should fail")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) error = %v, want nil", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation(" Miami , 25.7617, -80.1918")
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	if loc.Name != "Miami" || loc.Lat != 25.7617 || loc.Lon != -80.1918 {
		t.Errorf("loc = %+v", loc)
	}

	for _, bad := range []string{"Miami", "Miami,north,-80", "Miami,25,west", ",25,-80", "Miami,95,-80"} {
		if _, err := ParseLocation(bad); err == nil {
			t.Errorf("ParseLocation(%q) should fail", bad)
		}
	}

	if len(DefaultLocations()) != len(defaultLocations) {
		t.Error("DefaultLocations should copy the table")
	}
}
