package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/tempedge/internal/config"
)

func metarLine(ts time.Time, tGroup string) string {
	return fmt.Sprintf("KMIA %02d%02d%02dZ 09008KT 10SM FEW030 A3014 RMK AO2 %s", ts.Day(), ts.Hour(), ts.Minute(), tGroup)
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/metar", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "KMIA" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		fmt.Fprintf(w, `[{"icaoId":"KMIA","rawOb":%q},{"icaoId":"KMIA","rawOb":%q}]`,
			metarLine(now.Add(-2*time.Hour), "T02220172"),
			metarLine(now.Add(-time.Hour), "T02330172"),
		)
	})
	mux.HandleFunc("/nws/stations/KMIA/observations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		fmt.Fprint(w, nwsObservations(now.Truncate(time.Hour), 72))
	})
	mux.HandleFunc("/openmeteo/ecmwf", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"daily":{"time":["2024-01-19"],"temperature_2m_max":[84.6],"temperature_2m_min":[70.2]}}`)
	})
	mux.HandleFunc("/openmeteo/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"daily":{"time":["2024-01-19"],"temperature_2m_max":[83.1],"temperature_2m_min":[71.0]}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// nwsObservations renders hourly readings going back n hours from end, warmest
// at noon UTC.
func nwsObservations(end time.Time, n int) string {
	features := make([]string, 0, n)
	for i := range n {
		ts := end.Add(-time.Duration(i) * time.Hour)
		c := 15 + float64(12-abs(ts.Hour()-12))/2
		features = append(features, fmt.Sprintf(
			`{"properties":{"timestamp":%q,"textDescription":"Clear","temperature":{"unitCode":"wmoUnit:degC","value":%.1f}}}`,
			ts.Format(time.RFC3339), c))
	}
	return `{"features":[` + strings.Join(features, ",") + `]}`
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	srv := newUpstream(t)

	t.Setenv("APP_ENV", "prod")
	t.Setenv("STATIONS_FILE", "")
	t.Setenv("OUTPUT_DIR", t.TempDir())
	t.Setenv("AVIATIONWEATHER_URL", srv.URL+"/metar")
	t.Setenv("NWS_URL", srv.URL+"/nws")
	t.Setenv("OPENMETEO_URL", srv.URL+"/openmeteo")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	var out bytes.Buffer
	return newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), &out), &out
}

func TestResolveCommand(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.run(context.Background(), "resolve", []string{"1", "-1", "--kind", "5min"}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Candidates: 33F, 34F", "Candidates: 30F, 31F", "Feed shows: 33.8F"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	if err := a.run(context.Background(), "resolve", nil); err == nil {
		t.Error("resolve without values should fail")
	}
	for _, bad := range [][]string{{"warm"}, {"NaN"}, {"Inf"}, {"+Inf"}, {"1", "-Inf"}} {
		out.Reset()
		err := a.run(context.Background(), "resolve", bad)
		if err == nil || !strings.Contains(err.Error(), "invalid Celsius value") {
			t.Errorf("resolve %v: err = %v, want invalid Celsius value", bad, err)
		}
		if out.Len() != 0 {
			t.Errorf("resolve %v printed output before failing:\n%s", bad, out.String())
		}
	}
}

func TestScanCommand(t *testing.T) {
	a, out := newTestApp(t)

	err := a.run(context.Background(), "scan", []string{"--station", "KMIA,KDEN", "--extreme", "max", "--csv"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	got := out.String()
	for _, want := range []string{"TRADING REPORT: KMIA", "TRUE Maximum: 74F", "KDEN: NO DATA AVAILABLE", "Saved: "} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	files, _ := filepath.Glob(filepath.Join(a.cfg.OutputDir, "scan_KMIA_*.csv"))
	if len(files) != 1 {
		t.Errorf("got %d csv files, want 1", len(files))
	}

	if err := a.run(context.Background(), "scan", []string{"--date", "19/01/2024"}); err == nil {
		t.Error("bad date should fail")
	}
	if err := a.run(context.Background(), "scan", []string{"--station", "KZZZ"}); err == nil {
		t.Error("unknown station should fail")
	}
}

func TestForecastCommand(t *testing.T) {
	a, out := newTestApp(t)

	err := a.run(context.Background(), "forecast", []string{"--location", "Miami,25.7617,-80.1918", "--csv"})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Miami") || !strings.Contains(got, "High:  84F") {
		t.Errorf("unexpected output:\n%s", got)
	}

	entries, err := os.ReadDir(a.cfg.OutputDir)
	if err != nil || len(entries) != 1 {
		t.Errorf("output dir entries = %v, %v", entries, err)
	}

	if err := a.run(context.Background(), "forecast", []string{"--location", "Miami"}); err == nil {
		t.Error("malformed location should fail")
	}
}

func TestHighLowCommand(t *testing.T) {
	a, out := newTestApp(t)

	err := a.run(context.Background(), "highlow", []string{"--station", "KMIA,KDEN", "--csv"})
	if err != nil {
		t.Fatalf("highlow: %v", err)
	}
	got := out.String()
	for _, want := range []string{"HIGH/LOW SUMMARY", "KMIA Miami Intl Airport", "Predicted CLI high:", "Predicted CLI low:", "KDEN: no data", "Saved: "} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	files, _ := filepath.Glob(filepath.Join(a.cfg.OutputDir, "highlow_*.csv"))
	if len(files) != 1 {
		t.Errorf("got %d csv files, want 1", len(files))
	}

	if err := a.run(context.Background(), "highlow", []string{"--station", "KZZZ"}); err == nil {
		t.Error("unknown station should fail")
	}
}

func TestScheduleCommand(t *testing.T) {
	a, out := newTestApp(t)

	err := a.run(context.Background(), "schedule", []string{"--station", "KMIA,KDEN", "--check", "both"})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	got := out.String()
	for _, want := range []string{"OPTIMAL TRADING SCHEDULE", "Miami Intl Airport", "Trade Miami Intl Airport HIGH", "KDEN: no schedule", "READINESS (both)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	if err := a.run(context.Background(), "schedule", []string{"--check", "soon"}); err == nil {
		t.Error("invalid --check should fail")
	}
}

func TestUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.run(context.Background(), "trade", nil); err == nil {
		t.Error("unknown command should fail")
	}
}

func TestServerHealth(t *testing.T) {
	a, _ := newTestApp(t)
	server := a.newServer()

	resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d, want 200", resp.StatusCode)
	}

	resp, err = server.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/latest?station=KMIA", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("latest before any scan: status %d, want 404", resp.StatusCode)
	}
}
