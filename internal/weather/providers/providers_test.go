package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/i474232898/tempedge/internal/weather"
)

func TestAviationWeatherFetchMETARs(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"icaoId":"KMIA","reportTime":"2024-01-19T14:53:00.000Z","rawOb":"KMIA 191453Z 09008KT 10SM FEW030 22/17 A3014 RMK AO2 T02220172"},
			{"icaoId":"KMIA","reportTime":"2024-01-19 13:53:00","rawOb":"KMIA 191353Z 09007KT 10SM FEW030 21/17 A3013"}
		]`))
	}))
	defer srv.Close()

	p := NewAviationWeatherProvider(srv.Client(), srv.URL)
	recs, err := p.FetchMETARs(context.Background(), "KMIA", 48)
	if err != nil {
		t.Fatalf("FetchMETARs: %v", err)
	}
	if gotQuery != "format=json&hours=48&ids=KMIA" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	want := time.Date(2024, 1, 19, 14, 53, 0, 0, time.UTC)
	if !recs[0].ReportTime.Equal(want) {
		t.Errorf("ReportTime = %s, want %s", recs[0].ReportTime, want)
	}
	if !recs[1].ReportTime.Equal(want.Add(-time.Hour)) {
		t.Errorf("space-separated ReportTime = %s", recs[1].ReportTime)
	}
	if recs[0].StationID != "KMIA" {
		t.Errorf("StationID = %q", recs[0].StationID)
	}
}

func TestAviationWeatherEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	recs, err := NewAviationWeatherProvider(srv.Client(), srv.URL).FetchMETARs(context.Background(), "KXYZ", 48)
	if err != nil {
		t.Fatalf("FetchMETARs: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records, want none", len(recs))
	}
}

func TestNWSFetchObservations(t *testing.T) {
	var gotPath, gotUA, gotStart string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotStart = r.URL.Query().Get("start")
		_, _ = w.Write([]byte(`{"features":[
			{"properties":{"timestamp":"2024-01-19T22:00:00+00:00","textDescription":"Cloudy",
				"temperature":{"unitCode":"wmoUnit:degC","value":2.8},
				"dewpoint":{"unitCode":"wmoUnit:degC","value":-1.1},
				"relativeHumidity":{"value":75.2},
				"windSpeed":{"value":18.4},
				"windDirection":{"value":270}}},
			{"properties":{"timestamp":"2024-01-19T21:55:00+00:00",
				"temperature":{"unitCode":"wmoUnit:degC","value":null}}},
			{"properties":{"timestamp":"not-a-time",
				"temperature":{"unitCode":"wmoUnit:degC","value":3}}}
		]}`))
	}))
	defer srv.Close()

	start := time.Date(2024, 1, 18, 23, 0, 0, 0, time.UTC)
	p := NewNWSProvider(srv.Client(), srv.URL+"/", "test-agent")
	recs, err := p.FetchObservations(context.Background(), "KMDW", start)
	if err != nil {
		t.Fatalf("FetchObservations: %v", err)
	}
	if gotPath != "/stations/KMDW/observations" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotStart != "2024-01-18T23:00:00Z" {
		t.Errorf("start = %q", gotStart)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1 (null and bad timestamps skipped)", len(recs))
	}
	r := recs[0]
	if r.Celsius != 2.8 || r.Description != "Cloudy" {
		t.Errorf("record = %+v", r)
	}
	if r.DewpointC == nil || *r.DewpointC != -1.1 {
		t.Errorf("DewpointC = %v", r.DewpointC)
	}
	if r.WindDirection == nil || *r.WindDirection != 270 {
		t.Errorf("WindDirection = %v", r.WindDirection)
	}
}

func TestOpenMeteoFetchDailyForecast(t *testing.T) {
	paths := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		paths[r.URL.Path] = q.Get("temperature_unit") + "|" + q.Get("forecast_days") + "|" + q.Get("daily")
		_, _ = w.Write([]byte(`{"daily":{"time":["2024-01-19"],"temperature_2m_max":[84.6],"temperature_2m_min":[70.2]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)
	loc := weather.Location{Name: "Miami", Lat: 25.7617, Lon: -80.1918}

	for _, model := range []weather.ForecastModel{weather.ModelECMWF, weather.ModelMultiModel} {
		fc, err := p.FetchDailyForecast(context.Background(), loc, model)
		if err != nil {
			t.Fatalf("%s: %v", model, err)
		}
		if fc.Model != model || fc.Date != "2024-01-19" || fc.HighF != 84.6 || fc.LowF != 70.2 {
			t.Errorf("%s forecast = %+v", model, fc)
		}
	}

	want := "fahrenheit|1|temperature_2m_max,temperature_2m_min"
	for _, path := range []string{"/ecmwf", "/forecast"} {
		if paths[path] != want {
			t.Errorf("%s params = %q, want %q", path, paths[path], want)
		}
	}

	if _, err := p.FetchDailyForecast(context.Background(), loc, "GFS"); err == nil {
		t.Error("unknown model should fail")
	}
}

func TestOpenMeteoMissingDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily":{"time":["2024-01-19"],"temperature_2m_max":[null],"temperature_2m_min":[70.2]}}`))
	}))
	defer srv.Close()

	_, err := NewOpenMeteoProvider(srv.Client(), srv.URL).
		FetchDailyForecast(context.Background(), weather.Location{Name: "X"}, weather.ModelECMWF)
	if !errors.Is(err, weather.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestDoRequestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, errRateLimited},
		{"server error", http.StatusBadGateway, errServerError},
		{"not found", http.StatusNotFound, errUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewAviationWeatherProvider(srv.Client(), srv.URL).FetchMETARs(context.Background(), "KMIA", 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if calls != 1 {
				t.Errorf("server saw %d calls, want a single attempt", calls)
			}
		})
	}
}

func TestDoRequestWithoutClient(t *testing.T) {
	_, err := NewAviationWeatherProvider(nil, "http://unused").FetchMETARs(context.Background(), "KMIA", 1)
	if !errors.Is(err, errNoHTTPClient) {
		t.Errorf("err = %v, want errNoHTTPClient", err)
	}
}

func TestCircuitOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewAviationWeatherProvider(srv.Client(), srv.URL)
	var err error
	for i := 0; i < 7; i++ {
		_, err = p.FetchMETARs(context.Background(), "KMIA", 1)
	}
	if !errors.Is(err, errCircuitOpen) {
		t.Errorf("err = %v, want errCircuitOpen after repeated failures", err)
	}
}
