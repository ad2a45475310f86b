package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/tempedge/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultAviationWeatherURL is the METAR JSON endpoint.
const DefaultAviationWeatherURL = "https://aviationweather.gov/api/data/metar"

// AviationWeatherProvider implements weather.MetarSource for aviationweather.gov.
type AviationWeatherProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewAviationWeatherProvider(client *http.Client, baseURL string) *AviationWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultAviationWeatherURL
	}
	return &AviationWeatherProvider{
		name:    "aviationweather",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Headers: map[string]string{"Accept": "application/json"},
		},
		circuit: newBreaker("aviationweather"),
	}
}

func (p *AviationWeatherProvider) Name() string {
	return p.name
}

type metarPayload struct {
	ICAOID     string `json:"icaoId"`
	ReportTime string `json:"reportTime"`
	RawOb      string `json:"rawOb"`
}

func (p *AviationWeatherProvider) FetchMETARs(ctx context.Context, stationID string, hours int) ([]weather.MetarRecord, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("ids", stationID)
		values.Set("format", "json")
		values.Set("hours", strconv.Itoa(hours))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []metarPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// The API answers 204 or an empty body when there is nothing to report.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode metar response: %w", err)
	}

	records := make([]weather.MetarRecord, 0, len(payload))
	for _, m := range payload {
		records = append(records, weather.MetarRecord{
			StationID:  m.ICAOID,
			RawOb:      m.RawOb,
			ReportTime: parseReportTime(m.ReportTime),
		})
	}
	return records, nil
}

// parseReportTime accepts RFC3339 (with or without fractional seconds) and
// the space-separated form; anything else yields the zero time.
func parseReportTime(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC()
	}
	if ts, err := time.Parse(time.DateTime, s); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}
