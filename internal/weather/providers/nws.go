package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/tempedge/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	// DefaultNWSURL is the api.weather.gov base.
	DefaultNWSURL = "https://api.weather.gov"
	// DefaultNWSUserAgent identifies the client, which the API requires.
	DefaultNWSUserAgent = "(tempedge, tempedge@example.com)"

	nwsObservationLimit = 500
)

// NWSProvider implements weather.ObservationSource for api.weather.gov.
type NWSProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNWSProvider(client *http.Client, baseURL, userAgent string) *NWSProvider {
	if baseURL == "" {
		baseURL = DefaultNWSURL
	}
	if userAgent == "" {
		userAgent = DefaultNWSUserAgent
	}
	return &NWSProvider{
		name:    "nws",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client: client,
			Headers: map[string]string{
				"User-Agent": userAgent,
				"Accept":     "application/geo+json",
			},
		},
		circuit: newBreaker("nws"),
	}
}

func (p *NWSProvider) Name() string {
	return p.name
}

// quantity is the NWS {unitCode, value} pair; value is null when missing.
type quantity struct {
	UnitCode string   `json:"unitCode"`
	Value    *float64 `json:"value"`
}

type observationsPayload struct {
	Features []struct {
		Properties struct {
			Timestamp        string   `json:"timestamp"`
			TextDescription  string   `json:"textDescription"`
			Temperature      quantity `json:"temperature"`
			Dewpoint         quantity `json:"dewpoint"`
			RelativeHumidity quantity `json:"relativeHumidity"`
			WindSpeed        quantity `json:"windSpeed"`
			WindDirection    quantity `json:"windDirection"`
		} `json:"properties"`
	} `json:"features"`
}

func (p *NWSProvider) FetchObservations(ctx context.Context, stationID string, start time.Time) ([]weather.ObservationRecord, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("start", start.UTC().Format("2006-01-02T15:04:05Z"))
		values.Set("limit", strconv.Itoa(nwsObservationLimit))

		u := fmt.Sprintf("%s/stations/%s/observations?%s", p.baseURL, url.PathEscape(stationID), values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload observationsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode observations response: %w", err)
	}

	records := make([]weather.ObservationRecord, 0, len(payload.Features))
	for _, f := range payload.Features {
		props := f.Properties
		if props.Temperature.Value == nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339, props.Timestamp)
		if err != nil {
			continue
		}
		records = append(records, weather.ObservationRecord{
			Timestamp:     ts.UTC(),
			Celsius:       *props.Temperature.Value,
			DewpointC:     props.Dewpoint.Value,
			Humidity:      props.RelativeHumidity.Value,
			WindSpeed:     props.WindSpeed.Value,
			WindDirection: props.WindDirection.Value,
			Description:   props.TextDescription,
		})
	}
	return records, nil
}
