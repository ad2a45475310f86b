package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/tempedge/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultOpenMeteoURL is the Open-Meteo API base; model endpoints hang off it.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1"

var modelPaths = map[weather.ForecastModel]string{
	weather.ModelECMWF:      "ecmwf",
	weather.ModelMultiModel: "forecast",
}

// OpenMeteoProvider implements weather.ForecastSource for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	timezone string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider builds a provider. The forecast day is resolved in the
// timezone of the requested coordinates.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  strings.TrimRight(baseURL, "/"),
		timezone: "auto",
		httpCfg:  HTTPClientConfig{Client: client},
		circuit:  newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchDailyForecast(ctx context.Context, loc weather.Location, model weather.ForecastModel) (weather.ModelForecast, error) {
	path, ok := modelPaths[model]
	if !ok {
		return weather.ModelForecast{}, fmt.Errorf("openmeteo: unknown model %q", model)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
		values.Set("daily", "temperature_2m_max,temperature_2m_min")
		values.Set("temperature_unit", "fahrenheit")
		values.Set("timezone", p.timezone)
		values.Set("forecast_days", "1")

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ModelForecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time []string   `json:"time"`
			Max  []*float64 `json:"temperature_2m_max"`
			Min  []*float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ModelForecast{}, fmt.Errorf("decode forecast response: %w", err)
	}

	d := payload.Daily
	if len(d.Time) == 0 || len(d.Max) == 0 || len(d.Min) == 0 || d.Max[0] == nil || d.Min[0] == nil {
		return weather.ModelForecast{}, fmt.Errorf("openmeteo %s: %w", model, weather.ErrNoData)
	}

	return weather.ModelForecast{
		Model: model,
		Date:  d.Time[0],
		HighF: *d.Max[0],
		LowF:  *d.Min[0],
	}, nil
}
