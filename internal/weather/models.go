package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/tempedge/internal/common"
	"github.com/i474232898/tempedge/internal/rounding"
)

// Station is an observing station whose readings settle a market.
// UTCOffset is the standard-time offset in hours; settlement days follow
// local standard time all year.
type Station struct {
	ID        string               `json:"id" yaml:"id" validate:"required,len=4,alphanum,uppercase"`
	Name      string               `json:"name" yaml:"name" validate:"required"`
	Kind      rounding.StationKind `json:"kind" yaml:"kind" validate:"required,oneof=5-minute hourly"`
	UTCOffset int                  `json:"utcOffset" yaml:"utc_offset" validate:"gte=-12,lte=14"`
	Lat       float64              `json:"lat" yaml:"lat" validate:"latitude"`
	Lon       float64              `json:"lon" yaml:"lon" validate:"longitude"`
}

// Zone returns the station's fixed standard-time zone.
func (s Station) Zone() *time.Location {
	return common.FixedZone(s.UTCOffset)
}

// Location returns the station's coordinates as a forecast Location.
func (s Station) Location() Location {
	return Location{Name: s.Name, Lat: s.Lat, Lon: s.Lon}
}

// Location is a point for which forecasts are requested.
type Location struct {
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"latitude"`
	Lon  float64 `json:"lon" validate:"longitude"`
}

// Key returns a canonical string key for this location.
func (l Location) Key() string {
	return fmt.Sprintf("%s:%.4f,%.4f", l.Name, l.Lat, l.Lon)
}

// Operator describes the person trading, whose clock schedules are shown in.
type Operator struct {
	UTCOffset int    `json:"utcOffset"`
	TZName    string `json:"tzName"`
}

// Observation is a single NWS reading, interpreted for the station kind.
type Observation struct {
	StationID          string           `json:"stationId"`
	TimestampUTC       time.Time        `json:"timestampUtc"`
	ReportedCelsius    float64          `json:"reportedCelsius"`
	ReportedFahrenheit float64          `json:"reportedFahrenheit"`
	Reading            rounding.Reading `json:"reading"`

	DewpointF     *float64 `json:"dewpointF,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	WindSpeed     *float64 `json:"windSpeed,omitempty"`
	WindDirection *float64 `json:"windDirection,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// MetarObservation is a decoded METAR line compared against what the public
// whole-degree feed shows for it.
type MetarObservation struct {
	StationID string    `json:"stationId"`
	Time      time.Time `json:"time"`
	Celsius   float64   `json:"celsius"`

	// TrueF is the T-group value converted and market-rounded.
	TrueF int `json:"trueF"`
	// MarketF is the whole-degree Celsius value converted back, to one decimal.
	MarketF float64 `json:"marketF"`
	Edge    float64 `json:"edge"`

	// MarketSet is what can be inferred from the whole-degree value alone.
	MarketSet rounding.AmbiguitySet `json:"marketSet"`

	Raw string `json:"raw"`
}

// ExtremeKind distinguishes daily maxima from minima.
type ExtremeKind string

const (
	ExtremeMax ExtremeKind = "max"
	ExtremeMin ExtremeKind = "min"
)

// DailyExtreme is the max or min reading of a trading day.
type DailyExtreme struct {
	Kind        ExtremeKind         `json:"kind"`
	TrueF       int                 `json:"trueF"`
	MarketF     float64             `json:"marketF"`
	Edge        float64             `json:"edge"`
	Opportunity bool                `json:"opportunity"`
	Confidence  rounding.Confidence `json:"confidence"`
	Time        time.Time           `json:"time"`
	Observation MetarObservation    `json:"observation"`
}

// TradingReport summarizes one station's trading day from METAR data.
type TradingReport struct {
	Station Station   `json:"station"`
	Date    string    `json:"date"`
	Zone    string    `json:"zone"`
	Created time.Time `json:"created"`

	Max  DailyExtreme     `json:"max"`
	Min  DailyExtreme     `json:"min"`
	Last MetarObservation `json:"last"`

	// RecentWindow is set when no observation fell on the trading date and
	// the last twelve hours were used instead.
	RecentWindow bool               `json:"recentWindow,omitempty"`
	Observations []MetarObservation `json:"observations"`
}

// Around returns up to n observations on each side of the given extreme,
// in time order.
func (r TradingReport) Around(e DailyExtreme, n int) []MetarObservation {
	idx := -1
	for i, o := range r.Observations {
		if o.Time.Equal(e.Time) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	start := max(0, idx-n)
	end := min(len(r.Observations), idx+n+1)
	return r.Observations[start:end]
}

// DailySummary is the NWS-based high/low with the settlement prediction.
type DailySummary struct {
	Station         Station   `json:"station"`
	Date            string    `json:"date"`
	LastObservation time.Time `json:"lastObservation"`
	WholeWindow     bool      `json:"wholeWindow,omitempty"`

	High         float64   `json:"high"`
	HighTime     time.Time `json:"highTime"`
	HighRangeMin float64   `json:"highRangeMin"`
	HighRangeMax float64   `json:"highRangeMax"`

	Low         float64   `json:"low"`
	LowTime     time.Time `json:"lowTime"`
	LowRangeMin float64   `json:"lowRangeMin"`
	LowRangeMax float64   `json:"lowRangeMax"`

	Current float64 `json:"current"`

	HighRoundedLow  int  `json:"highRoundedLow"`
	HighRoundedHigh int  `json:"highRoundedHigh"`
	HighConfident   bool `json:"highConfident"`
	LowRounded      int  `json:"lowRounded"`
}

// ForecastModel selects an Open-Meteo model endpoint.
type ForecastModel string

const (
	ModelECMWF      ForecastModel = "ECMWF_IFS"
	ModelMultiModel ForecastModel = "Multi_Model"
)

// ModelForecast is one model's daily max/min in Fahrenheit.
type ModelForecast struct {
	Model ForecastModel `json:"model"`
	Date  string        `json:"date"`
	HighF float64       `json:"highF"`
	LowF  float64       `json:"lowF"`
}

// Prediction is the weighted consensus of the model forecasts for a day.
type Prediction struct {
	Location Location        `json:"location"`
	Date     string          `json:"date"`
	High     int             `json:"high"`
	Low      int             `json:"low"`
	HighStd  float64         `json:"highStd"`
	LowStd   float64         `json:"lowStd"`
	Sources  []ForecastModel `json:"sources"`
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the clock on the civil day of t, in t's location.
func (c Clock) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// clockFromMinutes wraps a minute count into a single day.
func clockFromMinutes(m int) Clock {
	m = ((m % 1440) + 1440) % 1440
	return Clock{Hour: m / 60, Minute: m % 60}
}

// TradingWindow tells the operator when a station's extremes are usually
// settled in the observation feed.
type TradingWindow struct {
	Station Station `json:"station"`

	AvgHigh      Clock `json:"avgHigh"`
	AvgLow       Clock `json:"avgLow"`
	DelayMinutes int   `json:"delayMinutes"`

	// Station-local times.
	OptimalHigh Clock `json:"optimalHigh"`
	OptimalLow  Clock `json:"optimalLow"`

	// Operator-local times.
	Operator     Operator `json:"operator"`
	OperatorHigh Clock    `json:"operatorHigh"`
	OperatorLow  Clock    `json:"operatorLow"`

	DaysAnalyzed int     `json:"daysAnalyzed"`
	HighHourStd  float64 `json:"highHourStd"`
	LowHourStd   float64 `json:"lowHourStd"`
}

// Result is the outcome of one unit of per-station work.
type Result[T any] struct {
	Key   string `json:"key"`
	Value T      `json:"value"`
	Err   error  `json:"-"`
}
