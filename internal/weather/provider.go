package weather

import (
	"context"
	"time"
)

// MetarRecord is one raw METAR as delivered by the aviation text API.
type MetarRecord struct {
	StationID  string
	RawOb      string
	ReportTime time.Time
}

// ObservationRecord is one observation as delivered by the NWS API.
// Optional fields are nil when the API sent null.
type ObservationRecord struct {
	Timestamp     time.Time
	Celsius       float64
	DewpointC     *float64
	Humidity      *float64
	WindSpeed     *float64
	WindDirection *float64
	Description   string
}

// MetarSource fetches recent METAR reports for a station.
type MetarSource interface {
	Name() string
	FetchMETARs(ctx context.Context, stationID string, hours int) ([]MetarRecord, error)
}

// ObservationSource fetches station observations since start.
type ObservationSource interface {
	Name() string
	FetchObservations(ctx context.Context, stationID string, start time.Time) ([]ObservationRecord, error)
}

// ForecastSource fetches a single model's daily forecast.
type ForecastSource interface {
	Name() string
	FetchDailyForecast(ctx context.Context, loc Location, model ForecastModel) (ModelForecast, error)
}

// Store is the contract the in-memory report store satisfies.
type Store interface {
	SaveReport(stationID string, report TradingReport)
	GetLatest(stationID string) (TradingReport, error)
	GetRange(stationID string, from, to time.Time) ([]TradingReport, error)
}
