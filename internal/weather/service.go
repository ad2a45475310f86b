package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/tempedge/internal/common"
)

const (
	// metarHours covers the trading day plus the previous one.
	metarHours = 48
	// highLowLookback is how much NWS history the high/low summary reads.
	highLowLookback = 24 * time.Hour
	// timingLookback is how much NWS history the timing analysis reads.
	timingLookback = 7 * 24 * time.Hour
)

// Sources bundles the upstream data providers. Any may be nil if the
// corresponding operations are not used.
type Sources struct {
	Metars       MetarSource
	Observations ObservationSource
	Forecasts    ForecastSource
}

// Service runs the per-station fetch-and-resolve pipelines.
type Service struct {
	sources Sources
	store   Store
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore enables ScanAndStore and the read-side delegates.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithClock overrides the reference time, for tests and replays.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service.
func NewService(sources Sources, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		sources: sources,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan fetches METARs for the station and builds its trading report. The
// trading day is the station's own standard-time day all year, matching the
// climatological report, so an empty tradeDate means today at
// station.UTCOffset rather than at a fixed Eastern offset.
func (s *Service) Scan(ctx context.Context, station Station, tradeDate string) (TradingReport, error) {
	if s.sources.Metars == nil {
		return TradingReport{}, fmt.Errorf("no metar source configured")
	}
	now := s.now()
	if tradeDate == "" {
		tradeDate = common.CivilDate(now, station.UTCOffset)
	}

	records, err := s.sources.Metars.FetchMETARs(ctx, station.ID, metarHours)
	if err != nil {
		return TradingReport{}, fmt.Errorf("fetch metars for %s: %w", station.ID, err)
	}

	obs := BuildMetarObservations(records, now)
	s.logger.Debug("decoded metars",
		"station", station.ID,
		"received", len(records),
		"with_t_group", len(obs),
	)
	if len(obs) == 0 {
		return TradingReport{}, fmt.Errorf("%s: no T-group in %d reports: %w", station.ID, len(records), ErrNoData)
	}

	report, err := SummarizeTradingDay(station, obs, tradeDate, now)
	if err != nil {
		return TradingReport{}, fmt.Errorf("%s on %s: %w", station.ID, tradeDate, err)
	}
	return report, nil
}

// ScanAll runs Scan for every station concurrently.
func (s *Service) ScanAll(ctx context.Context, stations []Station, tradeDate string) []Result[TradingReport] {
	return fanOut(ctx, s.logger, "scan", stations, func(ctx context.Context, st Station) (TradingReport, error) {
		return s.Scan(ctx, st, tradeDate)
	})
}

// ScanAndStore scans today's report and saves it. A failed scan keeps the
// last good report in the store.
func (s *Service) ScanAndStore(ctx context.Context, station Station) error {
	if s.store == nil {
		return fmt.Errorf("no report store configured")
	}
	report, err := s.Scan(ctx, station, "")
	if err != nil {
		return err
	}
	s.store.SaveReport(station.ID, report)
	return nil
}

// Observations fetches and interprets NWS observations since start, in time order.
func (s *Service) Observations(ctx context.Context, station Station, start time.Time) ([]Observation, error) {
	if s.sources.Observations == nil {
		return nil, fmt.Errorf("no observation source configured")
	}
	records, err := s.sources.Observations.FetchObservations(ctx, station.ID, start)
	if err != nil {
		return nil, fmt.Errorf("fetch observations for %s: %w", station.ID, err)
	}
	obs := make([]Observation, 0, len(records))
	for _, rec := range records {
		obs = append(obs, NewObservation(station, rec))
	}
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].TimestampUTC.Before(obs[j].TimestampUTC) })
	return obs, nil
}

// HighLow summarizes the last 24 hours of NWS observations.
func (s *Service) HighLow(ctx context.Context, station Station) (DailySummary, error) {
	now := s.now()
	obs, err := s.Observations(ctx, station, now.Add(-highLowLookback))
	if err != nil {
		return DailySummary{}, err
	}
	summary, err := SummarizeHighLow(station, obs, common.CivilDate(now, station.UTCOffset))
	if err != nil {
		return DailySummary{}, fmt.Errorf("%s: %w", station.ID, err)
	}
	return summary, nil
}

// HighLowAll runs HighLow for every station concurrently.
func (s *Service) HighLowAll(ctx context.Context, stations []Station) []Result[DailySummary] {
	return fanOut(ctx, s.logger, "highlow", stations, s.HighLow)
}

// TradingWindow analyzes a week of history for the station.
func (s *Service) TradingWindow(ctx context.Context, station Station, op Operator) (TradingWindow, error) {
	obs, err := s.Observations(ctx, station, s.now().Add(-timingLookback))
	if err != nil {
		return TradingWindow{}, err
	}
	w, err := EstimateTradingWindow(station, obs, op)
	if err != nil {
		return TradingWindow{}, fmt.Errorf("%s: %w", station.ID, err)
	}
	return w, nil
}

// TradingWindows runs TradingWindow for every station concurrently.
func (s *Service) TradingWindows(ctx context.Context, stations []Station, op Operator) []Result[TradingWindow] {
	return fanOut(ctx, s.logger, "schedule", stations, func(ctx context.Context, st Station) (TradingWindow, error) {
		return s.TradingWindow(ctx, st, op)
	})
}

// Predict fetches both forecast models concurrently and combines whatever
// succeeded.
func (s *Service) Predict(ctx context.Context, loc Location) (Prediction, error) {
	if s.sources.Forecasts == nil {
		return Prediction{}, fmt.Errorf("no forecast source configured")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[ForecastModel]*ModelForecast)
	)
	for _, model := range []ForecastModel{ModelECMWF, ModelMultiModel} {
		wg.Add(1)
		go func() {
			defer wg.Done()

			f, err := s.sources.Forecasts.FetchDailyForecast(ctx, loc, model)
			if err != nil {
				s.logger.Warn("forecast model failed",
					"provider", s.sources.Forecasts.Name(),
					"model", model,
					"location", loc.Name,
					"err", err,
				)
				return
			}
			mu.Lock()
			results[model] = &f
			mu.Unlock()
		}()
	}
	wg.Wait()

	p, err := CombineForecasts(loc, results[ModelECMWF], results[ModelMultiModel])
	if err != nil {
		return Prediction{}, fmt.Errorf("%s: %w", loc.Name, err)
	}
	return p, nil
}

// PredictAll runs Predict for every location concurrently.
func (s *Service) PredictAll(ctx context.Context, locs []Location) []Result[Prediction] {
	out := make([]Result[Prediction], len(locs))
	var wg sync.WaitGroup
	for i, loc := range locs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.Predict(ctx, loc)
			if err != nil {
				s.logger.Warn("predict failed", "location", loc.Name, "err", err)
			}
			out[i] = Result[Prediction]{Key: loc.Name, Value: p, Err: err}
		}()
	}
	wg.Wait()
	return out
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(stationID string) (TradingReport, error) {
	if s.store == nil {
		return TradingReport{}, fmt.Errorf("no report store configured")
	}
	return s.store.GetLatest(stationID)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(stationID string, from, to time.Time) ([]TradingReport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no report store configured")
	}
	return s.store.GetRange(stationID, from, to)
}

// fanOut runs fn for each station concurrently and returns the results in
// station order. Failures are logged and recorded, never fatal to the batch.
func fanOut[T any](
	ctx context.Context,
	logger *slog.Logger,
	op string,
	stations []Station,
	fn func(context.Context, Station) (T, error),
) []Result[T] {
	out := make([]Result[T], len(stations))
	var wg sync.WaitGroup
	for i, st := range stations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := fn(ctx, st)
			if err != nil {
				logger.Warn(op+" failed", "station", st.ID, "err", err)
			}
			out[i] = Result[T]{Key: st.ID, Value: v, Err: err}
		}()
	}
	wg.Wait()
	return out
}
