package weather

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/i474232898/tempedge/internal/common"
	"github.com/i474232898/tempedge/internal/metar"
	"github.com/i474232898/tempedge/internal/rounding"
)

// ErrNoData is returned when a station or location has no usable data for
// the requested unit of work.
var ErrNoData = errors.New("no usable data")

const (
	// opportunityEdge is the minimum |true - market| worth trading.
	opportunityEdge = 0.5
	// recentWindow is used when the trading date has no observations yet.
	recentWindow = 12 * time.Hour
	// minPointsPerDay is the minimum sample for a day to count in timing analysis.
	minPointsPerDay = 10

	fiveMinuteDelay = 15
	hourlyDelay     = 60

	ecmwfWeight = 3
	multiWeight = 2
)

// BuildMetarObservations decodes raw METAR records. Records without a
// temperature group are skipped; the report time from the API stands in
// when the text has no usable time group.
func BuildMetarObservations(records []MetarRecord, now time.Time) []MetarObservation {
	out := make([]MetarObservation, 0, len(records))
	for _, rec := range records {
		c, ok := metar.DecodeTemperatureField(rec.RawOb)
		if !ok {
			continue
		}
		ts, ok := metar.DecodeObservationTimestamp(rec.RawOb, now)
		if !ok {
			if rec.ReportTime.IsZero() {
				continue
			}
			ts = rec.ReportTime.UTC()
		}

		stationID := rec.StationID
		if stationID == "" {
			stationID = metar.StationID(rec.RawOb)
		}

		// Settlement rounds half away from zero: T00250 is 36.5F and settles
		// at 37, not the 36 a half-to-even rounding would give.
		trueF := rounding.MarketRound(rounding.CToF(c))
		marketF := rounding.DisplayedFahrenheit(c)
		out = append(out, MetarObservation{
			StationID: stationID,
			Time:      ts,
			Celsius:   c,
			TrueF:     trueF,
			MarketF:   marketF,
			Edge:      roundTenth(float64(trueF) - marketF),
			MarketSet: rounding.ResolveCandidates(rounding.MarketRound(c)),
			Raw:       rec.RawOb,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// SummarizeTradingDay builds the trading report for tradeDate (YYYY-MM-DD in
// the station's standard time). obs must be in time order.
func SummarizeTradingDay(station Station, obs []MetarObservation, tradeDate string, now time.Time) (TradingReport, error) {
	if len(obs) == 0 {
		return TradingReport{}, ErrNoData
	}

	var day []MetarObservation
	for _, o := range obs {
		if common.CivilDate(o.Time, station.UTCOffset) == tradeDate {
			day = append(day, o)
		}
	}

	recent := false
	if len(day) == 0 {
		recent = true
		cutoff := now.Add(-recentWindow)
		for _, o := range obs {
			if !o.Time.Before(cutoff) {
				day = append(day, o)
			}
		}
	}
	if len(day) == 0 {
		return TradingReport{}, ErrNoData
	}

	maxObs, minObs := day[0], day[0]
	for _, o := range day[1:] {
		if o.TrueF > maxObs.TrueF {
			maxObs = o
		}
		if o.TrueF < minObs.TrueF {
			minObs = o
		}
	}

	return TradingReport{
		Station:      station,
		Date:         tradeDate,
		Zone:         common.ZoneName(station.UTCOffset),
		Created:      now,
		Max:          extremeOf(ExtremeMax, maxObs),
		Min:          extremeOf(ExtremeMin, minObs),
		Last:         day[len(day)-1],
		RecentWindow: recent,
		Observations: day,
	}, nil
}

func extremeOf(kind ExtremeKind, o MetarObservation) DailyExtreme {
	return DailyExtreme{
		Kind:        kind,
		TrueF:       o.TrueF,
		MarketF:     o.MarketF,
		Edge:        o.Edge,
		Opportunity: math.Abs(o.Edge) >= opportunityEdge,
		Confidence:  o.MarketSet.Confidence,
		Time:        o.Time,
		Observation: o,
	}
}

// NewObservation interprets an NWS record for the station's kind.
func NewObservation(station Station, rec ObservationRecord) Observation {
	obs := Observation{
		StationID:          station.ID,
		TimestampUTC:       rec.Timestamp.UTC(),
		ReportedCelsius:    rec.Celsius,
		ReportedFahrenheit: rounding.CToF(rec.Celsius),
		Reading:            rounding.Interpret(station.Kind, rec.Celsius),
		Humidity:           rec.Humidity,
		WindSpeed:          rec.WindSpeed,
		WindDirection:      rec.WindDirection,
		Description:        rec.Description,
	}
	if rec.DewpointC != nil {
		f := rounding.CToF(*rec.DewpointC)
		obs.DewpointF = &f
	}
	return obs
}

// SummarizeHighLow computes today's high and low for the station along with
// the whole-degree values the climatological report is expected to publish.
// obs must be in time order. When nothing falls on today the whole window is
// used.
func SummarizeHighLow(station Station, obs []Observation, today string) (DailySummary, error) {
	if len(obs) == 0 {
		return DailySummary{}, ErrNoData
	}

	var day []Observation
	for _, o := range obs {
		if common.CivilDate(o.TimestampUTC, station.UTCOffset) == today {
			day = append(day, o)
		}
	}
	whole := false
	if len(day) == 0 {
		whole = true
		day = obs
	}

	s := DailySummary{
		Station:         station,
		Date:            today,
		LastObservation: day[len(day)-1].TimestampUTC,
		WholeWindow:     whole,
	}

	value := func(o Observation) float64 { return o.Reading.LikelyF }
	if station.Kind == rounding.KindHourly {
		value = func(o Observation) float64 { return o.ReportedFahrenheit }
	}

	hi, lo := day[0], day[0]
	maxOfMin, maxOfMax := day[0].Reading.MinF, day[0].Reading.MaxF
	minOfMin, minOfMax := day[0].Reading.MinF, day[0].Reading.MaxF
	for _, o := range day[1:] {
		if value(o) > value(hi) {
			hi = o
		}
		if value(o) < value(lo) {
			lo = o
		}
		maxOfMin = math.Max(maxOfMin, o.Reading.MinF)
		maxOfMax = math.Max(maxOfMax, o.Reading.MaxF)
		minOfMin = math.Min(minOfMin, o.Reading.MinF)
		minOfMax = math.Min(minOfMax, o.Reading.MaxF)
	}

	s.High, s.HighTime = value(hi), hi.TimestampUTC
	s.Low, s.LowTime = value(lo), lo.TimestampUTC
	s.Current = value(day[len(day)-1])

	if station.Kind == rounding.KindHourly {
		// Hourly reports can miss up to two degrees of the true peak.
		s.HighRangeMin, s.HighRangeMax = s.High, s.High+2
		s.LowRangeMin, s.LowRangeMax = s.Low, s.Low
	} else {
		s.HighRangeMin, s.HighRangeMax = maxOfMin, maxOfMax+1
		s.LowRangeMin, s.LowRangeMax = minOfMin, minOfMax
	}

	s.HighRoundedLow = rounding.MarketRound(s.HighRangeMin)
	s.HighRoundedHigh = rounding.MarketRound(s.HighRangeMax)
	s.HighConfident = s.HighRoundedLow == s.HighRoundedHigh
	s.LowRounded = rounding.MarketRound(s.Low)
	return s, nil
}

// CombineForecasts weights ECMWF 3:2 against the multi-model forecast. Either
// forecast may be nil, but not both.
func CombineForecasts(loc Location, ecmwf, multi *ModelForecast) (Prediction, error) {
	if ecmwf == nil && multi == nil {
		return Prediction{}, ErrNoData
	}

	var highs, lows []float64
	p := Prediction{Location: loc}
	add := func(f *ModelForecast, weight int) {
		if f == nil {
			return
		}
		for range weight {
			highs = append(highs, f.HighF)
			lows = append(lows, f.LowF)
		}
		p.Sources = append(p.Sources, f.Model)
		if p.Date == "" {
			p.Date = f.Date
		}
	}
	add(ecmwf, ecmwfWeight)
	add(multi, multiWeight)

	p.High = rounding.MarketRound(mean(highs))
	p.Low = rounding.MarketRound(mean(lows))
	p.HighStd = populationStd(highs)
	p.LowStd = populationStd(lows)
	return p, nil
}

// EstimateTradingWindow finds when the station's daily extremes typically
// occur in local time and adds the feed's reporting delay.
func EstimateTradingWindow(station Station, history []Observation, op Operator) (TradingWindow, error) {
	byDate := make(map[string][]Observation)
	var dates []string
	for _, o := range history {
		d := common.CivilDate(o.TimestampUTC, station.UTCOffset)
		if _, ok := byDate[d]; !ok {
			dates = append(dates, d)
		}
		byDate[d] = append(byDate[d], o)
	}
	sort.Strings(dates)

	var highHours, highMinutes, lowHours, lowMinutes []float64
	zone := station.Zone()
	for _, d := range dates {
		day := byDate[d]
		if len(day) < minPointsPerDay {
			continue
		}
		hi, lo := day[0], day[0]
		for _, o := range day[1:] {
			if o.ReportedFahrenheit > hi.ReportedFahrenheit {
				hi = o
			}
			if o.ReportedFahrenheit < lo.ReportedFahrenheit {
				lo = o
			}
		}
		ht, lt := hi.TimestampUTC.In(zone), lo.TimestampUTC.In(zone)
		highHours = append(highHours, float64(ht.Hour()))
		highMinutes = append(highMinutes, float64(ht.Minute()))
		lowHours = append(lowHours, float64(lt.Hour()))
		lowMinutes = append(lowMinutes, float64(lt.Minute()))
	}
	if len(highHours) == 0 {
		return TradingWindow{}, ErrNoData
	}

	delay := fiveMinuteDelay
	if station.Kind == rounding.KindHourly {
		delay = hourlyDelay
	}

	avgHighH, avgHighM := mean(highHours), mean(highMinutes)
	avgLowH, avgLowM := mean(lowHours), mean(lowMinutes)
	highTotal := int(avgHighH*60 + avgHighM + float64(delay))
	lowTotal := int(avgLowH*60 + avgLowM + float64(delay))
	shift := (op.UTCOffset - station.UTCOffset) * 60

	return TradingWindow{
		Station:      station,
		AvgHigh:      Clock{Hour: int(avgHighH), Minute: int(avgHighM)},
		AvgLow:       Clock{Hour: int(avgLowH), Minute: int(avgLowM)},
		DelayMinutes: delay,
		OptimalHigh:  clockFromMinutes(highTotal),
		OptimalLow:   clockFromMinutes(lowTotal),
		Operator:     op,
		OperatorHigh: clockFromMinutes(highTotal + shift),
		OperatorLow:  clockFromMinutes(lowTotal + shift),
		DaysAnalyzed: len(highHours),
		HighHourStd:  sampleStd(highHours),
		LowHourStd:   sampleStd(lowHours),
	}, nil
}

// Target selects which extreme a readiness check is for.
type Target string

const (
	TargetHigh Target = "high"
	TargetLow  Target = "low"
	TargetBoth Target = "both"
)

// Readiness is the answer to "can I trade this station yet?".
type Readiness struct {
	Ready    bool          `json:"ready"`
	LowReady bool          `json:"lowReady"`
	Wait     time.Duration `json:"wait"`
	Until    Clock         `json:"until"`
}

// Readiness compares now, taken in the operator's offset, against the
// operator-local trading times.
func (w TradingWindow) Readiness(now time.Time, target Target) Readiness {
	local := now.In(common.FixedZone(w.Operator.UTCOffset))
	lowAt := w.OperatorLow.On(local)
	highAt := w.OperatorHigh.On(local)

	switch target {
	case TargetLow:
		if !local.Before(lowAt) {
			return Readiness{Ready: true, LowReady: true, Until: w.OperatorLow}
		}
		return Readiness{Wait: lowAt.Sub(local), Until: w.OperatorLow}
	case TargetHigh:
		if !local.Before(highAt) {
			return Readiness{Ready: true, Until: w.OperatorHigh}
		}
		return Readiness{Wait: highAt.Sub(local), Until: w.OperatorHigh}
	default:
		if !local.Before(highAt) {
			return Readiness{Ready: true, LowReady: !local.Before(lowAt), Until: w.OperatorHigh}
		}
		if !local.Before(lowAt) {
			return Readiness{LowReady: true, Wait: highAt.Sub(local), Until: w.OperatorHigh}
		}
		return Readiness{Wait: lowAt.Sub(local), Until: w.OperatorLow}
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func populationStd(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// sampleStd is zero for fewer than two samples.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
