// Package export writes scan results as CSV tables and PNG charts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/i474232898/tempedge/internal/common"
	"github.com/i474232898/tempedge/internal/weather"
)

// WriteReportCSV writes one row per decoded METAR in the report.
func WriteReportCSV(w io.Writer, r weather.TradingReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"station", "time_utc", "time_local", "celsius",
		"true_f", "market_f", "edge", "market_min_f", "market_max_f", "confidence",
	}); err != nil {
		return err
	}
	for _, o := range r.Observations {
		row := []string{
			r.Station.ID,
			o.Time.UTC().Format(time.RFC3339),
			common.FormatClock(o.Time, r.Station.UTCOffset),
			ftoa(o.Celsius),
			strconv.Itoa(o.TrueF),
			ftoa(o.MarketF),
			ftoa(o.Edge),
			ftoa(o.MarketSet.Min),
			ftoa(o.MarketSet.Max),
			string(o.MarketSet.Confidence),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummariesCSV writes the NWS high/low summaries, one station per row.
func WriteSummariesCSV(w io.Writer, summaries []weather.DailySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"station", "date", "high", "high_time", "high_range_min", "high_range_max",
		"low", "low_time", "low_range_min", "low_range_max", "current",
		"predicted_high", "predicted_high_alt", "high_confident", "predicted_low",
	}); err != nil {
		return err
	}
	for _, s := range summaries {
		off := s.Station.UTCOffset
		row := []string{
			s.Station.ID,
			s.Date,
			ftoa(s.High),
			common.FormatClock(s.HighTime, off),
			ftoa(s.HighRangeMin),
			ftoa(s.HighRangeMax),
			ftoa(s.Low),
			common.FormatClock(s.LowTime, off),
			ftoa(s.LowRangeMin),
			ftoa(s.LowRangeMax),
			ftoa(s.Current),
			strconv.Itoa(s.HighRoundedLow),
			strconv.Itoa(s.HighRoundedHigh),
			strconv.FormatBool(s.HighConfident),
			strconv.Itoa(s.LowRounded),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePredictionsCSV writes the combined model forecasts.
func WritePredictionsCSV(w io.Writer, predictions []weather.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"location", "lat", "lon", "date", "high", "low", "high_std", "low_std", "models"}); err != nil {
		return err
	}
	for _, p := range predictions {
		row := []string{
			p.Location.Name,
			strconv.FormatFloat(p.Location.Lat, 'f', 4, 64),
			strconv.FormatFloat(p.Location.Lon, 'f', 4, 64),
			p.Date,
			strconv.Itoa(p.High),
			strconv.Itoa(p.Low),
			ftoa(p.HighStd),
			ftoa(p.LowStd),
			strconv.Itoa(len(p.Sources)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWindowsCSV writes the trading windows in both station and operator time.
func WriteWindowsCSV(w io.Writer, windows []weather.TradingWindow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"station", "avg_high", "avg_low", "delay_min", "optimal_high", "optimal_low",
		"operator_tz", "operator_high", "operator_low", "days", "high_hour_std", "low_hour_std",
	}); err != nil {
		return err
	}
	for _, tw := range windows {
		row := []string{
			tw.Station.ID,
			tw.AvgHigh.String(),
			tw.AvgLow.String(),
			strconv.Itoa(tw.DelayMinutes),
			tw.OptimalHigh.String(),
			tw.OptimalLow.String(),
			tw.Operator.TZName,
			tw.OperatorHigh.String(),
			tw.OperatorLow.String(),
			strconv.Itoa(tw.DaysAnalyzed),
			ftoa(tw.HighHourStd),
			ftoa(tw.LowHourStd),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates dir if needed and writes name through fn. It returns
// the full path written.
func WriteFile(dir, name string, fn func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := fn(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// FileName builds a stable export name such as "scan_KMIA_2024-01-19.csv".
func FileName(kind, key, date, ext string) string {
	if key == "" {
		return fmt.Sprintf("%s_%s.%s", kind, date, ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s", kind, key, date, ext)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
