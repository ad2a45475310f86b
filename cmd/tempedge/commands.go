package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/i474232898/tempedge/internal/common"
	"github.com/i474232898/tempedge/internal/config"
	"github.com/i474232898/tempedge/internal/export"
	"github.com/i474232898/tempedge/internal/rounding"
	"github.com/i474232898/tempedge/internal/weather"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func (a *app) scan(ctx context.Context, args []string) error {
	fs := newFlagSet("scan")
	stationIDs := fs.StringSliceP("station", "s", nil, "station ids (default all configured)")
	date := fs.StringP("date", "d", "", "trading date yyyy-mm-dd (default today in station time)")
	extreme := fs.StringP("extreme", "e", "both", "extreme to analyze: max, min or both")
	around := fs.Int("context", 3, "observations to show on each side of an extreme")
	writeCSV := fs.Bool("csv", false, "write a CSV per station to the output dir")
	writeChart := fs.Bool("chart", false, "write a PNG chart per station to the output dir")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *date != "" {
		if _, err := time.Parse(time.DateOnly, *date); err != nil {
			return fmt.Errorf("invalid --date %q: use yyyy-mm-dd", *date)
		}
	}
	kinds, err := parseExtreme(*extreme)
	if err != nil {
		return err
	}
	stations, err := a.cfg.SelectStations(*stationIDs)
	if err != nil {
		return err
	}

	for _, res := range a.service.ScanAll(ctx, stations, *date) {
		if res.Err != nil {
			fmt.Fprintf(a.out, "\n%s: NO DATA AVAILABLE (%v)\n", res.Key, res.Err)
			continue
		}
		r := res.Value
		printReport(a.out, r, a.cfg.Operator, kinds, *around)

		if *writeCSV {
			a.save(export.FileName("scan", r.Station.ID, r.Date, "csv"), func(w io.Writer) error {
				return export.WriteReportCSV(w, r)
			})
		}
		if *writeChart {
			a.save(export.FileName("scan", r.Station.ID, r.Date, "png"), func(w io.Writer) error {
				return export.WriteReportChart(w, r)
			})
		}
	}
	return nil
}

func (a *app) highLow(ctx context.Context, args []string) error {
	fs := newFlagSet("highlow")
	stationIDs := fs.StringSliceP("station", "s", nil, "station ids (default all configured)")
	writeCSV := fs.Bool("csv", false, "write the summaries as CSV to the output dir")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stations, err := a.cfg.SelectStations(*stationIDs)
	if err != nil {
		return err
	}

	var summaries []weather.DailySummary
	for _, res := range a.service.HighLowAll(ctx, stations) {
		if res.Err != nil {
			fmt.Fprintf(a.out, "%s: no data (%v)\n", res.Key, res.Err)
			continue
		}
		summaries = append(summaries, res.Value)
	}
	printSummaries(a.out, summaries)

	if *writeCSV && len(summaries) > 0 {
		a.save(export.FileName("highlow", "", a.today(), "csv"), func(w io.Writer) error {
			return export.WriteSummariesCSV(w, summaries)
		})
	}
	return nil
}

func (a *app) forecast(ctx context.Context, args []string) error {
	fs := newFlagSet("forecast")
	rawLocations := fs.StringArrayP("location", "l", nil, `location as "Name,lat,lon" (repeatable)`)
	writeCSV := fs.Bool("csv", false, "write the predictions as CSV to the output dir")
	if err := fs.Parse(args); err != nil {
		return err
	}

	locations := config.DefaultLocations()
	if len(*rawLocations) > 0 {
		locations = locations[:0]
		for _, raw := range *rawLocations {
			loc, err := config.ParseLocation(raw)
			if err != nil {
				return err
			}
			locations = append(locations, loc)
		}
	}

	var predictions []weather.Prediction
	for _, res := range a.service.PredictAll(ctx, locations) {
		if res.Err != nil {
			fmt.Fprintf(a.out, "%s: failed (%v)\n", res.Key, res.Err)
			continue
		}
		predictions = append(predictions, res.Value)
	}
	printPredictions(a.out, predictions)

	if *writeCSV && len(predictions) > 0 {
		a.save(export.FileName("forecast", "", a.today(), "csv"), func(w io.Writer) error {
			return export.WritePredictionsCSV(w, predictions)
		})
	}
	return nil
}

func (a *app) schedule(ctx context.Context, args []string) error {
	fs := newFlagSet("schedule")
	stationIDs := fs.StringSliceP("station", "s", nil, "station ids (default all configured)")
	check := fs.String("check", "", "also report readiness now: high, low or both")
	writeCSV := fs.Bool("csv", false, "write the schedule as CSV to the output dir")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var target weather.Target
	switch *check {
	case "":
	case "high", "low", "both":
		target = weather.Target(*check)
	default:
		return fmt.Errorf("invalid --check %q: use high, low or both", *check)
	}

	stations, err := a.cfg.SelectStations(*stationIDs)
	if err != nil {
		return err
	}

	var windows []weather.TradingWindow
	for _, res := range a.service.TradingWindows(ctx, stations, a.cfg.Operator) {
		if res.Err != nil {
			fmt.Fprintf(a.out, "%s: no schedule (%v)\n", res.Key, res.Err)
			continue
		}
		windows = append(windows, res.Value)
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return clockMinutes(windows[i].OperatorHigh) < clockMinutes(windows[j].OperatorHigh)
	})
	printSchedule(a.out, windows, a.cfg.Operator)

	if target != "" {
		printReadiness(a.out, windows, a.cfg.Operator, target, time.Now())
	}

	if *writeCSV && len(windows) > 0 {
		a.save(export.FileName("schedule", "", a.today(), "csv"), func(w io.Writer) error {
			return export.WriteWindowsCSV(w, windows)
		})
	}
	return nil
}

func (a *app) resolve(args []string) error {
	fs := newFlagSet("resolve")
	kind := fs.StringP("kind", "k", string(rounding.KindFiveMinute), "station kind: 5-minute or hourly")

	// Negative readings look like shorthand flags to the parser.
	var flags, values []string
	for _, arg := range args {
		if _, err := strconv.ParseFloat(arg, 64); err == nil {
			values = append(values, arg)
		} else {
			flags = append(flags, arg)
		}
	}
	if err := fs.Parse(flags); err != nil {
		return err
	}
	values = append(values, fs.Args()...)
	if len(values) == 0 {
		return fmt.Errorf("resolve needs at least one Celsius value")
	}
	stationKind, err := rounding.ParseStationKind(*kind)
	if err != nil {
		return err
	}

	readings := make([]float64, 0, len(values))
	for _, raw := range values {
		c, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("invalid Celsius value %q", raw)
		}
		readings = append(readings, c)
	}
	for _, c := range readings {
		printResolution(a.out, c, stationKind)
	}
	return nil
}

// save writes one output file and reports where it went. Failures are
// logged; the printed results are still useful without the file.
func (a *app) save(name string, fn func(io.Writer) error) {
	path, err := export.WriteFile(a.cfg.OutputDir, name, fn)
	if err != nil {
		a.logger.Warn("export failed", "file", name, "err", err)
		return
	}
	fmt.Fprintf(a.out, "Saved: %s\n", path)
}

func (a *app) today() string {
	return common.CivilDate(time.Now(), a.cfg.Operator.UTCOffset)
}

func parseExtreme(s string) ([]weather.ExtremeKind, error) {
	switch s {
	case "max":
		return []weather.ExtremeKind{weather.ExtremeMax}, nil
	case "min":
		return []weather.ExtremeKind{weather.ExtremeMin}, nil
	case "both", "":
		return []weather.ExtremeKind{weather.ExtremeMax, weather.ExtremeMin}, nil
	default:
		return nil, fmt.Errorf("invalid --extreme %q: use max, min or both", s)
	}
}

func clockMinutes(c weather.Clock) int {
	return c.Hour*60 + c.Minute
}
