package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/i474232898/tempedge/internal/common"
	"github.com/i474232898/tempedge/internal/rounding"
	"github.com/i474232898/tempedge/internal/weather"
)

var (
	rule     = strings.Repeat("=", 80)
	thinRule = strings.Repeat("-", 80)
)

func printReport(w io.Writer, r weather.TradingReport, op weather.Operator, kinds []weather.ExtremeKind, around int) {
	off := r.Station.UTCOffset

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "TRADING REPORT: %s (%s)\n", r.Station.ID, r.Station.Name)
	fmt.Fprintf(w, "Date: %s %s\n", r.Date, r.Zone)
	fmt.Fprintf(w, "%s\n\n", rule)

	fmt.Fprintf(w, "Last Observation: %s (%s)\n", common.FormatClock(r.Last.Time, off), common.FormatClock(r.Last.Time, op.UTCOffset))
	fmt.Fprintf(w, "Total Observations: %d\n", len(r.Observations))
	if r.RecentWindow {
		fmt.Fprintln(w, "No observations on the trading date yet; using the last 12 hours.")
	}

	for _, kind := range kinds {
		e := r.Max
		label := "MAXIMUM"
		if kind == weather.ExtremeMin {
			e, label = r.Min, "MINIMUM"
		}

		fmt.Fprintf(w, "\n%s TEMPERATURE ANALYSIS:\n%s\n", label, thinRule)
		fmt.Fprintf(w, "TRUE %s: %dF\n", titleCase(label), e.TrueF)
		fmt.Fprintf(w, "Market Sees: %.1fF\n", e.MarketF)
		fmt.Fprintf(w, "Your Edge: %+.1fF\n", e.Edge)
		fmt.Fprintf(w, "Occurred At: %s (%s)\n", common.FormatClock(e.Time, off), common.FormatClock(e.Time, op.UTCOffset))
		fmt.Fprintf(w, "Feed Ambiguity: %s (%.0f-%.0fF)\n\n", e.Confidence, e.Observation.MarketSet.Min, e.Observation.MarketSet.Max)

		if e.Opportunity {
			fmt.Fprintln(w, "TRADE SIGNAL: YES (Edge >= 0.5F)")
			fmt.Fprintf(w, "Action: Bet on %s = %dF\n\n", strings.ToUpper(string(kind)), e.TrueF)
		} else {
			fmt.Fprintf(w, "TRADE SIGNAL: NO (Edge < 0.5F)\n\n")
		}

		fmt.Fprintf(w, "Observations Around %s:\n%s\n", titleCase(label), thinRule)
		fmt.Fprintf(w, "%-20s %-15s %-8s %-8s %-8s\n", "Time (Local)", "Time ("+op.TZName+")", "TRUE", "Market", "Edge")
		fmt.Fprintln(w, thinRule)
		for _, o := range r.Around(e, around) {
			marker := ""
			if o.Time.Equal(e.Time) {
				marker = " <-- " + strings.ToUpper(string(kind))
			}
			fmt.Fprintf(w, "%-20s %-15s %-8s %-8s %+.1fF%s\n",
				common.FormatClock(o.Time, off),
				common.FormatClock(o.Time, op.UTCOffset),
				fmt.Sprintf("%dF", o.TrueF),
				fmt.Sprintf("%.1fF", o.MarketF),
				o.Edge,
				marker,
			)
		}
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "NOTE: Based on METAR observations with the T-group.")
	fmt.Fprintln(w, "      Actual extremes may occur between observations.")
	fmt.Fprintf(w, "%s\n", rule)
}

func printSummaries(w io.Writer, summaries []weather.DailySummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No summaries generated.")
		return
	}

	fmt.Fprintf(w, "\n%s\nHIGH/LOW SUMMARY (NWS observations)\n%s\n", rule, rule)
	for _, s := range summaries {
		off := s.Station.UTCOffset
		fmt.Fprintf(w, "\n%s %s (%s) %s\n", s.Station.ID, s.Station.Name, s.Station.Kind, s.Date)
		if s.WholeWindow {
			fmt.Fprintln(w, "  No observations on today's date; using the whole lookback.")
		}
		fmt.Fprintf(w, "  High:    %.1fF at %s  range %.1f-%.1fF\n", s.High, common.FormatClock(s.HighTime, off), s.HighRangeMin, s.HighRangeMax)
		fmt.Fprintf(w, "  Low:     %.1fF at %s  range %.1f-%.1fF\n", s.Low, common.FormatClock(s.LowTime, off), s.LowRangeMin, s.LowRangeMax)
		fmt.Fprintf(w, "  Current: %.1fF (last obs %s)\n", s.Current, common.FormatClock(s.LastObservation, off))
		if s.HighConfident {
			fmt.Fprintf(w, "  Predicted CLI high: %dF\n", s.HighRoundedLow)
		} else {
			fmt.Fprintf(w, "  Predicted CLI high: %dF or %dF\n", s.HighRoundedLow, s.HighRoundedHigh)
		}
		fmt.Fprintf(w, "  Predicted CLI low:  %dF\n", s.LowRounded)
	}
	fmt.Fprintln(w)
}

func printPredictions(w io.Writer, predictions []weather.Prediction) {
	if len(predictions) == 0 {
		fmt.Fprintln(w, "No predictions generated.")
		return
	}

	fmt.Fprintf(w, "\n%s\nTODAY'S TEMPERATURE PREDICTIONS\nDate: %s\n%s\n\n", rule, predictions[0].Date, rule)
	for _, p := range predictions {
		fmt.Fprintf(w, "%-20s | High: %3dF (±%.1f) | Low: %3dF (±%.1f) | models: %d\n",
			p.Location.Name, p.High, p.HighStd, p.Low, p.LowStd, len(p.Sources))
	}
	fmt.Fprintln(w)
}

func printSchedule(w io.Writer, windows []weather.TradingWindow, op weather.Operator) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "No schedule generated.")
		return
	}

	fmt.Fprintf(w, "\n%s\nOPTIMAL TRADING SCHEDULE\nTimes shown in: LOCAL (station time) and %s (your time)\n%s\n\n", rule, op.TZName, rule)
	fmt.Fprintf(w, "%-22s | %-12s | %-12s | %-12s | %-12s | %s\n",
		"Station", "Local High", "Local Low", op.TZName+" High", op.TZName+" Low", "Days")
	fmt.Fprintln(w, thinRule)
	for _, tw := range windows {
		fmt.Fprintf(w, "%-22s | %-12s | %-12s | %-12s | %-12s | %d\n",
			tw.Station.Name, tw.OptimalHigh, tw.OptimalLow, tw.OperatorHigh, tw.OperatorLow, tw.DaysAnalyzed)
	}

	fmt.Fprintf(w, "\nTrade at these times (%s):\n%s\n", op.TZName, thinRule)
	for _, tw := range windows {
		fmt.Fprintf(w, "%s - Trade %s HIGH (LOW ready at %s)\n", tw.OperatorHigh, tw.Station.Name, tw.OperatorLow)
	}
	fmt.Fprintln(w)
}

func printReadiness(w io.Writer, windows []weather.TradingWindow, op weather.Operator, target weather.Target, now time.Time) {
	fmt.Fprintf(w, "READINESS (%s) at %s\n%s\n", target, common.FormatClock(now, op.UTCOffset), thinRule)
	for _, tw := range windows {
		r := tw.Readiness(now, target)
		switch {
		case r.Ready:
			fmt.Fprintf(w, "%-22s READY (since %s)\n", tw.Station.Name, r.Until)
		case r.LowReady:
			fmt.Fprintf(w, "%-22s LOW ready, wait %s for HIGH (%s)\n", tw.Station.Name, formatWait(r.Wait), r.Until)
		default:
			fmt.Fprintf(w, "%-22s WAIT %s (until %s)\n", tw.Station.Name, formatWait(r.Wait), r.Until)
		}
	}
	fmt.Fprintln(w)
}

func printResolution(w io.Writer, celsius float64, kind rounding.StationKind) {
	set := rounding.ResolveReported(celsius)
	reading := rounding.Interpret(kind, celsius)

	fmt.Fprintf(w, "%gC (%s station)\n", celsius, kind)
	if set.Fallback {
		fmt.Fprintf(w, "  Candidates: none; naive %.1fF\n", set.Min)
	} else {
		fmt.Fprintf(w, "  Candidates: %s\n", joinInts(set.Candidates))
	}
	fmt.Fprintf(w, "  Feed shows: %.1fF\n", rounding.DisplayedFahrenheit(celsius))
	fmt.Fprintf(w, "  Likely:     %.1fF (range %.1f-%.1fF, confidence %s)\n", reading.LikelyF, reading.MinF, reading.MaxF, reading.Confidence)
}

func formatWait(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%dF", x)
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}
