package export

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/tempedge/internal/common"
	"github.com/i474232898/tempedge/internal/weather"
)

// WriteReportChart renders the trading day as a PNG: the reconstructed
// Fahrenheit series against the whole-degree feed, with the extremes marked.
func WriteReportChart(w io.Writer, r weather.TradingReport) error {
	if len(r.Observations) < 2 {
		return fmt.Errorf("chart %s: need at least 2 observations, have %d", r.Station.ID, len(r.Observations))
	}

	zone := r.Station.Zone()
	var (
		x      []time.Time
		trueF  []float64
		market []float64
	)
	for _, o := range r.Observations {
		x = append(x, o.Time.In(zone))
		trueF = append(trueF, float64(o.TrueF))
		market = append(market, o.MarketF)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s %s (%s)", r.Station.ID, r.Date, r.Zone),
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			Name:           "Local time (" + common.ZoneName(r.Station.UTCOffset) + ")",
			ValueFormatter: clockFormatter(zone),
		},
		YAxis: chart.YAxis{
			Name: "°F",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "METAR (T-group)",
				XValues: x,
				YValues: trueF,
				Style: chart.Style{
					StrokeColor: drawing.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Whole-degree feed",
				XValues: x,
				YValues: market,
				Style: chart.Style{
					StrokeColor:     drawing.ColorBlue,
					StrokeDashArray: []float64{4, 4},
				},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					extremeLabel(r.Max, zone),
					extremeLabel(r.Min, zone),
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// clockFormatter labels time ticks in the station's zone rather than the host's.
func clockFormatter(zone *time.Location) chart.ValueFormatter {
	return func(v interface{}) string {
		switch t := v.(type) {
		case float64:
			return time.Unix(0, int64(t)).In(zone).Format("15:04")
		case time.Time:
			return t.In(zone).Format("15:04")
		}
		return ""
	}
}

func extremeLabel(e weather.DailyExtreme, zone *time.Location) chart.Value2 {
	return chart.Value2{
		XValue: chart.TimeToFloat64(e.Time.In(zone)),
		YValue: float64(e.TrueF),
		Label:  fmt.Sprintf("%s %d°F", e.Kind, e.TrueF),
	}
}
