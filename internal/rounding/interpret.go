package rounding

import "fmt"

// StationKind is the reporting cadence of a station, which decides how its
// Celsius values relate to the instrument's Fahrenheit reading.
type StationKind string

const (
	// KindFiveMinute stations measure whole °F, round to whole °C for
	// transmission, and are converted back by the publisher.
	KindFiveMinute StationKind = "5-minute"
	// KindHourly stations transmit tenths of °C, so the naive conversion is
	// already close to the instrument reading.
	KindHourly StationKind = "hourly"
)

// ParseStationKind accepts the canonical names plus a few aliases.
func ParseStationKind(s string) (StationKind, error) {
	switch s {
	case "5-minute", "5min", "five-minute":
		return KindFiveMinute, nil
	case "hourly", "1-hour":
		return KindHourly, nil
	default:
		return "", fmt.Errorf("unknown station kind %q", s)
	}
}

// Reading is an interpreted Fahrenheit observation.
type Reading struct {
	ReportedF  float64    `json:"reportedF"`
	LikelyF    float64    `json:"likelyF"`
	MinF       float64    `json:"minF"`
	MaxF       float64    `json:"maxF"`
	Confidence Confidence `json:"confidence"`
}

// Interpret converts a Celsius observation into a Fahrenheit estimate for the
// given station kind.
func Interpret(kind StationKind, celsius float64) Reading {
	reported := CToF(celsius)
	if kind != KindFiveMinute {
		return Reading{
			ReportedF:  reported,
			LikelyF:    reported,
			MinF:       reported,
			MaxF:       reported,
			Confidence: ConfidenceHigh,
		}
	}

	set := ResolveReported(celsius)
	if set.Fallback {
		return Reading{
			ReportedF:  reported,
			LikelyF:    reported,
			MinF:       reported,
			MaxF:       reported,
			Confidence: ConfidenceLow,
		}
	}
	return Reading{
		ReportedF:  reported,
		LikelyF:    LikelyValue(set),
		MinF:       set.Min,
		MaxF:       set.Max,
		Confidence: set.Confidence,
	}
}
