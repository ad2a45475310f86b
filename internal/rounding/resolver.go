// Package rounding reconstructs the Fahrenheit readings a station could have
// measured before it rounded them to whole degrees Celsius for transmission.
package rounding

import (
	"math"

	"github.com/shopspring/decimal"
)

// Confidence is a categorical measure of how wide an AmbiguitySet is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// searchMargin widens the converted Celsius window on both sides.
const searchMargin = 2

// AmbiguitySet holds the whole-degree Fahrenheit values that round-trip to a
// reported Celsius value.
type AmbiguitySet struct {
	ReportedCelsius float64    `json:"reportedCelsius"`
	Candidates      []int      `json:"candidates"`
	Min             float64    `json:"min"`
	Max             float64    `json:"max"`
	Confidence      Confidence `json:"confidence"`

	// Fallback is set when no candidate reproduced the reading and Min/Max
	// carry the naive linear conversion instead.
	Fallback bool `json:"fallback,omitempty"`
}

// Width returns Max - Min.
func (a AmbiguitySet) Width() float64 {
	return a.Max - a.Min
}

// CToF converts Celsius to Fahrenheit.
func CToF(c float64) float64 {
	return c*9/5 + 32
}

// FToC converts Fahrenheit to Celsius.
func FToC(f float64) float64 {
	return (f - 32) * 5 / 9
}

// ResolveCandidates returns every integer Fahrenheit value f for which
// MarketRound(FToC(f)) == reportedCelsius.
func ResolveCandidates(reportedCelsius int) AmbiguitySet {
	c := float64(reportedCelsius)
	fMin := CToF(c - 0.5)
	fMax := CToF(c + 0.5)

	var candidates []int
	for f := int(fMin) - searchMargin; f <= int(fMax)+searchMargin; f++ {
		if MarketRound(FToC(float64(f))) == reportedCelsius {
			candidates = append(candidates, f)
		}
	}

	if len(candidates) == 0 {
		return fallback(c)
	}

	set := AmbiguitySet{
		ReportedCelsius: c,
		Candidates:      candidates,
		Min:             float64(candidates[0]),
		Max:             float64(candidates[len(candidates)-1]),
	}
	set.Confidence = ClassifyConfidence(set)
	return set
}

// ResolveReported accepts a Celsius value as sent by an observation API. Only
// whole-degree values can be inverted; anything else falls back to the naive
// conversion.
func ResolveReported(celsius float64) AmbiguitySet {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) || celsius != math.Trunc(celsius) {
		return fallback(celsius)
	}
	return ResolveCandidates(int(celsius))
}

func fallback(celsius float64) AmbiguitySet {
	f := CToF(celsius)
	return AmbiguitySet{
		ReportedCelsius: celsius,
		Min:             f,
		Max:             f,
		Confidence:      ConfidenceLow,
		Fallback:        true,
	}
}

// ClassifyConfidence maps the width of the set to a Confidence tier.
func ClassifyConfidence(set AmbiguitySet) Confidence {
	if set.Fallback || len(set.Candidates) == 0 {
		return ConfidenceLow
	}
	switch w := set.Width(); {
	case w <= 1:
		return ConfidenceHigh
	case w <= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// LikelyValue is the midpoint of the set, used when a single estimate is needed.
func LikelyValue(set AmbiguitySet) float64 {
	return (set.Min + set.Max) / 2
}

// MarketRound rounds half away from zero, the way settlement figures are
// published. The shortest decimal representation of v is rounded, so 72.5
// always becomes 73 and -0.5 becomes -1. Non-finite input yields 0.
func MarketRound(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}

// DisplayedFahrenheit is the value a public feed shows for a Celsius reading:
// the whole-degree Celsius value converted back to Fahrenheit, to one decimal.
// Non-finite input is returned as NaN.
func DisplayedFahrenheit(celsius float64) float64 {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return math.NaN()
	}
	whole := decimal.NewFromInt(int64(MarketRound(celsius)))
	f := whole.Mul(decimal.NewFromInt(9)).Div(decimal.NewFromInt(5)).Add(decimal.NewFromInt(32))
	return f.Round(1).InexactFloat64()
}
