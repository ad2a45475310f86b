package rounding

import "testing"

func TestInterpretFiveMinute(t *testing.T) {
	r := Interpret(KindFiveMinute, 1)
	if r.MinF != 33 || r.MaxF != 34 {
		t.Errorf("range = [%v, %v], want [33, 34]", r.MinF, r.MaxF)
	}
	if r.LikelyF != 33.5 {
		t.Errorf("LikelyF = %v, want 33.5", r.LikelyF)
	}
	if r.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %q, want high", r.Confidence)
	}
	if r.ReportedF != CToF(1) {
		t.Errorf("ReportedF = %v, want %v", r.ReportedF, CToF(1))
	}
}

func TestInterpretFiveMinuteFractional(t *testing.T) {
	r := Interpret(KindFiveMinute, 22.8)
	want := CToF(22.8)
	if r.LikelyF != want || r.MinF != want || r.MaxF != want {
		t.Errorf("fractional reading = %+v, want naive %v everywhere", r, want)
	}
	if r.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %q, want low", r.Confidence)
	}
}

func TestInterpretHourly(t *testing.T) {
	r := Interpret(KindHourly, 22.8)
	want := CToF(22.8)
	if r.LikelyF != want || r.MinF != want || r.MaxF != want {
		t.Errorf("hourly reading = %+v, want %v everywhere", r, want)
	}
	if r.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %q, want high", r.Confidence)
	}
}

func TestParseStationKind(t *testing.T) {
	for in, want := range map[string]StationKind{
		"5-minute": KindFiveMinute,
		"5min":     KindFiveMinute,
		"hourly":   KindHourly,
	} {
		got, err := ParseStationKind(in)
		if err != nil || got != want {
			t.Errorf("ParseStationKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStationKind("daily"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
