package common

import (
	"testing"
	"time"
)

func TestZoneName(t *testing.T) {
	for offset, want := range map[int]string{
		-5: "EST",
		-8: "PST",
		0:  "UTC",
		2:  "UTC+2",
		-3: "UTC-3",
	} {
		if got := ZoneName(offset); got != want {
			t.Errorf("ZoneName(%d) = %q, want %q", offset, got, want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2024, 1, 19, 20, 51, 0, 0, time.UTC)
	if got := FormatClock(ts, -5); got != "3:51pm EST" {
		t.Errorf("FormatClock = %q, want %q", got, "3:51pm EST")
	}
}

func TestCivilDate(t *testing.T) {
	ts := time.Date(2024, 1, 20, 3, 0, 0, 0, time.UTC)
	if got := CivilDate(ts, -5); got != "2024-01-19" {
		t.Errorf("CivilDate = %q, want 2024-01-19", got)
	}
}
