package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/tempedge/internal/weather"
)

var base = time.Date(2024, 1, 19, 12, 0, 0, 0, time.UTC)

func report(id string, created time.Time) weather.TradingReport {
	return weather.TradingReport{Station: weather.Station{ID: id}, Created: created}
}

func TestMemoryStoreLatestAndRange(t *testing.T) {
	s := NewMemoryStore(0, 0)

	if _, err := s.GetLatest("KMIA"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store err = %v, want ErrNotFound", err)
	}

	for i := 0; i < 4; i++ {
		s.SaveReport("KMIA", report("KMIA", base.Add(time.Duration(i)*15*time.Minute)))
	}
	s.SaveReport("KMDW", report("KMDW", base))

	latest, err := s.GetLatest("KMIA")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if !latest.Created.Equal(base.Add(45 * time.Minute)) {
		t.Errorf("latest created = %s", latest.Created)
	}

	got, err := s.GetRange("KMIA", base.Add(15*time.Minute), base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("range returned %d reports, want 2 (inclusive bounds)", len(got))
	}

	if _, err := s.GetRange("KMIA", base.Add(time.Hour), base.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty range err = %v, want ErrNotFound", err)
	}

	ids := s.Stations()
	if len(ids) != 2 || ids[0] != "KMDW" || ids[1] != "KMIA" {
		t.Errorf("Stations = %v", ids)
	}
}

func TestMemoryStoreMaxHistory(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i := 0; i < 5; i++ {
		s.SaveReport("KMIA", report("KMIA", base.Add(time.Duration(i)*time.Minute)))
	}

	got, err := s.GetRange("KMIA", base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("kept %d reports, want 2", len(got))
	}
	if !got[0].Created.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("oldest kept = %s, want the fourth report", got[0].Created)
	}
}

func TestMemoryStoreMaxAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return base.Add(2 * time.Hour) }

	s.SaveReport("KMIA", report("KMIA", base))
	s.SaveReport("KMIA", report("KMIA", base.Add(90*time.Minute)))

	got, err := s.GetRange("KMIA", base, base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(got) != 1 || !got[0].Created.Equal(base.Add(90*time.Minute)) {
		t.Errorf("got %+v, want only the report inside the age limit", got)
	}

	s.SaveReport("KMDW", report("KMDW", base))
	if _, err := s.GetLatest("KMDW"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired-only history err = %v, want ErrNotFound", err)
	}
}
