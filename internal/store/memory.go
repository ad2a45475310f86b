package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/tempedge/internal/weather"
)

var (
	// ErrNotFound is returned when no report is available for a station.
	ErrNotFound = errors.New("no report for station")
)

// ReportHistory holds a time-ordered list of trading reports for a station.
type ReportHistory struct {
	Reports []weather.TradingReport
}

// MemoryStore is a concurrency-safe in-memory store of trading reports.
// Nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	// key: station id
	data map[string]*ReportHistory

	maxHistory int           // max number of reports per station
	maxAge     time.Duration // max age of reports, by Created

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, that limit is not applied.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ReportHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveReport appends a report for a station and enforces retention.
func (s *MemoryStore) SaveReport(stationID string, report weather.TradingReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[stationID]
	if !ok {
		history = &ReportHistory{}
		s.data[stationID] = history
	}

	history.Reports = append(history.Reports, report)

	if s.maxHistory > 0 && len(history.Reports) > s.maxHistory {
		over := len(history.Reports) - s.maxHistory
		history.Reports = history.Reports[over:]
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Reports); i++ {
			if !history.Reports[i].Created.Before(cutoff) {
				break
			}
		}
		history.Reports = history.Reports[i:]
	}
}

// GetLatest returns the most recent report for a station.
func (s *MemoryStore) GetLatest(stationID string) (weather.TradingReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[stationID]
	if !ok || len(history.Reports) == 0 {
		return weather.TradingReport{}, ErrNotFound
	}
	return history.Reports[len(history.Reports)-1], nil
}

// GetRange returns all reports for a station created between from and to (inclusive).
func (s *MemoryStore) GetRange(stationID string, from, to time.Time) ([]weather.TradingReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[stationID]
	if !ok || len(history.Reports) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.TradingReport
	for _, r := range history.Reports {
		if !r.Created.Before(from) && !r.Created.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Stations lists the station ids that currently hold reports, sorted.
func (s *MemoryStore) Stations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id, h := range s.data {
		if len(h.Reports) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
