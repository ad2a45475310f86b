// Package metar extracts the observation time and the precise temperature
// group from raw METAR report text.
package metar

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// ErrMissingField is returned when a report lacks the temperature group or
// the DDHHMMZ time group. Callers skip such records.
var ErrMissingField = errors.New("metar: missing field")

// futureSlackDays is how far ahead of the reference time a decoded day may
// fall before it is assumed to belong to the previous month.
const futureSlackDays = 15

var (
	temperatureGroup = regexp.MustCompile(`\bT([01])(\d{3})`)
	timeGroup        = regexp.MustCompile(`\b(\d{2})(\d{2})(\d{2})Z\b`)
	stationGroup     = regexp.MustCompile(`^(?:METAR\s+|SPECI\s+)?([A-Z][A-Z0-9]{3})\b`)
)

// Report is one decoded METAR line.
type Report struct {
	StationID string    `json:"stationId"`
	Time      time.Time `json:"time"`
	Celsius   float64   `json:"celsius"`
	Raw       string    `json:"raw"`
}

// DecodeTemperatureField reads the T-group, e.g. T00281 is +2.8°C and
// T10281 is -2.8°C. ok is false when the group is absent.
func DecodeTemperatureField(raw string) (celsius float64, ok bool) {
	m := temperatureGroup.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	tenths, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	celsius = float64(tenths) / 10
	if m[1] == "1" {
		celsius = -celsius
	}
	return celsius, true
}

// DecodeObservationTimestamp resolves the DDHHMMZ group against now. The
// report carries no month or year, so the month of now is assumed unless that
// puts the report more than 15 days in the future or the day does not exist,
// in which case the previous month is used. This is a heuristic for fetch
// windows that straddle a month boundary, not a proof.
func DecodeObservationTimestamp(raw string, now time.Time) (time.Time, bool) {
	m := timeGroup.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	now = now.UTC()
	year, month := now.Year(), now.Month()

	if ts, ok := dateIn(year, month, day, hour, minute); ok {
		if wholeDays(ts.Sub(now)) <= futureSlackDays {
			return ts, true
		}
	}

	py, pm := previousMonth(year, month)
	return dateIn(py, pm, day, hour, minute)
}

// Decode extracts station, time and temperature from a raw line.
func Decode(raw string, now time.Time) (Report, error) {
	c, ok := DecodeTemperatureField(raw)
	if !ok {
		return Report{}, ErrMissingField
	}
	ts, ok := DecodeObservationTimestamp(raw, now)
	if !ok {
		return Report{}, ErrMissingField
	}
	return Report{
		StationID: StationID(raw),
		Time:      ts,
		Celsius:   c,
		Raw:       raw,
	}, nil
}

// StationID returns the leading ICAO identifier, or "" if there is none.
func StationID(raw string) string {
	m := stationGroup.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

func dateIn(year int, month time.Month, day, hour, minute int) (time.Time, bool) {
	if day < 1 || day > daysIn(year, month) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC), true
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// wholeDays floors d to whole days.
func wholeDays(d time.Duration) int {
	days := d / (24 * time.Hour)
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return int(days)
}
