package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/i474232898/tempedge/internal/rounding"
	"github.com/i474232898/tempedge/internal/weather"
)

// defaultStations are the settlement stations of the US temperature markets.
// Offsets are standard time.
var defaultStations = []weather.Station{
	{ID: "KNYC", Name: "NYC Central Park", Kind: rounding.KindHourly, UTCOffset: -5, Lat: 40.7789, Lon: -73.9692},
	{ID: "KJFK", Name: "New York JFK", Kind: rounding.KindFiveMinute, UTCOffset: -5, Lat: 40.6398, Lon: -73.7789},
	{ID: "KLGA", Name: "New York LGA", Kind: rounding.KindFiveMinute, UTCOffset: -5, Lat: 40.7794, Lon: -73.8803},
	{ID: "KBOS", Name: "Boston Logan", Kind: rounding.KindFiveMinute, UTCOffset: -5, Lat: 42.3606, Lon: -71.0106},
	{ID: "KPHL", Name: "Philadelphia Intl", Kind: rounding.KindFiveMinute, UTCOffset: -5, Lat: 39.8683, Lon: -75.2311},
	{ID: "KDCA", Name: "Washington DC Reagan", Kind: rounding.KindFiveMinute, UTCOffset: -5, Lat: 38.8472, Lon: -77.0345},
	{ID: "KMIA", Name: "Miami Intl Airport", Kind: rounding.KindFiveMinute, UTCOffset: -5, Lat: 25.7881, Lon: -80.3169},
	{ID: "KATL", Name: "Atlanta", Kind: rounding.KindFiveMinute, UTCOffset: -5, Lat: 33.6301, Lon: -84.4418},
	{ID: "KMDW", Name: "Chicago Midway", Kind: rounding.KindFiveMinute, UTCOffset: -6, Lat: 41.7841, Lon: -87.7551},
	{ID: "KORD", Name: "Chicago O'Hare", Kind: rounding.KindFiveMinute, UTCOffset: -6, Lat: 41.9602, Lon: -87.9316},
	{ID: "KAUS", Name: "Austin Bergstrom", Kind: rounding.KindFiveMinute, UTCOffset: -6, Lat: 30.1831, Lon: -97.6799},
	{ID: "KHOU", Name: "Houston Hobby", Kind: rounding.KindFiveMinute, UTCOffset: -6, Lat: 29.6375, Lon: -95.2825},
	{ID: "KDFW", Name: "Dallas Fort Worth", Kind: rounding.KindFiveMinute, UTCOffset: -6, Lat: 32.8998, Lon: -97.0403},
	{ID: "KMSY", Name: "New Orleans", Kind: rounding.KindFiveMinute, UTCOffset: -6, Lat: 29.9934, Lon: -90.2580},
	{ID: "KDEN", Name: "Denver Intl Airport", Kind: rounding.KindFiveMinute, UTCOffset: -7, Lat: 39.8466, Lon: -104.6562},
	{ID: "KPHX", Name: "Phoenix Sky Harbor", Kind: rounding.KindFiveMinute, UTCOffset: -7, Lat: 33.4278, Lon: -112.0037},
	{ID: "KLAX", Name: "Los Angeles LAX", Kind: rounding.KindFiveMinute, UTCOffset: -8, Lat: 33.9382, Lon: -118.3866},
	{ID: "KSFO", Name: "San Francisco Intl", Kind: rounding.KindFiveMinute, UTCOffset: -8, Lat: 37.6196, Lon: -122.3656},
	{ID: "KSEA", Name: "Seattle Tacoma", Kind: rounding.KindFiveMinute, UTCOffset: -8, Lat: 47.4444, Lon: -122.3139},
	{ID: "KPDX", Name: "Portland", Kind: rounding.KindFiveMinute, UTCOffset: -8, Lat: 45.5958, Lon: -122.6093},
	{ID: "KLAS", Name: "Las Vegas", Kind: rounding.KindFiveMinute, UTCOffset: -8, Lat: 36.0719, Lon: -115.1634},
}

// DefaultStations returns a copy of the built-in station table.
func DefaultStations() []weather.Station {
	out := make([]weather.Station, len(defaultStations))
	copy(out, defaultStations)
	return out
}

// defaultLocations are the forecast points of the major markets, at the
// settlement airports.
var defaultLocations = []weather.Location{
	{Name: "New York", Lat: 40.7829, Lon: -73.9654},
	{Name: "Los Angeles", Lat: 33.9416, Lon: -118.4085},
	{Name: "Chicago", Lat: 41.7868, Lon: -87.7522},
	{Name: "Philadelphia", Lat: 39.8729, Lon: -75.2437},
	{Name: "Austin", Lat: 30.1945, Lon: -97.6699},
	{Name: "Denver", Lat: 39.8561, Lon: -104.6737},
	{Name: "Miami", Lat: 25.7959, Lon: -80.2870},
}

// DefaultLocations returns a copy of the built-in forecast locations.
func DefaultLocations() []weather.Location {
	out := make([]weather.Location, len(defaultLocations))
	copy(out, defaultLocations)
	return out
}

// ParseLocation parses "Name,lat,lon".
func ParseLocation(s string) (weather.Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return weather.Location{}, fmt.Errorf("invalid location %q: use Name,lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	loc := weather.Location{Name: strings.TrimSpace(parts[0]), Lat: lat, Lon: lon}
	if err := validate.Struct(loc); err != nil {
		return weather.Location{}, fmt.Errorf("invalid location %q: %w", s, err)
	}
	return loc, nil
}
