package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/tempedge/internal/rounding"
	"github.com/i474232898/tempedge/internal/weather"
)

// StationsFile is the YAML layout of a station table.
type StationsFile struct {
	Stations []weather.Station `yaml:"stations"`
}

// LoadStations reads a YAML station table and expands environment variables.
func LoadStations(path string) ([]weather.Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stations file: %w", err)
	}
	return ParseStations(data)
}

// ParseStations decodes a YAML station table, normalizing ids and kinds.
func ParseStations(data []byte) ([]weather.Station, error) {
	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var file StationsFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("parse stations yaml: %w", err)
	}
	if len(file.Stations) == 0 {
		return nil, fmt.Errorf("stations file lists no stations")
	}

	for i := range file.Stations {
		if err := applyDefaults(&file.Stations[i]); err != nil {
			return nil, err
		}
	}
	return file.Stations, nil
}

func applyDefaults(st *weather.Station) error {
	st.ID = strings.ToUpper(strings.TrimSpace(st.ID))
	if st.Name == "" {
		st.Name = st.ID
	}
	if st.Kind == "" {
		st.Kind = rounding.KindFiveMinute
		return nil
	}
	kind, err := rounding.ParseStationKind(string(st.Kind))
	if err != nil {
		return fmt.Errorf("station %q: %w", st.ID, err)
	}
	st.Kind = kind
	return nil
}
