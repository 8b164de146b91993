package weather

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var popularCitiesYAML []byte

// ParseCities decodes a YAML list of cities.
func ParseCities(data []byte) ([]City, error) {
	var cities []City
	if err := yaml.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("failed to parse cities: %w", err)
	}
	for i, c := range cities {
		if c.Name == "" {
			return nil, fmt.Errorf("city #%d has no name", i)
		}
	}
	return cities, nil
}

// PopularCities returns the built-in list, or the list from path when set.
func PopularCities(path string) ([]City, error) {
	if path == "" {
		return ParseCities(popularCitiesYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cities file %s: %w", path, err)
	}
	return ParseCities(data)
}
