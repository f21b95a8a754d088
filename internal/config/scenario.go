// Package config loads scenario files and runtime settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"bankroll-lab/internal/domain"
)

// LoadScenario reads a YAML scenario file into SimulationSettings.
// Unknown keys are rejected.
func LoadScenario(path string) (*domain.SimulationSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	settings, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return settings, nil
}

// ParseScenario decodes a YAML scenario document.
func ParseScenario(data []byte) (*domain.SimulationSettings, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var settings domain.SimulationSettings
	if err := dec.Decode(&settings); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty scenario", domain.ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return &settings, nil
}
