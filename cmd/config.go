package cmd

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hive-sim/hive-sim/sim"
)

// LoadSimConfig reads sim.SimConfig from path, strictly decoding (unknown
// keys are an error) onto sim.Defaults() so unspecified keys keep their
// default rather than zeroing out. An empty path returns the defaults
// unchanged.
func LoadSimConfig(path string) (sim.SimConfig, error) {
	cfg := sim.Defaults()
	if path == "" {
		return cfg.ResolveTimes()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sim.SimConfig{}, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return sim.SimConfig{}, err
	}

	return cfg.ResolveTimes()
}
