package config

import (
	"fmt"
	"os"
)

// DefaultPath is where Load looks when the operator gives no --config flag.
const DefaultPath = "setup.yaml"

// Load reads a Config from path. A missing file at the default path yields
// Default(); a missing file at an explicit path is an error, since the
// operator asked for it by name.
func Load(path string) (*Config, error) {
	explicit := path != DefaultPath

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
