package env

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// ErrSecretsFileNotFound reports that a secrets file does not exist.
// Callers decide whether that is fatal; the loader itself does not know
// whether the file was mandatory.
var ErrSecretsFileNotFound = errors.New("secrets file not found")

// LoadSecretsFile parses a newline-delimited KEY=VALUE file and merges its
// entries into the environment, file values overriding existing ones.
//
// Returns ErrSecretsFileNotFound (wrapped with the path) when the file does
// not exist, and a parse error for malformed content. Values may be quoted;
// quotes are stripped, matching what `doppler secrets download --format env`
// emits.
func LoadSecretsFile(e *Environment, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSecretsFileNotFound, path)
		}
		return err
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("parse secrets file %s: %w", path, err)
	}

	e.Merge(cfg.Section(ini.DefaultSection).KeysHash())
	return nil
}
