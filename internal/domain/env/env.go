// Package env models the configuration environment for a provisioning run.
//
// Instead of mutating the ambient process environment, an Environment is an
// explicit object threaded through the orchestrator and each step, making
// every credential dependency visible and testable.
package env

import (
	"os"
	"sort"
	"strings"
)

// Environment maps variable names to values.
//
// It is populated once at phase start (process environment, then the secrets
// file, file values overriding) and afterwards only written by interactive
// prompts. Execution is sequential, so no locking is needed.
type Environment struct {
	values map[string]string
}

// New creates an empty Environment.
func New() *Environment {
	return &Environment{values: make(map[string]string)}
}

// FromOS creates an Environment seeded from the process environment.
func FromOS() *Environment {
	e := New()
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			e.values[k] = v
		}
	}
	return e
}

// Lookup returns the value for key and whether it is present and non-empty.
// An empty value counts as absent: for credentials, `FOO=` in a secrets file
// is indistinguishable from the secret never having been provisioned.
func (e *Environment) Lookup(key string) (string, bool) {
	v, ok := e.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Get returns the value for key, or the empty string.
func (e *Environment) Get(key string) string {
	return e.values[key]
}

// Has reports whether key is present with a non-empty value.
func (e *Environment) Has(key string) bool {
	_, ok := e.Lookup(key)
	return ok
}

// Set stores a value.
func (e *Environment) Set(key, value string) {
	e.values[key] = value
}

// Merge copies all entries from values into the environment, overwriting
// existing keys. This matches shell `source` semantics for the secrets file.
func (e *Environment) Merge(values map[string]string) {
	for k, v := range values {
		e.values[k] = v
	}
}

// Missing returns the subset of keys not present with a non-empty value,
// in sorted order.
func (e *Environment) Missing(keys []string) []string {
	var missing []string
	for _, k := range keys {
		if !e.Has(k) {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// Len returns the number of entries.
func (e *Environment) Len() int {
	return len(e.values)
}
