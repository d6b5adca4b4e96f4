package statecheck

import (
	"time"

	"statecheck/internal/config"
	"statecheck/internal/utils"
)

// Options configures one Check run (SPEC_FULL.md §6).
type Options struct {
	// NumTests is how many random programs to generate and run before
	// declaring success.
	NumTests int

	// MaxLength bounds how many invocations a single generated program may
	// contain.
	MaxLength int

	// Threads bounds how many parallel worker threads the parallel-program
	// generator and runner may use. 0 means sequential-only.
	Threads int

	// Seed, when non-zero, makes generation deterministic: the same seed
	// against the same Spec always produces the same first failing
	// program (modulo command-table changes).
	Seed int64

	// LogLevel sets the structured logger's verbosity ("debug", "info",
	// "warn", "error"). Empty means "info".
	LogLevel string

	// Timeout, when non-zero, bounds a single program's wall-clock budget.
	// A program still running when Timeout elapses is abandoned and
	// reported as a TimeoutError rather than hanging the suite.
	Timeout time.Duration

	// SeedStore selects the backing seed store: "memory" (default) or
	// "postgres". "postgres" requires PostgresDSN.
	SeedStore string

	// PostgresDSN is the connection string used when SeedStore is
	// "postgres".
	PostgresDSN string
}

// DefaultNumTests is used when Options.NumTests is zero.
const DefaultNumTests = 200

// DefaultOptions returns the engine's baked-in defaults.
func DefaultOptions() Options {
	return Options{
		NumTests:  DefaultNumTests,
		MaxLength: 20,
		Threads:   0,
		LogLevel:  "info",
		SeedStore: "memory",
	}
}

// LoadOptions reads Options from a YAML file (if path is non-empty and the
// file exists) layered with STATECHECK_* environment variable overrides,
// falling back to DefaultOptions for anything left unset.
func LoadOptions(path string) (Options, error) {
	f, err := config.Load(path)
	if err != nil {
		return Options{}, err
	}

	defaults := DefaultOptions()
	opts := Options{
		NumTests:    utils.DefaultValue(f.NumTests, defaults.NumTests),
		MaxLength:   utils.DefaultValue(f.MaxLength, defaults.MaxLength),
		Threads:     utils.DefaultValue(f.Threads, defaults.Threads),
		Seed:        utils.DefaultValue(f.Seed, defaults.Seed),
		LogLevel:    utils.DefaultValue(f.LogLevel, defaults.LogLevel),
		SeedStore:   utils.DefaultValue(f.SeedStore, defaults.SeedStore),
		PostgresDSN: utils.DefaultValue(f.PostgresDSN, defaults.PostgresDSN),
	}
	return opts, nil
}
