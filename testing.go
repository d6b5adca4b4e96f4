package statecheck

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// CheckT runs spec as a gopter property under go test, binding the §6
// for_all/quick_check harness contract to gopter.Properties.TestingRun and
// prop.ForAll: gopter drives the outer "try this many seeds" loop and
// reports failures in testing.T's idiom, while each draw is handed to
// CheckWith, which owns generation, shrinking, running, and linearization
// for that one seed exactly as Check does. Unlike CheckWith's own
// counterexample-producing error, a property failure here is reported
// through t.Errorf, the way the rest of a go test suite expects.
func CheckT[S any](t *testing.T, specName string, spec Spec[S], opts Options) {
	t.Helper()

	params := gopter.DefaultTestParameters()
	if opts.NumTests > 0 {
		params.MinSuccessfulTests = opts.NumTests
	}
	if opts.Seed != 0 {
		params.Rng = rand.New(rand.NewSource(opts.Seed))
	}

	driver := NewDriver()
	properties := gopter.NewProperties(params)

	properties.Property(specName+" holds", prop.ForAll(
		func(seed int64) bool {
			perRun := opts
			perRun.Seed = seed
			perRun.NumTests = 1
			if err := CheckWith(driver, specName, spec, perRun); err != nil {
				t.Log(err)
				return false
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
