// Package statecheck is a model-based, property-based testing engine for
// stateful systems: given a model of a system's state machine and a way to
// call the real system, it generates random command sequences (and,
// optionally, concurrent ones), runs them for real, and checks that the
// model's predictions hold — shrinking any counterexample it finds down to
// a minimal reproduction.
package statecheck

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"statecheck/internal/command"
	"statecheck/internal/errs"
	"statecheck/internal/generate"
	"statecheck/internal/linearize"
	"statecheck/internal/logging"
	"statecheck/internal/report"
	"statecheck/internal/report/live"
	"statecheck/internal/runner"
	"statecheck/internal/seedstore"
	"statecheck/internal/shrink"
	"statecheck/internal/utils"
)

// Driver is C8: it owns the seed store and logger a Check run reports
// through, plus an optional live failure-report transport. The zero value
// is not ready to use; call NewDriver or NewDriverFromOptions.
type Driver struct {
	Store  seedstore.Store
	Logger logging.Logger

	// Live, if non-nil, receives a live.Report broadcast for every failing
	// Check call in addition to the error CheckWith returns. Unset by
	// default; a driver only starts pushing to dashboards once a caller
	// wires a *live.Hub in explicitly (SPEC_FULL.md §10.4).
	Live *live.Hub
}

// NewDriver returns a Driver backed by an in-memory seed store and the
// package default logger.
func NewDriver() *Driver {
	return &Driver{Store: seedstore.NewMemoryStore(), Logger: logging.Wrap(logging.Default())}
}

// NewDriverFromOptions builds a Driver whose seed store and logger follow
// opts: "postgres" selects a Postgres-backed seedstore.BunStore (requires
// opts.PostgresDSN), anything else falls back to the in-memory store, and
// opts.LogLevel sets the logger's verbosity.
func NewDriverFromOptions(opts Options) (*Driver, error) {
	store, err := seedStoreFromOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Driver{Store: store, Logger: logging.Wrap(logging.Setup(opts.LogLevel))}, nil
}

func seedStoreFromOptions(opts Options) (seedstore.Store, error) {
	if opts.SeedStore != "postgres" {
		return seedstore.NewMemoryStore(), nil
	}
	if opts.PostgresDSN == "" {
		return nil, errs.NewEngineInvariantError("driver", "SeedStore \"postgres\" requires PostgresDSN")
	}
	store := seedstore.NewBunStore(opts.PostgresDSN)
	if err := store.InitSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// Check generates and runs random programs against spec until either
// opts.NumTests pass or one fails, in which case it shrinks the failure to
// a minimal counterexample and returns a formatted report as the error. A
// nil error means every generated program satisfied the model. It uses a
// fresh default Driver (in-memory seed store); use CheckWith to reuse one
// across specs.
func Check[S any](specName string, spec Spec[S], opts Options) error {
	return CheckWith(NewDriver(), specName, spec, opts)
}

// CheckWith is Check, but persists failing seeds through d's seed store and
// logs through d's logger instead of a fresh default Driver.
func CheckWith[S any](d *Driver, specName string, spec Spec[S], opts Options) error {
	if opts.NumTests <= 0 {
		opts = mergeDefaults(opts)
	}

	table, hooks, err := spec.erase(opts)
	if err != nil {
		return errs.NewEngineInvariantError("check", fmt.Sprintf("invalid command table for %q: %v", specName, err))
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	gen := generate.New(table, hooks)
	run := runner.New(table, hooks)
	checker := linearize.New(table, hooks)
	ctx := context.Background()

	d.Logger.Info("starting check", "spec", specName, "seed", seed, "num_tests", opts.NumTests)

	for i := 0; i < opts.NumTests; i++ {
		testSeed := rng.Int63()
		testRng := rand.New(rand.NewSource(testSeed))

		setup, cleanup, err := runSetup(hooks)
		if err != nil {
			return errs.NewUserCommandError("setup", "", err)
		}

		prog, err := gen.Generate(testRng, setup, generate.Options{MaxLength: opts.MaxLength, Threads: opts.Threads})
		if err != nil {
			cleanup()
			return err
		}

		failure, err := runWithTimeout(ctx, run, checker, prog, setup, opts.Timeout)
		cleanup()
		if err != nil {
			return err
		}
		if failure == nil {
			continue
		}

		d.Logger.Warn("check failed, shrinking", "spec", specName, "seed", testSeed)

		minimal := shrinkFailure(ctx, run, checker, table, hooks, prog)

		saveErr := d.Store.Save(ctx, seedstore.Record{
			SpecName:  specName,
			Seed:      testSeed,
			MaxLength: opts.MaxLength,
			Threads:   opts.Threads,
			Summary:   fmt.Sprintf("%d invocations, reason: %s", minimal.Program.Len(), failure.Reason),
			CreatedAt: time.Now(),
		})
		if saveErr != nil {
			d.Logger.Warn("failed to persist failing seed", "spec", specName, "error", saveErr)
		}

		minimal.SpecName = specName
		minimal.Seed = testSeed
		reportText := report.Format(minimal)

		if d.Live != nil {
			d.Live.Broadcast(specName, live.Report{SpecName: specName, Seed: testSeed, Text: reportText})
		}

		return errs.NewLinearizationError(reportText)
	}

	d.Logger.Info("check passed", "spec", specName, "num_tests", opts.NumTests)
	return nil
}

func mergeDefaults(opts Options) Options {
	defaults := DefaultOptions()
	opts.NumTests = utils.DefaultValue(opts.NumTests, defaults.NumTests)
	opts.MaxLength = utils.DefaultValue(opts.MaxLength, defaults.MaxLength)
	return opts
}

func runSetup(hooks command.Hooks) (setup any, cleanup func(), err error) {
	if hooks.Setup == nil {
		return nil, func() {}, nil
	}
	setup, err = hooks.Setup()
	if err != nil {
		return nil, func() {}, err
	}
	cleanup = func() {
		if hooks.Cleanup != nil {
			hooks.Cleanup(setup)
		}
	}
	return setup, cleanup, nil
}

// runOnce executes prog once and checks linearizability, returning a
// non-nil *report.Failure if it didn't hold.
func runOnce(ctx context.Context, run *runner.Runner, checker *linearize.Checker, prog generate.Program, setup any) (*report.Failure, error) {
	executed, err := run.Execute(ctx, prog, setup)
	if err != nil {
		return &report.Failure{Program: prog, Trace: executed.Trace, Reason: err.Error()}, nil
	}

	result, err := checker.Check(prog, executed, setup)
	if err != nil {
		return nil, err
	}
	if !result.Linearizable {
		return &report.Failure{Program: prog, Trace: executed.Trace, Reason: "no linearization of the executed program satisfies the model"}, nil
	}
	return nil, nil
}

// runWithTimeout is runOnce, abandoning the in-flight program and reporting
// an errs.TimeoutError instead of waiting forever if budget elapses first.
// A zero budget means no timeout. The abandoned goroutine is left to finish
// on its own; nothing past this call observes its eventual result.
func runWithTimeout(ctx context.Context, run *runner.Runner, checker *linearize.Checker, prog generate.Program, setup any, budget time.Duration) (*report.Failure, error) {
	if budget <= 0 {
		return runOnce(ctx, run, checker, prog, setup)
	}

	type outcome struct {
		failure *report.Failure
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		failure, err := runOnce(ctx, run, checker, prog, setup)
		done <- outcome{failure, err}
	}()

	select {
	case o := <-done:
		return o.failure, o.err
	case <-time.After(budget):
		return nil, &errs.TimeoutError{Budget: budget.String()}
	}
}

// shrinkFailure re-runs the shrinker's isFailing predicate against prog
// until it finds the smallest program it can that still fails (any failure
// counts, not only the original one).
func shrinkFailure(ctx context.Context, run *runner.Runner, checker *linearize.Checker, table *command.Table, hooks command.Hooks, prog generate.Program) report.Failure {
	setup, cleanup, _ := runSetup(hooks)
	defer cleanup()

	minimal := shrinkProgram(ctx, run, checker, table, hooks, setup, prog)

	executed, err := run.Execute(ctx, minimal, setup)
	reason := "no linearization of the executed program satisfies the model"
	if err != nil {
		reason = err.Error()
	}
	return report.Failure{Program: minimal, Trace: safeTrace(executed), Reason: reason}
}

func safeTrace(run *runner.Run) *runner.Trace {
	if run == nil {
		return nil
	}
	return run.Trace
}

func shrinkProgram(ctx context.Context, run *runner.Runner, checker *linearize.Checker, table *command.Table, hooks command.Hooks, setup any, prog generate.Program) generate.Program {
	isFailing := func(cand generate.Program) bool {
		failure, err := runOnce(ctx, run, checker, cand, setup)
		return err == nil && failure != nil
	}
	return shrink.Shrink(prog, table, hooks, setup, isFailing)
}
