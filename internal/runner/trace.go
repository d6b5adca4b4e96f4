package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope every invocation span is recorded
// under, following the teacher's tracing.StartSpan convention of naming the
// tracer after the component rather than the caller
// (internal/infrastructure/tracing/tracing.go).
const tracerName = "statecheck/runner"

// Event is one recorded step of a run, grounded on the teacher's
// ExecutionTrace/TraceEvent pair (internal/infrastructure/monitoring/trace.go)
// but narrowed to what a single command invocation needs: which command,
// which handle, how long it took, and what it returned.
type Event struct {
	Timestamp time.Time
	Handle    string
	Command   string
	Thread    int // -1 for the sequential prefix
	Args      any
	Result    any
	Err       error
	Duration  time.Duration
}

// Trace accumulates Events across a run. Safe for concurrent use: the
// parallel section of a run has every thread appending to the same trace.
type Trace struct {
	mu     sync.Mutex
	Events []Event
}

// NewTrace returns an empty trace.
func NewTrace() *Trace { return &Trace{} }

// Record appends e to the trace.
func (t *Trace) Record(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Events = append(t.Events, e)
}

// Snapshot returns a copy of every event recorded so far, in recording
// order (not generation order — concurrent threads interleave by whichever
// finished first).
func (t *Trace) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.Events))
	copy(out, t.Events)
	return out
}

// String renders the trace for a failure report, one line per event.
func (t *Trace) String() string {
	events := t.Snapshot()
	out := fmt.Sprintf("run trace (%d invocations)\n", len(events))
	for i, e := range events {
		lane := "seq"
		if e.Thread >= 0 {
			lane = fmt.Sprintf("thread[%c]", 'A'+e.Thread)
		}
		out += fmt.Sprintf("%3d. [%s] %s %s(%v) -> %v", i+1, lane, e.Handle, e.Command, e.Args, e.Result)
		if e.Err != nil {
			out += fmt.Sprintf(" [ERROR: %v]", e.Err)
		}
		out += fmt.Sprintf(" (%s)\n", e.Duration)
	}
	return out
}

// traceInvocation wraps a single real_command call in an OpenTelemetry
// span and a Trace event, satisfying the "per-step traces" requirement
// (SPEC_FULL.md §10.4) without requiring every caller to know about either
// concern.
func traceInvocation(ctx context.Context, tr *Trace, handle, command string, thread int, args any, call func(context.Context) (any, error)) (any, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, command, trace.WithAttributes(
		attribute.String("statecheck.handle", handle),
		attribute.Int("statecheck.thread", thread),
	))
	defer span.End()

	start := time.Now()
	result, err := func() (res any, err error) {
		defer func() {
			if p := recover(); p != nil {
				res, err = nil, fmt.Errorf("panic: %v", p)
			}
		}()
		return call(ctx)
	}()
	dur := time.Since(start)

	if err != nil {
		span.RecordError(err)
	}

	if tr != nil {
		tr.Record(Event{
			Timestamp: start,
			Handle:    handle,
			Command:   command,
			Thread:    thread,
			Args:      args,
			Result:    result,
			Err:       err,
			Duration:  dur,
		})
	}

	return result, err
}
