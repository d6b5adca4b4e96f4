// Package seedstore implements D3: seed/counter-example persistence.
//
// A spec's Non-goals explicitly exclude persisting full state across runs,
// but persisting just the seed that produced a failure — so a later run can
// reproduce it without re-searching — is fair game. This mirrors the
// teacher's BunStore (internal/infrastructure/storage/bun_store.go), scaled
// down from a full event-sourced workflow store to a single narrow table.
package seedstore

import (
	"context"
	"time"
)

// Record is one persisted failing seed.
type Record struct {
	ID        string
	SpecName  string
	Seed      int64
	MaxLength int
	Threads   int
	Summary   string // short human-readable description of the counterexample
	CreatedAt time.Time
}

// Store persists and retrieves failing seeds for a spec.
type Store interface {
	// Save records a newly found failing seed.
	Save(ctx context.Context, r Record) error

	// Recent returns the most recently recorded seeds for specName, newest
	// first, capped at limit.
	Recent(ctx context.Context, specName string, limit int) ([]Record, error)
}
