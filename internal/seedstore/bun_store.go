package seedstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// seedRecordModel is the persisted shape of a Record, grounded directly on
// the teacher's bun model pattern (internal/infrastructure/storage/bun_store.go
// WorkflowModel/EventModel): a bun.BaseModel embed naming the table, plain
// struct tags for columns.
type seedRecordModel struct {
	bun.BaseModel `bun:"table:statecheck_seeds,alias:s"`

	ID        string    `bun:"id,pk"`
	SpecName  string    `bun:"spec_name"`
	Seed      int64     `bun:"seed"`
	MaxLength int       `bun:"max_length"`
	Threads   int       `bun:"threads"`
	Summary   string    `bun:"summary"`
	CreatedAt time.Time `bun:"created_at"`
}

// BunStore persists seeds to Postgres via bun/pgdialect/pgdriver.
type BunStore struct {
	db *bun.DB
}

// NewBunStore opens a connection to dsn using bun's pgdriver connector.
func NewBunStore(dsn string) *BunStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &BunStore{db: db}
}

// InitSchema creates the seed table if it doesn't already exist.
func (s *BunStore) InitSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*seedRecordModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Save inserts r, assigning it an ID if it doesn't already have one.
func (s *BunStore) Save(ctx context.Context, r Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	model := &seedRecordModel{
		ID:        r.ID,
		SpecName:  r.SpecName,
		Seed:      r.Seed,
		MaxLength: r.MaxLength,
		Threads:   r.Threads,
		Summary:   r.Summary,
		CreatedAt: r.CreatedAt,
	}
	_, err := s.db.NewInsert().Model(model).On("CONFLICT (id) DO UPDATE").Exec(ctx)
	return err
}

// Recent returns the limit most recently recorded seeds for specName.
func (s *BunStore) Recent(ctx context.Context, specName string, limit int) ([]Record, error) {
	var models []seedRecordModel
	q := s.db.NewSelect().Model(&models).Where("spec_name = ?", specName).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]Record, len(models))
	for i, m := range models {
		out[i] = Record{
			ID:        m.ID,
			SpecName:  m.SpecName,
			Seed:      m.Seed,
			MaxLength: m.MaxLength,
			Threads:   m.Threads,
			Summary:   m.Summary,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *BunStore) Close() error {
	return s.db.Close()
}
