package seedstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ShouldAssignAnID_WhenRecordHasNone(t *testing.T) {
	s := NewMemoryStore()
	err := s.Save(context.Background(), Record{SpecName: "queue", Seed: 1})
	require.NoError(t, err)

	recs, err := s.Recent(context.Background(), "queue", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs[0].ID)
}

func TestMemoryStore_ShouldReturnNewestFirst_WhenMultipleRecordsExist(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	require.NoError(t, s.Save(context.Background(), Record{SpecName: "queue", Seed: 1, CreatedAt: now}))
	require.NoError(t, s.Save(context.Background(), Record{SpecName: "queue", Seed: 2, CreatedAt: now.Add(time.Minute)}))
	require.NoError(t, s.Save(context.Background(), Record{SpecName: "queue", Seed: 3, CreatedAt: now.Add(2 * time.Minute)}))

	recs, err := s.Recent(context.Background(), "queue", 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(3), recs[0].Seed)
	assert.Equal(t, int64(2), recs[1].Seed)
	assert.Equal(t, int64(1), recs[2].Seed)
}

func TestMemoryStore_ShouldCapAtLimit_WhenMoreRecordsExistThanRequested(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(context.Background(), Record{SpecName: "queue", Seed: int64(i), CreatedAt: now.Add(time.Duration(i) * time.Minute)}))
	}

	recs, err := s.Recent(context.Background(), "queue", 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestMemoryStore_ShouldIsolateBySpecName_WhenTwoSpecsSaveRecords(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Save(context.Background(), Record{SpecName: "queue", Seed: 1}))
	require.NoError(t, s.Save(context.Background(), Record{SpecName: "stack", Seed: 2}))

	recs, err := s.Recent(context.Background(), "queue", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].Seed)
}
