package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"beeclust/internal/sims/beeclust"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "beeclust.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadSnapshotEmpty(t *testing.T) {
	db := openTemp(t)

	ok, err := db.HasSnapshot()
	require.NoError(t, err)
	require.False(t, ok)

	_, err = db.LoadSnapshot()
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotRoundTripKeepsLatestOnly(t *testing.T) {
	db := openTemp(t)
	params := beeclust.DefaultConfig().Params

	first, err := db.SaveSnapshot(Snapshot{Tick: 3, Seed: 7, Params: params, Rows: [][]int{{2, 5, 0}}})
	require.NoError(t, err)
	_, err = uuid.Parse(first.RunID)
	require.NoError(t, err, "missing run id is filled with a uuid")

	params.KStay = 12.5
	saved := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	second, err := db.SaveSnapshot(Snapshot{
		RunID:   first.RunID,
		Tick:    9,
		Seed:    7,
		Params:  params,
		Rows:    [][]int{{2, 0, -4}, {1, 7, 3}},
		SavedAt: saved,
	})
	require.NoError(t, err)

	ok, err := db.HasSnapshot()
	require.NoError(t, err)
	require.True(t, ok)

	got, err := db.LoadSnapshot()
	require.NoError(t, err)
	require.Equal(t, second, got)
	require.True(t, got.SavedAt.Equal(saved))
}

func TestSaveSnapshotRejectsEmptyGrid(t *testing.T) {
	db := openTemp(t)
	_, err := db.SaveSnapshot(Snapshot{})
	require.Error(t, err)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveMeta("last_tick", "4"))
	require.NoError(t, db.SaveMeta("last_tick", "5"))

	v, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	require.Equal(t, "5", v)

	_, err = db.GetMeta("missing")
	require.Error(t, err)
}

func TestSaveAndRestoreSimulation(t *testing.T) {
	db := openTemp(t)
	rows := [][]int{
		{2, 5, 5, 0},
		{0, 0, 1, 0},
		{7, 0, 0, 3},
	}
	sim, err := beeclust.New(rows, beeclust.DefaultConfig())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		sim.Step()
	}

	runID := uuid.NewString()
	snap, err := db.SaveSimulation(runID, sim)
	require.NoError(t, err)
	require.Equal(t, runID, snap.RunID)

	agents, err := db.Agents()
	require.NoError(t, err)
	require.Len(t, agents, 3)
	positions := sim.AgentPositions()
	for i, a := range agents {
		require.Equal(t, positions[i].Row, a.Row)
		require.Equal(t, positions[i].Col, a.Col)
		require.Equal(t, snap.Rows[a.Row][a.Col], a.State)
	}

	last, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	require.Equal(t, "5", last)

	restored, loaded, err := db.Restore()
	require.NoError(t, err)
	require.Equal(t, runID, loaded.RunID)
	require.Equal(t, uint64(5), restored.Tick())
	require.Equal(t, sim.Grid(), restored.Grid())
	require.Equal(t, sim.Params(), restored.Params())
	require.Equal(t, sim.Score(), restored.Score())
}
