package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"beeclust/internal/mapgen"
	"beeclust/internal/persistence"
	"beeclust/internal/sims/beeclust"
	"beeclust/internal/stream"
)

func newSim(t *testing.T) *beeclust.Simulation {
	t.Helper()
	gen := mapgen.DefaultGenConfig()
	gen.Width, gen.Height, gen.Bees = 16, 12, 20
	sim, err := beeclust.New(mapgen.Generate(gen), beeclust.DefaultConfig())
	require.NoError(t, err)
	return sim
}

func TestRunStepsAndSaves(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)
	defer db.Close()

	srv := stream.NewServer(nil)
	sim := newSim(t)
	sum, err := Run(context.Background(), sim, Options{
		RunID:     "run-a",
		Steps:     25,
		LogEvery:  10,
		SaveEvery: 10,
		DB:        db,
		Stream:    srv,
	})
	require.NoError(t, err)
	require.Equal(t, 25, sum.Steps)
	require.Equal(t, uint64(25), sim.Tick())
	require.Equal(t, sim.Stats(), sum.Final)
	require.Contains(t, sum.String(), "25 steps")

	snap, err := db.LoadSnapshot()
	require.NoError(t, err)
	require.Equal(t, "run-a", snap.RunID)
	require.Equal(t, uint64(25), snap.Tick)
	require.Equal(t, sim.Grid(), snap.Rows)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sim := newSim(t)
	sum, err := Run(ctx, sim, Options{TPS: 1000})
	require.NoError(t, err)
	require.Greater(t, sum.Steps, 0)
	require.Equal(t, uint64(sum.Steps), sim.Tick())
}

func TestSummaryString(t *testing.T) {
	s := Summary{Steps: 12000, Moves: 1234567, Elapsed: 1500 * time.Millisecond}
	require.Equal(t, "12,000 steps, 1,234,567 moves, 0 agents in 0 clusters (largest 0), score 0.00, took 1.5s", s.String())
}
