// Package runner drives a simulation headlessly: pacing, periodic logging,
// snapshots and frame publication.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"beeclust/internal/core"
	"beeclust/internal/persistence"
	"beeclust/internal/sims/beeclust"
	"beeclust/internal/stream"
)

// Options configures Run. Zero values disable the matching feature.
type Options struct {
	RunID string
	// Steps bounds the run; zero runs until ctx is cancelled.
	Steps int
	// TPS paces the loop; zero runs as fast as possible.
	TPS       int
	LogEvery  int
	SaveEvery int

	DB     *persistence.DB
	Stream *stream.Server
	Logger *slog.Logger
}

// Summary reports what a run did.
type Summary struct {
	RunID   string
	Steps   int
	Moves   int
	Final   beeclust.Stats
	Elapsed time.Duration
}

// String renders the summary for humans.
func (s Summary) String() string {
	return fmt.Sprintf("%s steps, %s moves, %d agents in %d clusters (largest %d), score %.2f, took %s",
		humanize.Comma(int64(s.Steps)), humanize.Comma(int64(s.Moves)),
		s.Final.Agents, s.Final.Clusters, s.Final.LargestCluster, s.Final.Score,
		s.Elapsed.Round(time.Millisecond))
}

// Run steps sim until opts.Steps ticks have run or ctx is cancelled. The
// final state is always saved when a DB is configured.
func Run(ctx context.Context, sim *beeclust.Simulation, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sum := Summary{RunID: opts.RunID}
	start := time.Now()
	pace := core.NewFixedStep(opts.TPS)

	if opts.Stream != nil {
		if err := opts.Stream.SetHeatField(sim.HeatField()); err != nil {
			return sum, fmt.Errorf("publish heat field: %w", err)
		}
		if err := opts.Stream.Publish(stream.FrameOf(opts.RunID, sim)); err != nil {
			return sum, fmt.Errorf("publish frame: %w", err)
		}
	}

loop:
	for opts.Steps <= 0 || sum.Steps < opts.Steps {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		if !pace.ShouldStep() {
			time.Sleep(pace.Interval() / 4)
			continue
		}

		sum.Moves += sim.Step()
		sum.Steps++

		if opts.Stream != nil {
			if err := opts.Stream.Publish(stream.FrameOf(opts.RunID, sim)); err != nil {
				return sum, fmt.Errorf("publish frame: %w", err)
			}
		}
		if opts.LogEvery > 0 && sum.Steps%opts.LogEvery == 0 {
			st := sim.Stats()
			logger.Info("tick",
				"tick", st.Tick,
				"moved", st.Moved,
				"clusters", st.Clusters,
				"largest", st.LargestCluster,
				"score", fmt.Sprintf("%.3f", st.Score),
			)
		}
		if opts.DB != nil && opts.SaveEvery > 0 && sum.Steps%opts.SaveEvery == 0 {
			if _, err := opts.DB.SaveSimulation(opts.RunID, sim); err != nil {
				return sum, err
			}
		}
	}

	sum.Final = sim.Stats()
	sum.Elapsed = time.Since(start)
	if opts.DB != nil {
		if _, err := opts.DB.SaveSimulation(opts.RunID, sim); err != nil {
			return sum, fmt.Errorf("final save: %w", err)
		}
	}
	logger.Info("run finished", "run", opts.RunID, "steps", humanize.Comma(int64(sum.Steps)), "moves", humanize.Comma(int64(sum.Moves)))
	return sum, nil
}
