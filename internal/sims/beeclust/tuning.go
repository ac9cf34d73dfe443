package beeclust

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"beeclust/internal/core"
)

// ScenarioResult captures telemetry from a deterministic run used for tuning.
type ScenarioResult struct {
	// Agents is the number of agents on the grid.
	Agents int
	// FinalScore is the mean agent temperature after the last step.
	FinalScore float64
	// MeanScore averages Score over every simulated step.
	MeanScore float64
	// LargestShare is the fraction of agents in the largest cluster at the end.
	LargestShare float64
	// PeakLargestCluster tracks the largest cluster seen at any step.
	PeakLargestCluster int
	// TotalMoves sums the successful moves over the run.
	TotalMoves int
	// StepsSimulated reports how many ticks were executed.
	StepsSimulated int
}

// SweepRecord documents a single improvement encountered while exploring the
// parameter space.
type SweepRecord struct {
	Pass      int
	Parameter string
	Value     string
	Result    ScenarioResult
	Params    Params
}

// RunScenario builds a simulation for rows and cfg, advances it for steps
// ticks and returns the clustering telemetry.
func RunScenario(rows [][]int, cfg Config, steps int) (ScenarioResult, error) {
	sim, err := New(rows, cfg)
	if err != nil {
		return ScenarioResult{}, err
	}
	result := ScenarioResult{Agents: len(sim.AgentPositions())}
	if steps <= 0 || result.Agents == 0 {
		result.FinalScore = sim.Score()
		return result, nil
	}

	scoreSum := 0.0
	for step := 1; step <= steps; step++ {
		result.TotalMoves += sim.Step()
		result.StepsSimulated = step
		stats := sim.Stats()
		scoreSum += stats.Score
		if stats.LargestCluster > result.PeakLargestCluster {
			result.PeakLargestCluster = stats.LargestCluster
		}
		if step == steps {
			result.FinalScore = stats.Score
			result.LargestShare = float64(stats.LargestCluster) / float64(stats.Agents)
		}
	}
	result.MeanScore = scoreSum / float64(result.StepsSimulated)
	return result, nil
}

type sweepSpec struct {
	name   string
	values []string
}

var sweepSpecs = []sweepSpec{
	{name: "p_changedir", values: []string{"0.05", "0.1", "0.2", "0.3", "0.45"}},
	{name: "p_wall", values: []string{"0.5", "0.65", "0.8", "0.95"}},
	{name: "p_meet", values: []string{"0.5", "0.65", "0.8", "0.95"}},
	{name: "k_stay", values: []string{"20", "35", "50", "65", "80"}},
	{name: "min_wait", values: []string{"0", "1", "2", "4", "8"}},
}

// ParameterSweep performs a coarse coordinate-descent search across the
// behavioral parameters and returns the best parameter set discovered along
// with its telemetry and an improvement trace. Thermal parameters are never
// changed. Candidates of one parameter are evaluated by up to workers
// goroutines, each owning its own simulation.
func ParameterSweep(rows [][]int, base Config, steps, passes, workers int) (Params, ScenarioResult, []SweepRecord, error) {
	if steps <= 0 {
		steps = 400
	}
	if passes <= 0 {
		passes = 1
	}
	if workers <= 0 {
		workers = 1
	}

	currentParams := base.Params
	currentResult, err := RunScenario(rows, base, steps)
	if err != nil {
		return base.Params, ScenarioResult{}, nil, err
	}

	records := []SweepRecord{{
		Pass:      0,
		Parameter: "baseline",
		Result:    currentResult,
		Params:    currentParams,
	}}

	randomSamples := passes * 4
	if randomSamples < 8 {
		randomSamples = 8
	}
	rng := core.NewRNG(base.Seed + 0x5f3759df)
	for i := 0; i < randomSamples; i++ {
		candidate := randomizeParams(rng, base.Params)
		res, err := RunScenario(rows, applyParams(base, candidate), steps)
		if err != nil {
			continue
		}
		if betterResult(res, currentResult, base.Params.TIdeal) {
			currentParams = candidate
			currentResult = res
			records = append(records, SweepRecord{
				Pass:      0,
				Parameter: fmt.Sprintf("random#%d", i+1),
				Result:    res,
				Params:    candidate,
			})
		}
	}

	for pass := 1; pass <= passes; pass++ {
		improved := false
		for _, spec := range sweepSpecs {
			bestParams, bestResult, changed, rec := evaluateSpec(rows, base, currentParams, currentResult, spec, steps, workers, pass)
			if changed {
				currentParams = bestParams
				currentResult = bestResult
				records = append(records, rec...)
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	return currentParams, currentResult, records, nil
}

func evaluateSpec(rows [][]int, base Config, params Params, baseline ScenarioResult, spec sweepSpec, steps, workers, pass int) (Params, ScenarioResult, bool, []SweepRecord) {
	bestParams := params
	bestResult := baseline
	changed := false
	records := make([]SweepRecord, 0)

	type candidate struct {
		params Params
		result ScenarioResult
		valid  bool
	}

	current := applyParams(base, params)
	candidates := make([]candidate, len(spec.values))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for idx, value := range spec.values {
		cfg := current
		if err := cfg.Set(spec.name, value); err != nil {
			continue
		}
		if cfg.Params == params {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, cfg Config) {
			defer wg.Done()
			res, err := RunScenario(rows, cfg, steps)
			if err == nil {
				candidates[i] = candidate{params: cfg.Params, result: res, valid: true}
			}
			<-sem
		}(idx, cfg)
	}

	wg.Wait()

	for idx, value := range spec.values {
		cand := candidates[idx]
		if !cand.valid {
			continue
		}
		if betterResult(cand.result, bestResult, base.Params.TIdeal) {
			bestParams = cand.params
			bestResult = cand.result
			changed = true
			records = append(records, SweepRecord{
				Pass:      pass,
				Parameter: spec.name,
				Value:     value,
				Result:    cand.result,
				Params:    cand.params,
			})
		}
	}

	return bestParams, bestResult, changed, records
}

// betterResult prefers tighter aggregation, then a mean temperature closer
// to the ideal.
func betterResult(a, b ScenarioResult, ideal float64) bool {
	if !almostEqual(a.LargestShare, b.LargestShare) {
		return a.LargestShare > b.LargestShare
	}
	return math.Abs(a.MeanScore-ideal) < math.Abs(b.MeanScore-ideal)
}

func almostEqual(a, b float64) bool {
	const eps = 1e-6
	return math.Abs(a-b) <= eps
}

func applyParams(base Config, params Params) Config {
	cfg := base
	cfg.Params = params
	return cfg
}

func randomizeParams(rng *core.RNG, base Params) Params {
	params := base
	params.PChangeDir = randomFloatRange(rng, 0.02, 0.5)
	params.PWall = randomFloatRange(rng, 0.4, 1.0)
	params.PMeet = randomFloatRange(rng, 0.4, 1.0)
	params.KStay = randomFloatRange(rng, 10, 90)
	params.MinWait = randomIntRange(rng, 0, 8)
	return params
}

func randomFloatRange(rng *core.RNG, min, max float64) float64 {
	if max <= min {
		return min
	}
	v := min + rng.Float64()*(max-min)
	// keep sampled values readable in the trace
	parsed, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return parsed
}

func randomIntRange(rng *core.RNG, min, max int) int {
	if max <= min {
		return min
	}
	return rng.IntN(max-min+1) + min
}
