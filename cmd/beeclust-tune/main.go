package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"

	"beeclust/internal/app"
	"beeclust/internal/sims/beeclust"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	steps := flag.Int("steps", 600, "number of ticks to simulate per candidate")
	passes := flag.Int("passes", 3, "coordinate-descent passes to execute")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel candidate evaluations")
	manualOnly := flag.Bool("manual", false, "skip sweeping and only evaluate provided overrides")
	flag.Parse()

	simCfg, err := cfg.SimConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rows, err := cfg.LoadGrid()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseline, err := beeclust.RunScenario(rows, simCfg, *steps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Baseline: %s\n", describe(baseline))

	if *manualOnly {
		fmt.Println("Manual evaluation requested; skipping sweep.")
		printParams(simCfg.Params)
		return
	}

	params, result, trace, err := beeclust.ParameterSweep(rows, simCfg, *steps, *passes, *workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("\nBest found: %s\n", describe(result))
	printParams(params)

	if len(trace) > 1 {
		fmt.Println("\nImprovements:")
		for _, rec := range trace[1:] {
			label := rec.Parameter
			if rec.Value != "" {
				label = fmt.Sprintf("%s=%s", rec.Parameter, rec.Value)
			}
			fmt.Printf("  pass %d: %s -> largest share %.2f, mean score %.2f\n",
				rec.Pass, label, rec.Result.LargestShare, rec.Result.MeanScore)
		}
	}
}

func describe(r beeclust.ScenarioResult) string {
	return fmt.Sprintf("largest share %.2f (peak cluster %d of %d agents), mean score %.2f, final score %.2f, %s moves over %s steps",
		r.LargestShare, r.PeakLargestCluster, r.Agents, r.MeanScore, r.FinalScore,
		humanize.Comma(int64(r.TotalMoves)), humanize.Comma(int64(r.StepsSimulated)))
}

func printParams(p beeclust.Params) {
	fmt.Println("Parameters:")
	values := map[string]string{
		"p_changedir": fmt.Sprintf("%.3f", p.PChangeDir),
		"p_wall":      fmt.Sprintf("%.3f", p.PWall),
		"p_meet":      fmt.Sprintf("%.3f", p.PMeet),
		"k_temp":      fmt.Sprintf("%.3f", p.KTemp),
		"k_stay":      fmt.Sprintf("%.3f", p.KStay),
		"t_ideal":     fmt.Sprintf("%.3f", p.TIdeal),
		"t_heater":    fmt.Sprintf("%.3f", p.THeater),
		"t_cooler":    fmt.Sprintf("%.3f", p.TCooler),
		"t_env":       fmt.Sprintf("%.3f", p.TEnv),
		"min_wait":    fmt.Sprintf("%d", p.MinWait),
	}
	var flags []string
	for _, key := range beeclust.Keys() {
		v, ok := values[key]
		if !ok {
			continue
		}
		fmt.Printf("  %s=%s\n", key, v)
		flags = append(flags, fmt.Sprintf("-set %s=%s", key, v))
	}
	fmt.Printf("\nFlags: %s\n", strings.Join(flags, " "))
}
