package app

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"beeclust/internal/sims/beeclust"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return cfg
}

func TestSimConfigAppliesSeedAndOverrides(t *testing.T) {
	cfg := parse(t, "-seed", "77", "-set", "p_wall=0.5", "-set", "min_wait = 4")
	sim, err := cfg.SimConfig()
	if err != nil {
		t.Fatalf("SimConfig: %v", err)
	}
	if sim.Seed != 77 || sim.Params.PWall != 0.5 || sim.Params.MinWait != 4 {
		t.Fatalf("unexpected config %+v", sim)
	}

	cfg = parse(t, "-seed", "77", "-set", "seed=5")
	sim, err = cfg.SimConfig()
	if err != nil {
		t.Fatalf("SimConfig: %v", err)
	}
	if sim.Seed != 5 {
		t.Fatalf("explicit seed override must win, got %d", sim.Seed)
	}
}

func TestSimConfigValidates(t *testing.T) {
	cfg := parse(t, "-set", "p_meet=1.5")
	if _, err := cfg.SimConfig(); !errors.Is(err, beeclust.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestKVListRejectsBareValues(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(discard{})
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-set", "p_wall"}); err == nil {
		t.Fatal("expected parse error for value without '='")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestLoadGrid(t *testing.T) {
	cfg := parse(t, "-width", "10", "-height", "8", "-bees", "5")
	rows, err := cfg.LoadGrid()
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}
	if len(rows) != 8 || len(rows[0]) != 10 {
		t.Fatalf("unexpected size %dx%d", len(rows[0]), len(rows))
	}

	path := filepath.Join(t.TempDir(), "arena.txt")
	if err := os.WriteFile(path, []byte("H.>\n#.C\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg = parse(t, "-map", path)
	rows, err = cfg.LoadGrid()
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}
	if !slices.Equal(rows[0], []int{2, 0, 5}) || !slices.Equal(rows[1], []int{1, 0, 3}) {
		t.Fatalf("unexpected grid %v", rows)
	}

	cfg = parse(t, "-map", filepath.Join(t.TempDir(), "missing.txt"))
	if _, err := cfg.LoadGrid(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}
