package app

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"beeclust/internal/mapgen"
	"beeclust/internal/sims/beeclust"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set appends one key=value pair.
func (l *KVList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*l = append(*l, value)
	return nil
}

// Map returns the pairs as a map; later duplicates win.
func (l KVList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		k, v, _ := strings.Cut(kv, "=")
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// Config represents the command-line parameters shared by the viewer and the
// headless runner.
type Config struct {
	Map       string
	Scale     int
	TPS       int
	HUDWidth  int
	Seed      int64
	Gen       mapgen.GenConfig
	Overrides KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 12, TPS: 30, HUDWidth: 220, Seed: 1337, Gen: mapgen.DefaultGenConfig()}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Map, "map", c.Map, "ASCII map file (generated when empty)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second (0 runs unpaced)")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for map generation and agent randomness")
	fs.IntVar(&c.Gen.Width, "width", c.Gen.Width, "generated map width")
	fs.IntVar(&c.Gen.Height, "height", c.Gen.Height, "generated map height")
	fs.IntVar(&c.Gen.Bees, "bees", c.Gen.Bees, "agents on a generated map")
	fs.IntVar(&c.Gen.Heaters, "heaters", c.Gen.Heaters, "heaters on a generated map")
	fs.IntVar(&c.Gen.Coolers, "coolers", c.Gen.Coolers, "coolers on a generated map")
	fs.Float64Var(&c.Gen.WallLevel, "walls", c.Gen.WallLevel, "noise level above which generated cells become walls")
	fs.Var(&c.Overrides, "set", "model parameter override in key=value form (repeatable)")
}

// SimConfig returns the model configuration: defaults, the seed flag, then
// -set overrides, validated.
func (c *Config) SimConfig() (beeclust.Config, error) {
	overrides := c.Overrides.Map()
	if _, ok := overrides["seed"]; !ok {
		overrides["seed"] = fmt.Sprint(c.Seed)
	}
	cfg, err := beeclust.FromMap(overrides)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadGrid reads the map file or generates a map from the Gen settings.
func (c *Config) LoadGrid() ([][]int, error) {
	if c.Map == "" {
		gen := c.Gen
		gen.Seed = c.Seed
		return mapgen.Generate(gen), nil
	}
	f, err := os.Open(c.Map)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()
	return mapgen.ParseASCII(f)
}
