package beeclust

import (
	"fmt"
	"math"
	"strconv"
)

// Params holds the behavioral and thermal tunables of the model.
type Params struct {
	PChangeDir float64 `json:"p_changedir"`
	PWall      float64 `json:"p_wall"`
	PMeet      float64 `json:"p_meet"`
	KTemp      float64 `json:"k_temp"`
	KStay      float64 `json:"k_stay"`
	TIdeal     float64 `json:"t_ideal"`
	THeater    float64 `json:"t_heater"`
	TCooler    float64 `json:"t_cooler"`
	TEnv       float64 `json:"t_env"`
	MinWait    int     `json:"min_wait"`
}

// Config controls a BeeClust simulation.
type Config struct {
	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed: 1337,
		Params: Params{
			PChangeDir: 0.2,
			PWall:      0.8,
			PMeet:      0.8,
			KTemp:      0.9,
			KStay:      50,
			TIdeal:     35,
			THeater:    40,
			TCooler:    5,
			TEnv:       22,
			MinWait:    2,
		},
	}
}

// Validate checks parameter ranges and the thermal ordering
// TCooler <= TEnv <= THeater.
func (c Config) Validate() error {
	p := c.Params
	floats := []struct {
		key string
		v   float64
	}{
		{"p_changedir", p.PChangeDir},
		{"p_wall", p.PWall},
		{"p_meet", p.PMeet},
		{"k_temp", p.KTemp},
		{"k_stay", p.KStay},
		{"t_ideal", p.TIdeal},
		{"t_heater", p.THeater},
		{"t_cooler", p.TCooler},
		{"t_env", p.TEnv},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrConfiguration, f.key, f.v)
		}
	}
	for _, f := range floats[:3] {
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: probability %s must be in [0,1], got %v", ErrConfiguration, f.key, f.v)
		}
	}
	if p.KTemp <= 0 {
		return fmt.Errorf("%w: k_temp must be positive, got %v", ErrConfiguration, p.KTemp)
	}
	if p.KStay <= 0 {
		return fmt.Errorf("%w: k_stay must be positive, got %v", ErrConfiguration, p.KStay)
	}
	if p.MinWait < 0 {
		return fmt.Errorf("%w: min_wait cannot be negative, got %d", ErrConfiguration, p.MinWait)
	}
	if p.TCooler > p.TEnv {
		return fmt.Errorf("%w: t_cooler (%v) cannot be warmer than t_env (%v)", ErrConfiguration, p.TCooler, p.TEnv)
	}
	if p.TEnv > p.THeater {
		return fmt.Errorf("%w: t_env (%v) cannot be warmer than t_heater (%v)", ErrConfiguration, p.TEnv, p.THeater)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys are ignored; values that fail to parse are reported as
// ErrConfiguration. Ranges are not checked here, see Validate.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	for k, v := range cfg {
		if err := c.Set(k, v); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Set assigns a single key. Unknown keys are ignored.
func (c *Config) Set(key, value string) error {
	p := &c.Params
	var dst *float64
	switch key {
	case "seed":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: seed: %v", ErrConfiguration, err)
		}
		c.Seed = parsed
		return nil
	case "min_wait":
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: min_wait: %v", ErrConfiguration, err)
		}
		p.MinWait = parsed
		return nil
	case "p_changedir":
		dst = &p.PChangeDir
	case "p_wall":
		dst = &p.PWall
	case "p_meet":
		dst = &p.PMeet
	case "k_temp":
		dst = &p.KTemp
	case "k_stay":
		dst = &p.KStay
	case "t_ideal":
		dst = &p.TIdeal
	case "t_heater":
		dst = &p.THeater
	case "t_cooler":
		dst = &p.TCooler
	case "t_env":
		dst = &p.TEnv
	default:
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfiguration, key, err)
	}
	*dst = parsed
	return nil
}

// Keys lists every key understood by Set, in presentation order.
func Keys() []string {
	return []string{
		"seed", "p_changedir", "p_wall", "p_meet", "k_temp", "k_stay",
		"t_ideal", "t_heater", "t_cooler", "t_env", "min_wait",
	}
}
