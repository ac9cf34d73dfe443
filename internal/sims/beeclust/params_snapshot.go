package beeclust

import (
	"strconv"

	"beeclust/internal/core"
)

// Parameters reports the configuration and live statistics for display.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	params := s.cfg.Params
	stats := s.Stats()
	groups := []core.ParameterGroup{
		{
			Name: "State",
			Params: []core.Parameter{
				intParam("tick", "Tick", int(stats.Tick)),
				intParam("agents", "Agents", stats.Agents),
				intParam("clusters", "Clusters", stats.Clusters),
				intParam("largest_cluster", "Largest cluster", stats.LargestCluster),
				intParam("moved", "Moved last tick", stats.Moved),
				floatParam("score", "Score", stats.Score),
			},
		},
		{
			Name: "Movement",
			Params: []core.Parameter{
				floatParam("p_changedir", "Turn chance", params.PChangeDir),
				floatParam("p_wall", "Rest at wall", params.PWall),
				floatParam("p_meet", "Rest at meeting", params.PMeet),
				floatParam("k_stay", "Stay coefficient", params.KStay),
				intParam("min_wait", "Min wait", params.MinWait),
			},
		},
		{
			Name: "Thermal",
			Params: []core.Parameter{
				floatParam("t_ideal", "Ideal", params.TIdeal),
				floatParam("t_heater", "Heater", params.THeater),
				floatParam("t_cooler", "Cooler", params.TCooler),
				floatParam("t_env", "Environment", params.TEnv),
				floatParam("k_temp", "Falloff coefficient", params.KTemp),
			},
		},
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", s.grid.W),
				intParam("h", "Height", s.grid.H),
				int64Param("seed", "Seed", s.cfg.Seed),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
