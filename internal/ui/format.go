package ui

import (
	"strconv"

	"beeclust/internal/core"
)

// formatValue renders a parameter value for the HUD. Floats are shown with
// at most three decimals; unparsable values become "--".
func formatValue(p core.Parameter) string {
	switch p.Type {
	case core.ParamTypeInt:
		if _, err := strconv.Atoi(p.Value); err != nil {
			return "--"
		}
		return p.Value
	case core.ParamTypeFloat:
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return "--"
		}
		s := strconv.FormatFloat(v, 'f', 3, 64)
		for s[len(s)-1] == '0' {
			s = s[:len(s)-1]
		}
		if s[len(s)-1] == '.' {
			s = s[:len(s)-1]
		}
		return s
	default:
		if p.Value == "" {
			return "--"
		}
		return p.Value
	}
}
