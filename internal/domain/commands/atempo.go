package commands

import (
	"math"
	"strings"
)

// atempo only accepts factors within [0.5, 2.0].
const (
	atempoMin = 0.5
	atempoMax = 2.0
)

// AtempoChain splits target into factors that each lie in [0.5, 2.0] and
// multiply back to target. Non-positive targets yield nil.
func AtempoChain(target float64) []float64 {
	if target <= 0 || math.IsInf(target, 0) || math.IsNaN(target) {
		return nil
	}
	var factors []float64
	t := target
	for t < atempoMin {
		factors = append(factors, atempoMin)
		t /= atempoMin
	}
	for t > atempoMax {
		factors = append(factors, atempoMax)
		t /= atempoMax
	}
	return append(factors, t)
}

// AtempoFilter renders AtempoChain as an ffmpeg audio filter chain.
func AtempoFilter(target float64) string {
	chain := AtempoChain(target)
	parts := make([]string, len(chain))
	for i, f := range chain {
		parts[i] = "atempo=" + num(f)
	}
	return strings.Join(parts, ",")
}
