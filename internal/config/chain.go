package config

import (
	"fmt"

	"github.com/forPelevin/ytpgen/internal/types"
)

const (
	keyName        = "name"
	keyEnabled     = "enabled"
	keyProbability = "probability"
)

// decodeChain converts flat effect tables into specs. Every key other than
// name, enabled and probability must be numeric and becomes a param.
func decodeChain(raw []map[string]any) ([]types.EffectSpec, error) {
	chain := make([]types.EffectSpec, 0, len(raw))
	for i, entry := range raw {
		spec := types.EffectSpec{Enabled: true, Probability: 1}

		name, ok := entry[keyName].(string)
		if !ok {
			return nil, fmt.Errorf("effect_chain[%d].name must be a string", i)
		}
		spec.Name = name

		for k, v := range entry {
			switch k {
			case keyName:
			case keyEnabled:
				b, ok := v.(bool)
				if !ok {
					return nil, fmt.Errorf("effect_chain[%d].enabled must be a boolean", i)
				}
				spec.Enabled = b
			case keyProbability:
				f, ok := number(v)
				if !ok {
					return nil, fmt.Errorf("effect_chain[%d].probability must be a number", i)
				}
				spec.Probability = f
			default:
				f, ok := number(v)
				if !ok {
					return nil, fmt.Errorf("effect_chain[%d].%s must be a number", i, k)
				}
				if spec.Params == nil {
					spec.Params = make(map[string]float64)
				}
				spec.Params[k] = f
			}
		}
		chain = append(chain, spec)
	}
	return chain, nil
}

func encodeChain(chain []types.EffectSpec) []map[string]any {
	out := make([]map[string]any, 0, len(chain))
	for _, s := range chain {
		entry := map[string]any{
			keyName:        s.Name,
			keyEnabled:     s.Enabled,
			keyProbability: s.Probability,
		}
		for k, v := range s.Params {
			entry[k] = v
		}
		out = append(out, entry)
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
