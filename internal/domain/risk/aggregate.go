package risk

import "math"

// Aggregate merges the indicators of every successful analysis into one set.
// Each key is the rounded mean of the values reported for it; keys nobody
// reported are left out. No analyses means no video signal, so nil is returned.
func Aggregate(analyses []VideoAnalysis) Indicators {
	if len(analyses) == 0 {
		return nil
	}

	out := make(Indicators, len(AllIndicators))
	for _, key := range AllIndicators {
		var sum float64
		var n int
		for _, a := range analyses {
			v, ok := a.Indicators[key]
			if !ok {
				continue
			}
			sum += v
			n++
		}
		if n > 0 {
			out[key] = math.Round(sum / float64(n))
		}
	}
	return out
}
