package pathway

import "math"

// Bounds caps how much of the source x target cross product a search
// explores. The zero value disables every cap.
//
// With S sources, T targets and N requested results:
//
//	maxSources  = min(EndpointCap, ceil(sqrt(SourceTargetBudget * S / T)))
//	maxTargets  = min(EndpointCap, ceil(sqrt(SourceTargetBudget * T / S)))
//	maxPaths    = ceil(PathBudget / (min(S, maxSources) * min(T, maxTargets)))
//	maxFiltered = N + ceil(maxPaths / FilterDivisor)
//
// Sources and targets are taken in resolution order, paths in discovery
// order, so a bounded search is still deterministic.
type Bounds struct {
	Enabled            bool
	SourceTargetBudget float64
	PathBudget         float64
	FilterDivisor      float64
	EndpointCap        int
}

// DefaultBounds returns the tuned production caps.
func DefaultBounds() Bounds {
	return Bounds{
		Enabled:            true,
		SourceTargetBudget: 1000,
		PathBudget:         1000,
		FilterDivisor:      5,
		EndpointCap:        50,
	}
}

// limits are per-search caps; zero means unlimited.
type limits struct {
	sources  int
	targets  int
	paths    int
	filtered int
}

func (b Bounds) limits(sources, targets, maxResults int) limits {
	if !b.Enabled || sources == 0 || targets == 0 {
		return limits{}
	}

	var lim limits
	if b.SourceTargetBudget > 0 {
		lim.sources = capped(math.Ceil(math.Sqrt(b.SourceTargetBudget*float64(sources)/float64(targets))), b.EndpointCap)
		lim.targets = capped(math.Ceil(math.Sqrt(b.SourceTargetBudget*float64(targets)/float64(sources))), b.EndpointCap)
	} else if b.EndpointCap > 0 {
		lim.sources, lim.targets = b.EndpointCap, b.EndpointCap
	}

	if b.PathBudget > 0 {
		explored := float64(minLimit(sources, lim.sources) * minLimit(targets, lim.targets))
		lim.paths = int(math.Ceil(b.PathBudget / explored))
		if b.FilterDivisor > 0 {
			lim.filtered = maxResults + int(math.Ceil(float64(lim.paths)/b.FilterDivisor))
		}
	}
	return lim
}

func capped(v float64, limit int) int {
	n := int(v)
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

func minLimit(n, limit int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
