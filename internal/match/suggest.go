package match

import (
	"cmp"
	"slices"
)

// MinSuggestScore is the lowest similarity still worth suggesting.
const MinSuggestScore = 0.6

// Suggest returns up to limit candidates similar to name, best first.
// Ties keep the candidates' original order.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	ranked := make([]scored, 0, len(candidates))

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := Similarity(name, c); s >= MinSuggestScore {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(x, y scored) int {
		return cmp.Compare(y.score, x.score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}
