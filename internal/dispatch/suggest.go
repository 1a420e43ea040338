package dispatch

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// suggest returns up to three registered names closest to input, nearest
// first. Only names within an edit distance of 2 (or a third of the input
// length for long inputs) qualify, so unrelated chatter gets no suggestions.
func suggest(input string, names []string) []string {
	limit := 2
	if l := len(input) / 3; l > limit {
		limit = l
	}

	type scored struct {
		name string
		dist int
	}
	var candidates []scored
	for _, name := range names {
		d := levenshtein.ComputeDistance(input, name)
		if d > 0 && d <= limit {
			candidates = append(candidates, scored{name: name, dist: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	out := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}
