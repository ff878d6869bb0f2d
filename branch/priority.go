package branch

import "sort"

// RankByFractionality orders candidates by how close their fractional
// LP value sits to 0.5, descending (spec §4.4's default branching
// priority before strong branching's history-weighted score takes
// over). Ties break on Kind then Vehicle for determinism.
func RankByFractionality(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.Slice(ranked, func(i, j int) bool {
		di := FractionalDistance(ranked[i].Branch.FractionalValue)
		dj := FractionalDistance(ranked[j].Branch.FractionalValue)
		if di != dj {
			return di > dj
		}
		if ranked[i].Branch.Kind != ranked[j].Branch.Kind {
			return ranked[i].Branch.Kind < ranked[j].Branch.Kind
		}
		return ranked[i].Branch.Vehicle < ranked[j].Branch.Vehicle
	})
	return ranked
}
