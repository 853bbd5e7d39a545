package roster

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// FuzzyLookup resolves a free-text name against the index in two passes over
// the names in insertion order:
//
//  1. the first name whose normalized form equals the candidate's;
//  2. otherwise the first name sharing any normalized token with it.
//
// The second return is false when neither pass matches. A common first name
// can therefore resolve to an unrelated player; callers accept that.
func (i *Index) FuzzyLookup(candidate string) (Entry, bool) {
	if i.Len() == 0 {
		return Entry{}, false
	}

	want := Normalize(candidate)
	for pos, got := range i.normalized {
		if got == want {
			return i.byName[i.order[pos]], true
		}
	}

	wantTokens := make(map[string]struct{})
	for _, tok := range Tokens(candidate) {
		wantTokens[tok] = struct{}{}
	}
	if len(wantTokens) == 0 {
		return Entry{}, false
	}

	for pos, got := range i.normalized {
		for _, tok := range strings.Fields(got) {
			if _, ok := wantTokens[tok]; ok {
				return i.byName[i.order[pos]], true
			}
		}
	}

	return Entry{}, false
}

// Candidate is a roster name ranked against a query.
type Candidate struct {
	Name       string
	Similarity float32
}

// DefaultMinSimilarity is the Jaro-Winkler floor for "did you mean" hints.
const DefaultMinSimilarity float32 = 0.75

// Suggest ranks roster names by Jaro-Winkler similarity of their normalized
// forms to query, best first, keeping at most limit names at or above
// minSimilarity. Ties keep insertion order.
func (i *Index) Suggest(query string, limit int, minSimilarity float32) []Candidate {
	if i.Len() == 0 || limit <= 0 {
		return nil
	}

	want := Normalize(query)
	if want == "" {
		return nil
	}

	var out []Candidate
	for pos, got := range i.normalized {
		similarity := edlib.JaroWinklerSimilarity(want, got)
		if similarity < minSimilarity {
			continue
		}
		out = append(out, Candidate{Name: i.order[pos], Similarity: similarity})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Similarity > out[b].Similarity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
