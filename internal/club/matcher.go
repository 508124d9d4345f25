package club

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mauv0809/club-ladder/internal/ladder"
)

// NameMatch is a player whose name resembles a query.
type NameMatch struct {
	Player     ladder.Player
	Confidence float64
}

// AutoMatchConfidence is the score above which a name match is taken as certain.
const AutoMatchConfidence = 0.8

const minMatchConfidence = 0.3

// MatchPlayersByName ranks players by how closely their name resembles query.
// At most limit matches above the minimum confidence are returned, best first.
func MatchPlayersByName(query string, players []ladder.Player, limit int) []NameMatch {
	q := normalizeName(query)
	if q == "" {
		return nil
	}
	var matches []NameMatch
	for _, p := range players {
		score := nameSimilarity(q, normalizeName(p.Name))
		if score > minMatchConfidence {
			matches = append(matches, NameMatch{Player: p, Confidence: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// nameSimilarity averages whole-string and per-token similarity.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	whole := stringSimilarity(a, b)
	tokens := tokenSimilarity(a, b)
	return (whole + tokens) / 2
}

func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// tokenSimilarity is the share of tokens that have a close counterpart in
// the other name. A single token that prefixes another (Igor vs Igor M) counts.
func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	matched := 0
	for _, x := range ta {
		for _, y := range tb {
			if stringSimilarity(x, y) > AutoMatchConfidence {
				matched++
				break
			}
		}
	}
	return min(1.0, float64(matched)/float64(min(len(ta), len(tb))))
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
