package club

import (
	"strings"
	"unicode"
)

const (
	minConfidence  = 0.3
	maxSuggestions = 5
)

// rankSimilar returns up to five members whose names resemble query, best first.
func rankSimilar(query string, members []Member) []MemberSuggestion {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var suggestions []MemberSuggestion
	for _, m := range members {
		name := normalizeName(m.Name)
		score := similarity(q, name)
		if score <= minConfidence {
			continue
		}
		suggestions = append(suggestions, MemberSuggestion{
			Member:     m,
			Confidence: score,
			Reasons:    matchReasons(q, name),
		})
	}

	sortSuggestions(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// similarity averages whole-string and per-token similarity.
// A query that is a prefix of one of the name's tokens scores at least 0.6.
func similarity(query, name string) float64 {
	score := (stringSimilarity(query, name) + tokenSimilarity(query, name)) / 2
	for _, tok := range strings.Fields(name) {
		if strings.HasPrefix(tok, query) && score < 0.6 {
			score = 0.6
		}
	}
	return score
}

func matchReasons(query, name string) []string {
	var reasons []string
	switch {
	case query == name:
		reasons = append(reasons, "Exact name match")
	case stringSimilarity(query, name) > 0.8:
		reasons = append(reasons, "Very similar name")
	}
	if tokenSimilarity(query, name) > 0.5 {
		reasons = append(reasons, "Matching name components")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Partial name similarity")
	}
	return reasons
}

// normalizeName lowercases, keeps letters, digits and single spaces only.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 || len(r2) == 0 {
		return 0.0
	}
	return 1.0 - float64(levenshtein(r1, r2))/float64(max(len(r1), len(r2)))
}

func tokenSimilarity(s1, s2 string) float64 {
	tokens1 := strings.Fields(s1)
	tokens2 := strings.Fields(s2)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0.0
	}

	var matched int
	for _, t1 := range tokens1 {
		for _, t2 := range tokens2 {
			if stringSimilarity(t1, t2) > 0.8 {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(max(len(tokens1), len(tokens2)))
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
