package identity

import "strings"

// NameSimilarity scores two names with Jaro-Winkler, case-insensitive and
// trimmed. Result is in [0,1]; identical strings score 1.0, an empty input
// scores 0. Downstream duplicate thresholds are tuned against exactly this
// formulation, so the algorithm must not be swapped for an approximation.
func NameSimilarity(a, b string) float64 {
	s1 := []rune(strings.ToLower(strings.TrimSpace(a)))
	s2 := []rune(strings.ToLower(strings.TrimSpace(b)))

	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}
	if string(s1) == string(s2) {
		return 1.0
	}

	len1, len2 := len(s1), len(s2)
	window := max(len1, len2)/2 - 1
	if window < 0 {
		return 0
	}

	matched1 := make([]bool, len1)
	matched2 := make([]bool, len2)
	matches := 0
	for i := 0; i < len1; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len2 {
			hi = len2
		}
		for j := lo; j < hi; j++ {
			if matched2[j] || s1[i] != s2[j] {
				continue
			}
			matched1[i] = true
			matched2[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	// Transpositions: matched characters compared in original order.
	ms1 := make([]rune, 0, matches)
	ms2 := make([]rune, 0, matches)
	for i, ok := range matched1 {
		if ok {
			ms1 = append(ms1, s1[i])
		}
	}
	for j, ok := range matched2 {
		if ok {
			ms2 = append(ms2, s2[j])
		}
	}
	halfTranspositions := 0
	for k := range ms1 {
		if ms1[k] != ms2[k] {
			halfTranspositions++
		}
	}

	m := float64(matches)
	jaro := (m/float64(len1) + m/float64(len2) + (m-float64(halfTranspositions)/2)/m) / 3

	prefix := 0
	for k := 0; k < len1 && k < len2 && k < 4; k++ {
		if s1[k] != s2[k] {
			break
		}
		prefix++
	}

	jw := jaro + 0.1*float64(prefix)*(1-jaro)
	if jw > 1.0 {
		jw = 1.0
	}
	return jw
}
