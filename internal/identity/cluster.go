package identity

import (
	"strings"
	"unicode/utf8"

	types "github.com/talkbase/talkbase-backend/internal/domain"
)

type DuplicateType string

const (
	DuplicateTypeExactPhone   DuplicateType = "exact_phone"
	DuplicateTypeSimilarPhone DuplicateType = "similar_phone"
	DuplicateTypeSimilarName  DuplicateType = "similar_name"
)

// DefaultNameThreshold is the minimum Jaro-Winkler score for a contact to be
// attached to a similar-name duplicate set.
const DefaultNameThreshold = 0.8

// DuplicateSet is an ephemeral detection result. It is recomputed on every
// pass and never persisted.
type DuplicateSet struct {
	Type       DuplicateType    `json:"type"`
	Contacts   []*types.Contact `json:"contacts"`
	Similarity float64          `json:"similarity"`
}

// DetectExactPhoneDuplicates groups contacts by normalized phone. Every group
// with two or more members becomes one duplicate set with similarity 1.0.
func DetectExactPhoneDuplicates(contacts []*types.Contact) []DuplicateSet {
	byPhone := make(map[string][]*types.Contact)
	order := make([]string, 0)
	for _, c := range contacts {
		phone := NormalizePhone(c.Phone)
		if phone == "" {
			continue
		}
		if _, seen := byPhone[phone]; !seen {
			order = append(order, phone)
		}
		byPhone[phone] = append(byPhone[phone], c)
	}

	var sets []DuplicateSet
	for _, phone := range order {
		group := byPhone[phone]
		if len(group) < 2 {
			continue
		}
		sets = append(sets, DuplicateSet{
			Type:       DuplicateTypeExactPhone,
			Contacts:   group,
			Similarity: 1.0,
		})
	}
	return sets
}

// DetectSimilarPhoneDuplicates is reserved for format-tolerant phone matching.
// It currently applies the exact-phone strategy under the similar_phone label.
func DetectSimilarPhoneDuplicates(contacts []*types.Contact) []DuplicateSet {
	sets := DetectExactPhoneDuplicates(contacts)
	for i := range sets {
		sets[i].Type = DuplicateTypeSimilarPhone
	}
	return sets
}

// DetectSimilarNameDuplicates clusters contacts whose names score at or above
// threshold against a seed contact. This is single-link-from-seed clustering:
// each unprocessed contact seeds a set and later unprocessed contacts join if
// they are similar to the seed, not to each other. Members of a 3+ set are
// therefore not guaranteed pairwise similar; chains of near-threshold names
// land in the seed's set. A contact joins at most one set per pass.
func DetectSimilarNameDuplicates(contacts []*types.Contact, threshold float64) []DuplicateSet {
	if threshold <= 0 {
		threshold = DefaultNameThreshold
	}

	candidates := make([]*types.Contact, 0, len(contacts))
	for _, c := range contacts {
		// Rune count, not bytes, so short multi-byte names stay excluded.
		if utf8.RuneCountInString(strings.TrimSpace(c.Name)) > 2 {
			candidates = append(candidates, c)
		}
	}

	processed := make(map[int]bool, len(candidates))
	var sets []DuplicateSet
	for i, seed := range candidates {
		if processed[i] {
			continue
		}
		members := []*types.Contact{seed}
		for j := i + 1; j < len(candidates); j++ {
			if processed[j] {
				continue
			}
			if NameSimilarity(seed.Name, candidates[j].Name) >= threshold {
				members = append(members, candidates[j])
				processed[j] = true
			}
		}
		if len(members) < 2 {
			continue
		}
		processed[i] = true
		sets = append(sets, DuplicateSet{
			Type:       DuplicateTypeSimilarName,
			Contacts:   members,
			Similarity: setSimilarity(members),
		})
	}
	return sets
}

// setSimilarity is the pairwise score for a 2-member set and the average over
// all pairwise comparisons for larger sets.
func setSimilarity(members []*types.Contact) float64 {
	if len(members) == 2 {
		return NameSimilarity(members[0].Name, members[1].Name)
	}
	var total float64
	var pairs int
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += NameSimilarity(members[i].Name, members[j].Name)
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}
