package identity

import (
	"testing"

	"github.com/google/uuid"
	types "github.com/talkbase/talkbase-backend/internal/domain"
)

func contact(name, phone string) *types.Contact {
	return &types.Contact{ID: uuid.New(), Name: name, Phone: phone}
}

func TestDetectExactPhoneDuplicates(t *testing.T) {
	a := contact("A", "+55 11 98888-0001")
	b := contact("B", "5511988880001")
	c := contact("C", "11999990002")

	sets := DetectExactPhoneDuplicates([]*types.Contact{a, b, c})
	if len(sets) != 1 {
		t.Fatalf("expected 1 duplicate set, got %d", len(sets))
	}
	set := sets[0]
	if set.Type != DuplicateTypeExactPhone {
		t.Fatalf("unexpected type %q", set.Type)
	}
	if set.Similarity != 1.0 {
		t.Fatalf("exact-phone similarity = %v, want 1.0", set.Similarity)
	}
	if len(set.Contacts) != 2 {
		t.Fatalf("expected 2 members, got %d", len(set.Contacts))
	}
	for _, m := range set.Contacts {
		if m.ID == c.ID {
			t.Fatalf("contact with a distinct phone was grouped")
		}
	}
}

func TestDetectExactPhoneSkipsEmpty(t *testing.T) {
	sets := DetectExactPhoneDuplicates([]*types.Contact{
		contact("A", ""),
		contact("B", ""),
		contact("C", "no digits"),
	})
	if len(sets) != 0 {
		t.Fatalf("contacts without a normalizable phone must not group, got %d sets", len(sets))
	}
}

func TestDetectSimilarPhoneDuplicatesAlias(t *testing.T) {
	sets := DetectSimilarPhoneDuplicates([]*types.Contact{
		contact("A", "5511988880001"),
		contact("B", "55 11 98888-0001"),
	})
	if len(sets) != 1 || sets[0].Type != DuplicateTypeSimilarPhone {
		t.Fatalf("similar-phone alias did not relabel exact-phone result: %+v", sets)
	}
}

func TestDetectSimilarNameDuplicates(t *testing.T) {
	a := contact("Martha Jones", "1")
	b := contact("Marhta Jones", "2")
	c := contact("Zbigniew", "3")

	sets := DetectSimilarNameDuplicates([]*types.Contact{a, b, c}, DefaultNameThreshold)
	if len(sets) != 1 {
		t.Fatalf("expected 1 similar-name set, got %d", len(sets))
	}
	set := sets[0]
	if set.Type != DuplicateTypeSimilarName {
		t.Fatalf("unexpected type %q", set.Type)
	}
	if len(set.Contacts) != 2 {
		t.Fatalf("expected 2 members, got %d", len(set.Contacts))
	}
	want := NameSimilarity(a.Name, b.Name)
	if set.Similarity != want {
		t.Fatalf("2-member set similarity = %v, want pairwise %v", set.Similarity, want)
	}
}

func TestDetectSimilarNameIgnoresShortNames(t *testing.T) {
	sets := DetectSimilarNameDuplicates([]*types.Contact{
		contact("Jo", "1"),
		contact("Jo", "2"),
		contact("  ab  ", "3"),
	}, DefaultNameThreshold)
	if len(sets) != 0 {
		t.Fatalf("names of length <= 2 must be excluded, got %d sets", len(sets))
	}
}

func TestDetectSimilarNameShortNameGateCountsRunes(t *testing.T) {
	// Two identical 2-rune names are 6 bytes each; the gate must still
	// exclude them.
	sets := DetectSimilarNameDuplicates([]*types.Contact{
		contact("李明", "1"),
		contact("李明", "2"),
		contact("李明亮", "3"),
		contact("李明亮", "4"),
	}, DefaultNameThreshold)
	if len(sets) != 1 {
		t.Fatalf("expected only the 3-rune names to cluster, got %d sets", len(sets))
	}
	if len(sets[0].Contacts) != 2 {
		t.Fatalf("expected 2 members, got %d", len(sets[0].Contacts))
	}
	for _, c := range sets[0].Contacts {
		if c.Name != "李明亮" {
			t.Fatalf("2-rune name %q leaked past the gate", c.Name)
		}
	}
}

// Seed clustering is single-link: members join if similar to the seed, and a
// contact lands in at most one set per pass.
func TestDetectSimilarNameSeedClustering(t *testing.T) {
	a := contact("Jonathan Smith", "1")
	b := contact("Jonathan Smth", "2")
	c := contact("Jonathan Smithe", "3")
	d := contact("Unrelated Person", "4")

	sets := DetectSimilarNameDuplicates([]*types.Contact{a, b, c, d}, DefaultNameThreshold)
	if len(sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(sets))
	}
	set := sets[0]
	if len(set.Contacts) != 3 {
		t.Fatalf("expected seed set of 3, got %d", len(set.Contacts))
	}

	seen := make(map[uuid.UUID]int)
	for _, s := range sets {
		for _, m := range s.Contacts {
			seen[m.ID]++
		}
	}
	for id, n := range seen {
		if n > 1 {
			t.Fatalf("contact %s assigned to %d clusters in one pass", id, n)
		}
	}

	// 3+ member sets carry the average over all pairwise scores.
	want := (NameSimilarity(a.Name, b.Name) + NameSimilarity(a.Name, c.Name) + NameSimilarity(b.Name, c.Name)) / 3
	if set.Similarity != want {
		t.Fatalf("3-member set similarity = %v, want average %v", set.Similarity, want)
	}
}
