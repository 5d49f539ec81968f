package identity

import (
	"math"
	"testing"
)

func TestNameSimilarityExact(t *testing.T) {
	if got := NameSimilarity("acme", "acme"); got != 1.0 {
		t.Fatalf("similarity(acme, acme) = %v, want 1.0", got)
	}
	if got := NameSimilarity("ACME", "acme"); got != 1.0 {
		t.Fatalf("similarity is not case-insensitive: %v", got)
	}
	if got := NameSimilarity("  acme  ", "acme"); got != 1.0 {
		t.Fatalf("similarity does not trim: %v", got)
	}
}

func TestNameSimilarityEmpty(t *testing.T) {
	if got := NameSimilarity("", "x"); got != 0 {
		t.Fatalf("similarity(\"\", x) = %v, want 0", got)
	}
	if got := NameSimilarity("x", ""); got != 0 {
		t.Fatalf("similarity(x, \"\") = %v, want 0", got)
	}
	if got := NameSimilarity("   ", "x"); got != 0 {
		t.Fatalf("similarity(blank, x) = %v, want 0", got)
	}
}

func TestNameSimilarityMartha(t *testing.T) {
	got := NameSimilarity("MARTHA", "MARHTA")
	if math.Abs(got-0.9611) > 0.001 {
		t.Fatalf("similarity(MARTHA, MARHTA) = %v, want ~0.961", got)
	}
}

func TestNameSimilarityDisjoint(t *testing.T) {
	if got := NameSimilarity("abc", "xyz"); got != 0 {
		t.Fatalf("similarity(abc, xyz) = %v, want 0", got)
	}
	// Two single-rune strings have a negative match window.
	if got := NameSimilarity("a", "b"); got != 0 {
		t.Fatalf("similarity(a, b) = %v, want 0", got)
	}
}

func TestNameSimilarityBounded(t *testing.T) {
	pairs := [][2]string{
		{"DWAYNE", "DUANE"},
		{"DIXON", "DICKSONX"},
		{"Maria Silva", "Maria S"},
		{"João", "Joao"},
	}
	for _, p := range pairs {
		got := NameSimilarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Fatalf("similarity(%q, %q) = %v out of [0,1]", p[0], p[1], got)
		}
	}
}
