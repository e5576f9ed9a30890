package token

import (
	"strings"
	"testing"
)

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	g := NewGenerator()
	tok := string(g.Generate())
	if len(tok) != Length {
		t.Fatalf("token length = %d, want %d", len(tok), Length)
	}
	for _, c := range tok {
		if !strings.ContainsRune(alphabet, c) {
			t.Fatalf("token contains %q outside the alphanumeric alphabet", c)
		}
	}
}

func TestGenerate_NoCollisions(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		tok := string(g.Generate())
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d generations: %s", i, tok)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerate_CoversAlphabet(t *testing.T) {
	// With 100 tokens of 25 chars, every one of the 62 symbols should
	// appear; a missing symbol would indicate a sampling bug.
	g := NewGenerator()
	counts := make(map[rune]int)
	for i := 0; i < 100; i++ {
		for _, c := range string(g.Generate()) {
			counts[c]++
		}
	}
	for _, c := range alphabet {
		if counts[c] == 0 {
			t.Errorf("symbol %q never generated across 2500 characters", c)
		}
	}
}
