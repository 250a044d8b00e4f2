package wordgo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStaticVocabularyPlaceholder(t *testing.T) {
	var empty StaticVocabulary
	words := empty.AllWords()
	if len(words) != 1 || words[0] != PlaceholderWord {
		t.Fatalf("AllWords = %v, want [%q]", words, PlaceholderWord)
	}
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "cat\n\n  dog  \nCat\nbird\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}
	// Blanks dropped, whitespace trimmed, duplicates collapsed
	// case-insensitively keeping the first spelling.
	want := []string{"cat", "dog", "bird"}
	got := vocab.AllWords()
	if len(got) != len(want) {
		t.Fatalf("AllWords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllWords[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestSwapVocabulary(t *testing.T) {
	fired := 0
	v := NewSwapVocabulary(StaticVocabulary{"cat", "dog"}, func() { fired++ })

	if got := v.AllWords(); len(got) != 2 {
		t.Fatalf("initial AllWords = %v", got)
	}

	v.Swap([]string{"red", "blue", "RED"})
	if fired != 1 {
		t.Fatalf("onSwap fired %d times, want 1", fired)
	}
	got := v.AllWords()
	if len(got) != 2 || got[0] != "red" || got[1] != "blue" {
		t.Fatalf("AllWords after swap = %v, want [red blue]", got)
	}

	// Swapping in nothing leaves the placeholder behavior intact.
	v.Swap(nil)
	if got := v.AllWords(); len(got) != 1 || got[0] != PlaceholderWord {
		t.Fatalf("AllWords after empty swap = %v, want [%q]", got, PlaceholderWord)
	}
}

func TestDefaultVocabularyIsClean(t *testing.T) {
	seen := map[string]bool{}
	for _, word := range DefaultVocabulary().AllWords() {
		lower := strings.ToLower(word)
		if word == "" || word != strings.TrimSpace(word) {
			t.Fatalf("malformed word %q", word)
		}
		if seen[lower] {
			t.Fatalf("duplicate word %q", word)
		}
		seen[lower] = true
	}
}
