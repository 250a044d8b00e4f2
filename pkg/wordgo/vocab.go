package wordgo

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// PlaceholderWord is served when a vocabulary turns out to be empty, so
// random word selection always has something to hand out.
const PlaceholderWord = "word"

// Vocabulary provides the pool of words players and the bot draw from.
type Vocabulary interface {
	AllWords() []string
}

// StaticVocabulary is a fixed in-memory word list.
type StaticVocabulary []string

func (v StaticVocabulary) AllWords() []string {
	if len(v) == 0 {
		return []string{PlaceholderWord}
	}
	return v
}

// LoadVocabulary reads one word per line, skipping blanks and
// deduplicating case-insensitively.
func LoadVocabulary(path string) (StaticVocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		word := strings.TrimSpace(sc.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	words = lo.UniqBy(words, strings.ToLower)
	return StaticVocabulary(words), nil
}

// DefaultVocabulary is the built-in word list used when no file is
// configured. Loosely clustered by theme so that group scores have some
// spread to work with.
func DefaultVocabulary() StaticVocabulary {
	return StaticVocabulary{
		"cat", "dog", "bird", "fish", "horse", "sheep", "mouse", "wolf",
		"tiger", "lion", "bear", "snake", "eagle", "shark", "whale",
		"apple", "bread", "cheese", "grape", "lemon", "melon", "olive",
		"pasta", "peach", "plum", "rice", "salad", "soup", "steak",
		"river", "ocean", "mountain", "forest", "desert", "island",
		"valley", "meadow", "glacier", "volcano", "canyon", "cliff",
		"house", "castle", "bridge", "tower", "temple", "cabin",
		"music", "dance", "paint", "novel", "poem", "sculpture",
		"engine", "wheel", "rocket", "sail", "anchor", "compass",
	}
}

// SwapVocabulary wraps another word list and allows replacing it at
// runtime. An optional hook runs after each swap; the server wires it to
// CachedOracle.Invalidate so stale vectors never outlive the list that
// produced them.
type SwapVocabulary struct {
	mu     sync.RWMutex
	words  []string
	onSwap func()
}

func NewSwapVocabulary(initial Vocabulary, onSwap func()) *SwapVocabulary {
	v := &SwapVocabulary{onSwap: onSwap}
	if initial != nil {
		v.words = initial.AllWords()
	}
	return v
}

func (v *SwapVocabulary) AllWords() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if len(v.words) == 0 {
		return []string{PlaceholderWord}
	}
	return v.words
}

// Swap replaces the word list wholesale and fires the invalidation hook.
func (v *SwapVocabulary) Swap(words []string) {
	v.mu.Lock()
	v.words = lo.UniqBy(words, strings.ToLower)
	v.mu.Unlock()
	if v.onSwap != nil {
		v.onSwap()
	}
}
