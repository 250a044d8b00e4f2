package wordgo

import (
	"fmt"
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{"identical", Vector{1, 2, 3}, Vector{1, 2, 3}, 1},
		{"opposite", Vector{1, 0}, Vector{-1, 0}, -1},
		{"orthogonal", Vector{1, 0}, Vector{0, 1}, 0},
		{"scale invariant", Vector{1, 1}, Vector{10, 10}, 1},
		{"zero vector", Vector{0, 0}, Vector{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestTargetEmbeddingRoundTrip checks the §-free contract: the cosine
// similarity between the base word's embedding and the synthetic target
// equals the requested s, and the target keeps the base's norm.
func TestTargetEmbeddingRoundTrip(t *testing.T) {
	base := Vector{0.3, -1.2, 2.5, 0.7}
	for _, s := range []float64{-0.9, -0.5, 0, 0.3, 0.6, 0.85, 0.99} {
		t.Run(fmt.Sprintf("s=%v", s), func(t *testing.T) {
			target := TargetEmbedding(base, s)
			if got := Cosine(base, target); math.Abs(got-s) > 1e-9 {
				t.Fatalf("Cosine(base, target) = %v, want %v", got, s)
			}
			if math.Abs(target.Norm()-base.Norm()) > 1e-9 {
				t.Fatalf("target norm = %v, want %v", target.Norm(), base.Norm())
			}
		})
	}
}

func TestTargetEmbeddingClampsExtremes(t *testing.T) {
	base := Vector{1, 2, 3}
	for _, s := range []float64{1, 1.5, -1} {
		target := TargetEmbedding(base, s)
		cos := Cosine(base, target)
		if math.IsNaN(cos) {
			t.Fatalf("s=%v produced NaN cosine", s)
		}
		if math.Abs(cos) > 1 {
			t.Fatalf("s=%v produced out-of-range cosine %v", s, cos)
		}
	}
}

// The colinear-rotation edge: a base whose one-position rotation equals
// itself must fall back to the projected all-ones direction or, failing
// that, stay finite.
func TestTargetEmbeddingDegenerateBases(t *testing.T) {
	tests := []struct {
		name string
		base Vector
	}{
		{"uniform components", Vector{1, 1, 1}},
		{"two dims uniform", Vector{2, 2}},
		{"zero vector", Vector{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := TargetEmbedding(tt.base, 0.5)
			for _, x := range target {
				if math.IsNaN(x) || math.IsInf(x, 0) {
					t.Fatalf("target has non-finite component: %v", target)
				}
			}
		})
	}
}

func TestNormalized(t *testing.T) {
	v := Vector{3, 4}
	n := v.Normalized()
	if math.Abs(n.Norm()-1) > 1e-12 {
		t.Fatalf("normalized norm = %v, want 1", n.Norm())
	}
	zero := Vector{0, 0}.Normalized()
	if zero.Norm() != 0 {
		t.Fatal("normalizing a zero vector should stay zero")
	}
}
