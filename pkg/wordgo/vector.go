package wordgo

import "math"

// Vector is a word embedding as returned by the similarity oracle.
type Vector []float64

const degenerateNorm = 1e-9

func (v Vector) Dot(o Vector) float64 {
	n := len(v)
	if len(o) < n {
		n = len(o)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += v[i] * o[i]
	}
	return sum
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns the unit vector in v's direction, or a zero vector
// when v has negligible norm.
func (v Vector) Normalized() Vector {
	norm := v.Norm()
	out := make(Vector, len(v))
	if norm < degenerateNorm {
		return out
	}
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func (v Vector) Scale(f float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x * f
	}
	return out
}

// Cosine returns the cosine similarity of two vectors, 0 when either has
// negligible norm.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na < degenerateNorm || nb < degenerateNorm {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// maxTargetCosine keeps the synthetic-target geometry away from the
// degenerate parallel/antiparallel cases.
const maxTargetCosine = 0.999999

// TargetEmbedding builds a vector whose cosine similarity with base is
// exactly s (clamped to ±0.999999). An auxiliary direction orthogonal to
// base is derived by rotating base's components one position and
// projecting out the component along base; when the rotation happens to
// be colinear with base, an all-ones vector is projected instead. The
// result is rescaled to base's norm.
func TargetEmbedding(base Vector, s float64) Vector {
	if s > maxTargetCosine {
		s = maxTargetCosine
	}
	if s < -maxTargetCosine {
		s = -maxTargetCosine
	}

	unit := base.Normalized()
	if unit.Norm() < degenerateNorm {
		return make(Vector, len(base))
	}

	aux := orthogonalTo(unit, rotated(unit))
	if aux.Norm() < degenerateNorm {
		ones := make(Vector, len(unit))
		for i := range ones {
			ones[i] = 1
		}
		aux = orthogonalTo(unit, ones)
	}
	if aux.Norm() < degenerateNorm {
		// Dimension too low to hold an orthogonal direction.
		return unit.Scale(base.Norm())
	}
	aux = aux.Normalized()

	sin := math.Sqrt(1 - s*s)
	target := make(Vector, len(unit))
	for i := range target {
		target[i] = s*unit[i] + sin*aux[i]
	}
	return target.Scale(base.Norm())
}

// rotated shifts the components of v by one position.
func rotated(v Vector) Vector {
	n := len(v)
	out := make(Vector, n)
	for i := 0; i < n; i++ {
		out[i] = v[(i+1)%n]
	}
	return out
}

// orthogonalTo removes from v its component along unit (assumed to be
// unit-length).
func orthogonalTo(unit, v Vector) Vector {
	proj := v.Dot(unit)
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - proj*unit[i]
	}
	return out
}
