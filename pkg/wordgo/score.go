package wordgo

import (
	"context"
	"math"
)

// Method selects how a group's word similarities are aggregated into one
// score.
type Method int

const (
	// MethodCentroid averages each member's similarity to the group's
	// mean direction. The default.
	MethodCentroid Method = iota
	// MethodPairwise averages the similarity of every unordered pair.
	// More sensitive to outliers.
	MethodPairwise
)

// Transform is a contrast curve applied to each raw cosine value exactly
// once, before aggregation. Cosine similarity compresses near 1.0; the
// transforms spread that region back out so score differences stay
// legible in play.
type Transform func(float64) float64

// TransformNone is the identity.
func TransformNone(cos float64) float64 { return cos }

// TransformAngular remaps cosine to 1 - acos(c)/pi, stretching the
// high-similarity end over [0,1].
func TransformAngular(cos float64) float64 {
	c := clamp(cos, -1, 1)
	return 1 - math.Acos(c)/math.Pi
}

// TransformGamma clamps negative similarity to zero and raises the rest
// to the power g, exaggerating separation among positive similarities.
func TransformGamma(g float64) Transform {
	return func(cos float64) float64 {
		if cos < 0 {
			cos = 0
		}
		return math.Pow(cos, g)
	}
}

// TransformAffine is the linear remap a*cos + b.
func TransformAffine(a, b float64) Transform {
	return func(cos float64) float64 {
		return a*cos + b
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Scorer prices word groups through a similarity oracle. A nil Oracle is
// allowed and behaves like a permanently unavailable one: scoring falls
// back to exact string matching instead of failing.
type Scorer struct {
	Oracle    SimilarityOracle
	Method    Method
	Transform Transform
}

func NewScorer(oracle SimilarityOracle) *Scorer {
	return &Scorer{
		Oracle:    oracle,
		Method:    MethodCentroid,
		Transform: TransformAngular,
	}
}

func (s *Scorer) transform(cos float64) float64 {
	if s.Transform == nil {
		return TransformAngular(cos)
	}
	return s.Transform(cos)
}

// ScoreGroup scores one group of words. It never returns an error: when
// the oracle is unavailable the deterministic exact-match fallback is
// used, because scoring must not be able to abort a move.
func (s *Scorer) ScoreGroup(ctx context.Context, words []string) float64 {
	switch len(words) {
	case 0:
		return 0
	case 1:
		// A lone word is perfectly similar to itself.
		return s.transform(1)
	}

	if s.Oracle == nil {
		return s.fallbackScore(words)
	}
	vectors, err := s.Oracle.Embed(ctx, words)
	if err != nil {
		return s.fallbackScore(words)
	}

	if s.Method == MethodPairwise {
		return s.pairwiseScore(vectors)
	}
	return s.centroidScore(vectors)
}

// centroidScore normalizes every vector, averages them into a centroid
// direction, and returns the mean transformed similarity of each member
// to that centroid.
func (s *Scorer) centroidScore(vectors []Vector) float64 {
	dim := 0
	for _, v := range vectors {
		if len(v) > dim {
			dim = len(v)
		}
	}
	if dim == 0 {
		return 0
	}

	normalized := make([]Vector, len(vectors))
	centroid := make(Vector, dim)
	for i, v := range vectors {
		n := v.Normalized()
		normalized[i] = n
		for j, x := range n {
			centroid[j] += x
		}
	}
	centroid = centroid.Normalized()

	sum := 0.0
	for _, v := range normalized {
		sum += s.transform(Cosine(v, centroid))
	}
	return sum / float64(len(vectors))
}

// pairwiseScore returns the mean transformed similarity over all
// unordered pairs.
func (s *Scorer) pairwiseScore(vectors []Vector) float64 {
	sum, pairs := 0.0, 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sum += s.transform(Cosine(vectors[i], vectors[j]))
			pairs++
		}
	}
	if pairs == 0 {
		return s.transform(1)
	}
	return sum / float64(pairs)
}

// fallbackScore is the oracle-free degradation: each pair's similarity
// is 1.0 when the words match exactly (case-insensitive placement rules
// make matches rare) and 0.0 otherwise, fed through the same transform
// and pairwise mean.
func (s *Scorer) fallbackScore(words []string) float64 {
	sum, pairs := 0.0, 0
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			cos := 0.0
			if words[i] == words[j] {
				cos = 1.0
			}
			sum += s.transform(cos)
			pairs++
		}
	}
	if pairs == 0 {
		return s.transform(1)
	}
	return sum / float64(pairs)
}

// BoardScores computes every owner's total: the sum over that owner's
// groups of len(group) * ScoreGroup(words).
func (s *Scorer) BoardScores(ctx context.Context, b *Board) map[PlayerID]float64 {
	scores := make(map[PlayerID]float64)
	for _, owner := range b.Owners() {
		total := 0.0
		for _, group := range b.GroupsFor(owner) {
			total += float64(len(group)) * s.ScoreGroup(ctx, group.Words())
		}
		scores[owner] = total
	}
	return scores
}
