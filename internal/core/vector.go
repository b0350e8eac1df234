package core

import "math"

// CosineSimilarity computes dot-product-over-norms for two vectors.  It is
// defined as 0 when the vectors differ in length or either has zero norm,
// which keeps ranking total without a division-by-zero branch in callers.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
