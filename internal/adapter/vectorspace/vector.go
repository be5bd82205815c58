package vectorspace

import "math"

// Vector is a sparse term-weight vector. Indices are strictly increasing
// positions in the space's vocabulary.
type Vector struct {
	Indices []int
	Values  []float64
}

// NNZ returns the number of stored entries.
func (v Vector) NNZ() int {
	return len(v.Indices)
}

// Norm returns the L2 norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot computes the inner product by merging the two sorted index lists.
func Dot(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Cosine returns dot(a,b)/(|a||b|), or 0 when either vector has zero norm.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	sim := Dot(a, b) / (na * nb)
	// rounding can push identical unit vectors slightly past 1
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}

func (v Vector) scale(f float64) {
	for i := range v.Values {
		v.Values[i] *= f
	}
}
