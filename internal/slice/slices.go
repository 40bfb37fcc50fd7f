package slice

// Map returns a new slice holding fn applied to every element of s.
func Map[In, Out any](s []In, fn func(In) Out) []Out {
	out := make([]Out, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// NoZero returns the elements of s that are not the zero value of E.
func NoZero[E comparable](s []E) []E {
	var zero E
	out := make([]E, 0, len(s))
	for _, v := range s {
		if v != zero {
			out = append(out, v)
		}
	}
	return out
}
