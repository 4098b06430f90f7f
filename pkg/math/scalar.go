package math

// MapRange maps s from the range [a1, a2] onto [b1, b2].
// Values outside [a1, a2] extrapolate; a1 must differ from a2.
func MapRange(a1, a2, b1, b2, s float32) float32 {
	return b1 + (s-a1)*(b2-b1)/(a2-a1)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}
