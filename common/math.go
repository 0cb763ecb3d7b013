package common

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Ratio returns v/max clamped to [0, 1]. A non-positive max yields 1.
func Ratio(v, max float32) float32 {
	if max <= 0 {
		return 1
	}
	r := v / max
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
