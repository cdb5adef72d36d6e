package math

import "math"

// Lerp blends a toward b: t = 0.2 takes 80% of a and 20% of b.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
