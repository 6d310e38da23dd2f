package libptk

import "math"

// MinRadius is the smallest |r| the 1/r potentials divide by.
const MinRadius = 1e-9

// clampRadius keeps the sign of r (zero counts as positive).
func clampRadius(r float64) float64 {
	if math.Abs(r) >= MinRadius {
		return r
	}
	if r < 0 {
		return -MinRadius
	}
	return MinRadius
}

// Coulomb returns alpha / r, with |r| clamped to MinRadius.
func Coulomb(r, alpha float64) float64 {
	r = clampRadius(r)
	return alpha / r
}

// Yukawa returns g^2 exp(-m r) / r, with |r| clamped to MinRadius.
func Yukawa(r, g, m float64) float64 {
	r = clampRadius(r)
	return (g * g) * math.Exp(-m*r) / r
}

// StringLinear is the linear confinement potential kappa r + c.
func StringLinear(r, kappa, c float64) float64 {
	return kappa*r + c
}
