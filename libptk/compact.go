package libptk

// KKWindingMass2 returns the Kaluza-Klein plus winding contribution to mass-squared on a 2-torus with radii r1, r2:
//
//	(m1/r1)^2 + (m2/r2)^2 + (w1 r1/α')^2 + (w2 r2/α')^2
//
// It depends only on squares of the quantum numbers, so it is even in each of m1, m2, w1, w2.
func KKWindingMass2(m1, m2, w1, w2 int32, r1, r2, alphaPrime float64) float64 {
	kk := sq(float64(m1)/r1) + sq(float64(m2)/r2)
	wind := sq(float64(w1)*r1/alphaPrime) + sq(float64(w2)*r2/alphaPrime)
	return kk + wind
}

// ChargeLinearMap is the linear charge map c1 m1 + c2 m2 + d1 w1 + d2 w2.
func ChargeLinearMap(m1, m2, w1, w2 int32, c1, c2, d1, d2 float64) float64 {
	return c1*float64(m1) + c2*float64(m2) + d1*float64(w1) + d2*float64(w2)
}

func sq(x float64) float64 {
	return x * x
}
