package libptk

import (
	"math"
	"testing"

	"github.com/2x3systems/ptk/ptk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecInDelta(t *testing.T, want, got ptk.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestBorisRotation(t *testing.T) {
	const dt = 0.1
	v := BorisStep(1, dt, ptk.Vec3{1, 0, 0}, ptk.Vec3{}, ptk.Vec3{0, 0, 1}, 1)

	// v x B points along -y, and the Boris rotation angle is 2 atan(dt/2)
	theta := 2 * math.Atan(dt/2)
	assertVecInDelta(t, ptk.Vec3{math.Cos(theta), -math.Sin(theta), 0}, v, 1e-14)
}

func TestBorisElectricKick(t *testing.T) {
	E := ptk.Vec3{0.5, -1, 2}
	v0 := ptk.Vec3{0.1, 0.2, 0.3}

	v := BorisStep(2, 0.01, v0, E, ptk.Vec3{}, 1)
	assertVecInDelta(t, v0.Add(E.Scale(2*0.01)), v, 1e-15)

	// gamma scales the kick down
	v = BorisStep(2, 0.01, v0, E, ptk.Vec3{}, 4)
	assertVecInDelta(t, v0.Add(E.Scale(2*0.01/4)), v, 1e-15)
}

func TestBorisEnergyConservation(t *testing.T) {
	B := func(t float64, x ptk.Vec3) ptk.Vec3 { return ptk.Vec3{0.3, -0.2, 1.1} }
	v0 := ptk.Vec3{0.4, 0.1, -0.2}

	xs, vs := IntegrateBoris(BorisOpts{
		Charge: -1,
		Mass:   0.5,
		B:      B,
		V0:     v0,
		Dt:     0.05,
		Steps:  2000,
	})
	require.Len(t, xs, 2000)
	require.Len(t, vs, 2000)

	speed := v0.Norm()
	for _, v := range vs {
		assert.InDelta(t, speed, v.Norm(), 1e-12)
	}
}

func TestBorisLeapfrogPosition(t *testing.T) {
	E := func(t float64, x ptk.Vec3) ptk.Vec3 { return ptk.Vec3{1, 0, 0} }

	xs, vs := IntegrateBoris(BorisOpts{
		Charge: 1,
		Mass:   1,
		E:      E,
		Dt:     0.5,
		Steps:  3,
	})

	// v_n = n dt, x_n = x_{n-1} + v_n dt
	assertVecInDelta(t, ptk.Vec3{0.5, 0, 0}, vs[0], 1e-15)
	assertVecInDelta(t, ptk.Vec3{1.5, 0, 0}, vs[2], 1e-15)
	assertVecInDelta(t, ptk.Vec3{0.25, 0, 0}, xs[0], 1e-15)
	assertVecInDelta(t, ptk.Vec3{0.25 + 0.5 + 0.75, 0, 0}, xs[2], 1e-15)
}

func TestBorisRelativisticStaysSubluminal(t *testing.T) {
	E := func(t float64, x ptk.Vec3) ptk.Vec3 { return ptk.Vec3{0, 0, 5} }

	_, vs := IntegrateBoris(BorisOpts{
		Charge:       1,
		Mass:         1,
		E:            E,
		V0:           ptk.Vec3{0, 0, 0.5},
		Dt:           0.001,
		Steps:        50,
		Relativistic: true,
	})
	last := vs[len(vs)-1]
	assert.Greater(t, last[2], 0.5)
	assert.Less(t, last[2], 1.0)
}

func TestLorentzGamma(t *testing.T) {
	assert.Equal(t, 1.0, LorentzGamma(ptk.Vec3{}, 1))
	assert.InDelta(t, 1/math.Sqrt(1-0.36), LorentzGamma(ptk.Vec3{0.6, 0, 0}, 1), 1e-12)
	assert.InDelta(t, 1e6, LorentzGamma(ptk.Vec3{2, 0, 0}, 1), 1e-6)
}
