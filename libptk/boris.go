package libptk

import (
	"math"

	"github.com/2x3systems/ptk/ptk"
)

// BorisStep is a single Boris velocity push: a half electric kick, a magnetic rotation, then a second half electric kick.
//
// gamma is the Lorentz factor applied to the step (1 for the non-relativistic push).
func BorisStep(qOverM, dt float64, v, E, B ptk.Vec3, gamma float64) ptk.Vec3 {
	halfKick := E.Scale(qOverM * dt * 0.5 / gamma)

	vMinus := v.Add(halfKick)

	t := B.Scale(qOverM * dt * 0.5 / gamma)
	vPrime := vMinus.Add(vMinus.Cross(t))
	s := t.Scale(2.0 / (1.0 + t.Dot(t)))
	vPlus := vMinus.Add(vPrime.Cross(s))

	return vPlus.Add(halfKick)
}

// LorentzGamma returns 1/sqrt(1 - |v|^2/c^2), with the radicand floored at 1e-12.
func LorentzGamma(v ptk.Vec3, c float64) float64 {
	return 1.0 / math.Sqrt(math.Max(1.0-v.Dot(v)/(c*c), 1e-12))
}

// FieldFunc returns a field vector at time t and position x.
type FieldFunc func(t float64, x ptk.Vec3) ptk.Vec3

// BorisOpts specifies a Boris trajectory integration.
type BorisOpts struct {
	Charge       float64
	Mass         float64 // floored at 1e-12
	E            FieldFunc
	B            FieldFunc
	X0           ptk.Vec3
	V0           ptk.Vec3
	Dt           float64
	Steps        int
	Relativistic bool    // if set, gamma is taken from v at the start of each step
	C            float64 // speed of light; 0 denotes 1 (natural units)
}

// IntegrateBoris advances a particle opts.Steps times, updating position from the pushed velocity (leapfrog),
// and returns the position and velocity after each step.
func IntegrateBoris(opts BorisOpts) (xs, vs []ptk.Vec3) {
	c := opts.C
	if c == 0 {
		c = 1.0
	}
	qOverM := opts.Charge / math.Max(opts.Mass, 1e-12)

	xs = make([]ptk.Vec3, 0, opts.Steps)
	vs = make([]ptk.Vec3, 0, opts.Steps)

	x, v := opts.X0, opts.V0
	t := 0.0
	for i := 0; i < opts.Steps; i++ {
		var E, B ptk.Vec3
		if opts.E != nil {
			E = opts.E(t, x)
		}
		if opts.B != nil {
			B = opts.B(t, x)
		}

		gamma := 1.0
		if opts.Relativistic {
			gamma = LorentzGamma(v, c)
		}

		v = BorisStep(qOverM, opts.Dt, v, E, B, gamma)
		x = x.Add(v.Scale(opts.Dt))

		xs = append(xs, x)
		vs = append(vs, v)
		t += opts.Dt
	}
	return xs, vs
}
