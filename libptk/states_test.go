package libptk

import (
	"context"
	"math"
	"testing"

	"github.com/2x3systems/ptk/ptk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateDefaultScenario(t *testing.T) {
	p := ptk.DefaultParams()
	states := EnumerateStates(&p, ptk.SpanOf[uint32](0, 1), ptk.SpanOf[int32](-1, 1), ptk.SpanOf[int32](0, 0))

	// level 0: only (m1, m2) with m2 != 0 survive; level 1: all 9 survive
	require.Len(t, states, 6+9)

	found := false
	for _, s := range states {
		assert.False(t, math.IsNaN(s.Mass))
		assert.GreaterOrEqual(t, s.Mass, 0.0)

		m2 := Mass2Open(s.Level, &p) + KKWindingMass2(s.M1, s.M2, s.W1, s.W2, p.R1, p.R2, p.AlphaPrime)
		assert.GreaterOrEqual(t, m2, 0.0)
		assert.InDelta(t, math.Sqrt(m2), s.Mass, 1e-12)

		if s.Level == 1 && s.M1 == 0 && s.M2 == 0 && s.W1 == 0 && s.W2 == 0 {
			found = true
			assert.Equal(t, 0.0, s.Mass)
			assert.Equal(t, 0.0, s.Q)
		}
	}
	assert.True(t, found, "massless level 1 state missing")

	// positional: level 0 contributes 6 states, then level 1 runs m1=-1 (3), m1=0,m2=-1, m1=0,m2=0
	assert.Equal(t, ptk.StateSpec{Level: 1}, states[10])
}

func TestEnumerateOrdering(t *testing.T) {
	p := ptk.DefaultParams()
	p.AOpen = -5 // nothing is tachyonic

	levels := ptk.SpanOf[uint32](0, 2)
	m := ptk.SpanOf[int32](-1, 1)
	w := ptk.SpanOf[int32](-1, 0)
	states := EnumerateStates(&p, levels, m, w)
	require.Len(t, states, 3*3*3*2*2)

	i := 0
	for level := uint32(0); level <= 2; level++ {
		for m1 := int32(-1); m1 <= 1; m1++ {
			for m2 := int32(-1); m2 <= 1; m2++ {
				for w1 := int32(-1); w1 <= 0; w1++ {
					for w2 := int32(-1); w2 <= 0; w2++ {
						s := states[i]
						assert.Equal(t, [5]int64{int64(level), int64(m1), int64(m2), int64(w1), int64(w2)},
							[5]int64{int64(s.Level), int64(s.M1), int64(s.M2), int64(s.W1), int64(s.W2)})
						assert.InDelta(t, ChargeLinearMap(m1, m2, w1, w2, p.C1, p.C2, p.D1, p.D2), s.Q, 1e-15)
						i++
					}
				}
			}
		}
	}
}

func TestEnumerateEmptySpans(t *testing.T) {
	p := ptk.DefaultParams()
	assert.Empty(t, EnumerateStates(&p, ptk.SpanOf[uint32](1, 0), ptk.SpanOf[int32](0, 0), ptk.SpanOf[int32](0, 0)))
	assert.Empty(t, EnumerateStates(&p, ptk.SpanOf[uint32](0, 3), ptk.SpanOf[int32](1, -1), ptk.SpanOf[int32](0, 0)))
	assert.Empty(t, EnumerateStates(&p, ptk.SpanOf[uint32](0, 3), ptk.SpanOf[int32](0, 0), ptk.SpanOf[int32](2, 1)))

	// all tachyonic
	assert.Empty(t, EnumerateStates(&p, ptk.SpanOf[uint32](0, 0), ptk.SpanOf[int32](0, 0), ptk.SpanOf[int32](0, 0)))
}

func TestEnumerateParallelMatchesSerial(t *testing.T) {
	p := ptk.DefaultParams()
	levels := ptk.SpanOf[uint32](0, 6)
	m := ptk.SpanOf[int32](-2, 2)
	w := ptk.SpanOf[int32](-1, 1)

	serial := EnumerateStates(&p, levels, m, w)
	for _, workers := range []int{0, 1, 3, 16} {
		parallel, err := EnumerateStatesParallel(context.Background(), &p, levels, m, w, workers)
		require.NoError(t, err)
		assert.Equal(t, serial, parallel, "workers=%d", workers)
	}
}

func TestEnumerateParallelCancel(t *testing.T) {
	p := ptk.DefaultParams()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EnumerateStatesParallel(ctx, &p, ptk.SpanOf[uint32](0, 100), ptk.SpanOf[int32](-1, 1), ptk.SpanOf[int32](0, 0), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
