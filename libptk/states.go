package libptk

import (
	"context"
	"math"
	"runtime"

	"github.com/2x3systems/ptk/ptk"
	"golang.org/x/sync/errgroup"
)

// EnumerateStates enumerates open string states over the given level and (m, w) spans.
// The m span applies to both m1 and m2 and the w span to both w1 and w2.
//
// States are emitted in level, m1, m2, w1, w2 order (each ascending).
// Tachyonic states (mass-squared < 0) are dropped.
func EnumerateStates(p *ptk.Params, levels ptk.Span[uint32], m, w ptk.Span[int32]) []ptk.StateSpec {
	var out []ptk.StateSpec
	for li, ln := int64(0), levels.Len(); li < ln; li++ {
		out = appendLevelStates(out, p, levels.At(li), m, w)
	}
	return out
}

// EnumerateStatesParallel is EnumerateStates with each level computed on its own goroutine.
// Output order is identical to EnumerateStates.
//
// workers <= 0 denotes runtime.GOMAXPROCS(0).
func EnumerateStatesParallel(
	ctx context.Context,
	p *ptk.Params,
	levels ptk.Span[uint32],
	m, w ptk.Span[int32],
	workers int,
) ([]ptk.StateSpec, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	numLevels := levels.Len()
	perLevel := make([][]ptk.StateSpec, numLevels)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for li := int64(0); li < numLevels; li++ {
		li := li
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perLevel[li] = appendLevelStates(nil, p, levels.At(li), m, w)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, states := range perLevel {
		total += len(states)
	}
	out := make([]ptk.StateSpec, 0, total)
	for _, states := range perLevel {
		out = append(out, states...)
	}
	return out, nil
}

func appendLevelStates(out []ptk.StateSpec, p *ptk.Params, level uint32, m, w ptk.Span[int32]) []ptk.StateSpec {
	m2Osc := Mass2Open(level, p)

	mLen, wLen := m.Len(), w.Len()
	for i1 := int64(0); i1 < mLen; i1++ {
		m1 := m.At(i1)
		for i2 := int64(0); i2 < mLen; i2++ {
			m2 := m.At(i2)
			for j1 := int64(0); j1 < wLen; j1++ {
				w1 := w.At(j1)
				for j2 := int64(0); j2 < wLen; j2++ {
					w2 := w.At(j2)

					m2Total := m2Osc + KKWindingMass2(m1, m2, w1, w2, p.R1, p.R2, p.AlphaPrime)
					if !(m2Total >= 0) { // also drops NaN
						continue
					}
					out = append(out, ptk.StateSpec{
						Level: level,
						M1:    m1,
						M2:    m2,
						W1:    w1,
						W2:    w2,
						Mass:  math.Sqrt(m2Total),
						Q:     ChargeLinearMap(m1, m2, w1, w2, p.C1, p.C2, p.D1, p.D2),
					})
				}
			}
		}
	}
	return out
}
