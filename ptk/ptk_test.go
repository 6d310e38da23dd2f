package ptk

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	t.Run("inclusive", func(t *testing.T) {
		s := SpanOf[int32](-1, 1)
		require.EqualValues(t, 3, s.Len())
		assert.Equal(t, int32(-1), s.At(0))
		assert.Equal(t, int32(1), s.At(2))
		assert.True(t, s.Contains(0))
		assert.False(t, s.Contains(2))
	})

	t.Run("empty", func(t *testing.T) {
		s := SpanOf[uint32](3, 2)
		assert.EqualValues(t, 0, s.Len())
		assert.False(t, s.Contains(2))
	})

	t.Run("full width", func(t *testing.T) {
		s := SpanOf[int32](math.MinInt32, math.MaxInt32)
		n := s.Len()
		assert.EqualValues(t, int64(1)<<32, n)
		assert.Equal(t, int32(math.MaxInt32), s.At(n-1))
	})
}

func TestVec3(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	assert.Equal(t, Vec3{0, 0, 1}, x.Cross(y))
	assert.Equal(t, 0.0, x.Dot(y))
	assert.Equal(t, Vec3{2, 1, 0}, x.Scale(2).Add(y))
	assert.InDelta(t, math.Sqrt(2), x.Add(y).Norm(), 1e-15)
}

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())

	p.AlphaPrime = 0
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadParams)

	p = DefaultParams()
	p.R2 = -1
	assert.ErrorIs(t, p.Validate(), ErrBadParams)
}

func TestLoadParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := LoadParams("")
		require.NoError(t, err)
		assert.Equal(t, DefaultParams(), p)
	})

	t.Run("yaml overlay", func(t *testing.T) {
		dir := t.TempDir()
		pathname := filepath.Join(dir, "params.yaml")
		require.NoError(t, os.WriteFile(pathname, []byte("alpha_prime: 2.0\nr1: 3.5\n"), 0600))

		p, err := LoadParams(pathname)
		require.NoError(t, err)
		assert.Equal(t, 2.0, p.AlphaPrime)
		assert.Equal(t, 3.5, p.R1)
		assert.Equal(t, DefaultParams().R2, p.R2)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("PTK_A_OPEN", "0.5")
		p, err := LoadParams("")
		require.NoError(t, err)
		assert.Equal(t, 0.5, p.AOpen)
	})

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("PTK_R1", "wide")
		_, err := LoadParams("")
		assert.ErrorIs(t, err, ErrBadParams)
	})

	t.Run("invalid result", func(t *testing.T) {
		t.Setenv("PTK_ALPHA_PRIME", "-1")
		_, err := LoadParams("")
		assert.ErrorIs(t, err, ErrBadParams)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadParams(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestStateSelector(t *testing.T) {
	s := StateSpec{Level: 2, Mass: 1.5, Q: -0.25}

	sel := DefaultStateSelector
	assert.True(t, sel.SelectsState(&s))

	sel.Levels = SpanOf[uint32](0, 1)
	assert.False(t, sel.SelectsState(&s))

	sel = DefaultStateSelector
	sel.MassMax = 1.0
	assert.False(t, sel.SelectsState(&s))

	sel = DefaultStateSelector
	sel.QMin = 0
	assert.False(t, sel.SelectsState(&s))
}

type nopCloser struct {
	strings.Builder
}

func (nopCloser) Close() error { return nil }

type firstOfLevel map[uint32]bool

func (seen firstOfLevel) TryAddState(s StateSpec) bool {
	if seen[s.Level] {
		return false
	}
	seen[s.Level] = true
	return true
}

func TestStateStream(t *testing.T) {
	states := []StateSpec{
		{Level: 0, M1: -1, Mass: 0.5, Q: -1},
		{Level: 0, M1: 0, Mass: 0.1, Q: 0},
		{Level: 1, M1: 1, Mass: 1.2, Q: 1},
	}

	t.Run("order preserved", func(t *testing.T) {
		got := StreamStates(states).Collect()
		assert.Equal(t, states, got)
	})

	t.Run("select", func(t *testing.T) {
		sel := DefaultStateSelector
		sel.QMin = 0
		got := StreamStates(states).Select(sel).Collect()
		assert.Equal(t, states[1:], got)
	})

	t.Run("add to", func(t *testing.T) {
		got := StreamStates(states).AddTo(firstOfLevel{}).Collect()
		require.Len(t, got, 2)
		assert.Equal(t, states[0], got[0])
		assert.Equal(t, states[2], got[1])
	})

	t.Run("print", func(t *testing.T) {
		out := &nopCloser{}
		count := StreamStates(states).Print(out, PrintOpts{Label: "state", Mass2: true, Charge: true}).PullAll()
		assert.Equal(t, 3, count)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "state,000001,N=0,m=(-1 +0),w=(+0 +0),M=0.500000,M2=0.250000,Q=-1.000000", lines[0])
	})
}

func TestCatalogContextClose(t *testing.T) {
	ctx := NewCatalogContext()
	ctx.Close()
	ctx.Close()
	<-ctx.Done()
}
