package libptk

import (
	"testing"

	"github.com/2x3systems/ptk/ptk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeExpr(t *testing.T) {
	tests := []struct {
		expr string
		want RangeExpr
	}{
		{"", RangeExpr{}},
		{"level=0..1 m=-1..1 w=0", RangeExpr{
			Levels: ptk.SpanOf[uint32](0, 1),
			M:      ptk.SpanOf[int32](-1, 1),
			W:      ptk.SpanOf[int32](0, 0),
		}},
		{"w=-2..+2, n=3", RangeExpr{
			Levels: ptk.SpanOf[uint32](3, 3),
			W:      ptk.SpanOf[int32](-2, 2),
		}},
		{"levels = 4..2", RangeExpr{
			Levels: ptk.SpanOf[uint32](4, 2),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			rx, err := ParseRangeExpr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rx)

			again, err := ParseRangeExpr(rx.String())
			require.NoError(t, err)
			assert.Equal(t, rx, again)
		})
	}
}

func TestParseRangeExprErrors(t *testing.T) {
	for _, expr := range []string{
		"x=1",
		"m=1 m=2",
		"level=0 n=1",
		"level=-1..2",
		"level=0..",
		"m=1..2..3",
		"m=99999999999",
		"m",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseRangeExpr(expr)
			assert.ErrorIs(t, err, ptk.ErrBadRange)
		})
	}
}

func TestRangeExprEnumerate(t *testing.T) {
	p := ptk.DefaultParams()
	rx, err := ParseRangeExpr("level=0..1 m=-1..1 w=0..0")
	require.NoError(t, err)

	want := EnumerateStates(&p, rx.Levels, rx.M, rx.W)
	assert.Equal(t, want, rx.Enumerate(&p))
	assert.Len(t, want, 15)
}
