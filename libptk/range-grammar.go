package libptk

import (
	"fmt"
	"math"
	"strings"

	"github.com/2x3systems/ptk/ptk"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// RangeExpr is a parsed enumeration range expression such as:
//
//	level=0..1 m=-1..1 w=0
//
// Terms are separated by whitespace or commas.  A bare integer is a one-value span.
// Omitted terms default to 0..0.
type RangeExpr struct {
	Levels ptk.Span[uint32]
	M      ptk.Span[int32]
	W      ptk.Span[int32]
}

// Enumerate is a convenience for EnumerateStates over this RangeExpr.
func (rx RangeExpr) Enumerate(p *ptk.Params) []ptk.StateSpec {
	return EnumerateStates(p, rx.Levels, rx.M, rx.W)
}

func (rx RangeExpr) String() string {
	return fmt.Sprintf("level=%d..%d m=%d..%d w=%d..%d",
		rx.Levels.First, rx.Levels.Last,
		rx.M.First, rx.M.Last,
		rx.W.First, rx.W.Last)
}

type rangeGrammar struct {
	Terms []*rangeTerm `parser:"( @@ \",\"? )*"`
}

type rangeTerm struct {
	Name  string      `parser:"@Ident \"=\""`
	First int64       `parser:"@Int"`
	Upper *rangeUpper `parser:"@@?"`
}

type rangeUpper struct {
	Last int64 `parser:"\"..\" @Int"`
}

var sRangeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Span", Pattern: `\.\.`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Punct", Pattern: `[=,]`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var parseRangeGrammar = participle.MustBuild[rangeGrammar](
	participle.Lexer(sRangeLexer),
)

// ParseRangeExpr parses a range expression (see RangeExpr).
func ParseRangeExpr(expr string) (RangeExpr, error) {
	rx := RangeExpr{}
	if strings.TrimSpace(expr) == "" {
		return rx, nil
	}

	parsed, err := parseRangeGrammar.ParseString("", expr)
	if err != nil {
		return rx, errors.Wrap(ptk.ErrBadRange, err.Error())
	}

	seen := make(map[string]bool, 3)
	for _, term := range parsed.Terms {
		first, last := term.First, term.First
		if term.Upper != nil {
			last = term.Upper.Last
		}

		var key string
		switch term.Name {
		case "level", "levels", "n", "N":
			key = "level"
			if first < 0 || last < 0 || first > math.MaxUint32 || last > math.MaxUint32 {
				return rx, errors.Wrapf(ptk.ErrBadRange, "level span %d..%d out of range", first, last)
			}
			rx.Levels = ptk.SpanOf(uint32(first), uint32(last))
		case "m", "w":
			key = term.Name
			if first < math.MinInt32 || last < math.MinInt32 || first > math.MaxInt32 || last > math.MaxInt32 {
				return rx, errors.Wrapf(ptk.ErrBadRange, "%s span %d..%d out of range", key, first, last)
			}
			span := ptk.SpanOf(int32(first), int32(last))
			if key == "m" {
				rx.M = span
			} else {
				rx.W = span
			}
		default:
			return rx, errors.Wrapf(ptk.ErrBadRange, "unknown term %q", term.Name)
		}

		if seen[key] {
			return rx, errors.Wrapf(ptk.ErrBadRange, "duplicate term %q", key)
		}
		seen[key] = true
	}

	return rx, nil
}
