package libptk

import "github.com/2x3systems/ptk/ptk"

// Mass2Open is the open string oscillator mass-squared (N - a_open) / α'.
func Mass2Open(level uint32, p *ptk.Params) float64 {
	return (float64(level) - p.AOpen) / p.AlphaPrime
}

// Mass2Closed is the closed string mass-squared (N_L + N_R - a_closed) / α'.
func Mass2Closed(levelSum uint32, p *ptk.Params) float64 {
	return (float64(levelSum) - p.AClosed) / p.AlphaPrime
}

// LevelMatchClosed is the toy level-matching condition N_L == N_R.
func LevelMatchClosed(nLeft, nRight uint32) bool {
	return nLeft == nRight
}

// SpinLabelFromLevel maps levels 0, 1, 2 to spins 0, 1, 2.  Every other level maps to 0.
func SpinLabelFromLevel(level uint32) int32 {
	switch level {
	case 0, 1, 2:
		return int32(level)
	}
	return 0
}
