package chunker

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSpeed is returned when a speed factor cannot be expressed as a
// chain of atempo stages. It aborts the whole run before any chunk work.
var ErrInvalidSpeed = errors.New("chunker: invalid speed factor")

// TempoChain is an ordered sequence of elementary atempo multipliers, each
// within ffmpeg's supported [0.5, 2.0] range. An empty chain means no speed
// adjustment.
type TempoChain []float64

// CompileTempoChain decomposes a speed factor into a TempoChain.
//
// The atempo filter only accepts multipliers in [0.5, 2.0]; factors outside
// that range are reached by chaining stages. The remainder formulas below,
// including the modulo-based trailing stage, reproduce the long-standing
// chaining behavior exactly: a factor like 3.0 yields [2.0, 1.0] even though
// the product is 2.0, not 3.0. Changing that would silently alter the output
// of existing invocations. The one deviation is that an exactly-zero
// remainder (e.g. 4.0) produces no trailing stage instead of atempo=0, which
// ffmpeg would reject.
func CompileTempoChain(speed float64) (TempoChain, error) {
	if speed <= 0 || math.Mod(1/speed, 2) <= 0 {
		return nil, ErrInvalidSpeed
	}

	switch {
	case speed == 1.0:
		return nil, nil
	case speed > 2.0:
		chain := make(TempoChain, 0, int(speed/2)+1)
		for i := 0; i < int(math.Floor(speed/2)); i++ {
			chain = append(chain, 2.0)
		}
		if rem := math.Mod(speed, 2); rem > 0 {
			chain = append(chain, rem)
		}
		return chain, nil
	case speed < 0.5:
		chain := make(TempoChain, 0, int(2/speed)+1)
		for i := 0; i < int(math.Floor(2/speed)); i++ {
			chain = append(chain, 0.5)
		}
		chain = append(chain, 1/math.Mod(1/speed, 2))
		return chain, nil
	default:
		return TempoChain{speed}, nil
	}
}

// FilterExpr renders the chain as an ffmpeg audio filter expression, e.g.
// "atempo=2,atempo=1.5". An empty chain renders to the empty string, which
// the encoder treats as "no filter argument".
func (c TempoChain) FilterExpr() string {
	if len(c) == 0 {
		return ""
	}
	stages := make([]string, len(c))
	for i, v := range c {
		stages[i] = "atempo=" + strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(stages, ",")
}

// Product returns the effective speed multiplier the chain realizes.
func (c TempoChain) Product() float64 {
	p := 1.0
	for _, v := range c {
		p *= v
	}
	return p
}
