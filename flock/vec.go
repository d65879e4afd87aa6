package flock

import (
	"math"

	"github.com/scottkirkwood/flockart"
	"gonum.org/v1/gonum/spatial/r3"
)

func toVec(c RGB) r3.Vec {
	return r3.Vec{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2])}
}

func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}

// normalize returns v scaled to unit length. The zero vector comes back
// unchanged; r3.Unit would turn it into NaNs. Anything non-finite is treated
// as zero.
func normalize(v r3.Vec) r3.Vec {
	if !finite(v) {
		return r3.Vec{}
	}
	// Scale by the largest component first so huge sums don't overflow the norm.
	m := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if m == 0 {
		return v
	}
	v = r3.Scale(1/m, v)
	return r3.Scale(1/r3.Norm(v), v)
}

// inverseCube weights d by 255/|d|³. ok is false when d is the zero vector
// or so short that the weight overflows.
func inverseCube(d r3.Vec) (r3.Vec, bool) {
	sl := r3.Norm2(d)
	if sl == 0 {
		return r3.Vec{}, false
	}
	f := r3.Scale(255/sl, r3.Scale(1/math.Sqrt(sl), d))
	if !finite(f) {
		return r3.Vec{}, false
	}
	return f, true
}

// drift moves one channel by at least one unit in the direction of s,
// rounding away from zero, and keeps it a byte. A NaN leaves it alone.
func drift(ch uint8, s float64) uint8 {
	if math.IsNaN(s) {
		return ch
	}
	step := math.Ceil(math.Abs(s))
	if s < 0 {
		step = -step
	}
	return uint8(flockart.Clamp(float64(ch)+step, 0, 255))
}
