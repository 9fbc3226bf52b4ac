package orientation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Euler holds aerospace-sequence angles in radians.
type Euler struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Identity is the quaternion for no rotation.
var Identity = quat.Number{Real: 1}

// ToEuler converts a unit quaternion to roll, pitch and yaw. Pitch saturates
// at ±π/2 when rounding pushes its sine outside [-1, 1].
func ToEuler(q quat.Number) Euler {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	var pitch float64
	sinp := 2 * (w*y - z*x)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return Euler{Roll: roll, Pitch: pitch, Yaw: yaw}
}

// Degrees returns e converted from radians.
func (e Euler) Degrees() Euler {
	const k = 180 / math.Pi
	return Euler{Roll: e.Roll * k, Pitch: e.Pitch * k, Yaw: e.Yaw * k}
}

// FromAxisAngle builds the unit quaternion rotating angle radians about the
// given axis. A zero axis yields the identity.
func FromAxisAngle(axis [3]float64, angle float64) quat.Number {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if n == 0 {
		return Identity
	}
	s := math.Sin(angle/2) / n
	return quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis[0] * s,
		Jmag: axis[1] * s,
		Kmag: axis[2] * s,
	}
}

// Normalize scales q to unit norm. The zero quaternion maps to the identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}
