// =======================
// orbital/point3d.go
// =======================

package orbital

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Point3D holds a 3D coordinate.
type Point3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func axisRotation(angle, x, y, z float64) quat.Number {
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: x * s, Jmag: y * s, Kmag: z * s}
}

// Rotation composes rotations about X, then Y, then Z into one unit quaternion.
func Rotation(ax, ay, az float64) quat.Number {
	qx := axisRotation(ax, 1, 0, 0)
	qy := axisRotation(ay, 0, 1, 0)
	qz := axisRotation(az, 0, 0, 1)
	return quat.Mul(qz, quat.Mul(qy, qx))
}

// RotateBy applies the unit quaternion q to p.
func (p Point3D) RotateBy(q quat.Number) Point3D {
	v := quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}
	r := quat.Mul(quat.Mul(q, v), quat.Conj(q))
	return Point3D{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Rotate rotates around X, Y, Z axes in that order.
func (p Point3D) Rotate(ax, ay, az float64) Point3D {
	return p.RotateBy(Rotation(ax, ay, az))
}

// Scale multiplies each coordinate by f.
func (p Point3D) Scale(f float64) Point3D {
	return Point3D{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// Length is the distance from the origin.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}
