package orbsim

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// Vec3 is a three dimensional vector in the simulation frame.
// The canonical units are km for positions and km/s for velocities, applied
// uniformly across the true integrator and the trajectory predictor.
type Vec3 [3]float64

// norm returns the norm of the vector.
func norm(v Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// normSq returns the squared norm, without the square root.
func normSq(v Vec3) float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// unit returns the unit vector of a given vector.
func unit(a Vec3) (b Vec3) {
	n := norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return Vec3{}
	}
	for i, val := range a {
		b[i] = val / n
	}
	return
}

func add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scale(f float64, a Vec3) Vec3 {
	return Vec3{f * a[0], f * a[1], f * a[2]}
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b Vec3) float64 {
	return mat64.Dot(mat64.NewVector(3, a[:]), mat64.NewVector(3, b[:]))
}

// cross performs the cross product.
func cross(a, b Vec3) Vec3 {
	return Vec3{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// finite returns whether every component is a finite number.
func finite(v Vec3) bool {
	for _, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return false
		}
	}
	return true
}
