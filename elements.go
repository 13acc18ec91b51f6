package orbsim

import (
	"errors"
	"math"
)

const (
	// eccentricityε keeps the apogee and perigee of a near perfect circle
	// numerically distinguishable.
	eccentricityε = 5e-5
	velocityε     = 1e-6 // km/s
	momentumε     = 1e-6 // km²/s
)

// ErrDegenerateOrbit is returned when the state is too close to singular for
// the element computation to be meaningful.
var ErrDegenerateOrbit = errors.New("degenerate state: orbital elements undefined")

// OrbitalElements are derived on demand from an instantaneous state relative to
// a central mass at the origin. They are recomputed, never stored.
type OrbitalElements struct {
	SemiMajorAxis   float64 // km; zero for non elliptical orbits
	Eccentricity    float64 // <1 elliptical, ==1 parabolic, >1 hyperbolic
	ApogeePosition  Vec3    // km, relative to the central body
	PerigeePosition Vec3    // km, relative to the central body
	ApogeeDistance  float64 // km
	PerigeeDistance float64 // km
}

// Elliptical returns whether the orbit is closed.
func (el OrbitalElements) Elliptical() bool {
	return el.Eccentricity < 1
}

// Period returns the orbital period in seconds for the given gravitational
// parameter. Only meaningful for elliptical orbits.
func (el OrbitalElements) Period(μ float64) float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(el.SemiMajorAxis, 3)/μ)
}

// ElementsFromRV derives the shape elements from a position and velocity
// relative to a central body of gravitational parameter μ at the origin.
// Eccentricity vector method from Vallado's RV2COE.
func ElementsFromRV(R, V Vec3, μ float64) (OrbitalElements, error) {
	r := norm(R)
	v := norm(V)
	hVec := cross(R, V)
	h := norm(hVec)
	if r < 1 || v < velocityε || h < momentumε {
		return OrbitalElements{}, ErrDegenerateOrbit
	}
	ξ := v*v/2 - μ/r
	eVec := sub(scale(1/μ, cross(V, hVec)), unit(R))
	if ξ >= 0 {
		// Open orbit: no apoapsis. The eccentricity here only classifies the
		// orbit, the periapsis comes from the semi-latus rectum.
		ecc := 1 + r*v*v/μ
		p := h * h / (μ * (1 + ecc))
		return OrbitalElements{
			Eccentricity:    ecc,
			PerigeePosition: scale(p, unit(eVec)),
			PerigeeDistance: p,
		}, nil
	}
	a := -μ / (2 * ξ)
	ecc := math.Sqrt(1 + 2*ξ*h*h/(μ*μ))
	if ecc < eccentricityε {
		ecc = eccentricityε
	}
	// Periapsis lies along +eVec, apoapsis diametrically opposite.
	apseDir := unit(eVec)
	if apseDir == (Vec3{}) {
		// Circular to machine precision: the apse line is undefined, take the
		// current radial direction.
		apseDir = unit(R)
	}
	return OrbitalElements{
		SemiMajorAxis:   a,
		Eccentricity:    ecc,
		ApogeePosition:  scale(-a*(1+ecc), apseDir),
		PerigeePosition: scale(a*(1-ecc), apseDir),
		ApogeeDistance:  a * (1 + ecc),
		PerigeeDistance: a * (1 - ecc),
	}, nil
}
