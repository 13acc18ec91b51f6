package orbsim

import (
	"fmt"
	"math"
	"strings"
)

// CelestialObject defines a central body: a fixed source of gravity, exempt
// from integration, whose rotation rate only drives display.
type CelestialObject struct {
	Name    string
	Radius  float64 // km
	Mass    float64 // kg
	μ       float64 // km³/s²
	RotRate float64 // sidereal rotation rate in rad/s
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (c CelestialObject) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// RotationAngle returns the display rotation of the body after the elapsed
// simulated seconds, in radians within [0, 2π). Central bodies rotate at a
// fixed rate instead of integrating.
func (c CelestialObject) RotationAngle(elapsed float64) float64 {
	θ := math.Mod(c.RotRate*elapsed, 2*math.Pi)
	if θ < 0 {
		θ += 2 * math.Pi
	}
	return θ
}

// CentralBodyFromString returns the object from its name.
func CentralBodyFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "earth":
		return Earth, nil
	case "luna", "moon":
		return Luna, nil
	case "mars":
		return Mars, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined central body '%s'", name)
	}
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 695700, 1.98892e30, 1.32712440017987e11, 2.865e-6}

// Earth is home.
var Earth = CelestialObject{"Earth", 6378.1363, 5.97219e24, 3.98600433e5, 7.2921159e-5}

// Luna is Earth's moon.
var Luna = CelestialObject{"Luna", 1737.4, 7.342e22, 4.9027993e3, 2.6617e-6}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3396.19, 6.4171e23, 4.28283100e4, 7.088218e-5}
