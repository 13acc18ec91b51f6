package orbsim

import (
	"fmt"
	"math/rand"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// DispersedBodies spawns n copies of the nominal body with normally distributed
// position and velocity noise, e.g. a debris cloud about an orbit. σPos is in
// km and σVel in km/s; both apply per axis.
func DispersedBodies(nominal *Body, n int, σPos, σVel float64, seed *rand.Rand) ([]*Body, error) {
	s := nominal.State()
	mean := []float64{s.R[0], s.R[1], s.R[2], s.V[0], s.V[1], s.V[2]}
	sigma := mat64.NewSymDense(6, nil)
	for i := 0; i < 3; i++ {
		sigma.SetSym(i, i, σPos*σPos)
		sigma.SetSym(i+3, i+3, σVel*σVel)
	}
	dist, ok := distmv.NewNormal(mean, sigma, seed)
	if !ok {
		return nil, fmt.Errorf("dispersion covariance is not positive definite")
	}
	bodies := make([]*Body, n)
	for i := 0; i < n; i++ {
		x := dist.Rand(nil)
		bodies[i] = NewBody(fmt.Sprintf("%s-disp-%d", nominal.Name, i),
			nominal.Mass, nominal.Radius,
			Vec3{x[0], x[1], x[2]}, Vec3{x[3], x[4], x[5]})
	}
	return bodies, nil
}
