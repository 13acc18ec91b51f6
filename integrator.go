package orbsim

import (
	"errors"
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// G is the default gravitational constant in km³/(kg·s²).
	G = 6.67430e-20
	// minSeparation is the smallest body separation considered during force
	// summation. The squared distance is clamped to its square to avoid the
	// singularity when two bodies coincide.
	minSeparation = 1e-3 // km
)

// ErrNonFinite is returned when an integration step produces a non-finite
// position or velocity component. The step is invalid and must be discarded,
// retaining the previous state.
var ErrNonFinite = errors.New("non-finite state after integration step")

// OrbitalState is the (position, velocity) pair the integrator operates on.
// It is an immutable value: each RK4 stage produces a fresh one.
type OrbitalState struct {
	R Vec3 // km
	V Vec3 // km/s
}

// Integrator advances orbital states with the classical four stage Runge-Kutta
// scheme, summing gravity over a frozen snapshot.
type Integrator struct {
	G      float64
	logger kitlog.Logger
}

// NewIntegrator returns an integrator for the given gravitational constant.
// A nil logger falls back to logfmt on stdout.
func NewIntegrator(g float64, logger kitlog.Logger) *Integrator {
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	return &Integrator{G: g, logger: kitlog.With(logger, "subsys", "integrator")}
}

// Accel sums the gravitational acceleration at pos over every snapshot body
// except the integrating body itself. The direction is normalized and scaled by
// the magnitude separately to avoid normalize+scale rounding pitfalls.
func (in *Integrator) Accel(pos Vec3, self BodyID, snap *Snapshot) (acc Vec3) {
	for i := 0; i < snap.Len(); i++ {
		if snap.IDs[i] == self {
			continue
		}
		rel := sub(snap.Pos[i], pos)
		d2 := normSq(rel)
		if d2 < minSeparation*minSeparation {
			d2 = minSeparation * minSeparation
		}
		acc = add(acc, scale(in.G*snap.Mass[i]/d2, unit(rel)))
	}
	return acc
}

// Step performs one RK4 step of duration dt seconds. The external force is an
// exogenous term held constant across all four stages, matching the
// applied-once-per-tick force semantics. A step producing a non-finite
// component is rejected: the input state is returned along with ErrNonFinite.
func (in *Integrator) Step(state OrbitalState, dt float64, snap *Snapshot, selfMass float64, self BodyID, extForce Vec3) (OrbitalState, error) {
	var extAcc Vec3
	if selfMass > inertMassε {
		extAcc = scale(1/selfMass, extForce)
	}
	deriv := func(s OrbitalState) OrbitalState {
		return OrbitalState{R: s.V, V: add(in.Accel(s.R, self, snap), extAcc)}
	}
	at := func(s OrbitalState, h float64, k OrbitalState) OrbitalState {
		return OrbitalState{R: add(s.R, scale(h, k.R)), V: add(s.V, scale(h, k.V))}
	}
	k1 := deriv(state)
	k2 := deriv(at(state, dt/2, k1))
	k3 := deriv(at(state, dt/2, k2))
	k4 := deriv(at(state, dt, k3))
	var next OrbitalState
	for i := 0; i < 3; i++ {
		next.R[i] = state.R[i] + (dt/6)*(k1.R[i]+2*k2.R[i]+2*k3.R[i]+k4.R[i])
		next.V[i] = state.V[i] + (dt/6)*(k1.V[i]+2*k2.V[i]+2*k3.V[i]+k4.V[i])
	}
	if !finite(next.R) || !finite(next.V) {
		in.logger.Log("level", "critical", "body", self, "err", ErrNonFinite,
			"R", fmt.Sprintf("%+v", next.R), "V", fmt.Sprintf("%+v", next.V))
		return state, ErrNonFinite
	}
	return next, nil
}
