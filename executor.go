package orbsim

import (
	"context"

	"github.com/ChristopherRabotin/ode"
)

// SequentialExecutor runs forecast passes step by step on the CPU, driving the
// shared force model through the ode package's RK4 solver.
type SequentialExecutor struct {
	integ *Integrator
}

// NewSequentialExecutor returns a CPU path executor.
func NewSequentialExecutor(integ *Integrator) SequentialExecutor {
	return SequentialExecutor{integ: integ}
}

// Propagate implements the PathExecutor interface.
func (e SequentialExecutor) Propagate(ctx context.Context, init OrbitalState, self BodyID, snap *Snapshot, steps int, dt float64) ([]Vec3, error) {
	path := &forecastPath6{
		ctx:    ctx,
		integ:  e.integ,
		self:   self,
		snap:   snap,
		steps:  steps,
		state:  []float64{init.R[0], init.R[1], init.R[2], init.V[0], init.V[1], init.V[2]},
		points: make([]Vec3, 0, steps+1),
	}
	ode.NewRK4(0, dt, path).Solve() // Blocking.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pts := path.points
	// Some solvers report the initial state before the first step; the forecast
	// only carries post-step samples.
	if len(pts) > 0 && pts[0] == init.R {
		pts = pts[1:]
	}
	if len(pts) > steps {
		pts = pts[:steps]
	}
	return pts, nil
}

// forecastPath6 adapts one forecast pass (a six component state) to the
// ode.Integrable interface.
type forecastPath6 struct {
	ctx    context.Context
	integ  *Integrator
	self   BodyID
	snap   *Snapshot
	steps  int
	count  int
	state  []float64
	points []Vec3
}

// GetState implements the ode.Integrable interface.
func (p *forecastPath6) GetState() []float64 {
	return p.state
}

// SetState implements the ode.Integrable interface.
func (p *forecastPath6) SetState(t float64, s []float64) {
	copy(p.state, s)
	if len(p.points) <= p.steps {
		p.points = append(p.points, Vec3{s[0], s[1], s[2]})
	}
}

// Stop implements the ode.Integrable interface.
func (p *forecastPath6) Stop(t float64) bool {
	select {
	case <-p.ctx.Done():
		return true
	default:
	}
	if p.count >= p.steps {
		return true
	}
	p.count++
	return false
}

// Func implements the ode.Integrable interface.
func (p *forecastPath6) Func(t float64, s []float64) []float64 {
	acc := p.integ.Accel(Vec3{s[0], s[1], s[2]}, p.self, p.snap)
	return []float64{s[3], s[4], s[5], acc[0], acc[1], acc[2]}
}
