package orbsim

import "context"

// KernelExecutor mimics a parallel kernel dispatch: flat input arrays, one body
// per invocation, embarrassingly parallel across tracked bodies (each step
// depends on the previous, so there is no parallelism across steps). It follows
// the RK4 recurrence of Integrator.Step, so both executors agree within
// floating point tolerance. Cancellation is honored at the dispatch boundaries.
type KernelExecutor struct {
	g float64
}

// NewKernelExecutor returns a kernel style path executor for the given
// gravitational constant.
func NewKernelExecutor(g float64) KernelExecutor {
	return KernelExecutor{g: g}
}

// Propagate implements the PathExecutor interface.
func (e KernelExecutor) Propagate(ctx context.Context, init OrbitalState, self BodyID, snap *Snapshot, steps int, dt float64) ([]Vec3, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	otherPos, otherMass := snap.Others(self)
	out := PropagateKernel(init.R, init.V, otherPos, otherMass, steps, dt, e.g)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PropagateKernel computes steps successive positions of one body via the
// classical RK4 recurrence. Inputs are flat arrays so the routine maps directly
// onto a compute kernel invocation.
func PropagateKernel(r0, v0 Vec3, otherPos []Vec3, otherMass []float64, steps int, dt, g float64) []Vec3 {
	accel := func(pos Vec3) (acc Vec3) {
		for i := range otherPos {
			rel := sub(otherPos[i], pos)
			d2 := normSq(rel)
			if d2 < minSeparation*minSeparation {
				d2 = minSeparation * minSeparation
			}
			acc = add(acc, scale(g*otherMass[i]/d2, unit(rel)))
		}
		return
	}
	out := make([]Vec3, steps)
	r, v := r0, v0
	for s := 0; s < steps; s++ {
		k1r, k1v := v, accel(r)
		k2r, k2v := add(v, scale(dt/2, k1v)), accel(add(r, scale(dt/2, k1r)))
		k3r, k3v := add(v, scale(dt/2, k2v)), accel(add(r, scale(dt/2, k2r)))
		k4r, k4v := add(v, scale(dt, k3v)), accel(add(r, scale(dt, k3r)))
		for i := 0; i < 3; i++ {
			r[i] += (dt / 6) * (k1r[i] + 2*k2r[i] + 2*k3r[i] + k4r[i])
			v[i] += (dt / 6) * (k1v[i] + 2*k2v[i] + 2*k3v[i] + k4v[i])
		}
		out[s] = r
	}
	return out
}
