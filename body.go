package orbsim

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// inertMassε is the mass below which a body no longer participates in force
// calculations. Such a body is skipped during integration and its accumulated
// force is cleared.
const inertMassε = 1e-9 // kg

var lastBodyID uint64

// BodyID identifies a body for its whole lifetime. IDs are never reused.
type BodyID uint64

// Body defines a gravitating body of the simulation.
// Its state is mutated solely by the SimulationLoop during a tick; external
// forces are injected concurrently through AddForce.
type Body struct {
	ID      BodyID
	Name    string
	Mass    float64 // kg
	Radius  float64 // km, collision extent
	Central bool    // central bodies are fixed gravity sources and never integrate

	mu    sync.RWMutex
	state OrbitalState

	forceMu  sync.Mutex
	accForce Vec3 // external force accumulated since the last tick, in kg·km/s²
}

// NewBody returns a new secondary body at the provided state and assigns it a
// fresh identity.
func NewBody(name string, mass, radius float64, R, V Vec3) *Body {
	return &Body{
		ID:     BodyID(atomic.AddUint64(&lastBodyID, 1)),
		Name:   name,
		Mass:   mass,
		Radius: radius,
		state:  OrbitalState{R: R, V: V},
	}
}

// NewCentralBody places the given celestial object at the origin of the frame.
func NewCentralBody(c CelestialObject) *Body {
	b := NewBody(c.Name, c.Mass, c.Radius, Vec3{}, Vec3{})
	b.Central = true
	return b
}

// State returns the current orbital state.
func (b *Body) State() OrbitalState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Body) setState(s OrbitalState) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// AddForce accumulates an external force (e.g. a thrust maneuver) to be applied
// on the next tick. Safe for concurrent use.
func (b *Body) AddForce(f Vec3) {
	b.forceMu.Lock()
	b.accForce = add(b.accForce, f)
	b.forceMu.Unlock()
}

// drainForce returns the pending external force and resets it to zero.
// The swap guarantees that an AddForce landing between the read and the
// tick-end clear is never lost.
func (b *Body) drainForce() Vec3 {
	b.forceMu.Lock()
	f := b.accForce
	b.accForce = Vec3{}
	b.forceMu.Unlock()
	return f
}

// Thrusting returns whether an external force is currently pending.
func (b *Body) Thrusting() bool {
	b.forceMu.Lock()
	defer b.forceMu.Unlock()
	return b.accForce != (Vec3{})
}

// Inert returns whether the body is too light to participate in force
// calculations.
func (b *Body) Inert() bool {
	return b.Mass < inertMassε
}

// String implements the Stringer interface.
func (b *Body) String() string {
	return fmt.Sprintf("%s (#%d)", b.Name, b.ID)
}
