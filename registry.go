package orbsim

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the directory of live bodies. It is constructed explicitly by the
// simulation root and handed to every component that needs it. Reads vastly
// outnumber registrations, so snapshotting copies under a read lock.
type Registry struct {
	mu     sync.RWMutex
	bodies map[BodyID]*Body
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bodies: make(map[BodyID]*Body)}
}

// Register adds a body. Registering the same body twice is an error.
func (r *Registry) Register(b *Body) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.bodies[b.ID]; found {
		return fmt.Errorf("%s already registered", b)
	}
	r.bodies[b.ID] = b
	return nil
}

// Deregister removes a body. Removing an unknown body is a no-op.
func (r *Registry) Deregister(b *Body) {
	r.mu.Lock()
	delete(r.bodies, b.ID)
	r.mu.Unlock()
}

// Bodies returns the live bodies sorted by ID. The stable order keeps force
// summations comparable between execution paths.
func (r *Registry) Bodies() []*Body {
	r.mu.RLock()
	bodies := make([]*Body, 0, len(r.bodies))
	for _, b := range r.bodies {
		bodies = append(bodies, b)
	}
	r.mu.RUnlock()
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].ID < bodies[j].ID })
	return bodies
}

// Central returns the central body, if one is registered.
func (r *Registry) Central() (*Body, bool) {
	for _, b := range r.Bodies() {
		if b.Central {
			return b, true
		}
	}
	return nil, false
}

// Snapshot captures a frozen copy of every massive body's position and mass.
// All force evaluations of one tick or one forecast pass must read from the
// same snapshot, never from live state.
func (r *Registry) Snapshot() *Snapshot {
	bodies := r.Bodies()
	snap := &Snapshot{
		IDs:  make([]BodyID, 0, len(bodies)),
		Pos:  make([]Vec3, 0, len(bodies)),
		Mass: make([]float64, 0, len(bodies)),
	}
	for _, b := range bodies {
		if b.Inert() {
			continue
		}
		snap.IDs = append(snap.IDs, b.ID)
		snap.Pos = append(snap.Pos, b.State().R)
		snap.Mass = append(snap.Mass, b.Mass)
	}
	return snap
}

// Snapshot is a frozen (position, mass) capture of all massive bodies, in body
// ID order.
type Snapshot struct {
	IDs  []BodyID
	Pos  []Vec3
	Mass []float64
}

// Len returns the number of captured bodies.
func (s *Snapshot) Len() int {
	return len(s.IDs)
}

// Others returns the positions and masses of every captured body except the
// given one, in the flat layout the parallel kernel consumes.
func (s *Snapshot) Others(self BodyID) (pos []Vec3, mass []float64) {
	for i, id := range s.IDs {
		if id == self {
			continue
		}
		pos = append(pos, s.Pos[i])
		mass = append(mass, s.Mass[i])
	}
	return
}
