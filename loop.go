package orbsim

import (
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// TickStep is the default simulated duration of one tick, in seconds.
	TickStep = 10.0
	// TickCadence is the default wall clock interval between ticks.
	TickCadence = 100 * time.Millisecond
	// statusInterval paces the periodic status log of a running loop.
	statusInterval = 10 * time.Second
)

// SimulationLoop advances the true state of every registered body at a fixed
// cadence. It owns all per body mutable state during its tick and never blocks
// on prediction or I/O.
type SimulationLoop struct {
	reg     *Registry
	integ   *Integrator
	coll    *CollisionResolver
	step    float64       // simulated seconds per tick
	cadence time.Duration // wall clock interval between ticks
	logger  kitlog.Logger

	events   chan CollisionEvent
	stopChan chan bool
	ticks    uint64
}

// NewSimulationLoop wires the loop to an explicitly constructed registry,
// integrator and collision resolver.
func NewSimulationLoop(reg *Registry, integ *Integrator, coll *CollisionResolver, step float64, cadence time.Duration, logger kitlog.Logger) *SimulationLoop {
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	return &SimulationLoop{
		reg:      reg,
		integ:    integ,
		coll:     coll,
		step:     step,
		cadence:  cadence,
		logger:   kitlog.With(logger, "subsys", "loop"),
		events:   make(chan CollisionEvent, 16),
		stopChan: make(chan bool, 1),
	}
}

// Events delivers collision detections. Sends are non blocking so a slow
// consumer cannot stall the loop.
func (l *SimulationLoop) Events() <-chan CollisionEvent {
	return l.events
}

// Run ticks until Stop is called. Blocking.
func (l *SimulationLoop) Run() {
	ticker := time.NewTicker(l.cadence)
	defer ticker.Stop()
	status := time.NewTicker(statusInterval)
	defer status.Stop()
	l.logger.Log("level", "info", "status", "started", "step(s)", l.step, "cadence", l.cadence)
	for {
		select {
		case <-l.stopChan:
			l.logger.Log("level", "notice", "status", "finished", "ticks", l.ticks)
			return
		case <-status.C:
			l.LogStatus()
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Stop halts a running loop.
func (l *SimulationLoop) Stop() {
	l.stopChan <- true
}

// LogStatus logs the tick count and registry population.
func (l *SimulationLoop) LogStatus() {
	l.logger.Log("level", "info", "ticks", l.ticks, "bodies", len(l.reg.Bodies()))
}

// Tick advances every non central, non inert body by one RK4 step using a
// single pre tick snapshot, so no body sees another body's already updated
// position from the same tick. Collision detection runs after each step.
// Exported so tests and offline drivers can step without wall clock pacing.
func (l *SimulationLoop) Tick() {
	snap := l.reg.Snapshot()
	central, hasCentral := l.reg.Central()
	for _, b := range l.reg.Bodies() {
		if b.Central {
			continue
		}
		force := b.drainForce()
		if b.Inert() {
			continue
		}
		next, err := l.integ.Step(b.State(), l.step, snap, b.Mass, b.ID, force)
		if err != nil {
			// Prior state retained; a non finite step indicates a modeling or
			// input error upstream.
			continue
		}
		b.setState(next)
		if hasCentral {
			if ev, hit := l.coll.Check(b, central); hit {
				select {
				case l.events <- ev:
				default:
				}
			}
		}
	}
	l.ticks++
}

// QueryOrbitalElements derives the classical elements of a body about the
// given central mass.
func (l *SimulationLoop) QueryOrbitalElements(b *Body, centralMass float64) (OrbitalElements, error) {
	s := b.State()
	return ElementsFromRV(s.R, s.V, l.integ.G*centralMass)
}

// QueryApogeePerigee returns the apogee and perigee positions of a body
// relative to the central body.
func (l *SimulationLoop) QueryApogeePerigee(b *Body, centralMass float64) (apogee, perigee Vec3, err error) {
	el, err := l.QueryOrbitalElements(b, centralMass)
	if err != nil {
		return
	}
	return el.ApogeePosition, el.PerigeePosition, nil
}
