package orbsim

import (
	"testing"
	"time"

	"github.com/gonum/floats"
)

func loopFixture(t *testing.T, bodies ...*Body) (*SimulationLoop, *Registry) {
	t.Helper()
	reg := NewRegistry()
	for _, b := range bodies {
		if err := reg.Register(b); err != nil {
			t.Fatal(err)
		}
	}
	integ := NewIntegrator(G, nil)
	loop := NewSimulationLoop(reg, integ, NewCollisionResolver(nil), 10, 10*time.Millisecond, nil)
	return loop, reg
}

func TestTickAdvancesAndClearsForces(t *testing.T) {
	central := NewCentralBody(Earth)
	sat := NewBody("sat", 1500, 0.01, Vec3{7000, 0, 0}, Vec3{0, 7.5, 0})
	loop, _ := loopFixture(t, central, sat)

	before := sat.State()
	sat.AddForce(Vec3{0.001, 0, 0})
	if !sat.Thrusting() {
		t.Fatal("pending force not reported")
	}
	loop.Tick()
	if sat.State() == before {
		t.Fatal("tick did not advance the body")
	}
	if sat.Thrusting() {
		t.Fatal("accumulated force must be cleared every tick")
	}
	if central.State() != (OrbitalState{}) {
		t.Fatal("central bodies must never integrate")
	}
}

func TestTickUsesOneSnapshot(t *testing.T) {
	// Two mirrored secondaries stay exact mirror images only if both are
	// advanced from the same pre-tick snapshot.
	central := NewCentralBody(Earth)
	s1 := NewBody("s1", 1e10, 1, Vec3{7000, 0, 0}, Vec3{0, 7.5, 0})
	s2 := NewBody("s2", 1e10, 1, Vec3{-7000, 0, 0}, Vec3{0, -7.5, 0})
	loop, _ := loopFixture(t, central, s1, s2)
	for i := 0; i < 50; i++ {
		loop.Tick()
	}
	r1, r2 := s1.State().R, s2.State().R
	for c := 0; c < 3; c++ {
		if !floats.EqualWithinAbs(r1[c], -r2[c], 1e-9) {
			t.Fatalf("mirror symmetry broken: %+v vs %+v", r1, r2)
		}
	}
}

func TestTickSkipsInertBodies(t *testing.T) {
	central := NewCentralBody(Earth)
	ghost := NewBody("ghost", 0, 1, Vec3{7000, 0, 0}, Vec3{})
	loop, _ := loopFixture(t, central, ghost)
	ghost.AddForce(Vec3{1, 0, 0})
	loop.Tick()
	if ghost.State() != (OrbitalState{R: Vec3{7000, 0, 0}}) {
		t.Fatal("inert body must not be integrated")
	}
	if ghost.Thrusting() {
		t.Fatal("inert body force must still be cleared")
	}
}

func TestTickEmitsCollisionEvent(t *testing.T) {
	central := NewCentralBody(Earth)
	sat := NewBody("sat", 1500, 0.01, Vec3{6000, 0, 0}, Vec3{0, 1, 0})
	loop, _ := loopFixture(t, central, sat)
	loop.Tick()
	select {
	case ev := <-loop.Events():
		if ev.Body != sat || ev.Central != central {
			t.Fatalf("wrong event %+v", ev)
		}
	default:
		t.Fatal("no collision event for a body inside the central radius")
	}
}

func TestRunStop(t *testing.T) {
	central := NewCentralBody(Earth)
	sat := NewBody("sat", 1500, 0.01, Vec3{7000, 0, 0}, Vec3{0, 7.5, 0})
	loop, _ := loopFixture(t, central, sat)
	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	loop.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	if sat.State().R == (Vec3{7000, 0, 0}) {
		t.Fatal("running loop did not advance the body")
	}
}

func TestQueryApogeePerigee(t *testing.T) {
	central := NewCentralBody(Earth)
	sat := NewBody("sat", 1500, 0.01, Vec3{8000, 0, 0}, Vec3{0, 7.8, 0})
	loop, _ := loopFixture(t, central, sat)
	apogee, perigee, err := loop.QueryApogeePerigee(sat, Earth.Mass)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(dot(unit(apogee), unit(perigee)), -1, 1e-9) {
		t.Fatal("apogee and perigee must be antiparallel")
	}
	el, err := loop.QueryOrbitalElements(sat, Earth.Mass)
	if err != nil {
		t.Fatal(err)
	}
	if el.SemiMajorAxis <= 0 || !el.Elliptical() {
		t.Fatalf("expected an elliptical orbit, got %+v", el)
	}
}
