package orbsim

import (
	"testing"

	"github.com/gonum/floats"
)

func TestCollisionThreshold(t *testing.T) {
	cr := NewCollisionResolver(nil)
	central := NewBody("central", 5.972e24, 2, Vec3{}, Vec3{})
	central.Central = true
	moving := NewBody("sat", 1500, 1, Vec3{3, 0, 0}, Vec3{})

	// Separation exactly equal to the sum of the radii triggers.
	if _, hit := cr.Check(moving, central); !hit {
		t.Fatal("contact at the exact sum of radii must trigger")
	}
	// An epsilon farther must not.
	moving.setState(OrbitalState{R: Vec3{3.000001, 0, 0}})
	if ev, hit := cr.Check(moving, central); hit {
		t.Fatalf("no contact expected at d=%f", ev.Distance)
	}
	moving.setState(OrbitalState{R: Vec3{0, 2.5, 0}})
	ev, hit := cr.Check(moving, central)
	if !hit {
		t.Fatal("overlapping bodies must trigger")
	}
	if ev.Body != moving || ev.Central != central {
		t.Fatal("event must identify both bodies")
	}
	if !floats.EqualWithinAbs(ev.Distance, 2.5, 1e-12) {
		t.Fatalf("d=%f", ev.Distance)
	}
}

func TestClipToCentral(t *testing.T) {
	points := []Vec3{{10, 0, 0}, {5, 0, 0}, {0, 0, 0}, {-5, 0, 0}, {-10, 0, 0}}
	clipped := ClipToCentral(points, Vec3{}, 2)
	if len(clipped) != 3 {
		t.Fatalf("got %d points: %+v", len(clipped), clipped)
	}
	if clipped[0] != points[0] || clipped[1] != points[1] {
		t.Fatal("points before the intersection must be preserved")
	}
	entry := clipped[len(clipped)-1]
	if !floats.EqualWithinAbs(norm(entry), 2, 1e-9) {
		t.Fatalf("entry point %+v is not on the sphere", entry)
	}
}

func TestClipToCentralNoIntersection(t *testing.T) {
	points := []Vec3{{10, 5, 0}, {5, 5, 0}, {0, 5, 0}}
	clipped := ClipToCentral(points, Vec3{}, 2)
	if len(clipped) != len(points) {
		t.Fatalf("a clear trajectory must pass through unchanged, got %d points", len(clipped))
	}
}
