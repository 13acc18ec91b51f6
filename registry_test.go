package orbsim

import (
	"sync"
	"testing"
)

func TestRegistryRegisterDeregister(t *testing.T) {
	reg := NewRegistry()
	b := NewBody("sat", 1500, 0.01, Vec3{7000, 0, 0}, Vec3{0, 7.5, 0})
	if err := reg.Register(b); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(b); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if len(reg.Bodies()) != 1 {
		t.Fatalf("got %d bodies", len(reg.Bodies()))
	}
	reg.Deregister(b)
	if len(reg.Bodies()) != 0 {
		t.Fatal("deregistered body still listed")
	}
	reg.Deregister(b) // no-op
}

func TestRegistrySnapshotOrderAndInert(t *testing.T) {
	reg := NewRegistry()
	b1 := NewBody("a", 1e20, 1, Vec3{1, 0, 0}, Vec3{})
	b2 := NewBody("b", 1e20, 1, Vec3{2, 0, 0}, Vec3{})
	ghost := NewBody("ghost", 0, 1, Vec3{3, 0, 0}, Vec3{})
	for _, b := range []*Body{b2, ghost, b1} {
		if err := reg.Register(b); err != nil {
			t.Fatal(err)
		}
	}
	snap := reg.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("snapshot holds %d bodies, inert body must be skipped", snap.Len())
	}
	for i := 1; i < snap.Len(); i++ {
		if snap.IDs[i-1] >= snap.IDs[i] {
			t.Fatalf("snapshot not in ID order: %+v", snap.IDs)
		}
	}
	pos, mass := snap.Others(b1.ID)
	if len(pos) != 1 || len(mass) != 1 || pos[0] != b2.State().R {
		t.Fatalf("Others(%d) = %+v %+v", b1.ID, pos, mass)
	}
}

func TestRegistryCentral(t *testing.T) {
	reg := NewRegistry()
	if _, found := reg.Central(); found {
		t.Fatal("empty registry reported a central body")
	}
	c := NewCentralBody(Earth)
	if err := reg.Register(c); err != nil {
		t.Fatal(err)
	}
	got, found := reg.Central()
	if !found || got.ID != c.ID {
		t.Fatal("central body not found")
	}
}

func TestRegistryConcurrentSnapshots(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b := NewBody("x", 1e10, 1, Vec3{}, Vec3{})
			if err := reg.Register(b); err != nil {
				t.Error(err)
			}
			reg.Deregister(b)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Snapshot()
			}
		}()
	}
	wg.Wait()
}
