package vm

import "testing"

func TestCollectSweepsUnreachableEnvironments(t *testing.T) {
	blob := &Blob{}
	m := New(blob)

	root := m.envstack[0]
	reachable := m.newEnvironment(root)
	m.envstack = append(m.envstack, reachable)

	garbage := m.newEnvironment(root) // never pushed onto envstack, never referenced

	if got, want := m.ManagedObjectCount(), 3; got != want {
		t.Fatalf("ManagedObjectCount() before collect = %d, want %d", got, want)
	}

	m.collect()

	if got, want := m.ManagedObjectCount(), 2; got != want {
		t.Fatalf("ManagedObjectCount() after collect = %d, want %d (root + reachable, garbage swept)", got, want)
	}
	if root.gc.color != white || reachable.gc.color != white {
		t.Fatal("surviving objects were not repainted white after collection")
	}
	_ = garbage
}

func TestCollectKeepsClosureCapturedEnvironmentAlive(t *testing.T) {
	blob := &Blob{}
	m := New(blob)
	root := m.envstack[0]

	captured := m.newEnvironment(root)
	c := m.newClosure(captured, &Blob{})
	m.push(function(c))

	m.collect()

	if got, want := m.ManagedObjectCount(), 3; got != want {
		t.Fatalf("ManagedObjectCount() = %d, want %d (root + captured env + closure)", got, want)
	}
}

func TestCollectDropsClosureOnceValueStackIsPopped(t *testing.T) {
	blob := &Blob{}
	m := New(blob)
	root := m.envstack[0]

	captured := m.newEnvironment(root)
	c := m.newClosure(captured, &Blob{})
	m.push(function(c))
	if _, err := m.pop(); err != nil {
		t.Fatalf("pop() error = %v", err)
	}

	m.collect()

	if got, want := m.ManagedObjectCount(), 1; got != want {
		t.Fatalf("ManagedObjectCount() = %d, want %d (root only)", got, want)
	}
}

func TestMarkNilHeapObjectIsNoOp(t *testing.T) {
	var grey []heapObject
	mark(nil, &grey)
	if len(grey) != 0 {
		t.Fatalf("mark(nil, ...) pushed onto grey: %v", grey)
	}
}
