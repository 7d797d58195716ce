//go:build debug_gc

package vm

// gcMode names the compile-time collector policy baked into this
// binary. See gc_prod.go for the counterpart build.
const gcMode = "debug"

// shouldCollect always runs a full mark-and-sweep, surfacing GC bugs
// (a reachable object collected too early, a stale pointer used after
// sweep) as early and as often as possible.
func (m *VM) shouldCollect() bool {
	return true
}
