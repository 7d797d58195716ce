//go:build !debug_gc

package vm

// gcMode names the compile-time collector policy baked into this
// binary. Selecting between "collect on every step" and "collect on
// threshold" is a build-time decision (spec.md §6): build without the
// debug_gc tag for production threshold-based collection, or with
// `-tags debug_gc` to force a full collection between every bytecode
// step (useful for surfacing GC bugs, at a large performance cost).
const gcMode = "prod"

// shouldCollect reports whether the VM should run a full mark-and-sweep
// before dispatching the next instruction. In the production build
// this only happens once the managed-object count reaches the current
// threshold.
func (m *VM) shouldCollect() bool {
	return len(m.objects) >= m.threshold
}
