// Package snapshot captures a point-in-time debugging view of a VM's
// execution state and serializes it as canonical CBOR. A Snapshot is a
// diagnostic artifact, not a resumable image: it records observable
// counters and the current top-of-stack value, never a Blob or heap
// graph, since bytecode and heap layout are not a stable wire format.
package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/loomlang/loom/vm"
)

// Snapshot is a serializable summary of one VM's state at the moment
// it was taken.
type Snapshot struct {
	GCMode           string `cbor:"gc_mode"`
	StackDepth       int    `cbor:"stack_depth"`
	EnvironmentDepth int    `cbor:"environment_depth"`
	ManagedObjects   int    `cbor:"managed_objects"`
	Top              string `cbor:"top,omitempty"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Take captures m's current state.
func Take(m *vm.VM) *Snapshot {
	s := &Snapshot{
		GCMode:           m.GCMode(),
		StackDepth:       m.StackDepth(),
		EnvironmentDepth: m.EnvironmentDepth(),
		ManagedObjects:   m.ManagedObjectCount(),
	}
	if top, ok := m.Top(); ok {
		s.Top = top.DebugString()
	}
	return s
}

// Marshal serializes s to canonical CBOR bytes.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Snapshot from CBOR bytes.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}
