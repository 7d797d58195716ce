package vm

// ---------------------------------------------------------------------------
// Environment: chained lexical scope frame
// ---------------------------------------------------------------------------

// environment is a heap-managed, parent-chained identifier→Value
// mapping. It is one of the two GC-managed heap object variants.
type environment struct {
	gc     gcHeader
	parent *environment
	vars   map[Identifier]Value
}

// newEnvironment allocates a fresh Environment with the given parent
// (nil for the VM's root environment) and registers it with m for
// collection.
func (m *VM) newEnvironment(parent *environment) *environment {
	env := &environment{parent: parent, vars: make(map[Identifier]Value)}
	m.objects = append(m.objects, env)
	return env
}

// declare binds name to v in env's own mapping. It fails with a
// RedeclarationError if name is already present locally — ancestor
// bindings are irrelevant to this check, so shadowing an outer name is
// always legal.
func (env *environment) declare(id Identifier, v Value) error {
	if _, ok := env.vars[id]; ok {
		return &RedeclarationError{Name: Name(id)}
	}
	env.vars[id] = v
	return nil
}

// get searches env's own mapping, then walks the parent chain. It
// fails with a NameError if id is unreachable.
func (env *environment) get(id Identifier) (Value, error) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.vars[id]; ok {
			return v, nil
		}
	}
	return Nil, &NameError{Name: Name(id)}
}
