package vm

import (
	"fmt"
	"io"
	"os"
)

// ---------------------------------------------------------------------------
// VM: the Loom virtual machine
// ---------------------------------------------------------------------------

// TraceFunc is invoked once per dispatched instruction when tracing is
// enabled (see WithTrace). It receives the program counter's blob and
// index and the instruction about to execute.
type TraceFunc func(blob *Blob, index int, instr Instruction)

// VM holds all mutable execution state: the three stacks, the current
// program counter, the managed-object list, and the current
// collection threshold. A VM instance is not re-entrant and is not
// safe for concurrent use.
type VM struct {
	evalstack []Value
	retstack  []programCounter
	envstack  []*environment
	pc        programCounter

	objects   []heapObject
	threshold int

	gcThresholdConstant int
	out                 io.Writer
	trace               TraceFunc
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithOutput sets the sink DEBUG_PRINT writes to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(m *VM) { m.out = w }
}

// WithGCThresholdConstant overrides the small constant C added to the
// adapted threshold after each collection (spec.md §4.5 step 4).
// Defaults to gcThresholdConstantDefault.
func WithGCThresholdConstant(c int) Option {
	return func(m *VM) { m.gcThresholdConstant = c }
}

// WithTrace installs a callback invoked before each instruction is
// dispatched. Unlike the DEBUG_GC/PROD_GC collector policy, tracing
// never changes observable program behavior, so it is a runtime
// option rather than a build tag.
func WithTrace(fn TraceFunc) Option {
	return func(m *VM) { m.trace = fn }
}

// New constructs a VM ready to execute blob from instruction 0. The
// root environment is created internally, per spec.md §6.
func New(blob *Blob, opts ...Option) *VM {
	m := &VM{
		pc:                  programCounter{blob: blob, index: 0},
		gcThresholdConstant: gcThresholdConstantDefault,
		out:                 os.Stdout,
	}
	m.threshold = m.gcThresholdConstant
	root := m.newEnvironment(nil)
	m.envstack = append(m.envstack, root)

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ---------------------------------------------------------------------------
// Observable accessors (for tests and hosts)
// ---------------------------------------------------------------------------

// StackDepth returns the current value-stack depth.
func (m *VM) StackDepth() int { return len(m.evalstack) }

// Top returns the value at the top of the value stack and true, or the
// zero Value and false if the stack is empty.
func (m *VM) Top() (Value, bool) {
	if len(m.evalstack) == 0 {
		return Value{}, false
	}
	return m.evalstack[len(m.evalstack)-1], true
}

// EnvironmentDepth returns the current environment-stack depth.
func (m *VM) EnvironmentDepth() int { return len(m.envstack) }

// ManagedObjectCount returns the number of heap objects currently
// tracked for collection.
func (m *VM) ManagedObjectCount() int { return len(m.objects) }

// GCMode returns "debug" or "prod" depending on which build-tagged GC
// policy this binary was compiled with.
func (m *VM) GCMode() string { return gcMode }

// ---------------------------------------------------------------------------
// Value-stack helpers
// ---------------------------------------------------------------------------

func (m *VM) push(v Value) { m.evalstack = append(m.evalstack, v) }

func (m *VM) pop() (Value, error) {
	n := len(m.evalstack)
	if n == 0 {
		return Value{}, &MalformedBytecodeError{Reason: "value stack underflow"}
	}
	v := m.evalstack[n-1]
	m.evalstack = m.evalstack[:n-1]
	return v, nil
}

func (m *VM) peek() (Value, error) {
	n := len(m.evalstack)
	if n == 0 {
		return Value{}, &MalformedBytecodeError{Reason: "value stack underflow"}
	}
	return m.evalstack[n-1], nil
}

func (m *VM) currentEnv() *environment {
	return m.envstack[len(m.envstack)-1]
}

// ---------------------------------------------------------------------------
// Dispatch loop
// ---------------------------------------------------------------------------

// Run executes the VM to completion. On success, the value stack's top
// (if any) is the program's result. On failure, Run returns a single
// fatal diagnostic error (spec.md §7); prior DEBUG_PRINT output is not
// rolled back.
func (m *VM) Run() error {
	for !(len(m.retstack) == 0 && m.pc.done()) {
		if m.shouldCollect() {
			m.collect()
		}

		if m.pc.done() {
			n := len(m.retstack)
			m.pc = m.retstack[n-1]
			m.retstack = m.retstack[:n-1]
			m.envstack = m.envstack[:len(m.envstack)-1]
			continue
		}

		instr := m.pc.blob.Code[m.pc.index]
		if m.trace != nil {
			m.trace(m.pc.blob, m.pc.index, instr)
		}
		if err := m.step(instr); err != nil {
			return err
		}
	}
	return nil
}

// step executes a single instruction, advancing pc except where the
// instruction itself transfers control (IF/ELSE/CALL).
func (m *VM) step(instr Instruction) error {
	switch instr.Op {
	case OpPushNil:
		m.push(Nil)
		m.pc.index++

	case OpPushInteger:
		m.push(Integer(instr.IntOperand))
		m.pc.index++

	case OpPushVariable:
		v, err := m.currentEnv().get(instr.IdOperand)
		if err != nil {
			return err
		}
		m.push(v)
		m.pc.index++

	case OpPushFunction:
		c := m.newClosure(m.currentEnv(), instr.BlobOperand)
		m.push(function(c))
		m.pc.index++

	case OpDeclareVariable:
		top, err := m.peek()
		if err != nil {
			return err
		}
		if err := m.currentEnv().declare(instr.IdOperand, top); err != nil {
			return err
		}
		m.pc.index++

	case OpBlockStart:
		env := m.newEnvironment(m.currentEnv())
		m.envstack = append(m.envstack, env)
		m.pc.index++

	case OpBlockEnd:
		if len(m.envstack) <= 1 {
			return &MalformedBytecodeError{Reason: "BLOCK_END with no matching BLOCK_START"}
		}
		m.envstack = m.envstack[:len(m.envstack)-1]
		m.pc.index++

	case OpPop:
		if _, err := m.pop(); err != nil {
			return err
		}
		m.pc.index++

	case OpIf:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if v.Truthy() {
			m.pc.index++
		} else {
			if instr.IntOperand < 0 || instr.IntOperand > int64(len(m.pc.blob.Code)) {
				return &MalformedBytecodeError{Reason: fmt.Sprintf("jump target %d out of range", instr.IntOperand)}
			}
			m.pc.index = int(instr.IntOperand)
		}

	case OpElse:
		if instr.IntOperand < 0 || instr.IntOperand > int64(len(m.pc.blob.Code)) {
			return &MalformedBytecodeError{Reason: fmt.Sprintf("jump target %d out of range", instr.IntOperand)}
		}
		m.pc.index = int(instr.IntOperand)

	case OpCall:
		return m.call(instr.IntOperand)

	case OpDebugPrint:
		v, err := m.peek()
		if err != nil {
			return err
		}
		fmt.Fprintln(m.out, v.DebugString())
		m.pc.index++

	case OpTailcall:
		return &MalformedBytecodeError{Reason: "TAILCALL is reserved and unimplemented"}

	default:
		return &MalformedBytecodeError{Reason: fmt.Sprintf("invalid opcode %s", instr.Op)}
	}
	return nil
}

// call implements CALL(n) per spec.md §4.4.
func (m *VM) call(n int64) error {
	callee, err := m.peek()
	if err != nil {
		return err
	}
	if callee.Tag() != TagFunction {
		return &TypeError{Got: callee.Tag()}
	}

	// Advance pc past CALL and push the return address.
	returnPC := programCounter{blob: m.pc.blob, index: m.pc.index + 1}
	m.retstack = append(m.retstack, returnPC)

	// Pop the callee off the value stack.
	if _, err := m.pop(); err != nil {
		return err
	}
	c := callee.closureRef()

	// Fresh environment chained onto the closure's captured environment.
	env := m.newEnvironment(c.env)
	m.envstack = append(m.envstack, env)

	nArgs := int(n)
	if nArgs != len(c.blob.Args) {
		return &ArityError{Expected: len(c.blob.Args), Got: nArgs}
	}

	size := len(m.evalstack)
	if size < nArgs {
		return &MalformedBytecodeError{Reason: "value stack underflow at CALL"}
	}
	for j := 0; j < nArgs; j++ {
		if err := env.declare(c.blob.Args[j], m.evalstack[size-nArgs+j]); err != nil {
			return &MalformedBytecodeError{Reason: "duplicate parameter name: " + err.Error()}
		}
	}
	m.evalstack = m.evalstack[:size-nArgs]

	m.pc = programCounter{blob: c.blob, index: 0}
	return nil
}
