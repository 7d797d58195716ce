package compiler

import "github.com/loomlang/loom/vm"

// builder accumulates instructions into a single Blob being lowered.
// A fresh builder is created for the root program and for each
// LAMBDA's own instruction sequence.
type builder struct {
	blob *vm.Blob
}

func (b *builder) emit(instr vm.Instruction) int {
	b.blob.Code = append(b.blob.Code, instr)
	return len(b.blob.Code) - 1
}

// Compile lowers e into a fresh top-level Blob with no parameters,
// suitable for vm.New.
func Compile(e Expression) *vm.Blob {
	b := &builder{blob: &vm.Blob{}}
	e.compile(b)
	return b.blob
}

func (nilExpr) compile(b *builder) {
	b.emit(vm.Instruction{Op: vm.OpPushNil})
}

func (e integerExpr) compile(b *builder) {
	b.emit(vm.Instruction{Op: vm.OpPushInteger, IntOperand: e.value})
}

func (e variableExpr) compile(b *builder) {
	b.emit(vm.Instruction{Op: vm.OpPushVariable, IdOperand: e.name})
}

func (e lambdaExpr) compile(b *builder) {
	inner := &builder{blob: &vm.Blob{Args: e.params}}
	e.body.compile(inner)
	b.emit(vm.Instruction{Op: vm.OpPushFunction, BlobOperand: inner.blob})
}

func (e declareExpr) compile(b *builder) {
	e.init.compile(b)
	b.emit(vm.Instruction{Op: vm.OpDeclareVariable, IdOperand: e.name})
}

// compile pushes arguments left to right, then the callee, matching
// the runtime's expectation that CALL finds the callee on top of the
// argument window.
func (e callExpr) compile(b *builder) {
	for _, arg := range e.args {
		arg.compile(b)
	}
	e.callee.compile(b)
	b.emit(vm.Instruction{Op: vm.OpCall, IntOperand: int64(len(e.args))})
}

// compile patches the IF instruction's jump target to one past the
// ELSE it emits, and the ELSE's target to the first instruction after
// the whole conditional — the same two-pass patch the runtime's own
// compiler uses (IF's operand only makes sense once ELSE's position is
// known, and ELSE's only once the else-branch itself is compiled).
func (e ifExpr) compile(b *builder) {
	e.cond.compile(b)
	ifPos := b.emit(vm.Instruction{Op: vm.OpIf})
	e.then_.compile(b)
	elsePos := b.emit(vm.Instruction{Op: vm.OpElse})
	e.else_.compile(b)
	b.blob.Code[ifPos].IntOperand = int64(elsePos + 1)
	b.blob.Code[elsePos].IntOperand = int64(len(b.blob.Code))
}

func (e blockExpr) compile(b *builder) {
	if len(e.stmts) == 0 {
		b.emit(vm.Instruction{Op: vm.OpPushNil})
		return
	}
	b.emit(vm.Instruction{Op: vm.OpBlockStart})
	for _, stmt := range e.stmts[:len(e.stmts)-1] {
		stmt.compile(b)
		b.emit(vm.Instruction{Op: vm.OpPop})
	}
	e.stmts[len(e.stmts)-1].compile(b)
	b.emit(vm.Instruction{Op: vm.OpBlockEnd})
}

func (e debugPrintExpr) compile(b *builder) {
	e.value.compile(b)
	b.emit(vm.Instruction{Op: vm.OpDebugPrint})
}
