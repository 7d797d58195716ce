package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode identifies a single bytecode instruction.
type Opcode uint8

const (
	OpInvalid Opcode = iota
	OpPushNil
	OpPushInteger
	OpPushVariable
	OpPushFunction
	OpDeclareVariable
	OpBlockStart
	OpBlockEnd
	OpPop
	OpIf
	OpElse
	OpCall
	OpDebugPrint
	OpTailcall // reserved; execution fails if reached
)

// OpcodeInfo holds display metadata about an opcode.
type OpcodeInfo struct {
	Name string
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpInvalid:         {"INVALID"},
	OpPushNil:         {"PUSH_NIL"},
	OpPushInteger:     {"PUSH_INTEGER"},
	OpPushVariable:    {"PUSH_VARIABLE"},
	OpPushFunction:    {"PUSH_FUNCTION"},
	OpDeclareVariable: {"DECLARE_VARIABLE"},
	OpBlockStart:      {"BLOCK_START"},
	OpBlockEnd:        {"BLOCK_END"},
	OpPop:             {"POP"},
	OpIf:              {"IF"},
	OpElse:            {"ELSE"},
	OpCall:            {"CALL"},
	OpDebugPrint:      {"DEBUG_PRINT"},
	OpTailcall:        {"TAILCALL"},
}

// Info returns op's display metadata.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", uint8(op))}
}

// String implements fmt.Stringer.
func (op Opcode) String() string { return op.Info().Name }

// ---------------------------------------------------------------------------
// Instruction: opcode + single typed operand slot
// ---------------------------------------------------------------------------

// Instruction is one bytecode instruction. Which field of the operand
// is meaningful is determined entirely by Op:
//   - IntOperand:  IF/ELSE jump targets, CALL argument count, PUSH_INTEGER
//   - IdOperand:   PUSH_VARIABLE, DECLARE_VARIABLE
//   - BlobOperand: PUSH_FUNCTION
type Instruction struct {
	Op          Opcode
	IntOperand  int64
	IdOperand   Identifier
	BlobOperand *Blob
}

// ---------------------------------------------------------------------------
// Blob: immutable compiled unit
// ---------------------------------------------------------------------------

// Blob is an immutable compiled unit: an ordered parameter-name list
// plus an ordered instruction sequence. Blobs are owned statically by
// the compiled program and are never GC-managed or freed.
type Blob struct {
	Args []Identifier
	Code []Instruction
}

// programCounter points into a Blob's instruction list.
type programCounter struct {
	blob  *Blob
	index int
}

// done reports whether pc has run off the end of its Blob.
func (pc programCounter) done() bool {
	return pc.index >= len(pc.blob.Code)
}

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// Disassemble renders b in the textual form spec.md §6 describes: a
// header line "nargs = N name1 name2 …" followed by one
// "INDEX  OPCODE [operand]" line per instruction. This is a debugging
// aid only, not a wire format — there is no corresponding parser.
func (b *Blob) Disassemble() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "nargs = %d", len(b.Args))
	for _, id := range b.Args {
		fmt.Fprintf(&sb, " %s", Name(id))
	}
	sb.WriteByte('\n')

	for i, instr := range b.Code {
		fmt.Fprintf(&sb, "%-7d %s", i, instr.Op)
		switch instr.Op {
		case OpPushInteger, OpIf, OpElse, OpCall:
			fmt.Fprintf(&sb, " %d", instr.IntOperand)
		case OpPushVariable, OpDeclareVariable:
			fmt.Fprintf(&sb, " %s", Name(instr.IdOperand))
		case OpPushFunction:
			sb.WriteString(" :")
			for _, id := range instr.BlobOperand.Args {
				fmt.Fprintf(&sb, " %s", Name(id))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
