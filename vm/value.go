package vm

import "fmt"

// Value is a tagged discriminated value: the payload's interpretation
// is determined solely by Tag. Primitive tags (Nil, Integer) never
// carry a heap reference; Table and Function always do.
type Value struct {
	tag Tag
	i   int64
	obj heapObject
}

// Tag discriminates the four Value variants.
type Tag uint8

const (
	TagNil Tag = iota
	TagInteger
	TagTable
	TagFunction
)

// String returns the tag's spec-stable name, as used by DEBUG_PRINT.
func (t Tag) String() string {
	switch t {
	case TagNil:
		return "NIL"
	case TagInteger:
		return "INTEGER"
	case TagTable:
		return "TABLE"
	case TagFunction:
		return "FUNCTION"
	default:
		return fmt.Sprintf("INVALID_TAG(%d)", uint8(t))
	}
}

// Nil is the singular NIL value.
var Nil = Value{tag: TagNil}

// Integer creates an INTEGER value.
func Integer(i int64) Value {
	return Value{tag: TagInteger, i: i}
}

// table creates a TABLE value wrapping an Environment. Nothing in the
// current instruction set emits this — spec.md reserves TABLE for a
// heap variant that might back a future mutable-table primitive — but
// the constructor exists so the tag is not otherwise unreachable.
func table(env *environment) Value {
	return Value{tag: TagTable, obj: env}
}

// function creates a FUNCTION value wrapping a Closure.
func function(c *closure) Value {
	return Value{tag: TagFunction, obj: c}
}

// Tag returns v's discriminant.
func (v Value) Tag() Tag { return v.tag }

// Truthy reports whether v is considered true in a conditional: every
// value except NIL is truthy.
func (v Value) Truthy() bool { return v.tag != TagNil }

// Int returns v's integer payload. Panics if v is not an INTEGER —
// callers must check Tag first.
func (v Value) Int() int64 {
	if v.tag != TagInteger {
		panic("vm: Value.Int called on non-INTEGER value")
	}
	return v.i
}

// heapRef returns v's heap object and true if v carries one (TABLE or
// FUNCTION); otherwise it returns nil, false. Used exclusively by the
// collector to find roots and to trace an Environment's mapping.
func (v Value) heapRef() (heapObject, bool) {
	if v.obj == nil {
		return nil, false
	}
	return v.obj, true
}

// environmentRef returns v's Environment. Panics if v is not TABLE.
func (v Value) environmentRef() *environment {
	if v.tag != TagTable {
		panic("vm: Value.environmentRef called on non-TABLE value")
	}
	return v.obj.(*environment)
}

// closureRef returns v's Closure. Panics if v is not FUNCTION.
func (v Value) closureRef() *closure {
	if v.tag != TagFunction {
		panic("vm: Value.closureRef called on non-FUNCTION value")
	}
	return v.obj.(*closure)
}

// DebugString renders v the way DEBUG_PRINT does: "TYPE" for every tag
// except INTEGER, which additionally carries its payload as "TYPE(n)".
func (v Value) DebugString() string {
	if v.tag == TagInteger {
		return fmt.Sprintf("%s(%d)", v.tag, v.i)
	}
	return v.tag.String()
}
