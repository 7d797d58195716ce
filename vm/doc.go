// Package vm implements the Loom virtual machine.
//
// This package contains:
//   - a process-wide identifier intern table
//   - a tagged Value representation (nil, integer, table, function)
//   - the two GC-managed heap object variants (Environment, Closure)
//   - Blob/Instruction bytecode with a textual disassembler
//   - the three-stack dispatch loop, call/return mechanics, and jumps
//   - a tracing mark-and-sweep garbage collector
package vm
