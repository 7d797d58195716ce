package compiler

import (
	"bytes"
	"errors"
	"testing"

	"github.com/loomlang/loom/vm"
)

func run(t *testing.T, e Expression) (string, error) {
	t.Helper()
	blob := Compile(e)
	var out bytes.Buffer
	m := vm.New(blob, vm.WithOutput(&out))
	err := m.Run()
	return out.String(), err
}

func TestScenarioPrintSequence(t *testing.T) {
	out, err := run(t, Block(
		DebugPrint(Integer(124124)),
		DebugPrint(Integer(7)),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := "INTEGER(124124)\nINTEGER(7)\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestScenarioIfElse(t *testing.T) {
	out, err := run(t, Block(
		DebugPrint(If_(Nil(), Integer(11111), Integer(222222))),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := "INTEGER(222222)\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestScenarioDeclareAndLoad(t *testing.T) {
	out, err := run(t, Block(
		Declare("x", Integer(55371)),
		DebugPrint(Variable("x")),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := "INTEGER(55371)\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestScenarioClosureReuse(t *testing.T) {
	out, err := run(t, Block(
		Declare("f", Lambda([]string{"a"}, Block(
			DebugPrint(Variable("a")),
		))),
		Call(Variable("f"), Integer(777777)),
		Call(Variable("f"), Integer(9999999999)),
		DebugPrint(Nil()),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := "INTEGER(777777)\nINTEGER(9999999999)\nNIL\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestScenarioClosureCapture(t *testing.T) {
	out, err := run(t, Block(
		Declare("mk", Lambda([]string{"x"}, Lambda(nil, Block(
			DebugPrint(Variable("x")),
		)))),
		Call(Call(Variable("mk"), Integer(42))),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := "INTEGER(42)\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestScenarioRedeclarationFails(t *testing.T) {
	_, err := run(t, Block(
		Declare("x", Integer(1)),
		Declare("x", Integer(2)),
	))
	if err == nil {
		t.Fatal("run() succeeded, want redeclaration error")
	}
}

func TestScenarioArityMismatchFailsBeforeOutput(t *testing.T) {
	out, err := run(t, Call(Lambda([]string{"a", "b"}, Nil()), Integer(1)))
	if err == nil {
		t.Fatal("run() succeeded, want arity error")
	}
	if out != "" {
		t.Fatalf("output before failure = %q, want empty", out)
	}
}

func TestEmptyBlockYieldsNil(t *testing.T) {
	blob := Compile(Block())
	m := vm.New(blob)
	if err := m.Run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	top, ok := m.Top()
	if !ok {
		t.Fatal("value stack empty after running an empty block")
	}
	if top.Tag() != vm.TagNil {
		t.Fatalf("Top() = %s, want NIL", top.DebugString())
	}
}

func TestDeclareLeavesValueOnStack(t *testing.T) {
	// The compiler relies on DECLARE_VARIABLE not popping so that a
	// block's trailing statement may itself be a declaration.
	blob := Compile(Block(Declare("trailing-declare-test", Integer(9))))
	m := vm.New(blob)
	if err := m.Run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	top, ok := m.Top()
	if !ok || top.Int() != 9 {
		t.Fatalf("Top() = %v, ok=%v, want INTEGER(9)", top, ok)
	}
}

func TestCallEvaluatesArgumentsBeforeCallee(t *testing.T) {
	// A callee expression that itself has side effects (a DEBUG_PRINT)
	// should still run after the arguments have been evaluated, per
	// left-to-right argument evaluation with the callee pushed last.
	out, err := run(t, Call(
		DebugPrint(Lambda([]string{"unused"}, Nil())),
		DebugPrint(Integer(1)),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := "INTEGER(1)\nFUNCTION\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestErrorsAsUnwraps(t *testing.T) {
	_, err := run(t, Variable("undeclared-compile-test"))
	var nameErr *vm.NameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("run() error = %v, want *vm.NameError", err)
	}
}
