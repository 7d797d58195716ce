package main

import "github.com/loomlang/loom/compiler"

// scenario is one of the end-to-end programs the -scenario flag can
// run: a name, the program tree, and the DEBUG_PRINT transcript it is
// expected to produce. The driver prints the real transcript and does
// not compare it with expected.
type scenario struct {
	name     string
	build    func() compiler.Expression
	expected string
}

var scenarios = []scenario{
	{
		name: "print-sequence",
		build: func() compiler.Expression {
			return compiler.Block(
				compiler.DebugPrint(compiler.Integer(124124)),
				compiler.DebugPrint(compiler.Integer(7)),
			)
		},
		expected: "INTEGER(124124)\nINTEGER(7)\n",
	},
	{
		name: "if-else",
		build: func() compiler.Expression {
			return compiler.Block(
				compiler.DebugPrint(compiler.If_(compiler.Nil(), compiler.Integer(11111), compiler.Integer(222222))),
			)
		},
		expected: "INTEGER(222222)\n",
	},
	{
		name: "declare-and-load",
		build: func() compiler.Expression {
			return compiler.Block(
				compiler.Declare("x", compiler.Integer(55371)),
				compiler.DebugPrint(compiler.Variable("x")),
			)
		},
		expected: "INTEGER(55371)\n",
	},
	{
		name: "closure-reuse",
		build: func() compiler.Expression {
			return compiler.Block(
				compiler.Declare("f", compiler.Lambda([]string{"a"}, compiler.Block(
					compiler.DebugPrint(compiler.Variable("a")),
				))),
				compiler.Call(compiler.Variable("f"), compiler.Integer(777777)),
				compiler.Call(compiler.Variable("f"), compiler.Integer(9999999999)),
				compiler.DebugPrint(compiler.Nil()),
			)
		},
		expected: "INTEGER(777777)\nINTEGER(9999999999)\nNIL\n",
	},
	{
		name: "closure-capture",
		build: func() compiler.Expression {
			return compiler.Block(
				compiler.Declare("mk", compiler.Lambda([]string{"x"}, compiler.Lambda(nil, compiler.Block(
					compiler.DebugPrint(compiler.Variable("x")),
				)))),
				compiler.Call(compiler.Call(compiler.Variable("mk"), compiler.Integer(42))),
			)
		},
		expected: "INTEGER(42)\n",
	},
	{
		name: "redeclaration-error",
		build: func() compiler.Expression {
			return compiler.Block(
				compiler.Declare("x", compiler.Integer(1)),
				compiler.Declare("x", compiler.Integer(2)),
			)
		},
		expected: "", // this scenario is expected to fail at run time
	},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}
