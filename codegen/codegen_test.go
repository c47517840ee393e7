package codegen

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/tinyc/analyze"
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/lexer"
	"github.com/strager/tinyc/parser"
	"github.com/strager/tinyc/token"
)

func generate(t *testing.T, src string, lang token.Language) *Unit {
	t.Helper()
	tokens, err := lexer.Scan([]byte(src), lang, nil)
	be.Err(t, err, nil)
	root, err := parser.ParseProgram(tokens, lang)
	be.Err(t, err, nil)
	symbols := analyze.BuildSymbolTable(root)
	be.Err(t, analyze.TypeCheck(root), nil)
	unit, err := Generate(root, symbols, lang)
	be.Err(t, err, nil)
	return unit
}

func ops(code []Instruction) []Op {
	result := make([]Op, len(code))
	for i, in := range code {
		result[i] = in.Op
	}
	return result
}

func TestRelationalIdiom(t *testing.T) {
	tests := []struct {
		op     token.Kind
		branch Op
	}{
		{token.EQ, OpIfCmpNE},
		{token.NE, OpIfCmpEQ},
		{token.LT, OpIfCmpGE},
		{token.LTE, OpIfCmpGT},
		{token.GT, OpIfCmpLE},
		{token.GTE, OpIfCmpLT},
	}

	for _, tt := range tests {
		symbols := analyze.NewSymbolTable()
		symbols.Add("a", 1)
		symbols.Add("b", 1)
		g := NewGenerator(symbols)
		g.CompileExpression(&ast.Node{Kind: ast.Operator, Line: 1, Op: tt.op, Children: []*ast.Node{
			{Kind: ast.Identifier, Line: 1, Name: "a"},
			{Kind: ast.Identifier, Line: 1, Name: "b"},
		}})

		code := g.Code()
		be.Equal(t, ops(code), []Op{OpLoad, OpLoad, tt.branch, OpPush, OpGoto, OpLabel, OpPush, OpLabel})
		be.Equal(t, code[2].Label, code[5].Label)
		be.Equal(t, code[4].Label, code[7].Label)
		be.Equal(t, code[3].Arg, 1)
		be.Equal(t, code[6].Arg, 0)
		be.Err(t, g.Err(), nil)
	}
}

func TestTinyProgramIsMain(t *testing.T) {
	unit := generate(t, "read x; write x", token.Tiny)
	be.Equal(t, len(unit.Functions), 1)
	be.Equal(t, unit.Functions[0].Name, "main")
	be.Equal(t, unit.Slots, 1)
	be.Equal(t, len(unit.Globals), 0)
	be.Equal(t, ops(unit.Functions[0].Code), []Op{OpRead, OpStore, OpLoad, OpWrite, OpRet})
}

func TestCMinusUnitLayout(t *testing.T) {
	src := `int g;
int a[5];
int f(int p, int q[]) { return p; }
void main(void) { }`
	unit := generate(t, src, token.CMinus)

	be.Equal(t, unit.Globals, []Global{{Slot: 0, Size: -1}, {Slot: 1, Size: 5}})
	be.Equal(t, len(unit.Functions), 2)

	f := unit.Function("f")
	be.True(t, f != nil)
	be.Equal(t, f.Params, []int{3, 4})
	be.Equal(t, len(unit.Function("main").Params), 0)
	be.True(t, unit.Function("g") == nil)
}

func TestLinesMarkedOncePerFunction(t *testing.T) {
	src := `void f(void) { output(1); }
void main(void)
{ f(); f();
  f(); }`
	unit := generate(t, src, token.CMinus)

	be.Equal(t, unit.Function("f").Lines, []LineEntry{{Line: 1, PC: 0}})
	be.Equal(t, unit.Function("main").Lines, []LineEntry{{Line: 3, PC: 0}, {Line: 4, PC: 4}})
}

func TestLineMapPointsAtFirstInstruction(t *testing.T) {
	unit := generate(t, "x := 1;\n\nwrite x", token.Tiny)
	main := unit.Functions[0]
	be.Equal(t, main.Lines, []LineEntry{{Line: 1, PC: 0}, {Line: 3, PC: 2}})
	be.Equal(t, main.Code[2].Op, OpLoad)
}

func TestLabelsAreUniqueAcrossUnit(t *testing.T) {
	src := `void f(void) { if (1 < 2) ; }
void main(void) { while (1 < 2) ; }`
	unit := generate(t, src, token.CMinus)

	seen := make(map[Label]bool)
	for _, fn := range unit.Functions {
		for _, in := range fn.Code {
			if in.Op == OpLabel {
				be.True(t, !seen[in.Label])
				seen[in.Label] = true
			}
		}
	}
	be.Equal(t, len(seen), 8)
}

func TestBuiltins(t *testing.T) {
	unit := generate(t, "void main(void) { int x; x = input(); output(x); }", token.CMinus)
	be.Equal(t, ops(unit.Function("main").Code), []Op{
		OpRead, OpTee, OpPop,
		OpLoad, OpWrite, OpPush, OpPop,
		OpRet,
	})
}

func TestUserFunctionNamedLikeBuiltinWithOtherArity(t *testing.T) {
	unit := generate(t, "int input(int a) { return a; }\nvoid main(void) { output(input(2)); }", token.CMinus)
	code := unit.Function("main").Code
	be.Equal(t, code[1], Instruction{Op: OpCall, Name: "input", Arg: 1})
}

func TestGenerationIsDeterministic(t *testing.T) {
	src := "read x;\nrepeat x := x - 1 until x < 1;\nif x = 0 then write 1 else write 2 end"
	first := generate(t, src, token.Tiny).Listing()
	for range 5 {
		be.Equal(t, generate(t, src, token.Tiny).Listing(), first)
	}
}

func TestUnknownNameIsReported(t *testing.T) {
	g := NewGenerator(analyze.NewSymbolTable())
	g.CompileStatement(&ast.Node{Kind: ast.Read, Line: 1, Name: "ghost"})
	be.True(t, g.Err() != nil)
	be.Equal(t, g.Err().Error(), `codegen: no storage slot for "ghost"`)
}

func TestInstructionString(t *testing.T) {
	be.Equal(t, Instruction{Op: OpPush, Arg: -3}.String(), "push -3")
	be.Equal(t, Instruction{Op: OpGoto, Label: 4}.String(), "goto L4")
	be.Equal(t, Instruction{Op: OpLabel, Label: 4}.String(), "L4:")
	be.Equal(t, Instruction{Op: OpCall, Name: "gcd", Arg: 2}.String(), "call gcd 2")
	be.Equal(t, Instruction{Op: OpWrite}.String(), "write")
	be.True(t, Instruction{Op: OpIfCmpLE}.IsBranch())
	be.True(t, !Instruction{Op: OpLabel}.IsBranch())
}
