package codegen

import (
	"fmt"
	"slices"

	"github.com/strager/tinyc/analyze"
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/token"
)

// Builtin functions of C-Minus.
const (
	BuiltinInput  = "input"
	BuiltinOutput = "output"
)

// Generator is the instruction emission context: the block being built,
// the label counter and the lines already marked in the current block.
type Generator struct {
	symbols *analyze.SymbolTable
	labels  int
	fn      *Function
	marked  map[int]bool
	err     error
}

func NewGenerator(symbols *analyze.SymbolTable) *Generator {
	return &Generator{symbols: symbols}
}

// Generate compiles a type-checked program. A TINY program becomes a
// single function named main; a C-Minus program contributes one function
// per function declaration and one global per top-level variable.
func Generate(root *ast.Node, symbols *analyze.SymbolTable, lang token.Language) (*Unit, error) {
	g := NewGenerator(symbols)
	unit := &Unit{Slots: symbols.Len()}

	if lang == token.Tiny {
		g.Begin("main", nil)
		g.CompileStatement(root)
		unit.Functions = append(unit.Functions, g.End())
		return unit, g.Err()
	}

	for _, decl := range root.Children {
		switch decl.Kind {
		case ast.VarDecl:
			unit.Globals = append(unit.Globals, Global{Slot: g.slot(decl.Name), Size: decl.Size})
		case ast.FuncDecl:
			params := decl.Children[:len(decl.Children)-1]
			body := decl.Children[len(decl.Children)-1]
			slots := make([]int, len(params))
			for i, param := range params {
				slots[i] = g.slot(param.Name)
			}
			g.Begin(decl.Name, slots)
			g.CompileStatement(body)
			unit.Functions = append(unit.Functions, g.End())
		default:
			return nil, fmt.Errorf("codegen: %s is not a declaration", decl.Kind)
		}
	}
	return unit, g.Err()
}

// Begin starts a new function block. Line marks are tracked per block.
func (g *Generator) Begin(name string, params []int) {
	g.fn = &Function{Name: name, Params: params}
	g.marked = make(map[int]bool)
}

// End closes the current block with a return and hands it over.
func (g *Generator) End() *Function {
	g.emit(Instruction{Op: OpRet})
	fn := g.fn
	g.fn = nil
	return fn
}

// Err reports the first identifier that had no slot in the symbol table.
func (g *Generator) Err() error {
	return g.err
}

// Code returns the instructions of the current block so far.
func (g *Generator) Code() []Instruction {
	if g.fn == nil {
		return nil
	}
	return g.fn.Code
}

func (g *Generator) emit(in Instruction) {
	if g.fn == nil {
		g.Begin("main", nil)
	}
	g.fn.Code = append(g.fn.Code, in)
}

func (g *Generator) newLabel() Label {
	g.labels++
	return Label(g.labels)
}

func (g *Generator) placeLabel(l Label) {
	g.emit(Instruction{Op: OpLabel, Label: l})
}

func (g *Generator) markLine(line int) {
	if g.fn == nil {
		g.Begin("main", nil)
	}
	if g.marked[line] {
		return
	}
	g.marked[line] = true
	g.fn.Lines = append(g.fn.Lines, LineEntry{Line: line, PC: len(g.fn.Code)})
}

func (g *Generator) slot(name string) int {
	slot, ok := g.symbols.Slot(name)
	if !ok && g.err == nil {
		g.err = fmt.Errorf("codegen: no storage slot for %q", name)
	}
	return slot
}

// CompileStatement appends the code for a statement to the current block.
func (g *Generator) CompileStatement(n *ast.Node) {
	if n.Kind != ast.Sequence {
		g.markLine(n.Line)
	}

	switch n.Kind {
	case ast.Sequence:
		for _, child := range n.Children {
			g.CompileStatement(child)
		}

	case ast.If:
		elseLabel := g.newLabel()
		afterLabel := g.newLabel()
		g.compileCondition(n.Children[0], OpIfCmpNE, elseLabel)
		g.CompileStatement(n.Children[1])
		g.emit(Instruction{Op: OpGoto, Label: afterLabel})
		g.placeLabel(elseLabel)
		if len(n.Children) > 2 {
			g.CompileStatement(n.Children[2])
		}
		g.placeLabel(afterLabel)

	case ast.Repeat:
		startLabel := g.newLabel()
		exitLabel := g.newLabel()
		g.placeLabel(startLabel)
		g.CompileStatement(n.Children[0])
		g.compileCondition(n.Children[1], OpIfCmpEQ, exitLabel)
		g.emit(Instruction{Op: OpGoto, Label: startLabel})
		g.placeLabel(exitLabel)

	case ast.While:
		startLabel := g.newLabel()
		exitLabel := g.newLabel()
		g.placeLabel(startLabel)
		g.compileCondition(n.Children[0], OpIfCmpNE, exitLabel)
		g.CompileStatement(n.Children[1])
		g.emit(Instruction{Op: OpGoto, Label: startLabel})
		g.placeLabel(exitLabel)

	case ast.AssignStmt:
		g.CompileExpression(n.Children[0])
		g.emit(Instruction{Op: OpStore, Arg: g.slot(n.Name)})

	case ast.Read:
		g.emit(Instruction{Op: OpRead})
		g.emit(Instruction{Op: OpStore, Arg: g.slot(n.Name)})

	case ast.Write:
		g.CompileExpression(n.Children[0])
		g.emit(Instruction{Op: OpWrite})

	case ast.Return:
		if len(n.Children) > 0 {
			g.CompileExpression(n.Children[0])
			g.emit(Instruction{Op: OpRet, Arg: 1})
		} else {
			g.emit(Instruction{Op: OpRet})
		}

	case ast.Compound:
		for _, child := range n.Children {
			g.CompileStatement(child)
		}

	case ast.VarDecl:
		if slot := g.slot(n.Name); !slices.Contains(g.fn.Locals, slot) {
			g.fn.Locals = append(g.fn.Locals, slot)
		}
		if n.Spec == ast.SpecIntArray {
			g.emit(Instruction{Op: OpNewArray, Arg: n.Size})
			g.emit(Instruction{Op: OpStore, Arg: g.slot(n.Name)})
		}

	case ast.Empty, ast.FuncDecl, ast.Param:
		// nothing to run

	case ast.Operator, ast.Constant, ast.Identifier, ast.Assign, ast.Call:
		g.CompileExpression(n)
		g.emit(Instruction{Op: OpPop})

	default:
		panic("codegen: unknown statement kind " + string(n.Kind))
	}
}

// compileCondition evaluates a boolean condition and branches to target
// when it compares to 1 with the given branch op.
func (g *Generator) compileCondition(cond *ast.Node, branch Op, target Label) {
	g.CompileExpression(cond)
	g.emit(Instruction{Op: OpPush, Arg: 1})
	g.emit(Instruction{Op: branch, Label: target})
}

// CompileExpression appends code that leaves the value of n on the stack.
func (g *Generator) CompileExpression(n *ast.Node) {
	switch n.Kind {
	case ast.Constant:
		g.emit(Instruction{Op: OpPush, Arg: n.Value})

	case ast.Identifier:
		if n.IsIndexed() {
			g.CompileExpression(n.Children[0])
			g.emit(Instruction{Op: OpALoad, Arg: g.slot(n.Name)})
		} else {
			g.emit(Instruction{Op: OpLoad, Arg: g.slot(n.Name)})
		}

	case ast.Operator:
		g.CompileExpression(n.Children[0])
		g.CompileExpression(n.Children[1])
		if n.Op.IsArithmetic() {
			g.emit(Instruction{Op: arithmeticOp(n.Op)})
			return
		}
		falseLabel := g.newLabel()
		afterLabel := g.newLabel()
		g.emit(Instruction{Op: branchIfFalse(n.Op), Label: falseLabel})
		g.emit(Instruction{Op: OpPush, Arg: 1})
		g.emit(Instruction{Op: OpGoto, Label: afterLabel})
		g.placeLabel(falseLabel)
		g.emit(Instruction{Op: OpPush, Arg: 0})
		g.placeLabel(afterLabel)

	case ast.Assign:
		target := n.Children[0]
		if target.IsIndexed() {
			g.CompileExpression(target.Children[0])
			g.CompileExpression(n.Children[1])
			g.emit(Instruction{Op: OpATee, Arg: g.slot(target.Name)})
		} else {
			g.CompileExpression(n.Children[1])
			g.emit(Instruction{Op: OpTee, Arg: g.slot(target.Name)})
		}

	case ast.Call:
		switch {
		case n.Name == BuiltinInput && len(n.Children) == 0:
			g.emit(Instruction{Op: OpRead})
		case n.Name == BuiltinOutput && len(n.Children) == 1:
			g.CompileExpression(n.Children[0])
			g.emit(Instruction{Op: OpWrite})
			g.emit(Instruction{Op: OpPush, Arg: 0})
		default:
			for _, arg := range n.Children {
				g.CompileExpression(arg)
			}
			g.emit(Instruction{Op: OpCall, Name: n.Name, Arg: len(n.Children)})
		}

	default:
		panic("codegen: unknown expression kind " + string(n.Kind))
	}
}
