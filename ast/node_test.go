package ast

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/tinyc/token"
)

func constant(line, v int) *Node {
	return &Node{Kind: Constant, Line: line, Value: v}
}

func ident(line int, name string) *Node {
	return &Node{Kind: Identifier, Line: line, Name: name}
}

func TestCategories(t *testing.T) {
	be.Equal(t, Sequence.Category(), Statement)
	be.Equal(t, Empty.Category(), Statement)
	be.Equal(t, Call.Category(), Expression)
	be.Equal(t, Assign.Category(), Expression)
	be.Equal(t, Param.Category(), Declaration)
}

func TestUnknownKindPanics(t *testing.T) {
	defer func() {
		be.True(t, recover() != nil)
	}()
	Kind("BOGUS").Category()
}

func TestRenderNested(t *testing.T) {
	tree := &Node{Kind: Sequence, Line: 1, Children: []*Node{
		{Kind: Read, Line: 1, Name: "x"},
		{Kind: Write, Line: 2, Children: []*Node{
			{Kind: Operator, Line: 2, Op: token.TIMES, Children: []*Node{ident(2, "x"), constant(2, 2)}},
		}},
	}}

	be.Equal(t, Render(tree), `1:{READ x}
2:{WRITE
    2:{TIMES
        2:{x}
        2:{2}
    }
}
`)
	be.Equal(t, tree.String(), Render(tree))
}

func TestRenderSequenceInsideIf(t *testing.T) {
	tree := &Node{Kind: If, Line: 1, Children: []*Node{
		{Kind: Operator, Line: 1, Op: token.LT, Children: []*Node{constant(1, 0), ident(1, "x")}},
		{Kind: Sequence, Line: 2, Children: []*Node{
			{Kind: AssignStmt, Line: 2, Name: "y", Children: []*Node{constant(2, 1)}},
			{Kind: AssignStmt, Line: 3, Name: "z", Children: []*Node{constant(3, 2)}},
		}},
	}}

	be.Equal(t, Render(tree), `1:{IF
    1:{LT
        1:{0}
        1:{x}
    }
    2:{ASSIGN y
        2:{1}
    }
    3:{ASSIGN z
        3:{2}
    }
}
`)
}

func TestRenderCalls(t *testing.T) {
	be.Equal(t, Render(&Node{Kind: Call, Line: 4, Name: "input"}), "4:{input( )}\n")
	be.Equal(t, Render(&Node{Kind: Call, Line: 4, Name: "output", Children: []*Node{ident(4, "x")}}), `4:{output(
    4:{x}
)}
`)
}

func TestRenderDeclarations(t *testing.T) {
	fn := &Node{Kind: FuncDecl, Line: 1, Name: "f", Spec: SpecVoid, Size: -1, Children: []*Node{
		{Kind: Param, Line: 1, Name: "a", Spec: SpecIntArray, Size: -1},
		{Kind: Compound, Line: 2, Children: []*Node{
			{Kind: VarDecl, Line: 2, Name: "t", Spec: SpecInt, Size: -1},
			{Kind: Return, Line: 3},
		}},
	}}

	be.Equal(t, Render(fn), `1:{VOID f
    1:{INT_ARRAY a}
    2:{COMPOUND
        2:{INT t}
        3:{RETURN}
    }
}
`)
	be.Equal(t, ToSExpr(fn), `(func "f" VOID (param "a" INT_ARRAY) (block (var "t" INT) (return)))`)
}

func TestToSExpr(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{nil, "()"},
		{constant(1, 7), "(const 7)"},
		{&Node{Kind: Identifier, Name: "a", Children: []*Node{constant(1, 0)}}, `(idx "a" (const 0))`},
		{&Node{Kind: Assign, Children: []*Node{ident(1, "a"), constant(1, 1)}}, `(assign (ident "a") (const 1))`},
		{&Node{Kind: Repeat, Children: []*Node{{Kind: Sequence}, ident(1, "b")}}, `(repeat (seq) (ident "b"))`},
		{&Node{Kind: While, Children: []*Node{ident(1, "c"), {Kind: Empty}}}, `(while (ident "c") (empty))`},
		{&Node{Kind: VarDecl, Name: "v", Spec: SpecIntArray, Size: 3}, `(var "v" INT_ARRAY 3)`},
	}

	for _, tt := range tests {
		be.Equal(t, ToSExpr(tt.node), tt.want)
	}
}

func TestIsIndexed(t *testing.T) {
	be.True(t, !ident(1, "a").IsIndexed())
	be.True(t, (&Node{Kind: Identifier, Name: "a", Children: []*Node{constant(1, 0)}}).IsIndexed())
	be.True(t, !(&Node{Kind: Call, Name: "f", Children: []*Node{constant(1, 0)}}).IsIndexed())
}
