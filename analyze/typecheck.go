package analyze

import (
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/diag"
)

// TypeCheck assigns a type to every expression in the tree, bottom-up, and
// returns the first semantic error. Types are written into the nodes, so
// running it again on the same tree changes nothing.
func TypeCheck(root *ast.Node) error {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if err := TypeCheck(child); err != nil {
			return err
		}
	}
	return checkNode(root)
}

func checkNode(n *ast.Node) error {
	switch n.Kind {
	case ast.Constant:
		n.Type = ast.Integer

	case ast.Identifier:
		if n.IsIndexed() {
			if err := requireInteger(n.Children[0], "array index"); err != nil {
				return err
			}
		}
		n.Type = ast.Integer

	case ast.Operator:
		left, right := n.Children[0], n.Children[1]
		if left.Type != ast.Integer || right.Type != ast.Integer {
			return diag.Semanticf(n.Line, "operands of %s must be integers: %s", n.Op, ast.ToSExpr(n))
		}
		switch {
		case n.Op.IsArithmetic():
			n.Type = ast.Integer
		case n.Op.IsRelational():
			n.Type = ast.Boolean
		default:
			panic("analyze: unexpected operator " + string(n.Op))
		}

	case ast.Assign:
		if err := requireInteger(n.Children[1], "assigned value"); err != nil {
			return err
		}
		n.Type = ast.Integer

	case ast.Call:
		for _, arg := range n.Children {
			if err := requireInteger(arg, "argument to "+n.Name); err != nil {
				return err
			}
		}
		n.Type = ast.Integer

	case ast.If, ast.While:
		return requireBoolean(n.Children[0], n.Kind)

	case ast.Repeat:
		return requireBoolean(n.Children[1], n.Kind)

	case ast.AssignStmt:
		return requireInteger(n.Children[0], "assigned value")

	case ast.Write:
		return requireInteger(n.Children[0], "written value")

	case ast.Return:
		if len(n.Children) > 0 {
			return requireInteger(n.Children[0], "returned value")
		}

	case ast.Sequence, ast.Compound, ast.Empty, ast.Read,
		ast.VarDecl, ast.FuncDecl, ast.Param:
		// no constraints

	default:
		panic("analyze: unknown node kind " + string(n.Kind))
	}
	return nil
}

func requireInteger(n *ast.Node, what string) error {
	if n.Type != ast.Integer {
		return diag.Semanticf(n.Line, "%s must be an integer, got %s: %s", what, describeType(n.Type), ast.ToSExpr(n))
	}
	return nil
}

func requireBoolean(cond *ast.Node, stmt ast.Kind) error {
	if cond.Type != ast.Boolean {
		return diag.Semanticf(cond.Line, "%s condition must be boolean, got %s: %s", stmt, describeType(cond.Type), ast.ToSExpr(cond))
	}
	return nil
}

func describeType(t ast.Type) string {
	if t == ast.Untyped {
		return "untyped"
	}
	return string(t)
}
