package ast

import (
	"strconv"
	"strings"
)

const indentUnit = "    "

// Render produces the line-prefixed, depth-indented text form of a tree.
// Sequence nodes are transparent: their children print at the sequence's
// own depth.
func Render(n *Node) string {
	var b strings.Builder
	render(&b, n, 0)
	return b.String()
}

func (n *Node) String() string {
	return Render(n)
}

func render(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	if n.Kind == Sequence {
		for _, child := range n.Children {
			render(b, child, depth)
		}
		return
	}

	indent := strings.Repeat(indentUnit, depth)
	b.WriteString(indent)
	b.WriteString(strconv.Itoa(n.Line))
	b.WriteString(":{")
	b.WriteString(label(n))

	closing := "}"
	if n.Kind == Call {
		closing = ")}"
	}
	if len(n.Children) == 0 {
		if n.Kind == Call {
			b.WriteString(" ")
		}
		b.WriteString(closing)
		b.WriteByte('\n')
		return
	}
	b.WriteByte('\n')
	for _, child := range n.Children {
		render(b, child, depth+1)
	}
	b.WriteString(indent)
	b.WriteString(closing)
	b.WriteByte('\n')
}

func label(n *Node) string {
	switch n.Kind {
	case AssignStmt, Read:
		return string(n.Kind) + " " + n.Name
	case If, Repeat, Write, While, Return, Compound, Empty, Sequence:
		return string(n.Kind)
	case Operator:
		return string(n.Op)
	case Constant:
		return strconv.Itoa(n.Value)
	case Identifier:
		return n.Name
	case Assign:
		return "="
	case Call:
		return n.Name + "("
	case VarDecl, FuncDecl, Param:
		return string(n.Spec) + " " + n.Name
	}
	panic("ast: unknown node kind " + string(n.Kind))
}

// ToSExpr converts an AST node to a one-line s-expression, used in
// diagnostics and verbose output.
func ToSExpr(n *Node) string {
	if n == nil {
		return "()"
	}
	switch n.Kind {
	case Constant:
		return "(const " + strconv.Itoa(n.Value) + ")"
	case Identifier:
		if n.IsIndexed() {
			return "(idx " + strconv.Quote(n.Name) + " " + ToSExpr(n.Children[0]) + ")"
		}
		return "(ident " + strconv.Quote(n.Name) + ")"
	case Operator:
		return "(binary " + strconv.Quote(string(n.Op)) + " " + ToSExpr(n.Children[0]) + " " + ToSExpr(n.Children[1]) + ")"
	case Assign:
		return "(assign " + ToSExpr(n.Children[0]) + " " + ToSExpr(n.Children[1]) + ")"
	case Call:
		return list("call "+strconv.Quote(n.Name), n.Children)
	case Sequence:
		return list("seq", n.Children)
	case If:
		return list("if", n.Children)
	case Repeat:
		return list("repeat", n.Children)
	case AssignStmt:
		return list("set "+strconv.Quote(n.Name), n.Children)
	case Read:
		return "(read " + strconv.Quote(n.Name) + ")"
	case Write:
		return list("write", n.Children)
	case While:
		return list("while", n.Children)
	case Return:
		return list("return", n.Children)
	case Compound:
		return list("block", n.Children)
	case Empty:
		return "(empty)"
	case VarDecl:
		if n.Spec == SpecIntArray {
			return "(var " + strconv.Quote(n.Name) + " " + string(n.Spec) + " " + strconv.Itoa(n.Size) + ")"
		}
		return "(var " + strconv.Quote(n.Name) + " " + string(n.Spec) + ")"
	case Param:
		return "(param " + strconv.Quote(n.Name) + " " + string(n.Spec) + ")"
	case FuncDecl:
		return list("func "+strconv.Quote(n.Name)+" "+string(n.Spec), n.Children)
	}
	panic("ast: unknown node kind " + string(n.Kind))
}

func list(head string, children []*Node) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(head)
	for _, child := range children {
		b.WriteString(" ")
		b.WriteString(ToSExpr(child))
	}
	b.WriteString(")")
	return b.String()
}
