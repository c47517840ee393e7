package ast

import "github.com/strager/tinyc/token"

// Category is the syntactic category a Kind belongs to.
type Category string

const (
	Declaration Category = "Declaration"
	Statement   Category = "Statement"
	Expression  Category = "Expression"
)

// Kind represents different types of AST nodes
type Kind string

const (
	// Statements
	Sequence   Kind = "SEQUENCE"
	If         Kind = "IF"
	Repeat     Kind = "REPEAT"
	AssignStmt Kind = "ASSIGN"
	Read       Kind = "READ"
	Write      Kind = "WRITE"
	While      Kind = "WHILE"
	Return     Kind = "RETURN"
	Compound   Kind = "COMPOUND"
	Empty      Kind = "EMPTY"

	// Expressions
	Operator   Kind = "OPERATOR"
	Constant   Kind = "CONSTANT"
	Identifier Kind = "IDENTIFIER"
	Assign     Kind = "ASSIGNMENT"
	Call       Kind = "CALL"

	// Declarations
	VarDecl  Kind = "VARIABLE"
	FuncDecl Kind = "FUNCTION"
	Param    Kind = "PARAM"
)

// Category reports which of the three node categories k belongs to.
func (k Kind) Category() Category {
	switch k {
	case Sequence, If, Repeat, AssignStmt, Read, Write, While, Return, Compound, Empty:
		return Statement
	case Operator, Constant, Identifier, Assign, Call:
		return Expression
	case VarDecl, FuncDecl, Param:
		return Declaration
	}
	panic("ast: unknown node kind " + string(k))
}

// Type is the semantic type the checker assigns to expressions.
type Type string

const (
	Untyped      Type = ""
	Void         Type = "VOID"
	Integer      Type = "INTEGER"
	Boolean      Type = "BOOLEAN"
	IntegerArray Type = "INTEGER_ARRAY"
)

// TypeSpec is the type written in a declaration.
type TypeSpec string

const (
	SpecInt      TypeSpec = "INT"
	SpecVoid     TypeSpec = "VOID"
	SpecIntArray TypeSpec = "INT_ARRAY"
)

// Node represents a node in the Abstract Syntax Tree
type Node struct {
	Kind Kind
	Line int
	// Identifier, Call, AssignStmt, Read and declarations:
	Name string
	// Constant:
	Value int
	// Operator:
	Op token.Kind
	// Declarations:
	Spec TypeSpec
	Size int // element count for INT_ARRAY variables, otherwise -1
	// Expressions, filled in by the type checker:
	Type Type

	Children []*Node
}

// Child returns the i'th child, or nil if there is none.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// IsIndexed reports whether an Identifier node is an array element reference.
func (n *Node) IsIndexed() bool {
	return n.Kind == Identifier && len(n.Children) == 1
}
