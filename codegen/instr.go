package codegen

import (
	"strconv"

	"github.com/strager/tinyc/token"
)

// Op is a stack machine opcode.
type Op string

const (
	OpPush     Op = "push"     // push Arg
	OpLoad     Op = "load"     // push slot Arg
	OpStore    Op = "store"    // pop into slot Arg
	OpTee      Op = "tee"      // store top of stack into slot Arg, keep it
	OpALoad    Op = "aload"    // pop index, push element of array in slot Arg
	OpATee     Op = "atee"     // pop value and index, store element, push value
	OpNewArray Op = "newarray" // push a new array of Arg zeroes
	OpAdd      Op = "add"
	OpSub      Op = "sub"
	OpMul      Op = "mul"
	OpDiv      Op = "div"
	OpIfCmpEQ  Op = "ifcmpeq" // pop b, pop a, branch to Label if a == b
	OpIfCmpNE  Op = "ifcmpne"
	OpIfCmpLT  Op = "ifcmplt"
	OpIfCmpGE  Op = "ifcmpge"
	OpIfCmpGT  Op = "ifcmpgt"
	OpIfCmpLE  Op = "ifcmple"
	OpGoto     Op = "goto"
	OpLabel    Op = "label" // branch target, no runtime effect
	OpRead     Op = "read"  // push an integer read from input
	OpWrite    Op = "write" // pop and print
	OpCall     Op = "call"  // call Name with Arg arguments, push its result
	OpRet      Op = "ret"   // return; Arg is 1 when a value is on the stack
	OpPop      Op = "pop"
)

// Label names a branch target within one function.
type Label int

func (l Label) String() string {
	return "L" + strconv.Itoa(int(l))
}

// Instruction is one element of a generated block.
type Instruction struct {
	Op    Op
	Arg   int
	Label Label
	Name  string
}

func (in Instruction) String() string {
	switch in.Op {
	case OpPush, OpLoad, OpStore, OpTee, OpALoad, OpATee, OpNewArray, OpRet:
		return string(in.Op) + " " + strconv.Itoa(in.Arg)
	case OpIfCmpEQ, OpIfCmpNE, OpIfCmpLT, OpIfCmpGE, OpIfCmpGT, OpIfCmpLE, OpGoto:
		return string(in.Op) + " " + in.Label.String()
	case OpLabel:
		return in.Label.String() + ":"
	case OpCall:
		return "call " + in.Name + " " + strconv.Itoa(in.Arg)
	}
	return string(in.Op)
}

// IsBranch reports whether the instruction may transfer control to Label.
func (in Instruction) IsBranch() bool {
	switch in.Op {
	case OpIfCmpEQ, OpIfCmpNE, OpIfCmpLT, OpIfCmpGE, OpIfCmpGT, OpIfCmpLE, OpGoto:
		return true
	}
	return false
}

func arithmeticOp(op token.Kind) Op {
	switch op {
	case token.PLUS:
		return OpAdd
	case token.MINUS:
		return OpSub
	case token.TIMES:
		return OpMul
	case token.OVER:
		return OpDiv
	}
	panic("codegen: unsupported arithmetic operator " + string(op))
}

// branchIfFalse returns the compare-and-branch that jumps when op does not
// hold.
func branchIfFalse(op token.Kind) Op {
	switch op {
	case token.EQ:
		return OpIfCmpNE
	case token.NE:
		return OpIfCmpEQ
	case token.LT:
		return OpIfCmpGE
	case token.LTE:
		return OpIfCmpGT
	case token.GT:
		return OpIfCmpLE
	case token.GTE:
		return OpIfCmpLT
	}
	panic("codegen: unsupported relational operator " + string(op))
}
