// Package vm runs generated units. It stands in for the external loader so
// programs can be executed from the command line and in tests.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/strager/tinyc/codegen"
)

// MaxCallDepth bounds recursion in the running program.
const MaxCallDepth = 10000

var (
	ErrNoMain       = errors.New("no function main")
	ErrDivideByZero = errors.New("division by zero")
	ErrInputEnded   = errors.New("unexpected end of input")
)

// value is a storage cell or stack entry: an integer or an array reference.
type value struct {
	Int   int
	Array []int
}

// Machine executes one unit. It is not safe for concurrent use.
type Machine struct {
	unit    *codegen.Unit
	globals []value
	global  map[int]bool
	local   map[*codegen.Function]map[int]bool // params and locals, per function
	labels  map[*codegen.Function]map[codegen.Label]int
	in      *bufio.Scanner
	out     *bufio.Writer
	depth   int
}

// New prepares a machine: labels are resolved and global arrays allocated.
func New(unit *codegen.Unit, in io.Reader, out io.Writer) (*Machine, error) {
	m := &Machine{
		unit:    unit,
		globals: make([]value, unit.Slots),
		global:  make(map[int]bool),
		local:   make(map[*codegen.Function]map[int]bool),
		labels:  make(map[*codegen.Function]map[codegen.Label]int),
		in:      bufio.NewScanner(in),
		out:     bufio.NewWriter(out),
	}
	for _, g := range unit.Globals {
		if g.Slot < 0 || g.Slot >= unit.Slots {
			return nil, fmt.Errorf("global slot %d out of range", g.Slot)
		}
		m.global[g.Slot] = true
		if g.Size >= 0 {
			m.globals[g.Slot] = value{Array: make([]int, g.Size)}
		}
	}
	for _, fn := range unit.Functions {
		local := make(map[int]bool)
		for _, slot := range fn.Params {
			local[slot] = true
		}
		for _, slot := range fn.Locals {
			local[slot] = true
		}
		m.local[fn] = local

		targets := make(map[codegen.Label]int)
		for pc, ins := range fn.Code {
			if ins.Op == codegen.OpLabel {
				targets[ins.Label] = pc
			}
		}
		for pc, ins := range fn.Code {
			if _, ok := targets[ins.Label]; ins.IsBranch() && !ok {
				return nil, fmt.Errorf("%s: instruction %d branches to undefined label %s", fn.Name, pc, ins.Label)
			}
		}
		m.labels[fn] = targets
	}
	return m, nil
}

// Run executes main of unit, reading integers from in and writing to out.
func Run(ctx context.Context, unit *codegen.Unit, in io.Reader, out io.Writer) error {
	m, err := New(unit, in, out)
	if err != nil {
		return err
	}
	return m.Run(ctx)
}

// Run executes main.
func (m *Machine) Run(ctx context.Context) error {
	fn := m.unit.Function("main")
	if fn == nil {
		return ErrNoMain
	}
	_, err := m.call(ctx, fn, nil)
	if flushErr := m.out.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// cell resolves slot in fn's frame. A global slot refers to the shared
// storage unless fn declares the same slot itself.
func (m *Machine) cell(fn *codegen.Function, frame []value, slot int) (*value, error) {
	if slot < 0 || slot >= len(frame) {
		return nil, fmt.Errorf("slot %d out of range", slot)
	}
	if m.global[slot] && !m.local[fn][slot] {
		return &m.globals[slot], nil
	}
	return &frame[slot], nil
}

func (m *Machine) element(fn *codegen.Function, frame []value, slot, index int) (*int, error) {
	c, err := m.cell(fn, frame, slot)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Array) {
		return nil, fmt.Errorf("index %d out of range for array of length %d", index, len(c.Array))
	}
	return &c.Array[index], nil
}

func (m *Machine) readInt() (int, error) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return 0, err
		}
		return 0, ErrInputEnded
	}
	line := strings.TrimSpace(m.in.Text())
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("invalid integer input %q", line)
	}
	return n, nil
}

func (m *Machine) call(ctx context.Context, fn *codegen.Function, args []value) (value, error) {
	if err := ctx.Err(); err != nil {
		return value{}, err
	}
	if m.depth >= MaxCallDepth {
		return value{}, fmt.Errorf("call depth exceeds %d", MaxCallDepth)
	}
	if len(args) != len(fn.Params) {
		return value{}, fmt.Errorf("%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	m.depth++
	defer func() { m.depth-- }()

	frame := make([]value, m.unit.Slots)
	for i, slot := range fn.Params {
		c, err := m.cell(fn, frame, slot)
		if err != nil {
			return value{}, err
		}
		*c = args[i]
	}

	v, err := m.exec(ctx, fn, frame)
	if err != nil {
		return value{}, fmt.Errorf("%s: %w", fn.Name, err)
	}
	return v, nil
}

func (m *Machine) exec(ctx context.Context, fn *codegen.Function, frame []value) (value, error) {
	var stack []value
	pop := func() value {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	push := func(v value) {
		stack = append(stack, v)
	}
	need := func(n int, pc int) error {
		if len(stack) < n {
			return fmt.Errorf("stack underflow at instruction %d", pc)
		}
		return nil
	}
	targets := m.labels[fn]

	for pc := 0; pc < len(fn.Code); pc++ {
		in := fn.Code[pc]
		switch in.Op {
		case codegen.OpLabel:

		case codegen.OpPush:
			push(value{Int: in.Arg})

		case codegen.OpNewArray:
			push(value{Array: make([]int, in.Arg)})

		case codegen.OpLoad:
			c, err := m.cell(fn, frame, in.Arg)
			if err != nil {
				return value{}, err
			}
			push(*c)

		case codegen.OpStore, codegen.OpTee:
			if err := need(1, pc); err != nil {
				return value{}, err
			}
			v := pop()
			c, err := m.cell(fn, frame, in.Arg)
			if err != nil {
				return value{}, err
			}
			*c = v
			if in.Op == codegen.OpTee {
				push(v)
			}

		case codegen.OpALoad:
			if err := need(1, pc); err != nil {
				return value{}, err
			}
			e, err := m.element(fn, frame, in.Arg, pop().Int)
			if err != nil {
				return value{}, err
			}
			push(value{Int: *e})

		case codegen.OpATee:
			if err := need(2, pc); err != nil {
				return value{}, err
			}
			v := pop()
			e, err := m.element(fn, frame, in.Arg, pop().Int)
			if err != nil {
				return value{}, err
			}
			*e = v.Int
			push(v)

		case codegen.OpAdd, codegen.OpSub, codegen.OpMul, codegen.OpDiv:
			if err := need(2, pc); err != nil {
				return value{}, err
			}
			b, a := pop().Int, pop().Int
			switch in.Op {
			case codegen.OpAdd:
				push(value{Int: int(int32(a + b))})
			case codegen.OpSub:
				push(value{Int: int(int32(a - b))})
			case codegen.OpMul:
				push(value{Int: int(int32(a * b))})
			case codegen.OpDiv:
				if b == 0 {
					return value{}, ErrDivideByZero
				}
				push(value{Int: int(int32(a / b))})
			}

		case codegen.OpIfCmpEQ, codegen.OpIfCmpNE, codegen.OpIfCmpLT,
			codegen.OpIfCmpGE, codegen.OpIfCmpGT, codegen.OpIfCmpLE:
			if err := need(2, pc); err != nil {
				return value{}, err
			}
			b, a := pop().Int, pop().Int
			if compare(in.Op, a, b) {
				pc = targets[in.Label]
			}

		case codegen.OpGoto:
			if err := ctx.Err(); err != nil {
				return value{}, err
			}
			pc = targets[in.Label]

		case codegen.OpRead:
			n, err := m.readInt()
			if err != nil {
				return value{}, err
			}
			push(value{Int: n})

		case codegen.OpWrite:
			if err := need(1, pc); err != nil {
				return value{}, err
			}
			fmt.Fprintln(m.out, pop().Int)

		case codegen.OpCall:
			if err := need(in.Arg, pc); err != nil {
				return value{}, err
			}
			callee := m.unit.Function(in.Name)
			if callee == nil {
				return value{}, fmt.Errorf("call to undefined function %s", in.Name)
			}
			args := append([]value(nil), stack[len(stack)-in.Arg:]...)
			stack = stack[:len(stack)-in.Arg]
			result, err := m.call(ctx, callee, args)
			if err != nil {
				return value{}, err
			}
			push(result)

		case codegen.OpRet:
			if in.Arg == 1 {
				if err := need(1, pc); err != nil {
					return value{}, err
				}
				return pop(), nil
			}
			return value{}, nil

		case codegen.OpPop:
			if err := need(1, pc); err != nil {
				return value{}, err
			}
			pop()

		default:
			return value{}, fmt.Errorf("unknown instruction %q", in.Op)
		}
	}
	return value{}, nil
}

func compare(op codegen.Op, a, b int) bool {
	switch op {
	case codegen.OpIfCmpEQ:
		return a == b
	case codegen.OpIfCmpNE:
		return a != b
	case codegen.OpIfCmpLT:
		return a < b
	case codegen.OpIfCmpGE:
		return a >= b
	case codegen.OpIfCmpGT:
		return a > b
	case codegen.OpIfCmpLE:
		return a <= b
	}
	return false
}
