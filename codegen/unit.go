package codegen

import (
	"fmt"
	"strings"
)

// Global is a top-level variable. Size is the element count of an array,
// or -1 for a scalar.
type Global struct {
	Slot int
	Size int
}

// LineEntry maps a source line to the first instruction generated for it.
type LineEntry struct {
	Line int
	PC   int
}

// Function is one generated instruction block.
type Function struct {
	Name   string
	Params []int // slots receiving the arguments, in order
	Locals []int // slots declared inside the body; these shadow globals
	Code   []Instruction
	Lines  []LineEntry
}

// Unit is everything the object-code emitter needs: the storage layout and
// the generated functions.
type Unit struct {
	Slots     int
	Globals   []Global
	Functions []*Function
}

// Function returns the function called name, or nil.
func (u *Unit) Function(name string) *Function {
	for _, fn := range u.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Listing renders the unit as text assembly, the form written by
// "tinyc build". The output is stable for a given unit.
func (u *Unit) Listing() string {
	var b strings.Builder
	fmt.Fprintf(&b, ".slots %d\n", u.Slots)
	for _, g := range u.Globals {
		if g.Size >= 0 {
			fmt.Fprintf(&b, ".global %d %d\n", g.Slot, g.Size)
		} else {
			fmt.Fprintf(&b, ".global %d\n", g.Slot)
		}
	}
	for _, fn := range u.Functions {
		b.WriteString(fn.Listing())
	}
	return b.String()
}

// Listing renders one function. Labels sit at column zero, other
// instructions are indented, and ".line" marks where each source line begins.
func (fn *Function) Listing() string {
	var b strings.Builder
	b.WriteString(".func ")
	b.WriteString(fn.Name)
	for _, slot := range fn.Params {
		fmt.Fprintf(&b, " %d", slot)
	}
	b.WriteByte('\n')
	if len(fn.Locals) > 0 {
		b.WriteString(".locals")
		for _, slot := range fn.Locals {
			fmt.Fprintf(&b, " %d", slot)
		}
		b.WriteByte('\n')
	}

	next := 0
	for pc, in := range fn.Code {
		for next < len(fn.Lines) && fn.Lines[next].PC == pc {
			fmt.Fprintf(&b, ".line %d\n", fn.Lines[next].Line)
			next++
		}
		if in.Op != OpLabel {
			b.WriteString("    ")
		}
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	for ; next < len(fn.Lines); next++ {
		fmt.Fprintf(&b, ".line %d\n", fn.Lines[next].Line)
	}
	b.WriteString(".end\n")
	return b.String()
}
