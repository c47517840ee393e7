package codegen

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/tinyc/token"
)

func TestListing(t *testing.T) {
	unit := &Unit{
		Slots:   3,
		Globals: []Global{{Slot: 0, Size: 4}, {Slot: 1, Size: -1}},
		Functions: []*Function{{
			Name:   "f",
			Params: []int{2},
			Code: []Instruction{
				{Op: OpLabel, Label: 1},
				{Op: OpLoad, Arg: 2},
				{Op: OpRet, Arg: 1},
			},
			Lines: []LineEntry{{Line: 3, PC: 0}, {Line: 4, PC: 1}},
		}},
	}

	be.Equal(t, unit.Listing(), `.slots 3
.global 0 4
.global 1
.func f 2
.line 3
L1:
.line 4
    load 2
    ret 1
.end
`)
}

func TestListingShowsLocals(t *testing.T) {
	unit := generate(t, "int x;\nvoid main(void) { int x; x = 2; }", token.CMinus)
	be.Equal(t, unit.Function("main").Locals, []int{0})
	be.Equal(t, unit.Function("main").Listing(), `.func main
.locals 0
.line 2
    push 2
    tee 0
    pop
    ret 0
.end
`)
}
