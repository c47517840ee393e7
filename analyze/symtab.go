package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strager/tinyc/ast"
)

// Symbol is one occurrence of a name in the source.
type Symbol struct {
	Name string
	Slot int
	Line int
}

// SymbolTable maps each name to its occurrences. All occurrences of a name
// share the slot assigned when the name was first seen.
type SymbolTable struct {
	entries map[string][]Symbol
	names   []string // in slot order
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string][]Symbol)}
}

// Traverse calls pre before visiting a node's children and post after.
// Either hook may be nil.
func Traverse(n *ast.Node, pre, post func(*ast.Node)) {
	if n == nil {
		return
	}
	if pre != nil {
		pre(n)
	}
	for _, child := range n.Children {
		Traverse(child, pre, post)
	}
	if post != nil {
		post(n)
	}
}

// BuildSymbolTable records every named node of the tree. Slots are handed
// out in pre-order, so the same tree always gets the same layout.
func BuildSymbolTable(root *ast.Node) *SymbolTable {
	st := NewSymbolTable()
	Traverse(root, func(n *ast.Node) {
		if n.Name != "" {
			st.Add(n.Name, n.Line)
		}
	}, nil)
	return st
}

// Add records an occurrence of name on line and returns its slot.
// Re-declaration is permitted and reuses the existing slot.
func (st *SymbolTable) Add(name string, line int) int {
	entries, ok := st.entries[name]
	slot := len(st.names)
	if ok {
		slot = entries[0].Slot
	} else {
		st.names = append(st.names, name)
	}
	entries = append(entries, Symbol{Name: name, Slot: slot, Line: line})
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Line < entries[j].Line
	})
	st.entries[name] = entries
	return slot
}

// Lookup returns the occurrences of name, ordered by line.
func (st *SymbolTable) Lookup(name string) []Symbol {
	return st.entries[name]
}

// Slot returns the slot assigned to name.
func (st *SymbolTable) Slot(name string) (int, bool) {
	entries, ok := st.entries[name]
	if !ok {
		return 0, false
	}
	return entries[0].Slot, true
}

// Len returns the number of slots, one per distinct name.
func (st *SymbolTable) Len() int {
	return len(st.names)
}

// Names returns every name in slot order.
func (st *SymbolTable) Names() []string {
	return append([]string(nil), st.names...)
}

// String dumps the table in slot order, one name per line:
//
//	0 x: 1 2 3
func (st *SymbolTable) String() string {
	var b strings.Builder
	for slot, name := range st.names {
		fmt.Fprintf(&b, "%d %s:", slot, name)
		for _, sym := range st.entries[name] {
			fmt.Fprintf(&b, " %d", sym.Line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
