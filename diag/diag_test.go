package diag

import (
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestErrorFormat(t *testing.T) {
	err := Syntaxf(7, "expected %s, found %s", "THEN", "end of input")
	be.Equal(t, err.Error(), "line 7: syntax error: expected THEN, found end of input")
	be.Equal(t, err.Line, 7)
	be.Equal(t, err.Kind, Syntax)
}

func TestKindOf(t *testing.T) {
	be.Equal(t, KindOf(Lexicalf(1, "unknown token '%c'", '$')), Lexical)
	be.Equal(t, KindOf(fmt.Errorf("compiling: %w", Semanticf(2, "bad"))), Semantic)
	be.Equal(t, KindOf(fmt.Errorf("plain")), Kind(""))
	be.Equal(t, KindOf(nil), Kind(""))
}
