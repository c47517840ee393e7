package compiler

import (
	"os"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/diag"
	"github.com/strager/tinyc/parser"
	"github.com/strager/tinyc/token"
)

func TestCompileExamples(t *testing.T) {
	tests := []struct {
		file      string
		functions []string
	}{
		{"../examples/factorial.tny", []string{"main"}},
		{"../examples/gcd.cm", []string{"gcd", "main"}},
		{"../examples/sort.cm", []string{"minloc", "sort", "main"}},
	}

	for _, tt := range tests {
		src, err := os.ReadFile(tt.file)
		be.Err(t, err, nil)
		lang, err := LanguageFor(tt.file)
		be.Err(t, err, nil)

		result, err := Compile(src, Options{Language: lang})
		be.Err(t, err, nil)

		var names []string
		for _, fn := range result.Unit.Functions {
			names = append(names, fn.Name)
		}
		be.Equal(t, names, tt.functions)
		be.Equal(t, result.Unit.Slots, result.Symbols.Len())
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	src, err := os.ReadFile("../examples/sort.cm")
	be.Err(t, err, nil)

	first, err := Compile(src, Options{Language: token.CMinus})
	be.Err(t, err, nil)
	interner := token.NewInterner()
	for range 3 {
		again, err := Compile(src, Options{Language: token.CMinus, Interner: interner})
		be.Err(t, err, nil)
		be.Equal(t, again.Unit.Listing(), first.Unit.Listing())
		be.Equal(t, ast.Render(again.AST), ast.Render(first.AST))
		be.Equal(t, again.Symbols.String(), first.Symbols.String())
	}
}

func TestCompileStopsAtFirstError(t *testing.T) {
	tests := []struct {
		src  string
		kind diag.Kind
	}{
		{"write #", diag.Lexical},
		{"write", diag.Syntax},
		{"write 1 < 2", diag.Semantic},
	}

	for _, tt := range tests {
		result, err := Compile([]byte(tt.src), Options{Language: token.Tiny})
		be.True(t, result == nil)
		be.Equal(t, diag.KindOf(err), tt.kind)
	}
}

func TestParseEntryPoints(t *testing.T) {
	opts := Options{Language: token.CMinus}

	node, err := Parse([]byte("x = 1"), opts, parser.ParseExpression)
	be.Err(t, err, nil)
	be.Equal(t, node.Kind, ast.Assign)

	node, err = Parse([]byte("int x;"), opts, parser.ParseDeclaration)
	be.Err(t, err, nil)
	be.Equal(t, node.Kind, ast.VarDecl)

	node, err = Parse([]byte("return;"), opts, parser.ParseStatement)
	be.Err(t, err, nil)
	be.Equal(t, node.Kind, ast.Return)
}

func TestAnalyzeTypesTree(t *testing.T) {
	root, err := Parse([]byte("a < b"), Options{Language: token.Tiny}, parser.ParseExpression)
	be.Err(t, err, nil)
	symbols, err := Analyze(root)
	be.Err(t, err, nil)
	be.Equal(t, symbols.Names(), []string{"a", "b"})
	be.Equal(t, root.Type, ast.Boolean)
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		file string
		want token.Language
	}{
		{"a.tny", token.Tiny},
		{"dir/b.TINY", token.Tiny},
		{"c.cm", token.CMinus},
		{"d.cminus", token.CMinus},
	}
	for _, tt := range tests {
		lang, err := LanguageFor(tt.file)
		be.Err(t, err, nil)
		be.Equal(t, lang, tt.want)
	}

	_, err := LanguageFor("e.c")
	be.True(t, err != nil)
	be.Equal(t, err.Error(), "cannot tell the language of e.c; use -lang")
}
