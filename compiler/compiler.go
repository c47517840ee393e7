package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/strager/tinyc/analyze"
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/codegen"
	"github.com/strager/tinyc/lexer"
	"github.com/strager/tinyc/parser"
	"github.com/strager/tinyc/token"
)

// Options configure one compile.
type Options struct {
	Language token.Language
	// Interner, if set, is shared with other compiles.
	Interner *token.Interner
}

// Result holds the output of every stage.
type Result struct {
	AST     *ast.Node
	Symbols *analyze.SymbolTable
	Unit    *codegen.Unit
}

// Compile runs the whole pipeline on one compilation unit and stops at the
// first error.
func Compile(src []byte, opts Options) (*Result, error) {
	root, err := Parse(src, opts, parser.ParseProgram)
	if err != nil {
		return nil, err
	}
	symbols, err := Analyze(root)
	if err != nil {
		return nil, err
	}
	unit, err := codegen.Generate(root, symbols, opts.Language)
	if err != nil {
		return nil, err
	}
	return &Result{AST: root, Symbols: symbols, Unit: unit}, nil
}

// EntryPoint is one of the parser's per-category entry points.
type EntryPoint func([]*token.Token, token.Language) (*ast.Node, error)

// Parse lexes src and parses it with entry.
func Parse(src []byte, opts Options, entry EntryPoint) (*ast.Node, error) {
	tokens, err := lexer.Scan(src, opts.Language, opts.Interner)
	if err != nil {
		return nil, err
	}
	return entry(tokens, opts.Language)
}

// Analyze builds the symbol table and type-checks the tree in place.
func Analyze(root *ast.Node) (*analyze.SymbolTable, error) {
	symbols := analyze.BuildSymbolTable(root)
	if err := analyze.TypeCheck(root); err != nil {
		return nil, err
	}
	return symbols, nil
}

// LanguageFor picks the language from a file name's extension.
func LanguageFor(filename string) (token.Language, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tny", ".tiny":
		return token.Tiny, nil
	case ".cm", ".cminus":
		return token.CMinus, nil
	}
	return "", fmt.Errorf("cannot tell the language of %s; use -lang", filename)
}
