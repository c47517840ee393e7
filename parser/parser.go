package parser

import (
	"fmt"

	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/diag"
	"github.com/strager/tinyc/token"
)

// Parser is a recursive-descent parser with one token of lookahead.
// It stops at the first syntax error.
type Parser struct {
	tokens []*token.Token
	pos    int
	tok    *token.Token // current token
	lang   token.Language
}

// New creates a parser over tokens as produced by lexer.Scan. A missing
// trailing EOF is tolerated.
func New(tokens []*token.Token, lang token.Language) *Parser {
	p := &Parser{tokens: tokens, pos: -1, lang: lang}
	p.next()
	return p
}

// ParseProgram parses a whole compilation unit into a Sequence of TINY
// statements or C-Minus declarations.
func ParseProgram(tokens []*token.Token, lang token.Language) (*ast.Node, error) {
	return parseAll(New(tokens, lang), (*Parser).Program)
}

// ParseDeclaration parses a single C-Minus declaration.
func ParseDeclaration(tokens []*token.Token, lang token.Language) (*ast.Node, error) {
	return parseAll(New(tokens, lang), (*Parser).Declaration)
}

// ParseStatementSequence parses statements into a Sequence.
func ParseStatementSequence(tokens []*token.Token, lang token.Language) (*ast.Node, error) {
	return parseAll(New(tokens, lang), (*Parser).StatementSequence)
}

// ParseStatement parses a single statement.
func ParseStatement(tokens []*token.Token, lang token.Language) (*ast.Node, error) {
	return parseAll(New(tokens, lang), (*Parser).Statement)
}

// ParseExpression parses a single expression.
func ParseExpression(tokens []*token.Token, lang token.Language) (*ast.Node, error) {
	return parseAll(New(tokens, lang), (*Parser).Expression)
}

// parseAll runs one production and requires it to consume all input.
func parseAll(p *Parser, production func(*Parser) (*ast.Node, error)) (*ast.Node, error) {
	node, err := production(p)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != token.EOF {
		return nil, p.unexpected()
	}
	return node, nil
}

// Program parses a whole compilation unit.
func (p *Parser) Program() (*ast.Node, error) {
	if p.lang == token.Tiny {
		return p.tinySequence()
	}
	return p.declarationList()
}

// Declaration parses one declaration. TINY has none.
func (p *Parser) Declaration() (*ast.Node, error) {
	if p.lang == token.Tiny {
		return nil, diag.Syntaxf(p.tok.Line, "declarations are not supported in %s", p.lang)
	}
	return p.declaration()
}

// StatementSequence parses statements up to the end of the enclosing block.
func (p *Parser) StatementSequence() (*ast.Node, error) {
	if p.lang == token.Tiny {
		return p.tinySequence()
	}
	return p.statementList()
}

// Statement parses one statement.
func (p *Parser) Statement() (*ast.Node, error) {
	if p.lang == token.Tiny {
		return p.tinyStatement()
	}
	return p.statement()
}

// Expression parses one expression.
func (p *Parser) Expression() (*ast.Node, error) {
	return p.expression()
}

// next advances to the following token. Past the end it keeps returning
// a synthesized EOF.
func (p *Parser) next() {
	if p.pos+1 < len(p.tokens) {
		p.pos++
		p.tok = p.tokens[p.pos]
		return
	}
	line := 1
	if p.tok != nil {
		line = p.tok.Line
	} else if len(p.tokens) > 0 {
		line = p.tokens[len(p.tokens)-1].Line
	}
	p.tok = &token.Token{Kind: token.EOF, Line: line}
}

// match consumes the current token if it has the expected kind.
func (p *Parser) match(expected token.Kind) error {
	if p.tok.Kind != expected {
		return diag.Syntaxf(p.tok.Line, "expected %s, found %s", expected, describe(p.tok))
	}
	p.next()
	return nil
}

// matchName consumes an identifier and returns its name.
func (p *Parser) matchName() (string, error) {
	name := p.tok.Name
	if err := p.match(token.IDENTIFIER); err != nil {
		return "", err
	}
	return name, nil
}

func (p *Parser) unexpected() error {
	return diag.Syntaxf(p.tok.Line, "unexpected %s", describe(p.tok))
}

func describe(t *token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.IDENTIFIER:
		return fmt.Sprintf("identifier '%s'", t.Name)
	case token.NUMBER:
		return fmt.Sprintf("number %d", t.Value)
	}
	return fmt.Sprintf("token %s", t.Kind)
}
