package parser

import (
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/diag"
	"github.com/strager/tinyc/token"
)

// declarationList → declaration { declaration }
func (p *Parser) declarationList() (*ast.Node, error) {
	seq := &ast.Node{Kind: ast.Sequence, Line: p.tok.Line}
	for {
		decl, err := p.declaration()
		if err != nil {
			return nil, err
		}
		seq.Children = append(seq.Children, decl)
		if p.tok.Kind == token.EOF {
			return seq, nil
		}
	}
}

func (p *Parser) typeSpecifier() (ast.TypeSpec, error) {
	switch p.tok.Kind {
	case token.INT:
		p.next()
		return ast.SpecInt, nil
	case token.VOID:
		p.next()
		return ast.SpecVoid, nil
	}
	return "", p.unexpected()
}

// declaration → type-spec ID ( ; | [ NUM ] ; | ( params ) compound )
func (p *Parser) declaration() (*ast.Node, error) {
	line := p.tok.Line
	spec, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}
	name, err := p.matchName()
	if err != nil {
		return nil, err
	}

	switch p.tok.Kind {
	case token.SEMICOLON:
		p.next()
		return &ast.Node{Kind: ast.VarDecl, Line: line, Name: name, Spec: spec, Size: -1}, nil

	case token.LBRACKET:
		if spec == ast.SpecVoid {
			return nil, diag.Syntaxf(p.tok.Line, "array '%s' cannot have type void", name)
		}
		p.next()
		size := p.tok.Value
		if err := p.match(token.NUMBER); err != nil {
			return nil, err
		}
		if err := p.match(token.RBRACKET); err != nil {
			return nil, err
		}
		if err := p.match(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.VarDecl, Line: line, Name: name, Spec: ast.SpecIntArray, Size: size}, nil

	case token.LPAREN:
		p.next()
		params, err := p.params()
		if err != nil {
			return nil, err
		}
		if err := p.match(token.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.compound()
		if err != nil {
			return nil, err
		}
		return &ast.Node{
			Kind:     ast.FuncDecl,
			Line:     line,
			Name:     name,
			Spec:     spec,
			Size:     -1,
			Children: append(params, body),
		}, nil
	}
	return nil, p.unexpected()
}

// params → void | param { , param }
func (p *Parser) params() ([]*ast.Node, error) {
	if p.tok.Kind == token.VOID {
		p.next()
		return nil, nil
	}
	var params []*ast.Node
	for {
		param, err := p.param()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.tok.Kind != token.COMMA {
			return params, nil
		}
		p.next()
	}
}

// param → int ID [ '[' ']' ]
func (p *Parser) param() (*ast.Node, error) {
	line := p.tok.Line
	if err := p.match(token.INT); err != nil {
		return nil, err
	}
	name, err := p.matchName()
	if err != nil {
		return nil, err
	}
	node := &ast.Node{Kind: ast.Param, Line: line, Name: name, Spec: ast.SpecInt, Size: -1}
	if p.tok.Kind == token.LBRACKET {
		p.next()
		if err := p.match(token.RBRACKET); err != nil {
			return nil, err
		}
		node.Spec = ast.SpecIntArray
	}
	return node, nil
}

// compound → { local-declarations statement-list }
func (p *Parser) compound() (*ast.Node, error) {
	node := &ast.Node{Kind: ast.Compound, Line: p.tok.Line}
	if err := p.match(token.LBRACE); err != nil {
		return nil, err
	}
	for p.tok.Kind == token.INT || p.tok.Kind == token.VOID {
		decl, err := p.declaration()
		if err != nil {
			return nil, err
		}
		if decl.Kind != ast.VarDecl {
			return nil, diag.Syntaxf(decl.Line, "function '%s' declared inside a block", decl.Name)
		}
		node.Children = append(node.Children, decl)
	}
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, stmt)
	}
	if err := p.match(token.RBRACE); err != nil {
		return nil, err
	}
	return node, nil
}

// statementList parses statements until a closing brace or end of input.
func (p *Parser) statementList() (*ast.Node, error) {
	seq := &ast.Node{Kind: ast.Sequence, Line: p.tok.Line}
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		seq.Children = append(seq.Children, stmt)
	}
	return seq, nil
}

func (p *Parser) statement() (*ast.Node, error) {
	line := p.tok.Line
	switch p.tok.Kind {
	case token.LBRACE:
		return p.compound()

	case token.IF:
		p.next()
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		then, err := p.statement()
		if err != nil {
			return nil, err
		}
		node := &ast.Node{Kind: ast.If, Line: line, Children: []*ast.Node{cond, then}}
		if p.tok.Kind == token.ELSE {
			p.next()
			els, err := p.statement()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, els)
		}
		return node, nil

	case token.WHILE:
		p.next()
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		body, err := p.statement()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.While, Line: line, Children: []*ast.Node{cond, body}}, nil

	case token.RETURN:
		p.next()
		node := &ast.Node{Kind: ast.Return, Line: line}
		if p.tok.Kind != token.SEMICOLON {
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			node.Children = []*ast.Node{value}
		}
		if err := p.match(token.SEMICOLON); err != nil {
			return nil, err
		}
		return node, nil

	case token.SEMICOLON:
		p.next()
		return &ast.Node{Kind: ast.Empty, Line: line}, nil
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.match(token.SEMICOLON); err != nil {
		return nil, err
	}
	return expr, nil
}

// condition → ( expression )
func (p *Parser) condition() (*ast.Node, error) {
	if err := p.match(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.match(token.RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}
