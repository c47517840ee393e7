package parser

import (
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/token"
)

// tinySequence → statement { ; statement }
//
// The sequence ends before else, end, until or end of input.
func (p *Parser) tinySequence() (*ast.Node, error) {
	seq := &ast.Node{Kind: ast.Sequence, Line: p.tok.Line}
	stmt, err := p.tinyStatement()
	if err != nil {
		return nil, err
	}
	seq.Children = append(seq.Children, stmt)
	for !p.endsTinySequence() {
		if err := p.match(token.SEMICOLON); err != nil {
			return nil, err
		}
		stmt, err := p.tinyStatement()
		if err != nil {
			return nil, err
		}
		seq.Children = append(seq.Children, stmt)
	}
	return seq, nil
}

func (p *Parser) endsTinySequence() bool {
	switch p.tok.Kind {
	case token.ELSE, token.END, token.UNTIL, token.EOF:
		return true
	}
	return false
}

func (p *Parser) tinyStatement() (*ast.Node, error) {
	line := p.tok.Line
	switch p.tok.Kind {
	case token.IF:
		p.next()
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.match(token.THEN); err != nil {
			return nil, err
		}
		then, err := p.tinySequence()
		if err != nil {
			return nil, err
		}
		node := &ast.Node{Kind: ast.If, Line: line, Children: []*ast.Node{cond, then}}
		if p.tok.Kind == token.ELSE {
			p.next()
			els, err := p.tinySequence()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, els)
		}
		if err := p.match(token.END); err != nil {
			return nil, err
		}
		return node, nil

	case token.REPEAT:
		p.next()
		body, err := p.tinySequence()
		if err != nil {
			return nil, err
		}
		if err := p.match(token.UNTIL); err != nil {
			return nil, err
		}
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Repeat, Line: line, Children: []*ast.Node{body, cond}}, nil

	case token.IDENTIFIER:
		name := p.tok.Name
		p.next()
		if err := p.match(token.ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.AssignStmt, Line: line, Name: name, Children: []*ast.Node{value}}, nil

	case token.READ:
		p.next()
		name, err := p.matchName()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Read, Line: line, Name: name}, nil

	case token.WRITE:
		p.next()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Write, Line: line, Children: []*ast.Node{value}}, nil
	}
	return nil, p.unexpected()
}
