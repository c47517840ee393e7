package parser

import (
	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/diag"
	"github.com/strager/tinyc/token"
)

// isRelop reports whether kind is a comparison operator in the active language.
func (p *Parser) isRelop(kind token.Kind) bool {
	if p.lang == token.Tiny {
		return kind == token.LT || kind == token.EQ
	}
	return kind.IsRelational()
}

// expression → simple [relop simple]
// C-Minus adds: expression → var = expression
func (p *Parser) expression() (*ast.Node, error) {
	left, err := p.simpleExpression()
	if err != nil {
		return nil, err
	}

	if p.lang == token.CMinus && p.tok.Kind == token.ASSIGN {
		if left.Kind != ast.Identifier {
			return nil, diag.Syntaxf(p.tok.Line, "cannot assign to %s", ast.ToSExpr(left))
		}
		line := p.tok.Line
		p.next()
		value, err := p.expression() // right-associative
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Assign, Line: line, Children: []*ast.Node{left, value}}, nil
	}

	// At most one comparison: the right operand is a simple expression.
	if p.isRelop(p.tok.Kind) {
		op := p.tok
		p.next()
		right, err := p.simpleExpression()
		if err != nil {
			return nil, err
		}
		return binary(op, left, right), nil
	}
	return left, nil
}

// simple → term {(+|-) term}
func (p *Parser) simpleExpression() (*ast.Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == token.PLUS || p.tok.Kind == token.MINUS {
		op := p.tok
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
	return left, nil
}

// term → factor {(*|/) factor}
func (p *Parser) term() (*ast.Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == token.TIMES || p.tok.Kind == token.OVER {
		op := p.tok
		p.next()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
	return left, nil
}

// factor → ( expression ) | NUMBER | ID [ '[' expression ']' | '(' args ')' ]
func (p *Parser) factor() (*ast.Node, error) {
	switch p.tok.Kind {
	case token.LPAREN:
		p.next()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.match(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case token.NUMBER:
		node := &ast.Node{Kind: ast.Constant, Line: p.tok.Line, Value: p.tok.Value}
		p.next()
		return node, nil

	case token.IDENTIFIER:
		node := &ast.Node{Kind: ast.Identifier, Line: p.tok.Line, Name: p.tok.Name}
		p.next()
		if p.lang == token.Tiny {
			return node, nil
		}
		switch p.tok.Kind {
		case token.LBRACKET:
			p.next()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.match(token.RBRACKET); err != nil {
				return nil, err
			}
			node.Children = []*ast.Node{index}
		case token.LPAREN:
			p.next()
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}
			node.Kind = ast.Call
			node.Children = args
		}
		return node, nil
	}
	return nil, p.unexpected()
}

// arguments parses a possibly empty, comma-separated argument list and the
// closing parenthesis.
func (p *Parser) arguments() ([]*ast.Node, error) {
	var args []*ast.Node
	if p.tok.Kind != token.RPAREN {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.Kind != token.COMMA {
				break
			}
			p.next()
		}
	}
	if err := p.match(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func binary(op *token.Token, left, right *ast.Node) *ast.Node {
	return &ast.Node{
		Kind:     ast.Operator,
		Line:     op.Line,
		Op:       op.Kind,
		Children: []*ast.Node{left, right},
	}
}
