package lexer

import (
	"math"

	"github.com/strager/tinyc/diag"
	"github.com/strager/tinyc/token"
)

// Lexer turns source text into tokens. A Lexer is single-use: once it has
// returned EOF or an error it stays there.
type Lexer struct {
	src      []byte
	pos      int // index of the next byte to consume
	line     int // current 1-based source line
	lang     token.Language
	interner *token.Interner
}

// New creates a lexer over src. interner may be nil.
func New(src []byte, lang token.Language, interner *token.Interner) *Lexer {
	return &Lexer{src: src, line: 1, lang: lang, interner: interner}
}

// Scan returns every token in src, ending with EOF.
func Scan(src []byte, lang token.Language, interner *token.Interner) ([]*token.Token, error) {
	l := New(src, lang, interner)
	var tokens []*token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// Line returns the line the lexer is currently on.
func (l *Lexer) Line() int {
	return l.line
}

// peek returns the byte at the current position, or 0 at end of input.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the byte after the current one, or 0 past end of input.
func (l *Lexer) peek2() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *Lexer) emit(t token.Token) *token.Token {
	t.Line = l.line
	if l.interner != nil {
		return l.interner.Intern(t)
	}
	return &t
}

func (l *Lexer) simple(kind token.Kind, width int) *token.Token {
	tok := l.emit(token.Token{Kind: kind})
	l.pos += width
	return tok
}

// Next scans the next token. At end of input it returns an EOF token.
func (l *Lexer) Next() (*token.Token, error) {
	if err := l.skipBlank(); err != nil {
		return nil, err
	}
	if l.atEnd() {
		return l.emit(token.Token{Kind: token.EOF}), nil
	}

	c := l.peek()
	if isDigit(c) {
		return l.readNumber()
	}
	if isLetter(c) {
		return l.readWord(), nil
	}

	if l.lang == token.Tiny {
		return l.tinyOperator(c)
	}
	return l.cminusOperator(c)
}

func (l *Lexer) tinyOperator(c byte) (*token.Token, error) {
	switch c {
	case '+':
		return l.simple(token.PLUS, 1), nil
	case '-':
		return l.simple(token.MINUS, 1), nil
	case '*':
		return l.simple(token.TIMES, 1), nil
	case '/':
		return l.simple(token.OVER, 1), nil
	case '<':
		return l.simple(token.LT, 1), nil
	case '=':
		return l.simple(token.EQ, 1), nil
	case '(':
		return l.simple(token.LPAREN, 1), nil
	case ')':
		return l.simple(token.RPAREN, 1), nil
	case ';':
		return l.simple(token.SEMICOLON, 1), nil
	case ':':
		if l.peek2() == '=' {
			return l.simple(token.ASSIGN, 2), nil
		}
	}
	return nil, diag.Lexicalf(l.line, "unknown token '%c'", c)
}

func (l *Lexer) cminusOperator(c byte) (*token.Token, error) {
	switch c {
	case '+':
		return l.simple(token.PLUS, 1), nil
	case '-':
		return l.simple(token.MINUS, 1), nil
	case '*':
		return l.simple(token.TIMES, 1), nil
	case '/':
		return l.simple(token.OVER, 1), nil
	case '<':
		if l.peek2() == '=' {
			return l.simple(token.LTE, 2), nil
		}
		return l.simple(token.LT, 1), nil
	case '>':
		if l.peek2() == '=' {
			return l.simple(token.GTE, 2), nil
		}
		return l.simple(token.GT, 1), nil
	case '=':
		if l.peek2() == '=' {
			return l.simple(token.EQ, 2), nil
		}
		return l.simple(token.ASSIGN, 1), nil
	case '!':
		if l.peek2() == '=' {
			return l.simple(token.NE, 2), nil
		}
	case ';':
		return l.simple(token.SEMICOLON, 1), nil
	case ',':
		return l.simple(token.COMMA, 1), nil
	case '(':
		return l.simple(token.LPAREN, 1), nil
	case ')':
		return l.simple(token.RPAREN, 1), nil
	case '[':
		return l.simple(token.LBRACKET, 1), nil
	case ']':
		return l.simple(token.RBRACKET, 1), nil
	case '{':
		return l.simple(token.LBRACE, 1), nil
	case '}':
		return l.simple(token.RBRACE, 1), nil
	}
	return nil, diag.Lexicalf(l.line, "unknown token '%c'", c)
}

// skipBlank skips whitespace and comments.
func (l *Lexer) skipBlank() error {
	for !l.atEnd() {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case l.lang == token.Tiny && c == '{':
			if err := l.skipTinyComment(); err != nil {
				return err
			}
		case l.lang == token.CMinus && c == '/' && l.peek2() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) skipTinyComment() error {
	start := l.line
	l.advance() // skip {
	for !l.atEnd() {
		switch l.advance() {
		case '}':
			return nil
		case '{':
			return diag.Lexicalf(l.line, "nested comment")
		}
	}
	return diag.Lexicalf(l.line, "unterminated comment starting on line %d", start)
}

func (l *Lexer) skipBlockComment() error {
	start := l.line
	l.pos += 2 // skip /*
	for !l.atEnd() {
		if l.peek() == '*' && l.peek2() == '/' {
			l.pos += 2
			return nil
		}
		if l.peek() == '/' && l.peek2() == '*' {
			return diag.Lexicalf(l.line, "nested comment")
		}
		l.advance()
	}
	return diag.Lexicalf(l.line, "unterminated comment starting on line %d", start)
}

func (l *Lexer) readNumber() (*token.Token, error) {
	val := 0
	for isDigit(l.peek()) {
		val = val*10 + int(l.advance()-'0')
		if val > math.MaxInt32 {
			return nil, diag.Lexicalf(l.line, "integer literal out of range")
		}
	}
	return l.emit(token.Token{Kind: token.NUMBER, Value: val}), nil
}

func (l *Lexer) readWord() *token.Token {
	start := l.pos
	for isLetter(l.peek()) {
		l.pos++
	}
	word := string(l.src[start:l.pos])
	if kind, ok := l.lang.Keyword(word); ok {
		return l.emit(token.Token{Kind: kind})
	}
	return l.emit(token.Token{Kind: token.IDENTIFIER, Name: word})
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
