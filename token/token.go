package token

import (
	"fmt"
	"strings"
)

// Kind is the type of token (identifier, operator, literal, etc.).
type Kind string

const (
	EOF Kind = "EOF"

	// Identifiers + literals
	IDENTIFIER Kind = "IDENTIFIER" // x, fact, gcd
	NUMBER     Kind = "NUMBER"     // 12345

	// Keywords shared by both languages
	IF   Kind = "IF"
	ELSE Kind = "ELSE"

	// TINY keywords
	THEN   Kind = "THEN"
	END    Kind = "END"
	REPEAT Kind = "REPEAT"
	UNTIL  Kind = "UNTIL"
	READ   Kind = "READ"
	WRITE  Kind = "WRITE"

	// C-Minus keywords
	WHILE  Kind = "WHILE"
	RETURN Kind = "RETURN"
	INT    Kind = "INT"
	VOID   Kind = "VOID"

	// Operators
	PLUS   Kind = "PLUS"   // +
	MINUS  Kind = "MINUS"  // -
	TIMES  Kind = "TIMES"  // *
	OVER   Kind = "OVER"   // /
	LT     Kind = "LT"     // <
	LTE    Kind = "LTE"    // <=
	GT     Kind = "GT"     // >
	GTE    Kind = "GTE"    // >=
	EQ     Kind = "EQ"     // = in TINY, == in C-Minus
	NE     Kind = "NE"     // !=
	ASSIGN Kind = "ASSIGN" // := in TINY, = in C-Minus

	// Delimiters
	SEMICOLON Kind = "SEMICOLON"
	COMMA     Kind = "COMMA"
	LPAREN    Kind = "LPAREN"
	RPAREN    Kind = "RPAREN"
	LBRACKET  Kind = "LBRACKET"
	RBRACKET  Kind = "RBRACKET"
	LBRACE    Kind = "LBRACE"
	RBRACE    Kind = "RBRACE"
)

// IsRelational reports whether k compares two integers.
func (k Kind) IsRelational() bool {
	switch k {
	case LT, LTE, GT, GTE, EQ, NE:
		return true
	}
	return false
}

// IsArithmetic reports whether k combines two integers into an integer.
func (k Kind) IsArithmetic() bool {
	switch k {
	case PLUS, MINUS, TIMES, OVER:
		return true
	}
	return false
}

// Language selects the source dialect.
type Language string

const (
	Tiny   Language = "tiny"
	CMinus Language = "cminus"
)

var keywords = map[Language]map[string]Kind{
	Tiny: {
		"if":     IF,
		"then":   THEN,
		"else":   ELSE,
		"end":    END,
		"repeat": REPEAT,
		"until":  UNTIL,
		"read":   READ,
		"write":  WRITE,
	},
	CMinus: {
		"if":     IF,
		"else":   ELSE,
		"while":  WHILE,
		"return": RETURN,
		"int":    INT,
		"void":   VOID,
	},
}

// Keyword returns the keyword kind for word, matched case-insensitively.
func (lang Language) Keyword(word string) (Kind, bool) {
	k, ok := keywords[lang][strings.ToLower(word)]
	return k, ok
}

// ParseLanguage maps a -lang flag value to a Language.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(s)) {
	case Tiny:
		return Tiny, nil
	case CMinus, "c-", "cm":
		return CMinus, nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Token is a single lexeme. Value is meaningful for NUMBER, Name for
// IDENTIFIER. Tokens are never mutated after the lexer produces them.
type Token struct {
	Kind  Kind
	Value int
	Name  string
	Line  int
}

func (t Token) String() string {
	switch t.Kind {
	case NUMBER:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Value)
	case IDENTIFIER:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Name)
	}
	return string(t.Kind)
}
