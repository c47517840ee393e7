package token

import "sync"

// Interner deduplicates tokens by identity (kind, value, name and line).
//
// An Interner lives for the whole process and is never evicted. It is safe
// for concurrent use, so several compiles may share one. Whether tokens are
// interned has no effect on any compiler output.
type Interner struct {
	tokens sync.Map // Token -> *Token
}

func NewInterner() *Interner {
	return &Interner{}
}

// Intern returns the canonical *Token equal to t, storing t if it is new.
func (in *Interner) Intern(t Token) *Token {
	if v, ok := in.tokens.Load(t); ok {
		return v.(*Token)
	}
	v, _ := in.tokens.LoadOrStore(t, &t)
	return v.(*Token)
}

// Len returns the number of distinct tokens seen so far.
func (in *Interner) Len() int {
	n := 0
	in.tokens.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
