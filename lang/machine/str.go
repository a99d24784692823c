package machine

import "strings"

// Str is the type of an IPPcode21 text string: a sequence of Unicode scalar
// values. Indexing (GETCHAR, SETCHAR, STRI2INT) is by scalar, not byte, so
// the value is stored as decoded runes rather than as a raw Go string. This
// trades a little storage for O(1) indexed access instead of re-scanning
// UTF-8 on every GETCHAR/SETCHAR/STRLEN.
type Str []rune

var _ Value = Str(nil)

// NewStr decodes a Go string into a Str.
func NewStr(s string) Str { return Str([]rune(s)) }

func (s Str) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(r)
	}
	return b.String()
}

func (s Str) Type() string { return "string" }

// Len returns the number of Unicode scalars in s.
func (s Str) Len() int { return len(s) }

// Cmp implements comparison of two Str values, lexicographic by scalar value.
func (s Str) Cmp(y Value) (int, error) {
	t := y.(Str)
	n := len(s)
	if len(t) < n {
		n = len(t)
	}
	for i := 0; i < n; i++ {
		if s[i] != t[i] {
			if s[i] < t[i] {
				return -1, nil
			}
			return +1, nil
		}
	}
	switch {
	case len(s) < len(t):
		return -1, nil
	case len(s) > len(t):
		return +1, nil
	default:
		return 0, nil
	}
}

var _ Ordered = Str(nil)
