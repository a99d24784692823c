package machine

import (
	"unicode"
	"unicode/utf8"

	"github.com/mna/ippcode21/lang/ipperr"
)

func asStr(x Value) (Str, error) {
	s, ok := x.(Str)
	if !ok {
		return nil, ipperr.New(ipperr.OperandType, "expected string operand, got %s", x.Type())
	}
	return s, nil
}

func asInt(x Value) (Int, error) {
	i, ok := x.(Int)
	if !ok {
		return 0, ipperr.New(ipperr.OperandType, "expected int operand, got %s", x.Type())
	}
	return i, nil
}

// concat implements CONCAT: both operands must be string.
func concat(x, y Value) (Value, error) {
	xs, err := asStr(x)
	if err != nil {
		return nil, err
	}
	ys, err := asStr(y)
	if err != nil {
		return nil, err
	}
	out := make(Str, 0, len(xs)+len(ys))
	out = append(out, xs...)
	out = append(out, ys...)
	return out, nil
}

// strlen implements STRLEN: the operand must be string; the result is the
// number of Unicode scalars.
func strlen(x Value) (Value, error) {
	s, err := asStr(x)
	if err != nil {
		return nil, err
	}
	return Int(len(s)), nil
}

// getChar implements GETCHAR(s, i): 0 <= i < len(s).
func getChar(x, y Value) (Value, error) {
	s, err := asStr(x)
	if err != nil {
		return nil, err
	}
	i, err := asInt(y)
	if err != nil {
		return nil, err
	}
	if i < 0 || int(i) >= len(s) {
		return nil, ipperr.New(ipperr.StringOp, "GETCHAR index %d out of range (len %d)", i, len(s))
	}
	return Str{s[i]}, nil
}

// setChar implements SETCHAR(dst, i, src): dst must already hold a string,
// src must be a non-empty string; the scalar at i is replaced by src's
// first scalar.
func setChar(dst, i, src Value) (Value, error) {
	s, err := asStr(dst)
	if err != nil {
		return nil, err
	}
	idx, err := asInt(i)
	if err != nil {
		return nil, err
	}
	rs, err := asStr(src)
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, ipperr.New(ipperr.StringOp, "SETCHAR: destination string is empty")
	}
	if len(rs) == 0 {
		return nil, ipperr.New(ipperr.StringOp, "SETCHAR: source string is empty")
	}
	if idx < 0 || int(idx) >= len(s) {
		return nil, ipperr.New(ipperr.StringOp, "SETCHAR index %d out of range (len %d)", idx, len(s))
	}
	out := append(Str(nil), s...)
	out[idx] = rs[0]
	return out, nil
}

// int2char implements INT2CHAR: the int must be a valid Unicode scalar
// value.
func int2char(x Value) (Value, error) {
	i, err := asInt(x)
	if err != nil {
		return nil, err
	}
	r := rune(i)
	if i < 0 || i > unicode.MaxRune || !utf8.ValidRune(r) {
		return nil, ipperr.New(ipperr.StringOp, "INT2CHAR: %d is not a valid Unicode scalar value", i)
	}
	return Str{r}, nil
}

// stri2int implements STRI2INT(s, i): 0 <= i < len(s); returns the scalar's
// code point.
func stri2int(x, y Value) (Value, error) {
	s, err := asStr(x)
	if err != nil {
		return nil, err
	}
	i, err := asInt(y)
	if err != nil {
		return nil, err
	}
	if i < 0 || int(i) >= len(s) {
		return nil, ipperr.New(ipperr.StringOp, "STRI2INT index %d out of range (len %d)", i, len(s))
	}
	return Int(s[i]), nil
}
