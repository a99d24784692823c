package machine

import "github.com/mna/ippcode21/lang/ipperr"

// equal implements the EQ/EQS equality rule: operands must be
// of the same type, or at least one side must be Nil.
func equal(x, y Value) (bool, error) {
	_, xNil := x.(NilType)
	_, yNil := y.(NilType)
	if xNil || yNil {
		return xNil && yNil, nil
	}
	if x.Type() != y.Type() {
		return false, ipperr.New(ipperr.OperandType, "cannot compare %s with %s for equality", x.Type(), y.Type())
	}
	switch x := x.(type) {
	case Bool:
		return x == y.(Bool), nil
	case Ordered:
		n, err := x.Cmp(y)
		if err != nil {
			return false, err
		}
		return n == 0, nil
	default:
		return false, ipperr.New(ipperr.OperandType, "%s does not support equality", x.Type())
	}
}

// ordered implements the LT/GT relational rule: operands must be of the
// same type and must not be Nil. less is true for LT, false for GT.
func ordered(x, y Value, less bool) (bool, error) {
	if _, ok := x.(NilType); ok {
		return false, ipperr.New(ipperr.OperandType, "nil is not an ordered type")
	}
	if _, ok := y.(NilType); ok {
		return false, ipperr.New(ipperr.OperandType, "nil is not an ordered type")
	}
	if x.Type() != y.Type() {
		return false, ipperr.New(ipperr.OperandType, "cannot compare %s with %s", x.Type(), y.Type())
	}
	ox, ok := x.(Ordered)
	if !ok {
		return false, ipperr.New(ipperr.OperandType, "%s is not an ordered type", x.Type())
	}
	n, err := ox.Cmp(y)
	if err != nil {
		return false, err
	}
	if less {
		return n < 0, nil
	}
	return n > 0, nil
}
