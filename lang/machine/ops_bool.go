package machine

import "github.com/mna/ippcode21/lang/ipperr"

func asBool(x Value) (Bool, error) {
	b, ok := x.(Bool)
	if !ok {
		return false, ipperr.New(ipperr.OperandType, "expected bool operand, got %s", x.Type())
	}
	return b, nil
}

// boolBinary implements AND/OR's shared type rule: both operands must be
// Bool.
func boolBinary(op Opcode, x, y Value) (Value, error) {
	xb, err := asBool(x)
	if err != nil {
		return nil, err
	}
	yb, err := asBool(y)
	if err != nil {
		return nil, err
	}
	switch op {
	case AND:
		return xb && yb, nil
	case OR:
		return xb || yb, nil
	default:
		panic("unreachable boolBinary opcode")
	}
}

// boolNot implements NOT's type rule: the operand must be Bool.
func boolNot(x Value) (Value, error) {
	xb, err := asBool(x)
	if err != nil {
		return nil, err
	}
	return !xb, nil
}
