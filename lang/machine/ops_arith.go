package machine

import "github.com/mna/ippcode21/lang/ipperr"

// arith implements ADD/SUB/MUL/IDIV/DIV's shared type rule: both operands
// must be the same numeric type, IDIV requires int, DIV requires float.
// Integer division truncates toward zero, which is exactly what Go's
// int64 / operator already does.
func arith(op Opcode, x, y Value) (Value, error) {
	switch op {
	case IDIV:
		xi, yi, err := bothInt(x, y)
		if err != nil {
			return nil, err
		}
		if yi == 0 {
			return nil, ipperr.New(ipperr.OperandValue, "integer division by zero")
		}
		return xi / yi, nil

	case DIV:
		xf, yf, err := bothFloat(x, y)
		if err != nil {
			return nil, err
		}
		if yf == 0 {
			return nil, ipperr.New(ipperr.OperandValue, "float division by zero")
		}
		return xf / yf, nil
	}

	if xi, yi, err := bothInt(x, y); err == nil {
		switch op {
		case ADD:
			return xi + yi, nil
		case SUB:
			return xi - yi, nil
		case MUL:
			return xi * yi, nil
		}
	}
	xf, yf, err := bothFloat(x, y)
	if err != nil {
		return nil, err
	}
	switch op {
	case ADD:
		return xf + yf, nil
	case SUB:
		return xf - yf, nil
	case MUL:
		return xf * yf, nil
	}
	panic("unreachable arith opcode")
}

func bothInt(x, y Value) (Int, Int, error) {
	xi, ok := x.(Int)
	if !ok {
		return 0, 0, ipperr.New(ipperr.OperandType, "expected int operand, got %s", x.Type())
	}
	yi, ok := y.(Int)
	if !ok {
		return 0, 0, ipperr.New(ipperr.OperandType, "expected int operand, got %s", y.Type())
	}
	return xi, yi, nil
}

func bothFloat(x, y Value) (Float, Float, error) {
	xf, ok := x.(Float)
	if !ok {
		return 0, 0, ipperr.New(ipperr.OperandType, "expected float operand, got %s", x.Type())
	}
	yf, ok := y.(Float)
	if !ok {
		return 0, 0, ipperr.New(ipperr.OperandType, "expected float operand, got %s", y.Type())
	}
	return xf, yf, nil
}
