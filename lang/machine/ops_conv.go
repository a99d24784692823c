package machine

import "github.com/mna/ippcode21/lang/ipperr"

// int2float and float2int implement INT2FLOAT/FLOAT2INT: exact numeric
// casts. FLOAT2INT truncates toward zero, matching Go's float64-to-int64
// conversion.
func int2float(x Value) (Value, error) {
	i, err := asInt(x)
	if err != nil {
		return nil, err
	}
	return Float(i), nil
}

func float2int(x Value) (Value, error) {
	f, ok := x.(Float)
	if !ok {
		return nil, ipperr.New(ipperr.OperandType, "expected float operand, got %s", x.Type())
	}
	return Int(f), nil
}
