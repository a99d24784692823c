package machine

import "github.com/mna/ippcode21/lang/ipperr"

// resolveValue implements the operand resolver:
// a literal tag yields its decoded Value directly; a var tag reads through
// the frame manager and fails with MissingValue if the slot is still Undef.
// label/type tags carry no runtime value and are rejected here; their
// opcodes (the JUMP family for labels, READ for its type argument) read
// Operand's Label/TypeName fields directly instead.
func (in *Interpreter) resolveValue(o Operand) (Value, error) {
	if o.Tag == TagVar {
		slot, err := in.frames.Slot(o.Frame, o.Name)
		if err != nil {
			return nil, err
		}
		if _, ok := (*slot).(UndefType); ok {
			return nil, ipperr.New(ipperr.MissingValue, "variable %s@%s has not been assigned a value", o.Frame, o.Name)
		}
		return *slot, nil
	}
	if o.Literal == nil {
		return nil, ipperr.New(ipperr.OperandType, "operand does not carry a value")
	}
	return o.Literal, nil
}

// destSlot resolves o, which must be a var operand, to the slot it should be
// written through.
func (in *Interpreter) destSlot(o Operand) (*Value, error) {
	if o.Tag != TagVar {
		return nil, ipperr.New(ipperr.OperandType, "expected a variable operand")
	}
	return in.frames.Slot(o.Frame, o.Name)
}

// typeOf implements TYPE's operand read: unlike resolveValue, a var holding
// Undef is legal here and reports the empty type name rather than failing.
func (in *Interpreter) typeOf(o Operand) (string, error) {
	if o.Tag == TagVar {
		slot, err := in.frames.Slot(o.Frame, o.Name)
		if err != nil {
			return "", err
		}
		return (*slot).Type(), nil
	}
	if o.Literal == nil {
		return "", ipperr.New(ipperr.OperandType, "operand does not carry a value")
	}
	return o.Literal.Type(), nil
}

func (in *Interpreter) push(v Value) { in.data = append(in.data, v) }

func (in *Interpreter) pop() (Value, error) {
	if len(in.data) == 0 {
		return nil, ipperr.New(ipperr.MissingValue, "data stack is empty")
	}
	v := in.data[len(in.data)-1]
	in.data = in.data[:len(in.data)-1]
	return v, nil
}

// pop2 pops the two operands of a binary stack-family opcode in the order a
// register-family equivalent would receive them: the first-pushed (and thus
// second-popped) operand is x, the second-pushed (first-popped) is y.
func (in *Interpreter) pop2() (x, y Value, err error) {
	y, err = in.pop()
	if err != nil {
		return nil, nil, err
	}
	x, err = in.pop()
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}
