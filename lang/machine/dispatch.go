package machine

import (
	"fmt"

	"github.com/mna/ippcode21/lang/ipperr"
)

// Run executes p to completion, implementing the fetch-execute dispatcher of
// Each tick: halt with exit code 0 once IP runs past the end
// of the program; otherwise execute the instruction at IP, which may request
// a jump, and advance IP to the jump target or to IP+1. A typed *ipperr.Error
// returned by a handler is converted to its mandated exit code here; any
// other error (currently only the MaxSteps guard) is reported as exit 1.
func (in *Interpreter) Run(p *Program) (int, error) {
	in.init()

	ip := 0
	for {
		if ip < 0 || ip >= len(p.Instructions) {
			return 0, nil
		}
		if in.MaxSteps > 0 && in.ic >= uint64(in.MaxSteps) {
			return 1, fmt.Errorf("exceeded instruction budget of %d", in.MaxSteps)
		}

		res, err := in.step(p, p.Instructions[ip], ip)
		if err != nil {
			if e, ok := ipperr.As(err); ok {
				return e.Kind.ExitCode(), err
			}
			return 1, err
		}
		if res.halt {
			return res.exitCode, nil
		}
		if res.jumped {
			ip = res.jump
		} else {
			ip++
		}
		in.ic++
	}
}

// stepResult communicates a handler's effect on control flow back to Run.
type stepResult struct {
	halt     bool
	exitCode int
	jump     int
	jumped   bool
}

// labelIndex resolves a label operand to its LABEL instruction's index. The
// loader guarantees every label referenced by a validated Program resolves,
// so the Semantic case here is a defensive backstop, not a reachable path.
func labelIndex(p *Program, o Operand) (int, error) {
	if o.Tag != TagLabel {
		return 0, ipperr.New(ipperr.OperandType, "expected a label operand")
	}
	idx, ok := p.Labels[o.Label]
	if !ok {
		return 0, ipperr.New(ipperr.Semantic, "undefined label %q", o.Label)
	}
	return idx, nil
}

// registerEquivalent maps a stack-family opcode to the register-family
// opcode that implements the same operation, so arith/boolBinary need only
// one implementation each.
func registerEquivalent(op Opcode) Opcode {
	switch op {
	case ADDS:
		return ADD
	case SUBS:
		return SUB
	case MULS:
		return MUL
	case IDIVS:
		return IDIV
	case DIVS:
		return DIV
	case ANDS:
		return AND
	case ORS:
		return OR
	}
	return op
}

func (in *Interpreter) step(p *Program, inst Instruction, ip int) (stepResult, error) {
	args := inst.Args
	switch inst.Op {
	case opInvalid, LABEL:
		return stepResult{}, nil

	case MOVE:
		v, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		dst, err := in.destSlot(args[0])
		if err != nil {
			return stepResult{}, err
		}
		*dst = v
		return stepResult{}, nil

	case CREATEFRAME:
		in.frames.CreateFrame()
		return stepResult{}, nil

	case PUSHFRAME:
		return stepResult{}, in.frames.PushFrame()

	case POPFRAME:
		return stepResult{}, in.frames.PopFrame()

	case DEFVAR:
		return stepResult{}, in.frames.Define(args[0].Frame, args[0].Name)

	case CALL:
		target, err := labelIndex(p, args[0])
		if err != nil {
			return stepResult{}, err
		}
		in.calls = append(in.calls, ip+1)
		return stepResult{jump: target, jumped: true}, nil

	case RETURN:
		if len(in.calls) == 0 {
			return stepResult{}, ipperr.New(ipperr.MissingValue, "RETURN with an empty call stack")
		}
		n := len(in.calls) - 1
		target := in.calls[n]
		in.calls = in.calls[:n]
		return stepResult{jump: target, jumped: true}, nil

	case PUSHS:
		v, err := in.resolveValue(args[0])
		if err != nil {
			return stepResult{}, err
		}
		in.push(v)
		return stepResult{}, nil

	case POPS:
		v, err := in.pop()
		if err != nil {
			return stepResult{}, err
		}
		dst, err := in.destSlot(args[0])
		if err != nil {
			return stepResult{}, err
		}
		*dst = v
		return stepResult{}, nil

	case CLEARS:
		in.data = in.data[:0]
		return stepResult{}, nil

	case ADD, SUB, MUL, IDIV, DIV:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		y, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		res, err := arith(inst.Op, x, y)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case ADDS, SUBS, MULS, IDIVS, DIVS:
		x, y, err := in.pop2()
		if err != nil {
			return stepResult{}, err
		}
		res, err := arith(registerEquivalent(inst.Op), x, y)
		if err != nil {
			return stepResult{}, err
		}
		in.push(res)
		return stepResult{}, nil

	case LT, GT, EQ:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		y, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		res, err := compareOp(inst.Op, x, y)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], Bool(res))

	case LTS, GTS, EQS:
		x, y, err := in.pop2()
		if err != nil {
			return stepResult{}, err
		}
		res, err := compareOp(inst.Op, x, y)
		if err != nil {
			return stepResult{}, err
		}
		in.push(Bool(res))
		return stepResult{}, nil

	case AND, OR:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		y, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		res, err := boolBinary(inst.Op, x, y)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case ANDS, ORS:
		x, y, err := in.pop2()
		if err != nil {
			return stepResult{}, err
		}
		res, err := boolBinary(registerEquivalent(inst.Op), x, y)
		if err != nil {
			return stepResult{}, err
		}
		in.push(res)
		return stepResult{}, nil

	case NOT:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		res, err := boolNot(x)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case NOTS:
		x, err := in.pop()
		if err != nil {
			return stepResult{}, err
		}
		res, err := boolNot(x)
		if err != nil {
			return stepResult{}, err
		}
		in.push(res)
		return stepResult{}, nil

	case INT2CHAR:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		res, err := int2char(x)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case INT2CHARS:
		x, err := in.pop()
		if err != nil {
			return stepResult{}, err
		}
		res, err := int2char(x)
		if err != nil {
			return stepResult{}, err
		}
		in.push(res)
		return stepResult{}, nil

	case STRI2INT:
		s, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		i, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		res, err := stri2int(s, i)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case STRI2INTS:
		s, i, err := in.pop2()
		if err != nil {
			return stepResult{}, err
		}
		res, err := stri2int(s, i)
		if err != nil {
			return stepResult{}, err
		}
		in.push(res)
		return stepResult{}, nil

	case INT2FLOAT:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		res, err := int2float(x)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case INT2FLOATS:
		x, err := in.pop()
		if err != nil {
			return stepResult{}, err
		}
		res, err := int2float(x)
		if err != nil {
			return stepResult{}, err
		}
		in.push(res)
		return stepResult{}, nil

	case FLOAT2INT:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		res, err := float2int(x)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case FLOAT2INTS:
		x, err := in.pop()
		if err != nil {
			return stepResult{}, err
		}
		res, err := float2int(x)
		if err != nil {
			return stepResult{}, err
		}
		in.push(res)
		return stepResult{}, nil

	case CONCAT:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		y, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		res, err := concat(x, y)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case STRLEN:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		res, err := strlen(x)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case GETCHAR:
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		y, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		res, err := getChar(x, y)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case SETCHAR:
		cur, err := in.resolveValue(args[0])
		if err != nil {
			return stepResult{}, err
		}
		idx, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		src, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		res, err := setChar(cur, idx, src)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], res)

	case TYPE:
		t, err := in.typeOf(args[1])
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, in.storeAt(args[0], NewStr(t))

	case JUMP:
		target, err := labelIndex(p, args[0])
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{jump: target, jumped: true}, nil

	case JUMPIFEQ, JUMPIFNEQ:
		target, err := labelIndex(p, args[0])
		if err != nil {
			return stepResult{}, err
		}
		x, err := in.resolveValue(args[1])
		if err != nil {
			return stepResult{}, err
		}
		y, err := in.resolveValue(args[2])
		if err != nil {
			return stepResult{}, err
		}
		eq, err := equal(x, y)
		if err != nil {
			return stepResult{}, err
		}
		if eq == (inst.Op == JUMPIFEQ) {
			return stepResult{jump: target, jumped: true}, nil
		}
		return stepResult{}, nil

	case JUMPIFEQS, JUMPIFNEQS:
		target, err := labelIndex(p, args[0])
		if err != nil {
			return stepResult{}, err
		}
		x, y, err := in.pop2()
		if err != nil {
			return stepResult{}, err
		}
		eq, err := equal(x, y)
		if err != nil {
			return stepResult{}, err
		}
		if eq == (inst.Op == JUMPIFEQS) {
			return stepResult{jump: target, jumped: true}, nil
		}
		return stepResult{}, nil

	case EXIT:
		v, err := in.resolveValue(args[0])
		if err != nil {
			return stepResult{}, err
		}
		n, ok := v.(Int)
		if !ok {
			return stepResult{}, ipperr.New(ipperr.OperandType, "EXIT expects an int operand, got %s", v.Type())
		}
		if n < 0 || n > 49 {
			return stepResult{}, ipperr.New(ipperr.OperandValue, "EXIT code %d is out of range [0,49]", n)
		}
		return stepResult{halt: true, exitCode: int(n)}, nil

	case DPRINT:
		v, err := in.resolveValue(args[0])
		if err != nil {
			return stepResult{}, err
		}
		fmt.Fprint(in.errw, writeText(v))
		return stepResult{}, nil

	case BREAK:
		fmt.Fprintf(in.errw, "-- BREAK at order %d, IP %d, %d instructions executed --\n", inst.Order, ip, in.ic)
		in.frames.Dump(in.errw)
		fmt.Fprintf(in.errw, "data stack (%d): %v\n", len(in.data), in.data)
		fmt.Fprintf(in.errw, "call stack (%d): %v\n", len(in.calls), in.calls)
		return stepResult{}, nil

	case READ:
		line, ok := in.lines.next()
		var v Value = Nil
		if ok {
			v = readValue(line, args[1].TypeName)
		}
		return stepResult{}, in.storeAt(args[0], v)

	case WRITE:
		v, err := in.resolveValue(args[0])
		if err != nil {
			return stepResult{}, err
		}
		fmt.Fprint(in.outw, writeText(v))
		return stepResult{}, nil

	default:
		return stepResult{}, ipperr.New(ipperr.Semantic, "unhandled opcode %s", inst.Op)
	}
}

// storeAt writes v into the slot addressed by the var operand o.
func (in *Interpreter) storeAt(o Operand, v Value) error {
	dst, err := in.destSlot(o)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// compareOp implements LT/GT/EQ and their stack-family mirrors in terms of
// the shared ordered/equal rules.
func compareOp(op Opcode, x, y Value) (bool, error) {
	switch op {
	case LT, LTS:
		return ordered(x, y, true)
	case GT, GTS:
		return ordered(x, y, false)
	case EQ, EQS:
		return equal(x, y)
	default:
		return false, ipperr.New(ipperr.Semantic, "unreachable compareOp opcode %s", op)
	}
}
