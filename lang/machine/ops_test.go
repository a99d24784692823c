package machine_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ippcode21/lang/ipperr"
	"github.com/mna/ippcode21/lang/machine"
)

// runInstruction builds a three-instruction program (DEFVAR GF@x; op GF@x
// args...; WRITE GF@x), runs it, and returns whatever WRITE produced. Driving
// every opcode test through Run keeps these tests independent of Interpreter's
// unexported frame state.
func runInstruction(t *testing.T, op machine.Opcode, args ...machine.Operand) (string, error) {
	t.Helper()
	dst := gfVar("x")
	operands := append([]machine.Operand{dst}, args...)

	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{dst}},
			{Order: 2, Op: op, Args: operands},
			{Order: 3, Op: machine.WRITE, Args: []machine.Operand{dst}},
		},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	code, err := in.Run(prog)
	if err != nil {
		return "", err
	}
	require.Zero(t, code)
	return out.String(), nil
}

func gfVar(name string) machine.Operand {
	return machine.Operand{Tag: machine.TagVar, Frame: machine.GF, Name: name}
}

func intLit(n int64) machine.Operand {
	return machine.Operand{Tag: machine.TagInt, Literal: machine.Int(n)}
}

func floatLit(f float64) machine.Operand {
	return machine.Operand{Tag: machine.TagFloat, Literal: machine.Float(f)}
}

func strLit(s string) machine.Operand {
	return machine.Operand{Tag: machine.TagString, Literal: machine.NewStr(s)}
}

func nilLit() machine.Operand {
	return machine.Operand{Tag: machine.TagNil, Literal: machine.Nil}
}

func boolLit(b bool) machine.Operand {
	v := machine.False
	if b {
		v = machine.True
	}
	return machine.Operand{Tag: machine.TagBool, Literal: v}
}

func requireErrKind(t *testing.T, err error, kind ipperr.Kind) {
	t.Helper()
	require.Error(t, err)
	e, ok := ipperr.As(err)
	require.True(t, ok)
	assert.Equal(t, kind, e.Kind)
}

func TestArithmetic(t *testing.T) {
	out, err := runInstruction(t, machine.ADD, intLit(2), intLit(3))
	require.NoError(t, err)
	assert.Equal(t, "5", out)

	out, err = runInstruction(t, machine.SUB, intLit(2), intLit(3))
	require.NoError(t, err)
	assert.Equal(t, "-1", out)

	out, err = runInstruction(t, machine.MUL, floatLit(1.5), floatLit(2))
	require.NoError(t, err)
	want := machine.Float(3).String()
	assert.Equal(t, want, out)

	out, err = runInstruction(t, machine.IDIV, intLit(-7), intLit(2))
	require.NoError(t, err)
	assert.Equal(t, "-3", out, "integer division truncates toward zero")
}

func TestArithmeticTypeMismatch(t *testing.T) {
	_, err := runInstruction(t, machine.ADD, intLit(2), floatLit(3))
	requireErrKind(t, err, ipperr.OperandType)
}

func TestDivisionByZero(t *testing.T) {
	_, err := runInstruction(t, machine.IDIV, intLit(1), intLit(0))
	requireErrKind(t, err, ipperr.OperandValue)

	_, err = runInstruction(t, machine.DIV, floatLit(1), floatLit(0))
	requireErrKind(t, err, ipperr.OperandValue)
}

func TestBoolOps(t *testing.T) {
	out, err := runInstruction(t, machine.AND, boolLit(true), boolLit(false))
	require.NoError(t, err)
	assert.Equal(t, "false", out)

	out, err = runInstruction(t, machine.OR, boolLit(true), boolLit(false))
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = runInstruction(t, machine.NOT, boolLit(false))
	require.NoError(t, err)
	assert.Equal(t, "true", out)
}

func TestStringOps(t *testing.T) {
	out, err := runInstruction(t, machine.CONCAT, strLit("foo"), strLit("bar"))
	require.NoError(t, err)
	assert.Equal(t, "foobar", out)

	out, err = runInstruction(t, machine.STRLEN, strLit("café"))
	require.NoError(t, err)
	assert.Equal(t, "4", out)

	out, err = runInstruction(t, machine.GETCHAR, strLit("abc"), intLit(1))
	require.NoError(t, err)
	assert.Equal(t, "b", out)

	_, err = runInstruction(t, machine.GETCHAR, strLit("abc"), intLit(5))
	requireErrKind(t, err, ipperr.StringOp)
}

// TestInt2CharStri2IntRoundTrip checks testable property 5: for any integer
// n in valid char range, STRI2INT(INT2CHAR(n), 0) == n.
func TestInt2CharStri2IntRoundTrip(t *testing.T) {
	out, err := runInstruction(t, machine.INT2CHAR, intLit(65))
	require.NoError(t, err)
	assert.Equal(t, "A", out)

	out, err = runInstruction(t, machine.STRI2INT, strLit("A"), intLit(0))
	require.NoError(t, err)
	assert.Equal(t, "65", out)
}

func TestInt2CharInvalidCodepoint(t *testing.T) {
	_, err := runInstruction(t, machine.INT2CHAR, intLit(-1))
	requireErrKind(t, err, ipperr.StringOp)
}

func TestConversions(t *testing.T) {
	out, err := runInstruction(t, machine.INT2FLOAT, intLit(4))
	require.NoError(t, err)
	assert.Equal(t, machine.Float(4).String(), out)

	out, err = runInstruction(t, machine.FLOAT2INT, floatLit(4.9))
	require.NoError(t, err)
	assert.Equal(t, "4", out)
}

func TestEqualityWithNil(t *testing.T) {
	out, err := runInstruction(t, machine.EQ, intLit(1), intLit(1))
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = runInstruction(t, machine.EQ, nilLit(), nilLit())
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = runInstruction(t, machine.EQ, intLit(1), nilLit())
	require.NoError(t, err)
	assert.Equal(t, "false", out)
}

// TestOrderedBool checks that LT/GT accept two bool operands, ordering
// false < true per spec.md §4.2's "same type, not nil" relational rule.
func TestOrderedBool(t *testing.T) {
	out, err := runInstruction(t, machine.LT, boolLit(false), boolLit(true))
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = runInstruction(t, machine.GT, boolLit(true), boolLit(false))
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = runInstruction(t, machine.LT, boolLit(true), boolLit(true))
	require.NoError(t, err)
	assert.Equal(t, "false", out)
}

func TestOrderedRejectsNil(t *testing.T) {
	_, err := runInstruction(t, machine.LT, intLit(1), nilLit())
	requireErrKind(t, err, ipperr.OperandType)
}
