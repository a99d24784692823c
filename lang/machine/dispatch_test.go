package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ippcode21/lang/ipperr"
	"github.com/mna/ippcode21/lang/machine"
)

func labelOp(name string) machine.Operand {
	return machine.Operand{Tag: machine.TagLabel, Label: name}
}

func TestRunMoveAndWrite(t *testing.T) {
	x := gfVar("x")
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{x}},
			{Order: 2, Op: machine.MOVE, Args: []machine.Operand{x, strLit("hello")}},
			{Order: 3, Op: machine.WRITE, Args: []machine.Operand{x}},
		},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	code, err := in.Run(prog)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "hello", out.String())
}

func TestRunCallReturn(t *testing.T) {
	x := gfVar("x")
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{x}},
			{Order: 2, Op: machine.CALL, Args: []machine.Operand{labelOp("fn")}},
			{Order: 3, Op: machine.WRITE, Args: []machine.Operand{x}},
			{Order: 4, Op: machine.JUMP, Args: []machine.Operand{labelOp("end")}},
			{Order: 5, Op: machine.LABEL, Args: []machine.Operand{labelOp("fn")}},
			{Order: 6, Op: machine.MOVE, Args: []machine.Operand{x, intLit(9)}},
			{Order: 7, Op: machine.RETURN},
			{Order: 8, Op: machine.LABEL, Args: []machine.Operand{labelOp("end")}},
		},
		Labels: map[string]int{"fn": 4, "end": 7},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	code, err := in.Run(prog)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "9", out.String())
}

// TestRunJumpLandsAfterLabel checks testable property 7: a forward JUMP to a
// label lands on the instruction immediately after the LABEL, skipping
// whatever sits between the jump and its target.
func TestRunJumpLandsAfterLabel(t *testing.T) {
	x := gfVar("x")
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{x}},
			{Order: 2, Op: machine.JUMP, Args: []machine.Operand{labelOp("skip")}},
			{Order: 3, Op: machine.MOVE, Args: []machine.Operand{x, intLit(1)}}, // must not run
			{Order: 4, Op: machine.LABEL, Args: []machine.Operand{labelOp("skip")}},
			{Order: 5, Op: machine.MOVE, Args: []machine.Operand{x, intLit(2)}},
			{Order: 6, Op: machine.WRITE, Args: []machine.Operand{x}},
		},
		Labels: map[string]int{"skip": 3},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	code, err := in.Run(prog)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "2", out.String())
}

func TestRunBackwardJump(t *testing.T) {
	x := gfVar("x")
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{x}},
			{Order: 2, Op: machine.MOVE, Args: []machine.Operand{x, intLit(0)}},
			{Order: 3, Op: machine.LABEL, Args: []machine.Operand{labelOp("loop")}},
			{Order: 4, Op: machine.ADD, Args: []machine.Operand{x, x, intLit(1)}},
			{Order: 5, Op: machine.JUMPIFNEQ, Args: []machine.Operand{labelOp("loop"), x, intLit(3)}},
			{Order: 6, Op: machine.WRITE, Args: []machine.Operand{x}},
		},
		Labels: map[string]int{"loop": 2},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	code, err := in.Run(prog)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "3", out.String())
}

func TestRunExitBoundaries(t *testing.T) {
	mk := func(n int64) *machine.Program {
		return &machine.Program{
			Instructions: []machine.Instruction{
				{Order: 1, Op: machine.EXIT, Args: []machine.Operand{intLit(n)}},
			},
		}
	}

	in := machine.NewInterpreter()
	code, err := in.Run(mk(0))
	require.NoError(t, err)
	assert.Zero(t, code)

	in = machine.NewInterpreter()
	code, err = in.Run(mk(49))
	require.NoError(t, err)
	assert.Equal(t, 49, code)

	in = machine.NewInterpreter()
	_, err = in.Run(mk(50))
	requireErrKind(t, err, ipperr.OperandValue)

	in = machine.NewInterpreter()
	_, err = in.Run(mk(-1))
	requireErrKind(t, err, ipperr.OperandValue)
}

func TestRunReturnWithEmptyCallStack(t *testing.T) {
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.RETURN},
		},
	}
	in := machine.NewInterpreter()
	_, err := in.Run(prog)
	requireErrKind(t, err, ipperr.MissingValue)
}

func TestRunPushFrameWithoutCreateFrame(t *testing.T) {
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.PUSHFRAME},
		},
	}
	in := machine.NewInterpreter()
	_, err := in.Run(prog)
	requireErrKind(t, err, ipperr.MissingFrame)
}

func TestRunStackFamily(t *testing.T) {
	x := gfVar("x")
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{x}},
			{Order: 2, Op: machine.PUSHS, Args: []machine.Operand{intLit(2)}},
			{Order: 3, Op: machine.PUSHS, Args: []machine.Operand{intLit(3)}},
			{Order: 4, Op: machine.ADDS},
			{Order: 5, Op: machine.POPS, Args: []machine.Operand{x}},
			{Order: 6, Op: machine.WRITE, Args: []machine.Operand{x}},
		},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	code, err := in.Run(prog)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "5", out.String())
}

func TestRunRead(t *testing.T) {
	x := gfVar("x")
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{x}},
			{Order: 2, Op: machine.READ, Args: []machine.Operand{x, {TypeName: "int"}}},
			{Order: 3, Op: machine.WRITE, Args: []machine.Operand{x}},
		},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	in.Input = strings.NewReader("42\n")
	code, err := in.Run(prog)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "42", out.String())
}

func TestRunReadPastEOFYieldsNil(t *testing.T) {
	x := gfVar("x")
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.DEFVAR, Args: []machine.Operand{x}},
			{Order: 2, Op: machine.READ, Args: []machine.Operand{x, {TypeName: "int"}}},
			{Order: 3, Op: machine.WRITE, Args: []machine.Operand{x}},
		},
	}

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	in.Input = strings.NewReader("")
	code, err := in.Run(prog)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "", out.String(), "WRITE prints nil as the empty string")
}

func TestRunMaxStepsGuard(t *testing.T) {
	prog := &machine.Program{
		Instructions: []machine.Instruction{
			{Order: 1, Op: machine.LABEL, Args: []machine.Operand{labelOp("loop")}},
			{Order: 2, Op: machine.JUMP, Args: []machine.Operand{labelOp("loop")}},
		},
		Labels: map[string]int{"loop": 0},
	}

	in := machine.NewInterpreter()
	in.MaxSteps = 5
	code, err := in.Run(prog)
	require.Error(t, err)
	assert.Equal(t, 1, code)
}
