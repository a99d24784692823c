package machine

import "fmt"

// Opcode identifies an IPPcode21 instruction. The IPPcode21 instruction set
// has two parallel families: the register-style family, whose operands are
// explicit arguments, and the "S"-suffixed stack family, which reads and
// writes the data stack instead.
type Opcode uint8

const ( //nolint:revive
	opInvalid Opcode = iota

	// frame and variable lifecycle
	MOVE
	CREATEFRAME
	PUSHFRAME
	POPFRAME
	DEFVAR
	CALL
	RETURN

	// explicit data stack
	PUSHS
	POPS
	CLEARS

	// register-family arithmetic, relational, boolean, string, conversions
	ADD
	SUB
	MUL
	IDIV
	DIV
	LT
	GT
	EQ
	AND
	OR
	NOT
	INT2CHAR
	STRI2INT
	INT2FLOAT
	FLOAT2INT
	CONCAT
	STRLEN
	GETCHAR
	SETCHAR
	TYPE

	// control flow
	LABEL
	JUMP
	JUMPIFEQ
	JUMPIFNEQ
	EXIT

	// debug
	DPRINT
	BREAK

	// I/O
	READ
	WRITE

	// stack family mirrors of the arithmetic/relational/boolean/conversion ops
	ADDS
	SUBS
	MULS
	IDIVS
	DIVS
	LTS
	GTS
	EQS
	ANDS
	ORS
	NOTS
	INT2CHARS
	STRI2INTS
	INT2FLOATS
	FLOAT2INTS
	JUMPIFEQS
	JUMPIFNEQS

	opcodeMax
)

var opcodeNames = [...]string{
	MOVE:        "MOVE",
	CREATEFRAME: "CREATEFRAME",
	PUSHFRAME:   "PUSHFRAME",
	POPFRAME:    "POPFRAME",
	DEFVAR:      "DEFVAR",
	CALL:        "CALL",
	RETURN:      "RETURN",
	PUSHS:       "PUSHS",
	POPS:        "POPS",
	CLEARS:      "CLEARS",
	ADD:         "ADD",
	SUB:         "SUB",
	MUL:         "MUL",
	IDIV:        "IDIV",
	DIV:         "DIV",
	LT:          "LT",
	GT:          "GT",
	EQ:          "EQ",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	INT2CHAR:    "INT2CHAR",
	STRI2INT:    "STRI2INT",
	INT2FLOAT:   "INT2FLOAT",
	FLOAT2INT:   "FLOAT2INT",
	CONCAT:      "CONCAT",
	STRLEN:      "STRLEN",
	GETCHAR:     "GETCHAR",
	SETCHAR:     "SETCHAR",
	TYPE:        "TYPE",
	LABEL:       "LABEL",
	JUMP:        "JUMP",
	JUMPIFEQ:    "JUMPIFEQ",
	JUMPIFNEQ:   "JUMPIFNEQ",
	EXIT:        "EXIT",
	DPRINT:      "DPRINT",
	BREAK:       "BREAK",
	READ:        "READ",
	WRITE:       "WRITE",
	ADDS:        "ADDS",
	SUBS:        "SUBS",
	MULS:        "MULS",
	IDIVS:       "IDIVS",
	DIVS:        "DIVS",
	LTS:         "LTS",
	GTS:         "GTS",
	EQS:         "EQS",
	ANDS:        "ANDS",
	ORS:         "ORS",
	NOTS:        "NOTS",
	INT2CHARS:   "INT2CHARS",
	STRI2INTS:   "STRI2INTS",
	INT2FLOATS:  "INT2FLOATS",
	FLOAT2INTS:  "FLOAT2INTS",
	JUMPIFEQS:   "JUMPIFEQS",
	JUMPIFNEQS:  "JUMPIFNEQS",
}

var reverseOpcode = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		if name != "" {
			m[name] = Opcode(op)
		}
	}
	return m
}()

// LookupOpcode resolves the (already case-folded to upper) textual opcode
// name from the XML source to an Opcode. The bool is false for unknown
// opcodes.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := reverseOpcode[name]
	return op, ok
}

func (op Opcode) String() string {
	if op < opcodeMax {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", uint8(op))
}

// arities gives the declared argument count of each opcode.
var arities = [...]int{
	MOVE:        2,
	CREATEFRAME: 0,
	PUSHFRAME:   0,
	POPFRAME:    0,
	DEFVAR:      1,
	CALL:        1,
	RETURN:      0,
	PUSHS:       1,
	POPS:        1,
	CLEARS:      0,
	ADD:         3,
	SUB:         3,
	MUL:         3,
	IDIV:        3,
	DIV:         3,
	LT:          3,
	GT:          3,
	EQ:          3,
	AND:         3,
	OR:          3,
	NOT:         2,
	INT2CHAR:    2,
	STRI2INT:    3,
	INT2FLOAT:   2,
	FLOAT2INT:   2,
	CONCAT:      3,
	STRLEN:      2,
	GETCHAR:     3,
	SETCHAR:     3,
	TYPE:        2,
	LABEL:       1,
	JUMP:        1,
	JUMPIFEQ:    3,
	JUMPIFNEQ:   3,
	EXIT:        1,
	DPRINT:      1,
	BREAK:       0,
	READ:        2,
	WRITE:       1,
	ADDS:        0,
	SUBS:        0,
	MULS:        0,
	IDIVS:       0,
	DIVS:        0,
	LTS:         0,
	GTS:         0,
	EQS:         0,
	ANDS:        0,
	ORS:         0,
	NOTS:        0,
	INT2CHARS:   0,
	STRI2INTS:   0,
	INT2FLOATS:  0,
	FLOAT2INTS:  0,
	JUMPIFEQS:   1,
	JUMPIFNEQS:  1,
}

// Arity returns the declared argument count for op.
func Arity(op Opcode) int { return arities[op] }

// IsJump reports whether op transfers control via the label table.
func IsJump(op Opcode) bool {
	switch op {
	case CALL, JUMP, JUMPIFEQ, JUMPIFNEQ, JUMPIFEQS, JUMPIFNEQS:
		return true
	}
	return false
}
