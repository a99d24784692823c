// Package ipperr defines the typed error kinds used throughout the
// interpreter and the single table that maps each kind to the process exit
// mandated exit code for each. No other package hardcodes an exit code.
package ipperr

import "fmt"

// Kind identifies the category of a typed interpreter failure.
type Kind int

const (
	// ArgError is a CLI argument error (code 10).
	ArgError Kind = iota
	// InputUnreadable means a named input file could not be opened/read (11).
	InputUnreadable
	// OutputUnwritable means an output file could not be written (12).
	OutputUnwritable
	// Format means the XML source was not well-formed (31).
	Format
	// XMLStructure means the XML was well-formed but violates IPPcode21's
	// structural or type rules (32).
	XMLStructure
	// Semantic means a duplicate label or an unresolved jump/call target was
	// found during loading, or DEFVAR redeclared a variable at run time (52).
	Semantic
	// OperandType means an operand's runtime type does not satisfy the
	// opcode's type rule (53).
	OperandType
	// UndefinedVar means a variable name was referenced that was never
	// declared with DEFVAR (54).
	UndefinedVar
	// MissingFrame means LF or TF was addressed without existing (55).
	MissingFrame
	// MissingValue means a read of an Undef slot, or an empty-stack pop (56).
	MissingValue
	// OperandValue means a value was out of its legal domain: division by
	// zero, EXIT outside [0,49] (57).
	OperandValue
	// StringOp means a string operation's index or Unicode value was invalid
	// (58).
	StringOp
)

var exitCodes = [...]int{
	ArgError:         10,
	InputUnreadable:  11,
	OutputUnwritable: 12,
	Format:           31,
	XMLStructure:     32,
	Semantic:         52,
	OperandType:      53,
	UndefinedVar:     54,
	MissingFrame:     55,
	MissingValue:     56,
	OperandValue:     57,
	StringOp:         58,
}

var kindNames = [...]string{
	ArgError:         "argument error",
	InputUnreadable:  "input unreadable",
	OutputUnwritable: "output unwritable",
	Format:           "XML not well-formed",
	XMLStructure:     "XML structure error",
	Semantic:         "semantic error",
	OperandType:      "operand type error",
	UndefinedVar:     "undefined variable",
	MissingFrame:     "missing frame",
	MissingValue:     "missing value",
	OperandValue:     "invalid operand value",
	StringOp:         "string operation error",
}

// ExitCode returns the process exit code mandated for k.
func (k Kind) ExitCode() int { return exitCodes[k] }

func (k Kind) String() string { return kindNames[k] }

// Error is a typed interpreter failure. Every error that should terminate
// the process with a specific exit code must be one of these; its Kind's
// ExitCode is read by machine.Interpreter.Run for runtime failures and by
// internal/maincmd for CLI, file and load failures. Error carries only a formatted
// message, never a wrapped cause: every failure site already knows its Kind
// and states its own message, so there is nothing underlying left to unwrap.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// New creates an *Error of the given kind, formatting msg like fmt.Sprintf.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, msg: fmt.Sprintf(format, args...)}
}

// As reports whether err is an *Error, returning it if so. Since Error never
// wraps another error, a plain type assertion is sufficient; there is no
// chain for errors.As to traverse.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
