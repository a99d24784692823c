package machine

import (
	"bufio"
	"io"
	"os"
)

// Interpreter is the runtime state: the three
// variable frames, the data and call stacks, the optional preloaded stdin
// replacement buffer, and the I/O abstractions WRITE/READ/DPRINT/BREAK
// write to and read from. An Interpreter owns exactly one Program's worth
// of execution, since IPPcode21 has no notion of nested threads or modules.
type Interpreter struct {
	// Stdout and Stderr receive WRITE and DPRINT/BREAK output respectively.
	// If nil, os.Stdout and os.Stderr are used.
	Stdout io.Writer
	Stderr io.Writer

	// Input, if set, supplies the lines READ consumes instead of Stdin.
	Input io.Reader
	// Stdin is used by READ when Input is nil. If both are nil, os.Stdin is
	// used.
	Stdin io.Reader

	// MaxSteps bounds the number of executed instructions as a defensive
	// guard against runaway JUMP loops in tests; 0 means unlimited. This has
	// no bearing on the typed exit-code contract: hitting the limit is
	// reported as a plain error, never one of the typed interpreter error kinds.
	MaxSteps int

	frames    *Frames
	data      []Value
	calls     []int
	ic        uint64
	lines     *lineReader
	outw      io.Writer
	errw      io.Writer
}

// NewInterpreter returns a ready-to-run Interpreter with fresh, empty
// frames.
func NewInterpreter() *Interpreter {
	return &Interpreter{frames: NewFrames()}
}

func (in *Interpreter) init() {
	if in.frames == nil {
		in.frames = NewFrames()
	}
	if in.Stdout != nil {
		in.outw = in.Stdout
	} else {
		in.outw = os.Stdout
	}
	if in.Stderr != nil {
		in.errw = in.Stderr
	} else {
		in.errw = os.Stderr
	}
	src := in.Input
	if src == nil {
		src = in.Stdin
	}
	if src == nil {
		src = os.Stdin
	}
	in.lines = &lineReader{sc: bufio.NewScanner(src)}
}

// lineReader pulls lines front-to-back from the active input source,
// consumed by READ. It reports EOF the same way whether the source is a
// preloaded --input file or live stdin.
type lineReader struct {
	sc *bufio.Scanner
}

func (r *lineReader) next() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	return r.sc.Text(), true
}
