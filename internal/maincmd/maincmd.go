// Package maincmd wires the IPPcode21 CLI: flag
// parsing and validation, opening the XML source and the --input text
// buffer, and converting the interpreter's typed result into a process
// exit code. It follows the same mainer.Cmd shape the original nenuphar
// compiler driver used, trimmed to IPPcode21's single operation.
package maincmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ippcode21/lang/ipperr"
	"github.com/mna/ippcode21/lang/machine"
	"github.com/mna/ippcode21/lang/xmlenc"
)

const binName = "ippcode21"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [--source=PATH] [--input=PATH]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [--source=PATH] [--input=PATH]
       %[1]s -h|--help

Interpreter for the IPPcode21 instruction set.

Valid flag options are:
       -h --help                 Show this help and exit.
       --source=PATH             XML program source (default: stdin).
       --input=PATH              Text file whose lines replace stdin reads
                                 performed by READ (default: stdin).

At least one of --source or --input must be given. If --source is
omitted the XML program is read from stdin, in which case --input
must name a file, since stdin cannot serve both roles at once.

The IPPCODE21_MAX_STEPS environment variable, if set to a positive
integer, bounds the number of executed instructions.
`, binName)
)

// Cmd is the IPPcode21 driver, invoked through Main the same way
// cmd/ippcode21's main.go invokes it.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help   bool   `flag:"h,help"`
	Source string `flag:"source"`
	Input  string `flag:"input"`

	maxSteps int
	args     []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

// Validate enforces the CLI's argument rules once flags are parsed.
func (c *Cmd) Validate() error {
	if c.Help {
		if c.Source != "" || c.Input != "" {
			return errors.New("--help is mutually exclusive with other options")
		}
		return nil
	}
	if len(c.args) > 0 {
		return fmt.Errorf("unexpected argument: %s", c.args[0])
	}
	if c.Source == "" && c.Input == "" {
		return errors.New("at least one of --source or --input is required")
	}
	return nil
}

func argError(stdio mainer.Stdio, err error) mainer.ExitCode {
	fmt.Fprintf(stdio.Stderr, "%s: %s\n%s", binName, err, shortUsage)
	return mainer.ExitCode(ipperr.ArgError.ExitCode())
}

// Main parses args, validates them, and runs the interpreter, returning the
// mandated process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		return argError(stdio, err)
	}
	if err := c.Validate(); err != nil {
		return argError(stdio, err)
	}
	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	cfg, err := loadEnvConfig()
	if err != nil {
		return argError(stdio, err)
	}
	c.maxSteps = cfg.MaxSteps

	code, err := c.run(stdio)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
	}
	return mainer.ExitCode(code)
}

func (c *Cmd) run(stdio mainer.Stdio) (int, error) {
	src, closeSrc, err := c.openSource(stdio)
	if err != nil {
		e, _ := ipperr.As(err)
		return e.Kind.ExitCode(), err
	}
	defer closeSrc()

	prog, err := xmlenc.Load(src)
	if err != nil {
		if e, ok := ipperr.As(err); ok {
			return e.Kind.ExitCode(), err
		}
		return ipperr.Format.ExitCode(), err
	}

	input, closeInput, err := c.openInput(stdio)
	if err != nil {
		e, _ := ipperr.As(err)
		return e.Kind.ExitCode(), err
	}
	defer closeInput()

	interp := &machine.Interpreter{
		Stdout:   stdio.Stdout,
		Stderr:   stdio.Stderr,
		Input:    input,
		Stdin:    stdio.Stdin,
		MaxSteps: c.maxSteps,
	}
	return interp.Run(prog)
}

// openSource returns the reader for the XML program: the --source file if
// given, else stdio.Stdin.
func (c *Cmd) openSource(stdio mainer.Stdio) (io.Reader, func() error, error) {
	if c.Source == "" {
		return stdio.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(c.Source)
	if err != nil {
		return nil, nil, ipperr.New(ipperr.InputUnreadable, "cannot open source %s: %v", c.Source, err)
	}
	return f, f.Close, nil
}

// openInput returns the reader for --input, or nil (letting Interpreter
// fall back to stdin) when --input was not given.
func (c *Cmd) openInput(stdio mainer.Stdio) (io.Reader, func() error, error) {
	if c.Input == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.Open(c.Input)
	if err != nil {
		return nil, nil, ipperr.New(ipperr.InputUnreadable, "cannot open input %s: %v", c.Input, err)
	}
	return f, f.Close, nil
}
