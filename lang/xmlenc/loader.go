package xmlenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/mna/ippcode21/lang/ipperr"
	"github.com/mna/ippcode21/lang/machine"
)

// Load reads an IPPcode21 XML document from r and produces a validated
// *machine.Program, or fails with the ipperr.Kind assigned to the
// violation: Format for malformed XML, XMLStructure for structural or
// per-type violations, Semantic for duplicate labels or unresolved jump
// targets.
func Load(r io.Reader) (*machine.Program, error) {
	raws, err := parseDocument(r)
	if err != nil {
		return nil, err
	}

	insts := make([]machine.Instruction, 0, len(raws))
	maxOrder := 0
	for _, raw := range raws {
		inst, err := toInstruction(raw)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
		if inst.Order > maxOrder {
			maxOrder = inst.Order
		}
	}

	program := &machine.Program{
		Instructions: make([]machine.Instruction, maxOrder),
		Labels:       make(map[string]int),
	}
	for _, inst := range insts {
		program.Instructions[inst.Order-1] = inst
	}

	for _, inst := range insts {
		if inst.Op == machine.LABEL {
			name := inst.Args[0].Label
			if _, dup := program.Labels[name]; dup {
				return nil, ipperr.New(ipperr.Semantic, "duplicate label %q", name)
			}
			program.Labels[name] = inst.Order - 1
		}
	}

	if err := checkLabelReferences(insts, program.Labels); err != nil {
		return nil, err
	}

	return program, nil
}

// toInstruction checks the opcode and its declared arity against the
// sorted arg1..argK sequence, then converts each argument.
func toInstruction(raw rawInstruction) (machine.Instruction, error) {
	op, ok := machine.LookupOpcode(strings.ToUpper(raw.Opcode))
	if !ok {
		return machine.Instruction{}, ipperr.New(ipperr.XMLStructure, "unknown opcode %q", raw.Opcode)
	}

	args := append([]rawArg(nil), raw.Args...)
	slices.SortFunc(args, func(a, b rawArg) int { return strings.Compare(a.Tag, b.Tag) })

	want := machine.Arity(op)
	if len(args) != want {
		return machine.Instruction{}, ipperr.New(ipperr.XMLStructure,
			"%s at order %d expects %d argument(s), found %d", op, raw.Order, want, len(args))
	}
	for i, a := range args {
		if a.Tag != fmt.Sprintf("arg%d", i+1) {
			return machine.Instruction{}, ipperr.New(ipperr.XMLStructure,
				"%s at order %d has non-contiguous argument tags", op, raw.Order)
		}
	}

	operands := make([]machine.Operand, len(args))
	for i, a := range args {
		o, err := toOperand(a)
		if err != nil {
			return machine.Instruction{}, err
		}
		operands[i] = o
	}

	return machine.Instruction{Order: raw.Order, Op: op, Args: operands}, nil
}

// checkLabelReferences verifies every label targeted by a jumping/calling
// instruction resolves.
func checkLabelReferences(insts []machine.Instruction, labels map[string]int) error {
	for _, inst := range insts {
		if !machine.IsJump(inst.Op) {
			continue
		}
		target := inst.Args[0]
		if target.Tag != machine.TagLabel {
			continue
		}
		if _, ok := labels[target.Label]; !ok {
			return ipperr.New(ipperr.Semantic, "%s at order %d targets undefined label %q", inst.Op, inst.Order, target.Label)
		}
	}
	return nil
}
