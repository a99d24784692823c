package xmlenc

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/mna/ippcode21/lang/ipperr"
	"github.com/mna/ippcode21/lang/machine"
)

var (
	identChars = `A-Za-z_\-$&%*!?`
	varRE      = regexp.MustCompile(`^(GF|LF|TF)@([` + identChars + `][` + identChars + `0-9]*)$`)
	identRE    = regexp.MustCompile(`^[` + identChars + `][` + identChars + `0-9]*$`)
)

var typeNames = map[string]bool{"int": true, "string": true, "bool": true, "float": true}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ipperr.New(ipperr.XMLStructure, "instruction order %q is not a positive integer", s)
	}
	return n, nil
}

// toOperand normalizes one rawArg into a machine.Operand.
func toOperand(a rawArg) (machine.Operand, error) {
	switch a.Type {
	case "int":
		n, err := strconv.ParseInt(a.Text, 10, 64)
		if err != nil {
			return machine.Operand{}, ipperr.New(ipperr.XMLStructure, "invalid int literal %q", a.Text)
		}
		return machine.Operand{Tag: machine.TagInt, Literal: machine.Int(n)}, nil

	case "float":
		f, err := strconv.ParseFloat(a.Text, 64)
		if err != nil {
			return machine.Operand{}, ipperr.New(ipperr.XMLStructure, "invalid float literal %q", a.Text)
		}
		return machine.Operand{Tag: machine.TagFloat, Literal: machine.Float(f)}, nil

	case "bool":
		switch a.Text {
		case "true":
			return machine.Operand{Tag: machine.TagBool, Literal: machine.True}, nil
		case "false":
			return machine.Operand{Tag: machine.TagBool, Literal: machine.False}, nil
		default:
			return machine.Operand{}, ipperr.New(ipperr.XMLStructure, `invalid bool literal %q, expected "true" or "false"`, a.Text)
		}

	case "nil":
		if a.Text != "nil" {
			return machine.Operand{}, ipperr.New(ipperr.XMLStructure, `invalid nil literal %q, expected "nil"`, a.Text)
		}
		return machine.Operand{Tag: machine.TagNil, Literal: machine.Nil}, nil

	case "string":
		s, err := decodeString(a.Text)
		if err != nil {
			return machine.Operand{}, err
		}
		return machine.Operand{Tag: machine.TagString, Literal: s}, nil

	case "var":
		m := varRE.FindStringSubmatch(a.Text)
		if m == nil {
			return machine.Operand{}, ipperr.New(ipperr.XMLStructure, "invalid var operand %q", a.Text)
		}
		var tag machine.FrameTag
		switch m[1] {
		case "GF":
			tag = machine.GF
		case "LF":
			tag = machine.LF
		case "TF":
			tag = machine.TF
		}
		return machine.Operand{Tag: machine.TagVar, Frame: tag, Name: m[2]}, nil

	case "label":
		if !identRE.MatchString(a.Text) {
			return machine.Operand{}, ipperr.New(ipperr.XMLStructure, "invalid label operand %q", a.Text)
		}
		return machine.Operand{Tag: machine.TagLabel, Label: a.Text}, nil

	case "type":
		if !typeNames[a.Text] {
			return machine.Operand{}, ipperr.New(ipperr.XMLStructure, "invalid type operand %q", a.Text)
		}
		return machine.Operand{Tag: machine.TagType, TypeName: a.Text}, nil

	default:
		return machine.Operand{}, ipperr.New(ipperr.XMLStructure, "unknown argument type %q", a.Type)
	}
}

// decodeString implements the string payload rule: no literal
// byte <= 0x20 or '#', with \NNN (three decimal digits) escapes decoding to
// the scalar with that code point.
func decodeString(raw string) (machine.Str, error) {
	var out machine.Str
	i, n := 0, len(raw)
	for i < n {
		if raw[i] == '\\' {
			if i+4 > n || !isThreeDigits(raw[i+1:i+4]) {
				return nil, ipperr.New(ipperr.XMLStructure, "invalid \\NNN escape in string literal %q", raw)
			}
			v, _ := strconv.Atoi(raw[i+1 : i+4])
			out = append(out, rune(v))
			i += 4
			continue
		}
		r, size := utf8.DecodeRuneInString(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, ipperr.New(ipperr.XMLStructure, "invalid UTF-8 in string literal %q", raw)
		}
		if r <= 0x20 || r == '#' {
			return nil, ipperr.New(ipperr.XMLStructure, "string literal %q contains an unescaped control character or '#'", raw)
		}
		out = append(out, r)
		i += size
	}
	return out, nil
}

func isThreeDigits(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
