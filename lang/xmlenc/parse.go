// Package xmlenc implements the XML loader/validator: it
// turns an IPPcode21 XML document into a *machine.Program or fails with the
// specific typed error the malformed input calls for. Generic XML
// well-formedness is treated as encoding/xml's job; this package owns
// everything IPPcode21-specific layered on top of it.
package xmlenc

import (
	"encoding/xml"
	"io"
	"regexp"

	"github.com/mna/ippcode21/lang/ipperr"
)

// rawArg is one arg1..argN child of an <instruction>, before type-specific
// normalization.
type rawArg struct {
	Tag  string
	Type string
	Text string
}

// rawInstruction is one <instruction> element, before arity checking and
// operand normalization.
type rawInstruction struct {
	Order  int
	Opcode string
	Args   []rawArg
}

var argTagRE = regexp.MustCompile(`^arg[1-9][0-9]*$`)

// parseDocument walks the XML token stream and extracts the raw instruction
// list, enforcing the document-level shape rules that have nothing to do
// with opcode arity or operand types.
func parseDocument(r io.Reader) ([]rawInstruction, error) {
	dec := xml.NewDecoder(r)

	var insts []rawInstruction
	seenRoot := false
	seenOrders := make(map[int]bool)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ipperr.New(ipperr.Format, "malformed XML: %v", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !seenRoot {
			if se.Name.Local != "program" {
				return nil, ipperr.New(ipperr.XMLStructure, "root element must be <program>, found <%s>", se.Name.Local)
			}
			if err := requireAttrs(se.Attr, []string{"language"}, []string{"name", "description"}); err != nil {
				return nil, err
			}
			if lang := attrValue(se.Attr, "language"); lang != "IPPcode21" {
				return nil, ipperr.New(ipperr.XMLStructure, `<program> language attribute must be "IPPcode21", found %q`, lang)
			}
			seenRoot = true
			continue
		}

		if se.Name.Local != "instruction" {
			return nil, ipperr.New(ipperr.XMLStructure, "expected <instruction>, found <%s>", se.Name.Local)
		}
		inst, err := parseInstruction(dec, se)
		if err != nil {
			return nil, err
		}
		if seenOrders[inst.Order] {
			return nil, ipperr.New(ipperr.XMLStructure, "duplicate instruction order %d", inst.Order)
		}
		seenOrders[inst.Order] = true
		insts = append(insts, inst)
	}

	if !seenRoot {
		return nil, ipperr.New(ipperr.XMLStructure, "missing root <program> element")
	}
	return insts, nil
}

func parseInstruction(dec *xml.Decoder, start xml.StartElement) (rawInstruction, error) {
	if err := requireAttrs(start.Attr, []string{"order", "opcode"}, nil); err != nil {
		return rawInstruction{}, err
	}
	order, err := parsePositiveInt(attrValue(start.Attr, "order"))
	if err != nil {
		return rawInstruction{}, err
	}
	opcode := attrValue(start.Attr, "opcode")

	var args []rawArg
	for {
		tok, err := dec.Token()
		if err != nil {
			return rawInstruction{}, ipperr.New(ipperr.Format, "malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			arg, err := parseArg(dec, t)
			if err != nil {
				return rawInstruction{}, err
			}
			args = append(args, arg)
		case xml.EndElement:
			return rawInstruction{Order: order, Opcode: opcode, Args: args}, nil
		}
	}
}

func parseArg(dec *xml.Decoder, start xml.StartElement) (rawArg, error) {
	tag := start.Name.Local
	if !argTagRE.MatchString(tag) {
		return rawArg{}, ipperr.New(ipperr.XMLStructure, "unexpected instruction child <%s>", tag)
	}
	if err := requireAttrs(start.Attr, []string{"type"}, nil); err != nil {
		return rawArg{}, err
	}
	typ := attrValue(start.Attr, "type")

	var text []byte
	for {
		tok, err := dec.Token()
		if err != nil {
			return rawArg{}, ipperr.New(ipperr.Format, "malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text = append(text, t...)
		case xml.EndElement:
			return rawArg{Tag: tag, Type: typ, Text: string(text)}, nil
		}
	}
}

// requireAttrs checks that every name in required is present and that no
// attribute outside required+optional appears.
func requireAttrs(attrs []xml.Attr, required, optional []string) error {
	allowed := make(map[string]bool, len(required)+len(optional))
	for _, n := range required {
		allowed[n] = true
	}
	for _, n := range optional {
		allowed[n] = true
	}
	for _, a := range attrs {
		if !allowed[a.Name.Local] {
			return ipperr.New(ipperr.XMLStructure, "unexpected attribute %q", a.Name.Local)
		}
	}
	for _, n := range required {
		if !hasAttr(attrs, n) {
			return ipperr.New(ipperr.XMLStructure, "missing required attribute %q", n)
		}
	}
	return nil
}

func hasAttr(attrs []xml.Attr, name string) bool {
	for _, a := range attrs {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
