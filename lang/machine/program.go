package machine

// OperandTag is the static type tag an instruction argument carries in the
// XML source, before any runtime resolution through a frame.
type OperandTag byte

const (
	TagInt OperandTag = iota
	TagFloat
	TagBool
	TagString
	TagNil
	TagLabel
	TagType
	TagVar
)

func (t OperandTag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagBool:
		return "bool"
	case TagString:
		return "string"
	case TagNil:
		return "nil"
	case TagLabel:
		return "label"
	case TagType:
		return "type"
	case TagVar:
		return "var"
	default:
		return "?"
	}
}

// Operand is one already-normalized instruction argument, as produced by
// the loader. Literal holds the decoded value for int/float/bool/string/nil
// tags; Frame/Name hold the parsed parts of a var operand; Label holds a
// label operand's target name (resolved at dispatch time through the
// Program's label table); TypeName holds a type operand's payload.
type Operand struct {
	Tag      OperandTag
	Literal  Value
	Frame    FrameTag
	Name     string
	Label    string
	TypeName string
}

// Instruction is one fully-loaded, positioned IPPcode21 instruction.
type Instruction struct {
	Order int
	Op    Opcode
	Args  []Operand
}

// Program is the immutable result of loading an IPPcode21 XML source: the
// instruction array, indexed by zero-based order-1 with gaps filled by
// no-ops (see xmlenc.Load), and the label table mapping a label name to the
// zero-based index of its LABEL instruction.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int
}
