package machine

// Value is the interface implemented by every value the machine can hold in
// a variable slot, on the data stack, or as a literal operand.
type Value interface {
	// String returns the value's natural text form, as used by WRITE.
	String() string

	// Type returns the short type name reported by the TYPE opcode: one of
	// "int", "bool", "string", "nil", "float", or "" for Undef.
	Type() string
}

// Ordered is implemented by values that support LT/GT comparison. Cmp may
// assume y has the same concrete type as the receiver.
type Ordered interface {
	Value
	// Cmp returns negative if the receiver is less than y, positive if
	// greater, and zero if equal.
	Cmp(y Value) (int, error)
}

// Equaler is implemented by values with an equality rule other than plain Go
// (==) comparison. No value type currently implements it; equal handles the
// `x EQ nil` rule for NilType directly.
type Equaler interface {
	Value
	Equal(y Value) (bool, error)
}
