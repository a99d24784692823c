package machine

// UndefType is the state of a variable slot that has been declared (by
// DEFVAR) but never assigned. Its only legal value is Undef. Reading it
// through any operand resolution fails with MISSING_VALUE; it is never
// otherwise observable except via TYPE, which reports "" for it.
type UndefType byte

const Undef = UndefType(0)

var _ Value = Undef

func (UndefType) String() string { return "" }
func (UndefType) Type() string   { return "" }
