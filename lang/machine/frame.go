package machine

import (
	"fmt"
	"io"

	"github.com/dolthub/swiss"

	"github.com/mna/ippcode21/lang/ipperr"
)

// FrameTag identifies one of IPPcode21's three variable namespaces.
type FrameTag byte

const (
	GF FrameTag = iota // global frame
	LF                 // top of the local frame stack
	TF                 // temporary frame
)

func (f FrameTag) String() string {
	switch f {
	case GF:
		return "GF"
	case LF:
		return "LF"
	case TF:
		return "TF"
	default:
		return "?F"
	}
}

// slots is the backing store for a single frame's variable table: a mapping
// from bare identifier to the value currently held in that slot. Every
// frame (global, temporary, and each level of the local stack) owns one.
// declOrder additionally records names in declaration order, since swiss.Map
// exposes no enumeration; BREAK is the only consumer.
type slots struct {
	m         *swiss.Map[string, *Value]
	declOrder []string
}

func newSlots() *slots {
	return &slots{m: swiss.NewMap[string, *Value](8)}
}

// Frames implements the GF/TF/LF frame manager:
// a single global frame, at most one temporary frame (existence tracked
// explicitly since an absent TF is a distinct state from an empty one), and
// a stack of local frames addressed through their top.
type Frames struct {
	global *slots
	temp   *slots // nil when TF does not exist
	local  []*slots
}

// NewFrames returns an interpreter's frame manager with an empty global
// frame and no temporary or local frames.
func NewFrames() *Frames {
	return &Frames{global: newSlots()}
}

// resolve returns the backing slots map for tag, or a MissingFrame error.
func (f *Frames) resolve(tag FrameTag) (*slots, error) {
	switch tag {
	case GF:
		return f.global, nil
	case TF:
		if f.temp == nil {
			return nil, ipperr.New(ipperr.MissingFrame, "temporary frame does not exist")
		}
		return f.temp, nil
	case LF:
		if len(f.local) == 0 {
			return nil, ipperr.New(ipperr.MissingFrame, "local frame stack is empty")
		}
		return f.local[len(f.local)-1], nil
	default:
		return nil, ipperr.New(ipperr.MissingFrame, "unknown frame")
	}
}

// Define creates a new slot for name in the frame addressed by tag, holding
// Undef. Redeclaring an existing name is a semantic error.
func (f *Frames) Define(tag FrameTag, name string) error {
	s, err := f.resolve(tag)
	if err != nil {
		return err
	}
	if _, ok := s.m.Get(name); ok {
		return ipperr.New(ipperr.Semantic, "variable %s@%s already declared", tag, name)
	}
	v := Value(Undef)
	s.m.Put(name, &v)
	s.declOrder = append(s.declOrder, name)
	return nil
}

// Slot returns a pointer to the variable slot for name in the frame
// addressed by tag. It fails with UndefinedVar if the frame exists but has
// no such name, or MissingFrame if the frame itself does not exist.
func (f *Frames) Slot(tag FrameTag, name string) (*Value, error) {
	s, err := f.resolve(tag)
	if err != nil {
		return nil, err
	}
	v, ok := s.m.Get(name)
	if !ok {
		return nil, ipperr.New(ipperr.UndefinedVar, "variable %s@%s is not defined", tag, name)
	}
	return v, nil
}

// Dump writes a terse, human-oriented snapshot of every currently addressable
// frame to w, for BREAK. Order within a frame follows declaration order;
// wording is not part of any contract a test should pin.
func (f *Frames) Dump(w io.Writer) {
	dumpFrame := func(tag FrameTag, s *slots) {
		if s == nil {
			fmt.Fprintf(w, "%s: <does not exist>\n", tag)
			return
		}
		fmt.Fprintf(w, "%s: %d variable(s)\n", tag, len(s.declOrder))
		for _, name := range s.declOrder {
			v, _ := s.m.Get(name)
			fmt.Fprintf(w, "  %s = %s (%s)\n", name, (*v).String(), (*v).Type())
		}
	}
	dumpFrame(GF, f.global)
	dumpFrame(TF, f.temp)
	fmt.Fprintf(w, "LF: %d frame(s) deep\n", len(f.local))
	for i := len(f.local) - 1; i >= 0; i-- {
		dumpFrame(LF, f.local[i])
	}
}

// CreateFrame resets TF to a new, empty frame (marking it existing).
func (f *Frames) CreateFrame() {
	f.temp = newSlots()
}

// PushFrame requires TF to exist; it becomes the new top of the local frame
// stack and TF is cleared (marked absent).
func (f *Frames) PushFrame() error {
	if f.temp == nil {
		return ipperr.New(ipperr.MissingFrame, "temporary frame does not exist")
	}
	f.local = append(f.local, f.temp)
	f.temp = nil
	return nil
}

// PopFrame requires a non-empty local frame stack; its top becomes the new
// TF.
func (f *Frames) PopFrame() error {
	if len(f.local) == 0 {
		return ipperr.New(ipperr.MissingFrame, "local frame stack is empty")
	}
	n := len(f.local) - 1
	f.temp = f.local[n]
	f.local = f.local[:n]
	return nil
}
