package op

import (
	"fmt"
	"strings"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// NotOp produces the bitwise complement of its input.
type NotOp struct {
	name   string
	A      *signal.Bits
	Result *signal.Bits
}

// NewNot constructs a bitwise-not operator.
func NewNot(namer *Namer, a *signal.Bits) *NotOp {
	o := &NotOp{name: namer.Next("not"), A: a}
	o.Result = &signal.Bits{Width: a.Width}
	*o.Result.Meta() = signal.Meta{Name: o.name + "_result"}

	return o
}

func (o *NotOp) Name() string             { return o.name }
func (o *NotOp) Results() []signal.Signal { return []signal.Signal{o.Result} }
func (o *NotOp) Declare(s Sink) error {
	name, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	s.DeclWire(name, o.Result.Width, o.Result.Signed)

	return nil
}

func (o *NotOp) Synthesize(s Sink) error {
	lhs, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	a, err := s.NameOf(o.A)
	if err != nil {
		return err
	}

	s.Raw(fmt.Sprintf("assign %s = ~%s;", lhs, a))

	return nil
}

// CacheKey implements Cacheable.
func (o *NotOp) CacheKey() Key {
	return Key{Opcode: "not", Inputs: []uint64{Identity(o.A)}}
}

// SliceOp extracts a contiguous bit range [high:low] from its input.
type SliceOp struct {
	name       string
	A          *signal.Bits
	High, Low  uint
	Result     *signal.Bits
}

// NewSlice constructs a bit-slice operator. high must be >= low.
func NewSlice(namer *Namer, a *signal.Bits, high, low uint) (*SliceOp, error) {
	if high < low {
		return nil, atlaserr.TypeWidth("slice high (%d) must be >= low (%d)", high, low)
	}

	o := &SliceOp{name: namer.Next("slice"), A: a, High: high, Low: low}
	o.Result = &signal.Bits{Width: high - low + 1}
	*o.Result.Meta() = signal.Meta{Name: o.name + "_result"}

	return o, nil
}

func (o *SliceOp) Name() string             { return o.name }
func (o *SliceOp) Results() []signal.Signal { return []signal.Signal{o.Result} }
func (o *SliceOp) Declare(s Sink) error {
	name, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	s.DeclWire(name, o.Result.Width, o.Result.Signed)

	return nil
}

func (o *SliceOp) Synthesize(s Sink) error {
	lhs, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	a, err := s.NameOf(o.A)
	if err != nil {
		return err
	}

	s.Raw(fmt.Sprintf("assign %s = %s[%d:%d];", lhs, a, o.High, o.Low))

	return nil
}

// CacheKey implements Cacheable.
func (o *SliceOp) CacheKey() Key {
	return Key{
		Opcode: "slice",
		Inputs: []uint64{Identity(o.A)},
		Params: fmt.Sprintf("%d:%d", o.High, o.Low),
	}
}

// ConcatOp concatenates an arbitrary number of Bits signals, most
// significant first, matching Verilog's `{a, b, c}` syntax. This is an
// (ADDED) generalization of the original's pairwise Cat helper to arbitrary
// arity (see SPEC_FULL.md, C5).
type ConcatOp struct {
	name   string
	Parts  []*signal.Bits
	Result *signal.Bits
}

// NewConcat constructs a concatenation operator over parts, ordered
// most-significant-first.
func NewConcat(namer *Namer, parts []*signal.Bits) (*ConcatOp, error) {
	if len(parts) == 0 {
		return nil, atlaserr.Structural("concat requires at least one part")
	}

	var width uint

	for _, p := range parts {
		width += p.Width
	}

	o := &ConcatOp{name: namer.Next("cat"), Parts: append([]*signal.Bits{}, parts...)}
	o.Result = &signal.Bits{Width: width}
	*o.Result.Meta() = signal.Meta{Name: o.name + "_result"}

	return o, nil
}

func (o *ConcatOp) Name() string             { return o.name }
func (o *ConcatOp) Results() []signal.Signal { return []signal.Signal{o.Result} }
func (o *ConcatOp) Declare(s Sink) error {
	name, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	s.DeclWire(name, o.Result.Width, o.Result.Signed)

	return nil
}

func (o *ConcatOp) Synthesize(s Sink) error {
	lhs, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	names := make([]string, len(o.Parts))

	for i, p := range o.Parts {
		n, err := s.NameOf(p)
		if err != nil {
			return err
		}

		names[i] = n
	}

	s.Raw(fmt.Sprintf("assign %s = {%s};", lhs, strings.Join(names, ", ")))

	return nil
}

// CacheKey implements Cacheable.
func (o *ConcatOp) CacheKey() Key {
	inputs := make([]uint64, len(o.Parts))
	for i, p := range o.Parts {
		inputs[i] = Identity(p)
	}

	return Key{Opcode: "cat", Inputs: inputs}
}
