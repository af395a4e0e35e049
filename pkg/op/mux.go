package op

import (
	"fmt"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// MuxOp selects one element of a List signal using an index signal. The
// list must contain only Bits elements of identical width.
type MuxOp struct {
	name    string
	List    *signal.List
	Index   *signal.Bits
	Result  *signal.Bits
	elWidth uint
}

// NewMux constructs a multiplexer operator over list, indexed by index.
func NewMux(namer *Namer, list *signal.List, index *signal.Bits) (*MuxOp, error) {
	if len(list.Fields) == 0 {
		return nil, atlaserr.Structural("cannot mux an empty list")
	}

	elem, ok := list.Fields[0].(*signal.Bits)
	if !ok {
		return nil, atlaserr.Structural("mux only supports lists of bits signals")
	}

	o := &MuxOp{name: namer.Next("mux"), List: list, Index: index, elWidth: elem.Width}
	o.Result = &signal.Bits{Width: elem.Width}
	*o.Result.Meta() = signal.Meta{Name: o.name + "_result"}

	return o, nil
}

func (o *MuxOp) Name() string             { return o.name }
func (o *MuxOp) Results() []signal.Signal { return []signal.Signal{o.Result} }

func (o *MuxOp) Declare(s Sink) error {
	name, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	s.DeclWire(name, o.Result.Width, o.Result.Signed)

	return nil
}

func (o *MuxOp) Synthesize(s Sink) error {
	node := s.NextNodeName()
	s.Raw(fmt.Sprintf("wire [%d:0] %s [%d:0];", o.elWidth-1, node, len(o.List.Fields)-1))

	for i, f := range o.List.Fields {
		fieldName, err := s.NameOf(f)
		if err != nil {
			return err
		}

		s.Raw(fmt.Sprintf("assign %s[%d] = %s;", node, i, fieldName))
	}

	lhs, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	idx, err := s.NameOf(o.Index)
	if err != nil {
		return err
	}

	s.Raw(fmt.Sprintf("assign %s = %s[%s];", lhs, node, idx))

	return nil
}

// CacheKey implements Cacheable.
func (o *MuxOp) CacheKey() Key {
	return Key{Opcode: "mux", Inputs: []uint64{Identity(o.List), Identity(o.Index)}}
}
