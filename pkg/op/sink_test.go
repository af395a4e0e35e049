package op

import (
	"fmt"

	"github.com/atlas-hdl/atlas/pkg/connection"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// fakeSink is a minimal in-memory Sink used to exercise operator Declare and
// Synthesize without pulling in pkg/verilog.
type fakeSink struct {
	lines   []string
	nodeSeq int
}

func (f *fakeSink) NameOf(item any) (string, error) {
	switch v := item.(type) {
	case *signal.Bits:
		return v.Meta().Name, nil
	case connection.Literal:
		return fmt.Sprintf("%d", v.Value), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("fakeSink: cannot name %T", item)
	}
}

func (f *fakeSink) DeclWire(name string, width uint, signed bool) {
	f.lines = append(f.lines, fmt.Sprintf("wire[%d] %s signed=%v", width, name, signed))
}

func (f *fakeSink) DeclReg(name string, width uint, signed bool) {
	f.lines = append(f.lines, fmt.Sprintf("reg[%d] %s signed=%v", width, name, signed))
}

func (f *fakeSink) Raw(line string) {
	f.lines = append(f.lines, line)
}

func (f *fakeSink) NextNodeName() string {
	f.nodeSeq++
	return fmt.Sprintf("_NODE_%d", f.nodeSeq-1)
}

func bitsNamed(name string, width uint) *signal.Bits {
	b := &signal.Bits{Width: width}
	*b.Meta() = signal.Meta{Name: name}
	return b
}
