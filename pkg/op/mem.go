package op

import (
	"fmt"

	"github.com/atlas-hdl/atlas/pkg/signal"
)

// SequentialContributor is implemented by operators (currently only MemOp)
// that need to contribute statements into an existing per-clock `always`
// block rather than opening their own (SPEC_FULL.md, C5 "Memory
// operator"). The emitter folds these lines into the same always block as
// ordinary register updates for the matching clock.
type SequentialContributor interface {
	Operator
	Clock() *signal.Bits
	SequentialLines(s Sink) ([]string, error)
}

type memRead struct {
	result *signal.Bits
	addr   *signal.Bits
	enable *signal.Bits // nil means always enabled
}

type memComb struct {
	result *signal.Bits
	addr   *signal.Bits
}

type memWrite struct {
	addr, data, enable *signal.Bits
}

// MemOp is a synchronous memory: Read is a registered (one-cycle-latency)
// read, ReadComb is combinational, and Write is a synchronous write.
// Unenabled reads behave as always enabled (spec section 4.5).
type MemOp struct {
	name         string
	Width, Depth uint
	clock        *signal.Bits
	namer        *Namer

	reads  []*memRead
	combs  []*memComb
	writes []*memWrite
}

// NewMem constructs a memory operator of the given width and depth,
// sequenced by clock.
func NewMem(namer *Namer, width, depth uint, clock *signal.Bits) *MemOp {
	return &MemOp{name: namer.Next("mem"), Width: width, Depth: depth, clock: clock, namer: namer}
}

// Name implements Operator.
func (m *MemOp) Name() string { return m.name }

// Clock implements SequentialContributor.
func (m *MemOp) Clock() *signal.Bits { return m.clock }

// Read declares a registered read port: the returned signal holds, on each
// clock edge, the value at addr as of the previous edge. enable is
// optional; when provided, the registered value only updates while it is
// asserted.
func (m *MemOp) Read(addr *signal.Bits, enable ...*signal.Bits) *signal.Bits {
	result := &signal.Bits{Width: m.Width, Clock: m.clock}
	*result.Meta() = signal.Meta{Name: fmt.Sprintf("%s_read_%d", m.name, len(m.reads))}

	r := &memRead{result: result, addr: addr}
	if len(enable) > 0 {
		r.enable = enable[0]
	}

	m.reads = append(m.reads, r)

	return result
}

// ReadComb declares a combinational read port.
func (m *MemOp) ReadComb(addr *signal.Bits) *signal.Bits {
	result := &signal.Bits{Width: m.Width}
	*result.Meta() = signal.Meta{Name: fmt.Sprintf("%s_comb_%d", m.name, len(m.combs))}

	m.combs = append(m.combs, &memComb{result: result, addr: addr})

	return result
}

// Write declares a synchronous write port, active while enable is high.
func (m *MemOp) Write(addr, data, enable *signal.Bits) {
	m.writes = append(m.writes, &memWrite{addr: addr, data: data, enable: enable})
}

// Results implements Operator: a memory's "results" are its read ports.
func (m *MemOp) Results() []signal.Signal {
	out := make([]signal.Signal, 0, len(m.reads)+len(m.combs))
	for _, r := range m.reads {
		out = append(out, r.result)
	}

	for _, c := range m.combs {
		out = append(out, c.result)
	}

	return out
}

// Declare implements Operator: declares the backing register array plus
// one net per read port.
func (m *MemOp) Declare(s Sink) error {
	s.Raw(fmt.Sprintf("reg [%d:0] %s [%d:0];", m.Width-1, m.name, m.Depth-1))

	for _, r := range m.reads {
		name, err := s.NameOf(r.result)
		if err != nil {
			return err
		}

		s.DeclReg(name, m.Width, false)
	}

	for _, c := range m.combs {
		name, err := s.NameOf(c.result)
		if err != nil {
			return err
		}

		s.DeclWire(name, m.Width, false)
	}

	return nil
}

// Synthesize implements Operator: only the combinational read ports are
// emitted here; registered reads and writes are folded into the owning
// clock's always block via SequentialLines.
func (m *MemOp) Synthesize(s Sink) error {
	for _, c := range m.combs {
		lhs, err := s.NameOf(c.result)
		if err != nil {
			return err
		}

		addr, err := s.NameOf(c.addr)
		if err != nil {
			return err
		}

		s.Raw(fmt.Sprintf("assign %s = %s[%s];", lhs, m.name, addr))
	}

	return nil
}

// SequentialLines implements SequentialContributor.
func (m *MemOp) SequentialLines(s Sink) ([]string, error) {
	var lines []string

	for _, r := range m.reads {
		lhs, err := s.NameOf(r.result)
		if err != nil {
			return nil, err
		}

		addr, err := s.NameOf(r.addr)
		if err != nil {
			return nil, err
		}

		body := fmt.Sprintf("%s <= %s[%s];", lhs, m.name, addr)

		if r.enable != nil {
			en, err := s.NameOf(r.enable)
			if err != nil {
				return nil, err
			}

			body = fmt.Sprintf("if (%s) %s", en, body)
		}

		lines = append(lines, body)
	}

	for _, w := range m.writes {
		addr, err := s.NameOf(w.addr)
		if err != nil {
			return nil, err
		}

		data, err := s.NameOf(w.data)
		if err != nil {
			return nil, err
		}

		en, err := s.NameOf(w.enable)
		if err != nil {
			return nil, err
		}

		lines = append(lines, fmt.Sprintf("if (%s) %s[%s] <= %s;", en, m.name, addr, data))
	}

	return lines, nil
}
