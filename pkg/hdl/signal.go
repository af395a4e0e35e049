package hdl

import (
	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/connection"
	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/typespec"
)

// Lit wraps an integer as a connection right-hand side, adopting whatever
// width it is used against (spec section 4.5: "integer literals adopt the
// other operand's width").
func Lit(v int64) connection.Literal { return connection.Literal{Value: v} }

// BitLit wraps a single bit as a connection right-hand side, the natural
// form for a predicate or a single-bit field value.
func BitLit(v bool) connection.Literal {
	var i int64
	if v {
		i = 1
	}

	return connection.Literal{Value: i, IsBit: true}
}

// Wire declares a named internal signal in the current module, undriven
// until connected.
func Wire(name string, ts typespec.TypeSpec) (signal.Signal, error) {
	s, err := currentScope()
	if err != nil {
		return nil, err
	}

	m, err := s.e.CurrentModule()
	if err != nil {
		return nil, err
	}

	root := signal.Create(ts, name, m)
	m.Signals = append(m.Signals, root)

	return root, nil
}

// RegOption configures a register declared via Reg.
type RegOption func(*regConfig)

type regConfig struct {
	clock      *signal.Bits
	reset      *signal.Bits
	resetValue any
}

// WithClock overrides the clock a register is sequenced by (default: the
// enclosing module's default clock, if the circuit declares one).
func WithClock(clk *signal.Bits) RegOption {
	return func(c *regConfig) { c.clock = clk }
}

// WithReset overrides the reset signal a register synchronously observes.
func WithReset(rst *signal.Bits) RegOption {
	return func(c *regConfig) { c.reset = rst }
}

// WithResetValue sets the value a register synchronously resets to. It has
// no effect unless a reset signal is also configured (via WithReset or the
// module's default reset).
func WithResetValue(v any) RegOption {
	return func(c *regConfig) { c.resetValue = v }
}

// Reg declares a named register in the current module: every Bits leaf of
// ts becomes sequential, clocked by opts' clock (or the module's default
// clock). With no connections ever made, a register holds its value
// (spec section 6, "self-assigns on the first cycle"): pkg/verilog emits
// `leaf <= leaf;` for any register leaf with an empty connection list, so
// no synthetic self-connection is required here.
func Reg(name string, ts typespec.TypeSpec, opts ...RegOption) (signal.Signal, error) {
	s, err := currentScope()
	if err != nil {
		return nil, err
	}

	m, err := s.e.CurrentModule()
	if err != nil {
		return nil, err
	}

	cfg := &regConfig{}
	for _, o := range opts {
		o(cfg)
	}

	clock := cfg.clock
	if clock == nil {
		clock = m.Clock()
	}

	if clock == nil {
		return nil, atlaserr.Context("register %q declared with no clock available", name)
	}

	reset := cfg.reset
	if reset == nil {
		reset = m.Reset()
	}

	root := signal.Create(ts, name, m)

	for _, bits := range signal.CollectBits(root) {
		bits.Clock = clock

		if reset != nil {
			bits.Reset = reset
			bits.ResetValue = cfg.resetValue
		}
	}

	m.Signals = append(m.Signals, root)

	return root, nil
}

// RegDefault declares a register that resets to value using the module's
// default reset, mirroring the original's RegInit ergonomics for the
// common "reset to a literal" case (SPEC_FULL.md, Supplemented features).
func RegDefault(name string, ts typespec.TypeSpec, value any, opts ...RegOption) (signal.Signal, error) {
	s, err := currentScope()
	if err != nil {
		return nil, err
	}

	m, err := s.e.CurrentModule()
	if err != nil {
		return nil, err
	}

	rst := m.Reset()
	if rst == nil {
		return nil, atlaserr.Context("RegDefault requires the circuit to declare a default reset")
	}

	opts = append([]RegOption{WithReset(rst), WithResetValue(value)}, opts...)

	return Reg(name, ts, opts...)
}

// Connect is the universal assignment primitive, the explicit replacement
// for the original's `leaf <<= rhs` operator (Design Note, "Overloaded
// assignment via operator hijacking"): it appends rhs to lhs's connection
// list under whatever predicate frames are currently active (When/
// Otherwise nesting).
func Connect(lhs *signal.Bits, rhs connection.Entry) error {
	s, err := currentScope()
	if err != nil {
		return err
	}

	// Only IO and instance-shadow leaves resolve a direction at all (internal wires/regs carry
	// Inherit with no Signal ancestor and so fail resolution here); an
	// input-direction leaf must never be driven from inside its own module
	// (spec section 3, "Invariants"; section 7, "assignment to an
	// input-direction leaf").
	if dir, derr := signal.ResolveDirection(lhs); derr == nil && dir == typespec.Input {
		return atlaserr.TypeWidth("cannot assign to input-direction leaf %q", lhs.Meta().Name)
	}

	connection.Insert(lhs, s.e.CurrentPredicate(), rhs)

	return nil
}

// ConnectContainer assigns rhs onto lhs leaf-by-leaf by structural position
// (spec section 3, "Invariants": container-level assignments are sugar
// recursively assigning each leaf). List elements pair up index-parallel and
// must match in length; bundle fields pair up key-parallel, and rhs may
// supply a subset of lhs's keys — the lhs fields rhs omits are left for a
// separate Connect/ConnectContainer call to drive.
func ConnectContainer(lhs signal.Signal, rhs any) error {
	switch l := lhs.(type) {
	case *signal.Bits:
		entry, ok := rhs.(connection.Entry)
		if !ok {
			return atlaserr.Structural("cannot connect %T onto a bits leaf", rhs)
		}

		return Connect(l, entry)
	case *signal.List:
		r, ok := rhs.(*signal.List)
		if !ok || len(r.Fields) != len(l.Fields) {
			return atlaserr.Structural("list shape mismatch in container connection")
		}

		for i := range l.Fields {
			if err := ConnectContainer(l.Fields[i], r.Fields[i]); err != nil {
				return err
			}
		}

		return nil
	case *signal.Bundle:
		r, ok := rhs.(*signal.Bundle)
		if !ok {
			return atlaserr.Structural("bundle shape mismatch in container connection")
		}

		for _, k := range r.Keys {
			field, present := l.Fields[k]
			if !present {
				return atlaserr.Structural("bundle key %q not present on lhs", k)
			}

			if err := ConnectContainer(field, r.Fields[k]); err != nil {
				return err
			}
		}

		return nil
	default:
		return atlaserr.Structural("unknown signal type %T", lhs)
	}
}
