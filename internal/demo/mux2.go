// Package demo holds small, self-contained circuit descriptions exercised
// by cmd/atlas: the scenarios spec.md's "Concrete scenarios" section names
// literally (2-to-1 mux, ripple adder, a GCD FSM, an enum-driven UART-style
// receiver and a memory), each built the way a user of pkg/hdl would build
// it and nothing more.
package demo

import (
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/hdl"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

func bits(sig signal.Signal, name string) *signal.Bits {
	b, ok := sig.(*signal.Bundle)
	if !ok {
		return nil
	}

	bits, _ := b.Fields[name].(*signal.Bits)

	return bits
}

// Mux2 builds scenario 1: a plain 2-to-1 multiplexer selected by sel,
// described with a When/Otherwise pair rather than the Mux operator, since
// the point of this demo is the predicate-stack lowering (spec section 8,
// scenario 1), not pkg/op.MuxOp.
func Mux2() (*elaborate.Circuit, error) {
	return hdl.Circuit("Mux", false, false, func() error {
		newMux := hdl.ModuleFactory("Mux", func(args ...any) error {
			io, err := hdl.Io(
				hdl.Field("a", hdl.Input(hdl.Bits(8))),
				hdl.Field("b", hdl.Input(hdl.Bits(8))),
				hdl.Field("sel", hdl.Input(hdl.Bits(1))),
				hdl.Field("out", hdl.Output(hdl.Bits(8))),
			)
			if err != nil {
				return err
			}

			a, b, sel, out := bits(io, "a"), bits(io, "b"), bits(io, "sel"), bits(io, "out")

			if err := hdl.When(sel, func() error {
				return hdl.Connect(out, b)
			}); err != nil {
				return err
			}

			return hdl.Otherwise(func() error {
				return hdl.Connect(out, a)
			})
		})

		_, err := newMux()

		return err
	})
}
