package demo

import (
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/hdl"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// InstanceDemo builds scenario 6: a small leaf module (x input, y output)
// instantiated once inside a wrapper, exercising the shadow-signal
// direction flip (spec section 8, scenario 6): the wrapper drives the
// instance's x (an output on the wrapper's side of the boundary) and reads
// its y (an input on the wrapper's side).
func InstanceDemo() (*elaborate.Circuit, error) {
	return hdl.Circuit("InstanceDemo", false, false, func() error {
		newLeaf := hdl.ModuleFactory("Leaf", func(args ...any) error {
			io, err := hdl.Io(
				hdl.Field("x", hdl.Input(hdl.Bits(4))),
				hdl.Field("y", hdl.Output(hdl.Bits(4))),
			)
			if err != nil {
				return err
			}

			x, y := bits(io, "x"), bits(io, "y")

			return hdl.Connect(y, x)
		})

		newWrapper := hdl.ModuleFactory("Wrapper", func(args ...any) error {
			wrapperIO, err := hdl.Io(
				hdl.Field("out", hdl.Output(hdl.Bits(4))),
			)
			if err != nil {
				return err
			}

			leaf, err := newLeaf()
			if err != nil {
				return err
			}

			inst, err := hdl.Instance(leaf)
			if err != nil {
				return err
			}

			local, ok := inst.Local.(*signal.Bundle)
			if !ok {
				return nil
			}

			x, _ := local.Fields["x"].(*signal.Bits)
			y, _ := local.Fields["y"].(*signal.Bits)

			if err := hdl.Connect(x, hdl.Lit(5)); err != nil {
				return err
			}

			out := bits(wrapperIO, "out")

			return hdl.Connect(out, y)
		})

		_, err := newWrapper()

		return err
	})
}
