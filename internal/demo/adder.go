package demo

import (
	"fmt"

	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/hdl"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// RippleAdder builds scenario 2: an n-bit ripple-carry adder assembled bit
// by bit from Xor/And/Or, each bit's sum and carry-out computed the way
// spec.md's scenario spells out (s = a^b^cin, c = ab + (a^b)cin), then
// concatenated into the output bus (spec section 8, scenario 2).
func RippleAdder(n uint) (*elaborate.Circuit, error) {
	name := fmt.Sprintf("RippleAdder%d", n)

	return hdl.Circuit(name, false, false, func() error {
		newAdder := hdl.ModuleFactory(name, func(args ...any) error {
			io, err := hdl.Io(
				hdl.Field("a", hdl.Input(hdl.Bits(n))),
				hdl.Field("b", hdl.Input(hdl.Bits(n))),
				hdl.Field("cin", hdl.Input(hdl.Bits(1))),
				hdl.Field("sum_out", hdl.Output(hdl.Bits(n))),
				hdl.Field("cout", hdl.Output(hdl.Bits(1))),
			)
			if err != nil {
				return err
			}

			a, b, cin := bits(io, "a"), bits(io, "b"), bits(io, "cin")
			sumOut, cout := bits(io, "sum_out"), bits(io, "cout")

			sumBits := make([]*signal.Bits, n)
			carry := cin

			for i := uint(0); i < n; i++ {
				ai, err := hdl.Slice(a, i, i)
				if err != nil {
					return err
				}

				bi, err := hdl.Slice(b, i, i)
				if err != nil {
					return err
				}

				axb, err := hdl.Xor(ai, bi)
				if err != nil {
					return err
				}

				s, err := hdl.Xor(axb, carry)
				if err != nil {
					return err
				}

				ab, err := hdl.And(ai, bi)
				if err != nil {
					return err
				}

				axbAndCarry, err := hdl.And(axb, carry)
				if err != nil {
					return err
				}

				nextCarry, err := hdl.Or(ab, axbAndCarry)
				if err != nil {
					return err
				}

				sumBits[i] = s
				carry = nextCarry
			}

			// Most-significant-bit-first for hdl.Cat.
			parts := make([]*signal.Bits, n)
			for i, s := range sumBits {
				parts[n-1-i] = s
			}

			cat, err := hdl.Cat(parts...)
			if err != nil {
				return err
			}

			if err := hdl.Connect(sumOut, cat); err != nil {
				return err
			}

			return hdl.Connect(cout, carry)
		})

		_, err := newAdder()

		return err
	})
}
