package demo

import (
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/hdl"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// GCD builds scenario 3: a subtractive GCD unit with two registers and a
// start/done handshake, elaborated exactly as spec.md's scenario
// describes it (spec section 8, scenario 3) — `a_reg`/`b_reg` loaded on
// `start`, otherwise repeatedly subtracting the smaller from the larger
// until one reaches zero.
func GCD() (*elaborate.Circuit, error) {
	return hdl.Circuit("GCD", true, true, func() error {
		newGCD := hdl.ModuleFactory("GCD", func(args ...any) error {
			io, err := hdl.Io(
				hdl.Field("start", hdl.Input(hdl.Bits(1))),
				hdl.Field("in_a", hdl.Input(hdl.Bits(16))),
				hdl.Field("in_b", hdl.Input(hdl.Bits(16))),
				hdl.Field("out", hdl.Output(hdl.Bits(16))),
				hdl.Field("done", hdl.Output(hdl.Bits(1))),
			)
			if err != nil {
				return err
			}

			start, inA, inB := bits(io, "start"), bits(io, "in_a"), bits(io, "in_b")
			out, done := bits(io, "out"), bits(io, "done")

			aReg, err := hdl.Reg("a_reg", hdl.Bits(16))
			if err != nil {
				return err
			}

			bReg, err := hdl.Reg("b_reg", hdl.Bits(16))
			if err != nil {
				return err
			}

			aRegBits, _ := aReg.(*signal.Bits)
			bRegBits, _ := bReg.(*signal.Bits)

			if err := hdl.When(start, func() error {
				if err := hdl.Connect(aRegBits, inA); err != nil {
					return err
				}

				return hdl.Connect(bRegBits, inB)
			}); err != nil {
				return err
			}

			if err := hdl.Otherwise(func() error {
				gt, err := hdl.Gt(aRegBits, bRegBits)
				if err != nil {
					return err
				}

				if err := hdl.When(gt, func() error {
					diff, err := hdl.Sub(aRegBits, bRegBits)
					if err != nil {
						return err
					}

					return hdl.Connect(aRegBits, diff)
				}); err != nil {
					return err
				}

				return hdl.Otherwise(func() error {
					diff, err := hdl.Sub(bRegBits, aRegBits)
					if err != nil {
						return err
					}

					return hdl.Connect(bRegBits, diff)
				})
			}); err != nil {
				return err
			}

			isZero, err := hdl.Eq(bRegBits, hdl.Lit(0))
			if err != nil {
				return err
			}

			if err := hdl.Connect(done, isZero); err != nil {
				return err
			}

			return hdl.Connect(out, aRegBits)
		})

		_, err := newGCD()

		return err
	})
}
