package demo

import (
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/hdl"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// UartReceiver builds scenario 4's Enum (idle/start/read/stop) into a
// simplified receiver FSM, grounded on the original's UartReceiver module:
// a clock-cycle counter timing each bit window, a bit counter walking the
// eight data bits, and a byte-wide shift register capturing them, with the
// FIFO simplified away (Memory is covered on its own by MemoryDemo in
// memory.go) so this circuit's only job is to exercise Enum-coded state.
func UartReceiver(clocksPerBit uint) (*elaborate.Circuit, error) {
	return hdl.Circuit("UartReceiver", true, true, func() error {
		newReceiver := hdl.ModuleFactory("UartReceiver", func(args ...any) error {
			io, err := hdl.Io(
				hdl.Field("rx", hdl.Input(hdl.Bits(1))),
				hdl.Field("data", hdl.Output(hdl.Bits(8))),
				hdl.Field("valid", hdl.Output(hdl.Bits(1))),
			)
			if err != nil {
				return err
			}

			rx, data, valid := bits(io, "rx"), bits(io, "data"), bits(io, "valid")

			states, err := hdl.Enum("idle", "start", "read", "stop")
			if err != nil {
				return err
			}

			idleCode, _ := states.Code("idle")
			startCode, _ := states.Code("start")
			readCode, _ := states.Code("read")
			stopCode, _ := states.Code("stop")

			stateSig, err := hdl.RegDefault("state", hdl.Bits(states.Width), idleCode)
			if err != nil {
				return err
			}

			state, _ := stateSig.(*signal.Bits)

			clockCounterSig, err := hdl.RegDefault("clock_counter", hdl.Bits(32), 0)
			if err != nil {
				return err
			}

			clockCounter, _ := clockCounterSig.(*signal.Bits)

			bitCounterSig, err := hdl.RegDefault("bit_counter", hdl.Bits(4), 0)
			if err != nil {
				return err
			}

			bitCounter, _ := bitCounterSig.(*signal.Bits)

			shiftSig, err := hdl.RegDefault("shift_reg", hdl.Bits(8), 0)
			if err != nil {
				return err
			}

			shiftReg, _ := shiftSig.(*signal.Bits)

			doneSig, err := hdl.RegDefault("valid_reg", hdl.Bits(1), false)
			if err != nil {
				return err
			}

			validReg, _ := doneSig.(*signal.Bits)

			if err := hdl.Connect(data, shiftReg); err != nil {
				return err
			}

			if err := hdl.Connect(valid, validReg); err != nil {
				return err
			}

			isIdle, err := hdl.Eq(state, hdl.Lit(idleCode))
			if err != nil {
				return err
			}

			if err := hdl.When(isIdle, func() error {
				notRx, err := hdl.Not(rx)
				if err != nil {
					return err
				}

				return hdl.When(notRx, func() error {
					return hdl.Connect(state, hdl.Lit(startCode))
				})
			}); err != nil {
				return err
			}

			isStart, err := hdl.Eq(state, hdl.Lit(startCode))
			if err != nil {
				return err
			}

			if err := hdl.When(isStart, func() error {
				elapsed, err := hdl.Eq(clockCounter, hdl.Lit(int64(clocksPerBit)))
				if err != nil {
					return err
				}

				if err := hdl.When(elapsed, func() error {
					if err := hdl.Connect(state, hdl.Lit(readCode)); err != nil {
						return err
					}

					return hdl.Connect(clockCounter, hdl.Lit(0))
				}); err != nil {
					return err
				}

				return hdl.Otherwise(func() error {
					next, err := hdl.Add(clockCounter, hdl.Lit(1))
					if err != nil {
						return err
					}

					return hdl.Connect(clockCounter, next)
				})
			}); err != nil {
				return err
			}

			isRead, err := hdl.Eq(state, hdl.Lit(readCode))
			if err != nil {
				return err
			}

			if err := hdl.When(isRead, func() error {
				elapsed, err := hdl.Eq(clockCounter, hdl.Lit(int64(clocksPerBit)))
				if err != nil {
					return err
				}

				return hdl.When(elapsed, func() error {
					shifted, err := hdl.Slice(shiftReg, 6, 0)
					if err != nil {
						return err
					}

					sampled, err := hdl.Cat(rx, shifted)
					if err != nil {
						return err
					}

					if err := hdl.Connect(shiftReg, sampled); err != nil {
						return err
					}

					if err := hdl.Connect(clockCounter, hdl.Lit(0)); err != nil {
						return err
					}

					last, err := hdl.Eq(bitCounter, hdl.Lit(7))
					if err != nil {
						return err
					}

					if err := hdl.When(last, func() error {
						return hdl.Connect(state, hdl.Lit(stopCode))
					}); err != nil {
						return err
					}

					return hdl.Otherwise(func() error {
						next, err := hdl.Add(bitCounter, hdl.Lit(1))
						if err != nil {
							return err
						}

						return hdl.Connect(bitCounter, next)
					})
				})
			}); err != nil {
				return err
			}

			isStop, err := hdl.Eq(state, hdl.Lit(stopCode))
			if err != nil {
				return err
			}

			return hdl.When(isStop, func() error {
				if err := hdl.Connect(state, hdl.Lit(idleCode)); err != nil {
					return err
				}

				if err := hdl.Connect(bitCounter, hdl.Lit(0)); err != nil {
					return err
				}

				return hdl.Connect(validReg, hdl.BitLit(true))
			})
		})

		_, err := newReceiver()

		return err
	})
}
