package demo

import (
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/hdl"
)

// MemoryDemo builds scenario 5: a 256-entry, 8-bit-wide memory with one
// registered read port and one write port, wired exactly as spec.md's
// scenario spells out (`mem.read(raddr)`, `mem.write(waddr, wdata, wen)`).
func MemoryDemo() (*elaborate.Circuit, error) {
	return hdl.Circuit("MemoryDemo", true, false, func() error {
		newMemoryDemo := hdl.ModuleFactory("MemoryDemo", func(args ...any) error {
			io, err := hdl.Io(
				hdl.Field("raddr", hdl.Input(hdl.Bits(8))),
				hdl.Field("waddr", hdl.Input(hdl.Bits(8))),
				hdl.Field("wdata", hdl.Input(hdl.Bits(8))),
				hdl.Field("wen", hdl.Input(hdl.Bits(1))),
				hdl.Field("out", hdl.Output(hdl.Bits(8))),
			)
			if err != nil {
				return err
			}

			raddr, waddr := bits(io, "raddr"), bits(io, "waddr")
			wdata, wen, out := bits(io, "wdata"), bits(io, "wen"), bits(io, "out")

			mem, err := hdl.Mem(8, 256)
			if err != nil {
				return err
			}

			readResult := mem.Read(raddr)

			if err := hdl.Connect(out, readResult); err != nil {
				return err
			}

			mem.Write(waddr, wdata, wen)

			return nil
		})

		_, err := newMemoryDemo()

		return err
	})
}
