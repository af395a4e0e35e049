package signal

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/atlas-hdl/atlas/pkg/typespec"
)

// UnassignedLeaves returns the Verilog names of every non-register,
// non-input Bits leaf reachable from container whose connection list is
// empty — the structural check spec section 7 calls "an empty connection
// list on a driven non-register leaf". Register leaves are excluded since
// a register's state persists with no Connections (it just never updates);
// Input leaves are excluded since those are driven by the leaf's
// instantiating context rather than by a Connections entry. pkg/verilog's
// EmitModule calls this over a module's IO and every internal signal
// before emitting a single line, so a circuit with a dangling output wire
// fails fast with every offending leaf named at once, rather than silently
// emitting an undriven wire or failing on whichever leaf the emitter
// happens to reach first. A bitset tracks coverage by structural position
// rather than a map keyed by name, since containers here (wide buses,
// memory address bundles) can carry large, statically-known leaf counts
// where a compact bitmap is the natural fit (go-corset uses the same
// library for its own column/position bitmaps).
func UnassignedLeaves(container Signal) []string {
	leaves := CollectBits(container)

	covered := bitset.New(uint(len(leaves)))

	for i, b := range leaves {
		if b.IsRegister() || len(b.Connections) > 0 {
			covered.Set(uint(i))
			continue
		}

		if dir, err := ResolveDirection(b); err == nil && dir == typespec.Input {
			covered.Set(uint(i))
		}
	}

	var missing []string

	for i, b := range leaves {
		if covered.Test(uint(i)) {
			continue
		}

		name, err := Path(b)
		if err != nil {
			name = b.Meta().Name
		}

		missing = append(missing, name)
	}

	return missing
}
