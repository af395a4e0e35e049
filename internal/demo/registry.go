package demo

import "github.com/atlas-hdl/atlas/pkg/elaborate"

// Builder constructs one demo circuit from scratch; every call to a demo's
// Builder elaborates a fresh hdl.Circuit (pkg/hdl's Circuit forbids
// concurrent re-entrancy but not repeated sequential use).
type Builder func() (*elaborate.Circuit, error)

// Registry lists every demo circuit cmd/atlas can build, inspect or dump,
// keyed by the name a user passes on the command line.
var Registry = map[string]Builder{
	"mux2": Mux2,
	"adder": func() (*elaborate.Circuit, error) { return RippleAdder(2) },
	"gcd":   GCD,
	"uart":  func() (*elaborate.Circuit, error) { return UartReceiver(4) },
	"mem":      MemoryDemo,
	"instance": InstanceDemo,
}

// Names returns the registry's keys in a stable, fixed display order.
func Names() []string {
	return []string{"mux2", "adder", "gcd", "uart", "mem", "instance"}
}
