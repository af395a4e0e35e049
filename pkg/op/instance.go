package op

import (
	"fmt"
	"strings"

	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/typespec"
)

// InstantiatedModule is the minimal surface InstanceOp needs from a module.
// It is satisfied by pkg/elaborate.Module; declaring it here instead of
// importing pkg/elaborate keeps the dependency direction elaborate -> op,
// not the reverse.
type InstantiatedModule interface {
	ModuleName() string
	IO() signal.Signal
}

// InstanceOp represents one instantiation of a module inside another. It
// owns a local shadow signal — the module's IO typespec, flipped, so that
// what the referenced module calls an input the instantiating module drives
// as an output and vice versa — which callers connect to exactly as they
// would any other signal.
type InstanceOp struct {
	name   string
	module InstantiatedModule
	Local  signal.Signal
}

// NewInstance constructs an instance of module, named instanceName in the
// emitted Verilog. Every leaf of the local shadow has its resolved
// direction inverted relative to the referenced module's IO (spec section
// 4.5/6, P8) — inverted leaf-by-leaf rather than by tagging the whole
// shadow Flipped, since each leaf's direction here is already fully
// resolved (concrete Input/Output), not Inherit, so a single container-
// level Flipped tag would never propagate down to it.
func NewInstance(instanceName string, module InstantiatedModule) *InstanceOp {
	o := &InstanceOp{name: instanceName, module: module}
	o.Local = signal.Create(module.IO().TypeSpec(), instanceName, o)

	for _, bits := range signal.CollectBits(o.Local) {
		inverted, err := typespec.Invert(bits.Meta().Dir)
		if err == nil {
			bits.Meta().Dir = inverted
		}
	}

	return o
}

// Name implements Operator.
func (o *InstanceOp) Name() string { return o.name }

// Results implements Operator: an instance's single "result" is its local
// IO shadow, through which callers read and drive ports.
func (o *InstanceOp) Results() []signal.Signal { return []signal.Signal{o.Local} }

// Declare implements Operator. Instance port shadows are plain wires and
// are declared by the general per-leaf declaration pass alongside every
// other signal; an instance itself declares nothing extra.
func (o *InstanceOp) Declare(s Sink) error { return nil }

// Synthesize implements Operator: emits a Verilog module instantiation,
// connecting each of the referenced module's IO leaves (by name) to the
// matching leaf of the local shadow.
func (o *InstanceOp) Synthesize(s Sink) error {
	var conns []string

	err := signal.ZipBits(o.module.IO(), o.Local, func(remote, local *signal.Bits) error {
		localName, err := s.NameOf(local)
		if err != nil {
			return err
		}

		conns = append(conns, fmt.Sprintf(".%s(%s)", portName(remote, o.module.IO()), localName))

		return nil
	})
	if err != nil {
		return err
	}

	s.Raw(fmt.Sprintf("%s %s (", o.module.ModuleName(), o.name))

	for i, c := range conns {
		suffix := ","
		if i == len(conns)-1 {
			suffix = ""
		}

		s.Raw("  " + c + suffix)
	}

	s.Raw(");")

	return nil
}

// portName renders leaf's path up to and including root (e.g. "io_x"),
// matching the referenced module's own internal port naming.
func portName(leaf signal.Signal, root signal.Signal) string {
	var parts []string

	cur := leaf
	for {
		parts = append(parts, cur.Meta().Name)
		if cur == root {
			break
		}

		parent, ok := cur.Meta().Parent.(signal.Signal)
		if !ok {
			break
		}

		cur = parent
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, "_")
}
