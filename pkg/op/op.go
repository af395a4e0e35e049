// Package op implements the operator algebra: primitive operators (binary
// arithmetic/logic/compare, bitwise-not, bit slice, concatenate, mux over a
// list, memory, module instance). Each operator declares its result
// signal(s) and its textual synthesis, and supports structural equality for
// common-subexpression elimination (spec section 4.5).
package op

import (
	"fmt"
	"hash/fnv"

	"github.com/atlas-hdl/atlas/pkg/signal"
)

// Sink is the minimal textual-emission surface an Operator needs. It is
// implemented by pkg/verilog.Writer; declaring it here (rather than
// importing the verilog package) keeps pkg/op independent of its
// backends — the same operators could drive a second emitter (e.g. an
// alternative textual IR) by implementing Sink differently.
type Sink interface {
	// NameOf resolves the textual form of anything that can appear on
	// the right-hand side of a Verilog expression: a signal (resolved
	// to its path name), a connection.Literal (decimal or bit
	// literal), or a raw string (passed through), mirroring the
	// original VName dispatch over signals/ints/bools/strings.
	NameOf(item any) (string, error)
	// DeclWire/DeclReg declare a net of the given width (declaring
	// `signed` when requested).
	DeclWire(name string, width uint, signed bool)
	DeclReg(name string, width uint, signed bool)
	// Raw emits a single already-formatted statement line.
	Raw(line string)
	// NextNodeName allocates a fresh globally-unique synthetic node
	// name (used for intermediate mux-tree wires and, here, for
	// multi-statement operator bodies such as Mux).
	NextNodeName() string
}

// Operator is an abstract derived computation: it has a unique name, one or
// more result signals, a Declare step that emits wire/reg declarations, and
// a Synthesize step that emits the operator's body.
type Operator interface {
	// Name returns this operator's unique, disambiguated name
	// (`<opname>_<counter>`).
	Name() string
	// Results returns the signal(s) this operator produces.
	Results() []signal.Signal
	// Declare emits declarations for this operator's result signal(s).
	Declare(s Sink) error
	// Synthesize emits this operator's body.
	Synthesize(s Sink) error
}

// Cacheable is implemented by operators that support common-subexpression
// elimination: two cacheable operators of the same class, constructed with
// equal inputs, should resolve to a single IR entry (P6). Key must satisfy
// hash.Hasher[Key] via Equals/Hash (see Key below).
type Cacheable interface {
	Operator
	CacheKey() Key
}

// Key is the structural-equality key used for CSE: (opcode, input
// identities, scalar parameters). Two operators compare equal for caching
// purposes iff they are the same subclass (opcode), reference the same
// input signal identities, and carry equal scalar parameters.
type Key struct {
	Opcode string
	Inputs []uint64
	Params string
}

// Equals implements hash.Hasher[Key].
func (k Key) Equals(o Key) bool {
	if k.Opcode != o.Opcode || k.Params != o.Params || len(k.Inputs) != len(o.Inputs) {
		return false
	}

	for i := range k.Inputs {
		if k.Inputs[i] != o.Inputs[i] {
			return false
		}
	}

	return true
}

// Hash implements hash.Hasher[Key].
func (k Key) Hash() uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%v|%s", k.Opcode, k.Inputs, k.Params)

	return h.Sum64()
}

// Identity returns a stable per-process identity hash for a signal,
// suitable for use inside a Key.Inputs list. It is based on pointer
// identity (the same *Bits/*List/*Bundle always yields the same value),
// not on structural content — two distinct signals of identical shape must
// not collide here, since CSE depends on *which* signal was read, not what
// it looks like.
func Identity(sig signal.Signal) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%p", sig)

	return h.Sum64()
}

// Namer is the per-opcode unique-name counter. It belongs logically
// to the elaborator (spec section 5: "one global per-opname counter"), but
// since operators are constructed before they are registered with a
// module, allocation happens here via a counter map threaded through
// Namer.
type Namer struct {
	counts map[string]int
}

// NewNamer constructs a fresh name allocator. A Namer is scoped to a single
// circuit's elaboration, exactly as spec section 5 requires ("reset per
// circuit to preserve determinism").
func NewNamer() *Namer {
	return &Namer{counts: map[string]int{}}
}

// Next allocates the next unique name for the given opcode, e.g. "add_0",
// "add_1", "mux_0".
func (n *Namer) Next(opcode string) string {
	id := n.counts[opcode]
	n.counts[opcode] = id + 1

	return fmt.Sprintf("%s_%d", opcode, id)
}
