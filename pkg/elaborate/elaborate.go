// Package elaborate implements the elaboration context: the circuit,
// module and predicate stacks a circuit description runs against while it
// builds its Signal/Connection IR. It replaces the original's
// process-global circuit/modules/predicate/prevcondition variables with an
// explicit, non-global Elaborator handle (Design Note: "process-global
// elaboration context").
package elaborate

import (
	"sync"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/connection"
	"github.com/atlas-hdl/atlas/pkg/op"
	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/typespec"
	"github.com/atlas-hdl/atlas/pkg/util/hash"
)

// Config mirrors the original's CircuitConfig: whether every module in the
// circuit implicitly carries a clock and/or reset input.
type Config struct {
	DefaultClock bool
	DefaultReset bool
}

// Circuit is the top-level container a description elaborates into: an
// ordered set of modules sharing one Config.
type Circuit struct {
	Name    string
	Config  Config
	Modules []*Module
	Top     *Module
}

// Module is one elaborated module: its IO typespec and root signal, every
// signal it owns, the operators it has registered, and the CSE cache
// keyed by op.Key (spec section 4.5, P6).
type Module struct {
	name   string
	ioSpec typespec.TypeSpec
	ioRoot signal.Signal

	Signals []signal.Signal
	Ops     []op.Operator

	// namer is the circuit-wide operator name allocator shared across
	// every module of the circuit (see Elaborator.namer); opCache is the
	// per-module CSE dedup stack (spec section 4.5, P6).
	namer   *op.Namer
	opCache *hash.Map[op.Key, op.Operator]
}

// ModuleName implements op.InstantiatedModule.
func (m *Module) ModuleName() string { return m.name }

// IO implements op.InstantiatedModule.
func (m *Module) IO() signal.Signal { return m.ioRoot }

// IOSpec returns the module's declarative IO typespec (including any
// default clock/reset fields folded in by DeclareIO).
func (m *Module) IOSpec() typespec.TypeSpec { return m.ioSpec }

// Namer returns the circuit-wide operator name allocator, shared by every
// module of the circuit so generated names (add_0, mux_1, ...) are unique
// across the whole circuit, not just within one module.
func (m *Module) Namer() *op.Namer { return m.namer }

// Clock returns the module's default clock leaf, if its circuit declares
// one (Config.DefaultClock) and it has been declared via DeclareIO.
func (m *Module) Clock() *signal.Bits { return m.ioField("clock") }

// Reset returns the module's default reset leaf, analogous to Clock.
func (m *Module) Reset() *signal.Bits { return m.ioField("reset") }

func (m *Module) ioField(name string) *signal.Bits {
	bundle, ok := m.ioRoot.(*signal.Bundle)
	if !ok {
		return nil
	}

	sig, ok := bundle.Fields[name]
	if !ok {
		return nil
	}

	bits, _ := sig.(*signal.Bits)

	return bits
}

// Elaborator is the explicit, non-global replacement for the original's
// module-level circuit/modules/predicate/prevcondition globals. Each
// circuit description should construct its own Elaborator; only one may be
// Activate()d at a time (see `active`, below), mirroring the single
// process-wide circuit the original assumed.
type Elaborator struct {
	circuit       *Circuit
	modules       []*Module
	predicate     []connection.PredicateFrame
	prevCondition *signal.Bits

	// namer allocates unique operator names once per circuit, matching
	// spec section 5's single global per-opname counter — distinct from
	// opCache, below, which is the per-module CSE dedup stack. It is
	// reset when a new circuit opens in WithCircuit, so repeated
	// elaborations of independent circuits in one process don't carry
	// numbering across circuit boundaries.
	namer *op.Namer
}

// NewElaborator constructs a fresh, inactive elaborator.
func NewElaborator() *Elaborator {
	return &Elaborator{}
}

var (
	activeMu sync.Mutex
	active   *Elaborator
)

// activate registers e as the single process-wide active elaborator,
// refusing re-entrant activation of a second circuit (the Design Note's
// "contended only if re-entered, never waited on": this is a guard, not a
// scheduling primitive).
func (e *Elaborator) activate() error {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active != nil {
		return atlaserr.Context("another elaborator is already active in this process")
	}

	active = e

	return nil
}

func (e *Elaborator) deactivate() {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active == e {
		active = nil
	}
}

// WithCircuit opens a circuit for the duration of fn, guaranteeing it is
// torn down (and the process-wide activation guard released) even if fn
// returns an error or panics.
func (e *Elaborator) WithCircuit(name string, cfg Config, fn func(c *Circuit) error) (*Circuit, error) {
	if err := e.activate(); err != nil {
		return nil, err
	}
	defer e.deactivate()

	c := &Circuit{Name: name, Config: cfg}
	e.circuit = c
	e.namer = op.NewNamer()

	defer func() { e.circuit = nil }()

	if err := fn(c); err != nil {
		return nil, err
	}

	return c, nil
}

// CurrentCircuit returns the circuit currently being elaborated.
func (e *Elaborator) CurrentCircuit() (*Circuit, error) {
	if e.circuit == nil {
		return nil, atlaserr.Context("no circuit is currently being elaborated")
	}

	return e.circuit, nil
}

// CurrentModule returns the innermost module currently being elaborated.
func (e *Elaborator) CurrentModule() (*Module, error) {
	if len(e.modules) == 0 {
		return nil, atlaserr.Context("no module is currently being elaborated")
	}

	return e.modules[len(e.modules)-1], nil
}

// CurrentPredicate returns the active predicate-frame stack, nearest frame
// last, exactly as consulted by connection.Insert.
func (e *Elaborator) CurrentPredicate() []connection.PredicateFrame {
	return append([]connection.PredicateFrame{}, e.predicate...)
}

// WithModule memoizes module construction by name: if the current circuit
// already holds a module with this name, it is returned unchanged and fn
// does not run again (spec section 5's module-factory memoization, P7).
// Otherwise a fresh Module is pushed, fn populates it (declaring IO,
// instantiating children, making connections), and it is appended to the
// circuit on success. name should already include any argument-hash
// suffix the caller wants memoized on (hdl.ModuleFactory's job).
func (e *Elaborator) WithModule(name string, fn func(m *Module) error) (*Module, error) {
	circuit, err := e.CurrentCircuit()
	if err != nil {
		return nil, err
	}

	for _, m := range circuit.Modules {
		if m.name == name {
			return m, nil
		}
	}

	if len(e.predicate) != 0 {
		return nil, atlaserr.Context("cannot open module %q with an active predicate", name)
	}

	m := &Module{name: name, namer: e.namer, opCache: hash.NewMap[op.Key, op.Operator]()}

	e.modules = append(e.modules, m)
	e.prevCondition = nil

	defer func() {
		e.modules = e.modules[:len(e.modules)-1]
	}()

	if err := fn(m); err != nil {
		return nil, err
	}

	if len(e.predicate) != 0 {
		return nil, atlaserr.Context("module %q left its predicate stack non-empty", name)
	}

	circuit.Modules = append(circuit.Modules, m)

	return m, nil
}

// DeclareIO assigns the current module's IO, folding in the circuit's
// default clock/reset fields (Config.DefaultClock/DefaultReset) as
// trailing input leaves.
func (e *Elaborator) DeclareIO(m *Module, ts typespec.TypeSpec) (signal.Signal, error) {
	circuit, err := e.CurrentCircuit()
	if err != nil {
		return nil, err
	}

	if ts.Kind != typespec.KindBundle {
		return nil, atlaserr.Structural("module IO must be a bundle type")
	}

	fields := append([]typespec.Field{}, ts.Fields...)

	if circuit.Config.DefaultClock {
		fields = append(fields, typespec.Field{Name: "clock", Type: typespec.Bits(1, false).WithDirection(typespec.Input)})
	}

	if circuit.Config.DefaultReset {
		fields = append(fields, typespec.Field{Name: "reset", Type: typespec.Bits(1, false).WithDirection(typespec.Input)})
	}

	full := typespec.Bundle(fields...)
	m.ioSpec = full
	m.ioRoot = signal.Create(full, "io", m.name)

	return m.ioRoot, nil
}

// PushCondition opens a new predicate frame guarded by pred on its true
// branch.
func (e *Elaborator) PushCondition(pred *signal.Bits) {
	e.predicate = append(e.predicate, connection.PredicateFrame{Predicate: pred, Branch: true})
}

// PopCondition closes the innermost predicate frame, remembering its
// predicate as the target of a subsequent `otherwise`.
func (e *Elaborator) PopCondition() error {
	if len(e.predicate) == 0 {
		return atlaserr.Context("no condition frame to close")
	}

	last := e.predicate[len(e.predicate)-1]
	e.predicate = e.predicate[:len(e.predicate)-1]
	e.prevCondition = last.Predicate

	return nil
}

// ElseOfPrevious opens the false-branch frame of the condition most
// recently closed by PopCondition (the `otherwise` binding). It is an
// error to call this with no preceding condition in scope.
func (e *Elaborator) ElseOfPrevious() error {
	if e.prevCondition == nil {
		return atlaserr.Context("otherwise without a preceding condition")
	}

	e.predicate = append(e.predicate, connection.PredicateFrame{Predicate: e.prevCondition, Branch: false})

	return nil
}

// WithCondition runs fn with pred pushed as the active predicate,
// guaranteeing the frame is popped even if fn errors.
func (e *Elaborator) WithCondition(pred *signal.Bits, fn func() error) error {
	e.PushCondition(pred)

	err := fn()

	if popErr := e.PopCondition(); popErr != nil && err == nil {
		err = popErr
	}

	return err
}

// Otherwise runs fn as the else-branch of the condition most recently
// closed, guaranteeing the frame is popped even if fn errors.
func (e *Elaborator) Otherwise(fn func() error) error {
	if err := e.ElseOfPrevious(); err != nil {
		return err
	}

	err := fn()

	if popErr := e.PopCondition(); popErr != nil && err == nil {
		err = popErr
	}

	return err
}

// ScopedConnectionContext runs fn against an independent, empty predicate
// stack, restoring the caller's stack afterwards, so assignments made
// inside fn are never captured by the caller's surrounding `When`. No
// operator constructor in this module calls it.
func (e *Elaborator) ScopedConnectionContext(fn func() error) error {
	saved := e.predicate
	savedPrev := e.prevCondition
	e.predicate = nil
	e.prevCondition = nil

	err := fn()
	leftover := len(e.predicate)

	e.predicate = saved
	e.prevCondition = savedPrev

	if leftover != 0 {
		return atlaserr.Context("scoped connection context left a non-empty predicate stack")
	}

	return err
}
