// Package hdl is the public circuit-description surface: the Go analogue
// of the original's decorator-based DSL (Design Note, "Overloaded
// assignment via operator hijacking"). Every ambient convenience the
// original got from Python magic methods and process globals is an
// explicit function here, threaded through a single active elaboration
// context held by this package for the duration of one hdl.Circuit call.
package hdl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/typespec"
)

type scope struct {
	e *elaborate.Elaborator
	c *elaborate.Circuit
}

var (
	mu      sync.Mutex
	current *scope
)

func currentScope() (*scope, error) {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		return nil, atlaserr.Context("no circuit is currently being elaborated")
	}

	return current, nil
}

// Circuit opens a new circuit, runs body against it, and tears it down
// afterward. body is expected to declare a top module, typically via a
// ModuleFactory call. Re-entering Circuit while one is already active
// fails fast (spec section 5, "re-entrancy into a second circuit
// concurrently is forbidden").
func Circuit(name string, defaultClock, defaultReset bool, body func() error) (*elaborate.Circuit, error) {
	e := elaborate.NewElaborator()

	return e.WithCircuit(name, elaborate.Config{DefaultClock: defaultClock, DefaultReset: defaultReset}, func(c *elaborate.Circuit) error {
		mu.Lock()
		current = &scope{e: e, c: c}
		mu.Unlock()

		defer func() {
			mu.Lock()
			current = nil
			mu.Unlock()
		}()

		return body()
	})
}

// ModuleFactory wraps fn (a module body that declares IO, internal
// signals, instances and connections against the currently-elaborating
// module) as a memoized constructor: calling the returned function with
// identical arguments returns the same *elaborate.Module without
// re-running fn (spec section 4.4/5, P7). baseName stands in for the
// original's reflected function name — Go closures carry no stable name
// to hash against, so callers name their own factories explicitly,
// matching go-corset's explicit module names.
func ModuleFactory(baseName string, fn func(args ...any) error) func(args ...any) (*elaborate.Module, error) {
	return func(args ...any) (*elaborate.Module, error) {
		s, err := currentScope()
		if err != nil {
			return nil, err
		}

		name := baseName
		if h := hashArgs(args); h != "" {
			name = baseName + "_" + h
		}

		return s.e.WithModule(name, func(m *elaborate.Module) error {
			return fn(args...)
		})
	}
}

func hashArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%v", args)))

	return hex.EncodeToString(sum[:])[:4]
}

// Io declares the current module's IO bundle, folding in the circuit's
// default clock/reset leaves if configured.
func Io(fields ...typespec.Field) (signal.Signal, error) {
	s, err := currentScope()
	if err != nil {
		return nil, err
	}

	m, err := s.e.CurrentModule()
	if err != nil {
		return nil, err
	}

	return s.e.DeclareIO(m, typespec.Bundle(fields...))
}

// Field is a convenience constructor for an Io() argument.
func Field(name string, ts typespec.TypeSpec) typespec.Field {
	return typespec.Field{Name: name, Type: ts}
}

// Input, Output, Inout and Flip tag a typespec with a direction (spec
// section 6).
func Input(ts typespec.TypeSpec) typespec.TypeSpec  { return ts.WithDirection(typespec.Input) }
func Output(ts typespec.TypeSpec) typespec.TypeSpec { return ts.WithDirection(typespec.Output) }
func Inout(ts typespec.TypeSpec) typespec.TypeSpec  { return ts.WithDirection(typespec.Inout) }
func Flip(ts typespec.TypeSpec) typespec.TypeSpec   { return typespec.Flip(ts) }

// Bits constructs an unsigned bit-vector typespec (see SBits for signed).
func Bits(width uint) typespec.TypeSpec { return typespec.Bits(width, false) }

// SBits constructs a signed bit-vector typespec.
func SBits(width uint) typespec.TypeSpec { return typespec.Bits(width, true) }

// List constructs a homogeneous fixed-length sequence typespec.
func List(length uint, elem typespec.TypeSpec) typespec.TypeSpec {
	return typespec.List(length, elem)
}

// Bundle constructs a named-record typespec.
func Bundle(fields ...typespec.Field) typespec.TypeSpec {
	return typespec.Bundle(fields...)
}
