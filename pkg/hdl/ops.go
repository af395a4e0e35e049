package hdl

import (
	"fmt"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/connection"
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/op"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// When opens a predicate scope over pred for the duration of body (spec
// section 6, "with signal:"). pred must be a single bit.
func When(pred *signal.Bits, body func() error) error {
	s, err := currentScope()
	if err != nil {
		return err
	}

	if pred.Width != 1 {
		return atlaserr.TypeWidth("When predicate must be width 1, got %d", pred.Width)
	}

	return s.e.WithCondition(pred, body)
}

// Otherwise opens the inverse of the condition most recently closed by a
// When in the current frame (spec section 6, "with otherwise:").
func Otherwise(body func() error) error {
	s, err := currentScope()
	if err != nil {
		return err
	}

	return s.e.Otherwise(body)
}

func moduleAndNamer() (*elaborate.Elaborator, *elaborate.Module, error) {
	s, err := currentScope()
	if err != nil {
		return nil, nil, err
	}

	m, err := s.e.CurrentModule()
	if err != nil {
		return nil, nil, err
	}

	return s.e, m, nil
}

func binary(kind op.BinaryKind, a *signal.Bits, b any) (*signal.Bits, error) {
	e, m, err := moduleAndNamer()
	if err != nil {
		return nil, err
	}

	built, err := op.NewBinary(m.Namer(), kind, a, b)
	if err != nil {
		return nil, err
	}

	result, err := elaborate.Gen(e, func() *op.BinaryOp { return built })
	if err != nil {
		return nil, err
	}

	return result.Result, nil
}

func Add(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.Add, a, b) }
func Sub(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.Sub, a, b) }
func Mul(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.Mul, a, b) }
func Div(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.Div, a, b) }
func Or(a *signal.Bits, b any) (*signal.Bits, error)  { return binary(op.Or, a, b) }
func Xor(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.Xor, a, b) }
func And(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.And, a, b) }
func Shl(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.Shl, a, b) }
func Shr(a *signal.Bits, b any) (*signal.Bits, error) { return binary(op.Shr, a, b) }
func Eq(a *signal.Bits, b any) (*signal.Bits, error)  { return binary(op.Eq, a, b) }
func Ne(a *signal.Bits, b any) (*signal.Bits, error)  { return binary(op.Ne, a, b) }
func Lt(a *signal.Bits, b any) (*signal.Bits, error)  { return binary(op.Lt, a, b) }
func Le(a *signal.Bits, b any) (*signal.Bits, error)  { return binary(op.Le, a, b) }
func Gt(a *signal.Bits, b any) (*signal.Bits, error)  { return binary(op.Gt, a, b) }
func Ge(a *signal.Bits, b any) (*signal.Bits, error)  { return binary(op.Ge, a, b) }

// Not returns the bitwise complement of a.
func Not(a *signal.Bits) (*signal.Bits, error) {
	e, m, err := moduleAndNamer()
	if err != nil {
		return nil, err
	}

	built := op.NewNot(m.Namer(), a)

	result, err := elaborate.Gen(e, func() *op.NotOp { return built })
	if err != nil {
		return nil, err
	}

	return result.Result, nil
}

// Slice extracts the contiguous bit range [high:low] of a.
func Slice(a *signal.Bits, high, low uint) (*signal.Bits, error) {
	e, m, err := moduleAndNamer()
	if err != nil {
		return nil, err
	}

	built, err := op.NewSlice(m.Namer(), a, high, low)
	if err != nil {
		return nil, err
	}

	result, err := elaborate.Gen(e, func() *op.SliceOp { return built })
	if err != nil {
		return nil, err
	}

	return result.Result, nil
}

// Cat concatenates parts, most-significant first.
func Cat(parts ...*signal.Bits) (*signal.Bits, error) {
	e, m, err := moduleAndNamer()
	if err != nil {
		return nil, err
	}

	built, err := op.NewConcat(m.Namer(), parts)
	if err != nil {
		return nil, err
	}

	result, err := elaborate.Gen(e, func() *op.ConcatOp { return built })
	if err != nil {
		return nil, err
	}

	return result.Result, nil
}

// Mux selects list[index].
func Mux(list *signal.List, index *signal.Bits) (*signal.Bits, error) {
	e, m, err := moduleAndNamer()
	if err != nil {
		return nil, err
	}

	built, err := op.NewMux(m.Namer(), list, index)
	if err != nil {
		return nil, err
	}

	result, err := elaborate.Gen(e, func() *op.MuxOp { return built })
	if err != nil {
		return nil, err
	}

	return result.Result, nil
}

// Enum assigns dense integer codes to names, sized to the minimum bit
// width needed to represent them.
func Enum(names ...string) (*op.Enum, error) { return op.NewEnum(names...) }

// Log2Ceil returns the minimum number of bits needed to represent n
// distinct values (minimum 1).
func Log2Ceil(n uint) uint { return op.Log2Ceil(n) }

// Mem declares a synchronous memory in the current module, clocked by the
// module's default clock unless clock is given explicitly.
func Mem(width, depth uint, clock ...*signal.Bits) (*op.MemOp, error) {
	e, m, err := moduleAndNamer()
	if err != nil {
		return nil, err
	}

	clk := m.Clock()
	if len(clock) > 0 {
		clk = clock[0]
	}

	if clk == nil {
		return nil, atlaserr.Context("memory declared with no clock available")
	}

	built := op.NewMem(m.Namer(), width, depth, clk)

	result, err := elaborate.Gen(e, func() *op.MemOp { return built })
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Instance instantiates target inside the currently-elaborating module,
// returning a handle whose Local field mirrors target's IO with every
// direction flipped (spec section 4.5/6, P8).
func Instance(target *elaborate.Module) (*op.InstanceOp, error) {
	e, m, err := moduleAndNamer()
	if err != nil {
		return nil, err
	}

	name := m.Namer().Next(fmt.Sprintf("%s_inst", target.ModuleName()))

	built := op.NewInstance(name, target)

	result, err := elaborate.Gen(e, func() *op.InstanceOp { return built })
	if err != nil {
		return nil, err
	}

	m.Signals = append(m.Signals, result.Local)

	// Default clock/reset: the instance's clock/reset ports are driven
	// unconditionally from the enclosing module's own defaults, when both
	// sides have them.
	if local, ok := result.Local.(*signal.Bundle); ok {
		for name, src := range map[string]*signal.Bits{"clock": m.Clock(), "reset": m.Reset()} {
			if dst, ok := local.Fields[name].(*signal.Bits); ok && src != nil {
				connection.Insert(dst, nil, src)
			}
		}
	}

	return result, nil
}
