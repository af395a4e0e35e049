// Package signal implements the elaborated counterpart of a TypeSpec: the
// concrete signal nodes (Bits, List, Bundle) that carry connections,
// metadata and, for Bits leaves, clock/reset wiring.
package signal

import (
	"strings"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/typespec"
)

// Signal is the tagged union of the three Signal IR variants. Only *Bits is
// a leaf that can be assigned; List and Bundle are containers that project
// onto leaves.
type Signal interface {
	// Meta returns this signal's metadata (name/parent/direction).
	Meta() *Meta
	// TypeSpec reconstructs the declarative type of this signal, carrying
	// direction back up (P2: Create(TypeSpecOf(s)) round-trips).
	TypeSpec() typespec.TypeSpec
	isSignal()
}

// Meta carries information common to every signal node.
type Meta struct {
	Name string
	// Parent points at the containing Signal, at a module (for IO
	// roots), at an operator (for operator-result signals), or is nil.
	// It is deliberately untyped (any) to avoid an import cycle between
	// pkg/signal and the packages that embed signals as parents
	// (pkg/elaborate's Module, pkg/op's operators).
	Parent any
	Dir    typespec.Direction
}

// Bits is the single assignable leaf signal kind.
type Bits struct {
	meta Meta

	Width  uint
	Signed bool

	// Connections is the ordered per-leaf connection AST (spec section
	// 3, "Connection entry"). Its concrete element type is
	// connection.Entry, defined in package connection; it is kept as
	// `[]any` here to avoid an import cycle (connection.Entry embeds
	// *Bits references and so must depend on this package, not the
	// other way around).
	Connections []any

	Clock      *Bits
	Reset      *Bits
	ResetValue any
}

// List is a container of homogeneous signals, structurally indexed.
type List struct {
	meta   Meta
	Fields []Signal
}

// Bundle is a container of named signals, structurally indexed by key; the
// field order of the originating TypeSpec is preserved.
type Bundle struct {
	meta   Meta
	Keys   []string
	Fields map[string]Signal
}

func (b *Bits) Meta() *Meta   { return &b.meta }
func (l *List) Meta() *Meta   { return &l.meta }
func (b *Bundle) Meta() *Meta { return &b.meta }

func (*Bits) isSignal()   {}
func (*List) isSignal()   {}
func (*Bundle) isSignal() {}

// IsRegister reports whether this Bits leaf has a clock, and is therefore
// driven by a sequential (`always @(posedge clock)`) update rather than a
// combinational one.
func (b *Bits) IsRegister() bool { return b.Clock != nil }

// TypeSpec reconstructs this leaf's declarative type (P2).
func (b *Bits) TypeSpec() typespec.TypeSpec {
	return typespec.Bits(b.Width, b.Signed).WithDirection(b.meta.Dir)
}

// TypeSpec reconstructs this list's declarative type.
func (l *List) TypeSpec() typespec.TypeSpec {
	var elem typespec.TypeSpec
	if len(l.Fields) > 0 {
		elem = l.Fields[0].TypeSpec()
	}

	ts := typespec.List(uint(len(l.Fields)), elem)
	ts.Dir = l.meta.Dir

	return ts
}

// TypeSpec reconstructs this bundle's declarative type.
func (b *Bundle) TypeSpec() typespec.TypeSpec {
	fields := make([]typespec.Field, len(b.Keys))
	for i, k := range b.Keys {
		fields[i] = typespec.Field{Name: k, Type: b.Fields[k].TypeSpec()}
	}

	ts := typespec.Bundle(fields...)
	ts.Dir = b.meta.Dir

	return ts
}

// Create recursively instantiates the Signal variant matching ts, wiring
// every child's parent pointer to the newly created container.
func Create(ts typespec.TypeSpec, name string, parent any) Signal {
	switch ts.Kind {
	case typespec.KindBits:
		return &Bits{meta: Meta{Name: name, Parent: parent, Dir: ts.Dir}, Width: ts.Width, Signed: ts.Signed}
	case typespec.KindList:
		l := &List{meta: Meta{Name: name, Parent: parent, Dir: ts.Dir}}
		fields := make([]Signal, ts.Length)

		for i := range fields {
			var elem typespec.TypeSpec
			if ts.Elem != nil {
				elem = *ts.Elem
			}

			fields[i] = Create(elem, indexName(i), l)
		}

		l.Fields = fields

		return l
	case typespec.KindBundle:
		bun := &Bundle{meta: Meta{Name: name, Parent: parent, Dir: ts.Dir}, Fields: map[string]Signal{}}
		for _, f := range ts.Fields {
			bun.Fields[f.Name] = Create(f.Type, f.Name, bun)
			bun.Keys = append(bun.Keys, f.Name)
		}

		return bun
	default:
		panic("unknown typespec kind")
	}
}

func indexName(i int) string {
	const digits = "0123456789"
	if i == 0 {
		return "i0"
	}

	var b []byte

	for i > 0 {
		b = append([]byte{digits[i%10]}, b...)
		i /= 10
	}

	return "i" + string(b)
}

// ForEachBits yields every Bits leaf reachable from sig, in structural
// order (list index order, bundle key declaration order).
func ForEachBits(sig Signal, yield func(*Bits) error) error {
	switch s := sig.(type) {
	case *Bits:
		return yield(s)
	case *List:
		for _, f := range s.Fields {
			if err := ForEachBits(f, yield); err != nil {
				return err
			}
		}

		return nil
	case *Bundle:
		for _, k := range s.Keys {
			if err := ForEachBits(s.Fields[k], yield); err != nil {
				return err
			}
		}

		return nil
	default:
		return atlaserr.Structural("unknown signal type %T", sig)
	}
}

// CollectBits returns every Bits leaf reachable from sig, in structural
// order.
func CollectBits(sig Signal) []*Bits {
	var out []*Bits

	_ = ForEachBits(sig, func(b *Bits) error {
		out = append(out, b)
		return nil
	})

	return out
}

// ZipBits walks two structurally-identical signals in lockstep, yielding
// paired Bits leaves. It errors if the signals diverge in shape.
func ZipBits(a, b Signal, yield func(x, y *Bits) error) error {
	switch av := a.(type) {
	case *Bits:
		bv, ok := b.(*Bits)
		if !ok || av.Width != bv.Width {
			return atlaserr.Structural("signal shape mismatch zipping bits leaves")
		}

		return yield(av, bv)
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return atlaserr.Structural("list length mismatch during zip")
		}

		for i := range av.Fields {
			if err := ZipBits(av.Fields[i], bv.Fields[i], yield); err != nil {
				return err
			}
		}

		return nil
	case *Bundle:
		bv, ok := b.(*Bundle)
		if !ok {
			return atlaserr.Structural("bundle/non-bundle mismatch during zip")
		}

		for _, k := range av.Keys {
			other, present := bv.Fields[k]
			if !present {
				return atlaserr.Structural("bundle key %q missing during zip", k)
			}

			if err := ZipBits(av.Fields[k], other, yield); err != nil {
				return err
			}
		}

		return nil
	default:
		return atlaserr.Structural("unknown signal type %T", a)
	}
}

// ResolveDirection walks from sig up through its Signal ancestors,
// resolving Inherit to the parent's direction and inverting through every
// Flipped link, stopping at the first non-Signal parent (a module IO root
// or an operator result, whose own direction tag is definitive). It fails
// if the chain bottoms out at Inherit with no further Signal ancestor.
func ResolveDirection(sig Signal) (typespec.Direction, error) {
	current := sig.Meta().Dir
	flip := false
	parent := sig.Meta().Parent

	for {
		if current == typespec.Flipped {
			flip = !flip

			ps, ok := parent.(Signal)
			if !ok {
				return typespec.Inherit, atlaserr.TypeWidth("flipped direction has no signal ancestor")
			}

			current = ps.Meta().Dir
			parent = ps.Meta().Parent

			continue
		}

		if current != typespec.Inherit {
			break
		}

		ps, ok := parent.(Signal)
		if !ok {
			return typespec.Inherit, atlaserr.TypeWidth("unresolved direction: chain terminates at inherit")
		}

		current = ps.Meta().Dir
		parent = ps.Meta().Parent
	}

	if !flip {
		return current, nil
	}

	return typespec.Invert(current)
}

// Path returns the Verilog name for a Bits leaf: the "_"-joined
// concatenation of ancestor names up to, but not including, the module
// (spec section 3, "Invariants").
func Path(sig Signal) (string, error) {
	bits, ok := sig.(*Bits)
	if !ok {
		return "", atlaserr.Structural("container signals have no Verilog name")
	}

	var parts []string

	var cur Signal = bits

	for {
		m := cur.Meta()
		if m.Name == "" {
			return "", atlaserr.Lowering("signal must be named before it can be used in Verilog")
		}

		parts = append(parts, m.Name)

		parent := m.Parent

		if p, ok := parent.(Signal); ok {
			cur = p
			continue
		}

		// A non-Signal parent (a module, an operator, or the "io"
		// root's module-name string) terminates the chain without
		// contributing a name segment (spec section 3: the path
		// stops "up to, but not including, the module").
		break
	}

	// Reverse.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, "_"), nil
}
