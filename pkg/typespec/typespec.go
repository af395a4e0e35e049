// Package typespec implements the declarative type descriptors used to
// describe circuit signals: scalar bit-vectors, fixed-length sequences and
// named records, together with direction/flip resolution.
package typespec

import (
	"fmt"
	"strings"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
)

// Direction tags a typespec (or signal) node. Direction is resolved lazily:
// a leaf's effective direction is the nearest non-Inherit ancestor tag, with
// Flipped inverting it.
type Direction uint8

const (
	// Inherit takes its direction from the nearest enclosing ancestor.
	Inherit Direction = iota
	// Input marks a leaf driven from outside the module.
	Input
	// Output marks a leaf driven from inside the module.
	Output
	// Inout marks a bidirectional leaf.
	Inout
	// Flipped inverts the direction inherited from its parent
	// (Input<->Output, Inout stays Inout).
	Flipped
)

func (d Direction) String() string {
	switch d {
	case Inherit:
		return "inherit"
	case Input:
		return "input"
	case Output:
		return "output"
	case Inout:
		return "inout"
	case Flipped:
		return "flipped"
	default:
		return "unknown"
	}
}

// Invert returns the direction-inverted counterpart of d (Input<->Output,
// Inout<->Inout). It is an error to invert Inherit or Flipped.
func Invert(d Direction) (Direction, error) {
	switch d {
	case Input:
		return Output, nil
	case Output:
		return Input, nil
	case Inout:
		return Inout, nil
	default:
		return Inherit, atlaserr.TypeWidth("cannot invert direction %s", d)
	}
}

// Kind identifies which TypeSpec variant a node is.
type Kind uint8

const (
	// KindBits is a primitive bit-vector leaf.
	KindBits Kind = iota
	// KindList is a homogeneous fixed-length sequence.
	KindList
	// KindBundle is a named record.
	KindBundle
)

// Field is one named entry of a Bundle. Fields are kept in an ordered slice
// (not a Go map) so that declaration order is preserved through naming and
// emission, the way go-corset's register.Map preserves register order.
type Field struct {
	Name string
	Type TypeSpec
}

// TypeSpec is the recursive algebraic type descriptor described in spec
// section 3. Exactly one of the Bits/List/Bundle-specific fields is
// meaningful, selected by Kind.
type TypeSpec struct {
	Kind Kind
	Dir  Direction

	// KindBits fields.
	Width  uint
	Signed bool

	// KindList fields.
	Length uint
	Elem   *TypeSpec

	// KindBundle fields.
	Fields []Field
}

// Bits constructs a primitive bit-vector typespec.
func Bits(width uint, signed bool) TypeSpec {
	return TypeSpec{Kind: KindBits, Width: width, Signed: signed}
}

// List constructs a homogeneous fixed-length sequence typespec.
func List(length uint, elem TypeSpec) TypeSpec {
	e := elem
	return TypeSpec{Kind: KindList, Length: length, Elem: &e}
}

// Bundle constructs a named-record typespec from an ordered field list.
func Bundle(fields ...Field) TypeSpec {
	return TypeSpec{Kind: KindBundle, Fields: fields}
}

// WithDirection returns a copy of t tagged with the given direction.
func (t TypeSpec) WithDirection(d Direction) TypeSpec {
	t.Dir = d
	return t
}

// Flip returns a copy of t tagged as Flipped, inverting whatever direction
// it would otherwise resolve to relative to its parent.
func Flip(t TypeSpec) TypeSpec {
	return t.WithDirection(Flipped)
}

// Equal performs deep structural equality between two typespecs, ignoring
// direction tags (direction is resolved separately and does not affect
// type identity for the purposes of List homogeneity or CSE).
func Equal(a, b TypeSpec) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindBits:
		return a.Width == b.Width && a.Signed == b.Signed
	case KindList:
		return a.Length == b.Length && a.Elem != nil && b.Elem != nil && Equal(*a.Elem, *b.Elem)
	case KindBundle:
		if len(a.Fields) != len(b.Fields) {
			return false
		}

		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}

			if !Equal(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String renders a human-readable rendition of a typespec, used by error
// messages and the inspector.
func (t TypeSpec) String() string {
	switch t.Kind {
	case KindBits:
		if t.Signed {
			return fmt.Sprintf("sbits<%d>", t.Width)
		}

		return fmt.Sprintf("bits<%d>", t.Width)
	case KindList:
		if t.Elem == nil {
			return fmt.Sprintf("[%d]?", t.Length)
		}

		return fmt.Sprintf("[%d]%s", t.Length, t.Elem.String())
	case KindBundle:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			prefix := ""
			if f.Type.Dir == Flipped {
				prefix = "flip "
			}

			parts[i] = prefix + f.Name + ": " + f.Type.String()
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "?"
	}
}

// ResolveDirection walks from a node's own direction tag up through the
// provided ancestor-direction chain (nearest ancestor first), resolving
// Inherit to the ancestor's direction and inverting through every Flipped
// link encountered. It fails if the chain bottoms out at Inherit.
func ResolveDirection(own Direction, ancestors []Direction) (Direction, error) {
	current := own
	flip := false

	for {
		if current == Flipped {
			flip = !flip
			// Flipped nodes defer entirely to the parent; there is
			// no "flipped direction" in isolation.
			if len(ancestors) == 0 {
				return Inherit, atlaserr.TypeWidth("direction chain terminates at flipped with no parent")
			}

			current = ancestors[0]
			ancestors = ancestors[1:]

			continue
		}

		if current != Inherit {
			break
		}

		if len(ancestors) == 0 {
			return Inherit, atlaserr.TypeWidth("direction chain terminates at inherit")
		}

		current = ancestors[0]
		ancestors = ancestors[1:]
	}

	if !flip {
		return current, nil
	}

	return Invert(current)
}
