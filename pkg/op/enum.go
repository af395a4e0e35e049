package op

import "github.com/atlas-hdl/atlas/pkg/atlaserr"

// Enum assigns dense integer codes to a list of named states and computes
// the minimum bit width needed to represent them, the way the original's
// uart example hand-derived state encodings (SPEC_FULL.md, "Supplemented
// features": Enum).
type Enum struct {
	Width uint
	codes map[string]int64
	names []string
}

// NewEnum builds an Enum over names, in declaration order; names must be
// non-empty and unique.
func NewEnum(names ...string) (*Enum, error) {
	if len(names) == 0 {
		return nil, atlaserr.Structural("enum requires at least one name")
	}

	e := &Enum{codes: make(map[string]int64, len(names)), names: append([]string{}, names...)}

	for i, n := range names {
		if _, dup := e.codes[n]; dup {
			return nil, atlaserr.Structural("duplicate enum name %q", n)
		}

		e.codes[n] = int64(i)
	}

	e.Width = log2Ceil(uint(len(names)))

	return e, nil
}

// Code returns the integer code assigned to name.
func (e *Enum) Code(name string) (int64, error) {
	v, ok := e.codes[name]
	if !ok {
		return 0, atlaserr.Structural("unknown enum member %q", name)
	}

	return v, nil
}

// Names returns the enum's members in declaration order.
func (e *Enum) Names() []string { return append([]string{}, e.names...) }

// Log2Ceil returns the minimum number of bits needed to represent n
// distinct values (minimum 1), exported for use outside this package (e.g.
// sizing a list index signal against its length).
func Log2Ceil(n uint) uint { return log2Ceil(n) }

func log2Ceil(n uint) uint {
	if n <= 1 {
		return 1
	}

	var width uint

	for v := n - 1; v > 0; v >>= 1 {
		width++
	}

	return width
}
