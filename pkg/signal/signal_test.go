package signal

import (
	"testing"

	"github.com/atlas-hdl/atlas/pkg/typespec"
)

func TestCreateBits(t *testing.T) {
	sig := Create(typespec.Bits(8, false).WithDirection(typespec.Input), "a", "module")

	bits, ok := sig.(*Bits)
	if !ok {
		t.Fatalf("expected *Bits, got %T", sig)
	}

	if bits.Width != 8 {
		t.Fatalf("expected width 8, got %d", bits.Width)
	}

	if bits.Meta().Name != "a" {
		t.Fatalf("expected name 'a', got %q", bits.Meta().Name)
	}
}

func TestCreateBundleParentsChildren(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "x", Type: typespec.Bits(4, false)},
		typespec.Field{Name: "y", Type: typespec.Bits(4, false)},
	)

	sig := Create(ts, "io", "module")

	bundle, ok := sig.(*Bundle)
	if !ok {
		t.Fatalf("expected *Bundle, got %T", sig)
	}

	x := bundle.Fields["x"]
	if x.Meta().Parent != bundle {
		t.Fatalf("expected x's parent to be the bundle itself")
	}
}

func TestCreateListIndexNames(t *testing.T) {
	ts := typespec.List(3, typespec.Bits(1, false))
	sig := Create(ts, "l", "module")

	l, ok := sig.(*List)
	if !ok {
		t.Fatalf("expected *List, got %T", sig)
	}

	want := []string{"i0", "i1", "i2"}
	for i, w := range want {
		if l.Fields[i].Meta().Name != w {
			t.Fatalf("field %d: got %q, want %q", i, l.Fields[i].Meta().Name, w)
		}
	}
}

// TestTypeSpecRoundTrip is P2: create(typespec_of(s)) round-trips.
func TestTypeSpecRoundTrip(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "a", Type: typespec.Bits(8, false).WithDirection(typespec.Input)},
		typespec.Field{Name: "b", Type: typespec.List(2, typespec.Bits(2, true)).WithDirection(typespec.Output)},
	)

	sig := Create(ts, "io", "module")
	reconstructed := sig.TypeSpec()

	sig2 := Create(reconstructed, "io", "module")
	reconstructed2 := sig2.TypeSpec()

	if !typespec.Equal(reconstructed, reconstructed2) {
		t.Fatalf("typespec did not round-trip: %s vs %s", reconstructed, reconstructed2)
	}
}

func TestPathJoinsAncestorsExcludingModule(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "sub", Type: typespec.Bundle(
			typespec.Field{Name: "leaf", Type: typespec.Bits(1, false)},
		)},
	)

	sig := Create(ts, "io", "SomeModule")

	bundle := sig.(*Bundle)
	sub := bundle.Fields["sub"].(*Bundle)
	leaf := sub.Fields["leaf"].(*Bits)

	path, err := Path(leaf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "io_sub_leaf" {
		t.Fatalf("got %q, want %q", path, "io_sub_leaf")
	}
}

func TestPathRejectsContainer(t *testing.T) {
	ts := typespec.Bundle(typespec.Field{Name: "leaf", Type: typespec.Bits(1, false)})
	sig := Create(ts, "io", "Module")

	if _, err := Path(sig); err == nil {
		t.Fatalf("expected error naming a container signal")
	}
}

func TestResolveDirectionViaBundleFlip(t *testing.T) {
	// A bundle tagged Output containing a Flip child should resolve the
	// child to Input (P8).
	ts := typespec.Bundle(
		typespec.Field{Name: "a", Type: typespec.Flip(typespec.Bits(1, false))},
	).WithDirection(typespec.Output)

	sig := Create(ts, "io", "Module")
	bundle := sig.(*Bundle)
	a := bundle.Fields["a"].(*Bits)

	dir, err := ResolveDirection(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir != typespec.Input {
		t.Fatalf("expected flipped child of an Output bundle to resolve Input, got %s", dir)
	}
}

func TestResolveDirectionUnresolved(t *testing.T) {
	// An internal Wire (parent is a bare string, not a Signal) with no
	// direction tag of its own must fail to resolve.
	sig := Create(typespec.Bits(4, false), "w", "Module")

	if _, err := ResolveDirection(sig.(*Bits)); err == nil {
		t.Fatalf("expected error resolving direction with no Signal ancestor")
	}
}

func TestZipBitsMismatch(t *testing.T) {
	a := Create(typespec.List(2, typespec.Bits(1, false)), "a", "Module")
	b := Create(typespec.List(3, typespec.Bits(1, false)), "b", "Module")

	err := ZipBits(a, b, func(x, y *Bits) error { return nil })
	if err == nil {
		t.Fatalf("expected error zipping lists of different lengths")
	}
}

func TestUnassignedLeavesReportsMissing(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "a", Type: typespec.Bits(1, false)},
		typespec.Field{Name: "b", Type: typespec.Bits(1, false)},
	)

	sig := Create(ts, "io", "Module")
	bundle := sig.(*Bundle)

	a := bundle.Fields["a"].(*Bits)
	a.Connections = []any{"driven"}

	missing := UnassignedLeaves(sig)
	if len(missing) != 1 || missing[0] != "io_b" {
		t.Fatalf("expected only io_b unassigned, got %v", missing)
	}
}

func TestUnassignedLeavesSkipsInputAndRegisterLeaves(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "in", Type: typespec.Bits(1, false).WithDirection(typespec.Input)},
		typespec.Field{Name: "reg", Type: typespec.Bits(1, false).WithDirection(typespec.Output)},
		typespec.Field{Name: "out", Type: typespec.Bits(1, false).WithDirection(typespec.Output)},
	)

	sig := Create(ts, "io", "Module")
	bundle := sig.(*Bundle)

	reg := bundle.Fields["reg"].(*Bits)
	reg.Clock = &Bits{}

	missing := UnassignedLeaves(sig)
	if len(missing) != 1 || missing[0] != "io_out" {
		t.Fatalf("expected only io_out unassigned (in is an input, reg is a register), got %v", missing)
	}
}

func TestUnassignedLeavesEmptyWhenFullyCovered(t *testing.T) {
	ts := typespec.List(2, typespec.Bits(1, false))
	sig := Create(ts, "io", "Module")

	for _, b := range CollectBits(sig) {
		b.Connections = []any{"driven"}
	}

	if missing := UnassignedLeaves(sig); len(missing) != 0 {
		t.Fatalf("expected no unassigned leaves, got %v", missing)
	}
}

func TestCollectBitsOrder(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "a", Type: typespec.Bits(1, false)},
		typespec.Field{Name: "b", Type: typespec.List(2, typespec.Bits(1, false))},
	)

	sig := Create(ts, "io", "Module")
	leaves := CollectBits(sig)

	if len(leaves) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(leaves))
	}

	if leaves[0].Meta().Name != "a" || leaves[1].Meta().Name != "i0" || leaves[2].Meta().Name != "i1" {
		t.Fatalf("unexpected leaf order: %v, %v, %v", leaves[0].Meta().Name, leaves[1].Meta().Name, leaves[2].Meta().Name)
	}
}
