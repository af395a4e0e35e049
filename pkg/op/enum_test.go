package op

import "testing"

func TestNewEnumRejectsEmpty(t *testing.T) {
	if _, err := NewEnum(); err == nil {
		t.Fatalf("expected an error constructing an enum with no members")
	}
}

func TestNewEnumRejectsDuplicateNames(t *testing.T) {
	if _, err := NewEnum("idle", "busy", "idle"); err == nil {
		t.Fatalf("expected an error constructing an enum with duplicate names")
	}
}

func TestEnumCodesAreDenseInDeclarationOrder(t *testing.T) {
	e, err := NewEnum("idle", "start", "read", "stop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, name := range []string{"idle", "start", "read", "stop"} {
		code, err := e.Code(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if code != int64(i) {
			t.Fatalf("expected %q to have code %d, got %d", name, i, code)
		}
	}
}

func TestEnumWidthIsMinimalLog2Ceil(t *testing.T) {
	// 4 states need 2 bits; matches the uart-style FSM scenario.
	e, err := NewEnum("idle", "start", "read", "stop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Width != 2 {
		t.Fatalf("expected width 2 for 4 states, got %d", e.Width)
	}
}

func TestEnumCodeUnknownMemberErrors(t *testing.T) {
	e, _ := NewEnum("a", "b")

	if _, err := e.Code("c"); err == nil {
		t.Fatalf("expected an error looking up an unknown member")
	}
}

func TestLog2CeilBoundaries(t *testing.T) {
	cases := map[uint]uint{
		1: 1,
		2: 1,
		3: 2,
		4: 2,
		5: 3,
		8: 3,
		9: 4,
	}

	for n, want := range cases {
		if got := Log2Ceil(n); got != want {
			t.Fatalf("Log2Ceil(%d) = %d, want %d", n, got, want)
		}
	}
}
