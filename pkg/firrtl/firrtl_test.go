package firrtl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atlas-hdl/atlas/internal/demo"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

func TestEmitCircuitMux2Scenario(t *testing.T) {
	circuit, err := demo.Mux2()
	if err != nil {
		t.Fatalf("unexpected error building the demo circuit: %v", err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	if err := EmitCircuit(w, circuit); err != nil {
		t.Fatalf("unexpected error emitting FIRRTL: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"circuit Mux:",
		"module Mux:",
		"input io_a: UInt<8>",
		"output io_out: UInt<8>",
		"when io_sel:",
		"io_out <= io_b",
		"else:",
		"io_out <= io_a",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected emitted FIRRTL to contain %q; got:\n%s", want, out)
		}
	}
}

func TestEmitCircuitGCDScenarioDeclaresRegistersWithClock(t *testing.T) {
	circuit, err := demo.GCD()
	if err != nil {
		t.Fatalf("unexpected error building the demo circuit: %v", err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	if err := EmitCircuit(w, circuit); err != nil {
		t.Fatalf("unexpected error emitting FIRRTL: %v", err)
	}

	out := buf.String()

	if !strings.Contains(out, "reg ") || !strings.Contains(out, "clock") {
		t.Fatalf("expected at least one clocked reg declaration, got:\n%s", out)
	}
}

func TestTypeStringSignedAndUnsigned(t *testing.T) {
	unsigned := &signal.Bits{Width: 8}
	signed := &signal.Bits{Width: 8, Signed: true}

	if got := typeString(unsigned); got != "UInt<8>" {
		t.Fatalf("got %q, want UInt<8>", got)
	}

	if got := typeString(signed); got != "SInt<8>" {
		t.Fatalf("got %q, want SInt<8>", got)
	}
}
