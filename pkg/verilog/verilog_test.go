package verilog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atlas-hdl/atlas/internal/demo"
	"github.com/atlas-hdl/atlas/pkg/connection"
)

func TestLiteralTextBitVsDecimal(t *testing.T) {
	if got := literalText(connection.Literal{Value: 1, IsBit: true}); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}

	if got := literalText(connection.Literal{Value: 0, IsBit: true}); got != "0" {
		t.Fatalf("got %q, want 0", got)
	}

	if got := literalText(connection.Literal{Value: 42}); got != "42" {
		t.Fatalf("got %q, want 42", got)
	}
}

func TestDeclWidthOneOmitsBitRange(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	w.DeclWire("sel", 1, false)
	w.DeclWire("data", 8, false)

	out := buf.String()

	if !strings.Contains(out, "wire sel;") {
		t.Fatalf("expected a bare 1-bit wire declaration, got %q", out)
	}

	if !strings.Contains(out, "wire [7:0] data;") {
		t.Fatalf("expected a ranged wire declaration, got %q", out)
	}
}

func TestDeclSignedEmitsModifier(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	w.DeclReg("acc", 8, true)

	if !strings.Contains(buf.String(), "reg signed [7:0] acc;") {
		t.Fatalf("expected a signed reg declaration, got %q", buf.String())
	}
}

func TestNameGuardFlagsDuplicateDeclarations(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, nil)

	w.DeclWire("x", 1, false)
	w.DeclWire("x", 1, false)

	if len(w.duplicates) != 1 {
		t.Fatalf("expected exactly one flagged duplicate, got %d: %v", len(w.duplicates), w.duplicates)
	}
}

func TestNextNodeNameIsUniquePerWriter(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, nil)

	n1 := w.NextNodeName()
	n2 := w.NextNodeName()

	if n1 == n2 {
		t.Fatalf("expected distinct synthetic node names, got %q twice", n1)
	}
}

func TestEmitCircuitMux2Scenario(t *testing.T) {
	circuit, err := demo.Mux2()
	if err != nil {
		t.Fatalf("unexpected error building the demo circuit: %v", err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	if err := EmitCircuit(w, circuit); err != nil {
		t.Fatalf("unexpected error emitting Verilog: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"module Mux (",
		"input [7:0] io_a,",
		"input [7:0] io_b,",
		"input io_sel,",
		"output [7:0] io_out",
		"assign io_out = io_sel ? io_b : io_a;",
		"endmodule",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected emitted Verilog to contain %q; got:\n%s", want, out)
		}
	}
}

func TestEmitCircuitGCDScenarioHasSequentialBlock(t *testing.T) {
	circuit, err := demo.GCD()
	if err != nil {
		t.Fatalf("unexpected error building the demo circuit: %v", err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	if err := EmitCircuit(w, circuit); err != nil {
		t.Fatalf("unexpected error emitting Verilog: %v", err)
	}

	out := buf.String()

	if !strings.Contains(out, "always @(posedge") {
		t.Fatalf("expected at least one sequential always block, got:\n%s", out)
	}
}

func TestEmitCircuitInstanceScenarioEmitsInstantiation(t *testing.T) {
	circuit, err := demo.InstanceDemo()
	if err != nil {
		t.Fatalf("unexpected error building the demo circuit: %v", err)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	if err := EmitCircuit(w, circuit); err != nil {
		t.Fatalf("unexpected error emitting Verilog: %v", err)
	}

	out := buf.String()

	if !strings.Contains(out, "Leaf ") {
		t.Fatalf("expected an instantiation of the Leaf module, got:\n%s", out)
	}
}
