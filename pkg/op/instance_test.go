package op

import (
	"testing"

	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/typespec"
)

type fakeModule struct {
	name string
	io   signal.Signal
}

func (m *fakeModule) ModuleName() string   { return m.name }
func (m *fakeModule) IO() signal.Signal    { return m.io }

func TestNewInstanceInvertsDirections(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "in", Type: typespec.Bits(4, false).WithDirection(typespec.Input)},
		typespec.Field{Name: "out", Type: typespec.Bits(4, false).WithDirection(typespec.Output)},
	)

	module := &fakeModule{name: "Leaf", io: signal.Create(ts, "io", "Leaf")}

	inst := NewInstance("leaf0", module)

	bundle := inst.Local.(*signal.Bundle)

	in := bundle.Fields["in"].(*signal.Bits)
	out := bundle.Fields["out"].(*signal.Bits)

	if in.Meta().Dir != typespec.Output {
		t.Fatalf("expected the local shadow's 'in' leaf to be an Output, got %s", in.Meta().Dir)
	}

	if out.Meta().Dir != typespec.Input {
		t.Fatalf("expected the local shadow's 'out' leaf to be an Input, got %s", out.Meta().Dir)
	}
}

func TestInstanceSynthesizeEmitsPortConnections(t *testing.T) {
	ts := typespec.Bundle(
		typespec.Field{Name: "a", Type: typespec.Bits(1, false).WithDirection(typespec.Input)},
	)

	module := &fakeModule{name: "Leaf", io: signal.Create(ts, "io", "Leaf")}
	inst := NewInstance("leaf0", module)

	sink := &fakeSink{}
	if err := inst.Synthesize(sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sink.lines[0] != "Leaf leaf0 (" {
		t.Fatalf("got %q", sink.lines[0])
	}

	if sink.lines[len(sink.lines)-1] != ");" {
		t.Fatalf("expected the instantiation to close with ');', got %q", sink.lines[len(sink.lines)-1])
	}
}
