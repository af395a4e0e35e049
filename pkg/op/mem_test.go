package op

import "testing"

func TestMemReadIsClockedAndCombReadIsNot(t *testing.T) {
	namer := NewNamer()
	clock := bitsNamed("clock", 1)

	m := NewMem(namer, 8, 256, clock)

	addr := bitsNamed("addr", 8)
	registered := m.Read(addr)
	comb := m.ReadComb(addr)

	if registered.Clock != clock {
		t.Fatalf("expected a registered read result to carry the memory's clock")
	}

	if comb.Clock != nil {
		t.Fatalf("expected a combinational read result to carry no clock")
	}
}

func TestMemResultsIncludeBothReadKinds(t *testing.T) {
	namer := NewNamer()
	clock := bitsNamed("clock", 1)
	m := NewMem(namer, 8, 16, clock)

	addr := bitsNamed("addr", 4)
	m.Read(addr)
	m.ReadComb(addr)

	if len(m.Results()) != 2 {
		t.Fatalf("expected 2 results (1 registered + 1 combinational read), got %d", len(m.Results()))
	}
}

func TestMemSequentialLinesIncludeReadsAndWrites(t *testing.T) {
	namer := NewNamer()
	clock := bitsNamed("clock", 1)
	m := NewMem(namer, 8, 16, clock)

	addr := bitsNamed("addr", 4)
	enable := bitsNamed("en", 1)
	data := bitsNamed("data", 8)

	m.Read(addr, enable)
	m.Write(addr, data, enable)

	sink := &fakeSink{}

	lines, err := m.SequentialLines(sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 sequential lines (1 enabled read + 1 write), got %d: %v", len(lines), lines)
	}

	wantRead := "if (en) mem_0_read_0 <= mem_0[addr];"
	if lines[0] != wantRead {
		t.Fatalf("got %q, want %q", lines[0], wantRead)
	}

	wantWrite := "if (en) mem_0[addr] <= data;"
	if lines[1] != wantWrite {
		t.Fatalf("got %q, want %q", lines[1], wantWrite)
	}
}

func TestMemDeclareEmitsBackingArrayAndPorts(t *testing.T) {
	namer := NewNamer()
	clock := bitsNamed("clock", 1)
	m := NewMem(namer, 8, 256, clock)

	addr := bitsNamed("addr", 8)
	m.Read(addr)
	m.ReadComb(addr)

	sink := &fakeSink{}
	if err := m.Declare(sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "reg [7:0] mem_0 [255:0];"
	if sink.lines[0] != want {
		t.Fatalf("got %q, want %q", sink.lines[0], want)
	}
}
