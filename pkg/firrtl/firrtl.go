// Package firrtl is the write-side sibling of a FIRRTL-like textual IR
// (spec section 1: "described only at interface level"; section 6,
// "Emission outputs"). It shares the elaborated IR with pkg/verilog but
// serializes it with FIRRTL's own keyword set and its single `<=` connect
// operator, which makes no textual distinction between combinational and
// register assignment — unlike pkg/verilog, it walks each leaf's raw
// connection list directly (as `when`/`else` blocks) rather than lowering
// through a ConnectionTree, since FIRRTL's own `when` statement already
// expresses last-connect-wins predicated assignment natively. No parser is
// implemented; that textual frontend is out of scope (spec section 1).
package firrtl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/connection"
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/typespec"
)

var dirKeyword = map[typespec.Direction]string{
	typespec.Input:  "input",
	typespec.Output: "output",
	typespec.Inout:  "output", // FIRRTL has no inout port direction; treated as output here.
}

// Writer drives one FIRRTL emission pass, mirroring pkg/verilog.Writer's
// non-global design (Design Note, "process-global elaboration context"):
// a value, not module-level state, so the same process may emit several
// circuits in either textual form without interference.
type Writer struct {
	out         *bufio.Writer
	log         *logrus.Logger
	indentLevel int
}

// NewWriter constructs a Writer over out. log may be nil, in which case a
// silent discard logger is used.
func NewWriter(out io.Writer, log *logrus.Logger) *Writer {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}

	return &Writer{out: bufio.NewWriter(out), log: log}
}

func (w *Writer) raw(line string) {
	for i := 0; i < w.indentLevel; i++ {
		_, _ = w.out.WriteString("  ")
	}

	_, _ = w.out.WriteString(line)
	_, _ = w.out.WriteString("\n")
}

func (w *Writer) indent() { w.indentLevel++ }

func (w *Writer) dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Flush flushes buffered output.
func (w *Writer) Flush() error { return w.out.Flush() }

// EmitCircuit writes the whole circuit as one `circuit <name>:` block
// containing every module, in declaration order.
func EmitCircuit(w *Writer, c *elaborate.Circuit) error {
	w.raw(fmt.Sprintf("circuit %s:", c.Name))
	w.indent()

	for _, m := range c.Modules {
		if err := EmitModule(w, m); err != nil {
			return err
		}
	}

	w.dedent()

	return w.Flush()
}

// EmitModule writes one `module <name>: ... ` block.
func EmitModule(w *Writer, m *elaborate.Module) error {
	w.log.WithField("module", m.ModuleName()).Debug("emitting firrtl module")

	w.raw(fmt.Sprintf("module %s:", m.ModuleName()))
	w.indent()

	ioLeaves := signal.CollectBits(m.IO())

	for _, leaf := range ioLeaves {
		dir, err := signal.ResolveDirection(leaf)
		if err != nil {
			return err
		}

		kw, ok := dirKeyword[dir]
		if !ok {
			return atlaserr.TypeWidth("io leaf has unresolvable direction")
		}

		name, err := signal.Path(leaf)
		if err != nil {
			return err
		}

		if name == "io_clock" {
			w.raw(fmt.Sprintf("%s clock: Clock", kw))
			continue
		}

		if name == "io_reset" {
			w.raw(fmt.Sprintf("%s reset: UInt<1>", kw))
			continue
		}

		w.raw(fmt.Sprintf("%s %s: %s", kw, name, typeString(leaf)))
	}

	for _, sig := range m.Signals {
		if err := declareSignal(w, sig); err != nil {
			return err
		}
	}

	for _, leaf := range ioLeaves {
		dir, err := signal.ResolveDirection(leaf)
		if err != nil {
			return err
		}

		if dir == typespec.Input {
			continue
		}

		if err := emitLeafConnections(w, leaf); err != nil {
			return err
		}
	}

	for _, sig := range m.Signals {
		err := signal.ForEachBits(sig, func(leaf *signal.Bits) error {
			return emitLeafConnections(w, leaf)
		})
		if err != nil {
			return err
		}
	}

	w.dedent()
	w.raw("")

	return nil
}

func declareSignal(w *Writer, sig signal.Signal) error {
	return signal.ForEachBits(sig, func(b *signal.Bits) error {
		name, err := signal.Path(b)
		if err != nil {
			return err
		}

		if b.IsRegister() {
			clockName, err := nameOf(b.Clock)
			if err != nil {
				return err
			}

			w.raw(fmt.Sprintf("reg %s: %s, %s", name, typeString(b), clockName))

			return nil
		}

		w.raw(fmt.Sprintf("wire %s: %s", name, typeString(b)))

		return nil
	})
}

func typeString(b *signal.Bits) string {
	base := "UInt"
	if b.Signed {
		base = "SInt"
	}

	return fmt.Sprintf("%s<%d>", base, b.Width)
}

// emitLeafConnections renders one leaf's raw connection list directly as
// nested `when`/`else` blocks bottoming out in `<=`, reusing the exact
// precedence semantics connection.Insert already encoded (no ConnectionTree
// lowering needed — FIRRTL's own `when` is already a predicated-connect
// primitive). An empty list leaves the leaf unconnected here: an
// undriven input is legitimate, and an undriven register holds via
// FIRRTL's own implicit self-reference semantics, mirrored by pkg/verilog
// as an explicit `leaf <= leaf;`.
func emitLeafConnections(w *Writer, leaf *signal.Bits) error {
	if len(leaf.Connections) == 0 {
		return nil
	}

	name, err := signal.Path(leaf)
	if err != nil {
		return err
	}

	return emitConnections(w, name, leaf.Connections)
}

func emitConnections(w *Writer, lhsName string, entries connection.List) error {
	for _, item := range entries {
		blk, ok := item.(*connection.Block)
		if !ok {
			rhs, err := nameOf(item)
			if err != nil {
				return err
			}

			w.raw(fmt.Sprintf("%s <= %s", lhsName, rhs))

			continue
		}

		predName, err := nameOf(blk.Predicate)
		if err != nil {
			return err
		}

		if len(blk.True) > 0 {
			w.raw(fmt.Sprintf("when %s:", predName))
			w.indent()

			if err := emitConnections(w, lhsName, blk.True); err != nil {
				return err
			}

			w.dedent()
		}

		if len(blk.False) > 0 {
			w.raw("else:")
			w.indent()

			if err := emitConnections(w, lhsName, blk.False); err != nil {
				return err
			}

			w.dedent()
		}
	}

	return nil
}

func nameOf(item any) (string, error) {
	switch v := item.(type) {
	case *signal.Bits:
		return signal.Path(v)
	case connection.Literal:
		if v.IsBit {
			if v.Value != 0 {
				return "UInt<1>(1)", nil
			}

			return "UInt<1>(0)", nil
		}

		return strconv.FormatInt(v.Value, 10), nil
	case string:
		return v, nil
	default:
		return "", atlaserr.Structural("cannot name item of type %T", item)
	}
}
