// Package ir walks an elaborated circuit for presentation purposes: a
// terminal-table inspector (driven by pkg/util/termio) and a JSON-friendly
// summary struct, both read-only views over the same Signal/Connection IR
// pkg/verilog and pkg/firrtl emit from. Grounded on go-corset's own
// schema-dump commands (pkg/cmd/corset's `debug`/`inspect` subcommands,
// which walk a compiled schema into a termio table rather than re-deriving
// one from the textual output).
package ir

import (
	"fmt"

	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/util/termio"
)

// SignalRow is one leaf's worth of inspector/JSON-dump information.
type SignalRow struct {
	Module      string `json:"module"`
	Path        string `json:"path"`
	Direction   string `json:"direction"`
	Width       uint   `json:"width"`
	Signed      bool   `json:"signed"`
	Register    bool   `json:"register"`
	Connections int    `json:"connections"`
}

// ModuleSummary is one module's worth of JSON-dump information.
type ModuleSummary struct {
	Name      string      `json:"name"`
	Operators int         `json:"operators"`
	Signals   []SignalRow `json:"signals"`
}

// CircuitSummary is the whole-circuit JSON-dump payload produced by `atlas
// dump --json`.
type CircuitSummary struct {
	Name    string          `json:"name"`
	Modules []ModuleSummary `json:"modules"`
}

// Summarize walks c into a CircuitSummary, in module and leaf declaration
// order (the same order pkg/verilog emits in, so a dump and its
// corresponding .v file read side by side line up module-for-module).
func Summarize(c *elaborate.Circuit) (CircuitSummary, error) {
	out := CircuitSummary{Name: c.Name}

	for _, m := range c.Modules {
		rows, err := moduleRows(m)
		if err != nil {
			return CircuitSummary{}, err
		}

		out.Modules = append(out.Modules, ModuleSummary{
			Name:      m.ModuleName(),
			Operators: len(m.Ops),
			Signals:   rows,
		})
	}

	return out, nil
}

func moduleRows(m *elaborate.Module) ([]SignalRow, error) {
	var rows []SignalRow

	appendLeaf := func(leaf *signal.Bits) error {
		dir, err := signal.ResolveDirection(leaf)
		if err != nil {
			return err
		}

		path, err := signal.Path(leaf)
		if err != nil {
			return err
		}

		rows = append(rows, SignalRow{
			Module:      m.ModuleName(),
			Path:        path,
			Direction:   dir.String(),
			Width:       leaf.Width,
			Signed:      leaf.Signed,
			Register:    leaf.IsRegister(),
			Connections: len(leaf.Connections),
		})

		return nil
	}

	if err := signal.ForEachBits(m.IO(), appendLeaf); err != nil {
		return nil, err
	}

	for _, sig := range m.Signals {
		if err := signal.ForEachBits(sig, appendLeaf); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

var columnHeaders = []string{"module", "path", "dir", "width", "kind", "conns"}

// Table renders a CircuitSummary as a termio.FormattedTable, one row per
// leaf signal plus a header row, ready for Print on a plain terminal or a
// piped destination (`atlas inspect` does not assume a TTY, mirroring
// go-corset's `--no-tui` fallback for piped output). The direction column
// is pre-coloured via termio.DirectionColour so Print(true) highlights
// inputs/outputs/inouts distinctly; Print(false) renders the same rows
// without escapes.
func Table(summary CircuitSummary) *termio.FormattedTable {
	total := 1
	for _, m := range summary.Modules {
		total += len(m.Signals)
	}

	t := termio.NewFormattedTable(uint(len(columnHeaders)), uint(total))

	header := make([]termio.FormattedText, len(columnHeaders))
	for i, h := range columnHeaders {
		header[i] = termio.NewText(h)
	}

	t.SetRow(0, header...)

	row := uint(1)

	for _, m := range summary.Modules {
		for _, s := range m.Signals {
			kind := "wire"
			if s.Register {
				kind = "reg"
			}

			t.SetRow(row,
				termio.NewText(m.Name),
				termio.NewText(s.Path),
				termio.NewColouredText(s.Direction, termio.DirectionColour(s.Direction)),
				termio.NewText(fmt.Sprintf("%d", s.Width)),
				termio.NewText(kind),
				termio.NewText(fmt.Sprintf("%d", s.Connections)),
			)
			row++
		}
	}

	return t
}
