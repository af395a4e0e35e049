package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlas-hdl/atlas/pkg/ir"
	"github.com/atlas-hdl/atlas/pkg/util/termio"
)

func init() {
	inspectCmd.Flags().Bool("color", false, "force ANSI colour on, even when stdout is not a terminal")
	inspectCmd.Flags().Bool("sort-by-width", false, "sort rows by descending signal width instead of module/path order")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <circuit>",
	Short: "Elaborate a built-in circuit and print its module/signal structure as a table.",
	Long:  "Elaborate a built-in circuit and print its module/signal structure as a table.\n\nAvailable circuits: " + availableCircuits(),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		circuit := buildCircuit(args[0])

		summary, err := ir.Summarize(circuit)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		table := ir.Table(summary)

		width, isTTY := termio.TerminalWidth()
		if isTTY {
			// Bound each of the six columns to a sixth of the terminal's
			// width; the " | " separators Print adds are not counted.
			table.SetMaxWidths(width / 6)
		}

		sorter := termio.NewTableSorter().SortColumn(0).SortColumn(1)
		if getFlag(cmd, "sort-by-width") {
			sorter = termio.NewTableSorter().SortNumericalColumn(3).Invert()
		}

		table.Sort(1, sorter)

		table.Print(isTTY || getFlag(cmd, "color"))
	},
}
