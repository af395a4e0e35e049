package main

import (
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/atlas-hdl/atlas/pkg/ir"
)

func init() {
	dumpCmd.Flags().Bool("json", true, "dump as JSON (the only supported format today)")
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump <circuit>",
	Short: "Elaborate a built-in circuit and dump its structural summary as JSON.",
	Long:  "Elaborate a built-in circuit and dump its structural summary as JSON.\n\nAvailable circuits: " + availableCircuits(),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		circuit := buildCircuit(args[0])

		summary, err := ir.Summarize(circuit)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(summary); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}
