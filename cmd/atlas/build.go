package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlas-hdl/atlas/pkg/firrtl"
	"github.com/atlas-hdl/atlas/pkg/log"
	"github.com/atlas-hdl/atlas/pkg/verilog"
)

func init() {
	buildCmd.Flags().String("out", "", "write output to this file instead of stdout")
	buildCmd.Flags().Bool("firrtl", false, "emit the FIRRTL-like textual IR instead of Verilog")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build <circuit>",
	Short: "Elaborate a built-in circuit and emit Verilog (or FIRRTL).",
	Long:  "Elaborate a built-in circuit and emit Verilog (or FIRRTL).\n\nAvailable circuits: " + availableCircuits(),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		circuit := buildCircuit(args[0])

		out := os.Stdout

		if path := getString(cmd, "out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}

			defer f.Close()

			out = f
		}

		var err error
		if getFlag(cmd, "firrtl") {
			w := firrtl.NewWriter(out, log.Logger)
			err = firrtl.EmitCircuit(w, circuit)
		} else {
			w := verilog.NewWriter(out, log.Logger)
			err = verilog.EmitCircuit(w, circuit)
		}

		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}
