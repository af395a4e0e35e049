package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atlas-hdl/atlas/internal/demo"
	"github.com/atlas-hdl/atlas/pkg/elaborate"
	"github.com/atlas-hdl/atlas/pkg/log"
)

// rootCmd is the base command, grounded on go-corset's pkg/cmd.rootCmd:
// a bare cobra.Command carrying only persistent flags, with every real
// subcommand registered in its own file's init().
var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "An embedded hardware-description DSL and structural synthesizer.",
	Long: "atlas elaborates circuits described against pkg/hdl into a typed " +
		"structural IR, then lowers that IR to synthesizable Verilog (or a " +
		"FIRRTL-like textual IR).",
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	cobra.OnInitialize(func() {
		log.SetVerbose(getFlag(rootCmd, "verbose"))
	})
}

// getFlag mirrors go-corset's cmd.GetFlag: fetch an expected flag or exit
// with a diagnostic, since a missing/mistyped flag here is a programming
// error in this binary, not a user-input error to recover from.
func getFlag(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

func getString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

// buildCircuit resolves a demo name from the registry and elaborates it,
// printing a diagnostic and exiting on failure rather than returning an
// error up through cobra (matching go-corset's getSchemaStack, which also
// os.Exit()s on a bad command-line argument instead of propagating one).
func buildCircuit(name string) *elaborate.Circuit {
	builder, ok := demo.Registry[name]
	if !ok {
		fmt.Printf("unknown circuit %q (available: %v)\n", name, demo.Names())
		os.Exit(1)
	}

	circuit, err := builder()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return circuit
}

// availableCircuits renders the registry's names, in the fixed display
// order demo.Names() defines, for a subcommand's Long help text.
func availableCircuits() string {
	return strings.Join(demo.Names(), ", ")
}
