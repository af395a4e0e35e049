// Command atlas is the CLI front door to this module's demo circuits: it
// elaborates one of internal/demo's built-in circuits and drives it
// through Verilog emission, FIRRTL-like emission, or a structural
// inspector/JSON dump, the way go-corset's `go-corset` binary drives its
// own compile/inspect/debug subcommands over a compiled schema.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
