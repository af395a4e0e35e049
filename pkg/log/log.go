// Package log configures the structured logger shared by the CLI and the
// Verilog/FIRRTL emitters. It mirrors go-corset's use of a single
// package-level logrus logger (set the level once via --verbose, then log
// from wherever) rather than threading a logger through every call.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. CLI commands adjust its level;
// emitters log per-module progress to it at Debug.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)

	return l
}

// SetVerbose raises the logger to Debug level, the same switch go-corset's
// commands expose as --verbose.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
		return
	}

	Logger.SetLevel(logrus.InfoLevel)
}
