// Package logging builds the logrus logger shared by the CLI and UI.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to w. Debug enables debug-level output;
// otherwise only warnings and errors are printed.
func New(w io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !debug,
		FullTimestamp:    true,
	})
	log.SetLevel(logrus.WarnLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
