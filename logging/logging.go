// Package logging builds the logrus logger shared by the CLI and the
// components that report progress.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level maps a configured level name to a logrus level. "silent" only lets
// panics through; unknown names fall back to info.
func Level(name string) logrus.Level {
	if name == "silent" {
		return logrus.PanicLevel
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// New returns a text logger writing to stderr.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput is New writing to w.
func NewWithOutput(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(Level(level))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	return logger
}
