package testutil

import (
	"io"

	"github.com/johnrirwin/newsdesk/internal/logging"
)

// NullLogger returns a logger that discards all output
func NullLogger() *logging.Logger {
	return logging.NewWithOptions(logging.Options{Level: logging.LevelError, Output: io.Discard})
}
