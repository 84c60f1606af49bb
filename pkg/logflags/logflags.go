package logflags

import (
	"io"
	"os"
)

const DefaultLogDesc = ""

var (
	scatter bool
	logOut  io.Writer = os.Stderr
)

// Logger is the subset of zap's sugared logger the rest of the tool needs.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Setup enables debug logging and optionally redirects log output to the
// file at dest. Call once, before any logger is built.
func Setup(debug bool, dest string) error {
	scatter = debug
	if dest != "" {
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return err
		}
		logOut = f
	}
	return nil
}
