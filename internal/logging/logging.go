// Package logging routes the standard logger to stderr and, when a path is
// given, to an append-mode log file as well.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Setup points the standard logger at stderr plus the file at path and
// returns a function that restores the previous output and closes the file.
// An empty path logs to stderr only.
func Setup(path string) (func() error, error) {
	return setup(log.Default(), os.Stderr, path)
}

func setup(l *log.Logger, console io.Writer, path string) (func() error, error) {
	prev := l.Writer()
	l.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if path == "" {
		l.SetOutput(console)
		return func() error { l.SetOutput(prev); return nil }, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: create dir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}

	l.SetOutput(io.MultiWriter(console, f))
	return func() error {
		l.SetOutput(prev)
		return f.Close()
	}, nil
}
