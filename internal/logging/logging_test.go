package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesConsoleAndFile(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer
	l := log.New(&bytes.Buffer{}, "", 0)
	path := filepath.Join(t.TempDir(), "logs", "energyetl.log")

	restore, err := setup(l, &console, path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	l.Printf("offers: parsed=%d", 3)
	if err := restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "offers: parsed=3") {
		t.Fatalf("log file = %q", b)
	}
	if !strings.Contains(console.String(), "offers: parsed=3") {
		t.Fatalf("console = %q", console.String())
	}
}

func TestSetupAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte("earlier\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := log.New(&bytes.Buffer{}, "", 0)
	restore, err := setup(l, &bytes.Buffer{}, path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	l.Print("later")
	_ = restore()

	b, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(b), "earlier\n") || !strings.Contains(string(b), "later") {
		t.Fatalf("log file = %q", b)
	}
}

func TestSetupConsoleOnly(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer
	l := log.New(&bytes.Buffer{}, "", 0)
	restore, err := setup(l, &console, "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	l.Print("hello")
	_ = restore()
	if !strings.Contains(console.String(), "hello") {
		t.Fatalf("console = %q", console.String())
	}
}
