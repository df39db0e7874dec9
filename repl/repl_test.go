package repl

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newTestREPL(input string) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	return New(strings.NewReader(input), out, logger), out
}

func TestQuitEndsSession(t *testing.T) {
	r, out := newTestREPL(".quit\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Farewell") {
		t.Error("expected farewell message on .quit")
	}
}

func TestHistoryRecordsCommands(t *testing.T) {
	r, out := newTestREPL("load $0 #1\n.history\n.quit\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "load $0 #1") {
		t.Error(".history should list prior commands")
	}
}

func TestAssembleAndRunOnceUpdatesRegister(t *testing.T) {
	r, _ := newTestREPL("load $0 #100\n.registers\n.quit\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.vm.Registers[0] != 100 {
		t.Errorf("Registers[0] = %d, want 100", r.vm.Registers[0])
	}
}

func TestClearResetsProgram(t *testing.T) {
	r, _ := newTestREPL("load $0 #1\n.clear\n.quit\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(r.vm.Program) != 0 {
		t.Error(".clear should empty the program buffer")
	}
}

func TestUnparsableLineReportsError(t *testing.T) {
	r, out := newTestREPL("load $99 #1\n.quit\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "error:") {
		t.Error("expected an error message for an out-of-range register")
	}
}
