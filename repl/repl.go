// Package repl implements the interactive read-eval-print loop: a thin
// wrapper over the assembler and VM that assembles one line at a time and
// runs it immediately, plus a handful of dot-commands for inspecting VM
// state.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/epie-vm/epie/assembler"
	"github.com/epie-vm/epie/parser"
	"github.com/epie-vm/epie/vm"
)

// REPL holds one REPL session's command history, VM, and logger.
type REPL struct {
	commandBuffer []string
	vm            *vm.VM
	logger        *slog.Logger

	in  *bufio.Reader
	out io.Writer
}

// New returns a REPL with a fresh VM, reading from in and writing to out.
func New(in io.Reader, out io.Writer, logger *slog.Logger) *REPL {
	if logger == nil {
		logger = slog.Default()
	}
	return &REPL{
		vm:     vm.New(),
		logger: logger,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run drives the session until the user issues .quit or input is
// exhausted.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out, "Welcome. Let's be productive!")
	for {
		fmt.Fprint(r.out, ">>> ")
		line, err := r.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		r.commandBuffer = append(r.commandBuffer, line)

		if done, err := r.dispatch(line); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		} else if done {
			return nil
		}
	}
}

func (r *REPL) dispatch(line string) (quit bool, err error) {
	switch line {
	case ".quit":
		fmt.Fprintln(r.out, "Farewell! Have a great day!")
		return true, nil
	case ".history":
		r.cmdHistory()
		return false, nil
	case ".program":
		r.cmdProgram()
		return false, nil
	case ".registers":
		r.cmdRegisters()
		return false, nil
	case ".clear":
		r.vm.Program = nil
		return false, nil
	case ".load_file":
		return false, r.cmdLoadFile()
	default:
		return false, r.assembleAndRunOnce(line)
	}
}

func (r *REPL) cmdHistory() {
	for _, cmd := range r.commandBuffer {
		fmt.Fprintln(r.out, cmd)
	}
}

func (r *REPL) cmdProgram() {
	fmt.Fprintln(r.out, "Listing bytes currently in the VM's program buffer:")
	for _, b := range r.vm.Program {
		fmt.Fprintf(r.out, "%d\n", b)
	}
	fmt.Fprintln(r.out, "End of Program Listing")
}

func (r *REPL) cmdRegisters() {
	fmt.Fprintln(r.out, "Listing registers and their contents:")
	for i, v := range r.vm.Registers {
		fmt.Fprintf(r.out, "$%d = %d\n", i, v)
	}
	fmt.Fprintln(r.out, "End of Register Listing")
}

func (r *REPL) cmdLoadFile() error {
	fmt.Fprint(r.out, "Please enter the path to the file you wish to load: ")
	path, err := r.in.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading filename: %w", err)
	}
	path = strings.TrimSpace(path)

	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	prog, err := parser.Parse(string(contents))
	if err != nil {
		return fmt.Errorf("unable to parse input: %w", err)
	}

	// The REPL's program buffer is raw instruction bytes, not a header-prefixed
	// image, so section headers and labels carry no meaning here: only
	// opcode lines contribute bytes.
	symbols := assembler.New().Symbols
	appended := 0
	for i := range prog.Instructions {
		if !prog.Instructions[i].IsOpcode() {
			continue
		}
		bytes, err := prog.Instructions[i].ToBytes(symbols)
		if err != nil {
			return fmt.Errorf("unable to assemble file: %w", err)
		}
		r.vm.AddBytes(bytes)
		appended++
	}
	r.logger.Info("loaded program", "path", path, "instructions", appended)
	return nil
}

// assembleAndRunOnce assembles a single line of input and executes exactly
// one instruction against the session's persistent VM state, matching the
// original REPL's line-at-a-time semantics.
func (r *REPL) assembleAndRunOnce(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	prog, err := parser.Parse(line)
	if err != nil {
		return fmt.Errorf("unable to parse input: %w", err)
	}

	symbols := assembler.New().Symbols
	for i := range prog.Instructions {
		bytes, err := prog.Instructions[i].ToBytes(symbols)
		if err != nil {
			return fmt.Errorf("unable to assemble input: %w", err)
		}
		r.vm.AddBytes(bytes)
	}

	r.vm.StepOnce()
	return nil
}
