// Package debugger wraps a *vm.VM with breakpoints, command history, and
// the two front ends (tui.go's tcell/tview terminal UI and gui.go's fyne
// graphical window) that drive it interactively.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/epie-vm/epie/vm"
)

// Debugger holds the state shared by both front ends: the VM itself, its
// breakpoints, and a scrollback of commands.
type Debugger struct {
	VM *vm.VM

	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running bool

	// SourceMap optionally maps a code offset to the assembly line that
	// produced it, for display in the source panel.
	SourceMap map[uint32]string

	LastCommand string

	Output strings.Builder
}

// NewDebugger wraps machine for interactive stepping.
func NewDebugger(machine *vm.VM) *Debugger {
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
		SourceMap:   make(map[uint32]string),
	}
}

// LoadSourceMap installs a code-offset-to-source-line mapping for the TUI's
// source panel.
func (d *Debugger) LoadSourceMap(m map[uint32]string) {
	d.SourceMap = m
}

// codeOffset returns the VM's program counter as an offset from the start
// of the code section, for breakpoint comparison and display. It reports 0
// before the VM has been positioned into the code section (PC still inside
// the header or read-only data).
func (d *Debugger) codeOffset() uint32 {
	offset, err := vm.SafeIntToUint32(d.VM.PC - vm.PayloadStart - len(d.VM.ROData))
	if err != nil {
		return 0
	}
	return offset
}

// ExecuteCommand parses and runs a single debugger command line.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}
	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r", "continue", "c":
		d.Running = true
		return nil
	case "step", "s":
		return d.cmdStep()
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdToggle(args, true)
	case "disable":
		return d.cmdToggle(args, false)
	case "print", "p", "registers", "regs":
		return d.cmdPrintRegisters(args)
	case "info", "i":
		d.cmdInfo()
		return nil
	case "reset":
		d.Running = false
		d.VM.PC = vm.PayloadStart + len(d.VM.ROData)
		return nil
	case "help", "h", "?":
		d.cmdHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (d *Debugger) cmdStep() error {
	if len(d.VM.Program) == 0 {
		return fmt.Errorf("no program loaded")
	}
	if d.VM.PC == 0 {
		d.VM.PC = vm.PayloadStart + len(d.VM.ROData)
	}
	code, halted := d.VM.StepOnce()
	if halted {
		d.Running = false
		d.Printf("program halted with code %d\n", code)
	}
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <offset>")
	}
	offset, err := parseOffset(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.Add(offset, false)
	d.Printf("breakpoint %d at offset %d\n", bp.ID, bp.Offset)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.Delete(id)
}

func (d *Debugger) cmdToggle(args []string, enable bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: enable|disable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if enable {
		return d.Breakpoints.Enable(id)
	}
	return d.Breakpoints.Disable(id)
}

// cmdPrintRegisters lists every register, or with "-b <n>" prints register
// n's two's-complement bit pattern (the original's print_i32_register).
func (d *Debugger) cmdPrintRegisters(args []string) error {
	if len(args) == 2 && args[0] == "-b" {
		reg, err := strconv.Atoi(args[1])
		if err != nil || reg < 0 || reg >= len(d.VM.Registers) {
			return fmt.Errorf("invalid register: %s", args[1])
		}
		d.Printf("$%d = %032b\n", reg, uint32(d.VM.Registers[reg]))
		return nil
	}
	for i, v := range d.VM.Registers {
		d.Printf("$%d = %d\n", i, v)
	}
	return nil
}

func (d *Debugger) cmdInfo() {
	d.Printf("pc=%d sp=%d bp=%d remainder=%d equal=%v\n", d.VM.PC, d.VM.SP, d.VM.BP, d.VM.Remainder, d.VM.EqualFlag)
	d.Printf("breakpoints: %d\n", d.Breakpoints.Count())
}

func (d *Debugger) cmdHelp() {
	d.Println("commands: run|r, step|s, break|b <offset>, delete|d <id>, enable <id>, disable <id>, print|p [-b <reg>], info|i, reset, help")
}

func parseOffset(s string) (uint32, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	n, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid offset: %s", s)
	}
	return uint32(n), nil
}

// ShouldBreak reports whether execution should pause before the next
// instruction, and why.
func (d *Debugger) ShouldBreak() (bool, string) {
	offset := d.codeOffset()
	if bp := d.Breakpoints.At(offset); bp != nil && bp.Enabled {
		hit := d.Breakpoints.ProcessHit(offset)
		return true, fmt.Sprintf("breakpoint %d", hit.ID)
	}
	return false, ""
}

// GetOutput returns and clears the buffered output produced by the last
// ExecuteCommand call.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

// Printf writes formatted output to the debugger's output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// Println writes a line to the debugger's output buffer.
func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}
