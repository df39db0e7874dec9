package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the tcell/tview terminal front end for the debugger.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView      *tview.TextView
	RegisterView    *tview.TextView
	StackView       *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds a TUI wrapping dbg.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.StackView.SetBorder(true).SetTitle(" Stack ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightTop := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 12, 0, false).
		AddItem(t.StackView, 0, 1, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 3, false).
		AddItem(t.BreakpointsView, 8, 0, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SourceView, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	if t.Debugger.Running {
		t.runUntilStop()
	}

	t.RefreshAll()
}

// runUntilStop single-steps the VM until a breakpoint or halt.
func (t *TUI) runUntilStop() {
	for t.Debugger.Running {
		if shouldBreak, reason := t.Debugger.ShouldBreak(); shouldBreak {
			t.Debugger.Running = false
			t.WriteOutput(fmt.Sprintf("stopped: %s\n", reason))
			break
		}
		code, halted := t.Debugger.VM.StepOnce()
		if halted {
			t.Debugger.Running = false
			t.WriteOutput(fmt.Sprintf("program halted with code %d\n", code))
			break
		}
	}
}

func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

func (t *TUI) RefreshAll() {
	t.updateSourceView()
	t.updateRegisterView()
	t.updateStackView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateSourceView() {
	t.SourceView.Clear()
	if len(t.Debugger.SourceMap) == 0 {
		t.SourceView.SetText("[yellow]no source map loaded[white]")
		return
	}

	pc := t.Debugger.codeOffset()
	var lines []string
	for offset := uint32(0); offset < 4096; offset += 4 {
		src, ok := t.Debugger.SourceMap[offset]
		if !ok {
			continue
		}
		marker, color := "  ", "white"
		if offset == pc {
			marker, color = "->", "yellow"
		}
		if t.Debugger.Breakpoints.At(offset) != nil {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %4d: %s[white]", color, marker, offset, src))
	}
	t.SourceView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateRegisterView() {
	t.RegisterView.Clear()
	var lines []string
	for row := 0; row < 8; row++ {
		var cols []string
		for col := 0; col < 4; col++ {
			reg := row*4 + col
			cols = append(cols, fmt.Sprintf("$%-2d: %d", reg, t.Debugger.VM.Registers[reg]))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("PC: %d  SP: %d  BP: %d", t.Debugger.VM.PC, t.Debugger.VM.SP, t.Debugger.VM.BP))
	lines = append(lines, fmt.Sprintf("Remainder: %d  Equal: %v", t.Debugger.VM.Remainder, t.Debugger.VM.EqualFlag))
	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateStackView() {
	t.StackView.Clear()
	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]SP: %d  BP: %d[white]", t.Debugger.VM.SP, t.Debugger.VM.BP))

	stack := t.Debugger.VM.Stack
	start := t.Debugger.VM.SP - 8
	if start < 0 {
		start = 0
	}
	for i := start; i < len(stack) && i < start+16; i++ {
		marker := "  "
		if i == t.Debugger.VM.SP {
			marker = "->"
		}
		lines = append(lines, fmt.Sprintf("%s %4d: %d", marker, i, stack[i]))
	}
	t.StackView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateBreakpointsView() {
	t.BreakpointsView.Clear()
	bps := t.Debugger.Breakpoints.All()
	if len(bps) == 0 {
		t.BreakpointsView.SetText("[yellow]no breakpoints[white]")
		return
	}
	var lines []string
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		lines = append(lines, fmt.Sprintf("  %d: [%s]%s[white] offset %d (hits: %d)", bp.ID, color, status, bp.Offset, bp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI's event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]epie debugger[white]\n")
	t.WriteOutput("F1 help, F5 continue, F11 step, Ctrl-C quit\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop tears down the TUI's event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
