package debugger

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// GUI is the fyne-based graphical front end for the debugger: a minimal
// register/stack viewer with step/run/reset controls.
type GUI struct {
	Debugger *Debugger
	App      fyne.App
	Window   fyne.Window

	RegisterView    *widget.TextGrid
	StackView       *widget.TextGrid
	BreakpointsView *widget.TextGrid
	ConsoleOutput   *widget.TextGrid
	StatusLabel     *widget.Label

	Toolbar *widget.Toolbar
}

// RunGUI opens the graphical debugger window for dbg and blocks until it
// is closed.
func RunGUI(dbg *Debugger) error {
	g := newGUI(dbg)
	g.Window.ShowAndRun()
	return nil
}

func newGUI(dbg *Debugger) *GUI {
	myApp := app.New()
	myWindow := myApp.NewWindow("epie debugger")

	g := &GUI{
		Debugger: dbg,
		App:      myApp,
		Window:   myWindow,
	}

	g.initializeViews()
	g.setupToolbar()
	g.buildLayout()

	myWindow.Resize(fyne.NewSize(900, 600))
	return g
}

func (g *GUI) initializeViews() {
	g.RegisterView = widget.NewTextGrid()
	g.StackView = widget.NewTextGrid()
	g.BreakpointsView = widget.NewTextGrid()
	g.ConsoleOutput = widget.NewTextGrid()
	g.StatusLabel = widget.NewLabel("ready")
	g.refreshAll()
}

func (g *GUI) buildLayout() {
	panels := container.NewGridWithColumns(3,
		container.NewVScroll(g.RegisterView),
		container.NewVScroll(g.StackView),
		container.NewVScroll(g.BreakpointsView),
	)

	content := container.NewBorder(
		g.Toolbar,
		container.NewVBox(g.StatusLabel, container.NewVScroll(g.ConsoleOutput)),
		nil, nil,
		panels,
	)

	g.Window.SetContent(content)
}

func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() { g.onStep() }),
		widget.NewToolbarAction(theme.MediaFastForwardIcon(), func() { g.onRun() }),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), func() { g.onReset() }),
	)
}

func (g *GUI) onStep() {
	if err := g.Debugger.ExecuteCommand("step"); err != nil {
		g.StatusLabel.SetText(fmt.Sprintf("error: %v", err))
	}
	g.appendConsole(g.Debugger.GetOutput())
	g.refreshAll()
}

func (g *GUI) onRun() {
	g.Debugger.Running = true
	for g.Debugger.Running {
		if shouldBreak, reason := g.Debugger.ShouldBreak(); shouldBreak {
			g.Debugger.Running = false
			g.StatusLabel.SetText(fmt.Sprintf("stopped: %s", reason))
			break
		}
		code, halted := g.Debugger.VM.StepOnce()
		if halted {
			g.Debugger.Running = false
			g.StatusLabel.SetText(fmt.Sprintf("halted with code %d", code))
			break
		}
	}
	g.refreshAll()
}

func (g *GUI) onReset() {
	g.Debugger.Breakpoints.Clear()
	g.StatusLabel.SetText("reset")
	g.refreshAll()
}

func (g *GUI) appendConsole(text string) {
	if text == "" {
		return
	}
	g.ConsoleOutput.SetText(g.ConsoleOutput.Text() + text)
}

func (g *GUI) refreshAll() {
	g.updateRegisters()
	g.updateStack()
	g.updateBreakpoints()
}

func (g *GUI) updateRegisters() {
	var lines []string
	for row := 0; row < 8; row++ {
		var cols []string
		for col := 0; col < 4; col++ {
			reg := row*4 + col
			cols = append(cols, fmt.Sprintf("$%-2d: %d", reg, g.Debugger.VM.Registers[reg]))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}
	lines = append(lines, fmt.Sprintf("PC: %d  SP: %d  BP: %d", g.Debugger.VM.PC, g.Debugger.VM.SP, g.Debugger.VM.BP))
	g.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (g *GUI) updateStack() {
	var lines []string
	stack := g.Debugger.VM.Stack
	start := g.Debugger.VM.SP - 8
	if start < 0 {
		start = 0
	}
	for i := start; i < len(stack) && i < start+16; i++ {
		marker := "  "
		if i == g.Debugger.VM.SP {
			marker = "->"
		}
		lines = append(lines, fmt.Sprintf("%s %4d: %d", marker, i, stack[i]))
	}
	g.StackView.SetText(strings.Join(lines, "\n"))
}

func (g *GUI) updateBreakpoints() {
	bps := g.Debugger.Breakpoints.All()
	if len(bps) == 0 {
		g.BreakpointsView.SetText("no breakpoints")
		return
	}
	var lines []string
	for _, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		lines = append(lines, fmt.Sprintf("%d: %s offset %d (hits %d)", bp.ID, status, bp.Offset, bp.HitCount))
	}
	g.BreakpointsView.SetText(strings.Join(lines, "\n"))
}
