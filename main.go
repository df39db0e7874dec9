package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/epie-vm/epie/assembler"
	"github.com/epie-vm/epie/config"
	"github.com/epie-vm/epie/debugger"
	"github.com/epie-vm/epie/repl"
	"github.com/epie-vm/epie/vm"
)

// Version information; overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		debugMode   = flag.Bool("debug", false, "start the terminal (tcell/tview) debugger")
		guiMode     = flag.Bool("gui", false, "start the graphical (fyne) debugger")
		configPath  = flag.String("config", "", "path to a TOML config file (default: platform config dir)")
		verboseMode = flag.Bool("verbose", false, "enable verbose output")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("epie %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		return
	}

	if *showHelp {
		printHelp()
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFor(*verboseMode),
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		logger.Info("no input file given, entering REPL")
		session := repl.New(os.Stdin, os.Stdout, logger)
		if err := session.Run(); err != nil {
			logger.Error("repl exited with error", "error", err)
			os.Exit(1)
		}
		return
	}

	asmFile := flag.Arg(0)
	source, err := os.ReadFile(asmFile)
	if err != nil {
		logger.Error("input file not found", "path", asmFile, "error", err)
		os.Exit(1)
	}

	image, errs := assembler.Assemble(string(source))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "assemble error: %v\n", e)
		}
		os.Exit(1)
	}

	logger.Info("assembled program", "path", asmFile, "bytes", len(image), "heap_initial_size", cfg.Execution.HeapInitialSize)

	machine := vm.New()
	machine.Heap = make([]byte, cfg.Execution.HeapInitialSize)
	if err := machine.Load(image); err != nil {
		logger.Error("failed to load image", "error", err)
		os.Exit(1)
	}

	if *debugMode || *guiMode {
		dbg := debugger.NewDebugger(machine)
		if *guiMode {
			if err := debugger.RunGUI(dbg); err != nil {
				logger.Error("gui debugger error", "error", err)
				os.Exit(1)
			}
			return
		}
		if err := debugger.RunTUI(dbg); err != nil {
			logger.Error("tui debugger error", "error", err)
			os.Exit(1)
		}
		return
	}

	if *verboseMode {
		fmt.Println("starting execution...")
	}

	events := machine.Run()
	last := events[len(events)-1]
	logger.Info("execution finished", "kind", last.Kind.String(), "code", last.Code, "id", machine.ID)

	if last.Kind == vm.EventCrash {
		os.Exit(1)
	}
	os.Exit(int(last.Code))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func printHelp() {
	fmt.Printf(`epie %s

Usage: epie [options] <assembly-file>
       epie [options]          (no file: enter the interactive REPL)

Options:
  -help              show this help message
  -version           show version information
  -debug             start the terminal (tcell/tview) debugger
  -gui               start the graphical (fyne) debugger
  -config FILE       path to a TOML config file (default: platform config dir)
  -verbose           enable verbose/debug logging

Examples:
  epie program.asm
  epie -debug program.asm
  epie -gui program.asm
  epie
`, Version)
}
