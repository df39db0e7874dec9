package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI drives dbg from stdin with a plain line-oriented command loop.
// The command-line front end does not start it: -debug opens RunTUI and
// -gui opens RunGUI.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(epie-dbg) ")

		if !scanner.Scan() {
			break
		}
		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("exiting debugger")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("error: %v\n", err)
		}
		if output := dbg.GetOutput(); output != "" {
			fmt.Print(output)
		}

		for dbg.Running {
			if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
				dbg.Running = false
				fmt.Printf("stopped: %s at pc=%d\n", reason, dbg.VM.PC)
				break
			}
			code, halted := dbg.VM.StepOnce()
			if halted {
				dbg.Running = false
				fmt.Printf("program halted with code %d\n", code)
				break
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}

// RunTUI opens the terminal debugger for dbg and blocks until the user
// quits.
func RunTUI(dbg *Debugger) error {
	return NewTUI(dbg).Run()
}
