package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs the command-line debugger loop: read a command, execute it,
// and if the command left the debugger in "running" state, run the
// processor until a breakpoint/watchpoint stops it or it halts.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(g15-dbg) ")

		if !scanner.Scan() {
			break
		}
		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		if out := dbg.GetOutput(); out != "" {
			fmt.Print(out)
		}

		if dbg.Running {
			if err := dbg.Proc.Run(); err != nil {
				fmt.Printf("Runtime error: %v\n", err)
			}
			dbg.Running = false
			if reason := dbg.StopReason(); reason != "" {
				fmt.Printf("Stopped: %s (line %d, L=%d)\n", reason, dbg.Proc.CD, dbg.Drum.L)
			} else if dbg.Proc.Halted() {
				fmt.Println("Halted.")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}
