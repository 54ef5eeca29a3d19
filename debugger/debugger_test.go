package debugger

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/g15emu/decode"
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/logging"
	"github.com/lookbusy1344/g15emu/proc"
	"github.com/lookbusy1344/g15emu/timing"
)

func newTestDebugger(t *testing.T) (*Debugger, *drum.Drum) {
	t.Helper()
	d := drum.New()
	clk := timing.NewClock(d)
	clk.DisableThrottle()
	p := proc.New(d, clk, nil, logging.Discard)
	return NewDebugger(p, d, 200), d
}

// encodeHalt writes a D=31/S=16 HALT command into line 0 at L=0.
func encodeHalt(d *drum.Drum) {
	cmd := decode.Command{D: 31, S: 16}
	d.L = 0
	_ = d.Write(0, decode.Encode(cmd))
}

func TestDebuggerStopsAtBreakpoint(t *testing.T) {
	dbg, d := newTestDebugger(t)
	encodeHalt(d)

	dbg.Breakpoints.AddBreakpoint(PackLoc(0, 0), false, "")

	if err := dbg.Proc.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if reason := dbg.StopReason(); reason != "breakpoint 1" {
		t.Errorf("expected breakpoint stop reason, got %q", reason)
	}
	if !dbg.Proc.Halted() {
		t.Error("expected the HALT command to have executed")
	}
}

func TestDebuggerConditionalBreakpointSkipsWhenFalse(t *testing.T) {
	dbg, d := newTestDebugger(t)
	encodeHalt(d)

	dbg.Breakpoints.AddBreakpoint(PackLoc(0, 0), false, "AR==1")

	if err := dbg.Proc.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if reason := dbg.StopReason(); reason != "" {
		t.Errorf("expected no breakpoint stop, got %q", reason)
	}
	if !dbg.Proc.Halted() {
		t.Error("expected HALT to still run to completion")
	}
}

func TestDebuggerExecuteCommandBreakAndDelete(t *testing.T) {
	dbg, _ := newTestDebugger(t)

	if err := dbg.ExecuteCommand("break 2 54"); err != nil {
		t.Fatalf("break: %v", err)
	}
	if dbg.Breakpoints.Count() != 1 {
		t.Fatalf("expected 1 breakpoint, got %d", dbg.Breakpoints.Count())
	}

	if err := dbg.ExecuteCommand("delete 1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if dbg.Breakpoints.Count() != 0 {
		t.Errorf("expected 0 breakpoints after delete, got %d", dbg.Breakpoints.Count())
	}
}

func TestDebuggerExecuteCommandWatch(t *testing.T) {
	dbg, _ := newTestDebugger(t)

	if err := dbg.ExecuteCommand("watch AR"); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if dbg.Watchpoints.Count() != 1 {
		t.Errorf("expected 1 watchpoint, got %d", dbg.Watchpoints.Count())
	}

	if err := dbg.ExecuteCommand("watch NOSUCHREG"); err == nil {
		t.Error("expected an error watching an unknown register")
	}
}

func TestDebuggerHistoryTracksCommandsAndIsPrintedByHistoryCommand(t *testing.T) {
	dbg, _ := newTestDebugger(t)

	if err := dbg.ExecuteCommand("print"); err != nil {
		t.Fatalf("print: %v", err)
	}
	if err := dbg.ExecuteCommand("watch AR"); err != nil {
		t.Fatalf("watch: %v", err)
	}
	// Immediate repeats of the same command line don't grow history.
	if err := dbg.ExecuteCommand("watch AR"); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if got := dbg.History.GetAll(); len(got) != 2 || got[0] != "print" || got[1] != "watch AR" {
		t.Errorf("expected history [print watch AR], got %v", got)
	}
	_ = dbg.GetOutput()

	if err := dbg.ExecuteCommand("history"); err != nil {
		t.Fatalf("history: %v", err)
	}
	out := dbg.GetOutput()
	if !strings.Contains(out, "print") || !strings.Contains(out, "watch AR") {
		t.Errorf("expected history output to list prior commands, got %q", out)
	}
}

func TestDebuggerListsBreakpoints(t *testing.T) {
	dbg, _ := newTestDebugger(t)

	if err := dbg.ExecuteCommand("break 2 54"); err != nil {
		t.Fatalf("break: %v", err)
	}
	if err := dbg.ExecuteCommand("tbreak 3 10 AR==0"); err != nil {
		t.Fatalf("tbreak: %v", err)
	}
	_ = dbg.GetOutput()

	if err := dbg.ExecuteCommand("breakpoints"); err != nil {
		t.Fatalf("breakpoints: %v", err)
	}
	out := dbg.GetOutput()
	if !strings.Contains(out, "line 2 T=54") || !strings.Contains(out, "line 3 T=10") {
		t.Errorf("expected both breakpoints listed, got %q", out)
	}
	if !strings.Contains(out, "temp") || !strings.Contains(out, `cond="AR==0"`) {
		t.Errorf("expected temp/cond markers in listing, got %q", out)
	}
}

func TestDebuggerStopAtBreakpointDeletesTemporaryViaProcessHit(t *testing.T) {
	dbg, d := newTestDebugger(t)
	encodeHalt(d)

	dbg.Breakpoints.AddBreakpoint(PackLoc(0, 0), true, "")

	if err := dbg.Proc.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reason := dbg.StopReason(); reason != "breakpoint 1" {
		t.Errorf("expected breakpoint stop reason, got %q", reason)
	}
	if dbg.Breakpoints.Count() != 0 {
		t.Errorf("expected temporary breakpoint removed on hit, got %d remaining", dbg.Breakpoints.Count())
	}
}

func TestCommandHistoryCapsAtConfiguredSize(t *testing.T) {
	h := NewCommandHistory(3)
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		h.Add(cmd)
	}
	if got := h.GetAll(); len(got) != 3 || got[0] != "c" || got[2] != "e" {
		t.Errorf("expected [c d e], got %v", got)
	}
	if h.Size() != 3 {
		t.Errorf("expected Size()=3, got %d", h.Size())
	}
}
