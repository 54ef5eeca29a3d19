package debugger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lookbusy1344/g15emu/decode"
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/proc"
)

// StepMode represents the debugger's single-step state. The teacher's
// debugger additionally tracks step-over/step-out by call depth; the
// G-15 has no call-stack abstraction for the debugger to track (a
// subroutine return is just another transfer via S=20/21), so this
// debugger only offers single-step and continue.
type StepMode int

const (
	StepNone StepMode = iota
	StepSingle
)

// Debugger drives a proc.Processor under interactive control: breakpoints
// keyed by (command line, word-time), watchpoints on named registers, and
// single-step/continue execution. Grounded on the teacher's
// debugger.Debugger, restructured around the G-15's fetch/transfer model
// in place of ARM's linear PC.
type Debugger struct {
	Proc *proc.Processor
	Drum *drum.Drum

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	Running     bool
	StepMode    StepMode
	LastCommand string

	Output strings.Builder

	stopReason string
}

// NewDebugger wraps p/d with breakpoint, watchpoint, and history tracking.
// historySize bounds the command history (config.Config.Debugger.HistorySize);
// see NewCommandHistory for the fallback when it's non-positive.
func NewDebugger(p *proc.Processor, d *drum.Drum, historySize int) *Debugger {
	dbg := &Debugger{
		Proc:        p,
		Drum:        d,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(historySize),
	}
	p.TraceHook = dbg.onFetch
	return dbg
}

// RegisterValue resolves a named register to its current value, the
// RegisterReader this debugger plugs into watchpoints and conditions.
func (d *Debugger) RegisterValue(name string) (uint32, error) {
	dr := d.Drum
	switch strings.ToUpper(name) {
	case "L":
		return uint32(dr.L), nil
	case "AR":
		return uint32(dr.AR()), nil
	case "MQ0":
		return uint32(dr.MQ(0)), nil
	case "MQ1":
		return uint32(dr.MQ(1)), nil
	case "ID0":
		return uint32(dr.ID(0)), nil
	case "ID1":
		return uint32(dr.ID(1)), nil
	case "PN0":
		return uint32(dr.PN(0)), nil
	case "PN1":
		return uint32(dr.PN(1)), nil
	default:
		return 0, fmt.Errorf("unknown register %q", name)
	}
}

// onFetch is installed as the processor's TraceHook. It runs once per
// fetched command and decides whether execution should pause, stopping
// the clock itself when it does (spec.md §4.C: Stop takes effect at the
// processor's next suspension point: this fetch's trailing WaitFor
// returns without stepping, and Run ends once the current command's
// Transfer returns).
func (d *Debugger) onFetch(loc uint8, _ decode.Command) {
	d.checkStop(loc)
}

// checkStop implements ShouldBreak's decision from the teacher repo,
// adapted to (line, word-time) breakpoints and register watchpoints.
func (d *Debugger) checkStop(loc uint8) {
	if d.StepMode == StepSingle {
		d.StepMode = StepNone
		d.stopReason = "single step"
		d.Proc.Clock.Stop()
		return
	}

	key := PackLoc(d.Proc.CD, loc)
	if bp := d.Breakpoints.GetBreakpoint(key); bp != nil && bp.Enabled {
		ok, err := evalCondition(bp.Condition, d.RegisterValue)
		if err != nil {
			d.stopReason = fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
			d.Proc.Clock.Stop()
			return
		}
		if ok {
			hit := d.Breakpoints.ProcessHit(key)
			d.stopReason = fmt.Sprintf("breakpoint %d", hit.ID)
			d.Proc.Clock.Stop()
			return
		}
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.RegisterValue); wp != nil && changed {
		d.stopReason = fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Register)
		d.Proc.Clock.Stop()
	}
}

// ExecuteCommand parses and runs one debugger command line.
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
	case "continue", "c":
		d.Running = true
		return nil
	case "step", "s":
		d.StepMode = StepSingle
		d.Running = true
		return nil
	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdBreak(append(args, "--temp"))
	case "breakpoints", "bl":
		d.cmdListBreakpoints()
		return nil
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnableDisable(args, true)
	case "disable":
		return d.cmdEnableDisable(args, false)
	case "watch", "w":
		return d.cmdWatch(args)
	case "print", "p", "regs", "info":
		d.cmdPrint()
		return nil
	case "reset":
		d.Proc.Drum.Reset()
		d.Printf("drum reset\n")
		return nil
	case "history":
		d.cmdHistory()
		return nil
	case "help", "h", "?":
		d.cmdHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// cmdBreak handles "break <line> <wordtime> [condition...] [--temp]".
func (d *Debugger) cmdBreak(args []string) error {
	temp := false
	var filtered []string
	for _, a := range args {
		if a == "--temp" {
			temp = true
			continue
		}
		filtered = append(filtered, a)
	}
	if len(filtered) < 2 {
		return fmt.Errorf("usage: break <line> <wordtime> [condition]")
	}
	line, err := strconv.Atoi(filtered[0])
	if err != nil {
		return fmt.Errorf("invalid line %q", filtered[0])
	}
	wt, err := strconv.Atoi(filtered[1])
	if err != nil {
		return fmt.Errorf("invalid word-time %q", filtered[1])
	}
	cond := strings.Join(filtered[2:], " ")
	bp := d.Breakpoints.AddBreakpoint(PackLoc(uint8(line), uint8(wt)), temp, cond)
	d.Printf("breakpoint %d at line %d, T=%d\n", bp.ID, line, wt)
	return nil
}

// cmdListBreakpoints lists every breakpoint, sorted by ID.
func (d *Debugger) cmdListBreakpoints() {
	bps := d.Breakpoints.GetAllBreakpoints()
	sort.Slice(bps, func(i, j int) bool { return bps[i].ID < bps[j].ID })
	for _, bp := range bps {
		line := bp.Address >> 8
		wt := bp.Address & 0xFF
		state := "enabled"
		if !bp.Enabled {
			state = "disabled"
		}
		d.Printf("%d: line %d T=%d %s hits=%d", bp.ID, line, wt, state, bp.HitCount)
		if bp.Temporary {
			d.Printf(" temp")
		}
		if bp.Condition != "" {
			d.Printf(" cond=%q", bp.Condition)
		}
		d.Printf("\n")
	}
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("deleted breakpoint %d\n", id)
	return nil
}

func (d *Debugger) cmdEnableDisable(args []string, enable bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: enable|disable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	if enable {
		return d.Breakpoints.EnableBreakpoint(id)
	}
	return d.Breakpoints.DisableBreakpoint(id)
}

// cmdWatch handles "watch <register>".
func (d *Debugger) cmdWatch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: watch <register>")
	}
	reg := strings.ToUpper(args[0])
	if _, err := d.RegisterValue(reg); err != nil {
		return err
	}
	wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, reg)
	_ = d.Watchpoints.InitializeWatchpoint(wp.ID, d.RegisterValue)
	d.Printf("watchpoint %d on %s\n", wp.ID, reg)
	return nil
}

func (d *Debugger) cmdPrint() {
	dr := d.Drum
	d.Printf("CD=%d L=%3d AR=%07X MQ=%07X %07X ID=%07X %07X PN=%07X %07X halted=%v\n",
		d.Proc.CD, dr.L, uint32(dr.AR()),
		uint32(dr.MQ(0)), uint32(dr.MQ(1)),
		uint32(dr.ID(0)), uint32(dr.ID(1)),
		uint32(dr.PN(0)), uint32(dr.PN(1)),
		d.Proc.Halted())
}

func (d *Debugger) cmdHelp() {
	d.Printf("commands: continue(c) step(s) break(b)/tbreak(tb) <line> <wt> [cond] breakpoints(bl) " +
		"delete(d) <id> enable|disable <id> watch(w) <reg> print(p) reset history quit\n")
}

// cmdHistory lists previously entered REPL command lines.
func (d *Debugger) cmdHistory() {
	for i, cmd := range d.History.GetAll() {
		d.Printf("%4d  %s\n", i+1, cmd)
	}
}

// GetOutput returns and clears the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...any) {
	fmt.Fprintf(&d.Output, format, args...)
}

// StopReason returns and clears the reason execution last paused, for the
// CLI loop to report.
func (d *Debugger) StopReason() string {
	r := d.stopReason
	d.stopReason = ""
	return r
}
