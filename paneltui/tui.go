// Package paneltui renders the control-panel contract (spec.md §6) as a
// terminal front-end: switch positions, a live register readout, and a
// bell flash, the terminal stand-in for the out-of-scope physical
// lamp-panel UI. Modeled on the teacher repo's debugger/tui.go layout.
package paneltui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/iounit"
	"github.com/lookbusy1344/g15emu/panel"
	"github.com/lookbusy1344/g15emu/proc"
)

// TUI is the terminal control panel.
type TUI struct {
	Panel *panel.Panel
	Drum  *drum.Drum
	Proc  *proc.Processor
	IO    *iounit.Unit

	App          *tview.Application
	Layout       *tview.Flex
	SwitchView   *tview.TextView
	RegisterView *tview.TextView
	StatusView   *tview.TextView
}

// NewTUI builds a TUI over the given panel and telemetry sources.
func NewTUI(p *panel.Panel, d *drum.Drum, pr *proc.Processor, u *iounit.Unit) *TUI {
	t := &TUI{Panel: p, Drum: d, Proc: pr, IO: u, App: tview.NewApplication()}

	t.SwitchView = tview.NewTextView().SetDynamicColors(true)
	t.SwitchView.SetBorder(true).SetTitle(" Switches ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.StatusView = tview.NewTextView().SetDynamicColors(true)
	t.StatusView.SetBorder(true).SetTitle(" Status ")

	t.Layout = tview.NewFlex().
		AddItem(t.SwitchView, 0, 1, false).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.StatusView, 0, 1, false)

	t.App.SetInputCapture(t.handleKey)

	go t.watchBell()

	return t
}

// Refresh repaints all three panes from current state. Call it once per
// slice from the host's run loop.
func (t *TUI) Refresh() {
	d := t.Drum
	fmt.Fprintf(t.SwitchView.Clear(), "compute: %s\nenable:  %s\npunch:   %s\n",
		computeLabel(t.Panel.Compute), enableLabel(t.Panel.Enable), punchLabel(t.Panel.Punch))

	fmt.Fprintf(t.RegisterView.Clear(), "L:  %3d\nAR: %07X\nMQ: %07X %07X\nID: %07X %07X\nPN: %07X %07X\n",
		d.L, uint32(d.AR()),
		uint32(d.MQ(0)), uint32(d.MQ(1)),
		uint32(d.ID(0)), uint32(d.ID(1)),
		uint32(d.PN(0)), uint32(d.PN(1)))

	halted := "running"
	if t.Proc.Halted() {
		halted = "halted"
	}
	fmt.Fprintf(t.StatusView.Clear(), "processor: %s\nI/O: %s (S=%d)\n", halted, t.IO.State(), t.IO.OC())
}

func computeLabel(c panel.ComputeSwitch) string {
	switch c {
	case panel.ComputeGo:
		return "GO"
	case panel.ComputeBP:
		return "BP"
	default:
		return "OFF"
	}
}

func enableLabel(e panel.EnableSwitch) string {
	if e == panel.EnableOn {
		return "ON"
	}
	return "OFF"
}

func punchLabel(p panel.PunchSwitch) string {
	switch p {
	case panel.PunchPunch:
		return "PUNCH"
	case panel.PunchRewind:
		return "REWIND"
	default:
		return "OFF"
	}
}

// handleKey cycles the three switches on c/e/u and quits on q.
func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'c':
		t.Panel.Compute = (t.Panel.Compute + 1) % 3
	case 'e':
		t.Panel.Enable = (t.Panel.Enable + 1) % 2
	case 'u':
		t.Panel.Punch = (t.Panel.Punch + 1) % 3
	case 'q':
		t.App.Stop()
		return nil
	}
	t.Refresh()
	return event
}

// watchBell flashes the status view's border when the panel's bell rings.
func (t *TUI) watchBell() {
	for range t.Panel.Bell() {
		t.App.QueueUpdateDraw(func() {
			t.StatusView.SetBorderColor(tcell.ColorYellow)
		})
	}
}

// Run starts the terminal application, blocking until the user quits.
func (t *TUI) Run() error {
	t.Refresh()
	return t.App.SetRoot(t.Layout, true).Run()
}
