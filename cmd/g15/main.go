// Command g15 is the emulator's CLI entrypoint: it loads a boot tape,
// wires the drum/timing/processor/I-O stack together, and runs it in
// batch mode, interactive debugger mode, a terminal control-panel mode,
// or as an HTTP telemetry server — mirroring the teacher's own
// flag-driven main.go, scoped to this core's domain.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lookbusy1344/g15emu/config"
	"github.com/lookbusy1344/g15emu/debugger"
	"github.com/lookbusy1344/g15emu/decode"
	"github.com/lookbusy1344/g15emu/device"
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/g15api"
	"github.com/lookbusy1344/g15emu/iounit"
	"github.com/lookbusy1344/g15emu/logging"
	"github.com/lookbusy1344/g15emu/panel"
	"github.com/lookbusy1344/g15emu/paneltui"
	"github.com/lookbusy1344/g15emu/proc"
	"github.com/lookbusy1344/g15emu/timing"
)

// Version information; overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	tapePath := flag.String("tape", "", "Boot/input paper-tape image path")
	tapeFormat := flag.String("tape-format", "standard", "Tape image format: pierce, standard, ascii")
	traceFlag := flag.Bool("trace", false, "Enable command trace output")
	traceFile := flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
	maxWordTimes := flag.Uint64("max-wordtimes", 0, "Maximum word-times before forced halt (0 = unbounded)")
	computeFlag := flag.String("compute", "GO", "Initial compute switch position: OFF, GO, BP")
	debugMode := flag.Bool("debug", false, "Start in interactive debugger mode")
	tuiMode := flag.Bool("tui", false, "Start the terminal control-panel UI")
	apiServer := flag.Bool("api-server", false, "Start the HTTP telemetry server")
	apiPort := flag.Int("port", 8080, "Telemetry server port (used with -api-server)")
	configPath := flag.String("config", "", "Config file path (default: platform config dir)")
	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("g15emu %s (%s)\n", Version, Commit)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	sink := logging.NewStdoutSink()

	d := drum.New()
	clk := timing.NewClock(d)
	if !cfg.Timing.WallClockThrottle {
		clk.DisableThrottle()
	}

	io := iounit.New(d, clk, sink)
	wireDevices(io, *tapePath, *tapeFormat)

	p := proc.New(d, clk, io, sink)

	pnl := panel.New()
	pnl.Compute = parseComputeSwitch(*computeFlag)
	p.ComputeSwitchBP = pnl.ComputeSwitchBP
	p.Bell = pnl.Ring

	if *tapePath != "" {
		codes, rerr := loadTapeCodes(*tapePath, *tapeFormat)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "boot tape error: %v\n", rerr)
			os.Exit(1)
		}
		if rerr := panel.Reset(d, device.NewTapeReader(codes)); rerr != nil {
			fmt.Fprintf(os.Stderr, "boot error: %v\n", rerr)
			os.Exit(1)
		}
		p.CD = 7 // line 23, where panel.Reset loaded the bootstrap block
	}

	if *traceFlag {
		path := *traceFile
		if path == "" {
			path = config.GetLogPath() + "/trace.log"
		}
		f, ferr := os.Create(path) // #nosec G304 -- user-specified trace output path
		if ferr != nil {
			fmt.Fprintf(os.Stderr, "trace file error: %v\n", ferr)
			os.Exit(1)
		}
		defer f.Close()
		p.TraceHook = func(loc uint8, cmd decode.Command) {
			fmt.Fprintf(f, "L=%3d D=%02d S=%02d C=%03d N=%03d\n", loc, cmd.D, cmd.S, cmd.C, cmd.N)
		}
	}

	if *maxWordTimes > 0 {
		go haltAfter(clk, *maxWordTimes)
	}

	switch {
	case *debugMode:
		dbg := debugger.NewDebugger(p, d, cfg.Debugger.HistorySize)
		if err := debugger.RunCLI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "debugger error: %v\n", err)
			os.Exit(1)
		}
	case *tuiMode:
		tui := paneltui.NewTUI(pnl, d, p, io)
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
			os.Exit(1)
		}
	case *apiServer:
		runWithAPIServer(d, p, io, *apiPort)
	default:
		if err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
			os.Exit(1)
		}
	}

	if p.LastError != nil {
		os.Exit(1)
	}
}

func runWithAPIServer(d *drum.Drum, p *proc.Processor, io *iounit.Unit, port int) {
	server := g15api.NewServer(d, p, io, port)

	ctx, cancel := context.WithCancel(context.Background())
	go server.PublishLoop(ctx, 100*time.Millisecond)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "api server error: %v\n", err)
		}
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- p.Run() }()

	select {
	case <-sigChan:
	case err := <-runErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

func haltAfter(clk *timing.Clock, maxWordTimes uint64) {
	limit := time.Duration(maxWordTimes) * timing.WordTime
	for clk.ETime() < limit {
		time.Sleep(time.Millisecond)
	}
	clk.Stop()
}

func wireDevices(io *iounit.Unit, tapePath, tapeFormat string) {
	stdin := bufio.NewScanner(os.Stdin)
	stdout := bufio.NewWriter(os.Stdout)
	typewriter := device.NewTypewriter(stdin, stdout)

	io.Devices[iounit.OpTypeIn] = typewriter
	io.Devices[iounit.OpTypeAR] = typewriter
	io.Devices[iounit.OpType19] = typewriter
	io.Devices[iounit.OpPunch19] = device.NewTapePunch()

	if tapePath == "" {
		return
	}
	codes, err := loadTapeCodes(tapePath, tapeFormat)
	if err != nil {
		return
	}
	reader := device.NewTapeReader(codes)
	io.Devices[iounit.OpTapeRead] = reader
	io.Devices[iounit.OpTapeReversePhase1] = reader
}

func loadTapeCodes(path, format string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- user-specified tape image path
	if err != nil {
		return nil, fmt.Errorf("opening tape image: %w", err)
	}
	defer f.Close()

	switch format {
	case "pierce":
		return device.LoadPierce(f)
	case "ascii":
		return device.LoadASCII(f)
	default:
		return device.LoadStandard(f)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func parseComputeSwitch(s string) panel.ComputeSwitch {
	switch s {
	case "BP":
		return panel.ComputeBP
	case "OFF":
		return panel.ComputeOff
	default:
		return panel.ComputeGo
	}
}

func printHelp() {
	fmt.Fprint(os.Stderr, `g15emu - Bendix G-15 core emulator

Usage: g15 [flags] [-tape boot.ptr]

Flags:
  -tape <path>         Boot/input paper-tape image
  -tape-format <fmt>   pierce, standard, ascii (default standard)
  -compute <pos>       Initial compute switch: OFF, GO, BP (default GO)
  -trace               Enable command trace
  -trace-file <path>   Trace output file
  -max-wordtimes <n>   Halt after n word-times
  -debug               Interactive CLI debugger
  -tui                 Terminal control-panel UI
  -api-server          HTTP telemetry server
  -port <n>            Telemetry server port (default 8080)
  -config <path>       Config file path
  -version             Show version
`)
}
