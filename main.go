package main

import (
	"fmt"
	"os"

	"github.com/pborman/getopt/v2"

	"github.com/lookbusy1344/armv6-emulator/config"
	"github.com/lookbusy1344/armv6-emulator/debugger"
	"github.com/lookbusy1344/armv6-emulator/loader"
	"github.com/lookbusy1344/armv6-emulator/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
)

func main() {
	os.Exit(run())
}

func run() int {
	showVersion := getopt.BoolLong("version", 'V', "Show version information")
	showHelp := getopt.BoolLong("help", 'h', "Show help information")
	configPath := getopt.StringLong("config", 'c', "", "Configuration file (TOML)")
	loadAddr := getopt.StringLong("load", 'l', "0x8000", "Image load address (hex or decimal)")
	entryAddr := getopt.StringLong("entry", 'e', "", "Entry point (defaults to the load address)")
	maxCycles := getopt.Uint64Long("max-cycles", 'm', 0, "Maximum instructions before halt")
	traceFlag := getopt.BoolLong("trace", 't', "Write an execution trace to stderr")
	monitorFlag := getopt.BoolLong("monitor", 'd', "Start the interactive monitor")
	tuiFlag := getopt.BoolLong("tui", 'T', "Start the full-screen debugger")
	getopt.SetParameters("image.bin")
	getopt.Parse()

	if *showVersion {
		fmt.Printf("armv6-emulator %s\n", Version)
		return 0
	}
	if *showHelp {
		getopt.Usage()
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		return 2
	}

	machine := vm.NewVM()
	applyConfig(machine, cfg)
	if *maxCycles != 0 {
		machine.MaxCycles = *maxCycles
	}
	if *traceFlag || cfg.Execution.EnableTrace {
		machine.TraceWriter = os.Stderr
	}

	base, err := loader.ParseAddress(*loadAddr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	image, err := loader.LoadFile(args[0], base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *entryAddr != "" {
		entry, err := loader.ParseAddress(*entryAddr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		image.EntryPoint = entry
	}
	if err := image.LoadIntoVM(machine); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case *tuiFlag:
		tui := debugger.NewTUI(machine)
		if err := tui.Show(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case *monitorFlag:
		mon := debugger.NewMonitor(machine, os.Stdout)
		mon.BytesPerLine = cfg.Monitor.BytesPerLine
		if err := mon.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	default:
		if err := machine.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, machine.DumpState())
			return 1
		}
		fmt.Println(machine.DumpState())
	}
	return 0
}

// applyConfig wires the configured collaborators into the machine
func applyConfig(machine *vm.VM, cfg *config.Config) {
	machine.MaxCycles = cfg.Execution.MaxCycles

	cp15 := vm.NewSystemCoprocessor()
	cp15.UBit = cfg.Processor.AlignmentUBit
	cp15.EEBit = cfg.Processor.BigEndianEE
	cp15.HighVectors = cfg.Processor.HighVectors
	machine.CPU.CP15 = cp15

	monitor := vm.NewLocalMonitor()
	monitor.ProcessorID = cfg.Processor.ProcessorID
	if cfg.Processor.SharedMemory {
		monitor.SharedFunc = func(uint32) bool { return true }
	}
	machine.CPU.Monitor = monitor

	switch cfg.Unpredictable.Policy {
	case "ignore":
		machine.CPU.OnUnpredictable = nil
	case "halt":
		machine.CPU.OnUnpredictable = func(ev vm.UnpredictableEvent) {
			fmt.Fprintf(os.Stderr, "UNPREDICTABLE %s at 0x%08X: %s\n", ev.Mnemonic, ev.PC, ev.Reason)
			machine.State = vm.StateHalted
		}
	default:
		machine.CPU.OnUnpredictable = func(ev vm.UnpredictableEvent) {
			fmt.Fprintf(os.Stderr, "UNPREDICTABLE %s at 0x%08X: %s\n", ev.Mnemonic, ev.PC, ev.Reason)
		}
	}
}
