package debugger

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/lookbusy1344/armv6-emulator/loader"
	"github.com/lookbusy1344/armv6-emulator/vm"
)

// Monitor is the interactive command console: step, run, inspect
// registers and memory, manage breakpoints
type Monitor struct {
	VM           *vm.VM
	Breakpoints  *BreakpointManager
	Output       io.Writer
	BytesPerLine int

	lastMemoryAddress uint32
}

// NewMonitor creates a monitor bound to a machine
func NewMonitor(machine *vm.VM, output io.Writer) *Monitor {
	return &Monitor{
		VM:           machine,
		Breakpoints:  NewBreakpointManager(),
		Output:       output,
		BytesPerLine: 16,
	}
}

// Run drives the interactive command loop until quit or EOF
func (m *Monitor) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	commands := []string{
		"step", "run", "regs", "mem",
		"break", "tbreak", "enable", "disable", "delete",
		"reset", "help", "quit",
	}
	line.SetCompleter(func(prefix string) []string {
		var matches []string
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, prefix) {
				matches = append(matches, cmd)
			}
		}
		return matches
	})

	fmt.Fprintln(m.Output, "ARMv6 monitor. Type 'help' for commands.")
	for {
		input, err := line.Prompt("> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if quit := m.Dispatch(input); quit {
			return nil
		}
	}
}

// Dispatch runs one command line, returning true when the session should end
func (m *Monitor) Dispatch(input string) bool {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "quit", "q", "exit":
		return true
	case "help", "h", "?":
		m.printHelp()
	case "step", "s":
		m.cmdStep(args)
	case "run", "r", "go":
		m.cmdRun()
	case "regs", "reg":
		m.cmdRegisters()
	case "mem", "m", "x":
		m.cmdMemory(args)
	case "break", "b":
		m.cmdBreak(args, false)
	case "tbreak":
		m.cmdBreak(args, true)
	case "enable":
		m.cmdSetEnabled(args, true)
	case "disable":
		m.cmdSetEnabled(args, false)
	case "delete", "d":
		m.cmdDelete(args)
	case "reset":
		m.VM.Reset()
		fmt.Fprintln(m.Output, "processor reset")
	default:
		fmt.Fprintf(m.Output, "unknown command %q, try 'help'\n", cmd)
	}
	return false
}

func (m *Monitor) printHelp() {
	fmt.Fprint(m.Output, `Commands:
  step [n]              execute n instructions (default 1)
  run                   run until halt, error or breakpoint
  regs                  show registers and status flags
  mem <addr> [n]        dump n bytes of memory (default 64)
  break [addr [cond]]   list breakpoints, or set one (cond: "r0 == 0x10")
  tbreak <addr> [cond]  set a temporary breakpoint (removed after one hit)
  enable <id>           re-arm a breakpoint
  disable <id>          keep a breakpoint but stop it firing
  delete <addr>         remove a breakpoint
  reset                 reset the processor and memory
  quit                  leave the monitor
`)
}

func (m *Monitor) cmdStep(args []string) {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(m.Output, "invalid step count %q\n", args[0])
			return
		}
		count = n
	}
	for i := 0; i < count; i++ {
		if err := m.VM.Step(); err != nil {
			fmt.Fprintf(m.Output, "stopped: %v\n", err)
			return
		}
	}
	fmt.Fprintln(m.Output, m.VM.DumpState())
}

// cmdRun resumes execution until a breakpoint fires, an error surfaces or
// the cycle limit is reached. The first instruction always executes so a
// session parked on a breakpoint can continue past it.
func (m *Monitor) cmdRun() {
	m.VM.State = vm.StateRunning
	for first := true; ; first = false {
		if !first {
			if bp := m.Breakpoints.Hit(m.VM); bp != nil {
				m.VM.State = vm.StateBreakpoint
				fmt.Fprintf(m.Output, "breakpoint %s\n", bp)
				break
			}
		}
		if err := m.VM.Step(); err != nil {
			fmt.Fprintf(m.Output, "stopped: %v\n", err)
			break
		}
		if m.VM.MaxCycles > 0 && m.VM.CPU.Cycles >= m.VM.MaxCycles {
			m.VM.State = vm.StateHalted
			fmt.Fprintf(m.Output, "stopped: maximum cycles exceeded (%d)\n", m.VM.MaxCycles)
			break
		}
	}
	fmt.Fprintln(m.Output, m.VM.DumpState())
}

func (m *Monitor) cmdRegisters() {
	c := m.VM.CPU
	for r := 0; r < 16; r += 4 {
		for i := r; i < r+4; i++ {
			value := c.Reg(i)
			if i == vm.PC {
				value = c.PC
			}
			fmt.Fprintf(m.Output, "r%-2d 0x%08X   ", i, value)
		}
		fmt.Fprintln(m.Output)
	}
	fmt.Fprintln(m.Output, m.VM.DumpState())
}

func (m *Monitor) cmdMemory(args []string) {
	address := m.lastMemoryAddress
	length := uint32(64)
	if len(args) > 0 {
		a, err := loader.ParseAddress(args[0])
		if err != nil {
			fmt.Fprintln(m.Output, err)
			return
		}
		address = a
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			fmt.Fprintf(m.Output, "invalid length %q\n", args[1])
			return
		}
		length = uint32(n)
	}
	data, err := m.VM.Memory.GetBytes(address, length)
	if err != nil {
		fmt.Fprintln(m.Output, err)
		return
	}
	for i := 0; i < len(data); i += m.BytesPerLine {
		end := i + m.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(m.Output, "0x%08X:", address+uint32(i))
		for _, b := range data[i:end] {
			fmt.Fprintf(m.Output, " %02X", b)
		}
		fmt.Fprintln(m.Output)
	}
	m.lastMemoryAddress = address + length
}

// cmdBreak lists breakpoints or sets one; anything after the address is
// the condition expression ("break 0x8010 r0 == 0x10")
func (m *Monitor) cmdBreak(args []string, temporary bool) {
	if len(args) == 0 {
		bps := m.Breakpoints.GetAllBreakpoints()
		if len(bps) == 0 {
			fmt.Fprintln(m.Output, "no breakpoints")
			return
		}
		for _, bp := range bps {
			fmt.Fprintf(m.Output, "breakpoint %s\n", bp)
		}
		return
	}
	addr, err := loader.ParseAddress(args[0])
	if err != nil {
		fmt.Fprintln(m.Output, err)
		return
	}
	condition := strings.TrimPrefix(strings.Join(args[1:], " "), "if ")
	if condition != "" {
		// reject a malformed condition now rather than at hit time
		if _, err := EvaluateCondition(m.VM, condition); err != nil {
			fmt.Fprintln(m.Output, err)
			return
		}
	}
	bp := m.Breakpoints.AddBreakpoint(addr, temporary, condition)
	fmt.Fprintf(m.Output, "breakpoint %s set\n", bp)
}

func (m *Monitor) cmdSetEnabled(args []string, enabled bool) {
	if len(args) == 0 {
		fmt.Fprintln(m.Output, "usage: enable|disable <id>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(m.Output, "invalid breakpoint id %q\n", args[0])
		return
	}
	if enabled {
		err = m.Breakpoints.EnableBreakpoint(id)
	} else {
		err = m.Breakpoints.DisableBreakpoint(id)
	}
	if err != nil {
		fmt.Fprintln(m.Output, err)
	}
}

func (m *Monitor) cmdDelete(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(m.Output, "usage: delete <addr>")
		return
	}
	addr, err := loader.ParseAddress(args[0])
	if err != nil {
		fmt.Fprintln(m.Output, err)
		return
	}
	if err := m.Breakpoints.DeleteBreakpointAt(addr); err != nil {
		fmt.Fprintln(m.Output, err)
		return
	}
	fmt.Fprintf(m.Output, "breakpoint removed at 0x%08X\n", addr)
}
