package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

// TUI is the full-screen register/memory view of the debugger
type TUI struct {
	VM  *vm.VM
	App *tview.Application

	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	StatusView   *tview.TextView

	MemoryAddress uint32
}

// NewTUI creates the text user interface bound to a machine
func NewTUI(machine *vm.VM) *TUI {
	t := &TUI{
		VM:            machine,
		App:           tview.NewApplication(),
		MemoryAddress: machine.EntryPoint,
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.StatusView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	t.StatusView.SetBorder(true).SetTitle(" Status ")
}

func (t *TUI) buildLayout() {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.StatusView, 5, 0, false)
	layout := tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(t.MemoryView, 0, 2, true)
	t.App.SetRoot(layout, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q':
			t.App.Stop()
			return nil
		case 's':
			_ = t.VM.Step()
			t.Refresh()
			return nil
		case 'r':
			_ = t.VM.Run()
			t.Refresh()
			return nil
		}
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyPgDn:
			t.MemoryAddress += 0x100
			t.Refresh()
			return nil
		case tcell.KeyPgUp:
			t.MemoryAddress -= 0x100
			t.Refresh()
			return nil
		}
		return event
	})
}

// Refresh redraws every panel from the machine state
func (t *TUI) Refresh() {
	t.RegisterView.SetText(t.formatRegisters())
	t.MemoryView.SetText(t.formatMemory())
	t.StatusView.SetText(t.VM.DumpState())
}

// Show enters the tview event loop
func (t *TUI) Show() error {
	t.Refresh()
	return t.App.Run()
}

func (t *TUI) formatRegisters() string {
	c := t.VM.CPU
	var b strings.Builder
	for r := 0; r < 16; r++ {
		value := c.Reg(r)
		if r == vm.PC {
			value = c.PC
		}
		fmt.Fprintf(&b, "[yellow]r%-2d[-] 0x%08X\n", r, value)
	}
	fmt.Fprintf(&b, "\n[yellow]CPSR[-] 0x%08X %s\n", c.CPSR.ToUint32(), c.CPSR.Mode)
	return b.String()
}

func (t *TUI) formatMemory() string {
	var b strings.Builder
	data, err := t.VM.Memory.GetBytes(t.MemoryAddress, 0x100)
	if err != nil {
		return err.Error()
	}
	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(&b, "[yellow]0x%08X[-]", t.MemoryAddress+uint32(i))
		for _, by := range data[i : i+16] {
			fmt.Fprintf(&b, " %02X", by)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
