package vm

// MMU is the memory port consumed by the instruction transformers.
// Addresses are virtual; alignment policy is applied by the core per the
// CP15 U-bit rules, not by the implementation behind this interface.
type MMU interface {
	ReadByte(address uint32) (uint8, error)
	ReadHalf(address uint32) (uint16, error)
	ReadWord(address uint32) (uint32, error)
	WriteByte(address uint32, value uint8) error
	WriteHalf(address uint32, value uint16) error
	WriteWord(address uint32, value uint32) error
}

// SystemControl is the narrow view of the CP15 configuration the core needs
type SystemControl interface {
	// Reg1UBit reports whether hardware alignment checking is enabled.
	// When false, unaligned word loads rotate and unaligned halfword
	// accesses are UNPREDICTABLE.
	Reg1UBit() bool
	// Reg1EEBit is the CPSR.E value installed on exception entry
	Reg1EEBit() bool
	// HighVectorsConfigured reports whether the exception vector base is
	// 0xFFFF0000 instead of 0x00000000
	HighVectorsConfigured() bool
	// PSRWithEBit applies a SETEND-specified endianness to a status register
	PSRWithEBit(psr PSR, bigEndian bool) PSR
}

// Jazelle is the Jazelle-extension collaborator consulted by BXJ
type Jazelle interface {
	JEBit() bool
	AcceptsOpcodeAtJPC() bool
	CVBit() bool
	ImplementationDefinedCondition() bool
	SubarchitectureDefinedValue() uint32
	StartOpcodeExecutionAt(jpc uint32)
}

// DebugHardware lets external debug logic claim BKPT before the core takes
// the prefetch-abort entry
type DebugHardware interface {
	NotOverriddenByDebugHardware() bool
}

// UnpredictableEvent describes an operand or state combination the
// architecture labels UNPREDICTABLE
type UnpredictableEvent struct {
	PC       uint32
	Mnemonic string
	Reason   string
}

// UnpredictableHandler receives UNPREDICTABLE events. The core treats every
// invocation as a permitted no-op and continues execution; the handler may
// log, count, halt the driver, or panic as the embedder prefers.
type UnpredictableHandler func(UnpredictableEvent)

// Register file layout: 30 banked physical registers plus the PC.
// r0-r7 and the usr r8-r14 occupy slots 0-14; the FIQ bank r8-r14 follows,
// then the r13/r14 pairs of irq, svc, abt and und.
const (
	numPhysRegs = 30
	fiqBankBase = 15 // fiq r8..r14 -> slots 15..21
	irqBankBase = 22 // irq r13,r14 -> slots 22,23
	svcBankBase = 24
	abtBankBase = 26
	undBankBase = 28
)

// Register aliases for convenience
const (
	R0  = 0
	R1  = 1
	R2  = 2
	R3  = 3
	R4  = 4
	R5  = 5
	R6  = 6
	R7  = 7
	R8  = 8
	R9  = 9
	R10 = 10
	R11 = 11
	R12 = 12
	SP  = 13 // Stack Pointer
	LR  = 14 // Link Register
	PC  = 15 // Program Counter
)

// CPU represents the ARMv6 processor context: the banked register file,
// status registers, and the external collaborators every transformer
// reaches memory and coprocessors through
type CPU struct {
	regs [numPhysRegs]uint32

	// PC holds the address of the instruction currently executing.
	// Reads of r15 through Reg observe PC+8 per the architectural
	// pipeline offset.
	PC uint32

	CPSR PSR
	spsr [5]PSR // fiq, irq, svc, abt, und

	Memory  MMU
	Coprocs [16]Coprocessor
	CP15    SystemControl
	Jazelle Jazelle
	Monitor ExclusiveMonitor
	Debug   DebugHardware

	// OnUnpredictable receives UNPREDICTABLE events; nil events are counted only
	OnUnpredictable    UnpredictableHandler
	UnpredictableCount uint64

	// Cycle counter for statistics
	Cycles uint64

	branchTaken bool
}

// NewCPU creates a processor in the architectural reset state: Supervisor
// mode, ARM state, IRQ and FIQ masked
func NewCPU(memory MMU) *CPU {
	c := &CPU{
		Memory:  memory,
		CP15:    NewSystemCoprocessor(),
		Jazelle: nullJazelle{},
		Monitor: NewLocalMonitor(),
		Debug:   nullDebug{},
	}
	c.Reset()
	return c
}

// Reset returns the processor to the reset state. Memory and collaborator
// state are untouched.
func (c *CPU) Reset() {
	for i := range c.regs {
		c.regs[i] = 0
	}
	c.PC = 0
	c.CPSR = PSR{Mode: ModeSupervisor, I: true, F: true}
	for i := range c.spsr {
		c.spsr[i] = PSR{}
	}
	c.Cycles = 0
	c.branchTaken = false
}

// bankIndex maps (mode, register) to a physical register slot
func bankIndex(mode Mode, r int) int {
	switch {
	case r < 8:
		return r
	case r < 13:
		if mode == ModeFIQ {
			return fiqBankBase + (r - 8)
		}
		return r
	default: // r13, r14
		switch mode {
		case ModeFIQ:
			return fiqBankBase + (r - 8)
		case ModeIRQ:
			return irqBankBase + (r - 13)
		case ModeSupervisor:
			return svcBankBase + (r - 13)
		case ModeAbort:
			return abtBankBase + (r - 13)
		case ModeUndefined:
			return undBankBase + (r - 13)
		default: // usr, sys
			return r
		}
	}
}

// spsrIndex maps an exception mode to its SPSR slot, or -1
func spsrIndex(mode Mode) int {
	switch mode {
	case ModeFIQ:
		return 0
	case ModeIRQ:
		return 1
	case ModeSupervisor:
		return 2
	case ModeAbort:
		return 3
	case ModeUndefined:
		return 4
	}
	return -1
}

// Reg reads a register in the current mode. Reading r15 observes the
// address of the current instruction plus 8.
func (c *CPU) Reg(r int) uint32 {
	return c.RegMode(c.CPSR.Mode, r)
}

// RegMode reads a register against an explicit mode's bank view
func (c *CPU) RegMode(mode Mode, r int) uint32 {
	if r == PC {
		return c.PC + 8
	}
	return c.regs[bankIndex(mode, r)]
}

// SetReg writes a register in the current mode. Writes to r15 follow the
// raw PC-write semantics (no Thumb-state change).
func (c *CPU) SetReg(r int, value uint32) {
	c.SetRegMode(c.CPSR.Mode, r, value)
}

// SetRegMode writes a register against an explicit mode's bank view
func (c *CPU) SetRegMode(mode Mode, r int, value uint32) {
	if r == PC {
		c.SetPCRaw(value)
		return
	}
	c.regs[bankIndex(mode, r)] = value
}

// SetPCRaw writes r15 without touching CPSR.T. The next fetch happens at
// the written value; the driver must not apply the sequential advance.
func (c *CPU) SetPCRaw(value uint32) {
	c.PC = value
	c.branchTaken = true
}

// SetPCInterworking writes r15 with the Thumb-interworking semantics:
// CPSR.T is loaded from bit 0 and the PC from the remaining bits.
// Only the documented interworking instructions (BX, BLX, LDR-to-PC,
// LDM-with-PC) use this port; ordinary data-processing PC writes go
// through SetPCRaw.
func (c *CPU) SetPCInterworking(value uint32) {
	c.CPSR.T = value&1 != 0
	c.SetPCRaw(value &^ 1)
}

// ThisInstr returns the address of the instruction currently executing
func (c *CPU) ThisInstr() uint32 {
	return c.PC
}

// NextInstr returns the address of the sequentially next instruction
func (c *CPU) NextInstr() uint32 {
	return c.PC + 4
}

// TakeBranch consumes and returns whether the last transformer wrote r15
func (c *CPU) TakeBranch() bool {
	taken := c.branchTaken
	c.branchTaken = false
	return taken
}

// ConditionPassed evaluates a condition code against the CPSR flags
func (c *CPU) ConditionPassed(cond ConditionCode) bool {
	return c.CPSR.EvaluateCondition(cond)
}

// CurrentModeHasSPSR reports whether the current mode banks a saved PSR
func (c *CPU) CurrentModeHasSPSR() bool {
	return c.CPSR.Mode.HasSPSR()
}

// InAPrivilegedMode reports whether the current mode is privileged
func (c *CPU) InAPrivilegedMode() bool {
	return c.CPSR.Mode.Privileged()
}

// SPSR returns the saved PSR of the current mode. The caller must check
// CurrentModeHasSPSR first; in usr/sys mode a zero PSR is returned.
func (c *CPU) SPSR() PSR {
	return c.SPSROf(c.CPSR.Mode)
}

// SPSROf returns the saved PSR banked for an exception mode
func (c *CPU) SPSROf(mode Mode) PSR {
	if i := spsrIndex(mode); i >= 0 {
		return c.spsr[i]
	}
	return PSR{}
}

// SetSPSR writes the saved PSR of the current mode; a write in usr/sys
// mode is discarded
func (c *CPU) SetSPSR(psr PSR) {
	c.SetSPSROf(c.CPSR.Mode, psr)
}

// SetSPSROf writes the saved PSR banked for an exception mode
func (c *CPU) SetSPSROf(mode Mode, psr PSR) {
	if i := spsrIndex(mode); i >= 0 {
		c.spsr[i] = psr
	}
}

// Coproc returns the coprocessor registered for cp_num, or nil
func (c *CPU) Coproc(cpNum int) Coprocessor {
	if cpNum < 0 || cpNum >= len(c.Coprocs) {
		return nil
	}
	return c.Coprocs[cpNum]
}

// unpredictable records an UNPREDICTABLE event and forwards it to the
// configured handler. The caller returns without further state mutation.
func (c *CPU) unpredictable(mnemonic, reason string) {
	c.UnpredictableCount++
	if c.OnUnpredictable != nil {
		c.OnUnpredictable(UnpredictableEvent{PC: c.PC, Mnemonic: mnemonic, Reason: reason})
	}
}

// IncrementCycles increments the cycle counter
func (c *CPU) IncrementCycles(cycles uint64) {
	c.Cycles += cycles
}

// nullJazelle is the default Jazelle collaborator: the extension is absent,
// so BXJ degrades to BX
type nullJazelle struct{}

func (nullJazelle) JEBit() bool                          { return false }
func (nullJazelle) AcceptsOpcodeAtJPC() bool             { return false }
func (nullJazelle) CVBit() bool                          { return false }
func (nullJazelle) ImplementationDefinedCondition() bool { return false }
func (nullJazelle) SubarchitectureDefinedValue() uint32  { return 0 }
func (nullJazelle) StartOpcodeExecutionAt(uint32)        {}

// nullDebug never claims BKPT
type nullDebug struct{}

func (nullDebug) NotOverriddenByDebugHardware() bool { return true }
