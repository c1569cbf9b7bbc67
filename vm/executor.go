package vm

import (
	"fmt"
	"io"
)

// ExecutionState represents the current state of execution
type ExecutionState int

const (
	StateRunning ExecutionState = iota
	StateHalted
	StateBreakpoint
	StateError
)

// Default execution limits
const (
	DefaultMaxCycles = 1000000
)

// VM drives the processor: fetch, decode, operand computation and dispatch
// into the semantic transformers, one architectural instruction per step
type VM struct {
	CPU    *CPU
	Memory *Memory
	State  ExecutionState

	// Execution limits and statistics
	MaxCycles uint64

	// Error handling
	LastError error

	// Runtime environment
	EntryPoint uint32

	// TraceWriter, when set, receives one line per executed instruction
	TraceWriter io.Writer

	// Breakpoints is consulted before each step
	Breakpoints map[uint32]bool
}

// NewVM creates a virtual machine with the default memory map
func NewVM() *VM {
	memory := NewMemory()
	return &VM{
		CPU:         NewCPU(memory),
		Memory:      memory,
		State:       StateHalted,
		MaxCycles:   DefaultMaxCycles,
		Breakpoints: make(map[uint32]bool),
	}
}

// Reset resets the processor and memory to initial state
func (vm *VM) Reset() {
	vm.CPU.Reset()
	vm.Memory.Reset()
	vm.State = StateHalted
	vm.LastError = nil
}

// LoadProgram loads program bytes into memory and points the PC at them
func (vm *VM) LoadProgram(data []byte, startAddress uint32) error {
	if err := vm.Memory.LoadBytes(startAddress, data); err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}
	vm.CPU.PC = startAddress
	vm.EntryPoint = startAddress
	vm.State = StateHalted
	return nil
}

// Step executes a single instruction
func (vm *VM) Step() error {
	if vm.State == StateError {
		return fmt.Errorf("VM is in error state: %w", vm.LastError)
	}
	word, err := vm.Memory.ReadWord(vm.CPU.PC)
	if err != nil {
		vm.State = StateError
		vm.LastError = fmt.Errorf("fetch failed at PC=0x%08X: %w", vm.CPU.PC, err)
		return vm.LastError
	}
	inst := Decode(vm.CPU.PC, word)
	if vm.TraceWriter != nil {
		fmt.Fprintf(vm.TraceWriter, "%10d 0x%08X 0x%08X %s\n", vm.CPU.Cycles, inst.Address, inst.Raw, vm.CPU.CPSR.Mode)
	}
	if err := vm.Execute(inst); err != nil {
		vm.State = StateError
		vm.LastError = fmt.Errorf("execute failed at PC=0x%08X: %w", inst.Address, err)
		return vm.LastError
	}
	if !vm.CPU.TakeBranch() {
		vm.CPU.PC += 4
	}
	vm.CPU.IncrementCycles(1)
	return nil
}

// Run executes instructions until halt, error, breakpoint or cycle limit
func (vm *VM) Run() error {
	vm.State = StateRunning
	for vm.State == StateRunning {
		if vm.Breakpoints[vm.CPU.PC] {
			vm.State = StateBreakpoint
			return nil
		}
		if err := vm.Step(); err != nil {
			return err
		}
		if vm.MaxCycles > 0 && vm.CPU.Cycles >= vm.MaxCycles {
			vm.State = StateHalted
			return fmt.Errorf("maximum cycles exceeded (%d)", vm.MaxCycles)
		}
	}
	return nil
}

// shifterOperand runs the decoded A5.1 form
func (vm *VM) shifterOperand(inst *Instruction) (uint32, bool) {
	c := vm.CPU
	switch inst.Form {
	case FormImmediate:
		return c.ShifterOperandImmediate(inst.RotateImm, inst.Immed8)
	case FormRegister:
		return c.ShifterOperandRegister(inst.Rm)
	case FormLSLImmediate:
		return c.ShifterOperandLSLImmediate(inst.ShiftImm, inst.Rm)
	case FormLSLRegister:
		return c.ShifterOperandLSLRegister(inst.Rs, inst.Rm)
	case FormLSRImmediate:
		return c.ShifterOperandLSRImmediate(inst.ShiftImm, inst.Rm)
	case FormLSRRegister:
		return c.ShifterOperandLSRRegister(inst.Rs, inst.Rm)
	case FormASRImmediate:
		return c.ShifterOperandASRImmediate(inst.ShiftImm, inst.Rm)
	case FormASRRegister:
		return c.ShifterOperandASRRegister(inst.Rs, inst.Rm)
	case FormRORImmediate:
		return c.ShifterOperandRORImmediate(inst.ShiftImm, inst.Rm)
	case FormRORRegister:
		return c.ShifterOperandRORRegister(inst.Rs, inst.Rm)
	case FormRRX:
		return c.ShifterOperandRRX(inst.Rm)
	}
	return 0, c.CPSR.C
}

// effectiveAddress runs the decoded A5.2/A5.3/A5.5 form
func (vm *VM) effectiveAddress(inst *Instruction) uint32 {
	c := vm.CPU
	switch inst.Form {
	case FormImmediateOffset:
		return c.AddressImmediateOffset(inst.Offset12, inst.Rn, inst.U)
	case FormRegisterOffset:
		return c.AddressRegisterOffset(inst.Rn, inst.Rm, inst.U)
	case FormScaledRegisterOffset:
		return c.AddressScaledRegisterOffset(inst.ShiftImm, inst.Shift, inst.Rn, inst.Rm, inst.U)
	case FormImmediatePreIndexed:
		return c.AddressImmediatePreIndexed(inst.Offset12, inst.Rn, inst.Cond, inst.U)
	case FormRegisterPreIndexed:
		return c.AddressRegisterPreIndexed(inst.Rn, inst.Rm, inst.Cond, inst.U)
	case FormScaledRegisterPreIndexed:
		return c.AddressScaledRegisterPreIndexed(inst.ShiftImm, inst.Shift, inst.Rn, inst.Rm, inst.Cond, inst.U)
	case FormImmediatePostIndexed:
		return c.AddressImmediatePostIndexed(inst.Offset12, inst.Rn, inst.Cond, inst.U)
	case FormRegisterPostIndexed:
		return c.AddressRegisterPostIndexed(inst.Rn, inst.Rm, inst.Cond, inst.U)
	case FormScaledRegisterPostIndexed:
		return c.AddressScaledRegisterPostIndexed(inst.ShiftImm, inst.Shift, inst.Rn, inst.Rm, inst.Cond, inst.U)
	case FormMiscImmediateOffset:
		return c.MiscAddressImmediateOffset(inst.Rn, inst.ImmedL, inst.ImmedH, inst.U)
	case FormMiscRegisterOffset:
		return c.MiscAddressRegisterOffset(inst.Rn, inst.Rm, inst.U)
	case FormMiscImmediatePreIndexed:
		return c.MiscAddressImmediatePreIndexed(inst.Rn, inst.ImmedL, inst.ImmedH, inst.Cond, inst.U)
	case FormMiscRegisterPreIndexed:
		return c.MiscAddressRegisterPreIndexed(inst.Rn, inst.Rm, inst.Cond, inst.U)
	case FormMiscImmediatePostIndexed:
		return c.MiscAddressImmediatePostIndexed(inst.Rn, inst.ImmedL, inst.ImmedH, inst.Cond, inst.U)
	case FormMiscRegisterPostIndexed:
		return c.MiscAddressRegisterPostIndexed(inst.Rn, inst.Rm, inst.Cond, inst.U)
	case FormCoprocImmediateOffset:
		return c.CoprocAddressImmediateOffset(inst.Immed8, inst.Rn, inst.Cond, inst.U)
	case FormCoprocImmediatePreIndexed:
		return c.CoprocAddressImmediatePreIndexed(inst.Immed8, inst.Rn, inst.Cond, inst.U)
	case FormCoprocImmediatePostIndexed:
		return c.CoprocAddressImmediatePostIndexed(inst.Immed8, inst.Rn, inst.Cond, inst.U)
	case FormCoprocUnindexed:
		return c.CoprocAddressUnindexed(inst.Rn, inst.Cond)
	}
	return 0
}

// blockAddresses runs the decoded A5.4 form
func (vm *VM) blockAddresses(inst *Instruction) (uint32, uint32) {
	c := vm.CPU
	switch inst.Form {
	case FormIncrementAfter:
		return c.BlockAddressIncrementAfter(inst.RegisterList, inst.Rn)
	case FormIncrementBefore:
		return c.BlockAddressIncrementBefore(inst.RegisterList, inst.Rn)
	case FormDecrementAfter:
		return c.BlockAddressDecrementAfter(inst.RegisterList, inst.Rn)
	default:
		return c.BlockAddressDecrementBefore(inst.RegisterList, inst.Rn)
	}
}

// blockBounds applies the A5.4 formulas to an explicit base, for the
// exception-stack forms of RFE and SRS
func blockBounds(form OperandForm, base, words uint32) (startAddress, newRn uint32) {
	size := words * 4
	switch form {
	case FormIncrementAfter:
		return base, base + size
	case FormIncrementBefore:
		return base + 4, base + size
	case FormDecrementAfter:
		return base - size + 4, base - size
	default:
		return base - size, base - size
	}
}

// Execute dispatches a decoded instruction to its semantic transformer
func (vm *VM) Execute(inst *Instruction) error {
	c := vm.CPU
	switch inst.Op {
	case OpADC:
		operand, _ := vm.shifterOperand(inst)
		c.ADC(operand, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpADD:
		operand, _ := vm.shifterOperand(inst)
		c.ADD(operand, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpAND:
		operand, carry := vm.shifterOperand(inst)
		c.AND(operand, carry, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpB:
		c.BBL(inst.Immed24, inst.Cond, inst.Link)
	case OpBIC:
		operand, carry := vm.shifterOperand(inst)
		c.BIC(operand, carry, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpBKPT:
		c.BKPT()
	case OpBLX1:
		c.BLX1(inst.Immed24, inst.HBit)
	case OpBLX2:
		c.BLX2(inst.Rm, inst.Cond)
	case OpBX:
		c.BX(inst.Rm, inst.Cond)
	case OpBXJ:
		c.BXJ(inst.Rm, inst.Cond)
	case OpCDP:
		return c.CDP(inst.CpNum, inst.Cond)
	case OpCLZ:
		c.CLZ(inst.Rm, inst.Rd, inst.Cond)
	case OpCMN:
		operand, _ := vm.shifterOperand(inst)
		c.CMN(operand, inst.Rn, inst.Cond)
	case OpCMP:
		operand, _ := vm.shifterOperand(inst)
		c.CMP(operand, inst.Rn, inst.Cond)
	case OpCPS:
		c.CPS(inst.Mode, inst.Mmod, inst.Imod, inst.AffectI, inst.AffectF, inst.AffectA)
	case OpCPY:
		c.CPY(inst.Rm, inst.Rd, inst.Cond)
	case OpEOR:
		operand, carry := vm.shifterOperand(inst)
		c.EOR(operand, carry, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpLDC:
		return c.LDC(vm.effectiveAddress(inst), inst.CpNum, inst.Cond)
	case OpLDM1:
		start, newRn := vm.blockAddresses(inst)
		return c.LDM1(start, inst.RegisterList, newRn, inst.Rn, inst.Cond, inst.W)
	case OpLDM2:
		start, newRn := vm.blockAddresses(inst)
		return c.LDM2(start, inst.RegisterList, newRn, inst.Rn, inst.Cond, inst.W)
	case OpLDM3:
		start, newRn := vm.blockAddresses(inst)
		return c.LDM3(start, inst.RegisterList, newRn, inst.Rn, inst.Cond, inst.W)
	case OpLDR:
		return c.LDR(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpLDRB:
		return c.LDRB(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpLDRBT:
		return c.LDRBT(inst.Rn, inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpLDRD:
		return c.LDRD(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpLDREX:
		return c.LDREX(inst.Rn, inst.Rd, inst.Cond)
	case OpLDRH:
		return c.LDRH(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpLDRSB:
		return c.LDRSB(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpLDRSH:
		return c.LDRSH(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpLDRT:
		return c.LDRT(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpMCR:
		return c.MCR(inst.Rd, inst.CpNum, inst.Cond)
	case OpMCRR:
		return c.MCRR(inst.Rn, inst.Rd, inst.CpNum, inst.Cond)
	case OpMLA:
		c.MLA(inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond, inst.S)
	case OpMOV:
		operand, carry := vm.shifterOperand(inst)
		c.MOV(operand, carry, inst.Rd, inst.Cond, inst.S)
	case OpMRC:
		return c.MRC(inst.Rd, inst.CpNum, inst.Cond)
	case OpMRRC:
		return c.MRRC(inst.Rn, inst.Rd, inst.CpNum, inst.Cond)
	case OpMRS:
		c.MRS(inst.Rd, inst.Cond, inst.R)
	case OpMSR:
		if inst.Form == FormImmediate {
			c.MSRImmediate(inst.RotateImm, inst.Immed8, inst.FieldMask, inst.Cond, inst.R)
		} else {
			c.MSRRegister(inst.Rm, inst.FieldMask, inst.Cond, inst.R)
		}
	case OpMUL:
		c.MUL(inst.Rs, inst.Rm, inst.Rd, inst.Cond, inst.S)
	case OpMVN:
		operand, carry := vm.shifterOperand(inst)
		c.MVN(operand, carry, inst.Rd, inst.Cond, inst.S)
	case OpORR:
		operand, carry := vm.shifterOperand(inst)
		c.ORR(operand, carry, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpPKHBT:
		c.PKHBT(inst.ShiftImm, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpPKHTB:
		c.PKHTB(inst.ShiftImm, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpPLD:
		c.PLD()
	case OpQADD:
		c.QADD(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQADD16:
		c.QADD16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQADD8:
		c.QADD8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQADDSUBX:
		c.QADDSUBX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQDADD:
		c.QDADD(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQDSUB:
		c.QDSUB(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQSUB:
		c.QSUB(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQSUB16:
		c.QSUB16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQSUB8:
		c.QSUB8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpQSUBADDX:
		c.QSUBADDX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpREV:
		c.REV(inst.Rm, inst.Rd, inst.Cond)
	case OpREV16:
		c.REV16(inst.Rm, inst.Rd, inst.Cond)
	case OpREVSH:
		c.REVSH(inst.Rm, inst.Rd, inst.Cond)
	case OpRFE:
		return vm.executeRFE(inst)
	case OpRSB:
		operand, _ := vm.shifterOperand(inst)
		c.RSB(operand, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpRSC:
		operand, _ := vm.shifterOperand(inst)
		c.RSC(operand, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpSADD16:
		c.SADD16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSADD8:
		c.SADD8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSADDSUBX:
		c.SADDSUBX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSBC:
		operand, _ := vm.shifterOperand(inst)
		c.SBC(operand, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpSEL:
		c.SEL(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSETEND:
		c.SETEND(inst.BigEndian)
	case OpSHADD16:
		c.SHADD16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSHADD8:
		c.SHADD8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSHADDSUBX:
		c.SHADDSUBX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSHSUB16:
		c.SHSUB16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSHSUB8:
		c.SHSUB8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSHSUBADDX:
		c.SHSUBADDX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSMLA:
		c.SMLA(inst.Y, inst.X, inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSMLAD:
		c.SMLAD(inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond, inst.X)
	case OpSMLAL:
		c.SMLAL(inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond, inst.S)
	case OpSMLALXY:
		c.SMLAL2(inst.Y, inst.X, inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond)
	case OpSMLALD:
		c.SMLALD(inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond, inst.X)
	case OpSMLAW:
		c.SMLAW(inst.Y, inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSMLSD:
		c.SMLSD(inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond, inst.X)
	case OpSMLSLD:
		c.SMLSLD(inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond, inst.X)
	case OpSMMLA:
		c.SMMLA(inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond, inst.R)
	case OpSMMLS:
		c.SMMLS(inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond, inst.R)
	case OpSMMUL:
		c.SMMUL(inst.Rs, inst.Rm, inst.Rd, inst.Cond, inst.R)
	case OpSMUAD:
		c.SMUAD(inst.Rs, inst.Rm, inst.Rd, inst.Cond, inst.X)
	case OpSMUL:
		c.SMUL(inst.Y, inst.X, inst.Rs, inst.Rm, inst.Rd, inst.Cond)
	case OpSMULL:
		c.SMULL(inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond, inst.S)
	case OpSMULW:
		c.SMULW(inst.Y, inst.Rs, inst.Rm, inst.Rd, inst.Cond)
	case OpSMUSD:
		c.SMUSD(inst.Rs, inst.Rm, inst.Rd, inst.Cond, inst.X)
	case OpSRS:
		return vm.executeSRS(inst)
	case OpSSAT:
		c.SSAT(inst.ShiftImm, inst.ShiftBit, inst.SatImm, inst.Rm, inst.Rd, inst.Cond)
	case OpSSAT16:
		c.SSAT16(inst.SatImm, inst.Rm, inst.Rd, inst.Cond)
	case OpSSUB16:
		c.SSUB16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSSUB8:
		c.SSUB8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSSUBADDX:
		c.SSUBADDX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSTC:
		return c.STC(vm.effectiveAddress(inst), inst.CpNum, inst.Cond)
	case OpSTM1:
		start, newRn := vm.blockAddresses(inst)
		return c.STM1(start, inst.RegisterList, newRn, inst.Rn, inst.Cond, inst.W)
	case OpSTM2:
		start, newRn := vm.blockAddresses(inst)
		return c.STM2(start, inst.RegisterList, newRn, inst.Rn, inst.Cond, inst.W)
	case OpSTR:
		return c.STR(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpSTRB:
		return c.STRB(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpSTRBT:
		return c.STRBT(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpSTRD:
		return c.STRD(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpSTREX:
		return c.STREX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSTRH:
		return c.STRH(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpSTRT:
		return c.STRT(inst.Rd, inst.Cond, vm.effectiveAddress(inst))
	case OpSUB:
		operand, _ := vm.shifterOperand(inst)
		c.SUB(operand, inst.Rn, inst.Rd, inst.Cond, inst.S)
	case OpSWI:
		c.SWI(inst.Cond)
	case OpSWP:
		return c.SWP(inst.Rm, inst.Rd, inst.Cond, c.Reg(inst.Rn))
	case OpSWPB:
		return c.SWPB(inst.Rm, inst.Rd, inst.Cond, c.Reg(inst.Rn))
	case OpSXTAB:
		c.SXTAB(inst.Rotate, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSXTAB16:
		c.SXTAB16(inst.Rotate, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSXTAH:
		c.SXTAH(inst.Rotate, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpSXTB:
		c.SXTB(inst.Rotate, inst.Rm, inst.Rd, inst.Cond)
	case OpSXTB16:
		c.SXTB16(inst.Rotate, inst.Rm, inst.Rd, inst.Cond)
	case OpSXTH:
		c.SXTH(inst.Rotate, inst.Rm, inst.Rd, inst.Cond)
	case OpTEQ:
		operand, carry := vm.shifterOperand(inst)
		c.TEQ(operand, carry, inst.Rn, inst.Cond)
	case OpTST:
		operand, carry := vm.shifterOperand(inst)
		c.TST(operand, carry, inst.Rn, inst.Cond)
	case OpUADD16:
		c.UADD16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUADD8:
		c.UADD8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUADDSUBX:
		c.UADDSUBX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUHADD16:
		c.UHADD16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUHADD8:
		c.UHADD8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUHADDSUBX:
		c.UHADDSUBX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUHSUB16:
		c.UHSUB16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUHSUB8:
		c.UHSUB8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUHSUBADDX:
		c.UHSUBADDX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUMAAL:
		c.UMAAL(inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond)
	case OpUMLAL:
		c.UMLAL(inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond, inst.S)
	case OpUMULL:
		c.UMULL(inst.Rs, inst.Rm, inst.Rd, inst.Rn, inst.Cond, inst.S)
	case OpUQADD16:
		c.UQADD16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUQADD8:
		c.UQADD8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUQADDSUBX:
		c.UQADDSUBX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUQSUB16:
		c.UQSUB16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUQSUB8:
		c.UQSUB8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUQSUBADDX:
		c.UQSUBADDX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUSAD8:
		c.USAD8(inst.Rs, inst.Rm, inst.Rd, inst.Cond)
	case OpUSADA8:
		c.USADA8(inst.Rs, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUSAT:
		c.USAT(inst.ShiftImm, inst.ShiftBit, inst.SatImm, inst.Rm, inst.Rd, inst.Cond)
	case OpUSAT16:
		c.USAT16(inst.SatImm, inst.Rm, inst.Rd, inst.Cond)
	case OpUSUB16:
		c.USUB16(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUSUB8:
		c.USUB8(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUSUBADDX:
		c.USUBADDX(inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUXTAB:
		c.UXTAB(inst.Rotate, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUXTAB16:
		c.UXTAB16(inst.Rotate, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUXTAH:
		c.UXTAH(inst.Rotate, inst.Rn, inst.Rm, inst.Rd, inst.Cond)
	case OpUXTB:
		c.UXTB(inst.Rotate, inst.Rm, inst.Rd, inst.Cond)
	case OpUXTB16:
		c.UXTB16(inst.Rotate, inst.Rm, inst.Rd, inst.Cond)
	case OpUXTH:
		c.UXTH(inst.Rotate, inst.Rm, inst.Rd, inst.Cond)
	default:
		return fmt.Errorf("undefined instruction 0x%08X at 0x%08X", inst.Raw, inst.Address)
	}
	return nil
}

// executeRFE computes the exception-return block addresses against Rn and
// commits the writeback the descriptor requests
func (vm *VM) executeRFE(inst *Instruction) error {
	c := vm.CPU
	mode := c.CPSR.Mode
	privileged := c.InAPrivilegedMode()
	base := c.Reg(inst.Rn)
	start, newRn := blockBounds(inst.Form, base, 2)
	if err := c.RFE(start); err != nil {
		return err
	}
	// writeback targets the bank of the mode the instruction ran in, not
	// the mode the loaded CPSR installed
	if inst.W && privileged {
		c.SetRegMode(mode, inst.Rn, newRn)
	}
	return nil
}

// executeSRS computes the store addresses against the banked r13 of the
// target mode and commits the writeback against that bank
func (vm *VM) executeSRS(inst *Instruction) error {
	c := vm.CPU
	base := c.RegMode(inst.Mode, SP)
	start, newRn := blockBounds(inst.Form, base, 2)
	if err := c.SRS(start); err != nil {
		return err
	}
	if inst.W && c.CurrentModeHasSPSR() {
		c.SetRegMode(inst.Mode, SP, newRn)
	}
	return nil
}

// DumpState returns a string representation of the VM state for debugging
func (vm *VM) DumpState() string {
	c := vm.CPU
	flag := func(set bool, name string) string {
		if set {
			return name
		}
		return "-"
	}
	return fmt.Sprintf(
		"PC=0x%08X SP=0x%08X LR=0x%08X CPSR=[%s%s%s%s%s] mode=%s GE=%X Cycles=%d",
		c.PC, c.Reg(SP), c.Reg(LR),
		flag(c.CPSR.N, "N"), flag(c.CPSR.Z, "Z"), flag(c.CPSR.C, "C"),
		flag(c.CPSR.V, "V"), flag(c.CPSR.Q, "Q"),
		c.CPSR.Mode, c.CPSR.GE, c.Cycles,
	)
}
