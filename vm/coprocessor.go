package vm

import "fmt"

// Coprocessor is the transfer interface one coprocessor exposes to the
// core. LDC/STC drive multi-word transfers by polling NotFinished between
// words; the remaining methods back CDP, MCR/MRC and MCRR/MRRC.
type Coprocessor interface {
	DependentOperation() error
	Load(word uint32) error
	Value() (uint32, error)
	Send(word uint32) error
	FirstValue() (uint32, error)
	SecondValue() (uint32, error)
	NotFinished() bool
}

// SystemCoprocessor is the CP15 system-control shadow: the handful of
// configuration bits the core consults, settable by the embedder
type SystemCoprocessor struct {
	// UBit enables hardware alignment checking for word and halfword
	// accesses. When false, LDR rotates unaligned words and LDRH traps.
	UBit bool
	// EEBit is the endianness installed in CPSR.E on exception entry
	EEBit bool
	// HighVectors selects the 0xFFFF0000 exception vector base
	HighVectors bool
}

// NewSystemCoprocessor returns the reset configuration: alignment checking
// on, little-endian exceptions, low vectors
func NewSystemCoprocessor() *SystemCoprocessor {
	return &SystemCoprocessor{UBit: true}
}

// Reg1UBit reports the alignment-checking configuration
func (s *SystemCoprocessor) Reg1UBit() bool { return s.UBit }

// Reg1EEBit reports the exception-entry endianness
func (s *SystemCoprocessor) Reg1EEBit() bool { return s.EEBit }

// HighVectorsConfigured reports the exception vector base selection
func (s *SystemCoprocessor) HighVectorsConfigured() bool { return s.HighVectors }

// PSRWithEBit returns psr with the E bit replaced
func (s *SystemCoprocessor) PSRWithEBit(psr PSR, bigEndian bool) PSR {
	psr.E = bigEndian
	return psr
}

// errNoCoprocessor reports an access to an unpopulated coprocessor slot
func errNoCoprocessor(cpNum int) error {
	return fmt.Errorf("no coprocessor registered for cp%d", cpNum)
}

// CDP hands a coprocessor data operation to cp_num (A4.1.12)
func (c *CPU) CDP(cpNum int, cond ConditionCode) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	cp := c.Coproc(cpNum)
	if cp == nil {
		return errNoCoprocessor(cpNum)
	}
	return cp.DependentOperation()
}

// LDC loads successive memory words into a coprocessor, polling
// NotFinished between words (A4.1.19)
func (c *CPU) LDC(startAddress uint32, cpNum int, cond ConditionCode) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	cp := c.Coproc(cpNum)
	if cp == nil {
		return errNoCoprocessor(cpNum)
	}
	address := startAddress
	word, err := c.Memory.ReadWord(address)
	if err != nil {
		return err
	}
	if err := cp.Load(word); err != nil {
		return err
	}
	for cp.NotFinished() {
		address += 4
		word, err := c.Memory.ReadWord(address)
		if err != nil {
			return err
		}
		if err := cp.Load(word); err != nil {
			return err
		}
	}
	return nil
}

// STC stores successive coprocessor words to memory, polling NotFinished
// between words; each stored word clears overlapping global reservations
// (A4.1.96)
func (c *CPU) STC(startAddress uint32, cpNum int, cond ConditionCode) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	cp := c.Coproc(cpNum)
	if cp == nil {
		return errNoCoprocessor(cpNum)
	}
	address := startAddress
	word, err := cp.Value()
	if err != nil {
		return err
	}
	if err := c.Memory.WriteWord(address, word); err != nil {
		return err
	}
	c.clearExclusiveStore(address, 4)
	for cp.NotFinished() {
		address += 4
		word, err := cp.Value()
		if err != nil {
			return err
		}
		if err := c.Memory.WriteWord(address, word); err != nil {
			return err
		}
		c.clearExclusiveStore(address, 4)
	}
	return nil
}

// MCR sends Rd to a coprocessor (A4.1.32)
func (c *CPU) MCR(d, cpNum int, cond ConditionCode) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	cp := c.Coproc(cpNum)
	if cp == nil {
		return errNoCoprocessor(cpNum)
	}
	return cp.Send(c.Reg(d))
}

// MCRR sends the Rd, Rn pair to a coprocessor (A4.1.33)
func (c *CPU) MCRR(n, d, cpNum int, cond ConditionCode) error {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return nil
	}
	cp := c.Coproc(cpNum)
	if cp == nil {
		return errNoCoprocessor(cpNum)
	}
	if err := cp.Send(c.Reg(d)); err != nil {
		return err
	}
	return cp.Send(oldRn)
}

// MRC moves a coprocessor value to Rd; d=15 targets the CPSR flags
// instead of the PC (A4.1.36)
func (c *CPU) MRC(d, cpNum int, cond ConditionCode) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	cp := c.Coproc(cpNum)
	if cp == nil {
		return errNoCoprocessor(cpNum)
	}
	data, err := cp.Value()
	if err != nil {
		return err
	}
	if d == PC {
		c.CPSR.N = data&psrNBit != 0
		c.CPSR.Z = data&psrZBit != 0
		c.CPSR.C = data&psrCBit != 0
		c.CPSR.V = data&psrVBit != 0
	} else {
		c.SetReg(d, data)
	}
	return nil
}

// MRRC moves a coprocessor value pair to Rd and Rn (A4.1.37)
func (c *CPU) MRRC(n, d, cpNum int, cond ConditionCode) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	cp := c.Coproc(cpNum)
	if cp == nil {
		return errNoCoprocessor(cpNum)
	}
	first, err := cp.FirstValue()
	if err != nil {
		return err
	}
	c.SetReg(d, first)
	second, err := cp.SecondValue()
	if err != nil {
		return err
	}
	c.SetReg(n, second)
	return nil
}
