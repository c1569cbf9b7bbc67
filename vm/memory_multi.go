package vm

// Load/store multiple and exception-return semantics (ARM ARM A4.1).
// The block start address and base update arrive precomputed by the A5.4
// helpers; the transformer commits the base when its W bit is set.
// Registers transfer in ascending register number.

// LDM1 loads r0..r14 from sequential words; a set bit 15 additionally
// loads the PC with interworking (A4.1.20)
func (c *CPU) LDM1(startAddress uint32, registerList uint16, newRn uint32, n int, cond ConditionCode, w bool) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	address := startAddress
	for i := 0; i <= 14; i++ {
		if registerList>>i&1 == 1 {
			value, err := c.Memory.ReadWord(address)
			if err != nil {
				return err
			}
			c.SetReg(i, value)
			address += 4
		}
	}
	if registerList>>15&1 == 1 {
		value, err := c.Memory.ReadWord(address)
		if err != nil {
			return err
		}
		c.SetPCInterworking(value)
		address += 4
	}
	if w {
		c.SetReg(n, newRn)
	}
	return nil
}

// LDM2 loads r0..r14 into the User-mode register bank regardless of the
// current mode; there is no PC slot (A4.1.21)
func (c *CPU) LDM2(startAddress uint32, registerList uint16, newRn uint32, n int, cond ConditionCode, w bool) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	address := startAddress
	for i := 0; i <= 14; i++ {
		if registerList>>i&1 == 1 {
			value, err := c.Memory.ReadWord(address)
			if err != nil {
				return err
			}
			c.SetRegMode(ModeUser, i, value)
			address += 4
		}
	}
	if w {
		c.SetReg(n, newRn)
	}
	return nil
}

// LDM3 loads r0..r14, restores CPSR from the SPSR, then loads the PC with
// the raw write semantics; UNPREDICTABLE without an SPSR (A4.1.22)
func (c *CPU) LDM3(startAddress uint32, registerList uint16, newRn uint32, n int, cond ConditionCode, w bool) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	address := startAddress
	for i := 0; i <= 14; i++ {
		if registerList>>i&1 == 1 {
			value, err := c.Memory.ReadWord(address)
			if err != nil {
				return err
			}
			c.SetReg(i, value)
			address += 4
		}
	}
	if c.CurrentModeHasSPSR() {
		c.CPSR = c.SPSR()
	} else {
		c.unpredictable("LDM(3)", "no SPSR in the current mode")
	}
	value, err := c.Memory.ReadWord(address)
	if err != nil {
		return err
	}
	c.SetPCRaw(value)
	if w {
		c.SetReg(n, newRn)
	}
	return nil
}

// STM1 stores r0..r15 to sequential words; r15 observes the pipeline
// offset. Each stored word clears overlapping global reservations.
// (A4.1.97)
func (c *CPU) STM1(startAddress uint32, registerList uint16, newRn uint32, n int, cond ConditionCode, w bool) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	address := startAddress
	for i := 0; i <= 15; i++ {
		if registerList>>i&1 == 1 {
			if err := c.Memory.WriteWord(address, c.Reg(i)); err != nil {
				return err
			}
			c.clearExclusiveStore(address, 4)
			address += 4
		}
	}
	if w {
		c.SetReg(n, newRn)
	}
	return nil
}

// STM2 stores the User-bank r0..r14 regardless of the current mode
// (A4.1.98)
func (c *CPU) STM2(startAddress uint32, registerList uint16, newRn uint32, n int, cond ConditionCode, w bool) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	address := startAddress
	for i := 0; i <= 14; i++ {
		if registerList>>i&1 == 1 {
			if err := c.Memory.WriteWord(address, c.RegMode(ModeUser, i)); err != nil {
				return err
			}
			c.clearExclusiveStore(address, 4)
			address += 4
		}
	}
	if w {
		c.SetReg(n, newRn)
	}
	return nil
}

// RFE returns from an exception by loading the new PC and CPSR from the
// word pair at the start address. Unconditional; UNPREDICTABLE outside a
// privileged mode. (A4.1.59)
func (c *CPU) RFE(startAddress uint32) error {
	if !c.InAPrivilegedMode() {
		c.unpredictable("RFE", "executed in User mode")
		return nil
	}
	value, err := c.Memory.ReadWord(startAddress)
	if err != nil {
		return err
	}
	status, err := c.Memory.ReadWord(startAddress + 4)
	if err != nil {
		return err
	}
	c.CPSR.FromUint32(status)
	c.SetPCRaw(value)
	return nil
}

// SRS stores r14 and the SPSR of the current mode to the word pair at the
// start address (computed against the banked stack of the target mode).
// Unconditional; UNPREDICTABLE without an SPSR. (A4.1.90)
func (c *CPU) SRS(startAddress uint32) error {
	if !c.CurrentModeHasSPSR() {
		c.unpredictable("SRS", "no SPSR in the current mode")
		return nil
	}
	if err := c.Memory.WriteWord(startAddress, c.Reg(LR)); err != nil {
		return err
	}
	c.clearExclusiveStore(startAddress, 4)
	spsr := c.SPSR()
	if err := c.Memory.WriteWord(startAddress+4, spsr.ToUint32()); err != nil {
		return err
	}
	c.clearExclusiveStore(startAddress+4, 4)
	return nil
}
