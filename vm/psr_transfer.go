package vm

// Status-register transfer semantics: MRS, MSR, CPS and SETEND
// (ARM ARM A4.1).

// MRS writes the CPSR (R=0) or the current SPSR (R=1) to Rd (A4.1.38)
func (c *CPU) MRS(d int, cond ConditionCode, r bool) {
	if !c.ConditionPassed(cond) {
		return
	}
	if r {
		spsr := c.SPSR()
		c.SetReg(d, spsr.ToUint32())
	} else {
		c.SetReg(d, c.CPSR.ToUint32())
	}
}

// MSRImmediate writes the rotated 8-bit immediate into the masked status
// register fields (A4.1.39)
func (c *CPU) MSRImmediate(rotateImm, immed8, fieldMask uint8, cond ConditionCode, r bool) {
	if !c.ConditionPassed(cond) {
		return
	}
	c.msr(RotateRight(uint32(immed8), uint32(rotateImm)*2), fieldMask, r)
}

// MSRRegister writes Rm into the masked status register fields (A4.1.39)
func (c *CPU) MSRRegister(m int, fieldMask uint8, cond ConditionCode, r bool) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	c.msr(oldRm, fieldMask, r)
}

// msr applies the masked status-register update. Each field_mask bit
// enables one byte lane; the lane set is then restricted by the privilege
// masks. Touching unallocated bits, touching the state bits of the CPSR,
// or targeting a missing SPSR is UNPREDICTABLE.
func (c *CPU) msr(operand uint32, fieldMask uint8, r bool) {
	if operand&PSRUnallocMask != 0 {
		c.unpredictable("MSR", "operand sets unallocated PSR bits")
		return
	}
	var byteMask uint32
	if fieldMask&1 != 0 {
		byteMask |= 0x000000FF
	}
	if fieldMask&2 != 0 {
		byteMask |= 0x0000FF00
	}
	if fieldMask&4 != 0 {
		byteMask |= 0x00FF0000
	}
	if fieldMask&8 != 0 {
		byteMask |= 0xFF000000
	}
	var mask uint32
	if !r {
		if c.InAPrivilegedMode() {
			if operand&PSRStateMask != 0 {
				c.unpredictable("MSR", "attempt to set CPSR state bits")
				return
			}
			mask = byteMask & (PSRUserMask | PSRPrivMask)
		} else {
			mask = byteMask & PSRUserMask
		}
		c.CPSR.FromUint32(c.CPSR.ToUint32()&^mask | operand&mask)
		return
	}
	if !c.CurrentModeHasSPSR() {
		c.unpredictable("MSR", "SPSR write with no SPSR in the current mode")
		return
	}
	mask = byteMask & (PSRUserMask | PSRPrivMask | PSRStateMask)
	spsr := c.SPSR()
	spsr.FromUint32(spsr.ToUint32()&^mask | operand&mask)
	c.SetSPSR(spsr)
}

// CPS changes the A/I/F masks and optionally the mode. Only effective in a
// privileged mode; in User mode it is silently ignored. imod bit 1 enables
// the mask update and bit 0 carries the value; the a/i/f arguments select
// which masks change. (A4.1.16)
func (c *CPU) CPS(mode Mode, mmod bool, imod uint8, i, f, a bool) {
	if !c.InAPrivilegedMode() {
		return
	}
	if imod>>1&1 == 1 {
		value := imod&1 == 1
		if a {
			c.CPSR.A = value
		}
		if i {
			c.CPSR.I = value
		}
		if f {
			c.CPSR.F = value
		}
	}
	if mmod {
		c.CPSR.Mode = mode
	}
}

// SETEND installs the specified data endianness in CPSR.E through the
// system-control shim. Unconditional. (A4.1.67)
func (c *CPU) SETEND(bigEndian bool) {
	c.CPSR = c.CP15.PSRWithEBit(c.CPSR, bigEndian)
}
