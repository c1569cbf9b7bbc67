package vm

// Load/store effective-address computation: the word/unsigned-byte forms of
// ARM ARM A5.2, the miscellaneous forms of A5.3, the multiple block forms
// of A5.4 and the coprocessor forms of A5.5.
//
// Pre- and post-indexed forms commit the base register update only when the
// instruction's condition passes; the offset forms never touch Rn.

// scaledIndex applies one of the four scale modes of the scaled-register
// address forms. shift selects LSL, LSR, ASR or ROR; shift_imm=0 means
// LSR gives 0, ASR gives the sign fill and ROR becomes RRX.
func (c *CPU) scaledIndex(shiftImm, shift uint8, rm uint32) uint32 {
	switch shift & 3 {
	case 0: // LSL
		return rm << shiftImm
	case 1: // LSR
		if shiftImm == 0 {
			return 0
		}
		return rm >> shiftImm
	case 2: // ASR
		if shiftImm == 0 {
			if rm&SignBitMask != 0 {
				return Mask32Bit
			}
			return 0
		}
		return Asr(rm, uint(shiftImm))
	default: // ROR / RRX
		if shiftImm == 0 {
			index := rm >> 1
			if c.CPSR.C {
				index |= SignBitMask
			}
			return index
		}
		return RotateRight(rm, uint32(shiftImm))
	}
}

func applyOffset(base, offset uint32, u bool) uint32 {
	if u {
		return base + offset
	}
	return base - offset
}

// AddressImmediateOffset computes Rn +/- offset_12 (A5.2.2)
func (c *CPU) AddressImmediateOffset(offset12 uint16, n int, u bool) uint32 {
	return applyOffset(c.Reg(n), uint32(offset12), u)
}

// AddressRegisterOffset computes Rn +/- Rm (A5.2.3)
func (c *CPU) AddressRegisterOffset(n, m int, u bool) uint32 {
	return applyOffset(c.Reg(n), c.Reg(m), u)
}

// AddressScaledRegisterOffset computes Rn +/- the scaled Rm (A5.2.4)
func (c *CPU) AddressScaledRegisterOffset(shiftImm, shift uint8, n, m int, u bool) uint32 {
	return applyOffset(c.Reg(n), c.scaledIndex(shiftImm, shift, c.Reg(m)), u)
}

// AddressImmediatePreIndexed computes Rn +/- offset_12 and commits it to
// Rn when the condition passes (A5.2.5)
func (c *CPU) AddressImmediatePreIndexed(offset12 uint16, n int, cond ConditionCode, u bool) uint32 {
	address := applyOffset(c.Reg(n), uint32(offset12), u)
	if c.ConditionPassed(cond) {
		c.SetReg(n, address)
	}
	return address
}

// AddressRegisterPreIndexed computes Rn +/- Rm and commits it to Rn when
// the condition passes (A5.2.6)
func (c *CPU) AddressRegisterPreIndexed(n, m int, cond ConditionCode, u bool) uint32 {
	address := applyOffset(c.Reg(n), c.Reg(m), u)
	if c.ConditionPassed(cond) {
		c.SetReg(n, address)
	}
	return address
}

// AddressScaledRegisterPreIndexed computes Rn +/- the scaled Rm and
// commits it to Rn when the condition passes (A5.2.7)
func (c *CPU) AddressScaledRegisterPreIndexed(shiftImm, shift uint8, n, m int, cond ConditionCode, u bool) uint32 {
	address := applyOffset(c.Reg(n), c.scaledIndex(shiftImm, shift, c.Reg(m)), u)
	if c.ConditionPassed(cond) {
		c.SetReg(n, address)
	}
	return address
}

// AddressImmediatePostIndexed returns Rn and advances it by offset_12 when
// the condition passes (A5.2.8)
func (c *CPU) AddressImmediatePostIndexed(offset12 uint16, n int, cond ConditionCode, u bool) uint32 {
	oldRn := c.Reg(n)
	if c.ConditionPassed(cond) {
		c.SetReg(n, applyOffset(oldRn, uint32(offset12), u))
	}
	return oldRn
}

// AddressRegisterPostIndexed returns Rn and advances it by Rm when the
// condition passes (A5.2.9)
func (c *CPU) AddressRegisterPostIndexed(n, m int, cond ConditionCode, u bool) uint32 {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if c.ConditionPassed(cond) {
		c.SetReg(n, applyOffset(oldRn, oldRm, u))
	}
	return oldRn
}

// AddressScaledRegisterPostIndexed returns Rn and advances it by the
// scaled Rm when the condition passes (A5.2.10)
func (c *CPU) AddressScaledRegisterPostIndexed(shiftImm, shift uint8, n, m int, cond ConditionCode, u bool) uint32 {
	oldRn := c.Reg(n)
	index := c.scaledIndex(shiftImm, shift, c.Reg(m))
	if c.ConditionPassed(cond) {
		c.SetReg(n, applyOffset(oldRn, index, u))
	}
	return oldRn
}

// MiscAddressImmediateOffset computes Rn +/- the split 8-bit immediate
// (immedH<<4 | immedL) of the miscellaneous load/store encodings (A5.3.2)
func (c *CPU) MiscAddressImmediateOffset(n int, immedL, immedH uint8, u bool) uint32 {
	offset8 := uint32(immedH)<<4 | uint32(immedL)
	return applyOffset(c.Reg(n), offset8, u)
}

// MiscAddressRegisterOffset computes Rn +/- Rm (A5.3.3)
func (c *CPU) MiscAddressRegisterOffset(n, m int, u bool) uint32 {
	return applyOffset(c.Reg(n), c.Reg(m), u)
}

// MiscAddressImmediatePreIndexed computes Rn +/- the split immediate and
// commits it to Rn when the condition passes (A5.3.4)
func (c *CPU) MiscAddressImmediatePreIndexed(n int, immedL, immedH uint8, cond ConditionCode, u bool) uint32 {
	offset8 := uint32(immedH)<<4 | uint32(immedL)
	address := applyOffset(c.Reg(n), offset8, u)
	if c.ConditionPassed(cond) {
		c.SetReg(n, address)
	}
	return address
}

// MiscAddressRegisterPreIndexed computes Rn +/- Rm and commits it to Rn
// when the condition passes (A5.3.5)
func (c *CPU) MiscAddressRegisterPreIndexed(n, m int, cond ConditionCode, u bool) uint32 {
	address := applyOffset(c.Reg(n), c.Reg(m), u)
	if c.ConditionPassed(cond) {
		c.SetReg(n, address)
	}
	return address
}

// MiscAddressImmediatePostIndexed returns Rn and advances it by the split
// immediate when the condition passes (A5.3.6)
func (c *CPU) MiscAddressImmediatePostIndexed(n int, immedL, immedH uint8, cond ConditionCode, u bool) uint32 {
	offset8 := uint32(immedH)<<4 | uint32(immedL)
	oldRn := c.Reg(n)
	if c.ConditionPassed(cond) {
		c.SetReg(n, applyOffset(oldRn, offset8, u))
	}
	return oldRn
}

// MiscAddressRegisterPostIndexed returns Rn and advances it by Rm when the
// condition passes (A5.3.7)
func (c *CPU) MiscAddressRegisterPostIndexed(n, m int, cond ConditionCode, u bool) uint32 {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if c.ConditionPassed(cond) {
		c.SetReg(n, applyOffset(oldRn, oldRm, u))
	}
	return oldRn
}

// BlockAddressIncrementAfter computes the LDM/STM IA block addresses: the
// transfer starts at Rn and the base advances past the block (A5.4.2).
// The base update is returned, never committed; the instruction commits it
// under its W bit.
func (c *CPU) BlockAddressIncrementAfter(registerList uint16, n int) (startAddress, newRn uint32) {
	oldRn := c.Reg(n)
	count := NumberOfSetBits(registerList) * 4
	return oldRn, oldRn + count
}

// BlockAddressIncrementBefore computes the LDM/STM IB block addresses (A5.4.3)
func (c *CPU) BlockAddressIncrementBefore(registerList uint16, n int) (startAddress, newRn uint32) {
	oldRn := c.Reg(n)
	count := NumberOfSetBits(registerList) * 4
	return oldRn + 4, oldRn + count
}

// BlockAddressDecrementAfter computes the LDM/STM DA block addresses (A5.4.4)
func (c *CPU) BlockAddressDecrementAfter(registerList uint16, n int) (startAddress, newRn uint32) {
	oldRn := c.Reg(n)
	count := NumberOfSetBits(registerList) * 4
	return oldRn - count + 4, oldRn - count
}

// BlockAddressDecrementBefore computes the LDM/STM DB block addresses (A5.4.5)
func (c *CPU) BlockAddressDecrementBefore(registerList uint16, n int) (startAddress, newRn uint32) {
	oldRn := c.Reg(n)
	count := NumberOfSetBits(registerList) * 4
	return oldRn - count, oldRn - count
}

// CoprocAddressImmediateOffset computes the LDC/STC start address
// Rn +/- offset_8*4; the transfer length is governed by the coprocessor's
// NotFinished polling, not by the address form (A5.5.2)
func (c *CPU) CoprocAddressImmediateOffset(offset8 uint8, n int, cond ConditionCode, u bool) uint32 {
	return applyOffset(c.Reg(n), uint32(offset8)*4, u)
}

// CoprocAddressImmediatePreIndexed computes Rn +/- offset_8*4 and commits
// it to Rn when the condition passes; the transfer starts at the updated
// base (A5.5.3)
func (c *CPU) CoprocAddressImmediatePreIndexed(offset8 uint8, n int, cond ConditionCode, u bool) uint32 {
	address := applyOffset(c.Reg(n), uint32(offset8)*4, u)
	if c.ConditionPassed(cond) {
		c.SetReg(n, address)
	}
	return address
}

// CoprocAddressImmediatePostIndexed starts the transfer at Rn and advances
// the base by offset_8*4 when the condition passes (A5.5.4)
func (c *CPU) CoprocAddressImmediatePostIndexed(offset8 uint8, n int, cond ConditionCode, u bool) uint32 {
	oldRn := c.Reg(n)
	if c.ConditionPassed(cond) {
		c.SetReg(n, applyOffset(oldRn, uint32(offset8)*4, u))
	}
	return oldRn
}

// CoprocAddressUnindexed starts the transfer at Rn with no base update
// (A5.5.5)
func (c *CPU) CoprocAddressUnindexed(n int, cond ConditionCode) uint32 {
	return c.Reg(n)
}
