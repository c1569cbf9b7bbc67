package vm

// Data-processing operand computation: the eleven shifter forms of ARM ARM
// A5.1. Each form yields the shifter operand and the shifter carry out the
// logical instructions fold into CPSR.C.

// ShifterOperandImmediate computes the 8-bit immediate rotated right by
// twice rotate_imm (A5.1.3)
func (c *CPU) ShifterOperandImmediate(rotateImm, immed8 uint8) (uint32, bool) {
	operand := RotateRight(uint32(immed8), uint32(rotateImm)*2)
	if rotateImm == 0 {
		return operand, c.CPSR.C
	}
	return operand, operand&SignBitMask != 0
}

// ShifterOperandRegister passes Rm through unshifted (A5.1.4)
func (c *CPU) ShifterOperandRegister(m int) (uint32, bool) {
	return c.Reg(m), c.CPSR.C
}

// ShifterOperandLSLImmediate computes Rm logically shifted left by an
// immediate; shift_imm=0 passes Rm through (A5.1.5)
func (c *CPU) ShifterOperandLSLImmediate(shiftImm uint8, m int) (uint32, bool) {
	rm := c.Reg(m)
	if shiftImm == 0 {
		return rm, c.CPSR.C
	}
	return rm << shiftImm, rm>>(32-uint(shiftImm))&1 != 0
}

// ShifterOperandLSLRegister computes Rm logically shifted left by the low
// byte of Rs (A5.1.6)
func (c *CPU) ShifterOperandLSLRegister(s, m int) (uint32, bool) {
	rm := c.Reg(m)
	shift := uint(GetByte(c.Reg(s), 0))
	switch {
	case shift == 0:
		return rm, c.CPSR.C
	case shift < 32:
		return rm << shift, rm>>(32-shift)&1 != 0
	case shift == 32:
		return 0, rm&1 != 0
	default:
		return 0, false
	}
}

// ShifterOperandLSRImmediate computes Rm logically shifted right by an
// immediate; shift_imm=0 encodes LSR #32 (A5.1.7)
func (c *CPU) ShifterOperandLSRImmediate(shiftImm uint8, m int) (uint32, bool) {
	rm := c.Reg(m)
	if shiftImm == 0 {
		return 0, rm&SignBitMask != 0
	}
	return rm >> shiftImm, rm>>(uint(shiftImm)-1)&1 != 0
}

// ShifterOperandLSRRegister computes Rm logically shifted right by the low
// byte of Rs (A5.1.8)
func (c *CPU) ShifterOperandLSRRegister(s, m int) (uint32, bool) {
	rm := c.Reg(m)
	shift := uint(GetByte(c.Reg(s), 0))
	switch {
	case shift == 0:
		return rm, c.CPSR.C
	case shift < 32:
		return rm >> shift, rm>>(shift-1)&1 != 0
	case shift == 32:
		return 0, rm&SignBitMask != 0
	default:
		return 0, false
	}
}

// ShifterOperandASRImmediate computes Rm arithmetically shifted right by an
// immediate; shift_imm=0 encodes ASR #32 (A5.1.9)
func (c *CPU) ShifterOperandASRImmediate(shiftImm uint8, m int) (uint32, bool) {
	rm := c.Reg(m)
	if shiftImm == 0 {
		if rm&SignBitMask == 0 {
			return 0, false
		}
		return Mask32Bit, true
	}
	return Asr(rm, uint(shiftImm)), rm>>(uint(shiftImm)-1)&1 != 0
}

// ShifterOperandASRRegister computes Rm arithmetically shifted right by the
// low byte of Rs (A5.1.10)
func (c *CPU) ShifterOperandASRRegister(s, m int) (uint32, bool) {
	rm := c.Reg(m)
	shift := uint(GetByte(c.Reg(s), 0))
	switch {
	case shift == 0:
		return rm, c.CPSR.C
	case shift < 32:
		return Asr(rm, shift), rm>>(shift-1)&1 != 0
	default:
		if rm&SignBitMask == 0 {
			return 0, false
		}
		return Mask32Bit, true
	}
}

// ShifterOperandRORImmediate computes Rm rotated right by an immediate;
// shift_imm=0 encodes RRX (A5.1.11)
func (c *CPU) ShifterOperandRORImmediate(shiftImm uint8, m int) (uint32, bool) {
	if shiftImm == 0 {
		return c.ShifterOperandRRX(m)
	}
	rm := c.Reg(m)
	return RotateRight(rm, uint32(shiftImm)), rm>>(uint(shiftImm)-1)&1 != 0
}

// ShifterOperandRORRegister computes Rm rotated right by the low byte of
// Rs; a zero byte passes Rm through and a multiple of 32 passes Rm through
// with carry from bit 31 (A5.1.12)
func (c *CPU) ShifterOperandRORRegister(s, m int) (uint32, bool) {
	rm := c.Reg(m)
	rs := c.Reg(s)
	if GetByte(rs, 0) == 0 {
		return rm, c.CPSR.C
	}
	shift := GetBits(rs, 4, 0)
	if shift == 0 {
		return rm, rm&SignBitMask != 0
	}
	return RotateRight(rm, shift), rm>>(shift-1)&1 != 0
}

// ShifterOperandRRX rotates Rm right one position through the carry flag
// (A5.1.13)
func (c *CPU) ShifterOperandRRX(m int) (uint32, bool) {
	rm := c.Reg(m)
	operand := rm >> 1
	if c.CPSR.C {
		operand |= SignBitMask
	}
	return operand, rm&1 != 0
}
