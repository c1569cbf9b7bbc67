package vm

// Multiply and multiply-accumulate semantics (ARM ARM A4.1), covering the
// 32-bit, long, halfword, word-by-halfword, dual and most-significant-word
// families plus the sum-of-absolute-differences pair.

// signedHalf extracts halfword j of x as a signed 16-bit value
func signedHalf(x uint32, j uint) int32 {
	return int32(int16(GetHalf(x, j)))
}

// dualOperand applies the optional halfword swap of the dual-multiply
// family's second operand
func dualOperand(rs uint32, swap bool) uint32 {
	if swap {
		return RotateRight(rs, 16)
	}
	return rs
}

// MUL multiplies Rm by Rs, keeping the low 32 bits (A4.1.40)
func (c *CPU) MUL(s, m, d int, cond ConditionCode, setFlags bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRm * oldRs
	c.SetReg(d, result)
	if setFlags {
		c.CPSR.UpdateFlagsNZ(result)
	}
}

// MLA multiplies Rm by Rs and accumulates Rn, keeping the low 32 bits
// (A4.1.34)
func (c *CPU) MLA(s, n, m, d int, cond ConditionCode, setFlags bool) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRm*oldRs + oldRn
	c.SetReg(d, result)
	if setFlags {
		c.CPSR.UpdateFlagsNZ(result)
	}
}

// UMULL forms the unsigned 64-bit product of Rm and Rs in {RdHi, RdLo}
// (A4.1.129)
func (c *CPU) UMULL(s, m, dLo, dHi int, cond ConditionCode, setFlags bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	product := uint64(oldRm) * uint64(oldRs)
	c.SetReg(dHi, uint32(product>>32))
	c.SetReg(dLo, uint32(product))
	if setFlags {
		c.setFlagsLong(uint32(product>>32), uint32(product))
	}
}

// SMULL forms the signed 64-bit product of Rm and Rs in {RdHi, RdLo}
// (A4.1.87)
func (c *CPU) SMULL(s, m, dLo, dHi int, cond ConditionCode, setFlags bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	product := int64(int32(oldRm)) * int64(int32(oldRs))
	c.SetReg(dHi, uint32(uint64(product)>>32))
	c.SetReg(dLo, uint32(uint64(product)))
	if setFlags {
		c.setFlagsLong(uint32(uint64(product)>>32), uint32(uint64(product)))
	}
}

// UMLAL accumulates the unsigned 64-bit product of Rm and Rs into
// {RdHi, RdLo} (A4.1.128)
func (c *CPU) UMLAL(s, m, dLo, dHi int, cond ConditionCode, setFlags bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	acc := uint64(c.Reg(dHi))<<32 | uint64(c.Reg(dLo))
	result := acc + uint64(oldRm)*uint64(oldRs)
	c.SetReg(dHi, uint32(result>>32))
	c.SetReg(dLo, uint32(result))
	if setFlags {
		c.setFlagsLong(uint32(result>>32), uint32(result))
	}
}

// SMLAL accumulates the signed 64-bit product of Rm and Rs into
// {RdHi, RdLo} (A4.1.76)
func (c *CPU) SMLAL(s, m, dLo, dHi int, cond ConditionCode, setFlags bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	acc := uint64(c.Reg(dHi))<<32 | uint64(c.Reg(dLo))
	result := acc + uint64(int64(int32(oldRm))*int64(int32(oldRs)))
	c.SetReg(dHi, uint32(result>>32))
	c.SetReg(dLo, uint32(result))
	if setFlags {
		c.setFlagsLong(uint32(result>>32), uint32(result))
	}
}

// setFlagsLong applies the long-multiply flag rule: N from the high word,
// Z from the whole 64-bit result
func (c *CPU) setFlagsLong(hi, lo uint32) {
	c.CPSR.N = hi&SignBitMask != 0
	c.CPSR.Z = hi == 0 && lo == 0
}

// UMAAL accumulates the unsigned product of Rm and Rs plus both halves of
// the destination pair into {RdHi, RdLo} (A4.1.127)
func (c *CPU) UMAAL(s, m, dLo, dHi int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	result := uint64(oldRm)*uint64(oldRs) + uint64(c.Reg(dLo)) + uint64(c.Reg(dHi))
	c.SetReg(dLo, uint32(result))
	c.SetReg(dHi, uint32(result>>32))
}

// SMLA is SMLA<x><y>: a signed halfword product of Rm and Rs accumulated
// with Rn, setting Q on accumulate overflow (A4.1.74)
func (c *CPU) SMLA(y, x bool, s, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand1 := halfBySelector(oldRm, x)
	operand2 := halfBySelector(oldRs, y)
	product := uint32(operand1 * operand2)
	c.SetReg(d, product+oldRn)
	if OverflowFromAdd2(product, oldRn) {
		c.CPSR.Q = true
	}
}

// halfBySelector picks the low (false) or high (true) signed halfword
func halfBySelector(x uint32, hi bool) int32 {
	if hi {
		return signedHalf(x, 1)
	}
	return signedHalf(x, 0)
}

// SMLAL2 is SMLAL<x><y>: a signed halfword product accumulated into the
// 64-bit pair, with the carry propagated through the low half after the
// low-word addition (A4.1.77)
func (c *CPU) SMLAL2(y, x bool, s, m, dLo, dHi int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand1 := halfBySelector(oldRm, x)
	operand2 := halfBySelector(oldRs, y)
	product := uint32(operand1 * operand2)
	newLo := c.Reg(dLo) + product
	c.SetReg(dLo, newLo)
	hi := c.Reg(dHi)
	if operand1*operand2 < 0 {
		hi += Mask32Bit
	}
	if CarryFromAdd2(newLo, product) {
		hi++
	}
	c.SetReg(dHi, hi)
}

// SMLAW is SMLAW<y>: Rm times a signed halfword of Rs, taking bits 47:16
// of the 48-bit product, accumulated with Rn; Q set on accumulate
// overflow (A4.1.79)
func (c *CPU) SMLAW(y bool, s, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := halfBySelector(oldRs, y)
	product := uint32(int64(int32(oldRm)) * int64(operand2) >> 16)
	c.SetReg(d, product+oldRn)
	if OverflowFromAdd2(product, oldRn) {
		c.CPSR.Q = true
	}
}

// SMUL is SMUL<x><y>: a signed halfword-by-halfword multiply (A4.1.86)
func (c *CPU) SMUL(y, x bool, s, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, uint32(halfBySelector(oldRm, x)*halfBySelector(oldRs, y)))
}

// SMULW is SMULW<y>: Rm times a signed halfword of Rs, keeping bits 47:16
// (A4.1.88)
func (c *CPU) SMULW(y bool, s, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := halfBySelector(oldRs, y)
	c.SetReg(d, uint32(int64(int32(oldRm))*int64(operand2)>>16))
}

// SMLAD accumulates both signed halfword products of Rm and the optionally
// swapped Rs with Rn; Q set on accumulate overflow (A4.1.75)
func (c *CPU) SMLAD(s, n, m, d int, cond ConditionCode, swap bool) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := dualOperand(oldRs, swap)
	product1 := uint32(signedHalf(oldRm, 0) * signedHalf(operand2, 0))
	product2 := uint32(signedHalf(oldRm, 1) * signedHalf(operand2, 1))
	result := oldRn + product1 + product2
	c.SetReg(d, result)
	sum := int64(int32(oldRn)) + int64(int32(product1)) + int64(int32(product2))
	if sum != int64(int32(result)) {
		c.CPSR.Q = true
	}
}

// SMLSD accumulates the difference of the signed halfword products with Rn;
// Q set on accumulate overflow (A4.1.80)
func (c *CPU) SMLSD(s, n, m, d int, cond ConditionCode, swap bool) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := dualOperand(oldRs, swap)
	product1 := uint32(signedHalf(oldRm, 0) * signedHalf(operand2, 0))
	product2 := uint32(signedHalf(oldRm, 1) * signedHalf(operand2, 1))
	diff := product1 - product2
	c.SetReg(d, oldRn+diff)
	if OverflowFromAdd2(oldRn, diff) {
		c.CPSR.Q = true
	}
}

// SMLALD accumulates both signed halfword products into the 64-bit pair
// (A4.1.78)
func (c *CPU) SMLALD(s, m, dLo, dHi int, cond ConditionCode, swap bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := dualOperand(oldRs, swap)
	product1 := int64(signedHalf(oldRm, 0) * signedHalf(operand2, 0))
	product2 := int64(signedHalf(oldRm, 1) * signedHalf(operand2, 1))
	acc := int64(uint64(c.Reg(dHi))<<32 | uint64(c.Reg(dLo)))
	result := uint64(acc + product1 + product2)
	c.SetReg(dLo, uint32(result))
	c.SetReg(dHi, uint32(result>>32))
}

// SMLSLD accumulates the difference of the signed halfword products into
// the 64-bit pair (A4.1.81)
func (c *CPU) SMLSLD(s, m, dLo, dHi int, cond ConditionCode, swap bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := dualOperand(oldRs, swap)
	product1 := int64(signedHalf(oldRm, 0) * signedHalf(operand2, 0))
	product2 := int64(signedHalf(oldRm, 1) * signedHalf(operand2, 1))
	acc := int64(uint64(c.Reg(dHi))<<32 | uint64(c.Reg(dLo)))
	result := uint64(acc + product1 - product2)
	c.SetReg(dLo, uint32(result))
	c.SetReg(dHi, uint32(result>>32))
}

// SMUAD sums both signed halfword products; Q set on signed overflow of
// the sum (A4.1.85)
func (c *CPU) SMUAD(s, m, d int, cond ConditionCode, swap bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := dualOperand(oldRs, swap)
	product1 := uint32(signedHalf(oldRm, 0) * signedHalf(operand2, 0))
	product2 := uint32(signedHalf(oldRm, 1) * signedHalf(operand2, 1))
	c.SetReg(d, product1+product2)
	if OverflowFromAdd2(product1, product2) {
		c.CPSR.Q = true
	}
}

// SMUSD subtracts the high signed halfword product from the low one
// (A4.1.89)
func (c *CPU) SMUSD(s, m, d int, cond ConditionCode, swap bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := dualOperand(oldRs, swap)
	product1 := uint32(signedHalf(oldRm, 0) * signedHalf(operand2, 0))
	product2 := uint32(signedHalf(oldRm, 1) * signedHalf(operand2, 1))
	c.SetReg(d, product1-product2)
}

// SMMLA accumulates Rn with the most significant word of the signed
// 64-bit product; R=1 rounds half-up before truncation (A4.1.82)
func (c *CPU) SMMLA(s, n, m, d int, cond ConditionCode, round bool) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	product := int64(int32(oldRm)) * int64(int32(oldRs))
	value := uint64(oldRn)<<32 + uint64(product)
	if round {
		value += 0x80000000
	}
	c.SetReg(d, uint32(value>>32))
}

// SMMLS subtracts the signed product from Rn shifted into the high word;
// R=1 rounds half-up (A4.1.83)
func (c *CPU) SMMLS(s, n, m, d int, cond ConditionCode, round bool) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	product := int64(int32(oldRm)) * int64(int32(oldRs))
	value := uint64(oldRn)<<32 - uint64(product)
	if round {
		value += 0x80000000
	}
	c.SetReg(d, uint32(value>>32))
}

// SMMUL keeps the most significant word of the signed 64-bit product;
// R=1 rounds half-up (A4.1.84)
func (c *CPU) SMMUL(s, m, d int, cond ConditionCode, round bool) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	value := uint64(int64(int32(oldRm)) * int64(int32(oldRs)))
	if round {
		value += 0x80000000
	}
	c.SetReg(d, uint32(value>>32))
}

// byteAbsDiff is the absolute difference of two unsigned bytes
func byteAbsDiff(a, b uint8) uint32 {
	if a < b {
		return uint32(b - a)
	}
	return uint32(a - b)
}

// USAD8 sums the absolute differences of the four byte lanes of Rm and Rs
// (A4.1.136)
func (c *CPU) USAD8(s, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := byteAbsDiff(GetByte(oldRm, 0), GetByte(oldRs, 0)) +
		byteAbsDiff(GetByte(oldRm, 1), GetByte(oldRs, 1)) +
		byteAbsDiff(GetByte(oldRm, 2), GetByte(oldRs, 2)) +
		byteAbsDiff(GetByte(oldRm, 3), GetByte(oldRs, 3))
	c.SetReg(d, sum)
}

// USADA8 accumulates the byte absolute-difference sum with Rn (A4.1.137)
func (c *CPU) USADA8(s, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	oldRs := c.Reg(s)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := byteAbsDiff(GetByte(oldRm, 0), GetByte(oldRs, 0)) +
		byteAbsDiff(GetByte(oldRm, 1), GetByte(oldRs, 1)) +
		byteAbsDiff(GetByte(oldRm, 2), GetByte(oldRs, 2)) +
		byteAbsDiff(GetByte(oldRm, 3), GetByte(oldRs, 3))
	c.SetReg(d, oldRn+sum)
}
