package vm

// Saturating arithmetic, SIMD parallel add/subtract, packing, extension,
// byte-reversal and selection semantics (ARM ARM A4.1).
//
// The parallel families operate on independent byte or halfword lanes.
// Signed and unsigned (non-saturating) variants drive the CPSR GE lanes:
// signed lanes set GE when the signed lane result is non-negative,
// unsigned adds set GE on lane carry and unsigned subtracts on no-borrow.
// Saturating and halving variants leave GE alone and do not touch the
// sticky Q flag; Q is set only by the 32-bit saturating ops and by
// SSAT/USAT/SSAT16/USAT16.

// signedByte extracts byte i of x as a signed 8-bit value
func signedByte(x uint32, i uint) int32 {
	return int32(int8(GetByte(x, i)))
}

// QADD writes the signed saturated sum of Rm and Rn, setting Q on
// saturation (A4.1.46)
func (c *CPU) QADD(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := int64(int32(oldRm)) + int64(int32(oldRn))
	c.SetReg(d, SignedSat(sum, 32))
	if SignedDoesSat(sum, 32) {
		c.CPSR.Q = true
	}
}

// QSUB writes the signed saturated difference Rm-Rn, setting Q on
// saturation (A4.1.52)
func (c *CPU) QSUB(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	diff := int64(int32(oldRm)) - int64(int32(oldRn))
	c.SetReg(d, SignedSat(diff, 32))
	if SignedDoesSat(diff, 32) {
		c.CPSR.Q = true
	}
}

// QDADD saturates Rm + SignedSat(2*Rn); Q is set when either the doubling
// or the addition saturates (A4.1.50)
func (c *CPU) QDADD(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	doubled := int64(int32(oldRn)) * 2
	sum := int64(int32(oldRm)) + int64(int32(SignedSat(doubled, 32)))
	c.SetReg(d, SignedSat(sum, 32))
	if SignedDoesSat(sum, 32) || SignedDoesSat(doubled, 32) {
		c.CPSR.Q = true
	}
}

// QDSUB saturates Rm - SignedSat(2*Rn); Q is set when either step
// saturates (A4.1.51)
func (c *CPU) QDSUB(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	doubled := int64(int32(oldRn)) * 2
	diff := int64(int32(oldRm)) - int64(int32(SignedSat(doubled, 32)))
	c.SetReg(d, SignedSat(diff, 32))
	if SignedDoesSat(diff, 32) || SignedDoesSat(doubled, 32) {
		c.CPSR.Q = true
	}
}

// SADD16 adds halfword lanes, setting each GE pair when the signed lane
// sum is non-negative (A4.1.62)
func (c *CPU) SADD16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		sum := int32(signedHalf(oldRn, j)) + int32(signedHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, uint32(uint16(sum)))
		if sum >= 0 {
			c.CPSR.SetGEField(2*j+1, 2*j, 3)
		} else {
			c.CPSR.SetGEField(2*j+1, 2*j, 0)
		}
	}
	c.SetReg(d, result)
}

// SADD8 adds byte lanes, setting each GE bit when the signed lane sum is
// non-negative (A4.1.63)
func (c *CPU) SADD8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		sum := signedByte(oldRn, i) + signedByte(oldRm, i)
		result = SetField(result, 8*i+7, 8*i, uint32(uint8(sum)))
		c.CPSR.SetGEBit(i, sum >= 0)
	}
	c.SetReg(d, result)
}

// SADDSUBX adds the cross high pair and subtracts the cross low pair,
// with the signed GE rule per lane pair (A4.1.64)
func (c *CPU) SADDSUBX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := signedHalf(oldRn, 1) + signedHalf(oldRm, 0)
	diff := signedHalf(oldRn, 0) - signedHalf(oldRm, 1)
	result := SetField(0, 31, 16, uint32(uint16(sum)))
	result = SetField(result, 15, 0, uint32(uint16(diff)))
	if sum >= 0 {
		c.CPSR.SetGEField(3, 2, 3)
	} else {
		c.CPSR.SetGEField(3, 2, 0)
	}
	if diff >= 0 {
		c.CPSR.SetGEField(1, 0, 3)
	} else {
		c.CPSR.SetGEField(1, 0, 0)
	}
	c.SetReg(d, result)
}

// SSUB16 subtracts halfword lanes with the signed GE rule (A4.1.93)
func (c *CPU) SSUB16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		diff := signedHalf(oldRn, j) - signedHalf(oldRm, j)
		result = SetField(result, 16*j+15, 16*j, uint32(uint16(diff)))
		if diff >= 0 {
			c.CPSR.SetGEField(2*j+1, 2*j, 3)
		} else {
			c.CPSR.SetGEField(2*j+1, 2*j, 0)
		}
	}
	c.SetReg(d, result)
}

// SSUB8 subtracts byte lanes with the signed GE rule (A4.1.94)
func (c *CPU) SSUB8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		diff := signedByte(oldRn, i) - signedByte(oldRm, i)
		result = SetField(result, 8*i+7, 8*i, uint32(uint8(diff)))
		c.CPSR.SetGEBit(i, diff >= 0)
	}
	c.SetReg(d, result)
}

// SSUBADDX subtracts the cross high pair and adds the cross low pair,
// with the signed GE rule per lane pair (A4.1.95)
func (c *CPU) SSUBADDX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	diff := signedHalf(oldRn, 1) - signedHalf(oldRm, 0)
	sum := signedHalf(oldRn, 0) + signedHalf(oldRm, 1)
	result := SetField(0, 31, 16, uint32(uint16(diff)))
	result = SetField(result, 15, 0, uint32(uint16(sum)))
	if diff >= 0 {
		c.CPSR.SetGEField(3, 2, 3)
	} else {
		c.CPSR.SetGEField(3, 2, 0)
	}
	if sum >= 0 {
		c.CPSR.SetGEField(1, 0, 3)
	} else {
		c.CPSR.SetGEField(1, 0, 0)
	}
	c.SetReg(d, result)
}

// UADD16 adds halfword lanes, setting each GE pair on lane carry (A4.1.118)
func (c *CPU) UADD16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		a, b := uint32(GetHalf(oldRn, j)), uint32(GetHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, a+b)
		if CarryFromAdd16(a, b) {
			c.CPSR.SetGEField(2*j+1, 2*j, 3)
		} else {
			c.CPSR.SetGEField(2*j+1, 2*j, 0)
		}
	}
	c.SetReg(d, result)
}

// UADD8 adds byte lanes, setting each GE bit on lane carry (A4.1.119)
func (c *CPU) UADD8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		a, b := uint32(GetByte(oldRn, i)), uint32(GetByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, a+b)
		c.CPSR.SetGEBit(i, CarryFromAdd8(a, b))
	}
	c.SetReg(d, result)
}

// UADDSUBX adds the cross high pair and subtracts the cross low pair,
// with the unsigned GE rule per lane pair (A4.1.120)
func (c *CPU) UADDSUBX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	hiN, loN := uint32(GetHalf(oldRn, 1)), uint32(GetHalf(oldRn, 0))
	hiM, loM := uint32(GetHalf(oldRm, 1)), uint32(GetHalf(oldRm, 0))
	result := SetField(0, 31, 16, hiN+loM)
	result = SetField(result, 15, 0, loN-hiM)
	if CarryFromAdd16(hiN, loM) {
		c.CPSR.SetGEField(3, 2, 3)
	} else {
		c.CPSR.SetGEField(3, 2, 0)
	}
	if !BorrowFromSub2(loN, hiM) {
		c.CPSR.SetGEField(1, 0, 3)
	} else {
		c.CPSR.SetGEField(1, 0, 0)
	}
	c.SetReg(d, result)
}

// USUB16 subtracts halfword lanes, setting each GE pair on no-borrow
// (A4.1.140)
func (c *CPU) USUB16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		a, b := uint32(GetHalf(oldRn, j)), uint32(GetHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, a-b)
		if !BorrowFromSub2(a, b) {
			c.CPSR.SetGEField(2*j+1, 2*j, 3)
		} else {
			c.CPSR.SetGEField(2*j+1, 2*j, 0)
		}
	}
	c.SetReg(d, result)
}

// USUB8 subtracts byte lanes, setting each GE bit on no-borrow (A4.1.141)
func (c *CPU) USUB8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		a, b := uint32(GetByte(oldRn, i)), uint32(GetByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, a-b)
		c.CPSR.SetGEBit(i, !BorrowFromSub2(a, b))
	}
	c.SetReg(d, result)
}

// USUBADDX subtracts the cross high pair and adds the cross low pair,
// with the unsigned GE rule per lane pair (A4.1.142)
func (c *CPU) USUBADDX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	hiN, loN := uint32(GetHalf(oldRn, 1)), uint32(GetHalf(oldRn, 0))
	hiM, loM := uint32(GetHalf(oldRm, 1)), uint32(GetHalf(oldRm, 0))
	result := SetField(0, 31, 16, hiN-loM)
	result = SetField(result, 15, 0, loN+hiM)
	if !BorrowFromSub2(hiN, loM) {
		c.CPSR.SetGEField(3, 2, 3)
	} else {
		c.CPSR.SetGEField(3, 2, 0)
	}
	if CarryFromAdd16(loN, hiM) {
		c.CPSR.SetGEField(1, 0, 3)
	} else {
		c.CPSR.SetGEField(1, 0, 0)
	}
	c.SetReg(d, result)
}

// QADD16 adds halfword lanes with signed saturation; per-lane saturation
// is not recorded (A4.1.47)
func (c *CPU) QADD16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		sum := int64(signedHalf(oldRn, j)) + int64(signedHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, SignedSat(sum, 16))
	}
	c.SetReg(d, result)
}

// QADD8 adds byte lanes with signed saturation (A4.1.48)
func (c *CPU) QADD8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		sum := int64(signedByte(oldRn, i)) + int64(signedByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, SignedSat(sum, 8))
	}
	c.SetReg(d, result)
}

// QADDSUBX is the saturating cross add/subtract (A4.1.49)
func (c *CPU) QADDSUBX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := int64(signedHalf(oldRn, 1)) + int64(signedHalf(oldRm, 0))
	diff := int64(signedHalf(oldRn, 0)) - int64(signedHalf(oldRm, 1))
	result := SetField(0, 31, 16, SignedSat(sum, 16))
	result = SetField(result, 15, 0, SignedSat(diff, 16))
	c.SetReg(d, result)
}

// QSUB16 subtracts halfword lanes with signed saturation (A4.1.53)
func (c *CPU) QSUB16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		diff := int64(signedHalf(oldRn, j)) - int64(signedHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, SignedSat(diff, 16))
	}
	c.SetReg(d, result)
}

// QSUB8 subtracts byte lanes with signed saturation (A4.1.54)
func (c *CPU) QSUB8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		diff := int64(signedByte(oldRn, i)) - int64(signedByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, SignedSat(diff, 8))
	}
	c.SetReg(d, result)
}

// QSUBADDX is the saturating cross subtract/add (A4.1.55)
func (c *CPU) QSUBADDX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	diff := int64(signedHalf(oldRn, 1)) - int64(signedHalf(oldRm, 0))
	sum := int64(signedHalf(oldRn, 0)) + int64(signedHalf(oldRm, 1))
	result := SetField(0, 31, 16, SignedSat(diff, 16))
	result = SetField(result, 15, 0, SignedSat(sum, 16))
	c.SetReg(d, result)
}

// UQADD16 adds halfword lanes with unsigned saturation (A4.1.130)
func (c *CPU) UQADD16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		sum := int64(GetHalf(oldRn, j)) + int64(GetHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, UnsignedSat(sum, 16))
	}
	c.SetReg(d, result)
}

// UQADD8 adds byte lanes with unsigned saturation (A4.1.131)
func (c *CPU) UQADD8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		sum := int64(GetByte(oldRn, i)) + int64(GetByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, UnsignedSat(sum, 8))
	}
	c.SetReg(d, result)
}

// UQADDSUBX is the unsigned saturating cross add/subtract (A4.1.132)
func (c *CPU) UQADDSUBX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := int64(GetHalf(oldRn, 1)) + int64(GetHalf(oldRm, 0))
	diff := int64(GetHalf(oldRn, 0)) - int64(GetHalf(oldRm, 1))
	result := SetField(0, 31, 16, UnsignedSat(sum, 16))
	result = SetField(result, 15, 0, UnsignedSat(diff, 16))
	c.SetReg(d, result)
}

// UQSUB16 subtracts halfword lanes with unsigned saturation (A4.1.133)
func (c *CPU) UQSUB16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		diff := int64(GetHalf(oldRn, j)) - int64(GetHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, UnsignedSat(diff, 16))
	}
	c.SetReg(d, result)
}

// UQSUB8 subtracts byte lanes with unsigned saturation (A4.1.134)
func (c *CPU) UQSUB8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		diff := int64(GetByte(oldRn, i)) - int64(GetByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, UnsignedSat(diff, 8))
	}
	c.SetReg(d, result)
}

// UQSUBADDX is the unsigned saturating cross subtract/add (A4.1.135)
func (c *CPU) UQSUBADDX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	diff := int64(GetHalf(oldRn, 1)) - int64(GetHalf(oldRm, 0))
	sum := int64(GetHalf(oldRn, 0)) + int64(GetHalf(oldRm, 1))
	result := SetField(0, 31, 16, UnsignedSat(diff, 16))
	result = SetField(result, 15, 0, UnsignedSat(sum, 16))
	c.SetReg(d, result)
}

// SHADD16 adds halfword lanes, halving the signed result (A4.1.68)
func (c *CPU) SHADD16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		sum := signedHalf(oldRn, j) + signedHalf(oldRm, j)
		result = SetField(result, 16*j+15, 16*j, uint32(sum>>1))
	}
	c.SetReg(d, result)
}

// SHADD8 adds byte lanes, halving the signed result (A4.1.69)
func (c *CPU) SHADD8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		sum := signedByte(oldRn, i) + signedByte(oldRm, i)
		result = SetField(result, 8*i+7, 8*i, uint32(sum>>1))
	}
	c.SetReg(d, result)
}

// SHADDSUBX is the signed halving cross add/subtract (A4.1.70)
func (c *CPU) SHADDSUBX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := signedHalf(oldRn, 1) + signedHalf(oldRm, 0)
	diff := signedHalf(oldRn, 0) - signedHalf(oldRm, 1)
	result := SetField(0, 31, 16, uint32(sum>>1))
	result = SetField(result, 15, 0, uint32(diff>>1))
	c.SetReg(d, result)
}

// SHSUB16 subtracts halfword lanes, halving the signed result (A4.1.71)
func (c *CPU) SHSUB16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		diff := signedHalf(oldRn, j) - signedHalf(oldRm, j)
		result = SetField(result, 16*j+15, 16*j, uint32(diff>>1))
	}
	c.SetReg(d, result)
}

// SHSUB8 subtracts byte lanes, halving the signed result (A4.1.72)
func (c *CPU) SHSUB8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		diff := signedByte(oldRn, i) - signedByte(oldRm, i)
		result = SetField(result, 8*i+7, 8*i, uint32(diff>>1))
	}
	c.SetReg(d, result)
}

// SHSUBADDX is the signed halving cross subtract/add (A4.1.73)
func (c *CPU) SHSUBADDX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	diff := signedHalf(oldRn, 1) - signedHalf(oldRm, 0)
	sum := signedHalf(oldRn, 0) + signedHalf(oldRm, 1)
	result := SetField(0, 31, 16, uint32(diff>>1))
	result = SetField(result, 15, 0, uint32(sum>>1))
	c.SetReg(d, result)
}

// UHADD16 adds halfword lanes, halving the unsigned result (A4.1.121)
func (c *CPU) UHADD16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		sum := uint32(GetHalf(oldRn, j)) + uint32(GetHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, sum>>1)
	}
	c.SetReg(d, result)
}

// UHADD8 adds byte lanes, halving the unsigned result (A4.1.122)
func (c *CPU) UHADD8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		sum := uint32(GetByte(oldRn, i)) + uint32(GetByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, sum>>1)
	}
	c.SetReg(d, result)
}

// UHADDSUBX is the unsigned halving cross add/subtract (A4.1.123)
func (c *CPU) UHADDSUBX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	sum := uint32(GetHalf(oldRn, 1)) + uint32(GetHalf(oldRm, 0))
	diff := uint32(GetHalf(oldRn, 0)) - uint32(GetHalf(oldRm, 1))
	result := SetField(0, 31, 16, sum>>1)
	result = SetField(result, 15, 0, diff>>1&0xFFFF)
	c.SetReg(d, result)
}

// UHSUB16 subtracts halfword lanes, halving the unsigned result (A4.1.124)
func (c *CPU) UHSUB16(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for j := uint(0); j < 2; j++ {
		diff := uint32(GetHalf(oldRn, j)) - uint32(GetHalf(oldRm, j))
		result = SetField(result, 16*j+15, 16*j, diff>>1&0xFFFF)
	}
	c.SetReg(d, result)
}

// UHSUB8 subtracts byte lanes, halving the unsigned result (A4.1.125)
func (c *CPU) UHSUB8(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		diff := uint32(GetByte(oldRn, i)) - uint32(GetByte(oldRm, i))
		result = SetField(result, 8*i+7, 8*i, diff>>1&0xFF)
	}
	c.SetReg(d, result)
}

// UHSUBADDX is the unsigned halving cross subtract/add (A4.1.126)
func (c *CPU) UHSUBADDX(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	diff := uint32(GetHalf(oldRn, 1)) - uint32(GetHalf(oldRm, 0))
	sum := uint32(GetHalf(oldRn, 0)) + uint32(GetHalf(oldRm, 1))
	result := SetField(0, 31, 16, diff>>1&0xFFFF)
	result = SetField(result, 15, 0, sum>>1)
	c.SetReg(d, result)
}

// SSAT saturates the shifted Rm into a signed sat_imm+1 bit range;
// shift=true selects ASR (shift_imm=0 meaning ASR #32), otherwise LSL.
// Q is set on saturation. (A4.1.91)
func (c *CPU) SSAT(shiftImm uint8, shift bool, satImm uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	var operand uint32
	if shift {
		if shiftImm == 0 {
			operand = Asr(oldRm, 32)
		} else {
			operand = Asr(oldRm, uint(shiftImm))
		}
	} else {
		operand = oldRm << shiftImm
	}
	width := uint(satImm) + 1
	c.SetReg(d, SignedSat(int64(int32(operand)), width))
	if SignedDoesSat(int64(int32(operand)), width) {
		c.CPSR.Q = true
	}
}

// SSAT16 saturates both halfword lanes into a signed sat_imm+1 bit range
// (A4.1.92)
func (c *CPU) SSAT16(satImm uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	width := uint(satImm) + 1
	lo := int64(signedHalf(oldRm, 0))
	hi := int64(signedHalf(oldRm, 1))
	result := SetField(0, 15, 0, SignedSat(lo, width))
	result = SetField(result, 31, 16, SignedSat(hi, width))
	c.SetReg(d, result)
	if SignedDoesSat(lo, width) || SignedDoesSat(hi, width) {
		c.CPSR.Q = true
	}
}

// USAT saturates the shifted Rm into an unsigned sat_imm bit range; Q is
// set on saturation (A4.1.138)
func (c *CPU) USAT(shiftImm uint8, shift bool, satImm uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	var operand uint32
	if shift {
		if shiftImm == 0 {
			operand = Asr(oldRm, 32)
		} else {
			operand = Asr(oldRm, uint(shiftImm))
		}
	} else {
		operand = oldRm << shiftImm
	}
	width := uint(satImm)
	c.SetReg(d, UnsignedSat(int64(int32(operand)), width))
	if UnsignedDoesSat(int64(int32(operand)), width) {
		c.CPSR.Q = true
	}
}

// USAT16 saturates both halfword lanes into an unsigned sat_imm bit range
// (A4.1.139)
func (c *CPU) USAT16(satImm uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	width := uint(satImm)
	lo := int64(signedHalf(oldRm, 0))
	hi := int64(signedHalf(oldRm, 1))
	result := SetField(0, 15, 0, UnsignedSat(lo, width))
	result = SetField(result, 31, 16, UnsignedSat(hi, width))
	c.SetReg(d, result)
	if UnsignedDoesSat(lo, width) || UnsignedDoesSat(hi, width) {
		c.CPSR.Q = true
	}
}

// SEL selects each result byte from Rn or Rm by the corresponding GE bit
// (A4.1.66)
func (c *CPU) SEL(n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var result uint32
	for i := uint(0); i < 4; i++ {
		src := oldRm
		if c.CPSR.GE>>i&1 == 1 {
			src = oldRn
		}
		result = SetField(result, 8*i+7, 8*i, uint32(GetByte(src, i)))
	}
	c.SetReg(d, result)
}

// PKHBT packs the low halfword of Rn with the high halfword of Rm shifted
// left (A4.1.43)
func (c *CPU) PKHBT(shiftImm uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := SetField(0, 15, 0, uint32(GetHalf(oldRn, 0)))
	result = SetField(result, 31, 16, uint32(GetHalf(oldRm<<shiftImm, 1)))
	c.SetReg(d, result)
}

// PKHTB packs the high halfword of Rn with the low halfword of Rm shifted
// arithmetically right; shift_imm=0 means ASR #32 (A4.1.44)
func (c *CPU) PKHTB(shiftImm uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	var low uint32
	if shiftImm == 0 {
		if oldRm&SignBitMask != 0 {
			low = 0xFFFF
		}
	} else {
		low = uint32(GetHalf(Asr(oldRm, uint(shiftImm)), 0))
	}
	result := SetField(0, 15, 0, low)
	result = SetField(result, 31, 16, uint32(GetHalf(oldRn, 1)))
	c.SetReg(d, result)
}

// REV reverses the byte order of Rm (A4.1.56)
func (c *CPU) REV(m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	result := uint32(GetByte(oldRm, 0))<<24 |
		uint32(GetByte(oldRm, 1))<<16 |
		uint32(GetByte(oldRm, 2))<<8 |
		uint32(GetByte(oldRm, 3))
	c.SetReg(d, result)
}

// REV16 reverses the byte order within each halfword of Rm (A4.1.57)
func (c *CPU) REV16(m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	result := uint32(GetByte(oldRm, 0))<<8 |
		uint32(GetByte(oldRm, 1)) |
		uint32(GetByte(oldRm, 2))<<24 |
		uint32(GetByte(oldRm, 3))<<16
	c.SetReg(d, result)
}

// REVSH reverses the low two bytes of Rm and sign-extends from bit 7 of
// Rm, the top bit of the swapped halfword (A4.1.58)
func (c *CPU) REVSH(m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	result := uint32(GetByte(oldRm, 0))<<8 | uint32(GetByte(oldRm, 1))
	if oldRm>>7&1 == 1 {
		result |= 0xFFFF0000
	}
	c.SetReg(d, result)
}

// SXTB sign-extends byte 0 of the rotated Rm (A4.1.113)
func (c *CPU) SXTB(rotate uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := RotateRight(oldRm, 8*uint32(rotate))
	c.SetReg(d, SignExtendByte(GetByte(operand2, 0)))
}

// SXTB16 sign-extends bytes 0 and 2 of the rotated Rm into both halfwords
// (A4.1.114)
func (c *CPU) SXTB16(rotate uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := RotateRight(oldRm, 8*uint32(rotate))
	result := SetField(0, 15, 0, SignExtendByte(GetByte(operand2, 0)))
	result = SetField(result, 31, 16, SignExtendByte(GetByte(operand2, 2)))
	c.SetReg(d, result)
}

// SXTH sign-extends halfword 0 of the rotated Rm (A4.1.115)
func (c *CPU) SXTH(rotate uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := RotateRight(oldRm, 8*uint32(rotate))
	c.SetReg(d, SignExtendHalf(GetHalf(operand2, 0)))
}

// SXTAB adds the sign-extended byte 0 of the rotated Rm to Rn (A4.1.110)
func (c *CPU) SXTAB(rotate uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := RotateRight(oldRm, 8*uint32(rotate))
	c.SetReg(d, oldRn+SignExtendByte(GetByte(operand2, 0)))
}

// SXTAB16 adds the sign-extended bytes 0 and 2 of the rotated Rm to the
// halfwords of Rn (A4.1.111)
func (c *CPU) SXTAB16(rotate uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := RotateRight(oldRm, 8*uint32(rotate))
	result := SetField(0, 15, 0, uint32(GetHalf(oldRn, 0))+SignExtendByte(GetByte(operand2, 0)))
	result = SetField(result, 31, 16, uint32(GetHalf(oldRn, 1))+SignExtendByte(GetByte(operand2, 2)))
	c.SetReg(d, result)
}

// SXTAH adds the sign-extended halfword 0 of the rotated Rm to Rn
// (A4.1.112)
func (c *CPU) SXTAH(rotate uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := RotateRight(oldRm, 8*uint32(rotate))
	c.SetReg(d, oldRn+SignExtendHalf(GetHalf(operand2, 0)))
}

// UXTB zero-extends byte 0 of the rotated Rm (A4.1.146)
func (c *CPU) UXTB(rotate uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, RotateRight(oldRm, 8*uint32(rotate))&0x000000FF)
}

// UXTB16 zero-extends bytes 0 and 2 of the rotated Rm (A4.1.147)
func (c *CPU) UXTB16(rotate uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, RotateRight(oldRm, 8*uint32(rotate))&0x00FF00FF)
}

// UXTH zero-extends halfword 0 of the rotated Rm (A4.1.148)
func (c *CPU) UXTH(rotate uint8, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, RotateRight(oldRm, 8*uint32(rotate))&0x0000FFFF)
}

// UXTAB adds the zero-extended byte 0 of the rotated Rm to Rn (A4.1.143)
func (c *CPU) UXTAB(rotate uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, oldRn+RotateRight(oldRm, 8*uint32(rotate))&0x000000FF)
}

// UXTAB16 adds the zero-extended bytes 0 and 2 of the rotated Rm to the
// halfwords of Rn (A4.1.144)
func (c *CPU) UXTAB16(rotate uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	operand2 := RotateRight(oldRm, 8*uint32(rotate)) & 0x00FF00FF
	result := SetField(0, 15, 0, uint32(GetHalf(oldRn, 0))+uint32(GetHalf(operand2, 0)))
	result = SetField(result, 31, 16, uint32(GetHalf(oldRn, 1))+uint32(GetByte(operand2, 2)))
	c.SetReg(d, result)
}

// UXTAH adds the zero-extended halfword 0 of the rotated Rm to Rn
// (A4.1.145)
func (c *CPU) UXTAH(rotate uint8, n, m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, oldRn+RotateRight(oldRm, 8*uint32(rotate))&0x0000FFFF)
}
