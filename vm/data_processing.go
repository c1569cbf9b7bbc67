package vm

// Data-processing instruction semantics (ARM ARM A4.1). Every transformer
// receives the precomputed shifter operand, snapshots its source registers
// before any destination write, gates on the condition, and applies the
// family's flag rule. S=1 with destination PC restores CPSR from the SPSR
// when the current mode has one and is otherwise UNPREDICTABLE.

// writeFlagsArith applies the arithmetic-family flag rule
func (c *CPU) writeFlagsArith(result uint32, carry, overflow bool) {
	c.CPSR.UpdateFlagsNZCV(result, carry, overflow)
}

// writeFlagsLogical applies the logical-family flag rule: C comes from the
// shifter, V is untouched
func (c *CPU) writeFlagsLogical(result uint32, shifterCarryOut bool) {
	c.CPSR.UpdateFlagsNZC(result, shifterCarryOut)
}

// restoreCPSRorUnpredictable performs the S=1, d=15 SPSR transfer
func (c *CPU) restoreCPSRorUnpredictable(mnemonic string) {
	if c.CurrentModeHasSPSR() {
		c.CPSR = c.SPSR()
	} else {
		c.unpredictable(mnemonic, "S=1 with destination PC and no SPSR")
	}
}

// AND performs bitwise AND (A4.1.4)
func (c *CPU) AND(shifterOperand uint32, shifterCarryOut bool, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn & shifterOperand
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("AND")
	} else if s {
		c.writeFlagsLogical(result, shifterCarryOut)
	}
}

// EOR performs bitwise exclusive OR (A4.1.18)
func (c *CPU) EOR(shifterOperand uint32, shifterCarryOut bool, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn ^ shifterOperand
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("EOR")
	} else if s {
		c.writeFlagsLogical(result, shifterCarryOut)
	}
}

// SUB subtracts the shifter operand from Rn (A4.1.106)
func (c *CPU) SUB(shifterOperand uint32, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn - shifterOperand
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("SUB")
	} else if s {
		c.writeFlagsArith(result, !BorrowFromSub2(oldRn, shifterOperand), OverflowFromSub2(oldRn, shifterOperand))
	}
}

// RSB subtracts Rn from the shifter operand (A4.1.60)
func (c *CPU) RSB(shifterOperand uint32, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := shifterOperand - oldRn
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("RSB")
	} else if s {
		c.writeFlagsArith(result, !BorrowFromSub2(shifterOperand, oldRn), OverflowFromSub2(shifterOperand, oldRn))
	}
}

// ADD adds Rn and the shifter operand (A4.1.3)
func (c *CPU) ADD(shifterOperand uint32, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn + shifterOperand
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("ADD")
	} else if s {
		c.writeFlagsArith(result, CarryFromAdd2(oldRn, shifterOperand), OverflowFromAdd2(oldRn, shifterOperand))
	}
}

// ADC adds Rn, the shifter operand and the carry flag (A4.1.2)
func (c *CPU) ADC(shifterOperand uint32, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	carryIn := c.CPSR.C
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn + shifterOperand
	if carryIn {
		result++
	}
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("ADC")
	} else if s {
		c.writeFlagsArith(result, CarryFromAdd3(oldRn, shifterOperand, carryIn), OverflowFromAdd3(oldRn, shifterOperand, carryIn))
	}
}

// SBC subtracts the shifter operand and the inverted carry from Rn (A4.1.65)
func (c *CPU) SBC(shifterOperand uint32, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	borrowIn := !c.CPSR.C
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn - shifterOperand
	if borrowIn {
		result--
	}
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("SBC")
	} else if s {
		c.writeFlagsArith(result, !BorrowFromSub3(oldRn, shifterOperand, borrowIn), OverflowFromSub3(oldRn, shifterOperand, borrowIn))
	}
}

// RSC subtracts Rn and the inverted carry from the shifter operand (A4.1.61)
func (c *CPU) RSC(shifterOperand uint32, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	borrowIn := !c.CPSR.C
	if !c.ConditionPassed(cond) {
		return
	}
	result := shifterOperand - oldRn
	if borrowIn {
		result--
	}
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("RSC")
	} else if s {
		c.writeFlagsArith(result, !BorrowFromSub3(shifterOperand, oldRn, borrowIn), OverflowFromSub3(shifterOperand, oldRn, borrowIn))
	}
}

// TST tests Rn against the shifter operand (AND without result, A4.1.117)
func (c *CPU) TST(shifterOperand uint32, shifterCarryOut bool, n int, cond ConditionCode) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	aluOut := oldRn & shifterOperand
	c.writeFlagsLogical(aluOut, shifterCarryOut)
}

// TEQ tests equivalence of Rn and the shifter operand (EOR without
// result, A4.1.116)
func (c *CPU) TEQ(shifterOperand uint32, shifterCarryOut bool, n int, cond ConditionCode) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	aluOut := oldRn ^ shifterOperand
	c.writeFlagsLogical(aluOut, shifterCarryOut)
}

// CMP compares Rn with the shifter operand (SUB without result, A4.1.15)
func (c *CPU) CMP(shifterOperand uint32, n int, cond ConditionCode) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	aluOut := oldRn - shifterOperand
	c.writeFlagsArith(aluOut, !BorrowFromSub2(oldRn, shifterOperand), OverflowFromSub2(oldRn, shifterOperand))
}

// CMN compares Rn with the negated shifter operand (ADD without result,
// A4.1.14)
func (c *CPU) CMN(shifterOperand uint32, n int, cond ConditionCode) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	aluOut := oldRn + shifterOperand
	c.writeFlagsArith(aluOut, CarryFromAdd2(oldRn, shifterOperand), OverflowFromAdd2(oldRn, shifterOperand))
}

// ORR performs bitwise OR (A4.1.42)
func (c *CPU) ORR(shifterOperand uint32, shifterCarryOut bool, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn | shifterOperand
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("ORR")
	} else if s {
		c.writeFlagsLogical(result, shifterCarryOut)
	}
}

// MOV writes the shifter operand to Rd (A4.1.35)
func (c *CPU) MOV(shifterOperand uint32, shifterCarryOut bool, d int, cond ConditionCode, s bool) {
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, shifterOperand)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("MOV")
	} else if s {
		c.writeFlagsLogical(shifterOperand, shifterCarryOut)
	}
}

// BIC clears the shifter operand's bits in Rn (A4.1.6)
func (c *CPU) BIC(shifterOperand uint32, shifterCarryOut bool, n, d int, cond ConditionCode, s bool) {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return
	}
	result := oldRn &^ shifterOperand
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("BIC")
	} else if s {
		c.writeFlagsLogical(result, shifterCarryOut)
	}
}

// MVN writes the bitwise complement of the shifter operand to Rd (A4.1.41)
func (c *CPU) MVN(shifterOperand uint32, shifterCarryOut bool, d int, cond ConditionCode, s bool) {
	if !c.ConditionPassed(cond) {
		return
	}
	result := ^shifterOperand
	c.SetReg(d, result)
	if s && d == PC {
		c.restoreCPSRorUnpredictable("MVN")
	} else if s {
		c.writeFlagsLogical(result, shifterCarryOut)
	}
}

// CPY copies Rm to Rd with no flag side effects (A4.1.17)
func (c *CPU) CPY(m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(d, oldRm)
}

// CLZ counts the leading zeros of Rm: 32 for zero, otherwise 31 minus the
// position of the most significant set bit (A4.1.13)
func (c *CPU) CLZ(m, d int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	count := uint32(0)
	for bit := uint32(SignBitMask); bit != 0 && oldRm&bit == 0; bit >>= 1 {
		count++
	}
	c.SetReg(d, count)
}
