package vm

// Branch, interworking and exception-entry semantics (ARM ARM A4.1).

// Exception vector offsets from the configured vector base
const (
	VectorSWI           = 0x00000008
	VectorPrefetchAbort = 0x0000000C
	HighVectorBase      = 0xFFFF0000
)

// BBL branches by the sign-extended 24-bit immediate, optionally linking
// the return address into r14 (A4.1.5 B, BL)
func (c *CPU) BBL(signedImmed24 uint32, cond ConditionCode, link bool) {
	if !c.ConditionPassed(cond) {
		return
	}
	if link {
		c.SetReg(LR, c.NextInstr())
	}
	c.SetPCRaw(c.Reg(PC) + SignExtend24to30(signedImmed24)<<2)
}

// BX branches to Rm, entering Thumb state when bit 0 is set (A4.1.10)
func (c *CPU) BX(m int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetPCInterworking(oldRm)
}

// BLX1 is the immediate-form BLX: unconditional, always switches to Thumb
// state, with the halfword offset carried in the H bit (A4.1.8)
func (c *CPU) BLX1(signedImmed24 uint32, h uint32) {
	c.SetReg(LR, c.NextInstr())
	c.CPSR.T = true
	c.SetPCRaw(c.Reg(PC) + SignExtend24to30(signedImmed24)<<2 + h<<1)
}

// BLX2 is the register-form BLX: branch to Rm with interworking, linking
// the return address (A4.1.9)
func (c *CPU) BLX2(m int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetReg(LR, c.NextInstr())
	c.SetPCInterworking(oldRm)
}

// BXJ attempts Jazelle entry, falling back to BX semantics when the
// extension is absent or declines the opcode (A4.1.11)
func (c *CPU) BXJ(m int, cond ConditionCode) {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return
	}
	if !c.Jazelle.JEBit() {
		c.SetPCInterworking(oldRm)
		return
	}
	jpc := c.Jazelle.SubarchitectureDefinedValue()
	invalidHandler := c.Jazelle.SubarchitectureDefinedValue()
	if c.Jazelle.AcceptsOpcodeAtJPC() {
		if !c.Jazelle.CVBit() {
			c.SetPCRaw(invalidHandler)
		} else {
			c.CPSR.J = true
			c.Jazelle.StartOpcodeExecutionAt(jpc)
		}
		return
	}
	if !c.Jazelle.CVBit() && c.Jazelle.ImplementationDefinedCondition() {
		c.SetPCRaw(invalidHandler)
		return
	}
	c.SetPCInterworking(oldRm)
}

// BKPT enters the prefetch-abort exception unless external debug hardware
// claims the breakpoint. Unconditional. (A4.1.7)
func (c *CPU) BKPT() {
	if !c.Debug.NotOverriddenByDebugHardware() {
		return
	}
	c.SetRegMode(ModeAbort, LR, c.ThisInstr()+4)
	c.SetSPSROf(ModeAbort, c.CPSR)
	c.CPSR.Mode = ModeAbort
	c.CPSR.T = false
	c.CPSR.I = true
	c.CPSR.A = true
	c.CPSR.E = c.CP15.Reg1EEBit()
	if c.CP15.HighVectorsConfigured() {
		c.SetPCRaw(HighVectorBase | VectorPrefetchAbort)
	} else {
		c.SetPCRaw(VectorPrefetchAbort)
	}
}

// SWI enters the Supervisor-call exception (A4.1.107)
func (c *CPU) SWI(cond ConditionCode) {
	if !c.ConditionPassed(cond) {
		return
	}
	c.SetRegMode(ModeSupervisor, LR, c.NextInstr())
	c.SetSPSROf(ModeSupervisor, c.CPSR)
	c.CPSR.Mode = ModeSupervisor
	c.CPSR.T = false
	c.CPSR.I = true
	c.CPSR.E = c.CP15.Reg1EEBit()
	if c.CP15.HighVectorsConfigured() {
		c.SetPCRaw(HighVectorBase | VectorSWI)
	} else {
		c.SetPCRaw(VectorSWI)
	}
}
