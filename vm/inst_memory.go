package vm

// Load/store instruction semantics (ARM ARM A4.1). The effective address
// arrives precomputed by an addressing-mode helper. Alignment follows the
// CP15 U-bit: with checking off, unaligned word loads rotate the loaded
// word and unaligned halfword accesses are UNPREDICTABLE. Stores clear
// overlapping global exclusive reservations.

// loadRotated applies the U=0 unaligned-word rotation to a loaded word
func (c *CPU) loadRotated(address uint32) (uint32, error) {
	data, err := c.Memory.ReadWord(address)
	if err != nil {
		return 0, err
	}
	if !c.CP15.Reg1UBit() {
		data = RotateRight(data, 8*GetBits(address, 1, 0))
	}
	return data, nil
}

// LDR loads a word; a load into r15 follows the interworking PC-write
// semantics (A4.1.23)
func (c *CPU) LDR(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	data, err := c.loadRotated(address)
	if err != nil {
		return err
	}
	if d == PC {
		c.SetPCInterworking(data)
	} else {
		c.SetReg(d, data)
	}
	return nil
}

// LDRB loads a zero-extended byte (A4.1.24)
func (c *CPU) LDRB(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	data, err := c.Memory.ReadByte(address)
	if err != nil {
		return err
	}
	c.SetReg(d, uint32(data))
	return nil
}

// LDRBT loads a zero-extended byte with the user-mode access hint; the
// post-indexed base update is committed by the addressing helper (A4.1.25)
func (c *CPU) LDRBT(n, d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	data, err := c.Memory.ReadByte(address)
	if err != nil {
		return err
	}
	c.SetReg(d, uint32(data))
	return nil
}

// LDRD loads a doubleword into the even/odd register pair d, d+1.
// An odd or r14 destination, an unaligned address, or (with alignment
// checking off) a non-8-aligned address is UNPREDICTABLE. (A4.1.26)
func (c *CPU) LDRD(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if d%2 != 0 || d == LR || GetBits(address, 1, 0) != 0 ||
		(!c.CP15.Reg1UBit() && address>>2&1 != 0) {
		c.unpredictable("LDRD", "destination pair or address constraint violated")
		return nil
	}
	low, err := c.Memory.ReadWord(address)
	if err != nil {
		return err
	}
	high, err := c.Memory.ReadWord(address + 4)
	if err != nil {
		return err
	}
	c.SetReg(d, low)
	c.SetReg(d+1, high)
	return nil
}

// LDREX loads a word and marks an exclusive reservation keyed on the
// physical translation of Rn; shared addresses are also marked at the
// global level (A4.1.27)
func (c *CPU) LDREX(n, d int, cond ConditionCode) error {
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return nil
	}
	processorID := c.Monitor.ExecutingProcessor()
	data, err := c.Memory.ReadWord(oldRn)
	if err != nil {
		return err
	}
	c.SetReg(d, data)
	physAddr := c.Monitor.TLB(oldRn)
	if c.Monitor.Shared(oldRn) {
		c.Monitor.MarkExclusiveGlobal(physAddr, processorID, 4)
	}
	c.Monitor.MarkExclusiveLocal(physAddr, processorID, 4)
	return nil
}

// LDRH loads a zero-extended halfword; with alignment checking off an odd
// address is UNPREDICTABLE (A4.1.28)
func (c *CPU) LDRH(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if !c.CP15.Reg1UBit() && address&1 != 0 {
		c.unpredictable("LDRH", "unaligned halfword address with alignment checking off")
		return nil
	}
	data, err := c.Memory.ReadHalf(address)
	if err != nil {
		return err
	}
	c.SetReg(d, uint32(data))
	return nil
}

// LDRSB loads a sign-extended byte (A4.1.29)
func (c *CPU) LDRSB(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	data, err := c.Memory.ReadByte(address)
	if err != nil {
		return err
	}
	c.SetReg(d, SignExtendByte(data))
	return nil
}

// LDRSH loads a sign-extended halfword; with alignment checking off an odd
// address is UNPREDICTABLE (A4.1.30)
func (c *CPU) LDRSH(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if !c.CP15.Reg1UBit() && address&1 != 0 {
		c.unpredictable("LDRSH", "unaligned halfword address with alignment checking off")
		return nil
	}
	data, err := c.Memory.ReadHalf(address)
	if err != nil {
		return err
	}
	c.SetReg(d, SignExtendHalf(data))
	return nil
}

// LDRT loads a word with the user-mode access hint, applying the same
// U=0 rotation as LDR (A4.1.31)
func (c *CPU) LDRT(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	data, err := c.loadRotated(address)
	if err != nil {
		return err
	}
	c.SetReg(d, data)
	return nil
}

// STR stores a word (A4.1.99)
func (c *CPU) STR(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if err := c.Memory.WriteWord(address, c.Reg(d)); err != nil {
		return err
	}
	c.clearExclusiveStore(address, 4)
	return nil
}

// STRB stores the low byte of Rd (A4.1.100)
func (c *CPU) STRB(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if err := c.Memory.WriteByte(address, GetByte(c.Reg(d), 0)); err != nil {
		return err
	}
	c.clearExclusiveStore(address, 1)
	return nil
}

// STRBT stores the low byte of Rd with the user-mode access hint (A4.1.101)
func (c *CPU) STRBT(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if err := c.Memory.WriteByte(address, GetByte(c.Reg(d), 0)); err != nil {
		return err
	}
	c.clearExclusiveStore(address, 1)
	return nil
}

// STRD stores the even/odd register pair d, d+1 as a doubleword, under the
// same operand constraints as LDRD (A4.1.102)
func (c *CPU) STRD(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if d%2 != 0 || d == LR || GetBits(address, 1, 0) != 0 ||
		(!c.CP15.Reg1UBit() && address>>2&1 != 0) {
		c.unpredictable("STRD", "source pair or address constraint violated")
		return nil
	}
	if err := c.Memory.WriteWord(address, c.Reg(d)); err != nil {
		return err
	}
	if err := c.Memory.WriteWord(address+4, c.Reg(d+1)); err != nil {
		return err
	}
	c.clearExclusiveStore(address, 4)
	c.clearExclusiveStore(address+4, 4)
	return nil
}

// STREX stores Rm to [Rn] when the exclusive reservation still holds,
// writing the success status to Rd (0 on success, 1 on failure). The local
// reservation is consumed either way. (A4.1.103)
func (c *CPU) STREX(n, m, d int, cond ConditionCode) error {
	oldRm := c.Reg(m)
	oldRn := c.Reg(n)
	if !c.ConditionPassed(cond) {
		return nil
	}
	processorID := c.Monitor.ExecutingProcessor()
	physAddr := c.Monitor.TLB(oldRn)
	status := uint32(1)
	if c.Monitor.IsExclusiveLocal(physAddr, processorID, 4) {
		if c.Monitor.Shared(oldRn) {
			if c.Monitor.IsExclusiveGlobal(physAddr, processorID, 4) {
				if err := c.Memory.WriteWord(oldRn, oldRm); err != nil {
					return err
				}
				status = 0
				c.Monitor.ClearExclusiveByAddress(physAddr, processorID, 4)
			}
		} else {
			if err := c.Memory.WriteWord(oldRn, oldRm); err != nil {
				return err
			}
			status = 0
		}
	}
	c.SetReg(d, status)
	c.Monitor.ClearExclusiveLocal(processorID)
	return nil
}

// STRH stores the low halfword of Rd; with alignment checking off an odd
// address is UNPREDICTABLE (A4.1.104)
func (c *CPU) STRH(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if !c.CP15.Reg1UBit() && address&1 != 0 {
		c.unpredictable("STRH", "unaligned halfword address with alignment checking off")
		return nil
	}
	if err := c.Memory.WriteHalf(address, GetHalf(c.Reg(d), 0)); err != nil {
		return err
	}
	c.clearExclusiveStore(address, 2)
	return nil
}

// STRT stores a word with the user-mode access hint (A4.1.105)
func (c *CPU) STRT(d int, cond ConditionCode, address uint32) error {
	if !c.ConditionPassed(cond) {
		return nil
	}
	if err := c.Memory.WriteWord(address, c.Reg(d)); err != nil {
		return err
	}
	c.clearExclusiveStore(address, 4)
	return nil
}

// SWP atomically exchanges Rm with the word at the address, loading the
// old memory value into Rd; the U=0 rotation applies to the loaded word
// (A4.1.108)
func (c *CPU) SWP(m, d int, cond ConditionCode, address uint32) error {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return nil
	}
	temp, err := c.loadRotated(address)
	if err != nil {
		return err
	}
	if err := c.Memory.WriteWord(address, oldRm); err != nil {
		return err
	}
	c.SetReg(d, temp)
	c.clearExclusiveStore(address, 4)
	return nil
}

// SWPB atomically exchanges the low byte of Rm with the byte at the
// address (A4.1.109)
func (c *CPU) SWPB(m, d int, cond ConditionCode, address uint32) error {
	oldRm := c.Reg(m)
	if !c.ConditionPassed(cond) {
		return nil
	}
	temp, err := c.Memory.ReadByte(address)
	if err != nil {
		return err
	}
	if err := c.Memory.WriteByte(address, GetByte(oldRm, 0)); err != nil {
		return err
	}
	c.SetReg(d, uint32(temp))
	c.clearExclusiveStore(address, 1)
	return nil
}

// PLD is a preload hint with no architecturally visible effect (A4.1.45)
func (c *CPU) PLD() {
}
