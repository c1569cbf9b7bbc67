package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

func TestAddressImmediateOffset(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)

	assert.Equal(t, uint32(0x2010), c.AddressImmediateOffset(0x10, 1, true))
	assert.Equal(t, uint32(0x1FF0), c.AddressImmediateOffset(0x10, 1, false))
	assert.Equal(t, uint32(0x2000), c.Reg(1), "offset form never touches Rn")
}

func TestAddressRegisterOffset(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)
	c.SetReg(2, 0x30)
	assert.Equal(t, uint32(0x2030), c.AddressRegisterOffset(1, 2, true))
	assert.Equal(t, uint32(0x1FD0), c.AddressRegisterOffset(1, 2, false))
}

func TestAddressScaledRegisterOffset(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)
	c.SetReg(2, 4)

	// LSL #2
	assert.Equal(t, uint32(0x2010), c.AddressScaledRegisterOffset(2, 0, 1, 2, true))

	// LSR #0 means a zero index
	assert.Equal(t, uint32(0x2000), c.AddressScaledRegisterOffset(0, 1, 1, 2, true))

	// ASR #0 fills from the sign bit
	c.SetReg(2, 0x80000000)
	assert.Equal(t, uint32(0x1FFF), c.AddressScaledRegisterOffset(0, 2, 1, 2, true))

	// ROR #0 is RRX
	c.SetReg(2, 1)
	c.CPSR.C = true
	assert.Equal(t, uint32(0x2000+0x80000000), c.AddressScaledRegisterOffset(0, 3, 1, 2, true))
}

func TestAddressPreIndexedCommitsOnConditionPass(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)
	address := c.AddressImmediatePreIndexed(0x10, 1, vm.CondAL, true)
	assert.Equal(t, uint32(0x2010), address)
	assert.Equal(t, uint32(0x2010), c.Reg(1), "pre-indexed commits the base")
}

func TestAddressPreIndexedHoldsOnConditionFail(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)
	c.CPSR.Z = false
	address := c.AddressImmediatePreIndexed(0x10, 1, vm.CondEQ, true)
	assert.Equal(t, uint32(0x2010), address, "the address is still computed")
	assert.Equal(t, uint32(0x2000), c.Reg(1), "but the base holds")
}

func TestAddressPostIndexed(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)
	address := c.AddressImmediatePostIndexed(0x10, 1, vm.CondAL, true)
	assert.Equal(t, uint32(0x2000), address, "post-indexed transfers at the old base")
	assert.Equal(t, uint32(0x2010), c.Reg(1))

	c.CPSR.Z = false
	address = c.AddressImmediatePostIndexed(0x10, 1, vm.CondEQ, false)
	assert.Equal(t, uint32(0x2010), address)
	assert.Equal(t, uint32(0x2010), c.Reg(1), "no update when the condition fails")
}

func TestMiscAddressSplitImmediate(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)
	// immedH=0xA, immedL=0x5 combine to 0xA5
	assert.Equal(t, uint32(0x20A5), c.MiscAddressImmediateOffset(1, 0x5, 0xA, true))
	assert.Equal(t, uint32(0x1F5B), c.MiscAddressImmediateOffset(1, 0x5, 0xA, false))
}

func TestMiscAddressRegisterForms(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)
	c.SetReg(2, 8)

	assert.Equal(t, uint32(0x2008), c.MiscAddressRegisterOffset(1, 2, true))

	address := c.MiscAddressRegisterPreIndexed(1, 2, vm.CondAL, false)
	assert.Equal(t, uint32(0x1FF8), address)
	assert.Equal(t, uint32(0x1FF8), c.Reg(1))

	c.SetReg(1, 0x2000)
	address = c.MiscAddressRegisterPostIndexed(1, 2, vm.CondAL, true)
	assert.Equal(t, uint32(0x2000), address)
	assert.Equal(t, uint32(0x2008), c.Reg(1))
}

func TestCoprocAddressScalesByFour(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x2000)

	assert.Equal(t, uint32(0x2040), c.CoprocAddressImmediateOffset(0x10, 1, vm.CondAL, true))
	assert.Equal(t, uint32(0x1FC0), c.CoprocAddressImmediateOffset(0x10, 1, vm.CondAL, false))

	address := c.CoprocAddressImmediatePreIndexed(4, 1, vm.CondAL, true)
	assert.Equal(t, uint32(0x2010), address)
	assert.Equal(t, uint32(0x2010), c.Reg(1))

	c.SetReg(1, 0x2000)
	address = c.CoprocAddressImmediatePostIndexed(4, 1, vm.CondAL, true)
	assert.Equal(t, uint32(0x2000), address)
	assert.Equal(t, uint32(0x2010), c.Reg(1))

	c.SetReg(1, 0x2000)
	assert.Equal(t, uint32(0x2000), c.CoprocAddressUnindexed(1, vm.CondAL))
	assert.Equal(t, uint32(0x2000), c.Reg(1))
}

func TestAliasedBaseAndIndex(t *testing.T) {
	// Rn aliases Rm: both reads observe the pre-update values
	c := newTestCPU()
	c.SetReg(1, 0x1000)
	address := c.AddressRegisterPostIndexed(1, 1, vm.CondAL, true)
	assert.Equal(t, uint32(0x1000), address)
	assert.Equal(t, uint32(0x2000), c.Reg(1))
}
