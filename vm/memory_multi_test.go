package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

func TestLDM1Scenario(t *testing.T) {
	// LDMIA r13!, {r0, r2, r3} over three prepared words
	machine := newTestMachine(true)
	c := machine.CPU
	require.NoError(t, machine.Memory.WriteWord(0x2000, 0xAAAA0001))
	require.NoError(t, machine.Memory.WriteWord(0x2004, 0xBBBB0002))
	require.NoError(t, machine.Memory.WriteWord(0x2008, 0xCCCC0003))
	c.SetReg(13, 0x2000)

	list := uint16(0b0000_0000_0000_1101)
	start, newRn := c.BlockAddressIncrementAfter(list, 13)
	assert.Equal(t, uint32(0x2000), start)
	assert.Equal(t, uint32(0x200C), newRn)

	require.NoError(t, c.LDM1(start, list, newRn, 13, vm.CondAL, true))
	assert.Equal(t, uint32(0xAAAA0001), c.Reg(0))
	assert.Equal(t, uint32(0xBBBB0002), c.Reg(2))
	assert.Equal(t, uint32(0xCCCC0003), c.Reg(3))
	assert.Equal(t, uint32(0x200C), c.Reg(13))
}

func TestLDM1LoadsPCWithInterworking(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	require.NoError(t, machine.Memory.WriteWord(0x2000, 0x12345678))
	require.NoError(t, machine.Memory.WriteWord(0x2004, 0x00003001))

	list := uint16(1<<0 | 1<<15)
	require.NoError(t, c.LDM1(0x2000, list, 0, 13, vm.CondAL, false))
	assert.Equal(t, uint32(0x12345678), c.Reg(0))
	assert.Equal(t, uint32(0x3000), c.PC)
	assert.True(t, c.CPSR.T)
}

func TestLDM2TargetsUserBank(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.CPSR.Mode = vm.ModeFIQ
	require.NoError(t, machine.Memory.WriteWord(0x2000, 0x11110000))
	require.NoError(t, machine.Memory.WriteWord(0x2004, 0x22220000))

	list := uint16(1<<8 | 1<<13)
	require.NoError(t, c.LDM2(0x2000, list, 0, 0, vm.CondAL, false))

	assert.Equal(t, uint32(0), c.Reg(8), "fiq r8 untouched")
	assert.Equal(t, uint32(0), c.Reg(13), "fiq r13 untouched")
	assert.Equal(t, uint32(0x11110000), c.RegMode(vm.ModeUser, 8))
	assert.Equal(t, uint32(0x22220000), c.RegMode(vm.ModeUser, 13))
}

func TestLDM3RestoresCPSRThenPC(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.CPSR.Mode = vm.ModeSupervisor
	c.SetSPSR(vm.PSR{N: true, T: false, Mode: vm.ModeUser})
	require.NoError(t, machine.Memory.WriteWord(0x2000, 0x55))
	require.NoError(t, machine.Memory.WriteWord(0x2004, 0x4000))

	list := uint16(1<<0 | 1<<15)
	require.NoError(t, c.LDM3(0x2000, list, 0, 13, vm.CondAL, false))
	assert.Equal(t, uint32(0x55), c.Reg(0))
	assert.Equal(t, uint32(0x4000), c.PC)
	assert.Equal(t, vm.ModeUser, c.CPSR.Mode)
	assert.True(t, c.CPSR.N)
}

func TestSTM1StoresAscendingWithPC(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.SetReg(1, 0x1111)
	c.SetReg(4, 0x4444)
	c.PC = 0x8000

	list := uint16(1<<1 | 1<<4 | 1<<15)
	require.NoError(t, c.STM1(0x2000, list, 0, 13, vm.CondAL, false))

	w0, _ := machine.Memory.ReadWord(0x2000)
	w1, _ := machine.Memory.ReadWord(0x2004)
	w2, _ := machine.Memory.ReadWord(0x2008)
	assert.Equal(t, uint32(0x1111), w0)
	assert.Equal(t, uint32(0x4444), w1)
	assert.Equal(t, uint32(0x8008), w2, "stored PC observes the pipeline offset")
}

func TestSTM2StoresUserBank(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.CPSR.Mode = vm.ModeUser
	c.SetReg(13, 0xAAAA5555)
	c.CPSR.Mode = vm.ModeIRQ
	c.SetReg(13, 0x12121212)

	list := uint16(1 << 13)
	require.NoError(t, c.STM2(0x2000, list, 0, 0, vm.CondAL, false))
	word, _ := machine.Memory.ReadWord(0x2000)
	assert.Equal(t, uint32(0xAAAA5555), word, "user r13, not the irq bank")
}

func TestBlockAddressForms(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x3000)
	list := uint16(0b1111) // four registers

	start, newRn := c.BlockAddressIncrementAfter(list, 2)
	assert.Equal(t, uint32(0x3000), start)
	assert.Equal(t, uint32(0x3010), newRn)

	start, newRn = c.BlockAddressIncrementBefore(list, 2)
	assert.Equal(t, uint32(0x3004), start)
	assert.Equal(t, uint32(0x3010), newRn)

	start, newRn = c.BlockAddressDecrementAfter(list, 2)
	assert.Equal(t, uint32(0x2FF4), start)
	assert.Equal(t, uint32(0x2FF0), newRn)

	start, newRn = c.BlockAddressDecrementBefore(list, 2)
	assert.Equal(t, uint32(0x2FF0), start)
	assert.Equal(t, uint32(0x2FF0), newRn)
}

func TestRFERestoresPCAndCPSR(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.CPSR.Mode = vm.ModeIRQ
	restored := vm.PSR{C: true, Mode: vm.ModeUser}
	require.NoError(t, machine.Memory.WriteWord(0x2000, 0x8000))
	require.NoError(t, machine.Memory.WriteWord(0x2004, restored.ToUint32()))

	require.NoError(t, c.RFE(0x2000))
	assert.Equal(t, uint32(0x8000), c.PC)
	assert.Equal(t, restored, c.CPSR)
}

func TestRFEInUserModeIsUnpredictable(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.CPSR.Mode = vm.ModeUser
	var fired int
	c.OnUnpredictable = func(vm.UnpredictableEvent) { fired++ }
	before := c.PC

	require.NoError(t, c.RFE(0x2000))
	assert.Equal(t, 1, fired)
	assert.Equal(t, before, c.PC, "no state change after the sink")
}

func TestSRSStoresLRAndSPSR(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.CPSR.Mode = vm.ModeIRQ
	c.SetReg(14, 0x9000)
	saved := vm.PSR{Z: true, Mode: vm.ModeUser}
	c.SetSPSR(saved)

	require.NoError(t, c.SRS(0x2000))
	w0, _ := machine.Memory.ReadWord(0x2000)
	w1, _ := machine.Memory.ReadWord(0x2004)
	assert.Equal(t, uint32(0x9000), w0)
	assert.Equal(t, saved.ToUint32(), w1)
}

func TestSRSWithoutSPSRIsUnpredictable(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	c.CPSR.Mode = vm.ModeSystem
	var fired int
	c.OnUnpredictable = func(vm.UnpredictableEvent) { fired++ }

	require.NoError(t, c.SRS(0x2000))
	assert.Equal(t, 1, fired)
	word, _ := machine.Memory.ReadWord(0x2000)
	assert.Equal(t, uint32(0), word, "nothing stored")
}

func TestLDMConditionFailsLeavesRegisters(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	require.NoError(t, machine.Memory.WriteWord(0x2000, 0x77))
	c.CPSR.Z = false
	require.NoError(t, c.LDM1(0x2000, 1, 0x2004, 13, vm.CondEQ, true))
	assert.Equal(t, uint32(0), c.Reg(0))
	assert.Equal(t, uint32(0), c.Reg(13))
}
