package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

func TestResetState(t *testing.T) {
	c := newTestCPU()
	assert.Equal(t, vm.ModeSupervisor, c.CPSR.Mode)
	assert.True(t, c.CPSR.I)
	assert.True(t, c.CPSR.F)
	assert.False(t, c.CPSR.T)
	assert.Equal(t, uint32(0), c.PC)
}

func TestPCReadsWithPipelineOffset(t *testing.T) {
	c := newTestCPU()
	c.PC = 0x8000
	assert.Equal(t, uint32(0x8008), c.Reg(vm.PC))
	assert.Equal(t, uint32(0x8000), c.ThisInstr())
	assert.Equal(t, uint32(0x8004), c.NextInstr())
}

func TestBankedRegistersFIQ(t *testing.T) {
	c := newTestCPU()
	c.CPSR.Mode = vm.ModeUser
	for r := 8; r <= 14; r++ {
		c.SetReg(r, uint32(0x100+r))
	}

	c.CPSR.Mode = vm.ModeFIQ
	for r := 8; r <= 14; r++ {
		assert.Equal(t, uint32(0), c.Reg(r), "fiq bank starts clean")
		c.SetReg(r, uint32(0x200+r))
	}

	c.CPSR.Mode = vm.ModeUser
	for r := 8; r <= 14; r++ {
		assert.Equal(t, uint32(0x100+r), c.Reg(r), "user bank preserved across fiq")
	}
	// r0-r7 are shared
	c.CPSR.Mode = vm.ModeFIQ
	c.SetReg(3, 42)
	c.CPSR.Mode = vm.ModeUser
	assert.Equal(t, uint32(42), c.Reg(3))
}

func TestBankedSPAndLRPerMode(t *testing.T) {
	c := newTestCPU()
	modes := []vm.Mode{vm.ModeSupervisor, vm.ModeIRQ, vm.ModeAbort, vm.ModeUndefined, vm.ModeFIQ}
	for i, mode := range modes {
		c.CPSR.Mode = mode
		c.SetReg(vm.SP, uint32(0x1000*(i+1)))
		c.SetReg(vm.LR, uint32(0x2000*(i+1)))
	}
	for i, mode := range modes {
		c.CPSR.Mode = mode
		assert.Equal(t, uint32(0x1000*(i+1)), c.Reg(vm.SP), "sp of %s", mode)
		assert.Equal(t, uint32(0x2000*(i+1)), c.Reg(vm.LR), "lr of %s", mode)
	}
	// sys shares the user bank
	c.CPSR.Mode = vm.ModeUser
	c.SetReg(vm.SP, 0xAAAA)
	c.CPSR.Mode = vm.ModeSystem
	assert.Equal(t, uint32(0xAAAA), c.Reg(vm.SP))
}

func TestRegModeOverride(t *testing.T) {
	c := newTestCPU()
	c.CPSR.Mode = vm.ModeFIQ
	c.SetReg(13, 0xF00)
	c.SetRegMode(vm.ModeUser, 13, 0xB00)
	assert.Equal(t, uint32(0xF00), c.Reg(13))
	assert.Equal(t, uint32(0xB00), c.RegMode(vm.ModeUser, 13))
}

func TestSPSRBanks(t *testing.T) {
	c := newTestCPU()
	c.CPSR.Mode = vm.ModeIRQ
	assert.True(t, c.CurrentModeHasSPSR())
	c.SetSPSR(vm.PSR{N: true, Mode: vm.ModeUser})
	assert.True(t, c.SPSR().N)

	c.CPSR.Mode = vm.ModeSupervisor
	assert.False(t, c.SPSR().N, "svc bank is separate")

	c.CPSR.Mode = vm.ModeUser
	assert.False(t, c.CurrentModeHasSPSR())
	c.CPSR.Mode = vm.ModeSystem
	assert.False(t, c.CurrentModeHasSPSR())
}

func TestSetPCRawAndInterworking(t *testing.T) {
	c := newTestCPU()
	c.SetPCRaw(0x2001)
	assert.Equal(t, uint32(0x2001), c.PC, "raw write keeps every bit")
	assert.False(t, c.CPSR.T, "raw write never touches T")
	assert.True(t, c.TakeBranch())
	assert.False(t, c.TakeBranch(), "branch flag is consumed")

	c.SetPCInterworking(0x3001)
	assert.Equal(t, uint32(0x3000), c.PC)
	assert.True(t, c.CPSR.T)
	assert.True(t, c.TakeBranch())

	c.SetPCInterworking(0x4000)
	assert.False(t, c.CPSR.T)
}

func TestGenericRegisterPortWritesPCRaw(t *testing.T) {
	c := newTestCPU()
	c.CPSR.T = false
	c.SetReg(vm.PC, 0x5001)
	assert.Equal(t, uint32(0x5001), c.PC)
	assert.False(t, c.CPSR.T)
}

func TestPSRRoundTrip(t *testing.T) {
	p := vm.PSR{
		N: true, Z: false, C: true, V: false, Q: true,
		J: false, GE: 0xA, E: true, A: true, I: false, F: true,
		T: true, Mode: vm.ModeAbort,
	}
	var q vm.PSR
	q.FromUint32(p.ToUint32())
	assert.Equal(t, p, q)
}

func TestPSRLayout(t *testing.T) {
	p := vm.PSR{N: true, Z: true, C: true, V: true, Mode: vm.ModeUser}
	assert.Equal(t, uint32(0xF0000010), p.ToUint32())

	p = vm.PSR{Q: true, GE: 0xF, Mode: vm.ModeSupervisor}
	assert.Equal(t, uint32(0x080F0013), p.ToUint32())

	p = vm.PSR{E: true, A: true, I: true, F: true, T: true, Mode: vm.ModeSystem}
	assert.Equal(t, uint32(0x000003FF), p.ToUint32())
}

func TestUnpredictableSink(t *testing.T) {
	c := newTestCPU()
	var events []vm.UnpredictableEvent
	c.OnUnpredictable = func(ev vm.UnpredictableEvent) {
		events = append(events, ev)
	}
	c.CPSR.Mode = vm.ModeUser
	// ADDS pc, ... without an SPSR is the canonical trigger
	c.ADD(1, 0, 15, vm.CondAL, true)
	assert.Len(t, events, 1)
	assert.Equal(t, "ADD", events[0].Mnemonic)
	assert.Equal(t, uint64(1), c.UnpredictableCount)
}
