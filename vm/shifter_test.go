package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

// newTestCPU returns a processor with the default memory map
func newTestCPU() *vm.CPU {
	return vm.NewCPU(vm.NewMemory())
}

func TestShifterImmediate(t *testing.T) {
	c := newTestCPU()
	c.CPSR.C = true

	operand, carry := c.ShifterOperandImmediate(0, 0x42)
	assert.Equal(t, uint32(0x42), operand)
	assert.True(t, carry, "rotate 0 passes C through")

	operand, carry = c.ShifterOperandImmediate(1, 0x10) // ror 2
	assert.Equal(t, uint32(0x04), operand)
	assert.False(t, carry)

	operand, carry = c.ShifterOperandImmediate(2, 0xFF) // ror 4
	assert.Equal(t, uint32(0xF000000F), operand)
	assert.True(t, carry, "carry is bit 31 of the rotated value")
}

func TestShifterRegister(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0xCAFEBABE)
	c.CPSR.C = true
	operand, carry := c.ShifterOperandRegister(2)
	assert.Equal(t, uint32(0xCAFEBABE), operand)
	assert.True(t, carry)
}

func TestShifterLSLImmediate(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x80000001)
	c.CPSR.C = false

	operand, carry := c.ShifterOperandLSLImmediate(0, 2)
	assert.Equal(t, uint32(0x80000001), operand, "LSL #0 preserves Rm")
	assert.False(t, carry, "LSL #0 preserves carry")

	operand, carry = c.ShifterOperandLSLImmediate(1, 2)
	assert.Equal(t, uint32(0x00000002), operand)
	assert.True(t, carry, "carry is the last bit shifted out")
}

func TestShifterLSLRegister(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x80000001)
	c.CPSR.C = true

	tests := []struct {
		name    string
		shift   uint32
		operand uint32
		carry   bool
	}{
		{"shift 0 is identity", 0, 0x80000001, true},
		{"shift 1", 1, 0x00000002, true},
		{"shift 31", 31, 0x80000000, false},
		{"shift 32 gives zero, carry bit 0", 32, 0, true},
		{"shift 33 gives zero, no carry", 33, 0, false},
		{"only low byte of Rs counts", 0x100, 0x80000001, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetReg(3, tt.shift)
			operand, carry := c.ShifterOperandLSLRegister(3, 2)
			assert.Equal(t, tt.operand, operand)
			assert.Equal(t, tt.carry, carry)
		})
	}
}

func TestShifterLSRImmediate(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x80000002)

	operand, carry := c.ShifterOperandLSRImmediate(0, 2)
	assert.Equal(t, uint32(0), operand, "LSR #0 encodes LSR #32")
	assert.True(t, carry, "carry is bit 31")

	operand, carry = c.ShifterOperandLSRImmediate(1, 2)
	assert.Equal(t, uint32(0x40000001), operand)
	assert.False(t, carry)

	operand, carry = c.ShifterOperandLSRImmediate(2, 2)
	assert.Equal(t, uint32(0x20000000), operand)
	assert.True(t, carry)
}

func TestShifterLSRRegister(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x80000002)
	c.CPSR.C = true

	c.SetReg(3, 0)
	operand, carry := c.ShifterOperandLSRRegister(3, 2)
	assert.Equal(t, uint32(0x80000002), operand, "LSR by register 0 preserves Rm")
	assert.True(t, carry, "and preserves carry")

	c.SetReg(3, 32)
	operand, carry = c.ShifterOperandLSRRegister(3, 2)
	assert.Equal(t, uint32(0), operand)
	assert.True(t, carry, "shift 32 carries bit 31")

	c.SetReg(3, 40)
	operand, carry = c.ShifterOperandLSRRegister(3, 2)
	assert.Equal(t, uint32(0), operand)
	assert.False(t, carry)
}

func TestShifterASRImmediate(t *testing.T) {
	c := newTestCPU()

	c.SetReg(2, 0x80000000)
	operand, carry := c.ShifterOperandASRImmediate(0, 2)
	assert.Equal(t, uint32(0xFFFFFFFF), operand, "ASR #0 encodes ASR #32, negative fill")
	assert.True(t, carry)

	c.SetReg(2, 0x40000000)
	operand, carry = c.ShifterOperandASRImmediate(0, 2)
	assert.Equal(t, uint32(0), operand, "ASR #0, positive fill")
	assert.False(t, carry)

	c.SetReg(2, 0x80000001)
	operand, carry = c.ShifterOperandASRImmediate(1, 2)
	assert.Equal(t, uint32(0xC0000000), operand)
	assert.True(t, carry)
}

func TestShifterASRRegister(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x80000000)
	c.CPSR.C = false

	c.SetReg(3, 0)
	operand, carry := c.ShifterOperandASRRegister(3, 2)
	assert.Equal(t, uint32(0x80000000), operand)
	assert.False(t, carry)

	c.SetReg(3, 4)
	operand, carry = c.ShifterOperandASRRegister(3, 2)
	assert.Equal(t, uint32(0xF8000000), operand)
	assert.False(t, carry)

	c.SetReg(3, 64)
	operand, carry = c.ShifterOperandASRRegister(3, 2)
	assert.Equal(t, uint32(0xFFFFFFFF), operand, "large shift fills with sign")
	assert.True(t, carry)
}

func TestShifterRORImmediate(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x00000003)
	c.CPSR.C = true

	operand, carry := c.ShifterOperandRORImmediate(1, 2)
	assert.Equal(t, uint32(0x80000001), operand)
	assert.True(t, carry)

	// ROR #0 delegates to RRX
	operand, carry = c.ShifterOperandRORImmediate(0, 2)
	assert.Equal(t, uint32(0x80000001), operand, "RRX shifts carry into bit 31")
	assert.True(t, carry, "RRX carries out bit 0")
}

func TestShifterRORRegister(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x80000001)
	c.CPSR.C = false

	c.SetReg(3, 0)
	operand, carry := c.ShifterOperandRORRegister(3, 2)
	assert.Equal(t, uint32(0x80000001), operand, "Rs byte 0 preserves Rm and carry")
	assert.False(t, carry)

	c.SetReg(3, 32)
	operand, carry = c.ShifterOperandRORRegister(3, 2)
	assert.Equal(t, uint32(0x80000001), operand, "multiple of 32 preserves Rm")
	assert.True(t, carry, "carry comes from bit 31")

	c.SetReg(3, 1)
	operand, carry = c.ShifterOperandRORRegister(3, 2)
	assert.Equal(t, uint32(0xC0000000), operand)
	assert.True(t, carry)
}

func TestShifterRRX(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0x00000002)
	c.CPSR.C = true
	operand, carry := c.ShifterOperandRRX(2)
	assert.Equal(t, uint32(0x80000001), operand)
	assert.False(t, carry)
}
