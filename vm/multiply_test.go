package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

func TestMULKeepsLow32Bits(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x10000)
	c.SetReg(2, 0x10000)
	c.MUL(2, 1, 0, vm.CondAL, true)
	assert.Equal(t, uint32(0), c.Reg(0))
	assert.True(t, c.CPSR.Z)
	assert.False(t, c.CPSR.N)
}

func TestMLAAccumulates(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 7)
	c.SetReg(2, 6)
	c.SetReg(3, 100)
	c.MLA(2, 3, 1, 0, vm.CondAL, false)
	assert.Equal(t, uint32(142), c.Reg(0))
}

func TestMLAAliasedDestination(t *testing.T) {
	// d aliases the accumulator: the pre-write value feeds the sum
	c := newTestCPU()
	c.SetReg(0, 100)
	c.SetReg(1, 3)
	c.SetReg(2, 4)
	c.MLA(2, 0, 1, 0, vm.CondAL, false)
	assert.Equal(t, uint32(112), c.Reg(0))
}

func TestUMULLPairConsistency(t *testing.T) {
	c := newTestCPU()
	pairs := []struct{ a, b uint32 }{
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
		{0, 0xFFFFFFFF},
		{0x80000000, 2},
	}
	for _, p := range pairs {
		c.SetReg(0, p.a)
		c.SetReg(1, p.b)
		c.UMULL(1, 0, 2, 3, vm.CondAL, false)
		product := uint64(p.a) * uint64(p.b)
		assert.Equal(t, uint32(product), c.Reg(2), "low word of %08X*%08X", p.a, p.b)
		assert.Equal(t, uint32(product>>32), c.Reg(3), "high word of %08X*%08X", p.a, p.b)
	}
}

func TestSMULLPairConsistency(t *testing.T) {
	c := newTestCPU()
	pairs := []struct{ a, b uint32 }{
		{0xFFFFFFFF, 2},          // -1 * 2
		{0x80000000, 0x80000000}, // most negative squared
		{0x7FFFFFFF, 0x7FFFFFFF},
		{100, 0xFFFFFF9C}, // 100 * -100
	}
	for _, p := range pairs {
		c.SetReg(0, p.a)
		c.SetReg(1, p.b)
		c.SMULL(1, 0, 2, 3, vm.CondAL, true)
		product := int64(int32(p.a)) * int64(int32(p.b))
		assert.Equal(t, uint32(uint64(product)), c.Reg(2))
		assert.Equal(t, uint32(uint64(product)>>32), c.Reg(3))
		assert.Equal(t, product < 0, c.CPSR.N)
		assert.Equal(t, product == 0, c.CPSR.Z)
	}
}

func TestUMLALAccumulates64(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0xFFFFFFFF) // lo
	c.SetReg(3, 1)          // hi
	c.SetReg(0, 2)
	c.SetReg(1, 3)
	c.UMLAL(1, 0, 2, 3, vm.CondAL, false)
	want := (uint64(1)<<32 | 0xFFFFFFFF) + 6
	assert.Equal(t, uint32(want), c.Reg(2))
	assert.Equal(t, uint32(want>>32), c.Reg(3))
}

func TestSMLALAccumulatesSigned(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 100)        // lo
	c.SetReg(3, 0)          // hi
	c.SetReg(0, 0xFFFFFFFF) // -1
	c.SetReg(1, 50)
	c.SMLAL(1, 0, 2, 3, vm.CondAL, false)
	neg50 := int64(-50)
	want := uint64(100) + uint64(neg50)
	assert.Equal(t, uint32(want), c.Reg(2))
	assert.Equal(t, uint32(want>>32), c.Reg(3))
}

func TestUMAAL(t *testing.T) {
	c := newTestCPU()
	c.SetReg(2, 0xFFFFFFFF) // lo addend
	c.SetReg(3, 0xFFFFFFFF) // hi addend
	c.SetReg(0, 0xFFFFFFFF)
	c.SetReg(1, 0xFFFFFFFF)
	c.UMAAL(1, 0, 2, 3, vm.CondAL)
	want := uint64(0xFFFFFFFF)*uint64(0xFFFFFFFF) + 0xFFFFFFFF + 0xFFFFFFFF
	assert.Equal(t, uint32(want), c.Reg(2))
	assert.Equal(t, uint32(want>>32), c.Reg(3))
}

func TestSMLAHalfwordSelectors(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x00050003) // halves 3, 5
	c.SetReg(2, 0x00070002) // halves 2, 7
	c.SetReg(3, 1000)

	c.SMLA(false, false, 2, 3, 1, 0, vm.CondAL) // 3*2 + 1000
	assert.Equal(t, uint32(1006), c.Reg(0))

	c.SMLA(true, true, 2, 3, 1, 0, vm.CondAL) // 5*7 + 1000
	assert.Equal(t, uint32(1035), c.Reg(0))
	assert.False(t, c.CPSR.Q)
}

func TestSMLAQOnAccumulateOverflow(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x7FFF) // 32767
	c.SetReg(2, 0x7FFF)
	c.SetReg(3, 0x7FFFFFFF)
	c.SMLA(false, false, 2, 3, 1, 0, vm.CondAL)
	assert.True(t, c.CPSR.Q, "accumulate overflow sets the sticky Q flag")
}

func TestSMULAndSMULW(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0xFFFF8000) // low half -32768
	c.SetReg(2, 0x00027FFF) // low half 32767, high half 2
	c.SMUL(false, false, 2, 1, 0, vm.CondAL)
	assert.Equal(t, uint32(0xC0008000), c.Reg(0), "-32768*32767")

	c.SetReg(1, 0x00010000)           // 65536
	c.SMULW(true, 2, 1, 0, vm.CondAL) // 65536 * 2 >> 16
	assert.Equal(t, uint32(2), c.Reg(0))
}

func TestSMUADAndSMUSD(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x00030004) // halves 4, 3
	c.SetReg(2, 0x00050006) // halves 6, 5

	c.SMUAD(2, 1, 0, vm.CondAL, false) // 4*6 + 3*5
	assert.Equal(t, uint32(39), c.Reg(0))

	c.SMUSD(2, 1, 0, vm.CondAL, false) // 4*6 - 3*5
	assert.Equal(t, uint32(9), c.Reg(0))

	c.SMUAD(2, 1, 0, vm.CondAL, true) // swapped: 4*5 + 3*6
	assert.Equal(t, uint32(38), c.Reg(0))
}

func TestSMLADAccumulates(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x00010002) // halves 2, 1
	c.SetReg(2, 0x00030004) // halves 4, 3
	c.SetReg(3, 100)
	c.SMLAD(2, 3, 1, 0, vm.CondAL, false) // 100 + 2*4 + 1*3
	assert.Equal(t, uint32(111), c.Reg(0))
	assert.False(t, c.CPSR.Q)
}

func TestSMLALDAndSMLSLD(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x00010002)
	c.SetReg(2, 0x00030004)
	c.SetReg(4, 10)                        // lo
	c.SetReg(5, 0)                         // hi
	c.SMLALD(2, 1, 4, 5, vm.CondAL, false) // 10 + 8 + 3
	assert.Equal(t, uint32(21), c.Reg(4))
	assert.Equal(t, uint32(0), c.Reg(5))

	c.SetReg(4, 10)
	c.SetReg(5, 0)
	c.SMLSLD(2, 1, 4, 5, vm.CondAL, false) // 10 + 8 - 3
	assert.Equal(t, uint32(15), c.Reg(4))
}

func TestSMMULRounding(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x80000000)
	c.SetReg(2, 0x80000000)
	c.SMMUL(2, 1, 0, vm.CondAL, false)
	assert.Equal(t, uint32(0x40000000), c.Reg(0), "(-2^31)^2 >> 32")

	// rounding adds half an LSB of the high word
	c.SetReg(1, 0x00010000)
	c.SetReg(2, 0x00008000) // product 0x80000000
	c.SMMUL(2, 1, 0, vm.CondAL, false)
	assert.Equal(t, uint32(0), c.Reg(0), "truncated")
	c.SMMUL(2, 1, 0, vm.CondAL, true)
	assert.Equal(t, uint32(1), c.Reg(0), "rounded half-up")
}

func TestSMMLAAndSMMLS(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x00010000)
	c.SetReg(2, 0x00010000) // product 0x1_00000000
	c.SetReg(3, 5)
	c.SMMLA(2, 3, 1, 0, vm.CondAL, false)
	assert.Equal(t, uint32(6), c.Reg(0))

	c.SMMLS(2, 3, 1, 0, vm.CondAL, false)
	assert.Equal(t, uint32(4), c.Reg(0))
}

func TestUSAD8SumsAbsoluteDifferences(t *testing.T) {
	c := newTestCPU()
	c.SetReg(1, 0x01020304)
	c.SetReg(2, 0x04030201)
	c.USAD8(2, 1, 0, vm.CondAL)
	assert.Equal(t, uint32(3+1+1+3), c.Reg(0))

	c.SetReg(3, 1000)
	c.USADA8(2, 3, 1, 0, vm.CondAL)
	assert.Equal(t, uint32(1008), c.Reg(0))
}

func TestLongMultiplyFlagRule(t *testing.T) {
	c := newTestCPU()
	c.SetReg(0, 0)
	c.SetReg(1, 5)
	c.UMULL(1, 0, 2, 3, vm.CondAL, true)
	assert.True(t, c.CPSR.Z, "Z covers the whole 64-bit result")
	assert.False(t, c.CPSR.N)

	c.SetReg(0, 0xFFFFFFFF)
	c.SetReg(1, 0xFFFFFFFF)
	c.SMULL(1, 0, 2, 3, vm.CondAL, true)
	assert.False(t, c.CPSR.Z)
	assert.False(t, c.CPSR.N, "1 is positive")
}
