package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

// scriptedCoproc is a coprocessor double with canned values and a
// transfer length
type scriptedCoproc struct {
	loaded     []uint32
	sent       []uint32
	values     []uint32
	remaining  int
	operations int
}

func (s *scriptedCoproc) DependentOperation() error { s.operations++; return nil }
func (s *scriptedCoproc) Load(word uint32) error    { s.loaded = append(s.loaded, word); return nil }
func (s *scriptedCoproc) Send(word uint32) error    { s.sent = append(s.sent, word); return nil }

func (s *scriptedCoproc) Value() (uint32, error) {
	v := s.values[0]
	s.values = s.values[1:]
	return v, nil
}

func (s *scriptedCoproc) FirstValue() (uint32, error)  { return 0x1111, nil }
func (s *scriptedCoproc) SecondValue() (uint32, error) { return 0x2222, nil }

func (s *scriptedCoproc) NotFinished() bool {
	s.remaining--
	return s.remaining >= 0
}

func TestCDPDispatches(t *testing.T) {
	c := newTestCPU()
	cp := &scriptedCoproc{}
	c.Coprocs[5] = cp
	require.NoError(t, c.CDP(5, vm.CondAL))
	assert.Equal(t, 1, cp.operations)
}

func TestCDPMissingCoprocessor(t *testing.T) {
	c := newTestCPU()
	assert.Error(t, c.CDP(5, vm.CondAL))
	assert.NoError(t, c.CDP(5, vm.CondEQ), "condition fail never reaches the coprocessor")
}

func TestLDCPollsNotFinished(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	cp := &scriptedCoproc{remaining: 2}
	c.Coprocs[5] = cp
	require.NoError(t, machine.Memory.WriteWord(0x2000, 0xAA))
	require.NoError(t, machine.Memory.WriteWord(0x2004, 0xBB))
	require.NoError(t, machine.Memory.WriteWord(0x2008, 0xCC))

	require.NoError(t, c.LDC(0x2000, 5, vm.CondAL))
	assert.Equal(t, []uint32{0xAA, 0xBB, 0xCC}, cp.loaded)
}

func TestSTCWritesSuccessiveWords(t *testing.T) {
	machine := newTestMachine(true)
	c := machine.CPU
	cp := &scriptedCoproc{remaining: 1, values: []uint32{0x11, 0x22}}
	c.Coprocs[5] = cp

	require.NoError(t, c.STC(0x2000, 5, vm.CondAL))
	w0, _ := machine.Memory.ReadWord(0x2000)
	w1, _ := machine.Memory.ReadWord(0x2004)
	assert.Equal(t, uint32(0x11), w0)
	assert.Equal(t, uint32(0x22), w1)
}

func TestMCRAndMCRR(t *testing.T) {
	c := newTestCPU()
	cp := &scriptedCoproc{}
	c.Coprocs[5] = cp
	c.SetReg(1, 0xAAAA)
	c.SetReg(2, 0xBBBB)

	require.NoError(t, c.MCR(1, 5, vm.CondAL))
	assert.Equal(t, []uint32{0xAAAA}, cp.sent)

	require.NoError(t, c.MCRR(2, 1, 5, vm.CondAL))
	assert.Equal(t, []uint32{0xAAAA, 0xAAAA, 0xBBBB}, cp.sent, "Rd then Rn")
}

func TestMRCToRegister(t *testing.T) {
	c := newTestCPU()
	cp := &scriptedCoproc{values: []uint32{0xCAFE}}
	c.Coprocs[5] = cp
	require.NoError(t, c.MRC(1, 5, vm.CondAL))
	assert.Equal(t, uint32(0xCAFE), c.Reg(1))
}

func TestMRCToFlags(t *testing.T) {
	// destination r15 routes the top bits into the CPSR flags
	c := newTestCPU()
	cp := &scriptedCoproc{values: []uint32{0xF0000000}}
	c.Coprocs[5] = cp
	pc := c.PC
	require.NoError(t, c.MRC(15, 5, vm.CondAL))
	assert.True(t, c.CPSR.N)
	assert.True(t, c.CPSR.Z)
	assert.True(t, c.CPSR.C)
	assert.True(t, c.CPSR.V)
	assert.Equal(t, pc, c.PC, "the PC is not written")
}

func TestMRRC(t *testing.T) {
	c := newTestCPU()
	cp := &scriptedCoproc{}
	c.Coprocs[5] = cp
	require.NoError(t, c.MRRC(2, 1, 5, vm.CondAL))
	assert.Equal(t, uint32(0x1111), c.Reg(1))
	assert.Equal(t, uint32(0x2222), c.Reg(2))
}

func TestSystemCoprocessorDefaults(t *testing.T) {
	cp15 := vm.NewSystemCoprocessor()
	assert.True(t, cp15.Reg1UBit())
	assert.False(t, cp15.Reg1EEBit())
	assert.False(t, cp15.HighVectorsConfigured())

	psr := cp15.PSRWithEBit(vm.PSR{Mode: vm.ModeUser}, true)
	assert.True(t, psr.E)
	assert.Equal(t, vm.ModeUser, psr.Mode)
}
