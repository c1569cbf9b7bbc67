package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/armv6-emulator/loader"
	"github.com/lookbusy1344/armv6-emulator/vm"
)

func writeImage(t *testing.T, words ...uint32) string {
	t.Helper()
	data := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[4*i:], w)
	}
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeImage(t, 0xE3A00042, 0xEAFFFFFE)
	img, err := loader.LoadFile(path, 0x8000)
	require.NoError(t, err)
	assert.Len(t, img.Data, 8)
	assert.Equal(t, uint32(0x8000), img.LoadAddress)
	assert.Equal(t, uint32(0x8000), img.EntryPoint)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.bin"), 0)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = loader.LoadFile(empty, 0)
	assert.Error(t, err)

	odd := filepath.Join(t.TempDir(), "odd.bin")
	require.NoError(t, os.WriteFile(odd, []byte{1, 2, 3}, 0o644))
	_, err = loader.LoadFile(odd, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "word-aligned")
}

func TestLoadIntoVM(t *testing.T) {
	path := writeImage(t, 0xE3A00042)
	img, err := loader.LoadFile(path, vm.CodeSegmentStart)
	require.NoError(t, err)
	img.EntryPoint = vm.CodeSegmentStart

	machine := vm.NewVM()
	require.NoError(t, img.LoadIntoVM(machine))
	assert.Equal(t, uint32(vm.CodeSegmentStart), machine.CPU.PC)

	require.NoError(t, machine.Step())
	assert.Equal(t, uint32(0x42), machine.CPU.Reg(0))
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
		ok    bool
	}{
		{"0x8000", 0x8000, true},
		{"0X10", 0x10, true},
		{"1234", 1234, true},
		{" 0x20 ", 0x20, true},
		{"bogus", 0, false},
		{"0x1FFFFFFFF", 0, false},
	}
	for _, tt := range tests {
		got, err := loader.ParseAddress(tt.input)
		if tt.ok {
			assert.NoError(t, err, tt.input)
			assert.Equal(t, tt.want, got, tt.input)
		} else {
			assert.Error(t, err, tt.input)
		}
	}
}
