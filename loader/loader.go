package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lookbusy1344/armv6-emulator/vm"
)

// Image is a flat binary program image bound to a load address
type Image struct {
	Data        []byte
	LoadAddress uint32
	EntryPoint  uint32
}

// LoadFile reads a flat binary image from disk
func LoadFile(path string, loadAddress uint32) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image %s is empty", path)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("image %s is not word-aligned (%d bytes)", path, len(data))
	}
	return &Image{
		Data:        data,
		LoadAddress: loadAddress,
		EntryPoint:  loadAddress,
	}, nil
}

// LoadIntoVM places the image into the machine's memory and points the
// processor at the entry point
func (img *Image) LoadIntoVM(machine *vm.VM) error {
	if err := machine.LoadProgram(img.Data, img.LoadAddress); err != nil {
		return err
	}
	machine.CPU.PC = img.EntryPoint
	machine.EntryPoint = img.EntryPoint
	return nil
}

// ParseAddress parses a hex (0x-prefixed) or decimal address string
func ParseAddress(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	value, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint32(value), nil
}
