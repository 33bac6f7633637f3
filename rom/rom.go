// Package rom loads the two flat images the bus needs at construction:
// the BIOS boot ROM and the cartridge image. Adapted from the teacher
// repo's rom package, which loaded only the cartridge; LoadBIOS is new,
// sharing the same read-and-validate shape.
package rom

import (
	"fmt"
	"os"
)

// ROM is a loaded file's raw bytes, handed to bus.ResetConfig verbatim.
type ROM struct {
	Data []byte
}

// Load reads a GBA cartridge image from path.
func Load(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read ROM file: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ROM file is empty")
	}
	return &ROM{Data: data}, nil
}

// LoadBIOS reads a GBA BIOS image from path.
func LoadBIOS(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read BIOS file: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("BIOS file is empty")
	}
	return &ROM{Data: data}, nil
}
