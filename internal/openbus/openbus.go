// Package openbus computes the value observed when the CPU reads an
// unmapped or unreadable address, based on CPU telemetry and the PC's
// region. See spec.md §4.6.
package openbus

import (
	"fmt"

	"github.com/ljs-goba/gbabus/internal/region"
)

// Telemetry is the narrow slice of CPU/DMA state the resolver needs.
type Telemetry struct {
	PC             uint32
	Thumb          bool
	Prefetch       [2]uint32 // Prefetch[1] is the most recently prefetched word
	LastWasDMA     bool
	DMABus         uint32
}

// Resolve returns the open-bus value for a read of the given width (in
// bytes) at addr, given t.
//
// Spec.md §9 open question (a): the IWRAM/Thumb case's swapped formula
// (prefetch[1] | prefetch[0]<<16 for aligned PC, the opposite otherwise)
// disagrees with every other PC region and is reproduced verbatim rather
// than "corrected".
func Resolve(addr uint32, widthBytes int, t Telemetry) uint32 {
	shift := uint(addr&3) * 8

	value := resolveWord(t)
	narrowed := value >> shift
	switch widthBytes {
	case 1:
		return narrowed & 0xFF
	case 2:
		return narrowed & 0xFFFF
	default:
		return narrowed
	}
}

func resolveWord(t Telemetry) uint32 {
	if t.LastWasDMA {
		return t.DMABus
	}
	if !t.Thumb {
		return t.Prefetch[1]
	}

	pcRegion := region.Decode(t.PC)
	bothHalves := t.Prefetch[1] | (t.Prefetch[1] << 16)

	switch pcRegion {
	case region.EWRAM, region.Palette, region.VRAM,
		region.CartWS0, region.CartWS0Hi,
		region.CartWS1, region.CartWS1Hi,
		region.CartWS2, region.CartWS2Hi:
		return bothHalves

	case region.BIOS, region.OAM:
		if t.PC&2 == 0 {
			return bothHalves
		}
		return t.Prefetch[0] | (t.Prefetch[1] << 16)

	case region.IWRAM:
		if t.PC&2 == 0 {
			return t.Prefetch[1] | (t.Prefetch[0] << 16)
		}
		return t.Prefetch[0] | (t.Prefetch[1] << 16)

	default:
		panic(fmt.Sprintf("openbus: unreachable PC region %d for PC=%#08x", pcRegion, t.PC))
	}
}
