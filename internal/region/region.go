// Package region implements the pure decode from a 32-bit GBA address to
// its region code and the fixed per-region policies that the rest of the
// bus subsystem consults (bus width, writability, mirror mask).
//
// Nothing here holds state: Decode and the Table lookups are pure
// functions of the address, mirroring the teacher repo's address-range
// switch in internal/bus/bus.go, collapsed into one indexable table per
// the "table of 16 handler descriptors" design note.
package region

// Code is the 4-bit region selector carved from bits 27-24 of an address.
type Code uint8

const (
	BIOS Code = iota
	Unused1
	EWRAM
	IWRAM
	IO
	Palette
	VRAM
	OAM
	CartWS0
	CartWS0Hi
	CartWS1
	CartWS1Hi
	CartWS2
	CartWS2Hi
	SRAM
	SRAMMirror
)

// Kind tags what storage/dispatch behavior a region needs. Several region
// Codes share a Kind (the three wait-state pairs all behave like CartROM).
type Kind uint8

const (
	KindBIOS Kind = iota
	KindEWRAM
	KindIWRAM
	KindIO
	KindPalette
	KindVRAM
	KindOAM
	KindCartROM
	KindSRAM
	KindUnmapped
)

// Attrs describes the fixed, immutable policy for one region Code.
type Attrs struct {
	Kind       Kind
	BusWidth   int  // 8, 16, or 32; width in bits of the region's data bus
	Writable   bool // false for pure-ROM regions (BIOS, cart ROM)
	MirrorMask uint32
	Bank       int // which of the three wait-state banks a CartROM region belongs to (0-2); -1 otherwise
}

// Table is the full 16-entry region attribute table, indexed by Code.
// Unpopulated codes decode to KindUnmapped.
var Table = [16]Attrs{
	BIOS:       {Kind: KindBIOS, BusWidth: 32, Writable: false, MirrorMask: 0x3FFF, Bank: -1},
	Unused1:    {Kind: KindUnmapped, Bank: -1},
	EWRAM:      {Kind: KindEWRAM, BusWidth: 16, Writable: true, MirrorMask: 0x3FFFF, Bank: -1},
	IWRAM:      {Kind: KindIWRAM, BusWidth: 32, Writable: true, MirrorMask: 0x7FFF, Bank: -1},
	IO:         {Kind: KindIO, BusWidth: 32, Writable: true, Bank: -1},
	Palette:    {Kind: KindPalette, BusWidth: 16, Writable: true, MirrorMask: 0x3FF, Bank: -1},
	VRAM:       {Kind: KindVRAM, BusWidth: 16, Writable: true, MirrorMask: 0x17FFF, Bank: -1},
	OAM:        {Kind: KindOAM, BusWidth: 32, Writable: true, MirrorMask: 0x3FF, Bank: -1},
	CartWS0:    {Kind: KindCartROM, BusWidth: 16, Writable: false, Bank: 0},
	CartWS0Hi:  {Kind: KindCartROM, BusWidth: 16, Writable: false, Bank: 0},
	CartWS1:    {Kind: KindCartROM, BusWidth: 16, Writable: false, Bank: 1},
	CartWS1Hi:  {Kind: KindCartROM, BusWidth: 16, Writable: false, Bank: 1},
	CartWS2:    {Kind: KindCartROM, BusWidth: 16, Writable: false, Bank: 2},
	CartWS2Hi:  {Kind: KindCartROM, BusWidth: 16, Writable: false, Bank: 2},
	SRAM:       {Kind: KindSRAM, BusWidth: 8, Writable: true, Bank: -1},
	SRAMMirror: {Kind: KindSRAM, BusWidth: 8, Writable: true, Bank: -1},
}

// CartStride is the 128 KiB boundary at which the cart bus reloads; a
// sequential access landing exactly on this boundary is charged as
// non-sequential (spec.md §4.4, step 3).
const CartStride = 0x1FFFF

// BIOSEnd is the last address inside the BIOS region.
const BIOSEnd = 0x3FFF

// Decode returns the region Code selected by the top nibble of addr.
func Decode(addr uint32) Code {
	return Code((addr >> 24) & 0xF)
}

// Attrs returns the fixed policy for a region Code.
func (c Code) Attrs() Attrs {
	return Table[c]
}

// IsCart reports whether c is one of the six cart-ROM wait-state regions.
func (c Code) IsCart() bool {
	return Table[c].Kind == KindCartROM
}

// IsMirror reports whether addr lies outside the first copy of its
// region's backing store, i.e. whether the mirror mask actually folds it.
func IsMirror(addr uint32, c Code) bool {
	attrs := Table[c]
	if attrs.MirrorMask == 0 {
		return false
	}
	offset := addr & 0x00FFFFFF
	return offset > attrs.MirrorMask
}
