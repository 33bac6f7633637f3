package bus

import (
	"math/bits"

	"github.com/ljs-goba/gbabus/internal/backup"
	"github.com/ljs-goba/gbabus/internal/cartridge"
	"github.com/ljs-goba/gbabus/internal/gpio"
	"github.com/ljs-goba/gbabus/internal/region"
)

// replicate widens a narrow bus value up to 32 bits by repeating it, the
// shape every open-bus/DMA-bus telemetry value takes.
func replicate(v uint32, widthBytes int) uint32 {
	switch widthBytes {
	case 1:
		b := v & 0xFF
		return b | b<<8 | b<<16 | b<<24
	case 2:
		h := v & 0xFFFF
		return h | h<<16
	default:
		return v
	}
}

// charge runs the timing-accrual sequence (spec.md §4.4) for one timed
// access and returns the region code decoded from addr. It is the only
// place gamepakBusInUse, lastWasDMA, and the prefetch buffer are touched
// on the CPU-access path.
func (b *Bus) charge(addr uint32, widthBytes int, sequential bool) region.Code {
	code := region.Decode(addr)

	if code.IsCart() && addr&region.CartStride == 0 {
		sequential = false
	}

	cycles := b.timing.Cycles(widthBytes, sequential, uint8(code))
	isCart := code.IsCart()
	b.gamepakBusInUse = isCart

	if isCart && b.prefetchEnabled && !b.cpu.DMARunning() {
		b.gamepakBusInUse = b.pf.Access(addr, uint8(code), b.cpu.Thumb(), cycles, b, b.idle)
	} else {
		b.idle.Advance(cycles)
	}
	b.lastWasDMA = false
	return code
}

// checkDebug consults the optional watchpoint hook. A nil hook (the
// common case) costs one comparison.
func (b *Bus) checkDebug(addr uint32, widthBytes int, isWrite bool) {
	if b.debug == nil {
		return
	}
	if b.debug.OnAccess(addr, widthBytes, isWrite) {
		b.halted = true
	}
}

// --- timed reads ---

func (b *Bus) Read8(addr uint32, sequential bool) uint8 {
	code := b.charge(addr, 1, sequential)
	b.checkDebug(addr, 1, false)
	return uint8(b.dispatchRead(addr, addr, code, 1))
}

func (b *Bus) Read16(addr uint32, sequential bool) uint16 {
	eaddr := addr &^ 1
	code := b.charge(eaddr, 2, sequential)
	b.checkDebug(addr, 2, false)
	return uint16(b.dispatchRead(addr, eaddr, code, 2))
}

func (b *Bus) Read32(addr uint32, sequential bool) uint32 {
	eaddr := addr &^ 3
	code := b.charge(eaddr, 4, sequential)
	b.checkDebug(addr, 4, false)
	return b.dispatchRead(addr, eaddr, code, 4)
}

// Read16Rotated and Read32Rotated implement the ARM7TDMI's misaligned-LDR
// behavior: the memory system is only ever asked for the word-aligned
// address (Read16/Read32 above already floor it), and the CPU itself
// rotates the fetched word right by 8 bits per byte of misalignment.
func (b *Bus) Read16Rotated(addr uint32, sequential bool) uint16 {
	v := b.Read16(addr, sequential)
	return bits.RotateLeft16(v, -int((addr&1)*8))
}

func (b *Bus) Read32Rotated(addr uint32, sequential bool) uint32 {
	v := b.Read32(addr, sequential)
	return bits.RotateLeft32(v, -int((addr&3)*8))
}

// --- timed writes ---

func (b *Bus) Write8(addr uint32, v uint8, sequential bool) {
	code := b.charge(addr, 1, sequential)
	b.checkDebug(addr, 1, true)
	b.dispatchWrite(addr, addr, code, 1, uint32(v))
}

func (b *Bus) Write16(addr uint32, v uint16, sequential bool) {
	eaddr := addr &^ 1
	code := b.charge(eaddr, 2, sequential)
	b.checkDebug(addr, 2, true)
	b.dispatchWrite(addr, eaddr, code, 2, uint32(v))
}

func (b *Bus) Write32(addr uint32, v uint32, sequential bool) {
	eaddr := addr &^ 3
	code := b.charge(eaddr, 4, sequential)
	b.checkDebug(addr, 4, true)
	b.dispatchWrite(addr, eaddr, code, 4, v)
}

// --- raw reads/writes: same dispatch, no cycle accounting, no
// watchpoint evaluation. Intended for DMA, debugger peek/poke, and
// snapshotting. ---

func (b *Bus) Read8Raw(addr uint32) uint8 {
	code := region.Decode(addr)
	return uint8(b.dispatchRead(addr, addr, code, 1))
}

func (b *Bus) Read16Raw(addr uint32) uint16 {
	eaddr := addr &^ 1
	code := region.Decode(eaddr)
	return uint16(b.dispatchRead(addr, eaddr, code, 2))
}

func (b *Bus) Read32Raw(addr uint32) uint32 {
	eaddr := addr &^ 3
	code := region.Decode(eaddr)
	return b.dispatchRead(addr, eaddr, code, 4)
}

func (b *Bus) Write8Raw(addr uint32, v uint8) {
	code := region.Decode(addr)
	b.dispatchWrite(addr, addr, code, 1, uint32(v))
}

func (b *Bus) Write16Raw(addr uint32, v uint16) {
	eaddr := addr &^ 1
	code := region.Decode(eaddr)
	b.dispatchWrite(addr, eaddr, code, 2, uint32(v))
}

func (b *Bus) Write32Raw(addr uint32, v uint32) {
	eaddr := addr &^ 3
	code := region.Decode(eaddr)
	b.dispatchWrite(addr, eaddr, code, 4, v)
}

// --- DMA access: raw dispatch plus the telemetry updates only DMA
// performs (spec.md §3: was_last_access_from_dma, dma_bus). ---

func (b *Bus) DMARead8(addr uint32) uint8 {
	v := b.Read8Raw(addr)
	b.noteDMA(addr, 1, uint32(v))
	return v
}

func (b *Bus) DMARead16(addr uint32) uint16 {
	v := b.Read16Raw(addr)
	b.noteDMA(addr, 2, uint32(v))
	return v
}

func (b *Bus) DMARead32(addr uint32) uint32 {
	v := b.Read32Raw(addr)
	b.noteDMA(addr, 4, v)
	return v
}

func (b *Bus) DMAWrite8(addr uint32, v uint8) {
	b.Write8Raw(addr, v)
	b.noteDMA(addr, 1, uint32(v))
}

func (b *Bus) DMAWrite16(addr uint32, v uint16) {
	b.Write16Raw(addr, v)
	b.noteDMA(addr, 2, uint32(v))
}

func (b *Bus) DMAWrite32(addr uint32, v uint32) {
	b.Write32Raw(addr, v)
	b.noteDMA(addr, 4, v)
}

func (b *Bus) noteDMA(addr uint32, widthBytes int, v uint32) {
	b.gamepakBusInUse = region.Decode(addr).IsCart()
	b.lastWasDMA = true
	b.dmaBus = replicate(v, widthBytes)
}

// --- region dispatch ---

// dispatchRead returns the value at eaddr (the access-width-aligned
// address), except for SRAM where rawAddr is used directly: SRAM's 8-bit
// data bus sees the CPU's address lines unmodified, which is also why
// its write rotation (below) keys off rawAddr rather than eaddr.
func (b *Bus) dispatchRead(rawAddr, eaddr uint32, code region.Code, widthBytes int) uint32 {
	switch code.Attrs().Kind {
	case region.KindBIOS:
		if eaddr <= region.BIOSEnd && b.cpu.PC() <= region.BIOSEnd {
			b.biosLatch = b.biosROM.ReadWord32(eaddr &^ 3)
		}
		shift := (eaddr & 3) * 8
		return narrow(b.biosLatch>>shift, widthBytes)

	case region.KindEWRAM:
		return b.readRAM(b.ewram.Read8, b.ewram.Read16, b.ewram.Read32, eaddr, widthBytes)

	case region.KindIWRAM:
		return b.readRAM(b.iwram.Read8, b.iwram.Read16, b.iwram.Read32, eaddr, widthBytes)

	case region.KindIO:
		return b.readIOBytes(eaddr, widthBytes)

	case region.KindPalette:
		switch widthBytes {
		case 1:
			return uint32(b.disp.ReadPalette8(eaddr))
		case 2:
			return uint32(b.disp.ReadPalette16(eaddr))
		default:
			return b.disp.ReadPalette32(eaddr)
		}

	case region.KindVRAM:
		switch widthBytes {
		case 1:
			return uint32(b.disp.ReadVRAM8(eaddr))
		case 2:
			return uint32(b.disp.ReadVRAM16(eaddr))
		default:
			return b.disp.ReadVRAM32(eaddr)
		}

	case region.KindOAM:
		switch widthBytes {
		case 1:
			return uint32(b.disp.ReadOAM8(eaddr))
		case 2:
			return uint32(b.disp.ReadOAM16(eaddr))
		default:
			return b.disp.ReadOAM32(eaddr)
		}

	case region.KindCartROM:
		return b.readCartROM(eaddr, widthBytes)

	case region.KindSRAM:
		v := uint32(b.backup.ReadByte(rawAddr & 0xFFFFFF))
		return replicate(v, widthBytes)

	default: // KindUnmapped
		b.logger.WithField("addr", eaddr).Debug("bus: read from unmapped region")
		return b.resolveOpenBus(eaddr, widthBytes)
	}
}

func (b *Bus) readRAM(read8 func(uint32) uint8, read16 func(uint32) uint16, read32 func(uint32) uint32, addr uint32, widthBytes int) uint32 {
	switch widthBytes {
	case 1:
		return uint32(read8(addr))
	case 2:
		return uint32(read16(addr))
	default:
		return read32(addr)
	}
}

func (b *Bus) readIOBytes(addr uint32, widthBytes int) uint32 {
	v := uint32(b.ioBank.ReadByte(addr))
	if widthBytes >= 2 {
		v |= uint32(b.ioBank.ReadByte(addr+1)) << 8
	}
	if widthBytes == 4 {
		v |= uint32(b.ioBank.ReadByte(addr+2)) << 16
		v |= uint32(b.ioBank.ReadByte(addr+3)) << 24
	}
	return v
}

func (b *Bus) readCartROM(addr uint32, widthBytes int) uint32 {
	if mask, rangeLow, ok := b.backup.EEPROMWindow(); ok && backup.InWindow(addr, mask, rangeLow) {
		v := uint32(b.backup.ReadByte(addr))
		if widthBytes >= 2 {
			v |= uint32(b.backup.ReadByte(addr+1)) << 8
		}
		if widthBytes == 4 {
			v |= uint32(b.backup.ReadByte(addr+2)) << 16
			v |= uint32(b.backup.ReadByte(addr+3)) << 24
		}
		return v
	}

	cartOff := addr & 0xFFFFFF
	if b.gpio.Readable() && gpio.InWindow(cartOff) {
		v := uint32(b.gpio.ReadByte(addr))
		if widthBytes >= 2 {
			v |= uint32(b.gpio.ReadByte(addr+1)) << 8
		}
		if widthBytes == 4 {
			v |= uint32(b.gpio.ReadByte(addr+2)) << 16
			v |= uint32(b.gpio.ReadByte(addr+3)) << 24
		}
		return v
	}

	if cartOff >= b.rom.Size() {
		switch widthBytes {
		case 1:
			return uint32(cartridge.OutOfBoundsRead8(addr))
		case 2:
			return uint32(cartridge.OutOfBoundsRead16(addr))
		default:
			return cartridge.OutOfBoundsRead32(addr)
		}
	}

	switch widthBytes {
	case 1:
		return uint32(b.rom.Read8(cartOff))
	case 2:
		return uint32(b.rom.Read16(cartOff))
	default:
		return b.rom.Read32(cartOff)
	}
}

// dispatchWrite writes v (already truncated to widthBytes by the caller's
// type, but passed widened here) through region-specific storage. See
// dispatchRead's doc comment for why SRAM uses rawAddr.
func (b *Bus) dispatchWrite(rawAddr, eaddr uint32, code region.Code, widthBytes int, v uint32) {
	switch code.Attrs().Kind {
	case region.KindBIOS:
		b.logger.WithField("addr", eaddr).Debug("bus: write to read-only BIOS dropped")

	case region.KindEWRAM:
		b.writeRAM(b.ewram.Write8, b.ewram.Write16, b.ewram.Write32, eaddr, widthBytes, v)

	case region.KindIWRAM:
		b.writeRAM(b.iwram.Write8, b.iwram.Write16, b.iwram.Write32, eaddr, widthBytes, v)

	case region.KindIO:
		b.writeIOBytes(eaddr, widthBytes, v)

	case region.KindPalette:
		switch widthBytes {
		case 1:
			b.disp.WritePaletteSplat8(eaddr, uint8(v))
		case 2:
			b.disp.WritePalette16(eaddr, uint16(v))
		default:
			b.disp.WritePalette32(eaddr, v)
		}

	case region.KindVRAM:
		switch widthBytes {
		case 1:
			if !b.disp.WriteVRAMByte(eaddr, uint8(v), b.video) {
				b.logger.WithField("addr", eaddr).Debug("bus: 8-bit VRAM write outside BG area dropped")
			}
		case 2:
			b.disp.WriteVRAM16(eaddr, uint16(v))
		default:
			b.disp.WriteVRAM32(eaddr, v)
		}

	case region.KindOAM:
		switch widthBytes {
		case 1:
			b.logger.WithField("addr", eaddr).Debug("bus: 8-bit OAM write dropped")
		case 2:
			b.disp.WriteOAM16(eaddr, uint16(v))
		default:
			b.disp.WriteOAM32(eaddr, v)
		}

	case region.KindCartROM:
		b.writeCartROM(eaddr, widthBytes, v)

	case region.KindSRAM:
		if widthBytes == 1 {
			b.backup.WriteByte(rawAddr&0xFFFFFF, uint8(v))
			return
		}
		shift := (rawAddr & uint32(widthBytes-1)) * 8
		rotated := bits.RotateLeft32(v, -int(shift))
		b.backup.WriteByte(rawAddr&0xFFFFFF, uint8(rotated))

	default: // KindUnmapped
		b.logger.WithField("addr", eaddr).Debug("bus: write to unmapped region dropped")
	}
}

func (b *Bus) writeRAM(write8 func(uint32, uint8), write16 func(uint32, uint16), write32 func(uint32, uint32), addr uint32, widthBytes int, v uint32) {
	switch widthBytes {
	case 1:
		write8(addr, uint8(v))
	case 2:
		write16(addr, uint16(v))
	default:
		write32(addr, v)
	}
}

func (b *Bus) writeIOBytes(addr uint32, widthBytes int, v uint32) {
	b.ioBank.WriteByte(addr, uint8(v))
	if widthBytes >= 2 {
		b.ioBank.WriteByte(addr+1, uint8(v>>8))
	}
	if widthBytes == 4 {
		b.ioBank.WriteByte(addr+2, uint8(v>>16))
		b.ioBank.WriteByte(addr+3, uint8(v>>24))
	}
}

func (b *Bus) writeCartROM(addr uint32, widthBytes int, v uint32) {
	if mask, rangeLow, ok := b.backup.EEPROMWindow(); ok && backup.InWindow(addr, mask, rangeLow) {
		b.backup.WriteByte(addr, uint8(v))
		if widthBytes >= 2 {
			b.backup.WriteByte(addr+1, uint8(v>>8))
		}
		if widthBytes == 4 {
			b.backup.WriteByte(addr+2, uint8(v>>16))
			b.backup.WriteByte(addr+3, uint8(v>>24))
		}
		return
	}

	cartOff := addr & 0xFFFFFF
	if gpio.InWindow(cartOff) {
		b.gpio.WriteByte(addr, uint8(v))
		if widthBytes >= 2 {
			b.gpio.WriteByte(addr+1, uint8(v>>8))
		}
		if widthBytes == 4 {
			b.gpio.WriteByte(addr+2, uint8(v>>16))
			b.gpio.WriteByte(addr+3, uint8(v>>24))
		}
		return
	}

	b.logger.WithField("addr", addr).Debug("bus: write to cartridge ROM dropped")
}

// narrow truncates a shifted word down to the requested access width.
func narrow(v uint32, widthBytes int) uint32 {
	switch widthBytes {
	case 1:
		return v & 0xFF
	case 2:
		return v & 0xFFFF
	default:
		return v
	}
}
