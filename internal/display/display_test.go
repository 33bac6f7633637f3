package display

import "testing"

type fixedMode uint8

func (m fixedMode) DisplayMode() uint8 { return uint8(m) }

func TestPaletteSplat8(t *testing.T) {
	s := NewStore()
	s.WritePalette16(0x10, 0xBEEF)
	s.WritePaletteSplat8(0x10, 0x42)
	if got := s.ReadPalette16(0x10); got != 0x4242 {
		t.Errorf("ReadPalette16 after splat8 = %#x, want 0x4242", got)
	}
}

func TestVRAMMirrorFoldsTopQuarter(t *testing.T) {
	s := NewStore()
	s.WriteVRAM16(0x10000, 0xAAAA) // inside the real 96 KiB store
	// 0x18000 is the first offset past the backing store within the
	// 128 KiB window; it folds back to 0x10000.
	if got := s.ReadVRAM16(0x18000); got != 0xAAAA {
		t.Errorf("ReadVRAM16(0x18000) = %#x, want fold to 0x10000's value 0xAAAA", got)
	}
}

func TestVRAMByteWriteDroppedOutsideBGArea(t *testing.T) {
	s := NewStore()
	// Mode 0 (tile mode): BG area ends at 0x10000. An OBJ-area write
	// (e.g. 0x12000) must be dropped.
	ok := s.WriteVRAMByte(0x12000, 0x7F, fixedMode(0))
	if ok {
		t.Error("WriteVRAMByte in the OBJ area should report ok = false")
	}
	if got := s.ReadVRAM8(0x12000); got != 0 {
		t.Errorf("dropped VRAM byte write changed storage: got %#x, want 0", got)
	}
}

func TestVRAMByteWriteSplatsInsideBGArea(t *testing.T) {
	s := NewStore()
	ok := s.WriteVRAMByte(0x4001, 0x7F, fixedMode(0))
	if !ok {
		t.Error("WriteVRAMByte inside the BG area should succeed")
	}
	if got := s.ReadVRAM16(0x4000); got != 0x7F7F {
		t.Errorf("ReadVRAM16(0x4000) after byte splat = %#x, want 0x7F7F", got)
	}
}

func TestVRAMByteWriteBitmapModeWiderBoundary(t *testing.T) {
	s := NewStore()
	// Mode 3 (bitmap mode): BG area extends to 0x14000.
	ok := s.WriteVRAMByte(0x13000, 0x11, fixedMode(3))
	if !ok {
		t.Error("WriteVRAMByte at 0x13000 in bitmap mode should be inside the BG area")
	}
}

func TestOAMThirtyTwoBitRoundTrip(t *testing.T) {
	s := NewStore()
	s.WriteOAM32(0, 0x12345678)
	if got := s.ReadOAM32(0); got != 0x12345678 {
		t.Errorf("ReadOAM32 = %#x, want 0x12345678", got)
	}
}
