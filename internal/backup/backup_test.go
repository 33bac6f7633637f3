package backup

import "testing"

func TestSRAMWrapsAroundSize(t *testing.T) {
	s := NewSRAM(0x8000)
	s.WriteByte(0x8000, 0x42) // wraps to offset 0
	if got := s.ReadByte(0); got != 0x42 {
		t.Errorf("ReadByte(0) after wrapped write = %#x, want 0x42", got)
	}
}

func TestSRAMNoEEPROMWindow(t *testing.T) {
	s := NewSRAM(0x8000)
	if _, _, ok := s.EEPROMWindow(); ok {
		t.Error("plain SRAM should report no EEPROM window")
	}
}

func TestEEPROMWindowDetection(t *testing.T) {
	e := NewEEPROM(0x200, 0xFFFFFF, 0xFFFF00)
	mask, rangeLow, ok := e.EEPROMWindow()
	if !ok {
		t.Fatal("configured EEPROM should report ok = true")
	}
	if !InWindow(0x09FFFF80, mask, rangeLow) {
		t.Error("0x09FFFF80 should fall inside the narrow EEPROM window")
	}
	if InWindow(0x08000000, mask, rangeLow) {
		t.Error("0x08000000 should not fall inside the EEPROM window")
	}
}
