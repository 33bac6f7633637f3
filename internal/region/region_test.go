package region

import "testing"

func TestDecode(t *testing.T) {
	cases := []struct {
		addr uint32
		want Code
	}{
		{0x00000000, BIOS},
		{0x00003FFF, BIOS},
		{0x02000000, EWRAM},
		{0x03000000, IWRAM},
		{0x04000000, IO},
		{0x05000000, Palette},
		{0x06000000, VRAM},
		{0x07000000, OAM},
		{0x08000000, CartWS0},
		{0x09000000, CartWS0Hi},
		{0x0A000000, CartWS1},
		{0x0C000000, CartWS2},
		{0x0E000000, SRAM},
		{0x0F000000, SRAMMirror},
	}
	for _, c := range cases {
		if got := Decode(c.addr); got != c.want {
			t.Errorf("Decode(%#08x) = %v, want %v", c.addr, got, c.want)
		}
	}
}

func TestIsCart(t *testing.T) {
	for _, c := range []Code{CartWS0, CartWS0Hi, CartWS1, CartWS1Hi, CartWS2, CartWS2Hi} {
		if !c.IsCart() {
			t.Errorf("%v.IsCart() = false, want true", c)
		}
	}
	for _, c := range []Code{BIOS, EWRAM, IWRAM, IO, Palette, VRAM, OAM, SRAM, SRAMMirror, Unused1} {
		if c.IsCart() {
			t.Errorf("%v.IsCart() = true, want false", c)
		}
	}
}

func TestAttrsBusWidth(t *testing.T) {
	if EWRAM.Attrs().BusWidth != 16 {
		t.Errorf("EWRAM BusWidth = %d, want 16", EWRAM.Attrs().BusWidth)
	}
	if IWRAM.Attrs().BusWidth != 32 {
		t.Errorf("IWRAM BusWidth = %d, want 32", IWRAM.Attrs().BusWidth)
	}
	if BIOS.Attrs().Writable {
		t.Error("BIOS.Attrs().Writable = true, want false")
	}
}

func TestUnused1IsUnmapped(t *testing.T) {
	if Unused1.Attrs().Kind != KindUnmapped {
		t.Errorf("Unused1.Attrs().Kind = %v, want KindUnmapped", Unused1.Attrs().Kind)
	}
}
