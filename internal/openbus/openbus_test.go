package openbus

import "testing"

func TestDMATakesPriority(t *testing.T) {
	v := Resolve(0x04000000, 4, Telemetry{LastWasDMA: true, DMABus: 0xDEADBEEF})
	if v != 0xDEADBEEF {
		t.Errorf("Resolve with LastWasDMA = %#x, want 0xDEADBEEF", v)
	}
}

func TestARMModeUsesLastPrefetch(t *testing.T) {
	v := Resolve(0x00002000, 4, Telemetry{Thumb: false, Prefetch: [2]uint32{0x11111111, 0x22222222}})
	if v != 0x22222222 {
		t.Errorf("Resolve in ARM mode = %#x, want the most recent prefetch word", v)
	}
}

func TestThumbEWRAMBothHalvesReplicated(t *testing.T) {
	v := Resolve(0x02000000, 4, Telemetry{
		Thumb:    true,
		PC:       0x02000100,
		Prefetch: [2]uint32{0x1111, 0x2222},
	})
	want := uint32(0x2222) | uint32(0x2222)<<16
	if v != want {
		t.Errorf("Resolve Thumb/EWRAM = %#x, want %#x", v, want)
	}
}

func TestThumbIWRAMSwappedFormula(t *testing.T) {
	aligned := Resolve(0x03000000, 4, Telemetry{
		Thumb:    true,
		PC:       0x03000100, // PC & 2 == 0
		Prefetch: [2]uint32{0x1111, 0x2222},
	})
	wantAligned := uint32(0x2222) | uint32(0x1111)<<16
	if aligned != wantAligned {
		t.Errorf("Resolve Thumb/IWRAM aligned PC = %#x, want %#x", aligned, wantAligned)
	}

	unaligned := Resolve(0x03000000, 4, Telemetry{
		Thumb:    true,
		PC:       0x03000102, // PC & 2 != 0
		Prefetch: [2]uint32{0x1111, 0x2222},
	})
	wantUnaligned := uint32(0x1111) | uint32(0x2222)<<16
	if unaligned != wantUnaligned {
		t.Errorf("Resolve Thumb/IWRAM unaligned PC = %#x, want %#x", unaligned, wantUnaligned)
	}
}

func TestResolveNarrowsToRequestedWidth(t *testing.T) {
	v := Resolve(0x00000002, 2, Telemetry{Thumb: false, Prefetch: [2]uint32{0, 0xAABBCCDD}})
	if v != 0xAABB {
		t.Errorf("Resolve 16-bit at offset 2 = %#x, want 0xAABB", v)
	}
}

func TestUnreachablePCRegionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Resolve with an invalid Thumb PC region should panic")
		}
	}()
	Resolve(0x08000000, 4, Telemetry{Thumb: true, PC: 0x04000000})
}
