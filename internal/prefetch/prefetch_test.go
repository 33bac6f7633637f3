package prefetch

import "testing"

type fakeSink struct{ total uint32 }

func (s *fakeSink) Advance(cycles uint32) { s.total += cycles }

type fakeLookup struct{ seq16, seq32 uint32 }

func (l fakeLookup) SequentialCycles16(region uint8) uint32 { return l.seq16 }
func (l fakeLookup) SequentialCycles32(region uint8) uint32 { return l.seq32 }

func TestMissArmsAndChargesIntendedCycles(t *testing.T) {
	b := New()
	sink := &fakeSink{}
	lookup := fakeLookup{seq16: 2, seq32: 3}

	inUse := b.Access(0x08000000, 8, true, 6, lookup, sink)
	if !inUse {
		t.Error("Access on miss should report gamepakBusInUse = true")
	}
	if sink.total != 6 {
		t.Errorf("sink.total = %d, want 6 (intendedCycles)", sink.total)
	}
	if !b.Armed() {
		t.Error("buffer should be armed after a miss")
	}
	if b.Tail() != 0x08000002 {
		t.Errorf("Tail() = %#x, want 0x08000002", b.Tail())
	}
	if b.Size() != 0 {
		t.Errorf("Size() = %d, want 0 immediately after a miss", b.Size())
	}
}

// TestHitAfterFillMatchesWorkedScenario reproduces the documented example:
// a Thumb miss at 0x08000000 with a 2-cycle sequential reload, stepped 10
// cycles (5 slots fill), then a hit at the next sequential address
// completes in a single cycle.
func TestHitAfterFillMatchesWorkedScenario(t *testing.T) {
	b := New()
	sink := &fakeSink{}
	lookup := fakeLookup{seq16: 2, seq32: 3}

	b.Access(0x08000000, 8, true, 6, lookup, sink)
	b.Step(10)
	if b.Size() != 5 {
		t.Fatalf("Size() after Step(10) = %d, want 5", b.Size())
	}

	sink2 := &fakeSink{}
	inUse := b.Access(0x08000002, 8, true, 6, lookup, sink2)
	if inUse {
		t.Error("hit should release the cart bus (gamepakBusInUse = false)")
	}
	if sink2.total != 1 {
		t.Errorf("hit with size > 0 should cost exactly 1 cycle, got %d", sink2.total)
	}
	if b.Size() != 4 {
		t.Errorf("Size() after consuming one slot = %d, want 4", b.Size())
	}
}

func TestHitWithZeroSizeWaitsOutCountdown(t *testing.T) {
	b := New()
	sink := &fakeSink{}
	lookup := fakeLookup{seq16: 2, seq32: 3}

	b.Access(0x08000000, 8, true, 6, lookup, sink)
	// No Step call: the first slot is still in flight (countdown == reload == 2).
	sink2 := &fakeSink{}
	inUse := b.Access(0x08000002, 8, true, 6, lookup, sink2)
	if inUse {
		t.Error("hit-with-size-0 should still release the cart bus once the wait completes")
	}
	if sink2.total != 2 {
		t.Errorf("hit-with-size-0 should charge the remaining countdown (2), got %d", sink2.total)
	}
	if b.Size() != 0 {
		t.Errorf("Size() should remain 0 after a size-0 hit, got %d", b.Size())
	}
}

func TestMissOnNonSequentialAddress(t *testing.T) {
	b := New()
	sink := &fakeSink{}
	lookup := fakeLookup{seq16: 2, seq32: 3}

	b.Access(0x08000000, 8, true, 6, lookup, sink)
	b.Step(10)

	sink2 := &fakeSink{}
	inUse := b.Access(0x08000100, 8, true, 9, lookup, sink2)
	if !inUse {
		t.Error("Access at a non-matching tail should miss and re-arm")
	}
	if sink2.total != 9 {
		t.Errorf("miss should charge intendedCycles (9), got %d", sink2.total)
	}
	if b.Size() != 0 {
		t.Errorf("Size() after a fresh miss = %d, want 0", b.Size())
	}
}

func TestStepDiscardsExcessWhenFull(t *testing.T) {
	b := New()
	sink := &fakeSink{}
	lookup := fakeLookup{seq16: 2, seq32: 3}

	b.Access(0x08000000, 8, true, 6, lookup, sink)
	b.Step(1000) // capacity is 8 for Thumb; far more than enough to fill
	if b.Size() != 8 {
		t.Errorf("Size() = %d, want capacity 8 once full", b.Size())
	}
}

func TestResetClearsState(t *testing.T) {
	b := New()
	sink := &fakeSink{}
	lookup := fakeLookup{seq16: 2, seq32: 3}
	b.Access(0x08000000, 8, true, 6, lookup, sink)
	b.Reset()
	if b.Armed() || b.Size() != 0 || b.Tail() != 0 {
		t.Error("Reset should return the buffer to its zero value")
	}
}
