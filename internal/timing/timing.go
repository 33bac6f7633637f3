// Package timing derives and exposes the two cycles-per-access tables
// (16-bit and 32-bit, each indexed by sequential-flag and region) that the
// access engine charges against the idle-cycle sink on every timed read or
// write.
//
// Grounded on the teacher repo's CPSR bit-field accessor style
// (internal/cpu/registers.go's GetFlagN/IsThumb/etc.), applied here to the
// WAITCNT register instead: Waitcnt is a typed wrapper over the raw 16-bit
// value with named field accessors rather than the caller masking bits by
// hand at every call site.
package timing

// Waitcnt is the 16-bit packed waitstate control register (WAITCNT).
type Waitcnt uint16

func (w Waitcnt) SRAMWait() uint8  { return uint8(w & 0x3) }
func (w Waitcnt) WS0NonSeq() uint8 { return uint8((w >> 2) & 0x3) }
func (w Waitcnt) WS0Seq() uint8    { return uint8((w >> 4) & 0x1) }
func (w Waitcnt) WS1NonSeq() uint8 { return uint8((w >> 5) & 0x3) }
func (w Waitcnt) WS1Seq() uint8    { return uint8((w >> 7) & 0x1) }
func (w Waitcnt) WS2NonSeq() uint8 { return uint8((w >> 8) & 0x3) }
func (w Waitcnt) WS2Seq() uint8    { return uint8((w >> 10) & 0x1) }

// PrefetchEnabled reports WAITCNT bit 14, the GamePak prefetch buffer
// enable bit.
func (w Waitcnt) PrefetchEnabled() bool { return w&(1<<14) != 0 }

// nonSeqWaitCycles is the shared non-sequential wait lookup for SRAM and
// every cart bank: W = [4, 3, 2, 8] cycles, added to the base cycle of 1.
var nonSeqWaitCycles = [4]uint32{4, 3, 2, 8}

// seqWaitCyclesByBank is indexed [bank][seqBit]; bank 0 -> {2,1}, bank 1 ->
// {4,1}, bank 2 -> {8,1}.
var seqWaitCyclesByBank = [3][2]uint32{
	{2, 1},
	{4, 1},
	{8, 1},
}

// Table holds the two 2x16 cycle tables (sequential flag x region code),
// one per access width. Index each with [seq][region], where seq is 1 for
// a sequential access and 0 otherwise.
type Table struct {
	Width16 [2][16]uint32
	Width32 [2][16]uint32
}

// constWidth16 is the fixed, never-mutated 16-bit timing row for non-cart,
// non-SRAM regions. Row 2 (EWRAM) charges 3 cycles; every other populated
// row charges 1.
var constWidth16 = [16]uint32{1, 1, 3, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0}

// constWidth32 mirrors constWidth16 for 32-bit access: EWRAM charges 6;
// Palette RAM and VRAM sit on a 16-bit bus so a 32-bit access costs two
// cycles; BIOS, IWRAM, I/O, and OAM are on a 32-bit bus and cost 1.
var constWidth32 = [16]uint32{1, 1, 6, 1, 1, 2, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0}

// New builds a Table from the given waitstate control value.
func New(waitcnt Waitcnt) *Table {
	t := &Table{}
	t.Recompute(waitcnt)
	return t
}

// Recompute rederives every cart/SRAM row of t from waitcnt. Non-cart rows
// are never touched; Recompute is idempotent — calling it twice with the
// same waitcnt yields identical tables.
func (t *Table) Recompute(waitcnt Waitcnt) {
	for seq := 0; seq < 2; seq++ {
		copy(t.Width16[seq][:], constWidth16[:])
		copy(t.Width32[seq][:], constWidth32[:])
	}

	// SRAM (regions 14 and 15): identical cycles in both sequential columns.
	sramCycles := 1 + nonSeqWaitCycles[waitcnt.SRAMWait()]
	for seq := 0; seq < 2; seq++ {
		t.Width16[seq][14] = sramCycles
		t.Width16[seq][15] = sramCycles
		t.Width32[seq][14] = sramCycles + sramCycles // nonseq32 = nonseq16 + seq16, seq32 = 2*seq16; sram has nonseq==seq
		t.Width32[seq][15] = sramCycles + sramCycles
	}

	banks := [3]struct {
		nonSeq uint8
		seq    uint8
		codes  [2]int
	}{
		{waitcnt.WS0NonSeq(), waitcnt.WS0Seq(), [2]int{8, 9}},
		{waitcnt.WS1NonSeq(), waitcnt.WS1Seq(), [2]int{10, 11}},
		{waitcnt.WS2NonSeq(), waitcnt.WS2Seq(), [2]int{12, 13}},
	}

	for bank, cfg := range banks {
		nonSeq16 := 1 + nonSeqWaitCycles[cfg.nonSeq]
		seq16 := 1 + seqWaitCyclesByBank[bank][cfg.seq]
		nonSeq32 := nonSeq16 + seq16
		seq32 := 2 * seq16
		for _, code := range cfg.codes {
			t.Width16[0][code] = nonSeq16
			t.Width16[1][code] = seq16
			t.Width32[0][code] = nonSeq32
			t.Width32[1][code] = seq32
		}
	}
}

// Cycles returns the charged cycle count for an access of the given width
// (in bytes: 1, 2, or 4), sequential flag, and region code. No bounds
// check is needed: region is always a 4-bit value.
func (t *Table) Cycles(widthBytes int, sequential bool, region uint8) uint32 {
	seq := 0
	if sequential {
		seq = 1
	}
	if widthBytes <= 2 {
		return t.Width16[seq][region]
	}
	return t.Width32[seq][region]
}
