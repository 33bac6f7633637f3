// Package prefetch models the GamePak prefetch buffer: a small FIFO that
// opportunistically fetches sequential cartridge words during idle
// cartridge-bus time so later sequential reads hit without a bus stall.
//
// The buffer is a pure state machine (spec.md §9 design notes: "a
// stepwise state machine rather than a coroutine"). Access and Step are
// its only two transitions, each a function of the current snapshot and
// one scalar input — no goroutines, no channels.
package prefetch

// IdleSink is the minimal collaborator the buffer needs: somewhere to
// charge elapsed cycles.
type IdleSink interface {
	Advance(cycles uint32)
}

// Buffer holds the prefetch FIFO's semantic state (spec.md §3).
type Buffer struct {
	insnLen  uint32 // 2 (Thumb) or 4 (ARM)
	capacity uint32 // 8 (Thumb) or 4 (ARM)
	reload   uint32 // cycles for one sequential cart fetch, captured at arm time
	countdown uint32
	size     uint32
	head     uint32
	tail     uint32
	armed    bool
}

// New returns an unarmed buffer. It becomes armed the first time Access
// re-arms it following a miss.
func New() *Buffer {
	return &Buffer{}
}

// Armed reports whether the buffer has ever been armed since the last
// Reset; callers combine this with a user "prefetch enabled" setting
// before deciding to call Access at all.
func (b *Buffer) Armed() bool { return b.armed }

// Reset clears all buffer state back to its post-construction zero value.
func (b *Buffer) Reset() {
	*b = Buffer{}
}

// Size returns the number of completed, ready-to-consume fetched slots.
func (b *Buffer) Size() uint32 { return b.size }

// Tail returns the address the CPU is expected to consume next.
func (b *Buffer) Tail() uint32 { return b.tail }

// TimingLookup's SequentialCycles16 and SequentialCycles32 are supplied by
// the caller and consulted at re-arm time (spec.md §4.5: "reload comes from the sequential 16-bit
// timing for Thumb or sequential 32-bit timing for ARM at the address's
// region"); the buffer itself has no notion of the timing table.
type TimingLookup interface {
	SequentialCycles16(region uint8) uint32
	SequentialCycles32(region uint8) uint32
}

// Access is called by the access engine when the cart bus is active and
// prefetch is permitted. thumb selects the CPU mode used to re-arm on a
// miss; region is the region code of addr (always a cart region in
// practice). intendedCycles is what the access would have cost with no
// prefetch interaction at all — the miss penalty.
func (b *Buffer) Access(addr uint32, region uint8, thumb bool, intendedCycles uint32, lookup TimingLookup, sink IdleSink) (gamepakBusInUse bool) {
	if b.armed && b.tail == addr {
		return b.hit(sink)
	}
	return b.miss(addr, region, thumb, intendedCycles, lookup, sink)
}

func (b *Buffer) hit(sink IdleSink) (gamepakBusInUse bool) {
	if b.size == 0 {
		// The front-most slot is in flight: release the cart bus, wait out
		// the remaining countdown, then consume it immediately on
		// completion. head and tail both advance past it, so the
		// head-tail == size*insn_len invariant holds with size unchanged.
		sink.Advance(b.countdown)
		b.tail += b.insnLen
		b.head = b.tail
		b.countdown = b.reload
		return false
	}
	// The slot is already ready; only the unavoidable bus turnaround remains.
	b.tail += b.insnLen
	b.size--
	sink.Advance(1)
	return false
}

func (b *Buffer) miss(addr uint32, region uint8, thumb bool, intendedCycles uint32, lookup TimingLookup, sink IdleSink) (gamepakBusInUse bool) {
	sink.Advance(intendedCycles)

	if thumb {
		b.insnLen = 2
		b.capacity = 8
		b.reload = lookup.SequentialCycles16(region)
	} else {
		b.insnLen = 4
		b.capacity = 4
		b.reload = lookup.SequentialCycles32(region)
	}
	b.countdown = b.reload
	b.tail = addr + b.insnLen
	b.head = b.tail
	b.size = 0
	b.armed = true
	return true
}

// Step is called by the scheduler whenever the cart bus is not being used
// by the CPU, with the number of cycles that elapsed in the meantime.
func (b *Buffer) Step(cycles uint32) {
	if !b.armed {
		return
	}
	for b.size < b.capacity && cycles >= b.countdown {
		cycles -= b.countdown
		b.head += b.insnLen
		b.countdown = b.reload
		b.size++
	}
	if b.size < b.capacity {
		b.countdown -= cycles
	}
	// If full, remaining cycles are discarded; the bus idles.
}
