// Package cpuview defines the narrow observability surface the bus reads
// from the ARM7TDMI core (an external collaborator per spec.md §1) and
// provides one mutable implementation, State, that a real CPU package (or
// a test) updates directly.
//
// Adapted from the teacher repo's internal/cpu.Registers, which exposed a
// much larger interface (every banked register, CPSR flag, SPSR) because
// the teacher's CPU lived behind the bus; this subsystem only needs the
// five fields spec.md §6 lists under "CPU observability".
package cpuview

// View is what the bus reads from the CPU every access.
type View interface {
	PC() uint32
	Thumb() bool
	Prefetch() [2]uint32
	DMARunning() bool
}

// State is a plain mutable struct satisfying View, intended for tests and
// for a real CPU package to embed or update directly each step.
type State struct {
	pc         uint32
	thumb      bool
	prefetch   [2]uint32
	dmaRunning bool
}

func (s *State) PC() uint32          { return s.pc }
func (s *State) Thumb() bool         { return s.thumb }
func (s *State) Prefetch() [2]uint32 { return s.prefetch }
func (s *State) DMARunning() bool    { return s.dmaRunning }

func (s *State) SetPC(pc uint32)            { s.pc = pc }
func (s *State) SetThumb(thumb bool)        { s.thumb = thumb }
func (s *State) SetDMARunning(running bool) { s.dmaRunning = running }

// PushPrefetch shifts word into the two-slot prefetch history: Prefetch()
// [1] is always the most recently pushed word, [0] the one before it.
func (s *State) PushPrefetch(word uint32) {
	s.prefetch[0] = s.prefetch[1]
	s.prefetch[1] = word
}
