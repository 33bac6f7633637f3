// Package io defines the narrow byte-wise hook the bus uses to reach the
// I/O register dispatcher (an external collaborator per spec.md §1) and
// ships one trivial default implementation, a flat byte array, for tests
// and the CLI that don't need real register side effects.
//
// Adapted from the teacher repo's internal/io.IORegs, which the bus used
// to poke directly; here it's behind an interface so the bus never
// depends on the concrete register dispatcher.
package io

// Bank is the byte-wise I/O register hook. Multi-byte I/O accesses are
// always decomposed into individual byte reads/writes against it
// (spec.md §4.3: "This keeps side-effect semantics byte-exact").
type Bank interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, val uint8)
}

// FlatBank is a Bank backed by a plain byte array with no register side
// effects; useful as a test double and as the CLI's default collaborator.
type FlatBank struct {
	regs [0x400]byte
}

func NewFlatBank() *FlatBank { return &FlatBank{} }

func (b *FlatBank) ReadByte(addr uint32) uint8 { return b.regs[addr&0x3FF] }
func (b *FlatBank) WriteByte(addr uint32, val uint8) { b.regs[addr&0x3FF] = val }
