// Package gpio defines the narrow facade the bus uses to reach the
// cartridge's GPIO pins (an external collaborator per spec.md §1; real
// GPIO carts use it for the RTC, solar sensor, or rumble motor). The
// stub implementation here always reports not-readable, so the access
// engine falls through to ordinary ROM reads unless a real emulator
// plugs in its own Facade.
package gpio

// Facade is the bus-visible view of cartridge GPIO.
type Facade interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, val uint8)
	// Readable reports whether reads in the GPIO register window should
	// be routed to GPIO instead of falling through to ROM.
	Readable() bool
}

// None is a Facade for cartridges with no GPIO hardware: writes are
// accepted and ignored, reads never happen because Readable is always
// false.
type None struct{}

func (None) ReadByte(uint32) uint8     { return 0 }
func (None) WriteByte(uint32, uint8)   {}
func (None) Readable() bool            { return false }

// WindowStart and WindowEnd bound the GPIO register window within cart
// ROM space (relative offset from the start of the cart region).
const (
	WindowStart = 0xC4
	WindowEnd   = 0xC9
)

// InWindow reports whether a cart-relative offset falls inside the GPIO
// register window.
func InWindow(offset uint32) bool {
	return offset >= WindowStart && offset <= WindowEnd
}
