// Package logging builds the structured logger the bus uses for its
// diagnostic channel (spec.md §7: "reported to the host only through the
// structured log channel"). Grounded on the thelolagemann/go-gameboy MMU
// package's use of logrus for exactly this purpose (a package-level,
// pre-configured *logrus.Entry threaded into the memory bus at
// construction), replacing the teacher repo's build-tag-gated
// util/dbg.Printf with a leveled logger whose fields (address, region,
// width) survive structurally instead of being interpolated into a
// string.
package logging

import "github.com/sirupsen/logrus"

// New returns a logrus.Logger configured the way the bus expects to find
// it: plain text, no timestamps (the emulator's own cycle counter is the
// clock that matters here), sorted fields off so call sites control field
// order.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return l
}
