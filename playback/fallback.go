package playback

import "github.com/reeler-cli/reeler/player"

// FallbackDetector watches for direct-play failure and authorizes a single
// automatic switch to transcoding. It is armed only while playing directly;
// once it fires it disables itself for the remainder of the load, so an error
// on the resulting transcoded stream is terminal and reported, never retried.
// This bounds failure loops to exactly one fallback per load.
type FallbackDetector struct {
	armed bool
	used  bool
}

// NewFallbackDetector creates a detector in the disarmed state.
func NewFallbackDetector() *FallbackDetector {
	return &FallbackDetector{}
}

// Arm enables the detector. Call when entering direct playback.
func (f *FallbackDetector) Arm() {
	f.armed = true
}

// Disarm disables the detector without consuming its one shot. Call when
// leaving direct playback through a user mode switch.
func (f *FallbackDetector) Disarm() {
	f.armed = false
}

// Reset re-enables the one shot for a new load.
func (f *FallbackDetector) Reset() {
	f.armed = false
	f.used = false
}

// ShouldFallback reports whether the error warrants an automatic switch to
// transcoding, consuming the detector's one shot when it does. Only decode
// and unsupported-source failures qualify.
func (f *FallbackDetector) ShouldFallback(err *player.Error) bool {
	if !f.armed || f.used || err == nil || !err.Recoverable() {
		return false
	}
	f.used = true
	f.armed = false
	return true
}

// Used reports whether the one-shot fallback already fired for this load.
func (f *FallbackDetector) Used() bool {
	return f.used
}
