package netump

import "github.com/netump-go/netump/session"

// Transport abstracts the platform socket primitives an Endpoint needs.
// Most callers want UDPTransport; a custom implementation is mainly
// useful for tests or for carrying NetUMP over something other than a
// plain UDP socket.
type Transport = session.Transport

// Clock drives an Endpoint's tick loop. RealClock, the default, fires at
// ~1 kHz; tests typically drive TickOnce directly instead of running a
// Clock at all.
type Clock interface {
	// Start begins calling tick repeatedly (nominally once per
	// millisecond) until Stop is called. Start MUST NOT block.
	Start(tick func())
	// Stop halts the clock. It MUST be safe to call even if Start was
	// never called.
	Stop()
}
