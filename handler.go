package netump

import "github.com/netump-go/netump/session"

// Handler receives UMP words recovered from the peer. It is the
// capability abstraction that replaces a callback-plus-userdata pair:
// implement OnUMP and pass the Handler to New.
//
// OnUMP is invoked synchronously from inside the tick driven by the
// Endpoint's Clock. Implementations MUST return quickly and MUST NOT
// panic; a panicking handler is the caller's fault, not recovered here.
type Handler = session.Handler

// ErrorCorrectionMode selects whether outbound UMP_DATA packets carry a
// forward-error-correction tail of previously sent packets.
type ErrorCorrectionMode int

const (
	// ErrorCorrectionNone sends only the newest packet in each datagram.
	ErrorCorrectionNone ErrorCorrectionMode = iota
	// ErrorCorrectionFEC appends up to the last five sent packets as a
	// redundancy tail, letting the peer recover from isolated datagram
	// loss without retransmission.
	ErrorCorrectionFEC
)
