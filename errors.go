package netump

import "github.com/netump-go/netump/session"

// ErrTransportUnavailable is returned by Start when the underlying socket
// could not be opened on the requested local port.
var ErrTransportUnavailable = session.ErrTransportUnavailable

// ErrWouldBlock is returned by a Transport's Recv when no datagram is
// currently pending. Custom Transport implementations (tests, alternative
// network stacks) should return it rather than blocking.
var ErrWouldBlock = session.ErrWouldBlock
