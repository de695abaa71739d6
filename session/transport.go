package session

import (
	"errors"
	"net"
	"time"
)

// ErrWouldBlock is returned by Transport.Recv when no datagram is
// currently pending. It is not a fault; the Driver polls for it every
// tick.
var ErrWouldBlock = errors.New("session: recv would block")

// Transport abstracts the platform socket primitives the core needs:
// opening a UDP socket bound to a local port, sending to and
// non-blocking-receiving from a peer, and a coarse sleep used only by
// Close's departure linger. The real implementation lives in the netump
// package; tests drive the Machine and Driver against an in-memory fake.
type Transport interface {
	Open(localPort int) error
	Close() error
	Send(datagram []byte, peer *net.UDPAddr) error
	Recv() (datagram []byte, sender *net.UDPAddr, err error)
	Sleep(d time.Duration)
}
