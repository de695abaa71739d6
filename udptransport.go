package netump

import (
	"errors"
	"net"
	"time"

	"github.com/netump-go/netump/session"
)

// maxDatagramSize bounds a single recv; NetUMP datagrams must fit one UDP
// packet and the reference keeps comfortably under 1024 bytes.
const maxDatagramSize = 1500

// UDPTransport is the real session.Transport: a plain net.UDPConn polled
// non-blockingly via a zero-length read deadline, the standard Go idiom
// for a socket that would otherwise have no non-blocking mode.
type UDPTransport struct {
	conn *net.UDPConn
	buf  [maxDatagramSize]byte
}

// NewUDPTransport returns an unopened UDPTransport; Open binds it.
func NewUDPTransport() *UDPTransport {
	return &UDPTransport{}
}

// Open binds a UDP socket to localPort on all interfaces.
func (t *UDPTransport) Open(localPort int) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: localPort})
	if err != nil {
		return err
	}
	t.conn = conn
	return nil
}

// Close closes the underlying socket.
func (t *UDPTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

// Send writes datagram to peer.
func (t *UDPTransport) Send(datagram []byte, peer *net.UDPAddr) error {
	_, err := t.conn.WriteToUDP(datagram, peer)
	return err
}

// Recv polls for one pending datagram. It returns session.ErrWouldBlock,
// not an error, when nothing is pending — the expected outcome on most
// ticks.
func (t *UDPTransport) Recv() ([]byte, *net.UDPAddr, error) {
	if err := t.conn.SetReadDeadline(time.Now()); err != nil {
		return nil, nil, err
	}
	n, sender, err := t.conn.ReadFromUDP(t.buf[:])
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, nil, err
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, nil, session.ErrWouldBlock
		}
		return nil, nil, err
	}
	out := make([]byte, n)
	copy(out, t.buf[:n])
	return out, sender, nil
}

// Sleep blocks the calling goroutine for d. Used only by Machine.Close's
// departure linger.
func (t *UDPTransport) Sleep(d time.Duration) {
	time.Sleep(d)
}
