package session

import (
	"net"
	"time"
)

// fakeNetwork routes datagrams between fakeTransports by local port,
// standing in for the real UDPTransport the netump package wires up.
// Every Send is delivered synchronously into the destination's inbox;
// there is no reordering or loss unless a test explicitly removes a
// transport from the network.
type fakeNetwork struct {
	transports map[int]*fakeTransport
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{transports: map[int]*fakeTransport{}}
}

func (n *fakeNetwork) newTransport() *fakeTransport {
	return &fakeTransport{network: n, inbox: make(chan envelope, 256)}
}

type envelope struct {
	data []byte
	from *net.UDPAddr
}

type fakeTransport struct {
	network   *fakeNetwork
	localPort int
	inbox     chan envelope
	lastSent  []byte
}

func (t *fakeTransport) Open(localPort int) error {
	t.localPort = localPort
	t.network.transports[localPort] = t
	return nil
}

func (t *fakeTransport) Close() error {
	delete(t.network.transports, t.localPort)
	return nil
}

func (t *fakeTransport) Send(datagram []byte, peer *net.UDPAddr) error {
	if peer == nil {
		return nil
	}
	dest, ok := t.network.transports[peer.Port]
	if !ok {
		return nil // simulates the datagram vanishing on the wire
	}
	cp := append([]byte(nil), datagram...)
	t.lastSent = cp
	from := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: t.localPort}
	select {
	case dest.inbox <- envelope{data: cp, from: from}:
	default:
	}
	return nil
}

func (t *fakeTransport) Recv() ([]byte, *net.UDPAddr, error) {
	select {
	case e := <-t.inbox:
		return e.data, e.from, nil
	default:
		return nil, nil, ErrWouldBlock
	}
}

func (t *fakeTransport) Sleep(d time.Duration) {}

// captureHandler records every UMP message delivered to it, in order.
type captureHandler struct {
	words [][]uint32
}

func (c *captureHandler) OnUMP(words []uint32) {
	c.words = append(c.words, append([]uint32(nil), words...))
}

func newTestEndpoint(transport Transport, handler Handler) (*Driver, *Machine, *Ring) {
	ring := &Ring{}
	assembler := NewAssembler(ring)
	parser := NewParser(handler, nil, nil)
	machine := NewMachine(transport, assembler, parser, nil, nil)
	driver := NewDriver(transport, machine, parser, assembler)
	return driver, machine, ring
}
