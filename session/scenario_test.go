package session

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func tickBoth(a, b *Driver, n int) {
	for i := 0; i < n; i++ {
		a.Tick()
		b.Tick()
	}
}

type pair struct {
	iTransport, lTransport *fakeTransport
	iDriver, lDriver       *Driver
	iMachine, lMachine     *Machine
	iHandler, lHandler     *captureHandler
	peer                   *net.UDPAddr
}

func newOpenedPair(t *testing.T) pair {
	network := newFakeNetwork()
	lTransport := network.newTransport()
	iTransport := network.newTransport()
	lHandler := &captureHandler{}
	iHandler := &captureHandler{}
	lDriver, lMachine, _ := newTestEndpoint(lTransport, lHandler)
	iDriver, iMachine, _ := newTestEndpoint(iTransport, iHandler)

	require.NoError(t, lMachine.Start(nil, 8000, Listener))
	peer := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 8000}
	require.NoError(t, iMachine.Start(peer, 8001, Initiator))
	tickBoth(iDriver, lDriver, 5)
	require.Equal(t, Opened, iMachine.Status())
	require.Equal(t, Opened, lMachine.Status())

	return pair{iTransport, lTransport, iDriver, lDriver, iMachine, lMachine, iHandler, lHandler, peer}
}

func TestInitiatorOpensToListener(t *testing.T) {
	p := newOpenedPair(t)
	require.Equal(t, 3, p.iMachine.Status().Status())
	require.Equal(t, 3, p.lMachine.Status().Status())
}

func TestSingleUMPRoundTrip(t *testing.T) {
	p := newOpenedPair(t)

	ring := p.iMachine.assembler.ring
	require.True(t, ring.Push([]uint32{0x20914040}))

	p.iDriver.Tick()
	p.lDriver.Tick()

	require.Len(t, p.lHandler.words, 1)
	require.Equal(t, []uint32{0x20914040}, p.lHandler.words[0])
	require.EqualValues(t, 1, p.iMachine.assembler.seq)
}

func TestFECDedup(t *testing.T) {
	p := newOpenedPair(t)

	ring := p.iMachine.assembler.ring
	for _, w := range []uint32{0x20914040, 0x20914141, 0x20914242} {
		require.True(t, ring.Push([]uint32{w}))
		p.iDriver.Tick()
		p.lDriver.Tick()
	}
	require.Len(t, p.lHandler.words, 3)

	// Replay I's last datagram verbatim (it carries all three packets
	// as FEC tail) and confirm L's dedup window drops every one of
	// them rather than re-delivering.
	require.NoError(t, p.iTransport.Send(p.iTransport.lastSent, p.peer))
	p.lDriver.Tick()
	require.Len(t, p.lHandler.words, 3)
}

func TestPeerBye(t *testing.T) {
	p := newOpenedPair(t)

	p.lMachine.Close()
	tickBoth(p.iDriver, p.lDriver, 3)

	require.True(t, p.iMachine.ReadAndClearConnectionLost())
	require.False(t, p.iMachine.ReadAndClearConnectionLost())
	require.Equal(t, Invite, p.iMachine.Status())
}

func TestTimeout(t *testing.T) {
	p := newOpenedPair(t)

	for i := 0; i < timeoutTicks+1; i++ {
		p.iDriver.Tick()
	}

	require.True(t, p.iMachine.ReadAndClearConnectionLost())
	require.Equal(t, Invite, p.iMachine.Status())
}

func TestPingKeepalive(t *testing.T) {
	p := newOpenedPair(t)

	for i := 0; i < pingThreshold+20; i++ {
		p.iDriver.Tick()
		p.lDriver.Tick()
	}

	require.Equal(t, Opened, p.iMachine.Status())
	require.EqualValues(t, 1, p.iMachine.pingID)
	require.Less(t, p.iMachine.timeoutCounter, int64(timeoutTicks))
}
