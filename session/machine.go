package session

import (
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/netump-go/netump/wire"
)

// ErrTransportUnavailable is returned by Start when the Transport could
// not open a socket on the requested local port.
var ErrTransportUnavailable = errors.New("session: transport unavailable")

// State is one of the four session states.
type State int

const (
	Closed State = iota
	Invite
	WaitInvite
	Opened
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Invite:
		return "Invite"
	case WaitInvite:
		return "WaitInvite"
	case Opened:
		return "Opened"
	default:
		return "Unknown"
	}
}

// Status mirrors State as the integer the original callback-based API
// exposed: Closed=0, Invite=1, WaitInvite=2, Opened=3.
func (s State) Status() int { return int(s) }

// Role pins asymmetric behaviour for the lifetime of a session.
type Role int

const (
	Initiator Role = iota
	Listener
)

func (r Role) String() string {
	if r == Initiator {
		return "Initiator"
	}
	return "Listener"
}

const (
	// timeoutTicks is the inactivity budget, in ticks (~ms), before a
	// peer in Opened is declared lost.
	timeoutTicks = 30000

	// pingThreshold is how many ticks of outbound UMP silence trigger a
	// keepalive PING.
	pingThreshold = 10000

	// inviteRetryMS is how long Invite waits between unanswered
	// INVITATION retries.
	inviteRetryMS = 1000

	// closeLingerMS is how long Close sleeps after sending BYE, giving
	// the departure notice a chance to reach the peer.
	closeLingerMS = 50
)

// Machine is the session state machine (C6): an asymmetric
// initiator/listener automaton tracking invitation, acceptance, liveness,
// and teardown. It owns the Transport and sends every control packet
// (invitation, bye, ping and their replies) itself; UMP_DATA traffic is
// the Assembler/Parser's concern.
type Machine struct {
	transport Transport
	assembler *Assembler
	parser    *Parser
	log       *zap.Logger
	metrics   Metrics

	name string
	piid string

	state State
	role  Role

	localPort int
	peer      *net.UDPAddr

	inviteCount    int
	timeoutCounter int64
	pingDelay      int64
	pingID         uint32
	lastSentPingID uint32

	eventArmed bool
	eventTimer int64
	eventFired bool

	socketLocked bool

	connectionLost bool
	peerClosed     bool
}

// NewMachine returns a Machine in state Closed, driving transport and
// using assembler/parser for the UMP data path.
func NewMachine(transport Transport, assembler *Assembler, parser *Parser, log *zap.Logger, metrics Metrics) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Machine{
		transport: transport,
		assembler: assembler,
		parser:    parser,
		log:       log,
		metrics:   metrics,
		state:     Closed,
	}
}

// SetEndpointName sets the name advertised in outbound
// INVITATION/INVITATION_ACCEPTED packets. An empty name, or one exceeding
// wire.MaxEndpointNameLen including its terminator, is rejected silently.
func (m *Machine) SetEndpointName(name string) {
	if len(name) == 0 || len(name)+1 > wire.MaxEndpointNameLen {
		return
	}
	m.name = name
}

// SetProductInstanceID sets the product instance ID advertised alongside
// the endpoint name. An empty ID, or one exceeding
// wire.MaxProductInstanceIDLen including its terminator, is rejected
// silently.
func (m *Machine) SetProductInstanceID(piid string) {
	if len(piid) == 0 || len(piid)+1 > wire.MaxProductInstanceIDLen {
		return
	}
	m.piid = piid
}

// Status returns the current session state.
func (m *Machine) Status() State { return m.state }

// Role returns the role fixed at Start.
func (m *Machine) Role() Role { return m.role }

// ReadAndClearConnectionLost is an edge-triggered latch, true exactly once
// per timeout or peer bye.
func (m *Machine) ReadAndClearConnectionLost() bool {
	v := m.connectionLost
	m.connectionLost = false
	return v
}

// ReadAndClearPeerClosed is an edge-triggered latch, true exactly once per
// graceful peer-initiated bye (as distinct from timeout).
func (m *Machine) ReadAndClearPeerClosed() bool {
	v := m.peerClosed
	m.peerClosed = false
	return v
}

// LockSocket and UnlockSocket guard callback reconfiguration: while
// locked, the tick driver short-circuits entirely.
func (m *Machine) LockSocket()   { m.socketLocked = true }
func (m *Machine) UnlockSocket() { m.socketLocked = false }

func (m *Machine) locked() bool { return m.socketLocked }

// Start opens the transport and enters Invite (initiator) or WaitInvite
// (listener).
func (m *Machine) Start(peer *net.UDPAddr, localPort int, role Role) error {
	if err := m.transport.Open(localPort); err != nil {
		return ErrTransportUnavailable
	}
	m.localPort = localPort
	m.role = role
	m.inviteCount = 0
	m.timeoutCounter = timeoutTicks
	m.pingDelay = 0
	m.assembler.Reset()
	m.parser.ResetDedup()
	m.connectionLost = false
	m.peerClosed = false

	if role == Initiator {
		m.peer = peer
		m.setState(Invite)
		m.armTimer(1)
	} else {
		m.peer = nil
		m.setState(WaitInvite)
		m.eventArmed = false
	}
	return nil
}

// RestartInitiator forces an initiator back to Invite, re-sending
// INVITATION once the inviteRetryMS timer fires. No-op for a listener.
func (m *Machine) RestartInitiator() {
	if m.role != Initiator {
		return
	}
	m.restart()
}

// Close gracefully tears down an Opened session, then closes the
// transport regardless of prior state. The bye-send and the transport
// close are independent failures; both are reported via multierr rather
// than one masking the other.
func (m *Machine) Close() error {
	var err error
	if m.state == Opened && m.peer != nil {
		if sendErr := m.transport.Send(wire.PrependSignature(wire.EncodeBye(wire.ByeUserTerminated)), m.peer); sendErr != nil {
			err = multierr.Append(err, fmt.Errorf("send bye: %w", sendErr))
		} else {
			m.metrics.PacketSent(wire.OpBye.String())
		}
		m.transport.Sleep(closeLingerMS * time.Millisecond)
	}
	m.setState(Closed)
	if closeErr := m.transport.Close(); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("close transport: %w", closeErr))
	}
	return err
}

func (m *Machine) setState(s State) {
	if m.state == s {
		return
	}
	m.state = s
	m.metrics.StateChanged(s.String())
}

func (m *Machine) armTimer(ms int64) {
	m.eventArmed = true
	m.eventTimer = ms
	m.eventFired = false
}

// AdvanceTimer ticks the single event timer. Called once per tick by the
// Driver before Handle/Tick run so a just-armed timer cannot fire within
// the same tick it was armed.
func (m *Machine) AdvanceTimer() {
	if !m.eventArmed {
		return
	}
	m.eventTimer--
	if m.eventTimer <= 0 {
		m.eventArmed = false
		m.eventFired = true
	}
}

// AcceptUMP is the Parser's PeerCheck: it enforces that UMP_DATA only
// arrives from the established peer while Opened, and resets the
// inactivity timer on acceptance before the caller's dedup check runs.
func (m *Machine) AcceptUMP(sender *net.UDPAddr) bool {
	if m.state != Opened || m.peer == nil || !addrEqual(sender, m.peer) {
		return false
	}
	m.timeoutCounter = timeoutTicks
	return true
}

// Tick runs the per-state timer/keepalive logic described for whichever
// state the session is currently in. It does not touch the UMP data path;
// the Driver runs the Assembler separately.
func (m *Machine) Tick() {
	switch m.state {
	case Opened:
		m.tickOpened()
	case Invite:
		m.tickInvite()
	case WaitInvite, Closed:
		// No time-driven behaviour; inbound commands are the only
		// thing that moves these states forward.
	}
}

func (m *Machine) tickOpened() {
	m.timeoutCounter--
	if m.timeoutCounter <= 0 {
		m.connectionLost = true
		m.metrics.TimeoutFired()
		m.sendBye(wire.ByeTimeout, m.peer)
		if m.role == Initiator {
			m.setState(Closed)
			m.restart()
		} else {
			m.setState(WaitInvite)
		}
		return
	}

	m.pingDelay++
	if m.pingDelay > pingThreshold {
		m.pingID++
		m.lastSentPingID = m.pingID
		m.sendPing(wire.OpPing, m.pingID, m.peer)
		m.pingDelay = 0
		m.metrics.PingSent()
	}
}

func (m *Machine) tickInvite() {
	if !m.eventFired {
		return
	}
	m.eventFired = false
	m.sendInvitation()
	m.armTimer(inviteRetryMS)
	m.inviteCount++
}

// restart re-arms an initiator for a fresh invitation cycle, keeping the
// configured peer address. Only meaningful for the initiator role.
func (m *Machine) restart() {
	m.assembler.Reset()
	m.parser.ResetDedup()
	m.timeoutCounter = timeoutTicks
	m.setState(Invite)
	m.armTimer(inviteRetryMS)
}

// Handle dispatches one decoded non-UMP command from the Parser.
func (m *Machine) Handle(cmd Command) {
	switch cmd.Opcode {
	case wire.OpInvitation:
		m.handleInvitation(cmd)
	case wire.OpInvitationAccepted:
		m.handleInvitationAccepted(cmd)
	case wire.OpPing:
		m.sendPing(wire.OpPingReply, cmd.PingID, cmd.Sender)
	case wire.OpPingReply:
		if m.state == Opened && cmd.PingID == m.lastSentPingID {
			m.timeoutCounter = timeoutTicks
		}
	case wire.OpBye:
		m.handleBye(cmd)
	case wire.OpByeReply, wire.OpSessionReset, wire.OpSessionResetReply:
		// BYE_REPLY is a pure acknowledgement; SESSION_RESET and its
		// reply are left unimplemented per the protocol version this
		// module speaks.
	}
}

func (m *Machine) handleInvitation(cmd Command) {
	if m.role == Initiator {
		m.sendBye(wire.ByeTooManySessions, cmd.Sender)
		return
	}
	if m.state != WaitInvite {
		return
	}
	m.peer = cmd.Sender
	m.sendInvitationAccepted(cmd.Sender)
	m.assembler.Reset()
	m.parser.ResetDedup()
	m.timeoutCounter = timeoutTicks
	m.setState(Opened)
}

func (m *Machine) handleInvitationAccepted(cmd Command) {
	if m.role != Initiator || m.state != Invite {
		return
	}
	// Reject an acceptance from anywhere but the originally configured
	// target, rather than silently adopting the sender's address.
	if m.peer == nil || !addrEqual(cmd.Sender, m.peer) {
		return
	}
	m.assembler.Reset()
	m.parser.ResetDedup()
	m.timeoutCounter = timeoutTicks
	m.setState(Opened)
}

func (m *Machine) handleBye(cmd Command) {
	if m.peer != nil && addrEqual(cmd.Sender, m.peer) && m.state != Closed {
		m.sendByeReply(m.peer)
		m.connectionLost = true
		m.peerClosed = true
		if m.role == Listener {
			m.setState(WaitInvite)
			m.peer = nil
		} else {
			m.setState(Closed)
			m.restart()
		}
		return
	}
	// Not the current peer (or no session established yet): acknowledge
	// the sender directly, no state change.
	m.sendByeReply(cmd.Sender)
}

func (m *Machine) sendInvitation() {
	pkt, err := wire.EncodeInvitation(wire.OpInvitation, m.name, m.piid, 0)
	if err != nil {
		m.log.Error("failed to encode invitation", zap.Error(err))
		return
	}
	m.send(pkt, m.peer)
	m.metrics.InvitationSent()
}

func (m *Machine) sendInvitationAccepted(to *net.UDPAddr) {
	pkt, err := wire.EncodeInvitation(wire.OpInvitationAccepted, m.name, m.piid, 0)
	if err != nil {
		m.log.Error("failed to encode invitation-accepted", zap.Error(err))
		return
	}
	m.send(pkt, to)
}

func (m *Machine) sendBye(code wire.ByeCode, to *net.UDPAddr) {
	if to == nil {
		return
	}
	m.send(wire.EncodeBye(code), to)
}

func (m *Machine) sendByeReply(to *net.UDPAddr) {
	if to == nil {
		return
	}
	m.send(wire.EncodeByeReply(), to)
}

func (m *Machine) sendPing(op wire.Opcode, id uint32, to *net.UDPAddr) {
	if to == nil {
		return
	}
	m.send(wire.EncodePing(op, id), to)
}

func (m *Machine) send(pkt []byte, to *net.UDPAddr) {
	if err := m.transport.Send(wire.PrependSignature(pkt), to); err != nil {
		m.log.Debug("send failed", zap.Error(err))
		return
	}
	m.metrics.PacketSent(wire.Opcode(pkt[0]).String())
}

func addrEqual(a, b *net.UDPAddr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.IP.Equal(b.IP) && a.Port == b.Port
}
