package netump

import (
	"net"

	"go.uber.org/zap"

	"github.com/netump-go/netump/session"
)

// Endpoint is a single NetUMP session peer: exactly one role, exactly one
// remote peer, for its lifetime between Start and Close. It owns the
// outbound FIFO, the FEC-aware assembler, the inbound parser, the session
// state machine, and the tick driver that ties them together.
type Endpoint struct {
	ring      *session.Ring
	assembler *session.Assembler
	parser    *session.Parser
	machine   *session.Machine
	driver    *session.Driver

	transport Transport
	clock     Clock
	log       *zap.Logger
	metrics   session.Metrics

	pendingName string
	pendingPIID string
	pendingEC   *ErrorCorrectionMode
}

// New constructs an Endpoint delivering recovered UMP words to handler.
// The Endpoint is not yet started; call Start to open a session.
func New(handler Handler, opts ...EndpointOption) *Endpoint {
	e := &Endpoint{
		ring:      &session.Ring{},
		log:       zap.NewNop(),
		metrics:   session.NoopMetrics{},
		transport: NewUDPTransport(),
		clock:     NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.assembler = session.NewAssembler(e.ring)
	e.parser = session.NewParser(handler, e.log, e.metrics)
	e.machine = session.NewMachine(e.transport, e.assembler, e.parser, e.log, e.metrics)
	e.driver = session.NewDriver(e.transport, e.machine, e.parser, e.assembler)

	if e.pendingName != "" {
		e.machine.SetEndpointName(e.pendingName)
	}
	if e.pendingPIID != "" {
		e.machine.SetProductInstanceID(e.pendingPIID)
	}
	if e.pendingEC != nil {
		e.SetErrorCorrectionMode(*e.pendingEC)
	} else {
		e.SetErrorCorrectionMode(ErrorCorrectionFEC)
	}
	return e
}

// SetEndpointName sets the advertised endpoint name. Enforced length
// limit MaxEndpointNameLen; an empty or oversize name is rejected
// silently.
func (e *Endpoint) SetEndpointName(name string) { e.machine.SetEndpointName(name) }

// SetProductInstanceID sets the advertised product instance ID. Enforced
// length limit MaxProductInstanceIDLen; an empty or oversize ID is
// rejected silently.
func (e *Endpoint) SetProductInstanceID(piid string) { e.machine.SetProductInstanceID(piid) }

// SetErrorCorrectionMode toggles whether outbound UMP_DATA datagrams
// carry a FEC tail of previously sent packets.
func (e *Endpoint) SetErrorCorrectionMode(mode ErrorCorrectionMode) {
	e.assembler.FECEnabled = mode == ErrorCorrectionFEC
}

// Start opens the transport bound to localPort and begins the session:
// Initiator immediately starts inviting peer; Listener waits for an
// inbound INVITATION from anyone. It returns ErrTransportUnavailable if
// the socket could not be opened.
func (e *Endpoint) Start(peer *net.UDPAddr, localPort int, role session.Role) error {
	if err := e.machine.Start(peer, localPort, role); err != nil {
		return err
	}
	e.clock.Start(e.driver.Tick)
	return nil
}

// Close gracefully tears down an Opened session (sending BYE and lingering
// briefly for it to land) and stops the tick clock and the transport. The
// returned error combines a failed bye-send with a failed transport close
// via multierr, rather than either one silently swallowing the other.
func (e *Endpoint) Close() error {
	e.clock.Stop()
	return e.machine.Close()
}

// RestartInitiator forces an initiator back to Invite, re-sending
// INVITATION after the one-second invitation retry delay. No-op for a
// listener.
func (e *Endpoint) RestartInitiator() {
	e.machine.RestartInitiator()
}

// SendUMP enqueues a single complete UMP message (1-4 words) for
// transmission. It returns false if the session is not Opened or the
// outbound FIFO is full; the caller is responsible for backpressure.
func (e *Endpoint) SendUMP(words []uint32) bool {
	if e.machine.Status() != session.Opened {
		return false
	}
	return e.ring.Push(words)
}

// Status returns the current session state as the integer the original
// callback-based API exposed: Closed=0, Invite=1, WaitInvite=2, Opened=3.
func (e *Endpoint) Status() int { return e.machine.Status().Status() }

// ReadAndClearConnectionLost is an edge-triggered latch, true exactly once
// per timeout or peer-initiated bye.
func (e *Endpoint) ReadAndClearConnectionLost() bool {
	return e.machine.ReadAndClearConnectionLost()
}

// ReadAndClearPeerClosed is an edge-triggered latch, true exactly once per
// graceful peer-initiated bye, as distinct from a timeout.
func (e *Endpoint) ReadAndClearPeerClosed() bool {
	return e.machine.ReadAndClearPeerClosed()
}

// TickOnce runs a single tick synchronously, bypassing the Clock. Intended
// for tests that want deterministic control over timing instead of
// RealClock's millisecond ticker.
func (e *Endpoint) TickOnce() {
	e.driver.Tick()
}
