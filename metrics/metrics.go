// Package metrics wires the session pipeline's counters into Prometheus
// collectors. It implements session.Metrics so an Endpoint can be built
// with or without it; nothing else in the module depends on Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a session.Metrics implementation backed by a set of
// Prometheus collectors. Register it with a prometheus.Registerer of the
// caller's choosing; Metrics itself never touches a default registry.
type Metrics struct {
	packetsSent     *prometheus.CounterVec
	packetsReceived *prometheus.CounterVec
	fecDuplicates   prometheus.Counter
	malformed       prometheus.Counter
	invitationsSent prometheus.Counter
	pingsSent       prometheus.Counter
	timeouts        prometheus.Counter
	state           *prometheus.GaugeVec
}

// New constructs a Metrics with the given namespace (e.g. "netump") and
// registers its collectors with reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		packetsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_sent_total",
			Help:      "NetUMP command packets sent, by opcode.",
		}, []string{"opcode"}),
		packetsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_received_total",
			Help:      "NetUMP command packets accepted, by opcode.",
		}, []string{"opcode"}),
		fecDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fec_duplicates_dropped_total",
			Help:      "UMP_DATA packets dropped as FEC-tail replays of an already-delivered sequence number.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_datagrams_dropped_total",
			Help:      "Inbound datagrams dropped for missing signature, truncation, or bad framing.",
		}),
		invitationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_sent_total",
			Help:      "INVITATION packets sent by an initiator.",
		}),
		pingsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pings_sent_total",
			Help:      "Keepalive PING packets sent.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_timeouts_total",
			Help:      "Times the inactivity timeout fired on an Opened session.",
		}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_state",
			Help:      "1 for the session's current state, 0 otherwise, labelled by state name.",
		}, []string{"state"}),
	}

	reg.MustRegister(
		m.packetsSent, m.packetsReceived, m.fecDuplicates, m.malformed,
		m.invitationsSent, m.pingsSent, m.timeouts, m.state,
	)
	return m
}

func (m *Metrics) PacketSent(opcode string)     { m.packetsSent.WithLabelValues(opcode).Inc() }
func (m *Metrics) PacketReceived(opcode string) { m.packetsReceived.WithLabelValues(opcode).Inc() }
func (m *Metrics) FECDuplicateDropped()         { m.fecDuplicates.Inc() }
func (m *Metrics) MalformedDropped()            { m.malformed.Inc() }
func (m *Metrics) InvitationSent()              { m.invitationsSent.Inc() }
func (m *Metrics) PingSent()                    { m.pingsSent.Inc() }
func (m *Metrics) TimeoutFired()                { m.timeouts.Inc() }

// StateChanged sets the gauge for the new state to 1 and every other known
// state to 0, so a dashboard can graph state as a step function per label.
func (m *Metrics) StateChanged(state string) {
	for _, s := range []string{"Closed", "Invite", "WaitInvite", "Opened"} {
		v := 0.0
		if s == state {
			v = 1.0
		}
		m.state.WithLabelValues(s).Set(v)
	}
}
