package netump

import (
	"go.uber.org/zap"

	"github.com/netump-go/netump/session"
)

// EndpointOption configures an Endpoint at construction time.
type EndpointOption func(*Endpoint)

// WithLogger sets the zap.Logger an Endpoint uses for diagnostics (dropped
// malformed datagrams, send failures). The default is a no-op logger.
func WithLogger(log *zap.Logger) EndpointOption {
	return func(e *Endpoint) { e.log = log }
}

// WithMetrics wires a session.Metrics implementation, typically
// metrics.New from the netump/metrics package. The default discards every
// counter.
func WithMetrics(m session.Metrics) EndpointOption {
	return func(e *Endpoint) { e.metrics = m }
}

// WithTransport overrides the default UDPTransport. Mainly useful for
// tests driving an Endpoint over an in-memory fake.
func WithTransport(t Transport) EndpointOption {
	return func(e *Endpoint) { e.transport = t }
}

// WithClock overrides the default RealClock. Tests that want to drive
// ticks manually should pass a Clock whose Start is a no-op and call
// Endpoint.TickOnce themselves.
func WithClock(c Clock) EndpointOption {
	return func(e *Endpoint) { e.clock = c }
}

// WithEndpointName sets the advertised endpoint name at construction.
// Equivalent to calling SetEndpointName after New.
func WithEndpointName(name string) EndpointOption {
	return func(e *Endpoint) { e.pendingName = name }
}

// WithProductInstanceID sets the advertised product instance ID at
// construction. Equivalent to calling SetProductInstanceID after New.
func WithProductInstanceID(piid string) EndpointOption {
	return func(e *Endpoint) { e.pendingPIID = piid }
}

// WithErrorCorrection sets the initial error-correction mode. Defaults to
// ErrorCorrectionFEC.
func WithErrorCorrection(mode ErrorCorrectionMode) EndpointOption {
	return func(e *Endpoint) { e.pendingEC = &mode }
}
