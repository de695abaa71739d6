package netump

import "github.com/netump-go/netump/wire"

// MaxEndpointNameLen and MaxProductInstanceIDLen re-export the wire
// package's limits (including the null terminator) so callers can
// validate identity strings before calling SetEndpointName or
// SetProductInstanceID.
const (
	MaxEndpointNameLen      = wire.MaxEndpointNameLen
	MaxProductInstanceIDLen = wire.MaxProductInstanceIDLen
)
