package wire

// ByeCode identifies the reason a BYE command was sent. The registry below
// is carried in full for forward compatibility and diagnostics; this
// module only ever sends ByeUserTerminated, ByeTimeout and
// ByeTooManySessions (no auth negotiation is supported, so the
// authentication-rejection codes are never emitted).
type ByeCode uint8

const (
	ByeUndefined               ByeCode = 0x00
	ByeUserTerminated          ByeCode = 0x01
	ByePowerDown               ByeCode = 0x02
	ByeTooManyLostPackets      ByeCode = 0x03
	ByeTimeout                 ByeCode = 0x04
	ByeSessionNotEstablished   ByeCode = 0x05
	ByeNoPendingSession        ByeCode = 0x06
	ByeProtocolError           ByeCode = 0x07
	ByeTooManySessions         ByeCode = 0x40
	ByeInvitationAuthRejected  ByeCode = 0x41
	ByeUserDidNotAcceptSession ByeCode = 0x42
	ByeAuthenticationFailed    ByeCode = 0x43
	ByeUsernameNotFound        ByeCode = 0x44
	ByeNoMatchingAuthMethod    ByeCode = 0x45
	ByeInvitationCanceled      ByeCode = 0x80
)

// ByeNames maps bye codes to human-readable identifiers for logging.
var ByeNames = map[ByeCode]string{
	ByeUndefined:               "UNDEFINED",
	ByeUserTerminated:          "USER_TERMINATED",
	ByePowerDown:               "POWER_DOWN",
	ByeTooManyLostPackets:      "TOO_MANY_LOST_PACKETS",
	ByeTimeout:                 "TIMEOUT",
	ByeSessionNotEstablished:   "SESSION_NOT_ESTABLISHED",
	ByeNoPendingSession:        "NO_PENDING_SESSION",
	ByeProtocolError:           "PROTOCOL_ERROR",
	ByeTooManySessions:         "TOO_MANY_SESSIONS",
	ByeInvitationAuthRejected:  "INVITATION_AUTH_REJECTED",
	ByeUserDidNotAcceptSession: "USER_DID_NOT_ACCEPT_SESSION",
	ByeAuthenticationFailed:    "AUTHENTICATION_FAILED",
	ByeUsernameNotFound:        "USERNAME_NOT_FOUND",
	ByeNoMatchingAuthMethod:    "NO_MATCHING_AUTH_METHOD",
	ByeInvitationCanceled:      "INVITATION_CANCELED",
}

func (c ByeCode) String() string {
	if name, ok := ByeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
