/*
Package wire implements the NetUMP command packet wire format: the
signature-framed, opcode-dispatched binary layout that carries session
control commands and UMP-data between a NetUMP initiator and listener.

All multi-byte integer fields are big endian. See the NetUMP session
protocol specification for the full layout of each command.
*/
package wire

// Signature is the 32-bit ASCII value ('M','I','D','I') that opens every
// NetUMP datagram. Only the first command packet in a datagram carries it;
// FEC-tail packets sharing the datagram start directly with their opcode.
const Signature uint32 = 0x4D494449

// Opcode identifies a NetUMP command on the wire.
type Opcode uint8

const (
	OpInvitation          Opcode = 0x01
	OpInvitationAuth      Opcode = 0x02 // never sent: no auth capability advertised
	OpInvitationUserAuth  Opcode = 0x03 // never sent: no auth capability advertised
	OpInvitationAccepted  Opcode = 0x10
	OpInvitationPending   Opcode = 0x11
	OpInvitationAuthReq   Opcode = 0x12 // rejected on receipt: no auth support
	OpInvitationUserAuthReq Opcode = 0x13
	OpPing                Opcode = 0x20
	OpPingReply           Opcode = 0x21
	OpRetransmit          Opcode = 0x80 // never sent or honoured (non-goal)
	OpRetransmitError     Opcode = 0x81
	OpSessionReset        Opcode = 0x82
	OpSessionResetReply   Opcode = 0x83
	OpNAK                 Opcode = 0x8F // never sent (non-goal)
	OpBye                 Opcode = 0xF0
	OpByeReply            Opcode = 0xF1
	OpUMPData             Opcode = 0xFF
)

// Names maps opcodes to human-readable identifiers for logging.
var Names = map[Opcode]string{
	OpInvitation:            "INVITATION",
	OpInvitationAuth:        "INVITATION_AUTHENTICATE",
	OpInvitationUserAuth:    "INVITATION_USER_AUTHENTICATE",
	OpInvitationAccepted:    "INVITATION_ACCEPTED",
	OpInvitationPending:     "INVITATION_PENDING",
	OpInvitationAuthReq:     "INVITATION_AUTHENTICATION_REQUIRED",
	OpInvitationUserAuthReq: "INVITATION_USER_AUTHENTICATION_REQUIRED",
	OpPing:                  "PING",
	OpPingReply:             "PING_REPLY",
	OpRetransmit:            "RETRANSMIT",
	OpRetransmitError:       "RETRANSMIT_ERROR",
	OpSessionReset:          "SESSION_RESET",
	OpSessionResetReply:     "SESSION_RESET_REPLY",
	OpNAK:                   "NAK",
	OpBye:                   "BYE",
	OpByeReply:              "BYE_REPLY",
	OpUMPData:               "UMP_DATA",
}

func (o Opcode) String() string {
	if name, ok := Names[o]; ok {
		return name
	}
	return "UNKNOWN"
}
