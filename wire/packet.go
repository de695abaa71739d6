package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var be = binary.BigEndian

// HeaderSize is the length in bytes of the 4-byte command header that
// follows the signature (or, for a FEC-tail packet sharing a datagram,
// that opens the packet directly).
const HeaderSize = 4

// MaxEndpointNameLen is the largest an endpoint name may be, including its
// null terminator.
const MaxEndpointNameLen = 98

// MaxProductInstanceIDLen is the largest a product instance ID may be,
// including its null terminator.
const MaxProductInstanceIDLen = 42

// MaxUMPWordsPerPacket is the hard budget on UMP payload words in a single
// UMP_DATA command packet (header excluded).
const MaxUMPWordsPerPacket = 64

var (
	// ErrNameTooLong is returned by EncodeInvitation when the endpoint
	// name (plus terminator) exceeds MaxEndpointNameLen.
	ErrNameTooLong = errors.New("wire: endpoint name exceeds maximum length")

	// ErrPIIDTooLong is returned by EncodeInvitation when the product
	// instance ID (plus terminator) exceeds MaxProductInstanceIDLen.
	ErrPIIDTooLong = errors.New("wire: product instance id exceeds maximum length")

	// ErrBadSignature is returned when a datagram does not open with the
	// NetUMP signature.
	ErrBadSignature = errors.New("wire: missing NetUMP signature")

	// ErrUnknownOpcode is returned when a command header carries an
	// opcode this module does not recognise.
	ErrUnknownOpcode = errors.New("wire: unknown opcode")
)

// A PacketError reports a malformed command packet. It wraps the
// underlying decode error so callers can use errors.Is/As.
type PacketError struct {
	Opcode Opcode
	Err    error
}

func (e *PacketError) Error() string {
	return fmt.Sprintf("wire: malformed %s packet: %v", e.Opcode, e.Err)
}

func (e *PacketError) Unwrap() error { return e.Err }

// Header is the 4-byte command header that precedes every command packet's
// payload.
type Header struct {
	Opcode          Opcode
	PayloadLenWords uint8
	B2, B3          byte
}

// Bytes encodes h in wire order.
func (h Header) Bytes() [HeaderSize]byte {
	return [HeaderSize]byte{byte(h.Opcode), h.PayloadLenWords, h.B2, h.B3}
}

// ParseHeader reads a command header from the start of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("wire: read header: %w", io.ErrUnexpectedEOF)
	}
	return Header{
		Opcode:          Opcode(buf[0]),
		PayloadLenWords: buf[1],
		B2:              buf[2],
		B3:              buf[3],
	}, nil
}

// SignatureBytes returns the 4-byte big-endian encoding of the NetUMP
// signature.
func SignatureBytes() [4]byte {
	var b [4]byte
	be.PutUint32(b[:], Signature)
	return b
}

// HasSignature reports whether buf opens with the NetUMP signature.
func HasSignature(buf []byte) bool {
	return len(buf) >= 4 && be.Uint32(buf[:4]) == Signature
}

// PrependSignature returns a new datagram consisting of the signature
// followed by pkt. Used for commands sent as the sole packet in their
// datagram (everything except a FEC-tail entry inside a UMP-data
// datagram).
func PrependSignature(pkt []byte) []byte {
	sig := SignatureBytes()
	out := make([]byte, 0, 4+len(pkt))
	out = append(out, sig[:]...)
	out = append(out, pkt...)
	return out
}

// paddedWordLen returns the number of 32-bit words occupied by s plus a
// null terminator, padded to a 4-byte boundary.
func paddedWordLen(s string) int {
	n := len(s) + 1
	return (n + 3) / 4
}

// EncodeInvitation builds an INVITATION or INVITATION_ACCEPTED command
// packet (header and payload; no signature). op must be OpInvitation or
// OpInvitationAccepted. capabilities is the CSD2 bitmap; this module always
// advertises 0 (no authentication support) for OpInvitation, and
// OpInvitationAccepted's CSD2 is always reserved-zero per the spec.
func EncodeInvitation(op Opcode, name, piid string, capabilities uint8) ([]byte, error) {
	if len(name)+1 > MaxEndpointNameLen {
		return nil, ErrNameTooLong
	}
	if len(piid)+1 > MaxProductInstanceIDLen {
		return nil, ErrPIIDTooLong
	}

	nameWords := paddedWordLen(name)
	piidWords := paddedWordLen(piid)
	totalWords := nameWords + piidWords

	pkt := make([]byte, HeaderSize+totalWords*4)
	pkt[0] = byte(op)
	pkt[1] = uint8(totalWords)
	pkt[2] = uint8(nameWords)
	pkt[3] = capabilities

	copy(pkt[HeaderSize:], name)
	copy(pkt[HeaderSize+nameWords*4:], piid)

	return pkt, nil
}

// DecodeInvitation parses the payload of an INVITATION or
// INVITATION_ACCEPTED packet (pkt includes the 4-byte header).
func DecodeInvitation(pkt []byte) (name, piid string, err error) {
	hdr, err := ParseHeader(pkt)
	if err != nil {
		return "", "", &PacketError{Opcode: OpInvitation, Err: err}
	}

	nameWords := int(hdr.B2)
	payloadWords := int(hdr.PayloadLenWords)
	if payloadWords < nameWords {
		return "", "", &PacketError{Opcode: hdr.Opcode, Err: fmt.Errorf("csd1 %d exceeds payload_len_words %d", nameWords, payloadWords)}
	}
	need := HeaderSize + payloadWords*4
	if len(pkt) < need {
		return "", "", &PacketError{Opcode: hdr.Opcode, Err: io.ErrUnexpectedEOF}
	}

	nameField := pkt[HeaderSize : HeaderSize+nameWords*4]
	piidField := pkt[HeaderSize+nameWords*4 : need]

	return cString(nameField), cString(piidField), nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// EncodeBye builds a BYE command packet.
func EncodeBye(code ByeCode) []byte {
	return []byte{byte(OpBye), 0, byte(code), 0}
}

// DecodeBye parses a BYE command packet's reason code.
func DecodeBye(pkt []byte) (ByeCode, error) {
	hdr, err := ParseHeader(pkt)
	if err != nil {
		return 0, &PacketError{Opcode: OpBye, Err: err}
	}
	return ByeCode(hdr.B2), nil
}

// EncodeByeReply builds a BYE_REPLY command packet.
func EncodeByeReply() []byte {
	return []byte{byte(OpByeReply), 0, 0, 0}
}

// EncodePing builds a PING or PING_REPLY command packet. op must be
// OpPing or OpPingReply.
func EncodePing(op Opcode, id uint32) []byte {
	pkt := make([]byte, HeaderSize+4)
	pkt[0] = byte(op)
	pkt[1] = 1
	pkt[2] = 0
	pkt[3] = 0
	be.PutUint32(pkt[HeaderSize:], id)
	return pkt
}

// DecodePing parses a PING or PING_REPLY command packet's id field.
func DecodePing(pkt []byte) (id uint32, err error) {
	hdr, err := ParseHeader(pkt)
	if err != nil {
		return 0, &PacketError{Opcode: OpPing, Err: err}
	}
	need := HeaderSize + int(hdr.PayloadLenWords)*4
	if len(pkt) < need || hdr.PayloadLenWords < 1 {
		return 0, &PacketError{Opcode: hdr.Opcode, Err: io.ErrUnexpectedEOF}
	}
	return be.Uint32(pkt[HeaderSize : HeaderSize+4]), nil
}

// EncodeSessionReset builds a SESSION_RESET or SESSION_RESET_REPLY command
// packet. Neither command is acted upon by this module (left unimplemented
// per spec); the encoder exists so a peer advertising the newer protocol
// version can still be answered in kind if this changes later.
func EncodeSessionReset(op Opcode) []byte {
	return []byte{byte(op), 0, 0, 0}
}

// EncodeUMPDataHeader builds the 4-byte header for a UMP_DATA command
// packet carrying wordCount UMP payload words at sequence number seq.
func EncodeUMPDataHeader(wordCount uint8, seq uint16) [HeaderSize]byte {
	var b [HeaderSize]byte
	b[0] = byte(OpUMPData)
	b[1] = wordCount
	be.PutUint16(b[2:4], seq)
	return b
}

// DecodeUMPDataHeader parses the header of a UMP_DATA command packet,
// returning the UMP word count and 16-bit sequence number.
func DecodeUMPDataHeader(pkt []byte) (wordCount uint8, seq uint16, err error) {
	hdr, err := ParseHeader(pkt)
	if err != nil {
		return 0, 0, &PacketError{Opcode: OpUMPData, Err: err}
	}
	if hdr.Opcode != OpUMPData {
		return 0, 0, &PacketError{Opcode: hdr.Opcode, Err: fmt.Errorf("%w: expected UMP_DATA", ErrUnknownOpcode)}
	}
	return hdr.PayloadLenWords, be.Uint16([]byte{hdr.B2, hdr.B3}), nil
}
