package session

import (
	"encoding/binary"
	"net"

	"go.uber.org/zap"

	"github.com/netump-go/netump/wire"
)

// Handler receives UMP words recovered from inbound traffic. Implementations
// MUST return quickly: OnUMP is invoked synchronously from the tick driver.
type Handler interface {
	OnUMP(words []uint32)
}

// Command is a decoded non-UMP_DATA command packet, handed to the session
// Machine for state-machine dispatch. UMP_DATA packets never become a
// Command: the Parser delivers their payload straight to the Handler and
// the Machine never sees them.
type Command struct {
	Opcode  wire.Opcode
	Sender  *net.UDPAddr
	ByeCode wire.ByeCode
	PingID  uint32
	Name    string
	PIID    string
}

// Parser is the inbound pipeline (C5): it splits a UDP datagram into its
// constituent command packets, dispatches UMP_DATA directly to Handler
// after deduplicating against the receive window, and returns every other
// command for the Machine to act on.
type Parser struct {
	dedup   *Dedup
	handler Handler
	log     *zap.Logger
	metrics Metrics
}

// NewParser returns a Parser delivering recovered UMP words to handler.
func NewParser(handler Handler, log *zap.Logger, metrics Metrics) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Parser{dedup: NewDedup(), handler: handler, log: log, metrics: metrics}
}

// ResetDedup re-primes the receive dedup window, used when a session
// restarts and sequence numbers begin again from zero.
func (p *Parser) ResetDedup() {
	p.dedup.Reset()
}

// PeerCheck reports whether a UMP_DATA packet from sender should be
// accepted: the caller supplies the current peer address and whether the
// session is Opened, since only the Machine knows either.
type PeerCheck func(sender *net.UDPAddr) (accept bool)

// Parse walks datagram, splitting it into command packets at the 4-byte
// header boundary described by the NetUMP framing rule (only the first
// packet in a datagram bears the signature). UMP_DATA packets are checked
// against accept and the dedup window and, if accepted, delivered word by
// word to the Handler; every other opcode is returned as a Command for the
// Machine to process.
func (p *Parser) Parse(datagram []byte, sender *net.UDPAddr, accept PeerCheck) []Command {
	if !wire.HasSignature(datagram) {
		p.log.Debug("dropping datagram without signature", zap.Stringer("sender", sender))
		p.metrics.MalformedDropped()
		return nil
	}

	var cmds []Command
	cursor := 4
	for cursor+wire.HeaderSize <= len(datagram) {
		hdr, err := wire.ParseHeader(datagram[cursor:])
		if err != nil {
			p.log.Debug("dropping malformed header", zap.Error(err))
			p.metrics.MalformedDropped()
			return cmds
		}
		payloadBytes := int(hdr.PayloadLenWords) * 4
		end := cursor + wire.HeaderSize + payloadBytes
		if end > len(datagram) {
			p.log.Debug("dropping truncated packet", zap.Stringer("opcode", hdr.Opcode))
			p.metrics.MalformedDropped()
			return cmds
		}
		pkt := datagram[cursor:end]

		if hdr.Opcode == wire.OpUMPData {
			p.deliverUMPData(pkt, hdr, sender, accept)
		} else {
			p.metrics.PacketReceived(hdr.Opcode.String())
			if cmd, ok := p.decodeCommand(pkt, hdr, sender); ok {
				cmds = append(cmds, cmd)
			}
		}

		cursor = end
	}
	return cmds
}

func (p *Parser) deliverUMPData(pkt []byte, hdr wire.Header, sender *net.UDPAddr, accept PeerCheck) {
	if accept == nil || !accept(sender) {
		return
	}
	wordCount, seq, err := wire.DecodeUMPDataHeader(pkt)
	if err != nil {
		p.log.Debug("dropping malformed UMP_DATA header", zap.Error(err))
		return
	}
	if p.dedup.Seen(seq) {
		p.metrics.FECDuplicateDropped()
		return
	}
	p.dedup.Record(seq)
	p.metrics.PacketReceived(wire.OpUMPData.String())

	payload := pkt[wire.HeaderSize:]
	var offset int
	for offset < int(wordCount) {
		remaining := int(wordCount) - offset
		first := binary.BigEndian.Uint32(payload[offset*4:])
		size := int(wire.MessageWords(first))
		if size > remaining {
			break
		}
		words := make([]uint32, size)
		for i := 0; i < size; i++ {
			words[i] = binary.BigEndian.Uint32(payload[(offset+i)*4:])
		}
		p.handler.OnUMP(words)
		offset += size
	}
}

func (p *Parser) decodeCommand(pkt []byte, hdr wire.Header, sender *net.UDPAddr) (Command, bool) {
	switch hdr.Opcode {
	case wire.OpInvitation, wire.OpInvitationAccepted:
		name, piid, err := wire.DecodeInvitation(pkt)
		if err != nil {
			p.log.Debug("dropping malformed invitation", zap.Error(err))
			return Command{}, false
		}
		return Command{Opcode: hdr.Opcode, Sender: sender, Name: name, PIID: piid}, true

	case wire.OpPing, wire.OpPingReply:
		id, err := wire.DecodePing(pkt)
		if err != nil {
			p.log.Debug("dropping malformed ping", zap.Error(err))
			return Command{}, false
		}
		return Command{Opcode: hdr.Opcode, Sender: sender, PingID: id}, true

	case wire.OpBye:
		code, err := wire.DecodeBye(pkt)
		if err != nil {
			p.log.Debug("dropping malformed bye", zap.Error(err))
			return Command{}, false
		}
		return Command{Opcode: hdr.Opcode, Sender: sender, ByeCode: code}, true

	case wire.OpByeReply, wire.OpSessionReset, wire.OpSessionResetReply:
		return Command{Opcode: hdr.Opcode, Sender: sender}, true

	default:
		// Unsupported/auth opcodes (0x02, 0x03, 0x11-0x13, 0x80, 0x81,
		// 0x8F) and anything unrecognised: dropped silently per the
		// no-auth, no-retransmit non-goals.
		p.log.Debug("dropping unsupported opcode", zap.Stringer("opcode", hdr.Opcode))
		return Command{}, false
	}
}
