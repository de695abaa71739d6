package session

import (
	"encoding/binary"

	"github.com/netump-go/netump/wire"
)

// maxPacketWords is the hard per-packet UMP payload budget (word_count in
// the UMP_DATA header must fit a byte, and the reference keeps well under
// that for a single UDP datagram).
const maxPacketWords = wire.MaxUMPWordsPerPacket

// Assembler is the outbound pipeline (C4): it drains the Ring (C1) into a
// UMP_DATA command packet respecting the per-packet word budget, folds the
// last fecDepth sent packets (C2) in as forward-error-correction, and
// returns a datagram ready for Transport.Send.
type Assembler struct {
	ring *Ring
	fec  FECRing
	seq  uint16

	// FECEnabled controls whether new packets are recorded into, and
	// previous packets replayed from, the FEC ring. Toggling it takes
	// effect on the next Assemble call; it does not retroactively
	// discard already-queued history.
	FECEnabled bool
}

// NewAssembler returns an Assembler draining ring, with FEC enabled.
func NewAssembler(ring *Ring) *Assembler {
	return &Assembler{ring: ring, FECEnabled: true}
}

// Reset clears the sequence counter and FEC history. Called when a session
// (re)opens so a fresh stream of sequence numbers starts at zero.
func (a *Assembler) Reset() {
	a.seq = 0
	a.fec.Reset()
}

// Drain consumes as much of the ring as fits a budget of maxPacketWords
// UMP words without building a packet, discarding the drained messages.
// Used while a session is still Invite/WaitInvite so that, once it opens,
// no stale backlog bursts out as the very first transmission.
func (a *Assembler) Drain() {
	a.drainMessages(maxPacketWords)
}

// Assemble builds one UMP_DATA datagram from whatever complete UMP
// messages currently fit the ring, or returns nil if the ring is empty or
// its first queued message alone exceeds the budget.
func (a *Assembler) Assemble() []byte {
	payload, wordCount := a.drainMessages(maxPacketWords)
	if wordCount == 0 {
		return nil
	}

	hdr := wire.EncodeUMPDataHeader(uint8(wordCount), a.seq)
	a.seq++

	pkt := make([]byte, 0, len(hdr)+len(payload))
	pkt = append(pkt, hdr[:]...)
	pkt = append(pkt, payload...)

	if !a.FECEnabled {
		return wire.PrependSignature(pkt)
	}

	a.fec.Push(pkt)
	tail := a.fec.Tail()

	total := 4
	for _, p := range tail {
		total += len(p)
	}
	datagram := make([]byte, 0, total)
	sig := wire.SignatureBytes()
	datagram = append(datagram, sig[:]...)
	for _, p := range tail {
		datagram = append(datagram, p...)
	}
	return datagram
}

// drainMessages copies complete UMP messages out of the ring, in
// big-endian wire order, stopping before the budget would be exceeded. It
// returns the concatenated payload bytes and the word count consumed.
func (a *Assembler) drainMessages(budget uint64) ([]byte, uint64) {
	var offset, wordCount uint64
	payload := make([]byte, 0, budget*4)

	for {
		remaining := a.ring.Len() - offset
		if remaining == 0 {
			break
		}
		first := a.ring.PeekWord(offset)
		size := uint64(wire.MessageWords(first))
		if size > remaining {
			// Fewer words queued than the first word's MT implies.
			// Push publishes whole calls only, so this means a Push
			// carried fewer words than its MT requires. Stop and
			// retry next tick, once more words may have arrived.
			break
		}
		if wordCount+size > budget {
			break
		}
		for i := uint64(0); i < size; i++ {
			var buf [4]byte
			binary.BigEndian.PutUint32(buf[:], a.ring.PeekWord(offset+i))
			payload = append(payload, buf[:]...)
		}
		offset += size
		wordCount += size
	}

	if offset > 0 {
		a.ring.Advance(offset)
	}
	return payload, wordCount
}
