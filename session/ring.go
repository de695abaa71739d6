package session

import "sync/atomic"

// RingCapacity is the fixed size, in 32-bit words, of the outbound UMP
// FIFO (C1). It must be a power of two so indices can be masked instead of
// taken modulo.
const RingCapacity = 1024

const ringMask = RingCapacity - 1

// Ring is a single-producer/single-consumer FIFO of 32-bit UMP words. The
// producer (any goroutine calling Push, expected to be a single caller)
// only ever advances the write cursor; the consumer (the tick driver
// calling PeekWord/Advance) only ever advances the read cursor. Both cursors
// are published with atomic loads/stores so a consumer never observes a
// partially-written message.
type Ring struct {
	buf   [RingCapacity]uint32
	write atomic.Uint64 // total words ever published by the producer
	read  atomic.Uint64 // total words ever consumed by the consumer
}

// Push appends a complete UMP message (1-4 words) to the ring. It returns
// false, leaving the ring unchanged, if the message would not entirely
// fit — the write cursor is only published once every word has been
// staged, so a failed Push never leaves a torn message for the consumer.
func (r *Ring) Push(words []uint32) bool {
	n := uint64(len(words))
	wr := r.write.Load()
	rd := r.read.Load()
	if wr-rd+n > RingCapacity {
		return false
	}
	for i, w := range words {
		r.buf[(wr+uint64(i))&ringMask] = w
	}
	r.write.Store(wr + n)
	return true
}

// Len returns the number of words currently queued.
func (r *Ring) Len() uint64 {
	return r.write.Load() - r.read.Load()
}

// PeekWord returns the word at offset words past the current read cursor,
// without consuming it. The caller must ensure offset < Len().
func (r *Ring) PeekWord(offset uint64) uint32 {
	rd := r.read.Load()
	return r.buf[(rd+offset)&ringMask]
}

// Advance moves the read cursor forward by n words. The caller must have
// already copied those words out via PeekWord.
func (r *Ring) Advance(n uint64) {
	r.read.Store(r.read.Load() + n)
}
