package session

// dedupWindow is the number of recent packet numbers the inbound parser
// remembers in order to discard FEC-tail duplicates of packets it has
// already delivered.
const dedupWindow = fecDepth

// Dedup tracks the last dedupWindow distinct UMP_DATA sequence numbers
// this endpoint has accepted. A freshly invited session starts with every
// slot set to 0xFFFF. A fresh stream starts at sequence number 0 and only
// reaches 0xFFFF long after every sentinel slot has been overwritten, so
// the first real packets of a stream are never mistaken for duplicates.
type Dedup struct {
	seen [dedupWindow]uint16
	next int
}

// NewDedup returns a Dedup primed with the sentinel "never seen" value.
func NewDedup() *Dedup {
	d := &Dedup{}
	d.Reset()
	return d
}

// Reset re-primes the window, used when a session restarts.
func (d *Dedup) Reset() {
	for i := range d.seen {
		d.seen[i] = 0xFFFF
	}
	d.next = 0
}

// Seen reports whether seq has already been recorded.
func (d *Dedup) Seen(seq uint16) bool {
	for _, s := range d.seen {
		if s == seq {
			return true
		}
	}
	return false
}

// Record adds seq to the window, evicting the oldest entry.
func (d *Dedup) Record(seq uint16) {
	d.seen[d.next] = seq
	d.next = (d.next + 1) % len(d.seen)
}
