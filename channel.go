// channel.go - the four logical channel buffers (R1-R4).
//
// R1's PtoH direction is the only true FIFO: a 24-deep ring, grounded on the
// ph1/ph1rdpos/ph1wrpos/ph1len fields of original_source/tube-ula.c. Every
// other direction on every other channel is a tiny fixed-size slot array
// indexed by a count. The two shapes are kept as separate types rather than
// generalised into one: R1 PtoH blocks the writer on overflow and serves the
// current head out of the register-file cache rather than the ring itself
// (matching the original's read-ahead split between tube_regs[1] and
// ph1[]), while R2-R4 and R3's slots have no such split.
package tube

// ph1Ring is the 24-byte parasite-to-host console output FIFO for R1.
//
// The byte the host will read next always lives in the register-file cache
// (core.regs[offPH1]), not in buf - buf holds the second-and-later queued
// bytes. This mirrors the original: a direct write to PH1_0 when the ring
// was empty, and ph1[ph1rdpos]/ph1[ph1wrpos] for everything queued behind
// it.
type ph1Ring struct {
	buf   [ph1Capacity]byte
	rdpos int
	wrpos int
	len   int
}

func (r *ph1Ring) full() bool  { return r.len >= ph1Capacity }
func (r *ph1Ring) empty() bool { return r.len == 0 }

// push enqueues a byte. If the ring was empty, it reports that byte back as
// headByte/true so the caller publishes it straight to the register file;
// otherwise it is stored at wrpos and headByte is not meaningful.
func (r *ph1Ring) push(b byte) (headByte byte, isNewHead bool) {
	if r.len == 0 {
		headByte, isNewHead = b, true
	} else {
		r.buf[r.wrpos] = b
		r.wrpos = (r.wrpos + 1) % ph1Capacity
	}
	r.len++
	return
}

// advance is called on a host read of the current head. It returns the byte
// at the (not yet advanced) read cursor - the value the original republishes
// into PH1_0 before deciding whether to move the cursor on - and whether the
// ring is now empty.
func (r *ph1Ring) advance() (nextHead byte, empty bool) {
	nextHead = r.buf[r.rdpos]
	r.len--
	if r.len != 0 {
		r.rdpos = (r.rdpos + 1) % ph1Capacity
	}
	return nextHead, r.len == 0
}

func (r *ph1Ring) reset() {
	*r = ph1Ring{}
}

// slotBuffer models R3's HtoP buffer: a 1- or 2-byte buffer indexed by a
// count (never a ring, since capacity never exceeds two). R3's PtoH side is
// held in Core.ph3pos/ph3Shadow and the register file instead.
type slotBuffer struct {
	data [ph3MaxSlots]byte
	n    int
}

func (s *slotBuffer) reset() {
	s.data = [ph3MaxSlots]byte{}
	s.n = 0
}
