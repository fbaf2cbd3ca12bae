package tube

import "testing"

func TestPh1RingRoundTrip(t *testing.T) {
	var r ph1Ring
	var written [ph1Capacity]byte
	for i := range written {
		written[i] = byte(i * 7)
		head, isNew := r.push(written[i])
		if i == 0 && !isNew {
			t.Fatalf("first push should report a new head")
		}
		if i == 0 && head != written[0] {
			t.Fatalf("first push head = %#x, want %#x", head, written[0])
		}
	}
	if !r.full() {
		t.Fatalf("ring should be full after %d pushes", ph1Capacity)
	}

	// The head byte (written[0]) was handed back directly by push and is
	// what the caller publishes to the register file; advance() walks the
	// remaining 23 bytes plus the terminal empty transition.
	got := []byte{written[0]}
	for i := 1; i < ph1Capacity; i++ {
		next, empty := r.advance()
		if empty {
			t.Fatalf("ring reported empty after only %d advances", i)
		}
		got = append(got, next)
	}
	_, empty := r.advance()
	if !empty {
		t.Fatalf("ring should be empty after draining all %d bytes", ph1Capacity)
	}
	if !r.empty() {
		t.Fatalf("empty() should agree with advance()'s report")
	}
	for i, b := range got {
		if b != written[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, b, written[i])
		}
	}
}

func TestPh1RingFullAfterCapacityPushes(t *testing.T) {
	var r ph1Ring
	for i := 0; i < ph1Capacity; i++ {
		r.push(byte(i))
	}
	if !r.full() {
		t.Fatalf("expected ring full")
	}
	// ph1Ring itself has no overflow guard - Core.ParasiteWrite is
	// responsible for checking full() before calling push, matching
	// invariant 3 (the writer must not discard, it must be refused).
}

func TestSlotBufferReset(t *testing.T) {
	s := slotBuffer{data: [ph3MaxSlots]byte{0xAA, 0xBB}, n: 2}
	s.reset()
	if s.n != 0 || s.data != ([ph3MaxSlots]byte{}) {
		t.Fatalf("reset did not clear slot buffer: %+v", s)
	}
}
