// busevent.go - the bus-capture front-end's entry point into the core
// (spec.md §6) and the nRST debounce helper (spec.md §6, §9), grounded on
// tube_io_handler and tube_wait_for_rst_release in original_source/tube-ula.c.
package tube

import (
	"context"
	"time"
)

// BusEvent is the demultiplexed form of the single packed word the original
// delivers per host bus cycle (address bits, R/nW, nTUBE, nRST and the data
// byte on write). The physical GPIO/PIO decode that produces this value is
// out of scope for the core (spec.md §1); front-ends are expected to only
// deliver events for which nTUBE is already asserted, matching the
// original's tube_io_handler, which likewise never tests the nTUBE bit
// itself.
type BusEvent struct {
	Addr3         int  // low 3 address bits of the bus cycle (0..7)
	Write         bool // true for a host write, false for a host read
	Data          byte // write data; ignored on a read
	ResetAsserted bool // nRST currently active (low)
}

// HandleBusEvent demultiplexes one bus cycle: a reset assertion only latches
// irq_flags.RESET (the debounced SoftReset itself happens via
// WaitForResetRelease); otherwise it dispatches to HostRead or HostWrite.
func (c *Core) HandleBusEvent(ev BusEvent) {
	if ev.ResetAsserted {
		c.LatchReset()
		return
	}
	if ev.Write {
		c.HostWrite(ev.Addr3, ev.Data)
	} else {
		c.HostRead(ev.Addr3)
	}
}

// ResetDebounce is the nRST settle time the original measured at ~690
// microseconds on a Raspberry Pi 3 (a busy-loop iteration count in the
// original; here a wall-clock duration, since a Go port has no reason to
// recreate a cycle-counted busy loop). Not protocol-significant in its
// exact value - see spec.md §6 - but required to mask host-side RST bounce.
const ResetDebounce = 690 * time.Microsecond

// WaitForResetRelease polls resetActive (supplied by the bus front-end,
// which owns the actual GPIO read) until nRST has been continuously
// inactive for ResetDebounce, then performs the soft reset. It blocks until
// that happens or ctx is cancelled, in which case it returns ctx.Err()
// without resetting.
//
// This mirrors the original's split of responsibility: the front-end polls
// tube_is_rst_active(), tube_wait_for_rst_release() owns the debounce
// timing and triggers tube_reset() once the line has settled.
func (c *Core) WaitForResetRelease(ctx context.Context, resetActive func() bool, pollInterval time.Duration) error {
	for {
		for resetActive() {
			if err := sleepOrDone(ctx, pollInterval); err != nil {
				return err
			}
		}
		deadline := time.Now().Add(ResetDebounce)
		releasedThroughout := true
		for time.Now().Before(deadline) {
			if resetActive() {
				releasedThroughout = false
				break
			}
			if err := sleepOrDone(ctx, pollInterval); err != nil {
				return err
			}
		}
		if releasedThroughout {
			break
		}
		// RST went active again before the debounce window elapsed; loop
		// back and wait for release again.
	}
	c.SoftReset()
	return nil
}

func sleepOrDone(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
