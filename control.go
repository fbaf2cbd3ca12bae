// control.go - the HSTAT1 control-register write protocol (spec.md §4.3),
// the single most order-sensitive operation in the whole core: it is the
// only place the original computes a masked R3 condition both before and
// after applying the write, specifically to avoid re-asserting NMI on a
// mode flip or re-arm that doesn't actually introduce a new byte.
package tube

// r3NmiEligibleLocked evaluates the (unmasked) R3 NMI-eligible condition
// from the current state - taken verbatim from the two `if` conditions
// repeated twice (once pre-write, once post-write) in tube_host_write's
// case 0 in the original. Caller must hold c.mu.
func (c *Core) r3NmiEligibleLocked() bool {
	if c.regs[offHSTAT1]&hstat1V == 0 {
		return c.hp3.n > 0 || c.ph3pos == 0
	}
	return c.hp3.n > 1 || c.ph3pos == 0
}

// writeControlLocked implements a write to address 0 (spec.md §4.3).
// Caller must hold c.mu.
func (c *Core) writeControlLocked(value byte) {
	if !c.irq.TubeEnable {
		return
	}

	preMasked := c.regs[offHSTAT1]&hstat1M != 0 && c.r3NmiEligibleLocked()

	if value&0x80 != 0 {
		if value&0x40 != 0 {
			c.resetLocked()
		} else {
			c.regs[offHSTAT1] |= value & 0x3F
		}
	} else {
		c.regs[offHSTAT1] &^= value & 0x3F
	}

	c.setResetLocked()

	postEligible := c.r3NmiEligibleLocked()
	postMasked := c.regs[offHSTAT1]&hstat1M != 0 && postEligible

	// Keep PSTAT3's N-flag consistent with the internal (unmasked) NMI
	// condition even across a mode flip, per spec.md §4.3 step 6.
	if postEligible {
		c.pstat[2] |= statPtoHPending
	} else {
		c.pstat[2] &^= statPtoHPending
	}

	if !preMasked && postMasked {
		c.raiseNMILocked()
	}
	if !postMasked {
		c.clearNMILocked()
	}

	c.recomputeIRQLocked()
}
