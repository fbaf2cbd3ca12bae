// interrupts.go - interrupt derivation (component D of spec.md §2).
//
// IRQ is level-sensitive, recomputed after every mutation that could change
// it. NMI is edge-sensitive, asserted only in control.go's HSTAT1 write
// handler (the only place the original ever computes a "before" and
// "after" value to diff) or flipped on directly by host/parasite register
// ops that always raise it unconditionally when the masked condition already
// holds - ph3pos being a masked level, not an edge, everywhere except the
// control-register write. RESET follows HSTAT1.P and the bus reset pin.
//
// Grounded on cpu_six5go2.go's atomic.Bool-guarded SetNMILine, which detects
// a falling-edge transition with a Swap before setting nmiPending - the same
// "detect the edge, then latch a level" shape the control-register write
// uses here, just evaluated explicitly rather than via a hardware line.
package tube

// IRQFlags is the interrupt word described in spec.md §3: three derived
// interrupt lines plus the configuration bits that ride along with them for
// single-load access by the parasite CPU emulator.
type IRQFlags struct {
	Reset      bool // RESET pending (HSTAT1.P or the bus reset pin)
	NMI        bool // NMI pending, edge-triggered off the masked R3 condition
	IRQ        bool // IRQ pending, level-sensitive
	TubeEnable bool // tube enabled; false blanks the register file and drops writes
	Fast6502   bool // fast-6502 signalling path enabled (enable/disable entry points only)
}

// Word packs IRQFlags into the single byte layout documented in
// original_source/tube-defs.h, for callers (tests, a native-ARM-style fast
// consumer) that want the "single flag word" spec.md §3 describes rather
// than the struct form.
func (f IRQFlags) Word() byte {
	var w byte
	if f.Fast6502 {
		w |= 1 << 7
	}
	if f.TubeEnable {
		w |= 1 << 3
	}
	if f.Reset {
		w |= 1 << 2
	}
	if f.NMI {
		w |= 1 << 1
	}
	if f.IRQ {
		w |= 1 << 0
	}
	return w
}

// recomputeIRQLocked implements invariant 7 / spec.md §4.5:
//
//	IRQ = (HSTAT1.I && PSTAT1 has-parasite-byte) || (HSTAT1.J && PSTAT4 has-parasite-byte)
//
// Caller must hold c.mu.
func (c *Core) recomputeIRQLocked() {
	i := c.regs[offHSTAT1]&hstat1I != 0 && c.pstat[0]&statPtoHPending != 0
	j := c.regs[offHSTAT1]&hstat1J != 0 && c.pstat[3]&statPtoHPending != 0
	c.irq.IRQ = i || j
}

// raiseIRQLocked is the original's unconditional "tube_irq |= IRQ_BIT" used
// by the host/parasite HtoP write paths (host.go); unlike the control
// register it never needs to clear the bit itself; clearing only happens
// via recomputeIRQLocked.
func (c *Core) raiseIRQLocked() {
	c.irq.IRQ = true
}

// clearIRQLocked drops IRQ unconditionally - used by parasite reads that
// find no other source still asserting it (parasite.go).
func (c *Core) clearIRQLocked() {
	c.irq.IRQ = false
}

// raiseNMILocked sets NMI unconditionally - used by the direct (non-edge)
// NMI assertions in host.go.
func (c *Core) raiseNMILocked() {
	c.irq.NMI = true
}

// clearNMILocked drops NMI unconditionally.
func (c *Core) clearNMILocked() {
	c.irq.NMI = false
}

// AckNMI clears the NMI bit. The parasite CPU emulator calls this after
// taking the NMI (spec.md §4.5, mirroring tube_ack_nmi in the original).
func (c *Core) AckNMI() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearNMILocked()
}

// EnableFast6502 and DisableFast6502 are atomic toggles of the FAST6502
// configuration bit (spec.md §4.5, supplemented from tube_enable_fast6502 /
// tube_disable_fast6502 in the original - see SPEC_FULL.md §4).
func (c *Core) EnableFast6502() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.irq.Fast6502 = true
}

func (c *Core) DisableFast6502() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.irq.Fast6502 = false
}

// setResetLocked updates irq_flags.Reset from HSTAT1.P, called after every
// HSTAT1 write (spec.md §4.3 step 4).
func (c *Core) setResetLocked() {
	c.irq.Reset = c.regs[offHSTAT1]&hstat1P != 0
}

// LatchReset is called by the bus-event front-end when it observes nRST
// active; it only latches the RESET bit - the actual reset of channel state
// happens once nRST has been continuously inactive for the debounce period
// (busevent.go's WaitForResetRelease), matching the original's split between
// tube_io_handler's immediate RESET_BIT set and tube_wait_for_rst_release's
// deferred tube_reset() call.
func (c *Core) LatchReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.irq.Reset = true
}
