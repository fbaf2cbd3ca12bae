// core.go - the Core object: register file, channel state, construction and
// the publish() mechanism.
//
// Grounded on two teacher patterns: the constructor-injection style of
// NewCoprocessorManager/NewMachineBus (no package-level state - the whole
// object is owned by whoever calls NewCore, matching spec.md §9's call to
// retire the original's module-level globals), and the single
// sync.Mutex-guarded struct of CoprocessorManager, which plays exactly the
// "mutual exclusion between two asynchronous actors" role spec.md §5 asks
// for: every host_* and parasite_* entry point below takes core.mu for its
// whole body, so the two paths can never interleave, and publish() always
// runs as the last thing before the lock is released.
package tube

import "sync"

// RegisterFilePublisher receives a snapshot of the 8-byte register file
// after every state-mutating operation. It is the abstract equivalent of
// the original's FLUSH_TUBE_REGS(): the bus-capture front-end supplies one
// at construction time and the core invokes it as the final step of every
// mutator (spec.md §4.1, §9).
type RegisterFilePublisher func(snapshot [8]byte)

// Config configures a Core at construction time.
type Config struct {
	// ArmSpeedHz is the host clock rate used by the command-port speed
	// calculation (spec.md §4.6). The original hardcodes 133MHz.
	ArmSpeedHz uint32

	// Publisher receives the register file after every mutator. May be nil,
	// in which case publish() is a no-op (useful in tests that only care
	// about Core's own state).
	Publisher RegisterFilePublisher
}

// Core is the Tube ULA protocol core: the register file, the four channel
// buffers, host/parasite status and interrupt derivation. The zero value is
// not usable; construct with NewCore.
type Core struct {
	mu sync.Mutex

	regs [8]byte // the full host-visible register file: HSTAT1-4 and PH1-4

	ph1 ph1Ring   // R1 PtoH (24-deep)
	hp3 slotBuffer // R3 HtoP (1 or 2 slots depending on V)

	ph3pos   int  // R3 PtoH slot count (0, 1, or 2 depending on V)
	ph3Shadow byte // the second PtoH byte in two-byte mode (PH3_1 in the original)

	hp1, hp2, hp4 byte // R2/R4 and R1 HtoP single-byte slots
	pstat         [4]byte

	coproCommand byte // latched by a write to addr 2, dispatched on addr 4
	copro        byte // co-processor selector (addr 6 write); bit 7 = reset-on-swap
	coproSpeed   uint32

	armSpeedHz uint32
	publish    RegisterFilePublisher

	irq IRQFlags
}

// NewCore constructs a Core and performs the initial (power-on) reset.
func NewCore(cfg Config) *Core {
	c := &Core{
		armSpeedHz: cfg.ArmSpeedHz,
		publish:    cfg.Publisher,
	}
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	return c
}

// SoftReset re-initialises FIFOs and status bits without tearing down the
// Core (spec.md §4.3's "soft reset"), matching tube_reset() in the
// original. It is exported for the bus-event front-end and for
// WaitForResetRelease (busevent.go) to call after debouncing nRST.
func (c *Core) SoftReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.publishLocked()
}

// resetLocked implements tube_reset() verbatim (values taken from
// original_source/tube-ula.c); caller must hold c.mu.
func (c *Core) resetLocked() {
	c.ph1.reset()
	c.hp3.reset()
	c.ph3pos = 1 // deliberate: see spec.md §9, "Open question - ph3pos initial value"
	c.ph3Shadow = 0
	c.hp1, c.hp2, c.hp4 = 0, 0, 0
	c.coproCommand = 0

	c.pstat[0] = resetPSTAT1
	c.pstat[1] = resetPSTAT2
	c.pstat[2] = resetPSTAT3
	c.pstat[3] = resetPSTAT4

	c.regs[offHSTAT1] = resetHSTAT1
	c.regs[offHSTAT2] = resetHSTAT2
	c.regs[offHSTAT3] = resetHSTAT3
	c.regs[offHSTAT4] = resetHSTAT4
	c.regs[offPH1] = 0
	c.regs[offPH2] = 0
	c.regs[offPH3] = 0
	c.regs[offPH4] = 0

	// "On the Model B the initial write of &8E to FEE0 is missed if the Pi
	// is slower in starting than the Beeb" - the original compensates by
	// resetting with R1/R4 IRQ and R3 NMI already enabled.
	c.regs[offHSTAT1] |= hstat1M | hstat1J | hstat1I

	c.irq = IRQFlags{TubeEnable: true}
}

// publishLocked hands the current register file to the configured
// publisher. Caller must hold c.mu. This must be the last action of every
// exported mutator (spec.md §4.1, invariant 6).
func (c *Core) publishLocked() {
	if c.publish != nil {
		c.publish(c.regs)
	}
}

// Snapshot returns a copy of the current 8-byte register file. External
// readers (the bus front-end) must treat this as read-only; the core is the
// only writer (spec.md §4.1).
func (c *Core) Snapshot() [8]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs
}

// DisableTube clears TUBE_ENABLE and blanks the register file to the
// open-bus-like value 0xFE (spec.md §7, §8 scenario 6). Host writes other
// than to HSTAT1 are dropped while disabled (see host.go).
func (c *Core) DisableTube() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.irq.TubeEnable = false
	for i := range c.regs {
		c.regs[i] = disabledTubeByte
	}
	c.publishLocked()
}

// EnableTube re-enables the tube and performs a soft reset, matching the
// original's behaviour of only ever leaving the disabled state via a fresh
// tube_reset() (start_ula()/tube_wait_for_rst_release() is the only path
// back to TUBE_ENABLE being set).
func (c *Core) EnableTube() {
	c.SoftReset()
}

// IRQFlags returns a snapshot of the interrupt word (spec.md §3 "irq_flags",
// §4.5). Safe to call from either the bus-event or parasite path; the
// parasite CPU emulator is expected to call this before each instruction
// (spec.md §6).
func (c *Core) IRQFlags() IRQFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.irq
}

// CoproSelector returns the current co-processor selector byte (addr 6
// write target). Bit 7 set means "full reset requested on next swap"; the
// boot/multiplex shell is expected to poll this and call
// AckCoproResetRequest after handling it (spec.md §6).
func (c *Core) CoproSelector() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copro
}

// AckCoproResetRequest clears bit 7 of the co-processor selector. The outer
// shell calls this after it has reloaded the emulator in response to a
// reset request (spec.md §4.6, §9).
func (c *Core) AckCoproResetRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copro &^= coproResetBit
}

// CoproSpeed returns the currently configured co-processor throttle, in Hz,
// as last set by command-port command 0 (spec.md §4.6). Zero means
// throttling is disabled.
func (c *Core) CoproSpeed() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coproSpeed
}
