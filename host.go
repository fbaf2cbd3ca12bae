// host.go - host-side bus operations (spec.md §4.2), exposed to the
// bus-capture front-end as HostRead/HostWrite keyed on the low three
// address bits of the bus cycle. Both complete without blocking and are
// expected to run within a single 6502 bus cycle (spec.md §5).
package tube

// HostRead executes a host read cycle at addresses 0..7. Side effects only
// occur on odd (data) addresses; even (status) addresses are read directly
// off the published register file by the front-end and never reach here,
// but HostRead tolerates being called on an even address as a no-op so a
// front-end that always calls it is not penalised for doing so.
func (c *Core) HostRead(addr3 int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch addr3 {
	case offPH1:
		if !c.ph1.empty() {
			next, empty := c.ph1.advance()
			c.regs[offPH1] = next
			if empty {
				c.regs[offHSTAT1] &^= hstat1S
			}
			c.pstat[0] |= statHtoPFree
		}
	case offPH2:
		if c.regs[offHSTAT2]&statPtoHPending != 0 {
			c.regs[offHSTAT2] &^= statPtoHPending
			c.pstat[1] |= statHtoPFree
		}
	case offPH3:
		if c.ph3pos > 0 {
			c.regs[offPH3] = c.ph3Shadow
			c.ph3pos--
			c.pstat[2] |= statPtoHPending | statHtoPFree
			if c.ph3pos == 0 {
				c.regs[offHSTAT3] &^= statPtoHPending
				if c.regs[offHSTAT1]&hstat1M != 0 {
					c.raiseNMILocked()
				}
			}
		}
	case offPH4:
		if c.regs[offHSTAT4]&statPtoHPending != 0 {
			c.regs[offHSTAT4] &^= statPtoHPending
			c.pstat[3] |= statHtoPFree
		}
	}
	c.publishLocked()
}

// HostWrite executes a host write cycle at addresses 0..7. Writes to any
// address other than 0 are dropped while the tube is disabled (spec.md
// §4.2 "Gating"); a write to address 0 is always attempted, since
// control.go's writeControlLocked performs its own TUBE_ENABLE check (spec.md
// §4.3 step 1) and the two checks must agree on the same flag read under
// the same lock.
func (c *Core) HostWrite(addr3 int, value byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if addr3 != offHSTAT1 && !c.irq.TubeEnable {
		return
	}

	switch addr3 {
	case offHSTAT1:
		c.writeControlLocked(value)
	case offPH1:
		c.hp1 = value
		c.pstat[0] |= statPtoHPending
		c.regs[offHSTAT1] &^= statHtoPFree
		if c.regs[offHSTAT1]&hstat1I != 0 {
			c.raiseIRQLocked()
		}
	case 2:
		c.coproCommand = value
	case offPH2:
		c.hp2 = value
		c.pstat[1] |= statPtoHPending
		c.regs[offHSTAT2] &^= statHtoPFree
	case 4:
		c.dispatchCommandLocked(value)
	case offPH3:
		c.hostWriteR3Locked(value)
	case 6:
		c.copro = value
	case offPH4:
		c.hp4 = value
		c.pstat[3] |= statPtoHPending
		c.regs[offHSTAT4] &^= statHtoPFree
		if c.regs[offHSTAT1]&hstat1J != 0 {
			c.raiseIRQLocked()
		}
	}
	c.publishLocked()
}

// hostWriteR3Locked implements the R3 HtoP accumulation described in
// spec.md §4.2 addr3=5, verbatim from tube-ula.c's case 5 (caller holds
// c.mu).
func (c *Core) hostWriteR3Locked(value byte) {
	if c.regs[offHSTAT1]&hstat1V != 0 {
		if c.hp3.n < ph3MaxSlots {
			c.hp3.data[c.hp3.n] = value
			c.hp3.n++
		}
		if c.hp3.n == ph3MaxSlots {
			c.pstat[2] |= statPtoHPending
			c.regs[offHSTAT3] &^= statHtoPFree
		}
		if c.regs[offHSTAT1]&hstat1M != 0 && c.hp3.n > 1 {
			c.raiseNMILocked()
		}
		return
	}
	c.hp3.data[0] = value
	c.hp3.n = 1
	c.pstat[2] |= statPtoHPending
	c.regs[offHSTAT3] &^= statHtoPFree
	if c.regs[offHSTAT1]&hstat1M != 0 {
		c.raiseNMILocked()
	}
}
