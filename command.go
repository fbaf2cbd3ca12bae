// command.go - the side-channel command port (spec.md §4.6), grounded on
// copro_command_excute in original_source/tube-ula.c. The host writes a
// command selector to address 2 (latched as coproCommand in host.go) and an
// argument to address 4, which dispatches here.
package tube

// dispatchCommandLocked applies the effect of coproCommand with val as its
// argument. Unrecognised commands are ignored (spec.md §4.6). Caller must
// hold c.mu.
func (c *Core) dispatchCommandLocked(val byte) {
	switch c.coproCommand {
	case cmdSetSpeed:
		if val == 0 {
			c.coproSpeed = 0
			return
		}
		// speed = arm_speed_hz / (arg * (1e6/256)), taken from spec.md §4.6;
		// done in float64 to match the formula as specified rather than the
		// original's integer-truncated MHz variant (see SPEC_FULL.md §1).
		c.coproSpeed = uint32(float64(c.armSpeedHz) / (float64(val) * (1000000.0 / 256.0)))
	case cmdResetCopro:
		// *fx 151,226,1 followed by *fx 151,228,<val> on the host selects a
		// memory size by requesting a full co-processor reset; the outer
		// shell observes bit 7 of the selector and reloads its emulator.
		c.copro |= coproResetBit
	}
}
