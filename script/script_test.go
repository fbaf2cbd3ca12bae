package script

import (
	"testing"

	"github.com/beebtube/tubeula"
)

func TestRunnerReplaysR1Scenario(t *testing.T) {
	core := tube.NewCore(tube.Config{ArmSpeedHz: 133_000_000})
	r := NewRunner(core)
	defer r.Close()

	err := r.Run(`
		parasite_write(1, 0x41)
		expect(1, 0x41)
		host_read(1)
		local snap = snapshot()
		if snap[1] ~= 0x41 then
			error("register 1 changed on read, got " .. snap[1])
		end
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestRunnerExpectFailsOnMismatch(t *testing.T) {
	core := tube.NewCore(tube.Config{ArmSpeedHz: 133_000_000})
	r := NewRunner(core)
	defer r.Close()

	err := r.Run(`expect(1, 0x99)`)
	if err == nil {
		t.Fatalf("expected expect() to fail on a register 1 mismatch")
	}
}
