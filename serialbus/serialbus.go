// Package serialbus is a reference bus-event source for the Tube ULA core:
// it decodes packed bus-cycle frames off a serial line and feeds them to
// tube.Core.HandleBusEvent, playing the role the GPIO/PIO capture front-end
// plays against real hardware (spec.md §1, §6). The physical capture itself
// stays out of scope; this is a wired, testable stand-in for it, grounded on
// github.com/daedaluz/goserial's Port type (_examples/Daedaluz-goserial).
package serialbus

import (
	"fmt"
	"io"

	serial "github.com/daedaluz/goserial"

	"github.com/beebtube/tubeula"
)

// Frame is the wire format this package speaks: one control byte followed
// by one data byte.
//
//	control bit 0   write (1) / read (0)
//	control bit 1   nRST asserted
//	control bits 2-4 low three address bits (0..7)
//
// A real GPIO front-end would derive these bits directly off the bus; this
// is the same information carried over a UART instead, useful for bench
// testing a Core against a second machine or a loopback pseudo-terminal
// without wiring real GPIO.
type Frame struct {
	Addr3         int
	Write         bool
	ResetAsserted bool
	Data          byte
}

func (f Frame) encode() [2]byte {
	var ctrl byte
	if f.Write {
		ctrl |= 1 << 0
	}
	if f.ResetAsserted {
		ctrl |= 1 << 1
	}
	ctrl |= byte(f.Addr3&0x7) << 2
	return [2]byte{ctrl, f.Data}
}

func decode(buf [2]byte) Frame {
	ctrl := buf[0]
	return Frame{
		Write:         ctrl&(1<<0) != 0,
		ResetAsserted: ctrl&(1<<1) != 0,
		Addr3:         int(ctrl>>2) & 0x7,
		Data:          buf[1],
	}
}

func (f Frame) busEvent() tube.BusEvent {
	return tube.BusEvent{
		Addr3:         f.Addr3,
		Write:         f.Write,
		Data:          f.Data,
		ResetAsserted: f.ResetAsserted,
	}
}

// Open opens the named serial device in raw mode, ready for Pump.
func Open(name string, opts *serial.Options) (*serial.Port, error) {
	p, err := serial.Open(name, opts)
	if err != nil {
		return nil, fmt.Errorf("serialbus: open %s: %w", name, err)
	}
	if err := p.MakeRaw(); err != nil {
		p.Close()
		return nil, fmt.Errorf("serialbus: raw mode %s: %w", name, err)
	}
	return p, nil
}

// Pump reads frames from r and dispatches them to core.HandleBusEvent until
// r returns an error (typically io.EOF when the port is closed). It never
// returns nil: callers that want a clean shutdown should close the
// underlying port to unblock the pending Read.
func Pump(core *tube.Core, r io.Reader) error {
	var buf [2]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return fmt.Errorf("serialbus: pump: %w", err)
		}
		core.HandleBusEvent(decode(buf).busEvent())
	}
}

// Emit encodes f and writes it to w, the inverse of Pump - useful for a
// bench harness that drives a remote Core over the same wire format.
func Emit(w io.Writer, f Frame) error {
	enc := f.encode()
	if _, err := w.Write(enc[:]); err != nil {
		return fmt.Errorf("serialbus: emit: %w", err)
	}
	return nil
}
