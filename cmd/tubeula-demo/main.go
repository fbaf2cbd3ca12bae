// Command tubeula-demo drives a tube.Core interactively: keystrokes on the
// operator's terminal become host-side bus writes (one keystroke, one bus
// cycle, the same shape the real 6502 host bus has), a background exerciser
// drives the parasite side, and a live view renders the register file after
// every publish() callback.
//
// Grounded on TerminalHost (terminal_host.go) for the raw-mode stdin read
// loop, generalised from single-device MMIO key routing to Tube bus writes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/beebtube/tubeula"
)

// key -> (addr3, value) host bus write, a small fixed mapping so the
// keyboard can exercise all four channels without a modal UI.
var keyWrites = map[byte][2]int{
	'1': {1, 0x31}, // R1 HtoP byte
	'2': {3, 0x32}, // R2 HtoP byte
	'3': {5, 0x33}, // R3 HtoP byte (accumulates per HSTAT1.V)
	'4': {7, 0x34}, // R4 HtoP byte
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tubeula-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	updates := make(chan [8]byte, 64)
	core := tube.NewCore(tube.Config{
		ArmSpeedHz: 133_000_000,
		Publisher: func(snap [8]byte) {
			select {
			case updates <- snap:
			default:
				// the view can't keep up; drop the intermediate frame, the
				// next publish will carry the current state anyway.
			}
		},
	})

	program := tea.NewProgram(newModel(updates))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := program.Run()
		cancel()
		return err
	})
	g.Go(func() error { return runHostConsole(gctx, core, program) })
	g.Go(func() error { return runParasiteExerciser(gctx, core) })

	<-gctx.Done()
	program.Quit()
	return g.Wait()
}

// runHostConsole puts stdin in raw mode and turns digit keystrokes into host
// bus writes against core, matching TerminalHost's read loop but dispatching
// to HostWrite instead of a single MMIO device.
func runHostConsole(ctx context.Context, core *tube.Core, program *tea.Program) error {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, old)

	if err := syscall.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("nonblocking stdin: %w", err)
	}
	defer syscall.SetNonblock(fd, false)

	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		n, err := syscall.Read(fd, buf)
		if n > 0 {
			b := buf[0]
			if b == 'q' || b == 0x03 { // 'q' or Ctrl-C
				return nil
			}
			if w, ok := keyWrites[b]; ok {
				core.HostWrite(w[0], byte(w[1]))
			}
			if b == 'r' {
				core.SoftReset()
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
		} else if err != nil {
			return nil
		}
	}
}

// runParasiteExerciser periodically drains whatever the host has queued, the
// minimal stand-in for a real parasite CPU emulator polling IRQFlags and
// servicing the channels (spec.md §6 names that emulator as an external
// collaborator, not part of this core).
func runParasiteExerciser(ctx context.Context, core *tube.Core) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			flags := core.IRQFlags()
			if flags.IRQ {
				core.ParasiteRead(1)
				core.ParasiteRead(3)
				core.ParasiteRead(7)
			}
			if flags.NMI {
				core.ParasiteRead(5)
			}
		}
	}
}
