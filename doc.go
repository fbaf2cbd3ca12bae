// Package tube implements the protocol core of an Acorn Tube ULA: the
// register file, the four channel FIFOs, the host/parasite status logic and
// the NMI/IRQ/RESET derivation that couples a host 6502 to a parasite
// co-processor.
//
// The core is the only thing in this package. The physical bus-capture
// front-end, the parasite CPU emulator and the boot/multiplex shell are all
// external collaborators that talk to a *Core through HandleBusEvent,
// ParasiteRead/ParasiteWrite and RegisterFilePublisher - see core.go.
package tube
