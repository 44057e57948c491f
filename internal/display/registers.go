// internal/display/registers.go
package display

import (
	"errors"
	"fmt"

	"github.com/tamzrod/linkfetch/internal/status"
)

// registerWriter is the exact contract register transports satisfy.
type registerWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Registers mirrors the status panel into a register block on a remote
// HMI. Every render writes the full block, so no partial state survives
// from an earlier snapshot.
type Registers struct {
	cli      registerWriter
	unitID   uint8
	baseSlot uint16
}

func NewRegisters(cli registerWriter, unitID uint8, baseSlot uint16) *Registers {
	return &Registers{cli: cli, unitID: unitID, baseSlot: baseSlot}
}

func (r *Registers) Render(s status.Snapshot) error {
	if r == nil || r.cli == nil {
		return errors.New("display registers: no client")
	}

	if err := r.cli.WriteRegisters(r.unitID, r.baseAddr(), status.Encode(s)); err != nil {
		return fmt.Errorf("display registers: full block write failed: %w", err)
	}
	return nil
}

func (r *Registers) baseAddr() uint16 {
	// Each panel owns a fixed SlotsPerDisplay block.
	return r.baseSlot * status.SlotsPerDisplay
}
