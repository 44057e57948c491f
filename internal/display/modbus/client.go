// internal/display/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/linkfetch/internal/status"
)

// MaxWriteRegisters is the FC16 quantity limit.
const MaxWriteRegisters = 123

// EndpointClient holds one Modbus TCP session to a status panel.
// Writes are serialized since the unit id lives on the shared handler.
type EndpointClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewEndpointClient dials the panel immediately.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("display modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("display modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{handler: h, client: modbus.NewClient(h)}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters stores a status block in holding registers.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if err := checkBlock(addr, regs); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID
	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), status.Bytes(regs)); err != nil {
		return fmt.Errorf("display modbus: write unit=%d addr=%d qty=%d: %w", unitID, addr, len(regs), err)
	}
	return nil
}

func checkBlock(addr uint16, regs []uint16) error {
	switch {
	case len(regs) == 0:
		return errors.New("display modbus: empty block")
	case len(regs) > MaxWriteRegisters:
		return fmt.Errorf("display modbus: block of %d registers exceeds %d", len(regs), MaxWriteRegisters)
	case int(addr)+len(regs) > 0x10000:
		return fmt.Errorf("display modbus: block at %d overruns the register space", addr)
	}
	return nil
}
