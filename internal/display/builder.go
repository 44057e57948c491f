// internal/display/builder.go
package display

import (
	"fmt"
	"io"
	"time"

	cfg "github.com/tamzrod/linkfetch/internal/config"
	"github.com/tamzrod/linkfetch/internal/display/ingest"
	dmodbus "github.com/tamzrod/linkfetch/internal/display/modbus"
)

// Build constructs the configured display and its closer.
// Assumes config has already passed validation and normalization.
// Register panels connect once here (fail fast at startup).
func Build(dc cfg.DisplayConfig, out io.Writer) (Display, func() error, error) {
	noop := func() error { return nil }
	timeout := time.Duration(dc.TimeoutMs) * time.Millisecond

	switch dc.Kind {
	case "", cfg.DisplayConsole:
		return NewConsole(out, dc.Clear == nil || *dc.Clear), noop, nil

	case cfg.DisplayModbus:
		c, err := dmodbus.NewEndpointClient(dmodbus.Config{
			Endpoint: dc.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("display: modbus panel %s: %w", dc.Endpoint, err)
		}
		return NewRegisters(c, dc.UnitID, dc.BaseSlot), c.Close, nil

	case cfg.DisplayIngest:
		c, err := ingest.NewEndpointClient(ingest.Config{
			Endpoint: dc.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("display: ingest panel %s: %w", dc.Endpoint, err)
		}
		return NewRegisters(c, dc.UnitID, dc.BaseSlot), c.Close, nil

	default:
		return nil, nil, fmt.Errorf("display: unknown kind %q", dc.Kind)
	}
}
