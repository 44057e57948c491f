// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	// ------------------------------------------------------------
	// LINK
	// ------------------------------------------------------------

	if cfg.Link.SSID == "" {
		return errors.New("link.ssid is required")
	}
	if cfg.Link.PollIntervalMs < 0 {
		return fmt.Errorf("link.poll_interval_ms must be >= 0, got %d", cfg.Link.PollIntervalMs)
	}

	// ------------------------------------------------------------
	// TARGET
	// ------------------------------------------------------------

	t := cfg.Target
	if t.Host == "" {
		return errors.New("target.host is required")
	}
	if t.Port != "" {
		if n, err := strconv.Atoi(t.Port); err == nil && (n <= 0 || n > 65535) {
			return fmt.Errorf("target.port %q out of range", t.Port)
		}
	}
	if t.Path != "" && !strings.HasPrefix(t.Path, "/") {
		return fmt.Errorf("target.path %q must start with /", t.Path)
	}
	if t.RecvBuffer < 0 {
		return fmt.Errorf("target.recv_buffer must be >= 0, got %d", t.RecvBuffer)
	}
	switch t.Sink {
	case "", "stdout", "log":
	default:
		return fmt.Errorf("target.sink %q: want stdout or log", t.Sink)
	}

	// ------------------------------------------------------------
	// DISPLAY
	// ------------------------------------------------------------

	d := cfg.Display
	switch d.Kind {
	case "", DisplayConsole:
	case DisplayModbus, DisplayIngest:
		if d.Endpoint == "" {
			return fmt.Errorf("display.endpoint is required for kind %q", d.Kind)
		}
	default:
		return fmt.Errorf("display.kind %q: want console, modbus or ingest", d.Kind)
	}
	if d.SettleMs != nil && *d.SettleMs < 0 {
		return fmt.Errorf("display.settle_ms must be >= 0, got %d", *d.SettleMs)
	}

	// register panels carry ASCII only
	if d.Kind == DisplayModbus || d.Kind == DisplayIngest {
		for i := 0; i < len(cfg.Link.SSID); i++ {
			if cfg.Link.SSID[i] > 0x7F {
				return fmt.Errorf("link.ssid must contain ASCII characters only for display kind %q", d.Kind)
			}
		}
	}

	return nil
}
