// internal/link/monitor.go
package link

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Handler consumes link events. Drivers call it from their own goroutine.
type Handler func(Event)

// Driver is the wireless link driver the monitor sits on.
type Driver interface {
	// Start brings the link layer up and begins delivering events to h.
	// Events are delivered sequentially from the driver's own goroutine.
	Start(ctx context.Context, h Handler) error

	// Associate requests association with the given network.
	// It must not block on the association completing, and must not
	// deliver events from inside the call.
	Associate(ssid, password string) error

	// IPInfo reports the currently acquired lease.
	IPInfo() (IPInfo, error)
}

// Monitor turns link events into a readiness signal.
// It is the sole consumer of the driver's events.
type Monitor struct {
	driver Driver
	creds  Credentials
	logger *log.Logger

	mu    sync.Mutex
	state State

	ready *Signal
}

func NewMonitor(driver Driver, creds Credentials, logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Monitor{
		driver: driver,
		creds:  creds,
		logger: logger,
		state:  Disconnected,
		ready:  NewSignal(),
	}
}

// Start registers the monitor with the driver and triggers link-layer start.
func (m *Monitor) Start(ctx context.Context) error {
	if m.driver == nil {
		return errors.New("link: driver required")
	}
	if err := m.driver.Start(ctx, m.HandleEvent); err != nil {
		return fmt.Errorf("link: start: %w", err)
	}
	return nil
}

// HandleEvent applies one link event.
// Events that would break the state machine are dropped, so duplicates
// and out-of-order deliveries leave the state consistent.
func (m *Monitor) HandleEvent(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Kind {
	case EventLayerStarted:
		if m.state != Disconnected {
			return
		}
		m.state = Connecting
		if err := m.driver.Associate(m.creds.SSID, m.creds.Password); err != nil {
			m.logger.Printf("link: association request failed (ssid=%s): %v", m.creds.SSID, err)
		}

	case EventAddressAcquired:
		switch m.state {
		case Connecting:
			m.state = Connected
			m.ready.Set()
		case Disconnected:
			m.logger.Printf("link: address acquired while disconnected; ignored")
		}

	case EventDisconnected:
		if m.state == Disconnected {
			return
		}
		m.state = Disconnected
		m.ready.Clear()
		if ev.Detail != "" {
			m.logger.Printf("link: disconnected (%s)", ev.Detail)
		} else {
			m.logger.Printf("link: disconnected")
		}
	}
}

// State returns the current link state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Ready reports whether the readiness signal is set.
func (m *Monitor) Ready() bool {
	return m.ready.IsSet()
}

// AwaitReady blocks until the link is connected. There is no timeout:
// the device waits for connectivity forever rather than degrade.
func (m *Monitor) AwaitReady() {
	_ = m.AwaitReadyContext(context.Background())
}

// AwaitReadyContext is AwaitReady that also returns when ctx ends, so the
// process can still be stopped while the link is down.
func (m *Monitor) AwaitReadyContext(ctx context.Context) error {
	if err := m.ready.Wait(ctx); err != nil {
		return err
	}
	m.logger.Printf("link connected")
	return nil
}

// IPInfo queries the driver for the acquired lease.
func (m *Monitor) IPInfo() (IPInfo, error) {
	info, err := m.driver.IPInfo()
	if err != nil {
		return IPInfo{}, fmt.Errorf("link: ip info: %w", err)
	}
	return info, nil
}
