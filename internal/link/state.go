// internal/link/state.go
package link

import "fmt"

// State is the wireless link state as seen by the monitor.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// EventKind classifies a link driver notification.
type EventKind int

const (
	EventOther EventKind = iota
	EventLayerStarted
	EventAddressAcquired
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventLayerStarted:
		return "layer-started"
	case EventAddressAcquired:
		return "address-acquired"
	case EventDisconnected:
		return "disconnected"
	default:
		return "other"
	}
}

// Event is one asynchronous notification from the link driver.
type Event struct {
	Kind EventKind

	// Detail is free-form driver context (reason code, interface name).
	Detail string
}

// IPInfo describes the acquired lease in presentation format.
type IPInfo struct {
	Address string
	Netmask string
	Gateway string
}

// Credentials select the network to associate with.
type Credentials struct {
	SSID     string
	Password string
}
