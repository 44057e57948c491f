// internal/link/hostlink/driver.go
package hostlink

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tamzrod/linkfetch/internal/link"
)

// DefaultPollInterval is used when Config.PollInterval is unset.
const DefaultPollInterval = 500 * time.Millisecond

// Config selects the host interface to watch.
type Config struct {
	// Interface is the OS interface name (e.g. wlan0).
	// Empty means the first up, non-loopback interface with an IPv4 address.
	Interface    string
	PollInterval time.Duration
}

// lease is one IPv4 address observed on an interface.
type lease struct {
	iface string
	ip    net.IP
	mask  net.IPMask
}

// Driver is a link.Driver over a host network interface.
// Association is owned by the OS supplicant; the driver watches the
// interface for an IPv4 lease on a ticker and reports edges as events.
type Driver struct {
	cfg    Config
	logger *log.Logger

	lookup  func(iface string) (lease, bool, error)
	gateway func(iface string) (net.IP, error)

	started    atomic.Bool
	associated atomic.Bool

	mu      sync.Mutex
	current *lease
	dropped bool
}

func New(cfg Config, logger *log.Logger) *Driver {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		cfg:     cfg,
		logger:  logger,
		lookup:  lookupLease,
		gateway: discoverGateway,
	}
}

// Start emits layer-started and begins watching the interface.
// One goroutine, no overlap. Stops when ctx ends.
func (d *Driver) Start(ctx context.Context, h link.Handler) error {
	if h == nil {
		return errors.New("hostlink: handler required")
	}
	if !d.started.CompareAndSwap(false, true) {
		return errors.New("hostlink: already started")
	}

	go d.run(ctx, h)
	return nil
}

func (d *Driver) run(ctx context.Context, h link.Handler) {
	h(link.Event{Kind: link.EventLayerStarted, Detail: d.cfg.Interface})

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.pollOnce(h)
		}
	}
}

// pollOnce compares the interface against the last seen lease and emits
// the edge, if any. A lease that returns after a loss restarts the layer
// first so the monitor passes through Connecting again.
func (d *Driver) pollOnce(h link.Handler) {
	if !d.associated.Load() {
		return
	}

	l, ok, err := d.lookup(d.cfg.Interface)
	if err != nil {
		d.logger.Printf("hostlink: interface lookup failed (iface=%s): %v", d.cfg.Interface, err)
		ok = false
	}

	d.mu.Lock()
	up := d.current != nil
	restart := false
	switch {
	case ok && !up:
		d.current = &l
		restart = d.dropped
		d.dropped = false
	case !ok && up:
		d.current = nil
		d.dropped = true
	}
	d.mu.Unlock()

	switch {
	case ok && !up:
		if restart {
			h(link.Event{Kind: link.EventLayerStarted, Detail: l.iface})
		}
		h(link.Event{Kind: link.EventAddressAcquired, Detail: l.iface})
	case !ok && up:
		h(link.Event{Kind: link.EventDisconnected, Detail: "address lost"})
	}
}

// Associate arms lease detection. The OS owns the actual association,
// so the credentials are only logged by SSID.
func (d *Driver) Associate(ssid, password string) error {
	d.logger.Printf("hostlink: association requested (ssid=%s iface=%s)", ssid, d.cfg.Interface)
	d.associated.Store(true)
	return nil
}

// IPInfo reports the lease seen by the last poll.
func (d *Driver) IPInfo() (link.IPInfo, error) {
	d.mu.Lock()
	cur := d.current
	d.mu.Unlock()

	if cur == nil {
		return link.IPInfo{}, errors.New("hostlink: no address acquired")
	}

	info := link.IPInfo{
		Address: cur.ip.String(),
		Netmask: net.IP(cur.mask).String(),
		Gateway: net.IPv4zero.String(),
	}
	if gw, err := d.gateway(cur.iface); err == nil {
		info.Gateway = gw.String()
	}
	return info, nil
}

// lookupLease finds an IPv4 address on iface, or on the first suitable
// interface when iface is empty.
func lookupLease(iface string) (lease, bool, error) {
	if iface != "" {
		ifi, err := net.InterfaceByName(iface)
		if err != nil {
			return lease{}, false, err
		}
		return leaseOf(*ifi)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return lease{}, false, err
	}
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		l, ok, err := leaseOf(ifi)
		if err != nil {
			continue
		}
		if ok {
			return l, true, nil
		}
	}
	return lease{}, false, nil
}

func leaseOf(ifi net.Interface) (lease, bool, error) {
	if ifi.Flags&net.FlagUp == 0 {
		return lease{}, false, nil
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return lease{}, false, err
	}
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipn.IP.To4()
		if ip4 == nil || ip4.IsLinkLocalUnicast() {
			continue
		}
		mask := ipn.Mask
		if len(mask) == net.IPv6len {
			mask = mask[12:]
		}
		return lease{iface: ifi.Name, ip: ip4, mask: mask}, true, nil
	}
	return lease{}, false, nil
}
