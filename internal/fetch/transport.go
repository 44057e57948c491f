// internal/fetch/transport.go
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// Transport is the DNS/socket surface the pipeline drives.
// Calls block with no timeout of their own.
type Transport interface {
	// Resolve looks host/port up into candidate addresses.
	Resolve(ctx context.Context, host, port string) ([]netip.AddrPort, error)

	// Socket allocates an unconnected stream socket for network
	// ("tcp4" or "tcp6").
	Socket(network string) (Socket, error)
}

// Socket is one stream socket.
// Read returns 0 with a nil error at end of stream.
type Socket interface {
	Connect(addr netip.AddrPort) error
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// NetTransport resolves with a net.Resolver and allocates platform
// sockets.
type NetTransport struct {
	Resolver *net.Resolver
}

func NewNetTransport() *NetTransport {
	return &NetTransport{Resolver: net.DefaultResolver}
}

// Resolve returns IPv4 candidates first, then IPv6.
func (t *NetTransport) Resolve(ctx context.Context, host, port string) ([]netip.AddrPort, error) {
	r := t.Resolver
	if r == nil {
		r = net.DefaultResolver
	}

	p, err := lookupPort(ctx, r, port)
	if err != nil {
		return nil, err
	}

	addrs, err := r.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}
	return orderCandidates(addrs, p), nil
}

func (t *NetTransport) Socket(network string) (Socket, error) {
	return newSocket(network)
}

func lookupPort(ctx context.Context, r *net.Resolver, port string) (uint16, error) {
	if n, err := strconv.ParseUint(port, 10, 16); err == nil {
		return uint16(n), nil
	}
	n, err := r.LookupPort(ctx, "tcp", port)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 65535 {
		return 0, fmt.Errorf("port %d out of range", n)
	}
	return uint16(n), nil
}

// orderCandidates prefers IPv4, keeping resolver order within a family.
func orderCandidates(addrs []netip.Addr, port uint16) []netip.AddrPort {
	out := make([]netip.AddrPort, 0, len(addrs))
	for _, a := range addrs {
		if a.Unmap().Is4() {
			out = append(out, netip.AddrPortFrom(a.Unmap(), port))
		}
	}
	for _, a := range addrs {
		if !a.Unmap().Is4() {
			out = append(out, netip.AddrPortFrom(a, port))
		}
	}
	return out
}

func networkFor(addr netip.AddrPort) string {
	if addr.Addr().Is4() {
		return "tcp4"
	}
	return "tcp6"
}
