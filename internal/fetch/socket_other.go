// internal/fetch/socket_other.go

//go:build !unix

package fetch

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"sync"
)

var errSocketClosed = errors.New("fetch: socket closed")

// netSocket emulates socket/connect on platforms without raw sockets.
// Allocation only records the family; the dial happens in Connect.
type netSocket struct {
	network string

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

func newSocket(network string) (Socket, error) {
	switch network {
	case "tcp4", "tcp6":
	default:
		return nil, fmt.Errorf("fetch: unsupported network %q", network)
	}
	return &netSocket{network: network}, nil
}

func (s *netSocket) Connect(addr netip.AddrPort) error {
	conn, err := net.Dial(s.network, addr.String())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	return nil
}

func (s *netSocket) Write(b []byte) (int, error) {
	if s.conn == nil {
		return 0, errors.New("fetch: socket not connected")
	}
	return s.conn.Write(b)
}

func (s *netSocket) Read(b []byte) (int, error) {
	if s.conn == nil {
		return 0, errors.New("fetch: socket not connected")
	}
	n, err := s.conn.Read(b)
	if errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

func (s *netSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSocketClosed
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
