// internal/fetch/socket_unix.go

//go:build unix

package fetch

import (
	"errors"
	"fmt"
	"net/netip"
	"sync"

	"golang.org/x/sys/unix"
)

var errSocketClosed = errors.New("fetch: socket closed")

// sysSocket is a raw blocking BSD stream socket.
type sysSocket struct {
	mu     sync.Mutex
	fd     int
	closed bool
}

func newSocket(network string) (Socket, error) {
	domain := unix.AF_INET
	switch network {
	case "tcp4":
	case "tcp6":
		domain = unix.AF_INET6
	default:
		return nil, fmt.Errorf("fetch: unsupported network %q", network)
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(fd)

	return &sysSocket{fd: fd}, nil
}

func (s *sysSocket) Connect(addr netip.AddrPort) error {
	var sa unix.Sockaddr
	if addr.Addr().Is4() {
		sa = &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.Addr().As4()}
	} else {
		sa = &unix.SockaddrInet6{Port: int(addr.Port()), Addr: addr.Addr().As16()}
	}
	return unix.Connect(s.fd, sa)
}

func (s *sysSocket) Write(b []byte) (int, error) {
	for {
		n, err := unix.Write(s.fd, b)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

func (s *sysSocket) Read(b []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, b)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

func (s *sysSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSocketClosed
	}
	s.closed = true
	return unix.Close(s.fd)
}
