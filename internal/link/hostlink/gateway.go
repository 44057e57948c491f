// internal/link/hostlink/gateway.go
package hostlink

import (
	"net"

	"github.com/jackpal/gateway"
)

// discoverGateway asks the OS for the default IPv4 gateway.
// The default route is host-wide, so iface is ignored.
func discoverGateway(string) (net.IP, error) {
	return gateway.DiscoverGateway()
}
