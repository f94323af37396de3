package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Bridge represents a discovered Lutron bridge or main repeater.
type Bridge struct {
	// Serial is the hex serial from the hostname (e.g., "0123ABCD")
	Serial string

	// Hostname is the mDNS hostname (e.g., "Lutron-0123abcd.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 if the bridge has none
	IP string

	// Port is the integration (telnet) port the client connects to
	Port int

	// AdvertisedPort is the port carried in the mDNS record. Caseta
	// bridges advertise their LEAP port here, not the integration port.
	AdvertisedPort int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	return fmt.Sprintf("Lutron Bridge %s (%s) at %s", b.Serial, b.Hostname, b.Addr())
}

// Addr returns the integration endpoint as host:port.
func (b *Bridge) Addr() string {
	return net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
