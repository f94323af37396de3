// Package discovery provides mDNS-based discovery of Lutron bridges.
//
// Caseta Pro bridges and RadioRA2 main repeaters advertise the "_lutron._tcp"
// service with a hostname of the form "Lutron-<serial>.local", where serial
// is a hex string. The integration protocol itself is not advertised, so
// discovered bridges always carry the integration port (23).
//
// # Usage Example
//
//	bridges, err := discovery.ScanForBridges(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, b := range bridges {
//	    fmt.Printf("Found: %s at %s\n", b.Serial, b.Addr())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Bridges must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
