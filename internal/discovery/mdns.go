package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
	"github.com/muurk/lutronctl/internal/protocol"
)

const (
	// ServiceType is the mDNS service type Lutron bridges advertise
	ServiceType = "_lutron._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 5 * time.Second
)

// serialPattern matches Lutron bridge hostnames (e.g., "Lutron-0123abcd.local")
var serialPattern = regexp.MustCompile(`^Lutron-([0-9A-Fa-f]+)\.local\.?$`)

// Scanner handles mDNS bridge discovery
type Scanner struct {
	// Timeout is the maximum time to wait for bridges to answer
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForBridges discovers Lutron bridges on the local network until the
// scanner timeout elapses or ctx is cancelled.
func (s *Scanner) ScanForBridges(ctx context.Context) ([]*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu      sync.Mutex
		seen    = make(map[string]bool)
		bridges = make([]*Bridge, 0)
	)
	entries := make(chan *zeroconf.ServiceEntry)

	go func() {
		for entry := range entries {
			bridge := s.parseServiceEntry(entry)
			if bridge == nil {
				continue
			}
			mu.Lock()
			if !seen[bridge.Serial] {
				seen[bridge.Serial] = true
				bridges = append(bridges, bridge)
				logging.Debug("Discovered bridge",
					zap.String("serial", bridge.Serial),
					zap.String("addr", bridge.Addr()))
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Bridge(nil), bridges...), nil
}

// WaitForBridge waits for the bridge with the given serial.
// Serial comparison is case-insensitive.
func (s *Scanner) WaitForBridge(ctx context.Context, serial string) (*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Bridge, 1)

	go func() {
		for entry := range entries {
			bridge := s.parseServiceEntry(entry)
			if bridge != nil && strings.EqualFold(bridge.Serial, serial) {
				select {
				case found <- bridge:
				default:
				}
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case bridge := <-found:
		return bridge, nil
	case <-ctx.Done():
		select {
		case bridge := <-found:
			return bridge, nil
		default:
		}
		return nil, fmt.Errorf("bridge with serial %s not found within timeout", serial)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Bridge
// Returns nil if the entry is not a Lutron bridge
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Bridge {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := serialPattern.FindStringSubmatch(hostname)
	if len(matches) < 2 {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Bridge{
		Serial:         strings.ToUpper(matches[1]),
		Hostname:       hostname,
		IP:             ip,
		Port:           protocol.DefaultPort,
		AdvertisedPort: entry.Port,
		Metadata:       metadata,
		DiscoveredAt:   time.Now(),
	}
}

// ScanForBridges is a convenience function to scan with a custom timeout
func ScanForBridges(ctx context.Context, timeout time.Duration) ([]*Bridge, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForBridges(ctx)
}
