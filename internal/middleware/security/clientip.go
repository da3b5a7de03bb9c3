package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller address. Forwarding headers are honoured
// only when the direct peer is a trusted proxy.
type ClientIP struct {
	trusted []*net.IPNet
}

// NewClientIP trusts loopback and the private ranges.
func NewClientIP() *ClientIP {
	c := &ClientIP{}
	for _, cidr := range []string{"127.0.0.0/8", "::1/128", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"} {
		if err := c.AddTrustedProxy(cidr); err != nil {
			panic(err)
		}
	}
	return c
}

// AddTrustedProxy adds a trusted proxy network
func (c *ClientIP) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	c.trusted = append(c.trusted, network)
	return nil
}

// Extract returns the client address for r.
func (c *ClientIP) Extract(r *http.Request) string {
	direct, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		direct = r.RemoteAddr
	}
	ip := net.ParseIP(direct)
	if ip == nil || !c.isTrusted(ip) {
		return direct
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return direct
}

func (c *ClientIP) isTrusted(ip net.IP) bool {
	for _, network := range c.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
