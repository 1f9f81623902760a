// Package link reports whether the device has a usable network link.
package link

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/b0ase/ckb-s3/internal/logging"
)

var log = logging.For("link")

// Status is the link-layer view the RPC client and footers depend on.
type Status interface {
	Connected() bool
	LocalIP() string
}

// Host inspects the host's network interfaces. With an empty interface
// name any up, non-loopback interface carrying an IPv4 address counts.
type Host struct {
	Interface string
	SSID      string // informational; association is managed by the OS
}

func NewHost(iface, ssid string) *Host {
	return &Host{Interface: iface, SSID: ssid}
}

func (h *Host) Connected() bool {
	return h.LocalIP() != ""
}

// LocalIP returns the first IPv4 address of the selected interface, or "".
func (h *Host) LocalIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, ifc := range ifaces {
		if h.Interface != "" && ifc.Name != h.Interface {
			continue
		}
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipn, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipn.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return ""
}

// WaitConnected polls s until it reports a link, ctx ends or timeout
// elapses. It returns whether the link came up.
func WaitConnected(ctx context.Context, s Status, timeout, every time.Duration) bool {
	if s.Connected() {
		return true
	}
	if every <= 0 {
		every = 500 * time.Millisecond
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			log.Warnf("no link after %v", timeout)
			return false
		case <-ticker.C:
			if s.Connected() {
				log.WithField("ip", s.LocalIP()).Info("link up")
				return true
			}
		}
	}
}

// Static is a settable Status used by tests and by hosts that have no
// interface to inspect.
type Static struct {
	mu sync.RWMutex
	up bool
	ip string
}

func NewStatic(up bool, ip string) *Static {
	return &Static{up: up, ip: ip}
}

func (s *Static) Set(up bool, ip string) {
	s.mu.Lock()
	s.up, s.ip = up, ip
	s.mu.Unlock()
}

func (s *Static) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.up
}

func (s *Static) LocalIP() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.up {
		return ""
	}
	return s.ip
}
