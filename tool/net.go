package tool

import (
	"net"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// RejectUnsupportNetworkInterface reports whether an interface should be
// ignored when computing reachable addresses (down, loopback, tun/vpn).
func RejectUnsupportNetworkInterface(iface *net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return true
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return true
	}
	if iface.Flags&net.FlagPointToPoint != 0 {
		return true // utun / tun / vpn
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return true
	}
	return len(addrs) == 0
}

// QuickICMPProbe sends a single unprivileged ping and reports whether the
// host answered within the timeout.
func QuickICMPProbe(targetIP string, timeout time.Duration) bool {
	pinger, err := probing.NewPinger(targetIP)
	if err != nil {
		return false
	}
	pinger.SetPrivileged(false)
	pinger.Count = 1
	pinger.Timeout = timeout
	if err := pinger.Run(); err != nil {
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}
