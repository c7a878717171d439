package netinfo

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/mikanbox/droplink/tool"
)

// ResolveAddresses returns every URL the share server is likely reachable
// at for the given port. Loopback URLs are always present so the result is
// never empty; interface enumeration failure only degrades to those.
func ResolveAddresses(port int) []string {
	urls := []string{
		fmt.Sprintf("http://localhost:%d", port),
		fmt.Sprintf("http://127.0.0.1:%d", port),
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		tool.DefaultLogger.Warnf("Failed to enumerate network interfaces: %v", err)
		sort.Strings(urls)
		return urls
	}

	for i := range interfaces {
		iface := &interfaces[i]
		if tool.RejectUnsupportNetworkInterface(iface) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP.IsLoopback() {
				continue
			}
			if v4 := ipnet.IP.To4(); v4 != nil {
				urls = append(urls, fmt.Sprintf("http://%s:%d", v4, port))
			} else {
				urls = append(urls, fmt.Sprintf("http://[%s]:%d", ipnet.IP, port))
			}
		}
	}

	sort.Strings(urls)
	return dedup(urls)
}

// ChoosePrimary picks the URL most likely reachable from another device on
// the same LAN: a private 192.x IPv4 first, then anything non-loopback,
// finally plain loopback.
func ChoosePrimary(addresses []string, port int) string {
	for _, url := range addresses {
		if strings.HasPrefix(url, "http://192.") {
			return url
		}
	}
	for _, url := range addresses {
		if !strings.Contains(url, "127.0.0.1") && !strings.Contains(url, "localhost") {
			return url
		}
	}
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	var prev string
	for _, s := range sorted {
		if s == prev && len(out) > 0 {
			continue
		}
		out = append(out, s)
		prev = s
	}
	return out
}
