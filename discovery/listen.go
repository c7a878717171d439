package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/bytedance/sonic"

	"github.com/mikanbox/droplink/tool"
	"github.com/mikanbox/droplink/types"
)

const (
	peerTTL          = 300 * time.Second
	icmpProbeTimeout = 400 * time.Millisecond
)

// Listener collects share announcements from other droplink instances on
// the LAN. Peers expire from the cache when they stop announcing.
type Listener struct {
	address     string
	port        int
	fingerprint string
	onDiscover  func(types.PeerItem)

	peers *ttlworker.Cache[string, types.PeerItem]

	mu   sync.Mutex
	conn *net.UDPConn
}

// NewListener creates a listener. onDiscover is invoked once per newly seen
// peer; it may be nil.
func NewListener(address string, port int, fingerprint string, onDiscover func(types.PeerItem)) *Listener {
	return &Listener{
		address:     address,
		port:        port,
		fingerprint: fingerprint,
		onDiscover:  onDiscover,
		peers:       ttlworker.NewCache[string, types.PeerItem](peerTTL),
	}
}

// Run blocks reading multicast announcements until Close.
func (l *Listener) Run() error {
	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", l.address, l.port))
	if err != nil {
		return fmt.Errorf("failed to resolve multicast address: %v", err)
	}
	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return fmt.Errorf("failed to listen on multicast address: %v", err)
	}
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	defer conn.Close()

	_ = conn.SetReadBuffer(256 * 1024)
	buf := make([]byte, 64*1024)
	tool.DefaultLogger.Infof("Listening for peer announcements on %s", addr.String())

	for {
		n, remote, err := conn.ReadFrom(buf)
		if err != nil {
			// closed via Close, or the socket died
			return nil
		}
		l.handlePacket(buf[:n], remote)
	}
}

func (l *Listener) handlePacket(payload []byte, remote net.Addr) {
	var announcement types.PeerAnnouncement
	if err := sonic.Unmarshal(payload, &announcement); err != nil {
		tool.DefaultLogger.Debugf("Failed to parse announcement: %v", err)
		return
	}
	if announcement.Fingerprint == "" || announcement.Fingerprint == l.fingerprint {
		return
	}

	udpAddr, ok := remote.(*net.UDPAddr)
	if !ok {
		return
	}
	ip := udpAddr.IP.String()

	if !announcement.Announce {
		l.peers.Delete(announcement.Fingerprint)
		tool.DefaultLogger.Debugf("Peer %s said goodbye", announcement.Alias)
		return
	}

	known := l.peers.Get(announcement.Fingerprint)
	isNew := known.IPAddress == ""
	if isNew && !tool.QuickICMPProbe(ip, icmpProbeTimeout) {
		tool.DefaultLogger.Debugf("Ignoring unreachable peer %s at %s", announcement.Alias, ip)
		return
	}

	item := types.PeerItem{
		Alias:       announcement.Alias,
		Fingerprint: announcement.Fingerprint,
		IPAddress:   ip,
		Port:        announcement.Port,
		PrimaryURL:  announcement.PrimaryURL,
		FileCount:   announcement.FileCount,
	}
	l.peers.Set(announcement.Fingerprint, item)
	if isNew {
		tool.DefaultLogger.Infof("Discovered peer %s at %s (%d files)", item.Alias, ip, item.FileCount)
		if l.onDiscover != nil {
			l.onDiscover(item)
		}
	}
}

// Peers returns the currently known peers.
func (l *Listener) Peers() []types.PeerItem {
	items := make([]types.PeerItem, 0)
	err := l.peers.Range(func(_ string, item types.PeerItem) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil
	}
	return items
}

// Close stops the read loop.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
}
