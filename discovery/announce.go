package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/time/rate"

	"github.com/mikanbox/droplink/tool"
	"github.com/mikanbox/droplink/types"
)

const announceInterval = 5 * time.Second

// Announcer periodically multicasts the active share so other droplink
// instances on the LAN can surface it. It stays silent while no share is
// active and sends a goodbye message when a share is cleared.
type Announcer struct {
	address     string
	port        int
	alias       string
	fingerprint string

	limiter *rate.Limiter

	mu      sync.Mutex
	current *types.PeerAnnouncement

	quit      chan struct{}
	closeOnce sync.Once
}

func NewAnnouncer(address string, port int, alias, fingerprint string) *Announcer {
	return &Announcer{
		address:     address,
		port:        port,
		alias:       alias,
		fingerprint: fingerprint,
		// one announce per second with a small burst, whatever the callers do
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		quit:    make(chan struct{}),
	}
}

// SetShare starts announcing the given session, sending the first packet
// right away rather than waiting for the next tick.
func (a *Announcer) SetShare(descriptor *types.SessionDescriptor) {
	if descriptor == nil {
		return
	}
	announcement := &types.PeerAnnouncement{
		Alias:       a.alias,
		Fingerprint: a.fingerprint,
		Port:        descriptor.Port,
		PrimaryURL:  descriptor.PrimaryURL,
		FileCount:   len(descriptor.Files),
		Announce:    true,
	}
	a.mu.Lock()
	a.current = announcement
	a.mu.Unlock()
	a.send(announcement)
}

// ClearShare stops announcing and multicasts a single goodbye so peers can
// drop us before their cache expires.
func (a *Announcer) ClearShare() {
	a.mu.Lock()
	announcement := a.current
	a.current = nil
	a.mu.Unlock()
	if announcement != nil {
		goodbye := *announcement
		goodbye.Announce = false
		a.send(&goodbye)
	}
}

// Run announces the current share on a fixed interval until Close.
func (a *Announcer) Run() {
	ticker := time.NewTicker(announceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.quit:
			return
		case <-ticker.C:
			a.mu.Lock()
			announcement := a.current
			a.mu.Unlock()
			if announcement != nil {
				a.send(announcement)
			}
		}
	}
}

func (a *Announcer) Close() {
	a.closeOnce.Do(func() {
		close(a.quit)
	})
}

func (a *Announcer) send(message *types.PeerAnnouncement) {
	if !a.limiter.Allow() {
		return
	}
	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", a.address, a.port))
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to resolve multicast address: %v", err)
		return
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		tool.DefaultLogger.Debugf("Failed to dial multicast address: %v", err)
		return
	}
	defer conn.Close()

	payload, err := sonic.Marshal(message)
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to marshal announcement: %v", err)
		return
	}
	if _, err := conn.Write(payload); err != nil {
		tool.DefaultLogger.Debugf("Failed to send announcement: %v", err)
	}
}
