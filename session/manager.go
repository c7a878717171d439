package session

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mikanbox/droplink/manifest"
	"github.com/mikanbox/droplink/netinfo"
	"github.com/mikanbox/droplink/tool"
	"github.com/mikanbox/droplink/types"
)

// HandlerFactory builds the HTTP handler serving one manifest. Injected so
// the manager stays independent of the api package.
type HandlerFactory func(m *manifest.Manifest) http.Handler

// Manager owns the single active share. Construct one in main and hand it
// to callers by reference; there is no package-level instance.
type Manager struct {
	mu           sync.Mutex
	active       *activeShare
	newHandler   HandlerFactory
	drainTimeout time.Duration
}

// activeShare owns the running server, its completion signal and the
// descriptor published to callers. At most one exists at a time.
type activeShare struct {
	server     *http.Server
	done       chan struct{} // closed when the serve goroutine exits
	shutdownOnce sync.Once
	descriptor *types.SessionDescriptor
}

func NewManager(factory HandlerFactory, drainTimeout time.Duration) *Manager {
	if drainTimeout <= 0 {
		drainTimeout = 10 * time.Second
	}
	return &Manager{
		newHandler:   factory,
		drainTimeout: drainTimeout,
	}
}

// Start builds a manifest from paths, binds an ephemeral port, starts the
// share server and installs it as the active share. Any previous share is
// shut down synchronously before the new one becomes visible. All expensive
// work happens before the lock is taken; a failure at any point leaves the
// current share untouched.
func (m *Manager) Start(paths []string) (*types.SessionDescriptor, error) {
	built, err := manifest.Build(paths)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return nil, &BindError{Err: err}
	}
	port := listener.Addr().(*net.TCPAddr).Port

	addresses := netinfo.ResolveAddresses(port)
	descriptor := &types.SessionDescriptor{
		Port:       port,
		Addresses:  addresses,
		PrimaryURL: netinfo.ChoosePrimary(addresses, port),
		Files:      built.Metas(),
	}

	share := &activeShare{
		server:     &http.Server{Handler: m.newHandler(built)},
		done:       make(chan struct{}),
		descriptor: descriptor,
	}
	go func() {
		defer close(share.done)
		if serveErr := share.server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			tool.DefaultLogger.Errorf("Share server exited: %v", serveErr)
		}
	}()

	m.mu.Lock()
	defer m.mu.Unlock()
	if previous := m.active; previous != nil {
		m.active = nil
		m.teardown(previous)
	}
	m.active = share

	tool.DefaultLogger.Infof("Share started on port %d (%d files, primary %s)",
		port, len(descriptor.Files), descriptor.PrimaryURL)
	return descriptor.Clone(), nil
}

// Stop shuts the active share down synchronously. When it returns, the port
// is released and no new connections are accepted. Calling it while idle is
// a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return
	}
	share := m.active
	m.active = nil
	m.teardown(share)
	tool.DefaultLogger.Infof("Share on port %d stopped", share.descriptor.Port)
}

// Snapshot returns a copy of the active share's descriptor, or nil when
// idle. It never blocks on network I/O.
func (m *Manager) Snapshot() *types.SessionDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	return m.active.descriptor.Clone()
}

// teardown signals the server and waits for the serve goroutine to finish.
// Shutdown closes the listener immediately, so no new connection can arrive
// after this is called; responses already streaming get drainTimeout to
// complete. Shutdown faults are logged, never surfaced.
func (m *Manager) teardown(share *activeShare) {
	share.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.drainTimeout)
		defer cancel()
		if err := share.server.Shutdown(ctx); err != nil {
			tool.DefaultLogger.Warnf("Share server shutdown fault: %v", err)
		}
		<-share.done
	})
}
