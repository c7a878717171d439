package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mikanbox/droplink/api/middlewares"
	"github.com/mikanbox/droplink/api/notifyhub"
	"github.com/mikanbox/droplink/discovery"
	"github.com/mikanbox/droplink/manifest"
	"github.com/mikanbox/droplink/session"
	"github.com/mikanbox/droplink/tool"
	"github.com/mikanbox/droplink/types"
)

// ControlServer is the local-only HTTP surface the GUI talks to. It owns no
// share state itself; everything goes through the injected session manager.
type ControlServer struct {
	port      int
	manager   *session.Manager
	hub       *notifyhub.Hub
	announcer *discovery.Announcer // nil when announcing is disabled
	peers     *discovery.Listener  // nil when discovery is disabled

	mu     sync.Mutex
	server *http.Server
}

func NewControlServer(port int, manager *session.Manager, hub *notifyhub.Hub,
	announcer *discovery.Announcer, peers *discovery.Listener) *ControlServer {
	return &ControlServer{
		port:      port,
		manager:   manager,
		hub:       hub,
		announcer: announcer,
		peers:     peers,
	}
}

// ShareRequest is the body of POST /api/self/v1/share.
type ShareRequest struct {
	Paths []string `json:"paths"`
}

func (s *ControlServer) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(gin.Recovery())

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.POST("/share", s.handleShareStart)     // start or replace the active share
		self.DELETE("/share", s.handleShareStop)    // stop the active share (idempotent)
		self.GET("/share", s.handleShareSnapshot)   // current session descriptor
		self.GET("/addresses", s.handleAddresses)   // candidate URLs of the active share
		self.GET("/create-qr-code", s.handleQRCode) // QR code PNG (same params as api.qrserver.com)
		self.GET("/peers", s.handlePeers)           // discovered droplink peers
		self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
	}
	return engine
}

// Start starts the control API server and blocks until it exits.
func (s *ControlServer) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: engine,
	}
	server := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting control API on http://127.0.0.1:%d", s.port)
	return server.ListenAndServe()
}

// Shutdown stops the control API server.
func (s *ControlServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *ControlServer) handleShareStart(c *gin.Context) {
	var request ShareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}

	descriptor, err := s.manager.Start(request.Paths)
	if err != nil {
		c.JSON(startErrorStatus(err), tool.FastReturnError(err.Error()))
		return
	}

	if s.announcer != nil {
		s.announcer.SetShare(descriptor)
	}
	s.hub.Publish(types.NotifyTypeShareStarted, "Share Started",
		fmt.Sprintf("Sharing %d file(s) at %s", len(descriptor.Files), descriptor.PrimaryURL),
		map[string]any{
			"port":       descriptor.Port,
			"primaryUrl": descriptor.PrimaryURL,
			"fileCount":  len(descriptor.Files),
		})

	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(descriptor))
}

func (s *ControlServer) handleShareStop(c *gin.Context) {
	s.manager.Stop()
	if s.announcer != nil {
		s.announcer.ClearShare()
	}
	s.hub.Publish(types.NotifyTypeShareStopped, "Share Stopped", "File sharing stopped", nil)
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

func (s *ControlServer) handleShareSnapshot(c *gin.Context) {
	descriptor := s.manager.Snapshot()
	if descriptor == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(descriptor))
}

func (s *ControlServer) handleAddresses(c *gin.Context) {
	descriptor := s.manager.Snapshot()
	if descriptor == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"addresses":  descriptor.Addresses,
		"primaryUrl": descriptor.PrimaryURL,
	}))
}

func (s *ControlServer) handlePeers(c *gin.Context) {
	if s.peers == nil {
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData([]types.PeerItem{}))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(s.peers.Peers()))
}

// startErrorStatus maps the start error taxonomy onto HTTP statuses for the
// GUI: selection problems are the caller's fault, bind failures are ours.
func startErrorStatus(err error) int {
	var bindErr *session.BindError
	if errors.As(err, &bindErr) {
		return http.StatusInternalServerError
	}
	if errors.Is(err, manifest.ErrInvalidSelection) || errors.Is(err, manifest.ErrEmptySelection) {
		return http.StatusBadRequest
	}
	var fsErr *manifest.FileSystemError
	if errors.As(err, &fsErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
