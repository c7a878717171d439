package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikanbox/droplink/api"
	"github.com/mikanbox/droplink/api/notifyhub"
	"github.com/mikanbox/droplink/discovery"
	"github.com/mikanbox/droplink/manifest"
	"github.com/mikanbox/droplink/session"
	"github.com/mikanbox/droplink/tool"
	"github.com/mikanbox/droplink/types"
)

func main() {
	flags := tool.SetFlags()
	tool.InitLogger()

	appCfg, err := tool.LoadConfig(flags.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if flags.UseAlias != "" {
		appCfg.Alias = flags.UseAlias
	}
	if flags.UseControlPort > 0 {
		appCfg.ControlPort = flags.UseControlPort
	}
	if flags.UseMulticastAddr != "" {
		appCfg.MulticastAddress = flags.UseMulticastAddr
	}
	if flags.UseMulticastPort > 0 {
		appCfg.MulticastPort = flags.UseMulticastPort
	}
	if flags.SkipAnnounce {
		appCfg.Announce = false
	}
	if flags.Log != "" {
		tool.SetLogMode(flags.Log)
	} else {
		tool.SetLogMode(appCfg.LogMode)
	}

	fingerprint := tool.GenerateFingerprint()

	hub := notifyhub.New()
	manager := session.NewManager(func(m *manifest.Manifest) http.Handler {
		return api.NewShareHandler(m, hub)
	}, time.Duration(appCfg.DrainSeconds)*time.Second)

	var announcer *discovery.Announcer
	var listener *discovery.Listener
	if appCfg.Announce {
		announcer = discovery.NewAnnouncer(appCfg.MulticastAddress, appCfg.MulticastPort, appCfg.Alias, fingerprint)
		go announcer.Run()

		listener = discovery.NewListener(appCfg.MulticastAddress, appCfg.MulticastPort, fingerprint, func(peer types.PeerItem) {
			hub.Publish(types.NotifyTypePeerDiscovered, "Peer Discovered",
				fmt.Sprintf("%s at %s", peer.Alias, peer.IPAddress),
				map[string]any{
					"alias":      peer.Alias,
					"ipAddress":  peer.IPAddress,
					"primaryUrl": peer.PrimaryURL,
					"fileCount":  peer.FileCount,
				})
		})
		go func() {
			if err := listener.Run(); err != nil {
				tool.DefaultLogger.Errorf("Peer listener failed: %v", err)
			}
		}()
	}

	control := api.NewControlServer(appCfg.ControlPort, manager, hub, announcer, listener)
	go func() {
		if err := control.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tool.DefaultLogger.Fatalf("Control API startup failed: %v", err)
		}
	}()

	// Paths given on the command line are shared right away.
	if len(flags.SharePaths) > 0 {
		descriptor, err := manager.Start(flags.SharePaths)
		if err != nil {
			tool.DefaultLogger.Fatalf("Failed to share %v: %v", flags.SharePaths, err)
		}
		if announcer != nil {
			announcer.SetShare(descriptor)
		}
		tool.DefaultLogger.Infof("Sharing %d file(s) at %s", len(descriptor.Files), descriptor.PrimaryURL)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	tool.DefaultLogger.Info("Shutting down")
	if announcer != nil {
		announcer.ClearShare()
		announcer.Close()
	}
	if listener != nil {
		listener.Close()
	}
	manager.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := control.Shutdown(ctx); err != nil {
		tool.DefaultLogger.Errorf("Control API shutdown: %v", err)
	}
}
