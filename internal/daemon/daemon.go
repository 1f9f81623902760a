// Package daemon runs the single cooperative control loop of each panel.
package daemon

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/db"
	"github.com/b0ase/ckb-s3/internal/link"
	"github.com/b0ase/ckb-s3/internal/logging"
	"github.com/b0ase/ckb-s3/internal/server"
	"github.com/b0ase/ckb-s3/internal/surface"
	"github.com/b0ase/ckb-s3/internal/touch"
)

var log = logging.For("daemon")

// Options replaces host resources. Zero values select the real ones.
type Options struct {
	Link   link.Status  // default: link.NewHost from the link config
	Screen tcell.Screen // terminal panel; default: the controlling terminal when display.terminal is set
	Input  touch.Input  // wallet touch source; default: the terminal panel
}

// base holds what both daemons share: the preference store, the panel,
// the link and the diagnostic API.
type base struct {
	cfg       *config.Config
	device    string
	startTime time.Time
	link      link.Status
	fb        *surface.Framebuffer
	term      *surface.Terminal
	httpSrv   *server.Server

	restoreLog func()

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  bool
}

func newBase(cfg *config.Config, device string, opts Options) (*base, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}
	if err := db.Open(cfg.DBPath()); err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	prefs, err := db.GetPrefs(config.PrefsNamespace)
	if err != nil {
		log.Warnf("read preferences: %v (using config file values)", err)
		prefs = nil
	}
	if err := cfg.OverlayPrefs(prefs); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.Provisioned {
		log.WithField("url", cfg.Node.RPCURL).Info("applied provisioned preferences")
	}

	b := &base{
		cfg:    cfg,
		device: device,
		link:   opts.Link,
		fb:     surface.NewFramebuffer(cfg.Display.Width, cfg.Display.Height),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	if b.link == nil {
		b.link = link.NewHost(cfg.Link.Interface, cfg.Link.SSID)
	}

	if opts.Screen != nil || cfg.Display.Terminal {
		// The panel owns the terminal; log lines would land on top of it.
		logPath := filepath.Join(cfg.DataDir, "ckb"+device+"d.log")
		if b.restoreLog, err = logging.ToFile(logPath); err != nil {
			db.Close()
			return nil, err
		}
		if opts.Screen != nil {
			b.term, err = surface.NewTerminal(opts.Screen, b.fb)
		} else {
			b.term, err = surface.OpenTerminal(b.fb)
		}
		if err != nil {
			b.restoreLog()
			db.Close()
			return nil, fmt.Errorf("terminal panel: %w", err)
		}
		log.WithField("path", logPath).Info("logging to file while the terminal panel is active")
	}
	return b, nil
}

// startAPI brings up the diagnostic HTTP server when enabled.
func (b *base) startAPI(info server.DaemonInfo) error {
	if !b.cfg.API.Enabled {
		return nil
	}
	b.httpSrv = server.New(b.cfg.API.Bind, b.cfg.API.Port, info, b.fb)
	if _, err := b.httpSrv.Start(); err != nil {
		b.httpSrv = nil
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// waitLink blocks for the link up to the configured timeout or until Stop.
func (b *base) waitLink() bool {
	ctx, cancel := contextUntil(b.stopCh)
	defer cancel()
	return link.WaitConnected(ctx, b.link, b.cfg.Link.ConnectTimeout, 500*time.Millisecond)
}

// mirror copies the presented frame to the terminal panel, if any.
func (b *base) mirror() {
	if b.term != nil {
		b.term.Refresh()
	}
}

// sleep waits d or until Stop. It returns false once stopping.
func (b *base) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-b.stopCh:
		return false
	case <-t.C:
		return true
	}
}

func (b *base) stopping() bool {
	select {
	case <-b.stopCh:
		return true
	default:
		return false
	}
}

// Quit is closed when the terminal panel asks to exit. It is nil without
// a terminal.
func (b *base) Quit() <-chan struct{} {
	if b.term == nil {
		return nil
	}
	return b.term.Quit()
}

// Frames exposes the panel framebuffer.
func (b *base) Frames() *surface.Framebuffer { return b.fb }

func (b *base) Device() string        { return b.device }
func (b *base) Uptime() time.Duration { return time.Since(b.startTime) }

// Stop ends the loop after its current iteration and releases resources.
func (b *base) Stop() {
	b.stopOnce.Do(func() {
		log.WithField("device", b.device).Info("shutting down")
		close(b.stopCh)
		if b.started {
			<-b.done
		}
		if b.httpSrv != nil {
			b.httpSrv.Stop()
		}
		if b.term != nil {
			b.term.Close()
		}
		db.Close()
		if b.restoreLog != nil {
			b.restoreLog()
		}
		log.WithField("device", b.device).Info("shutdown complete")
	})
}

// hostOf strips the scheme and path from an endpoint URL for display.
func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}
