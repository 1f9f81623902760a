package daemon

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/extract"
	"github.com/b0ase/ckb-s3/internal/poller"
	"github.com/b0ase/ckb-s3/internal/render"
	"github.com/b0ase/ckb-s3/internal/rpc"
	"github.com/b0ase/ckb-s3/internal/state"
)

// NodeDaemon drives the node dashboard: poll, render, present, publish.
type NodeDaemon struct {
	*base
	client *rpc.Client
	poller *poller.NodePoller
	dash   *render.Dashboard

	mu        sync.RWMutex
	published state.NodeSnapshot
}

// NewNode opens the preference store and builds the dashboard pipeline.
func NewNode(cfg *config.Config, opts Options) (*NodeDaemon, error) {
	b, err := newBase(cfg, "node", opts)
	if err != nil {
		return nil, err
	}
	snap := state.NewNodeSnapshot()
	d := &NodeDaemon{
		base:      b,
		client:    rpc.NewClient(cfg.Node.RPCURL, cfg.Node.Timeout, b.link),
		published: *snap,
	}
	d.poller = poller.NewNodePoller(d.client, extract.New(cfg.Node.StrictJSON), snap)
	d.dash = render.NewDashboard(b.fb, render.ThemeFrom(cfg.Theme), hostOf(cfg.Node.RPCURL), b.link.LocalIP)
	return d, nil
}

// Start paints the splash, brings up the API and launches the loop.
func (d *NodeDaemon) Start() error {
	d.startTime = time.Now()
	d.dash.Splash()
	d.mirror()

	if err := d.startAPI(d); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"node":     d.client.Endpoint(),
		"interval": d.cfg.Dashboard.PollInterval,
		"strict":   d.cfg.Node.StrictJSON,
	}).Info("node dashboard starting")

	d.started = true
	go d.loop()
	return nil
}

func (d *NodeDaemon) loop() {
	defer close(d.done)
	d.waitLink()
	for !d.stopping() {
		d.Step()
		if !d.sleep(d.cfg.Dashboard.PollInterval) {
			return
		}
	}
}

// Step runs one iteration: tick, render, mirror, publish.
func (d *NodeDaemon) Step() {
	d.poller.Tick()
	snap := d.poller.Snapshot()
	d.dash.Render(snap)
	d.mirror()

	d.mu.Lock()
	d.published = *snap
	d.mu.Unlock()
}

// NodeSnapshot returns a copy of the last published snapshot.
func (d *NodeDaemon) NodeSnapshot() state.NodeSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.published
}

func (d *NodeDaemon) NodeEndpoint() string { return d.client.Endpoint() }

func (d *NodeDaemon) Status() interface{} { return d.NodeSnapshot() }
