package daemon

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/extract"
	"github.com/b0ase/ckb-s3/internal/poller"
	"github.com/b0ase/ckb-s3/internal/render"
	"github.com/b0ase/ckb-s3/internal/rpc"
	"github.com/b0ase/ckb-s3/internal/state"
	"github.com/b0ase/ckb-s3/internal/touch"
	"github.com/b0ase/ckb-s3/internal/wallet"
)

// WalletDaemon drives the touch wallet: balance refresh, touch dispatch,
// screen repaint.
type WalletDaemon struct {
	*base
	key      *wallet.Key
	snap     *state.WalletSnapshot
	client   *rpc.Client
	poller   *poller.WalletPoller
	ui       *render.WalletUI
	input    touch.Input
	debounce *touch.Debouncer

	mu        sync.RWMutex
	published state.WalletSnapshot
}

// NewWallet opens the preference store, loads the key and builds the
// wallet screens. A missing or invalid key is not fatal: the wallet runs
// with "no key" and never queries a balance.
func NewWallet(cfg *config.Config, opts Options) (*WalletDaemon, error) {
	b, err := newBase(cfg, "wallet", opts)
	if err != nil {
		return nil, err
	}

	key, err := wallet.Load()
	switch {
	case errors.Is(err, wallet.ErrNoKey):
		log.Warn("no wallet key stored; import one with ckbctl key import")
	case err != nil:
		log.Errorf("wallet key: %v", err)
	}

	snap := &state.WalletSnapshot{
		KeyLoaded: key != nil,
		Address:   walletAddress(cfg),
	}
	d := &WalletDaemon{
		base:     b,
		key:      key,
		snap:     snap,
		client:   rpc.NewClient(cfg.WalletRPCURL(), cfg.Wallet.Timeout, b.link),
		debounce: touch.NewDebouncer(cfg.Wallet.Debounce),
	}
	d.poller = poller.NewWalletPoller(d.client, extract.New(cfg.Node.StrictJSON), b.link, snap, cfg.Wallet.LockArgs, cfg.Wallet.BalanceInterval)
	d.ui = render.NewWalletUI(b.fb, render.ThemeFrom(cfg.Theme), snap, wallet.NewSigner(key),
		cfg.WalletRPCURL(), b.link.LocalIP, cfg.Wallet.DefaultRecipient)

	d.input = opts.Input
	if d.input == nil && d.term != nil {
		d.input = d.term
	}
	d.published = *snap
	return d, nil
}

// walletAddress is the configured address, or the lock args when no
// address was configured.
func walletAddress(cfg *config.Config) string {
	if cfg.Wallet.Address != "" {
		return cfg.Wallet.Address
	}
	return cfg.Wallet.LockArgs
}

// Start paints the splash, brings up the API and launches the loop.
func (d *WalletDaemon) Start() error {
	d.startTime = time.Now()
	d.ui.Splash()
	d.mirror()

	if err := d.startAPI(d); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"indexer":    d.client.Endpoint(),
		"key_loaded": d.snap.KeyLoaded,
		"touch":      d.input != nil,
	}).Info("wallet starting")

	d.started = true
	go d.loop()
	return nil
}

func (d *WalletDaemon) loop() {
	defer close(d.done)
	d.waitLink()
	d.poller.Refresh()
	d.ui.Show(render.ScreenHome)
	d.mirror()
	d.publish()

	for !d.stopping() {
		d.Step()
		if !d.sleep(d.cfg.Wallet.LoopInterval) {
			return
		}
	}
}

// Step runs one iteration: refresh the balance when due, then sample and
// dispatch one touch.
func (d *WalletDaemon) Step() {
	dirty := false
	if d.poller.Due() && d.poller.Refresh() {
		d.ui.RefreshHome()
		dirty = true
	}

	if d.input != nil {
		p, pressed := d.input.Read()
		if d.debounce.Accept(pressed) && d.ui.HandleTouch(p) {
			log.WithFields(logrus.Fields{"x": p.X, "y": p.Y, "screen": d.ui.Current()}).Debug("touch")
			dirty = true
		}
	}

	if dirty {
		d.mirror()
		d.publish()
	}
}

func (d *WalletDaemon) publish() {
	d.mu.Lock()
	d.published = *d.snap
	d.mu.Unlock()
}

// Screen is the wallet screen currently shown.
func (d *WalletDaemon) Screen() render.Screen { return d.ui.Current() }

// WalletSnapshot returns a copy of the last published snapshot.
func (d *WalletDaemon) WalletSnapshot() state.WalletSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.published
}

func (d *WalletDaemon) Status() interface{} { return d.WalletSnapshot() }
