package poller

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/b0ase/ckb-s3/internal/extract"
	"github.com/b0ase/ckb-s3/internal/link"
	"github.com/b0ase/ckb-s3/internal/logging"
	"github.com/b0ase/ckb-s3/internal/rpc"
	"github.com/b0ase/ckb-s3/internal/state"
)

// WalletPoller refreshes the wallet balance from the indexer.
type WalletPoller struct {
	rpc      Caller
	fields   extract.Fields
	link     link.Status
	snap     *state.WalletSnapshot
	lockArgs string
	interval time.Duration
	last     time.Time
	now      func() time.Time
	log      *logrus.Entry
}

func NewWalletPoller(c Caller, fields extract.Fields, ls link.Status, snap *state.WalletSnapshot, lockArgs string, interval time.Duration) *WalletPoller {
	if fields == nil {
		fields = extract.Scan{}
	}
	return &WalletPoller{
		rpc:      c,
		fields:   fields,
		link:     ls,
		snap:     snap,
		lockArgs: lockArgs,
		interval: interval,
		now:      time.Now,
		log:      logging.For("poller"),
	}
}

// Due reports whether the balance refresh interval has elapsed since the
// last attempt. The first call is always due.
func (p *WalletPoller) Due() bool {
	return p.last.IsZero() || p.now().Sub(p.last) >= p.interval
}

// Refresh queries the balance. It returns true when the snapshot changed.
// Without a link or a loaded key nothing is requested.
func (p *WalletPoller) Refresh() bool {
	p.last = p.now()
	if p.link != nil && !p.link.Connected() {
		return false
	}
	if !p.snap.KeyLoaded || p.lockArgs == "" {
		return false
	}

	body, err := p.rpc.Call(rpc.CellsCapacityRequest(p.lockArgs))
	if err != nil {
		p.log.Warnf("balance: %v", err)
		return false
	}
	if !p.hasCapacity(body) {
		p.log.Warn("balance: no capacity in response")
		return false
	}

	p.snap.SetBalance(p.fields.Hex(body, "capacity"), p.last)
	p.log.WithField("ckb", p.snap.BalanceCKB).Info("balance updated")
	return true
}

// hasCapacity distinguishes a zero balance from a missing field, which
// the never-fail decoders cannot.
func (p *WalletPoller) hasCapacity(body string) bool {
	return strings.HasPrefix(p.fields.Quoted(body, "capacity"), "0x")
}
