// Package poller refreshes the live snapshots from the node's RPC endpoint.
package poller

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/b0ase/ckb-s3/internal/extract"
	"github.com/b0ase/ckb-s3/internal/logging"
	"github.com/b0ase/ckb-s3/internal/rpc"
	"github.com/b0ase/ckb-s3/internal/state"
)

// Caller is the RPC surface the pollers need.
type Caller interface {
	Call(body string) (string, error)
}

// NodePoller refreshes a NodeSnapshot once per Tick. It is the only
// writer of the snapshot and must be driven from a single goroutine.
type NodePoller struct {
	rpc    Caller
	fields extract.Fields
	snap   *state.NodeSnapshot
	now    func() time.Time
	log    *logrus.Entry
}

func NewNodePoller(c Caller, fields extract.Fields, snap *state.NodeSnapshot) *NodePoller {
	if fields == nil {
		fields = extract.Scan{}
	}
	return &NodePoller{
		rpc:    c,
		fields: fields,
		snap:   snap,
		now:    time.Now,
		log:    logging.For("poller"),
	}
}

// Snapshot returns the snapshot this poller writes.
func (p *NodePoller) Snapshot() *state.NodeSnapshot { return p.snap }

// Tick runs one poll. A failed tip header fetch leaves every field except
// the counters untouched; peers and mempool are best effort.
func (p *NodePoller) Tick() {
	s := p.snap
	s.PollCount++

	body, err := p.rpc.Call(rpc.TipHeaderRequest)
	height := uint64(0)
	if err == nil {
		height = p.fields.Hex(body, "number")
	}
	if height == 0 {
		s.Healthy = false
		if err != nil {
			p.log.WithField("poll", s.PollCount).Warnf("tip header: %v", err)
		} else {
			p.log.WithField("poll", s.PollCount).Warn("tip header: no block number in response")
		}
		return
	}

	s.Height = height
	s.BlockTimestampMs = p.fields.Hex(body, "timestamp")
	s.Epoch = state.EpochOf(extract.EpochFrom(p.fields, body))

	if body, err := p.rpc.Call(rpc.PeersRequest); err == nil {
		s.PeerCount = p.fields.ArrayLen(body, "result")
	} else {
		p.log.Debugf("peers: %v", err)
	}
	if body, err := p.rpc.Call(rpc.TxPoolRequest); err == nil {
		s.PendingTxCount = p.fields.ArrayLen(body, "pending")
	} else {
		p.log.Debugf("tx pool: %v", err)
	}

	if !s.NodeIDFetched {
		s.NodeIDFetched = true
		if body, err := p.rpc.Call(rpc.LocalNodeInfoRequest); err == nil {
			s.NodeIDSuffix = extract.NodeIDSuffix(p.fields.Quoted(body, "node_id"))
		} else {
			p.log.Debugf("local node info: %v", err)
		}
	}

	s.LastSuccess = p.now()
	s.Healthy = true

	p.log.WithFields(logrus.Fields{
		"height":       s.Height,
		"peers":        s.PeerCount,
		"pool":         s.PendingTxCount,
		"epoch":        s.Epoch.Number,
		"epoch_index":  s.Epoch.Index,
		"epoch_length": s.Epoch.Length,
	}).Info("poll ok")
}
