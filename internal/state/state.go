// Package state holds the live snapshots and the pure derivations the
// renderers compute from them.
package state

import (
	"time"

	"github.com/b0ase/ckb-s3/internal/extract"
)

// Epoch is the current epoch descriptor. Length is never zero.
type Epoch struct {
	Number uint64 `json:"number"`
	Index  uint32 `json:"index"`
	Length uint32 `json:"length"`
}

func EpochOf(f extract.EpochFields) Epoch {
	return Epoch{Number: f.Number, Index: f.Index, Length: f.Length}
}

// NodeSnapshot is the dashboard's single live record of node state.
type NodeSnapshot struct {
	Height           uint64    `json:"height"` // 0 until the first successful poll
	BlockTimestampMs uint64    `json:"block_timestamp_ms"`
	PeerCount        uint32    `json:"peers"`
	PendingTxCount   uint32    `json:"pending_tx"`
	Epoch            Epoch     `json:"epoch"`
	LastSuccess      time.Time `json:"last_success"` // zero when no poll has succeeded
	PollCount        uint32    `json:"polls"`
	Healthy          bool      `json:"healthy"`
	NodeIDSuffix     string    `json:"node_id_suffix,omitempty"`
	NodeIDFetched    bool      `json:"-"`
}

// NewNodeSnapshot returns the zero snapshot with the epoch length guard set.
func NewNodeSnapshot() *NodeSnapshot {
	return &NodeSnapshot{Epoch: Epoch{Length: extract.DefaultEpochLength}}
}

// SendState tracks an in-progress transfer on the wallet.
type SendState struct {
	Recipient   string  `json:"recipient"`
	AmountCKB   float64 `json:"amount_ckb"`
	LastTxHash  string  `json:"last_tx_hash,omitempty"`
	LastError   string  `json:"last_error,omitempty"`
	TxSucceeded bool    `json:"tx_succeeded"`
}

// WalletSnapshot is the wallet's live record. Key material is held by
// wallet.Key and never appears here.
type WalletSnapshot struct {
	Address        string    `json:"address"`
	KeyLoaded      bool      `json:"key_loaded"`
	BalanceShannon uint64    `json:"balance_shannon"`
	BalanceCKB     float64   `json:"balance_ckb"`
	BalanceOK      bool      `json:"balance_ok"`
	LastRefresh    time.Time `json:"last_refresh"`
	Send           SendState `json:"send"`
}

// ShannonPerCKB is the fixed divisor between the base unit and CKB.
const ShannonPerCKB = 100_000_000

// SetBalance records a fresh balance reading.
func (w *WalletSnapshot) SetBalance(shannon uint64, at time.Time) {
	w.BalanceShannon = shannon
	w.BalanceCKB = float64(shannon) / ShannonPerCKB
	w.BalanceOK = true
	w.LastRefresh = at
}
