package state

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Tier buckets a value into a display color class.
type Tier int

const (
	TierUnknown Tier = iota
	TierFresh
	TierAging
	TierStale
)

func (t Tier) String() string {
	switch t {
	case TierFresh:
		return "fresh"
	case TierAging:
		return "aging"
	case TierStale:
		return "stale"
	default:
		return "unknown"
	}
}

const (
	AgingAfter  = 20 * time.Second
	StaleAfter  = 60 * time.Second
	CoarseAfter = time.Hour
)

// NeverSyncedLabel is shown until the first successful poll.
const NeverSyncedLabel = "Last block: --"

// Staleness is the tier and label for the time since the last success.
type Staleness struct {
	Tier  Tier
	Label string
}

// StalenessAt derives the staleness of lastSuccess at now. A zero
// lastSuccess always yields the placeholder.
func StalenessAt(lastSuccess, now time.Time) Staleness {
	if lastSuccess.IsZero() {
		return Staleness{Tier: TierUnknown, Label: NeverSyncedLabel}
	}
	age := now.Sub(lastSuccess)
	if age < 0 {
		age = 0
	}

	var s Staleness
	switch {
	case age < AgingAfter:
		s.Tier = TierFresh
	case age < StaleAfter:
		s.Tier = TierAging
	default:
		s.Tier = TierStale
	}

	secs := uint64(age / time.Second)
	switch {
	case age < StaleAfter:
		s.Label = fmt.Sprintf("Last block:  %ds ago", secs)
	case age < CoarseAfter:
		s.Label = fmt.Sprintf("Last block:  %dm ago", secs/60)
	default:
		s.Label = "Last block:  >1h ago!"
	}
	return s
}

// EpochPercent is the integer percentage through the epoch, clamped to 100.
func EpochPercent(index, length uint32) uint32 {
	if length == 0 {
		return 0
	}
	if index > length {
		index = length
	}
	return uint32(uint64(index) * 100 / uint64(length))
}

// EpochFill is the filled pixel width of a progress bar pixelWidth wide.
// At least one pixel of track always stays unfilled.
func EpochFill(pixelWidth int, index, length uint32) int {
	if length == 0 || pixelWidth <= 1 {
		return 0
	}
	track := uint64(pixelWidth - 1)
	fill := track * uint64(index) / uint64(length)
	if fill > track {
		fill = track
	}
	return int(fill)
}

// PeerTier colors the peer count. The mempool count has no tier.
func PeerTier(peers uint32) Tier {
	switch {
	case peers >= 5:
		return TierFresh
	case peers > 0:
		return TierAging
	default:
		return TierStale
	}
}

// Grouped formats v with thousands separators. Values past the int64
// range are printed ungrouped.
func Grouped(v uint64) string {
	if v > math.MaxInt64 {
		return strconv.FormatUint(v, 10)
	}
	return humanize.Comma(int64(v))
}
