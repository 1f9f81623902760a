package render

import (
	"fmt"
	"time"

	"github.com/b0ase/ckb-s3/internal/state"
)

// Horizontal bands of the 480x480 dashboard.
const (
	HeaderY, HeaderH = 0, 52
	LabelY, LabelH   = 52, 24
	HeightY, HeightH = 76, 80
	SinceY, SinceH   = 156, 44
	StatsY, StatsH   = 200, 72
	EpochY, EpochH   = 272, 79
	FooterY, FooterH = 367, 113

	EpochBarX, EpochBarH = 20, 36
	EpochBarY            = EpochY + 40
	EpochBarRadius       = 6
)

// Section names one redrawable region of the dashboard.
type Section string

const (
	SectionChrome Section = "chrome"
	SectionLabel  Section = "label"
	SectionHeader Section = "header"
	SectionHeight Section = "height"
	SectionSince  Section = "since"
	SectionStats  Section = "stats"
	SectionEpoch  Section = "epoch"
	SectionFooter Section = "footer"
)

// Dashboard renders a NodeSnapshot. It starts cold; the first render of
// a snapshot with a successful poll repaints the whole panel once, after
// which only the value-bearing sections are redrawn.
type Dashboard struct {
	s        Surface
	theme    Theme
	nodeHost string
	localIP  func() string
	now      func() time.Time
	warm     bool
}

// NewDashboard builds a dashboard. nodeHost is shown in the footer and
// localIP is queried on every render.
func NewDashboard(s Surface, theme Theme, nodeHost string, localIP func() string) *Dashboard {
	if localIP == nil {
		localIP = func() string { return "" }
	}
	return &Dashboard{s: s, theme: theme, nodeHost: nodeHost, localIP: localIP, now: time.Now}
}

// Warm reports whether the full repaint has happened.
func (d *Dashboard) Warm() bool { return d.warm }

func (d *Dashboard) Splash() {
	w, _ := d.s.Size()
	d.s.FillScreen(d.theme.Background)
	title := "CKB NODE"
	d.s.DrawText(centerX(d.s, 0, w, FontHero, title), 180, FontHero, d.theme.Accent, title)
	sub := "connecting..."
	d.s.DrawText(centerX(d.s, 0, w, FontSmall, sub), 250, FontSmall, ColorDim, sub)
	d.s.Present()
}

// Render draws snap and presents the frame. It returns the sections drawn,
// in order.
func (d *Dashboard) Render(snap *state.NodeSnapshot) []Section {
	var drawn []Section
	if !d.warm {
		if snap.LastSuccess.IsZero() {
			d.drawLabel()
			drawn = append(drawn, SectionLabel)
		} else {
			d.drawChrome()
			d.warm = true
			drawn = append(drawn, SectionChrome)
		}
	}

	d.drawHeader(snap.Healthy)
	d.drawHeight(snap.Height)
	d.drawSince(snap.LastSuccess)
	d.drawStats(snap.PeerCount, snap.PendingTxCount)
	d.drawEpoch(snap.Epoch)
	d.drawFooter(snap)
	d.s.Present()

	return append(drawn, SectionHeader, SectionHeight, SectionSince, SectionStats, SectionEpoch, SectionFooter)
}

func (d *Dashboard) band(y, h int, c Color) {
	w, _ := d.s.Size()
	d.s.FillRect(0, y, w, h, c)
}

// drawChrome clears every band, including the gaps no section owns.
func (d *Dashboard) drawChrome() {
	bg := d.theme.Background
	d.s.FillScreen(bg)
	d.band(HeaderY, HeaderH, d.theme.Accent)
	d.band(SinceY, SinceH, ColorPanel)
	d.band(EpochY, EpochH, ColorPanel)
	d.drawLabel()
}

func (d *Dashboard) drawLabel() {
	w, _ := d.s.Size()
	d.band(LabelY, LabelH, d.theme.Background)
	lbl := "block height"
	d.s.DrawText(centerX(d.s, 0, w, FontSmall, lbl), centerY(d.s, LabelY, LabelH, FontSmall, lbl), FontSmall, ColorDim, lbl)
}

func (d *Dashboard) drawHeader(ok bool) {
	w, _ := d.s.Size()
	fill := d.theme.Accent
	if !ok {
		fill = ColorErr
	}
	d.band(HeaderY, HeaderH, fill)
	title := "CKB NODE"
	d.s.DrawText(14, centerY(d.s, HeaderY, HeaderH, FontLabel, title), FontLabel, ColorBlack, title)

	dot := d.theme.Background
	if ok {
		dot = ColorOK
	}
	d.s.FillCircle(w-28, HeaderH/2, 11, ColorBlack)
	d.s.FillCircle(w-28, HeaderH/2, 8, dot)
}

func (d *Dashboard) drawHeight(h uint64) {
	w, _ := d.s.Size()
	d.band(HeightY, HeightH, d.theme.Background)
	text := "--"
	if h > 0 {
		text = state.Grouped(h)
	}
	d.s.DrawText(centerX(d.s, 0, w, FontHero, text), centerY(d.s, HeightY, HeightH, FontHero, text), FontHero, d.theme.Accent, text)
}

func (d *Dashboard) drawSince(lastSuccess time.Time) {
	w, _ := d.s.Size()
	d.band(SinceY, SinceH, ColorPanel)
	d.s.DrawHLine(0, SinceY, w, ColorDivider)
	d.s.DrawHLine(0, SinceY+SinceH-1, w, ColorDivider)

	st := state.StalenessAt(lastSuccess, d.now())
	d.s.DrawText(centerX(d.s, 0, w, FontSmall, st.Label), centerY(d.s, SinceY, SinceH, FontSmall, st.Label), FontSmall, TierColor(st.Tier), st.Label)
}

func (d *Dashboard) drawStats(peers, pending uint32) {
	w, _ := d.s.Size()
	d.band(StatsY, StatsH, d.theme.Background)
	d.s.DrawVLine(w/2, StatsY+8, StatsH-16, ColorDivider)

	d.s.DrawText(20, StatsY+8, FontSmall, ColorDim, "Peers")
	d.s.DrawText(20, StatsY+30, FontMedium, TierColor(state.PeerTier(peers)), fmt.Sprintf("%d", peers))

	d.s.DrawText(w/2+20, StatsY+8, FontSmall, ColorDim, "Mempool")
	d.s.DrawText(w/2+20, StatsY+30, FontMedium, ColorText, fmt.Sprintf("%d TX", pending))
}

func (d *Dashboard) drawEpoch(e state.Epoch) {
	w, _ := d.s.Size()
	d.band(EpochY, EpochH, ColorPanel)
	d.s.DrawHLine(0, EpochY, w, ColorDivider)

	x := 20 + d.s.DrawText(20, EpochY+10, FontSmall, ColorDim, "Epoch")
	d.s.DrawText(x, EpochY+4, FontMedium, ColorText, " "+state.Grouped(e.Number))

	pct := fmt.Sprintf("%d%%", state.EpochPercent(e.Index, e.Length))
	pw, _ := d.s.TextBounds(FontMedium, pct)
	d.s.DrawText(w-20-pw, EpochY+4, FontMedium, ColorText, pct)

	barW := w - 2*EpochBarX
	d.s.FillRoundRect(EpochBarX, EpochBarY, barW, EpochBarH, EpochBarRadius, ColorDivider)
	fill := state.EpochFill(barW, e.Index, e.Length)
	if fill > 0 {
		d.s.FillRect(EpochBarX, EpochBarY, fill, EpochBarH, d.theme.Accent)
	}
	// The left cap is only drawn once the fill is wider than it.
	if fill >= 2*EpochBarRadius {
		d.s.FillCircle(EpochBarX+EpochBarRadius, EpochBarY+EpochBarH/2, EpochBarRadius, d.theme.Accent)
	}
}

// footerLines are the y offsets of the four footer rows.
var footerLines = [4]int{FooterY + 10, FooterY + 34, FooterY + 59, FooterY + 84}

func (d *Dashboard) drawFooter(snap *state.NodeSnapshot) {
	w, _ := d.s.Size()
	d.band(FooterY, FooterH, d.theme.Background)
	d.s.DrawHLine(0, FooterY, w, ColorDivider)

	row := func(y int, label, value string, vc Color) {
		x := 8 + d.s.DrawText(8, y, FontSmall, ColorDim, label)
		d.s.DrawText(x, y, FontSmall, vc, " "+value)
	}
	row(footerLines[0], "node:", d.nodeHost, ColorText)
	row(footerLines[1], "polls:", fmt.Sprintf("%d", snap.PollCount), ColorText)
	row(footerLines[2], "ip:", d.localIP(), ColorText)
	if snap.NodeIDSuffix != "" {
		row(footerLines[3], "id:", snap.NodeIDSuffix, ColorDim)
	}
}
