package render

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/b0ase/ckb-s3/internal/logging"
	"github.com/b0ase/ckb-s3/internal/state"
	"github.com/b0ase/ckb-s3/internal/touch"
)

// Screen is one of the wallet's mutually exclusive views.
type Screen int

const (
	ScreenBoot Screen = iota
	ScreenHome
	ScreenSend
	ScreenConfirm
	ScreenReceive
	ScreenResult
)

var screenNames = [...]string{"boot", "home", "send", "confirm", "receive", "result"}

func (s Screen) String() string {
	if int(s) < len(screenNames) {
		return screenNames[s]
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// Button is a rounded, labelled hit target. Edges are inclusive.
type Button struct {
	X, Y, W, H int
	Label      string
	Color      Color
}

func (b Button) Contains(p touch.Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Wallet hit targets.
var (
	BtnSend    = Button{X: 20, Y: 278, W: 200, H: 64, Label: "SEND", Color: ColorBtnSend}
	BtnReceive = Button{X: 260, Y: 278, W: 200, H: 64, Label: "RECEIVE", Color: ColorBtnRecv}

	BtnMinus  = Button{X: 20, Y: 300, W: 120, H: 64, Label: "-10", Color: ColorBtnCancel}
	BtnPlus   = Button{X: 340, Y: 300, W: 120, H: 64, Label: "+10", Color: ColorBtnCancel}
	BtnCancel = Button{X: 20, Y: 400, W: 200, H: 64, Label: "CANCEL", Color: ColorBtnCancel}
	BtnReview = Button{X: 260, Y: 400, W: 200, H: 64, Label: "REVIEW", Color: ColorBtnSend}
	BtnSign   = Button{X: 260, Y: 400, W: 200, H: 64, Label: "SIGN & SEND", Color: ColorBtnSend}

	BtnReceiveBack = Button{X: 20, Y: 420, W: 440, H: 52, Label: "BACK", Color: ColorBtnCancel}
	BtnResultBack  = Button{X: 20, Y: 380, W: 440, H: 64, Label: "BACK TO HOME", Color: ColorBtnCancel}
)

// Send amounts move in whole steps.
const AmountStep = 10.0

// Signer completes a transfer and returns the transaction hash.
type Signer interface {
	SignAndSend(recipient string, amountCKB float64) (string, error)
}

// WalletUI dispatches between the wallet screens. Entering a screen
// repaints only that screen and touches are routed to the current one.
type WalletUI struct {
	s                Surface
	theme            Theme
	snap             *state.WalletSnapshot
	signer           Signer
	rpcURL           string
	localIP          func() string
	defaultRecipient string
	current          Screen
	log              *logrus.Entry
}

func NewWalletUI(s Surface, theme Theme, snap *state.WalletSnapshot, signer Signer, rpcURL string, localIP func() string, defaultRecipient string) *WalletUI {
	if localIP == nil {
		localIP = func() string { return "" }
	}
	return &WalletUI{
		s:                s,
		theme:            theme,
		snap:             snap,
		signer:           signer,
		rpcURL:           rpcURL,
		localIP:          localIP,
		defaultRecipient: defaultRecipient,
		current:          ScreenBoot,
		log:              logging.For("render"),
	}
}

func (u *WalletUI) Current() Screen { return u.current }

// Splash paints the boot screen.
func (u *WalletUI) Splash() {
	u.current = ScreenBoot
	w, _ := u.s.Size()
	u.s.FillScreen(u.theme.Background)
	title := "CKB WALLET"
	u.s.DrawText(centerX(u.s, 0, w, FontHero, title), 180, FontHero, u.theme.Accent, title)
	sub := "starting..."
	u.s.DrawText(centerX(u.s, 0, w, FontSmall, sub), 260, FontSmall, ColorDim, sub)
	u.s.Present()
}

// Show makes sc current and repaints it.
func (u *WalletUI) Show(sc Screen) {
	if sc != u.current {
		u.log.WithField("screen", sc).Debug("switch")
	}
	u.current = sc
	switch sc {
	case ScreenBoot:
		u.Splash()
		return
	case ScreenHome:
		u.drawHome()
	case ScreenSend:
		u.drawSend()
	case ScreenConfirm:
		u.drawConfirm()
	case ScreenReceive:
		u.drawReceive()
	case ScreenResult:
		u.drawResult()
	}
	u.s.Present()
}

// RefreshHome repaints Home after a balance change, but only if Home is
// the screen being shown.
func (u *WalletUI) RefreshHome() bool {
	if u.current != ScreenHome {
		return false
	}
	u.Show(ScreenHome)
	return true
}

// HandleTouch routes p to the current screen. It returns true when the
// touch hit a control.
func (u *WalletUI) HandleTouch(p touch.Point) bool {
	switch u.current {
	case ScreenHome:
		switch {
		case BtnSend.Contains(p):
			u.beginSend()
			u.Show(ScreenSend)
		case BtnReceive.Contains(p):
			u.Show(ScreenReceive)
		default:
			return false
		}
	case ScreenSend:
		switch {
		case BtnMinus.Contains(p):
			u.adjustAmount(-AmountStep)
		case BtnPlus.Contains(p):
			u.adjustAmount(AmountStep)
		case BtnCancel.Contains(p):
			u.Show(ScreenHome)
		case BtnReview.Contains(p):
			if u.snap.Send.AmountCKB <= 0 || u.snap.Send.Recipient == "" {
				return false
			}
			u.Show(ScreenConfirm)
		default:
			return false
		}
	case ScreenConfirm:
		switch {
		case BtnCancel.Contains(p):
			u.Show(ScreenHome)
		case BtnSign.Contains(p):
			u.submit()
			u.Show(ScreenResult)
		default:
			return false
		}
	case ScreenReceive:
		if p.Y < BtnReceiveBack.Y {
			return false
		}
		u.Show(ScreenHome)
	case ScreenResult:
		if p.Y < BtnResultBack.Y {
			return false
		}
		u.Show(ScreenHome)
	default:
		return false
	}
	return true
}

func (u *WalletUI) beginSend() {
	send := &u.snap.Send
	if send.Recipient == "" {
		send.Recipient = u.defaultRecipient
	}
	send.AmountCKB = 0
	send.LastError = ""
}

func (u *WalletUI) adjustAmount(delta float64) {
	a := u.snap.Send.AmountCKB + delta
	if a < 0 {
		a = 0
	}
	if u.snap.BalanceOK && a > u.snap.BalanceCKB {
		a = u.snap.BalanceCKB
	}
	u.snap.Send.AmountCKB = a
	u.drawAmount()
	u.s.Present()
}

func (u *WalletUI) submit() {
	send := &u.snap.Send
	send.LastTxHash, send.LastError, send.TxSucceeded = "", "", false
	if u.signer == nil {
		send.LastError = "no signer"
		return
	}
	hash, err := u.signer.SignAndSend(send.Recipient, send.AmountCKB)
	if err != nil {
		send.LastError = err.Error()
		u.log.Warnf("send: %v", err)
		return
	}
	send.LastTxHash = hash
	send.TxSucceeded = true
	u.log.WithField("tx", hash).Info("sent")
}

func (u *WalletUI) header(title string, c, fg Color) {
	w, _ := u.s.Size()
	u.s.FillRect(0, 0, w, HeaderH, c)
	u.s.DrawText(16, centerY(u.s, 0, HeaderH, FontLabel, title), FontLabel, fg, title)
}

func (u *WalletUI) button(b Button) {
	u.s.FillRoundRect(b.X, b.Y, b.W, b.H, 10, b.Color)
	u.s.DrawText(centerX(u.s, b.X, b.W, FontLabel, b.Label), centerY(u.s, b.Y, b.H, FontLabel, b.Label), FontLabel, ColorText, b.Label)
}

// chunks splits s into lines of at most n bytes, keeping at most limit lines.
func chunks(s string, n, limit int) []string {
	var out []string
	for len(s) > 0 && len(out) < limit {
		if len(s) <= n {
			out = append(out, s)
			break
		}
		out = append(out, s[:n])
		s = s[n:]
	}
	return out
}

// ShortAddress is the home screen form of an address: first 12 and last
// 6 characters.
func ShortAddress(addr string) string {
	if len(addr) <= 18 {
		return addr
	}
	return addr[:12] + "..." + addr[len(addr)-6:]
}

// BalanceText formats the balance, or a placeholder before the first reading.
func BalanceText(snap *state.WalletSnapshot) string {
	if !snap.BalanceOK {
		return "-.--"
	}
	return fmt.Sprintf("%.2f", snap.BalanceCKB)
}

func (u *WalletUI) drawHome() {
	w, _ := u.s.Size()
	u.s.FillScreen(u.theme.Background)

	u.header("CKB WALLET", u.theme.Accent, ColorText)
	dot := ColorWarn
	if u.snap.BalanceOK {
		dot = ColorOK
	}
	u.s.FillCircle(w-24, 26, 8, dot)

	u.s.FillRect(0, 52, w, 40, ColorPanel)
	addr := "no key"
	if u.snap.KeyLoaded && u.snap.Address != "" {
		addr = ShortAddress(u.snap.Address)
	}
	u.s.DrawText(16, centerY(u.s, 52, 40, FontSmall, addr), FontSmall, ColorDim, addr)

	bal := BalanceText(u.snap)
	u.s.DrawText(centerX(u.s, 0, w, FontHero, bal), centerY(u.s, 92, 128, FontHero, bal), FontHero, ColorText, bal)
	u.s.DrawText(centerX(u.s, 0, w, FontSmall, "CKB"), 226, FontSmall, ColorDim, "CKB")

	u.button(BtnSend)
	u.button(BtnReceive)

	u.s.FillRect(0, 360, w, 120, ColorPanel)
	u.s.DrawHLine(0, 360, w, ColorDivider)
	u.s.DrawText(12, 372, FontSmall, ColorDim, u.rpcURL)
	u.s.DrawText(12, 400, FontSmall, ColorDim, u.localIP())
}

func (u *WalletUI) drawSend() {
	u.s.FillScreen(u.theme.Background)
	u.header("SEND CKB", ColorBtnSend, ColorText)

	u.s.DrawText(12, 70, FontSmall, ColorDim, "To:")
	to := u.snap.Send.Recipient
	if to == "" {
		to = "(no recipient configured)"
	}
	for i, line := range chunks(to, 30, 3) {
		u.s.DrawText(12, 98+i*28, FontSmall, u.theme.Accent, line)
	}

	u.drawAmount()
	u.button(BtnMinus)
	u.button(BtnPlus)
	u.button(BtnCancel)
	u.button(BtnReview)
}

// drawAmount repaints just the amount readout between the step buttons.
func (u *WalletUI) drawAmount() {
	x, w := BtnMinus.X+BtnMinus.W, BtnPlus.X-(BtnMinus.X+BtnMinus.W)
	u.s.FillRect(x, BtnMinus.Y, w, BtnMinus.H, u.theme.Background)
	amt := fmt.Sprintf("%.2f", u.snap.Send.AmountCKB)
	u.s.DrawText(centerX(u.s, x, w, FontMedium, amt), centerY(u.s, BtnMinus.Y, BtnMinus.H, FontMedium, amt), FontMedium, ColorText, amt)
}

func (u *WalletUI) drawConfirm() {
	u.s.FillScreen(u.theme.Background)
	u.header("CONFIRM", ColorWarn, ColorBlack)

	send := u.snap.Send
	u.s.DrawText(12, 80, FontBody, ColorText, fmt.Sprintf("Send %.2f CKB", send.AmountCKB))
	u.s.DrawText(12, 120, FontSmall, ColorDim, "to:")
	for i, line := range chunks(send.Recipient, 30, 3) {
		u.s.DrawText(12, 148+i*28, FontSmall, u.theme.Accent, line)
	}
	u.s.DrawText(12, 250, FontSmall, ColorDim, "Balance: "+BalanceText(u.snap)+" CKB")

	u.button(BtnCancel)
	u.button(BtnSign)
}

func (u *WalletUI) drawReceive() {
	u.s.FillScreen(u.theme.Background)
	u.header("RECEIVE CKB", ColorBtnRecv, ColorText)

	u.s.DrawText(12, 70, FontSmall, ColorText, "Your address:")
	addr := u.snap.Address
	if !u.snap.KeyLoaded || addr == "" {
		addr = "no key"
	}
	for i, line := range chunks(addr, 30, 4) {
		u.s.DrawText(12, 98+i*28, FontSmall, u.theme.Accent, line)
	}

	// QR placeholder.
	u.s.FillRect(140, 212, 200, 200, ColorPanel)
	msg := "QR coming soon"
	u.s.DrawText(centerX(u.s, 140, 200, FontSmall, msg), centerY(u.s, 212, 200, FontSmall, msg), FontSmall, ColorDim, msg)

	u.button(BtnReceiveBack)
}

func (u *WalletUI) drawResult() {
	send := u.snap.Send
	u.s.FillScreen(u.theme.Background)
	if send.TxSucceeded {
		u.header("SENT", ColorOK, ColorText)
		u.s.DrawText(12, 84, FontSmall, ColorDim, "TX Hash:")
		for i, line := range chunks(send.LastTxHash, 34, 2) {
			u.s.DrawText(12, 114+i*28, FontSmall, ColorText, line)
		}
	} else {
		u.header("FAILED", ColorErr, ColorText)
		u.s.DrawText(12, 84, FontSmall, ColorDim, "Error:")
		for i, line := range chunks(send.LastError, 34, 6) {
			u.s.DrawText(12, 114+i*28, FontSmall, ColorErr, line)
		}
	}
	u.button(BtnResultBack)
}
