package render

import (
	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/state"
)

// Fixed palette.
const (
	ColorBlack     Color = 0x0000
	ColorPanel     Color = 0x10A3
	ColorOK        Color = 0x2FC6
	ColorWarn      Color = 0xFE60
	ColorErr       Color = 0xF800
	ColorText      Color = 0xFFFF
	ColorDim       Color = 0x8C51
	ColorDivider   Color = 0x2965
	ColorBtnSend   Color = 0xFD00
	ColorBtnRecv   Color = 0x2FC6
	ColorBtnCancel Color = 0x4228
)

// Theme is the palette with the two provisionable colors resolved.
type Theme struct {
	Accent     Color
	Background Color
}

func DefaultTheme() Theme {
	return ThemeFrom(config.DefaultConfig().Theme)
}

func ThemeFrom(t config.ThemeConfig) Theme {
	return Theme{
		Accent:     Color(t.Accent.RGB565()),
		Background: Color(t.Background.RGB565()),
	}
}

// TierColor maps a staleness or peer tier to its display color.
func TierColor(t state.Tier) Color {
	switch t {
	case state.TierFresh:
		return ColorOK
	case state.TierAging:
		return ColorWarn
	case state.TierStale:
		return ColorErr
	default:
		return ColorDim
	}
}
