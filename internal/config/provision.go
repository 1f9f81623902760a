package config

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// Provisioning is the configuration blob a browser tool sends to a fresh
// panel. Every field is optional; a color is applied only when all three
// channels are present.
type Provisioning struct {
	WiFiSSID *string `json:"wifi_ssid"`
	WiFiPass *string `json:"wifi_pass"`
	NodeURL  *string `json:"node_url"`
	AccentR  *int    `json:"accent_r"`
	AccentG  *int    `json:"accent_g"`
	AccentB  *int    `json:"accent_b"`
	BgR      *int    `json:"bg_r"`
	BgG      *int    `json:"bg_g"`
	BgB      *int    `json:"bg_b"`
}

// ParseProvisioning decodes a provisioning blob.
func ParseProvisioning(data []byte) (*Provisioning, error) {
	var p Provisioning
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse provisioning: %w", err)
	}
	return &p, nil
}

func channel(name string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%s: %d out of range 0-255", name, v)
	}
	return uint8(v), nil
}

func color(prefix string, r, g, b *int) (*RGB, error) {
	if r == nil || g == nil || b == nil {
		return nil, nil
	}
	var c RGB
	var err error
	if c.R, err = channel(prefix+"_r", *r); err != nil {
		return nil, err
	}
	if c.G, err = channel(prefix+"_g", *g); err != nil {
		return nil, err
	}
	if c.B, err = channel(prefix+"_b", *b); err != nil {
		return nil, err
	}
	return &c, nil
}

// Apply merges the blob over existing preference values and marks the
// result valid. Colors are stored as packed RGB565 decimal strings.
func (p *Provisioning) Apply(existing map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(existing)+6)
	for k, v := range existing {
		out[k] = v
	}
	if p.WiFiSSID != nil {
		out["ssid"] = *p.WiFiSSID
	}
	if p.WiFiPass != nil {
		out["pass"] = *p.WiFiPass
	}
	if p.NodeURL != nil {
		out["url"] = *p.NodeURL
	}

	accent, err := color("accent", p.AccentR, p.AccentG, p.AccentB)
	if err != nil {
		return nil, err
	}
	if accent != nil {
		out["accent"] = strconv.Itoa(int(accent.RGB565()))
	}
	bg, err := color("bg", p.BgR, p.BgG, p.BgB)
	if err != nil {
		return nil, err
	}
	if bg != nil {
		out["bg"] = strconv.Itoa(int(bg.RGB565()))
	}

	out["valid"] = "true"
	return out, nil
}
