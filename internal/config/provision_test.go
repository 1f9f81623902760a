package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisioningApply(t *testing.T) {
	p, err := ParseProvisioning([]byte(`{
		"wifi_ssid": "lab",
		"node_url": "http://192.168.1.5:8114",
		"accent_r": 255, "accent_g": 0, "accent_b": 0,
		"bg_r": 8, "bg_g": 8
	}`))
	require.NoError(t, err)

	prefs, err := p.Apply(map[string]string{"pass": "secret", "bg": "2145"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"valid":  "true",
		"ssid":   "lab",
		"pass":   "secret",
		"url":    "http://192.168.1.5:8114",
		"accent": "63488",
		"bg":     "2145",
	}, prefs)

	cfg := DefaultConfig()
	cfg.ApplyPrefs(prefs)
	assert.Equal(t, "http://192.168.1.5:8114", cfg.Node.RPCURL)
	assert.Equal(t, uint16(0xF800), cfg.Theme.Accent.RGB565())
	assert.Equal(t, uint16(0x0861), cfg.Theme.Background.RGB565())
}

func TestProvisioningRejects(t *testing.T) {
	_, err := ParseProvisioning([]byte(`{"wifi_ssid": `))
	assert.Error(t, err)

	p, err := ParseProvisioning([]byte(`{"accent_r": 256, "accent_g": 0, "accent_b": 0}`))
	require.NoError(t, err)
	_, err = p.Apply(nil)
	assert.ErrorContains(t, err, "accent_r")
}

func TestProvisioningEmptyBlobStillValid(t *testing.T) {
	p, err := ParseProvisioning([]byte(`{}`))
	require.NoError(t, err)
	prefs, err := p.Apply(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"valid": "true"}, prefs)
}
