package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Open(path))
	t.Cleanup(Close)
}

func TestOpenClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	require.NoError(t, Open(path))
	assert.Equal(t, path, Path())

	require.NoError(t, Open(path))
	assert.ErrorIs(t, Open(filepath.Join(t.TempDir(), "other.db")), ErrOtherStore)

	Close()
	assert.Equal(t, "", Path())
	Close()

	require.NoError(t, Open(path))
	defer Close()
	require.NoError(t, SetPref("ckbcfg", "url", "http://a:8114"))
}

func TestPrefGetSet(t *testing.T) {
	setupTestDB(t)

	val, err := GetPref("ckbcfg", "url")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, SetPref("ckbcfg", "url", "http://10.0.0.1:8114"))
	val, err = GetPref("ckbcfg", "url")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:8114", val)

	// Overwrite
	require.NoError(t, SetPref("ckbcfg", "url", "http://10.0.0.2:8114"))
	val, _ = GetPref("ckbcfg", "url")
	assert.Equal(t, "http://10.0.0.2:8114", val)

	// Namespaces are isolated
	val, _ = GetPref("ckb-wallet", "url")
	assert.Equal(t, "", val)
}

func TestSetPrefsAndGetPrefs(t *testing.T) {
	setupTestDB(t)

	empty, err := GetPrefs("ckbcfg")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, SetPrefs("ckbcfg", map[string]string{
		"valid":  "true",
		"ssid":   "lab",
		"accent": "64768",
	}))
	require.NoError(t, SetPref("ckb-wallet", "privkey", "00"))

	got, err := GetPrefs("ckbcfg")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"valid": "true", "ssid": "lab", "accent": "64768"}, got)
}

func TestDeletePref(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SetPref("ckb-wallet", "privkey", "abcd"))
	require.NoError(t, DeletePref("ckb-wallet", "privkey"))
	val, err := GetPref("ckb-wallet", "privkey")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestClosedStore(t *testing.T) {
	_, err := GetPref("ckbcfg", "url")
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, SetPref("ckbcfg", "url", "x"), ErrNotOpen)
}
