package daemon

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/db"
	"github.com/b0ase/ckb-s3/internal/link"
	"github.com/b0ase/ckb-s3/internal/render"
	"github.com/b0ase/ckb-s3/internal/touch"
	"github.com/b0ase/ckb-s3/internal/wallet"
)

const (
	tipReply      = `{"jsonrpc":"2.0","result":{"epoch":"0x7080384002bd2","number":"0x11d7c9f","timestamp":"0x18c8d0a7a3b"},"id":1}`
	peersReply    = `{"jsonrpc":"2.0","result":[{"node_id":"a"},{"node_id":"b"},{"node_id":"c"}],"id":2}`
	poolReply     = `{"jsonrpc":"2.0","result":{"pending":["0x1","0x2"],"proposed":[]},"id":3}`
	nodeInfoReply = `{"jsonrpc":"2.0","result":{"node_id":"QmNQ7xy3ABCDEFGH1234567890abcdef"},"id":4}`
	capReply      = `{"jsonrpc":"2.0","result":{"block_number":"0x2","capacity":"0x2dfbead700"},"id":1}`
)

// ckbNode answers JSON-RPC requests by method name.
func ckbNode(t *testing.T) *httptest.Server {
	t.Helper()
	replies := map[string]string{
		"get_tip_header":     tipReply,
		"get_peers":          peersReply,
		"get_raw_tx_pool":    poolReply,
		"local_node_info":    nodeInfoReply,
		"get_cells_capacity": capReply,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		for method, reply := range replies {
			if strings.Contains(string(body), `"method":"`+method+`"`) {
				w.Write([]byte(reply))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, nodeURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Node.RPCURL = nodeURL
	cfg.Node.Timeout = time.Second
	cfg.Wallet.Timeout = time.Second
	cfg.Wallet.Debounce = 0
	cfg.Wallet.LoopInterval = time.Millisecond
	cfg.Dashboard.PollInterval = 10 * time.Millisecond
	cfg.Link.ConnectTimeout = 50 * time.Millisecond
	return cfg
}

func TestNodeStepPublishesSnapshot(t *testing.T) {
	node := ckbNode(t)
	cfg := testConfig(t, node.URL)

	d, err := NewNode(cfg, Options{Link: link.NewStatic(true, "10.0.0.9")})
	require.NoError(t, err)
	defer d.Stop()

	assert.Zero(t, d.NodeSnapshot().Height)
	assert.Equal(t, uint32(1800), d.NodeSnapshot().Epoch.Length)

	d.Step()
	snap := d.NodeSnapshot()
	assert.Equal(t, uint64(0x11D7C9F), snap.Height)
	assert.Equal(t, uint32(3), snap.PeerCount)
	assert.Equal(t, uint32(2), snap.PendingTxCount)
	assert.Equal(t, "...1234567890abcdef", snap.NodeIDSuffix)
	assert.True(t, snap.Healthy)
	assert.False(t, snap.LastSuccess.IsZero())

	assert.Equal(t, uint64(1), d.Frames().Frames())
	assert.Equal(t, render.Color(0xFD00), d.Frames().PixelAt(2, 2), "accent header after the first success")
	assert.Equal(t, "node", d.Device())
	assert.Equal(t, node.URL, d.NodeEndpoint())
}

func TestNodeLinkDownKeepsLastValues(t *testing.T) {
	node := ckbNode(t)
	ls := link.NewStatic(true, "10.0.0.9")
	d, err := NewNode(testConfig(t, node.URL), Options{Link: ls})
	require.NoError(t, err)
	defer d.Stop()

	d.Step()
	first := d.NodeSnapshot()

	ls.Set(false, "")
	d.Step()
	snap := d.NodeSnapshot()
	assert.False(t, snap.Healthy)
	assert.Equal(t, first.Height, snap.Height)
	assert.Equal(t, first.LastSuccess, snap.LastSuccess)
	assert.Equal(t, uint32(2), snap.PollCount)
	assert.Equal(t, render.ColorErr, d.Frames().PixelAt(2, 2))
}

func TestNodeAppliesProvisionedPrefs(t *testing.T) {
	node := ckbNode(t)
	cfg := testConfig(t, "http://unreachable.invalid:8114")

	require.NoError(t, db.Open(cfg.DBPath()))
	require.NoError(t, db.SetPrefs(config.PrefsNamespace, map[string]string{
		"valid":  "true",
		"url":    node.URL,
		"accent": "2016", // 0x07E0
	}))

	d, err := NewNode(cfg, Options{Link: link.NewStatic(true, "10.0.0.9")})
	require.NoError(t, err)
	defer d.Stop()

	assert.True(t, cfg.Provisioned)
	assert.Equal(t, node.URL, d.NodeEndpoint())
	d.Step()
	assert.Equal(t, render.Color(0x07E0), d.Frames().PixelAt(2, 2))
}

func TestNodeEnvironmentBeatsProvisionedURL(t *testing.T) {
	node := ckbNode(t)
	t.Setenv("CKB_NODE_URL", node.URL)
	cfg := testConfig(t, node.URL)

	require.NoError(t, db.Open(cfg.DBPath()))
	require.NoError(t, db.SetPrefs(config.PrefsNamespace, map[string]string{
		"valid": "true",
		"url":   "http://from-prefs:8114",
	}))

	d, err := NewNode(cfg, Options{Link: link.NewStatic(true, "10.0.0.9")})
	require.NoError(t, err)
	defer d.Stop()

	assert.True(t, cfg.Provisioned)
	assert.Equal(t, node.URL, d.NodeEndpoint())
}

func TestNodeStartStop(t *testing.T) {
	node := ckbNode(t)
	d, err := NewNode(testConfig(t, node.URL), Options{Link: link.NewStatic(true, "10.0.0.9")})
	require.NoError(t, err)

	require.NoError(t, d.Start())
	assert.Eventually(t, func() bool {
		return d.NodeSnapshot().PollCount >= 2
	}, 2*time.Second, 5*time.Millisecond)
	d.Stop()
	d.Stop()
}

func TestNodeTerminalPanel(t *testing.T) {
	node := ckbNode(t)
	sim := tcell.NewSimulationScreen("")
	d, err := NewNode(testConfig(t, node.URL), Options{Link: link.NewStatic(true, "10.0.0.9"), Screen: sim})
	require.NoError(t, err)
	defer d.Stop()
	sim.SetSize(120, 60)

	d.Step()
	r, _, _, _ := sim.GetContent(0, 0)
	assert.Equal(t, '▀', r)
	assert.NotNil(t, d.Quit())
}

func TestTerminalPanelMovesLogsToFile(t *testing.T) {
	node := ckbNode(t)
	cfg := testConfig(t, node.URL)
	d, err := NewNode(cfg, Options{Link: link.NewStatic(true, "10.0.0.9"), Screen: tcell.NewSimulationScreen("")})
	require.NoError(t, err)

	assert.NotEqual(t, os.Stderr, logrus.StandardLogger().Out)
	d.Step()
	d.Stop()
	assert.Equal(t, os.Stderr, logrus.StandardLogger().Out)

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "ckbnoded.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "poll ok")
}

func TestWalletWithoutKey(t *testing.T) {
	node := ckbNode(t)
	cfg := testConfig(t, node.URL)
	cfg.Wallet.LockArgs = "0x4454b23e1523b8f9e88a00c4c521179f444351f4"

	d, err := NewWallet(cfg, Options{Link: link.NewStatic(true, "10.0.0.3")})
	require.NoError(t, err)
	defer d.Stop()

	d.Step()
	snap := d.WalletSnapshot()
	assert.False(t, snap.KeyLoaded)
	assert.False(t, snap.BalanceOK)
	assert.Equal(t, cfg.Wallet.LockArgs, snap.Address)
	assert.Nil(t, d.Quit())
}

func TestWalletSendFlow(t *testing.T) {
	node := ckbNode(t)
	cfg := testConfig(t, node.URL)
	cfg.Wallet.LockArgs = "0x4454b23e1523b8f9e88a00c4c521179f444351f4"
	cfg.Wallet.Address = "ckt1qzda0cr08m85hc8jlnfp3zer7xulejywt49kt2rr0vthywaa50xwsq"
	cfg.Wallet.DefaultRecipient = "ckt1qrecipient"

	require.NoError(t, db.Open(cfg.DBPath()))
	_, err := wallet.Store("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	center := func(b render.Button) touch.Sample { return touch.Tap(b.X+b.W/2, b.Y+b.H/2) }
	script := touch.NewScript(
		center(render.BtnSend),
		center(render.BtnPlus),
		center(render.BtnReview),
		center(render.BtnSign),
	)
	d, err := NewWallet(cfg, Options{Link: link.NewStatic(true, "10.0.0.3"), Input: script})
	require.NoError(t, err)
	defer d.Stop()

	d.ui.Show(render.ScreenHome)
	d.Step()
	snap := d.WalletSnapshot()
	assert.True(t, snap.KeyLoaded)
	assert.True(t, snap.BalanceOK)
	assert.InDelta(t, 1975.0, snap.BalanceCKB, 1e-9)
	assert.Equal(t, cfg.Wallet.Address, snap.Address)
	assert.Equal(t, render.ScreenSend, d.Screen())

	d.Step()
	d.Step()
	assert.Equal(t, render.ScreenConfirm, d.Screen())
	assert.Equal(t, 10.0, d.WalletSnapshot().Send.AmountCKB)
	assert.Equal(t, "ckt1qrecipient", d.WalletSnapshot().Send.Recipient)

	d.Step()
	assert.Equal(t, render.ScreenResult, d.Screen())
	assert.Equal(t, wallet.ErrSigningUnsupported.Error(), d.WalletSnapshot().Send.LastError)
	assert.Zero(t, script.Remaining())
}

func TestWalletStartShowsHome(t *testing.T) {
	node := ckbNode(t)
	d, err := NewWallet(testConfig(t, node.URL), Options{Link: link.NewStatic(true, "10.0.0.3")})
	require.NoError(t, err)

	require.NoError(t, d.Start())
	assert.Eventually(t, func() bool {
		return d.Frames().Frames() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	d.Stop()
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "192.168.68.87:8114", hostOf("http://192.168.68.87:8114"))
	assert.Equal(t, "node.local:8114", hostOf("https://node.local:8114/rpc"))
	assert.Equal(t, "not a url", hostOf("not a url"))
}
