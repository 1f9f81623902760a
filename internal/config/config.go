package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// PrefsNamespace is the preference-store namespace written by provisioning.
const PrefsNamespace = "ckbcfg"

type LinkConfig struct {
	SSID           string        `yaml:"ssid"`
	Password       string        `yaml:"password"`
	Interface      string        `yaml:"interface"` // empty = any non-loopback interface
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type NodeConfig struct {
	RPCURL     string        `yaml:"rpc_url"`
	Timeout    time.Duration `yaml:"timeout"`
	StrictJSON bool          `yaml:"strict_json"` // decode responses with a real JSON parser
}

type DashboardConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

type WalletConfig struct {
	RPCURL           string        `yaml:"rpc_url"` // indexer endpoint; falls back to node.rpc_url
	Timeout          time.Duration `yaml:"timeout"`
	BalanceInterval  time.Duration `yaml:"balance_interval"`
	LoopInterval     time.Duration `yaml:"loop_interval"`
	Debounce         time.Duration `yaml:"debounce"`
	LockArgs         string        `yaml:"lock_args"`
	Address          string        `yaml:"address"`
	DefaultRecipient string        `yaml:"default_recipient"`
}

// RGB is an 8-bit-per-channel color as written in the config file.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// RGB565 packs the color into the panel's 16-bit format.
func (c RGB) RGB565() uint16 {
	return uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B>>3)
}

// RGBFrom565 expands a packed 16-bit color back to 8 bits per channel.
func RGBFrom565(v uint16) RGB {
	r5 := uint8(v>>11) & 0x1F
	g6 := uint8(v>>5) & 0x3F
	b5 := uint8(v) & 0x1F
	return RGB{
		R: r5<<3 | r5>>2,
		G: g6<<2 | g6>>4,
		B: b5<<3 | b5>>2,
	}
}

type ThemeConfig struct {
	Accent     RGB `yaml:"accent"`
	Background RGB `yaml:"background"`
}

type DisplayConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	Terminal bool `yaml:"terminal"` // mirror the framebuffer onto the controlling terminal
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Bind    string `yaml:"bind"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Link      LinkConfig      `yaml:"link"`
	Node      NodeConfig      `yaml:"node"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Theme     ThemeConfig     `yaml:"theme"`
	Display   DisplayConfig   `yaml:"display"`
	API       APIConfig       `yaml:"api"`
	Log       LogConfig       `yaml:"log"`

	// Provisioned is set when a valid preference overlay was applied.
	Provisioned bool `yaml:"-"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir: filepath.Join(home, ".ckb-s3"),
		Link: LinkConfig{
			ConnectTimeout: 30 * time.Second,
		},
		Node: NodeConfig{
			RPCURL:  "http://192.168.68.87:8114",
			Timeout: 5 * time.Second,
		},
		Dashboard: DashboardConfig{
			PollInterval: 6 * time.Second, // ~1 block time
		},
		Wallet: WalletConfig{
			Timeout:         5 * time.Second,
			BalanceInterval: 30 * time.Second,
			LoopInterval:    20 * time.Millisecond,
			Debounce:        150 * time.Millisecond,
		},
		Theme: ThemeConfig{
			Accent:     RGB{R: 0xFF, G: 0xA2, B: 0x00}, // 0xFD00
			Background: RGB{R: 0x08, G: 0x08, B: 0x08}, // 0x0841
		},
		Display: DisplayConfig{
			Width:  480,
			Height: 480,
		},
		API: APIConfig{
			Port: 8080,
			Bind: "127.0.0.1",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file and merges it with defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file: defaults + env overlay
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	return fromBytes(cfg, data)
}

// LoadFromBytes parses YAML config from bytes and merges with defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	return fromBytes(DefaultConfig(), data)
}

func fromBytes(cfg *Config, data []byte) (*Config, error) {
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Expand ~ in data_dir
	if len(cfg.DataDir) > 0 && cfg.DataDir[0] == '~' {
		home, _ := os.UserHomeDir()
		cfg.DataDir = filepath.Join(home, cfg.DataDir[1:])
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type envOverlay struct {
	WiFiSSID   string `envconfig:"WIFI_SSID"`
	WiFiPass   string `envconfig:"WIFI_PASS"`
	NodeURL    string `envconfig:"NODE_URL"`
	IndexerURL string `envconfig:"INDEXER_URL"`
	DataDir    string `envconfig:"DATA_DIR"`
	LockArgs   string `envconfig:"LOCK_ARGS"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
}

// ApplyEnv overlays CKB_* environment variables on top of config values.
func (c *Config) ApplyEnv() error {
	var env envOverlay
	if err := envconfig.Process("CKB", &env); err != nil {
		return fmt.Errorf("env overlay: %w", err)
	}
	if env.WiFiSSID != "" {
		c.Link.SSID = env.WiFiSSID
	}
	if env.WiFiPass != "" {
		c.Link.Password = env.WiFiPass
	}
	if env.NodeURL != "" {
		c.Node.RPCURL = env.NodeURL
	}
	if env.IndexerURL != "" {
		c.Wallet.RPCURL = env.IndexerURL
	}
	if env.DataDir != "" {
		c.DataDir = env.DataDir
	}
	if env.LockArgs != "" {
		c.Wallet.LockArgs = env.LockArgs
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	return nil
}

// ApplyPrefs overlays provisioned preferences. Nothing is applied unless the
// namespace carries valid=true; empty strings keep the current value.
// Colors are stored as packed RGB565 decimal values.
func (c *Config) ApplyPrefs(prefs map[string]string) {
	if prefs["valid"] != "true" {
		return
	}
	c.Provisioned = true
	if v := prefs["ssid"]; v != "" {
		c.Link.SSID = v
	}
	if v := prefs["pass"]; v != "" {
		c.Link.Password = v
	}
	if v := prefs["url"]; v != "" {
		c.Node.RPCURL = v
	}
	if v, err := strconv.ParseUint(prefs["accent"], 10, 16); err == nil {
		c.Theme.Accent = RGBFrom565(uint16(v))
	}
	if v, err := strconv.ParseUint(prefs["bg"], 10, 16); err == nil {
		c.Theme.Background = RGBFrom565(uint16(v))
	}
}

// OverlayPrefs applies provisioned preferences, then re-applies the
// environment so CKB_* values keep the last word.
func (c *Config) OverlayPrefs(prefs map[string]string) error {
	c.ApplyPrefs(prefs)
	return c.ApplyEnv()
}

// WalletRPCURL returns the endpoint used for balance queries.
func (c *Config) WalletRPCURL() string {
	if c.Wallet.RPCURL != "" {
		return c.Wallet.RPCURL
	}
	return c.Node.RPCURL
}

// DBPath returns the full path to the SQLite preference store.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "prefs.db")
}
