package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/daemon"
	"github.com/b0ase/ckb-s3/internal/logging"
	"github.com/b0ase/ckb-s3/internal/mcpserver"
)

var Version = "0.3.0"

var log = logging.For("main")

func main() {
	cfgPath := flag.String("config", "", "path to ckb.yaml")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio")
	flag.Parse()

	orange := "\033[38;5;208m"
	reset := "\033[0m"
	dim := "\033[2m"
	fmt.Fprintf(os.Stderr, orange+"\n  CKB WALLET\n"+reset+"  "+dim+"touch wallet panel  v%s"+reset+"\n\n", Version)

	if *cfgPath == "" {
		home, _ := os.UserHomeDir()
		*cfgPath = filepath.Join(home, ".ckb-s3", "ckb.yaml")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Setup(cfg.Log); err != nil {
		log.Fatalf("logging: %v", err)
	}
	if *mcpMode {
		cfg.Display.Terminal = false
	} else if !cfg.Display.Terminal {
		log.Warn("display.terminal is off; the wallet has no touch input")
	}

	d, err := daemon.NewWallet(cfg, daemon.Options{})
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	if err := d.Start(); err != nil {
		log.Fatalf("start daemon: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *mcpMode {
		go func() {
			if err := mcpserver.New(Version, d).Run(ctx); err != nil {
				log.Errorf("mcp: %v", err)
			}
			cancel()
		}()
	}

	select {
	case <-ctx.Done():
	case <-d.Quit():
	}
	log.Info("shutting down")
	d.Stop()
	log.Info("goodbye")
}
