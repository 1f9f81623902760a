package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/b0ase/ckb-s3/internal/logging"
	"github.com/b0ase/ckb-s3/internal/surface"
)

var log = logging.For("api")

// DaemonInfo provides read-only access to daemon state for the API.
type DaemonInfo interface {
	Device() string
	Uptime() time.Duration
	// Status returns a copy of the last published snapshot.
	Status() interface{}
}

// FrameSource encodes the last presented frame.
type FrameSource interface {
	WriteJPEG(w io.Writer, quality int) error
}

// corsMiddleware allows cross-origin requests from browser dashboards.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Server is the diagnostic HTTP API of a panel daemon.
type Server struct {
	httpSrv *http.Server
	daemon  DaemonInfo
	frames  FrameSource
	quality int
	bind    string
	port    int
}

// New creates an HTTP server. frames may be nil, in which case
// /screenshot always answers 503.
func New(bind string, port int, daemon DaemonInfo, frames FrameSource) *Server {
	s := &Server{daemon: daemon, frames: frames, quality: surface.DefaultJPEGQuality, bind: bind, port: port}
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for mounting or testing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return corsMiddleware(mux)
}

// Start pre-acquires the port and begins serving HTTP requests.
// If the primary port is in use, it falls back to port+1.
// Returns the actual port bound.
func (s *Server) Start() (int, error) {
	addr := fmt.Sprintf("%s:%d", s.bind, s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fallbackPort := s.port + 1
		fallbackAddr := fmt.Sprintf("%s:%d", s.bind, fallbackPort)
		ln, err = net.Listen("tcp", fallbackAddr)
		if err != nil {
			return 0, fmt.Errorf("listen on %s and fallback %s: %w", addr, fallbackAddr, err)
		}
		log.Warnf("using fallback port %d (primary %d was in use)", fallbackPort, s.port)
		s.port = fallbackPort
	}
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcp.Port
	}

	log.Infof("listening on %s:%d", s.bind, s.port)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Errorf("serve: %v", err)
		}
	}()
	return s.port, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.httpSrv.Shutdown(ctx)
	log.Info("stopped")
}
