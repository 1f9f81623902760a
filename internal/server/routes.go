package server

import (
	"bytes"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/b0ase/ckb-s3/internal/surface"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const version = "0.3.0"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /screenshot", s.handleScreenshot)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"version":   version,
		"device":    s.daemon.Device(),
		"uptime_ms": s.daemon.Uptime().Milliseconds(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"device":    s.daemon.Device(),
		"uptime_ms": s.daemon.Uptime().Milliseconds(),
		"snapshot":  s.daemon.Status(),
	})
}

// handleScreenshot serves the last presented frame as a JPEG.
func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	if s.frames == nil {
		writeError(w, http.StatusServiceUnavailable, "no framebuffer")
		return
	}
	var buf bytes.Buffer
	if err := s.frames.WriteJPEG(&buf, s.quality); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, surface.ErrNoFrame) {
			code = http.StatusServiceUnavailable
		}
		log.Debugf("screenshot: %v", err)
		writeError(w, code, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", `inline; filename="ckb-`+s.daemon.Device()+`-monitor.jpg"`)
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Write(buf.Bytes())
}
