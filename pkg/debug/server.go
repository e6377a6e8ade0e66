// Package debug exposes a renderer's committed fiber tree and runtime
// counters as JSON over an in-process HTTP server, for inspection while
// an app is running.
package debug

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/go-didact/didact/pkg/reconciler"
)

// Target is the renderer surface the server reads.
type Target interface {
	TreeSnapshot() *reconciler.FiberSnapshot
	Stats() reconciler.Stats
}

// Server serves diagnostics for one render target.
type Server struct {
	target Target
	// dispatch marshals reads onto the renderer's goroutine. nil means
	// the caller guarantees the renderer is not running concurrently.
	dispatch func(func())

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a debug server for target. dispatch, when non-nil,
// is used to run snapshot reads on the renderer's goroutine (for example
// didact.App.Dispatch).
func NewServer(target Target, dispatch func(func())) *Server {
	return &Server{target: target, dispatch: dispatch}
}

// Start binds the server on the given port and begins serving. Returns
// the actual port, useful when port=0 requests ephemeral allocation.
func (s *Server) Start(port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().(*net.TCPAddr).Port, nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("debug server listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tree", s.handleTree)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/health", handleHealth)

	server := &http.Server{Handler: mux}
	s.server = server
	s.listener = listener

	go server.Serve(listener)

	return listener.Addr().(*net.TCPAddr).Port, nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

// read runs fn on the renderer's goroutine when a dispatcher is
// configured, and waits for it to finish.
func (s *Server) read(fn func()) {
	if s.dispatch == nil {
		fn()
		return
	}
	done := make(chan struct{})
	s.dispatch(func() {
		fn()
		close(done)
	})
	<-done
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var tree *reconciler.FiberSnapshot
	s.read(func() {
		tree = s.target.TreeSnapshot()
	})
	if tree == nil {
		http.Error(w, "no committed tree", http.StatusServiceUnavailable)
		return
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var stats reconciler.Stats
	s.read(func() {
		stats = s.target.Stats()
	})

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
