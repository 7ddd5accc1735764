package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = json.Marshal

// Server exposes live run state over HTTP: a JSON dashboard
// snapshot at /dashboard, a Server-Sent Events stream at
// /events, and a WebSocket endpoint at /ws.
type Server struct {
	mu        sync.RWMutex
	collector *EventCollector
	dashboard *DashboardData
	sse       map[chan []byte]struct{}
	ws        map[*wsClient]struct{}
	metrics   http.Handler
	addr      string
	server    *http.Server
}

// NewServer creates a monitor server for the given collector
// and dashboard.
func NewServer(addr string, collector *EventCollector, dashboard *DashboardData) *Server {
	return &Server{
		addr:      addr,
		collector: collector,
		dashboard: dashboard,
		sse:       make(map[chan []byte]struct{}),
		ws:        make(map[*wsClient]struct{}),
	}
}

// AttachMetrics mounts h at /metrics. Must be called before
// Start.
func (s *Server) AttachMetrics(h http.Handler) {
	s.metrics = h
}

// Start begins serving. It blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleSSE)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	// Feed collected events into the dashboard and out to all
	// connected clients.
	s.collector.OnEvent(func(event Event) {
		s.dashboard.UpdateFromEvent(event)
		data, err := jsonMarshal(event)
		if err != nil {
			return
		}
		s.broadcast(data)
	})

	go func() {
		<-ctx.Done()
		s.server.Close()
		s.closeClients()
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	defer s.closeClients()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := make(chan []byte, 32)
	s.mu.Lock()
	s.sse[ch] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sse, ch)
		s.mu.Unlock()
		close(ch)
	}()

	// Send the current dashboard state first so late joiners
	// see the full picture.
	if data, err := jsonMarshal(s.dashboard.Snapshot()); err == nil {
		fmt.Fprintf(w, "event: dashboard\ndata: %s\n\n", data)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: scenario\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.dashboard.Snapshot())
}

func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.sse {
		select {
		case ch <- data:
		default:
			// Client too slow, skip
		}
	}
	for client := range s.ws {
		select {
		case client.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// closeClients force-closes all WebSocket connections. SSE
// handlers exit on their own when the server closes their
// request connections.
func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.ws {
		client.conn.Close()
		delete(s.ws, client)
	}
}
