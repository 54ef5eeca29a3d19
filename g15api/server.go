package g15api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/net/websocket"

	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/iounit"
	"github.com/lookbusy1344/g15emu/proc"
)

// Server is a thin read-only HTTP/websocket status surface for a host
// application embedding the core, modeled on the teacher repo's
// api.Server (health check, JSON status endpoint, websocket stream),
// reduced to what spec.md §6 "External interfaces" actually calls for:
// batch exit status plus an optional live telemetry feed.
type Server struct {
	drum        *drum.Drum
	proc        *proc.Processor
	io          *iounit.Unit
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int
}

// NewServer returns a Server reporting on d/p/u, listening on port.
func NewServer(d *drum.Drum, p *proc.Processor, u *iounit.Unit, port int) *Server {
	s := &Server{
		drum:        d,
		proc:        p,
		io:          u,
		broadcaster: NewBroadcaster(),
		mux:         http.NewServeMux(),
		port:        port,
	}
	// /health and /status are bounded per-request by TimeoutHandler rather
	// than the server's WriteTimeout, which would otherwise also cut off
	// the long-lived /ws stream below.
	s.mux.Handle("/health", http.TimeoutHandler(http.HandlerFunc(s.handleHealth), 15*time.Second, "timeout"))
	s.mux.Handle("/status", http.TimeoutHandler(http.HandlerFunc(s.handleStatus), 15*time.Second, "timeout"))
	s.mux.Handle("/ws", websocket.Handler(s.handleWebSocket))
	return s
}

// Snapshot reads the current status from the drum/processor/I-O unit.
func (s *Server) Snapshot() StatusEvent {
	d := s.drum
	return StatusEvent{
		L:       d.L,
		AR:      uint32(d.AR()),
		MQ:      [2]uint32{uint32(d.MQ(0)), uint32(d.MQ(1))},
		ID:      [2]uint32{uint32(d.ID(0)), uint32(d.ID(1))},
		PN:      [2]uint32{uint32(d.PN(0)), uint32(d.PN(1))},
		Halted:  s.proc.Halted(),
		IOState: s.io.State().String(),
		IOCode:  s.io.OC(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleWebSocket streams one StatusEvent per broadcast until the client
// disconnects.
func (s *Server) handleWebSocket(ws *websocket.Conn) {
	ch := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(ch)

	for event := range ch {
		if err := websocket.JSON.Send(ws, event); err != nil {
			return
		}
	}
}

// PublishLoop publishes a snapshot to all websocket subscribers once per
// interval, until ctx is done. Call it from a goroutine alongside the
// processor's Run.
func (s *Server) PublishLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcaster.Publish(s.Snapshot())
		}
	}
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	// No WriteTimeout here: /ws streams for the life of the connection;
	// /health and /status get their own TimeoutHandler deadline instead.
	s.server = &http.Server{
		Addr:        fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:     s.mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	log.Printf("g15api server starting on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and the broadcaster.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
