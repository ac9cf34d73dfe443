// Package stream broadcasts simulation frames to websocket clients and
// serves the latest frame over plain HTTP.
package stream

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"beeclust/internal/sims/beeclust"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	clientBuffer = 8
)

// Frame is one published view of a running simulation.
type Frame struct {
	RunID    string                `json:"run_id"`
	Stats    beeclust.Stats        `json:"stats"`
	Grid     [][]int               `json:"grid"`
	Clusters [][]beeclust.Position `json:"clusters"`
}

// FrameOf copies the current state of sim into a Frame.
func FrameOf(runID string, sim *beeclust.Simulation) Frame {
	return Frame{
		RunID:    runID,
		Stats:    sim.Stats(),
		Grid:     sim.Grid(),
		Clusters: sim.Clusters(),
	}
}

// Temperature encodes NaN as JSON null.
type Temperature float64

// MarshalJSON implements json.Marshaler.
func (t Temperature) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(t)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(t))
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server fans frames out to websocket subscribers. Publish never blocks on a
// slow client; frames that do not fit in a client's buffer are dropped.
type Server struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	heat    []byte
	closed  bool
}

// NewServer creates a server. A nil logger discards output.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Handler routes /ws, /state, /heat and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWS)
	mux.HandleFunc("GET /state", s.serveState)
	mux.HandleFunc("GET /heat", s.serveHeat)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// Clients returns the number of connected subscribers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Publish stores f as the latest frame and queues it for every subscriber.
func (s *Server) Publish(f Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = payload
	for c := range s.clients {
		select {
		case c.send <- payload:
		default:
			s.logger.Debug("dropping frame for slow client", "remote", c.conn.RemoteAddr().String(), "tick", f.Stats.Tick)
		}
	}
	return nil
}

// SetHeatField stores the heat field served on /heat. Walls are encoded as
// null.
func (s *Server) SetHeatField(rows [][]float64) error {
	out := make([][]Temperature, len(rows))
	for r, row := range rows {
		out[r] = make([]Temperature, len(row))
		for c, v := range row {
			out[r][c] = Temperature(v)
		}
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.heat = payload
	s.mu.Unlock()
	return nil
}

// Close disconnects every subscriber and rejects new ones.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
}

func (s *Server) serveState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload := s.latest
	s.mu.Unlock()
	writeJSON(w, payload)
}

func (s *Server) serveHeat(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload := s.heat
	s.mu.Unlock()
	writeJSON(w, payload)
}

func writeJSON(w http.ResponseWriter, payload []byte) {
	if payload == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	if s.latest != nil {
		c.send <- s.latest
	}
	s.mu.Unlock()
	s.logger.Info("stream client connected", "remote", conn.RemoteAddr().String())

	go s.writePump(c)
	s.readPump(c)
}

// readPump discards client messages and unregisters the client once the
// connection fails.
func (s *Server) readPump(c *client) {
	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			close(c.send)
		}
		s.mu.Unlock()
		s.logger.Info("stream client disconnected", "remote", c.conn.RemoteAddr().String())
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Debug("stream write failed", "err", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
